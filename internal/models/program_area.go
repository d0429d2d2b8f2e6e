package models

// ProgramArea is an optional grouping facet applied to people and courses.
type ProgramArea struct {
	Name string `json:"name"`
}

// Record flattens the program area for CSV output.
func (p ProgramArea) Record() map[string]string {
	return map[string]string{"name": p.Name}
}

// ProgramAreaFromRecord builds a ProgramArea from a flat record.
func ProgramAreaFromRecord(rec map[string]string) ProgramArea {
	return ProgramArea{Name: rec["name"]}
}
