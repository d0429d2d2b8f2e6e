package models

// Person is an individual who can be enrolled into sections.
type Person struct {
	Name            string `json:"name"`
	UserID          string `json:"user_id"`
	ProgramAreaName string `json:"program_area_name"`
}

// Record flattens the person for CSV output.
func (p Person) Record() map[string]string {
	return map[string]string{
		"name":              p.Name,
		"user_id":           p.UserID,
		"program_area_name": p.ProgramAreaName,
	}
}

// PersonFromRecord builds a Person from a flat record. The program area is
// optional and defaults to empty.
func PersonFromRecord(rec map[string]string) Person {
	return Person{
		Name:            rec["name"],
		UserID:          rec["user_id"],
		ProgramAreaName: rec["program_area_name"],
	}
}
