package models

// Term is an academic term. Terms are addressed by display Name; TermID is
// the SIS identifier and need not be unique.
type Term struct {
	TermID    string `json:"term_id"`
	Name      string `json:"name"`
	ShortCode string `json:"short_code"`
}

// Record flattens the term for CSV output.
func (t Term) Record() map[string]string {
	return map[string]string{
		"term_id":    t.TermID,
		"name":       t.Name,
		"short_code": t.ShortCode,
	}
}

// TermFromRecord builds a Term from a flat record; every field tolerates
// being absent.
func TermFromRecord(rec map[string]string) Term {
	return Term{
		TermID:    rec["term_id"],
		Name:      rec["name"],
		ShortCode: rec["short_code"],
	}
}
