package models

// SectionStatus represents the lifecycle of a section.
type SectionStatus string

// Possible section statuses.
const (
	SectionStatusActive    SectionStatus = "active"
	SectionStatusDeleted   SectionStatus = "deleted"
	SectionStatusCompleted SectionStatus = "completed"
	SectionStatusPublished SectionStatus = "published"
)

// Section is one term-specific offering of a course, carrying its own
// account, dates, status and enrollment roster. Sections hold stable IDs so
// callers never address them by list position.
type Section struct {
	ID              string       `json:"id"`
	CourseIDPortion string       `json:"course_id_portion"`
	TermName        string       `json:"term_name"`
	AccountID       string       `json:"account_id"`
	SectionNumber   string       `json:"section_number"`
	Status          string       `json:"status"`
	StartDate       string       `json:"start_date"`
	EndDate         string       `json:"end_date"`
	Enrollments     []Enrollment `json:"enrollments"`
}

// HasEnrollment reports whether the roster already holds the given user.
func (s *Section) HasEnrollment(userID string) bool {
	for _, e := range s.Enrollments {
		if e.UserID == userID {
			return true
		}
	}
	return false
}

// SectionDetail enriches Section with resolved course and term display data
// for listing.
type SectionDetail struct {
	Section
	CourseShortName string `json:"course_short_name"`
	TermID          string `json:"term_id"`
}
