package models

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCompleted EnrollmentStatus = "completed"
	EnrollmentStatusInactive  EnrollmentStatus = "inactive"
	EnrollmentStatusDeleted   EnrollmentStatus = "deleted"
)

// Enrollment captures a person's participation in one section. Role holds
// the display role name; translation to the Canvas role value happens only
// at export time.
type Enrollment struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// EnrollmentFromRecord builds an Enrollment from a flat record, defaulting
// status to active.
func EnrollmentFromRecord(rec map[string]string) Enrollment {
	status := rec["status"]
	if status == "" {
		status = string(EnrollmentStatusActive)
	}
	return Enrollment{
		ID:     rec["id"],
		UserID: rec["user_id"],
		Role:   rec["role"],
		Status: status,
	}
}

// DefaultEnrollmentRoles returns the seed display-name to Canvas-role map
// installed into a fresh dataset.
func DefaultEnrollmentRoles() map[string]string {
	return map[string]string{
		"Student":            "student",
		"Teaching Assistant": "ta",
		"Instructor":         "teacher",
		"Program Manager":    "Program Manager",
	}
}
