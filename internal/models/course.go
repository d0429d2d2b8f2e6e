package models

import "strings"

// Course is a catalog entry; sections reference it by CourseIDPortion.
type Course struct {
	ShortName       string `json:"short_name"`
	LongName        string `json:"long_name"`
	CourseIDPortion string `json:"course_id_portion"`
	ProgramAreaName string `json:"program_area_name"`
}

// NewCourse constructs a course, upper-casing the course id portion.
func NewCourse(shortName, longName, courseIDPortion, programAreaName string) Course {
	return Course{
		ShortName:       shortName,
		LongName:        longName,
		CourseIDPortion: strings.ToUpper(courseIDPortion),
		ProgramAreaName: programAreaName,
	}
}

// Record flattens the course for CSV output.
func (c Course) Record() map[string]string {
	return map[string]string{
		"short_name":        c.ShortName,
		"long_name":         c.LongName,
		"course_id_portion": c.CourseIDPortion,
		"program_area_name": c.ProgramAreaName,
	}
}

// CourseFromRecord builds a Course from a flat record, upper-casing the id
// portion the same way NewCourse does.
func CourseFromRecord(rec map[string]string) Course {
	return NewCourse(rec["short_name"], rec["long_name"], rec["course_id_portion"], rec["program_area_name"])
}
