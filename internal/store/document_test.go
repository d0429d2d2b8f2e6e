package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsmith-dev/canvas-sis-prep/internal/models"
)

func tempDataFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "course_data.json")
}

func TestPersisterRoundTrip(t *testing.T) {
	path := tempDataFile(t)
	persister := NewPersister(path, nil)

	st := New(nil)
	require.NoError(t, st.AddProgramArea(models.ProgramArea{Name: "Engineering"}))
	require.NoError(t, st.AddPerson(models.Person{UserID: "u1", Name: "Ada", ProgramAreaName: "Engineering"}))
	require.NoError(t, st.AddCourse(models.NewCourse("Intro CS", "Introduction to Computer Science", "CS101", "Engineering")))
	require.NoError(t, st.AddTerm(models.Term{Name: "Fall 2025", TermID: "2251", ShortCode: "FA25"}))
	require.NoError(t, st.AddAccount(models.Account{AccountID: "ENG"}))
	sec := st.AddSection(models.Section{CourseIDPortion: "CS101", TermName: "Fall 2025", AccountID: "ENG", SectionNumber: "01"})
	_, err := st.AddEnrollment(sec.ID, models.Enrollment{UserID: "u1", Role: "Student"})
	require.NoError(t, err)
	st.SetEnrollmentRole("Lab Monitor", "observer")

	require.NoError(t, persister.Save(st))

	loaded := New(nil)
	persister.Load(loaded)

	people := loaded.People()
	require.Len(t, people, 1)
	assert.Equal(t, "Ada", people[0].Name)

	course, ok := loaded.Course("CS101")
	require.True(t, ok)
	assert.Equal(t, "Intro CS", course.ShortName)

	term, ok := loaded.Term("Fall 2025")
	require.True(t, ok)
	assert.Equal(t, "FA25", term.ShortCode)

	sections := loaded.Sections()
	require.Len(t, sections, 1)
	assert.Equal(t, sec.ID, sections[0].ID)
	require.Len(t, sections[0].Enrollments, 1)
	assert.Equal(t, "u1", sections[0].Enrollments[0].UserID)

	assert.Equal(t, "observer", loaded.ResolveRole("Lab Monitor"))
}

func TestLoadMissingFileStartsFresh(t *testing.T) {
	persister := NewPersister(tempDataFile(t), nil)
	st := New(nil)
	persister.Load(st)

	assert.Empty(t, st.People())
	assert.Equal(t, models.DefaultEnrollmentRoles(), st.EnrollmentRoles())
}

func TestLoadCorruptFileStartsFresh(t *testing.T) {
	path := tempDataFile(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	persister := NewPersister(path, nil)
	st := New(nil)
	require.NoError(t, st.AddPerson(models.Person{UserID: "stale", Name: "Stale"}))
	persister.Load(st)

	assert.Empty(t, st.People())
	assert.Equal(t, models.DefaultEnrollmentRoles(), st.EnrollmentRoles())
}

func TestLoadMigratesLegacyDepartments(t *testing.T) {
	path := tempDataFile(t)
	doc := `{
        "people": {},
        "courses": {},
        "terms": {},
        "accounts": {},
        "departments": {
            "Engineering": {"name": "Engineering"}
        },
        "sections": []
    }`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	st := New(nil)
	NewPersister(path, nil).Load(st)

	area, ok := st.ProgramArea("Engineering")
	require.True(t, ok)
	assert.Equal(t, "Engineering", area.Name)
}

func TestLoadReKeysTermsByDisplayName(t *testing.T) {
	path := tempDataFile(t)
	doc := `{
        "terms": {
            "2251": {"term_id": "2251", "name": "Fall 2025", "short_code": "FA25"},
            "2260": {"term_id": "2260", "name": "", "short_code": "W26"}
        }
    }`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	st := New(nil)
	NewPersister(path, nil).Load(st)

	_, ok := st.Term("2251")
	assert.False(t, ok)
	term, ok := st.Term("Fall 2025")
	require.True(t, ok)
	assert.Equal(t, "2251", term.TermID)

	// A nameless term falls back to its id.
	fallback, ok := st.Term("2260")
	require.True(t, ok)
	assert.Equal(t, "2260", fallback.Name)
}

func TestLoadResolvesLegacySectionTermID(t *testing.T) {
	path := tempDataFile(t)
	doc := `{
        "terms": {
            "Fall 2025": {"term_id": "2251", "name": "Fall 2025", "short_code": "FA25"}
        },
        "sections": [
            {"course_id_portion": "CS101", "term_id": "2251", "section_number": "01"}
        ]
    }`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	st := New(nil)
	NewPersister(path, nil).Load(st)

	sections := st.Sections()
	require.Len(t, sections, 1)
	assert.Equal(t, "Fall 2025", sections[0].TermName)
	assert.NotEmpty(t, sections[0].ID)
	assert.Equal(t, string(models.SectionStatusActive), sections[0].Status)
	assert.NotNil(t, sections[0].Enrollments)
}

func TestLoadRewritesTermNameStoredAsTermID(t *testing.T) {
	path := tempDataFile(t)
	doc := `{
        "terms": {
            "Fall 2025": {"term_id": "2251", "name": "Fall 2025", "short_code": "FA25"}
        },
        "sections": [
            {"id": "s1", "course_id_portion": "CS101", "term_name": "2251", "section_number": "01", "status": "active", "enrollments": []}
        ]
    }`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	st := New(nil)
	NewPersister(path, nil).Load(st)

	sections := st.Sections()
	require.Len(t, sections, 1)
	assert.Equal(t, "Fall 2025", sections[0].TermName)
}

func TestLoadBackfillsEnrollmentIDs(t *testing.T) {
	path := tempDataFile(t)
	doc := `{
        "sections": [
            {"id": "s1", "course_id_portion": "CS101", "term_name": "Fall 2025", "section_number": "01",
             "enrollments": [{"user_id": "u1", "role": "Student"}]}
        ]
    }`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	st := New(nil)
	NewPersister(path, nil).Load(st)

	sections := st.Sections()
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Enrollments, 1)
	assert.NotEmpty(t, sections[0].Enrollments[0].ID)
	assert.Equal(t, string(models.EnrollmentStatusActive), sections[0].Enrollments[0].Status)
}

func TestClearAllResetsAndRemovesFile(t *testing.T) {
	path := tempDataFile(t)
	persister := NewPersister(path, nil)

	st := New(nil)
	require.NoError(t, st.AddPerson(models.Person{UserID: "u1", Name: "Ada"}))
	require.NoError(t, persister.Save(st))
	require.FileExists(t, path)

	require.NoError(t, persister.ClearAll(st))
	assert.Empty(t, st.People())
	assert.NoFileExists(t, path)

	// Clearing again with no file present is not an error.
	require.NoError(t, persister.ClearAll(st))
}
