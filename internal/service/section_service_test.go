package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsmith-dev/canvas-sis-prep/internal/models"
	"github.com/hsmith-dev/canvas-sis-prep/internal/store"
	appErrors "github.com/hsmith-dev/canvas-sis-prep/pkg/errors"
)

func newSectionFixture(t *testing.T) (*store.Store, *SectionService, *persisterSpy) {
	t.Helper()
	st := store.New(nil)
	spy := &persisterSpy{}
	return st, NewSectionService(st, spy, nil, nil), spy
}

func TestSectionCreateAssignsDefaults(t *testing.T) {
	_, svc, spy := newSectionFixture(t)

	sec, err := svc.Create(SectionRequest{
		CourseIDPortion: "CS101",
		TermName:        "Fall 2025",
		AccountID:       "ENG",
		SectionNumber:   "01",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sec.ID)
	assert.Equal(t, string(models.SectionStatusActive), sec.Status)
	assert.Equal(t, 1, spy.saves)
}

func TestSectionCreateRejectsBadStatus(t *testing.T) {
	_, svc, spy := newSectionFixture(t)

	_, err := svc.Create(SectionRequest{
		CourseIDPortion: "CS101",
		TermName:        "Fall 2025",
		AccountID:       "ENG",
		SectionNumber:   "01",
		Status:          "archived",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, spy.saves)
}

func TestSectionListResolvesDisplayData(t *testing.T) {
	st, svc, _ := newSectionFixture(t)
	require.NoError(t, st.AddCourse(models.NewCourse("Intro CS", "Introduction to Computer Science", "CS101", "")))
	require.NoError(t, st.AddTerm(models.Term{Name: "Fall 2025", TermID: "2251", ShortCode: "FA25"}))
	st.AddSection(models.Section{CourseIDPortion: "CS101", TermName: "Fall 2025", SectionNumber: "01"})
	st.AddSection(models.Section{CourseIDPortion: "GHOST", TermName: "Nowhere", SectionNumber: "02"})

	details := svc.List()
	require.Len(t, details, 2)
	assert.Equal(t, "Intro CS", details[0].CourseShortName)
	assert.Equal(t, "2251", details[0].TermID)
	assert.Empty(t, details[1].CourseShortName)
	assert.Empty(t, details[1].TermID)
}

func TestSectionDeleteRequiresIDs(t *testing.T) {
	_, svc, spy := newSectionFixture(t)

	_, err := svc.Delete(nil)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = svc.Delete([]string{"no-such-id"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Zero(t, spy.saves)
}

func TestSectionAddEnrollmentDuplicate(t *testing.T) {
	st, svc, spy := newSectionFixture(t)
	sec := st.AddSection(models.Section{CourseIDPortion: "CS101", TermName: "Fall 2025", SectionNumber: "01"})

	_, err := svc.AddEnrollment(sec.ID, EnrollmentRequest{UserID: "u1", Role: "Student"})
	require.NoError(t, err)
	_, err = svc.AddEnrollment(sec.ID, EnrollmentRequest{UserID: "u1", Role: "Instructor"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateEnrollment))
	assert.Equal(t, 1, spy.saves)
}

func TestSectionDeleteEnrollments(t *testing.T) {
	st, svc, spy := newSectionFixture(t)
	sec := st.AddSection(models.Section{CourseIDPortion: "CS101", TermName: "Fall 2025", SectionNumber: "01"})
	enrollment, err := svc.AddEnrollment(sec.ID, EnrollmentRequest{UserID: "u1", Role: "Student"})
	require.NoError(t, err)

	removed, err := svc.DeleteEnrollments(sec.ID, []string{enrollment.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, spy.saves)
}

func TestRoleServiceUpsertAndDelete(t *testing.T) {
	st := store.New(nil)
	spy := &persisterSpy{}
	svc := NewRoleService(st, spy, nil, nil)

	mapping, err := svc.Set(RoleRequest{DisplayName: "Lab Monitor", CanvasRole: "observer"})
	require.NoError(t, err)
	assert.True(t, mapping.Created)

	mapping, err = svc.Set(RoleRequest{DisplayName: "Lab Monitor", CanvasRole: "designer"})
	require.NoError(t, err)
	assert.False(t, mapping.Created)

	list := svc.List()
	names := make([]string, 0, len(list))
	for _, m := range list {
		names = append(names, m.DisplayName)
	}
	assert.Contains(t, names, "Lab Monitor")
	assert.IsIncreasing(t, names)

	require.NoError(t, svc.Delete("Lab Monitor"))
	err = svc.Delete("Lab Monitor")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
	assert.Equal(t, 3, spy.saves)
}
