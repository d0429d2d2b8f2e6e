package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsmith-dev/canvas-sis-prep/internal/models"
	"github.com/hsmith-dev/canvas-sis-prep/internal/store"
	appErrors "github.com/hsmith-dev/canvas-sis-prep/pkg/errors"
)

func TestCatalogCreatePersonValidatesPayload(t *testing.T) {
	spy := &persisterSpy{}
	svc := NewCatalogService(store.New(nil), spy, nil, nil)

	_, err := svc.CreatePerson(PersonRequest{Name: "No ID"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, spy.saves)
}

func TestCatalogCreatePersonSavesAfterMutation(t *testing.T) {
	spy := &persisterSpy{}
	svc := NewCatalogService(store.New(nil), spy, nil, nil)

	person, err := svc.CreatePerson(PersonRequest{UserID: "u1", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "u1", person.UserID)
	assert.Equal(t, 1, spy.saves)
}

func TestCatalogCreateDuplicateDoesNotSave(t *testing.T) {
	spy := &persisterSpy{}
	svc := NewCatalogService(store.New(nil), spy, nil, nil)

	_, err := svc.CreatePerson(PersonRequest{UserID: "u1", Name: "Ada"})
	require.NoError(t, err)
	_, err = svc.CreatePerson(PersonRequest{UserID: "u1", Name: "Again"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateKey))
	assert.Equal(t, 1, spy.saves)
}

func TestCatalogCreateCourseUpperCasesIDPortion(t *testing.T) {
	st := store.New(nil)
	svc := NewCatalogService(st, &persisterSpy{}, nil, nil)

	course, err := svc.CreateCourse(CourseRequest{
		CourseIDPortion: "cs101",
		ShortName:       "Intro CS",
		LongName:        "Introduction to Computer Science",
	})
	require.NoError(t, err)
	assert.Equal(t, "CS101", course.CourseIDPortion)
	_, ok := st.Course("CS101")
	assert.True(t, ok)
}

func TestCatalogUpdateTermRenameCascades(t *testing.T) {
	st := store.New(nil)
	svc := NewCatalogService(st, &persisterSpy{}, nil, nil)

	_, err := svc.CreateTerm(TermRequest{Name: "Fall 2025", TermID: "2251", ShortCode: "FA25"})
	require.NoError(t, err)
	sec := st.AddSection(models.Section{CourseIDPortion: "CS101", TermName: "Fall 2025", SectionNumber: "01"})

	_, err = svc.UpdateTerm("Fall 2025", TermRequest{Name: "Autumn 2025", TermID: "2251", ShortCode: "FA25"})
	require.NoError(t, err)

	got, ok := st.Section(sec.ID)
	require.True(t, ok)
	assert.Equal(t, "Autumn 2025", got.TermName)
}

func TestCatalogDeleteProgramAreaInUse(t *testing.T) {
	spy := &persisterSpy{}
	svc := NewCatalogService(store.New(nil), spy, nil, nil)

	_, err := svc.CreateProgramArea(ProgramAreaRequest{Name: "Engineering"})
	require.NoError(t, err)
	_, err = svc.CreatePerson(PersonRequest{UserID: "u1", Name: "Ada", ProgramAreaName: "Engineering"})
	require.NoError(t, err)

	err = svc.DeleteProgramArea("Engineering")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrEntityInUse))
	assert.Equal(t, 2, spy.saves)
}

func TestCatalogClearAll(t *testing.T) {
	st := store.New(nil)
	spy := &persisterSpy{}
	svc := NewCatalogService(st, spy, nil, nil)

	_, err := svc.CreatePerson(PersonRequest{UserID: "u1", Name: "Ada"})
	require.NoError(t, err)

	require.NoError(t, svc.ClearAll())
	assert.Equal(t, 1, spy.clears)
	assert.Empty(t, st.People())
}
