package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsmith-dev/canvas-sis-prep/internal/models"
	"github.com/hsmith-dev/canvas-sis-prep/internal/store"
	appErrors "github.com/hsmith-dev/canvas-sis-prep/pkg/errors"
)

// persisterSpy satisfies dataPersister without touching disk.
type persisterSpy struct {
	saves  int
	clears int
	err    error
}

func (p *persisterSpy) Save(*store.Store) error {
	p.saves++
	return p.err
}

func (p *persisterSpy) ClearAll(s *store.Store) error {
	p.clears++
	s.Reset()
	return p.err
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportEntitiesAddsAndSkips(t *testing.T) {
	st := store.New(nil)
	require.NoError(t, st.AddPerson(models.Person{UserID: "u2", Name: "Existing"}))
	spy := &persisterSpy{}
	svc := NewImportService(st, spy, nil)

	path := writeCSV(t, "people.csv", "user_id,name,program_area_name\n"+
		"u1,Ada,Engineering\n"+
		"u2,Duplicate,\n"+
		",No Key,\n"+
		"u3,,\n"+
		"u4,Grace,\n")

	result, err := svc.ImportEntities("people", path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 3, result.Skipped)
	assert.Equal(t, 1, spy.saves)

	p, ok := st.Person("u1")
	require.True(t, ok)
	assert.Equal(t, "Engineering", p.ProgramAreaName)

	existing, ok := st.Person("u2")
	require.True(t, ok)
	assert.Equal(t, "Existing", existing.Name)
}

func TestImportEntitiesMissingHeaders(t *testing.T) {
	st := store.New(nil)
	spy := &persisterSpy{}
	svc := NewImportService(st, spy, nil)

	path := writeCSV(t, "people.csv", "user_id\nu1\n")

	_, err := svc.ImportEntities("people", path)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrMissingHeaders))
	assert.Empty(t, st.People())
	assert.Zero(t, spy.saves)
}

func TestImportEntitiesUnknownKind(t *testing.T) {
	svc := NewImportService(store.New(nil), &persisterSpy{}, nil)
	_, err := svc.ImportEntities("widgets", "whatever.csv")
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestImportEntitiesMissingFile(t *testing.T) {
	svc := NewImportService(store.New(nil), &persisterSpy{}, nil)
	_, err := svc.ImportEntities("people", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrIOFailure))
}

func TestImportEntitiesMalformedAppliesNothing(t *testing.T) {
	st := store.New(nil)
	svc := NewImportService(st, &persisterSpy{}, nil)

	path := writeCSV(t, "people.csv", "user_id,name\nu1,Ada\n\"broken\n")

	_, err := svc.ImportEntities("people", path)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrParseFailure))
	assert.Empty(t, st.People())
}

func TestImportEntitiesStripsByteOrderMark(t *testing.T) {
	st := store.New(nil)
	svc := NewImportService(st, &persisterSpy{}, nil)

	path := writeCSV(t, "people.csv", "\xEF\xBB\xBFuser_id,name\nu1,Ada\n")

	result, err := svc.ImportEntities("people", path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	_, ok := st.Person("u1")
	assert.True(t, ok)
}

func TestImportEntitiesUpperCasesCourseIDs(t *testing.T) {
	st := store.New(nil)
	svc := NewImportService(st, &persisterSpy{}, nil)

	path := writeCSV(t, "courses.csv", "course_id_portion,short_name,long_name\ncs101,Intro CS,Introduction to Computer Science\n")

	result, err := svc.ImportEntities("courses", path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	_, ok := st.Course("CS101")
	assert.True(t, ok)
}

func TestImportRolesUpserts(t *testing.T) {
	st := store.New(nil)
	spy := &persisterSpy{}
	svc := NewImportService(st, spy, nil)

	path := writeCSV(t, "roles.csv", "display_name,canvas_role\n"+
		"Student,observer\n"+
		"Lab Monitor,designer\n"+
		"Incomplete,\n")

	result, err := svc.ImportRoles(path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, spy.saves)

	assert.Equal(t, "observer", st.ResolveRole("Student"))
	assert.Equal(t, "designer", st.ResolveRole("Lab Monitor"))
	assert.False(t, st.HasEnrollmentRole("Incomplete"))
}

func TestImportRolesMissingHeaders(t *testing.T) {
	svc := NewImportService(store.New(nil), &persisterSpy{}, nil)
	path := writeCSV(t, "roles.csv", "display_name\nStudent\n")

	_, err := svc.ImportRoles(path)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrMissingHeaders))
}
