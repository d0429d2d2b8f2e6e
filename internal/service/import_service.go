package service

import (
	"encoding/csv"
	"strings"

	"go.uber.org/zap"

	"github.com/hsmith-dev/canvas-sis-prep/internal/models"
	"github.com/hsmith-dev/canvas-sis-prep/internal/store"
	appErrors "github.com/hsmith-dev/canvas-sis-prep/pkg/errors"
	"github.com/hsmith-dev/canvas-sis-prep/pkg/storage"
)

// ImportResult summarises an entity import run.
type ImportResult struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
}

// RoleImportResult summarises a role import run.
type RoleImportResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

// entityImportSpec drives the generic importer for one entity kind: the
// headers a file must carry, the key column, and how to probe and fill the
// target collection. Construction consults an explicit field table (the
// FromRecord constructors) so unknown CSV columns are simply ignored.
type entityImportSpec struct {
	requiredHeaders []string
	keyField        string
	exists          func(st *store.Store, key string) bool
	insert          func(st *store.Store, rec map[string]string) error
}

var entityImportSpecs = map[string]entityImportSpec{
	"people": {
		requiredHeaders: []string{"user_id", "name"},
		keyField:        "user_id",
		exists:          func(st *store.Store, key string) bool { _, ok := st.Person(key); return ok },
		insert:          func(st *store.Store, rec map[string]string) error { return st.AddPerson(models.PersonFromRecord(rec)) },
	},
	"courses": {
		requiredHeaders: []string{"course_id_portion", "short_name", "long_name"},
		keyField:        "course_id_portion",
		exists:          func(st *store.Store, key string) bool { _, ok := st.Course(key); return ok },
		insert:          func(st *store.Store, rec map[string]string) error { return st.AddCourse(models.CourseFromRecord(rec)) },
	},
	"terms": {
		requiredHeaders: []string{"name", "term_id", "short_code"},
		keyField:        "name",
		exists:          func(st *store.Store, key string) bool { _, ok := st.Term(key); return ok },
		insert:          func(st *store.Store, rec map[string]string) error { return st.AddTerm(models.TermFromRecord(rec)) },
	},
	"accounts": {
		requiredHeaders: []string{"account_id"},
		keyField:        "account_id",
		exists:          func(st *store.Store, key string) bool { _, ok := st.Account(key); return ok },
		insert:          func(st *store.Store, rec map[string]string) error { return st.AddAccount(models.AccountFromRecord(rec)) },
	},
	"program_areas": {
		requiredHeaders: []string{"name"},
		keyField:        "name",
		exists:          func(st *store.Store, key string) bool { _, ok := st.ProgramArea(key); return ok },
		insert: func(st *store.Store, rec map[string]string) error {
			return st.AddProgramArea(models.ProgramAreaFromRecord(rec))
		},
	},
}

// ImportService bulk-loads entity collections and the role map from CSV
// files supplied by the presentation layer.
type ImportService struct {
	store     *store.Store
	persister dataPersister
	logger    *zap.Logger
}

// NewImportService creates an import service instance.
func NewImportService(st *store.Store, persister dataPersister, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{store: st, persister: persister, logger: logger}
}

// ImportEntities loads one entity kind from the CSV at path. Header
// validation happens before any row is applied; rows with an empty key, a
// duplicate key or a blank required field are skipped and counted.
func (s *ImportService) ImportEntities(kind, path string) (ImportResult, error) {
	spec, ok := entityImportSpecs[kind]
	if !ok {
		return ImportResult{}, appErrors.Clone(appErrors.ErrValidation, "unknown data type: "+kind)
	}

	header, rows, err := readCSV(path)
	if err != nil {
		return ImportResult{}, err
	}
	if err := checkHeaders(header, spec.requiredHeaders); err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{}
	for _, row := range rows {
		rec := rowToRecord(header, row)
		key := rec[spec.keyField]
		if key == "" || spec.exists(s.store, key) {
			result.Skipped++
			continue
		}
		if anyBlank(rec, spec.requiredHeaders) {
			result.Skipped++
			continue
		}
		if err := spec.insert(s.store, rec); err != nil {
			result.Skipped++
			continue
		}
		result.Added++
	}

	s.logger.Info("csv import finished",
		zap.String("kind", kind),
		zap.Int("added", result.Added),
		zap.Int("skipped", result.Skipped))

	if err := s.persister.Save(s.store); err != nil {
		return result, err
	}
	return result, nil
}

// ImportRoles upserts role mappings from the CSV at path. Rows missing
// either value are ignored without affecting the counts.
func (s *ImportService) ImportRoles(path string) (RoleImportResult, error) {
	header, rows, err := readCSV(path)
	if err != nil {
		return RoleImportResult{}, err
	}
	if err := checkHeaders(header, []string{"display_name", "canvas_role"}); err != nil {
		return RoleImportResult{}, err
	}

	result := RoleImportResult{}
	for _, row := range rows {
		rec := rowToRecord(header, row)
		displayName := rec["display_name"]
		canvasRole := rec["canvas_role"]
		if displayName == "" || canvasRole == "" {
			continue
		}
		if s.store.SetEnrollmentRole(displayName, canvasRole) {
			result.Added++
		} else {
			result.Updated++
		}
	}

	if err := s.persister.Save(s.store); err != nil {
		return result, err
	}
	return result, nil
}

// readCSV loads the whole file up front so a parse failure applies nothing.
func readCSV(path string) ([]string, [][]string, error) {
	file, err := storage.OpenCSV(path)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrIOFailure.Code, appErrors.ErrIOFailure.Status, "failed to open CSV file")
	}
	defer file.Close() //nolint:errcheck

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrParseFailure.Code, appErrors.ErrParseFailure.Status, "failed to parse CSV file")
	}
	if len(records) == 0 {
		return nil, nil, appErrors.Clone(appErrors.ErrMissingHeaders, "CSV file is empty")
	}
	return records[0], records[1:], nil
}

func checkHeaders(header []string, required []string) error {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	for _, h := range required {
		if _, ok := present[h]; !ok {
			return appErrors.Clone(appErrors.ErrMissingHeaders,
				"CSV is missing one of the required headers: "+strings.Join(required, ", "))
		}
	}
	return nil
}

func rowToRecord(header []string, row []string) map[string]string {
	rec := make(map[string]string, len(header))
	for i, h := range header {
		if i < len(row) {
			rec[h] = row[i]
		} else {
			rec[h] = ""
		}
	}
	return rec
}

func anyBlank(rec map[string]string, required []string) bool {
	for _, h := range required {
		if rec[h] == "" {
			return true
		}
	}
	return false
}
