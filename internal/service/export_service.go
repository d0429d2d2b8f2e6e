package service

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hsmith-dev/canvas-sis-prep/internal/store"
	appErrors "github.com/hsmith-dev/canvas-sis-prep/pkg/errors"
	"github.com/hsmith-dev/canvas-sis-prep/pkg/export"
	"github.com/hsmith-dev/canvas-sis-prep/pkg/storage"
)

// Fixed header rows of the generated Canvas SIS files.
var (
	canvasCoursesHeaders     = []string{"course_id", "short_name", "long_name", "account_id", "term_id", "status", "start_date", "end_date"}
	canvasSectionsHeaders    = []string{"section_id", "course_id", "name", "status", "start_date", "end_date"}
	canvasEnrollmentsHeaders = []string{"course_id", "section_id", "user_id", "role", "status"}
)

// rawExportSpec describes the backup dump of one entity collection.
type rawExportSpec struct {
	headers []string
	rows    func(st *store.Store) []map[string]string
}

var rawExportSpecs = map[string]rawExportSpec{
	"people": {
		headers: []string{"user_id", "name", "program_area_name"},
		rows: func(st *store.Store) []map[string]string {
			out := make([]map[string]string, 0)
			for _, p := range st.People() {
				out = append(out, p.Record())
			}
			return out
		},
	},
	"courses": {
		headers: []string{"course_id_portion", "short_name", "long_name", "program_area_name"},
		rows: func(st *store.Store) []map[string]string {
			out := make([]map[string]string, 0)
			for _, c := range st.Courses() {
				out = append(out, c.Record())
			}
			return out
		},
	},
	"terms": {
		headers: []string{"name", "term_id", "short_code"},
		rows: func(st *store.Store) []map[string]string {
			out := make([]map[string]string, 0)
			for _, t := range st.Terms() {
				out = append(out, t.Record())
			}
			return out
		},
	},
	"accounts": {
		headers: []string{"account_id"},
		rows: func(st *store.Store) []map[string]string {
			out := make([]map[string]string, 0)
			for _, a := range st.Accounts() {
				out = append(out, a.Record())
			}
			return out
		},
	},
	"program_areas": {
		headers: []string{"name"},
		rows: func(st *store.Store) []map[string]string {
			out := make([]map[string]string, 0)
			for _, p := range st.ProgramAreas() {
				out = append(out, p.Record())
			}
			return out
		},
	},
}

// ExportService writes backup dumps of the entity collections and generates
// the three correlated Canvas SIS import files.
type ExportService struct {
	store    *store.Store
	storage  *storage.LocalStorage
	exporter *export.CSVExporter
	logger   *zap.Logger
}

// NewExportService creates an export service instance.
func NewExportService(st *store.Store, localStorage *storage.LocalStorage, exporter *export.CSVExporter, logger *zap.Logger) *ExportService {
	if exporter == nil {
		exporter = export.NewCSVExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{store: st, storage: localStorage, exporter: exporter, logger: logger}
}

// ExportCollections writes one CSV per requested kind into dir (relative
// paths resolve under the configured export directory). Kinds with no
// records are skipped so no empty file is produced.
func (s *ExportService) ExportCollections(kinds []string, dir string) (string, error) {
	for _, kind := range kinds {
		spec, ok := rawExportSpecs[kind]
		if !ok {
			continue
		}
		rows := spec.rows(s.store)
		if len(rows) == 0 {
			continue
		}
		data, err := s.exporter.Render(export.Dataset{Headers: spec.headers, Rows: rows})
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render "+kind+" export")
		}
		if _, err := s.storage.Save(filepath.Join(dir, kind+".csv"), data); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrIOFailure.Code, appErrors.ErrIOFailure.Status, "error writing files")
		}
	}
	target := s.storage.Path(dir)
	return "Successfully exported selected files to: " + target, nil
}

// GenerateCanvasFiles produces the courses, sections and enrollments CSVs
// from the section list. Sections whose course or term cannot be resolved
// are skipped with a warning and produce no rows in any file. A non-empty
// prefix is applied to all three file names with a trailing space. Already
// written files are left in place when a later write fails.
func (s *ExportService) GenerateCanvasFiles(dir, prefix string) (string, error) {
	sections := s.store.Sections()
	if len(sections) == 0 {
		return "", appErrors.Clone(appErrors.ErrNoSections, "")
	}

	coursesRows := make([]map[string]string, 0, len(sections))
	sectionsRows := make([]map[string]string, 0, len(sections))
	enrollmentsRows := make([]map[string]string, 0)

	for _, sec := range sections {
		course, courseOK := s.store.Course(sec.CourseIDPortion)
		term, termOK := s.store.Term(sec.TermName)
		if !courseOK || !termOK {
			s.logger.Warn("skipping section with unresolved references",
				zap.String("section_id", sec.ID),
				zap.String("course_id_portion", sec.CourseIDPortion),
				zap.String("term_name", sec.TermName))
			continue
		}

		courseID := sec.CourseIDPortion + "-" + term.ShortCode + "-" + sec.SectionNumber
		sectionID := term.ShortCode + "-" + sec.CourseIDPortion + "-" + sec.SectionNumber
		longName := course.LongName + "-" + sec.SectionNumber

		coursesRows = append(coursesRows, map[string]string{
			"course_id":  courseID,
			"short_name": course.ShortName,
			"long_name":  longName,
			"account_id": sec.AccountID,
			"term_id":    term.TermID,
			"status":     sec.Status,
			"start_date": sec.StartDate,
			"end_date":   sec.EndDate,
		})
		sectionsRows = append(sectionsRows, map[string]string{
			"section_id": sectionID,
			"course_id":  courseID,
			"name":       longName,
			"status":     sec.Status,
			"start_date": sec.StartDate,
			"end_date":   sec.EndDate,
		})
		for _, enrollment := range sec.Enrollments {
			enrollmentsRows = append(enrollmentsRows, map[string]string{
				"course_id":  courseID,
				"section_id": sectionID,
				"user_id":    enrollment.UserID,
				"role":       s.store.ResolveRole(enrollment.Role),
				"status":     enrollment.Status,
			})
		}
	}

	prefixStr := ""
	if prefix != "" {
		prefixStr = prefix + " "
	}

	files := []struct {
		name    string
		dataset export.Dataset
	}{
		{prefixStr + "courses.csv", export.Dataset{Headers: canvasCoursesHeaders, Rows: coursesRows}},
		{prefixStr + "sections.csv", export.Dataset{Headers: canvasSectionsHeaders, Rows: sectionsRows}},
		{prefixStr + "enrollments.csv", export.Dataset{Headers: canvasEnrollmentsHeaders, Rows: enrollmentsRows}},
	}
	for _, file := range files {
		data, err := s.exporter.Render(file.dataset)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render "+file.name)
		}
		if _, err := s.storage.Save(filepath.Join(dir, file.name), data); err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrIOFailure.Code, appErrors.ErrIOFailure.Status, "error writing files")
		}
	}

	target := s.storage.Path(dir)
	s.logger.Info("canvas files generated",
		zap.String("directory", target),
		zap.Int("courses", len(coursesRows)),
		zap.Int("sections", len(sectionsRows)),
		zap.Int("enrollments", len(enrollmentsRows)))
	return "Successfully generated files in: " + target, nil
}
