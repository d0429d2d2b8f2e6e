package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hsmith-dev/canvas-sis-prep/internal/models"
	appErrors "github.com/hsmith-dev/canvas-sis-prep/pkg/errors"
)

// document is the persisted on-disk shape: five keyed collections, the role
// map and the ordered section list.
type document struct {
	People          map[string]models.Person      `json:"people"`
	Courses         map[string]models.Course      `json:"courses"`
	Terms           map[string]models.Term        `json:"terms"`
	Accounts        map[string]models.Account     `json:"accounts"`
	ProgramAreas    map[string]models.ProgramArea `json:"program_areas"`
	EnrollmentRoles map[string]string             `json:"enrollment_roles"`
	Sections        []sectionDoc                  `json:"sections"`

	// Pre-rename documents stored program areas under this field.
	LegacyDepartments map[string]models.ProgramArea `json:"departments"`
}

// sectionDoc carries the legacy term_id attribute older documents stored
// instead of term_name.
type sectionDoc struct {
	models.Section
	LegacyTermID string `json:"term_id,omitempty"`
}

// Persister loads and saves the whole dataset as a single JSON document.
type Persister struct {
	path   string
	logger *zap.Logger
}

// NewPersister creates a persister for the given document path.
func NewPersister(path string, logger *zap.Logger) *Persister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Persister{path: path, logger: logger}
}

// Path returns the backing file path.
func (p *Persister) Path() string {
	return p.path
}

// Load reads the document into the store. A missing, unreadable or corrupt
// file leaves the store freshly initialized; the failure is logged, never
// returned, so a broken document means a clean start rather than a crash.
func (p *Persister) Load(s *Store) {
	s.Reset()

	raw, err := os.ReadFile(p.path)
	if err != nil {
		if !os.IsNotExist(err) {
			p.logger.Warn("failed to read data file, starting fresh", zap.String("path", p.path), zap.Error(err))
		}
		return
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		p.logger.Warn("failed to parse data file, starting fresh", zap.String("path", p.path), zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, person := range doc.People {
		s.people[key] = person
	}
	for key, course := range doc.Courses {
		s.courses[key] = models.CourseFromRecord(course.Record())
	}

	programAreas := doc.ProgramAreas
	if programAreas == nil {
		programAreas = doc.LegacyDepartments
	}
	for key, area := range programAreas {
		s.programAreas[key] = area
	}

	// Terms are re-keyed by display name regardless of how they were stored;
	// a term without a name falls back to its term id. The id-to-name table
	// drives the section migrations below.
	termIDToName := make(map[string]string)
	for _, term := range doc.Terms {
		if term.Name == "" {
			term.Name = term.TermID
		}
		s.terms[term.Name] = term
		termIDToName[term.TermID] = term.Name
	}

	for key, account := range doc.Accounts {
		s.accounts[key] = account
	}

	for _, secDoc := range doc.Sections {
		sec := secDoc.Section
		if sec.ID == "" {
			sec.ID = uuid.NewString()
		}
		if sec.Status == "" {
			sec.Status = string(models.SectionStatusActive)
		}
		if sec.Enrollments == nil {
			sec.Enrollments = []models.Enrollment{}
		}
		for i := range sec.Enrollments {
			if sec.Enrollments[i].ID == "" {
				sec.Enrollments[i].ID = uuid.NewString()
			}
			if sec.Enrollments[i].Status == "" {
				sec.Enrollments[i].Status = string(models.EnrollmentStatusActive)
			}
		}

		if secDoc.LegacyTermID != "" && sec.TermName == "" {
			for _, term := range s.terms {
				if term.TermID == secDoc.LegacyTermID {
					sec.TermName = term.Name
					break
				}
			}
		} else if sec.TermName != "" {
			if _, ok := s.terms[sec.TermName]; !ok {
				if name, ok := termIDToName[sec.TermName]; ok {
					sec.TermName = name
				}
			}
		}

		s.sections = append(s.sections, sec)
	}

	if doc.EnrollmentRoles != nil {
		s.enrollmentRoles = doc.EnrollmentRoles
	}
}

// Save serializes the store and overwrites the document. The in-memory
// state is untouched either way.
func (p *Persister) Save(s *Store) error {
	s.mu.RLock()
	doc := document{
		People:          s.people,
		Courses:         s.courses,
		Terms:           s.terms,
		Accounts:        s.accounts,
		ProgramAreas:    s.programAreas,
		EnrollmentRoles: s.enrollmentRoles,
		Sections:        make([]sectionDoc, 0, len(s.sections)),
	}
	for i := range s.sections {
		doc.Sections = append(doc.Sections, sectionDoc{Section: cloneSection(s.sections[i])})
	}
	raw, err := json.MarshalIndent(doc, "", "    ")
	s.mu.RUnlock()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrIOFailure.Code, appErrors.ErrIOFailure.Status, "failed to serialize data")
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return appErrors.Wrap(err, appErrors.ErrIOFailure.Code, appErrors.ErrIOFailure.Status, "failed to prepare data directory")
	}
	if err := os.WriteFile(p.path, raw, 0o644); err != nil {
		p.logger.Error("failed to save data file", zap.String("path", p.path), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrIOFailure.Code, appErrors.ErrIOFailure.Status, "failed to save data")
	}
	return nil
}

// ClearAll resets the store to its seeded-empty state and removes the
// backing file when present.
func (p *Persister) ClearAll(s *Store) error {
	s.Reset()
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		p.logger.Error("failed to remove data file", zap.String("path", p.path), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrIOFailure.Code, appErrors.ErrIOFailure.Status, "failed to remove data file")
	}
	return nil
}
