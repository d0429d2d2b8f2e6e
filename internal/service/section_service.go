package service

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hsmith-dev/canvas-sis-prep/internal/models"
	"github.com/hsmith-dev/canvas-sis-prep/internal/store"
	appErrors "github.com/hsmith-dev/canvas-sis-prep/pkg/errors"
)

// SectionRequest carries section fields for create and update.
type SectionRequest struct {
	CourseIDPortion string `json:"course_id_portion" validate:"required"`
	TermName        string `json:"term_name" validate:"required"`
	AccountID       string `json:"account_id" validate:"required"`
	SectionNumber   string `json:"section_number" validate:"required"`
	Status          string `json:"status" validate:"omitempty,oneof=active deleted completed published"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
}

// EnrollmentRequest carries enrollment fields.
type EnrollmentRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required"`
	Status string `json:"status" validate:"omitempty,oneof=active completed inactive deleted"`
}

// SectionService manages sections and their enrollment rosters.
type SectionService struct {
	store     *store.Store
	persister dataPersister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSectionService creates a section service instance.
func NewSectionService(st *store.Store, persister dataPersister, validate *validator.Validate, logger *zap.Logger) *SectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionService{store: st, persister: persister, validator: validate, logger: logger}
}

func (s *SectionService) save() error {
	if err := s.persister.Save(s.store); err != nil {
		s.logger.Error("failed to persist dataset after mutation", zap.Error(err))
		return err
	}
	return nil
}

// List returns sections in creation order, enriched with resolved course
// and term display data for listing.
func (s *SectionService) List() []models.SectionDetail {
	sections := s.store.Sections()
	out := make([]models.SectionDetail, 0, len(sections))
	for _, sec := range sections {
		detail := models.SectionDetail{Section: sec}
		if course, ok := s.store.Course(sec.CourseIDPortion); ok {
			detail.CourseShortName = course.ShortName
		}
		if term, ok := s.store.Term(sec.TermName); ok {
			detail.TermID = term.TermID
		}
		out = append(out, detail)
	}
	return out
}

// Get returns a single section.
func (s *SectionService) Get(id string) (models.Section, error) {
	sec, ok := s.store.Section(id)
	if !ok {
		return models.Section{}, appErrors.Clone(appErrors.ErrNotFound, "section not found")
	}
	return sec, nil
}

// Create appends a new section.
func (s *SectionService) Create(req SectionRequest) (models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Section{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	sec := s.store.AddSection(models.Section{
		CourseIDPortion: req.CourseIDPortion,
		TermName:        req.TermName,
		AccountID:       req.AccountID,
		SectionNumber:   req.SectionNumber,
		Status:          req.Status,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	})
	return sec, s.save()
}

// Update replaces the mutable fields of a section; the roster is untouched.
func (s *SectionService) Update(id string, req SectionRequest) (models.Section, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Section{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid section payload")
	}
	status := req.Status
	if status == "" {
		status = string(models.SectionStatusActive)
	}
	sec, err := s.store.EditSection(id, models.Section{
		CourseIDPortion: req.CourseIDPortion,
		TermName:        req.TermName,
		AccountID:       req.AccountID,
		SectionNumber:   req.SectionNumber,
		Status:          status,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	})
	if err != nil {
		return models.Section{}, err
	}
	return sec, s.save()
}

// Delete removes the identified sections and their enrollments as a unit,
// returning the removed count.
func (s *SectionService) Delete(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no section IDs provided")
	}
	removed := s.store.DeleteSections(ids...)
	if removed == 0 {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "no matching sections found")
	}
	return removed, s.save()
}

// AddEnrollment appends a person to a section roster; a section holds at
// most one enrollment per user id.
func (s *SectionService) AddEnrollment(sectionID string, req EnrollmentRequest) (models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Enrollment{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	enrollment, err := s.store.AddEnrollment(sectionID, models.Enrollment{
		UserID: req.UserID,
		Role:   req.Role,
		Status: req.Status,
	})
	if err != nil {
		return models.Enrollment{}, err
	}
	return enrollment, s.save()
}

// DeleteEnrollments removes the identified enrollments from a section.
func (s *SectionService) DeleteEnrollments(sectionID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no enrollment IDs provided")
	}
	removed, err := s.store.DeleteEnrollments(sectionID, ids...)
	if err != nil {
		return 0, err
	}
	return removed, s.save()
}
