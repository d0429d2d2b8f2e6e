package service

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hsmith-dev/canvas-sis-prep/internal/models"
	"github.com/hsmith-dev/canvas-sis-prep/internal/store"
	appErrors "github.com/hsmith-dev/canvas-sis-prep/pkg/errors"
)

// dataPersister is the slice of the persistence layer the services need.
type dataPersister interface {
	Save(s *store.Store) error
	ClearAll(s *store.Store) error
}

// PersonRequest carries person fields for create and update.
type PersonRequest struct {
	UserID          string `json:"user_id" validate:"required"`
	Name            string `json:"name" validate:"required"`
	ProgramAreaName string `json:"program_area_name"`
}

// CourseRequest carries course fields for create and update.
type CourseRequest struct {
	CourseIDPortion string `json:"course_id_portion" validate:"required"`
	ShortName       string `json:"short_name" validate:"required"`
	LongName        string `json:"long_name" validate:"required"`
	ProgramAreaName string `json:"program_area_name"`
}

// TermRequest carries term fields for create and update.
type TermRequest struct {
	Name      string `json:"name" validate:"required"`
	TermID    string `json:"term_id" validate:"required"`
	ShortCode string `json:"short_code" validate:"required"`
}

// AccountRequest carries account fields for create and update.
type AccountRequest struct {
	AccountID string `json:"account_id" validate:"required"`
}

// ProgramAreaRequest carries program area fields for create and update.
type ProgramAreaRequest struct {
	Name string `json:"name" validate:"required"`
}

// CatalogService manages the five keyed entity collections. Every
// successful mutation is followed by a whole-document save.
type CatalogService struct {
	store     *store.Store
	persister dataPersister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService creates a catalog service instance.
func NewCatalogService(st *store.Store, persister dataPersister, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{store: st, persister: persister, validator: validate, logger: logger}
}

func (s *CatalogService) save() error {
	if err := s.persister.Save(s.store); err != nil {
		s.logger.Error("failed to persist dataset after mutation", zap.Error(err))
		return err
	}
	return nil
}

// --- People ---

// ListPeople returns all people sorted by user id.
func (s *CatalogService) ListPeople() []models.Person {
	return s.store.People()
}

// CreatePerson adds a person.
func (s *CatalogService) CreatePerson(req PersonRequest) (models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Person{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person payload")
	}
	person := models.Person{UserID: req.UserID, Name: req.Name, ProgramAreaName: req.ProgramAreaName}
	if err := s.store.AddPerson(person); err != nil {
		return models.Person{}, err
	}
	return person, s.save()
}

// UpdatePerson edits the person stored under key, renaming when the payload
// carries a different user id.
func (s *CatalogService) UpdatePerson(key string, req PersonRequest) (models.Person, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Person{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid person payload")
	}
	person := models.Person{UserID: req.UserID, Name: req.Name, ProgramAreaName: req.ProgramAreaName}
	if err := s.store.EditPerson(key, person); err != nil {
		return models.Person{}, err
	}
	return person, s.save()
}

// DeletePerson removes a person unless they are enrolled somewhere.
func (s *CatalogService) DeletePerson(key string) error {
	if err := s.store.DeletePerson(key); err != nil {
		return err
	}
	return s.save()
}

// --- Courses ---

// ListCourses returns all courses sorted by course id portion.
func (s *CatalogService) ListCourses() []models.Course {
	return s.store.Courses()
}

// CreateCourse adds a course; the id portion is stored upper-cased.
func (s *CatalogService) CreateCourse(req CourseRequest) (models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Course{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := models.NewCourse(req.ShortName, req.LongName, req.CourseIDPortion, req.ProgramAreaName)
	if err := s.store.AddCourse(course); err != nil {
		return models.Course{}, err
	}
	return course, s.save()
}

// UpdateCourse edits the course stored under key.
func (s *CatalogService) UpdateCourse(key string, req CourseRequest) (models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Course{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := models.NewCourse(req.ShortName, req.LongName, req.CourseIDPortion, req.ProgramAreaName)
	if err := s.store.EditCourse(key, course); err != nil {
		return models.Course{}, err
	}
	return course, s.save()
}

// DeleteCourse removes a course unless a section references it.
func (s *CatalogService) DeleteCourse(key string) error {
	if err := s.store.DeleteCourse(key); err != nil {
		return err
	}
	return s.save()
}

// --- Terms ---

// ListTerms returns all terms sorted by display name.
func (s *CatalogService) ListTerms() []models.Term {
	return s.store.Terms()
}

// CreateTerm adds a term keyed by display name.
func (s *CatalogService) CreateTerm(req TermRequest) (models.Term, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Term{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term payload")
	}
	term := models.Term{Name: req.Name, TermID: req.TermID, ShortCode: req.ShortCode}
	if err := s.store.AddTerm(term); err != nil {
		return models.Term{}, err
	}
	return term, s.save()
}

// UpdateTerm edits the term stored under key; a rename cascades to every
// section referencing the old name.
func (s *CatalogService) UpdateTerm(key string, req TermRequest) (models.Term, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Term{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term payload")
	}
	term := models.Term{Name: req.Name, TermID: req.TermID, ShortCode: req.ShortCode}
	if err := s.store.EditTerm(key, term); err != nil {
		return models.Term{}, err
	}
	return term, s.save()
}

// DeleteTerm removes a term unless a section references it.
func (s *CatalogService) DeleteTerm(key string) error {
	if err := s.store.DeleteTerm(key); err != nil {
		return err
	}
	return s.save()
}

// --- Accounts ---

// ListAccounts returns all accounts sorted by account id.
func (s *CatalogService) ListAccounts() []models.Account {
	return s.store.Accounts()
}

// CreateAccount adds an account.
func (s *CatalogService) CreateAccount(req AccountRequest) (models.Account, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Account{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid account payload")
	}
	account := models.Account{AccountID: req.AccountID}
	if err := s.store.AddAccount(account); err != nil {
		return models.Account{}, err
	}
	return account, s.save()
}

// UpdateAccount edits the account stored under key.
func (s *CatalogService) UpdateAccount(key string, req AccountRequest) (models.Account, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.Account{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid account payload")
	}
	account := models.Account{AccountID: req.AccountID}
	if err := s.store.EditAccount(key, account); err != nil {
		return models.Account{}, err
	}
	return account, s.save()
}

// DeleteAccount removes an account unless a section references it.
func (s *CatalogService) DeleteAccount(key string) error {
	if err := s.store.DeleteAccount(key); err != nil {
		return err
	}
	return s.save()
}

// --- Program areas ---

// ListProgramAreas returns all program areas sorted by name.
func (s *CatalogService) ListProgramAreas() []models.ProgramArea {
	return s.store.ProgramAreas()
}

// CreateProgramArea adds a program area.
func (s *CatalogService) CreateProgramArea(req ProgramAreaRequest) (models.ProgramArea, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.ProgramArea{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program area payload")
	}
	area := models.ProgramArea{Name: req.Name}
	if err := s.store.AddProgramArea(area); err != nil {
		return models.ProgramArea{}, err
	}
	return area, s.save()
}

// UpdateProgramArea edits the program area stored under key; a rename
// cascades to every person and course referencing the old name.
func (s *CatalogService) UpdateProgramArea(key string, req ProgramAreaRequest) (models.ProgramArea, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.ProgramArea{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program area payload")
	}
	area := models.ProgramArea{Name: req.Name}
	if err := s.store.EditProgramArea(key, area); err != nil {
		return models.ProgramArea{}, err
	}
	return area, s.save()
}

// DeleteProgramArea removes a program area unless a person or course
// references it.
func (s *CatalogService) DeleteProgramArea(key string) error {
	if err := s.store.DeleteProgramArea(key); err != nil {
		return err
	}
	return s.save()
}

// ClearAll wipes every collection and removes the backing document.
func (s *CatalogService) ClearAll() error {
	return s.persister.ClearAll(s.store)
}
