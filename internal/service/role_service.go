package service

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hsmith-dev/canvas-sis-prep/internal/store"
	appErrors "github.com/hsmith-dev/canvas-sis-prep/pkg/errors"
)

// RoleRequest carries a display-name to Canvas-role mapping.
type RoleRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
	CanvasRole  string `json:"canvas_role" validate:"required"`
}

// RoleMapping is one entry of the role translation table.
type RoleMapping struct {
	DisplayName string `json:"display_name"`
	CanvasRole  string `json:"canvas_role"`
	Created     bool   `json:"-"`
}

// RoleService manages the enrollment role translation map. Entries carry no
// referential constraint; enrollments with an unmapped role export their
// display name unchanged.
type RoleService struct {
	store     *store.Store
	persister dataPersister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRoleService creates a role service instance.
func NewRoleService(st *store.Store, persister dataPersister, validate *validator.Validate, logger *zap.Logger) *RoleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleService{store: st, persister: persister, validator: validate, logger: logger}
}

// List returns the role map as sorted mappings.
func (s *RoleService) List() []RoleMapping {
	roles := s.store.EnrollmentRoles()
	out := make([]RoleMapping, 0, len(roles))
	for _, display := range sortedKeys(roles) {
		out = append(out, RoleMapping{DisplayName: display, CanvasRole: roles[display]})
	}
	return out
}

// Set upserts a role mapping.
func (s *RoleService) Set(req RoleRequest) (RoleMapping, error) {
	if err := s.validator.Struct(req); err != nil {
		return RoleMapping{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}
	created := s.store.SetEnrollmentRole(req.DisplayName, req.CanvasRole)
	mapping := RoleMapping{DisplayName: req.DisplayName, CanvasRole: req.CanvasRole, Created: created}
	if err := s.persister.Save(s.store); err != nil {
		s.logger.Error("failed to persist dataset after mutation", zap.Error(err))
		return mapping, err
	}
	return mapping, nil
}

// Delete removes a role mapping.
func (s *RoleService) Delete(displayName string) error {
	if err := s.store.DeleteEnrollmentRole(displayName); err != nil {
		return err
	}
	if err := s.persister.Save(s.store); err != nil {
		s.logger.Error("failed to persist dataset after mutation", zap.Error(err))
		return err
	}
	return nil
}
