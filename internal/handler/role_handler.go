package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hsmith-dev/canvas-sis-prep/internal/service"
	"github.com/hsmith-dev/canvas-sis-prep/pkg/response"
)

// RoleHandler exposes the enrollment role translation map.
type RoleHandler struct {
	service *service.RoleService
}

// NewRoleHandler constructs a role handler.
func NewRoleHandler(svc *service.RoleService) *RoleHandler {
	return &RoleHandler{service: svc}
}

// List returns all role mappings sorted by display name.
func (h *RoleHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.List())
}

// Set upserts a role mapping.
func (h *RoleHandler) Set(c *gin.Context) {
	var req service.RoleRequest
	if !bindJSON(c, &req) {
		return
	}
	mapping, err := h.service.Set(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if mapping.Created {
		response.Created(c, mapping)
		return
	}
	response.JSON(c, http.StatusOK, mapping)
}

// Delete removes the mapping addressed by display name.
func (h *RoleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Param("name")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
