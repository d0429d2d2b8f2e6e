package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hsmith-dev/canvas-sis-prep/internal/service"
	"github.com/hsmith-dev/canvas-sis-prep/pkg/response"
)

// SectionHandler exposes section and enrollment endpoints.
type SectionHandler struct {
	service *service.SectionService
}

// NewSectionHandler constructs a section handler.
func NewSectionHandler(svc *service.SectionService) *SectionHandler {
	return &SectionHandler{service: svc}
}

// List returns sections in creation order with resolved display data.
func (h *SectionHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.List())
}

// Get returns a single section with its roster.
func (h *SectionHandler) Get(c *gin.Context) {
	sec, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sec)
}

// Create adds a section.
func (h *SectionHandler) Create(c *gin.Context) {
	var req service.SectionRequest
	if !bindJSON(c, &req) {
		return
	}
	sec, err := h.service.Create(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sec)
}

// Update edits the section addressed by id.
func (h *SectionHandler) Update(c *gin.Context) {
	var req service.SectionRequest
	if !bindJSON(c, &req) {
		return
	}
	sec, err := h.service.Update(c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sec)
}

type batchDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BatchDelete removes every section in the posted ID set along with its
// enrollments.
func (h *SectionHandler) BatchDelete(c *gin.Context) {
	var req batchDeleteRequest
	if !bindJSON(c, &req) {
		return
	}
	removed, err := h.service.Delete(req.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": removed})
}

// AddEnrollment appends a person to the section roster.
func (h *SectionHandler) AddEnrollment(c *gin.Context) {
	var req service.EnrollmentRequest
	if !bindJSON(c, &req) {
		return
	}
	enrollment, err := h.service.AddEnrollment(c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// DeleteEnrollments removes enrollments from the section roster.
func (h *SectionHandler) DeleteEnrollments(c *gin.Context) {
	var req batchDeleteRequest
	if !bindJSON(c, &req) {
		return
	}
	removed, err := h.service.DeleteEnrollments(c.Param("id"), req.IDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": removed})
}
