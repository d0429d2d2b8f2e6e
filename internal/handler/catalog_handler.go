package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hsmith-dev/canvas-sis-prep/internal/service"
	appErrors "github.com/hsmith-dev/canvas-sis-prep/pkg/errors"
	"github.com/hsmith-dev/canvas-sis-prep/pkg/response"
)

// CatalogHandler exposes the keyed entity collections.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler constructs a catalog handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

func bindJSON(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

// --- People ---

// ListPeople returns every person.
func (h *CatalogHandler) ListPeople(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.ListPeople())
}

// CreatePerson adds a person.
func (h *CatalogHandler) CreatePerson(c *gin.Context) {
	var req service.PersonRequest
	if !bindJSON(c, &req) {
		return
	}
	person, err := h.service.CreatePerson(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, person)
}

// UpdatePerson edits the person addressed by key.
func (h *CatalogHandler) UpdatePerson(c *gin.Context) {
	var req service.PersonRequest
	if !bindJSON(c, &req) {
		return
	}
	person, err := h.service.UpdatePerson(c.Param("key"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, person)
}

// DeletePerson removes the person addressed by key.
func (h *CatalogHandler) DeletePerson(c *gin.Context) {
	if err := h.service.DeletePerson(c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// --- Courses ---

// ListCourses returns every course.
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.ListCourses())
}

// CreateCourse adds a course.
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req service.CourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.service.CreateCourse(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// UpdateCourse edits the course addressed by key.
func (h *CatalogHandler) UpdateCourse(c *gin.Context) {
	var req service.CourseRequest
	if !bindJSON(c, &req) {
		return
	}
	course, err := h.service.UpdateCourse(c.Param("key"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// DeleteCourse removes the course addressed by key.
func (h *CatalogHandler) DeleteCourse(c *gin.Context) {
	if err := h.service.DeleteCourse(c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// --- Terms ---

// ListTerms returns every term.
func (h *CatalogHandler) ListTerms(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.ListTerms())
}

// CreateTerm adds a term.
func (h *CatalogHandler) CreateTerm(c *gin.Context) {
	var req service.TermRequest
	if !bindJSON(c, &req) {
		return
	}
	term, err := h.service.CreateTerm(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, term)
}

// UpdateTerm edits the term addressed by key; renames cascade to sections.
func (h *CatalogHandler) UpdateTerm(c *gin.Context) {
	var req service.TermRequest
	if !bindJSON(c, &req) {
		return
	}
	term, err := h.service.UpdateTerm(c.Param("key"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term)
}

// DeleteTerm removes the term addressed by key.
func (h *CatalogHandler) DeleteTerm(c *gin.Context) {
	if err := h.service.DeleteTerm(c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// --- Accounts ---

// ListAccounts returns every account.
func (h *CatalogHandler) ListAccounts(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.ListAccounts())
}

// CreateAccount adds an account.
func (h *CatalogHandler) CreateAccount(c *gin.Context) {
	var req service.AccountRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := h.service.CreateAccount(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, account)
}

// UpdateAccount edits the account addressed by key.
func (h *CatalogHandler) UpdateAccount(c *gin.Context) {
	var req service.AccountRequest
	if !bindJSON(c, &req) {
		return
	}
	account, err := h.service.UpdateAccount(c.Param("key"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, account)
}

// DeleteAccount removes the account addressed by key.
func (h *CatalogHandler) DeleteAccount(c *gin.Context) {
	if err := h.service.DeleteAccount(c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// --- Program areas ---

// ListProgramAreas returns every program area.
func (h *CatalogHandler) ListProgramAreas(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.ListProgramAreas())
}

// CreateProgramArea adds a program area.
func (h *CatalogHandler) CreateProgramArea(c *gin.Context) {
	var req service.ProgramAreaRequest
	if !bindJSON(c, &req) {
		return
	}
	area, err := h.service.CreateProgramArea(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, area)
}

// UpdateProgramArea edits the program area addressed by key; renames
// cascade to people and courses.
func (h *CatalogHandler) UpdateProgramArea(c *gin.Context) {
	var req service.ProgramAreaRequest
	if !bindJSON(c, &req) {
		return
	}
	area, err := h.service.UpdateProgramArea(c.Param("key"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, area)
}

// DeleteProgramArea removes the program area addressed by key.
func (h *CatalogHandler) DeleteProgramArea(c *gin.Context) {
	if err := h.service.DeleteProgramArea(c.Param("key")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ClearAll wipes the whole dataset and removes the backing document.
func (h *CatalogHandler) ClearAll(c *gin.Context) {
	if err := h.service.ClearAll(); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "All local data has been cleared."})
}
