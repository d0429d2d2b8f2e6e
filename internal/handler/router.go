package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles every handler the API mounts.
type Handlers struct {
	Catalog  *CatalogHandler
	Section  *SectionHandler
	Role     *RoleHandler
	Transfer *TransferHandler
}

// RegisterRoutes mounts all endpoints under the given group.
func RegisterRoutes(rg *gin.RouterGroup, h Handlers) {
	people := rg.Group("/people")
	{
		people.GET("", h.Catalog.ListPeople)
		people.POST("", h.Catalog.CreatePerson)
		people.PUT("/:key", h.Catalog.UpdatePerson)
		people.DELETE("/:key", h.Catalog.DeletePerson)
	}

	courses := rg.Group("/courses")
	{
		courses.GET("", h.Catalog.ListCourses)
		courses.POST("", h.Catalog.CreateCourse)
		courses.PUT("/:key", h.Catalog.UpdateCourse)
		courses.DELETE("/:key", h.Catalog.DeleteCourse)
	}

	terms := rg.Group("/terms")
	{
		terms.GET("", h.Catalog.ListTerms)
		terms.POST("", h.Catalog.CreateTerm)
		terms.PUT("/:key", h.Catalog.UpdateTerm)
		terms.DELETE("/:key", h.Catalog.DeleteTerm)
	}

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.Catalog.ListAccounts)
		accounts.POST("", h.Catalog.CreateAccount)
		accounts.PUT("/:key", h.Catalog.UpdateAccount)
		accounts.DELETE("/:key", h.Catalog.DeleteAccount)
	}

	programAreas := rg.Group("/program-areas")
	{
		programAreas.GET("", h.Catalog.ListProgramAreas)
		programAreas.POST("", h.Catalog.CreateProgramArea)
		programAreas.PUT("/:key", h.Catalog.UpdateProgramArea)
		programAreas.DELETE("/:key", h.Catalog.DeleteProgramArea)
	}

	sections := rg.Group("/sections")
	{
		sections.GET("", h.Section.List)
		sections.POST("", h.Section.Create)
		sections.GET("/:id", h.Section.Get)
		sections.PUT("/:id", h.Section.Update)
		sections.POST("/batch-delete", h.Section.BatchDelete)
		sections.POST("/:id/enrollments", h.Section.AddEnrollment)
		sections.POST("/:id/enrollments/batch-delete", h.Section.DeleteEnrollments)
	}

	roles := rg.Group("/roles")
	{
		roles.GET("", h.Role.List)
		roles.PUT("", h.Role.Set)
		roles.DELETE("/:name", h.Role.Delete)
		roles.POST("/import", h.Transfer.ImportRoles)
	}

	rg.POST("/import/:kind", h.Transfer.ImportEntities)
	rg.POST("/export/collections", h.Transfer.ExportCollections)
	rg.POST("/export/canvas", h.Transfer.GenerateCanvasFiles)

	rg.POST("/data/clear", h.Catalog.ClearAll)
}
