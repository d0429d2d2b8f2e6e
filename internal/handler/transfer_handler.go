package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hsmith-dev/canvas-sis-prep/internal/service"
	"github.com/hsmith-dev/canvas-sis-prep/pkg/response"
)

// TransferHandler exposes the CSV import and export endpoints.
type TransferHandler struct {
	importService *service.ImportService
	exportService *service.ExportService
}

// NewTransferHandler constructs a transfer handler.
func NewTransferHandler(importSvc *service.ImportService, exportSvc *service.ExportService) *TransferHandler {
	return &TransferHandler{importService: importSvc, exportService: exportSvc}
}

type importRequest struct {
	Path string `json:"path" binding:"required"`
}

// ImportEntities bulk-loads one entity collection from a CSV file on disk.
func (h *TransferHandler) ImportEntities(c *gin.Context) {
	var req importRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.importService.ImportEntities(c.Param("kind"), req.Path)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ImportRoles upserts role mappings from a CSV file on disk.
func (h *TransferHandler) ImportRoles(c *gin.Context) {
	var req importRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.importService.ImportRoles(req.Path)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

type exportCollectionsRequest struct {
	Kinds []string `json:"kinds" binding:"required"`
	Dir   string   `json:"dir"`
}

// ExportCollections dumps the selected collections as backup CSVs.
func (h *TransferHandler) ExportCollections(c *gin.Context) {
	var req exportCollectionsRequest
	if !bindJSON(c, &req) {
		return
	}
	message, err := h.exportService.ExportCollections(req.Kinds, req.Dir)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": message})
}

type generateCanvasRequest struct {
	Dir    string `json:"dir"`
	Prefix string `json:"prefix"`
}

// GenerateCanvasFiles produces the three Canvas SIS import CSVs.
func (h *TransferHandler) GenerateCanvasFiles(c *gin.Context) {
	var req generateCanvasRequest
	if !bindJSON(c, &req) {
		return
	}
	message, err := h.exportService.GenerateCanvasFiles(req.Dir, req.Prefix)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": message})
}
