package handlers

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
	"github.com/elir-elirlab/osaifill-release/internal/models"
	"github.com/elir-elirlab/osaifill-release/internal/services"
)

// ImportExportHandler handles CSV import/export and the per-scope field
// mappings that drive them.
type ImportExportHandler struct {
	importService services.ImportExportServicer
}

// NewImportExportHandler creates a new ImportExportHandler.
func NewImportExportHandler(importService services.ImportExportServicer) *ImportExportHandler {
	return &ImportExportHandler{importService: importService}
}

// SaveMappingRequest represents the request payload for storing a field
// mapping. Column names are the headers as they appear in the file.
type SaveMappingRequest struct {
	ItemName         string `json:"item_name" binding:"required"`
	Amount           string `json:"amount" binding:"required"`
	MemberName       string `json:"member_name"`
	Category         string `json:"category"`
	Priority         string `json:"priority"`
	Note             string `json:"note"`
	Status           string `json:"status"`
	BudgetID         string `json:"budget_id"`
	AllocationAmount string `json:"allocation_amount"`
}

func (r SaveMappingRequest) toFieldMapping() models.FieldMapping {
	return models.FieldMapping{
		ItemName:         r.ItemName,
		Amount:           r.Amount,
		MemberName:       r.MemberName,
		Category:         r.Category,
		Priority:         r.Priority,
		Note:             r.Note,
		Status:           r.Status,
		BudgetID:         r.BudgetID,
		AllocationAmount: r.AllocationAmount,
	}
}

// importUpload pulls the uploaded file, overwrite flag and optional inline
// mapping out of a multipart import request. The mapping part, when
// present, is a JSON-encoded FieldMapping in the "mapping" form field.
func importUpload(c *gin.Context) (file multipart.File, mapping *models.FieldMapping, overwrite bool, err error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "missing file upload")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, nil, false, apperrors.Wrap(apperrors.ErrInvalidInput, err)
	}

	overwrite = c.PostForm("overwrite") == "true"

	if raw := c.PostForm("mapping"); raw != "" {
		var fm models.FieldMapping
		if err := json.Unmarshal([]byte(raw), &fm); err != nil {
			f.Close()
			return nil, nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("invalid mapping: %v", err))
		}
		mapping = &fm
	}
	return f, mapping, overwrite, nil
}

// GetDatasetMapping handles reading a dataset's stored import mapping.
// @Summary     Get dataset import mapping
// @Tags        import-export
// @Produce     json
// @Param       id path string true "Dataset ID"
// @Success     200 {object} models.ImportMapping "Stored mapping"
// @Failure     404 {object} ErrorResponse "Dataset or mapping not found"
// @Router      /datasets/{id}/import-mapping [get]
func (h *ImportExportHandler) GetDatasetMapping(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	mapping, err := h.importService.GetDatasetMapping(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"import_mapping": mapping})
}

// SaveDatasetMapping handles storing a dataset's import mapping.
// @Summary     Save dataset import mapping
// @Tags        import-export
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Dataset ID"
// @Param       request body SaveMappingRequest true "Field mapping"
// @Success     200 {object} models.ImportMapping "Stored mapping"
// @Failure     404 {object} ErrorResponse "Dataset not found"
// @Router      /datasets/{id}/import-mapping [put]
func (h *ImportExportHandler) SaveDatasetMapping(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SaveMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	mapping, err := h.importService.SaveDatasetMapping(id, req.toFieldMapping())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"import_mapping": mapping})
}

// GetBudgetMapping handles reading a budget's stored import mapping.
// @Summary     Get budget import mapping
// @Tags        import-export
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.ImportMapping "Stored mapping"
// @Failure     404 {object} ErrorResponse "Budget or mapping not found"
// @Router      /budgets/{id}/import-mapping [get]
func (h *ImportExportHandler) GetBudgetMapping(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	mapping, err := h.importService.GetBudgetMapping(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"import_mapping": mapping})
}

// SaveBudgetMapping handles storing a budget's import mapping.
// @Summary     Save budget import mapping
// @Tags        import-export
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Budget ID"
// @Param       request body SaveMappingRequest true "Field mapping"
// @Success     200 {object} models.ImportMapping "Stored mapping"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/import-mapping [put]
func (h *ImportExportHandler) SaveBudgetMapping(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SaveMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	mapping, err := h.importService.SaveBudgetMapping(id, req.toFieldMapping())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"import_mapping": mapping})
}

// ImportPurchases handles a multipart CSV import into a dataset.
// Form fields: file (required), overwrite ("true" replaces the dataset's
// purchases first), mapping (optional inline JSON field mapping; falls
// back to the stored dataset mapping).
// @Summary     Import purchases from CSV
// @Tags        import-export
// @Accept      multipart/form-data
// @Produce     json
// @Param       dataset_id query string true  "Dataset ID"
// @Param       file       formData file  true  "CSV file"
// @Param       overwrite  formData string false "Replace existing purchases when true"
// @Param       mapping    formData string false "Inline field mapping JSON"
// @Success     200 {object} services.ImportResult "Per-row import outcome"
// @Failure     400 {object} ErrorResponse "Missing mapping or unreadable file"
// @Failure     404 {object} ErrorResponse "Dataset not found"
// @Router      /purchases/import-csv [post]
func (h *ImportExportHandler) ImportPurchases(c *gin.Context) {
	datasetID, err := requireDatasetQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	file, mapping, overwrite, err := importUpload(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer file.Close()

	result, err := h.importService.ImportPurchases(datasetID, file, mapping, overwrite)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportExpenses handles a multipart CSV import of actual expenses into
// one budget. Same form fields as the purchase import.
// @Summary     Import actual expenses from CSV
// @Tags        import-export
// @Accept      multipart/form-data
// @Produce     json
// @Param       id        path     string true  "Budget ID"
// @Param       file      formData file   true  "CSV file"
// @Param       overwrite formData string false "Replace existing expenses when true"
// @Param       mapping   formData string false "Inline field mapping JSON"
// @Success     200 {object} services.ImportResult "Per-row import outcome"
// @Failure     400 {object} ErrorResponse "Missing mapping or unreadable file"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/import-csv [post]
func (h *ImportExportHandler) ImportExpenses(c *gin.Context) {
	budgetID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	file, mapping, overwrite, err := importUpload(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	defer file.Close()

	result, err := h.importService.ImportExpenses(budgetID, file, mapping, overwrite)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportPurchases handles streaming a dataset's purchases as CSV, one row
// per allocation leg.
// @Summary     Export purchases to CSV
// @Tags        import-export
// @Produce     text/csv
// @Param       dataset_id query string true "Dataset ID"
// @Success     200 {string} string "CSV payload"
// @Failure     404 {object} ErrorResponse "Dataset not found"
// @Router      /purchases/export-csv [get]
func (h *ImportExportHandler) ExportPurchases(c *gin.Context) {
	datasetID, err := requireDatasetQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="purchases.csv"`)
	if err := h.importService.ExportPurchases(datasetID, c.Writer); err != nil {
		respondWithError(c, err)
		return
	}
}
