package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
	"github.com/elir-elirlab/osaifill-release/internal/services"
)

// DatasetHandler handles dataset lifecycle requests.
type DatasetHandler struct {
	datasetService services.DatasetServicer
}

// NewDatasetHandler creates a new DatasetHandler.
func NewDatasetHandler(datasetService services.DatasetServicer) *DatasetHandler {
	return &DatasetHandler{datasetService: datasetService}
}

// CreateDatasetRequest represents the request payload for creating a dataset.
type CreateDatasetRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// UpdateDatasetRequest represents the request payload for renaming a dataset.
type UpdateDatasetRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// RolloverRequest represents the request payload for a period rollover.
type RolloverRequest struct {
	NewName         string `json:"new_name" binding:"required,min=1,max=100"`
	SourceDatasetID string `json:"source_dataset_id"`
	CarryBudgets    bool   `json:"carry_budgets"`
	CarryMembers    bool   `json:"carry_members"`
	CarrySettings   bool   `json:"carry_settings"`
}

// ListDatasets handles listing all datasets, newest first.
// @Summary     List datasets
// @Tags        datasets
// @Produce     json
// @Success     200 {object} map[string]interface{} "Datasets"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /datasets [get]
func (h *DatasetHandler) ListDatasets(c *gin.Context) {
	datasets, err := h.datasetService.ListDatasets()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"datasets": datasets})
}

// CreateDataset handles creating an empty dataset.
// @Summary     Create a dataset
// @Tags        datasets
// @Accept      json
// @Produce     json
// @Param       request body CreateDatasetRequest true "Dataset details"
// @Success     201 {object} models.Dataset "Dataset created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /datasets [post]
func (h *DatasetHandler) CreateDataset(c *gin.Context) {
	var req CreateDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dataset, err := h.datasetService.CreateDataset(req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"dataset": dataset})
}

// UpdateDataset handles renaming a dataset.
// @Summary     Rename a dataset
// @Tags        datasets
// @Accept      json
// @Produce     json
// @Param       id      path string               true "Dataset ID"
// @Param       request body UpdateDatasetRequest true "New name"
// @Success     200 {object} models.Dataset "Updated dataset"
// @Failure     404 {object} ErrorResponse "Dataset not found"
// @Router      /datasets/{id} [put]
func (h *DatasetHandler) UpdateDataset(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dataset, err := h.datasetService.UpdateDataset(id, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dataset": dataset})
}

// DeleteDataset handles deleting a dataset and everything it owns.
// @Summary     Delete a dataset
// @Tags        datasets
// @Produce     json
// @Param       id path string true "Dataset ID"
// @Success     200 {object} MessageResponse "Dataset deleted"
// @Failure     404 {object} ErrorResponse "Dataset not found"
// @Router      /datasets/{id} [delete]
func (h *DatasetHandler) DeleteDataset(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.datasetService.DeleteDataset(id); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dataset deleted successfully"})
}

// Rollover handles creating a new dataset from a source period.
// @Summary     Roll over into a new dataset
// @Description Create a new dataset, optionally carrying budgets (as zeroed templates), members, and import settings from a source dataset
// @Tags        datasets
// @Accept      json
// @Produce     json
// @Param       request body RolloverRequest true "Rollover parameters"
// @Success     201 {object} models.Dataset "New dataset"
// @Failure     404 {object} ErrorResponse "Source dataset not found"
// @Router      /datasets/rollover [post]
func (h *DatasetHandler) Rollover(c *gin.Context) {
	var req RolloverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dataset, err := h.datasetService.Rollover(services.RolloverParams{
		NewName:         req.NewName,
		SourceDatasetID: req.SourceDatasetID,
		CarryBudgets:    req.CarryBudgets,
		CarryMembers:    req.CarryMembers,
		CarrySettings:   req.CarrySettings,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"dataset": dataset})
}
