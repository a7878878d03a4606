package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
	"github.com/elir-elirlab/osaifill-release/internal/services"
)

// BudgetHandler handles budget envelope requests, including merge.
type BudgetHandler struct {
	budgetService services.BudgetServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// CreateBudgetRequest represents the request payload for creating a budget.
// ID is optional; when set it becomes the budget's permanent identifier.
type CreateBudgetRequest struct {
	DatasetID   string  `json:"dataset_id" binding:"required"`
	ID          string  `json:"id" binding:"omitempty,max=100"`
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	TotalAmount float64 `json:"total_amount" binding:"min=0"`
	Unit        string  `json:"unit" binding:"omitempty,max=20"`
	Description string  `json:"description" binding:"omitempty,max=1000"`
}

// UpdateBudgetRequest represents the request payload for updating a
// budget. The budget id cannot be changed after creation.
type UpdateBudgetRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=100"`
	TotalAmount *float64 `json:"total_amount" binding:"omitempty,min=0"`
	Unit        *string  `json:"unit" binding:"omitempty,max=20"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
}

// MergeBudgetsRequest represents the request payload for merging two budgets.
type MergeBudgetsRequest struct {
	SourceBudgetID string `json:"source_budget_id" binding:"required"`
	TargetBudgetID string `json:"target_budget_id" binding:"required"`
}

// ListBudgets handles listing the budgets of a dataset.
// @Summary     List budgets
// @Tags        budgets
// @Produce     json
// @Param       dataset_id query string true "Dataset ID"
// @Success     200 {object} map[string]interface{} "Budgets"
// @Failure     404 {object} ErrorResponse "Dataset not found"
// @Router      /budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	datasetID, err := requireDatasetQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgets, err := h.budgetService.ListBudgets(datasetID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budgets": budgets})
}

// GetBudget handles retrieving a single budget.
// @Summary     Get budget by ID
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     200 {object} models.Budget "Budget"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetBudget(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// CreateBudget handles creating a budget envelope.
// @Summary     Create a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       request body CreateBudgetRequest true "Budget details"
// @Success     201 {object} models.Budget "Budget created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Dataset not found"
// @Failure     409 {object} ErrorResponse "Budget id already in use"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.CreateBudget(req.DatasetID, services.BudgetInput{
		ID:          req.ID,
		Name:        req.Name,
		TotalAmount: req.TotalAmount,
		Unit:        req.Unit,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// UpdateBudget handles editing a budget's name, amount, unit, or
// description.
// @Summary     Update a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       id      path string              true "Budget ID"
// @Param       request body UpdateBudgetRequest true "Updated fields"
// @Success     200 {object} models.Budget "Updated budget"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.UpdateBudget(id, services.BudgetUpdate{
		Name:        req.Name,
		TotalAmount: req.TotalAmount,
		Unit:        req.Unit,
		Description: req.Description,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget handles removing a budget and its allocations, expenses,
// and import mapping.
// @Summary     Delete a budget
// @Tags        budgets
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     200 {object} MessageResponse "Budget deleted"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.budgetService.DeleteBudget(id); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// MergeBudgets handles folding one budget into another. All allocations
// and actual expenses move to the target and the source is removed; the
// dataset's total allocated and expensed money is unchanged.
// @Summary     Merge two budgets
// @Description Move all allocations and actual expenses from the source budget to the target, then delete the source
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Param       request body MergeBudgetsRequest true "Source and target budget ids"
// @Success     200 {object} models.Budget "Merged target budget"
// @Failure     400 {object} ErrorResponse "Invalid merge target"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/merge [post]
func (h *BudgetHandler) MergeBudgets(c *gin.Context) {
	var req MergeBudgetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	budget, err := h.budgetService.Merge(req.SourceBudgetID, req.TargetBudgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget})
}
