package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elir-elirlab/osaifill-release/internal/allocation"
	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
	"github.com/elir-elirlab/osaifill-release/internal/models"
	"github.com/elir-elirlab/osaifill-release/internal/pagination"
	"github.com/elir-elirlab/osaifill-release/internal/services"
)

// PurchaseHandler handles purchase and allocation requests.
type PurchaseHandler struct {
	purchaseService services.PurchaseServicer
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseService services.PurchaseServicer) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// AllocationRequest is one (budget, amount) leg of a purchase's split.
type AllocationRequest struct {
	BudgetID string  `json:"budget_id" binding:"required"`
	Amount   float64 `json:"amount"`
}

// CreatePurchaseRequest represents the request payload for creating a purchase.
type CreatePurchaseRequest struct {
	DatasetID   string              `json:"dataset_id" binding:"required"`
	ItemName    string              `json:"item_name" binding:"required,min=1,max=200"`
	Amount      float64             `json:"amount"`
	Unit        string              `json:"unit" binding:"omitempty,max=20"`
	MemberName  string              `json:"member_name" binding:"omitempty,max=100"`
	Category    string              `json:"category" binding:"omitempty,purchase_category"`
	Status      string              `json:"status" binding:"omitempty,purchase_status"`
	Priority    int                 `json:"priority" binding:"omitempty,min=1,max=5"`
	Note        string              `json:"note" binding:"omitempty,max=2000"`
	Allocations []AllocationRequest `json:"allocations"`
}

// UpdatePurchaseRequest represents the request payload for updating a
// purchase. A non-nil allocations list replaces all existing splits.
type UpdatePurchaseRequest struct {
	ItemName    *string              `json:"item_name" binding:"omitempty,min=1,max=200"`
	Amount      *float64             `json:"amount"`
	Unit        *string              `json:"unit" binding:"omitempty,max=20"`
	MemberName  *string              `json:"member_name" binding:"omitempty,max=100"`
	Category    *string              `json:"category" binding:"omitempty,purchase_category"`
	Status      *string              `json:"status" binding:"omitempty,purchase_status"`
	Priority    *int                 `json:"priority" binding:"omitempty,min=1,max=5"`
	Note        *string              `json:"note" binding:"omitempty,max=2000"`
	Allocations *[]AllocationRequest `json:"allocations"`
}

// SetStatusRequest represents the request payload for setting a status
// directly.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required,purchase_status"`
}

// DistributeRequest represents the request payload for an equal split.
type DistributeRequest struct {
	BudgetIDs []string `json:"budget_ids" binding:"required,min=1"`
}

// AssignFullRequest represents the request payload for assigning a
// purchase entirely to one budget.
type AssignFullRequest struct {
	BudgetID string `json:"budget_id" binding:"required"`
}

func toSplits(reqs []AllocationRequest) []allocation.Split {
	splits := make([]allocation.Split, 0, len(reqs))
	for _, r := range reqs {
		splits = append(splits, allocation.Split{BudgetID: r.BudgetID, Amount: r.Amount})
	}
	return splits
}

// ListPurchases handles listing a dataset's purchases.
// @Summary     List purchases
// @Tags        purchases
// @Produce     json
// @Param       dataset_id query string true  "Dataset ID"
// @Param       page       query int    false "Page number"
// @Param       page_size  query int    false "Items per page"
// @Success     200 {object} pagination.PageResponse[models.Purchase] "Paginated purchases"
// @Failure     404 {object} ErrorResponse "Dataset not found"
// @Router      /purchases [get]
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	datasetID, err := requireDatasetQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.purchaseService.ListPurchases(datasetID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPurchase handles retrieving one purchase with allocations.
// @Summary     Get purchase by ID
// @Tags        purchases
// @Produce     json
// @Param       id path string true "Purchase ID"
// @Success     200 {object} models.Purchase "Purchase"
// @Failure     404 {object} ErrorResponse "Purchase not found"
// @Router      /purchases/{id} [get]
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	purchase, err := h.purchaseService.GetPurchase(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}

// CreatePurchase handles creating a purchase with an optional split.
// @Summary     Create a purchase
// @Description Create a purchase; allocations may be empty (unassigned spend) and their sum may differ from the amount (flagged, not rejected)
// @Tags        purchases
// @Accept      json
// @Produce     json
// @Param       request body CreatePurchaseRequest true "Purchase details"
// @Success     201 {object} models.Purchase "Purchase created"
// @Failure     400 {object} ErrorResponse "Invalid input or unknown budget"
// @Failure     404 {object} ErrorResponse "Dataset not found"
// @Router      /purchases [post]
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	purchase, err := h.purchaseService.CreatePurchase(req.DatasetID, services.PurchaseInput{
		ItemName:    req.ItemName,
		Amount:      req.Amount,
		Unit:        req.Unit,
		MemberName:  req.MemberName,
		Category:    models.PurchaseCategory(req.Category),
		Status:      models.PurchaseStatus(req.Status),
		Priority:    req.Priority,
		Note:        req.Note,
		Allocations: toSplits(req.Allocations),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"purchase": purchase})
}

// UpdatePurchase handles partial purchase updates.
// @Summary     Update a purchase
// @Tags        purchases
// @Accept      json
// @Produce     json
// @Param       id      path string                true "Purchase ID"
// @Param       request body UpdatePurchaseRequest true "Updated fields"
// @Success     200 {object} models.Purchase "Updated purchase"
// @Failure     404 {object} ErrorResponse "Purchase not found"
// @Router      /purchases/{id} [put]
func (h *PurchaseHandler) UpdatePurchase(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.PurchaseUpdate{
		ItemName:   req.ItemName,
		Amount:     req.Amount,
		Unit:       req.Unit,
		MemberName: req.MemberName,
		Priority:   req.Priority,
		Note:       req.Note,
	}
	if req.Category != nil {
		category := models.PurchaseCategory(*req.Category)
		update.Category = &category
	}
	if req.Status != nil {
		status := models.PurchaseStatus(*req.Status)
		update.Status = &status
	}
	if req.Allocations != nil {
		splits := toSplits(*req.Allocations)
		update.Allocations = &splits
	}

	purchase, err := h.purchaseService.UpdatePurchase(id, update)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}

// DeletePurchase handles removing a purchase and its allocations.
// @Summary     Delete a purchase
// @Tags        purchases
// @Produce     json
// @Param       id path string true "Purchase ID"
// @Success     200 {object} MessageResponse "Purchase deleted"
// @Failure     404 {object} ErrorResponse "Purchase not found"
// @Router      /purchases/{id} [delete]
func (h *PurchaseHandler) DeletePurchase(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.purchaseService.DeletePurchase(id); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Purchase deleted successfully"})
}

// SetStatus handles setting a purchase's status directly.
// @Summary     Set purchase status
// @Tags        purchases
// @Accept      json
// @Produce     json
// @Param       id      path string           true "Purchase ID"
// @Param       request body SetStatusRequest true "New status"
// @Success     200 {object} models.Purchase "Updated purchase"
// @Failure     404 {object} ErrorResponse "Purchase not found"
// @Router      /purchases/{id}/status [patch]
func (h *PurchaseHandler) SetStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	purchase, err := h.purchaseService.SetStatus(id, models.PurchaseStatus(req.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}

// AdvanceStatus handles moving a purchase one step along the status
// cycle drafted → estimated → shopping → purchased → declined → drafted.
// @Summary     Advance purchase status
// @Tags        purchases
// @Produce     json
// @Param       id path string true "Purchase ID"
// @Success     200 {object} models.Purchase "Updated purchase"
// @Failure     404 {object} ErrorResponse "Purchase not found"
// @Router      /purchases/{id}/advance [post]
func (h *PurchaseHandler) AdvanceStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	purchase, err := h.purchaseService.AdvanceStatus(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}

// Distribute handles splitting a purchase's amount equally over budgets.
// @Summary     Distribute purchase equally
// @Tags        purchases
// @Accept      json
// @Produce     json
// @Param       id      path string            true "Purchase ID"
// @Param       request body DistributeRequest true "Budgets to split across"
// @Success     200 {object} models.Purchase "Updated purchase"
// @Failure     400 {object} ErrorResponse "Unknown budget"
// @Failure     404 {object} ErrorResponse "Purchase not found"
// @Router      /purchases/{id}/distribute [post]
func (h *PurchaseHandler) Distribute(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DistributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	purchase, err := h.purchaseService.DistributeEqually(id, req.BudgetIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}

// AssignFull handles assigning a purchase's whole amount to one budget,
// clearing any other splits.
// @Summary     Assign purchase fully to one budget
// @Tags        purchases
// @Accept      json
// @Produce     json
// @Param       id      path string            true "Purchase ID"
// @Param       request body AssignFullRequest true "Target budget"
// @Success     200 {object} models.Purchase "Updated purchase"
// @Failure     400 {object} ErrorResponse "Unknown budget"
// @Failure     404 {object} ErrorResponse "Purchase not found"
// @Router      /purchases/{id}/assign-full [post]
func (h *PurchaseHandler) AssignFull(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AssignFullRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	purchase, err := h.purchaseService.AssignFull(id, req.BudgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase": purchase})
}
