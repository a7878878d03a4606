package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
	"github.com/elir-elirlab/osaifill-release/internal/services"
)

// ExpenseHandler handles actual-expense requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseRequest represents the request payload for creating or updating
// an actual-expense line.
type ExpenseRequest struct {
	ItemName string  `json:"item_name" binding:"required,min=1,max=200"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit" binding:"omitempty,max=20"`
}

// ListExpenses handles listing a budget's recorded spend.
// @Summary     List actual expenses for a budget
// @Tags        expenses
// @Produce     json
// @Param       id path string true "Budget ID"
// @Success     200 {array} models.ActualExpense "Expenses"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/actual-expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	budgetID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.expenseService.ListExpenses(budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actual_expenses": expenses})
}

// CreateExpense handles recording spend against a budget.
// @Summary     Record an actual expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       id      path string         true "Budget ID"
// @Param       request body ExpenseRequest true "Expense details"
// @Success     201 {object} models.ActualExpense "Expense created"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id}/actual-expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	budgetID, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.CreateExpense(budgetID, req.ItemName, req.Amount, req.Unit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"actual_expense": expense})
}

// UpdateExpense handles editing a recorded expense line.
// @Summary     Update an actual expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Param       id      path string         true "Expense ID"
// @Param       request body ExpenseRequest true "Updated expense"
// @Success     200 {object} models.ActualExpense "Updated expense"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /actual-expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(id, req.ItemName, req.Amount, req.Unit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actual_expense": expense})
}

// DeleteExpense handles removing a recorded expense line.
// @Summary     Delete an actual expense
// @Tags        expenses
// @Produce     json
// @Param       id path string true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /actual-expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(id); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
