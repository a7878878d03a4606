package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
	"github.com/elir-elirlab/osaifill-release/internal/models"
)

// expenseService handles realized-spend lines recorded directly against a
// budget, outside the purchase pipeline.
type expenseService struct {
	db          *gorm.DB
	defaultUnit string
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, defaultUnit string) ExpenseServicer {
	return &expenseService{db: db, defaultUnit: defaultUnit}
}

// ListExpenses returns all actual expenses of a budget.
func (s *expenseService) ListExpenses(budgetID string) ([]models.ActualExpense, error) {
	if _, err := getBudget(s.db, budgetID); err != nil {
		return nil, err
	}
	var expenses []models.ActualExpense
	if err := s.db.Where("budget_id = ?", budgetID).Order("created_at").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// CreateExpense records a realized spend against a budget.
func (s *expenseService) CreateExpense(budgetID, itemName string, amount float64, unit string) (*models.ActualExpense, error) {
	if _, err := getBudget(s.db, budgetID); err != nil {
		return nil, err
	}
	if unit == "" {
		unit = s.defaultUnit
	}
	expense := &models.ActualExpense{BudgetID: budgetID, ItemName: itemName, Amount: amount, Unit: unit}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// UpdateExpense updates an actual expense line.
func (s *expenseService) UpdateExpense(id, itemName string, amount float64, unit string) (*models.ActualExpense, error) {
	expense, err := s.getExpense(id)
	if err != nil {
		return nil, err
	}
	if unit == "" {
		unit = s.defaultUnit
	}
	updates := map[string]interface{}{"item_name": itemName, "amount": amount, "unit": unit}
	if err := s.db.Model(expense).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// DeleteExpense removes an actual expense line.
func (s *expenseService) DeleteExpense(id string) error {
	expense, err := s.getExpense(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *expenseService) getExpense(id string) (*models.ActualExpense, error) {
	var expense models.ActualExpense
	if err := s.db.Where("id = ?", id).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}
