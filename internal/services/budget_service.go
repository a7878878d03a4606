package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
	"github.com/elir-elirlab/osaifill-release/internal/models"
)

// budgetService handles budget envelopes and the merge operator.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// ListBudgets returns all budgets of a dataset.
func (s *budgetService) ListBudgets(datasetID string) ([]models.Budget, error) {
	if _, err := getDataset(s.db, datasetID); err != nil {
		return nil, err
	}
	var budgets []models.Budget
	if err := s.db.Where("dataset_id = ?", datasetID).Order("created_at").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetBudget returns a budget by id.
func (s *budgetService) GetBudget(id string) (*models.Budget, error) {
	return getBudget(s.db, id)
}

// CreateBudget creates a budget. The caller may supply a stable id of its
// own choosing; otherwise one is generated. Either way the id is
// immutable afterwards.
func (s *budgetService) CreateBudget(datasetID string, in BudgetInput) (*models.Budget, error) {
	if _, err := getDataset(s.db, datasetID); err != nil {
		return nil, err
	}
	if in.TotalAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "total_amount must not be negative")
	}

	if in.ID != "" {
		// Soft-deleted rows still occupy the primary key, so the
		// uniqueness check has to see them too.
		var count int64
		if err := s.db.Unscoped().Model(&models.Budget{}).Where("id = ?", in.ID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateBudgetID
		}
	}

	budget := &models.Budget{
		DatasetID:   datasetID,
		Name:        in.Name,
		TotalAmount: in.TotalAmount,
		Unit:        in.Unit,
		Description: in.Description,
	}
	budget.ID = in.ID
	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// UpdateBudget updates name, amount, unit, or description. The id and the
// owning dataset cannot change.
func (s *budgetService) UpdateBudget(id string, in BudgetUpdate) (*models.Budget, error) {
	budget, err := getBudget(s.db, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.TotalAmount != nil {
		if *in.TotalAmount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "total_amount must not be negative")
		}
		updates["total_amount"] = *in.TotalAmount
	}
	if in.Unit != nil {
		updates["unit"] = *in.Unit
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return budget, nil
}

// DeleteBudget removes a budget together with its allocations, actual
// expenses, and import mapping. Purchases survive; a purchase that loses
// an allocation leg simply reports a mismatch on the next read.
func (s *budgetService) DeleteBudget(id string) error {
	budget, err := getBudget(s.db, id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", id).Delete(&models.Allocation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("budget_id = ?", id).Delete(&models.ActualExpense{}).Error; err != nil {
			return err
		}
		if err := tx.Where("budget_id = ?", id).Delete(&models.ImportMapping{}).Error; err != nil {
			return err
		}
		return tx.Delete(budget).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Merge moves everything from the source budget into the target and
// removes the source, all in one transaction. The total money allocated
// and expensed across the dataset is identical before and after, and no
// purchase ends up with two allocations to the target.
func (s *budgetService) Merge(sourceID, targetID string) (*models.Budget, error) {
	if sourceID == targetID {
		return nil, apperrors.ErrInvalidMergeTarget
	}
	source, err := getBudget(s.db, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := getBudget(s.db, targetID)
	if err != nil {
		return nil, err
	}
	if source.DatasetID != target.DatasetID {
		return nil, apperrors.ErrInvalidMergeTarget
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// The merged envelope absorbs the source's capacity.
		if err := tx.Model(target).Update("total_amount", target.TotalAmount+source.TotalAmount).Error; err != nil {
			return err
		}

		var sourceAllocations []models.Allocation
		if err := tx.Where("budget_id = ?", sourceID).Find(&sourceAllocations).Error; err != nil {
			return err
		}
		for _, sa := range sourceAllocations {
			var existing models.Allocation
			err := tx.Where("budget_id = ? AND purchase_id = ?", targetID, sa.PurchaseID).First(&existing).Error
			switch {
			case err == nil:
				// The purchase already allocates to the target: fold the
				// source leg in rather than creating a duplicate pair.
				if err := tx.Model(&existing).Update("amount", existing.Amount+sa.Amount).Error; err != nil {
					return err
				}
				if err := tx.Delete(&sa).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Model(&sa).Update("budget_id", targetID).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}

		if err := tx.Model(&models.ActualExpense{}).Where("budget_id = ?", sourceID).
			Update("budget_id", targetID).Error; err != nil {
			return err
		}

		// The target keeps its own import mapping; it adopts the source's
		// only when it has none.
		var targetMapping models.ImportMapping
		targetErr := tx.Where("budget_id = ?", targetID).First(&targetMapping).Error
		if targetErr != nil && !errors.Is(targetErr, gorm.ErrRecordNotFound) {
			return targetErr
		}
		targetHasMapping := targetErr == nil
		var sourceMapping models.ImportMapping
		err := tx.Where("budget_id = ?", sourceID).First(&sourceMapping).Error
		if err == nil {
			if targetHasMapping {
				if err := tx.Delete(&sourceMapping).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Model(&sourceMapping).Update("budget_id", targetID).Error; err != nil {
					return err
				}
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Delete(source).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return getBudget(s.db, targetID)
}

// getBudget loads a budget or reports UNKNOWN_BUDGET.
func getBudget(db *gorm.DB, id string) (*models.Budget, error) {
	var budget models.Budget
	if err := db.Where("id = ?", id).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}
