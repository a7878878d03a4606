package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/elir-elirlab/osaifill-release/internal/allocation"
	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
	"github.com/elir-elirlab/osaifill-release/internal/models"
	"github.com/elir-elirlab/osaifill-release/internal/pagination"
)

// purchaseService handles purchases and their budget splits. All split
// rules live in the allocation package; this service only binds them to
// the ledger.
type purchaseService struct {
	db          *gorm.DB
	defaultUnit string
}

// NewPurchaseService creates a new PurchaseServicer. defaultUnit is the
// display label applied when a purchase carries none.
func NewPurchaseService(db *gorm.DB, defaultUnit string) PurchaseServicer {
	return &purchaseService{db: db, defaultUnit: defaultUnit}
}

// ListPurchases returns a page of a dataset's purchases, highest priority
// first, then newest first. Each purchase carries its allocations and the
// derived mismatch flag.
func (s *purchaseService) ListPurchases(datasetID string, page pagination.PageRequest) (*pagination.PageResponse[models.Purchase], error) {
	if _, err := getDataset(s.db, datasetID); err != nil {
		return nil, err
	}
	page.Defaults()

	base := s.db.Model(&models.Purchase{}).Where("dataset_id = ?", datasetID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var purchases []models.Purchase
	if err := base.Preload("Allocations").
		Order("priority DESC, created_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&purchases).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range purchases {
		flagMismatch(&purchases[i])
	}

	result := pagination.NewPageResponse(purchases, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPurchase returns one purchase with allocations and mismatch flag.
func (s *purchaseService) GetPurchase(id string) (*models.Purchase, error) {
	return s.getPurchase(id)
}

// CreatePurchase validates the proposed split against the dataset's
// budgets and persists the purchase with its allocations atomically. A
// split sum that disagrees with the amount is accepted and only flagged.
func (s *purchaseService) CreatePurchase(datasetID string, in PurchaseInput) (*models.Purchase, error) {
	if _, err := getDataset(s.db, datasetID); err != nil {
		return nil, err
	}
	if in.ItemName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "item_name is required")
	}
	if in.Category != "" && !in.Category.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "unknown category")
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "unknown status")
	}
	if in.Priority != 0 && (in.Priority < 1 || in.Priority > 5) {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "priority must be between 1 and 5")
	}

	known, err := s.knownBudgetIDs(datasetID)
	if err != nil {
		return nil, err
	}
	if err := allocation.Validate(in.Allocations, known); err != nil {
		return nil, err
	}

	purchase := &models.Purchase{
		DatasetID:  datasetID,
		ItemName:   in.ItemName,
		Amount:     in.Amount,
		Unit:       in.Unit,
		MemberName: in.MemberName,
		Category:   in.Category,
		Status:     in.Status,
		Priority:   in.Priority,
		Note:       in.Note,
	}
	applyPurchaseDefaults(purchase, s.defaultUnit)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(purchase).Error; err != nil {
			return err
		}
		return createAllocations(tx, purchase.ID, in.Allocations)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.getPurchase(purchase.ID)
}

// UpdatePurchase applies partial updates. A non-nil allocation list
// replaces the stored splits wholesale.
func (s *purchaseService) UpdatePurchase(id string, in PurchaseUpdate) (*models.Purchase, error) {
	purchase, err := s.getPurchase(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if in.ItemName != nil {
		if *in.ItemName == "" {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "item_name must not be empty")
		}
		updates["item_name"] = *in.ItemName
	}
	if in.Amount != nil {
		updates["amount"] = *in.Amount
	}
	if in.Unit != nil {
		updates["unit"] = *in.Unit
	}
	if in.MemberName != nil {
		updates["member_name"] = *in.MemberName
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "unknown category")
		}
		updates["category"] = *in.Category
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "unknown status")
		}
		updates["status"] = *in.Status
	}
	if in.Priority != nil {
		if *in.Priority < 1 || *in.Priority > 5 {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "priority must be between 1 and 5")
		}
		updates["priority"] = *in.Priority
	}
	if in.Note != nil {
		updates["note"] = *in.Note
	}

	if in.Allocations != nil {
		known, err := s.knownBudgetIDs(purchase.DatasetID)
		if err != nil {
			return nil, err
		}
		if err := allocation.Validate(*in.Allocations, known); err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(purchase).Updates(updates).Error; err != nil {
				return err
			}
		}
		if in.Allocations != nil {
			if err := tx.Where("purchase_id = ?", id).Delete(&models.Allocation{}).Error; err != nil {
				return err
			}
			return createAllocations(tx, id, *in.Allocations)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.getPurchase(id)
}

// DeletePurchase removes a purchase and its allocations.
func (s *purchaseService) DeletePurchase(id string) error {
	purchase, err := s.getPurchase(id)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", id).Delete(&models.Allocation{}).Error; err != nil {
			return err
		}
		return tx.Delete(purchase).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SetStatus sets a purchase's status directly.
func (s *purchaseService) SetStatus(id string, status models.PurchaseStatus) (*models.Purchase, error) {
	if !status.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "unknown status")
	}
	purchase, err := s.getPurchase(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(purchase).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.getPurchase(purchase.ID)
}

// AdvanceStatus moves a purchase one step along the fixed cycle
// drafted → estimated → shopping → purchased → declined → drafted.
func (s *purchaseService) AdvanceStatus(id string) (*models.Purchase, error) {
	purchase, err := s.getPurchase(id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(purchase).Update("status", purchase.Status.Next()).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.getPurchase(purchase.ID)
}

// DistributeEqually replaces the purchase's splits with an even
// distribution of its amount over the given budgets.
func (s *purchaseService) DistributeEqually(id string, budgetIDs []string) (*models.Purchase, error) {
	purchase, err := s.getPurchase(id)
	if err != nil {
		return nil, err
	}
	splits := allocation.DistributeEqually(purchase.Amount, budgetIDs)
	return s.replaceAllocations(purchase, splits)
}

// AssignFull clears all splits and assigns the entire amount to one budget.
func (s *purchaseService) AssignFull(id, budgetID string) (*models.Purchase, error) {
	purchase, err := s.getPurchase(id)
	if err != nil {
		return nil, err
	}
	return s.replaceAllocations(purchase, allocation.AssignFull(purchase.Amount, budgetID))
}

func (s *purchaseService) replaceAllocations(purchase *models.Purchase, splits []allocation.Split) (*models.Purchase, error) {
	known, err := s.knownBudgetIDs(purchase.DatasetID)
	if err != nil {
		return nil, err
	}
	if err := allocation.Validate(splits, known); err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", purchase.ID).Delete(&models.Allocation{}).Error; err != nil {
			return err
		}
		return createAllocations(tx, purchase.ID, splits)
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.getPurchase(purchase.ID)
}

func (s *purchaseService) getPurchase(id string) (*models.Purchase, error) {
	var purchase models.Purchase
	if err := s.db.Preload("Allocations").Where("id = ?", id).First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPurchaseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	flagMismatch(&purchase)
	return &purchase, nil
}

func (s *purchaseService) knownBudgetIDs(datasetID string) (map[string]bool, error) {
	var ids []string
	if err := s.db.Model(&models.Budget{}).Where("dataset_id = ?", datasetID).Pluck("id", &ids).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return known, nil
}

// createAllocations inserts one allocation row per split.
func createAllocations(tx *gorm.DB, purchaseID string, splits []allocation.Split) error {
	for _, split := range splits {
		row := models.Allocation{PurchaseID: purchaseID, BudgetID: split.BudgetID, Amount: split.Amount}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyPurchaseDefaults fills unset enum and label fields.
func applyPurchaseDefaults(p *models.Purchase, defaultUnit string) {
	if p.Unit == "" {
		p.Unit = defaultUnit
	}
	if p.Category == "" {
		p.Category = models.CategoryOther
	}
	if p.Status == "" {
		p.Status = models.StatusDrafted
	}
	if p.Priority == 0 {
		p.Priority = 3
	}
}

// flagMismatch derives the allocation-sum warning for a loaded purchase.
func flagMismatch(p *models.Purchase) {
	splits := make([]allocation.Split, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		splits = append(splits, allocation.Split{BudgetID: a.BudgetID, Amount: a.Amount})
	}
	p.Mismatched = allocation.Mismatched(p.Amount, splits)
}
