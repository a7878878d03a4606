package services

import (
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/elir-elirlab/osaifill-release/internal/csvio"
	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
	"github.com/elir-elirlab/osaifill-release/internal/models"
)

// importExportService converts delimited-text rows to ledger records and
// back, using persisted per-scope column mappings.
type importExportService struct {
	db          *gorm.DB
	defaultUnit string
}

// NewImportExportService creates a new ImportExportServicer.
func NewImportExportService(db *gorm.DB, defaultUnit string) ImportExportServicer {
	return &importExportService{db: db, defaultUnit: defaultUnit}
}

// GetDatasetMapping returns the purchase-import mapping for a dataset.
func (s *importExportService) GetDatasetMapping(datasetID string) (*models.ImportMapping, error) {
	if _, err := getDataset(s.db, datasetID); err != nil {
		return nil, err
	}
	return s.findMapping("dataset_id = ?", datasetID)
}

// SaveDatasetMapping upserts the purchase-import mapping for a dataset.
func (s *importExportService) SaveDatasetMapping(datasetID string, fields models.FieldMapping) (*models.ImportMapping, error) {
	if _, err := getDataset(s.db, datasetID); err != nil {
		return nil, err
	}
	return s.upsertMapping(s.db, "dataset_id = ?", datasetID, models.ImportMapping{DatasetID: &datasetID}, fields)
}

// GetBudgetMapping returns the legacy expense-import mapping for a budget.
func (s *importExportService) GetBudgetMapping(budgetID string) (*models.ImportMapping, error) {
	if _, err := getBudget(s.db, budgetID); err != nil {
		return nil, err
	}
	return s.findMapping("budget_id = ?", budgetID)
}

// SaveBudgetMapping upserts the legacy expense-import mapping for a budget.
func (s *importExportService) SaveBudgetMapping(budgetID string, fields models.FieldMapping) (*models.ImportMapping, error) {
	if _, err := getBudget(s.db, budgetID); err != nil {
		return nil, err
	}
	return s.upsertMapping(s.db, "budget_id = ?", budgetID, models.ImportMapping{BudgetID: &budgetID}, fields)
}

// ImportPurchases converts CSV rows into purchases for a dataset. When
// mapping is nil the persisted dataset mapping is used; either way the
// mapping of a successful import is persisted for the next one.
//
// The batch is all-or-nothing at the storage level but explicitly partial
// at the row level: convertible rows land, failing rows are enumerated in
// the result with their reason, and neither aborts the other.
func (s *importExportService) ImportPurchases(datasetID string, r io.Reader, mapping *models.FieldMapping, overwrite bool) (*ImportResult, error) {
	if _, err := getDataset(s.db, datasetID); err != nil {
		return nil, err
	}

	fields, err := s.resolveMapping(mapping, "dataset_id = ?", datasetID)
	if err != nil {
		return nil, err
	}
	if fields.ItemName == "" || fields.Amount == "" {
		return nil, apperrors.WithMessage(apperrors.ErrImportFormat, "item_name and amount columns must be mapped")
	}

	headers, rows, err := csvio.ReadTable(r)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrImportFormat, err.Error())
	}
	if err := requireColumns(headers, fields.ItemName, fields.Amount); err != nil {
		return nil, err
	}

	var budgetIDs []string
	if err := s.db.Model(&models.Budget{}).Where("dataset_id = ?", datasetID).Pluck("id", &budgetIDs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	knownBudgets := make(map[string]bool, len(budgetIDs))
	for _, id := range budgetIDs {
		knownBudgets[id] = true
	}

	result := &ImportResult{RowErrors: []RowError{}}
	var purchases []models.Purchase

	for i, row := range rows {
		rowNum := i + 2 // 1-based, after the header row

		itemName := row[fields.ItemName]
		if itemName == "" {
			result.RowErrors = append(result.RowErrors, RowError{Row: rowNum, Reason: "missing item name"})
			continue
		}
		amount, err := csvio.ParseAmount(row[fields.Amount])
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		purchase := models.Purchase{
			DatasetID: datasetID,
			ItemName:  itemName,
			Amount:    amount,
			Unit:      s.defaultUnit,
			Category:  models.CategoryOther,
			Status:    models.StatusDrafted,
			Priority:  3,
		}
		if fields.MemberName != "" {
			purchase.MemberName = row[fields.MemberName]
		}
		if fields.Category != "" {
			purchase.Category = csvio.NormalizeCategory(row[fields.Category])
		}
		if fields.Status != "" {
			purchase.Status = csvio.NormalizeStatus(row[fields.Status])
		}
		if fields.Priority != "" {
			purchase.Priority = csvio.NormalizePriority(row[fields.Priority])
		}
		if fields.Note != "" {
			purchase.Note = row[fields.Note]
		}

		if fields.BudgetID != "" && fields.AllocationAmount != "" {
			budgetID := row[fields.BudgetID]
			rawAmount := row[fields.AllocationAmount]
			if budgetID != "" && rawAmount != "" {
				if !knownBudgets[budgetID] {
					result.RowErrors = append(result.RowErrors, RowError{Row: rowNum,
						Reason: fmt.Sprintf("unknown budget %q", budgetID)})
					continue
				}
				allocAmount, err := csvio.ParseAmount(rawAmount)
				if err != nil {
					result.RowErrors = append(result.RowErrors, RowError{Row: rowNum,
						Reason: "allocation " + err.Error()})
					continue
				}
				purchase.Allocations = []models.Allocation{{BudgetID: budgetID, Amount: allocAmount}}
			}
		}

		purchases = append(purchases, purchase)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if overwrite {
			if err := clearPurchases(tx, datasetID); err != nil {
				return err
			}
		}
		for i := range purchases {
			if err := tx.Create(&purchases[i]).Error; err != nil {
				return err
			}
		}
		if _, err := s.upsertMapping(tx, "dataset_id = ?", datasetID,
			models.ImportMapping{DatasetID: &datasetID}, fields); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result.Imported = len(purchases)
	return result, nil
}

// ImportExpenses converts CSV rows into actual-expense lines for one
// budget — the legacy single-budget path that predates full purchase
// import. Only item name and amount are mapped.
func (s *importExportService) ImportExpenses(budgetID string, r io.Reader, mapping *models.FieldMapping, overwrite bool) (*ImportResult, error) {
	if _, err := getBudget(s.db, budgetID); err != nil {
		return nil, err
	}

	fields, err := s.resolveMapping(mapping, "budget_id = ?", budgetID)
	if err != nil {
		return nil, err
	}
	if fields.ItemName == "" || fields.Amount == "" {
		return nil, apperrors.WithMessage(apperrors.ErrImportFormat, "item_name and amount columns must be mapped")
	}

	headers, rows, err := csvio.ReadTable(r)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrImportFormat, err.Error())
	}
	if err := requireColumns(headers, fields.ItemName, fields.Amount); err != nil {
		return nil, err
	}

	result := &ImportResult{RowErrors: []RowError{}}
	var expenses []models.ActualExpense

	for i, row := range rows {
		rowNum := i + 2

		itemName := row[fields.ItemName]
		if itemName == "" {
			result.RowErrors = append(result.RowErrors, RowError{Row: rowNum, Reason: "missing item name"})
			continue
		}
		amount, err := csvio.ParseAmount(row[fields.Amount])
		if err != nil {
			result.RowErrors = append(result.RowErrors, RowError{Row: rowNum, Reason: err.Error()})
			continue
		}
		expenses = append(expenses, models.ActualExpense{
			BudgetID: budgetID,
			ItemName: itemName,
			Amount:   amount,
			Unit:     s.defaultUnit,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if overwrite {
			if err := tx.Where("budget_id = ?", budgetID).Delete(&models.ActualExpense{}).Error; err != nil {
				return err
			}
		}
		for i := range expenses {
			if err := tx.Create(&expenses[i]).Error; err != nil {
				return err
			}
		}
		if _, err := s.upsertMapping(tx, "budget_id = ?", budgetID,
			models.ImportMapping{BudgetID: &budgetID}, fields); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result.Imported = len(expenses)
	return result, nil
}

// ExportPurchases writes a dataset's purchases in the flat export format.
func (s *importExportService) ExportPurchases(datasetID string, w io.Writer) error {
	if _, err := getDataset(s.db, datasetID); err != nil {
		return err
	}
	var purchases []models.Purchase
	if err := s.db.Preload("Allocations").Where("dataset_id = ?", datasetID).
		Order("priority DESC, created_at DESC").Find(&purchases).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := csvio.WritePurchases(w, purchases); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// resolveMapping prefers an inline mapping and falls back to the
// persisted one for the scope.
func (s *importExportService) resolveMapping(inline *models.FieldMapping, query string, scopeID string) (models.FieldMapping, error) {
	if inline != nil {
		return *inline, nil
	}
	stored, err := s.findMapping(query, scopeID)
	if err != nil {
		return models.FieldMapping{}, err
	}
	if stored == nil {
		return models.FieldMapping{}, apperrors.ErrImportMappingNotFound
	}
	fields, err := stored.Mapping()
	if err != nil {
		return models.FieldMapping{}, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return fields, nil
}

// findMapping returns the mapping row for a scope, or nil when none is
// saved yet.
func (s *importExportService) findMapping(query string, scopeID string) (*models.ImportMapping, error) {
	var mapping models.ImportMapping
	if err := s.db.Where(query, scopeID).First(&mapping).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &mapping, nil
}

func (s *importExportService) upsertMapping(tx *gorm.DB, query string, scopeID string, template models.ImportMapping, fields models.FieldMapping) (*models.ImportMapping, error) {
	var mapping models.ImportMapping
	err := tx.Where(query, scopeID).First(&mapping).Error
	switch {
	case err == nil:
		if err := mapping.SetMapping(fields); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Model(&mapping).Update("fields", mapping.Fields).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &mapping, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		mapping = template
		if err := mapping.SetMapping(fields); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Create(&mapping).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &mapping, nil
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// requireColumns verifies that every mapped required column exists in the
// file header.
func requireColumns(headers []string, required ...string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	for _, col := range required {
		if !present[col] {
			return apperrors.WithMessage(apperrors.ErrImportFormat,
				fmt.Sprintf("file is missing mapped column %q", col))
		}
	}
	return nil
}

// clearPurchases removes all purchases of a dataset together with their
// allocations.
func clearPurchases(tx *gorm.DB, datasetID string) error {
	var purchaseIDs []string
	if err := tx.Model(&models.Purchase{}).Where("dataset_id = ?", datasetID).Pluck("id", &purchaseIDs).Error; err != nil {
		return err
	}
	if len(purchaseIDs) > 0 {
		if err := tx.Where("purchase_id IN ?", purchaseIDs).Delete(&models.Allocation{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("dataset_id = ?", datasetID).Delete(&models.Purchase{}).Error
}
