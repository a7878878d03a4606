package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
	"github.com/elir-elirlab/osaifill-release/internal/models"
)

// datasetService handles dataset lifecycle, including period rollover.
type datasetService struct {
	db *gorm.DB
}

// NewDatasetService creates a new DatasetServicer.
func NewDatasetService(db *gorm.DB) DatasetServicer {
	return &datasetService{db: db}
}

// ListDatasets returns all datasets, newest first.
func (s *datasetService) ListDatasets() ([]models.Dataset, error) {
	var datasets []models.Dataset
	if err := s.db.Order("created_at DESC").Find(&datasets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return datasets, nil
}

// CreateDataset creates an empty dataset.
func (s *datasetService) CreateDataset(name string) (*models.Dataset, error) {
	dataset := &models.Dataset{Name: name}
	if err := s.db.Create(dataset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return dataset, nil
}

// UpdateDataset renames a dataset.
func (s *datasetService) UpdateDataset(id, name string) (*models.Dataset, error) {
	dataset, err := getDataset(s.db, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(dataset).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return dataset, nil
}

// DeleteDataset removes a dataset and everything it owns in a single
// transaction. Datasets are only ever deleted as a whole.
func (s *datasetService) DeleteDataset(id string) error {
	dataset, err := getDataset(s.db, id)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var purchaseIDs []string
		if err := tx.Model(&models.Purchase{}).Where("dataset_id = ?", id).Pluck("id", &purchaseIDs).Error; err != nil {
			return err
		}
		if len(purchaseIDs) > 0 {
			if err := tx.Where("purchase_id IN ?", purchaseIDs).Delete(&models.Allocation{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("dataset_id = ?", id).Delete(&models.Purchase{}).Error; err != nil {
			return err
		}

		var budgetIDs []string
		if err := tx.Model(&models.Budget{}).Where("dataset_id = ?", id).Pluck("id", &budgetIDs).Error; err != nil {
			return err
		}
		if len(budgetIDs) > 0 {
			if err := tx.Where("budget_id IN ?", budgetIDs).Delete(&models.ActualExpense{}).Error; err != nil {
				return err
			}
			if err := tx.Where("budget_id IN ?", budgetIDs).Delete(&models.ImportMapping{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("dataset_id = ?", id).Delete(&models.Budget{}).Error; err != nil {
			return err
		}
		if err := tx.Where("dataset_id = ?", id).Delete(&models.Member{}).Error; err != nil {
			return err
		}
		if err := tx.Where("dataset_id = ?", id).Delete(&models.ImportMapping{}).Error; err != nil {
			return err
		}
		return tx.Delete(dataset).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Rollover creates a new dataset, optionally seeded from a source dataset.
// Copies are deep with respect to identity: members and budgets receive
// new ids, and carried budgets start with zero actuals and allocations.
func (s *datasetService) Rollover(params RolloverParams) (*models.Dataset, error) {
	if params.SourceDatasetID != "" {
		if _, err := getDataset(s.db, params.SourceDatasetID); err != nil {
			return nil, err
		}
	}

	newDataset := &models.Dataset{Name: params.NewName}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newDataset).Error; err != nil {
			return err
		}
		if params.SourceDatasetID == "" {
			return nil
		}

		if params.CarryMembers {
			var members []models.Member
			if err := tx.Where("dataset_id = ?", params.SourceDatasetID).Find(&members).Error; err != nil {
				return err
			}
			for _, m := range members {
				copied := models.Member{DatasetID: newDataset.ID, Name: m.Name}
				if err := tx.Create(&copied).Error; err != nil {
					return err
				}
			}
		}

		// Maps old budget ids to their copies so carried per-budget import
		// mappings can follow the budgets they describe.
		budgetIDMap := make(map[string]string)
		if params.CarryBudgets {
			var budgets []models.Budget
			if err := tx.Where("dataset_id = ?", params.SourceDatasetID).Find(&budgets).Error; err != nil {
				return err
			}
			for _, b := range budgets {
				copied := models.Budget{
					DatasetID:   newDataset.ID,
					Name:        b.Name,
					TotalAmount: b.TotalAmount,
					Unit:        b.Unit,
					Description: b.Description,
				}
				if err := tx.Create(&copied).Error; err != nil {
					return err
				}
				budgetIDMap[b.ID] = copied.ID
			}
		}

		if params.CarrySettings {
			var datasetMapping models.ImportMapping
			err := tx.Where("dataset_id = ?", params.SourceDatasetID).First(&datasetMapping).Error
			if err == nil {
				copied := models.ImportMapping{DatasetID: &newDataset.ID, Fields: datasetMapping.Fields}
				if err := tx.Create(&copied).Error; err != nil {
					return err
				}
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			for oldID, newID := range budgetIDMap {
				var budgetMapping models.ImportMapping
				err := tx.Where("budget_id = ?", oldID).First(&budgetMapping).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				id := newID
				copied := models.ImportMapping{BudgetID: &id, Fields: budgetMapping.Fields}
				if err := tx.Create(&copied).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return newDataset, nil
}

// getDataset loads a dataset or reports UNKNOWN_DATASET.
func getDataset(db *gorm.DB, id string) (*models.Dataset, error) {
	var dataset models.Dataset
	if err := db.Where("id = ?", id).First(&dataset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDatasetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &dataset, nil
}
