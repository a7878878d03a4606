package services

import (
	"gorm.io/gorm"

	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
	"github.com/elir-elirlab/osaifill-release/internal/models"
)

// dashboardService derives the dataset-wide summary. Every figure is
// recomputed from the ledger on each call: the inputs (budgets,
// purchases with allocations, actual expenses) mutate independently, and
// a persisted cache would need invalidation on every write path. At
// household scale, recomputation is cheaper than staleness.
type dashboardService struct {
	db *gorm.DB
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(db *gorm.DB) DashboardServicer {
	return &dashboardService{db: db}
}

// Summary computes the dashboard for one dataset.
//
// Per budget, planned_total counts allocations from purchases of every
// status: a planned figure reflects intended spend, not open items.
// unassigned_planned_total counts purchases with no allocations at all —
// money intended to be spent that no envelope is covering yet.
func (s *dashboardService) Summary(datasetID string) (*DashboardSummary, error) {
	if _, err := getDataset(s.db, datasetID); err != nil {
		return nil, err
	}

	var budgets []models.Budget
	if err := s.db.Where("dataset_id = ?", datasetID).Order("created_at").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var purchases []models.Purchase
	if err := s.db.Preload("Allocations").Where("dataset_id = ?", datasetID).
		Order("priority DESC, created_at DESC").Find(&purchases).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	budgetIDs := make([]string, 0, len(budgets))
	for _, b := range budgets {
		budgetIDs = append(budgetIDs, b.ID)
	}
	var expenses []models.ActualExpense
	if len(budgetIDs) > 0 {
		if err := s.db.Where("budget_id IN ?", budgetIDs).Find(&expenses).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	actualByBudget := make(map[string]float64, len(budgets))
	for _, e := range expenses {
		actualByBudget[e.BudgetID] += e.Amount
	}
	plannedByBudget := make(map[string]float64, len(budgets))
	for _, p := range purchases {
		for _, a := range p.Allocations {
			plannedByBudget[a.BudgetID] += a.Amount
		}
	}

	summary := &DashboardSummary{
		Budgets:     make([]BudgetSummary, 0, len(budgets)),
		TravelItems: []models.Purchase{},
	}

	for _, b := range budgets {
		actual := actualByBudget[b.ID]
		planned := plannedByBudget[b.ID]
		remaining := b.TotalAmount - actual - planned

		summary.Budgets = append(summary.Budgets, BudgetSummary{
			BudgetID:          b.ID,
			Name:              b.Name,
			TotalAmount:       b.TotalAmount,
			ActualTotal:       actual,
			PlannedTotal:      planned,
			RemainingForecast: remaining,
			Unit:              b.Unit,
			Description:       b.Description,
		})
		summary.OverallActualTotal += actual
		summary.OverallPlannedTotal += planned
		summary.OverallRemainingForecast += remaining
	}

	for i := range purchases {
		p := &purchases[i]
		flagMismatch(p)

		if len(p.Allocations) == 0 {
			summary.UnassignedPlannedTotal += p.Amount
		}

		// Category buckets attribute the purchase's entire amount to its
		// category, independent of how the cost is split across budgets.
		// "Planned" here means not yet bought; the cost totals count
		// everything the household has not declined.
		planned := p.Status == models.StatusDrafted || p.Status == models.StatusEstimated
		declined := p.Status == models.StatusDeclined

		switch p.Category {
		case models.CategoryFixedCost:
			if planned {
				summary.FixedCostPlannedTotal += p.Amount
			}
			if !declined {
				summary.FixedCostTotal += p.Amount
			}
		case models.CategoryTravel:
			if planned {
				summary.TravelPlannedTotal += p.Amount
			}
			if !declined {
				summary.TravelCostTotal += p.Amount
				summary.TravelItems = append(summary.TravelItems, *p)
			}
		default:
			if planned {
				summary.OtherPlannedTotal += p.Amount
			}
		}
	}

	return summary, nil
}
