package services

import (
	"io"

	"github.com/elir-elirlab/osaifill-release/internal/allocation"
	"github.com/elir-elirlab/osaifill-release/internal/models"
	"github.com/elir-elirlab/osaifill-release/internal/pagination"
)

// RolloverParams describes a period rollover: a new dataset optionally
// seeded from a source dataset. Budgets carry over as templates only
// (name, amount, unit, description) — a new period starts at zero.
type RolloverParams struct {
	NewName         string
	SourceDatasetID string
	CarryBudgets    bool
	CarryMembers    bool
	CarrySettings   bool
}

// DatasetServicer defines the contract for dataset lifecycle logic.
type DatasetServicer interface {
	ListDatasets() ([]models.Dataset, error)
	CreateDataset(name string) (*models.Dataset, error)
	UpdateDataset(id, name string) (*models.Dataset, error)
	DeleteDataset(id string) error
	Rollover(params RolloverParams) (*models.Dataset, error)
}

// MemberServicer defines the contract for member-related logic.
type MemberServicer interface {
	ListMembers(datasetID string) ([]models.Member, error)
	CreateMember(datasetID, name string) (*models.Member, error)
	UpdateMember(id, name string) (*models.Member, error)
	DeleteMember(id string) error
}

// BudgetInput holds the writable budget fields for creation.
type BudgetInput struct {
	ID          string
	Name        string
	TotalAmount float64
	Unit        string
	Description string
}

// BudgetUpdate holds optional budget fields; nil means unchanged.
// The budget id itself is immutable.
type BudgetUpdate struct {
	Name        *string
	TotalAmount *float64
	Unit        *string
	Description *string
}

// BudgetServicer defines the contract for budget envelopes, including the
// merge operator.
type BudgetServicer interface {
	ListBudgets(datasetID string) ([]models.Budget, error)
	GetBudget(id string) (*models.Budget, error)
	CreateBudget(datasetID string, in BudgetInput) (*models.Budget, error)
	UpdateBudget(id string, in BudgetUpdate) (*models.Budget, error)
	DeleteBudget(id string) error
	Merge(sourceID, targetID string) (*models.Budget, error)
}

// PurchaseInput holds the writable purchase fields for creation.
type PurchaseInput struct {
	ItemName    string
	Amount      float64
	Unit        string
	MemberName  string
	Category    models.PurchaseCategory
	Status      models.PurchaseStatus
	Priority    int
	Note        string
	Allocations []allocation.Split
}

// PurchaseUpdate holds optional purchase fields; nil means unchanged.
// A non-nil Allocations replaces the entire split list.
type PurchaseUpdate struct {
	ItemName    *string
	Amount      *float64
	Unit        *string
	MemberName  *string
	Category    *models.PurchaseCategory
	Status      *models.PurchaseStatus
	Priority    *int
	Note        *string
	Allocations *[]allocation.Split
}

// PurchaseServicer defines the contract for purchases and their splits.
type PurchaseServicer interface {
	ListPurchases(datasetID string, page pagination.PageRequest) (*pagination.PageResponse[models.Purchase], error)
	GetPurchase(id string) (*models.Purchase, error)
	CreatePurchase(datasetID string, in PurchaseInput) (*models.Purchase, error)
	UpdatePurchase(id string, in PurchaseUpdate) (*models.Purchase, error)
	DeletePurchase(id string) error
	SetStatus(id string, status models.PurchaseStatus) (*models.Purchase, error)
	AdvanceStatus(id string) (*models.Purchase, error)
	DistributeEqually(id string, budgetIDs []string) (*models.Purchase, error)
	AssignFull(id, budgetID string) (*models.Purchase, error)
}

// ExpenseServicer defines the contract for actual-expense lines.
type ExpenseServicer interface {
	ListExpenses(budgetID string) ([]models.ActualExpense, error)
	CreateExpense(budgetID, itemName string, amount float64, unit string) (*models.ActualExpense, error)
	UpdateExpense(id, itemName string, amount float64, unit string) (*models.ActualExpense, error)
	DeleteExpense(id string) error
}

// BudgetSummary is the derived view of one budget. None of these figures
// are stored; they are recomputed from the ledger on every call.
type BudgetSummary struct {
	BudgetID          string  `json:"budget_id"`
	Name              string  `json:"name"`
	TotalAmount       float64 `json:"total_amount"`
	ActualTotal       float64 `json:"actual_total"`
	PlannedTotal      float64 `json:"planned_total"`
	RemainingForecast float64 `json:"remaining_forecast"`
	Unit              string  `json:"unit"`
	Description       string  `json:"description,omitempty"`
}

// DashboardSummary is the dataset-wide rollup.
type DashboardSummary struct {
	OverallActualTotal       float64 `json:"overall_actual_total"`
	OverallPlannedTotal      float64 `json:"overall_planned_total"`
	OverallRemainingForecast float64 `json:"overall_remaining_forecast"`
	UnassignedPlannedTotal   float64 `json:"unassigned_planned_total"`

	FixedCostTotal        float64 `json:"fixed_cost_total"`
	FixedCostPlannedTotal float64 `json:"fixed_cost_planned_total"`
	TravelPlannedTotal    float64 `json:"travel_planned_total"`
	TravelCostTotal       float64 `json:"travel_cost_total"`
	OtherPlannedTotal     float64 `json:"other_planned_total"`

	Budgets     []BudgetSummary   `json:"budgets"`
	TravelItems []models.Purchase `json:"travel_items"`
}

// DashboardServicer derives the dataset summary on demand.
type DashboardServicer interface {
	Summary(datasetID string) (*DashboardSummary, error)
}

// RowError describes a single import row that could not be converted.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportResult reports the explicit partial-success outcome of a batch
// import: how many rows landed and which rows failed, and why.
type ImportResult struct {
	Imported  int        `json:"imported"`
	RowErrors []RowError `json:"row_errors"`
}

// ImportExportServicer is the gateway between delimited text files and the
// ledger. Mappings are persisted per scope and upserted on every
// successful import.
type ImportExportServicer interface {
	GetDatasetMapping(datasetID string) (*models.ImportMapping, error)
	SaveDatasetMapping(datasetID string, fields models.FieldMapping) (*models.ImportMapping, error)
	GetBudgetMapping(budgetID string) (*models.ImportMapping, error)
	SaveBudgetMapping(budgetID string, fields models.FieldMapping) (*models.ImportMapping, error)

	ImportPurchases(datasetID string, r io.Reader, mapping *models.FieldMapping, overwrite bool) (*ImportResult, error)
	ImportExpenses(budgetID string, r io.Reader, mapping *models.FieldMapping, overwrite bool) (*ImportResult, error)
	ExportPurchases(datasetID string, w io.Writer) error
}
