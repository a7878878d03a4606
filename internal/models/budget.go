package models

// Budget is a spending envelope inside a dataset. TotalAmount is the
// envelope size; actual/planned/remaining figures are derived by the
// dashboard service on every read and are never persisted, so they can
// never drift from the allocation and expense records.
//
// The ID may be chosen by the caller on create (handy for stable ids in
// spreadsheets) and is immutable afterwards.
type Budget struct {
	Base
	DatasetID   string  `gorm:"type:varchar(64);not null;index" json:"dataset_id"`
	Name        string  `gorm:"not null" json:"name"`
	TotalAmount float64 `gorm:"not null" json:"total_amount"`
	Unit        string  `json:"unit"`
	Description string  `json:"description,omitempty"`

	// Relationships
	Allocations    []Allocation    `gorm:"foreignKey:BudgetID" json:"allocations,omitempty"`
	ActualExpenses []ActualExpense `gorm:"foreignKey:BudgetID" json:"actual_expenses,omitempty"`
}
