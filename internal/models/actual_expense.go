package models

// ActualExpense is a realized-spend line against a budget, independent of
// the purchase/allocation pipeline. Typically created from bank or card
// CSV imports.
type ActualExpense struct {
	Base
	BudgetID string  `gorm:"type:varchar(64);not null;index" json:"budget_id"`
	ItemName string  `json:"item_name"`
	Amount   float64 `gorm:"not null" json:"amount"`
	Unit     string  `json:"unit"`
}
