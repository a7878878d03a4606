package models

// PurchaseStatus is the lifecycle state of a purchase.
type PurchaseStatus string

const (
	StatusDrafted   PurchaseStatus = "drafted"
	StatusEstimated PurchaseStatus = "estimated"
	StatusShopping  PurchaseStatus = "shopping"
	StatusPurchased PurchaseStatus = "purchased"
	StatusDeclined  PurchaseStatus = "declined"
)

// statusCycle is the fixed manual-advance order. The cycle wraps from
// declined back to drafted so repeated advancing undoes itself.
var statusCycle = map[PurchaseStatus]PurchaseStatus{
	StatusDrafted:   StatusEstimated,
	StatusEstimated: StatusShopping,
	StatusShopping:  StatusPurchased,
	StatusPurchased: StatusDeclined,
	StatusDeclined:  StatusDrafted,
}

// Next returns the status that follows s in the advance cycle.
// Unknown values reset to drafted.
func (s PurchaseStatus) Next() PurchaseStatus {
	if next, ok := statusCycle[s]; ok {
		return next
	}
	return StatusDrafted
}

// Valid reports whether s is a member of the closed status set.
func (s PurchaseStatus) Valid() bool {
	_, ok := statusCycle[s]
	return ok
}

// PurchaseCategory buckets a purchase for the dashboard breakdown.
// A purchase's whole amount counts toward its category bucket even when
// the cost is split across several budgets.
type PurchaseCategory string

const (
	CategoryFixedCost PurchaseCategory = "fixed_cost"
	CategoryTravel    PurchaseCategory = "travel"
	CategoryOther     PurchaseCategory = "other"
)

// Valid reports whether c is a member of the closed category set.
func (c PurchaseCategory) Valid() bool {
	switch c {
	case CategoryFixedCost, CategoryTravel, CategoryOther:
		return true
	}
	return false
}

// Purchase is a prospective or completed expenditure. Amount is the
// authoritative total cost; Allocations split it across budgets and may
// temporarily disagree with Amount (Mismatched flags this on reads, it is
// never a write error).
type Purchase struct {
	Base
	DatasetID  string           `gorm:"type:varchar(64);not null;index" json:"dataset_id"`
	ItemName   string           `gorm:"not null" json:"item_name"`
	Amount     float64          `gorm:"not null" json:"amount"`
	Unit       string           `json:"unit"`
	MemberName string           `json:"member_name,omitempty"`
	Category   PurchaseCategory `gorm:"not null;default:other" json:"category"`
	Status     PurchaseStatus   `gorm:"not null;default:drafted" json:"status"`
	Priority   int              `gorm:"not null;default:3" json:"priority"`
	Note       string           `json:"note,omitempty"`

	// Relationships
	Allocations []Allocation `gorm:"foreignKey:PurchaseID" json:"allocations"`

	// Mismatched is derived on read from Amount vs the allocation sum.
	Mismatched bool `gorm:"-" json:"mismatched"`
}

// Allocation assigns part of a purchase's cost to one budget. It is owned
// by its purchase; updating a purchase replaces the whole list.
type Allocation struct {
	Base
	PurchaseID string  `gorm:"type:varchar(64);not null;index" json:"purchase_id"`
	BudgetID   string  `gorm:"type:varchar(64);not null;index" json:"budget_id"`
	Amount     float64 `gorm:"not null" json:"amount"`
}
