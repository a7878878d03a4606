package models

// Dataset is a bounded accounting period (a month, a trip). It is the
// ownership root: budgets, members, purchases, and import mappings all
// belong to exactly one dataset and are deleted with it.
type Dataset struct {
	Base
	Name string `gorm:"not null" json:"name"`

	// Relationships
	Budgets   []Budget   `gorm:"foreignKey:DatasetID" json:"budgets,omitempty"`
	Members   []Member   `gorm:"foreignKey:DatasetID" json:"members,omitempty"`
	Purchases []Purchase `gorm:"foreignKey:DatasetID" json:"purchases,omitempty"`
}
