package models

// Member is a person who can be attributed to purchases. Purchases
// reference members by name, not by id, so renaming or deleting a member
// never rewrites purchase history.
type Member struct {
	Base
	DatasetID string `gorm:"type:varchar(64);not null;index" json:"dataset_id"`
	Name      string `gorm:"not null" json:"name"`
}
