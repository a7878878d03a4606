package models

import "encoding/json"

// FieldMapping maps logical import fields to column headers in a source
// file. Empty entries mean "not present in the file"; ItemName and Amount
// are required for any import.
type FieldMapping struct {
	ItemName         string `json:"item_name"`
	Amount           string `json:"amount"`
	MemberName       string `json:"member_name,omitempty"`
	Category         string `json:"category,omitempty"`
	Priority         string `json:"priority,omitempty"`
	Note             string `json:"note,omitempty"`
	Status           string `json:"status,omitempty"`
	BudgetID         string `json:"budget_id,omitempty"`
	AllocationAmount string `json:"allocation_amount,omitempty"`
}

// ImportMapping persists a FieldMapping for one scope: a dataset (full
// purchase import) or a single budget (legacy actual-expense import).
// Exactly one of DatasetID/BudgetID is set. The row is upserted after
// every successful import so the next import can pre-fill the mapping.
type ImportMapping struct {
	Base
	DatasetID *string `gorm:"type:varchar(64);uniqueIndex" json:"dataset_id,omitempty"`
	BudgetID  *string `gorm:"type:varchar(64);uniqueIndex" json:"budget_id,omitempty"`
	Fields    string  `gorm:"not null" json:"-"`
}

// Mapping decodes the stored field mapping.
func (m *ImportMapping) Mapping() (FieldMapping, error) {
	var fm FieldMapping
	err := json.Unmarshal([]byte(m.Fields), &fm)
	return fm, err
}

// SetMapping encodes and stores the field mapping.
func (m *ImportMapping) SetMapping(fm FieldMapping) error {
	data, err := json.Marshal(fm)
	if err != nil {
		return err
	}
	m.Fields = string(data)
	return nil
}

// MarshalJSON exposes the decoded mapping instead of the raw column text.
func (m ImportMapping) MarshalJSON() ([]byte, error) {
	fm, err := m.Mapping()
	if err != nil {
		return nil, err
	}
	type alias struct {
		DatasetID *string      `json:"dataset_id,omitempty"`
		BudgetID  *string      `json:"budget_id,omitempty"`
		Fields    FieldMapping `json:"fields"`
	}
	return json.Marshal(alias{DatasetID: m.DatasetID, BudgetID: m.BudgetID, Fields: fm})
}
