package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"github.com/elir-elirlab/osaifill-release/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestDataset creates a dataset with a unique name.
func CreateTestDataset(t *testing.T, db *gorm.DB) *models.Dataset {
	t.Helper()

	dataset := &models.Dataset{
		Name: fmt.Sprintf("Test Dataset %d", nextID()),
	}
	if err := db.Create(dataset).Error; err != nil {
		t.Fatalf("failed to create test dataset: %v", err)
	}
	return dataset
}

// CreateTestMember creates a member in the given dataset.
func CreateTestMember(t *testing.T, db *gorm.DB, datasetID string) *models.Member {
	t.Helper()

	member := &models.Member{
		DatasetID: datasetID,
		Name:      fmt.Sprintf("Member %d", nextID()),
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("failed to create test member: %v", err)
	}
	return member
}

// CreateTestBudget creates a budget envelope with the given total amount.
func CreateTestBudget(t *testing.T, db *gorm.DB, datasetID string, totalAmount float64) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		DatasetID:   datasetID,
		Name:        fmt.Sprintf("Test Budget %d", nextID()),
		TotalAmount: totalAmount,
		Unit:        "JPY",
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestPurchase creates a drafted purchase with no allocations.
func CreateTestPurchase(t *testing.T, db *gorm.DB, datasetID string, amount float64) *models.Purchase {
	t.Helper()

	purchase := &models.Purchase{
		DatasetID: datasetID,
		ItemName:  fmt.Sprintf("Test Item %d", nextID()),
		Amount:    amount,
		Unit:      "JPY",
		Category:  models.CategoryOther,
		Status:    models.StatusDrafted,
		Priority:  3,
	}
	if err := db.Create(purchase).Error; err != nil {
		t.Fatalf("failed to create test purchase: %v", err)
	}
	return purchase
}

// CreateTestAllocation links a purchase to a budget with the given amount.
func CreateTestAllocation(t *testing.T, db *gorm.DB, purchaseID, budgetID string, amount float64) *models.Allocation {
	t.Helper()

	alloc := &models.Allocation{
		PurchaseID: purchaseID,
		BudgetID:   budgetID,
		Amount:     amount,
	}
	if err := db.Create(alloc).Error; err != nil {
		t.Fatalf("failed to create test allocation: %v", err)
	}
	return alloc
}

// CreateTestExpense records spend against the given budget.
func CreateTestExpense(t *testing.T, db *gorm.DB, budgetID string, amount float64) *models.ActualExpense {
	t.Helper()

	expense := &models.ActualExpense{
		BudgetID: budgetID,
		ItemName: fmt.Sprintf("Test Expense %d", nextID()),
		Amount:   amount,
		Unit:     "JPY",
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}
