package services

import (
	"testing"

	"github.com/elir-elirlab/osaifill-release/internal/models"
	"github.com/elir-elirlab/osaifill-release/internal/testutil"
)

func TestCreateDataset(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewDatasetService(db)

	dataset, err := svc.CreateDataset("August 2026")
	testutil.AssertNoError(t, err)

	if dataset.ID == "" {
		t.Fatal("expected generated dataset ID")
	}
	if dataset.Name != "August 2026" {
		t.Errorf("expected name August 2026, got %s", dataset.Name)
	}
}

func TestUpdateDataset(t *testing.T) {
	t.Run("rename", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDatasetService(db)
		dataset := testutil.CreateTestDataset(t, db)

		updated, err := svc.UpdateDataset(dataset.ID, "Renamed")
		testutil.AssertNoError(t, err)
		if updated.Name != "Renamed" {
			t.Errorf("expected name Renamed, got %s", updated.Name)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDatasetService(db)

		_, err := svc.UpdateDataset("missing", "x")
		testutil.AssertAppError(t, err, "UNKNOWN_DATASET")
	})
}

func TestDeleteDataset(t *testing.T) {
	t.Run("cascades_to_everything_owned", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDatasetService(db)
		importSvc := NewImportExportService(db, "JPY")
		dataset := testutil.CreateTestDataset(t, db)
		budget := testutil.CreateTestBudget(t, db, dataset.ID, 10000)
		testutil.CreateTestMember(t, db, dataset.ID)
		purchase := testutil.CreateTestPurchase(t, db, dataset.ID, 3000)
		testutil.CreateTestAllocation(t, db, purchase.ID, budget.ID, 3000)
		testutil.CreateTestExpense(t, db, budget.ID, 500)
		_, err := importSvc.SaveDatasetMapping(dataset.ID, models.FieldMapping{ItemName: "item", Amount: "amount"})
		testutil.AssertNoError(t, err)
		_, err = importSvc.SaveBudgetMapping(budget.ID, models.FieldMapping{ItemName: "item", Amount: "amount"})
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, svc.DeleteDataset(dataset.ID))

		var budgets, members, purchases, allocations, expenses, mappings int64
		db.Model(&models.Budget{}).Where("dataset_id = ?", dataset.ID).Count(&budgets)
		db.Model(&models.Member{}).Where("dataset_id = ?", dataset.ID).Count(&members)
		db.Model(&models.Purchase{}).Where("dataset_id = ?", dataset.ID).Count(&purchases)
		db.Model(&models.Allocation{}).Where("purchase_id = ?", purchase.ID).Count(&allocations)
		db.Model(&models.ActualExpense{}).Where("budget_id = ?", budget.ID).Count(&expenses)
		db.Model(&models.ImportMapping{}).Count(&mappings)

		if budgets != 0 || members != 0 || purchases != 0 || allocations != 0 || expenses != 0 || mappings != 0 {
			t.Errorf("expected full cascade, found budgets=%d members=%d purchases=%d allocations=%d expenses=%d mappings=%d",
				budgets, members, purchases, allocations, expenses, mappings)
		}

		_, err = svc.UpdateDataset(dataset.ID, "x")
		testutil.AssertAppError(t, err, "UNKNOWN_DATASET")
	})
}

func TestRollover(t *testing.T) {
	t.Run("empty_dataset_without_source", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDatasetService(db)

		dataset, err := svc.Rollover(RolloverParams{NewName: "September 2026"})
		testutil.AssertNoError(t, err)
		if dataset.Name != "September 2026" {
			t.Errorf("expected name September 2026, got %s", dataset.Name)
		}

		var budgets []models.Budget
		db.Where("dataset_id = ?", dataset.ID).Find(&budgets)
		if len(budgets) != 0 {
			t.Errorf("expected no budgets, got %d", len(budgets))
		}
	})

	t.Run("carries_budgets_as_zeroed_templates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDatasetService(db)
		source := testutil.CreateTestDataset(t, db)
		budget := testutil.CreateTestBudget(t, db, source.ID, 40000)
		purchase := testutil.CreateTestPurchase(t, db, source.ID, 9000)
		testutil.CreateTestAllocation(t, db, purchase.ID, budget.ID, 9000)
		testutil.CreateTestExpense(t, db, budget.ID, 2500)

		dataset, err := svc.Rollover(RolloverParams{
			NewName:         "Next Month",
			SourceDatasetID: source.ID,
			CarryBudgets:    true,
		})
		testutil.AssertNoError(t, err)

		var copies []models.Budget
		db.Where("dataset_id = ?", dataset.ID).Find(&copies)
		if len(copies) != 1 {
			t.Fatalf("expected one carried budget, got %d", len(copies))
		}
		carried := copies[0]
		if carried.ID == budget.ID {
			t.Error("expected carried budget to receive a fresh id")
		}
		if carried.Name != budget.Name || carried.TotalAmount != 40000 {
			t.Errorf("expected template fields copied, got %+v", carried)
		}

		// The copy starts clean: no allocations, no actual expenses.
		var allocCount, expenseCount int64
		db.Model(&models.Allocation{}).Where("budget_id = ?", carried.ID).Count(&allocCount)
		db.Model(&models.ActualExpense{}).Where("budget_id = ?", carried.ID).Count(&expenseCount)
		if allocCount != 0 || expenseCount != 0 {
			t.Errorf("expected zeroed copy, got %d allocations and %d expenses", allocCount, expenseCount)
		}

		// Purchases never carry over.
		var purchaseCount int64
		db.Model(&models.Purchase{}).Where("dataset_id = ?", dataset.ID).Count(&purchaseCount)
		if purchaseCount != 0 {
			t.Errorf("expected no purchases in the new period, got %d", purchaseCount)
		}
	})

	t.Run("carries_members_by_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDatasetService(db)
		source := testutil.CreateTestDataset(t, db)
		member := testutil.CreateTestMember(t, db, source.ID)

		dataset, err := svc.Rollover(RolloverParams{
			NewName:         "Next Month",
			SourceDatasetID: source.ID,
			CarryMembers:    true,
		})
		testutil.AssertNoError(t, err)

		var members []models.Member
		db.Where("dataset_id = ?", dataset.ID).Find(&members)
		if len(members) != 1 {
			t.Fatalf("expected one carried member, got %d", len(members))
		}
		if members[0].Name != member.Name {
			t.Errorf("expected name %s, got %s", member.Name, members[0].Name)
		}
		if members[0].ID == member.ID {
			t.Error("expected carried member to receive a fresh id")
		}
	})

	t.Run("carries_settings_repointing_budget_mappings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDatasetService(db)
		importSvc := NewImportExportService(db, "JPY")
		source := testutil.CreateTestDataset(t, db)
		budget := testutil.CreateTestBudget(t, db, source.ID, 1000)
		_, err := importSvc.SaveDatasetMapping(source.ID, models.FieldMapping{ItemName: "item", Amount: "amount"})
		testutil.AssertNoError(t, err)
		_, err = importSvc.SaveBudgetMapping(budget.ID, models.FieldMapping{ItemName: "名前", Amount: "金額"})
		testutil.AssertNoError(t, err)

		dataset, err := svc.Rollover(RolloverParams{
			NewName:         "Next Month",
			SourceDatasetID: source.ID,
			CarryBudgets:    true,
			CarrySettings:   true,
		})
		testutil.AssertNoError(t, err)

		datasetMapping, err := importSvc.GetDatasetMapping(dataset.ID)
		testutil.AssertNoError(t, err)
		if datasetMapping == nil {
			t.Fatal("expected dataset mapping to carry over")
		}

		var copies []models.Budget
		db.Where("dataset_id = ?", dataset.ID).Find(&copies)
		if len(copies) != 1 {
			t.Fatalf("expected one carried budget, got %d", len(copies))
		}
		budgetMapping, err := importSvc.GetBudgetMapping(copies[0].ID)
		testutil.AssertNoError(t, err)
		if budgetMapping == nil {
			t.Fatal("expected budget mapping to follow the carried budget")
		}
		fields, err := budgetMapping.Mapping()
		testutil.AssertNoError(t, err)
		if fields.ItemName != "名前" {
			t.Errorf("expected carried mapping fields, got %s", fields.ItemName)
		}
	})

	t.Run("unknown_source", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewDatasetService(db)

		_, err := svc.Rollover(RolloverParams{NewName: "x", SourceDatasetID: "missing"})
		testutil.AssertAppError(t, err, "UNKNOWN_DATASET")
	})
}
