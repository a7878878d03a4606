package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/elir-elirlab/osaifill-release/internal/models"
	"github.com/elir-elirlab/osaifill-release/internal/testutil"
)

func TestSaveAndGetMapping(t *testing.T) {
	t.Run("dataset_scope_upserts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportExportService(db, "JPY")
		dataset := testutil.CreateTestDataset(t, db)

		_, err := svc.SaveDatasetMapping(dataset.ID, models.FieldMapping{ItemName: "item", Amount: "price"})
		testutil.AssertNoError(t, err)
		_, err = svc.SaveDatasetMapping(dataset.ID, models.FieldMapping{ItemName: "name", Amount: "cost"})
		testutil.AssertNoError(t, err)

		mapping, err := svc.GetDatasetMapping(dataset.ID)
		testutil.AssertNoError(t, err)
		fields, err := mapping.Mapping()
		testutil.AssertNoError(t, err)
		if fields.ItemName != "name" || fields.Amount != "cost" {
			t.Errorf("expected the second save to win, got %+v", fields)
		}

		var count int64
		db.Model(&models.ImportMapping{}).Count(&count)
		if count != 1 {
			t.Errorf("expected a single mapping row, got %d", count)
		}
	})

	t.Run("absent_mapping_is_nil", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportExportService(db, "JPY")
		dataset := testutil.CreateTestDataset(t, db)

		mapping, err := svc.GetDatasetMapping(dataset.ID)
		testutil.AssertNoError(t, err)
		if mapping != nil {
			t.Errorf("expected nil mapping, got %+v", mapping)
		}
	})

	t.Run("unknown_scope", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportExportService(db, "JPY")

		_, err := svc.GetDatasetMapping("missing")
		testutil.AssertAppError(t, err, "UNKNOWN_DATASET")
		_, err = svc.GetBudgetMapping("missing")
		testutil.AssertAppError(t, err, "UNKNOWN_BUDGET")
	})
}

func TestImportPurchases(t *testing.T) {
	mapping := &models.FieldMapping{
		ItemName:         "item",
		Amount:           "price",
		Category:         "category",
		Status:           "status",
		Priority:         "priority",
		BudgetID:         "budget",
		AllocationAmount: "allocated",
	}

	t.Run("imports_and_normalizes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportExportService(db, "JPY")
		dataset := testutil.CreateTestDataset(t, db)
		budget := testutil.CreateTestBudget(t, db, dataset.ID, 10000)

		csv := "item,price,category,status,priority,budget,allocated\n" +
			"Rice,\"1,200\",固定費,購入済み,高," + budget.ID + ",1200\n" +
			"Hotel,9800,travel,draft,,,\n"

		result, err := svc.ImportPurchases(dataset.ID, strings.NewReader(csv), mapping, false)
		testutil.AssertNoError(t, err)

		if result.Imported != 2 {
			t.Fatalf("expected 2 imported rows, got %d (%+v)", result.Imported, result.RowErrors)
		}
		if len(result.RowErrors) != 0 {
			t.Fatalf("expected no row errors, got %+v", result.RowErrors)
		}

		var rice models.Purchase
		testutil.AssertNoError(t, db.Preload("Allocations").Where("item_name = ?", "Rice").First(&rice).Error)
		if rice.Amount != 1200 {
			t.Errorf("expected comma-separated amount parsed to 1200, got %f", rice.Amount)
		}
		if rice.Category != models.CategoryFixedCost {
			t.Errorf("expected 固定費 to normalize to fixed_cost, got %s", rice.Category)
		}
		if rice.Status != models.StatusPurchased {
			t.Errorf("expected 購入済み to normalize to purchased, got %s", rice.Status)
		}
		if rice.Priority != 4 {
			t.Errorf("expected 高 to normalize to priority 4, got %d", rice.Priority)
		}
		if len(rice.Allocations) != 1 || rice.Allocations[0].BudgetID != budget.ID {
			t.Errorf("expected one allocation leg to the budget, got %+v", rice.Allocations)
		}

		var hotel models.Purchase
		testutil.AssertNoError(t, db.Where("item_name = ?", "Hotel").First(&hotel).Error)
		if hotel.Category != models.CategoryTravel || hotel.Status != models.StatusDrafted {
			t.Errorf("expected travel/drafted, got %s/%s", hotel.Category, hotel.Status)
		}
		if hotel.Priority != 3 {
			t.Errorf("expected empty priority to default to 3, got %d", hotel.Priority)
		}
	})

	t.Run("partial_success_enumerates_row_errors", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportExportService(db, "JPY")
		dataset := testutil.CreateTestDataset(t, db)

		csv := "item,price\n" +
			"Good,100\n" +
			",200\n" +
			"Bad amount,abc\n" +
			"Also good,300\n"

		result, err := svc.ImportPurchases(dataset.ID, strings.NewReader(csv),
			&models.FieldMapping{ItemName: "item", Amount: "price"}, false)
		testutil.AssertNoError(t, err)

		if result.Imported != 2 {
			t.Errorf("expected 2 imported rows, got %d", result.Imported)
		}
		if len(result.RowErrors) != 2 {
			t.Fatalf("expected 2 row errors, got %+v", result.RowErrors)
		}
		if result.RowErrors[0].Row != 3 || result.RowErrors[1].Row != 4 {
			t.Errorf("expected errors on file rows 3 and 4, got %+v", result.RowErrors)
		}
	})

	t.Run("unknown_allocation_budget_fails_the_row_only", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportExportService(db, "JPY")
		dataset := testutil.CreateTestDataset(t, db)

		csv := "item,price,budget,allocated\n" +
			"Orphan,100,ghost-budget,100\n" +
			"Plain,200,,\n"

		result, err := svc.ImportPurchases(dataset.ID, strings.NewReader(csv), mapping, false)
		testutil.AssertNoError(t, err)

		if result.Imported != 1 {
			t.Errorf("expected 1 imported row, got %d", result.Imported)
		}
		if len(result.RowErrors) != 1 || !strings.Contains(result.RowErrors[0].Reason, "ghost-budget") {
			t.Errorf("expected a row error naming the unknown budget, got %+v", result.RowErrors)
		}
	})

	t.Run("overwrite_replaces_existing_purchases", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportExportService(db, "JPY")
		dataset := testutil.CreateTestDataset(t, db)
		budget := testutil.CreateTestBudget(t, db, dataset.ID, 10000)
		old := testutil.CreateTestPurchase(t, db, dataset.ID, 500)
		testutil.CreateTestAllocation(t, db, old.ID, budget.ID, 500)

		csv := "item,price\nFresh,100\n"
		_, err := svc.ImportPurchases(dataset.ID, strings.NewReader(csv),
			&models.FieldMapping{ItemName: "item", Amount: "price"}, true)
		testutil.AssertNoError(t, err)

		var purchases []models.Purchase
		db.Where("dataset_id = ?", dataset.ID).Find(&purchases)
		if len(purchases) != 1 || purchases[0].ItemName != "Fresh" {
			t.Errorf("expected only the imported purchase to remain, got %+v", purchases)
		}

		var allocCount int64
		db.Model(&models.Allocation{}).Where("purchase_id = ?", old.ID).Count(&allocCount)
		if allocCount != 0 {
			t.Errorf("expected old allocations cleared, found %d", allocCount)
		}
	})

	t.Run("persists_inline_mapping_for_next_import", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportExportService(db, "JPY")
		dataset := testutil.CreateTestDataset(t, db)

		csv := "item,price\nFirst,100\n"
		_, err := svc.ImportPurchases(dataset.ID, strings.NewReader(csv),
			&models.FieldMapping{ItemName: "item", Amount: "price"}, false)
		testutil.AssertNoError(t, err)

		// Second import passes no mapping and relies on the stored one.
		csv = "item,price\nSecond,200\n"
		result, err := svc.ImportPurchases(dataset.ID, strings.NewReader(csv), nil, false)
		testutil.AssertNoError(t, err)
		if result.Imported != 1 {
			t.Errorf("expected 1 imported row via stored mapping, got %d", result.Imported)
		}
	})

	t.Run("no_mapping_anywhere", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportExportService(db, "JPY")
		dataset := testutil.CreateTestDataset(t, db)

		_, err := svc.ImportPurchases(dataset.ID, strings.NewReader("item,price\nX,1\n"), nil, false)
		testutil.AssertAppError(t, err, "IMPORT_MAPPING_NOT_FOUND")
	})

	t.Run("missing_mapped_column", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportExportService(db, "JPY")
		dataset := testutil.CreateTestDataset(t, db)

		_, err := svc.ImportPurchases(dataset.ID, strings.NewReader("other,columns\na,b\n"),
			&models.FieldMapping{ItemName: "item", Amount: "price"}, false)
		testutil.AssertAppError(t, err, "IMPORT_FORMAT_ERROR")
	})

	t.Run("bom_prefixed_header", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportExportService(db, "JPY")
		dataset := testutil.CreateTestDataset(t, db)

		csv := "\ufeffitem,price\nSpreadsheet export,750\n"
		result, err := svc.ImportPurchases(dataset.ID, strings.NewReader(csv),
			&models.FieldMapping{ItemName: "item", Amount: "price"}, false)
		testutil.AssertNoError(t, err)
		if result.Imported != 1 {
			t.Errorf("expected BOM header to match the mapping, got %d imported", result.Imported)
		}
	})
}

func TestImportExpenses(t *testing.T) {
	t.Run("imports_into_budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportExportService(db, "JPY")
		dataset := testutil.CreateTestDataset(t, db)
		budget := testutil.CreateTestBudget(t, db, dataset.ID, 10000)

		csv := "店名,金額\nスーパー,\"3,480\"\nコンビニ,640\n"
		result, err := svc.ImportExpenses(budget.ID, strings.NewReader(csv),
			&models.FieldMapping{ItemName: "店名", Amount: "金額"}, false)
		testutil.AssertNoError(t, err)

		if result.Imported != 2 {
			t.Fatalf("expected 2 imported expenses, got %d (%+v)", result.Imported, result.RowErrors)
		}

		var expenses []models.ActualExpense
		db.Where("budget_id = ?", budget.ID).Order("amount DESC").Find(&expenses)
		if len(expenses) != 2 || expenses[0].Amount != 3480 {
			t.Errorf("expected parsed amounts, got %+v", expenses)
		}
	})

	t.Run("overwrite_clears_previous_lines", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewImportExportService(db, "JPY")
		dataset := testutil.CreateTestDataset(t, db)
		budget := testutil.CreateTestBudget(t, db, dataset.ID, 10000)
		testutil.CreateTestExpense(t, db, budget.ID, 999)

		csv := "item,amount\nNew,100\n"
		_, err := svc.ImportExpenses(budget.ID, strings.NewReader(csv),
			&models.FieldMapping{ItemName: "item", Amount: "amount"}, true)
		testutil.AssertNoError(t, err)

		var expenses []models.ActualExpense
		db.Where("budget_id = ?", budget.ID).Find(&expenses)
		if len(expenses) != 1 || expenses[0].ItemName != "New" {
			t.Errorf("expected only the imported line, got %+v", expenses)
		}
	})
}

func TestExportPurchases(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewImportExportService(db, "JPY")
	dataset := testutil.CreateTestDataset(t, db)
	b1 := testutil.CreateTestBudget(t, db, dataset.ID, 10000)
	b2 := testutil.CreateTestBudget(t, db, dataset.ID, 10000)

	split := testutil.CreateTestPurchase(t, db, dataset.ID, 3000)
	testutil.CreateTestAllocation(t, db, split.ID, b1.ID, 1000)
	testutil.CreateTestAllocation(t, db, split.ID, b2.ID, 2000)
	testutil.CreateTestPurchase(t, db, dataset.ID, 500)

	var buf bytes.Buffer
	testutil.AssertNoError(t, svc.ExportPurchases(dataset.ID, &buf))

	out := buf.String()
	if !strings.HasPrefix(out, "\ufeff") {
		t.Error("expected UTF-8 BOM prefix")
	}

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\ufeff")), "\n")
	// Header, two rows for the split purchase, one for the unassigned one.
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "member_name,category,item_name,amount,unit,status,priority,note,budget_id,allocation_amount") {
		t.Errorf("unexpected header: %s", lines[0])
	}

	var splitRows, emptyLegRows int
	for _, line := range lines[1:] {
		switch {
		case strings.Contains(line, b1.ID) || strings.Contains(line, b2.ID):
			splitRows++
		case strings.HasSuffix(line, ",,"):
			emptyLegRows++
		}
	}
	if splitRows != 2 {
		t.Errorf("expected 2 allocation rows, got %d", splitRows)
	}
	if emptyLegRows != 1 {
		t.Errorf("expected 1 row with empty allocation columns, got %d", emptyLegRows)
	}
}
