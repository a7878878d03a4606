package allocation

import (
	"math"
	"testing"

	"github.com/elir-elirlab/osaifill-release/internal/testutil"
)

func TestMismatched(t *testing.T) {
	t.Run("outside_epsilon", func(t *testing.T) {
		splits := []Split{{BudgetID: "a", Amount: 50}, {BudgetID: "b", Amount: 49.5}}
		if !Mismatched(100, splits) {
			t.Error("expected 99.5 vs 100 to be mismatched")
		}
	})

	t.Run("within_epsilon", func(t *testing.T) {
		splits := []Split{{BudgetID: "a", Amount: 100.005}}
		if Mismatched(100, splits) {
			t.Error("expected 100.005 vs 100 to pass")
		}
	})

	t.Run("exact", func(t *testing.T) {
		splits := []Split{{BudgetID: "a", Amount: 30}, {BudgetID: "b", Amount: 70}}
		if Mismatched(100, splits) {
			t.Error("expected exact split to pass")
		}
	})

	t.Run("empty_splits_mismatch_nonzero_amount", func(t *testing.T) {
		if !Mismatched(100, nil) {
			t.Error("expected zero allocations against 100 to be mismatched")
		}
		if Mismatched(0, nil) {
			t.Error("expected zero allocations against 0 to pass")
		}
	})
}

func TestValidate(t *testing.T) {
	known := map[string]bool{"food": true, "rent": true}

	t.Run("valid", func(t *testing.T) {
		splits := []Split{{BudgetID: "food", Amount: 10}, {BudgetID: "rent", Amount: 20}}
		testutil.AssertNoError(t, Validate(splits, known))
	})

	t.Run("empty_is_valid", func(t *testing.T) {
		testutil.AssertNoError(t, Validate(nil, known))
	})

	t.Run("unknown_budget", func(t *testing.T) {
		splits := []Split{{BudgetID: "vacation", Amount: 10}}
		testutil.AssertAppError(t, Validate(splits, known), "UNKNOWN_BUDGET")
	})

	t.Run("duplicate_budget", func(t *testing.T) {
		splits := []Split{{BudgetID: "food", Amount: 10}, {BudgetID: "food", Amount: 5}}
		testutil.AssertAppError(t, Validate(splits, known), "VALIDATION_ERROR")
	})

	t.Run("sum_mismatch_is_not_an_error", func(t *testing.T) {
		splits := []Split{{BudgetID: "food", Amount: 1}}
		testutil.AssertNoError(t, Validate(splits, known))
	})
}

func TestDistributeEqually(t *testing.T) {
	t.Run("splits_evenly", func(t *testing.T) {
		splits := DistributeEqually(3000, []string{"a", "b", "c"})
		if len(splits) != 3 {
			t.Fatalf("expected 3 splits, got %d", len(splits))
		}
		for _, s := range splits {
			if s.Amount != 1000 {
				t.Errorf("expected each split to be 1000, got %v", s.Amount)
			}
		}
		if Mismatched(3000, splits) {
			t.Error("equal distribution must sum to the amount within epsilon")
		}
	})

	t.Run("floating_remainder_within_epsilon", func(t *testing.T) {
		splits := DistributeEqually(100, []string{"a", "b", "c"})
		if math.Abs(Sum(splits)-100) > Epsilon {
			t.Errorf("expected sum within epsilon of 100, got %v", Sum(splits))
		}
	})

	t.Run("no_budgets", func(t *testing.T) {
		if splits := DistributeEqually(100, nil); splits != nil {
			t.Errorf("expected nil splits, got %v", splits)
		}
	})
}

func TestAssignFull(t *testing.T) {
	splits := AssignFull(250, "groceries")
	if len(splits) != 1 {
		t.Fatalf("expected a single split, got %d", len(splits))
	}
	if splits[0].BudgetID != "groceries" || splits[0].Amount != 250 {
		t.Errorf("unexpected split %+v", splits[0])
	}
}
