// Package allocation implements the split semantics for purchases: how a
// purchase's total is distributed across budgets, and the single mismatch
// predicate shared by every caller that needs it. It is pure computation
// with no storage dependency.
package allocation

import (
	"math"

	apperrors "github.com/elir-elirlab/osaifill-release/internal/errors"
)

// Epsilon is the tolerance, in the smallest display unit, below which an
// allocation sum is considered equal to the purchase amount. Every
// mismatch check in the system must go through Mismatched so this value
// is defined exactly once.
const Epsilon = 0.01

// Split is one (budget, amount) leg of a purchase's distribution.
type Split struct {
	BudgetID string  `json:"budget_id"`
	Amount   float64 `json:"amount"`
}

// Sum returns the total amount across splits.
func Sum(splits []Split) float64 {
	var total float64
	for _, s := range splits {
		total += s.Amount
	}
	return total
}

// Mismatched reports whether the splits fail to cover the purchase amount
// within Epsilon. A mismatch is a reportable state, never a write error:
// entry is iterative and users finalize splits after the fact.
func Mismatched(amount float64, splits []Split) bool {
	return math.Abs(Sum(splits)-amount) > Epsilon
}

// Validate checks a proposed split list against the budgets known to the
// dataset. Zero splits are legal (unassigned spend). A sum that differs
// from the purchase amount is also legal; only structural problems are
// errors: a budget outside the dataset, or the same budget twice.
func Validate(splits []Split, knownBudgetIDs map[string]bool) error {
	seen := make(map[string]bool, len(splits))
	for _, s := range splits {
		if !knownBudgetIDs[s.BudgetID] {
			return apperrors.WithMessage(apperrors.ErrUnknownAllocationBudget,
				"Allocation references unknown budget "+s.BudgetID)
		}
		if seen[s.BudgetID] {
			return apperrors.ErrDuplicateAllocation
		}
		seen[s.BudgetID] = true
	}
	return nil
}

// DistributeEqually splits amount evenly across the given budgets. Each
// leg receives amount/N; the floating remainder is accepted, so the legs
// always sum to the amount within Epsilon.
func DistributeEqually(amount float64, budgetIDs []string) []Split {
	if len(budgetIDs) == 0 {
		return nil
	}
	share := amount / float64(len(budgetIDs))
	splits := make([]Split, 0, len(budgetIDs))
	for _, id := range budgetIDs {
		splits = append(splits, Split{BudgetID: id, Amount: share})
	}
	return splits
}

// AssignFull clears any other legs and assigns the entire amount to one
// budget.
func AssignFull(amount float64, budgetID string) []Split {
	return []Split{{BudgetID: budgetID, Amount: amount}}
}
