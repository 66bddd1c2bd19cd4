package entity

import (
	"fmt"
	"math"
	"strings"
)

// BudgetStatus classifies a spend-versus-budget delta.
type BudgetStatus string

const (
	BudgetOver     BudgetStatus = "over"
	BudgetUnder    BudgetStatus = "under"
	BudgetOnTarget BudgetStatus = "on-target"
)

// BudgetTolerance is the band around zero within which a delta still counts
// as on-target. A delta of exactly 0.005 is on-target; 0.0051 is not.
const BudgetTolerance = 0.005

// ClassifyBudgetDelta maps a delta onto over/under/on-target.
func ClassifyBudgetDelta(delta float64) BudgetStatus {
	switch {
	case delta > BudgetTolerance:
		return BudgetOver
	case delta < -BudgetTolerance:
		return BudgetUnder
	default:
		return BudgetOnTarget
	}
}

// AccountBudgetRow holds the configured monthly budgets of one account for
// a year. Months index 0..11 for January..December; nil means "no budget
// configured for that month".
type AccountBudgetRow struct {
	ScopeID   string       `json:"scope_id"`
	Provider  string       `json:"provider"`
	AccountID string       `json:"account_id"`
	Currency  string       `json:"currency"`
	Months    [12]*float64 `json:"months"`
}

// ScopeID builds the stable composite id for a provider+account pair.
func ScopeID(provider, accountID string) string {
	return fmt.Sprintf("%s:%s", strings.ToLower(strings.TrimSpace(provider)), strings.TrimSpace(accountID))
}

// MonthBudget returns the configured budget for a month (1..12), or nil
// when the month is out of range, unset, negative or non-finite.
func (r AccountBudgetRow) MonthBudget(month int) *float64 {
	if month < 1 || month > 12 {
		return nil
	}
	v := r.Months[month-1]
	if v == nil || *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

// AnnualTotal sums the non-nil, non-negative month values. Missing months
// contribute zero.
func (r AccountBudgetRow) AnnualTotal() float64 {
	var total float64
	for m := 1; m <= 12; m++ {
		if v := r.MonthBudget(m); v != nil {
			total += *v
		}
	}
	return total
}

// BudgetDelta is the per-account comparison of actual spend against the
// configured budget for one month, in the account's currency.
type BudgetDelta struct {
	ScopeID      string       `json:"scope_id"`
	Provider     string       `json:"provider"`
	AccountID    string       `json:"account_id"`
	Currency     string       `json:"currency"`
	ActualAmount float64      `json:"actual_amount"`
	BudgetAmount float64      `json:"budget_amount"`
	Delta        float64      `json:"delta"`
	Status       BudgetStatus `json:"status"`
}

// BudgetStatusSummary aggregates all budget-configured accounts of a scope
// into one row per currency.
type BudgetStatusSummary struct {
	Currency     string       `json:"currency"`
	ActualAmount float64      `json:"actual_amount"`
	BudgetAmount float64      `json:"budget_amount"`
	Delta        float64      `json:"delta"`
	Status       BudgetStatus `json:"status"`
	AccountCount int          `json:"account_count"`
}
