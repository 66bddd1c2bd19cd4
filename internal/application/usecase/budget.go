package usecase

import (
	"sort"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

// BuildAccountSpend aggregates detail lines into one row per
// (provider, account, currency) and attaches the configured budget for the
// given month (1..12). A budget attaches only when its scope id and
// currency both match; rows without a usable budget keep HasBudget false.
func BuildAccountSpend(
	lines []entity.BillingDetailLine,
	budgets []entity.AccountBudgetRow,
	accountNames map[string]string,
	month int,
) []entity.AccountSpendRow {
	type key struct {
		scopeID  string
		currency string
	}

	rows := make(map[key]*entity.AccountSpendRow)
	var order []key
	for _, l := range lines {
		k := key{
			scopeID:  entity.ScopeID(l.Provider, l.AccountID),
			currency: entity.NormalizeCurrency(l.Currency),
		}
		r, ok := rows[k]
		if !ok {
			gk := l.Key()
			r = &entity.AccountSpendRow{
				ScopeID:     k.scopeID,
				Provider:    gk.Provider,
				AccountID:   l.AccountID,
				AccountName: accountNames[l.AccountID],
				Currency:    k.currency,
			}
			rows[k] = r
			order = append(order, k)
		}
		r.TotalAmount += l.SafeAmount()
		r.LineCount++
	}

	budgetIndex := make(map[key]entity.AccountBudgetRow)
	for _, b := range budgets {
		k := key{
			scopeID:  entity.ScopeID(b.Provider, b.AccountID),
			currency: entity.NormalizeCurrency(b.Currency),
		}
		if _, ok := budgetIndex[k]; !ok {
			budgetIndex[k] = b
		}
	}

	out := make([]entity.AccountSpendRow, 0, len(order))
	for _, k := range order {
		r := *rows[k]
		if b, ok := budgetIndex[k]; ok {
			if amount := b.MonthBudget(month); amount != nil {
				r.BudgetAmount = *amount
				r.HasBudget = true
			}
		}
		out = append(out, r)
	}
	return out
}

// ComputeBudgetDeltas compares actual spend to the configured budget for
// every row that has one. Accounts without a configured budget are
// excluded entirely; they appear in neither the per-account deltas nor the
// aggregate.
func ComputeBudgetDeltas(rows []entity.AccountSpendRow) []entity.BudgetDelta {
	var deltas []entity.BudgetDelta
	for _, r := range rows {
		if !r.HasBudget {
			continue
		}
		actual := entity.SanitizeAmount(r.TotalAmount)
		budget := entity.SanitizeAmount(r.BudgetAmount)
		delta := actual - budget
		deltas = append(deltas, entity.BudgetDelta{
			ScopeID:      r.ScopeID,
			Provider:     r.Provider,
			AccountID:    r.AccountID,
			Currency:     r.Currency,
			ActualAmount: actual,
			BudgetAmount: budget,
			Delta:        delta,
			Status:       entity.ClassifyBudgetDelta(delta),
		})
	}
	return deltas
}

// SummarizeBudgets folds the per-account deltas into one summary per
// currency: sum of actuals, sum of budgets, delta of the sums, status from
// the same thresholds. Rows come back ordered by currency.
func SummarizeBudgets(deltas []entity.BudgetDelta) []entity.BudgetStatusSummary {
	byCurrency := make(map[string]*entity.BudgetStatusSummary)
	for _, d := range deltas {
		s, ok := byCurrency[d.Currency]
		if !ok {
			s = &entity.BudgetStatusSummary{Currency: d.Currency}
			byCurrency[d.Currency] = s
		}
		s.ActualAmount += d.ActualAmount
		s.BudgetAmount += d.BudgetAmount
		s.AccountCount++
	}

	currencies := make([]string, 0, len(byCurrency))
	for c := range byCurrency {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)

	out := make([]entity.BudgetStatusSummary, 0, len(currencies))
	for _, c := range currencies {
		s := *byCurrency[c]
		s.Delta = s.ActualAmount - s.BudgetAmount
		s.Status = entity.ClassifyBudgetDelta(s.Delta)
		out = append(out, s)
	}
	return out
}
