package entity

// AccountSpendRow is one account's spend within a rendered period, in one
// currency. BudgetAmount carries the configured budget for the rendered
// month (zero when none is configured, see HasBudget).
type AccountSpendRow struct {
	ScopeID      string  `json:"scope_id"`
	Provider     string  `json:"provider"`
	AccountID    string  `json:"account_id"`
	AccountName  string  `json:"account_name,omitempty"`
	Currency     string  `json:"currency"`
	TotalAmount  float64 `json:"total_amount"`
	BudgetAmount float64 `json:"budget_amount,omitempty"`
	HasBudget    bool    `json:"has_budget"`
	LineCount    int     `json:"line_count"`
}
