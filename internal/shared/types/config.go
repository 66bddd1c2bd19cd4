package types

// BudgetEntry is one configured account budget in a config file. Months
// maps month names or numbers ("1".."12", "jan".."dec") to amounts; absent
// months are unbudgeted.
type BudgetEntry struct {
	Provider  string             `json:"provider" yaml:"provider" toml:"provider"`
	AccountID string             `json:"account_id" yaml:"account_id" toml:"account_id"`
	Currency  string             `json:"currency" yaml:"currency" toml:"currency"`
	Months    map[string]float64 `json:"months" yaml:"months" toml:"months"`
}

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Profiles    []string      `json:"profiles" yaml:"profiles" toml:"profiles"`
	Sources     []string      `json:"sources" yaml:"sources" toml:"sources"`
	Provider    string        `json:"provider" yaml:"provider" toml:"provider"`
	TagSummary  []string      `json:"tag_summary" yaml:"tag_summary" toml:"tag_summary"`
	ReportName  string        `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType  []string      `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir         string        `json:"dir" yaml:"dir" toml:"dir"`
	Budgets     []BudgetEntry `json:"budgets" yaml:"budgets" toml:"budgets"`
	AccountName map[string]string `json:"account_names" yaml:"account_names" toml:"account_names"`
}

// Prefs is the persisted user state: the last selected filter spec, sort
// keys and search text, all as opaque canonical strings.
type Prefs struct {
	TagFilter   string `toml:"tag_filter"`
	Sort        string `toml:"sort"`
	AccountSort string `toml:"account_sort"`
	Search      string `toml:"search"`
}
