package repository

import (
	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

// DashboardExport bundles everything one rendered dashboard produced, for
// file export: the ordered groups with their visible line subsets, the tag
// attribution rows and the budget view.
type DashboardExport struct {
	Profile         string                       `json:"profile"`
	PeriodStart     string                       `json:"period_start,omitempty"`
	PeriodEnd       string                       `json:"period_end,omitempty"`
	Groups          []entity.ResourceGroup       `json:"groups"`
	OrgTotals       []entity.TagTotalRow         `json:"org_totals,omitempty"`
	ProductTotals   []entity.TagTotalRow         `json:"product_totals,omitempty"`
	Accounts        []entity.AccountSpendRow     `json:"accounts,omitempty"`
	BudgetDeltas    []entity.BudgetDelta         `json:"budget_deltas,omitempty"`
	BudgetSummaries []entity.BudgetStatusSummary `json:"budget_summaries,omitempty"`
}

type ExportRepository interface {
	ExportToCSV(data DashboardExport, filename string, outputDir string) (string, error)
	ExportToJSON(data DashboardExport, filename string, outputDir string) (string, error)
	ExportToPDF(data DashboardExport, filename string, outputDir string) (string, error)
}
