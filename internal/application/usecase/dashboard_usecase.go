package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/repository"
	"github.com/skylens/cloud-spend-dashboard-go/internal/shared/types"
)

// tagResolveBatchSize bounds one resolver call; tagResolveWorkers bounds
// how many batches are in flight at once.
const (
	tagResolveBatchSize = 25
	tagResolveWorkers   = 4
)

// DefaultProviderLabels maps provider codes to their display labels. The
// labels feed the search haystacks and the rendered tables.
var DefaultProviderLabels = map[string]string{
	"aws":   "Amazon Web Services",
	"gcp":   "Google Cloud",
	"azure": "Microsoft Azure",
}

// DefaultTagSummaryKeys are the attribution cards rendered when the config
// does not override them.
var DefaultTagSummaryKeys = []string{"org", "product"}

// DashboardRequest is the fully-typed input of one dashboard run. The
// driving CLI builds it from flags, prefs and config; the engine never
// sees encoded filter strings.
type DashboardRequest struct {
	Profiles []string
	All      bool

	Year  int
	Month int

	Provider       string
	ResourceType   string
	TagFilter      entity.TagFilterSpec
	SearchText     string
	SortKey        string
	AccountSortKey string

	TagSummaryKeys []string
	ExtraBudgets   []entity.AccountBudgetRow
	AccountNames   map[string]string

	ReportName string
	ReportType []string
	Dir        string
}

// DashboardUseCase drives one render cycle: fetch, tag resolution,
// pipeline, presentation and export.
type DashboardUseCase struct {
	billingRepo repository.BillingRepository
	tagResolver repository.TagResolver
	exportRepo  repository.ExportRepository
	console     types.ConsoleInterface
}

// NewDashboardUseCase creates a new dashboard use case.
func NewDashboardUseCase(
	billingRepo repository.BillingRepository,
	tagResolver repository.TagResolver,
	exportRepo repository.ExportRepository,
	console types.ConsoleInterface,
) *DashboardUseCase {
	return &DashboardUseCase{
		billingRepo: billingRepo,
		tagResolver: tagResolver,
		exportRepo:  exportRepo,
		console:     console,
	}
}

// InitializeProfiles determines which billing profiles to use.
func (uc *DashboardUseCase) InitializeProfiles(req *DashboardRequest) ([]string, error) {
	availableProfiles := uc.billingRepo.GetProfiles()
	if len(availableProfiles) == 0 {
		return nil, types.ErrNoProfilesFound
	}

	if len(req.Profiles) > 0 {
		profilesToUse := []string{}
		for _, profile := range req.Profiles {
			found := false
			for _, availProfile := range availableProfiles {
				if profile == availProfile {
					profilesToUse = append(profilesToUse, profile)
					found = true
					break
				}
			}
			if !found {
				uc.console.LogWarning("Profile '%s' not found in configuration", profile)
			}
		}
		if len(profilesToUse) == 0 {
			return nil, types.ErrNoValidProfilesFound
		}
		return profilesToUse, nil
	}

	if req.All {
		return availableProfiles, nil
	}

	for _, profile := range availableProfiles {
		if profile == "default" {
			return []string{"default"}, nil
		}
	}

	uc.console.LogWarning("No default profile found. Using all available profiles.")
	return availableProfiles, nil
}

// RunDashboard executes the dashboard for every selected profile.
func (uc *DashboardUseCase) RunDashboard(ctx context.Context, req *DashboardRequest) error {
	profilesToUse, err := uc.InitializeProfiles(req)
	if err != nil {
		return err
	}

	if len(req.TagSummaryKeys) == 0 {
		req.TagSummaryKeys = DefaultTagSummaryKeys
	}

	status := uc.console.Status("Initializing dashboard...")
	progress := uc.console.ProgressWithTotal(len(profilesToUse) * 4)

	for _, profile := range profilesToUse {
		status.Update(fmt.Sprintf("Processing profile %s...", profile))
		export, err := uc.processProfile(ctx, profile, req, status, progress)
		if err != nil {
			uc.console.LogError("Failed to process profile %s: %s", profile, err)
			continue
		}

		uc.displayDashboard(profile, export)
		uc.exportReports(export, req)
	}

	progress.Stop()
	status.Stop()
	return nil
}

// processProfile fetches one profile's period data, resolves tags and runs
// the pipeline. The returned export bundle is what presentation and the
// file exporters consume.
func (uc *DashboardUseCase) processProfile(
	ctx context.Context,
	profile string,
	req *DashboardRequest,
	status types.StatusHandle,
	progress types.ProgressHandle,
) (repository.DashboardExport, error) {
	status.Update(fmt.Sprintf("Getting billing data for %s...", profile))
	data, err := uc.billingRepo.GetBillingPeriod(ctx, profile, req.Year, req.Month)
	if err != nil {
		progress.Increment()
		progress.Increment()
		progress.Increment()
		progress.Increment()
		return repository.DashboardExport{}, err
	}
	progress.Increment() // 1/4

	accountNames, err := uc.billingRepo.GetAccountNames(ctx, profile)
	if err != nil || accountNames == nil {
		accountNames = map[string]string{}
	}
	for id, name := range req.AccountNames {
		if _, ok := accountNames[id]; !ok {
			accountNames[id] = name
		}
	}

	status.Update(fmt.Sprintf("Resolving resource tags for %s...", profile))
	store := NewTagStore()
	uc.resolveTags(ctx, profile, store, data.Lines)
	progress.Increment() // 2/4

	status.Update(fmt.Sprintf("Aggregating spend for %s...", profile))
	result := Render(RenderInput{
		Lines:          data.Lines,
		Summaries:      data.Summaries,
		Provider:       req.Provider,
		ResourceType:   req.ResourceType,
		TagFilter:      req.TagFilter,
		SearchText:     req.SearchText,
		SortKey:        req.SortKey,
		Tags:           store,
		ProviderLabels: DefaultProviderLabels,
		AccountNames:   accountNames,
	})
	progress.Increment() // 3/4

	// Attribution cards and the budget view consume the matched subset the
	// pipeline produced, independently of each other.
	visible := visibleLines(result.Groups)

	export := repository.DashboardExport{
		Profile:     profile,
		PeriodStart: data.PeriodStart,
		PeriodEnd:   data.PeriodEnd,
		Groups:      result.Groups,
	}

	for _, key := range req.TagSummaryKeys {
		rows := SummarizeTagTotals(visible, key, store)
		switch strings.ToLower(key) {
		case "org":
			export.OrgTotals = rows
		case "product":
			export.ProductTotals = rows
		}
	}

	budgets, err := uc.billingRepo.GetBudgets(ctx, profile, req.Year)
	if err != nil {
		uc.console.LogWarning("Could not fetch budgets for profile %s: %s", profile, err)
	}
	budgets = append(budgets, req.ExtraBudgets...)

	accounts := BuildAccountSpend(data.Lines, budgets, accountNames, req.Month)
	SortAccounts(accounts, req.AccountSortKey)
	export.Accounts = accounts
	export.BudgetDeltas = ComputeBudgetDeltas(accounts)
	export.BudgetSummaries = SummarizeBudgets(export.BudgetDeltas)
	progress.Increment() // 4/4

	return export, nil
}

// resolveTags fans the unresolved references out to the external resolver
// in bounded batches and commits the results. Resolver failures are logged
// and skipped: unresolved lines behave as "no tags" and a later render
// picks up whatever resolved in the meantime.
func (uc *DashboardUseCase) resolveTags(ctx context.Context, profile string, store *TagStore, lines []entity.BillingDetailLine) {
	refs := store.Pending(lines)
	if len(refs) == 0 || uc.tagResolver == nil {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(tagResolveWorkers)

	for start := 0; start < len(refs); start += tagResolveBatchSize {
		end := start + tagResolveBatchSize
		if end > len(refs) {
			end = len(refs)
		}
		batch := refs[start:end]

		g.Go(func() error {
			resolved, err := uc.tagResolver.ResolveTags(gctx, profile, batch)
			if err != nil {
				return err
			}
			for _, ref := range batch {
				store.Commit(ref, resolved[ref])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		uc.console.LogWarning("Tag resolution incomplete: %s", err)
	}
}

// visibleLines flattens the visible line subsets of the surviving groups.
func visibleLines(groups []entity.ResourceGroup) []entity.BillingDetailLine {
	var lines []entity.BillingDetailLine
	for _, g := range groups {
		lines = append(lines, g.Lines...)
	}
	return lines
}

// displayDashboard renders one profile's groups, attribution cards and
// budget view. Formatting only; all numbers arrive computed.
func (uc *DashboardUseCase) displayDashboard(profile string, export repository.DashboardExport) {
	uc.console.Printf("\n%s\n",
		pterm.FgYellow.Sprintf("Profile: %s (%s to %s)", profile, export.PeriodStart, export.PeriodEnd))

	if len(export.Groups) == 0 {
		uc.console.LogInfo("No billing rows match the current filters.")
		return
	}

	table := uc.console.CreateTable()
	table.AddColumn("Provider")
	table.AddColumn("Resource Type")
	table.AddColumn("Currency")
	table.AddColumn("Total")
	table.AddColumn("Items")
	table.AddColumn("Tagged / Untagged")
	table.AddColumn("Share")

	var bars []types.ShareBar
	for _, g := range export.Groups {
		label := g.ProviderLabel
		if label == "" {
			label = g.Provider
		}
		table.AddRow(
			pterm.FgMagenta.Sprint(label),
			g.ResourceType,
			g.Currency,
			pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprintf("%.2f", g.TotalAmount),
			fmt.Sprintf("%d", g.SnapshotCount),
			fmt.Sprintf("%s / %s",
				pterm.FgGreen.Sprintf("%d", g.TaggedCount),
				pterm.FgYellow.Sprintf("%d", g.UntaggedCount)),
			fmt.Sprintf("%.1f%%", g.SharePercent),
		)
		bars = append(bars, types.ShareBar{
			Label:        fmt.Sprintf("%s/%s", g.Provider, g.ResourceType),
			Amount:       g.TotalAmount,
			Currency:     g.Currency,
			SharePercent: g.SharePercent,
		})
	}
	uc.console.Print(table.Render())
	uc.console.DisplayShareBars(bars)

	uc.displayTagTotals("Org attribution", export.OrgTotals)
	uc.displayTagTotals("Product attribution", export.ProductTotals)
	uc.displayBudgets(export)
}

// displayTagTotals renders one attribution card.
func (uc *DashboardUseCase) displayTagTotals(title string, rows []entity.TagTotalRow) {
	if len(rows) == 0 {
		return
	}

	table := uc.console.CreateTable()
	table.AddColumn(title)
	table.AddColumn("Lines")
	table.AddColumn("Resources")
	table.AddColumn("Totals")

	for _, row := range rows {
		var totals []string
		for _, c := range sortedCurrencies(row.Totals) {
			totals = append(totals, fmt.Sprintf("%s %.2f", c, row.Totals[c]))
		}
		label := row.Label
		if label == entity.NullTagBucket {
			label = pterm.FgYellow.Sprint("(none)")
		}
		table.AddRow(
			label,
			fmt.Sprintf("%d", row.LineCount),
			fmt.Sprintf("%d", row.ResourceCount),
			strings.Join(totals, "\n"),
		)
	}
	uc.console.Print(table.Render())
}

// displayBudgets renders the per-account deltas and the per-currency
// aggregate.
func (uc *DashboardUseCase) displayBudgets(export repository.DashboardExport) {
	if len(export.BudgetDeltas) == 0 {
		uc.console.LogInfo("No budgets configured for this scope.")
		return
	}

	var bars []types.BudgetBar
	for _, d := range export.BudgetDeltas {
		bars = append(bars, types.BudgetBar{
			Label:    fmt.Sprintf("%s (%s)", d.AccountID, d.Provider),
			Currency: d.Currency,
			Actual:   d.ActualAmount,
			Budget:   d.BudgetAmount,
			Status:   string(d.Status),
		})
	}
	uc.console.DisplayBudgetBars(bars)

	table := uc.console.CreateTable()
	table.AddColumn("Currency")
	table.AddColumn("Accounts")
	table.AddColumn("Actual")
	table.AddColumn("Budget")
	table.AddColumn("Delta")
	table.AddColumn("Status")
	for _, s := range export.BudgetSummaries {
		table.AddRow(
			s.Currency,
			fmt.Sprintf("%d", s.AccountCount),
			fmt.Sprintf("%.2f", s.ActualAmount),
			fmt.Sprintf("%.2f", s.BudgetAmount),
			formatDelta(s.Delta),
			formatStatus(s.Status),
		)
	}
	uc.console.Print(table.Render())
}

func formatDelta(delta float64) string {
	if delta > entity.BudgetTolerance {
		return pterm.FgRed.Sprintf("+%.2f", delta)
	}
	if delta < -entity.BudgetTolerance {
		return pterm.FgGreen.Sprintf("%.2f", delta)
	}
	return pterm.FgYellow.Sprintf("%.2f", delta)
}

func formatStatus(status entity.BudgetStatus) string {
	switch status {
	case entity.BudgetOver:
		return pterm.FgRed.Sprint(string(status))
	case entity.BudgetUnder:
		return pterm.FgGreen.Sprint(string(status))
	default:
		return pterm.FgYellow.Sprint(string(status))
	}
}

func sortedCurrencies(totals map[string]float64) []string {
	currencies := make([]string, 0, len(totals))
	for c := range totals {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)
	return currencies
}

// exportReports writes the requested report files for one profile.
func (uc *DashboardUseCase) exportReports(export repository.DashboardExport, req *DashboardRequest) {
	if req.ReportName == "" || len(req.ReportType) == 0 {
		return
	}

	for _, reportType := range req.ReportType {
		switch reportType {
		case "csv":
			csvPath, err := uc.exportRepo.ExportToCSV(export, req.ReportName, req.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportToJSON(export, req.ReportName, req.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to JSON: %s", jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportToPDF(export, req.ReportName, req.Dir)
			if err != nil {
				uc.console.LogError("Failed to export to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported to PDF: %s", pdfPath)
			}
		}
	}
}
