package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/skylens/cloud-spend-dashboard-go/internal/adapter/driven/aws"
	configadapter "github.com/skylens/cloud-spend-dashboard-go/internal/adapter/driven/config"
	"github.com/skylens/cloud-spend-dashboard-go/internal/adapter/driven/filesource"
	"github.com/skylens/cloud-spend-dashboard-go/internal/adapter/driven/prefs"
	"github.com/skylens/cloud-spend-dashboard-go/internal/application/usecase"
	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/repository"
	"github.com/skylens/cloud-spend-dashboard-go/internal/shared/types"
	"github.com/skylens/cloud-spend-dashboard-go/pkg/version"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	console    types.ConsoleInterface
	configRepo repository.ConfigRepository
	prefsRepo  repository.PrefsRepository
	exportRepo repository.ExportRepository
	version    string
}

// NewCLIApp creates a new CLI application.
func NewCLIApp(
	versionStr string,
	console types.ConsoleInterface,
	configRepo repository.ConfigRepository,
	prefsRepo repository.PrefsRepository,
	exportRepo repository.ExportRepository,
) *CLIApp {
	app := &CLIApp{
		console:    console,
		configRepo: configRepo,
		prefsRepo:  prefsRepo,
		exportRepo: exportRepo,
		version:    versionStr,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "cloudspend",
		Short:   "Cloud Spend Dashboard CLI",
		Version: formattedVersion,
		RunE:    app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "Cloud Spend Dashboard version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringSliceP("profiles", "p", nil, "Specific billing profiles to use (comma-separated)")
	rootCmd.PersistentFlags().BoolP("all", "a", false, "Use all available billing profiles")
	rootCmd.PersistentFlags().StringSlice("source", nil, "JSON billing dump files to use instead of the cloud API")
	rootCmd.PersistentFlags().Int("year", 0, "Billing year (default: current year)")
	rootCmd.PersistentFlags().Int("month", 0, "Billing month 1-12 (default: current month)")
	rootCmd.PersistentFlags().String("provider", "", "Scope the dashboard to one provider (aws, gcp, azure)")
	rootCmd.PersistentFlags().String("resource-type", "", "Scope the dashboard to one resource type")
	rootCmd.PersistentFlags().StringP("tag-filter", "f", "", "Tag filter: all, tagged, untagged, null:<key>, kv:<key>:<value>")
	rootCmd.PersistentFlags().StringP("search", "s", "", "Free-text search over the visible lines")
	rootCmd.PersistentFlags().String("sort", "", "Group sort key: amount_desc, amount_asc, untagged_desc, type_asc, type_desc, provider_asc, provider_desc")
	rootCmd.PersistentFlags().String("account-sort", "", "Account sort key: provider_asc, provider_desc, account_asc, account_desc, total_desc, total_asc, budget_desc, budget_asc")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", nil, "Specify report types: csv, json, pdf")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	rootCmd.PersistentFlags().Bool("no-prefs", false, "Ignore and do not update the saved preferences")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	flags := app.rootCmd.Flags()

	configFile, _ := flags.GetString("config-file")
	profiles, _ := flags.GetStringSlice("profiles")
	all, _ := flags.GetBool("all")
	sources, _ := flags.GetStringSlice("source")
	year, _ := flags.GetInt("year")
	month, _ := flags.GetInt("month")
	provider, _ := flags.GetString("provider")
	resourceType, _ := flags.GetString("resource-type")
	tagFilter, _ := flags.GetString("tag-filter")
	search, _ := flags.GetString("search")
	sortKey, _ := flags.GetString("sort")
	accountSort, _ := flags.GetString("account-sort")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	noPrefs, _ := flags.GetBool("no-prefs")

	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		dir = cwd
	} else {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	args := &types.CLIArgs{
		ConfigFile:   configFile,
		Profiles:     profiles,
		All:          all,
		Year:         year,
		Month:        month,
		Provider:     provider,
		ResourceType: resourceType,
		TagFilter:    tagFilter,
		Search:       search,
		Sort:         sortKey,
		AccountSort:  accountSort,
		ReportName:   reportName,
		ReportType:   reportType,
		Dir:          dir,
		NoPrefs:      noPrefs,
		Sources:      sources,
	}

	return args, nil
}

// runCommand is the main entry point for the CLI command.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	displayWelcomeBanner(app.version)

	go version.CheckLatestVersion(app.version)

	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	req, err := app.buildRequest(cliArgs)
	if err != nil {
		return err
	}

	billingRepo, tagResolver := app.selectBillingSource(cliArgs)

	dashboardUseCase := usecase.NewDashboardUseCase(
		billingRepo,
		tagResolver,
		app.exportRepo,
		app.console,
	)

	ctx := context.Background()
	if err := dashboardUseCase.RunDashboard(ctx, req); err != nil {
		return err
	}

	if !cliArgs.NoPrefs {
		app.savePrefs(req)
	}
	return nil
}

// buildRequest merges config file, saved prefs and flags into one typed
// request. Flags win over prefs; prefs win over nothing.
func (app *CLIApp) buildRequest(cliArgs *types.CLIArgs) (*usecase.DashboardRequest, error) {
	req := &usecase.DashboardRequest{
		Profiles:     cliArgs.Profiles,
		All:          cliArgs.All,
		Year:         cliArgs.Year,
		Month:        cliArgs.Month,
		Provider:     cliArgs.Provider,
		ResourceType: cliArgs.ResourceType,
		SearchText:   cliArgs.Search,
		ReportName:   cliArgs.ReportName,
		ReportType:   cliArgs.ReportType,
		Dir:          cliArgs.Dir,
		TagFilter:    entity.AllTagFilter(),
	}

	now := time.Now()
	if req.Year == 0 {
		req.Year = now.Year()
	}
	if req.Month == 0 {
		req.Month = int(now.Month())
	}

	if cliArgs.ConfigFile != "" {
		cfg, err := app.configRepo.LoadConfigFile(cliArgs.ConfigFile)
		if err != nil {
			return nil, err
		}
		if len(req.Profiles) == 0 {
			req.Profiles = cfg.Profiles
		}
		if len(cliArgs.Sources) == 0 {
			cliArgs.Sources = cfg.Sources
		}
		if req.Provider == "" {
			req.Provider = cfg.Provider
		}
		if req.ReportName == "" {
			req.ReportName = cfg.ReportName
		}
		if len(req.ReportType) == 0 {
			req.ReportType = cfg.ReportType
		}
		if cfg.Dir != "" && !app.rootCmd.Flags().Changed("dir") {
			req.Dir = cfg.Dir
		}
		req.TagSummaryKeys = cfg.TagSummary
		req.ExtraBudgets = configadapter.ConvertBudgetEntries(cfg.Budgets)
		req.AccountNames = cfg.AccountName
	}

	tagFilterStr := cliArgs.TagFilter
	sortKey := cliArgs.Sort
	accountSort := cliArgs.AccountSort
	search := cliArgs.Search

	if !cliArgs.NoPrefs {
		saved, err := app.prefsRepo.Load()
		if err != nil {
			app.console.LogWarning("Could not load saved preferences: %s", err)
		} else {
			if tagFilterStr == "" {
				tagFilterStr = saved.TagFilter
			}
			if sortKey == "" {
				sortKey = saved.Sort
			}
			if accountSort == "" {
				accountSort = saved.AccountSort
			}
			if search == "" && !app.rootCmd.Flags().Changed("search") {
				search = saved.Search
			}
		}
	}

	req.TagFilter = prefs.ParseTagFilter(tagFilterStr)
	req.SortKey = usecase.NormalizeSortKey(sortKey)
	req.AccountSortKey = usecase.NormalizeAccountSortKey(accountSort)
	req.SearchText = search

	return req, nil
}

// selectBillingSource picks the data backend: file dumps when --source is
// given, the cloud API otherwise.
func (app *CLIApp) selectBillingSource(cliArgs *types.CLIArgs) (repository.BillingRepository, repository.TagResolver) {
	if len(cliArgs.Sources) > 0 {
		fileRepo := filesource.NewFileSourceRepository(cliArgs.Sources)
		return fileRepo, fileRepo
	}
	awsRepo := aws.NewAWSRepository()
	return awsRepo, awsRepo
}

// savePrefs persists the view state of this run for the next one.
func (app *CLIApp) savePrefs(req *usecase.DashboardRequest) {
	saved := &types.Prefs{
		TagFilter:   prefs.EncodeTagFilter(req.TagFilter),
		Sort:        req.SortKey,
		AccountSort: req.AccountSortKey,
		Search:      strings.TrimSpace(req.SearchText),
	}
	if err := app.prefsRepo.Save(saved); err != nil {
		app.console.LogWarning("Could not save preferences: %s", err)
	}
}
