package aws

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	budgetTypes "github.com/aws/aws-sdk-go-v2/service/budgets/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

const providerCode = "aws"

// AWSRepositoryImpl implements BillingRepository and TagResolver for AWS,
// with cached per-profile configs and per-service clients.
type AWSRepositoryImpl struct {
	cfgCache    map[string]aws.Config
	clientCache map[string]interface{}
	mu          sync.Mutex
}

// NewAWSRepository creates a new AWS-backed billing repository.
func NewAWSRepository() *AWSRepositoryImpl {
	return &AWSRepositoryImpl{
		cfgCache:    make(map[string]aws.Config),
		clientCache: make(map[string]interface{}),
	}
}

func (r *AWSRepositoryImpl) getAWSConfig(ctx context.Context, profile string) (aws.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg, ok := r.cfgCache[profile]; ok {
		return cfg, nil
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithSharedConfigProfile(profile))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config for profile %s: %w", profile, err)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	r.cfgCache[profile] = cfg
	return cfg, nil
}

func (r *AWSRepositoryImpl) getServiceClient(ctx context.Context, profile, region, service string) (interface{}, error) {
	cacheKey := fmt.Sprintf("%s-%s-%s", profile, region, service)

	r.mu.Lock()
	if client, ok := r.clientCache[cacheKey]; ok {
		r.mu.Unlock()
		return client, nil
	}
	r.mu.Unlock()

	cfg, err := r.getAWSConfig(ctx, profile)
	if err != nil {
		return nil, err
	}

	regionalCfg := cfg.Copy()
	if region != "" {
		regionalCfg.Region = region
	}

	var client interface{}
	switch service {
	case "sts":
		client = sts.NewFromConfig(regionalCfg)
	case "ec2":
		client = ec2.NewFromConfig(regionalCfg)
	case "costexplorer":
		regionalCfg.Region = "us-east-1"
		client = costexplorer.NewFromConfig(regionalCfg)
	case "budgets":
		regionalCfg.Region = "us-east-1"
		client = budgets.NewFromConfig(regionalCfg)
	case "s3":
		client = s3.NewFromConfig(regionalCfg)
	case "rds":
		client = rds.NewFromConfig(regionalCfg)
	case "lambda":
		client = lambda.NewFromConfig(regionalCfg)
	case "elbv2":
		client = elasticloadbalancingv2.NewFromConfig(regionalCfg)
	case "cloudwatchlogs":
		client = cloudwatchlogs.NewFromConfig(regionalCfg)
	default:
		return nil, fmt.Errorf("unsupported service: %s", service)
	}

	r.mu.Lock()
	r.clientCache[cacheKey] = client
	r.mu.Unlock()

	return client, nil
}

// GetProfiles lists the profiles configured in the shared AWS files.
func (r *AWSRepositoryImpl) GetProfiles() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return []string{"default"}
	}

	credentialsPath := filepath.Join(homeDir, ".aws", "credentials")
	configPath := filepath.Join(homeDir, ".aws", "config")

	profiles := make(map[string]bool)
	profileRegex := regexp.MustCompile(`\[([^]]+)\]`)

	parseFile := func(path string, isConfig bool) {
		content, err := os.ReadFile(path)
		if err != nil {
			return
		}
		matches := profileRegex.FindAllStringSubmatch(string(content), -1)
		for _, match := range matches {
			profileName := match[1]
			if isConfig {
				profileName = strings.TrimPrefix(profileName, "profile ")
			}
			profiles[profileName] = true
		}
	}

	parseFile(credentialsPath, false)
	parseFile(configPath, true)

	if len(profiles) == 0 {
		profiles["default"] = true
	}

	result := make([]string, 0, len(profiles))
	for profile := range profiles {
		result = append(result, profile)
	}
	sort.Strings(result)
	return result
}

// GetAccountID resolves the caller's account id for a profile.
func (r *AWSRepositoryImpl) GetAccountID(ctx context.Context, profile string) (string, error) {
	client, err := r.getServiceClient(ctx, profile, "us-east-1", "sts")
	if err != nil {
		return "", err
	}
	stsClient := client.(*sts.Client)

	result, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("error getting account ID for profile %s: %w", profile, err)
	}
	return *result.Account, nil
}

// GetAccountNames maps the account id onto the profile name; AWS has no
// cheap display-name API at this access level.
func (r *AWSRepositoryImpl) GetAccountNames(ctx context.Context, profile string) (map[string]string, error) {
	accountID, err := r.GetAccountID(ctx, profile)
	if err != nil {
		return nil, err
	}
	return map[string]string{accountID: profile}, nil
}

// GetBillingPeriod fetches one calendar month of billing data: summary
// rows pre-aggregated by service from Cost Explorer, and resource-level
// detail lines where resource data is available.
func (r *AWSRepositoryImpl) GetBillingPeriod(ctx context.Context, profile string, year int, month int) (entity.BillingPeriodData, error) {
	client, err := r.getServiceClient(ctx, profile, "", "costexplorer")
	if err != nil {
		return entity.BillingPeriodData{}, err
	}
	ceClient := client.(*costexplorer.Client)

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	period := &ceTypes.DateInterval{
		Start: aws.String(start.Format("2006-01-02")),
		End:   aws.String(end.Format("2006-01-02")),
	}

	accountID, _ := r.GetAccountID(ctx, profile)

	summaries, err := r.getServiceSummaries(ctx, ceClient, period)
	if err != nil {
		return entity.BillingPeriodData{}, err
	}

	lines, err := r.getResourceLines(ctx, ceClient, period, accountID, start, end)
	if err != nil {
		// Resource-level data is an account opt-in; the dashboard still
		// works from the summary rows alone.
		lines = nil
	}

	return entity.BillingPeriodData{
		Lines:       lines,
		Summaries:   summaries,
		PeriodStart: start.Format("2006-01-02"),
		PeriodEnd:   end.AddDate(0, 0, -1).Format("2006-01-02"),
	}, nil
}

func (r *AWSRepositoryImpl) getServiceSummaries(ctx context.Context, client *costexplorer.Client, period *ceTypes.DateInterval) ([]entity.SummaryRow, error) {
	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod:  period,
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{"UnblendedCost"},
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
	}

	result, err := client.GetCostAndUsage(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get cost by service: %w", err)
	}

	var rows []entity.SummaryRow
	var total float64
	if len(result.ResultsByTime) > 0 {
		for _, group := range result.ResultsByTime[0].Groups {
			metric, ok := group.Metrics["UnblendedCost"]
			if !ok || metric.Amount == nil {
				continue
			}
			cost, _ := strconv.ParseFloat(*metric.Amount, 64)
			if cost < 0.001 {
				continue
			}
			currency := entity.DefaultCurrency
			if metric.Unit != nil && *metric.Unit != "" {
				currency = *metric.Unit
			}
			rows = append(rows, entity.SummaryRow{
				Provider:      providerCode,
				ResourceType:  serviceSlug(group.Keys[0]),
				Currency:      currency,
				TotalAmount:   cost,
				SnapshotCount: 1,
			})
			total += cost
		}
	}

	if total > 0 {
		for i := range rows {
			rows[i].SharePercent = rows[i].TotalAmount / total * 100
		}
	}
	return rows, nil
}

func (r *AWSRepositoryImpl) getResourceLines(
	ctx context.Context,
	client *costexplorer.Client,
	period *ceTypes.DateInterval,
	accountID string,
	start, end time.Time,
) ([]entity.BillingDetailLine, error) {
	input := &costexplorer.GetCostAndUsageWithResourcesInput{
		TimePeriod:  period,
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{"UnblendedCost"},
		Filter: &ceTypes.Expression{
			Dimensions: &ceTypes.DimensionValues{
				Key:    "RECORD_TYPE",
				Values: []string{"Usage"},
			},
		},
		GroupBy: []ceTypes.GroupDefinition{
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("RESOURCE_ID")},
			{Type: ceTypes.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
	}

	result, err := client.GetCostAndUsageWithResources(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get resource-level costs: %w", err)
	}

	var lines []entity.BillingDetailLine
	if len(result.ResultsByTime) > 0 {
		for _, group := range result.ResultsByTime[0].Groups {
			if len(group.Keys) < 2 {
				continue
			}
			metric, ok := group.Metrics["UnblendedCost"]
			if !ok || metric.Amount == nil {
				continue
			}
			cost, _ := strconv.ParseFloat(*metric.Amount, 64)
			if cost < 0.0001 {
				continue
			}
			currency := entity.DefaultCurrency
			if metric.Unit != nil && *metric.Unit != "" {
				currency = *metric.Unit
			}
			service := group.Keys[1]
			lines = append(lines, entity.BillingDetailLine{
				Provider:      providerCode,
				ResourceType:  serviceSlug(service),
				Currency:      currency,
				Amount:        cost,
				ResourceRef:   group.Keys[0],
				AccountID:     accountID,
				DetailName:    service,
				ItemType:      "usage",
				SectionType:   "resource",
				CoverageStart: start.Format("2006-01-02"),
				CoverageEnd:   end.AddDate(0, 0, -1).Format("2006-01-02"),
				VendorID:      providerCode,
			})
		}
	}
	return lines, nil
}

// GetBudgets maps the account's monthly cost budgets onto budget rows: the
// monthly limit repeats across all 12 months of the requested year.
func (r *AWSRepositoryImpl) GetBudgets(ctx context.Context, profile string, year int) ([]entity.AccountBudgetRow, error) {
	client, err := r.getServiceClient(ctx, profile, "", "budgets")
	if err != nil {
		return nil, err
	}
	budgetsClient := client.(*budgets.Client)

	accountID, err := r.GetAccountID(ctx, profile)
	if err != nil {
		return nil, err
	}

	result, err := budgetsClient.DescribeBudgets(ctx, &budgets.DescribeBudgetsInput{
		AccountId: aws.String(accountID),
	})
	if err != nil {
		return nil, nil // budget access is optional, not fatal
	}

	var rows []entity.AccountBudgetRow
	for _, budget := range result.Budgets {
		if budget.BudgetType != budgetTypes.BudgetTypeCost || budget.TimeUnit != budgetTypes.TimeUnitMonthly {
			continue
		}
		if budget.BudgetLimit == nil || budget.BudgetLimit.Amount == nil {
			continue
		}
		limit, err := strconv.ParseFloat(*budget.BudgetLimit.Amount, 64)
		if err != nil || limit < 0 {
			continue
		}
		currency := entity.DefaultCurrency
		if budget.BudgetLimit.Unit != nil && *budget.BudgetLimit.Unit != "" {
			currency = *budget.BudgetLimit.Unit
		}

		row := entity.AccountBudgetRow{
			ScopeID:   entity.ScopeID(providerCode, accountID),
			Provider:  providerCode,
			AccountID: accountID,
			Currency:  currency,
		}
		for m := 0; m < 12; m++ {
			v := limit
			row.Months[m] = &v
		}
		rows = append(rows, row)
		break // one cost budget per account is enough for the dashboard
	}

	return rows, nil
}

// serviceSlug compresses a Cost Explorer service label into the short
// resource type the dashboard keys on.
func serviceSlug(service string) string {
	known := map[string]string{
		"amazon simple storage service":        "s3",
		"amazon elastic compute cloud - compute": "ec2",
		"amazon relational database service":   "rds",
		"aws lambda":                           "lambda",
		"elastic load balancing":               "elb",
		"amazon cloudwatch":                    "cloudwatch",
		"amazon virtual private cloud":         "vpc",
	}
	s := strings.ToLower(strings.TrimSpace(service))
	if slug, ok := known[s]; ok {
		return slug
	}
	return strings.ReplaceAll(s, " ", "-")
}
