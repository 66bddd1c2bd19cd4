package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylens/cloud-spend-dashboard-go/internal/shared/types"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFileTOML(t *testing.T) {
	path := writeTempConfig(t, "config.toml", `
profiles = ["prod", "staging"]
provider = "aws"
tag_summary = ["org", "product"]
report_type = ["csv", "json"]

[[budgets]]
provider = "aws"
account_id = "111"
currency = "USD"

[budgets.months]
jan = 100.0
"2" = 200.0
`)

	repo := NewConfigRepository()
	cfg, err := repo.LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"prod", "staging"}, cfg.Profiles)
	assert.Equal(t, "aws", cfg.Provider)
	assert.Equal(t, []string{"org", "product"}, cfg.TagSummary)
	require.Len(t, cfg.Budgets, 1)
	assert.Equal(t, "111", cfg.Budgets[0].AccountID)
}

func TestLoadConfigFileYAML(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
profiles:
  - prod
provider: gcp
report_name: spend
`)

	repo := NewConfigRepository()
	cfg, err := repo.LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"prod"}, cfg.Profiles)
	assert.Equal(t, "gcp", cfg.Provider)
	assert.Equal(t, "spend", cfg.ReportName)
}

func TestLoadConfigFileJSON(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{
  "profiles": ["prod"],
  "account_names": {"111": "prod-account"}
}`)

	repo := NewConfigRepository()
	cfg, err := repo.LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "prod-account", cfg.AccountName["111"])
}

func TestLoadConfigFileUnsupportedFormat(t *testing.T) {
	path := writeTempConfig(t, "config.ini", "[section]\nkey=value\n")

	repo := NewConfigRepository()
	_, err := repo.LoadConfigFile(path)
	assert.Error(t, err)
}

func TestLoadConfigFileMissing(t *testing.T) {
	repo := NewConfigRepository()
	_, err := repo.LoadConfigFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestConvertBudgetEntries(t *testing.T) {
	entries := []types.BudgetEntry{
		{
			Provider:  "AWS",
			AccountID: "111",
			Currency:  "usd",
			Months: map[string]float64{
				"jan":      100,
				"February": 200,
				"3":        300,
				"13":       999, // out of range, skipped
				"bogus":    999, // unparseable, skipped
				"dec":      -50, // negative, skipped
			},
		},
	}

	rows := ConvertBudgetEntries(entries)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "aws:111", row.ScopeID)
	assert.Equal(t, "aws", row.Provider)
	assert.Equal(t, "USD", row.Currency)

	jan := row.MonthBudget(1)
	require.NotNil(t, jan)
	assert.InDelta(t, 100.0, *jan, 1e-9)

	feb := row.MonthBudget(2)
	require.NotNil(t, feb)
	assert.InDelta(t, 200.0, *feb, 1e-9)

	mar := row.MonthBudget(3)
	require.NotNil(t, mar)
	assert.InDelta(t, 300.0, *mar, 1e-9)

	assert.Nil(t, row.MonthBudget(12), "negative amounts are skipped")
	assert.InDelta(t, 600.0, row.AnnualTotal(), 1e-9)
}
