package filesource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylens/cloud-spend-dashboard-go/internal/shared/types"
)

const sampleDump = `{
  "provider": "gcp",
  "account_id": "proj-1",
  "account_name": "analytics",
  "lines": [
    {"provider": "gcp", "resource_type": "storage", "amount": 40, "resource_ref": "bucket-a", "coverage_start": "2026-08-01"},
    {"provider": "gcp", "resource_type": "compute", "amount": 60, "resource_ref": "vm-1", "coverage_start": "2026-08-03"},
    {"provider": "gcp", "resource_type": "compute", "amount": 99, "resource_ref": "vm-2", "coverage_start": "2026-07-10"}
  ],
  "summaries": [
    {"resource_type": "storage", "total_amount": 40, "share_percent": 40, "snapshot_count": 1, "period": "2026-08"},
    {"resource_type": "compute", "total_amount": 60, "share_percent": 60, "snapshot_count": 1, "period": "2026-08"},
    {"resource_type": "compute", "total_amount": 99, "share_percent": 100, "snapshot_count": 1, "period": "2026-07"}
  ],
  "budgets": [
    {"currency": "usd", "year": 2026, "months": {"8": 500}}
  ],
  "resources": {
    "bucket-a": {"org": "analytics", "product": "warehouse"},
    "vm-1": {}
  }
}`

func writeDump(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSourceProfiles(t *testing.T) {
	a := writeDump(t, "gcp-prod.json", sampleDump)
	b := writeDump(t, "azure-dev.json", `{"provider": "azure", "account_id": "sub-1"}`)

	repo := NewFileSourceRepository([]string{a, b})
	assert.Equal(t, []string{"azure-dev", "gcp-prod"}, repo.GetProfiles())
}

func TestFileSourceBillingPeriod(t *testing.T) {
	path := writeDump(t, "gcp-prod.json", sampleDump)
	repo := NewFileSourceRepository([]string{path})

	data, err := repo.GetBillingPeriod(context.Background(), "gcp-prod", 2026, 8)
	require.NoError(t, err)

	require.Len(t, data.Lines, 2, "the July line is filtered out")
	require.Len(t, data.Summaries, 2)
	assert.Equal(t, "2026-08-01", data.PeriodStart)

	for _, l := range data.Lines {
		assert.Equal(t, "proj-1", l.AccountID, "missing account id falls back to the document's")
	}
}

func TestFileSourceEmptyPeriod(t *testing.T) {
	path := writeDump(t, "gcp-prod.json", sampleDump)
	repo := NewFileSourceRepository([]string{path})

	_, err := repo.GetBillingPeriod(context.Background(), "gcp-prod", 2026, 6)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNoBillingData)
}

func TestFileSourceAccountMetadata(t *testing.T) {
	path := writeDump(t, "gcp-prod.json", sampleDump)
	repo := NewFileSourceRepository([]string{path})

	id, err := repo.GetAccountID(context.Background(), "gcp-prod")
	require.NoError(t, err)
	assert.Equal(t, "proj-1", id)

	names, err := repo.GetAccountNames(context.Background(), "gcp-prod")
	require.NoError(t, err)
	assert.Equal(t, "analytics", names["proj-1"])
}

func TestFileSourceBudgets(t *testing.T) {
	path := writeDump(t, "gcp-prod.json", sampleDump)
	repo := NewFileSourceRepository([]string{path})

	rows, err := repo.GetBudgets(context.Background(), "gcp-prod", 2026)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "gcp:proj-1", rows[0].ScopeID)
	assert.Equal(t, "USD", rows[0].Currency)
	aug := rows[0].MonthBudget(8)
	require.NotNil(t, aug)
	assert.InDelta(t, 500.0, *aug, 1e-9)
	assert.Nil(t, rows[0].MonthBudget(7))

	other, err := repo.GetBudgets(context.Background(), "gcp-prod", 2025)
	require.NoError(t, err)
	assert.Empty(t, other, "budgets are year-scoped")
}

func TestFileSourceResolveTags(t *testing.T) {
	path := writeDump(t, "gcp-prod.json", sampleDump)
	repo := NewFileSourceRepository([]string{path})

	resolved, err := repo.ResolveTags(context.Background(), "gcp-prod", []string{"bucket-a", "vm-1", "vm-unknown"})
	require.NoError(t, err)

	require.Len(t, resolved["bucket-a"], 2)
	assert.Equal(t, "org", resolved["bucket-a"][0].Key, "tags come back key-sorted")
	assert.Empty(t, resolved["vm-1"], "a resource can resolve to zero tags")
	assert.Nil(t, resolved["vm-unknown"])
}

func TestFileSourceUnknownProfile(t *testing.T) {
	repo := NewFileSourceRepository(nil)
	_, err := repo.GetBillingPeriod(context.Background(), "missing", 2026, 8)
	assert.Error(t, err)
}
