package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

func TestSummarizeTagTotals(t *testing.T) {
	store := NewTagStore()
	store.Commit("i-1", []entity.TagEntry{{Key: "org", Value: "payments"}})
	store.Commit("i-2", []entity.TagEntry{{Key: "org", Value: "payments"}})
	store.Commit("i-3", []entity.TagEntry{{Key: "org", Value: "platform"}})
	store.Commit("i-4", []entity.TagEntry{{Key: "org", Value: "null"}})

	lines := []entity.BillingDetailLine{
		{ResourceRef: "i-1", Amount: 60},
		{ResourceRef: "i-1", Amount: 20},
		{ResourceRef: "i-2", Amount: 20},
		{ResourceRef: "i-3", Amount: 30},
		{ResourceRef: "i-4", Amount: 5},
		{ResourceRef: "i-unresolved", Amount: 5},
		{ResourceRef: "", Amount: 5},
	}

	rows := SummarizeTagTotals(lines, "org", store)
	require.Len(t, rows, 3)

	// Ranked by USD total descending.
	assert.Equal(t, "payments", rows[0].Label)
	assert.InDelta(t, 100.0, rows[0].Totals["USD"], 1e-9)
	assert.Equal(t, 3, rows[0].LineCount)
	assert.Equal(t, 2, rows[0].ResourceCount, "i-1 counted once")

	assert.Equal(t, "platform", rows[1].Label)
	assert.InDelta(t, 30.0, rows[1].Totals["USD"], 1e-9)

	assert.Equal(t, entity.NullTagBucket, rows[2].Label)
	assert.InDelta(t, 15.0, rows[2].Totals["USD"], 1e-9)
	assert.Equal(t, 3, rows[2].LineCount)
	assert.Equal(t, 2, rows[2].ResourceCount, "the empty ref never counts as a resource")
}

func TestSummarizeTagTotalsTieBreaksByLabel(t *testing.T) {
	store := NewTagStore()
	store.Commit("i-1", []entity.TagEntry{{Key: "org", Value: "bravo"}})
	store.Commit("i-2", []entity.TagEntry{{Key: "org", Value: "alpha"}})

	lines := []entity.BillingDetailLine{
		{ResourceRef: "i-1", Amount: 10},
		{ResourceRef: "i-2", Amount: 10},
	}

	rows := SummarizeTagTotals(lines, "org", store)
	require.Len(t, rows, 2)
	assert.Equal(t, "alpha", rows[0].Label)
	assert.Equal(t, "bravo", rows[1].Label)
}

func TestSummarizeTagTotalsMultiCurrency(t *testing.T) {
	store := NewTagStore()
	store.Commit("i-1", []entity.TagEntry{{Key: "org", Value: "payments"}})

	lines := []entity.BillingDetailLine{
		{ResourceRef: "i-1", Amount: 10, Currency: "USD"},
		{ResourceRef: "i-1", Amount: 7, Currency: "EUR"},
	}

	rows := SummarizeTagTotals(lines, "org", store)
	require.Len(t, rows, 1)
	assert.InDelta(t, 10.0, rows[0].Totals["USD"], 1e-9)
	assert.InDelta(t, 7.0, rows[0].Totals["EUR"], 1e-9)
	assert.InDelta(t, 10.0, rows[0].SortableAmount(), 1e-9, "USD wins when present")
}

func TestTagTotalRowSortableAmountWithoutUSD(t *testing.T) {
	row := entity.TagTotalRow{Totals: map[string]float64{"GBP": 3, "EUR": 9}}
	assert.InDelta(t, 9.0, row.SortableAmount(), 1e-9, "lexicographically first currency")

	empty := entity.TagTotalRow{}
	assert.Equal(t, 0.0, empty.SortableAmount())
}
