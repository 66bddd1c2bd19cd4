package usecase

import (
	"sort"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

// GroupLines builds the lookup from canonical grouping key to the detail
// lines carrying that key. Absent optional fields fall back to their
// defaults through entity.NormalizeGroupKey; there are no error conditions.
func GroupLines(lines []entity.BillingDetailLine) map[entity.GroupKey][]entity.BillingDetailLine {
	byKey := make(map[entity.GroupKey][]entity.BillingDetailLine)
	for _, l := range lines {
		k := l.Key()
		byKey[k] = append(byKey[k], l)
	}
	return byKey
}

// MergeSummaries returns one summary row per grouping key: server-provided
// rows win, and keys that only appear in detail lines get a synthesized row
// with totals summed from the lines and shares computed against the
// (provider, currency) partition of all synthesized plus provided rows.
// The result is ordered by key for determinism.
func MergeSummaries(summaries []entity.SummaryRow, byKey map[entity.GroupKey][]entity.BillingDetailLine) []entity.SummaryRow {
	merged := make(map[entity.GroupKey]entity.SummaryRow, len(summaries))
	for _, s := range summaries {
		k := s.Key()
		if _, ok := merged[k]; ok {
			continue
		}
		s.Provider, s.ResourceType, s.Currency = k.Provider, k.ResourceType, k.Currency
		s.TotalAmount = entity.SanitizeAmount(s.TotalAmount)
		merged[k] = s
	}

	var synthesized []entity.GroupKey
	for k, lines := range byKey {
		if _, ok := merged[k]; ok {
			continue
		}
		var total float64
		for _, l := range lines {
			total += l.SafeAmount()
		}
		merged[k] = entity.SummaryRow{
			Provider:      k.Provider,
			ResourceType:  k.ResourceType,
			Currency:      k.Currency,
			TotalAmount:   total,
			SnapshotCount: len(lines),
		}
		synthesized = append(synthesized, k)
	}

	// Synthesized rows have no server share; compute one against the full
	// (provider, currency) partition so the share-sum invariant holds.
	if len(synthesized) > 0 {
		partitionTotals := make(map[[2]string]float64)
		for k, s := range merged {
			partitionTotals[[2]string{k.Provider, k.Currency}] += s.TotalAmount
		}
		for _, k := range synthesized {
			s := merged[k]
			if denom := partitionTotals[[2]string{k.Provider, k.Currency}]; denom != 0 {
				s.SharePercent = s.TotalAmount / denom * 100
			}
			merged[k] = s
		}
	}

	keys := make([]entity.GroupKey, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Provider != b.Provider {
			return a.Provider < b.Provider
		}
		if a.ResourceType != b.ResourceType {
			return a.ResourceType < b.ResourceType
		}
		return a.Currency < b.Currency
	})

	out := make([]entity.SummaryRow, 0, len(keys))
	for _, k := range keys {
		out = append(out, merged[k])
	}
	return out
}
