package usecase

import (
	"sort"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

// SummarizeTagTotals groups the given detail lines by the value they carry
// for one tag key ("org", "product", ...) and accumulates line count,
// distinct resource count and per-currency sums per bucket. Lines without
// a value land in the synthetic "null" bucket. Rows come back ranked by
// sortable amount descending, label ascending on ties.
func SummarizeTagTotals(lines []entity.BillingDetailLine, key string, store *TagStore) []entity.TagTotalRow {
	if store == nil {
		store = NewTagStore()
	}

	type bucket struct {
		row  entity.TagTotalRow
		refs map[string]bool
	}
	buckets := make(map[string]*bucket)

	for _, l := range lines {
		label := store.Value(l.ResourceRef, key)
		if label == "" || label == "null" {
			label = entity.NullTagBucket
		}

		b, ok := buckets[label]
		if !ok {
			b = &bucket{
				row:  entity.TagTotalRow{Label: label, Totals: make(map[string]float64)},
				refs: make(map[string]bool),
			}
			buckets[label] = b
		}

		b.row.LineCount++
		if l.ResourceRef != "" && !b.refs[l.ResourceRef] {
			b.refs[l.ResourceRef] = true
			b.row.ResourceCount++
		}
		b.row.Totals[entity.NormalizeCurrency(l.Currency)] += l.SafeAmount()
	}

	rows := make([]entity.TagTotalRow, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, b.row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ai, aj := rows[i].SortableAmount(), rows[j].SortableAmount()
		if ai != aj {
			return ai > aj
		}
		return rows[i].Label < rows[j].Label
	})

	return rows
}
