package entity

// NullTagBucket is the synthetic bucket label for lines that lack a value
// for the summarized tag key.
const NullTagBucket = "null"

// TagTotalRow is one bucket of the tag totals summary: all matched lines
// sharing one value of the summarized tag key ("org", "product", ...).
type TagTotalRow struct {
	Label         string             `json:"label"`
	LineCount     int                `json:"line_count"`
	ResourceCount int                `json:"resource_count"`
	Totals        map[string]float64 `json:"totals"`
}

// SortableAmount is the ranking value of a bucket: the USD total when
// present, otherwise the total of the lexicographically first currency,
// otherwise zero.
func (r TagTotalRow) SortableAmount() float64 {
	if v, ok := r.Totals[DefaultCurrency]; ok {
		return v
	}
	first := ""
	for c := range r.Totals {
		if first == "" || c < first {
			first = c
		}
	}
	if first == "" {
		return 0
	}
	return r.Totals[first]
}
