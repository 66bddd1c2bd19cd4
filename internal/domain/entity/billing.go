package entity

import (
	"math"
	"strings"
)

// DefaultCurrency is assumed whenever a billing row arrives without one.
const DefaultCurrency = "USD"

// BillingDetailLine is one atomic billed item as fetched for a period.
// Lines are immutable once fetched; every render derives fresh structures
// from them instead of mutating in place.
type BillingDetailLine struct {
	Provider      string  `json:"provider"`
	ResourceType  string  `json:"resource_type"`
	Currency      string  `json:"currency,omitempty"`
	Amount        float64 `json:"amount"`
	ResourceRef   string  `json:"resource_ref,omitempty"`
	AccountID     string  `json:"account_id,omitempty"`
	DetailName    string  `json:"detail_name,omitempty"`
	ItemType      string  `json:"item_type,omitempty"`
	SectionType   string  `json:"section_type,omitempty"`
	CoverageStart string  `json:"coverage_start,omitempty"`
	CoverageEnd   string  `json:"coverage_end,omitempty"`
	InvoiceID     string  `json:"invoice_id,omitempty"`
	InvoiceDate   string  `json:"invoice_date,omitempty"`
	VendorID      string  `json:"vendor_id,omitempty"`
}

// GroupKey identifies one resource group: provider and resource type are
// compared lower-case, currency upper-case.
type GroupKey struct {
	Provider     string `json:"provider"`
	ResourceType string `json:"resource_type"`
	Currency     string `json:"currency"`
}

// NormalizeGroupKey builds the canonical grouping key for a line's raw
// provider/resourceType/currency values. Missing currency falls back to USD,
// missing names to the empty string.
func NormalizeGroupKey(provider, resourceType, currency string) GroupKey {
	return GroupKey{
		Provider:     strings.ToLower(strings.TrimSpace(provider)),
		ResourceType: strings.ToLower(strings.TrimSpace(resourceType)),
		Currency:     NormalizeCurrency(currency),
	}
}

// NormalizeCurrency upper-cases an ISO currency code, defaulting to USD.
func NormalizeCurrency(currency string) string {
	c := strings.ToUpper(strings.TrimSpace(currency))
	if c == "" {
		return DefaultCurrency
	}
	return c
}

// Key returns the canonical grouping key of a line.
func (l BillingDetailLine) Key() GroupKey {
	return NormalizeGroupKey(l.Provider, l.ResourceType, l.Currency)
}

// SafeAmount coerces non-finite amounts to zero. Malformed numeric input is
// recovered locally, never propagated as an error.
func (l BillingDetailLine) SafeAmount() float64 {
	return SanitizeAmount(l.Amount)
}

// SanitizeAmount maps NaN and infinities to 0 so they never poison a sum.
func SanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// SummaryRow is one server-side pre-aggregated row: the already computed
// total, snapshot count and share for a (provider, resourceType, currency)
// combination.
type SummaryRow struct {
	Provider      string  `json:"provider"`
	ResourceType  string  `json:"resource_type"`
	Currency      string  `json:"currency,omitempty"`
	TotalAmount   float64 `json:"total_amount"`
	SnapshotCount int     `json:"snapshot_count"`
	SharePercent  float64 `json:"share_percent"`
}

// Key returns the canonical grouping key of a summary row.
func (s SummaryRow) Key() GroupKey {
	return NormalizeGroupKey(s.Provider, s.ResourceType, s.Currency)
}

// ResourceGroup is the aggregate over all detail lines sharing one group
// key, carrying the currently visible line subset after filtering. Groups
// are rebuilt from scratch on every render.
type ResourceGroup struct {
	Provider      string              `json:"provider"`
	ProviderLabel string              `json:"provider_label,omitempty"`
	ResourceType  string              `json:"resource_type"`
	Currency      string              `json:"currency"`
	TotalAmount   float64             `json:"total_amount"`
	SnapshotCount int                 `json:"snapshot_count"`
	SharePercent  float64             `json:"share_percent"`
	TaggedCount   int                 `json:"tagged_count"`
	UntaggedCount int                 `json:"untagged_count"`
	Lines         []BillingDetailLine `json:"lines,omitempty"`
}

// Key returns the canonical grouping key of a group.
func (g ResourceGroup) Key() GroupKey {
	return NormalizeGroupKey(g.Provider, g.ResourceType, g.Currency)
}

// BillingPeriodData bundles what the fetch collaborator returns for one
// period/scope: the flat detail lines plus the pre-aggregated summary rows.
type BillingPeriodData struct {
	Lines       []BillingDetailLine `json:"lines"`
	Summaries   []SummaryRow        `json:"summaries"`
	PeriodStart string              `json:"period_start,omitempty"`
	PeriodEnd   string              `json:"period_end,omitempty"`
}
