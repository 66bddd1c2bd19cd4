package usecase

import (
	"strings"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

// Tokenize splits search text into lower-case whitespace-delimited tokens,
// dropping empties. Tokenizing an already tokenized string is a no-op.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// MatchesAllTokens requires every token to be a substring of the
// lower-cased haystack. AND semantics, not phrase matching. No tokens
// means everything matches.
func MatchesAllTokens(haystack string, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}
	h := strings.ToLower(haystack)
	for _, tok := range tokens {
		if !strings.Contains(h, tok) {
			return false
		}
	}
	return true
}

// LineHaystack concatenates every searchable facet of a detail line:
// provider code and display label, resource type, detail name, item and
// section type, invoice id/date, coverage dates, account id, resolved
// account name, and a flattened key=value rendering of the resolved tags.
func LineHaystack(line entity.BillingDetailLine, store *TagStore, providerLabel, accountName string) string {
	var b strings.Builder
	for _, part := range []string{
		line.Provider, providerLabel, line.ResourceType, line.DetailName,
		line.ItemType, line.SectionType, line.InvoiceID, line.InvoiceDate,
		line.CoverageStart, line.CoverageEnd, line.AccountID, accountName,
	} {
		if part == "" {
			continue
		}
		b.WriteString(part)
		b.WriteByte(' ')
	}
	if tags, ok := store.Lookup(line.ResourceRef); ok {
		for _, t := range tags {
			b.WriteString(t.Key)
			b.WriteByte('=')
			b.WriteString(t.Value)
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// GroupHaystack concatenates the group-level facets: provider code and
// display label, resource type, currency, and the account id/name of every
// tag-matched detail line.
func GroupHaystack(key entity.GroupKey, providerLabel string, matched []entity.BillingDetailLine, accountNames map[string]string) string {
	var b strings.Builder
	for _, part := range []string{key.Provider, providerLabel, key.ResourceType, key.Currency} {
		if part == "" {
			continue
		}
		b.WriteString(part)
		b.WriteByte(' ')
	}
	for _, l := range matched {
		if l.AccountID == "" {
			continue
		}
		b.WriteString(l.AccountID)
		b.WriteByte(' ')
		if name := accountNames[l.AccountID]; name != "" {
			b.WriteString(name)
			b.WriteByte(' ')
		}
	}
	return b.String()
}
