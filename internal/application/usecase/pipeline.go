package usecase

import (
	"strings"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

// ScopeAll is the selector value that leaves a dimension unfiltered.
const ScopeAll = "all"

// RenderInput is everything one render cycle depends on. A render is a
// pure function of this input: no aggregation state is carried between
// calls and the returned groups are freshly built every time.
type RenderInput struct {
	Lines     []entity.BillingDetailLine
	Summaries []entity.SummaryRow

	Provider     string // provider code or "all"
	ResourceType string // resource type or "all"
	TagFilter    entity.TagFilterSpec
	SearchText   string
	SortKey      string

	Tags           *TagStore // may be partially populated
	ProviderLabels map[string]string
	AccountNames   map[string]string
}

// RenderResult is the engine output handed to presentation: the ordered
// groups with their visible line subsets. Empty flags the empty state after
// filtering; it is a signal, not an error.
type RenderResult struct {
	Groups []entity.ResourceGroup
	Empty  bool
}

// Render runs the full pipeline: provider/type filter, tag predicate,
// search, re-aggregation, share re-basing and sorting.
func Render(in RenderInput) RenderResult {
	store := in.Tags
	if store == nil {
		store = NewTagStore()
	}

	byKey := GroupLines(in.Lines)
	summaries := MergeSummaries(in.Summaries, byKey)

	provider := normalizeScope(in.Provider)
	resourceType := normalizeScope(in.ResourceType)
	tokens := Tokenize(in.SearchText)
	filterActive := in.TagFilter.IsActive() || len(tokens) > 0

	var groups []entity.ResourceGroup
	for _, summary := range summaries {
		key := summary.Key()

		if provider != ScopeAll && key.Provider != provider {
			continue
		}
		if resourceType != ScopeAll && key.ResourceType != resourceType {
			continue
		}

		lines := byKey[key]
		tagMatched := filterByTagSpec(lines, in.TagFilter, store)

		// A group whose lines all fail the predicate disappears. A group
		// with no lines at all has nothing to disprove, so only the
		// neutral spec keeps it.
		if len(tagMatched) == 0 && in.TagFilter.IsActive() {
			continue
		}

		label := in.ProviderLabels[key.Provider]
		visible, ok := applySearch(key, label, tagMatched, tokens, store, in.AccountNames)
		if !ok {
			continue
		}

		group := entity.ResourceGroup{
			Provider:      key.Provider,
			ProviderLabel: label,
			ResourceType:  key.ResourceType,
			Currency:      key.Currency,
			SharePercent:  summary.SharePercent,
			Lines:         visible,
		}

		if !filterActive {
			group.TotalAmount = summary.TotalAmount
			if len(lines) == 0 {
				group.SnapshotCount = summary.SnapshotCount
			} else {
				group.SnapshotCount = len(visible)
			}
		} else {
			var total float64
			for _, l := range visible {
				total += l.SafeAmount()
			}
			group.TotalAmount = total
			group.SnapshotCount = len(visible)
		}

		for _, l := range visible {
			if isTagged(l, store) {
				group.TaggedCount++
			} else {
				group.UntaggedCount++
			}
		}

		groups = append(groups, group)
	}

	// Shares are re-based against the surviving groups only when a tag
	// filter or search narrowed the view; otherwise the server-provided
	// share stays untouched.
	if filterActive {
		rebaseShares(groups)
	}

	SortGroups(groups, in.SortKey)

	return RenderResult{Groups: groups, Empty: len(groups) == 0}
}

// applySearch computes the visible line subset of a group under the search
// tokens. Lines that match win; failing that, a match on the group's own
// haystack keeps every tag-matched line visible; failing both, the group is
// dropped. No tokens keeps the tag-matched set unchanged.
func applySearch(
	key entity.GroupKey,
	providerLabel string,
	tagMatched []entity.BillingDetailLine,
	tokens []string,
	store *TagStore,
	accountNames map[string]string,
) ([]entity.BillingDetailLine, bool) {
	if len(tokens) == 0 {
		return tagMatched, true
	}

	var lineMatched []entity.BillingDetailLine
	for _, l := range tagMatched {
		if MatchesAllTokens(LineHaystack(l, store, providerLabel, accountNames[l.AccountID]), tokens) {
			lineMatched = append(lineMatched, l)
		}
	}
	if len(lineMatched) > 0 {
		return lineMatched, true
	}

	if MatchesAllTokens(GroupHaystack(key, providerLabel, tagMatched, accountNames), tokens) {
		return tagMatched, true
	}

	return nil, false
}

// rebaseShares recomputes every group's share against the sum of the
// surviving groups within its (provider, currency) partition.
func rebaseShares(groups []entity.ResourceGroup) {
	denominators := make(map[[2]string]float64)
	for _, g := range groups {
		denominators[[2]string{g.Provider, g.Currency}] += g.TotalAmount
	}
	for i := range groups {
		denom := denominators[[2]string{groups[i].Provider, groups[i].Currency}]
		if denom == 0 {
			groups[i].SharePercent = 0
			continue
		}
		groups[i].SharePercent = groups[i].TotalAmount / denom * 100
	}
}

func normalizeScope(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ScopeAll
	}
	return s
}
