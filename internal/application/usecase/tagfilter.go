package usecase

import (
	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

// MatchesTagFilter classifies a detail line against a tag filter spec using
// the store's resolved tags. An unresolved reference behaves exactly like a
// resource with no tags, so the pipeline stays correct while the resolver
// is still catching up.
func MatchesTagFilter(line entity.BillingDetailLine, spec entity.TagFilterSpec, store *TagStore) bool {
	switch spec.Mode {
	case "", entity.TagFilterAll:
		return true
	case entity.TagFilterTagged:
		return isTagged(line, store)
	case entity.TagFilterUntagged:
		return !isTagged(line, store)
	case entity.TagFilterKeyNull:
		return matchesKeyNull(line, spec.Key, store)
	case entity.TagFilterKeyValue:
		return matchesKeyValue(line, spec.Key, spec.Value, store)
	default:
		// Unknown modes fall back to the documented default.
		return true
	}
}

// isTagged reports whether a line points at a resource with at least one
// resolved tag entry. Lines without a resource reference are never tagged;
// tagged and untagged therefore partition every line set.
func isTagged(line entity.BillingDetailLine, store *TagStore) bool {
	if line.ResourceRef == "" {
		return false
	}
	tags, ok := store.Lookup(line.ResourceRef)
	return ok && len(tags) > 0
}

// matchesKeyNull holds when the line has no tags at all, has tags but none
// under the key, or only empty/"null" values under the key. Any entry under
// the key carrying a real value disproves it.
func matchesKeyNull(line entity.BillingDetailLine, key string, store *TagStore) bool {
	tags, ok := store.Lookup(line.ResourceRef)
	if !ok || len(tags) == 0 {
		return true
	}
	norm := entity.NormalizeTagEntry(key, "")
	for _, t := range tags {
		if t.Key == norm.Key && t.HasValue() {
			return false
		}
	}
	return true
}

// matchesKeyValue holds when an entry exists with the given key and value.
// A line with zero entries (or no resource reference) never matches.
func matchesKeyValue(line entity.BillingDetailLine, key, value string, store *TagStore) bool {
	if line.ResourceRef == "" {
		return false
	}
	tags, ok := store.Lookup(line.ResourceRef)
	if !ok {
		return false
	}
	want := entity.NormalizeTagEntry(key, value)
	for _, t := range tags {
		if t.Key == want.Key && t.Value == want.Value {
			return true
		}
	}
	return false
}

// filterByTagSpec returns the subset of lines matching the spec. The all
// spec copies the slice as-is so callers can rely on owning the result.
func filterByTagSpec(lines []entity.BillingDetailLine, spec entity.TagFilterSpec, store *TagStore) []entity.BillingDetailLine {
	if !spec.IsActive() {
		out := make([]entity.BillingDetailLine, len(lines))
		copy(out, lines)
		return out
	}
	var out []entity.BillingDetailLine
	for _, l := range lines {
		if MatchesTagFilter(l, spec, store) {
			out = append(out, l)
		}
	}
	return out
}
