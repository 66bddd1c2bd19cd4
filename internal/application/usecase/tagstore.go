package usecase

import (
	"sort"
	"sync"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

// TagStore is the session-scoped cache mapping a resource reference to its
// resolved tag set. It is populated by the external resolver and read by
// everything downstream. Commit is idempotent: resolving the same resource
// twice never changes the committed entries.
type TagStore struct {
	mu      sync.RWMutex
	entries map[string][]entity.TagEntry
}

// NewTagStore creates an empty tag store.
func NewTagStore() *TagStore {
	return &TagStore{
		entries: make(map[string][]entity.TagEntry),
	}
}

// Commit stores the resolved tags of a resource reference. Tags are
// case-normalized once here, at ingestion. A reference that was already
// committed keeps its original entries; entries with empty keys are
// dropped. Committing with an empty tag list still marks the reference as
// resolved (a resource can legitimately have zero tags).
func (s *TagStore) Commit(ref string, tags []entity.TagEntry) {
	if ref == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[ref]; ok {
		return
	}

	normalized := make([]entity.TagEntry, 0, len(tags))
	for _, t := range tags {
		e := entity.NormalizeTagEntry(t.Key, t.Value)
		if e.Key == "" {
			continue
		}
		normalized = append(normalized, e)
	}
	s.entries[ref] = normalized
}

// Lookup returns the committed tag entries of a reference. The second
// return value reports whether the reference has been resolved at all;
// unresolved references behave as "no tags" downstream.
func (s *TagStore) Lookup(ref string) ([]entity.TagEntry, bool) {
	if ref == "" {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	tags, ok := s.entries[ref]
	return tags, ok
}

// Value returns the committed value for a tag key on a reference, or ""
// when the reference or key is unknown. Key lookup is done against the
// normalized entries, so callers pass any casing.
func (s *TagStore) Value(ref, key string) string {
	tags, ok := s.Lookup(ref)
	if !ok {
		return ""
	}
	norm := entity.NormalizeTagEntry(key, "")
	for _, t := range tags {
		if t.Key == norm.Key {
			return t.Value
		}
	}
	return ""
}

// Pending returns the distinct resource references of the given lines that
// have not been resolved yet, sorted for deterministic batching.
func (s *TagStore) Pending(lines []entity.BillingDetailLine) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var refs []string
	for _, l := range lines {
		if l.ResourceRef == "" || seen[l.ResourceRef] {
			continue
		}
		seen[l.ResourceRef] = true
		if _, ok := s.entries[l.ResourceRef]; !ok {
			refs = append(refs, l.ResourceRef)
		}
	}
	sort.Strings(refs)
	return refs
}

// Len returns the number of resolved references.
func (s *TagStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
