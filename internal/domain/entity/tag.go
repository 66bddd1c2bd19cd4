package entity

import (
	"fmt"
	"strings"
)

// TagEntry is one resolved (key, value) pair for a resource reference.
// Keys and values are stored lower-case; comparisons are therefore plain
// string equality after NormalizeTagEntry.
type TagEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NormalizeTagEntry lower-cases and trims a tag pair once, at ingestion,
// instead of re-folding case at every comparison site.
func NormalizeTagEntry(key, value string) TagEntry {
	return TagEntry{
		Key:   strings.ToLower(strings.TrimSpace(key)),
		Value: strings.ToLower(strings.TrimSpace(value)),
	}
}

// HasValue reports whether the entry carries a real value. An empty value
// and the literal string "null" both count as "no value".
func (e TagEntry) HasValue() bool {
	return e.Value != "" && e.Value != "null"
}

// TagFilterMode enumerates the five tag predicate modes.
type TagFilterMode string

const (
	TagFilterAll      TagFilterMode = "all"
	TagFilterTagged   TagFilterMode = "tagged"
	TagFilterUntagged TagFilterMode = "untagged"
	TagFilterKeyNull  TagFilterMode = "null"
	TagFilterKeyValue TagFilterMode = "kv"
)

// TagFilterSpec is the tagged union classifying detail lines by their
// resolved tags. Key is set for the null and kv modes, Value only for kv.
// Key and Value are held lower-case.
type TagFilterSpec struct {
	Mode  TagFilterMode `json:"mode"`
	Key   string        `json:"key,omitempty"`
	Value string        `json:"value,omitempty"`
}

// NewTagFilterSpec validates the call contract for a filter spec. A missing
// key (or value for kv) is a programming error on the caller's side, not a
// data error, and is the one place the engine refuses a call.
func NewTagFilterSpec(mode TagFilterMode, key, value string) (TagFilterSpec, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.ToLower(strings.TrimSpace(value))

	switch mode {
	case TagFilterAll, TagFilterTagged, TagFilterUntagged:
		return TagFilterSpec{Mode: mode}, nil
	case TagFilterKeyNull:
		if key == "" {
			return TagFilterSpec{}, fmt.Errorf("tag filter %q requires a key", mode)
		}
		return TagFilterSpec{Mode: mode, Key: key}, nil
	case TagFilterKeyValue:
		if key == "" || value == "" {
			return TagFilterSpec{}, fmt.Errorf("tag filter %q requires a key and a value", mode)
		}
		return TagFilterSpec{Mode: mode, Key: key, Value: value}, nil
	default:
		return TagFilterSpec{}, fmt.Errorf("unknown tag filter mode %q", mode)
	}
}

// AllTagFilter is the neutral spec that matches every line.
func AllTagFilter() TagFilterSpec {
	return TagFilterSpec{Mode: TagFilterAll}
}

// IsActive reports whether the spec narrows anything. Only an active spec
// triggers share re-basing in the pipeline.
func (s TagFilterSpec) IsActive() bool {
	return s.Mode != "" && s.Mode != TagFilterAll
}
