package prefs

import (
	"strings"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

// The canonical string form of a tag filter spec, used on the CLI flag and
// in the prefs file:
//
//	all | tagged | untagged | null:<key> | kv:<key>:<value>
//
// Values may themselves contain ':'; only the first two separators split.

// EncodeTagFilter renders a spec in canonical form. A zero spec encodes as
// "all".
func EncodeTagFilter(spec entity.TagFilterSpec) string {
	switch spec.Mode {
	case entity.TagFilterTagged:
		return "tagged"
	case entity.TagFilterUntagged:
		return "untagged"
	case entity.TagFilterKeyNull:
		return "null:" + spec.Key
	case entity.TagFilterKeyValue:
		return "kv:" + spec.Key + ":" + spec.Value
	default:
		return "all"
	}
}

// ParseTagFilter reads the canonical form back into a spec. Unknown or
// malformed input degrades to the neutral "all" spec so a stale prefs file
// never blocks startup.
func ParseTagFilter(s string) entity.TagFilterSpec {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "all":
		return entity.AllTagFilter()
	case "tagged":
		return entity.TagFilterSpec{Mode: entity.TagFilterTagged}
	case "untagged":
		return entity.TagFilterSpec{Mode: entity.TagFilterUntagged}
	}

	parts := strings.SplitN(s, ":", 3)
	switch parts[0] {
	case "null":
		if len(parts) >= 2 {
			if spec, err := entity.NewTagFilterSpec(entity.TagFilterKeyNull, parts[1], ""); err == nil {
				return spec
			}
		}
	case "kv":
		if len(parts) == 3 {
			if spec, err := entity.NewTagFilterSpec(entity.TagFilterKeyValue, parts[1], parts[2]); err == nil {
				return spec
			}
		}
	}
	return entity.AllTagFilter()
}
