package prefs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

func TestEncodeTagFilter(t *testing.T) {
	tests := []struct {
		name string
		spec entity.TagFilterSpec
		want string
	}{
		{"zero spec", entity.TagFilterSpec{}, "all"},
		{"all", entity.AllTagFilter(), "all"},
		{"tagged", entity.TagFilterSpec{Mode: entity.TagFilterTagged}, "tagged"},
		{"untagged", entity.TagFilterSpec{Mode: entity.TagFilterUntagged}, "untagged"},
		{"null", entity.TagFilterSpec{Mode: entity.TagFilterKeyNull, Key: "org"}, "null:org"},
		{"kv", entity.TagFilterSpec{Mode: entity.TagFilterKeyValue, Key: "org", Value: "payments"}, "kv:org:payments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeTagFilter(tt.spec))
		})
	}
}

func TestParseTagFilter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  entity.TagFilterSpec
	}{
		{"empty", "", entity.AllTagFilter()},
		{"all", "all", entity.AllTagFilter()},
		{"tagged upper-case", "TAGGED", entity.TagFilterSpec{Mode: entity.TagFilterTagged}},
		{"untagged", "untagged", entity.TagFilterSpec{Mode: entity.TagFilterUntagged}},
		{"null with key", "null:org", entity.TagFilterSpec{Mode: entity.TagFilterKeyNull, Key: "org"}},
		{"kv", "kv:org:payments", entity.TagFilterSpec{Mode: entity.TagFilterKeyValue, Key: "org", Value: "payments"}},
		{"kv value keeps extra colons", "kv:arn:aws:s3", entity.TagFilterSpec{Mode: entity.TagFilterKeyValue, Key: "arn", Value: "aws:s3"}},
		{"malformed null degrades", "null:", entity.AllTagFilter()},
		{"malformed kv degrades", "kv:org", entity.AllTagFilter()},
		{"garbage degrades", "whatever", entity.AllTagFilter()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTagFilter(tt.input))
		})
	}
}

func TestCodecRoundTrip(t *testing.T) {
	specs := []entity.TagFilterSpec{
		entity.AllTagFilter(),
		{Mode: entity.TagFilterTagged},
		{Mode: entity.TagFilterUntagged},
		{Mode: entity.TagFilterKeyNull, Key: "org"},
		{Mode: entity.TagFilterKeyValue, Key: "org", Value: "payments"},
	}
	for _, spec := range specs {
		assert.Equal(t, spec, ParseTagFilter(EncodeTagFilter(spec)))
	}
}
