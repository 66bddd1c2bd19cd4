package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"web", "prod"}, Tokenize("  Web   PROD "))
	assert.Empty(t, Tokenize("   "))
	assert.Empty(t, Tokenize(""))

	// Tokenizing the joined tokens again yields the same tokens.
	tokens := Tokenize("Alpha  Beta")
	assert.Equal(t, tokens, Tokenize("alpha beta"))
}

func TestMatchesAllTokens(t *testing.T) {
	haystack := "aws Amazon Web Services ec2 usage 123456789012 org=payments"

	tests := []struct {
		name   string
		tokens []string
		want   bool
	}{
		{"no tokens matches everything", nil, true},
		{"single substring", []string{"ec2"}, true},
		{"case folded", []string{"AMAZON"}, true},
		{"all tokens required", []string{"ec2", "payments"}, true},
		{"one miss fails", []string{"ec2", "gcp"}, false},
		{"tag facet", []string{"org=payments"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesAllTokens(haystack, tt.tokens))
		})
	}
}

func TestLineHaystackIncludesTagsAndNames(t *testing.T) {
	store := NewTagStore()
	store.Commit("i-abc", []entity.TagEntry{{Key: "org", Value: "payments"}})

	line := entity.BillingDetailLine{
		Provider:     "aws",
		ResourceType: "ec2",
		ResourceRef:  "i-abc",
		AccountID:    "123456789012",
		DetailName:   "m5.large",
		ItemType:     "usage",
	}

	h := LineHaystack(line, store, "Amazon Web Services", "prod-account")

	assert.True(t, MatchesAllTokens(h, []string{"amazon", "m5.large"}))
	assert.True(t, MatchesAllTokens(h, []string{"org=payments"}))
	assert.True(t, MatchesAllTokens(h, []string{"prod-account"}))
	assert.False(t, MatchesAllTokens(h, []string{"gcp"}))
}

func TestGroupHaystack(t *testing.T) {
	key := entity.GroupKey{Provider: "aws", ResourceType: "ec2", Currency: "USD"}
	matched := []entity.BillingDetailLine{
		{AccountID: "123456789012"},
		{AccountID: ""},
	}
	names := map[string]string{"123456789012": "prod-account"}

	h := GroupHaystack(key, "Amazon Web Services", matched, names)

	assert.True(t, MatchesAllTokens(h, []string{"amazon", "usd"}))
	assert.True(t, MatchesAllTokens(h, []string{"prod-account"}))
	assert.False(t, MatchesAllTokens(h, []string{"m5.large"}), "line detail facets stay out of the group haystack")
}
