package usecase

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

func pipelineLines() []entity.BillingDetailLine {
	return []entity.BillingDetailLine{
		{Provider: "aws", ResourceType: "ec2", Amount: 60, ResourceRef: "i-pay", AccountID: "111", DetailName: "m5.large"},
		{Provider: "aws", ResourceType: "ec2", Amount: 40, ResourceRef: "i-plat", AccountID: "111", DetailName: "t3.micro"},
		{Provider: "aws", ResourceType: "s3", Amount: 100, ResourceRef: "arn:aws:s3:::logs", AccountID: "111", DetailName: "logs"},
	}
}

func pipelineStore() *TagStore {
	store := NewTagStore()
	store.Commit("i-pay", []entity.TagEntry{{Key: "org", Value: "payments"}})
	store.Commit("i-plat", []entity.TagEntry{{Key: "org", Value: "platform"}})
	store.Commit("arn:aws:s3:::logs", nil)
	return store
}

func groupByType(t *testing.T, groups []entity.ResourceGroup, resourceType string) entity.ResourceGroup {
	t.Helper()
	for _, g := range groups {
		if g.ResourceType == resourceType {
			return g
		}
	}
	t.Fatalf("no group with resource type %q", resourceType)
	return entity.ResourceGroup{}
}

func TestRenderNoFiltersKeepsServerNumbers(t *testing.T) {
	summaries := []entity.SummaryRow{
		{Provider: "aws", ResourceType: "ec2", TotalAmount: 105, SnapshotCount: 9, SharePercent: 51.2},
		{Provider: "aws", ResourceType: "s3", TotalAmount: 100, SnapshotCount: 1, SharePercent: 48.8},
	}

	result := Render(RenderInput{
		Lines:     pipelineLines(),
		Summaries: summaries,
		Tags:      pipelineStore(),
	})

	require.False(t, result.Empty)
	require.Len(t, result.Groups, 2)

	ec2 := groupByType(t, result.Groups, "ec2")
	assert.Equal(t, 105.0, ec2.TotalAmount, "server total untouched without filters")
	assert.Equal(t, 51.2, ec2.SharePercent, "server share untouched without filters")
	assert.Equal(t, 2, ec2.SnapshotCount, "count reflects the visible lines when lines exist")
	assert.Equal(t, 2, ec2.TaggedCount)
	assert.Equal(t, 0, ec2.UntaggedCount)

	s3 := groupByType(t, result.Groups, "s3")
	assert.Equal(t, 0, s3.TaggedCount, "zero resolved tags counts as untagged")
	assert.Equal(t, 1, s3.UntaggedCount)
}

func TestRenderSynthesizesSharesWithoutSummaries(t *testing.T) {
	lines := []entity.BillingDetailLine{
		{Provider: "aws", ResourceType: "ec2", Amount: 25},
		{Provider: "aws", ResourceType: "s3", Amount: 75},
	}

	result := Render(RenderInput{Lines: lines})
	require.Len(t, result.Groups, 2)

	assert.InDelta(t, 25.0, groupByType(t, result.Groups, "ec2").SharePercent, 1e-9)
	assert.InDelta(t, 75.0, groupByType(t, result.Groups, "s3").SharePercent, 1e-9)
}

func TestRenderTagFilterRebasesShares(t *testing.T) {
	spec, err := entity.NewTagFilterSpec(entity.TagFilterKeyValue, "org", "payments")
	require.NoError(t, err)

	result := Render(RenderInput{
		Lines:     pipelineLines(),
		TagFilter: spec,
		Tags:      pipelineStore(),
	})

	// Only the ec2 group survives (one matching line); s3 has no match.
	require.Len(t, result.Groups, 1)
	g := result.Groups[0]
	assert.Equal(t, "ec2", g.ResourceType)
	assert.Equal(t, 60.0, g.TotalAmount, "filtered total sums only matching lines")
	assert.Equal(t, 1, g.SnapshotCount)
	assert.InDelta(t, 100.0, g.SharePercent, 1e-9, "shares re-base over surviving groups")
}

func TestRenderShareSumInvariantUnderFilter(t *testing.T) {
	spec, err := entity.NewTagFilterSpec(entity.TagFilterTagged, "", "")
	require.NoError(t, err)

	result := Render(RenderInput{
		Lines:     pipelineLines(),
		TagFilter: spec,
		Tags:      pipelineStore(),
	})

	var sum float64
	for _, g := range result.Groups {
		sum += g.SharePercent
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestRenderSearchDropsNonMatchingGroups(t *testing.T) {
	result := Render(RenderInput{
		Lines:      pipelineLines(),
		SearchText: "m5.large gcp",
		Tags:       pipelineStore(),
	})

	assert.True(t, result.Empty, "every token must match somewhere")
	assert.Empty(t, result.Groups)
}

func TestRenderSearchLineMatchNarrowsLines(t *testing.T) {
	result := Render(RenderInput{
		Lines:      pipelineLines(),
		SearchText: "m5.large",
		Tags:       pipelineStore(),
	})

	require.Len(t, result.Groups, 1)
	g := result.Groups[0]
	assert.Equal(t, "ec2", g.ResourceType)
	require.Len(t, g.Lines, 1)
	assert.Equal(t, "i-pay", g.Lines[0].ResourceRef)
	assert.Equal(t, 60.0, g.TotalAmount)
}

func TestRenderSearchGroupHaystackFallback(t *testing.T) {
	// The currency lives only in the group haystack, not in any line's.
	// No line matches, so the fallback keeps the whole tag-matched set.
	result := Render(RenderInput{
		Lines:      pipelineLines(),
		SearchText: "usd",
		Tags:       pipelineStore(),
	})

	require.Len(t, result.Groups, 2)
	assert.Len(t, groupByType(t, result.Groups, "ec2").Lines, 2)
}

func TestRenderSearchAccountNameFallbackKeepsWholeGroup(t *testing.T) {
	// The account name is only reachable through the haystacks. A line-level
	// match narrows; here every line of the group matches through the name.
	result := Render(RenderInput{
		Lines:        pipelineLines(),
		SearchText:   "prod-account",
		Tags:         pipelineStore(),
		AccountNames: map[string]string{"111": "prod-account"},
	})

	require.Len(t, result.Groups, 2)
}

func TestRenderProviderAndTypeScope(t *testing.T) {
	lines := append(pipelineLines(),
		entity.BillingDetailLine{Provider: "gcp", ResourceType: "storage", Amount: 10})

	result := Render(RenderInput{Lines: lines, Provider: "AWS"})
	require.Len(t, result.Groups, 2, "provider scope is case-insensitive")

	result = Render(RenderInput{Lines: lines, Provider: "aws", ResourceType: "s3"})
	require.Len(t, result.Groups, 1)
	assert.Equal(t, "s3", result.Groups[0].ResourceType)

	result = Render(RenderInput{Lines: lines, Provider: "all", ResourceType: "all"})
	require.Len(t, result.Groups, 3)
}

func TestRenderNonFiniteAmountsContributeZero(t *testing.T) {
	spec, err := entity.NewTagFilterSpec(entity.TagFilterUntagged, "", "")
	require.NoError(t, err)

	lines := []entity.BillingDetailLine{
		{Provider: "aws", ResourceType: "ec2", Amount: math.NaN()},
		{Provider: "aws", ResourceType: "ec2", Amount: math.Inf(1)},
		{Provider: "aws", ResourceType: "ec2", Amount: 5},
	}

	result := Render(RenderInput{Lines: lines, TagFilter: spec})
	require.Len(t, result.Groups, 1)
	assert.Equal(t, 5.0, result.Groups[0].TotalAmount)
	assert.Equal(t, 3, result.Groups[0].SnapshotCount, "non-finite lines still count as items")
}

func TestRenderEmptyInput(t *testing.T) {
	result := Render(RenderInput{})
	assert.True(t, result.Empty)
	assert.Empty(t, result.Groups)
}

func TestRenderIsPure(t *testing.T) {
	lines := pipelineLines()
	store := pipelineStore()

	first := Render(RenderInput{Lines: lines, Tags: store})
	second := Render(RenderInput{Lines: lines, Tags: store})
	assert.Equal(t, first, second, "rendering twice from the same input is identical")
}
