package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGroupKey(t *testing.T) {
	tests := []struct {
		name                             string
		provider, resourceType, currency string
		want                             GroupKey
	}{
		{
			name: "lower-cases provider and type, upper-cases currency",
			provider: "AWS", resourceType: "EC2", currency: "usd",
			want: GroupKey{Provider: "aws", ResourceType: "ec2", Currency: "USD"},
		},
		{
			name: "missing currency defaults to USD",
			provider: "gcp", resourceType: "storage", currency: "",
			want: GroupKey{Provider: "gcp", ResourceType: "storage", Currency: "USD"},
		},
		{
			name: "whitespace is trimmed",
			provider: " aws ", resourceType: " s3 ", currency: " eur ",
			want: GroupKey{Provider: "aws", ResourceType: "s3", Currency: "EUR"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeGroupKey(tt.provider, tt.resourceType, tt.currency))
		})
	}
}

func TestKeyEquivalenceAcrossCasing(t *testing.T) {
	a := BillingDetailLine{Provider: "AWS", ResourceType: "EC2", Currency: "usd"}
	b := BillingDetailLine{Provider: "aws", ResourceType: "ec2"}
	assert.Equal(t, a.Key(), b.Key())
}

func TestSanitizeAmount(t *testing.T) {
	assert.Equal(t, 0.0, SanitizeAmount(math.NaN()))
	assert.Equal(t, 0.0, SanitizeAmount(math.Inf(1)))
	assert.Equal(t, 0.0, SanitizeAmount(math.Inf(-1)))
	assert.Equal(t, 42.5, SanitizeAmount(42.5))
	assert.Equal(t, -3.0, SanitizeAmount(-3.0))
}
