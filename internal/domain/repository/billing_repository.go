package repository

import (
	"context"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

// BillingRepository is the fetch collaborator: it supplies raw detail
// lines, pre-aggregated summary rows, account metadata and server-side
// budget rows for a period. Implementations exist for AWS and for file
// based provider dumps.
type BillingRepository interface {
	// Profile Operations
	GetProfiles() []string
	GetAccountID(ctx context.Context, profile string) (string, error)

	// Billing Operations
	GetBillingPeriod(ctx context.Context, profile string, year int, month int) (entity.BillingPeriodData, error)
	GetAccountNames(ctx context.Context, profile string) (map[string]string, error)

	// Budget Operations
	GetBudgets(ctx context.Context, profile string, year int) ([]entity.AccountBudgetRow, error)
}

// TagResolver resolves the tag sets of resource references in batches.
// A reference that cannot be resolved is simply absent from the result;
// the pipeline treats it as "no tags".
type TagResolver interface {
	ResolveTags(ctx context.Context, profile string, refs []string) (map[string][]entity.TagEntry, error)
}
