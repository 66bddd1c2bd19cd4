package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

func sorterGroups() []entity.ResourceGroup {
	return []entity.ResourceGroup{
		{Provider: "gcp", ResourceType: "storage", TotalAmount: 30, UntaggedCount: 5},
		{Provider: "aws", ResourceType: "ec2", TotalAmount: 100, UntaggedCount: 1},
		{Provider: "aws", ResourceType: "s3", TotalAmount: 30, UntaggedCount: 3},
		{Provider: "aws", ResourceType: "rds", TotalAmount: 30, UntaggedCount: 3},
	}
}

func typesOf(groups []entity.ResourceGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.ResourceType
	}
	return out
}

func TestNormalizeSortKey(t *testing.T) {
	assert.Equal(t, SortAmountDesc, NormalizeSortKey(""))
	assert.Equal(t, SortAmountDesc, NormalizeSortKey("bogus"))
	assert.Equal(t, SortTypeAsc, NormalizeSortKey(" TYPE_ASC "))
}

func TestSortGroupsDefaultAmountDesc(t *testing.T) {
	groups := sorterGroups()
	SortGroups(groups, "")

	// 100 first; the three 30s tie-break provider asc, then type asc.
	assert.Equal(t, []string{"ec2", "rds", "s3", "storage"}, typesOf(groups))
}

func TestSortGroupsUntaggedDesc(t *testing.T) {
	groups := sorterGroups()
	SortGroups(groups, SortUntaggedDesc)

	// storage has 5 untagged; rds and s3 tie at 3 and fall through the
	// amount/provider/type chain; ec2 last with 1.
	assert.Equal(t, []string{"storage", "rds", "s3", "ec2"}, typesOf(groups))
}

func TestSortGroupsTypeAsc(t *testing.T) {
	groups := sorterGroups()
	SortGroups(groups, SortTypeAsc)
	assert.Equal(t, []string{"ec2", "rds", "s3", "storage"}, typesOf(groups))
}

func TestSortGroupsProviderDesc(t *testing.T) {
	groups := sorterGroups()
	SortGroups(groups, SortProviderDesc)

	// gcp before aws; within aws, amount desc then type asc.
	assert.Equal(t, []string{"storage", "ec2", "rds", "s3"}, typesOf(groups))
}

func TestSortGroupsDeterministic(t *testing.T) {
	for _, key := range []string{SortAmountDesc, SortAmountAsc, SortUntaggedDesc, SortTypeAsc, SortProviderAsc} {
		a := sorterGroups()
		b := sorterGroups()
		SortGroups(a, key)
		SortGroups(b, key)
		assert.Equal(t, a, b, "key %s must be stable across runs", key)
	}
}

func sorterAccounts() []entity.AccountSpendRow {
	return []entity.AccountSpendRow{
		{Provider: "gcp", AccountID: "p-1", AccountName: "analytics", TotalAmount: 50, BudgetAmount: 40},
		{Provider: "aws", AccountID: "222", AccountName: "staging", TotalAmount: 10, BudgetAmount: 100},
		{Provider: "aws", AccountID: "111", AccountName: "prod", TotalAmount: 90, BudgetAmount: 80},
		{Provider: "aws", AccountID: "333", AccountName: "dev", TotalAmount: 90, BudgetAmount: 0},
	}
}

func idsOf(rows []entity.AccountSpendRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.AccountID
	}
	return out
}

func TestNormalizeAccountSortKey(t *testing.T) {
	assert.Equal(t, AccountSortProviderAsc, NormalizeAccountSortKey(""))
	assert.Equal(t, AccountSortProviderAsc, NormalizeAccountSortKey("bogus"))
	assert.Equal(t, AccountSortTotalDesc, NormalizeAccountSortKey("Total_Desc"))
}

func TestSortAccountsProviderAscDefault(t *testing.T) {
	rows := sorterAccounts()
	SortAccounts(rows, "")

	// aws before gcp; within aws total desc, name asc on the 90 tie.
	assert.Equal(t, []string{"333", "111", "222", "p-1"}, idsOf(rows))
}

func TestSortAccountsTotalDesc(t *testing.T) {
	rows := sorterAccounts()
	SortAccounts(rows, AccountSortTotalDesc)

	// 90s first, tie broken provider asc then name asc (dev before prod).
	assert.Equal(t, []string{"333", "111", "p-1", "222"}, idsOf(rows))
}

func TestSortAccountsAccountAsc(t *testing.T) {
	rows := sorterAccounts()
	SortAccounts(rows, AccountSortAccountAsc)
	assert.Equal(t, []string{"p-1", "333", "111", "222"}, idsOf(rows))
}

func TestSortAccountsBudgetAsc(t *testing.T) {
	rows := sorterAccounts()
	SortAccounts(rows, AccountSortBudgetAsc)
	assert.Equal(t, []string{"333", "p-1", "111", "222"}, idsOf(rows))
}
