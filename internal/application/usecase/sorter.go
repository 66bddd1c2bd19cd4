package usecase

import (
	"sort"
	"strings"

	"github.com/skylens/cloud-spend-dashboard-go/internal/domain/entity"
)

// Group sort keys. Unknown values fall back to SortAmountDesc.
const (
	SortAmountDesc   = "amount_desc"
	SortAmountAsc    = "amount_asc"
	SortUntaggedDesc = "untagged_desc"
	SortTypeAsc      = "type_asc"
	SortTypeDesc     = "type_desc"
	SortProviderAsc  = "provider_asc"
	SortProviderDesc = "provider_desc"
)

// Account sort keys. Unknown values fall back to AccountSortProviderAsc.
const (
	AccountSortProviderAsc  = "provider_asc"
	AccountSortProviderDesc = "provider_desc"
	AccountSortAccountAsc   = "account_asc"
	AccountSortAccountDesc  = "account_desc"
	AccountSortTotalDesc    = "total_desc"
	AccountSortTotalAsc     = "total_asc"
	AccountSortBudgetDesc   = "budget_desc"
	AccountSortBudgetAsc    = "budget_asc"
)

// NormalizeSortKey maps arbitrary input onto a known group sort key.
func NormalizeSortKey(key string) string {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case SortAmountAsc:
		return SortAmountAsc
	case SortUntaggedDesc:
		return SortUntaggedDesc
	case SortTypeAsc:
		return SortTypeAsc
	case SortTypeDesc:
		return SortTypeDesc
	case SortProviderAsc:
		return SortProviderAsc
	case SortProviderDesc:
		return SortProviderDesc
	default:
		return SortAmountDesc
	}
}

// SortGroups orders groups by the selected key. The primary comparison is
// only consulted when its operands differ; ties always fall through the
// fixed chain amount desc, provider asc, resourceType asc, which makes the
// ordering total and repeatable.
func SortGroups(groups []entity.ResourceGroup, key string) {
	key = NormalizeSortKey(key)

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]

		switch key {
		case SortAmountAsc:
			if a.TotalAmount != b.TotalAmount {
				return a.TotalAmount < b.TotalAmount
			}
		case SortUntaggedDesc:
			if a.UntaggedCount != b.UntaggedCount {
				return a.UntaggedCount > b.UntaggedCount
			}
		case SortTypeAsc:
			if a.ResourceType != b.ResourceType {
				return a.ResourceType < b.ResourceType
			}
		case SortTypeDesc:
			if a.ResourceType != b.ResourceType {
				return a.ResourceType > b.ResourceType
			}
		case SortProviderAsc:
			if a.Provider != b.Provider {
				return a.Provider < b.Provider
			}
		case SortProviderDesc:
			if a.Provider != b.Provider {
				return a.Provider > b.Provider
			}
		default:
			if a.TotalAmount != b.TotalAmount {
				return a.TotalAmount > b.TotalAmount
			}
		}

		return lessGroupTie(a, b)
	})
}

func lessGroupTie(a, b entity.ResourceGroup) bool {
	if a.TotalAmount != b.TotalAmount {
		return a.TotalAmount > b.TotalAmount
	}
	if a.Provider != b.Provider {
		return a.Provider < b.Provider
	}
	return a.ResourceType < b.ResourceType
}

// NormalizeAccountSortKey maps arbitrary input onto a known account sort key.
func NormalizeAccountSortKey(key string) string {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case AccountSortProviderDesc:
		return AccountSortProviderDesc
	case AccountSortAccountAsc:
		return AccountSortAccountAsc
	case AccountSortAccountDesc:
		return AccountSortAccountDesc
	case AccountSortTotalDesc:
		return AccountSortTotalDesc
	case AccountSortTotalAsc:
		return AccountSortTotalAsc
	case AccountSortBudgetDesc:
		return AccountSortBudgetDesc
	case AccountSortBudgetAsc:
		return AccountSortBudgetAsc
	default:
		return AccountSortProviderAsc
	}
}

// SortAccounts orders account rows by the selected key. Tie chains depend
// on the primary key family: provider keys break by total desc, then name
// asc, then id asc; account keys break by id asc, then total desc; total
// and budget keys break by provider asc, name asc, id asc.
func SortAccounts(rows []entity.AccountSpendRow, key string) {
	key = NormalizeAccountSortKey(key)

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]

		switch key {
		case AccountSortProviderDesc:
			if a.Provider != b.Provider {
				return a.Provider > b.Provider
			}
			return lessAccountByTotal(a, b)
		case AccountSortAccountAsc:
			if a.AccountName != b.AccountName {
				return a.AccountName < b.AccountName
			}
			return lessAccountByID(a, b)
		case AccountSortAccountDesc:
			if a.AccountName != b.AccountName {
				return a.AccountName > b.AccountName
			}
			return lessAccountByID(a, b)
		case AccountSortTotalDesc:
			if a.TotalAmount != b.TotalAmount {
				return a.TotalAmount > b.TotalAmount
			}
			return lessAccountByName(a, b)
		case AccountSortTotalAsc:
			if a.TotalAmount != b.TotalAmount {
				return a.TotalAmount < b.TotalAmount
			}
			return lessAccountByName(a, b)
		case AccountSortBudgetDesc:
			if a.BudgetAmount != b.BudgetAmount {
				return a.BudgetAmount > b.BudgetAmount
			}
			return lessAccountByName(a, b)
		case AccountSortBudgetAsc:
			if a.BudgetAmount != b.BudgetAmount {
				return a.BudgetAmount < b.BudgetAmount
			}
			return lessAccountByName(a, b)
		default: // provider_asc
			if a.Provider != b.Provider {
				return a.Provider < b.Provider
			}
			return lessAccountByTotal(a, b)
		}
	})
}

func lessAccountByTotal(a, b entity.AccountSpendRow) bool {
	if a.TotalAmount != b.TotalAmount {
		return a.TotalAmount > b.TotalAmount
	}
	if a.AccountName != b.AccountName {
		return a.AccountName < b.AccountName
	}
	return a.AccountID < b.AccountID
}

func lessAccountByName(a, b entity.AccountSpendRow) bool {
	if a.Provider != b.Provider {
		return a.Provider < b.Provider
	}
	if a.AccountName != b.AccountName {
		return a.AccountName < b.AccountName
	}
	return a.AccountID < b.AccountID
}

func lessAccountByID(a, b entity.AccountSpendRow) bool {
	if a.AccountID != b.AccountID {
		return a.AccountID < b.AccountID
	}
	return a.TotalAmount > b.TotalAmount
}
