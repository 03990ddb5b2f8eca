package dashboard

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Filter returns the accounts satisfying every criterion, in snapshot order.
func Filter(index *Index, criteria FilterCriteria) []Account {
	var searchLower string
	if criteria.SearchTerm != "" {
		searchLower = strings.ToLower(criteria.SearchTerm)
	}
	filtered := make([]Account, 0, len(index.snapshot.Accounts))
	for _, account := range index.snapshot.Accounts {
		if matchesCriteria(index, account, criteria, searchLower) {
			filtered = append(filtered, account)
		}
	}
	return filtered
}

func matchesCriteria(index *Index, account Account, criteria FilterCriteria, searchLower string) bool {
	if criteria.BranchID != nil && account.BranchID != *criteria.BranchID {
		return false
	}
	if isNarrowed(criteria.BankName) {
		bank, ok := index.Bank(account.AcCode)
		if !ok || bank.Bank != criteria.BankName {
			return false
		}
	}
	if isNarrowed(criteria.StateName) {
		gst, ok := index.GST(account.AcCode)
		if !ok || gst.StateName != criteria.StateName {
			return false
		}
	}
	balance := index.Balance(account.AcCode)
	if !criteria.BalanceRange.Contains(balance) {
		return false
	}
	if !matchesStatus(criteria.AccountStatus, balance) {
		return false
	}
	if searchLower != "" && !matchesSearch(index, account, searchLower) {
		return false
	}
	return true
}

func matchesStatus(status AccountStatus, balance decimal.Decimal) bool {
	switch status {
	case AccountStatusActive:
		return balance.IsPositive()
	case AccountStatusInactive:
		return !balance.IsPositive()
	default:
		return true
	}
}

func matchesSearch(index *Index, account Account, searchLower string) bool {
	if account.PAN != nil && strings.Contains(strings.ToLower(*account.PAN), searchLower) {
		return true
	}
	if strings.Contains(strings.ToLower(account.Name), searchLower) {
		return true
	}
	gst, ok := index.GST(account.AcCode)
	return ok && strings.Contains(strings.ToLower(gst.GSTNo), searchLower)
}

func isNarrowed(selection string) bool {
	return selection != "" && selection != selectAll
}

// ActiveFilterCount counts the criteria that narrow the account list.
// The balance range counts as active when it cuts into [0, maxBalance].
func ActiveFilterCount(criteria FilterCriteria, maxBalance decimal.Decimal) int {
	count := 0
	if criteria.BranchID != nil {
		count++
	}
	if isNarrowed(criteria.BankName) {
		count++
	}
	if isNarrowed(criteria.StateName) {
		count++
	}
	if (criteria.BalanceRange.Min.Valid && criteria.BalanceRange.Min.Decimal.IsPositive()) ||
		(criteria.BalanceRange.Max.Valid && criteria.BalanceRange.Max.Decimal.LessThan(maxBalance)) {
		count++
	}
	if criteria.SearchTerm != "" {
		count++
	}
	if isNarrowed(criteria.Year) {
		count++
	}
	if criteria.AccountStatus != "" && criteria.AccountStatus != AccountStatusAll {
		count++
	}
	return count
}

// UnappliedFilters names the criteria that are accepted but have no effect on the result.
// The snapshot carries no transaction or fiscal-year date, so a year selection is a no-op.
func UnappliedFilters(criteria FilterCriteria) []string {
	unapplied := []string{}
	if isNarrowed(criteria.Year) {
		unapplied = append(unapplied, "year")
	}
	return unapplied
}
