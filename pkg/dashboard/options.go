package dashboard

import (
	"slices"

	"github.com/shopspring/decimal"
)

// FilterOptions lists the selectable criteria values present in a snapshot.
type FilterOptions struct {
	Branches   []int           `json:"branches"`
	Banks      []string        `json:"banks"`
	States     []string        `json:"states"`
	MaxBalance decimal.Decimal `json:"maxBalance"`
}

// BuildFilterOptions collects sorted unique branches, banks and states, and the largest opening balance.
func BuildFilterOptions(snapshot Snapshot) FilterOptions {
	options := FilterOptions{
		Branches:   []int{},
		Banks:      []string{},
		States:     []string{},
		MaxBalance: decimal.Zero,
	}
	branches := make(map[int]struct{})
	for _, account := range snapshot.Accounts {
		if _, seen := branches[account.BranchID]; !seen {
			branches[account.BranchID] = struct{}{}
			options.Branches = append(options.Branches, account.BranchID)
		}
	}
	banks := make(map[string]struct{})
	for _, bank := range snapshot.BankDetails {
		if _, seen := banks[bank.Bank]; !seen && bank.Bank != "" {
			banks[bank.Bank] = struct{}{}
			options.Banks = append(options.Banks, bank.Bank)
		}
	}
	states := make(map[string]struct{})
	for _, gst := range snapshot.GSTDetails {
		if _, seen := states[gst.StateName]; !seen && gst.StateName != "" {
			states[gst.StateName] = struct{}{}
			options.States = append(options.States, gst.StateName)
		}
	}
	for position, balance := range snapshot.OpeningBalances {
		if position == 0 || balance.OpBalance.GreaterThan(options.MaxBalance) {
			options.MaxBalance = balance.OpBalance
		}
	}
	slices.Sort(options.Branches)
	slices.Sort(options.Banks)
	slices.Sort(options.States)
	return options
}
