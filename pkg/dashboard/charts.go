package dashboard

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
)

// BranchBalance is one bar of the balance-by-branch chart.
type BranchBalance struct {
	BranchID     int             `json:"branchId"`
	Label        string          `json:"branch"`
	Balance      decimal.Decimal `json:"balance"`
	BalanceLakhs int64           `json:"balanceLakhs"`
	Accounts     int             `json:"accounts"`
}

// StateCount is one slice of the parties-by-state chart.
type StateCount struct {
	State string `json:"state"`
	Count int    `json:"count"`
}

// BankCount is one bar of the bank distribution chart.
type BankCount struct {
	Bank  string `json:"bank"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TopAccount is one point of the top-accounts-by-balance chart.
type TopAccount struct {
	AcCode       string          `json:"acCode"`
	Name         string          `json:"name"`
	Balance      decimal.Decimal `json:"balance"`
	BalanceLakhs int64           `json:"balanceLakhs"`
}

// ChartSeries bundles every account chart.
type ChartSeries struct {
	BranchBalances    []BranchBalance `json:"branchBalances"`
	StateDistribution []StateCount    `json:"stateDistribution"`
	BankDistribution  []BankCount     `json:"bankDistribution"`
	TopAccounts       []TopAccount    `json:"topAccounts"`
}

// BuildCharts derives every chart series from the filtered accounts.
func BuildCharts(index *Index, filtered []Account) ChartSeries {
	return ChartSeries{
		BranchBalances:    BranchBalances(index, filtered),
		StateDistribution: StateDistribution(index, filtered),
		BankDistribution:  BankDistribution(index, filtered),
		TopAccounts:       TopAccounts(index, filtered),
	}
}

// BranchBalances sums balances per branch, ordered by branch id.
func BranchBalances(index *Index, filtered []Account) []BranchBalance {
	byBranch := make(map[int]*BranchBalance)
	for _, account := range filtered {
		entry, ok := byBranch[account.BranchID]
		if !ok {
			entry = &BranchBalance{
				BranchID: account.BranchID,
				Label:    "Branch " + strconv.Itoa(account.BranchID),
				Balance:  decimal.Zero,
			}
			byBranch[account.BranchID] = entry
		}
		entry.Balance = entry.Balance.Add(index.Balance(account.AcCode))
		entry.Accounts++
	}
	series := make([]BranchBalance, 0, len(byBranch))
	for _, entry := range byBranch {
		entry.BalanceLakhs = toLakhs(entry.Balance)
		series = append(series, *entry)
	}
	slices.SortFunc(series, func(left, right BranchBalance) int {
		return cmp.Compare(left.BranchID, right.BranchID)
	})
	return series
}

// StateDistribution counts accounts per GST state, keeping the top states by count.
func StateDistribution(index *Index, filtered []Account) []StateCount {
	counter := newOrderedCounter()
	for _, account := range filtered {
		state := labelNotRegistered
		if gst, ok := index.GST(account.AcCode); ok {
			state = gst.StateName
		}
		counter.add(state)
	}
	top := counter.top(topStateCount)
	series := make([]StateCount, 0, len(top))
	for _, bucket := range top {
		series = append(series, StateCount{State: bucket.key, Count: bucket.count})
	}
	return series
}

// BankDistribution counts accounts per bank, keeping the top banks by count.
func BankDistribution(index *Index, filtered []Account) []BankCount {
	counter := newOrderedCounter()
	for _, account := range filtered {
		bank := labelNoBankDetails
		if detail, ok := index.Bank(account.AcCode); ok {
			bank = detail.Bank
		}
		counter.add(bank)
	}
	top := counter.top(topBankCount)
	series := make([]BankCount, 0, len(top))
	for _, bucket := range top {
		series = append(series, BankCount{
			Bank:  bucket.key,
			Label: truncateLabel(bucket.key, bankLabelMaxRunes),
			Count: bucket.count,
		})
	}
	return series
}

// TopAccounts returns the highest balances, ties kept in snapshot order.
func TopAccounts(index *Index, filtered []Account) []TopAccount {
	ranked := make([]TopAccount, 0, len(filtered))
	for _, account := range filtered {
		balance := index.Balance(account.AcCode)
		ranked = append(ranked, TopAccount{
			AcCode:       account.AcCode,
			Name:         truncateLabel(account.Name, accountNameMaxRunes),
			Balance:      balance,
			BalanceLakhs: toLakhs(balance),
		})
	}
	slices.SortStableFunc(ranked, func(left, right TopAccount) int {
		return right.Balance.Cmp(left.Balance)
	})
	if len(ranked) > topAccountCount {
		ranked = ranked[:topAccountCount]
	}
	return ranked
}

var roundingHalf = decimal.New(5, -1)

// toLakhs rounds half toward positive infinity, so -1.5 lakh becomes -1.
func toLakhs(amount decimal.Decimal) int64 {
	return amount.Div(decimal.NewFromInt(lakh)).Add(roundingHalf).Floor().IntPart()
}

func truncateLabel(label string, maxRunes int) string {
	runes := []rune(label)
	if len(runes) <= maxRunes {
		return label
	}
	return string(runes[:maxRunes]) + ellipsis
}

type countBucket struct {
	key   string
	count int
}

// orderedCounter counts keys and remembers the order in which they were first seen.
type orderedCounter struct {
	positions map[string]int
	buckets   []countBucket
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{positions: make(map[string]int)}
}

func (counter *orderedCounter) add(key string) {
	position, ok := counter.positions[key]
	if !ok {
		counter.positions[key] = len(counter.buckets)
		counter.buckets = append(counter.buckets, countBucket{key: key, count: 1})
		return
	}
	counter.buckets[position].count++
}

func (counter *orderedCounter) top(limit int) []countBucket {
	ranked := slices.Clone(counter.buckets)
	slices.SortStableFunc(ranked, func(left, right countBucket) int {
		return cmp.Compare(right.count, left.count)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
