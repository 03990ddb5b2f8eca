package dashboard

import "github.com/shopspring/decimal"

// KPISummary carries the scalar account metrics shown on the dashboard cards.
type KPISummary struct {
	// TotalDistinctAccounts always counts the unfiltered snapshot.
	TotalDistinctAccounts int             `json:"totalDistinctAccounts"`
	FilteredCount         int             `json:"filteredCount"`
	TotalBalance          decimal.Decimal `json:"totalBalance"`
	AverageBalance        decimal.Decimal `json:"averageBalance"`
	GSTRegistered         int             `json:"gstRegistered"`
	GSTCoverageRatio      float64         `json:"gstCoverageRatio"`
	MissingPAN            int             `json:"missingPan"`
	PANComplianceRatio    float64         `json:"panComplianceRatio"`
	BranchCount           int             `json:"branchCount"`
}

// ComputeKPIs aggregates metrics over the filtered accounts.
func ComputeKPIs(index *Index, filtered []Account) KPISummary {
	summary := KPISummary{
		TotalDistinctAccounts: index.DistinctAccounts(),
		FilteredCount:         len(filtered),
		TotalBalance:          decimal.Zero,
		AverageBalance:        decimal.Zero,
	}
	branches := make(map[int]struct{})
	for _, account := range filtered {
		summary.TotalBalance = summary.TotalBalance.Add(index.Balance(account.AcCode))
		if _, ok := index.GST(account.AcCode); ok {
			summary.GSTRegistered++
		}
		if !account.HasPAN() {
			summary.MissingPAN++
		}
		branches[account.BranchID] = struct{}{}
	}
	summary.BranchCount = len(branches)
	if summary.FilteredCount > 0 {
		summary.AverageBalance = summary.TotalBalance.Div(decimal.NewFromInt(int64(summary.FilteredCount)))
	}
	summary.GSTCoverageRatio = ratio(summary.GSTRegistered, summary.FilteredCount)
	summary.PANComplianceRatio = ratio(summary.FilteredCount-summary.MissingPAN, summary.FilteredCount)
	return summary
}

// ratio returns part/whole, or 0 when whole is not positive.
func ratio(part int, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole)
}

func percent(part int, whole int) float64 {
	return ratio(part, whole) * percentScale
}
