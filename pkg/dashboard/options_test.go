package dashboard

import (
	"slices"
	"testing"

	"github.com/shopspring/decimal"
)

func TestBuildFilterOptions(test *testing.T) {
	test.Parallel()
	options := BuildFilterOptions(accountFixture())
	if !slices.Equal(options.Branches, []int{1, 2, 3}) {
		test.Fatalf("unexpected branches %v", options.Branches)
	}
	if !slices.Equal(options.Banks, []string{"HDFC Bank", "State Bank of India"}) {
		test.Fatalf("unexpected banks %v", options.Banks)
	}
	if !slices.Equal(options.States, []string{"Karnataka", "Maharashtra"}) {
		test.Fatalf("unexpected states %v", options.States)
	}
	if !options.MaxBalance.Equal(decimal.NewFromInt(1200000)) {
		test.Fatalf("unexpected max balance %s", options.MaxBalance)
	}
}

func TestBuildFilterOptionsEmptySnapshot(test *testing.T) {
	test.Parallel()
	options := BuildFilterOptions(Snapshot{})
	if options.Branches == nil || options.Banks == nil || options.States == nil {
		test.Fatalf("expected empty lists, got %+v", options)
	}
	if !options.MaxBalance.IsZero() {
		test.Fatalf("expected zero max balance, got %s", options.MaxBalance)
	}
}
