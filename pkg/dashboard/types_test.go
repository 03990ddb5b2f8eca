package dashboard

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewFilterCriteriaDefaults(test *testing.T) {
	test.Parallel()
	criteria := mustCriteria(test, FilterInput{SearchTerm: "  kaveri "})
	if criteria.BranchID != nil {
		test.Fatalf("expected every branch, got %d", *criteria.BranchID)
	}
	if criteria.BankName != selectAll || criteria.StateName != selectAll || criteria.Year != selectAll {
		test.Fatalf("expected all selections, got %+v", criteria)
	}
	if criteria.AccountStatus != AccountStatusAll {
		test.Fatalf("expected all status, got %s", criteria.AccountStatus)
	}
	if criteria.BalanceRange.Min.Valid || criteria.BalanceRange.Max.Valid {
		test.Fatalf("expected open balance range, got %+v", criteria.BalanceRange)
	}
	if criteria.SearchTerm != "  kaveri " {
		test.Fatalf("expected search term kept verbatim, got %q", criteria.SearchTerm)
	}
}

func TestNewFilterCriteriaParsesSelections(test *testing.T) {
	test.Parallel()
	criteria := mustCriteria(test, FilterInput{
		BranchID:      "2",
		BankName:      "HDFC Bank",
		StateName:     "Karnataka",
		MinBalance:    "0",
		MaxBalance:    "1000000.50",
		Year:          "2025-26",
		AccountStatus: "Active",
	})
	if criteria.BranchID == nil || *criteria.BranchID != 2 {
		test.Fatalf("expected branch 2, got %v", criteria.BranchID)
	}
	if !criteria.BalanceRange.Max.Decimal.Equal(mustDecimal(test, "1000000.5")) {
		test.Fatalf("unexpected max %s", criteria.BalanceRange.Max.Decimal)
	}
	if criteria.AccountStatus != AccountStatusActive || criteria.Year != "2025-26" {
		test.Fatalf("unexpected criteria %+v", criteria)
	}
}

func TestNewFilterCriteriaRejectsInvalidInput(test *testing.T) {
	test.Parallel()
	testCases := []struct {
		name     string
		input    FilterInput
		expected error
	}{
		{name: "branch", input: FilterInput{BranchID: "north"}, expected: ErrInvalidBranchID},
		{name: "min bound", input: FilterInput{MinBalance: "lots"}, expected: ErrInvalidBalanceRange},
		{name: "inverted range", input: FilterInput{MinBalance: "10", MaxBalance: "5"}, expected: ErrInvalidBalanceRange},
		{name: "year", input: FilterInput{Year: "2025"}, expected: ErrInvalidYear},
		{name: "status", input: FilterInput{AccountStatus: "dormant"}, expected: ErrInvalidAccountStatus},
	}
	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			if _, err := NewFilterCriteria(testCase.input); !errors.Is(err, testCase.expected) {
				test.Fatalf("expected %v, got %v", testCase.expected, err)
			}
		})
	}
}

func TestBalanceRangeContainsBounds(test *testing.T) {
	test.Parallel()
	balanceRange := NewBalanceRange(decimal.Zero, decimal.NewFromInt(100))
	for _, value := range []int64{0, 50, 100} {
		if !balanceRange.Contains(decimal.NewFromInt(value)) {
			test.Fatalf("expected %d inside range", value)
		}
	}
	for _, value := range []int64{-1, 101} {
		if balanceRange.Contains(decimal.NewFromInt(value)) {
			test.Fatalf("expected %d outside range", value)
		}
	}
	if !(BalanceRange{}).Contains(decimal.NewFromInt(-1000000)) {
		test.Fatalf("expected open range to contain everything")
	}
}

func TestAccountHasPAN(test *testing.T) {
	test.Parallel()
	if (Account{}).HasPAN() || (Account{PAN: stringPointer(" ")}).HasPAN() {
		test.Fatalf("expected blank PAN to be missing")
	}
	if !(Account{PAN: stringPointer("ABC")}).HasPAN() {
		test.Fatalf("expected PAN")
	}
}
