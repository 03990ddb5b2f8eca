package dashboard

import (
	"errors"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
)

func rowCodes(rows []AccountRow) []string {
	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, row.AcCode)
	}
	return codes
}

func TestNewTableQuery(test *testing.T) {
	test.Parallel()
	query, err := NewTableQuery("", "", 0, 0)
	if err != nil {
		test.Fatalf("unexpected error: %v", err)
	}
	if query.SortField != SortFieldName || query.SortDirection != SortAscending || query.Page != 1 || query.PageSize != defaultPageSize {
		test.Fatalf("unexpected defaults %+v", query)
	}
	testCases := []struct {
		name      string
		field     string
		direction string
		page      int
		pageSize  int
		expected  error
	}{
		{name: "field", field: "opBalance", expected: ErrInvalidSortField},
		{name: "direction", direction: "sideways", expected: ErrInvalidSortDirection},
		{name: "page", page: -1, expected: ErrInvalidPage},
		{name: "page size", pageSize: maxPageSize + 1, expected: ErrInvalidPageSize},
	}
	for _, testCase := range testCases {
		if _, err := NewTableQuery(testCase.field, testCase.direction, testCase.page, testCase.pageSize); !errors.Is(err, testCase.expected) {
			test.Fatalf("%s: expected %v, got %v", testCase.name, testCase.expected, err)
		}
	}
}

func TestEnrichAccountsFillsPlaceholders(test *testing.T) {
	test.Parallel()
	index := NewIndex(accountFixture())
	rows := EnrichAccounts(index, index.Snapshot().Accounts)
	joined := rows[0]
	if joined.PAN != "AAACK1234F" || joined.Bank != "State Bank of India" || joined.GSTNo != "27AAACK1234F1Z5" || joined.StateName != "Maharashtra" {
		test.Fatalf("unexpected joined row %+v", joined)
	}
	bare := rows[1]
	if bare.PAN != labelNotAvailable || bare.Bank != labelNotAvailable || bare.City != labelNotAvailable || bare.IFSCCode != labelNotAvailable {
		test.Fatalf("expected N/A placeholders, got %+v", bare)
	}
	if bare.GSTNo != labelNotRegistered || bare.StateName != labelNotAvailable {
		test.Fatalf("expected unregistered GST, got %+v", bare)
	}
	if !bare.Balance.Equal(decimal.NewFromInt(-2500)) {
		test.Fatalf("unexpected balance %s", bare.Balance)
	}
}

func TestSortRowsIsStableInBothDirections(test *testing.T) {
	test.Parallel()
	rows := []AccountRow{
		{AcCode: "A", Name: "beta", Balance: decimal.NewFromInt(10)},
		{AcCode: "B", Name: "Alpha", Balance: decimal.NewFromInt(20)},
		{AcCode: "C", Name: "alpha", Balance: decimal.NewFromInt(10)},
	}
	ascending, err := SortRows(rows, SortFieldName, SortAscending)
	if err != nil {
		test.Fatalf("sort failed: %v", err)
	}
	if !slices.Equal(rowCodes(ascending), []string{"B", "C", "A"}) {
		test.Fatalf("unexpected ascending order %v", rowCodes(ascending))
	}
	descending, err := SortRows(rows, SortFieldBalance, SortDescending)
	if err != nil {
		test.Fatalf("sort failed: %v", err)
	}
	if !slices.Equal(rowCodes(descending), []string{"B", "A", "C"}) {
		test.Fatalf("unexpected descending order %v", rowCodes(descending))
	}
	if !slices.Equal(rowCodes(rows), []string{"A", "B", "C"}) {
		test.Fatalf("expected input to stay untouched, got %v", rowCodes(rows))
	}
	if _, err := SortRows(rows, SortField("unknown"), SortAscending); !errors.Is(err, ErrInvalidSortField) {
		test.Fatalf("expected ErrInvalidSortField, got %v", err)
	}
}

func TestPaginate(test *testing.T) {
	test.Parallel()
	rows := make([]AccountRow, 23)
	testCases := []struct {
		page          int
		pageSize      int
		expectedRows  int
		expectedPages int
	}{
		{page: 1, pageSize: 10, expectedRows: 10, expectedPages: 3},
		{page: 3, pageSize: 10, expectedRows: 3, expectedPages: 3},
		{page: 4, pageSize: 10, expectedRows: 0, expectedPages: 3},
		{page: 1, pageSize: 100, expectedRows: 23, expectedPages: 1},
	}
	for _, testCase := range testCases {
		page, totalPages := Paginate(rows, testCase.page, testCase.pageSize)
		if len(page) != testCase.expectedRows || totalPages != testCase.expectedPages {
			test.Fatalf("page %d size %d: got %d rows of %d pages", testCase.page, testCase.pageSize, len(page), totalPages)
		}
	}
	if page, totalPages := Paginate(nil, 1, 10); len(page) != 0 || page == nil || totalPages != 0 {
		test.Fatalf("expected empty first page, got %v %d", page, totalPages)
	}
}

func TestBuildAccountPage(test *testing.T) {
	test.Parallel()
	index := NewIndex(accountFixture())
	query, err := NewTableQuery("balance", "desc", 1, 2)
	if err != nil {
		test.Fatalf("query init failed: %v", err)
	}
	page, err := BuildAccountPage(index, Filter(index, DefaultFilterCriteria()), query)
	if err != nil {
		test.Fatalf("page failed: %v", err)
	}
	if !slices.Equal(rowCodes(page.Rows), []string{"AC3", "AC1"}) {
		test.Fatalf("unexpected rows %v", rowCodes(page.Rows))
	}
	if page.TotalRows != 4 || page.TotalPages != 2 || page.SortField != SortFieldBalance || page.SortDirection != SortDescending {
		test.Fatalf("unexpected page metadata %+v", page)
	}
}
