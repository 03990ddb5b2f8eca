package dashboard

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// AccountRow is an account joined with its balance, bank and GST data.
type AccountRow struct {
	AcCode    string          `json:"acCode"`
	Name      string          `json:"name"`
	ShortName string          `json:"shortName"`
	PAN       string          `json:"pan"`
	BranchID  int             `json:"branchId"`
	Balance   decimal.Decimal `json:"balance"`
	Bank      string          `json:"bank"`
	City      string          `json:"city"`
	IFSCCode  string          `json:"ifscCode"`
	GSTNo     string          `json:"gstNo"`
	StateName string          `json:"stateName"`
}

// SortField names a sortable account table column.
type SortField string

const (
	SortFieldAcCode    SortField = "acCode"
	SortFieldName      SortField = "name"
	SortFieldShortName SortField = "shortName"
	SortFieldPAN       SortField = "pan"
	SortFieldBranchID  SortField = "branchId"
	SortFieldBalance   SortField = "balance"
	SortFieldBank      SortField = "bank"
	SortFieldCity      SortField = "city"
	SortFieldIFSCCode  SortField = "ifscCode"
	SortFieldGSTNo     SortField = "gstNo"
	SortFieldStateName SortField = "stateName"
)

// SortDirection orders the account table.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// TableQuery selects one sorted page of the account table.
type TableQuery struct {
	SortField     SortField
	SortDirection SortDirection
	Page          int
	PageSize      int
}

// AccountPage is one page of the account table.
type AccountPage struct {
	Rows          []AccountRow  `json:"rows"`
	Page          int           `json:"page"`
	PageSize      int           `json:"pageSize"`
	TotalRows     int           `json:"totalRows"`
	TotalPages    int           `json:"totalPages"`
	SortField     SortField     `json:"sortField"`
	SortDirection SortDirection `json:"sortDirection"`
	Freshness     Freshness     `json:"-"`
}

// NewTableQuery validates a table query. Zero values fall back to name/asc, page 1, size 10.
func NewTableQuery(field string, direction string, page int, pageSize int) (TableQuery, error) {
	query := TableQuery{
		SortField:     SortFieldName,
		SortDirection: SortAscending,
		Page:          page,
		PageSize:      pageSize,
	}
	if trimmed := strings.TrimSpace(field); trimmed != "" {
		query.SortField = SortField(trimmed)
		if _, ok := rowComparators[query.SortField]; !ok {
			return TableQuery{}, fmt.Errorf("%w: %q", ErrInvalidSortField, trimmed)
		}
	}
	switch SortDirection(strings.ToLower(strings.TrimSpace(direction))) {
	case "", SortAscending:
		query.SortDirection = SortAscending
	case SortDescending:
		query.SortDirection = SortDescending
	default:
		return TableQuery{}, fmt.Errorf("%w: %q", ErrInvalidSortDirection, direction)
	}
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Page < 1 {
		return TableQuery{}, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}
	if query.PageSize == 0 {
		query.PageSize = defaultPageSize
	}
	if query.PageSize < 1 || query.PageSize > maxPageSize {
		return TableQuery{}, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidPageSize, maxPageSize)
	}
	return query, nil
}

// EnrichAccounts joins each account with its balance, bank and GST rows.
func EnrichAccounts(index *Index, accounts []Account) []AccountRow {
	rows := make([]AccountRow, 0, len(accounts))
	for _, account := range accounts {
		row := AccountRow{
			AcCode:    account.AcCode,
			Name:      account.Name,
			ShortName: account.ShortName,
			PAN:       labelNotAvailable,
			BranchID:  account.BranchID,
			Balance:   index.Balance(account.AcCode),
			Bank:      labelNotAvailable,
			City:      labelNotAvailable,
			IFSCCode:  labelNotAvailable,
			GSTNo:     labelNotRegistered,
			StateName: labelNotAvailable,
		}
		if account.HasPAN() {
			row.PAN = *account.PAN
		}
		if bank, ok := index.Bank(account.AcCode); ok {
			row.Bank = defaultIfBlank(bank.Bank, labelNotAvailable)
			row.City = defaultIfBlank(bank.City, labelNotAvailable)
			row.IFSCCode = defaultIfBlank(bank.IFSCCode, labelNotAvailable)
		}
		if gst, ok := index.GST(account.AcCode); ok {
			row.GSTNo = defaultIfBlank(gst.GSTNo, labelNotRegistered)
			row.StateName = defaultIfBlank(gst.StateName, labelNotAvailable)
		}
		rows = append(rows, row)
	}
	return rows
}

var rowComparators = map[SortField]func(left, right AccountRow) int{
	SortFieldAcCode:    func(left, right AccountRow) int { return compareFold(left.AcCode, right.AcCode) },
	SortFieldName:      func(left, right AccountRow) int { return compareFold(left.Name, right.Name) },
	SortFieldShortName: func(left, right AccountRow) int { return compareFold(left.ShortName, right.ShortName) },
	SortFieldPAN:       func(left, right AccountRow) int { return compareFold(left.PAN, right.PAN) },
	SortFieldBranchID:  func(left, right AccountRow) int { return cmp.Compare(left.BranchID, right.BranchID) },
	SortFieldBalance:   func(left, right AccountRow) int { return left.Balance.Cmp(right.Balance) },
	SortFieldBank:      func(left, right AccountRow) int { return compareFold(left.Bank, right.Bank) },
	SortFieldCity:      func(left, right AccountRow) int { return compareFold(left.City, right.City) },
	SortFieldIFSCCode:  func(left, right AccountRow) int { return compareFold(left.IFSCCode, right.IFSCCode) },
	SortFieldGSTNo:     func(left, right AccountRow) int { return compareFold(left.GSTNo, right.GSTNo) },
	SortFieldStateName: func(left, right AccountRow) int { return compareFold(left.StateName, right.StateName) },
}

func compareFold(left string, right string) int {
	return strings.Compare(strings.ToLower(left), strings.ToLower(right))
}

// SortRows returns a sorted copy of rows. Equal rows keep their input order in both directions.
func SortRows(rows []AccountRow, field SortField, direction SortDirection) ([]AccountRow, error) {
	compare, ok := rowComparators[field]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSortField, field)
	}
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(left, right AccountRow) int {
		if direction == SortDescending {
			return compare(right, left)
		}
		return compare(left, right)
	})
	return sorted, nil
}

// Paginate slices one page out of rows. Pages past the end are empty.
func Paginate(rows []AccountRow, page int, pageSize int) ([]AccountRow, int) {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (len(rows) + pageSize - 1) / pageSize
	}
	start := (page - 1) * pageSize
	if page < 1 || pageSize < 1 || start >= len(rows) {
		return []AccountRow{}, totalPages
	}
	end := min(start+pageSize, len(rows))
	return rows[start:end], totalPages
}

// BuildAccountPage enriches, sorts and paginates the filtered accounts.
func BuildAccountPage(index *Index, filtered []Account, query TableQuery) (AccountPage, error) {
	sorted, err := SortRows(EnrichAccounts(index, filtered), query.SortField, query.SortDirection)
	if err != nil {
		return AccountPage{}, err
	}
	rows, totalPages := Paginate(sorted, query.Page, query.PageSize)
	return AccountPage{
		Rows:          rows,
		Page:          query.Page,
		PageSize:      query.PageSize,
		TotalRows:     len(sorted),
		TotalPages:    totalPages,
		SortField:     query.SortField,
		SortDirection: query.SortDirection,
		Freshness:     index.Snapshot().Freshness,
	}, nil
}
