package dashboard

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Account mirrors a row of AccountMaster.
type Account struct {
	AcCode    string  `json:"acCode"`
	Name      string  `json:"name"`
	ShortName string  `json:"shortName"`
	PAN       *string `json:"pan"`
	BranchID  int     `json:"branchId"`
}

// HasPAN reports whether the account carries a non-blank PAN.
func (account Account) HasPAN() bool {
	return account.PAN != nil && strings.TrimSpace(*account.PAN) != ""
}

// OpeningBalance mirrors a row of AcOpeningBalance.
type OpeningBalance struct {
	AcCode    string          `json:"acCode"`
	OpBalance decimal.Decimal `json:"opBalance"`
	BranchID  int             `json:"branchId"`
}

// BankDetail mirrors a row of AccountBankDetails. AccountNo joins to Account.AcCode.
type BankDetail struct {
	AccountNo string `json:"accountNo"`
	Bank      string `json:"bank"`
	City      string `json:"city"`
	IFSCCode  string `json:"ifscCode"`
}

// GSTDetail mirrors a row of AccountGSTDetails.
type GSTDetail struct {
	AcCode    string `json:"acCode"`
	GSTNo     string `json:"gstNo"`
	StateName string `json:"stateName"`
	StateID   int    `json:"stateId"`
}

// BranchSetup mirrors a row of AcSetup.
type BranchSetup struct {
	BranchID  int    `json:"branchId"`
	SessionID string `json:"sessionId"`
	PaidGroup string `json:"paidGrp"`
}

// Vehicle mirrors a row of VehicleMaster.
type Vehicle struct {
	VehicleNo       string `json:"vehicleNo"`
	Owner           string `json:"owner"`
	InsuranceExpiry Date   `json:"insuranceExpiry"`
	PUCExpiry       Date   `json:"pucExpiry"`
	GreenTaxExpiry  Date   `json:"greenTaxExpiry"`
	RouteID         string `json:"routeId,omitempty"`
}

// Driver mirrors a row of DriverMaster. Drivers are identified by name.
type Driver struct {
	DriverName        string `json:"driverName"`
	LicenseExpiryDate Date   `json:"licenseExpiryDate"`
	Aadhaar           string `json:"aadhaar"`
	RouteAssigned     string `json:"routeAssigned"`
	ContactNo         string `json:"contactNo"`
}

// RouteStatus is computed upstream and treated as opaque.
type RouteStatus string

const (
	RouteStatusPending   RouteStatus = "Pending"
	RouteStatusOnTime    RouteStatus = "On Time"
	RouteStatusDelayed   RouteStatus = "Delayed"
	RouteStatusCompleted RouteStatus = "Completed"
)

// RouteAssignment pairs a vehicle and a driver on a route.
type RouteAssignment struct {
	RouteID        string      `json:"routeId"`
	VehicleNo      string      `json:"vehicleNo"`
	DriverName     string      `json:"driverName"`
	AssignedDate   Date        `json:"assignedDate"`
	ETA            Date        `json:"eta"`
	CompletionTime Date        `json:"completionTime"`
	Status         RouteStatus `json:"status"`
}

// Snapshot is one complete read of the ERP. Snapshots are replaced wholesale, never mutated.
type Snapshot struct {
	Accounts        []Account         `json:"accounts"`
	OpeningBalances []OpeningBalance  `json:"openingBalances"`
	BankDetails     []BankDetail      `json:"bankDetails"`
	GSTDetails      []GSTDetail       `json:"gstDetails"`
	BranchSetups    []BranchSetup     `json:"acSetup"`
	Vehicles        []Vehicle         `json:"vehicles"`
	Drivers         []Driver          `json:"drivers"`
	Routes          []RouteAssignment `json:"routes"`
	FetchedAt       time.Time         `json:"fetchedAt"`
	// Freshness is set by whoever serves the snapshot, not by the ERP.
	Freshness Freshness `json:"-"`
}

// Freshness reports whether a snapshot was kept after a later fetch failed.
type Freshness struct {
	Stale       bool   `json:"stale"`
	SourceError string `json:"sourceError,omitempty"`
}

// Source yields the latest snapshot.
type Source interface {
	FetchSnapshot(ctx context.Context) (Snapshot, error)
}

// AccountStatus narrows accounts by whether they carry a positive balance.
type AccountStatus string

const (
	AccountStatusAll      AccountStatus = "all"
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// BalanceRange is a closed interval. An invalid bound leaves that side open.
type BalanceRange struct {
	Min decimal.NullDecimal
	Max decimal.NullDecimal
}

// NewBalanceRange returns the closed interval [min, max].
func NewBalanceRange(min decimal.Decimal, max decimal.Decimal) BalanceRange {
	return BalanceRange{
		Min: decimal.NewNullDecimal(min),
		Max: decimal.NewNullDecimal(max),
	}
}

// Contains reports whether value lies inside the range, bounds included.
func (balanceRange BalanceRange) Contains(value decimal.Decimal) bool {
	if balanceRange.Min.Valid && value.LessThan(balanceRange.Min.Decimal) {
		return false
	}
	if balanceRange.Max.Valid && value.GreaterThan(balanceRange.Max.Decimal) {
		return false
	}
	return true
}

// FilterCriteria is the normalized user selection applied to the account list.
type FilterCriteria struct {
	// BranchID is nil when every branch is selected.
	BranchID      *int
	BankName      string
	StateName     string
	BalanceRange  BalanceRange
	SearchTerm    string
	Year          string
	AccountStatus AccountStatus
}

// FilterInput carries criteria as raw strings, the way they arrive from a query string.
type FilterInput struct {
	BranchID      string
	BankName      string
	StateName     string
	MinBalance    string
	MaxBalance    string
	SearchTerm    string
	Year          string
	AccountStatus string
}

var financialYearPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// DefaultFilterCriteria selects every account.
func DefaultFilterCriteria() FilterCriteria {
	return FilterCriteria{
		BankName:      selectAll,
		StateName:     selectAll,
		Year:          selectAll,
		AccountStatus: AccountStatusAll,
	}
}

// NewFilterCriteria validates and normalizes raw criteria. Blank fields select everything.
// The search term is applied verbatim whenever it is non-empty.
func NewFilterCriteria(input FilterInput) (FilterCriteria, error) {
	criteria := DefaultFilterCriteria()

	branch := strings.TrimSpace(input.BranchID)
	if branch != "" && branch != selectAll {
		branchID, err := strconv.Atoi(branch)
		if err != nil {
			return FilterCriteria{}, fmt.Errorf("%w: %q", ErrInvalidBranchID, branch)
		}
		criteria.BranchID = &branchID
	}
	criteria.BankName = defaultIfBlank(input.BankName, selectAll)
	criteria.StateName = defaultIfBlank(input.StateName, selectAll)

	minBalance, err := parseBound(input.MinBalance)
	if err != nil {
		return FilterCriteria{}, err
	}
	maxBalance, err := parseBound(input.MaxBalance)
	if err != nil {
		return FilterCriteria{}, err
	}
	if minBalance.Valid && maxBalance.Valid && minBalance.Decimal.GreaterThan(maxBalance.Decimal) {
		return FilterCriteria{}, fmt.Errorf("%w: min %s exceeds max %s", ErrInvalidBalanceRange, minBalance.Decimal, maxBalance.Decimal)
	}
	criteria.BalanceRange = BalanceRange{Min: minBalance, Max: maxBalance}

	criteria.SearchTerm = input.SearchTerm

	criteria.Year = defaultIfBlank(input.Year, selectAll)
	if criteria.Year != selectAll && !financialYearPattern.MatchString(criteria.Year) {
		return FilterCriteria{}, fmt.Errorf("%w: %q", ErrInvalidYear, criteria.Year)
	}

	switch status := AccountStatus(strings.ToLower(strings.TrimSpace(input.AccountStatus))); status {
	case "", AccountStatusAll:
		criteria.AccountStatus = AccountStatusAll
	case AccountStatusActive, AccountStatusInactive:
		criteria.AccountStatus = status
	default:
		return FilterCriteria{}, fmt.Errorf("%w: %q", ErrInvalidAccountStatus, input.AccountStatus)
	}
	return criteria, nil
}

func parseBound(raw string) (decimal.NullDecimal, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.NullDecimal{}, nil
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%w: %q", ErrInvalidBalanceRange, trimmed)
	}
	return decimal.NewNullDecimal(value), nil
}

func defaultIfBlank(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
