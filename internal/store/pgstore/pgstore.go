package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/MarkoPoloResearchLab/logidash/pkg/dashboard"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	errorOperationStore      = "store"
	errorSubjectAccounts     = "accounts"
	errorSubjectBalances     = "opening_balances"
	errorSubjectBankDetails  = "bank_details"
	errorSubjectGSTDetails   = "gst_details"
	errorSubjectBranchSetups = "ac_setup"
	errorSubjectVehicles     = "vehicles"
	errorSubjectDrivers      = "drivers"
	errorSubjectRoutes       = "routes"
	errorCodeQuery           = "query"
	errorCodeScan            = "scan"
	errorCodeInvalid         = "invalid"

	sqlSelectAccounts = `
		select coalesce("acCode",''), coalesce(name,''), coalesce("shortName",''), "panNo", coalesce("branchId",0)
		from "AccountMaster"
	`

	sqlSelectOpeningBalances = `
		select coalesce("acCode",''), coalesce("opBalance",0)::text, coalesce("branchId",0)
		from "AcOpeningBalance"
	`

	sqlSelectBankDetails = `
		select coalesce("accountNo",''), coalesce(bank,''), coalesce(city,''), coalesce("ifsCode",'')
		from "AccountBankDetails"
	`

	sqlSelectGSTDetails = `
		select coalesce("acCode",''), coalesce("gstNo",''), coalesce("stateName",''), coalesce("stateId",0)
		from "AccountGSTDetails"
	`

	sqlSelectBranchSetups = `
		select coalesce("branchId",0), coalesce("sessionId",''), coalesce("VouNopaidGr",'')
		from "AcSetup"
	`

	sqlSelectVehicles = `
		select coalesce("vehicleNo",''), coalesce(owner,''), "insuranceExpiry", "pucExpiry", "greenTaxExpiry", coalesce("routeId",'')
		from "VehicleMaster"
	`

	sqlSelectDrivers = `
		select coalesce("driverName",''), "licenseExpiryDate", coalesce(aadhaar,''), coalesce("routeAssigned",''), coalesce("contactNo",'')
		from "DriverMaster"
	`

	sqlSelectRoutes = `
		select coalesce("routeId",''), coalesce("vehicleNo",''), coalesce("driverName",''), "assignedDate", eta, "completionTime", coalesce(status,'')
		from "RouteAssignment"
	`
)

// Source reads ERP snapshots from Postgres through a pgx pool.
type Source struct {
	pool  *pgxpool.Pool
	nowFn func() time.Time
}

// New returns a Source backed by a pgx pool.
func New(pool *pgxpool.Pool) *Source {
	return &Source{pool: pool, nowFn: func() time.Time { return time.Now().UTC() }}
}

// FetchSnapshot runs the table queries concurrently on pooled connections.
func (source *Source) FetchSnapshot(ctx context.Context) (dashboard.Snapshot, error) {
	snapshot := dashboard.Snapshot{}
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		snapshot.Accounts, err = collect(groupCtx, source.pool, errorSubjectAccounts, sqlSelectAccounts, scanAccount)
		return err
	})
	group.Go(func() (err error) {
		snapshot.OpeningBalances, err = collect(groupCtx, source.pool, errorSubjectBalances, sqlSelectOpeningBalances, scanOpeningBalance)
		return err
	})
	group.Go(func() (err error) {
		snapshot.BankDetails, err = collect(groupCtx, source.pool, errorSubjectBankDetails, sqlSelectBankDetails, scanBankDetail)
		return err
	})
	group.Go(func() (err error) {
		snapshot.GSTDetails, err = collect(groupCtx, source.pool, errorSubjectGSTDetails, sqlSelectGSTDetails, scanGSTDetail)
		return err
	})
	group.Go(func() (err error) {
		snapshot.BranchSetups, err = collect(groupCtx, source.pool, errorSubjectBranchSetups, sqlSelectBranchSetups, scanBranchSetup)
		return err
	})
	group.Go(func() (err error) {
		snapshot.Vehicles, err = collect(groupCtx, source.pool, errorSubjectVehicles, sqlSelectVehicles, scanVehicle)
		return err
	})
	group.Go(func() (err error) {
		snapshot.Drivers, err = collect(groupCtx, source.pool, errorSubjectDrivers, sqlSelectDrivers, scanDriver)
		return err
	})
	group.Go(func() (err error) {
		snapshot.Routes, err = collect(groupCtx, source.pool, errorSubjectRoutes, sqlSelectRoutes, scanRoute)
		return err
	})
	if err := group.Wait(); err != nil {
		return dashboard.Snapshot{}, err
	}
	snapshot.FetchedAt = source.nowFn()
	return snapshot, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func collect[T any](ctx context.Context, db querier, subject string, query string, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, wrapStoreError(subject, errorCodeQuery, fmt.Errorf("%w: %w", dashboard.ErrSourceUnavailable, err))
	}
	defer rows.Close()
	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, wrapStoreError(subject, errorCodeScan, fmt.Errorf("%w: %w", dashboard.ErrSourceUnavailable, err))
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreError(subject, errorCodeQuery, fmt.Errorf("%w: %w", dashboard.ErrSourceUnavailable, err))
	}
	return items, nil
}

func scanAccount(rows pgx.Rows) (dashboard.Account, error) {
	var account dashboard.Account
	var pan pgtype.Text
	if err := rows.Scan(&account.AcCode, &account.Name, &account.ShortName, &pan, &account.BranchID); err != nil {
		return dashboard.Account{}, err
	}
	if pan.Valid {
		value := pan.String
		account.PAN = &value
	}
	return account, nil
}

func scanOpeningBalance(rows pgx.Rows) (dashboard.OpeningBalance, error) {
	var balance dashboard.OpeningBalance
	var amount string
	if err := rows.Scan(&balance.AcCode, &amount, &balance.BranchID); err != nil {
		return dashboard.OpeningBalance{}, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return dashboard.OpeningBalance{}, wrapStoreError(errorSubjectBalances, errorCodeInvalid, err)
	}
	balance.OpBalance = parsed
	return balance, nil
}

func scanBankDetail(rows pgx.Rows) (dashboard.BankDetail, error) {
	var bank dashboard.BankDetail
	err := rows.Scan(&bank.AccountNo, &bank.Bank, &bank.City, &bank.IFSCCode)
	return bank, err
}

func scanGSTDetail(rows pgx.Rows) (dashboard.GSTDetail, error) {
	var gst dashboard.GSTDetail
	err := rows.Scan(&gst.AcCode, &gst.GSTNo, &gst.StateName, &gst.StateID)
	return gst, err
}

func scanBranchSetup(rows pgx.Rows) (dashboard.BranchSetup, error) {
	var setup dashboard.BranchSetup
	err := rows.Scan(&setup.BranchID, &setup.SessionID, &setup.PaidGroup)
	return setup, err
}

func scanVehicle(rows pgx.Rows) (dashboard.Vehicle, error) {
	var vehicle dashboard.Vehicle
	var insurance, puc, greenTax pgtype.Date
	if err := rows.Scan(&vehicle.VehicleNo, &vehicle.Owner, &insurance, &puc, &greenTax, &vehicle.RouteID); err != nil {
		return dashboard.Vehicle{}, err
	}
	vehicle.InsuranceExpiry = fromPGDate(insurance)
	vehicle.PUCExpiry = fromPGDate(puc)
	vehicle.GreenTaxExpiry = fromPGDate(greenTax)
	return vehicle, nil
}

func scanDriver(rows pgx.Rows) (dashboard.Driver, error) {
	var driver dashboard.Driver
	var licenseExpiry pgtype.Date
	if err := rows.Scan(&driver.DriverName, &licenseExpiry, &driver.Aadhaar, &driver.RouteAssigned, &driver.ContactNo); err != nil {
		return dashboard.Driver{}, err
	}
	driver.LicenseExpiryDate = fromPGDate(licenseExpiry)
	return driver, nil
}

func scanRoute(rows pgx.Rows) (dashboard.RouteAssignment, error) {
	var route dashboard.RouteAssignment
	var assigned, eta, completed pgtype.Date
	var status string
	if err := rows.Scan(&route.RouteID, &route.VehicleNo, &route.DriverName, &assigned, &eta, &completed, &status); err != nil {
		return dashboard.RouteAssignment{}, err
	}
	route.AssignedDate = fromPGDate(assigned)
	route.ETA = fromPGDate(eta)
	route.CompletionTime = fromPGDate(completed)
	route.Status = dashboard.RouteStatus(status)
	return route, nil
}

func fromPGDate(value pgtype.Date) dashboard.Date {
	if !value.Valid || value.InfinityModifier != pgtype.Finite {
		return dashboard.Date{}
	}
	return dashboard.DateOf(value.Time)
}

func wrapStoreError(subject string, code string, err error) error {
	return dashboard.WrapError(errorOperationStore, subject, code, err)
}
