package gormstore

import (
	"context"
	"fmt"
	"time"

	"github.com/MarkoPoloResearchLab/logidash/pkg/dashboard"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
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
	errorCodeSeed            = "seed"
	seedBatchSize            = 200
)

// Source reads ERP snapshots through GORM. It works against SQL Server, Postgres and SQLite.
type Source struct {
	db    *gorm.DB
	nowFn func() time.Time
}

// New returns a Source backed by gorm.DB.
func New(db *gorm.DB) *Source {
	return &Source{db: db, nowFn: func() time.Time { return time.Now().UTC() }}
}

// FetchSnapshot runs one query per table concurrently. Any failed query fails the whole fetch.
func (source *Source) FetchSnapshot(ctx context.Context) (dashboard.Snapshot, error) {
	var (
		accounts     []AccountMaster
		balances     []AcOpeningBalance
		bankDetails  []AccountBankDetails
		gstDetails   []AccountGSTDetails
		branchSetups []AcSetup
		vehicles     []VehicleMaster
		drivers      []DriverMaster
		routes       []RouteAssignment
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return source.find(groupCtx, errorSubjectAccounts, &accounts) })
	group.Go(func() error { return source.find(groupCtx, errorSubjectBalances, &balances) })
	group.Go(func() error { return source.find(groupCtx, errorSubjectBankDetails, &bankDetails) })
	group.Go(func() error { return source.find(groupCtx, errorSubjectGSTDetails, &gstDetails) })
	group.Go(func() error { return source.find(groupCtx, errorSubjectBranchSetups, &branchSetups) })
	group.Go(func() error { return source.find(groupCtx, errorSubjectVehicles, &vehicles) })
	group.Go(func() error { return source.find(groupCtx, errorSubjectDrivers, &drivers) })
	group.Go(func() error { return source.find(groupCtx, errorSubjectRoutes, &routes) })
	if err := group.Wait(); err != nil {
		return dashboard.Snapshot{}, err
	}

	snapshot := dashboard.Snapshot{
		Accounts:        make([]dashboard.Account, 0, len(accounts)),
		OpeningBalances: make([]dashboard.OpeningBalance, 0, len(balances)),
		BankDetails:     make([]dashboard.BankDetail, 0, len(bankDetails)),
		GSTDetails:      make([]dashboard.GSTDetail, 0, len(gstDetails)),
		BranchSetups:    make([]dashboard.BranchSetup, 0, len(branchSetups)),
		Vehicles:        make([]dashboard.Vehicle, 0, len(vehicles)),
		Drivers:         make([]dashboard.Driver, 0, len(drivers)),
		Routes:          make([]dashboard.RouteAssignment, 0, len(routes)),
		FetchedAt:       source.nowFn(),
	}
	for _, row := range accounts {
		snapshot.Accounts = append(snapshot.Accounts, dashboard.Account{
			AcCode:    row.AcCode,
			Name:      row.Name,
			ShortName: row.ShortName,
			PAN:       row.PanNo,
			BranchID:  row.BranchID,
		})
	}
	for _, row := range balances {
		snapshot.OpeningBalances = append(snapshot.OpeningBalances, dashboard.OpeningBalance{
			AcCode:    row.AcCode,
			OpBalance: row.OpBalance,
			BranchID:  row.BranchID,
		})
	}
	for _, row := range bankDetails {
		snapshot.BankDetails = append(snapshot.BankDetails, dashboard.BankDetail{
			AccountNo: row.AccountNo,
			Bank:      row.Bank,
			City:      row.City,
			IFSCCode:  row.IfsCode,
		})
	}
	for _, row := range gstDetails {
		snapshot.GSTDetails = append(snapshot.GSTDetails, dashboard.GSTDetail{
			AcCode:    row.AcCode,
			GSTNo:     row.GstNo,
			StateName: row.StateName,
			StateID:   row.StateID,
		})
	}
	for _, row := range branchSetups {
		snapshot.BranchSetups = append(snapshot.BranchSetups, dashboard.BranchSetup{
			BranchID:  row.BranchID,
			SessionID: row.SessionID,
			PaidGroup: row.VouNopaidGr,
		})
	}
	for _, row := range vehicles {
		snapshot.Vehicles = append(snapshot.Vehicles, dashboard.Vehicle{
			VehicleNo:       row.VehicleNo,
			Owner:           row.Owner,
			InsuranceExpiry: fromDatatypesDate(row.InsuranceExpiry),
			PUCExpiry:       fromDatatypesDate(row.PucExpiry),
			GreenTaxExpiry:  fromDatatypesDate(row.GreenTaxExpiry),
			RouteID:         row.RouteID,
		})
	}
	for _, row := range drivers {
		snapshot.Drivers = append(snapshot.Drivers, dashboard.Driver{
			DriverName:        row.DriverName,
			LicenseExpiryDate: fromDatatypesDate(row.LicenseExpiryDate),
			Aadhaar:           row.Aadhaar,
			RouteAssigned:     row.RouteAssigned,
			ContactNo:         row.ContactNo,
		})
	}
	for _, row := range routes {
		snapshot.Routes = append(snapshot.Routes, dashboard.RouteAssignment{
			RouteID:        row.RouteID,
			VehicleNo:      row.VehicleNo,
			DriverName:     row.DriverName,
			AssignedDate:   fromDatatypesDate(row.AssignedDate),
			ETA:            fromDatatypesDate(row.ETA),
			CompletionTime: fromDatatypesDate(row.CompletionTime),
			Status:         dashboard.RouteStatus(row.Status),
		})
	}
	return snapshot, nil
}

// Seed writes snapshot into the ERP tables in one transaction.
func (source *Source) Seed(ctx context.Context, snapshot dashboard.Snapshot) error {
	return source.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		for _, batch := range seedBatches(snapshot) {
			if batch.rows == 0 {
				continue
			}
			if err := transaction.CreateInBatches(batch.records, seedBatchSize).Error; err != nil {
				return wrapStoreError(batch.subject, errorCodeSeed, err)
			}
		}
		return nil
	})
}

func (source *Source) find(ctx context.Context, subject string, destination any) error {
	if err := source.db.WithContext(ctx).Find(destination).Error; err != nil {
		return wrapStoreError(subject, errorCodeQuery, fmt.Errorf("%w: %w", dashboard.ErrSourceUnavailable, err))
	}
	return nil
}

type seedBatch struct {
	subject string
	rows    int
	records any
}

func seedBatches(snapshot dashboard.Snapshot) []seedBatch {
	accounts := make([]AccountMaster, 0, len(snapshot.Accounts))
	for _, account := range snapshot.Accounts {
		accounts = append(accounts, AccountMaster{
			AcCode:    account.AcCode,
			Name:      account.Name,
			ShortName: account.ShortName,
			PanNo:     account.PAN,
			BranchID:  account.BranchID,
		})
	}
	balances := make([]AcOpeningBalance, 0, len(snapshot.OpeningBalances))
	for _, balance := range snapshot.OpeningBalances {
		balances = append(balances, AcOpeningBalance{AcCode: balance.AcCode, OpBalance: balance.OpBalance, BranchID: balance.BranchID})
	}
	bankDetails := make([]AccountBankDetails, 0, len(snapshot.BankDetails))
	for _, bank := range snapshot.BankDetails {
		bankDetails = append(bankDetails, AccountBankDetails{AccountNo: bank.AccountNo, Bank: bank.Bank, City: bank.City, IfsCode: bank.IFSCCode})
	}
	gstDetails := make([]AccountGSTDetails, 0, len(snapshot.GSTDetails))
	for _, gst := range snapshot.GSTDetails {
		gstDetails = append(gstDetails, AccountGSTDetails{AcCode: gst.AcCode, GstNo: gst.GSTNo, StateName: gst.StateName, StateID: gst.StateID})
	}
	branchSetups := make([]AcSetup, 0, len(snapshot.BranchSetups))
	for _, setup := range snapshot.BranchSetups {
		branchSetups = append(branchSetups, AcSetup{BranchID: setup.BranchID, SessionID: setup.SessionID, VouNopaidGr: setup.PaidGroup})
	}
	vehicles := make([]VehicleMaster, 0, len(snapshot.Vehicles))
	for _, vehicle := range snapshot.Vehicles {
		vehicles = append(vehicles, VehicleMaster{
			VehicleNo:       vehicle.VehicleNo,
			Owner:           vehicle.Owner,
			InsuranceExpiry: toDatatypesDate(vehicle.InsuranceExpiry),
			PucExpiry:       toDatatypesDate(vehicle.PUCExpiry),
			GreenTaxExpiry:  toDatatypesDate(vehicle.GreenTaxExpiry),
			RouteID:         vehicle.RouteID,
		})
	}
	drivers := make([]DriverMaster, 0, len(snapshot.Drivers))
	for _, driver := range snapshot.Drivers {
		drivers = append(drivers, DriverMaster{
			DriverName:        driver.DriverName,
			LicenseExpiryDate: toDatatypesDate(driver.LicenseExpiryDate),
			Aadhaar:           driver.Aadhaar,
			RouteAssigned:     driver.RouteAssigned,
			ContactNo:         driver.ContactNo,
		})
	}
	routes := make([]RouteAssignment, 0, len(snapshot.Routes))
	for _, route := range snapshot.Routes {
		routes = append(routes, RouteAssignment{
			RouteID:        route.RouteID,
			VehicleNo:      route.VehicleNo,
			DriverName:     route.DriverName,
			AssignedDate:   toDatatypesDate(route.AssignedDate),
			ETA:            toDatatypesDate(route.ETA),
			CompletionTime: toDatatypesDate(route.CompletionTime),
			Status:         string(route.Status),
		})
	}
	return []seedBatch{
		{subject: errorSubjectAccounts, rows: len(accounts), records: &accounts},
		{subject: errorSubjectBalances, rows: len(balances), records: &balances},
		{subject: errorSubjectBankDetails, rows: len(bankDetails), records: &bankDetails},
		{subject: errorSubjectGSTDetails, rows: len(gstDetails), records: &gstDetails},
		{subject: errorSubjectBranchSetups, rows: len(branchSetups), records: &branchSetups},
		{subject: errorSubjectVehicles, rows: len(vehicles), records: &vehicles},
		{subject: errorSubjectDrivers, rows: len(drivers), records: &drivers},
		{subject: errorSubjectRoutes, rows: len(routes), records: &routes},
	}
}

func wrapStoreError(subject string, code string, err error) error {
	return dashboard.WrapError(errorOperationStore, subject, code, err)
}

func fromDatatypesDate(value *datatypes.Date) dashboard.Date {
	if value == nil {
		return dashboard.Date{}
	}
	return dashboard.DateOf(time.Time(*value))
}

func toDatatypesDate(value dashboard.Date) *datatypes.Date {
	if value.IsZero() {
		return nil
	}
	date := datatypes.Date(value.Time())
	return &date
}
