package dashboard

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

var fixtureToday = NewDate(2026, 3, 15)

func stringPointer(value string) *string {
	return &value
}

func intPointer(value int) *int {
	return &value
}

func mustDecimal(test *testing.T, raw string) decimal.Decimal {
	test.Helper()
	value, err := decimal.NewFromString(raw)
	if err != nil {
		test.Fatalf("invalid decimal %q: %v", raw, err)
	}
	return value
}

func mustCriteria(test *testing.T, input FilterInput) FilterCriteria {
	test.Helper()
	criteria, err := NewFilterCriteria(input)
	if err != nil {
		test.Fatalf("criteria init failed: %v", err)
	}
	return criteria
}

func accountFixture() Snapshot {
	return Snapshot{
		Accounts: []Account{
			{AcCode: "AC1", Name: "Kaveri Logistics", ShortName: "KAV", PAN: stringPointer("AAACK1234F"), BranchID: 1},
			{AcCode: "AC2", Name: "Narmada Freight", ShortName: "NAR", PAN: nil, BranchID: 2},
			{AcCode: "AC3", Name: "Godavari Transport", ShortName: "GOD", PAN: stringPointer("  "), BranchID: 1},
			{AcCode: "AC4", Name: "Yamuna Carriers", ShortName: "YAM", PAN: stringPointer("AAACY9876Q"), BranchID: 3},
		},
		OpeningBalances: []OpeningBalance{
			{AcCode: "AC1", OpBalance: decimal.NewFromInt(500000), BranchID: 1},
			{AcCode: "AC2", OpBalance: decimal.NewFromInt(-2500), BranchID: 2},
			{AcCode: "AC3", OpBalance: decimal.NewFromInt(1200000), BranchID: 1},
			{AcCode: "AC3", OpBalance: decimal.NewFromInt(99), BranchID: 1},
		},
		BankDetails: []BankDetail{
			{AccountNo: "AC1", Bank: "State Bank of India", City: "Pune", IFSCCode: "SBIN0000123"},
			{AccountNo: "AC3", Bank: "HDFC Bank", City: "Nagpur", IFSCCode: "HDFC0000456"},
			{AccountNo: "AC4", Bank: "State Bank of India", City: "Nashik", IFSCCode: "SBIN0000789"},
		},
		GSTDetails: []GSTDetail{
			{AcCode: "AC1", GSTNo: "27AAACK1234F1Z5", StateName: "Maharashtra", StateID: 27},
			{AcCode: "AC4", GSTNo: "29AAACY9876Q1Z1", StateName: "Karnataka", StateID: 29},
		},
		BranchSetups: []BranchSetup{{BranchID: 1, SessionID: "2025-26", PaidGroup: "A"}},
	}
}

func fleetFixture() Snapshot {
	return Snapshot{
		Vehicles: []Vehicle{
			{
				VehicleNo:       "MH12AB1234",
				Owner:           "Kaveri Logistics",
				PUCExpiry:       fixtureToday.AddDays(-1),
				InsuranceExpiry: fixtureToday.AddDays(60),
				GreenTaxExpiry:  fixtureToday.AddDays(60),
			},
			{
				VehicleNo:       "MH14CD5678",
				Owner:           "Narmada Freight",
				PUCExpiry:       fixtureToday.AddDays(90),
				InsuranceExpiry: fixtureToday.AddDays(10),
				GreenTaxExpiry:  fixtureToday.AddDays(200),
			},
			{
				VehicleNo:       "MH31EF9012",
				Owner:           "Godavari Transport",
				PUCExpiry:       fixtureToday.AddDays(120),
				InsuranceExpiry: fixtureToday.AddDays(120),
				GreenTaxExpiry:  Date{},
			},
		},
		Drivers: []Driver{
			{DriverName: "Ravi Kumar", LicenseExpiryDate: fixtureToday.AddDays(12), ContactNo: "9800000001"},
			{DriverName: "Sunil Patil", LicenseExpiryDate: fixtureToday.AddDays(400), ContactNo: "9800000002"},
			{DriverName: "Ravi Kumar", LicenseExpiryDate: fixtureToday.AddDays(-30), ContactNo: "9800000003"},
		},
		Routes: []RouteAssignment{
			{RouteID: "R1", VehicleNo: "MH14CD5678", DriverName: "Sunil Patil", Status: RouteStatusDelayed},
			{RouteID: "R1", VehicleNo: "MH31EF9012", DriverName: "Ravi Kumar", Status: RouteStatusDelayed},
			{RouteID: "R2", VehicleNo: "MH99ZZ0000", DriverName: "Sunil Patil", Status: RouteStatusOnTime},
			{RouteID: "R3", VehicleNo: "MH12AB1234", DriverName: "Sunil Patil", Status: RouteStatusCompleted},
		},
	}
}

type staticSource struct {
	snapshot Snapshot
	err      error
	calls    int
}

func (source *staticSource) FetchSnapshot(context.Context) (Snapshot, error) {
	source.calls++
	if source.err != nil {
		return Snapshot{}, source.err
	}
	return source.snapshot, nil
}
