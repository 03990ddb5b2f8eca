package dashboard

import "github.com/shopspring/decimal"

// Index holds the per-snapshot join maps shared by every derivation.
// Each key maps to the first matching row, so lookups agree with a linear first-match scan.
type Index struct {
	snapshot   Snapshot
	balances   map[string]decimal.Decimal
	banks      map[string]BankDetail
	gst        map[string]GSTDetail
	vehicles   map[string]Vehicle
	drivers    map[string]Driver
	distinctAc int
}

// NewIndex builds the join maps for snapshot. Nil lists are treated as empty.
func NewIndex(snapshot Snapshot) *Index {
	index := &Index{
		snapshot: snapshot,
		balances: make(map[string]decimal.Decimal, len(snapshot.OpeningBalances)),
		banks:    make(map[string]BankDetail, len(snapshot.BankDetails)),
		gst:      make(map[string]GSTDetail, len(snapshot.GSTDetails)),
		vehicles: make(map[string]Vehicle, len(snapshot.Vehicles)),
		drivers:  make(map[string]Driver, len(snapshot.Drivers)),
	}
	for _, balance := range snapshot.OpeningBalances {
		if _, seen := index.balances[balance.AcCode]; !seen {
			index.balances[balance.AcCode] = balance.OpBalance
		}
	}
	for _, bank := range snapshot.BankDetails {
		if _, seen := index.banks[bank.AccountNo]; !seen {
			index.banks[bank.AccountNo] = bank
		}
	}
	for _, gst := range snapshot.GSTDetails {
		if _, seen := index.gst[gst.AcCode]; !seen {
			index.gst[gst.AcCode] = gst
		}
	}
	for _, vehicle := range snapshot.Vehicles {
		if _, seen := index.vehicles[vehicle.VehicleNo]; !seen {
			index.vehicles[vehicle.VehicleNo] = vehicle
		}
	}
	// Drivers are keyed by display name; a duplicated name resolves to its first row.
	for _, driver := range snapshot.Drivers {
		if _, seen := index.drivers[driver.DriverName]; !seen {
			index.drivers[driver.DriverName] = driver
		}
	}
	codes := make(map[string]struct{}, len(snapshot.Accounts))
	for _, account := range snapshot.Accounts {
		codes[account.AcCode] = struct{}{}
	}
	index.distinctAc = len(codes)
	return index
}

// Snapshot returns the snapshot the index was built from.
func (index *Index) Snapshot() Snapshot {
	return index.snapshot
}

// Balance resolves the opening balance of acCode, zero when no row matches.
func (index *Index) Balance(acCode string) decimal.Decimal {
	return index.balances[acCode]
}

// Bank returns the bank row of acCode.
func (index *Index) Bank(acCode string) (BankDetail, bool) {
	bank, ok := index.banks[acCode]
	return bank, ok
}

// GST returns the GST registration of acCode.
func (index *Index) GST(acCode string) (GSTDetail, bool) {
	gst, ok := index.gst[acCode]
	return gst, ok
}

// Vehicle returns the vehicle registered as vehicleNo.
func (index *Index) Vehicle(vehicleNo string) (Vehicle, bool) {
	vehicle, ok := index.vehicles[vehicleNo]
	return vehicle, ok
}

// Driver returns the driver named driverName.
func (index *Index) Driver(driverName string) (Driver, bool) {
	driver, ok := index.drivers[driverName]
	return driver, ok
}

// DistinctAccounts counts unique account codes in the unfiltered snapshot.
func (index *Index) DistinctAccounts() int {
	return index.distinctAc
}
