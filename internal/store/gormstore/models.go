package gormstore

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// AccountMaster mirrors the ERP AccountMaster table.
type AccountMaster struct {
	AcCode    string  `gorm:"column:acCode;size:32;index"`
	Name      string  `gorm:"column:name;size:200"`
	ShortName string  `gorm:"column:shortName;size:50"`
	PanNo     *string `gorm:"column:panNo;size:10"`
	BranchID  int     `gorm:"column:branchId;index"`
}

func (AccountMaster) TableName() string { return "AccountMaster" }

// AcOpeningBalance mirrors the AcOpeningBalance table.
type AcOpeningBalance struct {
	AcCode    string          `gorm:"column:acCode;size:32;index"`
	OpBalance decimal.Decimal `gorm:"column:opBalance;type:decimal(18,2);not null"`
	BranchID  int             `gorm:"column:branchId"`
}

func (AcOpeningBalance) TableName() string { return "AcOpeningBalance" }

// AccountBankDetails mirrors the AccountBankDetails table. AccountNo holds the account code.
type AccountBankDetails struct {
	AccountNo string `gorm:"column:accountNo;size:32;index"`
	Bank      string `gorm:"column:bank;size:100"`
	City      string `gorm:"column:city;size:100"`
	IfsCode   string `gorm:"column:ifsCode;size:11"`
}

func (AccountBankDetails) TableName() string { return "AccountBankDetails" }

// AccountGSTDetails mirrors the AccountGSTDetails table.
type AccountGSTDetails struct {
	AcCode    string `gorm:"column:acCode;size:32;index"`
	GstNo     string `gorm:"column:gstNo;size:15"`
	StateName string `gorm:"column:stateName;size:100"`
	StateID   int    `gorm:"column:stateId"`
}

func (AccountGSTDetails) TableName() string { return "AccountGSTDetails" }

// AcSetup mirrors the AcSetup table.
type AcSetup struct {
	BranchID    int    `gorm:"column:branchId"`
	SessionID   string `gorm:"column:sessionId;size:20"`
	VouNopaidGr string `gorm:"column:VouNopaidGr;size:50"`
}

func (AcSetup) TableName() string { return "AcSetup" }

// VehicleMaster mirrors the VehicleMaster table. Expiry columns are nullable.
type VehicleMaster struct {
	VehicleNo       string          `gorm:"column:vehicleNo;size:20;index"`
	Owner           string          `gorm:"column:owner;size:200"`
	InsuranceExpiry *datatypes.Date `gorm:"column:insuranceExpiry"`
	PucExpiry       *datatypes.Date `gorm:"column:pucExpiry"`
	GreenTaxExpiry  *datatypes.Date `gorm:"column:greenTaxExpiry"`
	RouteID         string          `gorm:"column:routeId;size:20"`
}

func (VehicleMaster) TableName() string { return "VehicleMaster" }

// DriverMaster mirrors the DriverMaster table.
type DriverMaster struct {
	DriverName        string          `gorm:"column:driverName;size:200;index"`
	LicenseExpiryDate *datatypes.Date `gorm:"column:licenseExpiryDate"`
	Aadhaar           string          `gorm:"column:aadhaar;size:12"`
	RouteAssigned     string          `gorm:"column:routeAssigned;size:20"`
	ContactNo         string          `gorm:"column:contactNo;size:15"`
}

func (DriverMaster) TableName() string { return "DriverMaster" }

// RouteAssignment mirrors the RouteAssignment table.
type RouteAssignment struct {
	RouteID        string          `gorm:"column:routeId;size:20;index"`
	VehicleNo      string          `gorm:"column:vehicleNo;size:20"`
	DriverName     string          `gorm:"column:driverName;size:200"`
	AssignedDate   *datatypes.Date `gorm:"column:assignedDate"`
	ETA            *datatypes.Date `gorm:"column:eta"`
	CompletionTime *datatypes.Date `gorm:"column:completionTime"`
	Status         string          `gorm:"column:status;size:20"`
}

func (RouteAssignment) TableName() string { return "RouteAssignment" }

// Models lists every table read by Source, in migration order.
func Models() []any {
	return []any{
		&AccountMaster{},
		&AcOpeningBalance{},
		&AccountBankDetails{},
		&AccountGSTDetails{},
		&AcSetup{},
		&VehicleMaster{},
		&DriverMaster{},
		&RouteAssignment{},
	}
}
