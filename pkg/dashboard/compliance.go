package dashboard

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// ExpiryState classifies one dated document against today.
type ExpiryState string

const (
	ExpiryValid        ExpiryState = "valid"
	ExpiryExpiringSoon ExpiryState = "expiring_soon"
	ExpiryExpired      ExpiryState = "expired"
	ExpiryMissing      ExpiryState = "missing"
)

// DocumentKind names a date-bound document.
type DocumentKind string

const (
	DocumentPUC       DocumentKind = "puc"
	DocumentInsurance DocumentKind = "insurance"
	DocumentGreenTax  DocumentKind = "green_tax"
	DocumentLicense   DocumentKind = "license"
)

// Priority ranks a vehicle's issues.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Classify places expiry relative to today. A missing date is never expired.
func Classify(expiry Date, today Date) ExpiryState {
	switch {
	case expiry.IsZero():
		return ExpiryMissing
	case expiry.Before(today):
		return ExpiryExpired
	case !expiry.After(today.AddDays(expiringSoonDays)):
		return ExpiryExpiringSoon
	default:
		return ExpiryValid
	}
}

// VehicleStatus is the per-vehicle compliance verdict.
type VehicleStatus struct {
	VehicleNo  string      `json:"vehicleNo"`
	Owner      string      `json:"owner"`
	PUC        ExpiryState `json:"puc"`
	Insurance  ExpiryState `json:"insurance"`
	GreenTax   ExpiryState `json:"greenTax"`
	Compliant  bool        `json:"compliant"`
	Issues     []string    `json:"issues"`
	IssueCount int         `json:"issueCount"`
	Priority   Priority    `json:"priority"`
}

// DriverStatus is the per-driver compliance verdict.
type DriverStatus struct {
	DriverName string      `json:"driverName"`
	ContactNo  string      `json:"contactNo"`
	License    ExpiryState `json:"license"`
	// DaysUntilExpiry is nil when the license date is missing.
	DaysUntilExpiry *int `json:"daysUntilExpiry"`
	Compliant       bool `json:"compliant"`
}

// AssignmentStatus is the compliance verdict of one route assignment.
type AssignmentStatus struct {
	RouteID        string      `json:"routeId"`
	VehicleNo      string      `json:"vehicleNo"`
	DriverName     string      `json:"driverName"`
	Status         RouteStatus `json:"status"`
	VehicleMatched bool        `json:"vehicleMatched"`
	DriverMatched  bool        `json:"driverMatched"`
	Compliant      bool        `json:"compliant"`
}

// RouteCompliance aggregates the assignments of one route.
type RouteCompliance struct {
	RouteID           string  `json:"route"`
	Compliant         int     `json:"compliant"`
	NonCompliant      int     `json:"nonCompliant"`
	Total             int     `json:"total"`
	CompliancePercent float64 `json:"complianceRate"`
}

// DocumentAlerts counts expired and soon-to-expire documents of one kind.
type DocumentAlerts struct {
	Kind         DocumentKind `json:"kind"`
	Expired      int          `json:"expired"`
	ExpiringSoon int          `json:"expiringSoon"`
}

// VehicleIssue is one row of the vehicle issue list.
type VehicleIssue struct {
	VehicleNo  string   `json:"vehicleNo"`
	Owner      string   `json:"owner"`
	Issues     []string `json:"issues"`
	IssueCount int      `json:"issueCount"`
	Priority   Priority `json:"priority"`
}

// ComplianceReport bundles fleet, driver and route compliance for one evaluation date.
type ComplianceReport struct {
	EvaluatedOn            Date               `json:"evaluatedOn"`
	Vehicles               []VehicleStatus    `json:"vehicles"`
	Drivers                []DriverStatus     `json:"drivers"`
	Assignments            []AssignmentStatus `json:"assignments"`
	Routes                 []RouteCompliance  `json:"routes"`
	Alerts                 []DocumentAlerts   `json:"alerts"`
	TotalVehicles          int                `json:"totalVehicles"`
	CompliantVehicles      int                `json:"compliantVehicles"`
	FleetCompliancePercent float64            `json:"fleetCompliancePercent"`
	DelayedRoutes          int                `json:"delayedRoutes"`
	ActiveRoutes           int                `json:"activeRoutes"`
	RouteDelayPercent      float64            `json:"routeDelayPercent"`
	VehicleIssues          []VehicleIssue     `json:"vehicleIssues"`
	Insights               []Insight          `json:"insights"`
	Freshness              Freshness          `json:"-"`
}

// EvaluateCompliance classifies every vehicle, driver and route assignment as of today.
func EvaluateCompliance(index *Index, today Date) ComplianceReport {
	snapshot := index.Snapshot()
	report := ComplianceReport{
		EvaluatedOn:   today,
		Vehicles:      make([]VehicleStatus, 0, len(snapshot.Vehicles)),
		Drivers:       make([]DriverStatus, 0, len(snapshot.Drivers)),
		Assignments:   make([]AssignmentStatus, 0, len(snapshot.Routes)),
		TotalVehicles: len(snapshot.Vehicles),
		Freshness:     snapshot.Freshness,
	}
	alerts := map[DocumentKind]*DocumentAlerts{
		DocumentPUC:       {Kind: DocumentPUC},
		DocumentInsurance: {Kind: DocumentInsurance},
		DocumentGreenTax:  {Kind: DocumentGreenTax},
		DocumentLicense:   {Kind: DocumentLicense},
	}

	for _, vehicle := range snapshot.Vehicles {
		status := evaluateVehicle(vehicle, today)
		if status.Compliant {
			report.CompliantVehicles++
		}
		alerts[DocumentPUC].count(status.PUC)
		alerts[DocumentInsurance].count(status.Insurance)
		alerts[DocumentGreenTax].count(status.GreenTax)
		report.Vehicles = append(report.Vehicles, status)
	}
	for _, driver := range snapshot.Drivers {
		status := evaluateDriver(driver, today)
		alerts[DocumentLicense].count(status.License)
		report.Drivers = append(report.Drivers, status)
	}
	report.FleetCompliancePercent = roundPercent(percent(report.CompliantVehicles, report.TotalVehicles))

	for _, route := range snapshot.Routes {
		report.Assignments = append(report.Assignments, evaluateAssignment(index, route, today))
		if route.Status == RouteStatusDelayed {
			report.DelayedRoutes++
		}
		if route.Status != RouteStatusCompleted {
			report.ActiveRoutes++
		}
	}
	report.RouteDelayPercent = roundPercent(percent(report.DelayedRoutes, report.ActiveRoutes))
	report.Routes = summarizeRoutes(report.Assignments)
	report.Alerts = []DocumentAlerts{
		*alerts[DocumentPUC],
		*alerts[DocumentInsurance],
		*alerts[DocumentGreenTax],
		*alerts[DocumentLicense],
	}
	report.VehicleIssues = rankVehicleIssues(report.Vehicles)
	report.Insights = BuildInsights(report)
	return report
}

func evaluateVehicle(vehicle Vehicle, today Date) VehicleStatus {
	status := VehicleStatus{
		VehicleNo: vehicle.VehicleNo,
		Owner:     vehicle.Owner,
		PUC:       Classify(vehicle.PUCExpiry, today),
		Insurance: Classify(vehicle.InsuranceExpiry, today),
		GreenTax:  Classify(vehicle.GreenTaxExpiry, today),
	}
	status.Compliant = status.PUC != ExpiryExpired && status.Insurance != ExpiryExpired && status.GreenTax != ExpiryExpired

	issues := []string{}
	if status.PUC == ExpiryExpired {
		issues = append(issues, issueTagPUCExpired)
	}
	if status.Insurance == ExpiryExpired {
		issues = append(issues, issueTagInsuranceExpired)
	}
	if status.GreenTax == ExpiryExpired {
		issues = append(issues, issueTagGreenTaxExpired)
	}
	if status.PUC == ExpiryExpiringSoon {
		issues = append(issues, issueTagPUCExpiring)
	}
	if status.Insurance == ExpiryExpiringSoon {
		issues = append(issues, issueTagInsuranceExpiring)
	}
	status.Issues = issues
	status.IssueCount = len(issues)
	status.Priority = issuePriority(issues)
	return status
}

func issuePriority(issues []string) Priority {
	for _, issue := range issues {
		if strings.Contains(issue, issueExpiredMarker) {
			return PriorityHigh
		}
	}
	if len(issues) > 0 {
		return PriorityMedium
	}
	return PriorityLow
}

func evaluateDriver(driver Driver, today Date) DriverStatus {
	status := DriverStatus{
		DriverName: driver.DriverName,
		ContactNo:  driver.ContactNo,
		License:    Classify(driver.LicenseExpiryDate, today),
	}
	if !driver.LicenseExpiryDate.IsZero() {
		days := today.DaysUntil(driver.LicenseExpiryDate)
		status.DaysUntilExpiry = &days
	}
	status.Compliant = status.License != ExpiryExpired
	return status
}

func evaluateAssignment(index *Index, route RouteAssignment, today Date) AssignmentStatus {
	status := AssignmentStatus{
		RouteID:    route.RouteID,
		VehicleNo:  route.VehicleNo,
		DriverName: route.DriverName,
		Status:     route.Status,
	}
	vehicleCompliant := false
	if vehicle, ok := index.Vehicle(route.VehicleNo); ok {
		status.VehicleMatched = true
		vehicleCompliant = evaluateVehicle(vehicle, today).Compliant
	}
	driverCompliant := false
	if driver, ok := index.Driver(route.DriverName); ok {
		status.DriverMatched = true
		driverCompliant = evaluateDriver(driver, today).Compliant
	}
	status.Compliant = vehicleCompliant && driverCompliant
	return status
}

func summarizeRoutes(assignments []AssignmentStatus) []RouteCompliance {
	positions := make(map[string]int)
	routes := []RouteCompliance{}
	for _, assignment := range assignments {
		position, ok := positions[assignment.RouteID]
		if !ok {
			position = len(routes)
			positions[assignment.RouteID] = position
			routes = append(routes, RouteCompliance{RouteID: assignment.RouteID})
		}
		route := &routes[position]
		route.Total++
		if assignment.Compliant {
			route.Compliant++
		} else {
			route.NonCompliant++
		}
	}
	for position := range routes {
		routes[position].CompliancePercent = roundPercent(percent(routes[position].Compliant, routes[position].Total))
	}
	return routes
}

func rankVehicleIssues(vehicles []VehicleStatus) []VehicleIssue {
	issues := []VehicleIssue{}
	for _, vehicle := range vehicles {
		if vehicle.IssueCount == 0 {
			continue
		}
		issues = append(issues, VehicleIssue{
			VehicleNo:  vehicle.VehicleNo,
			Owner:      vehicle.Owner,
			Issues:     vehicle.Issues,
			IssueCount: vehicle.IssueCount,
			Priority:   vehicle.Priority,
		})
	}
	slices.SortStableFunc(issues, func(left, right VehicleIssue) int {
		return cmp.Compare(right.IssueCount, left.IssueCount)
	})
	if len(issues) > vehicleIssueLimit {
		issues = issues[:vehicleIssueLimit]
	}
	return issues
}

func (alerts *DocumentAlerts) count(state ExpiryState) {
	switch state {
	case ExpiryExpired:
		alerts.Expired++
	case ExpiryExpiringSoon:
		alerts.ExpiringSoon++
	}
}

func roundPercent(value float64) float64 {
	return math.Round(value*10) / 10
}
