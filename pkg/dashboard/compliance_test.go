package dashboard

import (
	"slices"
	"testing"
)

func TestEvaluateComplianceVehicles(test *testing.T) {
	test.Parallel()
	report := EvaluateCompliance(NewIndex(fleetFixture()), fixtureToday)
	if report.TotalVehicles != 3 || report.CompliantVehicles != 2 {
		test.Fatalf("unexpected fleet totals %+v", report)
	}
	if report.FleetCompliancePercent != 66.7 {
		test.Fatalf("expected 66.7%%, got %v", report.FleetCompliancePercent)
	}
	expiredPUC := report.Vehicles[0]
	if expiredPUC.Compliant || expiredPUC.Priority != PriorityHigh {
		test.Fatalf("expected non-compliant high priority vehicle, got %+v", expiredPUC)
	}
	if !slices.Equal(expiredPUC.Issues, []string{issueTagPUCExpired}) {
		test.Fatalf("expected PUC Expired issue, got %v", expiredPUC.Issues)
	}
	expiring := report.Vehicles[1]
	if !expiring.Compliant || expiring.Priority != PriorityMedium || !slices.Equal(expiring.Issues, []string{issueTagInsuranceExpiring}) {
		test.Fatalf("unexpected expiring vehicle %+v", expiring)
	}
	missing := report.Vehicles[2]
	if missing.GreenTax != ExpiryMissing || !missing.Compliant || missing.Priority != PriorityLow || missing.IssueCount != 0 {
		test.Fatalf("expected missing date to stay compliant, got %+v", missing)
	}
}

func TestEvaluateComplianceAlertsAndDrivers(test *testing.T) {
	test.Parallel()
	report := EvaluateCompliance(NewIndex(fleetFixture()), fixtureToday)
	expected := []DocumentAlerts{
		{Kind: DocumentPUC, Expired: 1},
		{Kind: DocumentInsurance, ExpiringSoon: 1},
		{Kind: DocumentGreenTax},
		{Kind: DocumentLicense, Expired: 1, ExpiringSoon: 1},
	}
	if !slices.Equal(report.Alerts, expected) {
		test.Fatalf("expected alerts %+v, got %+v", expected, report.Alerts)
	}
	driver := report.Drivers[0]
	if driver.License != ExpiryExpiringSoon || driver.DaysUntilExpiry == nil || *driver.DaysUntilExpiry != 12 {
		test.Fatalf("unexpected driver status %+v", driver)
	}
	if report.Drivers[2].Compliant {
		test.Fatalf("expected expired license to be non-compliant")
	}
}

func TestEvaluateComplianceRoutesFailClosed(test *testing.T) {
	test.Parallel()
	report := EvaluateCompliance(NewIndex(fleetFixture()), fixtureToday)
	unmatched := report.Assignments[2]
	if unmatched.VehicleMatched || !unmatched.DriverMatched || unmatched.Compliant {
		test.Fatalf("expected unmatched vehicle to fail closed, got %+v", unmatched)
	}
	if !report.Assignments[1].Compliant {
		test.Fatalf("expected duplicate driver name to resolve to its first row")
	}
	expected := []RouteCompliance{
		{RouteID: "R1", Compliant: 2, Total: 2, CompliancePercent: 100},
		{RouteID: "R2", NonCompliant: 1, Total: 1},
		{RouteID: "R3", NonCompliant: 1, Total: 1},
	}
	if !slices.Equal(report.Routes, expected) {
		test.Fatalf("expected routes %+v, got %+v", expected, report.Routes)
	}
	if report.DelayedRoutes != 2 || report.ActiveRoutes != 3 || report.RouteDelayPercent != 66.7 {
		test.Fatalf("unexpected route delay stats %+v", report)
	}
}

func TestEvaluateComplianceVehicleIssues(test *testing.T) {
	test.Parallel()
	report := EvaluateCompliance(NewIndex(fleetFixture()), fixtureToday)
	if len(report.VehicleIssues) != 2 {
		test.Fatalf("expected two vehicles with issues, got %+v", report.VehicleIssues)
	}
	if report.VehicleIssues[0].VehicleNo != "MH12AB1234" || report.VehicleIssues[1].VehicleNo != "MH14CD5678" {
		test.Fatalf("unexpected issue order %+v", report.VehicleIssues)
	}
}

func TestEvaluateComplianceEmptySnapshot(test *testing.T) {
	test.Parallel()
	report := EvaluateCompliance(NewIndex(Snapshot{}), fixtureToday)
	if report.FleetCompliancePercent != 0 || report.RouteDelayPercent != 0 {
		test.Fatalf("expected zero percents, got %+v", report)
	}
	if report.Vehicles == nil || report.Routes == nil || report.VehicleIssues == nil || report.Insights == nil {
		test.Fatalf("expected empty slices, got %+v", report)
	}
	if len(report.Alerts) != 4 || len(report.Insights) != 0 {
		test.Fatalf("expected four empty alert buckets and no insights, got %+v", report)
	}
}
