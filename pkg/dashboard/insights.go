package dashboard

import "fmt"

// InsightSeverity tags an alert record.
type InsightSeverity string

const (
	SeverityCritical InsightSeverity = "critical"
	SeverityWarning  InsightSeverity = "warning"
	SeverityInfo     InsightSeverity = "info"
	SeverityPositive InsightSeverity = "positive"
)

// Insight is a human-readable alert derived from the compliance report.
type Insight struct {
	Severity    InsightSeverity `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Action      string          `json:"action"`
	Vehicles    []string        `json:"vehicles,omitempty"`
	Contact     string          `json:"contact,omitempty"`
	RouteID     string          `json:"routeId,omitempty"`
}

// BuildInsights derives alerts in a fixed order: expired PUC, expiring licenses,
// repeatedly delayed routes, expiring insurance, healthy fleet.
func BuildInsights(report ComplianceReport) []Insight {
	insights := []Insight{}

	expiredPUC := []string{}
	expiringInsurance := 0
	for _, vehicle := range report.Vehicles {
		if vehicle.PUC == ExpiryExpired {
			expiredPUC = append(expiredPUC, vehicle.VehicleNo)
		}
		if vehicle.Insurance == ExpiryExpiringSoon {
			expiringInsurance++
		}
	}
	if len(expiredPUC) > 0 {
		insights = append(insights, Insight{
			Severity:    SeverityCritical,
			Title:       fmt.Sprintf("%d vehicles have expired PUC certificates", len(expiredPUC)),
			Description: "Stop assignments immediately and renew documents.",
			Action:      "View Vehicles",
			Vehicles:    expiredPUC,
		})
	}

	for _, driver := range report.Drivers {
		if driver.License != ExpiryExpiringSoon || driver.DaysUntilExpiry == nil {
			continue
		}
		insights = append(insights, Insight{
			Severity:    SeverityWarning,
			Title:       fmt.Sprintf("Driver %s's license expires in %d days", driver.DriverName, *driver.DaysUntilExpiry),
			Description: "Schedule renewal to avoid route disruptions.",
			Action:      "Contact Driver",
			Contact:     driver.ContactNo,
		})
	}

	delays := newOrderedCounter()
	for _, assignment := range report.Assignments {
		if assignment.Status == RouteStatusDelayed {
			delays.add(assignment.RouteID)
		}
	}
	for _, bucket := range delays.buckets {
		if bucket.count < repeatedDelayThreshold {
			continue
		}
		insights = append(insights, Insight{
			Severity:    SeverityWarning,
			Title:       fmt.Sprintf("Route %s has %d repeated delays", bucket.key, bucket.count),
			Description: "Investigate scheduling and optimize route planning.",
			Action:      "Analyze Route",
			RouteID:     bucket.key,
		})
	}

	if expiringInsurance > 0 {
		insights = append(insights, Insight{
			Severity:    SeverityInfo,
			Title:       fmt.Sprintf("%d vehicles need insurance renewal within %d days", expiringInsurance, expiringSoonDays),
			Description: "Plan renewals to maintain compliance.",
			Action:      "Schedule Renewals",
		})
	}

	if report.TotalVehicles > 0 && report.FleetCompliancePercent >= healthyFleetPercent {
		insights = append(insights, Insight{
			Severity:    SeverityPositive,
			Title:       fmt.Sprintf("Fleet compliance at %.1f%%", report.FleetCompliancePercent),
			Description: fmt.Sprintf("%d of %d vehicles carry no expired documents.", report.CompliantVehicles, report.TotalVehicles),
			Action:      "View Vehicles",
		})
	}
	return insights
}
