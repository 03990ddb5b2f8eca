package dashboard

import (
	"context"
	"fmt"
	"time"
)

// Dashboard is every view derived from one snapshot and one set of criteria.
type Dashboard struct {
	Accounts         []Account        `json:"accounts"`
	KPIs             KPISummary       `json:"kpis"`
	Charts           ChartSeries      `json:"charts"`
	Compliance       ComplianceReport `json:"compliance"`
	Options          FilterOptions    `json:"filterOptions"`
	ActiveFilters    int              `json:"activeFilters"`
	UnappliedFilters []string         `json:"unappliedFilters"`
	SnapshotTakenAt  time.Time        `json:"snapshotTakenAt"`
	Freshness        Freshness        `json:"-"`
}

// BuildDashboard derives the full dashboard from snapshot as of today.
func BuildDashboard(snapshot Snapshot, criteria FilterCriteria, today Date) Dashboard {
	index := NewIndex(snapshot)
	filtered := Filter(index, criteria)
	options := BuildFilterOptions(snapshot)
	return Dashboard{
		Accounts:         filtered,
		KPIs:             ComputeKPIs(index, filtered),
		Charts:           BuildCharts(index, filtered),
		Compliance:       EvaluateCompliance(index, today),
		Options:          options,
		ActiveFilters:    ActiveFilterCount(criteria, options.MaxBalance),
		UnappliedFilters: UnappliedFilters(criteria),
		SnapshotTakenAt:  snapshot.FetchedAt,
		Freshness:        snapshot.Freshness,
	}
}

// Service serves derived views over the snapshots yielded by a Source.
type Service struct {
	source Source
	nowFn  func() time.Time
	logger OperationLogger
}

// NewService wires a Service.
func NewService(source Source, now func() time.Time, options ...ServiceOption) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: source dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{source: source, nowFn: now}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// Today returns the evaluation date used for expiry classification.
func (service *Service) Today() Date {
	return DateOf(service.nowFn())
}

// Dashboard derives every dashboard view for criteria.
func (service *Service) Dashboard(ctx context.Context, criteria FilterCriteria) (Dashboard, error) {
	startedAt := service.nowFn()
	snapshot, err := service.source.FetchSnapshot(ctx)
	if err != nil {
		service.logOperation(ctx, OperationLog{Operation: operationDashboard, Criteria: criteria, Duration: service.since(startedAt), Error: err})
		return Dashboard{}, err
	}
	dashboard := BuildDashboard(snapshot, criteria, DateOf(startedAt))
	service.logOperation(ctx, OperationLog{
		Operation:     operationDashboard,
		Criteria:      criteria,
		Accounts:      len(snapshot.Accounts),
		Filtered:      len(dashboard.Accounts),
		SnapshotTaken: snapshot.FetchedAt,
		Duration:      service.since(startedAt),
	})
	return dashboard, nil
}

// AccountTable returns one sorted page of the filtered account table.
func (service *Service) AccountTable(ctx context.Context, criteria FilterCriteria, query TableQuery) (AccountPage, error) {
	startedAt := service.nowFn()
	snapshot, err := service.source.FetchSnapshot(ctx)
	if err != nil {
		service.logOperation(ctx, OperationLog{Operation: operationAccountTable, Criteria: criteria, Duration: service.since(startedAt), Error: err})
		return AccountPage{}, err
	}
	index := NewIndex(snapshot)
	filtered := Filter(index, criteria)
	page, err := BuildAccountPage(index, filtered, query)
	service.logOperation(ctx, OperationLog{
		Operation:     operationAccountTable,
		Criteria:      criteria,
		Accounts:      len(snapshot.Accounts),
		Filtered:      len(filtered),
		SnapshotTaken: snapshot.FetchedAt,
		Duration:      service.since(startedAt),
		Error:         err,
	})
	return page, err
}

// Compliance evaluates fleet, driver and route compliance as of today.
func (service *Service) Compliance(ctx context.Context) (ComplianceReport, error) {
	startedAt := service.nowFn()
	snapshot, err := service.source.FetchSnapshot(ctx)
	if err != nil {
		service.logOperation(ctx, OperationLog{Operation: operationCompliance, Duration: service.since(startedAt), Error: err})
		return ComplianceReport{}, err
	}
	report := EvaluateCompliance(NewIndex(snapshot), DateOf(startedAt))
	service.logOperation(ctx, OperationLog{
		Operation:     operationCompliance,
		Accounts:      len(snapshot.Accounts),
		SnapshotTaken: snapshot.FetchedAt,
		Duration:      service.since(startedAt),
	})
	return report, nil
}

// Snapshot returns the raw snapshot.
func (service *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	startedAt := service.nowFn()
	snapshot, err := service.source.FetchSnapshot(ctx)
	service.logOperation(ctx, OperationLog{
		Operation:     operationSnapshot,
		Accounts:      len(snapshot.Accounts),
		SnapshotTaken: snapshot.FetchedAt,
		Duration:      service.since(startedAt),
		Error:         err,
	})
	return snapshot, err
}

func (service *Service) since(startedAt time.Time) time.Duration {
	return service.nowFn().Sub(startedAt)
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}
