package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MarkoPoloResearchLab/logidash/pkg/dashboard"
	"go.uber.org/zap"
)

const (
	defaultPollInterval = 15 * time.Second
	defaultFetchTimeout = 10 * time.Second
)

// ErrInvalidProviderConfig indicates the provider was constructed with missing dependencies.
var ErrInvalidProviderConfig = errors.New("invalid provider configuration")

// Status describes the provider state as exposed to clients.
type Status struct {
	Loading     bool      `json:"loading"`
	Ready       bool      `json:"ready"`
	Stale       bool      `json:"stale"`
	Error       string    `json:"error,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt"`
	LastAttempt time.Time `json:"lastAttempt"`
}

// Option configures a Provider.
type Option func(*Provider)

// WithPollInterval sets the delay between scheduled fetches.
func WithPollInterval(interval time.Duration) Option {
	return func(provider *Provider) {
		provider.interval = interval
	}
}

// WithFetchTimeout bounds each fetch.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(provider *Provider) {
		provider.fetchTimeout = timeout
	}
}

// WithLogger sets the zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(provider *Provider) {
		if logger != nil {
			provider.logger = logger
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(provider *Provider) {
		if now != nil {
			provider.nowFn = now
		}
	}
}

type state struct {
	snapshot    *dashboard.Snapshot
	applied     uint64
	inFlight    int
	err         error
	lastAttempt time.Time
}

// Provider polls a Source and serves the latest applied snapshot to readers.
type Provider struct {
	source       dashboard.Source
	interval     time.Duration
	fetchTimeout time.Duration
	logger       *zap.Logger
	nowFn        func() time.Time

	sequence atomic.Uint64
	mutex    sync.RWMutex
	state    state
}

// New constructs a Provider. Nothing is fetched until Refresh or Run is called.
func New(source dashboard.Source, options ...Option) (*Provider, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: source is nil", ErrInvalidProviderConfig)
	}
	provider := &Provider{
		source:       source,
		interval:     defaultPollInterval,
		fetchTimeout: defaultFetchTimeout,
		logger:       zap.NewNop(),
		nowFn:        time.Now,
	}
	for _, option := range options {
		if option != nil {
			option(provider)
		}
	}
	if provider.interval <= 0 {
		return nil, fmt.Errorf("%w: poll interval must be positive", ErrInvalidProviderConfig)
	}
	if provider.fetchTimeout <= 0 {
		return nil, fmt.Errorf("%w: fetch timeout must be positive", ErrInvalidProviderConfig)
	}
	return provider, nil
}

// Run fetches immediately and then once per interval until ctx is cancelled.
// Each tick fetches in its own goroutine; Run waits for them before returning.
func (provider *Provider) Run(ctx context.Context) error {
	var wait sync.WaitGroup
	defer wait.Wait()

	launch := func() {
		wait.Add(1)
		go func() {
			defer wait.Done()
			_ = provider.Refresh(ctx)
		}()
	}
	launch()
	ticker := time.NewTicker(provider.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			launch()
		}
	}
}

// Refresh performs one fetch. The result is applied only when no newer fetch has been applied.
func (provider *Provider) Refresh(ctx context.Context) error {
	sequence := provider.sequence.Add(1)
	provider.mutex.Lock()
	provider.state.inFlight++
	provider.state.lastAttempt = provider.nowFn()
	provider.mutex.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, provider.fetchTimeout)
	snapshot, err := provider.source.FetchSnapshot(fetchCtx)
	cancel()

	provider.mutex.Lock()
	defer provider.mutex.Unlock()
	provider.state.inFlight--
	if sequence < provider.state.applied {
		provider.logger.Debug("discarding superseded fetch", zap.Uint64("sequence", sequence), zap.Uint64("applied", provider.state.applied))
		return err
	}
	provider.state.applied = sequence
	if err != nil {
		provider.state.err = err
		provider.logger.Warn("snapshot fetch failed", zap.Uint64("sequence", sequence), zap.Bool("stale", provider.state.snapshot != nil), zap.Error(err))
		return err
	}
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = provider.nowFn()
	}
	provider.state.snapshot = &snapshot
	provider.state.err = nil
	provider.logger.Debug("snapshot applied",
		zap.Uint64("sequence", sequence),
		zap.Int("accounts", len(snapshot.Accounts)),
		zap.Int("vehicles", len(snapshot.Vehicles)),
		zap.Int("routes", len(snapshot.Routes)),
	)
	return nil
}

// FetchSnapshot returns the latest applied snapshot, even when the last fetch failed.
// The returned Freshness is read under the same lock as the snapshot.
// Before any snapshot exists it reports ErrSnapshotNotReady while loading, or the fetch error.
func (provider *Provider) FetchSnapshot(context.Context) (dashboard.Snapshot, error) {
	provider.mutex.RLock()
	defer provider.mutex.RUnlock()
	if provider.state.snapshot != nil {
		snapshot := *provider.state.snapshot
		snapshot.Freshness = dashboard.Freshness{}
		if provider.state.err != nil {
			snapshot.Freshness = dashboard.Freshness{Stale: true, SourceError: provider.state.err.Error()}
		}
		return snapshot, nil
	}
	if provider.state.err != nil {
		if errors.Is(provider.state.err, dashboard.ErrSourceUnavailable) {
			return dashboard.Snapshot{}, provider.state.err
		}
		return dashboard.Snapshot{}, fmt.Errorf("%w: %w", dashboard.ErrSourceUnavailable, provider.state.err)
	}
	return dashboard.Snapshot{}, dashboard.ErrSnapshotNotReady
}

// Status reports loading, freshness and the last fetch error.
func (provider *Provider) Status() Status {
	provider.mutex.RLock()
	defer provider.mutex.RUnlock()
	status := Status{
		Loading:     provider.state.inFlight > 0,
		Ready:       provider.state.snapshot != nil,
		LastAttempt: provider.state.lastAttempt,
	}
	if provider.state.snapshot != nil {
		status.FetchedAt = provider.state.snapshot.FetchedAt
	}
	if provider.state.err != nil {
		status.Error = provider.state.err.Error()
		status.Stale = status.Ready
	}
	return status
}
