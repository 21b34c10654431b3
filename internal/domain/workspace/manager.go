package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/glasspane/workspaced/internal/domain/layout"
	"github.com/glasspane/workspaced/internal/infrastructure/logging"
	"github.com/glasspane/workspaced/internal/infrastructure/monitoring"
	"github.com/glasspane/workspaced/internal/shared/types"
)

// DefaultRegistryKey is the well-known storage key the full registry
// is persisted under.
const DefaultRegistryKey = "workspace.applications"

// EventType classifies registry change notifications.
type EventType string

const (
	EventUpdated EventType = "updated"
	EventClosed  EventType = "closed"
)

// Event describes one registry change, delivered to subscribers after
// the change has been persisted.
type Event struct {
	Type        EventType          `json:"type"`
	UUID        string             `json:"uuid"`
	Application *types.Application `json:"application,omitempty"`
}

// Manager is the single mutating entry point for opening, updating and
// closing applications. It owns the invariants that the registry holds
// at most one entry per UUID and never a closed or malformed entry.
//
// Storage is the source of truth: every operation re-reads the full
// registry and mutating operations write it back in full. The mutex
// serializes the read-modify-write sequence so concurrent callers
// cannot lose updates.
type Manager struct {
	mu         sync.Mutex
	store      Store
	key        string
	reconciler *layout.Reconciler
	logger     *logging.Logger
	metrics    *monitoring.Metrics

	subMu       sync.RWMutex
	subscribers []func(Event)
}

// Store is the persistence capability the manager requires, satisfied
// by the storage package.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// NewManager creates a workspace manager persisting through store
// under key (DefaultRegistryKey when empty).
func NewManager(store Store, key string, reconciler *layout.Reconciler, logger *logging.Logger) *Manager {
	if key == "" {
		key = DefaultRegistryKey
	}
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Manager{
		store:      store,
		key:        key,
		reconciler: reconciler,
		logger:     logger,
	}
}

// WithMetrics adds metrics tracking to the manager.
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// Subscribe registers a callback invoked after every persisted change.
func (m *Manager) Subscribe(fn func(Event)) {
	m.subMu.Lock()
	m.subscribers = append(m.subscribers, fn)
	m.subMu.Unlock()
}

// List returns the registry entries matching the filter, in registry
// order. A nil filter matches everything.
func (m *Manager) List(ctx context.Context, filter *types.Filter) ([]types.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	registry, err := m.load(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]types.Application, 0, len(registry))
	for i := range registry {
		if filter.Match(&registry[i]) {
			out = append(out, registry[i])
		}
	}
	return out, nil
}

// ListOpen returns every entry whose status is not closed. Closed
// entries are evicted on write, so in practice this is the whole
// registry; the filter guards against stale persisted data.
func (m *Manager) ListOpen(ctx context.Context) ([]types.Application, error) {
	all, err := m.List(ctx, nil)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, app := range all {
		if !app.State.Status.Closed() {
			out = append(out, app)
		}
	}
	return out, nil
}

// Get returns the entry with the given identity, if present.
func (m *Manager) Get(ctx context.Context, uuid string) (*types.Application, bool, error) {
	apps, err := m.List(ctx, &types.Filter{UUID: &uuid})
	if err != nil {
		return nil, false, err
	}
	if len(apps) == 0 {
		return nil, false, nil
	}
	return &apps[0], true, nil
}

// Update applies a partial update to one application entry.
//
// A patch whose state is closed removes the entry (a no-op when absent)
// and returns nil. Otherwise the entry is created on first sight of the
// UUID, its layout is reconciled against the previous one, the patch's
// defined top-level fields overwrite, and the validated result is
// persisted and returned.
func (m *Manager) Update(ctx context.Context, patch types.ApplicationPatch) (*types.Application, error) {
	if patch.UUID == "" {
		return nil, fmt.Errorf("application uuid is required")
	}

	app, event, err := m.apply(ctx, patch)
	if err != nil {
		return nil, err
	}
	m.notify(event)
	return app, nil
}

// Close removes the entry with the given identity. Closing an absent
// entry is a no-op, not an error.
func (m *Manager) Close(ctx context.Context, uuid string) error {
	_, err := m.Update(ctx, types.ApplicationPatch{
		UUID:  uuid,
		State: &types.ApplicationState{Status: types.StatusClosed},
	})
	return err
}

// Stats returns totals by status for health reporting.
func (m *Manager) Stats(ctx context.Context) (types.Stats, error) {
	apps, err := m.List(ctx, nil)
	if err != nil {
		return types.Stats{}, err
	}

	stats := types.Stats{TotalApps: len(apps)}
	for _, app := range apps {
		switch app.State.Status {
		case types.StatusOpen:
			stats.OpenApps++
		case types.StatusMinimized:
			stats.MinimizedApps++
		case types.StatusMaximized:
			stats.MaximizedApps++
		}
	}
	return stats, nil
}

// apply runs one read-modify-write cycle under the registry lock.
func (m *Manager) apply(ctx context.Context, patch types.ApplicationPatch) (*types.Application, Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	registry, err := m.load(ctx)
	if err != nil {
		return nil, Event{}, err
	}

	if patch.State != nil && patch.State.Status.Closed() {
		kept := registry[:0]
		for _, app := range registry {
			if app.UUID != patch.UUID {
				kept = append(kept, app)
			}
		}
		if err := m.persist(ctx, kept); err != nil {
			return nil, Event{}, err
		}
		m.logger.Debug("Application closed", zap.String("uuid", patch.UUID))
		if m.metrics != nil {
			m.metrics.AppsClosed.Inc()
			m.metrics.AppsResident.Set(float64(len(kept)))
		}
		return nil, Event{Type: EventClosed, UUID: patch.UUID}, nil
	}

	found, idx := lookup(registry, patch.UUID)

	var previous *types.Layout
	next := types.Application{UUID: patch.UUID, State: types.ApplicationState{Status: types.StatusOpen}}
	if found != nil {
		next = *found
		previous = &found.Layout
	}
	if patch.State != nil {
		next.State = *patch.State
	}
	if patch.Configuration != nil {
		next.Configuration = patch.Configuration
	}
	next.Layout = m.reconciler.Reconcile(patch.Layout, previous)

	if found != nil {
		registry[idx] = next
	} else {
		registry = append(registry, next)
	}

	if err := m.persist(ctx, registry); err != nil {
		return nil, Event{}, err
	}

	m.logger.Debug("Application updated",
		zap.String("uuid", next.UUID),
		zap.String("status", string(next.State.Status)),
		zap.Bool("created", found == nil),
	)
	if m.metrics != nil {
		if found == nil {
			m.metrics.AppsOpened.Inc()
		}
		m.metrics.AppsUpdated.Inc()
		m.metrics.AppsResident.Set(float64(len(registry)))
	}

	return &next, Event{Type: EventUpdated, UUID: next.UUID, Application: &next}, nil
}

// lookup finds an entry by identity. A nil result is the "first open"
// case, not an error.
func lookup(registry []types.Application, uuid string) (*types.Application, int) {
	for i := range registry {
		if registry[i].UUID == uuid {
			return &registry[i], i
		}
	}
	return nil, -1
}

// load reads the full registry, dropping malformed slots silently. A
// corrupted top-level value degrades to an empty registry rather than
// failing the operation.
func (m *Manager) load(ctx context.Context) ([]types.Application, error) {
	data, found, err := m.store.Get(ctx, m.key)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}
	if !found || len(data) == 0 {
		return nil, nil
	}

	var raw []json.RawMessage
	if err := sonic.Unmarshal(data, &raw); err != nil {
		m.logger.Warn("Discarding corrupted registry value", zap.Error(err))
		return nil, nil
	}

	registry := make([]types.Application, 0, len(raw))
	for _, slot := range raw {
		var app types.Application
		if err := sonic.Unmarshal(slot, &app); err != nil || app.UUID == "" {
			m.logger.Debug("Dropping malformed registry slot", zap.Error(err))
			continue
		}
		registry = append(registry, app)
	}
	return registry, nil
}

// persist writes the full registry back, filtered of empty slots.
func (m *Manager) persist(ctx context.Context, registry []types.Application) error {
	filtered := make([]types.Application, 0, len(registry))
	for _, app := range registry {
		if app.UUID != "" {
			filtered = append(filtered, app)
		}
	}

	data, err := sonic.Marshal(filtered)
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := m.store.Set(ctx, m.key, data); err != nil {
		return fmt.Errorf("failed to write registry: %w", err)
	}
	return nil
}

// notify delivers an event to subscribers outside the registry lock.
func (m *Manager) notify(event Event) {
	m.subMu.RLock()
	subs := make([]func(Event), len(m.subscribers))
	copy(subs, m.subscribers)
	m.subMu.RUnlock()

	for _, fn := range subs {
		fn(event)
	}
}
