package widget

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/nrjais/tablesorter/internal/config"
	"github.com/nrjais/tablesorter/internal/db"
	"github.com/nrjais/tablesorter/internal/metrics"
)

// Registry owns the controllers of every widget instance the process serves.
type Registry struct {
	store     db.ConfigStore
	grid      GridAdapter
	debounce  time.Duration
	idleTTL   time.Duration
	opTimeout time.Duration

	mu      sync.Mutex
	widgets map[string]*Controller
}

func NewRegistry(store db.ConfigStore, grid GridAdapter, widgetCfg config.WidgetConfig, opTimeout time.Duration) *Registry {
	return &Registry{
		store:     store,
		grid:      grid,
		debounce:  time.Duration(widgetCfg.PersistDebounceMillis) * time.Millisecond,
		idleTTL:   time.Duration(widgetCfg.IdleTTLSecs) * time.Second,
		opTimeout: opTimeout,
		widgets:   make(map[string]*Controller),
	}
}

// Get returns the controller for id, creating it on first use.
func (r *Registry) Get(id string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ctrl, ok := r.widgets[id]; ok {
		return ctrl
	}
	ctrl := NewController(id, r.store, r.grid, r.debounce, r.opTimeout)
	r.widgets[id] = ctrl
	metrics.ActiveWidgets.Set(float64(len(r.widgets)))
	slog.Debug("Widget registered", "widget", id)
	return ctrl
}

func (r *Registry) Lookup(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctrl, ok := r.widgets[id]
	return ctrl, ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.widgets)
}

// Remove forgets a widget and deletes its persisted configuration.
func (r *Registry) Remove(ctx context.Context, id string) error {
	ctrl := r.Get(id)
	err := ctrl.Reset(ctx)

	r.mu.Lock()
	delete(r.widgets, id)
	metrics.ActiveWidgets.Set(float64(len(r.widgets)))
	r.mu.Unlock()
	return err
}

// FlushAll writes every pending save. It keeps going past failures and
// returns them joined.
func (r *Registry) FlushAll(ctx context.Context) error {
	var errs []error
	for _, ctrl := range r.snapshot() {
		if err := ctrl.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StartCleanupLoop evicts widgets idle for longer than the configured TTL
// until ctx is cancelled. Evicted widgets are flushed first.
func (r *Registry) StartCleanupLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	slog.Info("Starting widget cleanup loop", "idle_ttl", r.idleTTL)

	ticker := time.NewTicker(r.idleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Widget cleanup loop stopping due to context cancellation")
			return
		case now := <-ticker.C:
			r.evictIdle(ctx, now)
		}
	}
}

func (r *Registry) evictIdle(ctx context.Context, now time.Time) int {
	evicted := 0
	for _, ctrl := range r.snapshot() {
		if now.Sub(ctrl.idleSince()) < r.idleTTL {
			continue
		}
		if err := ctrl.Flush(ctx); err != nil {
			slog.Warn("Keeping idle widget with unsaved configuration",
				"widget", ctrl.ID(),
				"error", err)
			continue
		}

		if r.evictIfIdle(ctrl, now) {
			evicted++
		}
	}

	if evicted > 0 {
		slog.Info("Evicted idle widgets", "count", evicted)
	}
	return evicted
}

// evictIfIdle removes ctrl unless it was used or modified after its flush.
func (r *Registry) evictIfIdle(ctrl *Controller, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.widgets[ctrl.ID()] != ctrl || !ctrl.evictable(now, r.idleTTL) {
		return false
	}
	delete(r.widgets, ctrl.ID())
	metrics.ActiveWidgets.Set(float64(len(r.widgets)))
	return true
}

func (r *Registry) snapshot() []*Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Values(r.widgets)
}
