package widget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nrjais/tablesorter/internal/db"
	"github.com/nrjais/tablesorter/internal/metrics"
	"github.com/nrjais/tablesorter/internal/shape"
	"github.com/nrjais/tablesorter/internal/tableconfig"
)

var ErrInvalidDataset = errors.New("invalid dataset")

// Outcome describes a single dataset update.
type Outcome struct {
	Config  *tableconfig.Configuration
	Origin  tableconfig.Origin
	Changed bool
}

// Controller keeps the configuration of one widget instance consistent with
// the datasets it receives. Calls are serialized per instance.
type Controller struct {
	id        string
	store     db.ConfigStore
	grid      GridAdapter
	debounce  time.Duration
	opTimeout time.Duration

	mu       sync.Mutex
	active   *tableconfig.Configuration
	pending  string
	dirty    bool
	timer    *time.Timer
	lastUsed time.Time
}

const defaultOpTimeout = 5 * time.Second

func NewController(id string, store db.ConfigStore, grid GridAdapter, debounce, opTimeout time.Duration) *Controller {
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	return &Controller{
		id:        id,
		store:     store,
		grid:      grid,
		debounce:  debounce,
		opTimeout: opTimeout,
		lastUsed:  time.Now(),
	}
}

func (c *Controller) ID() string {
	return c.id
}

// Update reconciles the persisted configuration against ds. The grid is only
// updated, and the result only persisted, when the configuration changed.
func (c *Controller) Update(ctx context.Context, ds shape.Dataset) (Outcome, error) {
	if err := ds.Validate(); err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = time.Now()

	previous, err := c.previousLocked(ctx)
	if err != nil {
		return Outcome{}, err
	}

	result := tableconfig.Build(ds.Columns, ds.Rows, previous)
	metrics.Reconciliations.WithLabelValues(result.Origin.String()).Inc()
	if result.ParseErr != nil {
		metrics.RecoveredConfigurations.Inc()
		slog.Warn("Persisted configuration is malformed, starting fresh",
			"widget", c.id,
			"error", result.ParseErr)
	}

	outcome := Outcome{Config: result.Config, Origin: result.Origin}
	if !tableconfig.HasConfigurationChanged(c.active, result.Config) {
		metrics.UnchangedConfigurations.Inc()
		slog.Debug("Configuration unchanged", "widget", c.id, "origin", result.Origin)
		return outcome, nil
	}

	if err := c.applyLocked(ctx, result.Config); err != nil {
		return Outcome{}, err
	}
	outcome.Changed = true
	return outcome, nil
}

// Commit stores a configuration produced by the grid itself, for example
// after the user resized or re-sorted a column.
func (c *Controller) Commit(ctx context.Context, raw string) (*tableconfig.Configuration, error) {
	cfg, err := tableconfig.Parse(raw)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = time.Now()

	if !tableconfig.HasConfigurationChanged(c.active, cfg) {
		return cfg, nil
	}
	c.active = cfg
	return cfg, c.persistLocked(ctx)
}

// Active returns a copy of the configuration last applied to the grid.
func (c *Controller) Active() *tableconfig.Configuration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active.Clone()
}

// Flush writes a pending debounced save immediately.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	return c.saveLocked(ctx)
}

// Reset drops the active and pending configuration and removes the
// persisted one. A widget whose only configuration was still waiting to be
// saved is reset without error.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	hadPending := c.dirty
	c.active = nil
	c.pending = ""
	c.dirty = false

	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()
	err := c.store.Delete(opCtx, c.id)
	if hadPending && errors.Is(err, db.ErrNotFound) {
		return nil
	}
	return err
}

func (c *Controller) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

// evictable reports whether the controller has nothing left to save and has
// been idle for at least ttl. A controller busy with another call is not.
func (c *Controller) evictable(now time.Time, ttl time.Duration) bool {
	if !c.mu.TryLock() {
		return false
	}
	defer c.mu.Unlock()
	return !c.dirty && now.Sub(c.lastUsed) >= ttl
}

// previousLocked returns the newest serialized configuration, preferring an
// unsaved one over the stored copy.
func (c *Controller) previousLocked(ctx context.Context) (string, error) {
	if c.dirty {
		return c.pending, nil
	}

	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()
	payload, _, err := c.store.Load(opCtx, c.id)
	if err != nil {
		return "", fmt.Errorf("failed to load configuration for widget %s: %w", c.id, err)
	}
	return payload, nil
}

func (c *Controller) applyLocked(ctx context.Context, cfg *tableconfig.Configuration) error {
	if c.grid != nil {
		if err := c.grid.Apply(ctx, c.id, cfg.Clone()); err != nil {
			metrics.ApplyErrors.Inc()
			return fmt.Errorf("failed to apply configuration to widget %s: %w", c.id, err)
		}
	}
	metrics.AppliedConfigurations.Inc()
	c.active = cfg
	return c.persistLocked(ctx)
}

func (c *Controller) persistLocked(ctx context.Context) error {
	payload, err := tableconfig.Marshal(c.active)
	if err != nil {
		return fmt.Errorf("failed to serialize configuration for widget %s: %w", c.id, err)
	}
	c.pending = payload
	c.dirty = true

	if c.debounce <= 0 {
		return c.saveLocked(ctx)
	}
	if c.timer == nil {
		c.timer = time.AfterFunc(c.debounce, c.flushDebounced)
	} else {
		c.timer.Reset(c.debounce)
	}
	return nil
}

func (c *Controller) flushDebounced() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.saveLocked(context.Background()); err != nil {
		slog.Error("Debounced configuration save failed", "widget", c.id, "error", err)
	}
}

func (c *Controller) saveLocked(ctx context.Context) error {
	if !c.dirty {
		return nil
	}

	opCtx, cancel := context.WithTimeout(ctx, c.opTimeout)
	defer cancel()
	if err := c.store.Save(opCtx, c.id, c.pending); err != nil {
		metrics.PersistErrors.Inc()
		return fmt.Errorf("failed to save configuration for widget %s: %w", c.id, err)
	}
	metrics.PersistedWrites.Inc()
	c.dirty = false
	slog.Debug("Configuration persisted", "widget", c.id, "bytes", len(c.pending))
	return nil
}
