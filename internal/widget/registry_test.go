package widget

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nrjais/tablesorter/internal/config"
	dbmocks "github.com/nrjais/tablesorter/internal/db/mocks"
	"github.com/nrjais/tablesorter/internal/shape"
)

func newTestRegistry(ctrl *gomock.Controller, debounceMillis int) (*Registry, *dbmocks.MockConfigStore) {
	store := dbmocks.NewMockConfigStore(ctrl)
	cfg := config.WidgetConfig{PersistDebounceMillis: debounceMillis, IdleTTLSecs: 60}
	return NewRegistry(store, nil, cfg, time.Second), store
}

func TestRegistry_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, _ := newTestRegistry(ctrl, 0)

	first := registry.Get("w1")
	assert.Same(t, first, registry.Get("w1"))
	assert.NotSame(t, first, registry.Get("w2"))
	assert.Equal(t, 2, registry.Len())

	found, ok := registry.Lookup("w1")
	assert.True(t, ok)
	assert.Same(t, first, found)

	_, ok = registry.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_Remove(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	registry, store := newTestRegistry(ctrl, 0)
	store.EXPECT().Delete(gomock.Any(), "w1").Return(nil)

	registry.Get("w1")
	require.NoError(t, registry.Remove(ctx, "w1"))
	assert.Equal(t, 0, registry.Len())
}

func TestRegistry_FlushAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	registry, store := newTestRegistry(ctrl, 3_600_000)

	store.EXPECT().Load(gomock.Any(), gomock.Any()).Return("", false, nil).Times(2)
	store.EXPECT().Save(gomock.Any(), "w1", gomock.Any()).Return(nil)
	store.EXPECT().Save(gomock.Any(), "w2", gomock.Any()).Return(errors.New("timeout"))

	_, err := registry.Get("w1").Update(ctx, salesDataset())
	require.NoError(t, err)
	_, err = registry.Get("w2").Update(ctx, salesDataset())
	require.NoError(t, err)

	err = registry.FlushAll(ctx)
	assert.ErrorContains(t, err, "timeout")
	assert.ErrorContains(t, err, "w2")
}

func TestRegistry_EvictIdle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("recent widgets are kept", func(t *testing.T) {
		registry, _ := newTestRegistry(ctrl, 0)
		registry.Get("w1")

		assert.Equal(t, 0, registry.evictIdle(ctx, time.Now()))
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("idle widgets are flushed and evicted", func(t *testing.T) {
		registry, store := newTestRegistry(ctrl, 3_600_000)
		store.EXPECT().Load(gomock.Any(), "w1").Return("", false, nil)
		store.EXPECT().Save(gomock.Any(), "w1", gomock.Any()).Return(nil)

		_, err := registry.Get("w1").Update(ctx, salesDataset())
		require.NoError(t, err)

		assert.Equal(t, 1, registry.evictIdle(ctx, time.Now().Add(time.Hour)))
		assert.Equal(t, 0, registry.Len())
	})

	t.Run("widgets that fail to flush are kept", func(t *testing.T) {
		registry, store := newTestRegistry(ctrl, 3_600_000)
		store.EXPECT().Load(gomock.Any(), "w1").Return("", false, nil)
		store.EXPECT().Save(gomock.Any(), "w1", gomock.Any()).Return(errors.New("store down"))

		_, err := registry.Get("w1").Update(ctx, salesDataset())
		require.NoError(t, err)

		assert.Equal(t, 0, registry.evictIdle(ctx, time.Now().Add(time.Hour)))
		assert.Equal(t, 1, registry.Len())
	})
}

func TestRegistry_EvictIfIdle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	later := time.Now().Add(time.Hour)

	t.Run("update after flush keeps the widget", func(t *testing.T) {
		registry, store := newTestRegistry(ctrl, 3_600_000)
		store.EXPECT().Load(gomock.Any(), "w1").Return("", false, nil).Times(2)
		store.EXPECT().Save(gomock.Any(), "w1", gomock.Any()).Return(nil)

		widget := registry.Get("w1")
		_, err := widget.Update(ctx, salesDataset())
		require.NoError(t, err)
		require.NoError(t, widget.Flush(ctx))

		_, err = widget.Update(ctx, salesDataset(shape.Column{Name: "units", DisplayLabel: "Units", IsNumeric: true}))
		require.NoError(t, err)

		assert.False(t, registry.evictIfIdle(widget, later))
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("busy widget is kept", func(t *testing.T) {
		registry, _ := newTestRegistry(ctrl, 0)
		widget := registry.Get("w1")

		widget.mu.Lock()
		evicted := registry.evictIfIdle(widget, later)
		widget.mu.Unlock()

		assert.False(t, evicted)
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("replaced widget is not removed", func(t *testing.T) {
		registry, _ := newTestRegistry(ctrl, 0)
		stale := NewController("w1", nil, nil, 0, time.Second)
		registry.Get("w1")

		assert.False(t, registry.evictIfIdle(stale, later))
		assert.Equal(t, 1, registry.Len())
	})

	t.Run("clean idle widget is removed", func(t *testing.T) {
		registry, _ := newTestRegistry(ctrl, 0)
		widget := registry.Get("w1")

		assert.True(t, registry.evictIfIdle(widget, later))
		assert.Equal(t, 0, registry.Len())
	})
}

func TestRegistry_StartCleanupLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	registry, _ := newTestRegistry(ctrl, 0)
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go registry.StartCleanupLoop(ctx, &wg)

	cancel()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
