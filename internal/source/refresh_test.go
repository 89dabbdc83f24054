package source

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/nrjais/tablesorter/internal/shape"
	"github.com/nrjais/tablesorter/internal/source/mocks"
	"github.com/nrjais/tablesorter/internal/widget"
)

func TestRefresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	ds := shape.Dataset{Columns: []shape.Column{{Name: "a"}}, Rows: []shape.Row{{"a": "x"}}}

	t.Run("pushes fetched dataset", func(t *testing.T) {
		fetcher := mocks.NewMockFetcher(ctrl)
		sink := mocks.NewMockSink(ctrl)
		fetcher.EXPECT().Fetch(ctx).Return(ds, nil)
		sink.EXPECT().Update(ctx, ds).Return(widget.Outcome{Changed: true}, nil)

		assert.True(t, refresh(ctx, fetcher, sink))
	})

	t.Run("fetch failure skips the sink", func(t *testing.T) {
		fetcher := mocks.NewMockFetcher(ctrl)
		sink := mocks.NewMockSink(ctrl)
		fetcher.EXPECT().Fetch(ctx).Return(shape.Dataset{}, errors.New("mongo down"))

		assert.False(t, refresh(ctx, fetcher, sink))
	})

	t.Run("sink failure", func(t *testing.T) {
		fetcher := mocks.NewMockFetcher(ctrl)
		sink := mocks.NewMockSink(ctrl)
		fetcher.EXPECT().Fetch(ctx).Return(ds, nil)
		sink.EXPECT().Update(ctx, ds).Return(widget.Outcome{}, errors.New("grid gone"))

		assert.False(t, refresh(ctx, fetcher, sink))
	})
}

func TestStartRefreshLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := mocks.NewMockFetcher(ctrl)
	sink := mocks.NewMockSink(ctrl)

	updated := make(chan struct{}, 1)
	fetcher.EXPECT().Fetch(gomock.Any()).Return(shape.Dataset{}, nil).MinTimes(1)
	sink.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, shape.Dataset) (widget.Outcome, error) {
			select {
			case updated <- struct{}{}:
			default:
			}
			return widget.Outcome{}, nil
		}).MinTimes(1)

	var wg sync.WaitGroup
	wg.Add(1)
	go StartRefreshLoop(ctx, &wg, fetcher, sink, time.Hour)

	select {
	case <-updated:
	case <-time.After(time.Second):
		t.Fatal("initial refresh did not run")
	}

	cancel()
	wg.Wait()
}
