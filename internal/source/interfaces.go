package source

import (
	"context"

	"github.com/nrjais/tablesorter/internal/shape"
	"github.com/nrjais/tablesorter/internal/widget"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// Fetcher produces a dataset snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) (shape.Dataset, error)
}

// Sink receives dataset snapshots, typically a widget controller.
type Sink interface {
	Update(ctx context.Context, ds shape.Dataset) (widget.Outcome, error)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(ctx context.Context, ds shape.Dataset) (widget.Outcome, error)

func (f SinkFunc) Update(ctx context.Context, ds shape.Dataset) (widget.Outcome, error) {
	return f(ctx, ds)
}
