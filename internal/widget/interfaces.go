package widget

import (
	"context"

	"github.com/nrjais/tablesorter/internal/tableconfig"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// GridAdapter hands a reconciled configuration to the grid that renders a
// widget.
type GridAdapter interface {
	Apply(ctx context.Context, widgetID string, cfg *tableconfig.Configuration) error
}

// GridAdapterFunc adapts a plain function to GridAdapter.
type GridAdapterFunc func(ctx context.Context, widgetID string, cfg *tableconfig.Configuration) error

func (f GridAdapterFunc) Apply(ctx context.Context, widgetID string, cfg *tableconfig.Configuration) error {
	return f(ctx, widgetID, cfg)
}
