package client

import (
	"context"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// ClientInterface defines the interface for the TableSorter client
type ClientInterface interface {
	Reconcile(ctx context.Context, widgetID string, columns []Column, rows []Row) (*Result, error)
	Commit(ctx context.Context, widgetID string, configuration string) (*Result, error)
	GetConfiguration(ctx context.Context, widgetID string) (string, error)
	DeleteConfiguration(ctx context.Context, widgetID string) error
	Close() error
}
