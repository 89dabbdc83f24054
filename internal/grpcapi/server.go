package grpcapi

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nrjais/tablesorter/internal/db"
	"github.com/nrjais/tablesorter/internal/shape"
	"github.com/nrjais/tablesorter/internal/tableconfig"
	"github.com/nrjais/tablesorter/internal/widget"
	pb "github.com/nrjais/tablesorter/pkg/protos"
)

type server struct {
	registry *widget.Registry
	store    db.ConfigStore
}

func NewTableSorterServer(registry *widget.Registry, store db.ConfigStore) pb.TableSorterServiceServer {
	return &server{
		registry: registry,
		store:    store,
	}
}

func (s *server) Reconcile(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req reconcileRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.WidgetID == "" {
		req.WidgetID = uuid.NewString()
		slog.Info("Assigned widget id", "widget", req.WidgetID)
	}
	slog.Debug("gRPC Reconcile request",
		"widget", req.WidgetID,
		"columns", len(req.Columns),
		"rows", len(req.Rows))

	outcome, err := s.registry.Get(req.WidgetID).Update(ctx, shape.Dataset{Columns: req.Columns, Rows: req.Rows})
	if err != nil {
		return nil, toStatus(err, "Reconcile", req.WidgetID)
	}

	raw, err := tableconfig.Marshal(outcome.Config)
	if err != nil {
		return nil, toStatus(err, "Reconcile", req.WidgetID)
	}
	return encodeResponse(configurationResponse{
		WidgetID:      req.WidgetID,
		Configuration: []byte(raw),
		Changed:       &outcome.Changed,
		Origin:        outcome.Origin.String(),
	})
}

func (s *server) CommitConfiguration(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeWidgetRequest(in)
	if err != nil {
		return nil, err
	}

	ctrl := s.registry.Get(req.WidgetID)
	before := ctrl.Active()
	cfg, err := ctrl.Commit(ctx, string(req.Configuration))
	if err != nil {
		return nil, toStatus(err, "CommitConfiguration", req.WidgetID)
	}

	raw, err := tableconfig.Marshal(cfg)
	if err != nil {
		return nil, toStatus(err, "CommitConfiguration", req.WidgetID)
	}
	changed := tableconfig.HasConfigurationChanged(before, cfg)
	return encodeResponse(configurationResponse{
		WidgetID:      req.WidgetID,
		Configuration: []byte(raw),
		Changed:       &changed,
	})
}

func (s *server) GetConfiguration(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeWidgetRequest(in)
	if err != nil {
		return nil, err
	}

	var active *tableconfig.Configuration
	if ctrl, ok := s.registry.Lookup(req.WidgetID); ok {
		active = ctrl.Active()
	}

	var raw string
	if active != nil {
		raw, err = tableconfig.Marshal(active)
	} else {
		var found bool
		raw, found, err = s.store.Load(ctx, req.WidgetID)
		if err == nil && !found {
			return nil, status.Errorf(codes.NotFound, "No configuration stored for widget %s", req.WidgetID)
		}
	}
	if err != nil {
		return nil, toStatus(err, "GetConfiguration", req.WidgetID)
	}

	return encodeResponse(configurationResponse{
		WidgetID:      req.WidgetID,
		Configuration: []byte(raw),
	})
}

func (s *server) DeleteConfiguration(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeWidgetRequest(in)
	if err != nil {
		return nil, err
	}

	slog.Info("gRPC DeleteConfiguration request", "widget", req.WidgetID)
	if err := s.registry.Remove(ctx, req.WidgetID); err != nil {
		return nil, toStatus(err, "DeleteConfiguration", req.WidgetID)
	}
	return &structpb.Struct{}, nil
}

func decodeWidgetRequest(in *structpb.Struct) (widgetRequest, error) {
	var req widgetRequest
	if err := decodeRequest(in, &req); err != nil {
		return req, status.Error(codes.InvalidArgument, err.Error())
	}
	if req.WidgetID == "" {
		return req, status.Error(codes.InvalidArgument, "Widget id cannot be empty")
	}
	return req, nil
}

func toStatus(err error, method, widgetID string) error {
	switch {
	case errors.Is(err, widget.ErrInvalidDataset),
		errors.Is(err, tableconfig.ErrMalformedConfiguration),
		errors.Is(err, tableconfig.ErrEmptyConfiguration):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, db.ErrNotFound):
		return status.Errorf(codes.NotFound, "No configuration stored for widget %s", widgetID)
	default:
		slog.Error("gRPC request failed", "method", method, "widget", widgetID, "error", err)
		return status.Errorf(codes.Internal, "Failed to %s", method)
	}
}
