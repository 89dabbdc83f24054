package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/nrjais/tablesorter/internal/config"
	"github.com/nrjais/tablesorter/internal/db"
	"github.com/nrjais/tablesorter/internal/grpcapi"
	"github.com/nrjais/tablesorter/internal/metrics"
	"github.com/nrjais/tablesorter/internal/shape"
	"github.com/nrjais/tablesorter/internal/source"
	"github.com/nrjais/tablesorter/internal/tableconfig"
	"github.com/nrjais/tablesorter/internal/widget"
	pb "github.com/nrjais/tablesorter/pkg/protos"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	slog.Info("Starting tablesorter server...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := db.Open(ctx, cfg.StoreOptions)
	if err != nil {
		slog.Error("Configuration store setup failed", "driver", cfg.StoreOptions.Driver, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Error closing configuration store", "error", err)
		}
	}()

	opTimeout := time.Duration(cfg.StoreOptions.OpTimeoutSecs) * time.Second
	registry := widget.NewRegistry(store, widget.GridAdapterFunc(logGridUpdate), cfg.WidgetOptions, opTimeout)

	var wg sync.WaitGroup
	bgTaskCtx, bgTaskCancel := context.WithCancel(ctx)

	wg.Add(1)
	go registry.StartCleanupLoop(bgTaskCtx, &wg)

	mongoClient := startMongoSource(bgTaskCtx, &wg, registry, cfg)

	grpcServer := startGRPCServer(&wg, registry, store, cfg)
	metricsServer := startMetricsServer(&wg, cfg)

	waitForShutdownSignal()
	slog.Info("Shutting down server...")

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Error shutting down metrics server", "error", err)
		}
		shutdownCancel()
	}

	slog.Info("Signalling background tasks to stop...")
	bgTaskCancel()
	slog.Info("Waiting for background tasks to stop...")
	wg.Wait()

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := registry.FlushAll(flushCtx); err != nil {
		slog.Error("Failed to flush pending configurations", "error", err)
	}
	flushCancel()

	if mongoClient != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
		disconnectCancel()
	}

	slog.Info("Server stopped gracefully.")
}

// logGridUpdate stands in for a rendering grid. Hosts read configurations
// back through the gRPC responses.
func logGridUpdate(_ context.Context, widgetID string, cfg *tableconfig.Configuration) error {
	slog.Info("Widget configuration updated",
		"widget", widgetID,
		"columns", len(cfg.Columns),
		"layout", len(cfg.Layout),
		"sorted", cfg.Sort != nil)
	return nil
}

func startMongoSource(ctx context.Context, wg *sync.WaitGroup, registry *widget.Registry, cfg *config.Config) *mongo.Client {
	opts := cfg.SourceOptions
	if opts.MongoURL == "" {
		slog.Info("No MongoDB source configured")
		return nil
	}

	client, dbName, err := source.ConnectMongo(ctx, opts.MongoURL)
	if err != nil {
		slog.Error("MongoDB source disabled", "error", err)
		return nil
	}

	src := source.NewMongoSource(client.Database(dbName).Collection(opts.Collection), opts.RowLimit)
	interval := time.Duration(opts.RefreshIntervalSecs) * time.Second
	slog.Info("MongoDB source enabled",
		"collection", opts.Collection,
		"widget", opts.WidgetID,
		"interval", interval)

	wg.Add(1)
	sink := source.SinkFunc(func(ctx context.Context, ds shape.Dataset) (widget.Outcome, error) {
		return registry.Get(opts.WidgetID).Update(ctx, ds)
	})
	go source.StartRefreshLoop(ctx, wg, src, sink, interval)
	return client
}

func startGRPCServer(wg *sync.WaitGroup, registry *widget.Registry, store db.ConfigStore, cfg *config.Config) *grpc.Server {
	lis, err := net.Listen("tcp", cfg.GRPCPort)
	if err != nil {
		slog.Error("Failed to listen, gRPC server not started", "port", cfg.GRPCPort, "error", err)
		return nil
	}

	s := grpc.NewServer()
	pb.RegisterTableSorterServiceServer(s, grpcapi.NewTableSorterServer(registry, store))
	reflection.Register(s)

	slog.Info("gRPC server listening", "port", cfg.GRPCPort)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.Serve(lis); err != nil {
			if !errors.Is(err, grpc.ErrServerStopped) {
				slog.Error("Failed to serve gRPC", "error", err)
			} else {
				slog.Info("gRPC server stopped gracefully.")
			}
		}
	}()

	return s
}

func startMetricsServer(wg *sync.WaitGroup, cfg *config.Config) *http.Server {
	if cfg.MetricsPort == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: cfg.MetricsPort, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	slog.Info("Metrics server listening", "port", cfg.MetricsPort)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "port", cfg.MetricsPort, "error", err)
		}
	}()
	return srv
}

func waitForShutdownSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
