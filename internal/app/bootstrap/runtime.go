package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	eventadapter "github.com/viralforge/rental-service/internal/adapters/events"
	grpcadapter "github.com/viralforge/rental-service/internal/adapters/grpc"
	httpadapter "github.com/viralforge/rental-service/internal/adapters/http"
	"github.com/viralforge/rental-service/internal/adapters/metrics"
	"github.com/viralforge/rental-service/internal/application"
	"github.com/viralforge/rental-service/internal/ports"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	stores     *Stores
	service    *application.Service
	httpServer *http.Server
	grpcServer *grpc.Server
	outbox     *eventadapter.OutboxWorker
	closers    []io.Closer
}

// NewLogger installs the JSON logger as the slog default.
func NewLogger(serviceID string, w io.Writer) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", serviceID)
	slog.SetDefault(logger)
	return logger
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg.ServiceID, os.Stdout)

	stores, err := OpenStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	registry := metrics.NewRegistry(cfg.ServiceID)
	service, err := NewService(cfg, stores, logger, registry)
	if err != nil {
		stores.Close(ctx)
		return nil, err
	}

	router, err := httpadapter.NewRouter(httpadapter.NewHandler(service, stores.Ping), httpadapter.RouterOptions{
		Observer:       registry,
		MetricsHandler: registry.Handler(),
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		stores.Close(ctx)
		return nil, fmt.Errorf("build router: %w", err)
	}
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	grpcadapter.Register(grpcServer, grpcadapter.NewRentalInternalServer(service))

	publisher, closers := newPublisher(ctx, cfg, logger)
	outbox := eventadapter.NewOutboxWorker(logger, stores.Outbox, publisher,
		cfg.OutboxPollInterval, cfg.OutboxBatchSize, eventadapter.WithMaxRetries(cfg.OutboxMaxRetries))

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		stores:     stores,
		service:    service,
		httpServer: httpServer,
		grpcServer: grpcServer,
		outbox:     outbox,
		closers:    closers,
	}, nil
}

// newPublisher returns the Kafka publisher when brokers are configured and
// usable, and the logging publisher otherwise.
func newPublisher(ctx context.Context, cfg Config, logger *slog.Logger) (ports.EventPublisher, []io.Closer) {
	if len(cfg.KafkaBrokers) == 0 {
		return eventadapter.NewLoggingPublisher(logger), nil
	}
	kafkaPublisher, err := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, cfg.TopicByEvent)
	if err != nil {
		logger.WarnContext(ctx, "kafka publisher disabled, using logging publisher",
			"operation", "new_runtime",
			"outcome", "degraded",
			"error", err,
		)
		return eventadapter.NewLoggingPublisher(logger), nil
	}
	return kafkaPublisher, []io.Closer{kafkaPublisher}
}

// RunAPI serves HTTP and gRPC until the context ends or a server fails. With
// the memory driver the outbox lives in this process, so the worker runs here too.
func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer r.cleanup()

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", r.cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	errCh := make(chan error, 3)
	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	if r.cfg.StorageDriver == StorageMemory {
		go func() {
			if err := r.outbox.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- err
			}
		}()
	}
	r.logger.InfoContext(ctx, "rental api started",
		"operation", "run_api",
		"outcome", "success",
		"http_port", r.cfg.HTTPPort,
		"grpc_port", r.cfg.GRPCPort,
		"storage_driver", r.cfg.StorageDriver,
	)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "operation", "run_api", "outcome", "failure", "error", runErr)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	return runErr
}

func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer r.cleanup()

	if r.cfg.StorageDriver == StorageMemory {
		return errors.New("worker needs a shared outbox, set STORAGE_DRIVER=mongo")
	}
	err := r.outbox.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *Runtime) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, closer := range r.closers {
		_ = closer.Close()
	}
	r.stores.Close(ctx)
}
