package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/sequence"
	"github.com/andreasstove999/ecommerce-system/services/storefront-state-go/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront state HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := a.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return serve(cmd.Context(), cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lister, closeLister, err := newLister(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeLister()

	s := store.New(lister, store.WithLogger(logger), store.WithDebug(cfg.Debug()))

	// --- AMQP ---
	var publisher httpapi.PurchasePublisher
	if cfg.RabbitMQURL != "" {
		pub, closePub, err := newPublisher(ctx, cfg)
		if err != nil {
			return err
		}
		defer closePub()
		publisher = pub
	}

	// --- HTTP ---
	h := httpapi.NewHandler(s, publisher, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	if cfg.FetchOnStart {
		done := s.FetchItemsAsync(ctx)
		go func() {
			if err := <-done; err != nil {
				logger.Warn("initial fetch failed", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr), zap.String("productsSource", cfg.ProductsSource))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}

func newPublisher(ctx context.Context, cfg config.Config) (*events.Publisher, func(), error) {
	conn, err := events.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, nil, err
	}

	var (
		seq     sequence.Sequencer = sequence.NewMemory()
		closeDB                    = func() {}
	)
	if cfg.ProductsSource == config.SourcePostgres {
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		seq = sequence.NewRepository(pool)
		closeDB = pool.Close
	}

	pub, err := events.NewPublisher(conn, seq, events.PublisherOptions{PublishEnveloped: cfg.PublishEnveloped})
	if err != nil {
		closeDB()
		_ = conn.Close()
		return nil, nil, err
	}
	return pub, closeAll(pub, conn, closeDB), nil
}

func closeAll(pub *events.Publisher, conn *amqp.Connection, closeDB func()) func() {
	return func() {
		_ = pub.Close()
		_ = conn.Close()
		closeDB()
	}
}
