package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/mselser95/etherdelta-client/internal/storage"
	"github.com/mselser95/etherdelta-client/pkg/exchange"
	"github.com/mselser95/etherdelta-client/pkg/healthprobe"
	"github.com/mselser95/etherdelta-client/pkg/httpserver"
	"github.com/mselser95/etherdelta-client/pkg/relay"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the exchange's live order flow",
	Long: `Run as a long-lived service: track open on-chain orders, record Order and
Cancel events to storage (console or Postgres, per STORAGE_MODE), and serve
metrics, health probes and an open-orders API over HTTP.

With RELAY_WS_URL set, the relay's off-chain order feed is followed too.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bundle, err := setupClient(ctx, false)
	if err != nil {
		return err
	}
	defer bundle.close()

	cfg := bundle.cfg
	logger := bundle.logger

	sink, err := newStorage(bundle)
	if err != nil {
		return err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("storage-close-failed", zap.Error(err))
		}
	}()

	// Event sinks run on the subscription goroutines; failures are logged
	// and skipped so one bad row cannot stall the stream.
	orderSub, err := bundle.exchange.OnOrder(ctx, func(event exchange.OrderEvent) {
		if err := sink.StoreOrderEvent(ctx, event); err != nil {
			logger.Warn("store-order-event-failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe to orders: %w", err)
	}
	defer orderSub.Unsubscribe()

	cancelSub, err := bundle.exchange.OnCancel(ctx, func(event exchange.CancelEvent) {
		if err := sink.StoreCancelEvent(ctx, event); err != nil {
			logger.Warn("store-cancel-event-failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe to cancels: %w", err)
	}
	defer cancelSub.Unsubscribe()

	health := healthprobe.New()
	server := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: health,
		Exchange:      bundle.exchange,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	if cfg.RelayWSURL != "" {
		feed, err := relay.NewFeed(&relay.FeedConfig{
			URL:    cfg.RelayWSURL,
			Logger: logger,
		})
		if err != nil {
			return fmt.Errorf("create relay feed: %w", err)
		}

		go func() {
			if err := feed.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("relay-feed-stopped", zap.Error(err))
			}
		}()

		go func() {
			for order := range feed.Orders() {
				logger.Info("offchain-order-seen",
					zap.Uint32("nonce", order.Nonce),
					zap.String("maker", order.User.Hex()))
			}
		}()
	}

	// Initial backfill; ready only after it completes.
	if _, err := bundle.exchange.ActiveOrders(ctx); err != nil {
		return fmt.Errorf("initialize order tracker: %w", err)
	}
	health.SetReady(true)
	logger.Info("watch-started",
		zap.String("contract", bundle.exchange.Contract().Hex()),
		zap.String("http-port", cfg.HTTPPort))

	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch-shutting-down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Warn("http-shutdown-failed", zap.Error(err))
			}

			return nil

		case err := <-serverErr:
			if err != nil {
				return fmt.Errorf("http server: %w", err)
			}

		case <-ticker.C:
			open, err := bundle.exchange.ActiveOrders(ctx)
			if err != nil {
				logger.Warn("order-refresh-failed", zap.Error(err))
				continue
			}

			logger.Info("orders-refreshed", zap.Int("open", len(open)))
		}
	}
}

// newStorage builds the event sink selected by STORAGE_MODE.
func newStorage(bundle *clientBundle) (storage.Storage, error) {
	cfg := bundle.cfg

	if cfg.StorageMode == "postgres" {
		sink, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   bundle.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return sink, nil
	}

	return storage.NewConsoleStorage(bundle.logger), nil
}
