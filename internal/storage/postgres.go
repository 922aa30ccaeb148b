package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/mselser95/etherdelta-client/pkg/exchange"
	"go.uber.org/zap"
)

// PostgresStorage implements Storage using PostgreSQL. Amounts are stored as
// numeric strings so raw uint256 values survive unscaled.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// StoreOrderEvent records an on-chain order placement in PostgreSQL.
func (p *PostgresStorage) StoreOrderEvent(ctx context.Context, event exchange.OrderEvent) error {
	query := `
		INSERT INTO exchange_orders (
			id, token_get, amount_get, token_give, amount_give,
			expires, nonce, maker, block_number, tx_hash
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		uuid.New().String(),
		event.TokenGet.Hex(),
		event.AmountGet.Int().String(),
		event.TokenGive.Hex(),
		event.AmountGive.Int().String(),
		event.Expires,
		event.Nonce,
		event.User.Hex(),
		event.BlockNumber,
		event.TxHash.Hex(),
	)
	if err != nil {
		return fmt.Errorf("insert order event: %w", err)
	}

	p.logger.Debug("order-event-stored",
		zap.Uint32("nonce", event.Nonce),
		zap.Uint64("block", event.BlockNumber))

	return nil
}

// StoreCancelEvent records an on-chain order cancellation in PostgreSQL.
func (p *PostgresStorage) StoreCancelEvent(ctx context.Context, event exchange.CancelEvent) error {
	query := `
		INSERT INTO exchange_cancels (
			id, token_get, amount_get, token_give, amount_give,
			expires, nonce, maker, block_number, tx_hash
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		uuid.New().String(),
		event.TokenGet.Hex(),
		event.AmountGet.Int().String(),
		event.TokenGive.Hex(),
		event.AmountGive.Int().String(),
		event.Expires,
		event.Nonce,
		event.User.Hex(),
		event.BlockNumber,
		event.TxHash.Hex(),
	)
	if err != nil {
		return fmt.Errorf("insert cancel event: %w", err)
	}

	p.logger.Debug("cancel-event-stored",
		zap.Uint32("nonce", event.Nonce),
		zap.Uint64("block", event.BlockNumber))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
