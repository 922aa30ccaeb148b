package cmd

import (
	"context"
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"github.com/mselser95/etherdelta-client/pkg/cache"
	"github.com/mselser95/etherdelta-client/pkg/config"
	"github.com/mselser95/etherdelta-client/pkg/exchange"
	"github.com/mselser95/etherdelta-client/pkg/relay"
	"go.uber.org/zap"
)

// clientBundle holds everything a command needs to talk to the exchange.
type clientBundle struct {
	cfg      *config.Config
	logger   *zap.Logger
	eth      *ethclient.Client
	exchange *exchange.Client
	account  common.Address // zero unless a signer was requested
	cache    cache.Cache
}

func (b *clientBundle) close() {
	b.exchange.Tracker().Close()
	if b.cache != nil {
		b.cache.Close()
	}
	b.eth.Close()
	_ = b.logger.Sync()
}

// loadEnv reads .env (when present) and builds config plus logger.
func loadEnv() (*config.Config, *zap.Logger, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLoggerWithLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	return cfg, logger, nil
}

// setupClient dials the node and wires up an exchange client. With
// withSigner, ETHERDELTA_PRIVATE_KEY is required and the client can send
// transactions and sign off-chain orders.
func setupClient(ctx context.Context, withSigner bool) (*clientBundle, error) {
	cfg, logger, err := loadEnv()
	if err != nil {
		return nil, err
	}

	eth, err := ethclient.DialContext(ctx, cfg.EthRPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect to Ethereum node: %w", err)
	}

	readCache, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
		Logger:      logger,
	})
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("create cache: %w", err)
	}

	relayClient, err := relay.NewClient(&relay.Config{
		BaseURL: cfg.RelayBaseURL,
		Timeout: cfg.RelayTimeout,
		Logger:  logger,
	})
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("create relay client: %w", err)
	}

	clientCfg := &exchange.ClientConfig{
		Contract:       cfg.Exchange(),
		Backend:        eth,
		Relay:          relayClient,
		Cache:          readCache,
		CacheTTL:       cfg.FeeCacheTTL,
		LookbackBlocks: cfg.LookbackBlocks,
		Logger:         logger,
	}

	var account common.Address
	if withSigner {
		privateKey := os.Getenv("ETHERDELTA_PRIVATE_KEY")
		if privateKey == "" {
			eth.Close()
			return nil, fmt.Errorf("ETHERDELTA_PRIVATE_KEY not set")
		}

		txor, err := exchange.NewKeyedTransactor(ctx, privateKey, eth, logger)
		if err != nil {
			eth.Close()
			return nil, fmt.Errorf("create transactor: %w", err)
		}

		clientCfg.Transactor = txor
		clientCfg.Signer = txor
		account = txor.Address()
	}

	client, err := exchange.NewClient(clientCfg)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("create exchange client: %w", err)
	}

	return &clientBundle{
		cfg:      cfg,
		logger:   logger,
		eth:      eth,
		exchange: client,
		account:  account,
		cache:    readCache,
	}, nil
}

// parseAmount reads a raw integer token amount from a command argument.
func parseAmount(s string) (amount *big.Int, err error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q, want a non-negative integer", s)
	}
	return amount, nil
}
