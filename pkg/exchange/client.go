// Package exchange is a typed client for the EtherDelta exchange contract:
// balance and fee queries, deposits and withdrawals, on-chain and off-chain
// order placement, trading, cancellation, and a live view of open on-chain
// orders.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mselser95/etherdelta-client/pkg/cache"
	"github.com/mselser95/etherdelta-client/pkg/relay"
	"github.com/mselser95/etherdelta-client/pkg/types"
	"go.uber.org/zap"
)

// Client is a typed wrapper over the deployed exchange contract.
//
// Read-only use requires only Backend; transactions additionally need a
// Transactor, and off-chain order placement a HashSigner and a relay client.
type Client struct {
	contract common.Address
	backend  Backend
	txor     Transactor
	signer   HashSigner
	relay    *relay.Client
	cache    cache.Cache
	cacheTTL time.Duration
	lookback uint64
	tracker  *Tracker
	logger   *zap.Logger
}

// ClientConfig holds configuration for the exchange client.
type ClientConfig struct {
	Contract       common.Address
	Backend        Backend
	Transactor     Transactor    // optional; required for transactions
	Signer         HashSigner    // optional; required for off-chain orders
	Relay          *relay.Client // optional; required for off-chain orders
	Cache          cache.Cache   // optional; caches admin/fee reads
	CacheTTL       time.Duration // defaults to 10m
	LookbackBlocks uint64        // defaults to 1,000,000
	Logger         *zap.Logger
}

// NewClient creates a new exchange client.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Backend == nil {
		return nil, errors.New("backend cannot be nil")
	}

	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.Contract == (common.Address{}) {
		return nil, errors.New("contract address cannot be zero")
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}

	lookback := cfg.LookbackBlocks
	if lookback == 0 {
		lookback = 1_000_000
	}

	client := &Client{
		contract: cfg.Contract,
		backend:  cfg.Backend,
		txor:     cfg.Transactor,
		signer:   cfg.Signer,
		relay:    cfg.Relay,
		cache:    cfg.Cache,
		cacheTTL: cacheTTL,
		lookback: lookback,
		logger:   cfg.Logger,
	}

	client.tracker = newTracker(&trackerDeps{
		subscribe: client.OnOrder,
		backfill:  client.PastOrders,
		filled:    client.AmountFilled,
		logger:    cfg.Logger,
	})

	return client, nil
}

// Contract returns the exchange contract address.
func (c *Client) Contract() common.Address {
	return c.contract
}

// Tracker returns the on-chain order tracker owned by this client.
func (c *Client) Tracker() *Tracker {
	return c.tracker
}

// Admin returns the address of the contract's admin account.
func (c *Client) Admin(ctx context.Context) (common.Address, error) {
	return c.cachedAddress(ctx, "admin")
}

// FeeAccount returns the address that receives all collected fees.
func (c *Client) FeeAccount(ctx context.Context) (common.Address, error) {
	return c.cachedAddress(ctx, "feeAccount")
}

// FeeMake returns the maker fee rate as an 18-decimal fraction.
func (c *Client) FeeMake(ctx context.Context) (types.Wad, error) {
	return c.cachedWad(ctx, "feeMake")
}

// FeeTake returns the taker fee rate as an 18-decimal fraction.
func (c *Client) FeeTake(ctx context.Context) (types.Wad, error) {
	return c.cachedWad(ctx, "feeTake")
}

// FeeRebate returns the maker rebate rate as an 18-decimal fraction.
func (c *Client) FeeRebate(ctx context.Context) (types.Wad, error) {
	return c.cachedWad(ctx, "feeRebate")
}

// Deposit deposits amount of raw ETH into the exchange.
func (c *Client) Deposit(ctx context.Context, amount types.Wad) (*types.Receipt, error) {
	return c.transact(ctx, "deposit", amount.Int())
}

// Withdraw withdraws amount of raw ETH from the exchange to the calling
// account.
func (c *Client) Withdraw(ctx context.Context, amount types.Wad) (*types.Receipt, error) {
	return c.transact(ctx, "withdraw", nil, amount.Int())
}

// DepositToken deposits amount of the given ERC20 token into the exchange.
// The exchange contract needs allowance on the token first; see Approve.
func (c *Client) DepositToken(ctx context.Context, token common.Address, amount types.Wad) (*types.Receipt, error) {
	if token == types.EthToken {
		return nil, errors.New("token cannot be the ETH sentinel address, use Deposit")
	}

	return c.transact(ctx, "depositToken", nil, token, amount.Int())
}

// WithdrawToken withdraws amount of the given ERC20 token from the exchange
// to the calling account.
func (c *Client) WithdrawToken(ctx context.Context, token common.Address, amount types.Wad) (*types.Receipt, error) {
	if token == types.EthToken {
		return nil, errors.New("token cannot be the ETH sentinel address, use Withdraw")
	}

	return c.transact(ctx, "withdrawToken", nil, token, amount.Int())
}

// BalanceOf returns the raw ETH balance the user keeps in the exchange.
func (c *Client) BalanceOf(ctx context.Context, user common.Address) (types.Wad, error) {
	return c.callWad(ctx, "balanceOf", types.EthToken, user)
}

// BalanceOfToken returns the ERC20 token balance the user keeps in the
// exchange.
func (c *Client) BalanceOfToken(ctx context.Context, token, user common.Address) (types.Wad, error) {
	return c.callWad(ctx, "balanceOf", token, user)
}

// ApprovalFunc grants the exchange contract an allowance on an ERC20 token.
// Supplied by the caller; the client does not implement token approvals.
type ApprovalFunc func(ctx context.Context, token, spender common.Address) error

// Approve runs the supplied approval function for each token, with the
// exchange contract as the spender. Needed once per token before
// DepositToken will succeed.
func (c *Client) Approve(ctx context.Context, tokens []common.Address, approve ApprovalFunc) error {
	if approve == nil {
		return errors.New("approval function cannot be nil")
	}

	for _, token := range tokens {
		err := approve(ctx, token, c.contract)
		if err != nil {
			return fmt.Errorf("approve token %s: %w", token.Hex(), err)
		}
	}

	return nil
}

// call packs a read-only invocation, executes it, and unpacks the results.
func (c *Client) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	msg := ethereum.CallMsg{
		To:   &c.contract,
		Data: data,
	}

	output, err := c.backend.CallContract(ctx, msg, nil)
	if err != nil {
		CallErrorsTotal.Inc()
		return nil, fmt.Errorf("call %s: %w", method, err)
	}

	results, err := contractABI.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}

	return results, nil
}

func (c *Client) callWad(ctx context.Context, method string, args ...interface{}) (types.Wad, error) {
	results, err := c.call(ctx, method, args...)
	if err != nil {
		return types.Wad{}, err
	}

	value, ok := results[0].(*big.Int)
	if !ok {
		return types.Wad{}, fmt.Errorf("%s returned %T, want *big.Int", method, results[0])
	}

	return types.NewWad(value)
}

func (c *Client) cachedWad(ctx context.Context, method string) (types.Wad, error) {
	if c.cache != nil {
		if value, found := c.cache.Get(method); found {
			if wad, ok := value.(types.Wad); ok {
				return wad, nil
			}
		}
	}

	wad, err := c.callWad(ctx, method)
	if err != nil {
		return types.Wad{}, err
	}

	if c.cache != nil {
		c.cache.Set(method, wad, c.cacheTTL)
	}

	return wad, nil
}

func (c *Client) cachedAddress(ctx context.Context, method string) (common.Address, error) {
	if c.cache != nil {
		if value, found := c.cache.Get(method); found {
			if addr, ok := value.(common.Address); ok {
				return addr, nil
			}
		}
	}

	results, err := c.call(ctx, method)
	if err != nil {
		return common.Address{}, err
	}

	addr, ok := results[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s returned %T, want address", method, results[0])
	}

	if c.cache != nil {
		c.cache.Set(method, addr, c.cacheTTL)
	}

	return addr, nil
}

// transact packs a state-changing invocation and submits it via the
// configured Transactor. Returns (nil, nil) when the transaction reverted.
func (c *Client) transact(ctx context.Context, method string, value *big.Int, args ...interface{}) (*types.Receipt, error) {
	if c.txor == nil {
		return nil, errors.New("client is read-only: no transactor configured")
	}

	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	c.logger.Info("sending-transaction",
		zap.String("method", method),
		zap.String("contract", c.contract.Hex()))

	receipt, err := c.txor.Transact(ctx, c.contract, value, data)
	if err != nil {
		return nil, fmt.Errorf("transact %s: %w", method, err)
	}

	if receipt == nil {
		c.logger.Warn("transaction-reverted", zap.String("method", method))
		return nil, nil
	}

	c.logger.Info("transaction-mined",
		zap.String("method", method),
		zap.String("tx", receipt.TxHash.Hex()),
		zap.Uint64("block", receipt.BlockNumber))

	return receipt, nil
}
