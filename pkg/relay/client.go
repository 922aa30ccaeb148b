package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mselser95/etherdelta-client/pkg/types"
	"go.uber.org/zap"
)

// Client submits signed off-chain orders to the relay's order cache.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds relay client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration // defaults to 15s
	Logger  *zap.Logger
}

// NewClient creates a new relay client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("base URL cannot be empty")
	}

	if cfg.Logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: cfg.Logger,
	}

	return client, nil
}

// Submit posts a signed off-chain order to the relay. Acceptance is signaled
// by the substring "success" in the response body; anything else, a non-2xx
// status, or a timeout yields (false, nil). The relay declining an order is
// an expected no-result outcome, not an error, so callers can retry or
// abandon as they see fit.
func (c *Client) Submit(ctx context.Context, contract common.Address, order types.OffChainOrder) (accepted bool, err error) {
	payload, err := MarshalOrder(contract, order)
	if err != nil {
		return false, fmt.Errorf("encode order: %w", err)
	}

	form := url.Values{}
	form.Set("message", string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/message", strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		SubmissionsTotal.WithLabelValues("transport_error").Inc()
		c.logger.Warn("relay-submit-failed", zap.Error(err))
		return false, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		SubmissionsTotal.WithLabelValues("transport_error").Inc()
		c.logger.Warn("relay-read-response-failed", zap.Error(err))
		return false, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		SubmissionsTotal.WithLabelValues("rejected").Inc()
		c.logger.Warn("relay-rejected-order",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return false, nil
	}

	if !strings.Contains(string(body), `"success"`) {
		SubmissionsTotal.WithLabelValues("rejected").Inc()
		c.logger.Warn("relay-rejected-order",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return false, nil
	}

	SubmissionsTotal.WithLabelValues("accepted").Inc()
	c.logger.Info("relay-accepted-order",
		zap.Uint32("nonce", order.Nonce),
		zap.String("user", order.User.Hex()))

	return true, nil
}
