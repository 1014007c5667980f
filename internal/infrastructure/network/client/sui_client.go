package client

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/infrastructure/metrics"
)

// Sui JSON-RPC methods used by the dashboard.
const (
	methodGetAllBalances     = "suix_getAllBalances"
	methodGetStakes          = "suix_getStakes"
	methodGetOwnedObjects    = "suix_getOwnedObjects"
	methodQueryTransactions  = "suix_queryTransactionBlocks"
	methodGetCoinMetadata    = "suix_getCoinMetadata"
	methodGetChainIdentifier = "sui_getChainIdentifier"
)

// SuiClientOptions configures NewSuiClient.
type SuiClientOptions struct {
	PrimaryRPCURL     string
	FallbackRPCURLs   []string
	ConnectTimeout    time.Duration
	CallTimeout       time.Duration
	RequestsPerSecond float64
	Burst             int
	// Probe makes the client verify each endpoint with sui_getChainIdentifier
	// before accepting it. HTTP dials are lazy, so without a probe the first
	// URL always wins.
	Probe bool
}

// SuiClient implements port.LedgerClient over the Sui JSON-RPC API.
type SuiClient struct {
	rpcClient   *rpc.Client
	endpoint    string
	chainID     string
	limiter     *rate.Limiter
	callTimeout time.Duration
	logger      port.Logger
}

var _ port.LedgerClient = (*SuiClient)(nil)

// NewSuiClient connects to the first reachable endpoint among the primary and fallback URLs.
func NewSuiClient(opts SuiClientOptions, logger port.Logger) (*SuiClient, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 15 * time.Second
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	rpcURLs := append([]string{opts.PrimaryRPCURL}, opts.FallbackRPCURLs...)
	var lastErr error

	for _, rpcURL := range rpcURLs {
		if rpcURL == "" {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
		rpcClient, err := rpc.DialContext(ctx, rpcURL)
		if err != nil {
			cancel()
			lastErr = fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
			logger.Warn("Sui RPC endpoint unavailable", "url", rpcURL, "error", err)
			continue
		}

		var chainID string
		if opts.Probe {
			if err := rpcClient.CallContext(ctx, &chainID, methodGetChainIdentifier); err != nil {
				cancel()
				rpcClient.Close()
				lastErr = fmt.Errorf("failed to verify RPC %s: %w", rpcURL, err)
				logger.Warn("Sui RPC endpoint failed probe", "url", rpcURL, "error", err)
				continue
			}
		}
		cancel()

		logger.Info("Connected to Sui RPC", "url", rpcURL, "chain_id", chainID)
		return &SuiClient{
			rpcClient:   rpcClient,
			endpoint:    rpcURL,
			chainID:     chainID,
			limiter:     rate.NewLimiter(limit, opts.Burst),
			callTimeout: opts.CallTimeout,
			logger:      logger,
		}, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no RPC URL configured")
	}
	return nil, fmt.Errorf("all Sui RPC connection attempts failed: %w", lastErr)
}

// Endpoint returns the URL the client is connected to.
func (c *SuiClient) Endpoint() string {
	return c.endpoint
}

// Close releases the underlying RPC client.
func (c *SuiClient) Close() {
	c.rpcClient.Close()
}

func (c *SuiClient) call(ctx context.Context, result any, method string, args ...any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.LedgerCalls.WithLabelValues(method, "throttled").Inc()
		return fmt.Errorf("rate limiter wait for %s: %w", method, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	start := time.Now()
	err := c.rpcClient.CallContext(callCtx, result, method, args...)
	metrics.LedgerDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.LedgerCalls.WithLabelValues(method, "error").Inc()
		c.logger.Debug("Sui RPC call failed", "method", method, "error", err)
		return fmt.Errorf("%s failed: %w", method, err)
	}
	metrics.LedgerCalls.WithLabelValues(method, "ok").Inc()
	return nil
}

// GetAllBalances implements port.LedgerClient.
func (c *SuiClient) GetAllBalances(ctx context.Context, owner string) ([]entity.CoinBalance, error) {
	var balances []entity.CoinBalance
	if err := c.call(ctx, &balances, methodGetAllBalances, owner); err != nil {
		return nil, err
	}
	return balances, nil
}

// GetStakes implements port.LedgerClient.
func (c *SuiClient) GetStakes(ctx context.Context, owner string) ([]entity.StakeGroup, error) {
	var stakes []entity.StakeGroup
	if err := c.call(ctx, &stakes, methodGetStakes, owner); err != nil {
		return nil, err
	}
	return stakes, nil
}

// GetOwnedObjects implements port.LedgerClient.
func (c *SuiClient) GetOwnedObjects(ctx context.Context, owner string, query entity.ObjectQuery, cursor *string, limit int) (*entity.ObjectPage, error) {
	var page entity.ObjectPage
	if err := c.call(ctx, &page, methodGetOwnedObjects, owner, query, cursor, limit); err != nil {
		return nil, err
	}
	return &page, nil
}

// QueryTransactions implements port.LedgerClient.
func (c *SuiClient) QueryTransactions(ctx context.Context, query entity.TransactionQuery, cursor *string, limit int, descending bool) (*entity.TransactionPage, error) {
	var page entity.TransactionPage
	if err := c.call(ctx, &page, methodQueryTransactions, query, cursor, limit, descending); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetCoinMetadata implements port.LedgerClient.
func (c *SuiClient) GetCoinMetadata(ctx context.Context, coinType string) (*entity.CoinMetadata, error) {
	var meta *entity.CoinMetadata
	if err := c.call(ctx, &meta, methodGetCoinMetadata, coinType); err != nil {
		return nil, err
	}
	return meta, nil
}
