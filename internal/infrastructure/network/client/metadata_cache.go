package client

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
)

// metadataCachingClient wraps a LedgerClient and caches coin metadata,
// including nil answers for unknown coin types.
type metadataCachingClient struct {
	port.LedgerClient
	cache  *cache.Cache
	logger port.Logger
}

// NewMetadataCachingClient returns a LedgerClient whose GetCoinMetadata is cached for ttl.
func NewMetadataCachingClient(inner port.LedgerClient, ttl time.Duration, logger port.Logger) port.LedgerClient {
	return &metadataCachingClient{
		LedgerClient: inner,
		cache:        cache.New(ttl, 2*ttl),
		logger:       logger,
	}
}

// GetCoinMetadata implements port.LedgerClient. Errors are not cached.
func (c *metadataCachingClient) GetCoinMetadata(ctx context.Context, coinType string) (*entity.CoinMetadata, error) {
	if cached, found := c.cache.Get(coinType); found {
		meta, _ := cached.(*entity.CoinMetadata)
		return meta, nil
	}

	meta, err := c.LedgerClient.GetCoinMetadata(ctx, coinType)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(coinType, meta)
	c.logger.Debug("Cached coin metadata", "coin_type", coinType, "known", meta != nil)
	return meta, nil
}
