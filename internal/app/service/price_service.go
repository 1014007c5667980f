package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/infrastructure/metrics"
)

const nativePriceKey = "native_usd"

// priceServiceImpl implements port.PriceService
type priceServiceImpl struct {
	oracle port.PriceOracle
	logger port.Logger
	cache  *cache.Cache
	ttl    time.Duration

	lastKnown   float64
	lastKnownMu sync.RWMutex
}

// NewPriceService creates a new instance of priceServiceImpl.
func NewPriceService(oracle port.PriceOracle, ttl time.Duration, l port.Logger) port.PriceService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	s := &priceServiceImpl{
		oracle: oracle,
		logger: l,
		cache:  cache.New(ttl, 2*ttl),
		ttl:    ttl,
	}
	l.Info("PriceService успешно инициализирован.", "ttl", ttl.String())
	return s
}

// NativePrice implements port.PriceService.
func (s *priceServiceImpl) NativePrice(ctx context.Context) float64 {
	if v, ok := s.cache.Get(nativePriceKey); ok {
		return v.(float64)
	}
	if err := s.Refresh(ctx); err != nil {
		last := s.last()
		s.logger.Warn("Using last known native price", "price", last, "error", err)
		return last
	}
	return s.last()
}

// Refresh implements port.PriceService.
func (s *priceServiceImpl) Refresh(ctx context.Context) error {
	price, err := s.oracle.NativePriceUSD(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh native price: %w", err)
	}
	if price <= 0 {
		return fmt.Errorf("oracle returned non-positive native price %v", price)
	}

	s.cache.Set(nativePriceKey, price, s.ttl)
	s.lastKnownMu.Lock()
	s.lastKnown = price
	s.lastKnownMu.Unlock()
	metrics.NativePrice.Set(price)
	s.logger.Debug("Native price cached", "price", price)
	return nil
}

func (s *priceServiceImpl) last() float64 {
	s.lastKnownMu.RLock()
	defer s.lastKnownMu.RUnlock()
	return s.lastKnown
}
