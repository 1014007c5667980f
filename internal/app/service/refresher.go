package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"inft_dashboard/internal/app/port"
)

// Refresher periodically refreshes every tracked address and the native price.
// Ticks are not coalesced: a slow cycle may overlap the next one, and the
// dashboard service discards whichever result is stale.
type Refresher struct {
	dashboard     port.DashboardService
	addresses     port.AddressProvider
	prices        port.PriceService
	interval      time.Duration
	priceInterval time.Duration
	maxConcurrent int
	logger        port.Logger
}

// NewRefresher creates a new Refresher.
func NewRefresher(
	dashboard port.DashboardService,
	addresses port.AddressProvider,
	prices port.PriceService,
	interval, priceInterval time.Duration,
	maxConcurrent int,
	logger port.Logger,
) *Refresher {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Refresher{
		dashboard:     dashboard,
		addresses:     addresses,
		prices:        prices,
		interval:      interval,
		priceInterval: priceInterval,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// Run blocks until ctx is done. The first cycle starts immediately.
func (r *Refresher) Run(ctx context.Context) {
	r.logger.Info("Refresher started", "interval", r.interval.String(), "price_interval", r.priceInterval.String())
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	priceTicker := time.NewTicker(r.priceInterval)
	defer priceTicker.Stop()

	r.refreshPrice(ctx)
	go r.RefreshAll(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Refresher stopped")
			return
		case <-priceTicker.C:
			r.refreshPrice(ctx)
		case <-ticker.C:
			go r.RefreshAll(ctx)
		}
	}
}

// RefreshAll refreshes every tracked address once, at most maxConcurrent at a time.
func (r *Refresher) RefreshAll(ctx context.Context) {
	addresses, err := r.addresses.GetAddresses()
	if err != nil {
		r.logger.Error("Failed to load tracked addresses", "error", err)
		return
	}

	var g errgroup.Group
	g.SetLimit(r.maxConcurrent)
	for _, addr := range addresses {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if _, err := r.dashboard.Refresh(ctx, addr); err != nil {
				r.logger.Warn("Refresh failed", "address", addr, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	r.logger.Debug("Refresh cycle finished", "addresses", len(addresses))
}

func (r *Refresher) refreshPrice(ctx context.Context) {
	if err := r.prices.Refresh(ctx); err != nil {
		r.logger.Warn("Native price refresh failed", "error", err)
	}
}
