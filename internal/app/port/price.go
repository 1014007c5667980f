package port

import "context"

// PriceOracle fetches the current USD price of the native coin.
type PriceOracle interface {
	NativePriceUSD(ctx context.Context) (float64, error)
}

// PriceService serves the native price from cache, refreshing it from the oracle.
type PriceService interface {
	// NativePrice returns the cached price, refreshing it when stale. The last
	// known price (or 0) is returned when the oracle fails.
	NativePrice(ctx context.Context) float64
	// Refresh forces a fetch from the oracle.
	Refresh(ctx context.Context) error
}
