package port

import (
	"context"

	"inft_dashboard/internal/domain/entity"
)

// BalanceAggregator values every coin and stake held by an address.
type BalanceAggregator interface {
	Aggregate(ctx context.Context, owner string, nativePriceUSD float64) entity.BalanceReport
}

// ObjectClassifier pages through owned objects and keeps the NFT-like ones.
type ObjectClassifier interface {
	Classify(ctx context.Context, owner string) entity.CollectibleReport
}

// ActivityAggregator merges the sent and received history of an address.
type ActivityAggregator interface {
	Aggregate(ctx context.Context, owner string) entity.ActivityReport
}

// AddressAgeResolver estimates how many days an address has been active.
type AddressAgeResolver interface {
	AgeDays(ctx context.Context, owner string) int
}

// DashboardService runs refresh cycles and keeps the latest applied snapshot per address.
type DashboardService interface {
	// Refresh runs one full cycle. It errors only on invalid input.
	Refresh(ctx context.Context, address string) (entity.RefreshResult, error)
	// Snapshot returns the latest applied snapshot, if any.
	Snapshot(address string) (entity.DashboardSnapshot, bool)
	// Latest returns the latest applied snapshot, refreshing first when there is none.
	Latest(ctx context.Context, address string) (entity.DashboardSnapshot, error)
}

// SnapshotPublisher pushes applied snapshots to live subscribers.
type SnapshotPublisher interface {
	Publish(snapshot entity.DashboardSnapshot)
}

// AddressProvider lists the addresses refreshed in the background.
type AddressProvider interface {
	GetAddresses() ([]string, error)
}
