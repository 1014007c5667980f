package entity

import "time"

// DashboardSnapshot is the full dashboard state of one address after a refresh cycle.
type DashboardSnapshot struct {
	Address        string            `json:"address"`
	Sequence       uint64            `json:"sequence"`
	RefreshedAt    time.Time         `json:"refreshedAt"`
	NativePriceUSD float64           `json:"nativePriceUSD"`
	Balances       BalanceReport     `json:"balances"`
	Collectibles   CollectibleReport `json:"collectibles"`
	Activity       ActivityReport    `json:"activity"`
	Profile        CreditProfile     `json:"profile"`
}

// RefreshResult is returned by a refresh cycle. Applied is false when a newer
// cycle for the same address started before this one finished.
type RefreshResult struct {
	Snapshot DashboardSnapshot `json:"snapshot"`
	Applied  bool              `json:"applied"`
}
