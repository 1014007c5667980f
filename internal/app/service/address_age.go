package service

import (
	"context"
	"strconv"
	"time"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
)

const msPerDay = int64(24 * time.Hour / time.Millisecond)

// AddressAgeResolverImpl implements port.AddressAgeResolver from the first
// transaction sent by the address.
type AddressAgeResolverImpl struct {
	ledger port.LedgerClient
	logger port.Logger
	now    func() time.Time
}

// NewAddressAgeResolver creates a new instance of AddressAgeResolverImpl.
func NewAddressAgeResolver(ledger port.LedgerClient, logger port.Logger) *AddressAgeResolverImpl {
	return &AddressAgeResolverImpl{ledger: ledger, logger: logger, now: time.Now}
}

// WithClock replaces the wall clock, for tests.
func (r *AddressAgeResolverImpl) WithClock(now func() time.Time) *AddressAgeResolverImpl {
	r.now = now
	return r
}

// AgeDays implements port.AddressAgeResolver. It returns at least 1, and 1
// whenever the age cannot be determined.
func (r *AddressAgeResolverImpl) AgeDays(ctx context.Context, owner string) int {
	query := entity.TransactionQuery{Filter: entity.TransactionFilter{FromAddress: owner}}
	page, err := r.ledger.QueryTransactions(ctx, query, nil, 1, false)
	if err != nil {
		r.logger.Warn("Error calculating address age", "owner", owner, "error", err)
		return 1
	}
	if len(page.Data) == 0 || page.Data[0].TimestampMs == "" {
		return 1
	}
	first, err := strconv.ParseInt(page.Data[0].TimestampMs, 10, 64)
	if err != nil {
		r.logger.Warn("Unparsable first transaction timestamp", "owner", owner, "timestamp", page.Data[0].TimestampMs)
		return 1
	}
	days := (r.now().UnixMilli() - first) / msPerDay
	return int(max(days, 1))
}
