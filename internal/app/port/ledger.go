package port

import (
	"context"

	"inft_dashboard/internal/domain/entity"
)

// LedgerClient defines the read-only calls made against a Sui full node.
type LedgerClient interface {
	// GetAllBalances returns one entry per coin type held by owner.
	GetAllBalances(ctx context.Context, owner string) ([]entity.CoinBalance, error)

	// GetStakes returns the owner's stakes grouped by validator.
	GetStakes(ctx context.Context, owner string) ([]entity.StakeGroup, error)

	// GetOwnedObjects returns one page of objects owned by owner. A nil cursor starts from the beginning.
	GetOwnedObjects(ctx context.Context, owner string, query entity.ObjectQuery, cursor *string, limit int) (*entity.ObjectPage, error)

	// QueryTransactions returns one page of transactions matching the query.
	QueryTransactions(ctx context.Context, query entity.TransactionQuery, cursor *string, limit int, descending bool) (*entity.TransactionPage, error)

	// GetCoinMetadata returns nil metadata without error when the node knows nothing about coinType.
	GetCoinMetadata(ctx context.Context, coinType string) (*entity.CoinMetadata, error)
}
