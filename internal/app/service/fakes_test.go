package service_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"inft_dashboard/internal/domain/entity"
)

var errLedgerDown = errors.New("ledger down")

func addr(n int) string {
	return fmt.Sprintf("0x%064x", n)
}

func strPtr(s string) *string { return &s }

func formatMs(ms int64) string { return strconv.FormatInt(ms, 10) }

type objectCall struct {
	owner  string
	query  entity.ObjectQuery
	cursor *string
	limit  int
}

type txCall struct {
	query      entity.TransactionQuery
	limit      int
	descending bool
}

// fakeLedger is an in-memory port.LedgerClient.
type fakeLedger struct {
	mu sync.Mutex

	balances    []entity.CoinBalance
	balancesErr error
	stakes      []entity.StakeGroup
	stakesErr   error
	metadata    map[string]*entity.CoinMetadata
	metadataErr map[string]error

	objectPages []*entity.ObjectPage
	objectErrAt map[int]error // by call index
	objectCalls []objectCall

	sent        *entity.TransactionPage
	sentErr     error
	received    *entity.TransactionPage
	receivedErr error
	first       *entity.TransactionPage
	firstErr    error
	txCalls     []txCall
}

func (f *fakeLedger) GetAllBalances(ctx context.Context, owner string) ([]entity.CoinBalance, error) {
	return f.balances, f.balancesErr
}

func (f *fakeLedger) GetStakes(ctx context.Context, owner string) ([]entity.StakeGroup, error) {
	return f.stakes, f.stakesErr
}

func (f *fakeLedger) GetOwnedObjects(ctx context.Context, owner string, query entity.ObjectQuery, cursor *string, limit int) (*entity.ObjectPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.objectCalls)
	f.objectCalls = append(f.objectCalls, objectCall{owner: owner, query: query, cursor: cursor, limit: limit})
	if err := f.objectErrAt[idx]; err != nil {
		return nil, err
	}
	if idx >= len(f.objectPages) {
		return &entity.ObjectPage{}, nil
	}
	return f.objectPages[idx], nil
}

func (f *fakeLedger) QueryTransactions(ctx context.Context, query entity.TransactionQuery, cursor *string, limit int, descending bool) (*entity.TransactionPage, error) {
	f.mu.Lock()
	f.txCalls = append(f.txCalls, txCall{query: query, limit: limit, descending: descending})
	f.mu.Unlock()

	switch {
	case !descending:
		return f.first, f.firstErr
	case query.Filter.FromAddress != "":
		return f.sent, f.sentErr
	default:
		return f.received, f.receivedErr
	}
}

func (f *fakeLedger) GetCoinMetadata(ctx context.Context, coinType string) (*entity.CoinMetadata, error) {
	if err := f.metadataErr[coinType]; err != nil {
		return nil, err
	}
	return f.metadata[coinType], nil
}

// memoryFavorites is a port.FavoritesStore backed by a map.
type memoryFavorites struct {
	mu      sync.Mutex
	ids     map[string][]string
	loadErr error
	saveErr error
}

func newMemoryFavorites() *memoryFavorites {
	return &memoryFavorites{ids: make(map[string][]string)}
}

func (m *memoryFavorites) Load(ctx context.Context, owner string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]string(nil), m.ids[owner]...), nil
}

func (m *memoryFavorites) Save(ctx context.Context, owner string, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.ids[owner] = append([]string(nil), ids...)
	return nil
}

// recordingBlobs is a port.BlobStore that records uploads and hands out sequential ids.
type recordingBlobs struct {
	mu      sync.Mutex
	uploads []entity.BlobUpload
	failAt  int // 1-based upload number that fails, 0 never
}

func (r *recordingBlobs) PutBlob(ctx context.Context, upload entity.BlobUpload) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads = append(r.uploads, upload)
	if len(r.uploads) == r.failAt {
		return "", errors.New("publisher unavailable")
	}
	return fmt.Sprintf("blob%d", len(r.uploads)), nil
}

func (r *recordingBlobs) BlobURL(blobID string) string {
	return "https://aggregator.example/v1/blobs/" + blobID
}
