package service_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inft_dashboard/internal/app/service"
	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/domain/scoring"
	"inft_dashboard/internal/infrastructure/metrics"
	"inft_dashboard/internal/pkg/logger"
)

type stubOracle struct {
	calls  atomic.Int32
	prices []float64
	errs   []error
}

func (o *stubOracle) NativePriceUSD(ctx context.Context) (float64, error) {
	i := int(o.calls.Add(1)) - 1
	if i < len(o.errs) && o.errs[i] != nil {
		return 0, o.errs[i]
	}
	if i < len(o.prices) {
		return o.prices[i], nil
	}
	return o.prices[len(o.prices)-1], nil
}

func TestPriceService_CachesWithinTTL(t *testing.T) {
	oracle := &stubOracle{prices: []float64{3.5}}
	prices := service.NewPriceService(oracle, time.Minute, logger.NewNop())

	assert.Equal(t, 3.5, prices.NativePrice(context.Background()))
	assert.Equal(t, 3.5, prices.NativePrice(context.Background()))
	assert.Equal(t, int32(1), oracle.calls.Load())
}

func TestPriceService_KeepsLastKnownOnFailure(t *testing.T) {
	oracle := &stubOracle{prices: []float64{2.0, 0}, errs: []error{nil, errors.New("rate limited")}}
	prices := service.NewPriceService(oracle, 10*time.Millisecond, logger.NewNop())

	assert.Equal(t, 2.0, prices.NativePrice(context.Background()))
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 2.0, prices.NativePrice(context.Background()))
	assert.Equal(t, int32(2), oracle.calls.Load())
}

func TestPriceService_NoHistoryIsZero(t *testing.T) {
	oracle := &stubOracle{prices: []float64{0}, errs: []error{errors.New("down")}}
	prices := service.NewPriceService(oracle, time.Minute, logger.NewNop())

	assert.Zero(t, prices.NativePrice(context.Background()))
}

func TestPriceService_RejectsNonPositivePrice(t *testing.T) {
	prices := service.NewPriceService(&stubOracle{prices: []float64{0}}, time.Minute, logger.NewNop())

	assert.Error(t, prices.Refresh(context.Background()))
}

type fixedPrice float64

func (p fixedPrice) NativePrice(ctx context.Context) float64 { return float64(p) }
func (p fixedPrice) Refresh(ctx context.Context) error       { return nil }

// stubBalances returns report. When gate is set, the first call blocks until
// gate.release is closed.
type stubBalances struct {
	report entity.BalanceReport
	calls  atomic.Int32
	gate   *gate
}

type gate struct {
	entered chan struct{}
	release chan struct{}
}

func (b *stubBalances) Aggregate(ctx context.Context, owner string, price float64) entity.BalanceReport {
	if b.calls.Add(1) == 1 && b.gate != nil {
		close(b.gate.entered)
		<-b.gate.release
	}
	return b.report
}

type stubObjects struct{ report entity.CollectibleReport }

func (o stubObjects) Classify(ctx context.Context, owner string) entity.CollectibleReport {
	report := o.report
	report.Collectibles = append([]entity.Collectible(nil), o.report.Collectibles...)
	return report
}

type stubActivity struct{ report entity.ActivityReport }

func (a stubActivity) Aggregate(ctx context.Context, owner string) entity.ActivityReport {
	return a.report
}

type stubAge int

func (a stubAge) AgeDays(ctx context.Context, owner string) int { return int(a) }

type recordingPublisher struct {
	mu        sync.Mutex
	snapshots []entity.DashboardSnapshot
}

func (p *recordingPublisher) Publish(s entity.DashboardSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshots = append(p.snapshots, s)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snapshots)
}

func dashboardFixture() (service.DashboardDeps, *stubBalances, *memoryFavorites, *recordingPublisher) {
	balances := &stubBalances{report: entity.BalanceReport{
		Tokens:    []entity.TokenBalance{{CoinType: entity.NativeCoinType, RawAmount: big.NewInt(1), FiatValue: 500}},
		TotalFiat: 500,
	}}
	favorites := newMemoryFavorites()
	publisher := &recordingPublisher{}
	deps := service.DashboardDeps{
		Prices:   fixedPrice(2),
		Balances: balances,
		Objects: stubObjects{report: entity.CollectibleReport{Collectibles: []entity.Collectible{
			{ObjectID: addr(100), Name: "One"},
			{ObjectID: addr(101), Name: "Two"},
		}, Scanned: 2}},
		Activity: stubActivity{report: entity.ActivityReport{
			Transactions: []entity.Transaction{{Digest: "a"}, {Digest: "b"}, {Digest: "c"}},
			TotalGas:     big.NewInt(1_234_500_000),
		}},
		Age:       stubAge(30),
		Favorites: favorites,
		Publisher: publisher,
	}
	return deps, balances, favorites, publisher
}

func TestDashboardService_Refresh(t *testing.T) {
	deps, _, favorites, publisher := dashboardFixture()
	owner := addr(7)
	require.NoError(t, favorites.Save(context.Background(), owner, []string{addr(101)}))
	svc := service.NewDashboardService(deps, logger.NewNop())

	res, err := svc.Refresh(context.Background(), "0x7")
	require.NoError(t, err)

	assert.True(t, res.Applied)
	snap := res.Snapshot
	assert.Equal(t, owner, snap.Address)
	assert.Equal(t, uint64(1), snap.Sequence)
	assert.Equal(t, 2.0, snap.NativePriceUSD)

	inputs := entity.ScoreInputs{AddressAgeDays: 30, TransactionCount: 3, PortfolioFiat: 500, CollectibleCount: 2}
	assert.Equal(t, scoring.OverallScore(inputs), snap.Profile.OverallScore)
	assert.Equal(t, 30, snap.Profile.AddressAgeDays)
	assert.Equal(t, 3, snap.Profile.TransactionCount)
	assert.Equal(t, 2, snap.Profile.CollectibleCount)
	assert.Zero(t, snap.Profile.LiquidationCount)
	assert.Equal(t, "1.2345", snap.Profile.GasSpent)
	assert.Equal(t, "1234500000", snap.Profile.GasSpentMist.String())

	require.Len(t, snap.Collectibles.Collectibles, 2)
	assert.False(t, snap.Collectibles.Collectibles[0].IsFavorite)
	assert.True(t, snap.Collectibles.Collectibles[1].IsFavorite)

	stored, ok := svc.Snapshot(owner)
	require.True(t, ok)
	assert.Equal(t, snap, stored)
	assert.Equal(t, 1, publisher.count())
}

func TestDashboardService_RejectsInvalidAddress(t *testing.T) {
	deps, balances, _, publisher := dashboardFixture()
	svc := service.NewDashboardService(deps, logger.NewNop())

	_, err := svc.Refresh(context.Background(), "not-an-address")

	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	assert.Zero(t, balances.calls.Load())
	assert.Zero(t, publisher.count())
}

func TestDashboardService_StaleRefreshIsNotApplied(t *testing.T) {
	deps, balances, _, publisher := dashboardFixture()
	balances.gate = &gate{entered: make(chan struct{}), release: make(chan struct{})}
	svc := service.NewDashboardService(deps, logger.NewNop())
	owner := addr(7)

	slow := make(chan entity.RefreshResult, 1)
	go func() {
		res, err := svc.Refresh(context.Background(), owner)
		assert.NoError(t, err)
		slow <- res
	}()
	<-balances.gate.entered

	fast, err := svc.Refresh(context.Background(), owner)
	require.NoError(t, err)
	assert.True(t, fast.Applied)
	assert.Equal(t, uint64(2), fast.Snapshot.Sequence)

	close(balances.gate.release)
	stale := <-slow
	assert.False(t, stale.Applied)
	assert.Equal(t, uint64(1), stale.Snapshot.Sequence)

	stored, ok := svc.Snapshot(owner)
	require.True(t, ok)
	assert.Equal(t, uint64(2), stored.Sequence)
	assert.Equal(t, 1, publisher.count())
}

func TestDashboardService_StateExpires(t *testing.T) {
	deps, _, _, _ := dashboardFixture()
	deps.SnapshotTTL = 200 * time.Millisecond
	svc := service.NewDashboardService(deps, logger.NewNop())

	for i := 1; i <= 100; i++ {
		_, err := svc.Refresh(context.Background(), addr(i))
		require.NoError(t, err)
	}
	assert.Equal(t, 100, svc.Tracked())
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.CreditScores))

	assert.Eventually(t, func() bool { return svc.Tracked() == 0 }, 3*time.Second, 10*time.Millisecond)
	_, ok := svc.Snapshot(addr(1))
	assert.False(t, ok)

	res, err := svc.Refresh(context.Background(), addr(1))
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, uint64(1), res.Snapshot.Sequence)
}

func TestDashboardService_RefreshOutlivingItsStateIsNotApplied(t *testing.T) {
	deps, balances, _, publisher := dashboardFixture()
	deps.SnapshotTTL = 30 * time.Millisecond
	balances.gate = &gate{entered: make(chan struct{}), release: make(chan struct{})}
	svc := service.NewDashboardService(deps, logger.NewNop())
	owner := addr(7)

	slow := make(chan entity.RefreshResult, 1)
	go func() {
		res, err := svc.Refresh(context.Background(), owner)
		assert.NoError(t, err)
		slow <- res
	}()
	<-balances.gate.entered
	time.Sleep(80 * time.Millisecond)

	close(balances.gate.release)
	res := <-slow
	assert.False(t, res.Applied)
	_, ok := svc.Snapshot(owner)
	assert.False(t, ok)
	assert.Zero(t, publisher.count())
}

func TestDashboardService_SequencesArePerAddress(t *testing.T) {
	deps, _, _, _ := dashboardFixture()
	svc := service.NewDashboardService(deps, logger.NewNop())

	a, err := svc.Refresh(context.Background(), addr(1))
	require.NoError(t, err)
	b, err := svc.Refresh(context.Background(), addr(2))
	require.NoError(t, err)

	assert.True(t, a.Applied)
	assert.True(t, b.Applied)
	assert.Equal(t, uint64(1), b.Snapshot.Sequence)
}

func TestDashboardService_Latest(t *testing.T) {
	deps, balances, _, _ := dashboardFixture()
	svc := service.NewDashboardService(deps, logger.NewNop())

	first, err := svc.Latest(context.Background(), addr(7))
	require.NoError(t, err)
	second, err := svc.Latest(context.Background(), addr(7))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), balances.calls.Load())

	_, err = svc.Latest(context.Background(), "0xzz")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestDashboardService_FavoritesFailureDoesNotAbort(t *testing.T) {
	deps, _, favorites, _ := dashboardFixture()
	favorites.loadErr = errors.New("redis down")
	svc := service.NewDashboardService(deps, logger.NewNop())

	res, err := svc.Refresh(context.Background(), addr(7))

	require.NoError(t, err)
	assert.True(t, res.Applied)
	for _, c := range res.Snapshot.Collectibles.Collectibles {
		assert.False(t, c.IsFavorite)
	}
}

func TestDashboardService_IdenticalInputsGiveIdenticalProfiles(t *testing.T) {
	deps, _, _, _ := dashboardFixture()
	svc := service.NewDashboardService(deps, logger.NewNop())

	first, err := svc.Refresh(context.Background(), addr(7))
	require.NoError(t, err)
	second, err := svc.Refresh(context.Background(), addr(7))
	require.NoError(t, err)

	assert.Equal(t, first.Snapshot.Profile, second.Snapshot.Profile)
	assert.Equal(t, first.Snapshot.Balances, second.Snapshot.Balances)
}
