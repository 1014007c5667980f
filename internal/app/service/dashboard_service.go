package service

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/domain/scoring"
	"inft_dashboard/internal/infrastructure/metrics"
	"inft_dashboard/internal/pkg/utils"
)

const (
	gasDisplayPlaces   = 4
	defaultSnapshotTTL = 10 * time.Minute
)

// DashboardServiceImpl implements port.DashboardService.
//
// Each refresh takes the next sequence number of its address when it starts.
// Its snapshot is stored and published only if no later refresh of the same
// address has started in the meantime. Per-address state expires SnapshotTTL
// after the last refresh started, so untracked addresses do not accumulate.
type DashboardServiceImpl struct {
	prices    port.PriceService
	balances  port.BalanceAggregator
	objects   port.ObjectClassifier
	activity  port.ActivityAggregator
	age       port.AddressAgeResolver
	favorites port.FavoritesStore
	publisher port.SnapshotPublisher
	logger    port.Logger
	now       func() time.Time
	mu        sync.Mutex
	ttl       time.Duration
	states    *cache.Cache
}

// addressState is replaced, never reset, when it expires. A refresh holding a
// pointer to an expired state can therefore not apply.
type addressState struct {
	issued   uint64
	snapshot *entity.DashboardSnapshot
}

// DashboardDeps groups the collaborators of the dashboard service.
type DashboardDeps struct {
	Prices    port.PriceService
	Balances  port.BalanceAggregator
	Objects   port.ObjectClassifier
	Activity  port.ActivityAggregator
	Age       port.AddressAgeResolver
	Favorites port.FavoritesStore
	// Publisher is optional.
	Publisher port.SnapshotPublisher
	// SnapshotTTL defaults to ten minutes.
	SnapshotTTL time.Duration
}

// NewDashboardService creates a new instance of DashboardServiceImpl.
func NewDashboardService(deps DashboardDeps, logger port.Logger) *DashboardServiceImpl {
	ttl := deps.SnapshotTTL
	if ttl <= 0 {
		ttl = defaultSnapshotTTL
	}
	states := cache.New(ttl, 2*ttl)
	states.OnEvicted(func(string, any) {
		metrics.TrackedSnapshots.Set(float64(states.ItemCount()))
	})
	return &DashboardServiceImpl{
		prices:    deps.Prices,
		balances:  deps.Balances,
		objects:   deps.Objects,
		activity:  deps.Activity,
		age:       deps.Age,
		favorites: deps.Favorites,
		publisher: deps.Publisher,
		logger:    logger,
		now:       time.Now,
		ttl:       ttl,
		states:    states,
	}
}

// SetPublisher attaches the live snapshot publisher. The websocket hub is
// built after the service, hence the setter.
func (s *DashboardServiceImpl) SetPublisher(p port.SnapshotPublisher) {
	s.mu.Lock()
	s.publisher = p
	s.mu.Unlock()
}

// Refresh implements port.DashboardService.
func (s *DashboardServiceImpl) Refresh(ctx context.Context, address string) (entity.RefreshResult, error) {
	owner, err := entity.NormalizeAddress(address)
	if err != nil {
		return entity.RefreshResult{}, err
	}

	state, seq := s.nextSequence(owner)
	start := s.now()
	s.logger.Debug("Dashboard refresh started", "owner", owner, "sequence", seq)

	price := s.prices.NativePrice(ctx)

	var (
		balances     entity.BalanceReport
		collectibles entity.CollectibleReport
		activity     entity.ActivityReport
		ageDays      int
	)

	var portfolio errgroup.Group
	portfolio.Go(func() error {
		balances = s.balances.Aggregate(ctx, owner, price)
		return nil
	})
	portfolio.Go(func() error {
		collectibles = s.objects.Classify(ctx, owner)
		return nil
	})
	_ = portfolio.Wait()

	var history errgroup.Group
	history.Go(func() error {
		activity = s.activity.Aggregate(ctx, owner)
		return nil
	})
	history.Go(func() error {
		ageDays = s.age.AgeDays(ctx, owner)
		return nil
	})
	_ = history.Wait()

	s.markFavorites(ctx, owner, collectibles.Collectibles)

	profile := scoring.Compute(entity.ScoreInputs{
		AddressAgeDays:   ageDays,
		TransactionCount: len(activity.Transactions),
		PortfolioFiat:    balances.TotalFiat,
		CollectibleCount: len(collectibles.Collectibles),
	})
	gas := activity.TotalGas
	if gas == nil {
		gas = new(big.Int)
	}
	profile.GasSpentMist = gas
	profile.GasSpent = utils.FormatFixed(gas, entity.NativeDecimals, gasDisplayPlaces)

	snapshot := entity.DashboardSnapshot{
		Address:        owner,
		Sequence:       seq,
		RefreshedAt:    s.now().UTC(),
		NativePriceUSD: price,
		Balances:       balances,
		Collectibles:   collectibles,
		Activity:       activity,
		Profile:        profile,
	}

	applied, publisher := s.apply(state, snapshot)
	metrics.RefreshDuration.Observe(s.now().Sub(start).Seconds())
	if !applied {
		metrics.Refreshes.WithLabelValues("stale").Inc()
		s.logger.Info("Discarding stale dashboard refresh", "owner", owner, "sequence", seq)
		return entity.RefreshResult{Snapshot: snapshot, Applied: false}, nil
	}

	metrics.Refreshes.WithLabelValues("applied").Inc()
	metrics.CreditScores.Observe(float64(profile.OverallScore))
	if publisher != nil {
		publisher.Publish(snapshot)
	}
	s.logger.Info("Dashboard refreshed", "owner", owner, "sequence", seq,
		"score", profile.OverallScore, "band", profile.Band, "total_fiat", balances.TotalFiat)
	return entity.RefreshResult{Snapshot: snapshot, Applied: true}, nil
}

// Snapshot implements port.DashboardService.
func (s *DashboardServiceImpl) Snapshot(address string) (entity.DashboardSnapshot, bool) {
	owner, err := entity.NormalizeAddress(address)
	if err != nil {
		return entity.DashboardSnapshot{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.states.Get(owner)
	if !ok {
		return entity.DashboardSnapshot{}, false
	}
	state := v.(*addressState)
	if state.snapshot == nil {
		return entity.DashboardSnapshot{}, false
	}
	return *state.snapshot, true
}

// Latest implements port.DashboardService.
func (s *DashboardServiceImpl) Latest(ctx context.Context, address string) (entity.DashboardSnapshot, error) {
	if _, err := entity.NormalizeAddress(address); err != nil {
		return entity.DashboardSnapshot{}, err
	}
	if snap, ok := s.Snapshot(address); ok {
		return snap, nil
	}
	res, err := s.Refresh(ctx, address)
	if err != nil {
		return entity.DashboardSnapshot{}, err
	}
	return res.Snapshot, nil
}

// nextSequence issues the next sequence number of owner and renews the
// expiry of its state.
func (s *DashboardServiceImpl) nextSequence(owner string) (*addressState, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := &addressState{}
	if v, ok := s.states.Get(owner); ok {
		state = v.(*addressState)
	}
	state.issued++
	s.states.Set(owner, state, s.ttl)
	metrics.TrackedSnapshots.Set(float64(s.states.ItemCount()))
	return state, state.issued
}

// apply stores snapshot if its state is still live and its sequence is still
// the latest issued.
func (s *DashboardServiceImpl) apply(state *addressState, snapshot entity.DashboardSnapshot) (bool, port.SnapshotPublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.states.Get(snapshot.Address)
	if !ok || v.(*addressState) != state || state.issued != snapshot.Sequence {
		return false, nil
	}
	state.snapshot = &snapshot
	return true, s.publisher
}

// Tracked returns the number of addresses whose state is held.
func (s *DashboardServiceImpl) Tracked() int {
	return s.states.ItemCount()
}

func (s *DashboardServiceImpl) markFavorites(ctx context.Context, owner string, collectibles []entity.Collectible) {
	if s.favorites == nil || len(collectibles) == 0 {
		return
	}
	ids, err := s.favorites.Load(ctx, owner)
	if err != nil {
		s.logger.Warn("Failed to load favorites, collectibles left unmarked", "owner", owner, "error", err)
		metrics.DegradedFetches.WithLabelValues("favorites").Inc()
		return
	}
	favorite := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		favorite[id] = struct{}{}
	}
	for i := range collectibles {
		_, collectibles[i].IsFavorite = favorite[collectibles[i].ObjectID]
	}
}
