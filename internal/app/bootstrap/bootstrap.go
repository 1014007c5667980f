// Package bootstrap wires the service graph shared by the API server and the CLI.
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/app/provider"
	"inft_dashboard/internal/app/service"
	"inft_dashboard/internal/infrastructure/configloader"
	"inft_dashboard/internal/infrastructure/favoritestore"
	"inft_dashboard/internal/infrastructure/httpclient"
	clientprovider "inft_dashboard/internal/infrastructure/network/client"
)

// App holds the constructed services. Close releases the ledger connection
// and the favorites store.
type App struct {
	Ledger    *clientprovider.SuiClient
	Prices    port.PriceService
	Dashboard *service.DashboardServiceImpl
	Favorites port.FavoritesService
	INFTs     port.INFTService
	Blobs     port.BlobService
	Mint      port.MintService
	Chat      port.ChatService
	Addresses port.AddressProvider

	closers []func() error
}

// New builds every service from cfg.
func New(cfg *configloader.Config, logger port.Logger) (*App, error) {
	app := &App{}

	sui, err := clientprovider.NewSuiClient(clientprovider.SuiClientOptions{
		PrimaryRPCURL:     cfg.Ledger.RPCURL,
		FallbackRPCURLs:   cfg.Ledger.FallbackRPCURLs,
		ConnectTimeout:    time.Duration(cfg.Ledger.ConnectTimeoutSeconds) * time.Second,
		CallTimeout:       time.Duration(cfg.Ledger.CallTimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.Ledger.RequestsPerSecond,
		Burst:             cfg.Ledger.Burst,
		Probe:             len(cfg.Ledger.FallbackRPCURLs) > 0,
	}, logger)
	if err != nil {
		return nil, err
	}
	app.Ledger = sui
	app.closers = append(app.closers, func() error { sui.Close(); return nil })
	ledger := clientprovider.NewMetadataCachingClient(sui,
		time.Duration(cfg.Ledger.MetadataCacheTTLMinutes)*time.Minute, logger)
	logger.Info("LedgerClient инициализирован.", "endpoint", sui.Endpoint())

	store, err := newFavoritesStore(cfg.Favorites, logger)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.closers = append(app.closers, store.Close)

	app.Prices = service.NewPriceService(httpclient.NewCoinGeckoClient(cfg.CoinGecko, logger), cfg.PriceTTL(), logger)

	perf := cfg.Performance
	app.Dashboard = service.NewDashboardService(service.DashboardDeps{
		Prices:      app.Prices,
		Balances:    service.NewBalanceAggregator(ledger, logger, perf.MaxConcurrentRoutines),
		Objects:     service.NewObjectClassifier(ledger, logger, perf.ObjectPageSize, perf.MaxObjects),
		Activity:    service.NewActivityAggregator(ledger, logger, perf.TransactionPageSize),
		Age:         service.NewAddressAgeResolver(ledger, logger),
		Favorites:   store,
		SnapshotTTL: cfg.SnapshotTTL(),
	}, logger)
	logger.Info("DashboardService успешно инициализирован.")

	walrus := httpclient.NewWalrusClient(cfg.Walrus, logger)
	app.Favorites = service.NewFavoritesService(store, logger)
	app.INFTs = service.NewINFTService(ledger, cfg.INFT.PackageID, perf.ObjectPageSize, perf.MaxObjects, logger)
	app.Blobs = service.NewBlobService(walrus, logger)
	app.Mint = service.NewMintService(walrus, cfg.INFT, cfg.Ledger.Network, logger)
	app.Chat = service.NewChatService(httpclient.NewChatClient(cfg.Chat, logger), logger)
	app.Addresses = provider.NewAddressProvider(cfg.Refresh.AddressesFile, logger)

	return app, nil
}

// Close releases resources in reverse construction order.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}

type closableStore interface {
	port.FavoritesStore
	Close() error
}

func newFavoritesStore(cfg configloader.FavoritesConfig, logger port.Logger) (closableStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case "redis":
		store, err := favoritestore.NewRedisStore(cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open favorites store: %w", err)
		}
		return store, nil
	case "", "memory":
		logger.Info("Favorites are kept in memory")
		return favoritestore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown favorites backend %q", cfg.Backend)
	}
}
