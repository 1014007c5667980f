package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"inft_dashboard/internal/app/bootstrap"
	"inft_dashboard/internal/app/service"
	"inft_dashboard/internal/infrastructure/configloader"
	"inft_dashboard/internal/infrastructure/restapi"
	"inft_dashboard/internal/pkg/logger"
)

const defaultConfigPath = "config/config.yml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.Init(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	logger.Info("INFT dashboard запускается...", "config", cfgPath, "network", cfg.Ledger.Network)
	logger.Info("Установлен лимит параллельных горутин", "количество", cfg.Performance.MaxConcurrentRoutines)
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewSlogAdapter()

	app, err := bootstrap.New(cfg, appLogger)
	if err != nil {
		logger.Fatal("Не удалось инициализировать сервисы", "ошибка", err)
	}
	defer app.Close()

	hub := restapi.NewHub(cfg.Server.AllowedOrigins, appLogger)
	app.Dashboard.SetPublisher(hub)
	go hub.Run(ctx)

	if cfg.Refresh.Enabled {
		refresher := service.NewRefresher(app.Dashboard, app.Addresses, app.Prices,
			cfg.RefreshInterval(), cfg.PriceTTL(), cfg.Performance.MaxConcurrentRoutines, appLogger)
		go refresher.Run(ctx)
		logger.Info("Фоновое обновление запущено", "interval", cfg.RefreshInterval(), "file", cfg.Refresh.AddressesFile)
	}

	handler := restapi.NewHandler(restapi.Services{
		Dashboard: app.Dashboard,
		Favorites: app.Favorites,
		INFTs:     app.INFTs,
		Blobs:     app.Blobs,
		Mint:      app.Mint,
		Chat:      app.Chat,
	}, hub, cfg.Server.MaxUploadBytes, appLogger)
	router := restapi.SetupRouter(handler, cfg.Server, zapLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Запуск HTTP сервера", "адрес", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Не удалось запустить HTTP сервер", "ошибка", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Получен сигнал завершения. Завершение работы HTTP сервера...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка при Graceful Shutdown HTTP сервера", "ошибка", err)
	} else {
		logger.Info("HTTP сервер успешно остановлен.")
	}

	logger.Info("INFT dashboard остановлен.")
}
