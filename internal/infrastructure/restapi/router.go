package restapi

import (
	"net/http/pprof"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"inft_dashboard/internal/infrastructure/configloader"
)

// SetupRouter builds the gin engine with middleware, the /api/v1 routes and
// the operational endpoints.
func SetupRouter(h *Handler, cfg configloader.ServerConfig, zapLogger *zap.Logger) *gin.Engine {
	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	router.Use(cors.New(corsConfig))

	router.Use(RequestID())
	router.Use(Metrics())
	router.Use(ZapLogger(zapLogger))
	router.Use(gin.Recovery())
	if cfg.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/dashboard/:address", h.GetDashboard)
		v1.POST("/dashboard/:address/refresh", h.RefreshDashboard)
		v1.GET("/dashboard/:address/tokens", h.GetTokens)
		v1.GET("/dashboard/:address/collectibles", h.GetCollectibles)
		v1.GET("/dashboard/:address/activity", h.GetActivity)
		v1.POST("/score", h.Score)

		v1.GET("/favorites/:owner", h.ListFavorites)
		v1.PUT("/favorites/:owner/:objectId", h.AddFavorite)
		v1.DELETE("/favorites/:owner/:objectId", h.RemoveFavorite)

		v1.GET("/infts/:address", h.ListINFTs)
		v1.POST("/blobs", h.UploadBlob)
		v1.POST("/mint/prepare", h.PrepareMint)
		v1.POST("/chat", h.Chat)

		v1.GET("/ws/dashboard/:address", h.DashboardSocket)
	}

	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerSpecPath != "" {
		router.StaticFile("/docs/swagger.yaml", cfg.SwaggerSpecPath)
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/docs/swagger.yaml")))
	}

	if cfg.EnablePprof {
		pprofRouter := router.Group("/debug/pprof")
		{
			pprofRouter.GET("/", gin.WrapF(pprof.Index))
			pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
			pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
			pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
			pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
			pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
			pprofRouter.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
		}
		zapLogger.Info("Pprof endpoints enabled under /debug/pprof")
	}

	return router
}
