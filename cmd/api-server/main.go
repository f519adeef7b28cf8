package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shopcatalog/internal/catalog"
	"shopcatalog/internal/category"
	"shopcatalog/internal/httpx"
	"shopcatalog/internal/listing"
	"shopcatalog/internal/product"
	"shopcatalog/internal/seed"
	"shopcatalog/internal/subcategory"
	synchub "shopcatalog/internal/sync"
	"shopcatalog/pkg/database"
	"shopcatalog/pkg/logger"
	"shopcatalog/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg := utils.LoadConfig()

	log := logger.Must(cfg.Logger)
	defer log.Sync()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg, log)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal("db migrate failed", zap.Error(err))
	}
	log.Info("database ready", zap.String("path", dbCfg.Path))

	categoryRepo := category.NewRepo(db)
	subcategoryRepo := subcategory.NewRepo(db)
	productRepo := product.NewRepo(db)
	listingRepo := listing.NewRepo(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := seed.NewLoader(categoryRepo, subcategoryRepo, productRepo, listingRepo, log)
	ctrl, err := catalog.NewController(ctx, productRepo, loader,
		catalog.WithLogger(log),
		catalog.WithWorkers(cfg.IOWorkers),
	)
	if err != nil {
		log.Fatal("catalog init failed", zap.Error(err))
	}

	// Live snapshot feed: every published state goes out over TCP and websocket.
	hub := synchub.NewHub(log)
	updates, unsubscribe := ctrl.Products().Subscribe()
	defer unsubscribe()
	go hub.Follow(ctx, updates)
	tcpSrv := synchub.NewServer(cfg.TCPSyncAddr, hub)

	if cfg.AppEnv != "dev" && cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(log.Named("http")))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", httpx.RequestIDHeader},
		ExposeHeaders:    []string{httpx.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbCfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(pingCtx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":      "not_ready",
				"db_error":    err.Error(),
				"tcp_clients": stats.TCPClients,
				"ws_clients":  stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"db":          "ok",
			"products":    len(ctrl.Snapshot().Products),
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	router.GET("/ws", synchub.WSHandler(hub))

	catalog.NewHandler(ctrl).RegisterRoutes(router.Group("/catalog"))

	refresh := func(ctx context.Context) {
		if err := ctrl.ReloadAll(ctx); err != nil {
			log.Warn("refresh after mutation failed", zap.Error(err))
		}
	}
	category.NewHandler(categoryRepo, refresh).RegisterRoutes(router.Group("/categories"))
	listing.NewHandler(listingRepo, productRepo).RegisterRoutes(router.Group(""))

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("HTTP API server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	log.Info("shutting down servers")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown error", zap.Error(err))
	}
	if err := tcpSrv.Close(); err != nil {
		log.Warn("tcp shutdown error", zap.Error(err))
	}

	wg.Wait()
	log.Info("servers stopped")
}
