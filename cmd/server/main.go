package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"virtual-bookclub/backend/internal/app"
	"virtual-bookclub/backend/internal/config"
	"virtual-bookclub/backend/internal/handler"
	"virtual-bookclub/backend/internal/logger"
	"virtual-bookclub/backend/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.For(context.Background()).Fatalf("[FATAL] %v", err)
	}
	logger.Configure(cfg.Env, cfg.Debug)
	log := logger.For(context.Background())

	log.Infof("[INFO] Starting Virtual Book Club env=%s", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a, err := app.New(ctx, cfg); err != nil {
		log.Warnf("[WARN] Failed to initialize search: %v", err)
		log.Warn("[WARN] Search functionality will be unavailable")
	} else {
		handler.InitSearch(a.Search, a.Presenter, cfg.Search.DefaultResults)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	allowedOrigins := cfg.AllowedOrigins
	if gin.Mode() != gin.ReleaseMode {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173")
	}

	ipLimiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst)
	dailyQuota := middleware.NewDailyQuota(cfg.RateLimit.DailyQuota)
	log.Infof("[INFO] Rate limiting enabled per_second=%.2f burst=%d daily_quota=%d",
		cfg.RateLimit.PerSecond, cfg.RateLimit.Burst, cfg.RateLimit.DailyQuota)

	r, err := handler.NewRouter(handler.RouterConfig{
		AllowedOrigins: allowedOrigins,
		CoversURL:      cfg.Catalog.CoversURL,
		IPLimiter:      ipLimiter,
		Quota:          dailyQuota,
	})
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("[INFO] Server ready port=%s allowed_origins=%v", cfg.Port, allowedOrigins)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("[INFO] Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("[ERROR] Graceful shutdown failed: %v", err)
	}
}
