package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"virtual-bookclub/backend/internal/middleware"
	"virtual-bookclub/backend/internal/present"
)

// RouterConfig holds what the router needs besides the search service
type RouterConfig struct {
	AllowedOrigins []string
	CoversURL      string
	IPLimiter      *middleware.IPRateLimiter
	Quota          *middleware.DailyQuota
}

// NewRouter builds the gin engine with middleware and routes.
// InitSearch must be called for the search routes to serve results.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	tmpl, err := present.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())

	// Security headers (before CORS)
	var imgSources []string
	if cfg.CoversURL != "" {
		imgSources = append(imgSources, cfg.CoversURL)
	}
	r.Use(middleware.SecurityHeaders(imgSources...))

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", middleware.RequestIDHeader},
			ExposeHeaders:    []string{middleware.RequestIDHeader, "Retry-After"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.SetHTMLTemplate(tmpl)

	// Health check endpoints (no rate limiting)
	r.GET("/health", HandleHealth)
	r.GET("/ready", HandleReadiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := middleware.RateLimitMiddleware(cfg.IPLimiter, cfg.Quota)
	limitedPage := middleware.RateLimitWith(cfg.IPLimiter, cfg.Quota, renderRateLimited)

	r.GET("/", HandleIndex)
	r.GET("/search", limitedPage, HandleSearchPage)
	r.POST("/search", limitedPage, HandleSearchPage)

	api := r.Group("/api")
	{
		api.GET("/genres", HandleGenres)
		api.POST("/search", limited, HandleSearchAPI)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "code": "NOT_FOUND"})
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
	})

	return r, nil
}
