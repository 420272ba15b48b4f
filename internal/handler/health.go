package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Search    string `json:"search"`
	Catalog   string `json:"catalog,omitempty"`
	Inflight  int    `json:"inflight"`
}

// HandleHealth returns the health status of the service
// Used for Cloud Run liveness probe
func HandleHealth(c *gin.Context) {
	svc, _, _ := currentSearch()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Search:    "ready",
	}
	if svc == nil {
		resp.Status = "degraded"
		resp.Search = "unavailable"
	} else {
		resp.Catalog = svc.CatalogName()
		resp.Inflight = svc.Inflight().Len()
	}

	c.JSON(http.StatusOK, resp)
}

// HandleReadiness returns whether the service is ready to accept traffic
// Used for Cloud Run startup probe - stricter than health
func HandleReadiness(c *gin.Context) {
	svc, _, _ := currentSearch()
	if svc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": "search_not_initialized",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
