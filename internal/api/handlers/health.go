package handlers

import (
	"net/http"
	"time"

	"github.com/concave-dev/rollupd/internal/node"
	"github.com/gin-gonic/gin"
)

// StatusFunc returns the event loop's latest snapshot.
type StatusFunc func() node.Status

// HealthResponse is the health check body.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// HandleHealth reports "healthy" while the event loop runs and 503 "stopped"
// once it has exited.
func HandleHealth(version string, startTime time.Time, status StatusFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
		}

		code := http.StatusOK
		if !status().Running {
			response.Status = "stopped"
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, response)
	}
}
