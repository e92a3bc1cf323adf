package api

import (
	"github.com/concave-dev/rollupd/internal/api/handlers"
	"github.com/concave-dev/rollupd/internal/version"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Configures all API routes
func (s *Server) setupRoutes(router *gin.Engine) {
	cfg := s.config

	// JSON-RPC endpoint
	router.POST("/", handlers.HandleJSONRPC(cfg.Transactions, cfg.EnqueueTimeout))

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")

	v1.GET("/health", handlers.HandleHealth(version.RollupdVersion, s.startTime, cfg.Status))
	v1.GET("/status", handlers.HandleStatus(cfg.NodeName, version.RollupdVersion, s.startTime, cfg.Status, cfg.Peers))
	v1.GET("/peers", handlers.HandlePeers(cfg.Peers))

	txs := v1.Group("/transactions")
	{
		txs.POST("", handlers.HandleSubmitTransaction(cfg.Transactions, cfg.EnqueueTimeout))
		txs.GET("/:hash", handlers.HandleGetTransaction(cfg.Ledger))
	}
}
