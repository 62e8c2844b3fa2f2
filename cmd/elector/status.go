package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arloliu/elector"
)

// newStatusRouter serves the session snapshot and the Prometheus registry.
//
// Routes:
//   - GET /status: Session snapshot as JSON
//   - GET /healthz: 200 while the session is live, 503 once it failed or disconnected
//   - GET /metrics: Prometheus exposition
func newStatusRouter(session *elector.Session, registry *prometheus.Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, session.Snapshot())
	})

	router.GET("/healthz", func(c *gin.Context) {
		phase := session.Phase()
		switch phase {
		case elector.PhaseFailed, elector.PhaseDisconnecting, elector.PhaseDisconnected:
			c.JSON(http.StatusServiceUnavailable, gin.H{"phase": phase.String()})
		default:
			c.JSON(http.StatusOK, gin.H{"phase": phase.String()})
		}
	})

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return router
}
