package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ruraldraft-backend/internal/metrics"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterConfig holds the handlers mounted by NewRouter
type RouterConfig struct {
	Documents *DocumentHandler
	Reference *ReferenceHandler
	Database  Pinger // optional, checked by /health
}

// NewRouter builds the gin engine with every route of the service.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestMetrics())

	r.GET("/health", health(cfg.Database))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		if cfg.Documents != nil {
			api.POST("/documents/generate", cfg.Documents.Generate)
			api.POST("/documents/preview", cfg.Documents.Preview)
			api.GET("/documents", cfg.Documents.ListDocuments)
			api.GET("/documents/:id", cfg.Documents.GetDocument)
			api.POST("/documents/:id/export", cfg.Documents.ExportDocument)
			api.GET("/documents/:id/exports", cfg.Documents.ListExports)
			api.GET("/exports/:id", cfg.Documents.GetExport)
			api.GET("/jobs/:id", cfg.Documents.GetJobStatus)
		}

		if cfg.Reference != nil {
			api.GET("/agents", cfg.Reference.ListAgents)
			api.GET("/salary/table", cfg.Reference.SalaryTable)
		}
	}

	return r
}

func health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":   "degraded",
					"database": err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
}

// requestMetrics observes request latency by route template.
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
