package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lawfirm-cms/internal/config"
	"lawfirm-cms/internal/httpapi"
	"lawfirm-cms/internal/metrics"
	"lawfirm-cms/internal/ratelimit"
	"lawfirm-cms/pkg/utils"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers delegate to internal modules.
func registerRoutes(r *gin.Engine, h *httpapi.Handlers, db *utils.DB, m *metrics.Metrics, cfg config.HTTPConfig) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db.DB, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api")
	api.Use(ratelimit.Throttle(cfg.RatePerSecond, cfg.RateBurst))
	h.Register(api)

	if cfg.StaticDir != "" {
		r.NoRoute(spaHandler(cfg.StaticDir))
	}
}

// spaHandler serves built frontend assets and falls back to index.html so
// client-side routes survive a reload. Unknown /api paths stay 404.
func spaHandler(dir string) gin.HandlerFunc {
	index := filepath.Join(dir, "index.html")
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if strings.HasPrefix(p, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Not found"})
			return
		}
		if strings.Contains(p, "..") {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid path"})
			return
		}
		file := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+p)))
		if st, err := os.Stat(file); err == nil && !st.IsDir() {
			c.File(file)
			return
		}
		c.File(index)
	}
}
