// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/restotrack-io/backend-go/internal/api/handlers"
	"github.com/restotrack-io/backend-go/internal/api/middleware"
	"github.com/restotrack-io/backend-go/internal/service"
)

func NewRouter(metrics *service.MetricsService, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if metrics != nil {
		metricsHandler := handlers.NewMetricsHandler(metrics)
		metricsGroup := apiGroup.Group("/metrics")
		{
			metricsGroup.GET("/kpis", metricsHandler.GetKpis)
			metricsGroup.GET("/dashboard", metricsHandler.GetDashboard)
			metricsGroup.GET("/ebitda_history", metricsHandler.GetEBITDAHistory)
		}

		reconciliationHandler := handlers.NewReconciliationHandler(metrics)
		reconciliationGroup := apiGroup.Group("/reconciliation")
		{
			reconciliationGroup.GET("/variances", reconciliationHandler.GetVariances)
			reconciliationGroup.POST("/inputs", reconciliationHandler.SaveInput)
		}

		apiGroup.GET("/alerts", metricsHandler.GetAlerts)
		apiGroup.GET("/alert_rules", metricsHandler.GetRules)
		apiGroup.PUT("/alert_rules", metricsHandler.PutRules)

		actionGroup := apiGroup.Group("/action_items")
		{
			actionGroup.GET("", metricsHandler.GetActionItems)
			actionGroup.POST("/emit", metricsHandler.EmitActionItems)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
