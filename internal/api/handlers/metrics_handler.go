package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/restotrack-io/backend-go/internal/domain"
	"github.com/restotrack-io/backend-go/internal/service"
)

type MetricsHandler struct {
	service *service.MetricsService
}

func NewMetricsHandler(service *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{service: service}
}

// parseFilter reads the brand/outlet/date-range view from query params.
// Malformed dates degrade to an open bound rather than erroring.
func parseFilter(c *gin.Context) domain.Filter {
	return domain.Filter{
		Brand:  strings.TrimSpace(c.Query("brand")),
		Outlet: strings.TrimSpace(c.Query("outlet")),
		From:   domain.ParseDate(c.Query("from")),
		To:     domain.ParseDate(c.Query("to")),
	}
}

func (h *MetricsHandler) GetKpis(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Kpis(c.Request.Context(), parseFilter(c)))
}

func (h *MetricsHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.Dashboard(c.Request.Context(), parseFilter(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute dashboard", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *MetricsHandler) GetEBITDAHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.EBITDAHistory(c.Request.Context(), parseFilter(c)))
}

func (h *MetricsHandler) GetAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Alerts(c.Request.Context(), parseFilter(c)))
}

func (h *MetricsHandler) GetRules(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Rules(c.Request.Context()))
}

func (h *MetricsHandler) PutRules(c *gin.Context) {
	var rules []domain.AlertRule
	if err := c.ShouldBindJSON(&rules); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rules payload", "details": err.Error()})
		return
	}
	if err := h.service.SaveRules(c.Request.Context(), rules); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save rules", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (h *MetricsHandler) EmitActionItems(c *gin.Context) {
	filter := parseFilter(c)
	fromVariances, _ := strconv.ParseBool(c.DefaultQuery("from_variances", "false"))

	var (
		items []domain.ActionItem
		err   error
	)
	if fromVariances {
		items, err = h.service.EmitVarianceActionItems(c.Request.Context(), filter)
	} else {
		items, err = h.service.EmitActionItems(c.Request.Context(), filter)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to emit action items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

func (h *MetricsHandler) GetActionItems(c *gin.Context) {
	items, err := h.service.ActionItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch action items", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}
