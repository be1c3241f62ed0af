package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/restotrack-io/backend-go/internal/domain"
	"github.com/restotrack-io/backend-go/internal/service"
)

type ReconciliationHandler struct {
	service *service.MetricsService
}

func NewReconciliationHandler(service *service.MetricsService) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

func (h *ReconciliationHandler) GetVariances(c *gin.Context) {
	filter := parseFilter(c)
	onlyExceeding, _ := strconv.ParseBool(c.DefaultQuery("only_exceeding", "false"))

	rows := h.service.Variances(c.Request.Context(), filter, onlyExceeding)
	c.JSON(http.StatusOK, gin.H{
		"items": rows,
		"total": len(rows),
	})
}

func (h *ReconciliationHandler) SaveInput(c *gin.Context) {
	var input domain.ReconciliationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reconciliation input", "details": err.Error()})
		return
	}
	if strings.TrimSpace(input.ItemCode) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemCode is required"})
		return
	}

	if err := h.service.SaveReconciliationInput(c.Request.Context(), input); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save reconciliation input", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, input)
}
