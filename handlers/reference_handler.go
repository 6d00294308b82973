package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ruraldraft-backend/agent"
	"ruraldraft-backend/ptbr"
	"ruraldraft-backend/salary"
)

// maxPeriods bounds the salary table preview.
const maxPeriods = 60

// ReferenceHandler serves the agent catalogue and the salary table preview
type ReferenceHandler struct {
	registry *agent.Registry
	table    *salary.Table
	periods  int
}

// NewReferenceHandler creates a new reference handler. periods is the table
// length used when the request does not give one.
func NewReferenceHandler(registry *agent.Registry, table *salary.Table, periods int) *ReferenceHandler {
	if periods <= 0 {
		periods = salary.DefaultPeriods
	}
	return &ReferenceHandler{
		registry: registry,
		table:    table,
		periods:  periods,
	}
}

// ListAgents handles GET /api/agents
func (h *ReferenceHandler) ListAgents(c *gin.Context) {
	infos := []agent.Info{}
	if h.registry != nil {
		infos = h.registry.Infos()
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    infos,
	})
}

// SalaryTable handles GET /api/salary/table?start=YYYY-MM-DD&periods=N
func (h *ReferenceHandler) SalaryTable(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "start must be a date in YYYY-MM-DD format")
		return
	}

	periods := h.periods
	if raw := c.Query("periods"); raw != "" {
		periods, err = strconv.Atoi(raw)
		if err != nil || periods <= 0 || periods > maxPeriods {
			respondError(c, http.StatusBadRequest, CodeInvalidRequest, "periods must be between 1 and 60")
			return
		}
	}

	rows := h.table.BuildPaymentTable(start, periods)
	base, total := salary.Totals(rows)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"start":          start.Format("2006-01-02"),
			"periods":        periods,
			"rows":           salary.Models(rows),
			"total_base":     base,
			"total":          total,
			"total_in_words": ptbr.MoneyToWords(total),
		},
	})
}
