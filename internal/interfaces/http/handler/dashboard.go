package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	reportapp "github.com/fieldledger/backend/internal/application/report"
	"github.com/fieldledger/backend/internal/domain/shared"
)

// DashboardHandler serves the denormalized counters and cached aggregates
type DashboardHandler struct {
	BaseHandler
	dashboard *reportapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard *reportapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// dateRangeQuery binds the from/to window shared by the stats endpoints
type dateRangeQuery struct {
	From *time.Time `form:"from"`
	To   *time.Time `form:"to"`
}

// groupedQuery adds pagination on top of the date window
type groupedQuery struct {
	From     *time.Time `form:"from"`
	To       *time.Time `form:"to"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// GetCounters reads the tenant's dashboard counters
func (h *DashboardHandler) GetCounters(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}

	counters, err := h.dashboard.GetCounters(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counters)
}

// GetStats serves the aggregate money figures for a date range
func (h *DashboardHandler) GetStats(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}

	var q dateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindingError(c, err)
		return
	}

	stats, err := h.dashboard.GetStats(c.Request.Context(), tenantID, shared.DateRange{From: q.From, To: q.To})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// GetGroupedByCustomer serves per-customer totals for a date range
func (h *DashboardHandler) GetGroupedByCustomer(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}

	var q groupedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindingError(c, err)
		return
	}

	filter := shared.Filter{From: q.From, To: q.To, Page: q.Page, PageSize: q.PageSize}
	grouped, err := h.dashboard.GetGroupedByCustomer(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, grouped)
}
