package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldledger/backend/internal/application/reconcile"
	"github.com/fieldledger/backend/internal/infrastructure/scheduler"
	"github.com/fieldledger/backend/internal/interfaces/http/dto"
)

// AdminHandler exposes the counter reconciliation operations
type AdminHandler struct {
	BaseHandler
	reconciler *reconcile.Reconciler
	sched      *scheduler.ReconciliationScheduler
}

// NewAdminHandler creates a new AdminHandler. The scheduler may be nil when
// background reconciliation is disabled.
func NewAdminHandler(reconciler *reconcile.Reconciler, sched *scheduler.ReconciliationScheduler) *AdminHandler {
	return &AdminHandler{reconciler: reconciler, sched: sched}
}

// ReconcileTenant recomputes and repairs one tenant's counters synchronously
func (h *AdminHandler) ReconcileTenant(c *gin.Context) {
	if _, ok := h.tenantFromContext(c); !ok {
		return
	}
	tenantID, ok := h.pathID(c, "tenantId")
	if !ok {
		return
	}

	result, err := h.reconciler.Reconcile(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// TriggerReconciliation kicks off a background sweep over all active tenants
func (h *AdminHandler) TriggerReconciliation(c *gin.Context) {
	if _, ok := h.tenantFromContext(c); !ok {
		return
	}
	if h.sched == nil {
		c.JSON(http.StatusServiceUnavailable,
			dto.NewErrorResponse(dto.ErrCodeDependencyUnavailable, "Reconciliation scheduler is disabled"))
		return
	}

	if err := h.sched.TriggerManualRun(); err != nil {
		c.JSON(http.StatusServiceUnavailable,
			dto.NewErrorResponse(dto.ErrCodeDependencyUnavailable, "Reconciliation scheduler is not running"))
		return
	}
	c.JSON(http.StatusAccepted, dto.NewSuccessResponse(gin.H{"status": "reconciliation started"}))
}

// ReconciliationStatus reports when the last background sweep ran
func (h *AdminHandler) ReconciliationStatus(c *gin.Context) {
	if _, ok := h.tenantFromContext(c); !ok {
		return
	}

	var lastRun interface{}
	if h.sched != nil {
		lastRun = h.sched.LastRunAt()
	}
	h.Success(c, gin.H{
		"enabled":     h.sched != nil,
		"last_run_at": lastRun,
	})
}
