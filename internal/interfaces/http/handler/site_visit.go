package handler

import (
	"github.com/gin-gonic/gin"

	fieldapp "github.com/fieldledger/backend/internal/application/field"
)

// SiteVisitHandler handles site visit API endpoints
type SiteVisitHandler struct {
	BaseHandler
	visits *fieldapp.Service
}

// NewSiteVisitHandler creates a new SiteVisitHandler
func NewSiteVisitHandler(visits *fieldapp.Service) *SiteVisitHandler {
	return &SiteVisitHandler{visits: visits}
}

// Create creates a new pending site visit
func (h *SiteVisitHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}

	var req fieldapp.CreateSiteVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	visit, err := h.visits.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, visit)
}

// GetByID retrieves a visit by ID
func (h *SiteVisitHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	visit, err := h.visits.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, visit)
}

// List retrieves a paginated visit list
func (h *SiteVisitHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}

	var filter fieldapp.SiteVisitListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.visits.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// Update updates a visit's details
func (h *SiteVisitHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req fieldapp.UpdateSiteVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	visit, err := h.visits.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, visit)
}

// ChangeStatus requests a visit status transition
func (h *SiteVisitHandler) ChangeStatus(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req fieldapp.ChangeVisitStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	visit, err := h.visits.ChangeStatus(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, visit)
}

// Delete deletes a visit
func (h *SiteVisitHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.visits.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
