package handler

import (
	"github.com/gin-gonic/gin"

	tradeapp "github.com/fieldledger/backend/internal/application/trade"
)

// MaterialSaleHandler handles material sale API endpoints
type MaterialSaleHandler struct {
	BaseHandler
	sales *tradeapp.MaterialSaleService
}

// NewMaterialSaleHandler creates a new MaterialSaleHandler
func NewMaterialSaleHandler(sales *tradeapp.MaterialSaleService) *MaterialSaleHandler {
	return &MaterialSaleHandler{sales: sales}
}

// Create creates a new material sale
func (h *MaterialSaleHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}

	var req tradeapp.CreateMaterialSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	sale, err := h.sales.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// GetByID retrieves a sale by ID
func (h *MaterialSaleHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	sale, err := h.sales.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// List retrieves a paginated sale list
func (h *MaterialSaleHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}

	var filter tradeapp.MaterialSaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.sales.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// Update updates a sale's header and items
func (h *MaterialSaleHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.UpdateMaterialSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	sale, err := h.sales.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// ChangeStatus requests a sale status transition
func (h *MaterialSaleHandler) ChangeStatus(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.ChangeSaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	sale, err := h.sales.ChangeStatus(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Delete deletes a sale
func (h *MaterialSaleHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.sales.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
