package handler

import (
	"github.com/gin-gonic/gin"

	jobcostapp "github.com/fieldledger/backend/internal/application/jobcost"
)

// JobCostHandler handles job cost ledger API endpoints
type JobCostHandler struct {
	BaseHandler
	jobCosts *jobcostapp.Service
}

// NewJobCostHandler creates a new JobCostHandler
func NewJobCostHandler(jobCosts *jobcostapp.Service) *JobCostHandler {
	return &JobCostHandler{jobCosts: jobCosts}
}

// Create creates a new job cost ledger
func (h *JobCostHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}

	var req jobcostapp.CreateJobCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	jc, err := h.jobCosts.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, jc)
}

// GetByID retrieves a job cost by ID
func (h *JobCostHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	jc, err := h.jobCosts.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, jc)
}

// GetByQuotationRef retrieves the job cost linked to a quotation number
func (h *JobCostHandler) GetByQuotationRef(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}
	ref := c.Param("ref")
	if ref == "" {
		h.BadRequest(c, "Quotation reference is required")
		return
	}

	jc, err := h.jobCosts.GetByQuotationRef(c.Request.Context(), tenantID, ref)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, jc)
}

// List retrieves a paginated job cost list
func (h *JobCostHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}

	var filter jobcostapp.JobCostListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.jobCosts.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	SuccessPage(c, page)
}

// Update updates a job cost's header and editable collections
func (h *JobCostHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req jobcostapp.UpdateJobCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	jc, err := h.jobCosts.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, jc)
}

// AddExpense appends one other-expenses line
func (h *JobCostHandler) AddExpense(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req jobcostapp.ExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	jc, err := h.jobCosts.AddExpense(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, jc)
}

// Delete deletes a job cost ledger
func (h *JobCostHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantFromContext(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.jobCosts.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
