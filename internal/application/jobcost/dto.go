package jobcost

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fieldledger/backend/internal/domain/jobcost"
)

// CreateJobCostRequest represents a request to create a job cost ledger
type CreateJobCostRequest struct {
	// Number is optional; when empty the server allocates the next JC number
	Number       string             `json:"number" binding:"omitempty,max=50"`
	QuotationRef string             `json:"quotation_ref" binding:"required,min=1,max=50"`
	ProjectName  string             `json:"project_name" binding:"omitempty,max=200"`
	CustomerName string             `json:"customer_name" binding:"omitempty,max=200"`
	InvoiceItems []InvoiceItemInput `json:"invoice_items"`
	Expenses     []ExpenseInput     `json:"expenses"`
}

// InvoiceItemInput represents one selling-side line in a request
type InvoiceItemInput struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
}

// ExpenseInput represents one other-expenses line in a request
type ExpenseInput struct {
	Description string          `json:"description" binding:"required,min=1,max=200"`
	Amount      decimal.Decimal `json:"amount"`
}

// UpdateJobCostRequest represents a request to update a job cost's header and
// editable collections. Nil slices leave the current collection untouched.
type UpdateJobCostRequest struct {
	ProjectName  *string            `json:"project_name" binding:"omitempty,max=200"`
	CustomerName *string            `json:"customer_name" binding:"omitempty,max=200"`
	InvoiceItems []InvoiceItemInput `json:"invoice_items"`
	Expenses     []ExpenseInput     `json:"expenses"`
}

// JobCostListFilter represents filter options for the job cost list
type JobCostListFilter struct {
	Search   string     `form:"search"`
	From     *time.Time `form:"from"`
	To       *time.Time `form:"to"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// JobCostResponse represents a job cost in API responses
type JobCostResponse struct {
	ID            uuid.UUID             `json:"id"`
	TenantID      uuid.UUID             `json:"tenant_id"`
	Number        string                `json:"number"`
	QuotationRef  string                `json:"quotation_ref"`
	ProjectName   string                `json:"project_name"`
	CustomerName  string                `json:"customer_name"`
	InvoiceItems  []InvoiceItemResponse `json:"invoice_items"`
	POItems       []POItemResponse      `json:"po_items"`
	Expenses      []ExpenseResponse     `json:"expenses"`
	TotalRevenue  decimal.Decimal       `json:"total_revenue"`
	MaterialCost  decimal.Decimal       `json:"material_cost"`
	OtherExpenses decimal.Decimal       `json:"other_expenses"`
	NetProfit     decimal.Decimal       `json:"net_profit"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// JobCostListItemResponse is the compact list projection
type JobCostListItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	Number       string          `json:"number"`
	QuotationRef string          `json:"quotation_ref"`
	ProjectName  string          `json:"project_name"`
	CustomerName string          `json:"customer_name"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	CreatedAt    time.Time       `json:"created_at"`
}

// InvoiceItemResponse represents one selling-side line in responses
type InvoiceItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	IsDeduction  bool            `json:"is_deduction"`
}

// POItemResponse represents one purchase order snapshot line in responses
type POItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	SupplierName string          `json:"supplier_name"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	OrderDate    time.Time       `json:"order_date"`
	OrderStatus  string          `json:"order_status"`
}

// ExpenseResponse represents one other-expenses line in responses
type ExpenseResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// ToJobCostResponse maps a domain job cost to its response form
func ToJobCostResponse(jc *jobcost.JobCost) JobCostResponse {
	items := make([]InvoiceItemResponse, 0, len(jc.InvoiceItems))
	for _, it := range jc.InvoiceItems {
		items = append(items, InvoiceItemResponse{
			ID:           it.ID,
			Name:         it.Name,
			Quantity:     it.Quantity,
			SellingPrice: it.SellingPrice,
			CostPrice:    it.CostPrice,
			IsDeduction:  it.IsDeduction(),
		})
	}
	poItems := make([]POItemResponse, 0, len(jc.POItems))
	for _, it := range jc.POItems {
		poItems = append(poItems, POItemResponse{
			ID:           it.ID,
			OrderID:      it.OrderID,
			OrderNumber:  it.OrderNumber,
			SupplierName: it.SupplierName,
			Name:         it.Name,
			Quantity:     it.Quantity,
			Unit:         it.Unit,
			UnitPrice:    it.UnitPrice,
			OrderDate:    it.OrderDate,
			OrderStatus:  it.OrderStatus,
		})
	}
	expenses := make([]ExpenseResponse, 0, len(jc.Expenses))
	for _, e := range jc.Expenses {
		expenses = append(expenses, ExpenseResponse{
			ID:          e.ID,
			Description: e.Description,
			Amount:      e.Amount,
		})
	}
	return JobCostResponse{
		ID:            jc.ID,
		TenantID:      jc.TenantID,
		Number:        jc.Number,
		QuotationRef:  jc.QuotationRef,
		ProjectName:   jc.ProjectName,
		CustomerName:  jc.CustomerName,
		InvoiceItems:  items,
		POItems:       poItems,
		Expenses:      expenses,
		TotalRevenue:  jc.TotalRevenue,
		MaterialCost:  jc.MaterialCost,
		OtherExpenses: jc.OtherExpenses,
		NetProfit:     jc.NetProfit,
		CreatedAt:     jc.CreatedAt,
		UpdatedAt:     jc.UpdatedAt,
	}
}

// ToJobCostListItem maps a domain job cost to its list projection
func ToJobCostListItem(jc *jobcost.JobCost) JobCostListItemResponse {
	return JobCostListItemResponse{
		ID:           jc.ID,
		Number:       jc.Number,
		QuotationRef: jc.QuotationRef,
		ProjectName:  jc.ProjectName,
		CustomerName: jc.CustomerName,
		TotalRevenue: jc.TotalRevenue,
		NetProfit:    jc.NetProfit,
		CreatedAt:    jc.CreatedAt,
	}
}
