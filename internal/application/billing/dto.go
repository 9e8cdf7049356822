package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fieldledger/backend/internal/domain/billing"
)

// CreateQuotationRequest represents a request to create a quotation
type CreateQuotationRequest struct {
	// Number is optional; when empty the server allocates the next INV number
	Number       string          `json:"number" binding:"omitempty,max=50"`
	CustomerID   *uuid.UUID      `json:"customer_id"`
	CustomerName string          `json:"customer_name" binding:"omitempty,max=200"`
	IssueDate    *time.Time      `json:"issue_date"`
	Items        []LineItemInput `json:"items"`
	Remark       string          `json:"remark" binding:"omitempty,max=2000"`
}

// LineItemInput represents one billing line in a request
type LineItemInput struct {
	Name      string          `json:"name" binding:"required,min=1,max=200"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Unit      string          `json:"unit" binding:"omitempty,max=20"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// UpdateInvoiceRequest updates a billing document's header and items
type UpdateInvoiceRequest struct {
	CustomerID   *uuid.UUID      `json:"customer_id"`
	CustomerName *string         `json:"customer_name" binding:"omitempty,max=200"`
	IssueDate    *time.Time      `json:"issue_date"`
	Items        []LineItemInput `json:"items"`
	Remark       *string         `json:"remark" binding:"omitempty,max=2000"`
}

// RecordPaymentRequest applies a payment to an invoice
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ChangeInvoiceStatusRequest requests a status transition
type ChangeInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// InvoiceListFilter represents filter options for the document list
type InvoiceListFilter struct {
	Kind       string     `form:"kind" binding:"omitempty,oneof=QUOTATION INVOICE"`
	Search     string     `form:"search"`
	Status     string     `form:"status"`
	CustomerID *uuid.UUID `form:"customer_id"`
	From       *time.Time `form:"from"`
	To         *time.Time `form:"to"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// InvoiceResponse represents a billing document in API responses
type InvoiceResponse struct {
	ID           uuid.UUID            `json:"id"`
	TenantID     uuid.UUID            `json:"tenant_id"`
	Number       string               `json:"number"`
	Kind         string               `json:"kind"`
	CustomerID   *uuid.UUID           `json:"customer_id,omitempty"`
	CustomerName string               `json:"customer_name"`
	IssueDate    time.Time            `json:"issue_date"`
	Items        []LineItemResponse   `json:"items"`
	Attachments  []AttachmentResponse `json:"attachments"`
	TotalAmount  decimal.Decimal      `json:"total_amount"`
	AmountPaid   decimal.Decimal      `json:"amount_paid"`
	AmountDue    decimal.Decimal      `json:"amount_due"`
	Status       string               `json:"status"`
	Remark       string               `json:"remark,omitempty"`
	ConvertedAt  *time.Time           `json:"converted_at,omitempty"`
	PaidAt       *time.Time           `json:"paid_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// InvoiceListItemResponse is the compact list projection
type InvoiceListItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	Number       string          `json:"number"`
	Kind         string          `json:"kind"`
	CustomerName string          `json:"customer_name"`
	IssueDate    time.Time       `json:"issue_date"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	AmountPaid   decimal.Decimal `json:"amount_paid"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LineItemResponse represents one billing line in responses
type LineItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// AttachmentResponse represents a stored attachment in responses
type AttachmentResponse struct {
	ID           uuid.UUID `json:"id"`
	GeneratedID  string    `json:"generated_id"`
	RelativePath string    `json:"relative_path"`
	OriginalName string    `json:"original_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToInvoiceResponse maps a domain document to its response form
func ToInvoiceResponse(inv *billing.Invoice) InvoiceResponse {
	items := make([]LineItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, LineItemResponse{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
			Amount:    it.Amount,
		})
	}
	attachments := make([]AttachmentResponse, 0, len(inv.Attachments))
	for _, att := range inv.Attachments {
		attachments = append(attachments, AttachmentResponse{
			ID:           att.ID,
			GeneratedID:  att.File.GeneratedID,
			RelativePath: att.File.RelativePath,
			OriginalName: att.File.OriginalName,
			CreatedAt:    att.CreatedAt,
		})
	}
	return InvoiceResponse{
		ID:           inv.ID,
		TenantID:     inv.TenantID,
		Number:       inv.Number,
		Kind:         string(inv.Kind),
		CustomerID:   inv.CustomerID,
		CustomerName: inv.CustomerName,
		IssueDate:    inv.IssueDate,
		Items:        items,
		Attachments:  attachments,
		TotalAmount:  inv.TotalAmount,
		AmountPaid:   inv.AmountPaid,
		AmountDue:    inv.AmountDue(),
		Status:       string(inv.Status),
		Remark:       inv.Remark,
		ConvertedAt:  inv.ConvertedAt,
		PaidAt:       inv.PaidAt,
		CreatedAt:    inv.CreatedAt,
		UpdatedAt:    inv.UpdatedAt,
	}
}

// ToInvoiceListItem maps a domain document to its list projection
func ToInvoiceListItem(inv *billing.Invoice) InvoiceListItemResponse {
	return InvoiceListItemResponse{
		ID:           inv.ID,
		Number:       inv.Number,
		Kind:         string(inv.Kind),
		CustomerName: inv.CustomerName,
		IssueDate:    inv.IssueDate,
		TotalAmount:  inv.TotalAmount,
		AmountPaid:   inv.AmountPaid,
		Status:       string(inv.Status),
		CreatedAt:    inv.CreatedAt,
	}
}
