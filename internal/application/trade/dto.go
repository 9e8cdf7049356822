package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/trade"
)

// ==================== Purchase Order DTOs ====================

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	// OrderNumber is optional; when empty the server allocates the next PO number
	OrderNumber     string           `json:"order_number" binding:"omitempty,max=50"`
	SupplierID      *uuid.UUID       `json:"supplier_id"`
	SupplierName    string           `json:"supplier_name" binding:"required,min=1,max=200"`
	LinkedQuotation string           `json:"linked_quotation" binding:"omitempty,max=50"`
	OrderDate       *time.Time       `json:"order_date"`
	Items           []OrderItemInput `json:"items"`
	Remark          string           `json:"remark" binding:"omitempty,max=2000"`
}

// OrderItemInput represents one line in a purchase order request
type OrderItemInput struct {
	Name      string          `json:"name" binding:"required,min=1,max=200"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Unit      string          `json:"unit" binding:"omitempty,max=20"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// UpdatePurchaseOrderRequest updates a draft order's header and items.
// A nil Items slice leaves the current item set untouched.
type UpdatePurchaseOrderRequest struct {
	SupplierID      *uuid.UUID       `json:"supplier_id"`
	SupplierName    *string          `json:"supplier_name" binding:"omitempty,min=1,max=200"`
	LinkedQuotation *string          `json:"linked_quotation" binding:"omitempty,max=50"`
	OrderDate       *time.Time       `json:"order_date"`
	Items           []OrderItemInput `json:"items"`
	Remark          *string          `json:"remark" binding:"omitempty,max=2000"`
}

// ChangeOrderStatusRequest requests a status transition
type ChangeOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PurchaseOrderListFilter represents filter options for the order list
type PurchaseOrderListFilter struct {
	Search          string     `form:"search"`
	Status          string     `form:"status"`
	SupplierID      *uuid.UUID `form:"supplier_id"`
	LinkedQuotation string     `form:"linked_quotation"`
	From            *time.Time `form:"from"`
	To              *time.Time `form:"to"`
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	TenantID        uuid.UUID           `json:"tenant_id"`
	OrderNumber     string              `json:"order_number"`
	SupplierID      *uuid.UUID          `json:"supplier_id,omitempty"`
	SupplierName    string              `json:"supplier_name"`
	LinkedQuotation string              `json:"linked_quotation,omitempty"`
	OrderDate       time.Time           `json:"order_date"`
	Items           []OrderItemResponse `json:"items"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	Status          string              `json:"status"`
	Image           *FileResponse       `json:"image,omitempty"`
	Remark          string              `json:"remark,omitempty"`
	OrderedAt       *time.Time          `json:"ordered_at,omitempty"`
	DeliveredAt     *time.Time          `json:"delivered_at,omitempty"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	CancelledAt     *time.Time          `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// PurchaseOrderListItemResponse is the compact list projection
type PurchaseOrderListItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	SupplierName    string          `json:"supplier_name"`
	LinkedQuotation string          `json:"linked_quotation,omitempty"`
	OrderDate       time.Time       `json:"order_date"`
	ItemCount       int             `json:"item_count"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// OrderItemResponse represents one purchase order line in responses
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// FileResponse represents a stored file in responses
type FileResponse struct {
	GeneratedID  string `json:"generated_id"`
	RelativePath string `json:"relative_path"`
	OriginalName string `json:"original_name"`
}

func toFileResponse(f shared.StoredFile) *FileResponse {
	if f.IsZero() {
		return nil
	}
	return &FileResponse{
		GeneratedID:  f.GeneratedID,
		RelativePath: f.RelativePath,
		OriginalName: f.OriginalName,
	}
}

// ToPurchaseOrderResponse maps a domain order to its response form
func ToPurchaseOrderResponse(order *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, OrderItemResponse{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
			Amount:    it.Amount,
		})
	}
	return PurchaseOrderResponse{
		ID:              order.ID,
		TenantID:        order.TenantID,
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		SupplierName:    order.SupplierName,
		LinkedQuotation: order.LinkedQuotation,
		OrderDate:       order.OrderDate,
		Items:           items,
		TotalAmount:     order.TotalAmount,
		Status:          order.Status.String(),
		Image:           toFileResponse(order.Image),
		Remark:          order.Remark,
		OrderedAt:       order.OrderedAt,
		DeliveredAt:     order.DeliveredAt,
		PaidAt:          order.PaidAt,
		CancelledAt:     order.CancelledAt,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

// ToPurchaseOrderListItem maps a domain order to its list projection
func ToPurchaseOrderListItem(order *trade.PurchaseOrder) PurchaseOrderListItemResponse {
	return PurchaseOrderListItemResponse{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		SupplierName:    order.SupplierName,
		LinkedQuotation: order.LinkedQuotation,
		OrderDate:       order.OrderDate,
		ItemCount:       order.ItemCount(),
		TotalAmount:     order.TotalAmount,
		Status:          order.Status.String(),
		CreatedAt:       order.CreatedAt,
	}
}

// ==================== Material Sale DTOs ====================

// CreateMaterialSaleRequest represents a request to create a material sale
type CreateMaterialSaleRequest struct {
	// InvoiceNumber is optional; when empty the server allocates the next MS number
	InvoiceNumber string          `json:"invoice_number" binding:"omitempty,max=50"`
	CustomerID    *uuid.UUID      `json:"customer_id"`
	CustomerName  string          `json:"customer_name" binding:"omitempty,max=200"`
	SaleDate      *time.Time      `json:"sale_date"`
	Items         []SaleItemInput `json:"items"`
	Remark        string          `json:"remark" binding:"omitempty,max=2000"`
}

// SaleItemInput represents one line in a material sale request
type SaleItemInput struct {
	Name      string          `json:"name" binding:"required,min=1,max=200"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Unit      string          `json:"unit" binding:"omitempty,max=20"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CostPrice decimal.Decimal `json:"cost_price"`
}

// UpdateMaterialSaleRequest updates a sale's header and items
type UpdateMaterialSaleRequest struct {
	CustomerID   *uuid.UUID      `json:"customer_id"`
	CustomerName *string         `json:"customer_name" binding:"omitempty,max=200"`
	SaleDate     *time.Time      `json:"sale_date"`
	Items        []SaleItemInput `json:"items"`
	Remark       *string         `json:"remark" binding:"omitempty,max=2000"`
}

// ChangeSaleStatusRequest requests a status transition
type ChangeSaleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// MaterialSaleListFilter represents filter options for the sale list
type MaterialSaleListFilter struct {
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

// MaterialSaleResponse represents a material sale in API responses
type MaterialSaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	TenantID      uuid.UUID          `json:"tenant_id"`
	InvoiceNumber string             `json:"invoice_number"`
	CustomerID    *uuid.UUID         `json:"customer_id,omitempty"`
	CustomerName  string             `json:"customer_name"`
	SaleDate      time.Time          `json:"sale_date"`
	Items         []SaleItemResponse `json:"items"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	Profit        decimal.Decimal    `json:"profit"`
	Status        string             `json:"status"`
	Remark        string             `json:"remark,omitempty"`
	PaidAt        *time.Time         `json:"paid_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// SaleItemResponse represents one material sale line in responses
type SaleItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	CostPrice decimal.Decimal `json:"cost_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// ToMaterialSaleResponse maps a domain sale to its response form
func ToMaterialSaleResponse(sale *trade.MaterialSale) MaterialSaleResponse {
	items := make([]SaleItemResponse, 0, len(sale.Items))
	for _, it := range sale.Items {
		items = append(items, SaleItemResponse{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			UnitPrice: it.UnitPrice,
			CostPrice: it.CostPrice,
			Amount:    it.Amount,
		})
	}
	return MaterialSaleResponse{
		ID:            sale.ID,
		TenantID:      sale.TenantID,
		InvoiceNumber: sale.InvoiceNumber,
		CustomerID:    sale.CustomerID,
		CustomerName:  sale.CustomerName,
		SaleDate:      sale.SaleDate,
		Items:         items,
		TotalAmount:   sale.TotalAmount,
		Profit:        sale.Profit(),
		Status:        string(sale.Status),
		Remark:        sale.Remark,
		PaidAt:        sale.PaidAt,
		CreatedAt:     sale.CreatedAt,
		UpdatedAt:     sale.UpdatedAt,
	}
}
