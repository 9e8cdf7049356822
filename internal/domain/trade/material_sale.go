package trade

import (
	"fmt"
	"time"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialSaleStatus represents the lifecycle status of a material sale
type MaterialSaleStatus string

const (
	MaterialSaleStatusPending MaterialSaleStatus = "PENDING"
	MaterialSaleStatusPaid    MaterialSaleStatus = "PAID"
)

// IsValid checks if the status is a recognized MaterialSaleStatus
func (s MaterialSaleStatus) IsValid() bool {
	return s == MaterialSaleStatusPending || s == MaterialSaleStatusPaid
}

// MaterialSaleItem represents a line item in a material sale
type MaterialSaleItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit      string          `gorm:"type:varchar(20)"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MaterialSaleItem) TableName() string {
	return "material_sale_items"
}

// NewMaterialSaleItem creates a new material sale line item
func NewMaterialSaleItem(saleID uuid.UUID, name, unit string, quantity, unitPrice, costPrice decimal.Decimal) (*MaterialSaleItem, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "item name is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("quantity", "quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("unit_price", "unit price cannot be negative")
	}

	now := time.Now()
	return &MaterialSaleItem{
		ID:        uuid.New(),
		SaleID:    saleID,
		Name:      name,
		Quantity:  quantity,
		Unit:      unit,
		UnitPrice: unitPrice,
		CostPrice: costPrice,
		Amount:    quantity.Mul(unitPrice),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// MaterialSale represents an over-the-counter material sale aggregate root
type MaterialSale struct {
	shared.TenantEntity
	InvoiceNumber string             `gorm:"type:varchar(50);not null;uniqueIndex:idx_material_sale_tenant_number,priority:2"`
	CustomerID    *uuid.UUID         `gorm:"type:uuid;index"`
	CustomerName  string             `gorm:"type:varchar(200)"`
	SaleDate      time.Time          `gorm:"not null"`
	Items         []MaterialSaleItem `gorm:"foreignKey:SaleID;references:ID"`
	TotalAmount   decimal.Decimal    `gorm:"type:decimal(18,4);not null;default:0"`
	Status        MaterialSaleStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	Remark        string             `gorm:"type:text"`
	PaidAt        *time.Time
}

// TableName returns the table name for GORM
func (MaterialSale) TableName() string {
	return "material_sales"
}

// NewMaterialSale creates a new material sale
func NewMaterialSale(tenantID uuid.UUID, invoiceNumber, customerName string) (*MaterialSale, error) {
	if invoiceNumber == "" {
		return nil, shared.NewValidationError("invoice_number", "invoice number is required")
	}
	return &MaterialSale{
		TenantEntity:  shared.NewTenantEntity(tenantID),
		InvoiceNumber: invoiceNumber,
		CustomerName:  customerName,
		SaleDate:      time.Now(),
		Items:         make([]MaterialSaleItem, 0),
		TotalAmount:   decimal.Zero,
		Status:        MaterialSaleStatusPending,
	}, nil
}

// AddItem adds a new item to the sale
func (s *MaterialSale) AddItem(name, unit string, quantity, unitPrice, costPrice decimal.Decimal) (*MaterialSaleItem, error) {
	item, err := NewMaterialSaleItem(s.ID, name, unit, quantity, unitPrice, costPrice)
	if err != nil {
		return nil, err
	}
	s.Items = append(s.Items, *item)
	s.recalculateTotal()
	s.Touch()
	return item, nil
}

// ReplaceItems swaps the full item set
func (s *MaterialSale) ReplaceItems(items []MaterialSaleItem) {
	s.Items = items
	s.recalculateTotal()
	s.Touch()
}

// MarkPaid transitions the sale to paid
func (s *MaterialSale) MarkPaid() error {
	if s.Status == MaterialSaleStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Sale is already paid")
	}
	now := time.Now()
	s.Status = MaterialSaleStatusPaid
	s.PaidAt = &now
	s.Touch()
	return nil
}

// ChangeStatus transitions the sale to the target status
func (s *MaterialSale) ChangeStatus(target MaterialSaleStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("status", fmt.Sprintf("unknown status %q", target))
	}
	if target == MaterialSaleStatusPaid {
		return s.MarkPaid()
	}
	if s.Status == MaterialSaleStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot reopen a paid sale")
	}
	return nil
}

// Profit returns the total selling margin over cost for the sale
func (s *MaterialSale) Profit() decimal.Decimal {
	profit := decimal.Zero
	for _, item := range s.Items {
		if item.CostPrice.LessThanOrEqual(decimal.Zero) {
			continue
		}
		profit = profit.Add(item.UnitPrice.Sub(item.CostPrice).Mul(item.Quantity))
	}
	return profit
}

func (s *MaterialSale) recalculateTotal() {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.Amount)
	}
	s.TotalAmount = total
}
