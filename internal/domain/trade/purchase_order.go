package trade

import (
	"fmt"
	"time"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the lifecycle status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusOrdered   PurchaseOrderStatus = "ORDERED"
	PurchaseOrderStatusDelivered PurchaseOrderStatus = "DELIVERED"
	PurchaseOrderStatusPaid      PurchaseOrderStatus = "PAID"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is a recognized PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusOrdered, PurchaseOrderStatusDelivered,
		PurchaseOrderStatusPaid, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusDraft:
		return target == PurchaseOrderStatusOrdered || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusOrdered:
		return target == PurchaseOrderStatusDelivered || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusDelivered:
		return target == PurchaseOrderStatusPaid
	case PurchaseOrderStatusPaid, PurchaseOrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// PurchaseOrderItem represents a line item in a purchase order
type PurchaseOrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit      string          `gorm:"type:varchar(20);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Quantity * UnitPrice
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// NewPurchaseOrderItem creates a new purchase order item
func NewPurchaseOrderItem(orderID uuid.UUID, name, unit string, quantity, unitPrice decimal.Decimal) (*PurchaseOrderItem, error) {
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
	return &PurchaseOrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		Name:      name,
		Quantity:  quantity,
		Unit:      unit,
		UnitPrice: unitPrice,
		Amount:    quantity.Mul(unitPrice),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// PurchaseOrder represents a purchase order aggregate root. It carries a
// loose reference to the quotation whose job cost it feeds: the reference is
// a string, not a foreign key, because the two aggregates are written
// independently and either side may exist first.
type PurchaseOrder struct {
	shared.TenantEntity
	OrderNumber     string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_order_tenant_number,priority:2"`
	SupplierID      *uuid.UUID          `gorm:"type:uuid;index"`
	SupplierName    string              `gorm:"type:varchar(200);not null"`
	LinkedQuotation string              `gorm:"type:varchar(50);index"` // loose reference to a job cost's quotation number
	OrderDate       time.Time           `gorm:"not null"`
	Items           []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	Status          PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Image           shared.StoredFile   `gorm:"embedded;embeddedPrefix:image_"`
	Remark          string              `gorm:"type:text"`
	OrderedAt       *time.Time
	DeliveredAt     *time.Time
	PaidAt          *time.Time
	CancelledAt     *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in draft status
func NewPurchaseOrder(tenantID uuid.UUID, orderNumber, supplierName string) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewValidationError("order_number", "order number is required")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewValidationError("order_number", "order number cannot exceed 50 characters")
	}
	if supplierName == "" {
		return nil, shared.NewValidationError("supplier_name", "supplier name is required")
	}

	return &PurchaseOrder{
		TenantEntity: shared.NewTenantEntity(tenantID),
		OrderNumber:  orderNumber,
		SupplierName: supplierName,
		OrderDate:    time.Now(),
		Items:        make([]PurchaseOrderItem, 0),
		TotalAmount:  decimal.Zero,
		Status:       PurchaseOrderStatusDraft,
	}, nil
}

// SetLinkedQuotation sets the loose quotation reference, normalized for matching
func (o *PurchaseOrder) SetLinkedQuotation(ref string) {
	o.LinkedQuotation = shared.NormalizeReference(ref)
	o.Touch()
}

// HasLinkedQuotation reports whether the order feeds a job cost
func (o *PurchaseOrder) HasLinkedQuotation() bool {
	return o.LinkedQuotation != ""
}

// AddItem adds a new item to the order. Only allowed in DRAFT status.
func (o *PurchaseOrder) AddItem(name, unit string, quantity, unitPrice decimal.Decimal) (*PurchaseOrderItem, error) {
	if !o.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add items to a non-draft order")
	}

	item, err := NewPurchaseOrderItem(o.ID, name, unit, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotal()
	o.Touch()
	return item, nil
}

// ReplaceItems swaps the full item set. Only allowed in DRAFT status.
func (o *PurchaseOrder) ReplaceItems(items []PurchaseOrderItem) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot update items of a non-draft order")
	}
	o.Items = items
	o.recalculateTotal()
	o.Touch()
	return nil
}

// RemoveItem removes an item from the order. Only allowed in DRAFT status.
func (o *PurchaseOrder) RemoveItem(itemID uuid.UUID) error {
	if !o.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove items from a non-draft order")
	}
	for idx, item := range o.Items {
		if item.ID == itemID {
			o.Items = append(o.Items[:idx], o.Items[idx+1:]...)
			o.recalculateTotal()
			o.Touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Order item not found")
}

// ReplaceImage attaches a new image and returns the previous file so the
// caller can delete it from storage.
func (o *PurchaseOrder) ReplaceImage(file shared.StoredFile) shared.StoredFile {
	old := o.Image
	o.Image = file
	o.Touch()
	return old
}

// ChangeStatus transitions the order to the target status, validated against
// the allow-list. An unrecognized status string is a client error.
func (o *PurchaseOrder) ChangeStatus(target PurchaseOrderStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("status", fmt.Sprintf("unknown status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition purchase order from %s to %s", o.Status, target))
	}

	now := time.Now()
	o.Status = target
	switch target {
	case PurchaseOrderStatusOrdered:
		o.OrderedAt = &now
	case PurchaseOrderStatusDelivered:
		o.DeliveredAt = &now
	case PurchaseOrderStatusPaid:
		o.PaidAt = &now
	case PurchaseOrderStatusCancelled:
		o.CancelledAt = &now
	}
	o.Touch()
	return nil
}

// IsDraft reports whether the order is still in its unconfirmed state.
// Draft pricing is tentative: it is never pushed into job cost invoice lines.
func (o *PurchaseOrder) IsDraft() bool {
	return o.Status == PurchaseOrderStatusDraft
}

// CanModify returns true if items and header fields may still change
func (o *PurchaseOrder) CanModify() bool {
	return o.Status == PurchaseOrderStatusDraft
}

// ItemCount returns the number of items in the order
func (o *PurchaseOrder) ItemCount() int {
	return len(o.Items)
}

func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Amount)
	}
	o.TotalAmount = total
}
