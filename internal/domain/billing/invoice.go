package billing

import (
	"fmt"
	"time"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes a quotation from the invoice it may become.
// Both kinds share the tenant's invoice sequence and keep their number
// across conversion.
type DocumentKind string

const (
	KindQuotation DocumentKind = "QUOTATION"
	KindInvoice   DocumentKind = "INVOICE"
)

// InvoiceStatus represents the lifecycle status of a billing document
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "DRAFT"
	InvoiceStatusSent    InvoiceStatus = "SENT"
	InvoiceStatusPartial InvoiceStatus = "PARTIAL"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
)

// IsValid checks if the status is a recognized InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPartial, InvoiceStatusPaid:
		return true
	}
	return false
}

// InvoiceItem represents a line item on a quotation or invoice
type InvoiceItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit      string          `gorm:"type:varchar(20)"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// NewInvoiceItem creates a new billing line item
func NewInvoiceItem(invoiceID uuid.UUID, name, unit string, quantity, unitPrice decimal.Decimal) (*InvoiceItem, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "item name is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("quantity", "quantity must be positive")
	}
	now := time.Now()
	return &InvoiceItem{
		ID:        uuid.New(),
		InvoiceID: invoiceID,
		Name:      name,
		Quantity:  quantity,
		Unit:      unit,
		UnitPrice: unitPrice,
		Amount:    quantity.Mul(unitPrice),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Attachment is a stored file attached to a billing document
type Attachment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index"`
	File      shared.StoredFile `gorm:"embedded"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Attachment) TableName() string {
	return "invoice_attachments"
}

// Invoice represents a quotation/invoice aggregate root
type Invoice struct {
	shared.TenantEntity
	Number       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_tenant_number,priority:2"`
	Kind         DocumentKind    `gorm:"type:varchar(20);not null;default:'QUOTATION'"`
	CustomerID   *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerName string          `gorm:"type:varchar(200)"`
	IssueDate    time.Time       `gorm:"not null"`
	Items        []InvoiceItem   `gorm:"foreignKey:InvoiceID;references:ID"`
	Attachments  []Attachment    `gorm:"foreignKey:InvoiceID;references:ID"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AmountPaid   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status       InvoiceStatus   `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	Remark       string          `gorm:"type:text"`
	ConvertedAt  *time.Time
	PaidAt       *time.Time
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewQuotation creates a new billing document in quotation form
func NewQuotation(tenantID uuid.UUID, number, customerName string) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewValidationError("number", "document number is required")
	}
	return &Invoice{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Number:       number,
		Kind:         KindQuotation,
		CustomerName: customerName,
		IssueDate:    time.Now(),
		Items:        make([]InvoiceItem, 0),
		TotalAmount:  decimal.Zero,
		AmountPaid:   decimal.Zero,
		Status:       InvoiceStatusDraft,
	}, nil
}

// AddItem adds a new line item
func (inv *Invoice) AddItem(name, unit string, quantity, unitPrice decimal.Decimal) (*InvoiceItem, error) {
	item, err := NewInvoiceItem(inv.ID, name, unit, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	inv.Items = append(inv.Items, *item)
	inv.recalculateTotal()
	inv.Touch()
	return item, nil
}

// ReplaceItems swaps the full item set
func (inv *Invoice) ReplaceItems(items []InvoiceItem) {
	inv.Items = items
	inv.recalculateTotal()
	inv.Touch()
}

// AddAttachment attaches a stored file
func (inv *Invoice) AddAttachment(file shared.StoredFile) *Attachment {
	att := Attachment{
		ID:        uuid.New(),
		InvoiceID: inv.ID,
		File:      file,
		CreatedAt: time.Now(),
	}
	inv.Attachments = append(inv.Attachments, att)
	inv.Touch()
	return &inv.Attachments[len(inv.Attachments)-1]
}

// RemoveAttachment detaches a stored file and returns it so the caller can
// delete the underlying path.
func (inv *Invoice) RemoveAttachment(attachmentID uuid.UUID) (shared.StoredFile, error) {
	for idx, att := range inv.Attachments {
		if att.ID == attachmentID {
			inv.Attachments = append(inv.Attachments[:idx], inv.Attachments[idx+1:]...)
			inv.Touch()
			return att.File, nil
		}
	}
	return shared.StoredFile{}, shared.ErrNotFound
}

// ConvertToInvoice converts a quotation into an invoice, keeping its number
func (inv *Invoice) ConvertToInvoice() error {
	if inv.Kind == KindInvoice {
		return shared.NewDomainError("INVALID_STATE", "Document is already an invoice")
	}
	now := time.Now()
	inv.Kind = KindInvoice
	inv.ConvertedAt = &now
	if inv.Status == InvoiceStatusDraft {
		inv.Status = InvoiceStatusSent
	}
	inv.Touch()
	return nil
}

// RecordPayment applies a payment and rolls the status forward
func (inv *Invoice) RecordPayment(amount decimal.Decimal) error {
	if inv.Kind != KindInvoice {
		return shared.NewDomainError("INVALID_STATE", "Cannot record payment on a quotation")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("amount", "payment amount must be positive")
	}
	inv.AmountPaid = inv.AmountPaid.Add(amount)
	if inv.AmountPaid.GreaterThanOrEqual(inv.TotalAmount) {
		now := time.Now()
		inv.Status = InvoiceStatusPaid
		inv.PaidAt = &now
	} else {
		inv.Status = InvoiceStatusPartial
	}
	inv.Touch()
	return nil
}

// AmountDue returns the outstanding balance, floored at zero
func (inv *Invoice) AmountDue() decimal.Decimal {
	due := inv.TotalAmount.Sub(inv.AmountPaid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}

// ChangeStatus transitions to the target status
func (inv *Invoice) ChangeStatus(target InvoiceStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("status", fmt.Sprintf("unknown status %q", target))
	}
	if inv.Status == InvoiceStatusPaid && target != InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Cannot reopen a paid invoice")
	}
	inv.Status = target
	inv.Touch()
	return nil
}

func (inv *Invoice) recalculateTotal() {
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.Amount)
	}
	inv.TotalAmount = total
}
