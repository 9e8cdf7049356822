package jobcost

import (
	"time"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceItem is a selling-side line on the job cost ledger. CostPrice starts
// at zero and is overwritten by cost back-propagation once a linked purchase
// order leaves draft.
type InvoiceItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	JobCostID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CostPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "job_cost_invoice_items"
}

// IsDeduction reports whether the line is an explicit negative-priced
// deduction. Deduction lines always contribute to profit using their own
// cost (default 0), unlike regular uncosted lines which are excluded.
func (i InvoiceItem) IsDeduction() bool {
	return i.SellingPrice.IsNegative()
}

// POItem is a denormalized snapshot of one linked purchase order line. It is
// owned by the job cost, not referenced: the propagator fully replaces the
// set contributed by a given order number on every sync so repeated syncs
// converge instead of accumulating.
type POItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	JobCostID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null"`
	OrderNumber  string          `gorm:"type:varchar(50);not null;index"`
	SupplierName string          `gorm:"type:varchar(200)"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit         string          `gorm:"type:varchar(20)"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	OrderDate    time.Time
	OrderStatus  string    `gorm:"type:varchar(20)"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (POItem) TableName() string {
	return "job_cost_po_items"
}

// Expense is an other-expenses line on the ledger
type Expense struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	JobCostID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(200);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Expense) TableName() string {
	return "job_cost_expenses"
}

// JobCost is the aggregate ledger for a project. It is keyed to its source
// documents by the normalized quotation number, a loose reference: linked
// purchase orders may be created before or after the job cost itself.
type JobCost struct {
	shared.TenantEntity
	Number       string `gorm:"type:varchar(50);not null;uniqueIndex:idx_job_cost_tenant_number,priority:2"`
	QuotationRef string `gorm:"type:varchar(50);not null;index"` // normalized quotation number
	ProjectName  string `gorm:"type:varchar(200)"`
	CustomerName string `gorm:"type:varchar(200)"`

	InvoiceItems []InvoiceItem `gorm:"foreignKey:JobCostID;references:ID"`
	POItems      []POItem      `gorm:"foreignKey:JobCostID;references:ID"`
	Expenses     []Expense     `gorm:"foreignKey:JobCostID;references:ID"`

	// Derived figures, recomputed from the embedded collections on every
	// persist. Never maintained incrementally.
	TotalRevenue  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaterialCost  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OtherExpenses decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	NetProfit     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (JobCost) TableName() string {
	return "job_costs"
}

// NewJobCost creates a new job cost ledger linked to a quotation
func NewJobCost(tenantID uuid.UUID, number, quotationRef, projectName string) (*JobCost, error) {
	if number == "" {
		return nil, shared.NewValidationError("number", "job cost number is required")
	}
	if quotationRef == "" {
		return nil, shared.NewValidationError("quotation_ref", "quotation reference is required")
	}
	jc := &JobCost{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Number:       number,
		QuotationRef: shared.NormalizeReference(quotationRef),
		ProjectName:  projectName,
		InvoiceItems: make([]InvoiceItem, 0),
		POItems:      make([]POItem, 0),
		Expenses:     make([]Expense, 0),
	}
	jc.Recalculate()
	return jc, nil
}

// AddInvoiceItem appends a selling-side line
func (jc *JobCost) AddInvoiceItem(name string, quantity, sellingPrice, costPrice decimal.Decimal) (*InvoiceItem, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "item name is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("quantity", "quantity must be positive")
	}
	now := time.Now()
	item := InvoiceItem{
		ID:           uuid.New(),
		JobCostID:    jc.ID,
		Name:         name,
		Quantity:     quantity,
		SellingPrice: sellingPrice,
		CostPrice:    costPrice,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	jc.InvoiceItems = append(jc.InvoiceItems, item)
	jc.Recalculate()
	jc.Touch()
	return &jc.InvoiceItems[len(jc.InvoiceItems)-1], nil
}

// ReplaceInvoiceItems swaps the full selling-side item set
func (jc *JobCost) ReplaceInvoiceItems(items []InvoiceItem) {
	jc.InvoiceItems = items
	jc.Recalculate()
	jc.Touch()
}

// AddExpense appends an other-expenses line
func (jc *JobCost) AddExpense(description string, amount decimal.Decimal) (*Expense, error) {
	if description == "" {
		return nil, shared.NewValidationError("description", "expense description is required")
	}
	exp := Expense{
		ID:          uuid.New(),
		JobCostID:   jc.ID,
		Description: description,
		Amount:      amount,
		CreatedAt:   time.Now(),
	}
	jc.Expenses = append(jc.Expenses, exp)
	jc.Recalculate()
	jc.Touch()
	return &jc.Expenses[len(jc.Expenses)-1], nil
}

// ReplacePOItems removes every embedded item previously contributed by the
// given order number and inserts the current set. This full-replace is the
// idempotence guarantee for purchase order syncs: running the same sync
// twice leaves the collection identical.
func (jc *JobCost) ReplacePOItems(orderNumber string, items []POItem) {
	kept := make([]POItem, 0, len(jc.POItems)+len(items))
	for _, existing := range jc.POItems {
		if existing.OrderNumber != orderNumber {
			kept = append(kept, existing)
		}
	}
	for i := range items {
		items[i].JobCostID = jc.ID
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = time.Now()
		}
	}
	jc.POItems = append(kept, items...)
	jc.Recalculate()
	jc.Touch()
}

// POItemsFor returns the embedded items contributed by one order number
func (jc *JobCost) POItemsFor(orderNumber string) []POItem {
	items := make([]POItem, 0)
	for _, it := range jc.POItems {
		if it.OrderNumber == orderNumber {
			items = append(items, it)
		}
	}
	return items
}

// ApplyCostPrices overwrites invoice line cost prices from a map of
// normalized item name to unit cost. Used by cost back-propagation once the
// contributing purchase order has left draft; names match case-insensitively
// after trimming.
func (jc *JobCost) ApplyCostPrices(costs map[string]decimal.Decimal) int {
	applied := 0
	for idx := range jc.InvoiceItems {
		key := shared.NormalizeItemName(jc.InvoiceItems[idx].Name)
		if cost, ok := costs[key]; ok {
			jc.InvoiceItems[idx].CostPrice = cost
			jc.InvoiceItems[idx].UpdatedAt = time.Now()
			applied++
		}
	}
	if applied > 0 {
		jc.Recalculate()
		jc.Touch()
	}
	return applied
}
