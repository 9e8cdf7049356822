package tenant

import (
	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Sequence counter names. One sequence per entity type needing sequential
// human-readable numbers; values are per tenant and increment-only.
const (
	SeqInvoice       = "invoice"
	SeqPurchaseOrder = "purchase_order"
	SeqMaterialSale  = "material_sale"
	SeqJobCost       = "job_cost"
	SeqSiteVisit     = "site_visit"
)

// Dashboard counter names. Denormalized aggregate counts kept in sync with
// actual entity counts so dashboard reads avoid full scans. They are
// observational: drift is repaired by reconciliation, never trusted as a
// source of truth.
const (
	CountInvoices       = "invoices_count"
	CountPurchaseOrders = "purchase_orders_count"
	CountMaterialSales  = "material_sales_count"
	CountJobCosts       = "job_costs_count"
	CountSiteVisits     = "site_visits_count"
	CountSuppliers      = "suppliers_count"
	CountCustomers      = "customers_count"
)

// DashboardCounters lists every tracked dashboard counter
func DashboardCounters() []string {
	return []string{
		CountInvoices,
		CountPurchaseOrders,
		CountMaterialSales,
		CountJobCosts,
		CountSiteVisits,
		CountSuppliers,
		CountCustomers,
	}
}

// Document number prefixes
const (
	PrefixInvoice       = "INV-"
	PrefixPurchaseOrder = "PO-"
	PrefixMaterialSale  = "MS-"
	PrefixJobCost       = "JC-"
	PrefixSiteVisit     = "SV-"
)

// Tenant represents a company/account. All business documents, counters and
// sequences are scoped to exactly one tenant; a tenant is never deleted while
// documents reference it.
type Tenant struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(200);not null"`
	// NumberPadding is the tenant-configurable zero-padding width applied to
	// site visit numbers (1-10, default 3).
	NumberPadding int  `gorm:"not null;default:3"`
	Active        bool `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new tenant with default settings
func NewTenant(name string) (*Tenant, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "name is required")
	}
	return &Tenant{
		BaseEntity:    shared.NewBaseEntity(),
		Name:          name,
		NumberPadding: shared.DefaultNumberPadding,
		Active:        true,
	}, nil
}

// SetNumberPadding updates the site visit number padding, clamped to 1-10
func (t *Tenant) SetNumberPadding(padding int) error {
	if padding < shared.MinNumberPadding || padding > shared.MaxNumberPadding {
		return shared.NewValidationError("number_padding", "padding must be between 1 and 10")
	}
	t.NumberPadding = padding
	t.Touch()
	return nil
}

// Counter is one named integer owned by a tenant. Sequence values and
// dashboard counters share this storage; every mutation must be a single
// atomic statement against the row, never read-modify-write.
type Counter struct {
	TenantID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name     string    `gorm:"type:varchar(50);primaryKey"`
	Value    int64     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Counter) TableName() string {
	return "tenant_counters"
}
