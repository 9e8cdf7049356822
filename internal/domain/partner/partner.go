package partner

import (
	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Supplier represents a goods/services supplier
type Supplier struct {
	shared.TenantEntity
	Name        string `gorm:"type:varchar(200);not null;uniqueIndex:idx_supplier_tenant_name,priority:2"`
	ContactName string `gorm:"type:varchar(100)"`
	Phone       string `gorm:"type:varchar(50)"`
	Email       string `gorm:"type:varchar(200)"`
	Address     string `gorm:"type:varchar(500)"`
	Notes       string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(tenantID uuid.UUID, name string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "supplier name is required")
	}
	return &Supplier{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
	}, nil
}

// Customer represents a billing customer
type Customer struct {
	shared.TenantEntity
	Name       string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_customer_tenant_name,priority:2"`
	Phone      string     `gorm:"type:varchar(50)"`
	Email      string     `gorm:"type:varchar(200)"`
	Address    string     `gorm:"type:varchar(500)"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index"`
	Notes      string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(tenantID uuid.UUID, name string) (*Customer, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "customer name is required")
	}
	return &Customer{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
	}, nil
}

// Category groups customers and documents for reporting
type Category struct {
	shared.TenantEntity
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_tenant_name,priority:2"`
	Description string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(tenantID uuid.UUID, name string) (*Category, error) {
	if name == "" {
		return nil, shared.NewValidationError("name", "category name is required")
	}
	return &Category{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         name,
	}, nil
}
