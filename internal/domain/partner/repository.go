package partner

import (
	"context"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierRepository owns supplier persistence
type SupplierRepository interface {
	Create(ctx context.Context, s *Supplier) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Supplier, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, s *Supplier) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// CustomerRepository owns customer persistence
type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, c *Customer) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// CategoryRepository owns category persistence
type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Category, error)
	Save(ctx context.Context, c *Category) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
