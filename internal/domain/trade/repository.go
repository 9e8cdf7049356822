package trade

import (
	"context"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PurchaseOrderRepository owns purchase order persistence.
// Create enforces the (tenant, order number) uniqueness constraint and the
// retry policy for server-generated numbers; every read is tenant-scoped.
type PurchaseOrderRepository interface {
	// Create persists a new order. generated reports whether the order number
	// was allocated by the server (retryable on collision) or supplied by the
	// caller (a duplicate is terminal). regenerate is invoked to obtain a
	// fresh number between attempts.
	Create(ctx context.Context, order *PurchaseOrder, generated bool, regenerate func(ctx context.Context) (string, error)) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrder, error)
	FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*PurchaseOrder, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *PurchaseOrder) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// MaterialSaleRepository owns material sale persistence
type MaterialSaleRepository interface {
	Create(ctx context.Context, sale *MaterialSale, generated bool, regenerate func(ctx context.Context) (string, error)) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*MaterialSale, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]MaterialSale, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, sale *MaterialSale) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
