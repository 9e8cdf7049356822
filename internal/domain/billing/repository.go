package billing

import (
	"context"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository owns quotation/invoice persistence
type Repository interface {
	Create(ctx context.Context, inv *Invoice, generated bool, regenerate func(ctx context.Context) (string, error)) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*Invoice, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, inv *Invoice) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
