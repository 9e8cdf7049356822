package field

import (
	"context"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository owns site visit persistence
type Repository interface {
	Create(ctx context.Context, v *SiteVisit, generated bool, regenerate func(ctx context.Context) (string, error)) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*SiteVisit, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SiteVisit, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, v *SiteVisit) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
