package jobcost

import (
	"context"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository owns job cost persistence. Save must persist the embedded
// collections with full-replace semantics inside one transaction: the
// stored PO-items set always mirrors the in-memory aggregate exactly.
type Repository interface {
	Create(ctx context.Context, jc *JobCost, generated bool, regenerate func(ctx context.Context) (string, error)) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*JobCost, error)
	// FindByQuotationRef resolves the ledger for a normalized quotation
	// reference within a tenant. Returns ErrNotFound when no ledger exists
	// yet; callers on the propagation path treat that as a logged no-op.
	FindByQuotationRef(ctx context.Context, tenantID uuid.UUID, quotationRef string) (*JobCost, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]JobCost, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, jc *JobCost) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
