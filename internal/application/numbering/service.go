package numbering

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
)

// Padding widths per document family. Site visits are the exception: their
// width is a tenant setting.
const (
	invoicePadding  = 4
	documentPadding = 3
)

// Service turns allocated sequence values into formatted document numbers.
// Allocation is delegated to the tenant sequence allocator; this service only
// owns prefixes and padding.
type Service struct {
	allocator tenant.SequenceAllocator
	tenants   tenant.Repository
	log       *zap.Logger
}

// NewService creates a new numbering service
func NewService(allocator tenant.SequenceAllocator, tenants tenant.Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{allocator: allocator, tenants: tenants, log: log}
}

// NextInvoiceNumber allocates the next quotation/invoice number, e.g. INV-0042
func (s *Service) NextInvoiceNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return s.next(ctx, tenantID, tenant.SeqInvoice, tenant.PrefixInvoice, invoicePadding)
}

// NextPurchaseOrderNumber allocates the next purchase order number, e.g. PO-042
func (s *Service) NextPurchaseOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return s.next(ctx, tenantID, tenant.SeqPurchaseOrder, tenant.PrefixPurchaseOrder, documentPadding)
}

// NextMaterialSaleNumber allocates the next material sale invoice number, e.g. MS-042
func (s *Service) NextMaterialSaleNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return s.next(ctx, tenantID, tenant.SeqMaterialSale, tenant.PrefixMaterialSale, documentPadding)
}

// NextJobCostNumber allocates the next job cost number, e.g. JC-042
func (s *Service) NextJobCostNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	return s.next(ctx, tenantID, tenant.SeqJobCost, tenant.PrefixJobCost, documentPadding)
}

// NextSiteVisitNumber allocates the next site visit number using the tenant's
// configured padding width. An unreadable tenant record falls back to the
// default width rather than blocking the allocation.
func (s *Service) NextSiteVisitNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	padding := shared.DefaultNumberPadding
	t, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		s.log.Warn("tenant lookup failed, using default site visit padding",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
	} else {
		padding = t.NumberPadding
	}
	return s.next(ctx, tenantID, tenant.SeqSiteVisit, tenant.PrefixSiteVisit, padding)
}

func (s *Service) next(ctx context.Context, tenantID uuid.UUID, sequence, prefix string, padding int) (string, error) {
	value, err := s.allocator.Allocate(ctx, tenantID, sequence)
	if err != nil {
		return "", err
	}
	return shared.FormatDocumentNumber(prefix, value, padding), nil
}
