package numbering

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
)

type fakeAllocator struct {
	values map[string]int64
	err    error
	calls  []string
}

func (f *fakeAllocator) Allocate(ctx context.Context, tenantID uuid.UUID, name string) (int64, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return 0, f.err
	}
	if f.values == nil {
		f.values = make(map[string]int64)
	}
	f.values[name]++
	return f.values[name], nil
}

type fakeTenantRepo struct {
	tenant *tenant.Tenant
	err    error
}

func (f *fakeTenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tenant, nil
}

func (f *fakeTenantRepo) Save(ctx context.Context, t *tenant.Tenant) error { return nil }

func (f *fakeTenantRepo) AllActiveIDs(ctx context.Context) ([]uuid.UUID, error) { return nil, nil }

func TestService_DocumentNumbers(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	alloc := &fakeAllocator{}
	svc := NewService(alloc, &fakeTenantRepo{}, nil)

	t.Run("invoice numbers use four digits", func(t *testing.T) {
		n, err := svc.NextInvoiceNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "INV-0001", n)
	})

	t.Run("other documents use three digits", func(t *testing.T) {
		n, err := svc.NextPurchaseOrderNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "PO-001", n)

		n, err = svc.NextMaterialSaleNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "MS-001", n)

		n, err = svc.NextJobCostNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "JC-001", n)
	})

	t.Run("each family advances its own sequence", func(t *testing.T) {
		n, err := svc.NextInvoiceNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "INV-0002", n)

		n, err = svc.NextPurchaseOrderNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "PO-002", n)
	})

	t.Run("allocator failure propagates", func(t *testing.T) {
		failing := &fakeAllocator{err: errors.New("connection refused")}
		s := NewService(failing, &fakeTenantRepo{}, nil)
		_, err := s.NextInvoiceNumber(ctx, tenantID)
		assert.Error(t, err)
	})
}

func TestService_NextSiteVisitNumber(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("uses tenant-configured padding", func(t *testing.T) {
		tn, err := tenant.NewTenant("Acme Builders")
		require.NoError(t, err)
		require.NoError(t, tn.SetNumberPadding(5))

		svc := NewService(&fakeAllocator{}, &fakeTenantRepo{tenant: tn}, nil)
		n, err := svc.NextSiteVisitNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "SV-00001", n)
	})

	t.Run("falls back to default padding when tenant lookup fails", func(t *testing.T) {
		repo := &fakeTenantRepo{err: shared.ErrNotFound}
		svc := NewService(&fakeAllocator{}, repo, nil)
		n, err := svc.NextSiteVisitNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.Equal(t, "SV-001", n)
	})
}
