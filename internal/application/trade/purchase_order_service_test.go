package trade

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldledger/backend/internal/application/effects"
	"github.com/fieldledger/backend/internal/application/numbering"
	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
	"github.com/fieldledger/backend/internal/domain/trade"
)

type fakeOrderRepo struct {
	byID    map[uuid.UUID]*trade.PurchaseOrder
	deleted int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byID: make(map[uuid.UUID]*trade.PurchaseOrder)}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *trade.PurchaseOrder, generated bool, regenerate func(ctx context.Context) (string, error)) error {
	for _, existing := range r.byID {
		if existing.OrderNumber == order.OrderNumber {
			if !generated {
				return shared.NewDomainError("DUPLICATE_IDENTIFIER", "order number already exists")
			}
			number, err := regenerate(ctx)
			if err != nil {
				return err
			}
			order.OrderNumber = number
		}
	}
	r.byID[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.PurchaseOrder, error) {
	order, ok := r.byID[id]
	if !ok || order.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*trade.PurchaseOrder, error) {
	for _, order := range r.byID {
		if order.TenantID == tenantID && order.OrderNumber == orderNumber {
			return order, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeOrderRepo) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	out := make([]trade.PurchaseOrder, 0, len(r.byID))
	for _, order := range r.byID {
		if order.TenantID == tenantID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	for _, order := range r.byID {
		if order.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *fakeOrderRepo) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	r.byID[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	delete(r.byID, id)
	r.deleted++
	return nil
}

type propagatorCall struct {
	kind        string
	orderNumber string
	quotation   string
	draft       bool
}

type fakePropagator struct {
	calls []propagatorCall
	err   error
}

func (p *fakePropagator) SyncPurchaseOrder(ctx context.Context, order *trade.PurchaseOrder) error {
	p.calls = append(p.calls, propagatorCall{
		kind:        "sync",
		orderNumber: order.OrderNumber,
		quotation:   order.LinkedQuotation,
		draft:       order.IsDraft(),
	})
	return p.err
}

func (p *fakePropagator) RemovePurchaseOrder(ctx context.Context, tenantID uuid.UUID, quotationRef, orderNumber string) error {
	p.calls = append(p.calls, propagatorCall{
		kind:        "remove",
		orderNumber: orderNumber,
		quotation:   quotationRef,
	})
	return p.err
}

type seqAllocator struct {
	next int64
}

func (a *seqAllocator) Allocate(ctx context.Context, tenantID uuid.UUID, name string) (int64, error) {
	a.next++
	return a.next, nil
}

type stubTenantRepo struct{}

func (stubTenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return nil, shared.ErrNotFound
}

func (stubTenantRepo) Save(ctx context.Context, t *tenant.Tenant) error { return nil }

func (stubTenantRepo) AllActiveIDs(ctx context.Context) ([]uuid.UUID, error) { return nil, nil }

type countingSync struct {
	values map[string]int64
}

func (c *countingSync) Increment(ctx context.Context, tenantID uuid.UUID, name string, delta int64) error {
	c.values[name] += delta
	return nil
}

func (c *countingSync) Decrement(ctx context.Context, tenantID uuid.UUID, name string, delta int64) (bool, error) {
	if c.values[name] < delta {
		return true, nil
	}
	c.values[name] -= delta
	return false, nil
}

func (c *countingSync) Set(ctx context.Context, tenantID uuid.UUID, name string, value int64) error {
	c.values[name] = value
	return nil
}

func (c *countingSync) Get(ctx context.Context, tenantID uuid.UUID, name string) (int64, error) {
	return c.values[name], nil
}

func (c *countingSync) GetAll(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	return c.values, nil
}

type orderServiceFixture struct {
	svc        *PurchaseOrderService
	repo       *fakeOrderRepo
	propagator *fakePropagator
	counters   *countingSync
}

func newOrderServiceFixture() *orderServiceFixture {
	repo := newFakeOrderRepo()
	propagator := &fakePropagator{}
	counters := &countingSync{values: make(map[string]int64)}
	numberingSvc := numbering.NewService(&seqAllocator{}, stubTenantRepo{}, nil)
	recorder := effects.NewRecorder(counters, nil, nil, nil)
	return &orderServiceFixture{
		svc:        NewPurchaseOrderService(repo, numberingSvc, propagator, recorder, nil),
		repo:       repo,
		propagator: propagator,
		counters:   counters,
	}
}

func TestPurchaseOrderService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("allocates number when omitted", func(t *testing.T) {
		f := newOrderServiceFixture()
		resp, err := f.svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{
			SupplierName: "BuildMart",
		})
		require.NoError(t, err)
		assert.Equal(t, "PO-001", resp.OrderNumber)
		assert.Equal(t, "DRAFT", resp.Status)
	})

	t.Run("keeps caller-supplied number", func(t *testing.T) {
		f := newOrderServiceFixture()
		resp, err := f.svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{
			OrderNumber:  "PO-CUSTOM",
			SupplierName: "BuildMart",
		})
		require.NoError(t, err)
		assert.Equal(t, "PO-CUSTOM", resp.OrderNumber)
	})

	t.Run("duplicate caller-supplied number is terminal", func(t *testing.T) {
		f := newOrderServiceFixture()
		_, err := f.svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{
			OrderNumber:  "PO-CUSTOM",
			SupplierName: "BuildMart",
		})
		require.NoError(t, err)

		_, err = f.svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{
			OrderNumber:  "PO-CUSTOM",
			SupplierName: "BuildMart",
		})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "DUPLICATE_IDENTIFIER", de.Code)
	})

	t.Run("syncs linked job cost and bumps the counter", func(t *testing.T) {
		f := newOrderServiceFixture()
		resp, err := f.svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{
			SupplierName:    "BuildMart",
			LinkedQuotation: "INV-0042",
			Items: []OrderItemInput{
				{Name: "Copper Pipe", Quantity: decimal.NewFromInt(10), Unit: "m", UnitPrice: decimal.NewFromInt(5)},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "inv-0042", resp.LinkedQuotation)

		require.Len(t, f.propagator.calls, 1)
		assert.Equal(t, "sync", f.propagator.calls[0].kind)
		assert.True(t, f.propagator.calls[0].draft)
		assert.Equal(t, int64(1), f.counters.values[tenant.CountPurchaseOrders])
	})
}

func TestPurchaseOrderService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	create := func(t *testing.T, f *orderServiceFixture, quotation string) uuid.UUID {
		t.Helper()
		resp, err := f.svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{
			SupplierName:    "BuildMart",
			LinkedQuotation: quotation,
		})
		require.NoError(t, err)
		return resp.ID
	}

	t.Run("relinking moves the snapshot between ledgers", func(t *testing.T) {
		f := newOrderServiceFixture()
		id := create(t, f, "INV-0001")
		f.propagator.calls = nil

		newRef := "INV-0002"
		_, err := f.svc.Update(ctx, tenantID, id, UpdatePurchaseOrderRequest{
			LinkedQuotation: &newRef,
		})
		require.NoError(t, err)

		require.Len(t, f.propagator.calls, 2)
		assert.Equal(t, "remove", f.propagator.calls[0].kind)
		assert.Equal(t, "inv-0001", f.propagator.calls[0].quotation)
		assert.Equal(t, "sync", f.propagator.calls[1].kind)
		assert.Equal(t, "inv-0002", f.propagator.calls[1].quotation)
	})

	t.Run("unchanged link only re-syncs", func(t *testing.T) {
		f := newOrderServiceFixture()
		id := create(t, f, "INV-0001")
		f.propagator.calls = nil

		remark := "urgent"
		_, err := f.svc.Update(ctx, tenantID, id, UpdatePurchaseOrderRequest{Remark: &remark})
		require.NoError(t, err)

		require.Len(t, f.propagator.calls, 1)
		assert.Equal(t, "sync", f.propagator.calls[0].kind)
	})

	t.Run("non-draft order cannot be modified", func(t *testing.T) {
		f := newOrderServiceFixture()
		id := create(t, f, "")
		_, err := f.svc.ChangeStatus(ctx, tenantID, id, ChangeOrderStatusRequest{Status: "ORDERED"})
		require.NoError(t, err)

		remark := "too late"
		_, err = f.svc.Update(ctx, tenantID, id, UpdatePurchaseOrderRequest{Remark: &remark})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
	})

	t.Run("wrong tenant sees not found", func(t *testing.T) {
		f := newOrderServiceFixture()
		id := create(t, f, "")
		remark := "x"
		_, err := f.svc.Update(ctx, uuid.New(), id, UpdatePurchaseOrderRequest{Remark: &remark})
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestPurchaseOrderService_ChangeStatus(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("leaving draft re-syncs so costs propagate", func(t *testing.T) {
		f := newOrderServiceFixture()
		resp, err := f.svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{
			SupplierName:    "BuildMart",
			LinkedQuotation: "INV-0042",
		})
		require.NoError(t, err)
		f.propagator.calls = nil

		updated, err := f.svc.ChangeStatus(ctx, tenantID, resp.ID, ChangeOrderStatusRequest{Status: "ORDERED"})
		require.NoError(t, err)
		assert.Equal(t, "ORDERED", updated.Status)

		require.Len(t, f.propagator.calls, 1)
		assert.Equal(t, "sync", f.propagator.calls[0].kind)
		assert.False(t, f.propagator.calls[0].draft)
	})

	t.Run("invalid transition surfaces the domain error", func(t *testing.T) {
		f := newOrderServiceFixture()
		resp, err := f.svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{SupplierName: "BuildMart"})
		require.NoError(t, err)

		_, err = f.svc.ChangeStatus(ctx, tenantID, resp.ID, ChangeOrderStatusRequest{Status: "PAID"})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
	})
}

func TestPurchaseOrderService_PropagationFailures(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("create succeeds when the job cost store is down", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.propagator.err = errors.New("job cost store unavailable")

		resp, err := f.svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{
			SupplierName:    "BuildMart",
			LinkedQuotation: "INV-0042",
		})
		require.NoError(t, err)

		persisted, err := f.repo.FindByIDForTenant(ctx, tenantID, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, resp.OrderNumber, persisted.OrderNumber)
		assert.Equal(t, int64(1), f.counters.values[tenant.CountPurchaseOrders])
	})

	t.Run("update and status change survive propagation failure", func(t *testing.T) {
		f := newOrderServiceFixture()
		resp, err := f.svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{
			SupplierName:    "BuildMart",
			LinkedQuotation: "INV-0042",
		})
		require.NoError(t, err)
		f.propagator.err = errors.New("job cost store unavailable")

		remark := "urgent"
		_, err = f.svc.Update(ctx, tenantID, resp.ID, UpdatePurchaseOrderRequest{Remark: &remark})
		require.NoError(t, err)

		updated, err := f.svc.ChangeStatus(ctx, tenantID, resp.ID, ChangeOrderStatusRequest{Status: "ORDERED"})
		require.NoError(t, err)
		assert.Equal(t, "ORDERED", updated.Status)
	})

	t.Run("delete succeeds when snapshot removal fails", func(t *testing.T) {
		f := newOrderServiceFixture()
		resp, err := f.svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{
			SupplierName:    "BuildMart",
			LinkedQuotation: "INV-0042",
		})
		require.NoError(t, err)
		f.propagator.err = errors.New("job cost store unavailable")

		require.NoError(t, f.svc.Delete(ctx, tenantID, resp.ID))
		_, err = f.repo.FindByIDForTenant(ctx, tenantID, resp.ID)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestPurchaseOrderService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("strips the linked snapshot and decrements the counter", func(t *testing.T) {
		f := newOrderServiceFixture()
		resp, err := f.svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{
			SupplierName:    "BuildMart",
			LinkedQuotation: "INV-0042",
		})
		require.NoError(t, err)
		f.propagator.calls = nil

		require.NoError(t, f.svc.Delete(ctx, tenantID, resp.ID))

		require.Len(t, f.propagator.calls, 1)
		assert.Equal(t, "remove", f.propagator.calls[0].kind)
		assert.Equal(t, resp.OrderNumber, f.propagator.calls[0].orderNumber)
		assert.Equal(t, int64(0), f.counters.values[tenant.CountPurchaseOrders])
		assert.Equal(t, 1, f.repo.deleted)
	})

	t.Run("unlinked order skips propagation", func(t *testing.T) {
		f := newOrderServiceFixture()
		resp, err := f.svc.Create(ctx, tenantID, CreatePurchaseOrderRequest{SupplierName: "BuildMart"})
		require.NoError(t, err)
		f.propagator.calls = nil

		require.NoError(t, f.svc.Delete(ctx, tenantID, resp.ID))
		assert.Empty(t, f.propagator.calls)
	})
}
