package jobcost

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/domain/jobcost"
	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/trade"
)

// Propagator pushes purchase order changes into the job cost ledger linked by
// quotation reference. It runs synchronously on the purchase order write path:
// a missing ledger is a logged no-op, and the embedded snapshot is fully
// replaced per order number so repeated runs converge.
type Propagator struct {
	jobCosts jobcost.Repository
	log      *zap.Logger
}

// NewPropagator creates a new Propagator
func NewPropagator(jobCosts jobcost.Repository, log *zap.Logger) *Propagator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Propagator{jobCosts: jobCosts, log: log}
}

// SyncPurchaseOrder mirrors the order's current lines into the linked job
// cost and, once the order has left draft, back-propagates unit costs into
// invoice lines with matching names. Draft orders only refresh the snapshot:
// their pricing is tentative.
func (p *Propagator) SyncPurchaseOrder(ctx context.Context, order *trade.PurchaseOrder) error {
	if !order.HasLinkedQuotation() {
		return nil
	}

	jc, err := p.jobCosts.FindByQuotationRef(ctx, order.TenantID, order.LinkedQuotation)
	if err != nil {
		if shared.IsNotFound(err) {
			p.log.Info("no job cost for linked quotation, skipping sync",
				zap.String("tenant_id", order.TenantID.String()),
				zap.String("order_number", order.OrderNumber),
				zap.String("quotation_ref", order.LinkedQuotation))
			return nil
		}
		return err
	}

	jc.ReplacePOItems(order.OrderNumber, snapshotItems(order))

	if !order.IsDraft() {
		applied := jc.ApplyCostPrices(costsByItemName(order))
		if applied > 0 {
			p.log.Info("propagated cost prices into job cost",
				zap.String("tenant_id", order.TenantID.String()),
				zap.String("order_number", order.OrderNumber),
				zap.String("job_cost", jc.Number),
				zap.Int("lines", applied))
		}
	}

	return p.jobCosts.Save(ctx, jc)
}

// RemovePurchaseOrder strips every snapshot line contributed by the order
// from the job cost linked to quotationRef. Cost prices already propagated
// stay: removal undoes the snapshot, not past pricing.
func (p *Propagator) RemovePurchaseOrder(ctx context.Context, tenantID uuid.UUID, quotationRef, orderNumber string) error {
	if shared.NormalizeReference(quotationRef) == "" {
		return nil
	}

	jc, err := p.jobCosts.FindByQuotationRef(ctx, tenantID, quotationRef)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return err
	}

	if len(jc.POItemsFor(orderNumber)) == 0 {
		return nil
	}

	jc.ReplacePOItems(orderNumber, nil)
	return p.jobCosts.Save(ctx, jc)
}

func snapshotItems(order *trade.PurchaseOrder) []jobcost.POItem {
	items := make([]jobcost.POItem, 0, len(order.Items))
	for _, it := range order.Items {
		items = append(items, jobcost.POItem{
			OrderID:      order.ID,
			OrderNumber:  order.OrderNumber,
			SupplierName: order.SupplierName,
			Name:         it.Name,
			Quantity:     it.Quantity,
			Unit:         it.Unit,
			UnitPrice:    it.UnitPrice,
			OrderDate:    order.OrderDate,
			OrderStatus:  order.Status.String(),
		})
	}
	return items
}

// costsByItemName maps normalized item names to unit prices. When an order
// repeats a name the later line wins, matching the full-replace reading of
// the snapshot.
func costsByItemName(order *trade.PurchaseOrder) map[string]decimal.Decimal {
	costs := make(map[string]decimal.Decimal, len(order.Items))
	for _, it := range order.Items {
		costs[shared.NormalizeItemName(it.Name)] = it.UnitPrice
	}
	return costs
}
