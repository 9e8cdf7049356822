package trade

import (
	"context"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/application/effects"
	"github.com/fieldledger/backend/internal/application/numbering"
	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
	"github.com/fieldledger/backend/internal/domain/trade"
)

// CostPropagator pushes purchase order changes into the linked job cost
// ledger. Calls run synchronously on the order write path, after the order
// itself has been persisted.
type CostPropagator interface {
	SyncPurchaseOrder(ctx context.Context, order *trade.PurchaseOrder) error
	RemovePurchaseOrder(ctx context.Context, tenantID uuid.UUID, quotationRef, orderNumber string) error
}

// PurchaseOrderService handles purchase order business operations
type PurchaseOrderService struct {
	orders     trade.PurchaseOrderRepository
	numbering  *numbering.Service
	propagator CostPropagator
	effects    *effects.Recorder
	files      shared.FileStore
	log        *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orders trade.PurchaseOrderRepository,
	numberingSvc *numbering.Service,
	propagator CostPropagator,
	recorder *effects.Recorder,
	log *zap.Logger,
) *PurchaseOrderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PurchaseOrderService{
		orders:     orders,
		numbering:  numberingSvc,
		propagator: propagator,
		effects:    recorder,
		files:      shared.NopFileStore{},
		log:        log,
	}
}

// SetFileStore sets the storage collaborator for order images
func (s *PurchaseOrderService) SetFileStore(files shared.FileStore) {
	s.files = files
}

// Create creates a new purchase order in draft status and, when it links a
// quotation, mirrors its lines into the matching job cost.
func (s *PurchaseOrderService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	number := req.OrderNumber
	generated := number == ""
	if generated {
		var err error
		number, err = s.numbering.NextPurchaseOrderNumber(ctx, tenantID)
		if err != nil {
			return nil, err
		}
	}

	order, err := trade.NewPurchaseOrder(tenantID, number, req.SupplierName)
	if err != nil {
		return nil, err
	}
	order.SupplierID = req.SupplierID
	if req.LinkedQuotation != "" {
		order.SetLinkedQuotation(req.LinkedQuotation)
	}
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
	}
	order.Remark = req.Remark

	for _, item := range req.Items {
		if _, err := order.AddItem(item.Name, item.Unit, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	regenerate := func(ctx context.Context) (string, error) {
		return s.numbering.NextPurchaseOrderNumber(ctx, tenantID)
	}
	if err := s.orders.Create(ctx, order, generated, regenerate); err != nil {
		return nil, err
	}

	s.syncJobCost(ctx, order)

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason:  "purchase_order_created",
		Entity:  "purchase_order",
		Number:  order.OrderNumber,
		Counter: tenant.CountPurchaseOrders,
		Delta:   1,
	})

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByNumber retrieves a purchase order by its order number
func (s *PurchaseOrderService) GetByNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*PurchaseOrderResponse, error) {
	order, err := s.orders.FindByNumberForTenant(ctx, tenantID, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, tenantID uuid.UUID, filter PurchaseOrderListFilter) (shared.Paginated[PurchaseOrderListItemResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Status:   filter.Status,
		From:     filter.From,
		To:       filter.To,
		Filters:  map[string]interface{}{},
	}
	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.LinkedQuotation != "" {
		domainFilter.Filters["linked_quotation"] = filter.LinkedQuotation
	}
	domainFilter.Normalize()

	orders, err := s.orders.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[PurchaseOrderListItemResponse]{}, err
	}
	total, err := s.orders.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[PurchaseOrderListItemResponse]{}, err
	}

	items := make([]PurchaseOrderListItemResponse, 0, len(orders))
	for i := range orders {
		items = append(items, ToPurchaseOrderListItem(&orders[i]))
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update modifies a draft order's header and items, then re-syncs the linked
// job cost. Changing the linked quotation moves the snapshot: the old ledger
// loses the order's lines, the new one gains them.
func (s *PurchaseOrderService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !order.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", "Only draft orders can be modified")
	}

	previousQuotation := order.LinkedQuotation

	if req.SupplierID != nil {
		order.SupplierID = req.SupplierID
		order.Touch()
	}
	if req.SupplierName != nil {
		order.SupplierName = *req.SupplierName
		order.Touch()
	}
	if req.LinkedQuotation != nil {
		order.SetLinkedQuotation(*req.LinkedQuotation)
	}
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
		order.Touch()
	}
	if req.Remark != nil {
		order.Remark = *req.Remark
		order.Touch()
	}
	if req.Items != nil {
		items := make([]trade.PurchaseOrderItem, 0, len(req.Items))
		for _, in := range req.Items {
			item, err := trade.NewPurchaseOrderItem(order.ID, in.Name, in.Unit, in.Quantity, in.UnitPrice)
			if err != nil {
				return nil, err
			}
			items = append(items, *item)
		}
		if err := order.ReplaceItems(items); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	if previousQuotation != "" && previousQuotation != order.LinkedQuotation {
		s.removeFromJobCost(ctx, tenantID, previousQuotation, order.OrderNumber)
	}
	s.syncJobCost(ctx, order)

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "purchase_order_updated",
		Entity: "purchase_order",
		Number: order.OrderNumber,
	})

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// ChangeStatus transitions the order and re-syncs the linked job cost, since
// cost back-propagation is gated on the order having left draft.
func (s *PurchaseOrderService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req ChangeOrderStatusRequest) (*PurchaseOrderResponse, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := order.ChangeStatus(trade.PurchaseOrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	s.syncJobCost(ctx, order)

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "purchase_order_status_changed",
		Entity: "purchase_order",
		Number: order.OrderNumber,
	})

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// ReplaceImage uploads a new order image and deletes the previous file
func (s *PurchaseOrderService) ReplaceImage(ctx context.Context, tenantID, id uuid.UUID, originalName string, content io.Reader) (*PurchaseOrderResponse, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	file, err := s.files.Save(ctx, tenantID, originalName, content)
	if err != nil {
		return nil, err
	}

	old := order.ReplaceImage(file)
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	if !old.IsZero() {
		if err := s.files.Delete(ctx, old); err != nil {
			s.log.Warn("failed to delete replaced order image",
				zap.String("tenant_id", tenantID.String()),
				zap.String("path", old.RelativePath),
				zap.Error(err))
		}
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "purchase_order_updated",
		Entity: "purchase_order",
		Number: order.OrderNumber,
	})

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Delete removes the order, strips its lines from the linked job cost and
// cleans up the stored image.
func (s *PurchaseOrderService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.orders.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	if order.HasLinkedQuotation() {
		s.removeFromJobCost(ctx, tenantID, order.LinkedQuotation, order.OrderNumber)
	}

	if !order.Image.IsZero() {
		if err := s.files.Delete(ctx, order.Image); err != nil {
			s.log.Warn("failed to delete order image",
				zap.String("tenant_id", tenantID.String()),
				zap.String("path", order.Image.RelativePath),
				zap.Error(err))
		}
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason:  "purchase_order_deleted",
		Entity:  "purchase_order",
		Number:  order.OrderNumber,
		Counter: tenant.CountPurchaseOrders,
		Delta:   -1,
	})
	return nil
}

// syncJobCost mirrors the order into its linked job cost. The order write has
// already committed, so propagation failures are logged and swallowed;
// reconciliation and the next sync restore the ledger.
func (s *PurchaseOrderService) syncJobCost(ctx context.Context, order *trade.PurchaseOrder) {
	if err := s.propagator.SyncPurchaseOrder(ctx, order); err != nil {
		s.log.Warn("job cost propagation failed",
			zap.String("tenant_id", order.TenantID.String()),
			zap.String("order_number", order.OrderNumber),
			zap.String("quotation_ref", order.LinkedQuotation),
			zap.Error(err))
	}
}

// removeFromJobCost strips the order's snapshot lines from the linked ledger,
// with the same best-effort policy as syncJobCost.
func (s *PurchaseOrderService) removeFromJobCost(ctx context.Context, tenantID uuid.UUID, quotationRef, orderNumber string) {
	if err := s.propagator.RemovePurchaseOrder(ctx, tenantID, quotationRef, orderNumber); err != nil {
		s.log.Warn("job cost snapshot removal failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("order_number", orderNumber),
			zap.String("quotation_ref", quotationRef),
			zap.Error(err))
	}
}
