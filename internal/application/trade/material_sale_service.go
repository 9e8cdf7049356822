package trade

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/application/effects"
	"github.com/fieldledger/backend/internal/application/numbering"
	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
	"github.com/fieldledger/backend/internal/domain/trade"
)

// MaterialSaleService handles over-the-counter material sale operations
type MaterialSaleService struct {
	sales     trade.MaterialSaleRepository
	numbering *numbering.Service
	effects   *effects.Recorder
	log       *zap.Logger
}

// NewMaterialSaleService creates a new MaterialSaleService
func NewMaterialSaleService(sales trade.MaterialSaleRepository, numberingSvc *numbering.Service, recorder *effects.Recorder, log *zap.Logger) *MaterialSaleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MaterialSaleService{
		sales:     sales,
		numbering: numberingSvc,
		effects:   recorder,
		log:       log,
	}
}

// Create creates a new material sale
func (s *MaterialSaleService) Create(ctx context.Context, tenantID uuid.UUID, req CreateMaterialSaleRequest) (*MaterialSaleResponse, error) {
	number := req.InvoiceNumber
	generated := number == ""
	if generated {
		var err error
		number, err = s.numbering.NextMaterialSaleNumber(ctx, tenantID)
		if err != nil {
			return nil, err
		}
	}

	sale, err := trade.NewMaterialSale(tenantID, number, req.CustomerName)
	if err != nil {
		return nil, err
	}
	sale.CustomerID = req.CustomerID
	if req.SaleDate != nil {
		sale.SaleDate = *req.SaleDate
	}
	sale.Remark = req.Remark

	for _, item := range req.Items {
		if _, err := sale.AddItem(item.Name, item.Unit, item.Quantity, item.UnitPrice, item.CostPrice); err != nil {
			return nil, err
		}
	}

	regenerate := func(ctx context.Context) (string, error) {
		return s.numbering.NextMaterialSaleNumber(ctx, tenantID)
	}
	if err := s.sales.Create(ctx, sale, generated, regenerate); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason:  "material_sale_created",
		Entity:  "material_sale",
		Number:  sale.InvoiceNumber,
		Counter: tenant.CountMaterialSales,
		Delta:   1,
	})

	response := ToMaterialSaleResponse(sale)
	return &response, nil
}

// GetByID retrieves a material sale by ID
func (s *MaterialSaleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*MaterialSaleResponse, error) {
	sale, err := s.sales.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToMaterialSaleResponse(sale)
	return &response, nil
}

// List retrieves material sales with filtering and pagination
func (s *MaterialSaleService) List(ctx context.Context, tenantID uuid.UUID, filter MaterialSaleListFilter) (shared.Paginated[MaterialSaleResponse], error) {
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
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	domainFilter.Normalize()

	sales, err := s.sales.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[MaterialSaleResponse]{}, err
	}
	total, err := s.sales.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[MaterialSaleResponse]{}, err
	}

	items := make([]MaterialSaleResponse, 0, len(sales))
	for i := range sales {
		items = append(items, ToMaterialSaleResponse(&sales[i]))
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update modifies a sale's header and items
func (s *MaterialSaleService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateMaterialSaleRequest) (*MaterialSaleResponse, error) {
	sale, err := s.sales.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		sale.CustomerID = req.CustomerID
		sale.Touch()
	}
	if req.CustomerName != nil {
		sale.CustomerName = *req.CustomerName
		sale.Touch()
	}
	if req.SaleDate != nil {
		sale.SaleDate = *req.SaleDate
		sale.Touch()
	}
	if req.Remark != nil {
		sale.Remark = *req.Remark
		sale.Touch()
	}
	if req.Items != nil {
		items := make([]trade.MaterialSaleItem, 0, len(req.Items))
		for _, in := range req.Items {
			item, err := trade.NewMaterialSaleItem(sale.ID, in.Name, in.Unit, in.Quantity, in.UnitPrice, in.CostPrice)
			if err != nil {
				return nil, err
			}
			items = append(items, *item)
		}
		sale.ReplaceItems(items)
	}

	if err := s.sales.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "material_sale_updated",
		Entity: "material_sale",
		Number: sale.InvoiceNumber,
	})

	response := ToMaterialSaleResponse(sale)
	return &response, nil
}

// ChangeStatus transitions the sale to the target status
func (s *MaterialSaleService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req ChangeSaleStatusRequest) (*MaterialSaleResponse, error) {
	sale, err := s.sales.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := sale.ChangeStatus(trade.MaterialSaleStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.sales.Save(ctx, sale); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "material_sale_status_changed",
		Entity: "material_sale",
		Number: sale.InvoiceNumber,
	})

	response := ToMaterialSaleResponse(sale)
	return &response, nil
}

// Delete removes a material sale and decrements the dashboard counter
func (s *MaterialSaleService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	sale, err := s.sales.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.sales.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason:  "material_sale_deleted",
		Entity:  "material_sale",
		Number:  sale.InvoiceNumber,
		Counter: tenant.CountMaterialSales,
		Delta:   -1,
	})
	return nil
}
