package partner

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/application/effects"
	"github.com/fieldledger/backend/internal/domain/partner"
	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
	"github.com/fieldledger/backend/internal/domain/trade"
)

// ReferenceCounter reports how many documents still reference a partner.
// Deletion is blocked while the count is non-zero.
type ReferenceCounter interface {
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// Service handles supplier, customer and category CRUD
type Service struct {
	suppliers  partner.SupplierRepository
	customers  partner.CustomerRepository
	categories partner.CategoryRepository

	// reference counters for delete checks
	orders       trade.PurchaseOrderRepository
	customerRefs []ReferenceCounter

	effects *effects.Recorder
	log     *zap.Logger
}

// NewService creates a new partner service
func NewService(
	suppliers partner.SupplierRepository,
	customers partner.CustomerRepository,
	categories partner.CategoryRepository,
	orders trade.PurchaseOrderRepository,
	recorder *effects.Recorder,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		suppliers:  suppliers,
		customers:  customers,
		categories: categories,
		orders:     orders,
		effects:    recorder,
		log:        log,
	}
}

// AddCustomerReferenceCounter registers one more repository consulted before
// a customer may be deleted (invoices, material sales, site visits).
func (s *Service) AddCustomerReferenceCounter(counter ReferenceCounter) {
	s.customerRefs = append(s.customerRefs, counter)
}

// ==================== Suppliers ====================

// CreateSupplier creates a new supplier
func (s *Service) CreateSupplier(ctx context.Context, tenantID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	sup, err := partner.NewSupplier(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	sup.ContactName = req.ContactName
	sup.Phone = req.Phone
	sup.Email = req.Email
	sup.Address = req.Address
	sup.Notes = req.Notes

	if err := s.suppliers.Create(ctx, sup); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason:  "supplier_created",
		Entity:  "supplier",
		Counter: tenant.CountSuppliers,
		Delta:   1,
	})

	response := ToSupplierResponse(sup)
	return &response, nil
}

// GetSupplier retrieves a supplier by ID
func (s *Service) GetSupplier(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	sup, err := s.suppliers.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(sup)
	return &response, nil
}

// ListSuppliers retrieves suppliers with filtering and pagination
func (s *Service) ListSuppliers(ctx context.Context, tenantID uuid.UUID, filter PartnerListFilter) (shared.Paginated[SupplierResponse], error) {
	domainFilter := toDomainFilter(filter)

	suppliers, err := s.suppliers.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[SupplierResponse]{}, err
	}
	total, err := s.suppliers.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[SupplierResponse]{}, err
	}

	items := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		items = append(items, ToSupplierResponse(&suppliers[i]))
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// UpdateSupplier modifies a supplier's fields
func (s *Service) UpdateSupplier(ctx context.Context, tenantID, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	sup, err := s.suppliers.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		sup.Name = *req.Name
	}
	if req.ContactName != nil {
		sup.ContactName = *req.ContactName
	}
	if req.Phone != nil {
		sup.Phone = *req.Phone
	}
	if req.Email != nil {
		sup.Email = *req.Email
	}
	if req.Address != nil {
		sup.Address = *req.Address
	}
	if req.Notes != nil {
		sup.Notes = *req.Notes
	}
	sup.Touch()

	if err := s.suppliers.Save(ctx, sup); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "supplier_updated",
		Entity: "supplier",
	})

	response := ToSupplierResponse(sup)
	return &response, nil
}

// DeleteSupplier removes a supplier. Blocked while purchase orders still
// reference it.
func (s *Service) DeleteSupplier(ctx context.Context, tenantID, id uuid.UUID) error {
	count, err := s.orders.CountForTenant(ctx, tenantID, shared.Filter{
		Filters: map[string]interface{}{"supplier_id": id},
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("REFERENCED",
			"Cannot delete a supplier that purchase orders still reference")
	}

	if err := s.suppliers.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason:  "supplier_deleted",
		Entity:  "supplier",
		Counter: tenant.CountSuppliers,
		Delta:   -1,
	})
	return nil
}

// ==================== Customers ====================

// CreateCustomer creates a new customer
func (s *Service) CreateCustomer(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	c, err := partner.NewCustomer(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	c.Phone = req.Phone
	c.Email = req.Email
	c.Address = req.Address
	c.CategoryID = req.CategoryID
	c.Notes = req.Notes

	if err := s.customers.Create(ctx, c); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason:  "customer_created",
		Entity:  "customer",
		Counter: tenant.CountCustomers,
		Delta:   1,
	})

	response := ToCustomerResponse(c)
	return &response, nil
}

// GetCustomer retrieves a customer by ID
func (s *Service) GetCustomer(ctx context.Context, tenantID, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customers.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(c)
	return &response, nil
}

// ListCustomers retrieves customers with filtering and pagination
func (s *Service) ListCustomers(ctx context.Context, tenantID uuid.UUID, filter PartnerListFilter) (shared.Paginated[CustomerResponse], error) {
	domainFilter := toDomainFilter(filter)

	customers, err := s.customers.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	total, err := s.customers.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}

	items := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, ToCustomerResponse(&customers[i]))
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// UpdateCustomer modifies a customer's fields
func (s *Service) UpdateCustomer(ctx context.Context, tenantID, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	c, err := s.customers.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.CategoryID != nil {
		c.CategoryID = req.CategoryID
	}
	if req.Notes != nil {
		c.Notes = *req.Notes
	}
	c.Touch()

	if err := s.customers.Save(ctx, c); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "customer_updated",
		Entity: "customer",
	})

	response := ToCustomerResponse(c)
	return &response, nil
}

// DeleteCustomer removes a customer. Blocked while any registered document
// repository still references it.
func (s *Service) DeleteCustomer(ctx context.Context, tenantID, id uuid.UUID) error {
	for _, refs := range s.customerRefs {
		count, err := refs.CountForTenant(ctx, tenantID, shared.Filter{
			Filters: map[string]interface{}{"customer_id": id},
		})
		if err != nil {
			return err
		}
		if count > 0 {
			return shared.NewDomainError("REFERENCED",
				"Cannot delete a customer that documents still reference")
		}
	}

	if err := s.customers.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason:  "customer_deleted",
		Entity:  "customer",
		Counter: tenant.CountCustomers,
		Delta:   -1,
	})
	return nil
}

// ==================== Categories ====================

// CreateCategory creates a new category
func (s *Service) CreateCategory(ctx context.Context, tenantID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	c, err := partner.NewCategory(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	c.Description = req.Description

	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(c)
	return &response, nil
}

// ListCategories retrieves a tenant's categories
func (s *Service) ListCategories(ctx context.Context, tenantID uuid.UUID, filter PartnerListFilter) ([]CategoryResponse, error) {
	domainFilter := toDomainFilter(filter)

	categories, err := s.categories.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, ToCategoryResponse(&categories[i]))
	}
	return items, nil
}

// UpdateCategory modifies a category's fields
func (s *Service) UpdateCategory(ctx context.Context, tenantID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	c, err := s.categories.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	c.Touch()

	if err := s.categories.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(c)
	return &response, nil
}

// DeleteCategory removes a category. Blocked while customers still use it.
func (s *Service) DeleteCategory(ctx context.Context, tenantID, id uuid.UUID) error {
	count, err := s.customers.CountForTenant(ctx, tenantID, shared.Filter{
		Filters: map[string]interface{}{"category_id": id},
	})
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("REFERENCED",
			"Cannot delete a category that customers still use")
	}

	return s.categories.DeleteForTenant(ctx, tenantID, id)
}

func toDomainFilter(filter PartnerListFilter) shared.Filter {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]interface{}{},
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	domainFilter.Normalize()
	return domainFilter
}
