package field

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/application/effects"
	"github.com/fieldledger/backend/internal/application/numbering"
	"github.com/fieldledger/backend/internal/domain/field"
	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
)

// CreateSiteVisitRequest represents a request to create a site visit
type CreateSiteVisitRequest struct {
	// Number is optional; when empty the server allocates the next SV number
	// using the tenant's configured padding width
	Number       string          `json:"number" binding:"omitempty,max=50"`
	CustomerID   *uuid.UUID      `json:"customer_id"`
	CustomerName string          `json:"customer_name" binding:"omitempty,max=200"`
	VisitDate    *time.Time      `json:"visit_date"`
	Description  string          `json:"description" binding:"omitempty,max=2000"`
	Amount       decimal.Decimal `json:"amount"`
}

// UpdateSiteVisitRequest updates a site visit's editable fields
type UpdateSiteVisitRequest struct {
	CustomerID   *uuid.UUID       `json:"customer_id"`
	CustomerName *string          `json:"customer_name" binding:"omitempty,max=200"`
	VisitDate    *time.Time       `json:"visit_date"`
	Description  *string          `json:"description" binding:"omitempty,max=2000"`
	Amount       *decimal.Decimal `json:"amount"`
}

// ChangeVisitStatusRequest requests a status transition
type ChangeVisitStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SiteVisitListFilter represents filter options for the visit list
type SiteVisitListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status"`
	CustomerID *uuid.UUID `form:"customer_id"`
	From       *time.Time `form:"from"`
	To         *time.Time `form:"to"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// SiteVisitResponse represents a site visit in API responses
type SiteVisitResponse struct {
	ID           uuid.UUID       `json:"id"`
	TenantID     uuid.UUID       `json:"tenant_id"`
	Number       string          `json:"number"`
	CustomerID   *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName string          `json:"customer_name"`
	VisitDate    time.Time       `json:"visit_date"`
	Description  string          `json:"description,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToSiteVisitResponse maps a domain visit to its response form
func ToSiteVisitResponse(v *field.SiteVisit) SiteVisitResponse {
	return SiteVisitResponse{
		ID:           v.ID,
		TenantID:     v.TenantID,
		Number:       v.Number,
		CustomerID:   v.CustomerID,
		CustomerName: v.CustomerName,
		VisitDate:    v.VisitDate,
		Description:  v.Description,
		Amount:       v.Amount,
		Status:       string(v.Status),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// Service handles site visit business operations
type Service struct {
	visits    field.Repository
	numbering *numbering.Service
	effects   *effects.Recorder
	log       *zap.Logger
}

// NewService creates a new site visit service
func NewService(visits field.Repository, numberingSvc *numbering.Service, recorder *effects.Recorder, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		visits:    visits,
		numbering: numberingSvc,
		effects:   recorder,
		log:       log,
	}
}

// Create creates a new pending site visit
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateSiteVisitRequest) (*SiteVisitResponse, error) {
	number := req.Number
	generated := number == ""
	if generated {
		var err error
		number, err = s.numbering.NextSiteVisitNumber(ctx, tenantID)
		if err != nil {
			return nil, err
		}
	}

	visitDate := time.Now()
	if req.VisitDate != nil {
		visitDate = *req.VisitDate
	}
	visit, err := field.NewSiteVisit(tenantID, number, req.CustomerName, visitDate)
	if err != nil {
		return nil, err
	}
	visit.CustomerID = req.CustomerID
	visit.Description = req.Description
	if err := visit.SetAmount(req.Amount); err != nil {
		return nil, err
	}

	regenerate := func(ctx context.Context) (string, error) {
		return s.numbering.NextSiteVisitNumber(ctx, tenantID)
	}
	if err := s.visits.Create(ctx, visit, generated, regenerate); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason:  "site_visit_created",
		Entity:  "site_visit",
		Number:  visit.Number,
		Counter: tenant.CountSiteVisits,
		Delta:   1,
	})

	response := ToSiteVisitResponse(visit)
	return &response, nil
}

// GetByID retrieves a site visit by ID
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SiteVisitResponse, error) {
	visit, err := s.visits.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToSiteVisitResponse(visit)
	return &response, nil
}

// List retrieves site visits with filtering and pagination
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter SiteVisitListFilter) (shared.Paginated[SiteVisitResponse], error) {
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

	visits, err := s.visits.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[SiteVisitResponse]{}, err
	}
	total, err := s.visits.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[SiteVisitResponse]{}, err
	}

	items := make([]SiteVisitResponse, 0, len(visits))
	for i := range visits {
		items = append(items, ToSiteVisitResponse(&visits[i]))
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update modifies a site visit's editable fields
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateSiteVisitRequest) (*SiteVisitResponse, error) {
	visit, err := s.visits.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		visit.CustomerID = req.CustomerID
	}
	if req.CustomerName != nil {
		visit.CustomerName = *req.CustomerName
	}
	if req.VisitDate != nil {
		visit.VisitDate = *req.VisitDate
	}
	if req.Description != nil {
		visit.Description = *req.Description
	}
	if req.Amount != nil {
		if err := visit.SetAmount(*req.Amount); err != nil {
			return nil, err
		}
	}
	visit.Touch()

	if err := s.visits.Save(ctx, visit); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "site_visit_updated",
		Entity: "site_visit",
		Number: visit.Number,
	})

	response := ToSiteVisitResponse(visit)
	return &response, nil
}

// ChangeStatus transitions the visit along pending, invoiced, paid, converted
func (s *Service) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req ChangeVisitStatusRequest) (*SiteVisitResponse, error) {
	visit, err := s.visits.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := visit.ChangeStatus(field.SiteVisitStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.visits.Save(ctx, visit); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "site_visit_status_changed",
		Entity: "site_visit",
		Number: visit.Number,
	})

	response := ToSiteVisitResponse(visit)
	return &response, nil
}

// Delete removes a site visit and decrements the dashboard counter
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	visit, err := s.visits.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.visits.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason:  "site_visit_deleted",
		Entity:  "site_visit",
		Number:  visit.Number,
		Counter: tenant.CountSiteVisits,
		Delta:   -1,
	})
	return nil
}
