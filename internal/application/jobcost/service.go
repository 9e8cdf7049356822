package jobcost

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/application/effects"
	"github.com/fieldledger/backend/internal/application/numbering"
	"github.com/fieldledger/backend/internal/domain/jobcost"
	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
)

// Service handles job cost business operations
type Service struct {
	jobCosts  jobcost.Repository
	numbering *numbering.Service
	effects   *effects.Recorder
	log       *zap.Logger
}

// NewService creates a new job cost service
func NewService(jobCosts jobcost.Repository, numberingSvc *numbering.Service, recorder *effects.Recorder, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		jobCosts:  jobCosts,
		numbering: numberingSvc,
		effects:   recorder,
		log:       log,
	}
}

// Create creates a new job cost ledger. The number is server-allocated unless
// the request carries one; duplicates of caller-supplied numbers are terminal.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req CreateJobCostRequest) (*JobCostResponse, error) {
	number := req.Number
	generated := number == ""
	if generated {
		var err error
		number, err = s.numbering.NextJobCostNumber(ctx, tenantID)
		if err != nil {
			return nil, err
		}
	}

	jc, err := jobcost.NewJobCost(tenantID, number, req.QuotationRef, req.ProjectName)
	if err != nil {
		return nil, err
	}
	jc.CustomerName = req.CustomerName

	for _, item := range req.InvoiceItems {
		if _, err := jc.AddInvoiceItem(item.Name, item.Quantity, item.SellingPrice, item.CostPrice); err != nil {
			return nil, err
		}
	}
	for _, exp := range req.Expenses {
		if _, err := jc.AddExpense(exp.Description, exp.Amount); err != nil {
			return nil, err
		}
	}

	regenerate := func(ctx context.Context) (string, error) {
		return s.numbering.NextJobCostNumber(ctx, tenantID)
	}
	if err := s.jobCosts.Create(ctx, jc, generated, regenerate); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason:  "job_cost_created",
		Entity:  "job_cost",
		Number:  jc.Number,
		Counter: tenant.CountJobCosts,
		Delta:   1,
	})

	response := ToJobCostResponse(jc)
	return &response, nil
}

// GetByID retrieves a job cost by ID
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*JobCostResponse, error) {
	jc, err := s.jobCosts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToJobCostResponse(jc)
	return &response, nil
}

// GetByQuotationRef retrieves a job cost by its linked quotation number
func (s *Service) GetByQuotationRef(ctx context.Context, tenantID uuid.UUID, quotationRef string) (*JobCostResponse, error) {
	jc, err := s.jobCosts.FindByQuotationRef(ctx, tenantID, quotationRef)
	if err != nil {
		return nil, err
	}
	response := ToJobCostResponse(jc)
	return &response, nil
}

// List retrieves job costs with filtering and pagination
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, filter JobCostListFilter) (shared.Paginated[JobCostListItemResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		From:     filter.From,
		To:       filter.To,
	}
	domainFilter.Normalize()

	jobCosts, err := s.jobCosts.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[JobCostListItemResponse]{}, err
	}
	total, err := s.jobCosts.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[JobCostListItemResponse]{}, err
	}

	items := make([]JobCostListItemResponse, 0, len(jobCosts))
	for i := range jobCosts {
		items = append(items, ToJobCostListItem(&jobCosts[i]))
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update replaces the header fields and, when provided, the editable
// collections. Totals are recomputed by the aggregate on every mutation.
func (s *Service) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateJobCostRequest) (*JobCostResponse, error) {
	jc, err := s.jobCosts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.ProjectName != nil {
		jc.ProjectName = *req.ProjectName
		jc.Touch()
	}
	if req.CustomerName != nil {
		jc.CustomerName = *req.CustomerName
		jc.Touch()
	}
	if req.InvoiceItems != nil {
		items, err := invoiceItemsFromInputs(jc.ID, req.InvoiceItems)
		if err != nil {
			return nil, err
		}
		jc.ReplaceInvoiceItems(items)
	}
	if req.Expenses != nil {
		expenses, err := expensesFromInputs(jc.ID, req.Expenses)
		if err != nil {
			return nil, err
		}
		jc.Expenses = expenses
		jc.Recalculate()
		jc.Touch()
	}

	if err := s.jobCosts.Save(ctx, jc); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "job_cost_updated",
		Entity: "job_cost",
		Number: jc.Number,
	})

	response := ToJobCostResponse(jc)
	return &response, nil
}

// AddExpense appends one other-expenses line
func (s *Service) AddExpense(ctx context.Context, tenantID, id uuid.UUID, req ExpenseInput) (*JobCostResponse, error) {
	jc, err := s.jobCosts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if _, err := jc.AddExpense(req.Description, req.Amount); err != nil {
		return nil, err
	}
	if err := s.jobCosts.Save(ctx, jc); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "job_cost_updated",
		Entity: "job_cost",
		Number: jc.Number,
	})

	response := ToJobCostResponse(jc)
	return &response, nil
}

// Delete removes a job cost and decrements the dashboard counter
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	jc, err := s.jobCosts.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.jobCosts.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason:  "job_cost_deleted",
		Entity:  "job_cost",
		Number:  jc.Number,
		Counter: tenant.CountJobCosts,
		Delta:   -1,
	})
	return nil
}

func invoiceItemsFromInputs(jobCostID uuid.UUID, inputs []InvoiceItemInput) ([]jobcost.InvoiceItem, error) {
	now := time.Now()
	items := make([]jobcost.InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		if in.Name == "" {
			return nil, shared.NewValidationError("name", "item name is required")
		}
		items = append(items, jobcost.InvoiceItem{
			ID:           uuid.New(),
			JobCostID:    jobCostID,
			Name:         in.Name,
			Quantity:     in.Quantity,
			SellingPrice: in.SellingPrice,
			CostPrice:    in.CostPrice,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	return items, nil
}

func expensesFromInputs(jobCostID uuid.UUID, inputs []ExpenseInput) ([]jobcost.Expense, error) {
	now := time.Now()
	expenses := make([]jobcost.Expense, 0, len(inputs))
	for _, in := range inputs {
		if in.Description == "" {
			return nil, shared.NewValidationError("description", "expense description is required")
		}
		expenses = append(expenses, jobcost.Expense{
			ID:          uuid.New(),
			JobCostID:   jobCostID,
			Description: in.Description,
			Amount:      in.Amount,
			CreatedAt:   now,
		})
	}
	return expenses, nil
}
