package billing

import (
	"context"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/application/effects"
	"github.com/fieldledger/backend/internal/application/numbering"
	"github.com/fieldledger/backend/internal/domain/billing"
	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
)

// InvoiceService handles quotation/invoice business operations. Quotations
// and invoices share one aggregate and one sequence; conversion keeps the
// document's number.
type InvoiceService struct {
	invoices  billing.Repository
	numbering *numbering.Service
	effects   *effects.Recorder
	files     shared.FileStore
	log       *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(invoices billing.Repository, numberingSvc *numbering.Service, recorder *effects.Recorder, log *zap.Logger) *InvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &InvoiceService{
		invoices:  invoices,
		numbering: numberingSvc,
		effects:   recorder,
		files:     shared.NopFileStore{},
		log:       log,
	}
}

// SetFileStore sets the storage collaborator for attachments
func (s *InvoiceService) SetFileStore(files shared.FileStore) {
	s.files = files
}

// CreateQuotation creates a new quotation
func (s *InvoiceService) CreateQuotation(ctx context.Context, tenantID uuid.UUID, req CreateQuotationRequest) (*InvoiceResponse, error) {
	number := req.Number
	generated := number == ""
	if generated {
		var err error
		number, err = s.numbering.NextInvoiceNumber(ctx, tenantID)
		if err != nil {
			return nil, err
		}
	}

	inv, err := billing.NewQuotation(tenantID, number, req.CustomerName)
	if err != nil {
		return nil, err
	}
	inv.CustomerID = req.CustomerID
	if req.IssueDate != nil {
		inv.IssueDate = *req.IssueDate
	}
	inv.Remark = req.Remark

	for _, item := range req.Items {
		if _, err := inv.AddItem(item.Name, item.Unit, item.Quantity, item.UnitPrice); err != nil {
			return nil, err
		}
	}

	regenerate := func(ctx context.Context) (string, error) {
		return s.numbering.NextInvoiceNumber(ctx, tenantID)
	}
	if err := s.invoices.Create(ctx, inv, generated, regenerate); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason:  "quotation_created",
		Entity:  "invoice",
		Number:  inv.Number,
		Counter: tenant.CountInvoices,
		Delta:   1,
	})

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// GetByID retrieves a billing document by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// GetByNumber retrieves a billing document by its number
func (s *InvoiceService) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByNumberForTenant(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(inv)
	return &response, nil
}

// List retrieves billing documents with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) (shared.Paginated[InvoiceListItemResponse], error) {
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
	if filter.Kind != "" {
		domainFilter.Filters["kind"] = filter.Kind
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	domainFilter.Normalize()

	invoices, err := s.invoices.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[InvoiceListItemResponse]{}, err
	}
	total, err := s.invoices.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return shared.Paginated[InvoiceListItemResponse]{}, err
	}

	items := make([]InvoiceListItemResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, ToInvoiceListItem(&invoices[i]))
	}
	return shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize), nil
}

// Update modifies a document's header and items
func (s *InvoiceService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		inv.CustomerID = req.CustomerID
		inv.Touch()
	}
	if req.CustomerName != nil {
		inv.CustomerName = *req.CustomerName
		inv.Touch()
	}
	if req.IssueDate != nil {
		inv.IssueDate = *req.IssueDate
		inv.Touch()
	}
	if req.Remark != nil {
		inv.Remark = *req.Remark
		inv.Touch()
	}
	if req.Items != nil {
		items := make([]billing.InvoiceItem, 0, len(req.Items))
		for _, in := range req.Items {
			item, err := billing.NewInvoiceItem(inv.ID, in.Name, in.Unit, in.Quantity, in.UnitPrice)
			if err != nil {
				return nil, err
			}
			items = append(items, *item)
		}
		inv.ReplaceItems(items)
	}

	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "invoice_updated",
		Entity: "invoice",
		Number: inv.Number,
	})

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Convert turns a quotation into an invoice, keeping its number
func (s *InvoiceService) Convert(ctx context.Context, tenantID, id uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := inv.ConvertToInvoice(); err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "quotation_converted",
		Entity: "invoice",
		Number: inv.Number,
	})

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// RecordPayment applies a payment and rolls the status forward
func (s *InvoiceService) RecordPayment(ctx context.Context, tenantID, id uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := inv.RecordPayment(req.Amount); err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "invoice_payment_recorded",
		Entity: "invoice",
		Number: inv.Number,
	})

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// ChangeStatus transitions the document to the target status
func (s *InvoiceService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, req ChangeInvoiceStatusRequest) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := inv.ChangeStatus(billing.InvoiceStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "invoice_status_changed",
		Entity: "invoice",
		Number: inv.Number,
	})

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// AddAttachment stores an uploaded file and attaches it to the document
func (s *InvoiceService) AddAttachment(ctx context.Context, tenantID, id uuid.UUID, originalName string, content io.Reader) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	file, err := s.files.Save(ctx, tenantID, originalName, content)
	if err != nil {
		return nil, err
	}
	inv.AddAttachment(file)

	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "invoice_updated",
		Entity: "invoice",
		Number: inv.Number,
	})

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// RemoveAttachment detaches a stored file and deletes its path
func (s *InvoiceService) RemoveAttachment(ctx context.Context, tenantID, id, attachmentID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoices.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	file, err := inv.RemoveAttachment(attachmentID)
	if err != nil {
		return nil, err
	}
	if err := s.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}

	if err := s.files.Delete(ctx, file); err != nil {
		s.log.Warn("failed to delete removed attachment",
			zap.String("tenant_id", tenantID.String()),
			zap.String("path", file.RelativePath),
			zap.Error(err))
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason: "invoice_updated",
		Entity: "invoice",
		Number: inv.Number,
	})

	response := ToInvoiceResponse(inv)
	return &response, nil
}

// Delete removes a billing document, its attachments' files included
func (s *InvoiceService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	inv, err := s.invoices.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.invoices.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}

	for _, att := range inv.Attachments {
		if err := s.files.Delete(ctx, att.File); err != nil {
			s.log.Warn("failed to delete attachment of removed invoice",
				zap.String("tenant_id", tenantID.String()),
				zap.String("path", att.File.RelativePath),
				zap.Error(err))
		}
	}

	s.effects.Record(ctx, tenantID, effects.Event{
		Reason:  "invoice_deleted",
		Entity:  "invoice",
		Number:  inv.Number,
		Counter: tenant.CountInvoices,
		Delta:   -1,
	})
	return nil
}
