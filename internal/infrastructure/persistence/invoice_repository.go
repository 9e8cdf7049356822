package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fieldledger/backend/internal/domain/billing"
	"github.com/fieldledger/backend/internal/domain/shared"
)

// GormInvoiceRepository implements billing.Repository using GORM
type GormInvoiceRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewGormInvoiceRepository creates a new GORM invoice repository
func NewGormInvoiceRepository(db *gorm.DB, log *zap.Logger) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db, log: log}
}

func (r *GormInvoiceRepository) Create(ctx context.Context, inv *billing.Invoice, generated bool, regenerate func(ctx context.Context) (string, error)) error {
	insert := func(ctx context.Context, number string) error {
		inv.Number = number
		return r.db.WithContext(ctx).Create(inv).Error
	}
	return createWithRetry(ctx, r.log, "invoice", generated, regenerate, insert, inv.Number)
}

func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var inv billing.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Attachments").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "invoice not found")
		}
		return nil, err
	}
	return &inv, nil
}

func (r *GormInvoiceRepository) FindByNumberForTenant(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Invoice, error) {
	var inv billing.Invoice
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Attachments").
		Where("tenant_id = ? AND number = ?", tenantID, number).
		First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "invoice not found")
		}
		return nil, err
	}
	return &inv, nil
}

func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	if err := query.Preload("Items").Preload("Attachments").Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInvoiceRepository) Save(ctx context.Context, inv *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&billing.InvoiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&billing.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(inv).Error
	})
}

func (r *GormInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&billing.Invoice{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.ErrNotFound.Code, "invoice not found")
		}
		if err := tx.Where("invoice_id = ?", id).Delete(&billing.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Where("invoice_id = ?", id).Delete(&billing.Attachment{}).Error
	})
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	filter.Normalize()
	sortField := ValidateSortField(filter.OrderBy, InvoiceSortFields, "issue_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}

func (r *GormInvoiceRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if kind, ok := filter.Filters["kind"].(string); ok && kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if filter.From != nil {
		query = query.Where("issue_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("issue_date <= ?", *filter.To)
	}
	return query
}

var _ billing.Repository = (*GormInvoiceRepository)(nil)
