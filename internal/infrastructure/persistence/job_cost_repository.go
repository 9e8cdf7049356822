package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fieldledger/backend/internal/domain/jobcost"
	"github.com/fieldledger/backend/internal/domain/shared"
)

// GormJobCostRepository implements jobcost.Repository using GORM
type GormJobCostRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewGormJobCostRepository creates a new GORM job cost repository
func NewGormJobCostRepository(db *gorm.DB, log *zap.Logger) *GormJobCostRepository {
	return &GormJobCostRepository{db: db, log: log}
}

func (r *GormJobCostRepository) Create(ctx context.Context, jc *jobcost.JobCost, generated bool, regenerate func(ctx context.Context) (string, error)) error {
	insert := func(ctx context.Context, number string) error {
		jc.Number = number
		return r.db.WithContext(ctx).Create(jc).Error
	}
	return createWithRetry(ctx, r.log, "job_cost", generated, regenerate, insert, jc.Number)
}

func (r *GormJobCostRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*jobcost.JobCost, error) {
	var jc jobcost.JobCost
	err := r.preloadAll(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&jc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "job cost not found")
		}
		return nil, err
	}
	return &jc, nil
}

func (r *GormJobCostRepository) FindByQuotationRef(ctx context.Context, tenantID uuid.UUID, quotationRef string) (*jobcost.JobCost, error) {
	var jc jobcost.JobCost
	err := r.preloadAll(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND quotation_ref = ?", tenantID, shared.NormalizeReference(quotationRef)).
		First(&jc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "job cost not found")
		}
		return nil, err
	}
	return &jc, nil
}

func (r *GormJobCostRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]jobcost.JobCost, error) {
	var jobCosts []jobcost.JobCost
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	if err := r.preloadAll(query).Find(&jobCosts).Error; err != nil {
		return nil, err
	}
	return jobCosts, nil
}

func (r *GormJobCostRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&jobcost.JobCost{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save persists the ledger and its embedded collections in one transaction.
// Every collection is fully replaced so the stored rows mirror the aggregate.
func (r *GormJobCostRepository) Save(ctx context.Context, jc *jobcost.JobCost) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_cost_id = ?", jc.ID).Delete(&jobcost.InvoiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_cost_id = ?", jc.ID).Delete(&jobcost.POItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_cost_id = ?", jc.ID).Delete(&jobcost.Expense{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(jc).Error
	})
}

func (r *GormJobCostRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&jobcost.JobCost{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.ErrNotFound.Code, "job cost not found")
		}
		if err := tx.Where("job_cost_id = ?", id).Delete(&jobcost.InvoiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("job_cost_id = ?", id).Delete(&jobcost.POItem{}).Error; err != nil {
			return err
		}
		return tx.Where("job_cost_id = ?", id).Delete(&jobcost.Expense{}).Error
	})
}

func (r *GormJobCostRepository) preloadAll(query *gorm.DB) *gorm.DB {
	return query.Preload("InvoiceItems").Preload("POItems").Preload("Expenses")
}

func (r *GormJobCostRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	filter.Normalize()
	sortField := ValidateSortField(filter.OrderBy, JobCostSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}

func (r *GormJobCostRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR quotation_ref ILIKE ? OR project_name ILIKE ? OR customer_name ILIKE ?",
			pattern, pattern, pattern, pattern)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	return query
}

var _ jobcost.Repository = (*GormJobCostRepository)(nil)
