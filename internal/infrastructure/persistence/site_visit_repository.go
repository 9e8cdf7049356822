package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fieldledger/backend/internal/domain/field"
	"github.com/fieldledger/backend/internal/domain/shared"
)

// GormSiteVisitRepository implements field.Repository using GORM
type GormSiteVisitRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewGormSiteVisitRepository creates a new GORM site visit repository
func NewGormSiteVisitRepository(db *gorm.DB, log *zap.Logger) *GormSiteVisitRepository {
	return &GormSiteVisitRepository{db: db, log: log}
}

func (r *GormSiteVisitRepository) Create(ctx context.Context, v *field.SiteVisit, generated bool, regenerate func(ctx context.Context) (string, error)) error {
	insert := func(ctx context.Context, number string) error {
		v.Number = number
		return r.db.WithContext(ctx).Create(v).Error
	}
	return createWithRetry(ctx, r.log, "site_visit", generated, regenerate, insert, v.Number)
}

func (r *GormSiteVisitRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*field.SiteVisit, error) {
	var visit field.SiteVisit
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&visit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "site visit not found")
		}
		return nil, err
	}
	return &visit, nil
}

func (r *GormSiteVisitRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]field.SiteVisit, error) {
	var visits []field.SiteVisit
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&visits).Error; err != nil {
		return nil, err
	}
	return visits, nil
}

func (r *GormSiteVisitRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&field.SiteVisit{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSiteVisitRepository) Save(ctx context.Context, v *field.SiteVisit) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *GormSiteVisitRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&field.SiteVisit{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrNotFound.Code, "site visit not found")
	}
	return nil
}

func (r *GormSiteVisitRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	filter.Normalize()
	sortField := ValidateSortField(filter.OrderBy, SiteVisitSortFields, "visit_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}

func (r *GormSiteVisitRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Where("visit_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("visit_date <= ?", *filter.To)
	}
	return query
}

var _ field.Repository = (*GormSiteVisitRepository)(nil)
