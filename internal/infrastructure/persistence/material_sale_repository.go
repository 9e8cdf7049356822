package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/trade"
)

// GormMaterialSaleRepository implements trade.MaterialSaleRepository using GORM
type GormMaterialSaleRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewGormMaterialSaleRepository creates a new GORM material sale repository
func NewGormMaterialSaleRepository(db *gorm.DB, log *zap.Logger) *GormMaterialSaleRepository {
	return &GormMaterialSaleRepository{db: db, log: log}
}

func (r *GormMaterialSaleRepository) Create(ctx context.Context, sale *trade.MaterialSale, generated bool, regenerate func(ctx context.Context) (string, error)) error {
	insert := func(ctx context.Context, number string) error {
		sale.InvoiceNumber = number
		return r.db.WithContext(ctx).Create(sale).Error
	}
	return createWithRetry(ctx, r.log, "material_sale", generated, regenerate, insert, sale.InvoiceNumber)
}

func (r *GormMaterialSaleRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.MaterialSale, error) {
	var sale trade.MaterialSale
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&sale).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "material sale not found")
		}
		return nil, err
	}
	return &sale, nil
}

func (r *GormMaterialSaleRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.MaterialSale, error) {
	var sales []trade.MaterialSale
	query := r.applyFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	if err := query.Preload("Items").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *GormMaterialSaleRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&trade.MaterialSale{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormMaterialSaleRepository) Save(ctx context.Context, sale *trade.MaterialSale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", sale.ID).Delete(&trade.MaterialSaleItem{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(sale).Error
	})
}

func (r *GormMaterialSaleRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&trade.MaterialSale{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError(shared.ErrNotFound.Code, "material sale not found")
		}
		return tx.Where("sale_id = ?", id).Delete(&trade.MaterialSaleItem{}).Error
	})
}

func (r *GormMaterialSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	filter.Normalize()
	sortField := ValidateSortField(filter.OrderBy, MaterialSaleSortFields, "sale_date")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}

func (r *GormMaterialSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("invoice_number ILIKE ? OR customer_name ILIKE ?", pattern, pattern)
	}
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if filter.From != nil {
		query = query.Where("sale_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("sale_date <= ?", *filter.To)
	}
	return query
}

var _ trade.MaterialSaleRepository = (*GormMaterialSaleRepository)(nil)
