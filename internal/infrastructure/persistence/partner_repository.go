package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fieldledger/backend/internal/domain/partner"
	"github.com/fieldledger/backend/internal/domain/shared"
)

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GORM supplier repository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

func (r *GormSupplierRepository) Create(ctx context.Context, s *partner.Supplier) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if IsUniqueViolation(err) {
		return shared.NewDomainError(shared.ErrDuplicateIdentifier.Code, "a supplier with this name already exists")
	}
	return err
}

func (r *GormSupplierRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	var s partner.Supplier
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "supplier not found")
		}
		return nil, err
	}
	return &s, nil
}

func (r *GormSupplierRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, error) {
	var suppliers []partner.Supplier
	query := applyPartnerFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *GormSupplierRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := applyPartnerSearch(
		r.db.WithContext(ctx).Model(&partner.Supplier{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSupplierRepository) Save(ctx context.Context, s *partner.Supplier) error {
	err := r.db.WithContext(ctx).Save(s).Error
	if IsUniqueViolation(err) {
		return shared.NewDomainError(shared.ErrDuplicateIdentifier.Code, "a supplier with this name already exists")
	}
	return err
}

func (r *GormSupplierRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&partner.Supplier{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrNotFound.Code, "supplier not found")
	}
	return nil
}

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GORM customer repository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) Create(ctx context.Context, c *partner.Customer) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if IsUniqueViolation(err) {
		return shared.NewDomainError(shared.ErrDuplicateIdentifier.Code, "a customer with this name already exists")
	}
	return err
}

func (r *GormCustomerRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	var c partner.Customer
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "customer not found")
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormCustomerRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Customer, error) {
	var customers []partner.Customer
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if categoryID, ok := filter.Filters["category_id"]; ok {
		query = query.Where("category_id = ?", categoryID)
	}
	query = applyPartnerFilter(query, filter)
	if err := query.Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *GormCustomerRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&partner.Customer{}).Where("tenant_id = ?", tenantID)
	if categoryID, ok := filter.Filters["category_id"]; ok {
		query = query.Where("category_id = ?", categoryID)
	}
	query = applyPartnerSearch(query, filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCustomerRepository) Save(ctx context.Context, c *partner.Customer) error {
	err := r.db.WithContext(ctx).Save(c).Error
	if IsUniqueViolation(err) {
		return shared.NewDomainError(shared.ErrDuplicateIdentifier.Code, "a customer with this name already exists")
	}
	return err
}

func (r *GormCustomerRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&partner.Customer{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrNotFound.Code, "customer not found")
	}
	return nil
}

// GormCategoryRepository implements partner.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GORM category repository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(ctx context.Context, c *partner.Category) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if IsUniqueViolation(err) {
		return shared.NewDomainError(shared.ErrDuplicateIdentifier.Code, "a category with this name already exists")
	}
	return err
}

func (r *GormCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Category, error) {
	var c partner.Category
	err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "category not found")
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormCategoryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Category, error) {
	var categories []partner.Category
	query := applyPartnerFilter(r.db.WithContext(ctx).Where("tenant_id = ?", tenantID), filter)
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *GormCategoryRepository) Save(ctx context.Context, c *partner.Category) error {
	err := r.db.WithContext(ctx).Save(c).Error
	if IsUniqueViolation(err) {
		return shared.NewDomainError(shared.ErrDuplicateIdentifier.Code, "a category with this name already exists")
	}
	return err
}

func (r *GormCategoryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&partner.Category{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewDomainError(shared.ErrNotFound.Code, "category not found")
	}
	return nil
}

func applyPartnerFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyPartnerSearch(query, filter)

	filter.Normalize()
	sortField := ValidateSortField(filter.OrderBy, PartnerSortFields, "name")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return query.Offset(filter.Offset()).Limit(filter.PageSize)
}

func applyPartnerSearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ?", pattern)
	}
	return query
}

var (
	_ partner.SupplierRepository = (*GormSupplierRepository)(nil)
	_ partner.CustomerRepository = (*GormCustomerRepository)(nil)
	_ partner.CategoryRepository = (*GormCategoryRepository)(nil)
)
