package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fieldledger/backend/internal/domain/reporting"
	"github.com/fieldledger/backend/internal/domain/shared"
)

// GormStatsRepository implements reporting.Repository with direct aggregate
// queries over the live tables. Results are cached by the dashboard service,
// not here.
type GormStatsRepository struct {
	db *gorm.DB
}

// NewGormStatsRepository creates a new GORM stats repository
func NewGormStatsRepository(db *gorm.DB) *GormStatsRepository {
	return &GormStatsRepository{db: db}
}

type moneyRow struct {
	Total decimal.Decimal
	Paid  decimal.Decimal
}

func (r *GormStatsRepository) Stats(ctx context.Context, tenantID uuid.UUID, rng shared.DateRange) (*reporting.TenantStats, error) {
	stats := &reporting.TenantStats{
		InvoicedTotal:     decimal.Zero,
		PaidTotal:         decimal.Zero,
		OutstandingTotal:  decimal.Zero,
		PurchaseTotal:     decimal.Zero,
		MaterialSaleTotal: decimal.Zero,
		SiteVisitTotal:    decimal.Zero,
		NetProfit:         decimal.Zero,
	}

	var invoiced moneyRow
	query := r.rangeScope(ctx, "invoices", "issue_date", tenantID, rng).
		Select("COALESCE(SUM(total_amount), 0) AS total, COALESCE(SUM(amount_paid), 0) AS paid").
		Where("kind = ?", "INVOICE")
	if err := query.Scan(&invoiced).Error; err != nil {
		return nil, err
	}
	stats.InvoicedTotal = invoiced.Total
	stats.PaidTotal = invoiced.Paid
	stats.OutstandingTotal = invoiced.Total.Sub(invoiced.Paid)
	if stats.OutstandingTotal.IsNegative() {
		stats.OutstandingTotal = decimal.Zero
	}

	var purchases decimal.Decimal
	query = r.rangeScope(ctx, "purchase_orders", "order_date", tenantID, rng).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status <> ?", "CANCELLED")
	if err := query.Scan(&purchases).Error; err != nil {
		return nil, err
	}
	stats.PurchaseTotal = purchases

	var sales decimal.Decimal
	query = r.rangeScope(ctx, "material_sales", "sale_date", tenantID, rng).
		Select("COALESCE(SUM(total_amount), 0)")
	if err := query.Scan(&sales).Error; err != nil {
		return nil, err
	}
	stats.MaterialSaleTotal = sales

	var visits decimal.Decimal
	query = r.rangeScope(ctx, "site_visits", "visit_date", tenantID, rng).
		Select("COALESCE(SUM(amount), 0)")
	if err := query.Scan(&visits).Error; err != nil {
		return nil, err
	}
	stats.SiteVisitTotal = visits

	var profit decimal.Decimal
	query = r.rangeScope(ctx, "job_costs", "created_at", tenantID, rng).
		Select("COALESCE(SUM(net_profit), 0)")
	if err := query.Scan(&profit).Error; err != nil {
		return nil, err
	}
	stats.NetProfit = profit

	return stats, nil
}

func (r *GormStatsRepository) GroupedByCustomer(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]reporting.CustomerTotals, error) {
	filter.Normalize()

	rows := make([]reporting.CustomerTotals, 0)
	query := r.db.WithContext(ctx).
		Table("invoices").
		Select("customer_name, COUNT(*) AS document_count, COALESCE(SUM(total_amount), 0) AS invoiced_total, COALESCE(SUM(amount_paid), 0) AS paid_total").
		Where("tenant_id = ?", tenantID).
		Where("kind = ?", "INVOICE")
	if filter.From != nil {
		query = query.Where("issue_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("issue_date <= ?", *filter.To)
	}
	err := query.
		Group("customer_name").
		Order("invoiced_total DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormStatsRepository) rangeScope(ctx context.Context, table, dateColumn string, tenantID uuid.UUID, rng shared.DateRange) *gorm.DB {
	query := r.db.WithContext(ctx).Table(table).Where("tenant_id = ?", tenantID)
	if rng.From != nil {
		query = query.Where(dateColumn+" >= ?", *rng.From)
	}
	if rng.To != nil {
		query = query.Where(dateColumn+" <= ?", *rng.To)
	}
	return query
}

var _ reporting.Repository = (*GormStatsRepository)(nil)
