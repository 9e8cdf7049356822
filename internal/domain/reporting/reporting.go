package reporting

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fieldledger/backend/internal/domain/shared"
)

// TenantStats aggregates the money figures shown on the dashboard for one
// tenant over a date range. Cached reads set Cached so callers can observe
// hit rates.
type TenantStats struct {
	InvoicedTotal     decimal.Decimal `json:"invoiced_total"`
	PaidTotal         decimal.Decimal `json:"paid_total"`
	OutstandingTotal  decimal.Decimal `json:"outstanding_total"`
	PurchaseTotal     decimal.Decimal `json:"purchase_total"`
	MaterialSaleTotal decimal.Decimal `json:"material_sale_total"`
	SiteVisitTotal    decimal.Decimal `json:"site_visit_total"`
	NetProfit         decimal.Decimal `json:"net_profit"`
	Cached            bool            `json:"cached"`
}

// CustomerTotals is one row of the grouped-by-customer aggregate view
type CustomerTotals struct {
	CustomerName  string          `json:"customer_name"`
	DocumentCount int64           `json:"document_count"`
	InvoicedTotal decimal.Decimal `json:"invoiced_total"`
	PaidTotal     decimal.Decimal `json:"paid_total"`
}

// Repository serves aggregate reads. Implementations query the live tables;
// caching happens above this interface.
type Repository interface {
	Stats(ctx context.Context, tenantID uuid.UUID, rng shared.DateRange) (*TenantStats, error)
	GroupedByCustomer(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CustomerTotals, error)
}
