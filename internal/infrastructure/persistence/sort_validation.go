package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields to prevent SQL injection through order-by clauses. Returns the
// defaultField if the input is empty or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// PurchaseOrderSortFields contains allowed sort fields for purchase orders
var PurchaseOrderSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"order_number":  true,
	"supplier_name": true,
	"order_date":    true,
	"total_amount":  true,
	"status":        true,
}

// InvoiceSortFields contains allowed sort fields for quotations/invoices
var InvoiceSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"customer_name": true,
	"issue_date":    true,
	"total_amount":  true,
	"status":        true,
}

// MaterialSaleSortFields contains allowed sort fields for material sales
var MaterialSaleSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"invoice_number": true,
	"customer_name":  true,
	"sale_date":      true,
	"total_amount":   true,
	"status":         true,
}

// JobCostSortFields contains allowed sort fields for job costs
var JobCostSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"quotation_ref": true,
	"project_name":  true,
	"total_revenue": true,
	"net_profit":    true,
}

// SiteVisitSortFields contains allowed sort fields for site visits
var SiteVisitSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"number":        true,
	"customer_name": true,
	"visit_date":    true,
	"amount":        true,
	"status":        true,
}

// PartnerSortFields contains allowed sort fields for suppliers/customers/categories
var PartnerSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
}
