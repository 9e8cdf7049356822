package field

import (
	"fmt"
	"time"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SiteVisitStatus represents the lifecycle status of a site visit
type SiteVisitStatus string

const (
	SiteVisitStatusPending   SiteVisitStatus = "PENDING"
	SiteVisitStatusInvoiced  SiteVisitStatus = "INVOICED"
	SiteVisitStatusPaid      SiteVisitStatus = "PAID"
	SiteVisitStatusConverted SiteVisitStatus = "CONVERTED"
)

// IsValid checks if the status is a recognized SiteVisitStatus
func (s SiteVisitStatus) IsValid() bool {
	switch s {
	case SiteVisitStatusPending, SiteVisitStatusInvoiced, SiteVisitStatusPaid, SiteVisitStatusConverted:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s SiteVisitStatus) CanTransitionTo(target SiteVisitStatus) bool {
	switch s {
	case SiteVisitStatusPending:
		return target == SiteVisitStatusInvoiced || target == SiteVisitStatusConverted
	case SiteVisitStatusInvoiced:
		return target == SiteVisitStatusPaid || target == SiteVisitStatusConverted
	case SiteVisitStatusPaid:
		return target == SiteVisitStatusConverted
	case SiteVisitStatusConverted:
		return false
	}
	return false
}

// SiteVisit represents a chargeable visit to a customer site
type SiteVisit struct {
	shared.TenantEntity
	Number       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_site_visit_tenant_number,priority:2"`
	CustomerID   *uuid.UUID      `gorm:"type:uuid;index"`
	CustomerName string          `gorm:"type:varchar(200)"`
	VisitDate    time.Time       `gorm:"not null"`
	Description  string          `gorm:"type:text"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status       SiteVisitStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
}

// TableName returns the table name for GORM
func (SiteVisit) TableName() string {
	return "site_visits"
}

// NewSiteVisit creates a new pending site visit
func NewSiteVisit(tenantID uuid.UUID, number, customerName string, visitDate time.Time) (*SiteVisit, error) {
	if number == "" {
		return nil, shared.NewValidationError("number", "visit number is required")
	}
	if visitDate.IsZero() {
		visitDate = time.Now()
	}
	return &SiteVisit{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Number:       number,
		CustomerName: customerName,
		VisitDate:    visitDate,
		Amount:       decimal.Zero,
		Status:       SiteVisitStatusPending,
	}, nil
}

// SetAmount sets the chargeable amount for the visit
func (v *SiteVisit) SetAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewValidationError("amount", "amount cannot be negative")
	}
	v.Amount = amount
	v.Touch()
	return nil
}

// ChangeStatus transitions the visit to the target status, validated against
// the allow-list. An unrecognized status string is a client error.
func (v *SiteVisit) ChangeStatus(target SiteVisitStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("status", fmt.Sprintf("unknown status %q", target))
	}
	if !v.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition site visit from %s to %s", v.Status, target))
	}
	v.Status = target
	v.Touch()
	return nil
}
