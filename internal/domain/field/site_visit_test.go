package field

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldledger/backend/internal/domain/shared"
)

func TestNewSiteVisit(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates pending visit", func(t *testing.T) {
		visitDate := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
		v, err := NewSiteVisit(tenantID, "SV-001", "Acme Builders", visitDate)
		require.NoError(t, err)

		assert.Equal(t, tenantID, v.TenantID)
		assert.Equal(t, "SV-001", v.Number)
		assert.Equal(t, "Acme Builders", v.CustomerName)
		assert.Equal(t, visitDate, v.VisitDate)
		assert.Equal(t, SiteVisitStatusPending, v.Status)
		assert.True(t, v.Amount.IsZero())
	})

	t.Run("defaults zero visit date to now", func(t *testing.T) {
		v, err := NewSiteVisit(tenantID, "SV-002", "Acme Builders", time.Time{})
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now(), v.VisitDate, time.Second)
	})

	t.Run("requires number", func(t *testing.T) {
		_, err := NewSiteVisit(tenantID, "", "Acme Builders", time.Now())
		assert.Error(t, err)
	})
}

func TestSiteVisit_SetAmount(t *testing.T) {
	v, err := NewSiteVisit(uuid.New(), "SV-001", "Acme Builders", time.Now())
	require.NoError(t, err)

	t.Run("sets non-negative amount", func(t *testing.T) {
		require.NoError(t, v.SetAmount(decimal.NewFromFloat(150.50)))
		assert.True(t, v.Amount.Equal(decimal.NewFromFloat(150.50)))
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		err := v.SetAmount(decimal.NewFromInt(-1))
		assert.Error(t, err)
		assert.True(t, v.Amount.Equal(decimal.NewFromFloat(150.50)))
	})
}

func TestSiteVisitStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to SiteVisitStatus
		allowed  bool
	}{
		{SiteVisitStatusPending, SiteVisitStatusInvoiced, true},
		{SiteVisitStatusPending, SiteVisitStatusConverted, true},
		{SiteVisitStatusPending, SiteVisitStatusPaid, false},
		{SiteVisitStatusInvoiced, SiteVisitStatusPaid, true},
		{SiteVisitStatusInvoiced, SiteVisitStatusConverted, true},
		{SiteVisitStatusInvoiced, SiteVisitStatusPending, false},
		{SiteVisitStatusPaid, SiteVisitStatusConverted, true},
		{SiteVisitStatusPaid, SiteVisitStatusPending, false},
		{SiteVisitStatusConverted, SiteVisitStatusPaid, false},
		{SiteVisitStatusConverted, SiteVisitStatusPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestSiteVisit_ChangeStatus(t *testing.T) {
	newVisit := func(t *testing.T) *SiteVisit {
		v, err := NewSiteVisit(uuid.New(), "SV-001", "Acme Builders", time.Now())
		require.NoError(t, err)
		return v
	}

	t.Run("walks pending to invoiced to paid to converted", func(t *testing.T) {
		v := newVisit(t)
		require.NoError(t, v.ChangeStatus(SiteVisitStatusInvoiced))
		require.NoError(t, v.ChangeStatus(SiteVisitStatusPaid))
		require.NoError(t, v.ChangeStatus(SiteVisitStatusConverted))
		assert.Equal(t, SiteVisitStatusConverted, v.Status)
	})

	t.Run("rejects skipping to paid", func(t *testing.T) {
		v := newVisit(t)
		err := v.ChangeStatus(SiteVisitStatusPaid)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
		assert.Equal(t, SiteVisitStatusPending, v.Status)
	})

	t.Run("converted is terminal", func(t *testing.T) {
		v := newVisit(t)
		require.NoError(t, v.ChangeStatus(SiteVisitStatusConverted))
		assert.Error(t, v.ChangeStatus(SiteVisitStatusInvoiced))
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		v := newVisit(t)
		err := v.ChangeStatus(SiteVisitStatus("BOGUS"))
		var ve *shared.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}
