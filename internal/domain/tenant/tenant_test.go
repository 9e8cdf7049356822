package tenant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldledger/backend/internal/domain/shared"
)

func TestNewTenant(t *testing.T) {
	t.Run("creates active tenant with default padding", func(t *testing.T) {
		tn, err := NewTenant("Acme Builders Ltd")
		require.NoError(t, err)
		assert.Equal(t, "Acme Builders Ltd", tn.Name)
		assert.Equal(t, shared.DefaultNumberPadding, tn.NumberPadding)
		assert.True(t, tn.Active)
		assert.NotEqual(t, uuid.Nil, tn.ID)
	})

	t.Run("requires name", func(t *testing.T) {
		_, err := NewTenant("")
		var ve *shared.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestTenant_SetNumberPadding(t *testing.T) {
	tn, err := NewTenant("Acme Builders Ltd")
	require.NoError(t, err)

	t.Run("accepts in-range padding", func(t *testing.T) {
		require.NoError(t, tn.SetNumberPadding(5))
		assert.Equal(t, 5, tn.NumberPadding)
		require.NoError(t, tn.SetNumberPadding(1))
		require.NoError(t, tn.SetNumberPadding(10))
		assert.Equal(t, 10, tn.NumberPadding)
	})

	t.Run("rejects out-of-range padding", func(t *testing.T) {
		assert.Error(t, tn.SetNumberPadding(0))
		assert.Error(t, tn.SetNumberPadding(11))
		assert.Equal(t, 10, tn.NumberPadding)
	})
}

func TestDashboardCounters(t *testing.T) {
	counters := DashboardCounters()
	assert.Len(t, counters, 7)
	assert.Contains(t, counters, CountInvoices)
	assert.Contains(t, counters, CountPurchaseOrders)
	assert.Contains(t, counters, CountMaterialSales)
	assert.Contains(t, counters, CountJobCosts)
	assert.Contains(t, counters, CountSiteVisits)
	assert.Contains(t, counters, CountSuppliers)
	assert.Contains(t, counters, CountCustomers)
}
