package jobcost

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestNewJobCost(t *testing.T) {
	t.Run("creates valid job cost", func(t *testing.T) {
		tenantID := uuid.New()

		jc, err := NewJobCost(tenantID, "JC-001", "INV-042", "Office fit-out")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, jc.ID)
		assert.Equal(t, tenantID, jc.TenantID)
		assert.Equal(t, "JC-001", jc.Number)
		assert.Equal(t, "Office fit-out", jc.ProjectName)
		assert.True(t, jc.TotalRevenue.IsZero())
		assert.True(t, jc.NetProfit.IsZero())
	})

	t.Run("normalizes the quotation reference", func(t *testing.T) {
		jc, err := NewJobCost(uuid.New(), "JC-001", "  INV-042 ", "")

		require.NoError(t, err)
		assert.Equal(t, "inv-042", jc.QuotationRef)
	})

	t.Run("rejects empty number", func(t *testing.T) {
		_, err := NewJobCost(uuid.New(), "", "INV-042", "")
		assert.Error(t, err)
	})

	t.Run("rejects empty quotation reference", func(t *testing.T) {
		_, err := NewJobCost(uuid.New(), "JC-001", "", "")
		assert.Error(t, err)
	})
}

func TestJobCost_AddInvoiceItem(t *testing.T) {
	jc, err := NewJobCost(uuid.New(), "JC-001", "INV-042", "")
	require.NoError(t, err)

	t.Run("appends and recalculates", func(t *testing.T) {
		_, err := jc.AddInvoiceItem("Cable tray", dec("10"), dec("25"), dec("18"))

		require.NoError(t, err)
		assert.Len(t, jc.InvoiceItems, 1)
		assert.True(t, jc.TotalRevenue.Equal(dec("250")))
		assert.True(t, jc.MaterialCost.Equal(dec("180")))
		assert.True(t, jc.NetProfit.Equal(dec("70")))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := jc.AddInvoiceItem("Cable tray", decimal.Zero, dec("25"), dec("18"))
		assert.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := jc.AddInvoiceItem("", dec("1"), dec("25"), dec("18"))
		assert.Error(t, err)
	})
}

func TestJobCost_Recalculate(t *testing.T) {
	t.Run("uncosted regular line contributes revenue but no profit", func(t *testing.T) {
		jc, _ := NewJobCost(uuid.New(), "JC-001", "INV-042", "")
		_, err := jc.AddInvoiceItem("Labour", dec("8"), dec("50"), decimal.Zero)
		require.NoError(t, err)

		assert.True(t, jc.TotalRevenue.Equal(dec("400")))
		assert.True(t, jc.MaterialCost.IsZero())
		assert.True(t, jc.NetProfit.IsZero())
	})

	t.Run("deduction line contributes even without cost", func(t *testing.T) {
		jc, _ := NewJobCost(uuid.New(), "JC-001", "INV-042", "")
		_, err := jc.AddInvoiceItem("Discount", dec("1"), dec("-100"), decimal.Zero)
		require.NoError(t, err)

		assert.True(t, jc.TotalRevenue.Equal(dec("-100")))
		assert.True(t, jc.NetProfit.Equal(dec("-100")))
	})

	t.Run("deduction line with positive cost uses it", func(t *testing.T) {
		jc, _ := NewJobCost(uuid.New(), "JC-001", "INV-042", "")
		_, err := jc.AddInvoiceItem("Returned goods", dec("2"), dec("-50"), dec("10"))
		require.NoError(t, err)

		// (-50 - 10) * 2 = -120 profit, material cost 20
		assert.True(t, jc.MaterialCost.Equal(dec("20")))
		assert.True(t, jc.NetProfit.Equal(dec("-120")))
	})

	t.Run("expenses are subtracted from profit", func(t *testing.T) {
		jc, _ := NewJobCost(uuid.New(), "JC-001", "INV-042", "")
		_, err := jc.AddInvoiceItem("Cable tray", dec("10"), dec("25"), dec("18"))
		require.NoError(t, err)
		_, err = jc.AddExpense("Crane hire", dec("30"))
		require.NoError(t, err)

		assert.True(t, jc.OtherExpenses.Equal(dec("30")))
		assert.True(t, jc.NetProfit.Equal(dec("40")))
	})

	t.Run("mixed lines", func(t *testing.T) {
		jc, _ := NewJobCost(uuid.New(), "JC-001", "INV-042", "")
		_, _ = jc.AddInvoiceItem("Costed", dec("4"), dec("100"), dec("60"))
		_, _ = jc.AddInvoiceItem("Uncosted", dec("2"), dec("80"), decimal.Zero)
		_, _ = jc.AddInvoiceItem("Discount", dec("1"), dec("-40"), decimal.Zero)
		_, _ = jc.AddExpense("Transport", dec("25"))

		// revenue: 400 + 160 - 40 = 520
		assert.True(t, jc.TotalRevenue.Equal(dec("520")), "revenue %s", jc.TotalRevenue)
		// material cost: only the costed line, 240
		assert.True(t, jc.MaterialCost.Equal(dec("240")))
		// profit: 160 (costed) + 0 (uncosted) - 40 (deduction) - 25 (expense) = 95
		assert.True(t, jc.NetProfit.Equal(dec("95")), "profit %s", jc.NetProfit)
	})
}

func TestJobCost_ReplacePOItems(t *testing.T) {
	newItem := func(order, name, qty, price string) POItem {
		return POItem{
			OrderNumber: order,
			Name:        name,
			Quantity:    dec(qty),
			UnitPrice:   dec(price),
			OrderDate:   time.Now(),
		}
	}

	t.Run("repeated replace converges", func(t *testing.T) {
		jc, _ := NewJobCost(uuid.New(), "JC-001", "INV-042", "")

		jc.ReplacePOItems("PO-001", []POItem{newItem("PO-001", "Conduit", "100", "2")})
		jc.ReplacePOItems("PO-001", []POItem{newItem("PO-001", "Conduit", "100", "2")})

		assert.Len(t, jc.POItems, 1)
	})

	t.Run("replace does not disturb other orders", func(t *testing.T) {
		jc, _ := NewJobCost(uuid.New(), "JC-001", "INV-042", "")

		jc.ReplacePOItems("PO-001", []POItem{newItem("PO-001", "Conduit", "100", "2")})
		jc.ReplacePOItems("PO-002", []POItem{newItem("PO-002", "Junction box", "20", "5")})
		jc.ReplacePOItems("PO-001", []POItem{
			newItem("PO-001", "Conduit", "120", "2"),
			newItem("PO-001", "Clips", "200", "0.1"),
		})

		assert.Len(t, jc.POItems, 3)
		assert.Len(t, jc.POItemsFor("PO-001"), 2)
		assert.Len(t, jc.POItemsFor("PO-002"), 1)
	})

	t.Run("empty replace removes the order's items", func(t *testing.T) {
		jc, _ := NewJobCost(uuid.New(), "JC-001", "INV-042", "")

		jc.ReplacePOItems("PO-001", []POItem{newItem("PO-001", "Conduit", "100", "2")})
		jc.ReplacePOItems("PO-001", nil)

		assert.Empty(t, jc.POItemsFor("PO-001"))
	})

	t.Run("assigns ownership and identifiers", func(t *testing.T) {
		jc, _ := NewJobCost(uuid.New(), "JC-001", "INV-042", "")

		jc.ReplacePOItems("PO-001", []POItem{newItem("PO-001", "Conduit", "100", "2")})

		require.Len(t, jc.POItems, 1)
		assert.Equal(t, jc.ID, jc.POItems[0].JobCostID)
		assert.NotEqual(t, uuid.Nil, jc.POItems[0].ID)
	})
}

func TestJobCost_ApplyCostPrices(t *testing.T) {
	t.Run("matches names case-insensitively", func(t *testing.T) {
		jc, _ := NewJobCost(uuid.New(), "JC-001", "INV-042", "")
		_, _ = jc.AddInvoiceItem("Cable Tray", dec("10"), dec("25"), decimal.Zero)

		applied := jc.ApplyCostPrices(map[string]decimal.Decimal{"cable tray": dec("18")})

		assert.Equal(t, 1, applied)
		assert.True(t, jc.InvoiceItems[0].CostPrice.Equal(dec("18")))
		assert.True(t, jc.NetProfit.Equal(dec("70")))
	})

	t.Run("unmatched names leave costs untouched", func(t *testing.T) {
		jc, _ := NewJobCost(uuid.New(), "JC-001", "INV-042", "")
		_, _ = jc.AddInvoiceItem("Cable Tray", dec("10"), dec("25"), decimal.Zero)

		applied := jc.ApplyCostPrices(map[string]decimal.Decimal{"conduit": dec("2")})

		assert.Equal(t, 0, applied)
		assert.True(t, jc.InvoiceItems[0].CostPrice.IsZero())
	})
}
