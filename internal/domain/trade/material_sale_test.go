package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaterialSale(t *testing.T) {
	t.Run("creates pending sale", func(t *testing.T) {
		sale, err := NewMaterialSale(uuid.New(), "MS-001", "Walk-in")

		require.NoError(t, err)
		assert.Equal(t, MaterialSaleStatusPending, sale.Status)
		assert.Nil(t, sale.PaidAt)
	})

	t.Run("rejects missing invoice number", func(t *testing.T) {
		_, err := NewMaterialSale(uuid.New(), "", "Walk-in")
		assert.Error(t, err)
	})
}

func TestMaterialSale_AddItem(t *testing.T) {
	sale, _ := NewMaterialSale(uuid.New(), "MS-001", "Walk-in")

	_, err := sale.AddItem("Copper pipe", "m", decimal.NewFromInt(5), decimal.NewFromInt(12), decimal.NewFromInt(8))
	require.NoError(t, err)

	assert.Len(t, sale.Items, 1)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(60)))
}

func TestMaterialSale_Profit(t *testing.T) {
	sale, _ := NewMaterialSale(uuid.New(), "MS-001", "Walk-in")
	_, _ = sale.AddItem("Costed", "pc", decimal.NewFromInt(10), decimal.NewFromInt(5), decimal.NewFromInt(3))
	_, _ = sale.AddItem("Uncosted", "pc", decimal.NewFromInt(4), decimal.NewFromInt(7), decimal.Zero)

	// only the costed line contributes: (5-3)*10 = 20
	assert.True(t, sale.Profit().Equal(decimal.NewFromInt(20)))
}

func TestMaterialSale_Status(t *testing.T) {
	t.Run("mark paid records timestamp", func(t *testing.T) {
		sale, _ := NewMaterialSale(uuid.New(), "MS-001", "Walk-in")

		require.NoError(t, sale.MarkPaid())

		assert.Equal(t, MaterialSaleStatusPaid, sale.Status)
		assert.NotNil(t, sale.PaidAt)
	})

	t.Run("paying twice fails", func(t *testing.T) {
		sale, _ := NewMaterialSale(uuid.New(), "MS-001", "Walk-in")
		require.NoError(t, sale.MarkPaid())

		assert.Error(t, sale.MarkPaid())
	})

	t.Run("cannot reopen a paid sale", func(t *testing.T) {
		sale, _ := NewMaterialSale(uuid.New(), "MS-001", "Walk-in")
		require.NoError(t, sale.MarkPaid())

		assert.Error(t, sale.ChangeStatus(MaterialSaleStatusPending))
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		sale, _ := NewMaterialSale(uuid.New(), "MS-001", "Walk-in")

		assert.Error(t, sale.ChangeStatus(MaterialSaleStatus("REFUNDED")))
	})
}
