package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldledger/backend/internal/domain/shared"
)

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates draft order", func(t *testing.T) {
		tenantID := uuid.New()

		order, err := NewPurchaseOrder(tenantID, "PO-001", "Acme Supplies")

		require.NoError(t, err)
		assert.Equal(t, tenantID, order.TenantID)
		assert.Equal(t, PurchaseOrderStatusDraft, order.Status)
		assert.True(t, order.TotalAmount.IsZero())
		assert.Empty(t, order.Items)
	})

	t.Run("rejects missing order number", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "", "Acme Supplies")
		assert.Error(t, err)
	})

	t.Run("rejects missing supplier name", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "PO-001", "")
		assert.Error(t, err)
	})
}

func TestPurchaseOrder_SetLinkedQuotation(t *testing.T) {
	order, err := NewPurchaseOrder(uuid.New(), "PO-001", "Acme Supplies")
	require.NoError(t, err)

	assert.False(t, order.HasLinkedQuotation())

	order.SetLinkedQuotation("  INV-042 ")

	assert.True(t, order.HasLinkedQuotation())
	assert.Equal(t, "inv-042", order.LinkedQuotation)
}

func TestPurchaseOrder_AddItem(t *testing.T) {
	t.Run("adds item and recalculates total", func(t *testing.T) {
		order, _ := NewPurchaseOrder(uuid.New(), "PO-001", "Acme Supplies")

		_, err := order.AddItem("Conduit", "m", decimal.NewFromInt(100), decimal.NewFromInt(2))
		require.NoError(t, err)
		_, err = order.AddItem("Clips", "pc", decimal.NewFromInt(50), decimal.NewFromInt(1))
		require.NoError(t, err)

		assert.Equal(t, 2, order.ItemCount())
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(250)))
	})

	t.Run("refuses items once ordered", func(t *testing.T) {
		order, _ := NewPurchaseOrder(uuid.New(), "PO-001", "Acme Supplies")
		require.NoError(t, order.ChangeStatus(PurchaseOrderStatusOrdered))

		_, err := order.AddItem("Conduit", "m", decimal.NewFromInt(100), decimal.NewFromInt(2))

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
	})
}

func TestPurchaseOrder_ChangeStatus(t *testing.T) {
	t.Run("walks the full lifecycle", func(t *testing.T) {
		order, _ := NewPurchaseOrder(uuid.New(), "PO-001", "Acme Supplies")

		require.NoError(t, order.ChangeStatus(PurchaseOrderStatusOrdered))
		assert.NotNil(t, order.OrderedAt)
		require.NoError(t, order.ChangeStatus(PurchaseOrderStatusDelivered))
		assert.NotNil(t, order.DeliveredAt)
		require.NoError(t, order.ChangeStatus(PurchaseOrderStatusPaid))
		assert.NotNil(t, order.PaidAt)
	})

	t.Run("rejects skipping states", func(t *testing.T) {
		order, _ := NewPurchaseOrder(uuid.New(), "PO-001", "Acme Supplies")

		err := order.ChangeStatus(PurchaseOrderStatusPaid)

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
	})

	t.Run("paid is terminal", func(t *testing.T) {
		order, _ := NewPurchaseOrder(uuid.New(), "PO-001", "Acme Supplies")
		require.NoError(t, order.ChangeStatus(PurchaseOrderStatusOrdered))
		require.NoError(t, order.ChangeStatus(PurchaseOrderStatusDelivered))
		require.NoError(t, order.ChangeStatus(PurchaseOrderStatusPaid))

		assert.Error(t, order.ChangeStatus(PurchaseOrderStatusCancelled))
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		order, _ := NewPurchaseOrder(uuid.New(), "PO-001", "Acme Supplies")
		require.NoError(t, order.ChangeStatus(PurchaseOrderStatusCancelled))

		assert.Error(t, order.ChangeStatus(PurchaseOrderStatusOrdered))
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		order, _ := NewPurchaseOrder(uuid.New(), "PO-001", "Acme Supplies")

		err := order.ChangeStatus(PurchaseOrderStatus("SHIPPED"))

		var ve *shared.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestPurchaseOrder_ReplaceImage(t *testing.T) {
	order, _ := NewPurchaseOrder(uuid.New(), "PO-001", "Acme Supplies")

	first := shared.StoredFile{GeneratedID: "a", RelativePath: "t/a-receipt.jpg", OriginalName: "receipt.jpg"}
	old := order.ReplaceImage(first)
	assert.True(t, old.IsZero())

	second := shared.StoredFile{GeneratedID: "b", RelativePath: "t/b-receipt2.jpg", OriginalName: "receipt2.jpg"}
	old = order.ReplaceImage(second)
	assert.Equal(t, first, old)
	assert.Equal(t, second, order.Image)
}
