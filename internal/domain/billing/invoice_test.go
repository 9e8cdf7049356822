package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldledger/backend/internal/domain/shared"
)

func newTestQuotation(t *testing.T) *Invoice {
	t.Helper()
	inv, err := NewQuotation(uuid.New(), "INV-001", "Northwind")
	require.NoError(t, err)
	return inv
}

func TestNewQuotation(t *testing.T) {
	t.Run("creates draft quotation", func(t *testing.T) {
		inv := newTestQuotation(t)

		assert.Equal(t, KindQuotation, inv.Kind)
		assert.Equal(t, InvoiceStatusDraft, inv.Status)
		assert.True(t, inv.TotalAmount.IsZero())
	})

	t.Run("rejects missing number", func(t *testing.T) {
		_, err := NewQuotation(uuid.New(), "", "Northwind")
		assert.Error(t, err)
	})
}

func TestInvoice_ConvertToInvoice(t *testing.T) {
	t.Run("keeps the number and marks sent", func(t *testing.T) {
		inv := newTestQuotation(t)

		require.NoError(t, inv.ConvertToInvoice())

		assert.Equal(t, KindInvoice, inv.Kind)
		assert.Equal(t, "INV-001", inv.Number)
		assert.Equal(t, InvoiceStatusSent, inv.Status)
		assert.NotNil(t, inv.ConvertedAt)
	})

	t.Run("converting twice fails", func(t *testing.T) {
		inv := newTestQuotation(t)
		require.NoError(t, inv.ConvertToInvoice())

		err := inv.ConvertToInvoice()

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
	})
}

func TestInvoice_RecordPayment(t *testing.T) {
	newConverted := func(t *testing.T) *Invoice {
		inv := newTestQuotation(t)
		_, err := inv.AddItem("Install", "job", decimal.NewFromInt(1), decimal.NewFromInt(100))
		require.NoError(t, err)
		require.NoError(t, inv.ConvertToInvoice())
		return inv
	}

	t.Run("partial payment", func(t *testing.T) {
		inv := newConverted(t)

		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(40)))

		assert.Equal(t, InvoiceStatusPartial, inv.Status)
		assert.True(t, inv.AmountDue().Equal(decimal.NewFromInt(60)))
		assert.Nil(t, inv.PaidAt)
	})

	t.Run("full payment marks paid", func(t *testing.T) {
		inv := newConverted(t)

		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(40)))
		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(60)))

		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.AmountDue().IsZero())
		assert.NotNil(t, inv.PaidAt)
	})

	t.Run("overpayment floors the due amount at zero", func(t *testing.T) {
		inv := newConverted(t)

		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(150)))

		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.True(t, inv.AmountDue().IsZero())
	})

	t.Run("rejects payment on a quotation", func(t *testing.T) {
		inv := newTestQuotation(t)

		err := inv.RecordPayment(decimal.NewFromInt(10))

		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATE", de.Code)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		inv := newConverted(t)
		assert.Error(t, inv.RecordPayment(decimal.Zero))
		assert.Error(t, inv.RecordPayment(decimal.NewFromInt(-5)))
	})
}

func TestInvoice_ChangeStatus(t *testing.T) {
	t.Run("cannot reopen a paid invoice", func(t *testing.T) {
		inv := newTestQuotation(t)
		_, _ = inv.AddItem("Install", "job", decimal.NewFromInt(1), decimal.NewFromInt(100))
		require.NoError(t, inv.ConvertToInvoice())
		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(100)))

		assert.Error(t, inv.ChangeStatus(InvoiceStatusDraft))
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		inv := newTestQuotation(t)
		assert.Error(t, inv.ChangeStatus(InvoiceStatus("VOID")))
	})
}

func TestInvoice_Attachments(t *testing.T) {
	inv := newTestQuotation(t)
	file := shared.StoredFile{GeneratedID: "a", RelativePath: "t/a-plan.pdf", OriginalName: "plan.pdf"}

	att := inv.AddAttachment(file)
	require.NotNil(t, att)
	assert.Len(t, inv.Attachments, 1)

	removed, err := inv.RemoveAttachment(att.ID)
	require.NoError(t, err)
	assert.Equal(t, file, removed)
	assert.Empty(t, inv.Attachments)

	_, err = inv.RemoveAttachment(uuid.New())
	assert.Error(t, err)
}
