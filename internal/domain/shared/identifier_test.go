package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDocumentNumber(t *testing.T) {
	t.Run("zero-pads to the configured width", func(t *testing.T) {
		assert.Equal(t, "INV-007", FormatDocumentNumber("INV-", 7, 3))
		assert.Equal(t, "SV-00042", FormatDocumentNumber("SV-", 42, 5))
	})

	t.Run("value wider than padding is not truncated", func(t *testing.T) {
		assert.Equal(t, "INV-1234", FormatDocumentNumber("INV-", 1234, 3))
	})

	t.Run("clamps padding to bounds", func(t *testing.T) {
		assert.Equal(t, "PO-7", FormatDocumentNumber("PO-", 7, 0))
		assert.Equal(t, "PO-0000000007", FormatDocumentNumber("PO-", 7, 25))
	})
}

func TestNormalizeReference(t *testing.T) {
	assert.Equal(t, "inv-042", NormalizeReference("  INV-042 "))
	assert.Equal(t, "inv-042", NormalizeReference("inv-042"))
	assert.Equal(t, "", NormalizeReference("   "))
}

func TestNormalizeItemName(t *testing.T) {
	assert.Equal(t, "copper pipe 15mm", NormalizeItemName(" Copper Pipe 15mm  "))
	assert.Equal(t, NormalizeItemName("CEMENT BAG"), NormalizeItemName("cement bag"))
}
