package shared

import (
	"fmt"
	"strings"
)

// Number padding bounds for tenant-configurable identifier widths
const (
	MinNumberPadding     = 1
	MaxNumberPadding     = 10
	DefaultNumberPadding = 3
)

// FormatDocumentNumber builds a human-readable identifier from a prefix and an
// allocated sequence value, zero-padding the value to the given width.
// A value wider than the padding is rendered in full rather than truncated.
func FormatDocumentNumber(prefix string, value int64, padding int) string {
	if padding < MinNumberPadding {
		padding = MinNumberPadding
	}
	if padding > MaxNumberPadding {
		padding = MaxNumberPadding
	}
	return fmt.Sprintf("%s%0*d", prefix, padding, value)
}

// NormalizeReference canonicalizes a loose document reference (such as the
// quotation number linking a purchase order to a job cost) for matching:
// trimmed and lower-cased. References are matched, never joined, so the two
// sides may be written in either order.
func NormalizeReference(ref string) string {
	return strings.ToLower(strings.TrimSpace(ref))
}

// NormalizeItemName canonicalizes a line-item name for the case-insensitive
// matching used by cost back-propagation.
func NormalizeItemName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
