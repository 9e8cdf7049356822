package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Normalize(t *testing.T) {
	t.Run("clamps invalid page and size", func(t *testing.T) {
		f := Filter{Page: -3, PageSize: 0}
		f.Normalize()
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, 20, f.PageSize)
	})

	t.Run("caps oversized page size", func(t *testing.T) {
		f := Filter{Page: 2, PageSize: 5000}
		f.Normalize()
		assert.Equal(t, 200, f.PageSize)
	})

	t.Run("keeps valid values", func(t *testing.T) {
		f := Filter{Page: 4, PageSize: 50}
		f.Normalize()
		assert.Equal(t, 4, f.Page)
		assert.Equal(t, 50, f.PageSize)
	})
}

func TestFilter_Offset(t *testing.T) {
	assert.Equal(t, 0, Filter{Page: 1, PageSize: 20}.Offset())
	assert.Equal(t, 40, Filter{Page: 3, PageSize: 20}.Offset())
}

func TestNewPaginated(t *testing.T) {
	t.Run("has more when later pages exist", func(t *testing.T) {
		p := NewPaginated([]int{1, 2, 3}, 10, 1, 3)
		assert.True(t, p.HasMore)
		assert.Equal(t, int64(10), p.Total)
	})

	t.Run("no more on final page", func(t *testing.T) {
		p := NewPaginated([]int{1}, 7, 3, 3)
		assert.False(t, p.HasMore)
	})

	t.Run("empty result", func(t *testing.T) {
		p := NewPaginated([]int{}, 0, 1, 20)
		assert.False(t, p.HasMore)
		assert.Empty(t, p.Items)
	})
}

func TestDateRange_IsCurrentPeriod(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("open-ended range is current", func(t *testing.T) {
		assert.True(t, DateRange{}.IsCurrentPeriod(now))
	})

	t.Run("range ending in the future is current", func(t *testing.T) {
		to := now.Add(48 * time.Hour)
		assert.True(t, DateRange{To: &to}.IsCurrentPeriod(now))
	})

	t.Run("range ending within the last day is current", func(t *testing.T) {
		to := now.Add(-2 * time.Hour)
		assert.True(t, DateRange{To: &to}.IsCurrentPeriod(now))
	})

	t.Run("fully past range is not current", func(t *testing.T) {
		to := now.Add(-72 * time.Hour)
		assert.False(t, DateRange{To: &to}.IsCurrentPeriod(now))
	})
}
