package persistence

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCounterSync_Increment(t *testing.T) {
	db, mock := setupMockDB(t)
	sync := NewGormCounterSync(db, zap.NewNop())
	tenantID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tenant_counters")).
		WithArgs(tenantID, "invoices_count", int64(1), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := sync.Increment(context.Background(), tenantID, "invoices_count", 1)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCounterSync_IncrementRejectsNonPositiveDelta(t *testing.T) {
	db, _ := setupMockDB(t)
	sync := NewGormCounterSync(db, zap.NewNop())

	err := sync.Increment(context.Background(), uuid.New(), "invoices_count", 0)
	assert.Error(t, err)

	err = sync.Increment(context.Background(), uuid.New(), "invoices_count", -3)
	assert.Error(t, err)
}

func TestCounterSync_DecrementApplied(t *testing.T) {
	db, mock := setupMockDB(t)
	sync := NewGormCounterSync(db, zap.NewNop())
	tenantID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tenant_counters SET value = value - ?")).
		WithArgs(int64(1), tenantID, "invoices_count", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	clamped, err := sync.Decrement(context.Background(), tenantID, "invoices_count", 1)
	require.NoError(t, err)
	assert.False(t, clamped)
}

func TestCounterSync_DecrementClampsAtZero(t *testing.T) {
	db, mock := setupMockDB(t)
	sync := NewGormCounterSync(db, zap.NewNop())
	tenantID := uuid.New()

	// value < delta: the guarded update matches no row and the write is skipped
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tenant_counters SET value = value - ?")).
		WithArgs(int64(5), tenantID, "invoices_count", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	clamped, err := sync.Decrement(context.Background(), tenantID, "invoices_count", 5)
	require.NoError(t, err)
	assert.True(t, clamped)
}

func TestCounterSync_GetMissingCounterIsZero(t *testing.T) {
	db, mock := setupMockDB(t)
	sync := NewGormCounterSync(db, zap.NewNop())
	tenantID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tenant_counters"`)).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "name", "value"}))

	value, err := sync.Get(context.Background(), tenantID, "invoices_count")
	require.NoError(t, err)
	assert.Equal(t, int64(0), value)
}

func TestCounterSync_GetAll(t *testing.T) {
	db, mock := setupMockDB(t)
	sync := NewGormCounterSync(db, zap.NewNop())
	tenantID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tenant_counters"`)).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id", "name", "value"}).
			AddRow(tenantID, "invoices_count", int64(12)).
			AddRow(tenantID, "suppliers_count", int64(3)))

	counters, err := sync.GetAll(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"invoices_count": 12, "suppliers_count": 3}, counters)
}

func TestCounterSync_SetClampsNegativeToZero(t *testing.T) {
	db, mock := setupMockDB(t)
	sync := NewGormCounterSync(db, zap.NewNop())
	tenantID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tenant_counters")).
		WithArgs(tenantID, "invoices_count", int64(0), int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := sync.Set(context.Background(), tenantID, "invoices_count", -4)
	require.NoError(t, err)
}
