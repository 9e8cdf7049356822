package persistence

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func TestSequenceAllocator_PrimaryPath(t *testing.T) {
	db, mock := setupMockDB(t)
	allocator := NewGormSequenceAllocator(db, zap.NewNop())
	tenantID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tenant_counters")).
		WithArgs(tenantID, "invoice").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(1)))

	value, err := allocator.Allocate(context.Background(), tenantID, "invoice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequenceAllocator_PrimaryIncrementsExisting(t *testing.T) {
	db, mock := setupMockDB(t)
	allocator := NewGormSequenceAllocator(db, zap.NewNop())
	tenantID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tenant_counters")).
		WithArgs(tenantID, "purchase_order").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(42)))

	value, err := allocator.Allocate(context.Background(), tenantID, "purchase_order")
	require.NoError(t, err)
	assert.Equal(t, int64(42), value)
}

func TestSequenceAllocator_FallsBackToSecondaryStore(t *testing.T) {
	db, mock := setupMockDB(t)
	allocator := NewGormSequenceAllocator(db, zap.NewNop())
	tenantID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tenant_counters")).
		WithArgs(tenantID, "invoice").
		WillReturnError(errors.New("relation corrupted"))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO sequence_fallbacks")).
		WithArgs(tenantID, "invoice").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(int64(7)))

	value, err := allocator.Allocate(context.Background(), tenantID, "invoice")
	require.NoError(t, err)
	assert.Equal(t, int64(7), value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequenceAllocator_TimestampLastResort(t *testing.T) {
	db, mock := setupMockDB(t)
	allocator := NewGormSequenceAllocator(db, zap.NewNop())
	tenantID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tenant_counters")).
		WillReturnError(errors.New("db down"))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO sequence_fallbacks")).
		WillReturnError(errors.New("db down"))

	value, err := allocator.Allocate(context.Background(), tenantID, "invoice")
	require.NoError(t, err)
	assert.Positive(t, value)
	assert.Less(t, value, int64(1_000_000_000))
}
