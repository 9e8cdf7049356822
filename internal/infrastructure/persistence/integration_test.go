package persistence

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fieldledger/backend/internal/domain/billing"
	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
)

// setupSQLiteDB opens an in-memory database capped at one connection so
// concurrent statements serialize instead of failing with a lock error.
func setupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&tenant.Tenant{},
		&tenant.Counter{},
		&SequenceFallback{},
		&billing.Invoice{},
		&billing.InvoiceItem{},
		&billing.Attachment{},
	))
	return db
}

func TestSequenceAllocator_ConcurrentAllocationsAreDistinct(t *testing.T) {
	db := setupSQLiteDB(t)
	allocator := NewGormSequenceAllocator(db, zap.NewNop())
	tenantID := uuid.New()

	const workers = 20
	values := make([]int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			v, err := allocator.Allocate(context.Background(), tenantID, tenant.SeqInvoice)
			assert.NoError(t, err)
			values[idx] = v
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool, workers)
	for _, v := range values {
		assert.False(t, seen[v], "value %d allocated twice", v)
		seen[v] = true
		assert.GreaterOrEqual(t, v, int64(1))
		assert.LessOrEqual(t, v, int64(workers))
	}
	assert.Len(t, seen, workers)
}

func TestSequenceAllocator_TenantsAreIndependent(t *testing.T) {
	db := setupSQLiteDB(t)
	allocator := NewGormSequenceAllocator(db, zap.NewNop())
	tenantA := uuid.New()
	tenantB := uuid.New()

	for i := int64(1); i <= 3; i++ {
		v, err := allocator.Allocate(context.Background(), tenantA, tenant.SeqInvoice)
		require.NoError(t, err)
		assert.Equal(t, i, v)
	}

	v, err := allocator.Allocate(context.Background(), tenantB, tenant.SeqInvoice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v, "a fresh tenant starts its own sequence at 1")

	v, err = allocator.Allocate(context.Background(), tenantA, tenant.SeqPurchaseOrder)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v, "sequences with different names never share values")
}

func TestInvoiceNumber_ReusableAcrossTenants(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewGormInvoiceRepository(db, zap.NewNop())
	tenantA := uuid.New()
	tenantB := uuid.New()

	noRegen := func(ctx context.Context) (string, error) {
		t.Fatal("no collision expected")
		return "", nil
	}

	invA, err := billing.NewQuotation(tenantA, "INV-0001", "Acme Builders")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), invA, true, noRegen))

	invB, err := billing.NewQuotation(tenantB, "INV-0001", "Northside Plumbing")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), invB, true, noRegen))

	// the same number inside one tenant is a real duplicate
	dup, err := billing.NewQuotation(tenantA, "INV-0001", "Acme Builders")
	require.NoError(t, err)
	err = repo.Create(context.Background(), dup, false, noRegen)
	require.Error(t, err)
	assert.True(t, shared.IsDuplicateIdentifier(err))
}

func TestCounterSync_FloorAtZeroEndToEnd(t *testing.T) {
	db := setupSQLiteDB(t)
	sync := NewGormCounterSync(db, zap.NewNop())
	tenantID := uuid.New()
	ctx := context.Background()

	require.NoError(t, sync.Increment(ctx, tenantID, tenant.CountInvoices, 2))

	clamped, err := sync.Decrement(ctx, tenantID, tenant.CountInvoices, 1)
	require.NoError(t, err)
	assert.False(t, clamped)

	clamped, err = sync.Decrement(ctx, tenantID, tenant.CountInvoices, 5)
	require.NoError(t, err)
	assert.True(t, clamped, "a decrement past zero is skipped, not applied")

	value, err := sync.Get(ctx, tenantID, tenant.CountInvoices)
	require.NoError(t, err)
	assert.Equal(t, int64(1), value)
}

func TestCounterSync_DecrementMissingCounterClamps(t *testing.T) {
	db := setupSQLiteDB(t)
	sync := NewGormCounterSync(db, zap.NewNop())

	clamped, err := sync.Decrement(context.Background(), uuid.New(), tenant.CountInvoices, 1)
	require.NoError(t, err)
	assert.True(t, clamped)
}
