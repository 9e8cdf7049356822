package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldledger/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormCounterSync implements tenant.CounterSync with single-statement atomic
// adds against tenant_counters. Decrements carry the non-negativity invariant
// in the statement itself (`value >= delta`), so a racing decrement can skip
// but never drive a counter below zero.
type GormCounterSync struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewGormCounterSync creates a new GormCounterSync
func NewGormCounterSync(db *gorm.DB, log *zap.Logger) *GormCounterSync {
	if log == nil {
		log = zap.NewNop()
	}
	return &GormCounterSync{db: db, log: log}
}

// Increment atomically adds delta to the named counter, creating it if absent
func (s *GormCounterSync) Increment(ctx context.Context, tenantID uuid.UUID, name string, delta int64) error {
	if delta <= 0 {
		return fmt.Errorf("increment delta must be positive, got %d", delta)
	}
	err := s.db.WithContext(ctx).Exec(
		`INSERT INTO tenant_counters (tenant_id, name, value) VALUES (?, ?, ?)
		 ON CONFLICT (tenant_id, name) DO UPDATE SET value = tenant_counters.value + ?`,
		tenantID, name, delta, delta,
	).Error
	if err != nil {
		return fmt.Errorf("increment counter %s: %w", name, err)
	}
	return nil
}

// Decrement atomically subtracts delta, clamped at zero. When the stored
// value is already below delta the write is skipped, a warning is logged and
// clamped=true is returned; the counters are observational dashboards, so a
// skipped decrement is drift to reconcile, not corruption.
func (s *GormCounterSync) Decrement(ctx context.Context, tenantID uuid.UUID, name string, delta int64) (bool, error) {
	if delta <= 0 {
		return false, fmt.Errorf("decrement delta must be positive, got %d", delta)
	}
	result := s.db.WithContext(ctx).Exec(
		`UPDATE tenant_counters SET value = value - ? WHERE tenant_id = ? AND name = ? AND value >= ?`,
		delta, tenantID, name, delta,
	)
	if result.Error != nil {
		return false, fmt.Errorf("decrement counter %s: %w", name, result.Error)
	}
	if result.RowsAffected == 0 {
		s.log.Warn("counter decrement skipped to avoid negative value",
			zap.String("tenant_id", tenantID.String()),
			zap.String("counter", name),
			zap.Int64("delta", delta))
		return true, nil
	}
	return false, nil
}

// Set overwrites the counter with an absolute value; reconciliation only
func (s *GormCounterSync) Set(ctx context.Context, tenantID uuid.UUID, name string, value int64) error {
	if value < 0 {
		value = 0
	}
	err := s.db.WithContext(ctx).Exec(
		`INSERT INTO tenant_counters (tenant_id, name, value) VALUES (?, ?, ?)
		 ON CONFLICT (tenant_id, name) DO UPDATE SET value = ?`,
		tenantID, name, value, value,
	).Error
	if err != nil {
		return fmt.Errorf("set counter %s: %w", name, err)
	}
	return nil
}

// Get reads the stored value, 0 when the counter does not exist yet
func (s *GormCounterSync) Get(ctx context.Context, tenantID uuid.UUID, name string) (int64, error) {
	var counter tenant.Counter
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND name = ?", tenantID, name).
		First(&counter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get counter %s: %w", name, err)
	}
	return counter.Value, nil
}

// GetAll reads every stored counter for the tenant
func (s *GormCounterSync) GetAll(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	var counters []tenant.Counter
	if err := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Find(&counters).Error; err != nil {
		return nil, fmt.Errorf("get counters: %w", err)
	}
	result := make(map[string]int64, len(counters))
	for _, c := range counters {
		result[c.Name] = c.Value
	}
	return result, nil
}

// Ensure GormCounterSync implements tenant.CounterSync
var _ tenant.CounterSync = (*GormCounterSync)(nil)
