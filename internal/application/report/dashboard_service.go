package report

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/domain/reporting"
	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
	"github.com/fieldledger/backend/internal/infrastructure/telemetry"
)

// Cache TTLs for aggregate reads. A range touching the present changes with
// every write and is cached briefly; a fully closed range is immutable history.
const (
	currentPeriodTTL = 30 * time.Second
	closedPeriodTTL  = 10 * time.Minute
)

// ReadCache stores serialized read models under tenant-prefixed keys
type ReadCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// nopCache disables caching
type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (nopCache) Set(context.Context, string, []byte, time.Duration) {}

// DashboardService serves the dashboard read path: denormalized counters and
// cached aggregate statistics.
type DashboardService struct {
	stats    reporting.Repository
	counters tenant.CounterSync
	cache    ReadCache
	metrics  *telemetry.BusinessMetrics
	log      *zap.Logger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(stats reporting.Repository, counters tenant.CounterSync, log *zap.Logger) *DashboardService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DashboardService{
		stats:    stats,
		counters: counters,
		cache:    nopCache{},
		log:      log,
	}
}

// SetCache sets the read cache
func (s *DashboardService) SetCache(cache ReadCache) {
	s.cache = cache
}

// SetMetrics attaches the business metric instruments
func (s *DashboardService) SetMetrics(metrics *telemetry.BusinessMetrics) {
	s.metrics = metrics
}

// CountersResponse carries the denormalized dashboard counters
type CountersResponse struct {
	Counters map[string]int64 `json:"counters"`
}

// GetCounters reads the tenant's dashboard counters. Missing counters are
// reported as zero so the response shape is stable.
func (s *DashboardService) GetCounters(ctx context.Context, tenantID uuid.UUID) (*CountersResponse, error) {
	stored, err := s.counters.GetAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	counters := make(map[string]int64, len(tenant.DashboardCounters()))
	for _, name := range tenant.DashboardCounters() {
		counters[name] = stored[name]
	}
	return &CountersResponse{Counters: counters}, nil
}

// GetStats serves the aggregate money figures for a date range, cached per
// tenant and range shape.
func (s *DashboardService) GetStats(ctx context.Context, tenantID uuid.UUID, rng shared.DateRange) (*reporting.TenantStats, error) {
	key := statsKey(tenantID, rng)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached reporting.TenantStats
		if err := json.Unmarshal(raw, &cached); err == nil {
			s.metrics.DashboardCacheHit(ctx)
			cached.Cached = true
			return &cached, nil
		}
		s.log.Warn("dropping undecodable cached stats", zap.String("key", key))
	}
	s.metrics.DashboardCacheMiss(ctx)

	stats, err := s.stats.Stats(ctx, tenantID, rng)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(stats); err == nil {
		s.cache.Set(ctx, key, raw, cacheTTL(rng))
	}
	return stats, nil
}

// GroupedByCustomerResponse carries the per-customer aggregate view. Cached
// reads set Cached, like TenantStats.
type GroupedByCustomerResponse struct {
	Rows   []reporting.CustomerTotals `json:"rows"`
	Cached bool                       `json:"cached"`
}

// GetGroupedByCustomer serves the per-customer aggregate view, cached the
// same way as GetStats.
func (s *DashboardService) GetGroupedByCustomer(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*GroupedByCustomerResponse, error) {
	key := groupedKey(tenantID, filter)
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached []reporting.CustomerTotals
		if err := json.Unmarshal(raw, &cached); err == nil {
			s.metrics.DashboardCacheHit(ctx)
			return &GroupedByCustomerResponse{Rows: cached, Cached: true}, nil
		}
		s.log.Warn("dropping undecodable cached grouping", zap.String("key", key))
	}
	s.metrics.DashboardCacheMiss(ctx)

	rows, err := s.stats.GroupedByCustomer(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(rows); err == nil {
		s.cache.Set(ctx, key, raw, cacheTTL(shared.DateRange{From: filter.From, To: filter.To}))
	}
	return &GroupedByCustomerResponse{Rows: rows}, nil
}

func cacheTTL(rng shared.DateRange) time.Duration {
	if rng.IsCurrentPeriod(time.Now()) {
		return currentPeriodTTL
	}
	return closedPeriodTTL
}

// statsKey builds the cache key: stats:<tenant>:<shape-hash>. The hash folds
// in every parameter that changes the result so distinct queries never share
// an entry.
func statsKey(tenantID uuid.UUID, rng shared.DateRange) string {
	h := fnv.New64a()
	if rng.From != nil {
		fmt.Fprintf(h, "from=%d;", rng.From.UnixNano())
	}
	if rng.To != nil {
		fmt.Fprintf(h, "to=%d;", rng.To.UnixNano())
	}
	return fmt.Sprintf("stats:%s:%016x", tenantID, h.Sum64())
}

func groupedKey(tenantID uuid.UUID, filter shared.Filter) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "grouped;page=%d;size=%d;", filter.Page, filter.PageSize)
	if filter.From != nil {
		fmt.Fprintf(h, "from=%d;", filter.From.UnixNano())
	}
	if filter.To != nil {
		fmt.Fprintf(h, "to=%d;", filter.To.UnixNano())
	}
	return fmt.Sprintf("stats:%s:%016x", tenantID, h.Sum64())
}
