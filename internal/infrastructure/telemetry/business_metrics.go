// Package telemetry provides OpenTelemetry metric instruments for business
// activity. Instruments come from the global meter provider; with no SDK
// installed they are no-ops.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/fieldledger/backend"

// BusinessMetrics tracks document lifecycle and counter health
type BusinessMetrics struct {
	documentsCreated      metric.Int64Counter
	documentsDeleted      metric.Int64Counter
	identifierCollisions  metric.Int64Counter
	counterDriftsRepaired metric.Int64Counter
	dashboardCacheHits    metric.Int64Counter
	dashboardCacheMisses  metric.Int64Counter
}

// NewBusinessMetrics creates the instrument set from the global meter provider
func NewBusinessMetrics() (*BusinessMetrics, error) {
	meter := otel.Meter(meterName)
	bm := &BusinessMetrics{}

	var err error
	bm.documentsCreated, err = meter.Int64Counter(
		"fieldledger_documents_created_total",
		metric.WithDescription("Total number of business documents created"),
		metric.WithUnit("{documents}"),
	)
	if err != nil {
		return nil, err
	}

	bm.documentsDeleted, err = meter.Int64Counter(
		"fieldledger_documents_deleted_total",
		metric.WithDescription("Total number of business documents deleted"),
		metric.WithUnit("{documents}"),
	)
	if err != nil {
		return nil, err
	}

	bm.identifierCollisions, err = meter.Int64Counter(
		"fieldledger_identifier_collisions_total",
		metric.WithDescription("Total number of document number collisions hit during insert"),
		metric.WithUnit("{collisions}"),
	)
	if err != nil {
		return nil, err
	}

	bm.counterDriftsRepaired, err = meter.Int64Counter(
		"fieldledger_counter_drifts_repaired_total",
		metric.WithDescription("Total number of dashboard counters repaired by reconciliation"),
		metric.WithUnit("{counters}"),
	)
	if err != nil {
		return nil, err
	}

	bm.dashboardCacheHits, err = meter.Int64Counter(
		"fieldledger_dashboard_cache_hits_total",
		metric.WithDescription("Dashboard read-cache hits"),
		metric.WithUnit("{reads}"),
	)
	if err != nil {
		return nil, err
	}

	bm.dashboardCacheMisses, err = meter.Int64Counter(
		"fieldledger_dashboard_cache_misses_total",
		metric.WithDescription("Dashboard read-cache misses"),
		metric.WithUnit("{reads}"),
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// DocumentCreated records a created document of the given entity kind
func (m *BusinessMetrics) DocumentCreated(ctx context.Context, entity string) {
	if m == nil {
		return
	}
	m.documentsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
}

// DocumentDeleted records a deleted document of the given entity kind
func (m *BusinessMetrics) DocumentDeleted(ctx context.Context, entity string) {
	if m == nil {
		return
	}
	m.documentsDeleted.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
}

// IdentifierCollision records a number collision during insert
func (m *BusinessMetrics) IdentifierCollision(ctx context.Context, entity string) {
	if m == nil {
		return
	}
	m.identifierCollisions.Add(ctx, 1, metric.WithAttributes(attribute.String("entity", entity)))
}

// CounterDriftRepaired records a dashboard counter repaired by reconciliation
func (m *BusinessMetrics) CounterDriftRepaired(ctx context.Context, counter string) {
	if m == nil {
		return
	}
	m.counterDriftsRepaired.Add(ctx, 1, metric.WithAttributes(attribute.String("counter", counter)))
}

// DashboardCacheHit records a dashboard read served from cache
func (m *BusinessMetrics) DashboardCacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.dashboardCacheHits.Add(ctx, 1)
}

// DashboardCacheMiss records a dashboard read that went to the database
func (m *BusinessMetrics) DashboardCacheMiss(ctx context.Context) {
	if m == nil {
		return
	}
	m.dashboardCacheMisses.Add(ctx, 1)
}
