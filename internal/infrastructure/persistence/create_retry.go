package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/infrastructure/telemetry"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// metrics is the package-wide instrument set; nil until SetMetrics is called
var metrics *telemetry.BusinessMetrics

// SetMetrics attaches the business metric instruments
func SetMetrics(m *telemetry.BusinessMetrics) {
	metrics = m
}

const (
	// maxCreateAttempts bounds the identifier-collision retry loop
	maxCreateAttempts = 3
	// maxCollisionBackoff caps the randomized wait between attempts
	maxCollisionBackoff = 100 * time.Millisecond
)

// IsUniqueViolation reports whether err is a uniqueness-constraint violation
// from the underlying driver. Covers postgres 23505 from both pgx (the gorm
// postgres driver) and lib/pq (the migrate runner), plus the sqlite driver
// used by in-memory tests.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// createWithRetry inserts a document whose uniqueness is enforced by the
// (tenant, number) index rather than by the allocator. A violation on a
// server-generated number means another create committed the same number
// first: regenerate and retry with a randomized backoff, up to
// maxCreateAttempts total attempts, then fail with the retryable collision
// error. A violation on a caller-supplied number is terminal immediately.
func createWithRetry(
	ctx context.Context,
	log *zap.Logger,
	entity string,
	generated bool,
	regenerate func(ctx context.Context) (string, error),
	insert func(ctx context.Context, number string) error,
	number string,
) error {
	attempts := 0
	op := func() error {
		attempts++
		err := insert(ctx, number)
		if err == nil {
			return nil
		}
		if !IsUniqueViolation(err) {
			return backoff.Permanent(err)
		}
		if !generated {
			return backoff.Permanent(shared.ErrDuplicateIdentifier)
		}

		metrics.IdentifierCollision(ctx, entity)
		log.Warn("identifier collision on insert, regenerating",
			zap.String("entity", entity),
			zap.String("number", number),
			zap.Int("attempt", attempts))

		fresh, genErr := regenerate(ctx)
		if genErr != nil {
			return backoff.Permanent(genErr)
		}
		number = fresh
		return err
	}

	policy := backoff.WithContext(newCollisionBackoff(), ctx)
	if err := backoff.Retry(op, backoff.WithMaxRetries(policy, maxCreateAttempts-1)); err != nil {
		if IsUniqueViolation(err) {
			return shared.NewDomainError(shared.ErrIdentifierCollision.Code,
				fmt.Sprintf("failed after %d attempts due to identifier collisions", maxCreateAttempts))
		}
		return err
	}
	return nil
}

// newCollisionBackoff yields randomized waits in the 0-100ms band
func newCollisionBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 25 * time.Millisecond
	b.RandomizationFactor = 1 // full jitter: each wait lands anywhere in (0, 2x]
	b.Multiplier = 2
	b.MaxInterval = maxCollisionBackoff
	b.MaxElapsedTime = 0
	return b
}
