// Package lock provides a cluster-wide named lock backed by a Postgres
// lease table. The store enforces ownership, not in-process memory, so the
// guarantee holds across independent service instances.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrLockUnavailable is the expected outcome on N-1 of N instances and is
// not an error condition for the caller.
var ErrLockUnavailable = errors.New("lock is held by another instance")

type postgresLock struct {
	db     *sqlx.DB
	qb     sq.StatementBuilderType
	holder string
}

func NewPostgresLock(db *sqlx.DB) *postgresLock {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return &postgresLock{
		db:     db,
		qb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		holder: fmt.Sprintf("%s-%s", hostname, uuid.NewString()),
	}
}

// Acquire takes the named lock for at most atMostFor. A lock whose lease has
// expired is eligible for reacquisition even if its holder never released it,
// which bounds the damage of a crashed holder to one lease duration.
func (l *postgresLock) Acquire(ctx context.Context, name string, atMostFor time.Duration) error {
	now := time.Now().UTC()

	query, args := l.qb.Insert("scheduler_locks").
		Columns("name", "locked_by", "locked_at", "locked_until").
		Values(name, l.holder, now, now.Add(atMostFor)).
		Suffix(`ON CONFLICT (name) DO UPDATE
			SET locked_by = EXCLUDED.locked_by,
				locked_at = EXCLUDED.locked_at,
				locked_until = EXCLUDED.locked_until
			WHERE scheduler_locks.locked_until <= EXCLUDED.locked_at`).
		MustSql()

	res, err := l.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to acquire lock %q: %w", name, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrLockUnavailable
	}
	return nil
}

// Release expires the lease early. Only the current holder may release; a
// reacquired lock is left untouched.
func (l *postgresLock) Release(ctx context.Context, name string) error {
	query, args := l.qb.Update("scheduler_locks").
		Set("locked_until", time.Now().UTC()).
		Where(sq.Eq{"name": name, "locked_by": l.holder}).
		MustSql()

	if _, err := l.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to release lock %q: %w", name, err)
	}
	return nil
}
