// Package jobs provides the scheduled background tasks of the service.
//
// Jobs run on every instance of a fleet; cluster-wide mutual exclusion comes
// from the scheduler lock, not from the cron scheduler itself.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bookhive/order-service/internal/config"
	"github.com/bookhive/order-service/internal/lock"

	"github.com/robfig/cron/v3"
)

const processNewOrdersLock = "processNewOrders"

type OrderProcessor interface {
	ProcessNewOrders(ctx context.Context) error
}

type SchedulerLock interface {
	Acquire(ctx context.Context, name string, atMostFor time.Duration) error
	Release(ctx context.Context, name string) error
}

// ProcessNewOrdersJob periodically picks up NEW orders and drives their
// first transition. At most one instance executes the batch per tick; the
// rest observe the held lock and do nothing.
type ProcessNewOrdersJob struct {
	processor     OrderProcessor
	lock          SchedulerLock
	cron          *cron.Cron
	cronSpec      string
	lockAtMostFor time.Duration
	logger        *slog.Logger
}

func NewProcessNewOrdersJob(
	processor OrderProcessor,
	schedulerLock SchedulerLock,
	cfg config.Jobs,
	logger *slog.Logger,
) *ProcessNewOrdersJob {
	return &ProcessNewOrdersJob{
		processor:     processor,
		lock:          schedulerLock,
		cron:          cron.New(cron.WithSeconds()),
		cronSpec:      cfg.NewOrdersCron,
		lockAtMostFor: cfg.LockAtMostFor,
		logger:        logger.With(slog.String("component", "process_new_orders_job")),
	}
}

func (j *ProcessNewOrdersJob) Start() error {
	if _, err := j.cron.AddFunc(j.cronSpec, j.RunOnce); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("new orders job started", slog.String("cron", j.cronSpec))
	return nil
}

// Stop stops scheduling new ticks and waits for a running tick to finish.
func (j *ProcessNewOrdersJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("new orders job stopped")
}

// RunOnce executes a single tick: acquire the lock, process the batch,
// release. Losing the lock race is a silent skip.
func (j *ProcessNewOrdersJob) RunOnce() {
	ctx := context.Background()

	if err := j.lock.Acquire(ctx, processNewOrdersLock, j.lockAtMostFor); err != nil {
		if errors.Is(err, lock.ErrLockUnavailable) {
			// Normal outcome on all but one instance of the fleet.
			jobSkips.Inc()
			j.logger.Debug("tick skipped, lock held by another instance")
			return
		}
		j.logger.Error("failed to acquire scheduler lock", slog.Any("error", err))
		return
	}
	defer func() {
		if err := j.lock.Release(ctx, processNewOrdersLock); err != nil {
			j.logger.Error("failed to release scheduler lock", slog.Any("error", err))
		}
	}()

	jobRuns.Inc()
	start := time.Now()

	if err := j.processor.ProcessNewOrders(ctx); err != nil {
		jobFailures.Inc()
		j.logger.Error("new orders processing failed", slog.Any("error", err))
		return
	}

	j.logger.Info("new orders tick finished", slog.String("duration", time.Since(start).String()))
}
