package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bookhive/order-service/internal/config"
	"github.com/bookhive/order-service/internal/jobs"
	"github.com/bookhive/order-service/internal/lock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leaseLock mimics the lock table shared by every instance: one row per
// lock name, a lease that expires, and a first-writer-wins acquire.
type leaseLock struct {
	mu          sync.Mutex
	lockedUntil map[string]time.Time
}

func newLeaseLock() *leaseLock {
	return &leaseLock{lockedUntil: make(map[string]time.Time)}
}

func (l *leaseLock) Acquire(_ context.Context, name string, atMostFor time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	if until, ok := l.lockedUntil[name]; ok && now.Before(until) {
		return lock.ErrLockUnavailable
	}
	l.lockedUntil[name] = now.Add(atMostFor)
	return nil
}

func (l *leaseLock) Release(_ context.Context, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lockedUntil[name] = time.Now()
	return nil
}

type countingProcessor struct {
	runs  atomic.Int32
	block chan struct{}
	err   error
}

func (p *countingProcessor) ProcessNewOrders(context.Context) error {
	p.runs.Add(1)
	if p.block != nil {
		<-p.block
	}
	return p.err
}

func newJob(processor jobs.OrderProcessor, schedulerLock jobs.SchedulerLock) *jobs.ProcessNewOrdersJob {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Jobs{
		NewOrdersCron: "* * * * * *",
		LockAtMostFor: time.Minute,
	}
	return jobs.NewProcessNewOrdersJob(processor, schedulerLock, cfg, logger)
}

func TestProcessNewOrdersJob_SingleWinnerPerTick(t *testing.T) {
	sharedLock := newLeaseLock()
	processor := &countingProcessor{block: make(chan struct{})}

	const instances = 5
	instanceJobs := make([]*jobs.ProcessNewOrdersJob, instances)
	for i := range instanceJobs {
		instanceJobs[i] = newJob(processor, sharedLock)
	}

	// Fire the same tick on every instance at once. The winner blocks in
	// the processor so the lock stays held while the others attempt it.
	var wg sync.WaitGroup
	for _, j := range instanceJobs {
		j := j
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.RunOnce()
		}()
	}

	require.Eventually(t, func() bool {
		return processor.runs.Load() == 1
	}, time.Second, 5*time.Millisecond)

	close(processor.block)
	wg.Wait()

	assert.Equal(t, int32(1), processor.runs.Load())
}

func TestProcessNewOrdersJob_ReleaseFreesNextTick(t *testing.T) {
	sharedLock := newLeaseLock()
	processor := &countingProcessor{}
	j := newJob(processor, sharedLock)

	j.RunOnce()
	j.RunOnce()

	assert.Equal(t, int32(2), processor.runs.Load())
}

func TestProcessNewOrdersJob_LeaseExpiresWithoutRelease(t *testing.T) {
	sharedLock := newLeaseLock()
	processor := &countingProcessor{}

	// A crashed holder never releases; the lease must expire on its own.
	require.NoError(t, sharedLock.Acquire(context.Background(), "processNewOrders", 20*time.Millisecond))

	j := newJob(processor, sharedLock)
	j.RunOnce()
	assert.Equal(t, int32(0), processor.runs.Load())

	time.Sleep(30 * time.Millisecond)
	j.RunOnce()
	assert.Equal(t, int32(1), processor.runs.Load())
}

func TestProcessNewOrdersJob_StartStop(t *testing.T) {
	sharedLock := newLeaseLock()
	processor := &countingProcessor{}
	j := newJob(processor, sharedLock)

	require.NoError(t, j.Start())
	j.Stop()
}

func TestProcessNewOrdersJob_StartRejectsBadCron(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Jobs{NewOrdersCron: "not a cron spec", LockAtMostFor: time.Minute}
	j := jobs.NewProcessNewOrdersJob(&countingProcessor{}, newLeaseLock(), cfg, logger)

	assert.Error(t, j.Start())
}
