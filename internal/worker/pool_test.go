package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeResult struct {
	err error
}

func (r *fakeResult) GetError() error { return r.err }

type fakeJob struct {
	duration  time.Duration
	shouldErr bool
	executed  *int32
}

func (j *fakeJob) Execute(ctx context.Context) Result {
	if j.executed != nil {
		atomic.AddInt32(j.executed, 1)
	}
	if j.duration > 0 {
		select {
		case <-time.After(j.duration):
		case <-ctx.Done():
			return &fakeResult{err: ctx.Err()}
		}
	}
	if j.shouldErr {
		return &fakeResult{err: errors.New("source fetch failed")}
	}
	return &fakeResult{err: nil}
}

func TestPool_ExecutesAllJobs(t *testing.T) {
	var executed int32

	pool := NewPool(3)
	pool.Start()

	for i := 0; i < 10; i++ {
		pool.Submit(&fakeJob{executed: &executed})
	}

	results := pool.Wait()

	if len(results) != 10 {
		t.Errorf("got %d results, want 10", len(results))
	}
	if atomic.LoadInt32(&executed) != 10 {
		t.Errorf("executed %d jobs, want 10", executed)
	}
}

func TestPool_ErrorsAreIsolated(t *testing.T) {
	pool := NewPool(2)
	pool.Start()

	pool.Submit(&fakeJob{shouldErr: true})
	pool.Submit(&fakeJob{})
	pool.Submit(&fakeJob{shouldErr: true})

	results := pool.Wait()

	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 2 {
		t.Errorf("got %d failures, want 2", failed)
	}
	if len(results) != 3 {
		t.Errorf("a failing job must not swallow others: %d results", len(results))
	}
}

func TestPool_DefaultsToOneWorker(t *testing.T) {
	if p := NewPool(0); p.workers != 1 {
		t.Errorf("workers = %d, want 1", p.workers)
	}
	if p := NewPool(-5); p.workers != 1 {
		t.Errorf("workers = %d, want 1", p.workers)
	}
}

func TestLimiter_PerSourceIsolation(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("source-a") {
		t.Error("first request for source-a should pass")
	}
	if l.Allow("source-a") {
		t.Error("second immediate request for source-a should be limited")
	}
	if !l.Allow("source-b") {
		t.Error("source-b has its own bucket and should pass")
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow("slow") // drain the bucket

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "slow"); err == nil {
		t.Error("expected context deadline error")
	}
}

func TestLimiter_SetRate(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.SetRate("fast", 1000, 10)

	for i := 0; i < 5; i++ {
		if !l.Allow("fast") {
			t.Fatalf("request %d should pass under raised rate", i)
		}
	}
}
