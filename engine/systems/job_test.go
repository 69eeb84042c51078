package systems

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestNewJobSystemValidatesConfig(t *testing.T) {
	if _, err := NewJobSystem(0, 4); err != ErrNoWorkers {
		t.Errorf("expected ErrNoWorkers, got %v", err)
	}
	if _, err := NewJobSystem(2, -1); err != ErrNegativeQueueSize {
		t.Errorf("expected ErrNegativeQueueSize, got %v", err)
	}
}

func TestJobSystemRunsSubmittedJobs(t *testing.T) {
	js, err := NewJobSystem(4, 8)
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	var ran int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		js.Submit(func() {
			defer wg.Done()
			atomic.AddInt64(&ran, 1)
		})
	}
	wg.Wait()

	if got := atomic.LoadInt64(&ran); got != 32 {
		t.Errorf("expected 32 jobs to run, got %d", got)
	}
	if err := js.Shutdown(); err != nil {
		t.Errorf("expected no error, got %s", err)
	}
}

func TestJobSystemRunBatchKeepsResultOrder(t *testing.T) {
	js, err := NewJobSystem(3, 0)
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}
	defer js.Shutdown()

	jobs := make([]func() error, 8)
	for i := range jobs {
		i := i
		jobs[i] = func() error {
			if i%2 == 1 {
				return fmt.Errorf("job %d failed", i)
			}
			return nil
		}
	}

	results := js.RunBatch(jobs)

	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}
	for i, result := range results {
		if i%2 == 0 && result != nil {
			t.Errorf("job %d: expected success, got %s", i, result)
		}
		if i%2 == 1 {
			want := fmt.Sprintf("job %d failed", i)
			if result == nil || result.Error() != want {
				t.Errorf("job %d: expected %q, got %v", i, want, result)
			}
		}
	}
}

func TestJobSystemShutdownWaitsForWork(t *testing.T) {
	js, err := NewJobSystem(2, 4)
	if err != nil {
		t.Fatalf("expected no error, got %s", err)
	}

	var ran int64
	for i := 0; i < 8; i++ {
		js.Submit(func() {
			atomic.AddInt64(&ran, 1)
		})
	}
	if err := js.Shutdown(); err != nil {
		t.Errorf("expected no error, got %s", err)
	}

	if got := atomic.LoadInt64(&ran); got != 8 {
		t.Errorf("expected 8 jobs finished before shutdown returned, got %d", got)
	}
}
