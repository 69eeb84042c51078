package systems

import (
	"fmt"
	"sync"
)

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeQueueSize = fmt.Errorf("attempting to create worker pool with a negative queue size")

/**
 * @brief A fixed pool of workers draining a shared queue. Used for work
 * that must not stall the frame loop, such as decoding images from disk.
 */
type JobSystem struct {
	numWorkers int
	jobQueue   chan func()
	wg         sync.WaitGroup
}

func NewJobSystem(numWorkers int, queueSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if queueSize < 0 {
		return nil, ErrNegativeQueueSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan func(), queueSize),
	}
	js.start()

	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				job()
			}
		}()
	}
}

/**
 * @brief Submits the provided job to be queued for execution. Blocks
 * while the queue is full.
 */
func (js *JobSystem) Submit(job func()) {
	js.jobQueue <- job
}

/**
 * @brief Runs all jobs on the pool and waits for every one of them. The
 * returned slice has one entry per job, nil where the job succeeded.
 */
func (js *JobSystem) RunBatch(jobs []func() error) []error {
	results := make([]error, len(jobs))

	var batch sync.WaitGroup
	batch.Add(len(jobs))
	for i := range jobs {
		i := i
		js.Submit(func() {
			defer batch.Done()
			results[i] = jobs[i]()
		})
	}
	batch.Wait()

	return results
}

/**
 * @brief Shuts the job system down, waiting for in flight jobs.
 */
func (js *JobSystem) Shutdown() error {
	close(js.jobQueue)
	js.wg.Wait()
	return nil
}
