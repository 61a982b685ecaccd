package downloader

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"igsaver/pkg/logger"
	"igsaver/pkg/ratelimit"
)

// DownloadJob represents a single media download
type DownloadJob struct {
	ID   string
	URL  string
	Path string
}

// DownloadResult represents the result of a download job
type DownloadResult struct {
	Job      DownloadJob
	Success  bool
	Error    error
	Duration time.Duration
	Size     int64
}

// MediaFetcher streams media from a URL
type MediaFetcher interface {
	DownloadMedia(ctx context.Context, url string, w io.Writer) (int64, error)
}

// MediaStorage persists a file through a fill function
type MediaStorage interface {
	Save(path string, fill func(w io.Writer) (int64, error)) (int64, error)
}

// WorkerPool manages concurrent download workers
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan DownloadJob
	resultQueue chan DownloadResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	fetcher     MediaFetcher
	storage     MediaStorage
	rateLimiter ratelimit.Limiter
	logger      logger.Logger
}

// NewWorkerPool creates a new download worker pool. Workers stop early
// when ctx is cancelled.
func NewWorkerPool(
	ctx context.Context,
	numWorkers int,
	fetcher MediaFetcher,
	storage MediaStorage,
	rateLimiter ratelimit.Limiter,
	log logger.Logger,
) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if rateLimiter == nil {
		rateLimiter = ratelimit.NewPacer(0)
	}
	if log == nil {
		log = logger.GetLogger()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan DownloadJob, numWorkers*2), // Buffer size = 2x workers
		resultQueue: make(chan DownloadResult, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		fetcher:     fetcher,
		storage:     storage,
		rateLimiter: rateLimiter,
		logger:      log,
	}
}

// Start initializes and starts all workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("starting worker pool", map[string]interface{}{
		"num_workers": wp.GetActiveWorkers(),
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the queue and waits for the workers. Jobs already queued are
// still processed unless the context was cancelled.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// Submit adds a new download job to the queue
func (wp *WorkerPool) Submit(job DownloadJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", wp.ctx.Err())
	}
}

// Results returns the result channel. It is closed by Stop.
func (wp *WorkerPool) Results() <-chan DownloadResult {
	return wp.resultQueue
}

// Run submits jobs, stops the pool and hands each result to handle on the
// calling goroutine
func (wp *WorkerPool) Run(jobs []DownloadJob, handle func(DownloadResult)) {
	wp.Start()

	go func() {
		submitted := 0
		for _, job := range jobs {
			if err := wp.Submit(job); err != nil {
				break
			}
			submitted++
		}
		wp.logger.DebugWithFields("jobs submitted", map[string]interface{}{
			"submitted": submitted,
			"queued":    wp.GetQueueSize(),
			"workers":   wp.GetActiveWorkers(),
		})
		wp.Stop()
	}()

	for result := range wp.Results() {
		handle(result)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		if wp.ctx.Err() != nil {
			return
		}

		result := wp.processJob(job, id)
		if wp.ctx.Err() != nil && result.Error != nil {
			// interrupted downloads are not reported as failures
			return
		}

		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

// processJob handles a single download job
func (wp *WorkerPool) processJob(job DownloadJob, workerID int) DownloadResult {
	start := time.Now()
	result := DownloadResult{Job: job}

	if err := wp.rateLimiter.Wait(wp.ctx); err != nil {
		result.Error = err
		return result
	}

	size, err := wp.storage.Save(job.Path, func(w io.Writer) (int64, error) {
		return wp.fetcher.DownloadMedia(wp.ctx, job.URL, w)
	})
	result.Duration = time.Since(start)
	result.Size = size

	if err != nil {
		result.Error = err
		wp.logger.WarnWithFields("download failed", map[string]interface{}{
			"worker_id": workerID,
			"item":      job.ID,
			"error":     err.Error(),
			"duration":  result.Duration,
		})
		return result
	}

	result.Success = true
	wp.logger.DebugWithFields("download completed", map[string]interface{}{
		"worker_id": workerID,
		"item":      job.ID,
		"size":      size,
		"duration":  result.Duration,
	})
	return result
}

// GetQueueSize returns the current number of jobs in the queue
func (wp *WorkerPool) GetQueueSize() int {
	return len(wp.jobQueue)
}

// GetActiveWorkers returns the number of workers
func (wp *WorkerPool) GetActiveWorkers() int {
	return wp.numWorkers
}
