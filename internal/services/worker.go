package services

import (
	"context"
	"errors"
	"log"
	"sync"

	"alfredoptarigan/cv-architect/internal/models"
)

var (
	ErrQueueFull     = errors.New("job queue is full")
	ErrWorkerStopped = errors.New("worker is stopped")
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(job models.Job) error
}

type worker struct {
	processor   JobProcessor
	jobQueue    chan models.Job
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
}

func NewWorker(processor JobProcessor, concurrency, queueSize int) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	return &worker{
		processor:   processor,
		jobQueue:    make(chan models.Job, queueSize),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker. Jobs already picked up run to completion.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker. It never blocks: a full queue is reported to
// the caller so the session can be settled.
func (w *worker) EnqueueJob(job models.Job) error {
	select {
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue job %s\n", job.ID)
		return ErrWorkerStopped
	default:
	}

	select {
	case w.jobQueue <- job:
		log.Printf("📥 Job %s (%s) enqueued\n", job.ID, job.Kind)
		return nil
	default:
		log.Printf("⚠️  Queue full, rejecting job %s\n", job.ID)
		return ErrQueueFull
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("🚀 Worker %d started processing jobs\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			log.Printf("👷 Worker #%d context done\n", workerID)
			return
		case job := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing job %s\n", workerID, job.ID)
			if err := w.processor.Process(ctx, job); err != nil {
				log.Printf("❌ Worker #%d failed to process job %s: %v\n", workerID, job.ID, err)
			} else {
				log.Printf("✅ Worker #%d completed job %s\n", workerID, job.ID)
			}
		}
	}
}
