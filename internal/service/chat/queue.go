package chat

import (
	"context"
	"sync"

	"github.com/sandevgo/mindful/internal/core"
	"github.com/sandevgo/mindful/pkg/log"
)

type extractionJob struct {
	userID   string
	messages []core.Message
}

// ExtractionQueue runs memory extraction in the background. Jobs outlive the
// request that produced them and are processed on the service context.
type ExtractionQueue struct {
	memory core.MemoryStore
	jobs   chan extractionJob

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewExtractionQueue(memory core.MemoryStore, size int) *ExtractionQueue {
	if size <= 0 {
		size = 64
	}
	return &ExtractionQueue{
		memory: memory,
		jobs:   make(chan extractionJob, size),
	}
}

// Enqueue adds a job without blocking. When the queue is full the job is
// dropped and false is returned.
func (q *ExtractionQueue) Enqueue(ctx context.Context, userID string, messages []core.Message) bool {
	select {
	case q.jobs <- extractionJob{userID: userID, messages: messages}:
		return true
	default:
		log.FromCtx(ctx).Warn().Str("user_id", userID).Msg("extraction queue full, job dropped")
		return false
	}
}

func (q *ExtractionQueue) Start(ctx context.Context) error {
	ctx, q.cancel = context.WithCancel(ctx)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.run(ctx)
	}()
	return nil
}

func (q *ExtractionQueue) run(ctx context.Context) {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("memory extraction worker started")
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			q.process(ctx, job)
		}
	}
}

func (q *ExtractionQueue) process(ctx context.Context, job extractionJob) {
	logger := log.FromCtx(ctx).With().Str("user_id", job.userID).Logger()

	added, err := q.memory.Add(ctx, job.userID, job.messages)
	if err != nil {
		logger.Error().Err(err).Msg("memory extraction failed")
		return
	}
	logger.Debug().Int("facts", len(added)).Msg("memory extraction done")
}

func (q *ExtractionQueue) Shutdown(ctx context.Context) error {
	if q.cancel != nil {
		q.cancel()
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if n := len(q.jobs); n > 0 {
			log.FromCtx(ctx).Warn().Int("pending", n).Msg("extraction jobs discarded on shutdown")
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
