package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueEmail = "jobs:email"

	JobTypeEmail = "email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JobHandler processes the payload of one job type.
type JobHandler interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, JobTypeEmail, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// QueueLength returns the number of pending jobs in queue.
func (d *Dispatcher) QueueLength(ctx context.Context, queue string) (int64, error) {
	return d.rdb.LLen(ctx, queue).Result()
}

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]JobHandler
	queues   []string
	// errBackoff is the pause after a failed BRPOP (Redis unreachable).
	errBackoff time.Duration
}

// NewPool builds a pool; handlers is keyed by Job.Type.
func NewPool(rdb *redis.Client, handlers map[string]JobHandler) *Pool {
	return &Pool{rdb: rdb, handlers: handlers, queues: []string{QueueEmail}, errBackoff: 2 * time.Second}
}

// Start launches numWorkers goroutines consuming the queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go p.run(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func (p *Pool) run(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue // timeout or shutting down
			}
			if err != nil {
				log.Warn().Err(err).Int("worker", id).Dur("backoff", p.errBackoff).Msg("worker: dequeue failed")
				select {
				case <-ctx.Done():
				case <-time.After(p.errBackoff):
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.processJob(ctx, result[0], result[1])
		}
	}
}

// processJob decodes the envelope and hands it to the registered handler.
// Jobs that still fail after the handler's own retries end up in the DLQ.
func (p *Pool) processJob(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		// Kept as a JSON string so the DLQ entry itself stays encodable.
		quoted, _ := json.Marshal(raw)
		SendToDLQ(ctx, p.rdb, queue, "unknown", quoted, "malformed envelope: "+err.Error(), 0)
		return
	}

	h, ok := p.handlers[job.Type]
	if !ok {
		log.Error().Str("type", job.Type).Str("queue", queue).Msg("no handler for job type")
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "no handler registered", 0)
		return
	}

	log.Debug().Str("type", job.Type).Str("queue", queue).Msg("processing job")
	if err := h.Process(ctx, job.Payload); err != nil {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), maxEmailAttempts)
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// The first retry waits baseDelay, each later one doubles it.
func withRetry(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := baseDelay * time.Duration(1<<uint(i-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
