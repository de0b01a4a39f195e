package worker

// dlq.go — Dead Letter Queue
// Jobs that still fail after their retries are parked here for inspection
// and can be pushed back onto their original queue with ReplayDLQ.
// One Redis list per source queue: dlq:{original_queue}

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry wraps a failed job with metadata for debugging.
type DLQEntry struct {
	OriginalQueue string          `json:"original_queue"`
	JobType       string          `json:"job_type"`
	Payload       json.RawMessage `json:"payload"`
	Reason        string          `json:"reason"`
	FailedAt      string          `json:"failed_at"` // ISO 8601
	Attempts      int             `json:"attempts"`
}

// SendToDLQ pushes a failed job to the dead letter queue.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := DLQEntry{
		OriginalQueue: queue,
		JobType:       jobType,
		Payload:       payload,
		Reason:        reason,
		FailedAt:      time.Now().UTC().Format(time.RFC3339),
		Attempts:      attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: failed to marshal entry")
		return
	}

	dlqKey := DLQPrefix + queue
	if err := rdb.LPush(ctx, dlqKey, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", dlqKey).Msg("dlq: failed to push to DLQ")
		return
	}

	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("reason", reason).
		Int("attempts", attempts).
		Msg("dlq: job moved to dead letter queue")
}

// DLQLength returns the number of entries in a DLQ for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// ReplayDLQ moves up to max entries (oldest first) from the DLQ of queue back
// onto queue as fresh jobs. Entries that cannot be decoded are dropped and logged.
//
// The oldest entry is read in place, pushed onto queue and only then removed,
// so a failed push leaves it in the DLQ. A crash between push and removal
// replays it twice; jobs are delivered at least once.
func ReplayDLQ(ctx context.Context, rdb *redis.Client, queue string, max int) (int, error) {
	dlqKey := DLQPrefix + queue
	replayed := 0
	for replayed < max {
		raw, err := rdb.LIndex(ctx, dlqKey, -1).Result()
		if errors.Is(err, redis.Nil) {
			break
		}
		if err != nil {
			return replayed, err
		}

		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("dlq: dropping undecodable entry")
			if err := rdb.LRem(ctx, dlqKey, -1, raw).Err(); err != nil {
				return replayed, err
			}
			continue
		}
		encoded, err := json.Marshal(Job{Type: entry.JobType, Payload: entry.Payload})
		if err != nil {
			return replayed, err
		}
		if err := rdb.LPush(ctx, queue, encoded).Err(); err != nil {
			return replayed, err
		}
		// New failures are pushed at the head, so the tail is still this entry.
		if err := rdb.LRem(ctx, dlqKey, -1, raw).Err(); err != nil {
			return replayed, err
		}
		replayed++
	}
	if replayed > 0 {
		log.Info().Str("queue", queue).Int("replayed", replayed).Msg("dlq: jobs requeued")
	}
	return replayed, nil
}
