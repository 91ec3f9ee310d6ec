package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue hands moderation jobs from upload handlers to workers. Dequeue
// blocks up to the backend's poll timeout and returns (nil, nil) when no
// job arrived, so workers can re-check for shutdown between polls.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Dequeue(ctx context.Context) (*Job, error)
}

// RedisQueue is a Redis-list backed queue shared across processes.
// Producers LPUSH, workers BRPOP, so jobs come out in arrival order.
type RedisQueue struct {
	client      *redis.Client
	key         string
	pollTimeout time.Duration
}

// NewRedisQueue creates a queue on an existing Redis connection.
func NewRedisQueue(client *redis.Client, key string, pollTimeout time.Duration) *RedisQueue {
	if key == "" {
		key = "moderation:jobs"
	}
	if pollTimeout <= 0 {
		pollTimeout = 5 * time.Second
	}
	return &RedisQueue{
		client:      client,
		key:         key,
		pollTimeout: pollTimeout,
	}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context) (*Job, error) {
	values, err := q.client.BRPop(ctx, q.pollTimeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("dequeue job: %w", err)
	}
	// BRPop returns [key, value].
	if len(values) < 2 {
		return nil, nil
	}

	var job Job
	if err := json.Unmarshal([]byte(values[1]), &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}

// MemoryQueue is a single-process channel-backed queue for development and
// tests.
type MemoryQueue struct {
	jobs        chan Job
	pollTimeout time.Duration
}

// NewMemoryQueue creates an in-memory queue.
func NewMemoryQueue(capacity int, pollTimeout time.Duration) *MemoryQueue {
	if capacity <= 0 {
		capacity = 256
	}
	if pollTimeout <= 0 {
		pollTimeout = 5 * time.Second
	}
	return &MemoryQueue{
		jobs:        make(chan Job, capacity),
		pollTimeout: pollTimeout,
	}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, job Job) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context) (*Job, error) {
	timer := time.NewTimer(q.pollTimeout)
	defer timer.Stop()

	select {
	case job := <-q.jobs:
		return &job, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
