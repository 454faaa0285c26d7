package pendingqueue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"gitlab.com/ojcore.net/internal/core/ports/primary"
	"gitlab.com/ojcore.net/internal/core/ports/secondary"
)

const waitingQueueKey = "judge:waiting_queue"

var _ secondary.PendingQueue = &Queue{}

// Queue is the durable waiting list for submissions that found no judge
// server with spare capacity. LPUSH/RPOP keeps FIFO order.
type Queue struct {
	redisClient *redis.Client
	logger      primary.Logger
}

// NewQueue creates a new pending queue
func NewQueue(redisClient *redis.Client, logger primary.Logger) *Queue {
	return &Queue{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Enqueue appends one waiting task
func (q *Queue) Enqueue(ctx context.Context, task secondary.PendingTask) error {
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal pending task: %w", err)
	}
	if err := q.redisClient.LPush(ctx, waitingQueueKey, payload).Err(); err != nil {
		q.logger.Error("Failed to enqueue pending task", "error", err)
		return fmt.Errorf("failed to enqueue pending task: %w", err)
	}
	return nil
}

// Pop removes the head of the queue; ok is false when the queue is empty.
func (q *Queue) Pop(ctx context.Context) (secondary.PendingTask, bool, error) {
	var task secondary.PendingTask
	payload, err := q.redisClient.RPop(ctx, waitingQueueKey).Bytes()
	if err == redis.Nil {
		return task, false, nil
	}
	if err != nil {
		q.logger.Error("Failed to pop pending task", "error", err)
		return task, false, fmt.Errorf("failed to pop pending task: %w", err)
	}
	if err := json.Unmarshal(payload, &task); err != nil {
		return task, false, fmt.Errorf("failed to unmarshal pending task: %w", err)
	}
	return task, true, nil
}

// Len reports the backlog size
func (q *Queue) Len(ctx context.Context) (int64, error) {
	n, err := q.redisClient.LLen(ctx, waitingQueueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to measure pending queue: %w", err)
	}
	return n, nil
}
