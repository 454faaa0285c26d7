package secondary

import (
	"context"

	"github.com/google/uuid"
)

// PendingTask is one waiting judge job: enough to re-enter the workflow.
type PendingTask struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	ProblemID    int64     `json:"problem_id"`
}

type PendingQueue interface {
	// Enqueue appends a task to the tail of the waiting queue
	Enqueue(ctx context.Context, task PendingTask) error

	// Pop removes and returns the head of the queue; ok is false when empty
	Pop(ctx context.Context) (PendingTask, bool, error)

	// Len reports the current backlog size
	Len(ctx context.Context) (int64, error)
}

type RankCache interface {
	// InvalidateContestRank drops any cached rendering of the contest leaderboard
	InvalidateContestRank(ctx context.Context, contestID int64) error
}
