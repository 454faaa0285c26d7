package secondary

import (
	"context"

	"gitlab.com/ojcore.net/internal/domain"
)

type ProblemRepository interface {
	// GetProblem retrieves a practice problem by ID
	GetProblem(ctx context.Context, id int64) (*domain.Problem, error)

	// GetContestProblem retrieves a problem scoped to a contest
	GetContestProblem(ctx context.Context, id, contestID int64) (*domain.Problem, error)
}

type ContestRepository interface {
	// GetContest retrieves a contest by ID
	GetContest(ctx context.Context, id int64) (*domain.Contest, error)
}
