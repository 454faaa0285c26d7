package stats

import (
	"context"

	"gitlab.com/ojcore.net/internal/domain"
)

// IStatsService propagates a persisted verdict into problem aggregates, user
// profile aggregates and, for contest submissions, contest rank rows. Each
// method runs in one row-locked transaction; no partial aggregate update is
// ever committed without its paired verdict.
type IStatsService interface {
	// UpdateProblemStatus applies a first-time verdict to global problem and
	// profile aggregates
	UpdateProblemStatus(ctx context.Context, sub *domain.Submission) error

	// UpdateProblemStatusRejudge corrects global aggregates by the delta
	// between the previous verdict and the new one
	UpdateProblemStatusRejudge(ctx context.Context, sub *domain.Submission, lastResult domain.Verdict) error

	// UpdateContest applies the verdict to contest-scoped problem stats,
	// profile status maps and the contest rank row in one transaction
	UpdateContest(ctx context.Context, sub *domain.Submission, contest *domain.Contest) error
}
