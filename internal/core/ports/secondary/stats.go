package secondary

import (
	"context"

	"gitlab.com/ojcore.net/internal/domain"
)

// StatsOps is the row-locked view the stats service works through. Every Get
// locks the row (SELECT ... FOR UPDATE or equivalent) until the surrounding
// transaction commits, so concurrent judgings for the same problem or user
// never lose an increment.
type StatsOps interface {
	GetProblemForUpdate(ctx context.Context, problemID int64, contestID *int64) (*domain.Problem, error)
	SaveProblemStats(ctx context.Context, p *domain.Problem) error

	GetProfileForUpdate(ctx context.Context, userID int64) (*domain.UserProfile, error)
	SaveProfile(ctx context.Context, p *domain.UserProfile) error

	// GetACMRankForUpdate returns nil when no row exists yet
	GetACMRankForUpdate(ctx context.Context, userID, contestID int64) (*domain.ACMContestRank, error)
	// CreateACMRank returns errs.RankRowConflict on a duplicate-creation race
	CreateACMRank(ctx context.Context, userID, contestID int64) error
	SaveACMRank(ctx context.Context, rank *domain.ACMContestRank) error

	GetOIRankForUpdate(ctx context.Context, userID, contestID int64) (*domain.OIContestRank, error)
	CreateOIRank(ctx context.Context, userID, contestID int64) error
	SaveOIRank(ctx context.Context, rank *domain.OIContestRank) error
}

// StatsStore opens one serializable unit of work per submission verdict. The
// callback either commits as a whole or rolls back as a whole; no partial
// aggregate update survives without its paired verdict update.
type StatsStore interface {
	InTx(ctx context.Context, fn func(ops StatsOps) error) error
}
