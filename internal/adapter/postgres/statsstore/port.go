// package statsstore contains the transactional PostgreSQL store behind the
// stats and leaderboard updater
package statsstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gitlab.com/ojcore.net/internal/adapter/postgres/problemrepository"
	"gitlab.com/ojcore.net/internal/core/ports/primary"
	"gitlab.com/ojcore.net/internal/core/ports/secondary"
	"gitlab.com/ojcore.net/internal/domain"
	"gitlab.com/ojcore.net/internal/static/errs"
)

// uniqueViolation is the PostgreSQL error code for a duplicate key.
const uniqueViolation = "23505"

var _ secondary.StatsStore = &Store{}

// Store opens one transaction per verdict propagation. Row locks come from
// SELECT ... FOR UPDATE inside the transaction, so two judgings touching the
// same problem or profile serialize on the row.
type Store struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewStore creates a new stats store
func NewStore(db *sqlx.DB, logger primary.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// InTx runs fn inside one transaction; the verdict's aggregate updates commit
// or roll back as a whole.
func (s *Store) InTx(ctx context.Context, fn func(ops secondary.StatsOps) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin stats transaction: %w", err)
	}

	if err := fn(&txOps{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to roll back stats transaction", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit stats transaction: %w", err)
	}
	return nil
}

// txOps is the row-locked view handed to the stats service.
type txOps struct {
	tx *sqlx.Tx
}

const problemColumns = `
	id, display_id, contest_id, rule_type, time_limit, memory_limit,
	test_case_id, test_case_score, template, policy, io_mode,
	submission_number, accepted_number, statistic_info
`

func (o *txOps) GetProblemForUpdate(ctx context.Context, problemID int64, contestID *int64) (*domain.Problem, error) {
	var row *sql.Row
	if contestID != nil {
		query := `SELECT` + problemColumns + `FROM problems WHERE id = $1 AND contest_id = $2 FOR UPDATE`
		row = o.tx.QueryRowContext(ctx, query, problemID, *contestID)
	} else {
		query := `SELECT` + problemColumns + `FROM problems WHERE id = $1 AND contest_id IS NULL FOR UPDATE`
		row = o.tx.QueryRowContext(ctx, query, problemID)
	}
	p, err := problemrepository.ScanProblem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ProblemNotFound
		}
		return nil, fmt.Errorf("failed to lock problem row: %w", err)
	}
	return p, nil
}

func (o *txOps) SaveProblemStats(ctx context.Context, p *domain.Problem) error {
	statisticInfo, err := json.Marshal(p.StatisticInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal problem statistic_info: %w", err)
	}
	query := `
		UPDATE problems
		SET submission_number = $2, accepted_number = $3, statistic_info = $4
		WHERE id = $1
	`
	if _, err := o.tx.ExecContext(ctx, query, p.ID, p.SubmissionNumber, p.AcceptedNumber, statisticInfo); err != nil {
		return fmt.Errorf("failed to save problem stats: %w", err)
	}
	return nil
}

func (o *txOps) GetProfileForUpdate(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	query := `
		SELECT user_id, submission_number, accepted_number, total_score,
			   acm_problems_status, oi_problems_status
		FROM user_profiles
		WHERE user_id = $1
		FOR UPDATE
	`

	var p domain.UserProfile
	var acmStatus, oiStatus []byte
	err := o.tx.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID,
		&p.SubmissionNumber,
		&p.AcceptedNumber,
		&p.TotalScore,
		&acmStatus,
		&oiStatus,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lock profile row: %w", err)
	}
	if len(acmStatus) > 0 {
		if err := json.Unmarshal(acmStatus, &p.ACMProblemsStatus); err != nil {
			return nil, fmt.Errorf("failed to decode acm_problems_status: %w", err)
		}
	}
	if len(oiStatus) > 0 {
		if err := json.Unmarshal(oiStatus, &p.OIProblemsStatus); err != nil {
			return nil, fmt.Errorf("failed to decode oi_problems_status: %w", err)
		}
	}
	return &p, nil
}

func (o *txOps) SaveProfile(ctx context.Context, p *domain.UserProfile) error {
	acmStatus, err := json.Marshal(p.ACMProblemsStatus)
	if err != nil {
		return fmt.Errorf("failed to marshal acm_problems_status: %w", err)
	}
	oiStatus, err := json.Marshal(p.OIProblemsStatus)
	if err != nil {
		return fmt.Errorf("failed to marshal oi_problems_status: %w", err)
	}
	query := `
		UPDATE user_profiles
		SET submission_number = $2, accepted_number = $3, total_score = $4,
			acm_problems_status = $5, oi_problems_status = $6
		WHERE user_id = $1
	`
	if _, err := o.tx.ExecContext(ctx, query, p.UserID, p.SubmissionNumber, p.AcceptedNumber, p.TotalScore, acmStatus, oiStatus); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (o *txOps) GetACMRankForUpdate(ctx context.Context, userID, contestID int64) (*domain.ACMContestRank, error) {
	query := `
		SELECT user_id, contest_id, submission_number, accepted_number, total_time, submission_info
		FROM acm_contest_ranks
		WHERE user_id = $1 AND contest_id = $2
		FOR UPDATE
	`

	var rank domain.ACMContestRank
	var info []byte
	err := o.tx.QueryRowContext(ctx, query, userID, contestID).Scan(
		&rank.UserID,
		&rank.ContestID,
		&rank.SubmissionNumber,
		&rank.AcceptedNumber,
		&rank.TotalTime,
		&info,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock acm rank row: %w", err)
	}
	if len(info) > 0 {
		if err := json.Unmarshal(info, &rank.SubmissionInfo); err != nil {
			return nil, fmt.Errorf("failed to decode acm submission_info: %w", err)
		}
	}
	return &rank, nil
}

func (o *txOps) CreateACMRank(ctx context.Context, userID, contestID int64) error {
	query := `
		INSERT INTO acm_contest_ranks (user_id, contest_id, submission_number, accepted_number, total_time, submission_info)
		VALUES ($1, $2, 0, 0, 0, '{}')
		ON CONFLICT (user_id, contest_id) DO NOTHING
	`
	return o.create(ctx, query, userID, contestID)
}

func (o *txOps) SaveACMRank(ctx context.Context, rank *domain.ACMContestRank) error {
	info, err := json.Marshal(rank.SubmissionInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal acm submission_info: %w", err)
	}
	query := `
		UPDATE acm_contest_ranks
		SET submission_number = $3, accepted_number = $4, total_time = $5, submission_info = $6
		WHERE user_id = $1 AND contest_id = $2
	`
	if _, err := o.tx.ExecContext(ctx, query, rank.UserID, rank.ContestID, rank.SubmissionNumber, rank.AcceptedNumber, rank.TotalTime, info); err != nil {
		return fmt.Errorf("failed to save acm rank: %w", err)
	}
	return nil
}

func (o *txOps) GetOIRankForUpdate(ctx context.Context, userID, contestID int64) (*domain.OIContestRank, error) {
	query := `
		SELECT user_id, contest_id, submission_number, total_score, submission_info
		FROM oi_contest_ranks
		WHERE user_id = $1 AND contest_id = $2
		FOR UPDATE
	`

	var rank domain.OIContestRank
	var info []byte
	err := o.tx.QueryRowContext(ctx, query, userID, contestID).Scan(
		&rank.UserID,
		&rank.ContestID,
		&rank.SubmissionNumber,
		&rank.TotalScore,
		&info,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock oi rank row: %w", err)
	}
	if len(info) > 0 {
		if err := json.Unmarshal(info, &rank.SubmissionInfo); err != nil {
			return nil, fmt.Errorf("failed to decode oi submission_info: %w", err)
		}
	}
	return &rank, nil
}

func (o *txOps) CreateOIRank(ctx context.Context, userID, contestID int64) error {
	query := `
		INSERT INTO oi_contest_ranks (user_id, contest_id, submission_number, total_score, submission_info)
		VALUES ($1, $2, 0, 0, '{}')
		ON CONFLICT (user_id, contest_id) DO NOTHING
	`
	return o.create(ctx, query, userID, contestID)
}

func (o *txOps) SaveOIRank(ctx context.Context, rank *domain.OIContestRank) error {
	info, err := json.Marshal(rank.SubmissionInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal oi submission_info: %w", err)
	}
	query := `
		UPDATE oi_contest_ranks
		SET submission_number = $3, total_score = $4, submission_info = $5
		WHERE user_id = $1 AND contest_id = $2
	`
	if _, err := o.tx.ExecContext(ctx, query, rank.UserID, rank.ContestID, rank.SubmissionNumber, rank.TotalScore, info); err != nil {
		return fmt.Errorf("failed to save oi rank: %w", err)
	}
	return nil
}

// create runs a rank-row insert, translating a duplicate-key race into
// errs.RankRowConflict so the caller can re-read instead of failing.
func (o *txOps) create(ctx context.Context, query string, userID, contestID int64) error {
	if _, err := o.tx.ExecContext(ctx, query, userID, contestID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return errs.RankRowConflict
		}
		return fmt.Errorf("failed to create rank row: %w", err)
	}
	return nil
}
