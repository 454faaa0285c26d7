// package problemrepository contains the PostgreSQL problem and contest repositories
package problemrepository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gitlab.com/ojcore.net/internal/core/ports/primary"
	"gitlab.com/ojcore.net/internal/core/ports/secondary"
	"gitlab.com/ojcore.net/internal/domain"
	"gitlab.com/ojcore.net/internal/static/errs"
)

var _ secondary.ProblemRepository = &ProblemRepository{}
var _ secondary.ContestRepository = &ContestRepository{}

// ProblemRepository implements the ProblemRepository interface with PostgreSQL
type ProblemRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewProblemRepository creates a new PostgreSQL problem repository
func NewProblemRepository(db *sqlx.DB, logger primary.Logger) *ProblemRepository {
	return &ProblemRepository{
		db:     db,
		logger: logger,
	}
}

const problemColumns = `
	id, display_id, contest_id, rule_type, time_limit, memory_limit,
	test_case_id, test_case_score, template, policy, io_mode,
	submission_number, accepted_number, statistic_info
`

// GetProblem retrieves a practice problem by ID
func (r *ProblemRepository) GetProblem(ctx context.Context, id int64) (*domain.Problem, error) {
	query := `SELECT` + problemColumns + `FROM problems WHERE id = $1 AND contest_id IS NULL`
	return r.scanProblem(r.db.QueryRowContext(ctx, query, id))
}

// GetContestProblem retrieves a problem scoped to a contest
func (r *ProblemRepository) GetContestProblem(ctx context.Context, id, contestID int64) (*domain.Problem, error) {
	query := `SELECT` + problemColumns + `FROM problems WHERE id = $1 AND contest_id = $2`
	return r.scanProblem(r.db.QueryRowContext(ctx, query, id, contestID))
}

func (r *ProblemRepository) scanProblem(row *sql.Row) (*domain.Problem, error) {
	p, err := ScanProblem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ProblemNotFound
		}
		r.logger.Error("Failed to get problem", "error", err)
		return nil, err
	}
	return p, nil
}

// rowScanner covers both sql.Row and sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// ScanProblem decodes one problem row, shared with the stats store.
func ScanProblem(row rowScanner) (*domain.Problem, error) {
	var p domain.Problem
	var contestID sql.NullInt64
	var policy sql.NullString
	var testCaseScore, template, ioMode, statisticInfo []byte

	err := row.Scan(
		&p.ID,
		&p.DisplayID,
		&contestID,
		&p.RuleType,
		&p.TimeLimit,
		&p.MemoryLimit,
		&p.TestCaseID,
		&testCaseScore,
		&template,
		&policy,
		&ioMode,
		&p.SubmissionNumber,
		&p.AcceptedNumber,
		&statisticInfo,
	)
	if err != nil {
		return nil, err
	}

	if contestID.Valid {
		p.ContestID = &contestID.Int64
	}
	if policy.Valid {
		p.PolicyRaw = policy.String
	}
	if len(testCaseScore) > 0 {
		if err := json.Unmarshal(testCaseScore, &p.TestCaseScore); err != nil {
			return nil, fmt.Errorf("failed to decode test_case_score: %w", err)
		}
	}
	if len(template) > 0 {
		if err := json.Unmarshal(template, &p.Template); err != nil {
			return nil, fmt.Errorf("failed to decode template: %w", err)
		}
	}
	if len(ioMode) > 0 {
		if err := json.Unmarshal(ioMode, &p.IOMode); err != nil {
			return nil, fmt.Errorf("failed to decode io_mode: %w", err)
		}
	}
	if len(statisticInfo) > 0 {
		if err := json.Unmarshal(statisticInfo, &p.StatisticInfo); err != nil {
			return nil, fmt.Errorf("failed to decode statistic_info: %w", err)
		}
	}
	return &p, nil
}

// ContestRepository implements the ContestRepository interface with PostgreSQL
type ContestRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewContestRepository creates a new PostgreSQL contest repository
func NewContestRepository(db *sqlx.DB, logger primary.Logger) *ContestRepository {
	return &ContestRepository{
		db:     db,
		logger: logger,
	}
}

// GetContest retrieves a contest by ID
func (r *ContestRepository) GetContest(ctx context.Context, id int64) (*domain.Contest, error) {
	query := `
		SELECT id, rule_type, start_time, end_time, real_time_rank, created_by_id, admin_ids
		FROM contests
		WHERE id = $1
	`

	var c domain.Contest
	var adminIDs pq.Int64Array
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.RuleType,
		&c.StartTime,
		&c.EndTime,
		&c.RealTimeRank,
		&c.CreatedByID,
		&adminIDs,
	)
	if err != nil {
		r.logger.Error("Failed to get contest", "contestId", id, "error", err)
		return nil, fmt.Errorf("failed to get contest: %w", err)
	}
	c.AdminIDs = adminIDs
	return &c, nil
}
