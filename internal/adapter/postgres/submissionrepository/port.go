// package submissionrepository contains the PostgreSQL submission repository
package submissionrepository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"gitlab.com/ojcore.net/internal/core/ports/primary"
	"gitlab.com/ojcore.net/internal/core/ports/secondary"
	"gitlab.com/ojcore.net/internal/domain"
	"gitlab.com/ojcore.net/internal/static/errs"
)

var _ secondary.SubmissionRepository = &SubmissionRepository{}

// SubmissionRepository implements the SubmissionRepository interface with PostgreSQL
type SubmissionRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewSubmissionRepository creates a new PostgreSQL submission repository
func NewSubmissionRepository(db *sqlx.DB, logger primary.Logger) *SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

// GetSubmission retrieves a submission by ID
func (r *SubmissionRepository) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	query := `
		SELECT id, user_id, username, problem_id, contest_id, code, language,
			   result, info, statistic_info, create_time
		FROM submissions
		WHERE id = $1
	`

	var sub domain.Submission
	var contestID sql.NullInt64
	var info, statisticInfo []byte

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID,
		&sub.UserID,
		&sub.Username,
		&sub.ProblemID,
		&contestID,
		&sub.Code,
		&sub.Language,
		&sub.Result,
		&info,
		&statisticInfo,
		&sub.CreateTime,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.SubmissionNotFound
		}
		r.logger.Error("Failed to get submission", "submissionId", id, "error", err)
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	if len(info) > 0 && string(info) != "null" {
		sub.Info = json.RawMessage(info)
	}
	if len(statisticInfo) > 0 {
		if err := json.Unmarshal(statisticInfo, &sub.StatisticInfo); err != nil {
			return nil, fmt.Errorf("failed to decode statistic_info: %w", err)
		}
	}
	if contestID.Valid {
		sub.ContestID = &contestID.Int64
	}
	return &sub, nil
}

// UpdateResult sets only the verdict column
func (r *SubmissionRepository) UpdateResult(ctx context.Context, id uuid.UUID, result domain.Verdict) error {
	query := `UPDATE submissions SET result = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, result); err != nil {
		r.logger.Error("Failed to update submission result", "submissionId", id, "error", err)
		return fmt.Errorf("failed to update submission result: %w", err)
	}
	return nil
}

// SaveVerdict persists result, statistic_info and raw judge info together
func (r *SubmissionRepository) SaveVerdict(ctx context.Context, sub *domain.Submission) error {
	statisticInfo, err := json.Marshal(sub.StatisticInfo)
	if err != nil {
		return fmt.Errorf("failed to marshal statistic_info: %w", err)
	}
	info := []byte("null")
	if len(sub.Info) > 0 {
		info = sub.Info
	}

	query := `
		UPDATE submissions
		SET result = $2, info = $3, statistic_info = $4
		WHERE id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, sub.ID, sub.Result, info, statisticInfo); err != nil {
		r.logger.Error("Failed to save submission verdict", "submissionId", sub.ID, "error", err)
		return fmt.Errorf("failed to save submission verdict: %w", err)
	}
	return nil
}
