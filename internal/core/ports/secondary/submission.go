package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/ojcore.net/internal/domain"
)

type SubmissionRepository interface {
	// GetSubmission retrieves a submission by ID
	GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error)

	// UpdateResult sets only the verdict column (used for the Judging marker)
	UpdateResult(ctx context.Context, id uuid.UUID, result domain.Verdict) error

	// SaveVerdict persists result, statistic_info and raw judge info together
	SaveVerdict(ctx context.Context, sub *domain.Submission) error
}
