package judge

import (
	"context"

	"github.com/google/uuid"
)

// IJudgeService runs the whole judging workflow for one submission: policy
// gates, worker admission, the judge server call, verdict interpretation and
// stats propagation. The API layer invokes it asynchronously right after
// creating the submission, and identically for administrative rejudge and for
// queue drain.
type IJudgeService interface {
	Judge(ctx context.Context, submissionID uuid.UUID, problemID int64) error
}
