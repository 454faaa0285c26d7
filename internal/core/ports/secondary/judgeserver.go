package secondary

import (
	"context"

	"gitlab.com/ojcore.net/internal/domain"
)

type JudgeServerRepository interface {
	// ListEnabled retrieves non-disabled servers ordered by ascending load
	ListEnabled(ctx context.Context) ([]*domain.JudgeServer, error)

	// IncrTaskNumber adds one in-flight task to the server row
	IncrTaskNumber(ctx context.Context, serverID int64) error

	// DecrTaskNumber removes one in-flight task from the server row
	DecrTaskNumber(ctx context.Context, serverID int64) error
}
