package admission

import (
	"context"

	"gitlab.com/ojcore.net/internal/domain"
)

// IAdmissionService grants and returns execution slots on the judge server
// pool. Every successful Acquire must be paired with exactly one Release on
// every exit path, including failed dispatch calls.
type IAdmissionService interface {
	// Acquire returns the least-loaded healthy server with spare capacity and
	// increments its task counter. Returns (nil, nil) when no server qualifies.
	Acquire(ctx context.Context) (*domain.JudgeServer, error)

	// Release returns one slot to the given server
	Release(ctx context.Context, serverID int64) error
}
