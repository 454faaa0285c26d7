package admission

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gitlab.com/ojcore.net/internal/core/ports/primary"
	"gitlab.com/ojcore.net/internal/core/ports/secondary"
	"gitlab.com/ojcore.net/internal/domain"
)

var _ IAdmissionService = &AdmissionService{}

// AdmissionService serializes slot accounting behind a mutex so two
// concurrent callers can never both pass the capacity check for the last
// slot. The repository persists the counters; the mutex is the serialization
// point for this process.
type AdmissionService struct {
	mu         sync.Mutex
	serverRepo secondary.JudgeServerRepository
	logger     primary.Logger
	now        func() time.Time
}

// NewAdmissionService creates a new admission service
func NewAdmissionService(serverRepo secondary.JudgeServerRepository, logger primary.Logger) *AdmissionService {
	return &AdmissionService{
		serverRepo: serverRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// Acquire scans enabled, healthy servers in ascending load order and grants
// the first one with spare capacity.
func (s *AdmissionService) Acquire(ctx context.Context) (*domain.JudgeServer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	servers, err := s.serverRepo.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list judge servers: %w", err)
	}

	now := s.now()
	for _, server := range servers {
		if !server.IsNormal(now) {
			continue
		}
		if !server.HasCapacity() {
			continue
		}
		if err := s.serverRepo.IncrTaskNumber(ctx, server.ID); err != nil {
			return nil, fmt.Errorf("failed to grant slot on server %d: %w", server.ID, err)
		}
		server.TaskNumber++
		s.logger.Debug("Granted judge server slot", "serverId", server.ID, "taskNumber", server.TaskNumber)
		return server, nil
	}

	return nil, nil
}

// Release returns one slot
func (s *AdmissionService) Release(ctx context.Context, serverID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.serverRepo.DecrTaskNumber(ctx, serverID); err != nil {
		s.logger.Error("Failed to release judge server slot", "serverId", serverID, "error", err)
		return fmt.Errorf("failed to release slot on server %d: %w", serverID, err)
	}
	return nil
}
