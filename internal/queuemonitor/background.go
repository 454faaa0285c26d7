package queuemonitor

import (
	"context"
	"time"

	"gitlab.com/ojcore.net/internal/core/ports/primary"
	"gitlab.com/ojcore.net/internal/core/ports/secondary"
)

// Monitor periodically reports the pending-queue backlog. The drain loop
// itself rides on completed judgings; this only gives operators visibility
// when the pool stays saturated and the backlog keeps growing.
type Monitor struct {
	queue    secondary.PendingQueue
	logger   primary.Logger
	interval time.Duration
}

// NewMonitor creates a new backlog monitor
func NewMonitor(queue secondary.PendingQueue, logger primary.Logger, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Monitor{
		queue:    queue,
		logger:   logger,
		interval: interval,
	}
}

// Start launches the reporting loop; it stops when ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.report(ctx)
			}
		}
	}()
}

func (m *Monitor) report(ctx context.Context) {
	n, err := m.queue.Len(ctx)
	if err != nil {
		m.logger.Error("Failed to measure judge backlog", "error", err)
		return
	}
	if n > 0 {
		m.logger.Warn("Judge backlog is non-empty", "pending", n)
	}
}
