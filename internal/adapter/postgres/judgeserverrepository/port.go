// package judgeserverrepository contains the PostgreSQL judge server repository
package judgeserverrepository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"gitlab.com/ojcore.net/internal/core/ports/primary"
	"gitlab.com/ojcore.net/internal/core/ports/secondary"
	"gitlab.com/ojcore.net/internal/domain"
)

var _ secondary.JudgeServerRepository = &JudgeServerRepository{}

// JudgeServerRepository implements the JudgeServerRepository interface with
// PostgreSQL. Task counters are only touched through Incr/Decr so the
// admission controller's serialization is the single write path.
type JudgeServerRepository struct {
	db     *sqlx.DB
	logger primary.Logger
}

// NewJudgeServerRepository creates a new PostgreSQL judge server repository
func NewJudgeServerRepository(db *sqlx.DB, logger primary.Logger) *JudgeServerRepository {
	return &JudgeServerRepository{
		db:     db,
		logger: logger,
	}
}

// ListEnabled retrieves non-disabled servers ordered by ascending load
func (r *JudgeServerRepository) ListEnabled(ctx context.Context) ([]*domain.JudgeServer, error) {
	query := `
		SELECT id, hostname, service_url, cpu_core, task_number, is_disabled, last_heartbeat
		FROM judge_servers
		WHERE is_disabled = FALSE
		ORDER BY task_number ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list judge servers", "error", err)
		return nil, fmt.Errorf("failed to list judge servers: %w", err)
	}
	defer rows.Close()

	var servers []*domain.JudgeServer
	for rows.Next() {
		var s domain.JudgeServer
		if err := rows.Scan(&s.ID, &s.Hostname, &s.ServiceURL, &s.CPUCore, &s.TaskNumber, &s.IsDisabled, &s.LastHeartbeat); err != nil {
			return nil, fmt.Errorf("failed to scan judge server: %w", err)
		}
		servers = append(servers, &s)
	}
	return servers, rows.Err()
}

// IncrTaskNumber adds one in-flight task to the server row
func (r *JudgeServerRepository) IncrTaskNumber(ctx context.Context, serverID int64) error {
	query := `UPDATE judge_servers SET task_number = task_number + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, serverID); err != nil {
		return fmt.Errorf("failed to increment task number: %w", err)
	}
	return nil
}

// DecrTaskNumber removes one in-flight task from the server row
func (r *JudgeServerRepository) DecrTaskNumber(ctx context.Context, serverID int64) error {
	query := `UPDATE judge_servers SET task_number = task_number - 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, serverID); err != nil {
		return fmt.Errorf("failed to decrement task number: %w", err)
	}
	return nil
}
