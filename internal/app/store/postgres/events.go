package pgstore

import (
	"context"
	"time"

	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Events is the project_events table.
type Events struct {
	pool *pgxpool.Pool
}

func (s *Events) Log(ctx context.Context, e models.ProjectEvent) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO project_events (id, occurred_at, event_type, project_id, actor, ip, success, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.Timestamp, e.EventType, e.ProjectID, e.Actor, e.IP, e.Success, e.Details)
	return err
}

func (s *Events) ListByProject(ctx context.Context, projectID int64, limit int64) ([]models.ProjectEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, occurred_at, event_type, project_id, actor, ip, success, details
		FROM project_events
		WHERE project_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2`, projectID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ProjectEvent
	for rows.Next() {
		var e models.ProjectEvent
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.EventType, &e.ProjectID, &e.Actor, &e.IP, &e.Success, &e.Details); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
