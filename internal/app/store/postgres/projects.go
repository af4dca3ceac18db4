package pgstore

import (
	"context"
	"errors"

	"github.com/dalemusser/projecthub/internal/app/store"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Projects is the odg_projects repository.
type Projects struct {
	pool *pgxpool.Pool
}

const projectColumns = `id, project_name, coordinator, phone, province, district, village,
	image_url, status, project_description,
	to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
	request_status, created_at`

func scanProject(row pgx.Row) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.ProjectName, &p.Coordinator, &p.Phone,
		&p.Province, &p.District, &p.Village,
		&p.ImageURL, &p.Status, &p.ProjectDescription,
		&p.StartDate, &p.EndDate,
		&p.RequestStatus, &p.CreatedAt)
	return p, err
}

func (s *Projects) Create(ctx context.Context, p models.Project) (models.Project, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO odg_projects
			(project_name, province, district, village, coordinator, phone, image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+projectColumns,
		p.ProjectName, p.Province, p.District, p.Village, p.Coordinator, p.Phone, p.ImageURL, p.Status)
	return scanProject(row)
}

func (s *Projects) List(ctx context.Context) ([]models.Project, error) {
	return s.query(ctx, `SELECT `+projectColumns+` FROM odg_projects ORDER BY created_at DESC, id DESC`)
}

func (s *Projects) ListSubmitted(ctx context.Context) ([]models.Project, error) {
	return s.query(ctx, `SELECT `+projectColumns+` FROM odg_projects WHERE request_status = 1 ORDER BY created_at DESC, id DESC`)
}

func (s *Projects) query(ctx context.Context, sql string, args ...any) ([]models.Project, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Projects) GetByID(ctx context.Context, id int64) (models.Project, error) {
	p, err := scanProject(s.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM odg_projects WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Project{}, store.ErrNotFound
	}
	return p, err
}

func (s *Projects) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE odg_projects SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Projects) ApplyRequest(ctx context.Context, id int64, u models.RequestUpdate, allowResubmit bool) error {
	sql := `
		UPDATE odg_projects
		SET project_description = $1,
			start_date = $2::date,
			end_date = $3::date,
			request_status = 1
		WHERE id = $4`
	if !allowResubmit {
		sql += ` AND request_status <> 1`
	}
	tag, err := s.pool.Exec(ctx, sql, u.ProjectDescription, u.StartDate, u.EndDate, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	if allowResubmit {
		return store.ErrNotFound
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM odg_projects WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound
	}
	return store.ErrAlreadySubmitted
}

// Delete removes the project and its attachment rows in one transaction.
func (s *Projects) Delete(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM odg_projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	if _, err := tx.Exec(ctx, `DELETE FROM odg_project_request_attachments WHERE request_id = $1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
