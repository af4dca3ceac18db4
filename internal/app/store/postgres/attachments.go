package pgstore

import (
	"context"
	"errors"

	"github.com/dalemusser/projecthub/internal/app/store"
	"github.com/dalemusser/projecthub/internal/domain/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Attachments is the odg_project_request_attachments table.
type Attachments struct {
	pool *pgxpool.Pool
}

const attachmentColumns = `id, request_id, submission_id, file_name, file_path, file_size, content_type, created_at`

func scanAttachment(row pgx.Row) (models.Attachment, error) {
	var a models.Attachment
	err := row.Scan(&a.ID, &a.RequestID, &a.SubmissionID, &a.FileName, &a.FilePath, &a.FileSize, &a.ContentType, &a.CreatedAt)
	return a, err
}

func (s *Attachments) Create(ctx context.Context, a models.Attachment) (models.Attachment, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO odg_project_request_attachments
			(request_id, submission_id, file_name, file_path, file_size, content_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+attachmentColumns,
		a.RequestID, a.SubmissionID, a.FileName, a.FilePath, a.FileSize, a.ContentType)
	return scanAttachment(row)
}

func (s *Attachments) ListByRequest(ctx context.Context, requestID int64) ([]models.Attachment, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+attachmentColumns+` FROM odg_project_request_attachments WHERE request_id = $1 ORDER BY id`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Attachment{}
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Attachments) GetByID(ctx context.Context, requestID, id int64) (models.Attachment, error) {
	a, err := scanAttachment(s.pool.QueryRow(ctx,
		`SELECT `+attachmentColumns+` FROM odg_project_request_attachments WHERE id = $1 AND request_id = $2`, id, requestID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Attachment{}, store.ErrNotFound
	}
	return a, err
}
