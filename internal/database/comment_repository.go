package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

type commentRow struct {
	ID          string                          `db:"id"`
	ComplaintID string                          `db:"complaint_id"`
	AuthorID    string                          `db:"author_id"`
	Author      jsonColumn[domain.UserSnapshot] `db:"author"`
	IsAdmin     bool                            `db:"is_admin"`
	Text        string                          `db:"text"`
	CreatedAt   time.Time                       `db:"created_at"`
}

// CommentRepository persists comment threads.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository creates a comment repository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// InsertComment appends a comment. The complaint must exist.
func (r *CommentRepository) InsertComment(ctx context.Context, c *domain.Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (id, complaint_id, author_id, author, is_admin, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID,
		c.ComplaintID,
		c.Author.ID,
		jsonColumn[domain.UserSnapshot]{V: c.Author},
		c.IsAdmin,
		c.Text,
		c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// ListComments returns a thread oldest first.
func (r *CommentRepository) ListComments(ctx context.Context, complaintID string) ([]*domain.Comment, error) {
	var rows []commentRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, complaint_id, author_id, author, is_admin, text, created_at
		FROM comments
		WHERE complaint_id = $1
		ORDER BY created_at ASC, id ASC`, complaintID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	out := make([]*domain.Comment, len(rows))
	for i, row := range rows {
		out[i] = &domain.Comment{
			ID:          row.ID,
			ComplaintID: row.ComplaintID,
			Author:      row.Author.V,
			IsAdmin:     row.IsAdmin,
			Text:        row.Text,
			CreatedAt:   row.CreatedAt,
		}
	}
	return out, nil
}

// DeleteComment removes one comment and reports the complaint it belonged to.
func (r *CommentRepository) DeleteComment(ctx context.Context, id string) (string, bool, error) {
	var complaintID string
	err := r.db.QueryRowxContext(ctx, `DELETE FROM comments WHERE id = $1 RETURNING complaint_id`, id).Scan(&complaintID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("delete comment: %w", err)
	}
	return complaintID, true, nil
}
