package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

const complaintColumns = `id, title, description, latitude, longitude, address, category,
	entity_id, entity_name, entity, classification_method, status, priority,
	submitter_id, submitter, rating, rating_comment, redirected,
	created_at, updated_at, resolved_at, confidence, reasoning, images`

type complaintRow struct {
	ID                   string                            `db:"id"`
	Title                string                            `db:"title"`
	Description          string                            `db:"description"`
	Latitude             float64                           `db:"latitude"`
	Longitude            float64                           `db:"longitude"`
	Address              string                            `db:"address"`
	Category             string                            `db:"category"`
	EntityID             string                            `db:"entity_id"`
	EntityName           string                            `db:"entity_name"`
	Entity               jsonColumn[domain.EntitySnapshot] `db:"entity"`
	ClassificationMethod string                            `db:"classification_method"`
	Status               string                            `db:"status"`
	Priority             string                            `db:"priority"`
	SubmitterID          string                            `db:"submitter_id"`
	Submitter            jsonColumn[domain.UserSnapshot]   `db:"submitter"`
	Rating               sql.NullInt32                     `db:"rating"`
	RatingComment        string                            `db:"rating_comment"`
	Redirected           bool                              `db:"redirected"`
	CreatedAt            time.Time                         `db:"created_at"`
	UpdatedAt            time.Time                         `db:"updated_at"`
	ResolvedAt           sql.NullTime                      `db:"resolved_at"`
	Confidence           int                               `db:"confidence"`
	Reasoning            string                            `db:"reasoning"`
	Images               pq.StringArray                    `db:"images"`
}

func (r *complaintRow) toDomain() *domain.Complaint {
	c := &domain.Complaint{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Location: domain.Location{
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Address:   r.Address,
		},
		Images:               append([]string{}, r.Images...),
		Category:             r.Category,
		EntityName:           r.EntityName,
		Entity:               r.Entity.V,
		ClassificationMethod: domain.ClassificationMethod(r.ClassificationMethod),
		Confidence:           r.Confidence,
		Reasoning:            r.Reasoning,
		Status:               domain.Status(r.Status),
		Priority:             domain.Priority(r.Priority),
		Submitter:            r.Submitter.V,
		RatingComment:        r.RatingComment,
		Redirected:           r.Redirected,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
	if r.Rating.Valid {
		rating := int(r.Rating.Int32)
		c.Rating = &rating
	}
	if r.ResolvedAt.Valid {
		t := r.ResolvedAt.Time
		c.ResolvedAt = &t
	}
	return c
}

// ComplaintRepository persists complaints.
type ComplaintRepository struct {
	db *sqlx.DB
}

// NewComplaintRepository creates a complaint repository.
func NewComplaintRepository(db *sqlx.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// InsertComplaint stores a new complaint. A duplicate id is ErrConflict.
func (r *ComplaintRepository) InsertComplaint(ctx context.Context, c *domain.Complaint) error {
	query := `INSERT INTO complaints (` + complaintColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)`

	var rating sql.NullInt32
	if c.Rating != nil {
		rating = sql.NullInt32{Int32: int32(*c.Rating), Valid: true} //nolint:gosec // rating is 1-5
	}
	var resolvedAt sql.NullTime
	if c.ResolvedAt != nil {
		resolvedAt = sql.NullTime{Time: *c.ResolvedAt, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Title,
		c.Description,
		c.Location.Latitude,
		c.Location.Longitude,
		c.Location.Address,
		c.Category,
		c.Entity.ID,
		c.EntityName,
		jsonColumn[domain.EntitySnapshot]{V: c.Entity},
		string(c.ClassificationMethod),
		string(c.Status),
		string(c.Priority),
		c.Submitter.ID,
		jsonColumn[domain.UserSnapshot]{V: c.Submitter},
		rating,
		c.RatingComment,
		c.Redirected,
		c.CreatedAt,
		c.UpdatedAt,
		resolvedAt,
		c.Confidence,
		c.Reasoning,
		pq.StringArray(append([]string{}, c.Images...)),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("complaint %q: %w", c.ID, domain.ErrConflict)
		}
		return fmt.Errorf("insert complaint: %w", err)
	}
	return nil
}

// GetComplaint returns one complaint or ErrNotFound.
func (r *ComplaintRepository) GetComplaint(ctx context.Context, id string) (*domain.Complaint, error) {
	var row complaintRow
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("complaint", id)
		}
		return nil, fmt.Errorf("get complaint: %w", err)
	}
	return row.toDomain(), nil
}

// ListComplaints returns complaints newest first.
func (r *ComplaintRepository) ListComplaints(ctx context.Context, filter domain.ComplaintFilter) ([]*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints`
	var args []any
	if filter.OwnerID != "" {
		query += ` WHERE submitter_id = $1`
		args = append(args, filter.OwnerID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var rows []complaintRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	out := make([]*domain.Complaint, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// UpdateComplaint applies the set fields of patch in one statement.
func (r *ComplaintRepository) UpdateComplaint(ctx context.Context, id string, patch domain.ComplaintPatch) (bool, error) {
	query, args := buildComplaintUpdate(id, patch)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update complaint: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update complaint rows affected: %w", err)
	}
	return n > 0, nil
}

func buildComplaintUpdate(id string, p domain.ComplaintPatch) (string, []any) {
	var sets []string
	var args []any
	set := func(expr string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(expr, len(args)))
	}

	if p.Status != nil {
		set("status = $%d", string(*p.Status))
	}
	if p.Priority != nil {
		set("priority = $%d", string(*p.Priority))
	}
	if p.Rating != nil {
		set("rating = $%d", *p.Rating)
	}
	if p.RatingComment != nil {
		set("rating_comment = $%d", *p.RatingComment)
	}
	if p.Redirected != nil {
		set("redirected = $%d", *p.Redirected)
	}
	if p.Category != nil {
		set("category = $%d", *p.Category)
	}
	if p.Entity != nil {
		set("entity_id = $%d", p.Entity.ID)
		set("entity_name = $%d", p.Entity.Name)
		set("entity = $%d", jsonColumn[domain.EntitySnapshot]{V: *p.Entity})
	}
	if p.ClassificationMethod != nil {
		set("classification_method = $%d", string(*p.ClassificationMethod))
	}
	if p.Confidence != nil {
		set("confidence = $%d", *p.Confidence)
	}
	if p.Reasoning != nil {
		set("reasoning = $%d", *p.Reasoning)
	}
	if p.ResolvedAt != nil {
		set("resolved_at = COALESCE(resolved_at, $%d)", *p.ResolvedAt)
	}
	set("updated_at = GREATEST(updated_at, $%d)", p.UpdatedAt)

	args = append(args, id)
	query := fmt.Sprintf("UPDATE complaints SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	return query, args
}

// DeleteComplaint removes the complaint and its comments in one transaction.
func (r *ComplaintRepository) DeleteComplaint(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin delete: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM comments WHERE complaint_id = $1`, id); err != nil {
		return false, fmt.Errorf("delete comments: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM complaints WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete complaint: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete complaint rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete: %w", err)
	}
	return true, nil
}

// ScanComplaints streams every complaint to fn without loading them all.
func (r *ComplaintRepository) ScanComplaints(ctx context.Context, fn func(*domain.Complaint) error) error {
	rows, err := r.db.QueryxContext(ctx, `SELECT `+complaintColumns+` FROM complaints`)
	if err != nil {
		return fmt.Errorf("scan complaints: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var row complaintRow
		if err = rows.StructScan(&row); err != nil {
			return fmt.Errorf("scan complaint row: %w", err)
		}
		if err = fn(row.toDomain()); err != nil {
			return err
		}
	}
	return rows.Err()
}

// CountByEntity returns how many complaints are assigned to entityID.
func (r *ComplaintRepository) CountByEntity(ctx context.Context, entityID string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM complaints WHERE entity_id = $1`, entityID); err != nil {
		return 0, fmt.Errorf("count complaints by entity: %w", err)
	}
	return n, nil
}
