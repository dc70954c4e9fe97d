package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

const entityColumns = `id, name, description, website, email, phone, whatsapp, address,
	categories, active, position, created_at, updated_at`

type entityRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Website     string         `db:"website"`
	Email       string         `db:"email"`
	Phone       string         `db:"phone"`
	WhatsApp    string         `db:"whatsapp"`
	Address     string         `db:"address"`
	Categories  pq.StringArray `db:"categories"`
	Active      bool           `db:"active"`
	Position    int            `db:"position"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r *entityRow) toDomain() domain.Entity {
	return domain.Entity{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Website:     r.Website,
		Email:       r.Email,
		Phone:       r.Phone,
		WhatsApp:    r.WhatsApp,
		Address:     r.Address,
		Categories:  []string(r.Categories),
		Active:      r.Active,
		Position:    r.Position,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// EntityRepository persists the entity directory.
type EntityRepository struct {
	db *sqlx.DB
}

// NewEntityRepository creates an entity repository.
func NewEntityRepository(db *sqlx.DB) *EntityRepository {
	return &EntityRepository{db: db}
}

// ListEntities returns every entity, active or not, by position.
func (r *EntityRepository) ListEntities(ctx context.Context) ([]domain.Entity, error) {
	var rows []entityRow
	query := `SELECT ` + entityColumns + ` FROM entities ORDER BY position ASC, id ASC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	out := make([]domain.Entity, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

// InsertEntity adds an entity. A taken id is ErrConflict.
func (r *EntityRepository) InsertEntity(ctx context.Context, e *domain.Entity) error {
	if err := insertEntity(ctx, r.db, e); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("entity %q: %w", e.ID, domain.ErrConflict)
		}
		return fmt.Errorf("insert entity: %w", err)
	}
	return nil
}

func insertEntity(ctx context.Context, db sqlx.ExecerContext, e *domain.Entity) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO entities (`+entityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		e.ID,
		e.Name,
		e.Description,
		e.Website,
		e.Email,
		e.Phone,
		e.WhatsApp,
		e.Address,
		pq.Array(e.Categories),
		e.Active,
		e.Position,
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

// UpdateEntity replaces every mutable field of an entity.
func (r *EntityRepository) UpdateEntity(ctx context.Context, e *domain.Entity) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE entities
		SET name = $2, description = $3, website = $4, email = $5, phone = $6,
		    whatsapp = $7, address = $8, categories = $9, active = $10,
		    position = $11, updated_at = $12
		WHERE id = $1`,
		e.ID,
		e.Name,
		e.Description,
		e.Website,
		e.Email,
		e.Phone,
		e.WhatsApp,
		e.Address,
		pq.Array(e.Categories),
		e.Active,
		e.Position,
		e.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("update entity: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update entity rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteEntity removes an entity by id.
func (r *EntityRepository) DeleteEntity(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM entities WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete entity: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete entity rows affected: %w", err)
	}
	return n > 0, nil
}

// SeedEntities inserts catalog when the table is empty. The table lock keeps
// two instances starting together from both seeding.
func (r *EntityRepository) SeedEntities(ctx context.Context, catalog []domain.Entity) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.ExecContext(ctx, `LOCK TABLE entities IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return 0, fmt.Errorf("lock entities: %w", err)
	}
	var existing int
	if err = tx.GetContext(ctx, &existing, `SELECT COUNT(*) FROM entities`); err != nil {
		return 0, fmt.Errorf("count entities: %w", err)
	}
	if existing > 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	for i := range catalog {
		e := catalog[i]
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
			e.UpdatedAt = now
		}
		if err = insertEntity(ctx, tx, &e); err != nil {
			return 0, fmt.Errorf("seed entity %q: %w", e.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return len(catalog), nil
}
