package directory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

// AssignmentCounter reports how many complaints point at an entity.
type AssignmentCounter interface {
	CountByEntity(ctx context.Context, entityID string) (int, error)
}

// EntityInput carries the writable fields of an entity. A nil Active keeps
// the current value on update and defaults to true on create.
type EntityInput struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Website     string   `json:"website"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	WhatsApp    string   `json:"whatsapp"`
	Address     string   `json:"address"`
	Categories  []string `json:"categories"`
	Active      *bool    `json:"active"`
	Position    int      `json:"position"`
}

// Manager applies administrative entity changes. Each change is checked
// against the prospective directory, persisted, then the directory is
// reloaded so classification sees it.
type Manager struct {
	dir        *Directory
	store      domain.EntityStore
	complaints AssignmentCounter
	log        logger.Logger
	now        func() time.Time
}

// NewManager wires a Manager.
func NewManager(dir *Directory, store domain.EntityStore, complaints AssignmentCounter, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{dir: dir, store: store, complaints: complaints, log: log, now: time.Now}
}

// Create adds an entity. The id is derived from the name when omitted.
func (m *Manager) Create(ctx context.Context, in EntityInput) (domain.Entity, error) {
	in.normalize()
	if in.ID == "" {
		in.ID = Slug(in.Name)
	}
	if err := in.validate(); err != nil {
		return domain.Entity{}, err
	}

	now := m.now().UTC()
	e := domain.Entity{CreatedAt: now, UpdatedAt: now, Active: true}
	in.applyTo(&e)
	if e.Position <= 0 {
		e.Position = m.nextPosition()
	}
	if err := m.admit(append(m.dir.List(), e)); err != nil {
		return domain.Entity{}, err
	}

	if err := m.store.InsertEntity(ctx, &e); err != nil {
		return domain.Entity{}, fmt.Errorf("insert entity %s: %w", e.ID, err)
	}
	if err := m.dir.Reload(ctx); err != nil {
		return domain.Entity{}, err
	}

	m.log.Info("Entity created", logger.EntityID(e.ID), logger.Strings("categories", e.Categories))
	return e, nil
}

// Update replaces the writable fields of an existing entity. Complaints keep
// their snapshots.
func (m *Manager) Update(ctx context.Context, id string, in EntityInput) (domain.Entity, error) {
	in.normalize()
	in.ID = id
	if err := in.validate(); err != nil {
		return domain.Entity{}, err
	}

	e, err := m.dir.Get(id)
	if err != nil {
		return domain.Entity{}, err
	}
	in.applyTo(&e)
	e.UpdatedAt = m.now().UTC()

	next := m.dir.List()
	next[slices.IndexFunc(next, func(x domain.Entity) bool { return x.ID == id })] = e
	if admitErr := m.admit(next); admitErr != nil {
		return domain.Entity{}, admitErr
	}

	matched, err := m.store.UpdateEntity(ctx, &e)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("update entity %s: %w", id, err)
	}
	if !matched {
		return domain.Entity{}, domain.NotFound("entity", id)
	}
	if reloadErr := m.dir.Reload(ctx); reloadErr != nil {
		return domain.Entity{}, reloadErr
	}

	m.log.Info("Entity updated", logger.EntityID(id))
	return e, nil
}

// Delete removes an entity that no complaint is assigned to. The fallback
// entity cannot be deleted.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if id == m.dir.Fallback().ID {
		return fmt.Errorf("entity %q is the fallback entity: %w", id, domain.ErrConflict)
	}
	if _, err := m.dir.Get(id); err != nil {
		return err
	}

	if m.complaints != nil {
		n, err := m.complaints.CountByEntity(ctx, id)
		if err != nil {
			return fmt.Errorf("count complaints for %s: %w", id, err)
		}
		if n > 0 {
			return fmt.Errorf("entity %q has %d complaints assigned: %w", id, n, domain.ErrConflict)
		}
	}

	remaining := slices.DeleteFunc(m.dir.List(), func(x domain.Entity) bool { return x.ID == id })
	if err := m.admit(remaining); err != nil {
		return err
	}

	matched, err := m.store.DeleteEntity(ctx, id)
	if err != nil {
		return fmt.Errorf("delete entity %s: %w", id, err)
	}
	if !matched {
		return domain.NotFound("entity", id)
	}
	if reloadErr := m.dir.Reload(ctx); reloadErr != nil {
		return reloadErr
	}

	m.log.Info("Entity deleted", logger.EntityID(id))
	return nil
}

// Reload refreshes the directory from the store on demand.
func (m *Manager) Reload(ctx context.Context) error {
	return m.dir.Reload(ctx)
}

// admit rejects a change before it reaches the store when the resulting
// directory could not be built, so a restart can always load it.
func (m *Manager) admit(prospective []domain.Entity) error {
	if _, err := build(prospective, m.dir.fallbackID); err != nil {
		if errors.Is(err, ErrEmpty) {
			return fmt.Errorf("at least one entity must stay active: %w: %w", domain.ErrConflict, err)
		}
		return err
	}
	return nil
}

func (m *Manager) nextPosition() int {
	highest := 0
	for _, e := range m.dir.List() {
		highest = max(highest, e.Position)
	}
	return highest + 1
}

func (in *EntityInput) normalize() {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Website = strings.TrimSpace(in.Website)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.WhatsApp = strings.TrimSpace(in.WhatsApp)
	in.Address = strings.TrimSpace(in.Address)

	cats := make([]string, 0, len(in.Categories))
	for _, c := range in.Categories {
		if c = strings.TrimSpace(c); c != "" {
			cats = append(cats, c)
		}
	}
	in.Categories = cats
}

func (in *EntityInput) validate() error {
	if in.Name == "" {
		return domain.Invalid("name", "is required")
	}
	if in.ID == "" {
		return domain.Invalid("id", "could not be derived from name")
	}
	if len(in.Categories) == 0 {
		return domain.Invalid("categories", "at least one category is required")
	}
	return nil
}

func (in *EntityInput) applyTo(e *domain.Entity) {
	e.ID = in.ID
	e.Name = in.Name
	e.Description = in.Description
	e.Website = in.Website
	e.Email = in.Email
	e.Phone = in.Phone
	e.WhatsApp = in.WhatsApp
	e.Address = in.Address
	e.Categories = in.Categories
	if in.Active != nil {
		e.Active = *in.Active
	}
	if in.Position > 0 {
		e.Position = in.Position
	}
}

// Slug turns a display name into an entity id: accents dropped, lower case,
// runs of anything else collapsed to a single hyphen.
func Slug(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(plain) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
