// Package directory holds the registry of responsible entities and resolves
// classification categories to them.
package directory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

// ErrEmpty is returned when a directory would hold no active entity.
var ErrEmpty = errors.New("directory has no active entities")

// snapshot is an immutable view swapped in whole on reload.
type snapshot struct {
	entities []domain.Entity
	byID     map[string]int
	fallback int
}

// Directory is the single authoritative entity registry. Classification,
// complaint routing and the HTTP layer all read from it; writes go through
// the store followed by Reload.
type Directory struct {
	mu         sync.RWMutex
	current    *snapshot
	store      domain.EntityStore
	fallbackID string
	log        logger.Logger
}

// New builds a directory from a fixed list. store may be nil, in which case
// Reload is a no-op.
func New(entities []domain.Entity, fallbackID string, store domain.EntityStore, log logger.Logger) (*Directory, error) {
	if log == nil {
		log = logger.NewNop()
	}
	snap, err := build(entities, fallbackID)
	if err != nil {
		return nil, err
	}
	return &Directory{current: snap, store: store, fallbackID: fallbackID, log: log}, nil
}

// Load seeds store with SeedCatalog when it is empty and builds the
// directory from its contents.
func Load(ctx context.Context, store domain.EntityStore, log logger.Logger) (*Directory, error) {
	if log == nil {
		log = logger.NewNop()
	}

	inserted, err := store.SeedEntities(ctx, SeedCatalog())
	if err != nil {
		return nil, fmt.Errorf("seed entities: %w", err)
	}
	if inserted > 0 {
		log.Info("Seeded entity directory", logger.Int("entities", inserted))
	}

	entities, err := store.ListEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}
	return New(entities, FallbackEntityID, store, log)
}

func build(entities []domain.Entity, fallbackID string) (*snapshot, error) {
	sorted := slices.Clone(entities)
	slices.SortStableFunc(sorted, func(a, b domain.Entity) int {
		return a.Position - b.Position
	})

	snap := &snapshot{
		entities: make([]domain.Entity, 0, len(sorted)),
		byID:     make(map[string]int, len(sorted)),
		fallback: -1,
	}
	for _, e := range sorted {
		if _, dup := snap.byID[e.ID]; dup {
			return nil, fmt.Errorf("entity %q: %w", e.ID, domain.ErrConflict)
		}
		e.Categories = slices.Clone(e.Categories)
		snap.byID[e.ID] = len(snap.entities)
		snap.entities = append(snap.entities, e)
	}

	if i, ok := snap.byID[fallbackID]; ok && snap.entities[i].Active {
		snap.fallback = i
	} else {
		// first active entry in directory order
		for i := range snap.entities {
			if snap.entities[i].Active {
				snap.fallback = i
				break
			}
		}
	}
	if snap.fallback < 0 {
		return nil, ErrEmpty
	}
	return snap, nil
}

func (d *Directory) view() *snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.current
}

// List returns every entity in directory order, inactive ones included.
func (d *Directory) List() []domain.Entity {
	snap := d.view()
	out := make([]domain.Entity, len(snap.entities))
	for i, e := range snap.entities {
		e.Categories = slices.Clone(e.Categories)
		out[i] = e
	}
	return out
}

// Active returns the entities classification may route to.
func (d *Directory) Active() []domain.Entity {
	snap := d.view()
	out := make([]domain.Entity, 0, len(snap.entities))
	for _, e := range snap.entities {
		if e.Active {
			e.Categories = slices.Clone(e.Categories)
			out = append(out, e)
		}
	}
	return out
}

// Get returns the entity with id, or ErrNotFound.
func (d *Directory) Get(id string) (domain.Entity, error) {
	snap := d.view()
	i, ok := snap.byID[id]
	if !ok {
		return domain.Entity{}, domain.NotFound("entity", id)
	}
	e := snap.entities[i]
	e.Categories = slices.Clone(e.Categories)
	return e, nil
}

// Lookup returns the active entity with id. Unlike Get it reports absence
// with a boolean, for callers that substitute the fallback.
func (d *Directory) Lookup(id string) (domain.Entity, bool) {
	e, err := d.Get(id)
	if err != nil || !e.Active {
		return domain.Entity{}, false
	}
	return e, true
}

// Resolve returns the first active entity in directory order that handles
// category, or the fallback entity.
func (d *Directory) Resolve(category string) domain.Entity {
	snap := d.view()
	for _, e := range snap.entities {
		if e.Active && e.Handles(category) {
			return e
		}
	}
	return snap.entities[snap.fallback]
}

// Fallback returns the designated default entity.
func (d *Directory) Fallback() domain.Entity {
	snap := d.view()
	return snap.entities[snap.fallback]
}

// Categories lists every category label an active entity handles, in
// directory order without duplicates.
func (d *Directory) Categories() []string {
	var out []string
	for _, e := range d.Active() {
		for _, c := range e.Categories {
			if !slices.Contains(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// Reload rebuilds the directory from the store. Readers keep the previous
// view until the new one is complete; on error the previous view stays.
func (d *Directory) Reload(ctx context.Context) error {
	if d.store == nil {
		return nil
	}
	entities, err := d.store.ListEntities(ctx)
	if err != nil {
		return fmt.Errorf("list entities: %w", err)
	}
	snap, err := build(entities, d.fallbackID)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.current = snap
	d.mu.Unlock()

	d.log.Info("Entity directory reloaded", logger.Int("entities", len(snap.entities)))
	return nil
}
