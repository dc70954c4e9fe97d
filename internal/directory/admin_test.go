package directory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/directory"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

func TestManager_CreateDerivesIDAndReloads(t *testing.T) {
	t.Helper()

	dir, store := loadSeeded(t)
	m := directory.NewManager(dir, store, store, nil)

	e, err := m.Create(context.Background(), directory.EntityInput{
		Name:       "  Cuerpo de Bomberos Voluntarios ",
		Categories: []string{"Emergencias", " "},
	})
	require.NoError(t, err)

	assert.Equal(t, "cuerpo-de-bomberos-voluntarios", e.ID)
	assert.Equal(t, []string{"Emergencias"}, e.Categories)
	assert.True(t, e.Active)
	assert.Equal(t, len(directory.SeedCatalog())+1, e.Position)
	assert.Equal(t, e.ID, dir.Resolve("Emergencias").ID)
}

func TestManager_CreateValidation(t *testing.T) {
	t.Helper()

	dir, store := loadSeeded(t)
	m := directory.NewManager(dir, store, store, nil)
	ctx := context.Background()

	_, err := m.Create(ctx, directory.EntityInput{Categories: []string{"X"}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = m.Create(ctx, directory.EntityInput{Name: "Sin categorías"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = m.Create(ctx, directory.EntityInput{ID: "secretaria-salud", Name: "Dup", Categories: []string{"X"}})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestManager_UpdateChangesRouting(t *testing.T) {
	t.Helper()

	dir, store := loadSeeded(t)
	m := directory.NewManager(dir, store, store, nil)

	inactive := false
	_, err := m.Update(context.Background(), "secretaria-gobierno", directory.EntityInput{
		Name:       "Secretaría de Gobierno",
		Categories: []string{"Seguridad"},
		Active:     &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "policia-nacional", dir.Resolve("Seguridad").ID)

	_, err = m.Update(context.Background(), "nope", directory.EntityInput{Name: "x", Categories: []string{"y"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestManager_DeleteRefusedWhileAssigned(t *testing.T) {
	t.Helper()

	dir, store := loadSeeded(t)
	m := directory.NewManager(dir, store, store, nil)
	ctx := context.Background()

	require.NoError(t, store.InsertComplaint(ctx, &domain.Complaint{
		ID:        "c1",
		Entity:    domain.EntitySnapshot{ID: "secretaria-salud"},
		CreatedAt: time.Now(),
	}))

	assert.ErrorIs(t, m.Delete(ctx, "secretaria-salud"), domain.ErrConflict)
	assert.ErrorIs(t, m.Delete(ctx, directory.FallbackEntityID), domain.ErrConflict)
	assert.ErrorIs(t, m.Delete(ctx, "nope"), domain.ErrNotFound)

	require.NoError(t, m.Delete(ctx, "establecimiento-ambiental"))
	_, err := dir.Get("establecimiento-ambiental")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, directory.FallbackEntityID, dir.Resolve("Medio Ambiente").ID)
}

func TestManager_KeepsOneActiveEntity(t *testing.T) {
	t.Helper()

	dir, store := loadSeeded(t)
	m := directory.NewManager(dir, store, store, nil)
	ctx := context.Background()
	off := false

	entities := dir.List()
	for i, e := range entities {
		_, err := m.Update(ctx, e.ID, directory.EntityInput{
			Name:       e.Name,
			Categories: e.Categories,
			Active:     &off,
		})
		if i < len(entities)-1 {
			require.NoError(t, err, e.ID)
			continue
		}
		require.ErrorIs(t, err, domain.ErrConflict)
		require.ErrorIs(t, err, directory.ErrEmpty)
	}

	persisted, err := store.ListEntities(ctx)
	require.NoError(t, err)
	active := 0
	for _, e := range persisted {
		if e.Active {
			active++
		}
	}
	assert.Equal(t, 1, active, "the refused update must not reach the store")

	restarted, err := directory.Load(ctx, store, nil)
	require.NoError(t, err)
	assert.Equal(t, entities[len(entities)-1].ID, restarted.Fallback().ID)
}

func TestSlug(t *testing.T) {
	t.Helper()

	tests := []struct{ in, want string }{
		{"Secretaría de Salud", "secretaria-de-salud"},
		{"  Policía Nacional, Estación ", "policia-nacional-estacion"},
		{"Empresa #1 (Aseo)", "empresa-1-aseo"},
		{"¡¡!!", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, directory.Slug(tt.in), tt.in)
	}
}
