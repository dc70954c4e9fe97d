package directory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/directory"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/testhelpers"
)

func loadSeeded(t *testing.T) (*directory.Directory, *testhelpers.MemoryStore) {
	t.Helper()

	store := testhelpers.NewMemoryStore()
	dir, err := directory.Load(context.Background(), store, nil)
	require.NoError(t, err)
	return dir, store
}

func TestLoad_SeedsEmptyStoreOnce(t *testing.T) {
	t.Helper()

	dir, store := loadSeeded(t)
	assert.Len(t, dir.List(), len(directory.SeedCatalog()))

	n, err := store.SeedEntities(context.Background(), directory.SeedCatalog())
	require.NoError(t, err)
	assert.Zero(t, n, "second seed should insert nothing")
}

func TestDirectory_ListKeepsSeedOrder(t *testing.T) {
	t.Helper()

	dir, _ := loadSeeded(t)
	want := []string{
		"alcaldia-buenaventura",
		"secretaria-infraestructura",
		"empresa-servicios-publicos",
		"acueducto-alcantarillado",
		"secretaria-gobierno",
		"policia-nacional",
		"secretaria-salud",
		"establecimiento-ambiental",
	}
	got := make([]string, 0, len(want))
	for _, e := range dir.List() {
		got = append(got, e.ID)
	}
	assert.Equal(t, want, got)
}

func TestDirectory_Resolve(t *testing.T) {
	t.Helper()

	dir, _ := loadSeeded(t)
	tests := []struct {
		category string
		want     string
	}{
		{"Alumbrado Público", "secretaria-infraestructura"},
		{"Agua Potable", "acueducto-alcantarillado"},
		{"Alcantarillado", "acueducto-alcantarillado"},
		// shared label: first in directory order wins
		{"Seguridad", "secretaria-gobierno"},
		{"Orden Público", "policia-nacional"},
		{domain.OtherCategory, directory.FallbackEntityID},
		{"Categoría inexistente", directory.FallbackEntityID},
		// labels are case-sensitive
		{"agua potable", directory.FallbackEntityID},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, dir.Resolve(tt.category).ID)
		})
	}
}

func TestDirectory_GetNotFound(t *testing.T) {
	t.Helper()

	dir, _ := loadSeeded(t)
	_, err := dir.Get("nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDirectory_InactiveEntitiesListedButNotResolved(t *testing.T) {
	t.Helper()

	entities := directory.SeedCatalog()
	entities[4].Active = false // secretaria-gobierno
	dir, err := directory.New(entities, directory.FallbackEntityID, nil, nil)
	require.NoError(t, err)

	assert.Len(t, dir.List(), len(entities))
	assert.Len(t, dir.Active(), len(entities)-1)
	assert.Equal(t, "policia-nacional", dir.Resolve("Seguridad").ID)

	_, ok := dir.Lookup("secretaria-gobierno")
	assert.False(t, ok)
}

func TestNew_FallbackDefaultsToFirstActive(t *testing.T) {
	t.Helper()

	entities := []domain.Entity{
		{ID: "b", Position: 2, Active: true, Categories: []string{"X"}},
		{ID: "a", Position: 1, Active: true, Categories: []string{"Y"}},
	}
	dir, err := directory.New(entities, "missing", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "a", dir.Fallback().ID)
}

func TestNew_Errors(t *testing.T) {
	t.Helper()

	_, err := directory.New(nil, "x", nil, nil)
	assert.ErrorIs(t, err, directory.ErrEmpty)

	dup := []domain.Entity{{ID: "a", Active: true}, {ID: "a", Active: true}}
	_, err = directory.New(dup, "a", nil, nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDirectory_ReloadSeesStoreChanges(t *testing.T) {
	t.Helper()

	dir, store := loadSeeded(t)
	ctx := context.Background()

	require.NoError(t, store.InsertEntity(ctx, &domain.Entity{
		ID: "bomberos", Name: "Cuerpo de Bomberos", Active: true, Position: 0,
		Categories: []string{"Emergencias"},
	}))
	assert.Equal(t, directory.FallbackEntityID, dir.Resolve("Emergencias").ID)

	require.NoError(t, dir.Reload(ctx))
	assert.Equal(t, "bomberos", dir.Resolve("Emergencias").ID)
}

func TestDirectory_ReloadFailureKeepsPreviousView(t *testing.T) {
	t.Helper()

	dir, store := loadSeeded(t)
	store.FailWith = errors.New("db down")

	assert.Error(t, dir.Reload(context.Background()))
	assert.Len(t, dir.List(), len(directory.SeedCatalog()))
}

func TestDirectory_ConcurrentReadsDuringReload(t *testing.T) {
	t.Helper()

	dir, _ := loadSeeded(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if got := dir.Resolve("Agua Potable").ID; got != "acueducto-alcantarillado" {
					t.Errorf("Resolve = %s", got)
					return
				}
			}
		}()
	}
	for range 20 {
		if err := dir.Reload(ctx); err != nil {
			t.Errorf("Reload: %v", err)
		}
	}
	wg.Wait()
}

func TestDirectory_Categories(t *testing.T) {
	t.Helper()

	dir, _ := loadSeeded(t)
	cats := dir.Categories()
	assert.Equal(t, domain.OtherCategory, cats[0])
	assert.Contains(t, cats, "Medio Ambiente")

	seen := map[string]bool{}
	for _, c := range cats {
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
}
