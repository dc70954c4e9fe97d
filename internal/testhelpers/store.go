// Package testhelpers provides shared test doubles for the complaint service.
package testhelpers

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

// MemoryStore implements domain.Store in memory.
type MemoryStore struct {
	mu         sync.RWMutex
	seq        int
	complaints map[string]*domain.Complaint
	inserted   map[string]int
	comments   map[string]*domain.Comment
	entities   map[string]domain.Entity

	// FailWith, when set, is returned by every method.
	FailWith error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		complaints: make(map[string]*domain.Complaint),
		inserted:   make(map[string]int),
		comments:   make(map[string]*domain.Comment),
		entities:   make(map[string]domain.Entity),
	}
}

func cloneComplaint(c *domain.Complaint) *domain.Complaint {
	out := *c
	if c.Rating != nil {
		r := *c.Rating
		out.Rating = &r
	}
	if c.ResolvedAt != nil {
		t := *c.ResolvedAt
		out.ResolvedAt = &t
	}
	out.Entity.Categories = slices.Clone(c.Entity.Categories)
	out.Images = slices.Clone(c.Images)
	return &out
}

func (m *MemoryStore) InsertComplaint(_ context.Context, c *domain.Complaint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if _, ok := m.complaints[c.ID]; ok {
		return domain.ErrConflict
	}
	m.seq++
	m.complaints[c.ID] = cloneComplaint(c)
	m.inserted[c.ID] = m.seq
	return nil
}

func (m *MemoryStore) GetComplaint(_ context.Context, id string) (*domain.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	c, ok := m.complaints[id]
	if !ok {
		return nil, domain.NotFound("complaint", id)
	}
	return cloneComplaint(c), nil
}

func (m *MemoryStore) ListComplaints(_ context.Context, filter domain.ComplaintFilter) ([]*domain.Complaint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	out := make([]*domain.Complaint, 0, len(m.complaints))
	for _, c := range m.complaints {
		if filter.OwnerID != "" && c.Submitter.ID != filter.OwnerID {
			continue
		}
		out = append(out, cloneComplaint(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return m.inserted[out[i].ID] > m.inserted[out[j].ID]
	})
	return out, nil
}

func (m *MemoryStore) UpdateComplaint(_ context.Context, id string, patch domain.ComplaintPatch) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return false, m.FailWith
	}
	c, ok := m.complaints[id]
	if !ok {
		return false, nil
	}
	patch.Apply(c)
	return true, nil
}

func (m *MemoryStore) DeleteComplaint(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return false, m.FailWith
	}
	if _, ok := m.complaints[id]; !ok {
		return false, nil
	}
	delete(m.complaints, id)
	delete(m.inserted, id)
	for cid, c := range m.comments {
		if c.ComplaintID == id {
			delete(m.comments, cid)
		}
	}
	return true, nil
}

func (m *MemoryStore) ScanComplaints(ctx context.Context, fn func(*domain.Complaint) error) error {
	list, err := m.ListComplaints(ctx, domain.ComplaintFilter{})
	if err != nil {
		return err
	}
	for _, c := range list {
		if fnErr := fn(c); fnErr != nil {
			return fnErr
		}
	}
	return nil
}

func (m *MemoryStore) CountByEntity(_ context.Context, entityID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	n := 0
	for _, c := range m.complaints {
		if c.Entity.ID == entityID {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) InsertComment(_ context.Context, c *domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	cp := *c
	m.comments[c.ID] = &cp
	return nil
}

func (m *MemoryStore) ListComments(_ context.Context, complaintID string) ([]*domain.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	var out []*domain.Comment
	for _, c := range m.comments {
		if c.ComplaintID == complaintID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) DeleteComment(_ context.Context, id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return "", false, m.FailWith
	}
	c, ok := m.comments[id]
	if !ok {
		return "", false, nil
	}
	delete(m.comments, id)
	return c.ComplaintID, true, nil
}

// CommentCount returns the number of stored comments across all complaints.
func (m *MemoryStore) CommentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.comments)
}

func (m *MemoryStore) ListEntities(_ context.Context) ([]domain.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	out := make([]domain.Entity, 0, len(m.entities))
	for _, e := range m.entities {
		e.Categories = slices.Clone(e.Categories)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) InsertEntity(_ context.Context, e *domain.Entity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	if _, ok := m.entities[e.ID]; ok {
		return domain.ErrConflict
	}
	cp := *e
	cp.Categories = slices.Clone(e.Categories)
	m.entities[e.ID] = cp
	return nil
}

func (m *MemoryStore) UpdateEntity(_ context.Context, e *domain.Entity) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return false, m.FailWith
	}
	if _, ok := m.entities[e.ID]; !ok {
		return false, nil
	}
	cp := *e
	cp.Categories = slices.Clone(e.Categories)
	m.entities[e.ID] = cp
	return true, nil
}

func (m *MemoryStore) DeleteEntity(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return false, m.FailWith
	}
	if _, ok := m.entities[id]; !ok {
		return false, nil
	}
	delete(m.entities, id)
	return true, nil
}

func (m *MemoryStore) SeedEntities(_ context.Context, catalog []domain.Entity) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return 0, m.FailWith
	}
	if len(m.entities) > 0 {
		return 0, nil
	}
	for _, e := range catalog {
		e.Categories = slices.Clone(e.Categories)
		m.entities[e.ID] = e
	}
	return len(catalog), nil
}

var _ domain.Store = (*MemoryStore)(nil)
