package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

func TestComplaintPatch_UpdatedAtNeverMovesBack(t *testing.T) {
	t.Helper()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	c := &domain.Complaint{UpdatedAt: now}

	patch := domain.ComplaintPatch{UpdatedAt: now.Add(-time.Hour)}
	patch.Apply(c)
	if !c.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", c.UpdatedAt, now)
	}

	later := now.Add(time.Minute)
	patch = domain.ComplaintPatch{UpdatedAt: later}
	patch.Apply(c)
	if !c.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", c.UpdatedAt, later)
	}
}

func TestComplaintPatch_ResolvedAtStampedOnce(t *testing.T) {
	t.Helper()

	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(24 * time.Hour)
	resolved := domain.StatusResolved
	c := &domain.Complaint{}

	p1 := domain.ComplaintPatch{Status: &resolved, ResolvedAt: &first, UpdatedAt: first}
	p1.Apply(c)
	p2 := domain.ComplaintPatch{Status: &resolved, ResolvedAt: &second, UpdatedAt: second}
	p2.Apply(c)

	if c.ResolvedAt == nil || !c.ResolvedAt.Equal(first) {
		t.Errorf("ResolvedAt = %v, want %v", c.ResolvedAt, first)
	}
}

func TestComplaintPatch_EntityUpdatesName(t *testing.T) {
	t.Helper()

	c := &domain.Complaint{EntityName: "Old"}
	snap := domain.EntitySnapshot{ID: "x", Name: "New"}
	p := domain.ComplaintPatch{Entity: &snap}
	p.Apply(c)

	if c.EntityName != "New" || c.Entity.ID != "x" {
		t.Errorf("entity not applied: %+v", c)
	}
}

func TestParseStatus(t *testing.T) {
	t.Helper()

	tests := []struct {
		raw     string
		want    domain.Status
		wantErr bool
	}{
		{"received", domain.StatusReceived, false},
		{"in_progress", domain.StatusInProgress, false},
		{"done", domain.StatusDone, false},
		{"resolved", domain.StatusResolved, false},
		{"recibido", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := domain.ParseStatus(tt.raw)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("ParseStatus(%q) err = %v, want validation", tt.raw, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, %v", tt.raw, got, err)
		}
	}
}

func TestParsePriority(t *testing.T) {
	t.Helper()

	if p, err := domain.ParsePriority("alta"); err != nil || p != domain.PriorityHigh {
		t.Errorf("ParsePriority(alta) = %q, %v", p, err)
	}
	if _, err := domain.ParsePriority("urgent"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("ParsePriority(urgent) err = %v", err)
	}
}

func TestComplaint_OwnedBy(t *testing.T) {
	t.Helper()

	c := &domain.Complaint{Submitter: domain.UserSnapshot{ID: "u1"}}
	if !c.OwnedBy("u1") {
		t.Error("owner not recognized")
	}
	if c.OwnedBy("u2") || c.OwnedBy("") {
		t.Error("non-owner recognized as owner")
	}
}
