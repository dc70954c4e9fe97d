package domain

import "context"

// ComplaintStore persists complaints. Update and delete report whether a
// record matched so callers can tell not-found from success.
type ComplaintStore interface {
	InsertComplaint(ctx context.Context, c *Complaint) error
	GetComplaint(ctx context.Context, id string) (*Complaint, error)
	// ListComplaints returns matches newest first.
	ListComplaints(ctx context.Context, filter ComplaintFilter) ([]*Complaint, error)
	UpdateComplaint(ctx context.Context, id string, patch ComplaintPatch) (bool, error)
	// DeleteComplaint removes the complaint and its comments atomically.
	DeleteComplaint(ctx context.Context, id string) (bool, error)
	// ScanComplaints streams every complaint to fn, stopping at fn's first error.
	ScanComplaints(ctx context.Context, fn func(*Complaint) error) error
	CountByEntity(ctx context.Context, entityID string) (int, error)
}

// CommentStore persists comment threads.
type CommentStore interface {
	InsertComment(ctx context.Context, c *Comment) error
	// ListComments returns a thread oldest first.
	ListComments(ctx context.Context, complaintID string) ([]*Comment, error)
	// DeleteComment reports the owning complaint of the removed comment.
	DeleteComment(ctx context.Context, id string) (complaintID string, matched bool, err error)
}

// EntityStore persists the entity directory.
type EntityStore interface {
	// ListEntities returns entities ordered by position.
	ListEntities(ctx context.Context) ([]Entity, error)
	// InsertEntity fails with ErrConflict when the id is taken.
	InsertEntity(ctx context.Context, e *Entity) error
	UpdateEntity(ctx context.Context, e *Entity) (bool, error)
	DeleteEntity(ctx context.Context, id string) (bool, error)
	// SeedEntities inserts catalog only when the store holds no entities.
	// It returns how many were inserted.
	SeedEntities(ctx context.Context, catalog []Entity) (int, error)
}

// Store bundles the persistence ports.
type Store interface {
	ComplaintStore
	CommentStore
	EntityStore
}
