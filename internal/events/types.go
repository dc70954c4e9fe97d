// Package events publishes complaint lifecycle events to a Redis stream so
// notification and reporting consumers can follow changes.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
)

// DefaultStream is the Redis stream events are appended to.
const DefaultStream = "complaint-events"

// EventType names a lifecycle change.
type EventType string

const (
	ComplaintCreated          EventType = "COMPLAINT_CREATED"
	ComplaintStatusChanged    EventType = "COMPLAINT_STATUS_CHANGED"
	ComplaintPriorityChanged  EventType = "COMPLAINT_PRIORITY_CHANGED"
	ComplaintRated            EventType = "COMPLAINT_RATED"
	ComplaintRedirected       EventType = "COMPLAINT_REDIRECTED"
	ComplaintEntityReassigned EventType = "COMPLAINT_ENTITY_REASSIGNED"
	ComplaintReclassified     EventType = "COMPLAINT_RECLASSIFIED"
	ComplaintDeleted          EventType = "COMPLAINT_DELETED"
	CommentAdded              EventType = "COMMENT_ADDED"
	CommentDeleted            EventType = "COMMENT_DELETED"
)

// Event is the envelope written to the stream.
type Event struct {
	EventID     uuid.UUID `json:"event_id"`
	EventType   EventType `json:"event_type"`
	ComplaintID string    `json:"complaint_id"`
	Timestamp   time.Time `json:"timestamp"`
	ActorID     string    `json:"actor_id,omitempty"`
	Payload     any       `json:"payload,omitempty"`
}

// New builds an event with a fresh id and timestamp.
func New(t EventType, complaintID string, actor domain.Identity, payload any) Event {
	return Event{
		EventID:     uuid.New(),
		EventType:   t,
		ComplaintID: complaintID,
		Timestamp:   time.Now().UTC(),
		ActorID:     actor.UserID,
		Payload:     payload,
	}
}

// CreatedPayload accompanies COMPLAINT_CREATED.
type CreatedPayload struct {
	Title     string                      `json:"title"`
	Category  string                      `json:"category"`
	EntityID  string                      `json:"entity_id"`
	Method    domain.ClassificationMethod `json:"classification_method"`
	Submitter string                      `json:"submitter_id"`
}

// StatusPayload accompanies COMPLAINT_STATUS_CHANGED.
type StatusPayload struct {
	From domain.Status `json:"from"`
	To   domain.Status `json:"to"`
}

// PriorityPayload accompanies COMPLAINT_PRIORITY_CHANGED.
type PriorityPayload struct {
	From domain.Priority `json:"from"`
	To   domain.Priority `json:"to"`
}

// RatedPayload accompanies COMPLAINT_RATED.
type RatedPayload struct {
	Rating   int  `json:"rating"`
	Replaced bool `json:"replaced"`
}

// EntityPayload accompanies reassignment, reclassification and re-resolve.
type EntityPayload struct {
	FromEntityID string                      `json:"from_entity_id"`
	ToEntityID   string                      `json:"to_entity_id"`
	Category     string                      `json:"category,omitempty"`
	Method       domain.ClassificationMethod `json:"classification_method,omitempty"`
}

// CommentPayload accompanies COMMENT_ADDED and COMMENT_DELETED.
type CommentPayload struct {
	CommentID string `json:"comment_id"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
}

// DeletedPayload accompanies COMPLAINT_DELETED.
type DeletedPayload struct {
	CommentsDeleted bool `json:"comments_deleted"`
}
