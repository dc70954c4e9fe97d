// Package complaint implements the complaint lifecycle: creation with
// classification, status and priority changes, ratings, redirection,
// administrative entity changes, comment threads and deletion.
package complaint

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/events"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/telemetry"
)

// Classifier decides category and entity for new text. It never fails.
type Classifier interface {
	Classify(ctx context.Context, title, description string) domain.Classification
}

// Directory is the entity lookup the lifecycle needs.
type Directory interface {
	Get(id string) (domain.Entity, error)
	Lookup(id string) (domain.Entity, bool)
}

// EventPublisher receives lifecycle events. Publishing is best effort.
type EventPublisher interface {
	PublishAsync(event events.Event)
}

// Deps are the collaborators of a Service. Events, Logger and Telemetry
// are optional.
type Deps struct {
	Complaints domain.ComplaintStore
	Comments   domain.CommentStore
	Classifier Classifier
	Directory  Directory
	Events     EventPublisher
	Logger     logger.Logger
	Telemetry  *telemetry.Provider
}

// Service runs lifecycle operations. Concurrent updates to one complaint
// are last-write-wins per field; no in-process locking is done.
type Service struct {
	complaints domain.ComplaintStore
	comments   domain.CommentStore
	classifier Classifier
	dir        Directory
	events     EventPublisher
	log        logger.Logger
	telemetry  *telemetry.Provider
	now        func() time.Time
	newID      func() string
}

// NewService wires a Service.
func NewService(deps Deps) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		complaints: deps.Complaints,
		comments:   deps.Comments,
		classifier: deps.Classifier,
		dir:        deps.Directory,
		events:     deps.Events,
		log:        log,
		telemetry:  deps.Telemetry,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// timestamp is UTC at the precision the database keeps.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func (s *Service) publish(t events.EventType, complaintID string, actor domain.Identity, payload any) {
	if s.events == nil {
		return
	}
	s.events.PublishAsync(events.New(t, complaintID, actor, payload))
}

func requireUser(actor domain.Identity) error {
	if actor.UserID == "" {
		return fmt.Errorf("authentication required: %w", domain.ErrForbidden)
	}
	return nil
}

func requireAdmin(actor domain.Identity) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	if !actor.IsAdmin {
		return fmt.Errorf("administrator role required: %w", domain.ErrForbidden)
	}
	return nil
}

// CreateInput is a citizen's report.
type CreateInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    domain.Location `json:"location"`
	Images      []string        `json:"images"`
}

// Create validates, classifies and stores a new complaint. Classification
// cannot fail, so a valid complaint is always stored with a category and
// entity.
func (s *Service) Create(ctx context.Context, actor domain.Identity, in CreateInput) (*domain.Complaint, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	in, err := validateCreate(in)
	if err != nil {
		return nil, err
	}

	result := s.classifier.Classify(ctx, in.Title, in.Description)

	now := s.timestamp()
	c := &domain.Complaint{
		ID:                   s.newID(),
		Title:                in.Title,
		Description:          in.Description,
		Location:             in.Location,
		Images:               in.Images,
		Category:             result.Category,
		EntityName:           result.Entity.Name,
		Entity:               result.Entity,
		ClassificationMethod: result.Method,
		Confidence:           result.Confidence,
		Reasoning:            result.Reasoning,
		Status:               domain.InitialStatus,
		Priority:             domain.DefaultPriority,
		Submitter:            actor.Snapshot(),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if insertErr := s.complaints.InsertComplaint(ctx, c); insertErr != nil {
		return nil, fmt.Errorf("insert complaint: %w", insertErr)
	}

	s.telemetry.RecordComplaintCreated(c.Category)
	s.log.Info("Complaint created",
		logger.ComplaintID(c.ID),
		logger.String("category", c.Category),
		logger.EntityID(c.Entity.ID),
		logger.String("method", string(c.ClassificationMethod)))
	s.publish(events.ComplaintCreated, c.ID, actor, events.CreatedPayload{
		Title:     c.Title,
		Category:  c.Category,
		EntityID:  c.Entity.ID,
		Method:    c.ClassificationMethod,
		Submitter: c.Submitter.ID,
	})
	return c, nil
}

// List returns complaints newest first, optionally only one owner's.
func (s *Service) List(ctx context.Context, filter domain.ComplaintFilter) ([]*domain.Complaint, error) {
	list, err := s.complaints.ListComplaints(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return list, nil
}

// Get returns one complaint or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*domain.Complaint, error) {
	return s.complaints.GetComplaint(ctx, id)
}

// update applies patch with updated_at bumped and returns the stored result.
func (s *Service) update(ctx context.Context, id string, patch domain.ComplaintPatch) (*domain.Complaint, error) {
	patch.UpdatedAt = s.timestamp()
	matched, err := s.complaints.UpdateComplaint(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update complaint %s: %w", id, err)
	}
	if !matched {
		return nil, domain.NotFound("complaint", id)
	}
	return s.complaints.GetComplaint(ctx, id)
}

// UpdateStatus sets any valid status. Moving to resolved stamps
// resolved_at the first time.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Identity, id, raw string) (*domain.Complaint, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	status, err := domain.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	current, err := s.complaints.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := domain.ComplaintPatch{Status: &status}
	if status == domain.StatusResolved {
		now := s.timestamp()
		patch.ResolvedAt = &now
	}
	updated, err := s.update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.telemetry.RecordStatusChange(string(status))
	s.log.Info("Complaint status updated",
		logger.ComplaintID(id),
		logger.String("from", string(current.Status)),
		logger.String("to", string(status)))
	s.publish(events.ComplaintStatusChanged, id, actor, events.StatusPayload{From: current.Status, To: status})
	return updated, nil
}

// UpdatePriority sets the triage priority. Administrators only.
func (s *Service) UpdatePriority(ctx context.Context, actor domain.Identity, id, raw string) (*domain.Complaint, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	priority, err := domain.ParsePriority(raw)
	if err != nil {
		return nil, err
	}
	current, err := s.complaints.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.update(ctx, id, domain.ComplaintPatch{Priority: &priority})
	if err != nil {
		return nil, err
	}
	s.log.Info("Complaint priority updated", logger.ComplaintID(id), logger.String("priority", string(priority)))
	s.publish(events.ComplaintPriorityChanged, id, actor, events.PriorityPayload{From: current.Priority, To: priority})
	return updated, nil
}

// MarkRedirected records that the complaint was forwarded to the entity's
// own channel. There is no way back. Administrators only.
func (s *Service) MarkRedirected(ctx context.Context, actor domain.Identity, id string) (*domain.Complaint, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	redirected := true
	updated, err := s.update(ctx, id, domain.ComplaintPatch{Redirected: &redirected})
	if err != nil {
		return nil, err
	}
	s.log.Info("Complaint marked redirected", logger.ComplaintID(id), logger.EntityID(updated.Entity.ID))
	s.publish(events.ComplaintRedirected, id, actor, nil)
	return updated, nil
}

// Delete removes a complaint and its comments (admin only).
func (s *Service) Delete(ctx context.Context, actor domain.Identity, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	matched, err := s.complaints.DeleteComplaint(ctx, id)
	if err != nil {
		return fmt.Errorf("delete complaint %s: %w", id, err)
	}
	if !matched {
		return domain.NotFound("complaint", id)
	}

	s.telemetry.RecordComplaintDeleted()
	s.log.Info("Complaint deleted", logger.ComplaintID(id), logger.String("admin_id", actor.UserID))
	s.publish(events.ComplaintDeleted, id, actor, events.DeletedPayload{CommentsDeleted: true})
	return nil
}
