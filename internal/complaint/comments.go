package complaint

import (
	"context"
	"fmt"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/events"
)

// AddComment appends to a complaint's thread and bumps its updated_at.
func (s *Service) AddComment(ctx context.Context, actor domain.Identity, complaintID, text string) (*domain.Comment, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	text, err := validateCommentText(text)
	if err != nil {
		return nil, err
	}
	if _, err = s.complaints.GetComplaint(ctx, complaintID); err != nil {
		return nil, err
	}

	c := &domain.Comment{
		ID:          s.newID(),
		ComplaintID: complaintID,
		Author:      actor.Snapshot(),
		IsAdmin:     actor.IsAdmin,
		Text:        text,
		CreatedAt:   s.timestamp(),
	}
	if err = s.comments.InsertComment(ctx, c); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	if _, err = s.complaints.UpdateComplaint(ctx, complaintID, domain.ComplaintPatch{UpdatedAt: c.CreatedAt}); err != nil {
		s.log.Warn("Failed to touch complaint after comment",
			logger.ComplaintID(complaintID),
			logger.Error(err))
	}

	s.telemetry.RecordComment()
	s.log.Info("Comment added",
		logger.ComplaintID(complaintID),
		logger.String("comment_id", c.ID),
		logger.Bool("is_admin", c.IsAdmin))
	s.publish(events.CommentAdded, complaintID, actor, events.CommentPayload{CommentID: c.ID, IsAdmin: c.IsAdmin})
	return c, nil
}

// ListComments returns the thread oldest first. A missing complaint is
// ErrNotFound, not an empty thread.
func (s *Service) ListComments(ctx context.Context, complaintID string) ([]*domain.Comment, error) {
	if _, err := s.complaints.GetComplaint(ctx, complaintID); err != nil {
		return nil, err
	}
	list, err := s.comments.ListComments(ctx, complaintID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if list == nil {
		list = []*domain.Comment{}
	}
	return list, nil
}

// DeleteComment removes one comment. Administrators only.
func (s *Service) DeleteComment(ctx context.Context, actor domain.Identity, commentID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	complaintID, matched, err := s.comments.DeleteComment(ctx, commentID)
	if err != nil {
		return fmt.Errorf("delete comment %s: %w", commentID, err)
	}
	if !matched {
		return domain.NotFound("comment", commentID)
	}
	s.log.Info("Comment deleted", logger.ComplaintID(complaintID), logger.String("comment_id", commentID))
	s.publish(events.CommentDeleted, complaintID, actor, events.CommentPayload{CommentID: commentID})
	return nil
}
