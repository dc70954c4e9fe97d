package complaint

import (
	"context"
	"fmt"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/events"
)

const (
	MinRating = 1
	MaxRating = 5
)

// SubmitRating stores the submitter's satisfaction score, replacing any
// earlier one. Nobody else may rate, administrators included.
func (s *Service) SubmitRating(ctx context.Context, actor domain.Identity, id string, rating int, comment string) (*domain.Complaint, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	if rating < MinRating || rating > MaxRating {
		return nil, domain.Invalid("rating", "must be between %d and %d", MinRating, MaxRating)
	}
	comment, err := validateRatingComment(comment)
	if err != nil {
		return nil, err
	}

	current, err := s.complaints.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.OwnedBy(actor.UserID) {
		return nil, fmt.Errorf("only the submitter may rate a complaint: %w", domain.ErrForbidden)
	}

	updated, err := s.update(ctx, id, domain.ComplaintPatch{Rating: &rating, RatingComment: &comment})
	if err != nil {
		return nil, err
	}

	replaced := current.Rating != nil
	s.telemetry.RecordRating()
	s.log.Info("Complaint rated",
		logger.ComplaintID(id),
		logger.Int("rating", rating),
		logger.Bool("replaced", replaced))
	s.publish(events.ComplaintRated, id, actor, events.RatedPayload{Rating: rating, Replaced: replaced})
	return updated, nil
}
