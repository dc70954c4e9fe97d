package complaint

import (
	"context"
	"fmt"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/logger"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/domain"
	"github.com/ZP-ING/reportebuenaventura-backend/internal/events"
)

// ManualReasoning is recorded when an administrator picks the entity.
const ManualReasoning = "Asignación manual por un administrador."

// ReassignEntity points the complaint at another active entity. Category
// is left as is. Administrators only.
func (s *Service) ReassignEntity(ctx context.Context, actor domain.Identity, id, entityID string) (*domain.Complaint, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if entityID == "" {
		return nil, domain.Invalid("entity_id", "is required")
	}
	target, ok := s.dir.Lookup(entityID)
	if !ok {
		return nil, fmt.Errorf("entity %q: %w", entityID, domain.ErrUnknownEntity)
	}
	current, err := s.complaints.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	snapshot := target.Snapshot()
	method := domain.MethodManual
	confidence := domain.ManualConfidence
	reasoning := ManualReasoning
	updated, err := s.update(ctx, id, domain.ComplaintPatch{
		Entity:               &snapshot,
		ClassificationMethod: &method,
		Confidence:           &confidence,
		Reasoning:            &reasoning,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Complaint entity reassigned",
		logger.ComplaintID(id),
		logger.String("from_entity_id", current.Entity.ID),
		logger.EntityID(target.ID))
	s.publish(events.ComplaintEntityReassigned, id, actor, events.EntityPayload{
		FromEntityID: current.Entity.ID,
		ToEntityID:   target.ID,
		Method:       method,
	})
	return updated, nil
}

// ResolveEntity refreshes the complaint's entity copy from the directory,
// picking up edits made to the entity after the complaint was filed.
func (s *Service) ResolveEntity(ctx context.Context, actor domain.Identity, id string) (*domain.Complaint, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	current, err := s.complaints.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}
	entity, err := s.dir.Get(current.Entity.ID)
	if err != nil {
		return nil, fmt.Errorf("entity %q: %w", current.Entity.ID, domain.ErrUnknownEntity)
	}

	snapshot := entity.Snapshot()
	updated, err := s.update(ctx, id, domain.ComplaintPatch{Entity: &snapshot})
	if err != nil {
		return nil, err
	}
	s.log.Debug("Complaint entity refreshed", logger.ComplaintID(id), logger.EntityID(entity.ID))
	return updated, nil
}

// Reclassify runs the classifier again over the stored text and replaces
// category, entity and method. Administrators only.
func (s *Service) Reclassify(ctx context.Context, actor domain.Identity, id string) (*domain.Complaint, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	current, err := s.complaints.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	result := s.classifier.Classify(ctx, current.Title, current.Description)
	updated, err := s.update(ctx, id, domain.ComplaintPatch{
		Category:             &result.Category,
		Entity:               &result.Entity,
		ClassificationMethod: &result.Method,
		Confidence:           &result.Confidence,
		Reasoning:            &result.Reasoning,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Complaint reclassified",
		logger.ComplaintID(id),
		logger.String("category", result.Category),
		logger.EntityID(result.Entity.ID),
		logger.String("method", string(result.Method)))
	s.publish(events.ComplaintReclassified, id, actor, events.EntityPayload{
		FromEntityID: current.Entity.ID,
		ToEntityID:   result.Entity.ID,
		Category:     result.Category,
		Method:       result.Method,
	})
	return updated, nil
}
