package service

import (
	"context"

	"github.com/enf-hma/escala/backend/internal/domain"
)

const defaultAuditLimit = 100

// RecordEvent grava um evento recebido da fila. Usado pelo worker de auditoria.
func (s *Service) RecordEvent(ctx context.Context, event domain.Event) error {
	if event.Type == "" {
		return domain.NewValidationError("evento sem tipo")
	}

	audit := &domain.AuditEvent{
		Type:    event.Type,
		ActorID: event.ActorID,
		Payload: event.Payload,
	}
	if err := s.store.InsertAuditEvent(ctx, audit); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *Service) ListAuditEvents(ctx context.Context, actor domain.Actor, limit int) ([]*domain.AuditEvent, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 1000 {
		limit = defaultAuditLimit
	}

	events, err := s.store.ListAuditEvents(ctx, limit)
	if err != nil {
		return nil, storeError(err)
	}
	return events, nil
}
