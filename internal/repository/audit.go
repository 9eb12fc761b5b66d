package repository

import (
	"context"

	"github.com/enf-hma/escala/backend/internal/domain"
)

func (q *queries) InsertAuditEvent(ctx context.Context, event *domain.AuditEvent) error {
	query := `
		INSERT INTO audit_events (type, actor_id, payload)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	payload := []byte(event.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	if err := q.db.QueryRowContext(ctx, query, event.Type, event.ActorID, payload).Scan(&event.ID, &event.CreatedAt); err != nil {
		return translate(err)
	}

	return nil
}

func (q *queries) ListAuditEvents(ctx context.Context, limit int) ([]*domain.AuditEvent, error) {
	query := `
		SELECT id, type, actor_id, payload, created_at
		FROM audit_events
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.AuditEvent, 0)
	for rows.Next() {
		event := &domain.AuditEvent{}
		var payload []byte
		if err := rows.Scan(&event.ID, &event.Type, &event.ActorID, &payload, &event.CreatedAt); err != nil {
			return nil, err
		}
		event.Payload = payload
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
