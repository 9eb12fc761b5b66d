package repository

import (
	"context"

	"github.com/enf-hma/escala/backend/internal/domain"
)

func (q *queries) CreateCoordinationRequest(ctx context.Context, req *domain.CoordinationRequest) error {
	query := `
		INSERT INTO coordination_requests (kind, nurse_id, created_by, section_id, unit_id, date, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	args := []any{req.Kind, req.NurseID, req.CreatedBy, req.SectionID, req.UnitID, req.Date, req.Content}
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&req.ID, &req.CreatedAt); err != nil {
		return translate(err)
	}

	return nil
}

func (q *queries) GetCoordinationRequestByID(ctx context.Context, id int64) (*domain.CoordinationRequest, error) {
	query := `
		SELECT kind, nurse_id, created_by, section_id, unit_id, date, content, created_at
		FROM coordination_requests
		WHERE id = $1
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	req := &domain.CoordinationRequest{ID: id}
	dst := []any{&req.Kind, &req.NurseID, &req.CreatedBy, &req.SectionID, &req.UnitID, &req.Date, &req.Content, &req.CreatedAt}
	if err := q.db.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, translate(err)
	}

	return req, nil
}

func (q *queries) ListCoordinationRequests(ctx context.Context, kind domain.CoordinationKind, sectionID *int64) ([]*domain.CoordinationRequest, error) {
	query := `
		SELECT id, kind, nurse_id, created_by, section_id, unit_id, date, content, created_at
		FROM coordination_requests
		WHERE kind = $1 AND ($2::BIGINT IS NULL OR section_id = $2)
		ORDER BY created_at DESC, id DESC
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, query, kind, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.CoordinationRequest, 0)
	for rows.Next() {
		req := &domain.CoordinationRequest{}
		dst := []any{&req.ID, &req.Kind, &req.NurseID, &req.CreatedBy, &req.SectionID, &req.UnitID, &req.Date, &req.Content, &req.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (q *queries) DeleteCoordinationRequest(ctx context.Context, id int64) error {
	query := `DELETE FROM coordination_requests WHERE id = $1`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}
