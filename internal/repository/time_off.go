package repository

import (
	"context"

	"github.com/enf-hma/escala/backend/internal/domain"
)

func (q *queries) CreateTimeOff(ctx context.Context, req *domain.TimeOffRequest) error {
	query := `
		INSERT INTO time_off_requests (nurse_id, start_date, end_date, reason, type, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	args := []any{req.NurseID, req.StartDate, req.EndDate, req.Reason, req.Type, req.Status}
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&req.ID, &req.CreatedAt); err != nil {
		return translate(err)
	}

	return nil
}

func (q *queries) GetTimeOffByID(ctx context.Context, id int64) (*domain.TimeOffRequest, error) {
	query := `
		SELECT nurse_id, start_date, end_date, reason, type, status, created_at
		FROM time_off_requests
		WHERE id = $1
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	req := &domain.TimeOffRequest{ID: id}
	dst := []any{&req.NurseID, &req.StartDate, &req.EndDate, &req.Reason, &req.Type, &req.Status, &req.CreatedAt}
	if err := q.db.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, translate(err)
	}

	return req, nil
}

func (q *queries) ListTimeOff(ctx context.Context, filter domain.TimeOffFilter) ([]*domain.TimeOffRequest, error) {
	// datas vazias viram NULL e desligam o filtro correspondente
	query := `
		SELECT id, nurse_id, start_date, end_date, reason, type, status, created_at
		FROM time_off_requests
		WHERE ($1::BIGINT IS NULL OR nurse_id = $1)
		  AND ($2::TEXT IS NULL OR status = $2)
		  AND ($3::DATE IS NULL OR end_date >= $3)
		  AND ($4::DATE IS NULL OR start_date <= $4)
		ORDER BY start_date DESC, id DESC
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	rows, err := q.db.QueryContext(ctx, query, filter.NurseID, status, filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.TimeOffRequest, 0)
	for rows.Next() {
		req := &domain.TimeOffRequest{}
		dst := []any{&req.ID, &req.NurseID, &req.StartDate, &req.EndDate, &req.Reason, &req.Type, &req.Status, &req.CreatedAt}
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

func (q *queries) UpdateTimeOffStatus(ctx context.Context, id int64, status domain.TimeOffStatus) error {
	query := `UPDATE time_off_requests SET status = $1 WHERE id = $2`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (q *queries) DeleteTimeOff(ctx context.Context, id int64) error {
	query := `DELETE FROM time_off_requests WHERE id = $1`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}
