package repository

import (
	"context"

	"github.com/enf-hma/escala/backend/internal/domain"
)

const shiftSwapColumns = `id, requester_id, requested_id, requester_shift_date, requested_shift_date, status, created_at`

func scanShiftSwap(row interface{ Scan(dest ...any) error }) (*domain.ShiftSwap, error) {
	swap := &domain.ShiftSwap{}
	dst := []any{
		&swap.ID,
		&swap.RequesterID,
		&swap.RequestedID,
		&swap.RequesterShiftDate,
		&swap.RequestedShiftDate,
		&swap.Status,
		&swap.CreatedAt,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return swap, nil
}

func (q *queries) CreateShiftSwap(ctx context.Context, swap *domain.ShiftSwap) error {
	query := `
		INSERT INTO shift_swaps (requester_id, requested_id, requester_shift_date, requested_shift_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	args := []any{swap.RequesterID, swap.RequestedID, swap.RequesterShiftDate, swap.RequestedShiftDate, swap.Status}
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&swap.ID, &swap.CreatedAt); err != nil {
		return translate(err)
	}

	return nil
}

func (q *queries) GetShiftSwapByID(ctx context.Context, id int64) (*domain.ShiftSwap, error) {
	query := `SELECT ` + shiftSwapColumns + ` FROM shift_swaps WHERE id = $1`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	swap, err := scanShiftSwap(q.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}

	return swap, nil
}

func (q *queries) ListShiftSwaps(ctx context.Context, nurseID *int64, status *domain.SwapStatus) ([]*domain.ShiftSwap, error) {
	query := `
		SELECT ` + shiftSwapColumns + `
		FROM shift_swaps
		WHERE ($1::BIGINT IS NULL OR requester_id = $1 OR requested_id = $1)
		  AND ($2::TEXT IS NULL OR status = $2)
		ORDER BY created_at DESC, id DESC
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var s *string
	if status != nil {
		v := string(*status)
		s = &v
	}

	rows, err := q.db.QueryContext(ctx, query, nurseID, s)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	swaps := make([]*domain.ShiftSwap, 0)
	for rows.Next() {
		swap, err := scanShiftSwap(rows)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, swap)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return swaps, nil
}

func (q *queries) UpdateShiftSwapStatus(ctx context.Context, id int64, from, to domain.SwapStatus) error {
	query := `UPDATE shift_swaps SET status = $1 WHERE id = $2 AND status = $3`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (q *queries) DeleteShiftSwap(ctx context.Context, id int64) error {
	query := `DELETE FROM shift_swaps WHERE id = $1`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}
