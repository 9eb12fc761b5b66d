package repository

import (
	"context"

	"github.com/enf-hma/escala/backend/internal/domain"
)

func (q *queries) CreateShift(ctx context.Context, shift *domain.Shift) error {
	query := `
		INSERT INTO shifts (nurse_id, date, type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	if err := q.db.QueryRowContext(ctx, query, shift.NurseID, shift.Date, shift.Type).Scan(&shift.ID, &shift.CreatedAt); err != nil {
		return translate(err)
	}

	return nil
}

func (q *queries) GetShift(ctx context.Context, nurseID int64, date domain.Date) (*domain.Shift, error) {
	query := `SELECT id, type, created_at FROM shifts WHERE nurse_id = $1 AND date = $2`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	shift := &domain.Shift{
		NurseID: nurseID,
		Date:    date,
	}
	if err := q.db.QueryRowContext(ctx, query, nurseID, date).Scan(&shift.ID, &shift.Type, &shift.CreatedAt); err != nil {
		return nil, translate(err)
	}

	return shift, nil
}

func (q *queries) ListShifts(ctx context.Context, from, to domain.Date) ([]*domain.Shift, error) {
	query := `
		SELECT id, nurse_id, date, type, created_at
		FROM shifts
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, nurse_id
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift := &domain.Shift{}
		if err := rows.Scan(&shift.ID, &shift.NurseID, &shift.Date, &shift.Type, &shift.CreatedAt); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (q *queries) DeleteShift(ctx context.Context, nurseID int64, date domain.Date) error {
	query := `DELETE FROM shifts WHERE nurse_id = $1 AND date = $2`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	if _, err := q.db.ExecContext(ctx, query, nurseID, date); err != nil {
		return err
	}

	return nil
}

func (q *queries) ReassignShift(ctx context.Context, fromNurseID int64, date domain.Date, toNurseID int64) error {
	query := `UPDATE shifts SET nurse_id = $1 WHERE nurse_id = $2 AND date = $3`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, query, toNurseID, fromNurseID, date)
	if err != nil {
		return translate(err)
	}

	return expectAffected(res)
}
