package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/enf-hma/escala/backend/internal/domain"
)

func (q *queries) UpsertRosterEntry(ctx context.Context, entry *domain.MonthlyRosterEntry) error {
	query := `
		INSERT INTO monthly_rosters (nurse_id, section_id, unit_id, month, year)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT monthly_rosters_nurse_month_year_key
		DO UPDATE SET section_id = EXCLUDED.section_id, unit_id = EXCLUDED.unit_id
		RETURNING id, created_at
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	args := []any{entry.NurseID, entry.SectionID, entry.UnitID, entry.Month, entry.Year}
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return translate(err)
	}

	return nil
}

func (q *queries) InsertRosterEntryIfAbsent(ctx context.Context, entry *domain.MonthlyRosterEntry) (bool, error) {
	query := `
		INSERT INTO monthly_rosters (nurse_id, section_id, unit_id, month, year)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT monthly_rosters_nurse_month_year_key DO NOTHING
		RETURNING id, created_at
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	args := []any{entry.NurseID, entry.SectionID, entry.UnitID, entry.Month, entry.Year}
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// DO NOTHING não devolve linha: a enfermeira já estava lotada
			return false, nil
		}
		return false, translate(err)
	}

	return true, nil
}

func (q *queries) GetRosterEntry(ctx context.Context, nurseID int64, month, year int) (*domain.MonthlyRosterEntry, error) {
	query := `
		SELECT id, section_id, unit_id, created_at
		FROM monthly_rosters
		WHERE nurse_id = $1 AND month = $2 AND year = $3
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	entry := &domain.MonthlyRosterEntry{
		NurseID: nurseID,
		Month:   month,
		Year:    year,
	}
	dst := []any{&entry.ID, &entry.SectionID, &entry.UnitID, &entry.CreatedAt}
	if err := q.db.QueryRowContext(ctx, query, nurseID, month, year).Scan(dst...); err != nil {
		return nil, translate(err)
	}

	return entry, nil
}

func (q *queries) ListRosterEntries(ctx context.Context, month, year int, unitID *int64) ([]*domain.MonthlyRosterEntry, error) {
	query := `
		SELECT id, nurse_id, section_id, unit_id, month, year, created_at
		FROM monthly_rosters
		WHERE month = $1 AND year = $2 AND ($3::BIGINT IS NULL OR unit_id = $3)
		ORDER BY section_id, nurse_id
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, query, month, year, unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.MonthlyRosterEntry, 0)
	for rows.Next() {
		entry := &domain.MonthlyRosterEntry{}
		dst := []any{&entry.ID, &entry.NurseID, &entry.SectionID, &entry.UnitID, &entry.Month, &entry.Year, &entry.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (q *queries) DeleteRosterEntriesFrom(ctx context.Context, nurseID int64, month, year int) (int64, error) {
	query := `DELETE FROM monthly_rosters WHERE nurse_id = $1 AND year = $2 AND month >= $3`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, query, nurseID, year, month)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
