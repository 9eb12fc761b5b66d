package repository

import (
	"context"

	"github.com/enf-hma/escala/backend/internal/domain"
)

func (q *queries) CreateSection(ctx context.Context, section *domain.Section) error {
	query := `
		INSERT INTO schedule_sections (title, position)
		VALUES ($1, $2)
		RETURNING id
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	if err := q.db.QueryRowContext(ctx, query, section.Title, section.Position).Scan(&section.ID); err != nil {
		return translate(err)
	}

	return nil
}

func (q *queries) GetSectionByID(ctx context.Context, id int64) (*domain.Section, error) {
	query := `SELECT title, position FROM schedule_sections WHERE id = $1`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	section := &domain.Section{ID: id}
	if err := q.db.QueryRowContext(ctx, query, id).Scan(&section.Title, &section.Position); err != nil {
		return nil, translate(err)
	}

	return section, nil
}

func (q *queries) ListSections(ctx context.Context) ([]*domain.Section, error) {
	query := `SELECT id, title, position FROM schedule_sections ORDER BY position, id`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := make([]*domain.Section, 0)
	for rows.Next() {
		section := &domain.Section{}
		if err := rows.Scan(&section.ID, &section.Title, &section.Position); err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sections, nil
}

func (q *queries) UpdateSection(ctx context.Context, section *domain.Section) error {
	query := `UPDATE schedule_sections SET title = $1, position = $2 WHERE id = $3`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, query, section.Title, section.Position, section.ID)
	if err != nil {
		return translate(err)
	}

	return expectAffected(res)
}

func (q *queries) DeleteSection(ctx context.Context, id int64) error {
	// nurses.section_id vira NULL pelo ON DELETE SET NULL
	query := `DELETE FROM schedule_sections WHERE id = $1`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (q *queries) CreateUnit(ctx context.Context, unit *domain.Unit) error {
	query := `INSERT INTO units (title) VALUES ($1) RETURNING id`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	if err := q.db.QueryRowContext(ctx, query, unit.Title).Scan(&unit.ID); err != nil {
		return translate(err)
	}

	return nil
}

func (q *queries) GetUnitByID(ctx context.Context, id int64) (*domain.Unit, error) {
	query := `SELECT title FROM units WHERE id = $1`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	unit := &domain.Unit{ID: id}
	if err := q.db.QueryRowContext(ctx, query, id).Scan(&unit.Title); err != nil {
		return nil, translate(err)
	}

	return unit, nil
}

func (q *queries) ListUnits(ctx context.Context) ([]*domain.Unit, error) {
	query := `SELECT id, title FROM units ORDER BY title`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := make([]*domain.Unit, 0)
	for rows.Next() {
		unit := &domain.Unit{}
		if err := rows.Scan(&unit.ID, &unit.Title); err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return units, nil
}

func (q *queries) UpdateUnit(ctx context.Context, unit *domain.Unit) error {
	query := `UPDATE units SET title = $1 WHERE id = $2`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, query, unit.Title, unit.ID)
	if err != nil {
		return translate(err)
	}

	return expectAffected(res)
}

func (q *queries) DeleteUnit(ctx context.Context, id int64) error {
	query := `DELETE FROM units WHERE id = $1`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}
