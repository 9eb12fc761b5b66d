package repository

import (
	"context"

	"github.com/enf-hma/escala/backend/internal/domain"
)

const nurseColumns = `id, name, cpf, password_hash, coren, role, section_id, unit_id, vinculo, created_at`

func scanNurse(row interface{ Scan(dest ...any) error }) (*domain.Nurse, error) {
	nurse := &domain.Nurse{}
	dst := []any{
		&nurse.ID,
		&nurse.Name,
		&nurse.CPF,
		&nurse.PasswordHash,
		&nurse.Coren,
		&nurse.Role,
		&nurse.SectionID,
		&nurse.UnitID,
		&nurse.Vinculo,
		&nurse.CreatedAt,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return nurse, nil
}

func (q *queries) CreateNurse(ctx context.Context, nurse *domain.Nurse) error {
	query := `
		INSERT INTO nurses (name, cpf, password_hash, coren, role, section_id, unit_id, vinculo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	args := []any{nurse.Name, nurse.CPF, nurse.PasswordHash, nurse.Coren, nurse.Role, nurse.SectionID, nurse.UnitID, nurse.Vinculo}
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&nurse.ID, &nurse.CreatedAt); err != nil {
		return translate(err)
	}

	return nil
}

func (q *queries) GetNurseByID(ctx context.Context, id int64) (*domain.Nurse, error) {
	query := `SELECT ` + nurseColumns + ` FROM nurses WHERE id = $1`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	nurse, err := scanNurse(q.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}

	return nurse, nil
}

func (q *queries) GetNurseByCPF(ctx context.Context, cpf string) (*domain.Nurse, error) {
	query := `SELECT ` + nurseColumns + ` FROM nurses WHERE cpf = $1`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	nurse, err := scanNurse(q.db.QueryRowContext(ctx, query, cpf))
	if err != nil {
		return nil, translate(err)
	}

	return nurse, nil
}

func (q *queries) ListNurses(ctx context.Context) ([]*domain.Nurse, error) {
	query := `SELECT ` + nurseColumns + ` FROM nurses ORDER BY name`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nurses := make([]*domain.Nurse, 0)
	for rows.Next() {
		nurse, err := scanNurse(rows)
		if err != nil {
			return nil, err
		}
		nurses = append(nurses, nurse)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return nurses, nil
}

func (q *queries) UpdateNurse(ctx context.Context, nurse *domain.Nurse) error {
	query := `
		UPDATE nurses
		SET
			name = $1,
			cpf = $2,
			password_hash = $3,
			coren = $4,
			role = $5,
			section_id = $6,
			unit_id = $7,
			vinculo = $8
		WHERE id = $9
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	args := []any{nurse.Name, nurse.CPF, nurse.PasswordHash, nurse.Coren, nurse.Role, nurse.SectionID, nurse.UnitID, nurse.Vinculo, nurse.ID}
	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err)
	}

	return expectAffected(res)
}

func (q *queries) DeleteNurse(ctx context.Context, id int64) error {
	// plantões, folgas, lotações, trocas e avisos caem pelo ON DELETE CASCADE
	query := `DELETE FROM nurses WHERE id = $1`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	res, err := q.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return expectAffected(res)
}

func (q *queries) FindSectionCoordinator(ctx context.Context, sectionID int64) (*domain.Nurse, error) {
	query := `
		SELECT ` + nurseColumns + `
		FROM nurses
		WHERE section_id = $1 AND role = $2
		ORDER BY id
		LIMIT 1
	`

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	nurse, err := scanNurse(q.db.QueryRowContext(ctx, query, sectionID, domain.RoleCoordenador))
	if err != nil {
		return nil, translate(err)
	}

	return nurse, nil
}
