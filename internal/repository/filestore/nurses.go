package filestore

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/repository"
)

func cloneNurse(n *domain.Nurse) *domain.Nurse {
	c := *n
	return &c
}

func (d *dataset) nurseIndex(id int64) int {
	return slices.IndexFunc(d.Nurses, func(n *domain.Nurse) bool { return n.ID == id })
}

func (d *dataset) cpfTaken(cpf string, exceptID int64) bool {
	return slices.ContainsFunc(d.Nurses, func(n *domain.Nurse) bool { return n.CPF == cpf && n.ID != exceptID })
}

func (q *queries) CreateNurse(ctx context.Context, nurse *domain.Nurse) error {
	return q.write(ctx, func(d *dataset) error {
		if d.cpfTaken(nurse.CPF, 0) {
			return repository.ErrDuplicateCPF
		}

		nurse.ID = d.nextID("nurses")
		nurse.CreatedAt = now()
		d.Nurses = append(d.Nurses, cloneNurse(nurse))
		return nil
	})
}

func (q *queries) GetNurseByID(ctx context.Context, id int64) (*domain.Nurse, error) {
	var nurse *domain.Nurse
	err := q.read(ctx, func(d *dataset) error {
		i := d.nurseIndex(id)
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		nurse = cloneNurse(d.Nurses[i])
		return nil
	})
	return nurse, err
}

func (q *queries) GetNurseByCPF(ctx context.Context, cpf string) (*domain.Nurse, error) {
	var nurse *domain.Nurse
	err := q.read(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.Nurses, func(n *domain.Nurse) bool { return n.CPF == cpf })
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		nurse = cloneNurse(d.Nurses[i])
		return nil
	})
	return nurse, err
}

func (q *queries) ListNurses(ctx context.Context) ([]*domain.Nurse, error) {
	nurses := make([]*domain.Nurse, 0)
	err := q.read(ctx, func(d *dataset) error {
		for _, n := range d.Nurses {
			nurses = append(nurses, cloneNurse(n))
		}
		return nil
	})
	sort.SliceStable(nurses, func(i, j int) bool {
		return strings.ToLower(nurses[i].Name) < strings.ToLower(nurses[j].Name)
	})
	return nurses, err
}

func (q *queries) UpdateNurse(ctx context.Context, nurse *domain.Nurse) error {
	return q.write(ctx, func(d *dataset) error {
		i := d.nurseIndex(nurse.ID)
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		if d.cpfTaken(nurse.CPF, nurse.ID) {
			return repository.ErrDuplicateCPF
		}

		updated := cloneNurse(nurse)
		updated.CreatedAt = d.Nurses[i].CreatedAt
		d.Nurses[i] = updated
		return nil
	})
}

func (q *queries) DeleteNurse(ctx context.Context, id int64) error {
	return q.write(ctx, func(d *dataset) error {
		i := d.nurseIndex(id)
		if i < 0 {
			return repository.ErrRecordNotFound
		}

		d.Nurses = slices.Delete(d.Nurses, i, i+1)
		d.Shifts = slices.DeleteFunc(d.Shifts, func(s *domain.Shift) bool { return s.NurseID == id })
		d.TimeOffRequests = slices.DeleteFunc(d.TimeOffRequests, func(r *domain.TimeOffRequest) bool { return r.NurseID == id })
		d.MonthlyRosters = slices.DeleteFunc(d.MonthlyRosters, func(e *domain.MonthlyRosterEntry) bool { return e.NurseID == id })
		d.ShiftSwaps = slices.DeleteFunc(d.ShiftSwaps, func(s *domain.ShiftSwap) bool { return s.Involves(id) })
		d.CoordinationRequests = slices.DeleteFunc(d.CoordinationRequests, func(r *domain.CoordinationRequest) bool {
			return r.CreatedBy == id || (r.NurseID != nil && *r.NurseID == id)
		})
		return nil
	})
}

func (q *queries) FindSectionCoordinator(ctx context.Context, sectionID int64) (*domain.Nurse, error) {
	var coordinator *domain.Nurse
	err := q.read(ctx, func(d *dataset) error {
		for _, n := range d.Nurses {
			if n.Role != domain.RoleCoordenador || n.SectionID == nil || *n.SectionID != sectionID {
				continue
			}
			if coordinator == nil || n.ID < coordinator.ID {
				coordinator = cloneNurse(n)
			}
		}
		if coordinator == nil {
			return repository.ErrRecordNotFound
		}
		return nil
	})
	return coordinator, err
}
