package filestore

import (
	"context"
	"slices"
	"sort"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/repository"
)

func (d *dataset) shiftIndex(nurseID int64, date domain.Date) int {
	return slices.IndexFunc(d.Shifts, func(s *domain.Shift) bool {
		return s.NurseID == nurseID && s.Date.Equal(date)
	})
}

func (q *queries) CreateShift(ctx context.Context, shift *domain.Shift) error {
	return q.write(ctx, func(d *dataset) error {
		if d.shiftIndex(shift.NurseID, shift.Date) >= 0 {
			return repository.ErrShiftConflict
		}

		shift.ID = d.nextID("shifts")
		shift.CreatedAt = now()
		c := *shift
		d.Shifts = append(d.Shifts, &c)
		return nil
	})
}

func (q *queries) GetShift(ctx context.Context, nurseID int64, date domain.Date) (*domain.Shift, error) {
	var shift *domain.Shift
	err := q.read(ctx, func(d *dataset) error {
		i := d.shiftIndex(nurseID, date)
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		c := *d.Shifts[i]
		shift = &c
		return nil
	})
	return shift, err
}

func (q *queries) ListShifts(ctx context.Context, from, to domain.Date) ([]*domain.Shift, error) {
	shifts := make([]*domain.Shift, 0)
	err := q.read(ctx, func(d *dataset) error {
		for _, s := range d.Shifts {
			if s.Date.Before(from) || s.Date.After(to) {
				continue
			}
			c := *s
			shifts = append(shifts, &c)
		}
		return nil
	})
	sort.SliceStable(shifts, func(i, j int) bool {
		if !shifts[i].Date.Equal(shifts[j].Date) {
			return shifts[i].Date.Before(shifts[j].Date)
		}
		return shifts[i].NurseID < shifts[j].NurseID
	})
	return shifts, err
}

func (q *queries) DeleteShift(ctx context.Context, nurseID int64, date domain.Date) error {
	return q.write(ctx, func(d *dataset) error {
		d.Shifts = slices.DeleteFunc(d.Shifts, func(s *domain.Shift) bool {
			return s.NurseID == nurseID && s.Date.Equal(date)
		})
		return nil
	})
}

func (q *queries) ReassignShift(ctx context.Context, fromNurseID int64, date domain.Date, toNurseID int64) error {
	return q.write(ctx, func(d *dataset) error {
		i := d.shiftIndex(fromNurseID, date)
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		if d.shiftIndex(toNurseID, date) >= 0 {
			return repository.ErrShiftConflict
		}
		d.Shifts[i].NurseID = toNurseID
		return nil
	})
}
