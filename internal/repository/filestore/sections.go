package filestore

import (
	"context"
	"slices"
	"sort"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/repository"
)

func (q *queries) CreateSection(ctx context.Context, section *domain.Section) error {
	return q.write(ctx, func(d *dataset) error {
		section.ID = d.nextID("schedule_sections")
		c := *section
		d.Sections = append(d.Sections, &c)
		return nil
	})
}

func (q *queries) GetSectionByID(ctx context.Context, id int64) (*domain.Section, error) {
	var section *domain.Section
	err := q.read(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.Sections, func(s *domain.Section) bool { return s.ID == id })
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		c := *d.Sections[i]
		section = &c
		return nil
	})
	return section, err
}

func (q *queries) ListSections(ctx context.Context) ([]*domain.Section, error) {
	sections := make([]*domain.Section, 0)
	err := q.read(ctx, func(d *dataset) error {
		for _, s := range d.Sections {
			c := *s
			sections = append(sections, &c)
		}
		return nil
	})
	sort.SliceStable(sections, func(i, j int) bool {
		if sections[i].Position != sections[j].Position {
			return sections[i].Position < sections[j].Position
		}
		return sections[i].ID < sections[j].ID
	})
	return sections, err
}

func (q *queries) UpdateSection(ctx context.Context, section *domain.Section) error {
	return q.write(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.Sections, func(s *domain.Section) bool { return s.ID == section.ID })
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		c := *section
		d.Sections[i] = &c
		return nil
	})
}

func (q *queries) DeleteSection(ctx context.Context, id int64) error {
	return q.write(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.Sections, func(s *domain.Section) bool { return s.ID == id })
		if i < 0 {
			return repository.ErrRecordNotFound
		}

		d.Sections = slices.Delete(d.Sections, i, i+1)
		for _, n := range d.Nurses {
			if n.SectionID != nil && *n.SectionID == id {
				n.SectionID = nil
			}
		}
		d.MonthlyRosters = slices.DeleteFunc(d.MonthlyRosters, func(e *domain.MonthlyRosterEntry) bool { return e.SectionID == id })
		d.CoordinationRequests = slices.DeleteFunc(d.CoordinationRequests, func(r *domain.CoordinationRequest) bool { return r.SectionID == id })
		return nil
	})
}

func (q *queries) CreateUnit(ctx context.Context, unit *domain.Unit) error {
	return q.write(ctx, func(d *dataset) error {
		unit.ID = d.nextID("units")
		c := *unit
		d.Units = append(d.Units, &c)
		return nil
	})
}

func (q *queries) GetUnitByID(ctx context.Context, id int64) (*domain.Unit, error) {
	var unit *domain.Unit
	err := q.read(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.Units, func(u *domain.Unit) bool { return u.ID == id })
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		c := *d.Units[i]
		unit = &c
		return nil
	})
	return unit, err
}

func (q *queries) ListUnits(ctx context.Context) ([]*domain.Unit, error) {
	units := make([]*domain.Unit, 0)
	err := q.read(ctx, func(d *dataset) error {
		for _, u := range d.Units {
			c := *u
			units = append(units, &c)
		}
		return nil
	})
	sort.SliceStable(units, func(i, j int) bool { return units[i].Title < units[j].Title })
	return units, err
}

func (q *queries) UpdateUnit(ctx context.Context, unit *domain.Unit) error {
	return q.write(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.Units, func(u *domain.Unit) bool { return u.ID == unit.ID })
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		c := *unit
		d.Units[i] = &c
		return nil
	})
}

func (q *queries) DeleteUnit(ctx context.Context, id int64) error {
	return q.write(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.Units, func(u *domain.Unit) bool { return u.ID == id })
		if i < 0 {
			return repository.ErrRecordNotFound
		}

		d.Units = slices.Delete(d.Units, i, i+1)
		matches := func(p *int64) bool { return p != nil && *p == id }
		for _, n := range d.Nurses {
			if matches(n.UnitID) {
				n.UnitID = nil
			}
		}
		for _, e := range d.MonthlyRosters {
			if matches(e.UnitID) {
				e.UnitID = nil
			}
		}
		for _, r := range d.CoordinationRequests {
			if matches(r.UnitID) {
				r.UnitID = nil
			}
		}
		return nil
	})
}
