package filestore

import (
	"context"
	"slices"
	"sort"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/repository"
)

func (d *dataset) rosterIndex(nurseID int64, month, year int) int {
	return slices.IndexFunc(d.MonthlyRosters, func(e *domain.MonthlyRosterEntry) bool {
		return e.NurseID == nurseID && e.Month == month && e.Year == year
	})
}

func (q *queries) UpsertRosterEntry(ctx context.Context, entry *domain.MonthlyRosterEntry) error {
	return q.write(ctx, func(d *dataset) error {
		if i := d.rosterIndex(entry.NurseID, entry.Month, entry.Year); i >= 0 {
			existing := d.MonthlyRosters[i]
			existing.SectionID = entry.SectionID
			existing.UnitID = entry.UnitID
			entry.ID = existing.ID
			entry.CreatedAt = existing.CreatedAt
			return nil
		}

		entry.ID = d.nextID("monthly_rosters")
		entry.CreatedAt = now()
		c := *entry
		d.MonthlyRosters = append(d.MonthlyRosters, &c)
		return nil
	})
}

func (q *queries) InsertRosterEntryIfAbsent(ctx context.Context, entry *domain.MonthlyRosterEntry) (bool, error) {
	inserted := false
	err := q.write(ctx, func(d *dataset) error {
		if d.rosterIndex(entry.NurseID, entry.Month, entry.Year) >= 0 {
			return nil
		}

		entry.ID = d.nextID("monthly_rosters")
		entry.CreatedAt = now()
		c := *entry
		d.MonthlyRosters = append(d.MonthlyRosters, &c)
		inserted = true
		return nil
	})
	return inserted, err
}

func (q *queries) GetRosterEntry(ctx context.Context, nurseID int64, month, year int) (*domain.MonthlyRosterEntry, error) {
	var entry *domain.MonthlyRosterEntry
	err := q.read(ctx, func(d *dataset) error {
		i := d.rosterIndex(nurseID, month, year)
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		c := *d.MonthlyRosters[i]
		entry = &c
		return nil
	})
	return entry, err
}

func (q *queries) ListRosterEntries(ctx context.Context, month, year int, unitID *int64) ([]*domain.MonthlyRosterEntry, error) {
	entries := make([]*domain.MonthlyRosterEntry, 0)
	err := q.read(ctx, func(d *dataset) error {
		for _, e := range d.MonthlyRosters {
			if e.Month != month || e.Year != year {
				continue
			}
			if unitID != nil && (e.UnitID == nil || *e.UnitID != *unitID) {
				continue
			}
			c := *e
			entries = append(entries, &c)
		}
		return nil
	})
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].SectionID != entries[j].SectionID {
			return entries[i].SectionID < entries[j].SectionID
		}
		return entries[i].NurseID < entries[j].NurseID
	})
	return entries, err
}

func (q *queries) DeleteRosterEntriesFrom(ctx context.Context, nurseID int64, month, year int) (int64, error) {
	var removed int64
	err := q.write(ctx, func(d *dataset) error {
		before := len(d.MonthlyRosters)
		d.MonthlyRosters = slices.DeleteFunc(d.MonthlyRosters, func(e *domain.MonthlyRosterEntry) bool {
			return e.NurseID == nurseID && e.Year == year && e.Month >= month
		})
		removed = int64(before - len(d.MonthlyRosters))
		return nil
	})
	return removed, err
}
