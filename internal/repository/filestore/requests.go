package filestore

import (
	"context"
	"slices"
	"sort"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/repository"
)

func (q *queries) CreateTimeOff(ctx context.Context, req *domain.TimeOffRequest) error {
	return q.write(ctx, func(d *dataset) error {
		req.ID = d.nextID("time_off_requests")
		req.CreatedAt = now()
		c := *req
		d.TimeOffRequests = append(d.TimeOffRequests, &c)
		return nil
	})
}

func (q *queries) GetTimeOffByID(ctx context.Context, id int64) (*domain.TimeOffRequest, error) {
	var req *domain.TimeOffRequest
	err := q.read(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.TimeOffRequests, func(r *domain.TimeOffRequest) bool { return r.ID == id })
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		c := *d.TimeOffRequests[i]
		req = &c
		return nil
	})
	return req, err
}

func (q *queries) ListTimeOff(ctx context.Context, filter domain.TimeOffFilter) ([]*domain.TimeOffRequest, error) {
	requests := make([]*domain.TimeOffRequest, 0)
	err := q.read(ctx, func(d *dataset) error {
		for _, r := range d.TimeOffRequests {
			if filter.NurseID != nil && r.NurseID != *filter.NurseID {
				continue
			}
			if filter.Status != nil && r.Status != *filter.Status {
				continue
			}
			if !filter.From.IsZero() && r.EndDate.Before(filter.From) {
				continue
			}
			if !filter.To.IsZero() && r.StartDate.After(filter.To) {
				continue
			}
			c := *r
			requests = append(requests, &c)
		}
		return nil
	})
	sort.SliceStable(requests, func(i, j int) bool {
		if !requests[i].StartDate.Equal(requests[j].StartDate) {
			return requests[i].StartDate.After(requests[j].StartDate)
		}
		return requests[i].ID > requests[j].ID
	})
	return requests, err
}

func (q *queries) UpdateTimeOffStatus(ctx context.Context, id int64, status domain.TimeOffStatus) error {
	return q.write(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.TimeOffRequests, func(r *domain.TimeOffRequest) bool { return r.ID == id })
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		d.TimeOffRequests[i].Status = status
		return nil
	})
}

func (q *queries) DeleteTimeOff(ctx context.Context, id int64) error {
	return q.write(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.TimeOffRequests, func(r *domain.TimeOffRequest) bool { return r.ID == id })
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		d.TimeOffRequests = slices.Delete(d.TimeOffRequests, i, i+1)
		return nil
	})
}

func (q *queries) CreateShiftSwap(ctx context.Context, swap *domain.ShiftSwap) error {
	return q.write(ctx, func(d *dataset) error {
		swap.ID = d.nextID("shift_swaps")
		swap.CreatedAt = now()
		c := *swap
		d.ShiftSwaps = append(d.ShiftSwaps, &c)
		return nil
	})
}

func (q *queries) GetShiftSwapByID(ctx context.Context, id int64) (*domain.ShiftSwap, error) {
	var swap *domain.ShiftSwap
	err := q.read(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.ShiftSwaps, func(s *domain.ShiftSwap) bool { return s.ID == id })
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		c := *d.ShiftSwaps[i]
		swap = &c
		return nil
	})
	return swap, err
}

func (q *queries) ListShiftSwaps(ctx context.Context, nurseID *int64, status *domain.SwapStatus) ([]*domain.ShiftSwap, error) {
	swaps := make([]*domain.ShiftSwap, 0)
	err := q.read(ctx, func(d *dataset) error {
		for _, s := range d.ShiftSwaps {
			if nurseID != nil && !s.Involves(*nurseID) {
				continue
			}
			if status != nil && s.Status != *status {
				continue
			}
			c := *s
			swaps = append(swaps, &c)
		}
		return nil
	})
	sort.SliceStable(swaps, func(i, j int) bool { return swaps[i].ID > swaps[j].ID })
	return swaps, err
}

func (q *queries) UpdateShiftSwapStatus(ctx context.Context, id int64, from, to domain.SwapStatus) error {
	return q.write(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.ShiftSwaps, func(s *domain.ShiftSwap) bool { return s.ID == id && s.Status == from })
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		d.ShiftSwaps[i].Status = to
		return nil
	})
}

func (q *queries) DeleteShiftSwap(ctx context.Context, id int64) error {
	return q.write(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.ShiftSwaps, func(s *domain.ShiftSwap) bool { return s.ID == id })
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		d.ShiftSwaps = slices.Delete(d.ShiftSwaps, i, i+1)
		return nil
	})
}

func (q *queries) CreateCoordinationRequest(ctx context.Context, req *domain.CoordinationRequest) error {
	return q.write(ctx, func(d *dataset) error {
		req.ID = d.nextID("coordination_requests")
		req.CreatedAt = now()
		c := *req
		d.CoordinationRequests = append(d.CoordinationRequests, &c)
		return nil
	})
}

func (q *queries) GetCoordinationRequestByID(ctx context.Context, id int64) (*domain.CoordinationRequest, error) {
	var req *domain.CoordinationRequest
	err := q.read(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.CoordinationRequests, func(r *domain.CoordinationRequest) bool { return r.ID == id })
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		c := *d.CoordinationRequests[i]
		req = &c
		return nil
	})
	return req, err
}

func (q *queries) ListCoordinationRequests(ctx context.Context, kind domain.CoordinationKind, sectionID *int64) ([]*domain.CoordinationRequest, error) {
	requests := make([]*domain.CoordinationRequest, 0)
	err := q.read(ctx, func(d *dataset) error {
		for _, r := range d.CoordinationRequests {
			if r.Kind != kind {
				continue
			}
			if sectionID != nil && r.SectionID != *sectionID {
				continue
			}
			c := *r
			requests = append(requests, &c)
		}
		return nil
	})
	sort.SliceStable(requests, func(i, j int) bool { return requests[i].ID > requests[j].ID })
	return requests, err
}

func (q *queries) DeleteCoordinationRequest(ctx context.Context, id int64) error {
	return q.write(ctx, func(d *dataset) error {
		i := slices.IndexFunc(d.CoordinationRequests, func(r *domain.CoordinationRequest) bool { return r.ID == id })
		if i < 0 {
			return repository.ErrRecordNotFound
		}
		d.CoordinationRequests = slices.Delete(d.CoordinationRequests, i, i+1)
		return nil
	})
}

func (q *queries) InsertAuditEvent(ctx context.Context, event *domain.AuditEvent) error {
	return q.write(ctx, func(d *dataset) error {
		event.ID = d.nextID("audit_events")
		event.CreatedAt = now()
		c := *event
		d.AuditEvents = append(d.AuditEvents, &c)
		return nil
	})
}

func (q *queries) ListAuditEvents(ctx context.Context, limit int) ([]*domain.AuditEvent, error) {
	events := make([]*domain.AuditEvent, 0)
	err := q.read(ctx, func(d *dataset) error {
		for i := len(d.AuditEvents) - 1; i >= 0 && len(events) < limit; i-- {
			c := *d.AuditEvents[i]
			events = append(events, &c)
		}
		return nil
	})
	return events, err
}
