package filestore

import (
	"encoding/json"
	"time"

	"github.com/enf-hma/escala/backend/internal/domain"
)

// Os registros do arquivo usam os nomes de coluna (snake_case), não os da API.

type nurseRecord struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	CPF          string      `json:"cpf"`
	PasswordHash string      `json:"password_hash,omitempty"`
	Password     string      `json:"password,omitempty"`
	Coren        string      `json:"coren,omitempty"`
	Role         domain.Role `json:"role"`
	SectionID    *int64      `json:"section_id"`
	UnitID       *int64      `json:"unit_id"`
	Vinculo      string      `json:"vinculo"`
	CreatedAt    time.Time   `json:"created_at"`
}

func fromNurse(n *domain.Nurse) nurseRecord {
	return nurseRecord{
		ID:           n.ID,
		Name:         n.Name,
		CPF:          n.CPF,
		PasswordHash: n.PasswordHash,
		Coren:        n.Coren,
		Role:         n.Role,
		SectionID:    n.SectionID,
		UnitID:       n.UnitID,
		Vinculo:      n.Vinculo,
		CreatedAt:    n.CreatedAt,
	}
}

func (r nurseRecord) toDomain() *domain.Nurse {
	return &domain.Nurse{
		ID:           r.ID,
		Name:         r.Name,
		CPF:          r.CPF,
		PasswordHash: r.PasswordHash,
		Coren:        r.Coren,
		Role:         r.Role,
		SectionID:    r.SectionID,
		UnitID:       r.UnitID,
		Vinculo:      r.Vinculo,
		CreatedAt:    r.CreatedAt,
	}
}

type shiftRecord struct {
	ID        int64            `json:"id"`
	NurseID   int64            `json:"nurse_id"`
	Date      domain.Date      `json:"date"`
	Type      domain.ShiftType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
}

func fromShift(s *domain.Shift) shiftRecord {
	return shiftRecord{ID: s.ID, NurseID: s.NurseID, Date: s.Date, Type: s.Type, CreatedAt: s.CreatedAt}
}

func (r shiftRecord) toDomain() *domain.Shift {
	return &domain.Shift{ID: r.ID, NurseID: r.NurseID, Date: r.Date, Type: r.Type, CreatedAt: r.CreatedAt}
}

type timeOffRecord struct {
	ID        int64                `json:"id"`
	NurseID   int64                `json:"nurse_id"`
	StartDate domain.Date          `json:"start_date"`
	EndDate   domain.Date          `json:"end_date"`
	Reason    string               `json:"reason"`
	Type      domain.TimeOffType   `json:"type"`
	Status    domain.TimeOffStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

func fromTimeOff(t *domain.TimeOffRequest) timeOffRecord {
	return timeOffRecord{
		ID:        t.ID,
		NurseID:   t.NurseID,
		StartDate: t.StartDate,
		EndDate:   t.EndDate,
		Reason:    t.Reason,
		Type:      t.Type,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
}

func (r timeOffRecord) toDomain() *domain.TimeOffRequest {
	return &domain.TimeOffRequest{
		ID:        r.ID,
		NurseID:   r.NurseID,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Reason:    r.Reason,
		Type:      r.Type,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

type sectionRecord struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Position int32  `json:"position"`
}

func fromSection(s *domain.Section) sectionRecord {
	return sectionRecord{ID: s.ID, Title: s.Title, Position: s.Position}
}

func (r sectionRecord) toDomain() *domain.Section {
	return &domain.Section{ID: r.ID, Title: r.Title, Position: r.Position}
}

type unitRecord struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func fromUnit(u *domain.Unit) unitRecord {
	return unitRecord{ID: u.ID, Title: u.Title}
}

func (r unitRecord) toDomain() *domain.Unit {
	return &domain.Unit{ID: r.ID, Title: r.Title}
}

type rosterRecord struct {
	ID        int64     `json:"id"`
	NurseID   int64     `json:"nurse_id"`
	SectionID int64     `json:"section_id"`
	UnitID    *int64    `json:"unit_id"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
}

func fromRoster(e *domain.MonthlyRosterEntry) rosterRecord {
	return rosterRecord{
		ID:        e.ID,
		NurseID:   e.NurseID,
		SectionID: e.SectionID,
		UnitID:    e.UnitID,
		Month:     e.Month,
		Year:      e.Year,
		CreatedAt: e.CreatedAt,
	}
}

func (r rosterRecord) toDomain() *domain.MonthlyRosterEntry {
	return &domain.MonthlyRosterEntry{
		ID:        r.ID,
		NurseID:   r.NurseID,
		SectionID: r.SectionID,
		UnitID:    r.UnitID,
		Month:     r.Month,
		Year:      r.Year,
		CreatedAt: r.CreatedAt,
	}
}

type swapRecord struct {
	ID                 int64             `json:"id"`
	RequesterID        int64             `json:"requester_id"`
	RequestedID        int64             `json:"requested_id"`
	RequesterShiftDate domain.Date       `json:"requester_shift_date"`
	RequestedShiftDate domain.Date       `json:"requested_shift_date"`
	Status             domain.SwapStatus `json:"status"`
	CreatedAt          time.Time         `json:"created_at"`
}

func fromSwap(s *domain.ShiftSwap) swapRecord {
	return swapRecord{
		ID:                 s.ID,
		RequesterID:        s.RequesterID,
		RequestedID:        s.RequestedID,
		RequesterShiftDate: s.RequesterShiftDate,
		RequestedShiftDate: s.RequestedShiftDate,
		Status:             s.Status,
		CreatedAt:          s.CreatedAt,
	}
}

func (r swapRecord) toDomain() *domain.ShiftSwap {
	return &domain.ShiftSwap{
		ID:                 r.ID,
		RequesterID:        r.RequesterID,
		RequestedID:        r.RequestedID,
		RequesterShiftDate: r.RequesterShiftDate,
		RequestedShiftDate: r.RequestedShiftDate,
		Status:             r.Status,
		CreatedAt:          r.CreatedAt,
	}
}

type coordinationRecord struct {
	ID        int64                   `json:"id"`
	Kind      domain.CoordinationKind `json:"kind"`
	NurseID   *int64                  `json:"nurse_id"`
	CreatedBy int64                   `json:"created_by"`
	SectionID int64                   `json:"section_id"`
	UnitID    *int64                  `json:"unit_id"`
	Date      domain.Date             `json:"date"`
	Content   string                  `json:"content"`
	CreatedAt time.Time               `json:"created_at"`
}

func fromCoordination(c *domain.CoordinationRequest) coordinationRecord {
	return coordinationRecord{
		ID:        c.ID,
		Kind:      c.Kind,
		NurseID:   c.NurseID,
		CreatedBy: c.CreatedBy,
		SectionID: c.SectionID,
		UnitID:    c.UnitID,
		Date:      c.Date,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

func (r coordinationRecord) toDomain() *domain.CoordinationRequest {
	return &domain.CoordinationRequest{
		ID:        r.ID,
		Kind:      r.Kind,
		NurseID:   r.NurseID,
		CreatedBy: r.CreatedBy,
		SectionID: r.SectionID,
		UnitID:    r.UnitID,
		Date:      r.Date,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
}

type auditRecord struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	ActorID   int64           `json:"actor_id"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func fromAudit(e *domain.AuditEvent) auditRecord {
	return auditRecord{ID: e.ID, Type: e.Type, ActorID: e.ActorID, Payload: e.Payload, CreatedAt: e.CreatedAt}
}

func (r auditRecord) toDomain() *domain.AuditEvent {
	return &domain.AuditEvent{ID: r.ID, Type: r.Type, ActorID: r.ActorID, Payload: r.Payload, CreatedAt: r.CreatedAt}
}

// convert aplica fn a cada item, sempre devolvendo slice não nula.
func convert[A, B any](items []A, fn func(A) B) []B {
	out := make([]B, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
