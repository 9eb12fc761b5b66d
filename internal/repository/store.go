package repository

import (
	"context"
	"errors"

	"github.com/enf-hma/escala/backend/internal/domain"
)

var (
	ErrRecordNotFound = errors.New("registro não encontrado")
	ErrDuplicateCPF   = errors.New("CPF já cadastrado")
	// ErrShiftConflict indica que a enfermeira já tem um plantão nesse dia.
	ErrShiftConflict = errors.New("plantão duplicado para a mesma enfermeira e data")
)

// Querier reúne todas as operações de persistência. É implementado tanto pelo
// banco relacional quanto pelo arquivo JSON, e também pela transação de cada um.
type Querier interface {
	CreateNurse(ctx context.Context, nurse *domain.Nurse) error
	GetNurseByID(ctx context.Context, id int64) (*domain.Nurse, error)
	GetNurseByCPF(ctx context.Context, cpf string) (*domain.Nurse, error)
	ListNurses(ctx context.Context) ([]*domain.Nurse, error)
	UpdateNurse(ctx context.Context, nurse *domain.Nurse) error
	// DeleteNurse remove também plantões, folgas, lotações e trocas da enfermeira.
	DeleteNurse(ctx context.Context, id int64) error
	FindSectionCoordinator(ctx context.Context, sectionID int64) (*domain.Nurse, error)

	CreateSection(ctx context.Context, section *domain.Section) error
	GetSectionByID(ctx context.Context, id int64) (*domain.Section, error)
	ListSections(ctx context.Context) ([]*domain.Section, error)
	UpdateSection(ctx context.Context, section *domain.Section) error
	// DeleteSection desvincula as enfermeiras da seção e apaga lotações e avisos dela.
	DeleteSection(ctx context.Context, id int64) error

	CreateUnit(ctx context.Context, unit *domain.Unit) error
	GetUnitByID(ctx context.Context, id int64) (*domain.Unit, error)
	ListUnits(ctx context.Context) ([]*domain.Unit, error)
	UpdateUnit(ctx context.Context, unit *domain.Unit) error
	DeleteUnit(ctx context.Context, id int64) error

	UpsertRosterEntry(ctx context.Context, entry *domain.MonthlyRosterEntry) error
	// InsertRosterEntryIfAbsent devolve false quando já existe lotação para a enfermeira no mês.
	InsertRosterEntryIfAbsent(ctx context.Context, entry *domain.MonthlyRosterEntry) (bool, error)
	GetRosterEntry(ctx context.Context, nurseID int64, month, year int) (*domain.MonthlyRosterEntry, error)
	ListRosterEntries(ctx context.Context, month, year int, unitID *int64) ([]*domain.MonthlyRosterEntry, error)
	DeleteRosterEntriesFrom(ctx context.Context, nurseID int64, month, year int) (int64, error)

	CreateShift(ctx context.Context, shift *domain.Shift) error
	GetShift(ctx context.Context, nurseID int64, date domain.Date) (*domain.Shift, error)
	ListShifts(ctx context.Context, from, to domain.Date) ([]*domain.Shift, error)
	DeleteShift(ctx context.Context, nurseID int64, date domain.Date) error
	// ReassignShift passa o plantão de (fromNurseID, date) para toNurseID.
	ReassignShift(ctx context.Context, fromNurseID int64, date domain.Date, toNurseID int64) error

	CreateTimeOff(ctx context.Context, req *domain.TimeOffRequest) error
	GetTimeOffByID(ctx context.Context, id int64) (*domain.TimeOffRequest, error)
	ListTimeOff(ctx context.Context, filter domain.TimeOffFilter) ([]*domain.TimeOffRequest, error)
	UpdateTimeOffStatus(ctx context.Context, id int64, status domain.TimeOffStatus) error
	DeleteTimeOff(ctx context.Context, id int64) error

	CreateShiftSwap(ctx context.Context, swap *domain.ShiftSwap) error
	GetShiftSwapByID(ctx context.Context, id int64) (*domain.ShiftSwap, error)
	ListShiftSwaps(ctx context.Context, nurseID *int64, status *domain.SwapStatus) ([]*domain.ShiftSwap, error)
	// UpdateShiftSwapStatus só altera se o status atual for from.
	UpdateShiftSwapStatus(ctx context.Context, id int64, from, to domain.SwapStatus) error
	DeleteShiftSwap(ctx context.Context, id int64) error

	CreateCoordinationRequest(ctx context.Context, req *domain.CoordinationRequest) error
	GetCoordinationRequestByID(ctx context.Context, id int64) (*domain.CoordinationRequest, error)
	ListCoordinationRequests(ctx context.Context, kind domain.CoordinationKind, sectionID *int64) ([]*domain.CoordinationRequest, error)
	DeleteCoordinationRequest(ctx context.Context, id int64) error

	InsertAuditEvent(ctx context.Context, event *domain.AuditEvent) error
	ListAuditEvents(ctx context.Context, limit int) ([]*domain.AuditEvent, error)
}

// Store é o Record Store completo: consultas avulsas mais transação explícita.
type Store interface {
	Querier
	// WithTx executa fn numa transação; se fn falhar nada do que ela fez é gravado.
	WithTx(ctx context.Context, fn func(q Querier) error) error
}
