// Package filestore guarda o Record Store inteiro num único documento JSON.
// Serve para desenvolvimento local; cada operação lê o arquivo, altera e regrava.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// dataset é o documento carregado em memória.
type dataset struct {
	Nurses               []*domain.Nurse
	Shifts               []*domain.Shift
	TimeOffRequests      []*domain.TimeOffRequest
	Sections             []*domain.Section
	Units                []*domain.Unit
	MonthlyRosters       []*domain.MonthlyRosterEntry
	ShiftSwaps           []*domain.ShiftSwap
	CoordinationRequests []*domain.CoordinationRequest
	AuditEvents          []*domain.AuditEvent
	Sequences            map[string]int64

	// migrated indica que load converteu algo e o arquivo precisa ser regravado.
	migrated bool
}

type document struct {
	Nurses               []nurseRecord        `json:"nurses"`
	Shifts               []shiftRecord        `json:"shifts"`
	TimeOffRequests      []timeOffRecord      `json:"time_off_requests"`
	Sections             []sectionRecord      `json:"schedule_sections"`
	Units                []unitRecord         `json:"units"`
	MonthlyRosters       []rosterRecord       `json:"monthly_rosters"`
	ShiftSwaps           []swapRecord         `json:"shift_swaps"`
	CoordinationRequests []coordinationRecord `json:"coordination_requests"`
	AuditEvents          []auditRecord        `json:"audit_events"`
	Sequences            map[string]int64     `json:"sequences"`
}

func (d *dataset) nextID(collection string) int64 {
	d.Sequences[collection]++
	return d.Sequences[collection]
}

// syncSequences garante que nenhuma sequência fique atrás do maior id já gravado,
// o que acontece em arquivos sem o objeto sequences.
func (d *dataset) syncSequences() {
	bump := func(collection string, id int64) {
		if id > d.Sequences[collection] {
			d.Sequences[collection] = id
		}
	}
	for _, n := range d.Nurses {
		bump("nurses", n.ID)
	}
	for _, s := range d.Shifts {
		bump("shifts", s.ID)
	}
	for _, r := range d.TimeOffRequests {
		bump("time_off_requests", r.ID)
	}
	for _, s := range d.Sections {
		bump("schedule_sections", s.ID)
	}
	for _, u := range d.Units {
		bump("units", u.ID)
	}
	for _, e := range d.MonthlyRosters {
		bump("monthly_rosters", e.ID)
	}
	for _, s := range d.ShiftSwaps {
		bump("shift_swaps", s.ID)
	}
	for _, c := range d.CoordinationRequests {
		bump("coordination_requests", c.ID)
	}
	for _, e := range d.AuditEvents {
		bump("audit_events", e.ID)
	}
}

// Store implementa repository.Store sobre um arquivo JSON.
// O mutex serializa o ciclo ler-alterar-gravar dentro do processo; dois processos
// escrevendo no mesmo arquivo ainda podem perder atualizações.
type Store struct {
	*queries
	path string
	mu   sync.Mutex
}

var _ repository.Store = (*Store)(nil)

func New(path string) *Store {
	s := &Store{path: path}
	s.queries = &queries{store: s}
	return s
}

func (s *Store) WithTx(ctx context.Context, fn func(q repository.Querier) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load()
	if err != nil {
		return err
	}

	if err := fn(&queries{store: s, data: d}); err != nil {
		return err
	}

	return s.save(d)
}

func (s *Store) load() (*dataset, error) {
	d := &dataset{Sequences: make(map[string]int64)}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return d, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return d, nil
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	d.Nurses = make([]*domain.Nurse, 0, len(doc.Nurses))
	for _, rec := range doc.Nurses {
		nurse := rec.toDomain()
		// arquivos antigos guardam a senha em texto puro; vira hash na primeira leitura
		if nurse.PasswordHash == "" && rec.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(rec.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, err
			}
			nurse.PasswordHash = string(hash)
			d.migrated = true
		}
		d.Nurses = append(d.Nurses, nurse)
	}
	d.Shifts = convert(doc.Shifts, shiftRecord.toDomain)
	d.TimeOffRequests = convert(doc.TimeOffRequests, timeOffRecord.toDomain)
	d.Sections = convert(doc.Sections, sectionRecord.toDomain)
	d.Units = convert(doc.Units, unitRecord.toDomain)
	d.MonthlyRosters = convert(doc.MonthlyRosters, rosterRecord.toDomain)
	d.ShiftSwaps = convert(doc.ShiftSwaps, swapRecord.toDomain)
	d.CoordinationRequests = convert(doc.CoordinationRequests, coordinationRecord.toDomain)
	d.AuditEvents = convert(doc.AuditEvents, auditRecord.toDomain)
	for name, next := range doc.Sequences {
		d.Sequences[name] = next
	}
	d.syncSequences()

	return d, nil
}

func (s *Store) save(d *dataset) error {
	doc := document{
		Nurses:               convert(d.Nurses, fromNurse),
		Shifts:               convert(d.Shifts, fromShift),
		TimeOffRequests:      convert(d.TimeOffRequests, fromTimeOff),
		Sections:             convert(d.Sections, fromSection),
		Units:                convert(d.Units, fromUnit),
		MonthlyRosters:       convert(d.MonthlyRosters, fromRoster),
		ShiftSwaps:           convert(d.ShiftSwaps, fromSwap),
		CoordinationRequests: convert(d.CoordinationRequests, fromCoordination),
		AuditEvents:          convert(d.AuditEvents, fromAudit),
		Sequences:            d.Sequences,
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	// grava num temporário e renomeia, para nunca deixar o arquivo pela metade
	tmp, err := os.CreateTemp(dir, ".escala-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}

// queries executa cada operação. Fora de transação (data == nil) cada chamada
// carrega e regrava o arquivo; dentro, trabalha no documento da transação.
type queries struct {
	store *Store
	data  *dataset
}

func (q *queries) read(ctx context.Context, fn func(d *dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q.data != nil {
		return fn(q.data)
	}

	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	d, err := q.store.load()
	if err != nil {
		return err
	}

	if err := fn(d); err != nil {
		return err
	}
	if d.migrated {
		return q.store.save(d)
	}
	return nil
}

func (q *queries) write(ctx context.Context, fn func(d *dataset) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if q.data != nil {
		return fn(q.data)
	}

	q.store.mu.Lock()
	defer q.store.mu.Unlock()

	d, err := q.store.load()
	if err != nil {
		return err
	}

	if err := fn(d); err != nil {
		return err
	}

	return q.store.save(d)
}

func now() time.Time {
	return time.Now().UTC()
}
