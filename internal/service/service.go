// Package service contém as regras de negócio da escala: lotação mensal, folgas,
// trocas de plantão e avisos da coordenação. Tudo passa pelo repository.Store;
// nenhum fluxo sabe se está falando com o PostgreSQL ou com o arquivo JSON.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/repository"
)

// Publisher entrega os eventos de domínio para a fila de auditoria.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, domain.Event) error { return nil }

type Service struct {
	store     repository.Store
	publisher Publisher
	now       func() time.Time
	location  *time.Location
	logger    *slog.Logger
}

type Option func(*Service)

func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock troca o relógio; os testes usam para fixar "hoje".
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLocation define o fuso usado para decidir qual é o dia de hoje.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:     store,
		publisher: noopPublisher{},
		now:       time.Now,
		location:  time.UTC,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() domain.Date {
	return domain.DateOf(s.now().In(s.location))
}

// publish roda depois do commit. Falha ao publicar não desfaz a operação.
func (s *Service) publish(ctx context.Context, actor domain.Actor, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("falha ao serializar evento", "type", eventType, "error", err)
		return
	}

	event := domain.Event{
		Type:       eventType,
		ActorID:    actor.UserID,
		Payload:    raw,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("falha ao publicar evento", "type", eventType, "error", err)
	}
}

// storeError embrulha falhas do backend. Erros que já são *domain.Error passam intactos.
func storeError(err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.NewStoreError("erro ao acessar o armazenamento", err)
}

// notFoundOr devolve msg como NotFoundError quando err é ErrRecordNotFound.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, repository.ErrRecordNotFound) {
		return domain.NewNotFoundError(msg)
	}
	return storeError(err)
}

func requireManager(actor domain.Actor) error {
	if !actor.IsManager() {
		return domain.NewPermissionError("permissão insuficiente")
	}
	return nil
}

func requireAdmin(actor domain.Actor) error {
	if !actor.IsAdmin() {
		return domain.NewPermissionError("apenas administradores podem realizar esta operação")
	}
	return nil
}

// canManageNurse: gestores mexem em qualquer enfermeira, coordenadores só na própria seção.
func canManageNurse(actor domain.Actor, nurse *domain.Nurse) bool {
	if actor.IsManager() {
		return true
	}
	if actor.IsCoordinator() && nurse.SectionID != nil {
		return actor.InSection(*nurse.SectionID)
	}
	return false
}
