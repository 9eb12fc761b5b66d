package service

import (
	"context"
	"strings"

	"github.com/enf-hma/escala/backend/internal/domain"
)

type TimeOffInput struct {
	// NurseID zero significa a própria enfermeira logada.
	NurseID   int64
	StartDate domain.Date
	EndDate   domain.Date
	Reason    string
	Type      domain.TimeOffType
}

type LeaveInput struct {
	NurseID   int64
	StartDate domain.Date
	EndDate   domain.Date
	Reason    string
	Type      domain.TimeOffType
}

func normalizeRange(start, end domain.Date) (domain.Date, domain.Date, error) {
	if start.IsZero() {
		return start, end, domain.NewValidationError("a data de início é obrigatória")
	}
	if end.IsZero() {
		end = start
	}
	if end.Before(start) {
		return start, end, domain.NewValidationError("a data de término não pode ser anterior à de início")
	}
	return start, end, nil
}

// RequestTimeOff registra um pedido de folga. Fica pendente, exceto quando um
// admin registra para outra pessoa: aí já nasce aprovado.
func (s *Service) RequestTimeOff(ctx context.Context, actor domain.Actor, in TimeOffInput) (*domain.TimeOffRequest, error) {
	nurseID := in.NurseID
	if nurseID == 0 {
		nurseID = actor.UserID
	}

	start, end, err := normalizeRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	kind := in.Type
	if kind == "" {
		kind = domain.TimeOffFolga
	}
	if !kind.Valid() {
		return nil, domain.NewValidationError("tipo de afastamento inválido")
	}

	nurse, err := s.store.GetNurseByID(ctx, nurseID)
	if err != nil {
		return nil, notFoundOr(err, "enfermeira não encontrada")
	}

	onBehalf := nurseID != actor.UserID
	if onBehalf && !canManageNurse(actor, nurse) {
		return nil, domain.NewPermissionError("você só pode pedir folga para si mesma")
	}

	status := domain.TimeOffPending
	if onBehalf && actor.IsAdmin() {
		status = domain.TimeOffApproved
	}

	req := &domain.TimeOffRequest{
		NurseID:   nurseID,
		StartDate: start,
		EndDate:   end,
		Reason:    strings.TrimSpace(in.Reason),
		Type:      kind,
		Status:    status,
	}
	if err := s.store.CreateTimeOff(ctx, req); err != nil {
		return nil, storeError(err)
	}

	s.publish(ctx, actor, domain.EventTimeOffRequested, req)

	return req, nil
}

// SetTimeOffStatus sobrescreve o status sem exigir ordem: uma folga rejeitada pode ser aprovada depois.
func (s *Service) SetTimeOffStatus(ctx context.Context, actor domain.Actor, id int64, status domain.TimeOffStatus) (*domain.TimeOffRequest, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status inválido")
	}

	req, err := s.store.GetTimeOffByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "pedido de folga não encontrado")
	}

	nurse, err := s.store.GetNurseByID(ctx, req.NurseID)
	if err != nil {
		return nil, notFoundOr(err, "enfermeira não encontrada")
	}
	if !canManageNurse(actor, nurse) {
		return nil, domain.NewPermissionError("permissão insuficiente")
	}

	if !req.Status.CanTransitionTo(status) {
		return nil, domain.NewValidationError("mudança de status não permitida")
	}

	if err := s.store.UpdateTimeOffStatus(ctx, id, status); err != nil {
		return nil, notFoundOr(err, "pedido de folga não encontrado")
	}
	previous := req.Status
	req.Status = status

	s.publish(ctx, actor, domain.EventTimeOffStatus, map[string]any{
		"id":   id,
		"from": previous,
		"to":   status,
	})

	return req, nil
}

// AssignLeave lança um afastamento já aprovado (férias, licença, cessão).
func (s *Service) AssignLeave(ctx context.Context, actor domain.Actor, in LeaveInput) (*domain.TimeOffRequest, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, domain.NewValidationError("tipo de afastamento inválido")
	}

	start, end, err := normalizeRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetNurseByID(ctx, in.NurseID); err != nil {
		return nil, notFoundOr(err, "enfermeira não encontrada")
	}

	req := &domain.TimeOffRequest{
		NurseID:   in.NurseID,
		StartDate: start,
		EndDate:   end,
		Reason:    strings.TrimSpace(in.Reason),
		Type:      in.Type,
		Status:    domain.TimeOffApproved,
	}
	if err := s.store.CreateTimeOff(ctx, req); err != nil {
		return nil, storeError(err)
	}

	s.publish(ctx, actor, domain.EventTimeOffRequested, req)

	return req, nil
}

// DeleteTimeOff: a dona apaga enquanto estiver pendente; o admin apaga sempre.
func (s *Service) DeleteTimeOff(ctx context.Context, actor domain.Actor, id int64) error {
	req, err := s.store.GetTimeOffByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "pedido de folga não encontrado")
	}

	switch {
	case actor.IsAdmin():
	case req.NurseID == actor.UserID && req.Status == domain.TimeOffPending:
	case req.NurseID == actor.UserID:
		return domain.NewConflictError("só é possível excluir pedidos pendentes")
	default:
		return domain.NewPermissionError("permissão insuficiente")
	}

	if err := s.store.DeleteTimeOff(ctx, id); err != nil {
		return notFoundOr(err, "pedido de folga não encontrado")
	}

	s.publish(ctx, actor, domain.EventTimeOffDeleted, req)

	return nil
}

// ListTimeOff: quem não gerencia ninguém só enxerga os próprios pedidos.
func (s *Service) ListTimeOff(ctx context.Context, actor domain.Actor, filter domain.TimeOffFilter) ([]*domain.TimeOffRequest, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, domain.NewValidationError("status inválido")
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, domain.NewValidationError("período inválido")
	}
	if !actor.IsManager() && !actor.IsCoordinator() {
		self := actor.UserID
		filter.NurseID = &self
	}

	requests, err := s.store.ListTimeOff(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	return requests, nil
}
