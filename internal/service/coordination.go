package service

import (
	"context"
	"strings"

	"github.com/enf-hma/escala/backend/internal/domain"
)

type CoordinationInput struct {
	NurseID *int64
	// SectionID só é lido quando quem registra é admin; coordenadores usam a própria seção.
	SectionID int64
	UnitID    *int64
	Date      domain.Date
	Content   string
}

// coordinationSection decide em qual seção o aviso fica registrado.
func (s *Service) coordinationSection(ctx context.Context, actor domain.Actor, requested int64) (int64, error) {
	switch {
	case actor.IsCoordinator():
		if actor.SectionID == nil {
			return 0, domain.NewPermissionError("coordenador sem seção definida")
		}
		if requested != 0 && requested != *actor.SectionID {
			return 0, domain.NewPermissionError("você só pode registrar avisos da sua seção")
		}
		return *actor.SectionID, nil
	case actor.IsManager():
		if requested == 0 {
			return 0, domain.NewValidationError("informe a seção")
		}
		if _, err := s.store.GetSectionByID(ctx, requested); err != nil {
			return 0, notFoundOr(err, "seção não encontrada")
		}
		return requested, nil
	default:
		return 0, domain.NewPermissionError("apenas a coordenação pode registrar avisos")
	}
}

// CreateCoordinationRequest registra uma falta, um pedido de pagamento ou um aviso geral.
func (s *Service) CreateCoordinationRequest(ctx context.Context, actor domain.Actor, kind domain.CoordinationKind, in CoordinationInput) (*domain.CoordinationRequest, error) {
	if !kind.Valid() {
		return nil, domain.NewValidationError("tipo de aviso inválido")
	}

	sectionID, err := s.coordinationSection(ctx, actor, in.SectionID)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, domain.NewValidationError("o conteúdo é obrigatório")
	}
	if kind.RequiresNurse() && in.NurseID == nil {
		return nil, domain.NewValidationError("informe a enfermeira")
	}

	if in.NurseID != nil {
		nurse, err := s.store.GetNurseByID(ctx, *in.NurseID)
		if err != nil {
			return nil, notFoundOr(err, "enfermeira não encontrada")
		}
		if actor.IsCoordinator() && (nurse.SectionID == nil || *nurse.SectionID != sectionID) {
			return nil, domain.NewPermissionError("a enfermeira não pertence à sua seção")
		}
	}

	date := in.Date
	if date.IsZero() && kind == domain.CoordinationAbsence {
		date = s.today()
	}

	req := &domain.CoordinationRequest{
		Kind:      kind,
		NurseID:   in.NurseID,
		CreatedBy: actor.UserID,
		SectionID: sectionID,
		UnitID:    in.UnitID,
		Date:      date,
		Content:   content,
	}
	if err := s.store.CreateCoordinationRequest(ctx, req); err != nil {
		return nil, storeError(err)
	}

	s.publish(ctx, actor, domain.EventCoordinationLogged, req)

	return req, nil
}

// ListCoordinationRequests: coordenadores veem só a própria seção; gestores podem filtrar qualquer uma.
func (s *Service) ListCoordinationRequests(ctx context.Context, actor domain.Actor, kind domain.CoordinationKind, sectionID *int64) ([]*domain.CoordinationRequest, error) {
	if !kind.Valid() {
		return nil, domain.NewValidationError("tipo de aviso inválido")
	}

	switch {
	case actor.IsManager():
	case actor.IsCoordinator():
		if actor.SectionID == nil {
			return nil, domain.NewPermissionError("coordenador sem seção definida")
		}
		sectionID = actor.SectionID
	default:
		return nil, domain.NewPermissionError("permissão insuficiente")
	}

	requests, err := s.store.ListCoordinationRequests(ctx, kind, sectionID)
	if err != nil {
		return nil, storeError(err)
	}
	return requests, nil
}

// DeleteCoordinationRequest é exclusivo do admin e não tem volta.
func (s *Service) DeleteCoordinationRequest(ctx context.Context, actor domain.Actor, kind domain.CoordinationKind, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	req, err := s.store.GetCoordinationRequestByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "aviso não encontrado")
	}
	if req.Kind != kind {
		return domain.NewNotFoundError("aviso não encontrado")
	}
	if err := s.store.DeleteCoordinationRequest(ctx, id); err != nil {
		return notFoundOr(err, "aviso não encontrado")
	}

	s.publish(ctx, actor, domain.EventCoordinationDelete, req)

	return nil
}
