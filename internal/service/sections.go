package service

import (
	"context"
	"strings"

	"github.com/enf-hma/escala/backend/internal/domain"
)

func (s *Service) CreateSection(ctx context.Context, actor domain.Actor, title string, position int32) (*domain.Section, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewValidationError("o título é obrigatório")
	}

	section := &domain.Section{Title: title, Position: position}
	if err := s.store.CreateSection(ctx, section); err != nil {
		return nil, storeError(err)
	}
	return section, nil
}

func (s *Service) UpdateSection(ctx context.Context, actor domain.Actor, id int64, title *string, position *int32) (*domain.Section, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	section, err := s.store.GetSectionByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "seção não encontrada")
	}

	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return nil, domain.NewValidationError("o título é obrigatório")
		}
		section.Title = t
	}
	if position != nil {
		section.Position = *position
	}

	if err := s.store.UpdateSection(ctx, section); err != nil {
		return nil, notFoundOr(err, "seção não encontrada")
	}
	return section, nil
}

// DeleteSection desvincula as enfermeiras da seção; lotações e avisos dela são apagados.
func (s *Service) DeleteSection(ctx context.Context, actor domain.Actor, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.store.DeleteSection(ctx, id); err != nil {
		return notFoundOr(err, "seção não encontrada")
	}
	return nil
}

func (s *Service) ListSections(ctx context.Context) ([]*domain.Section, error) {
	sections, err := s.store.ListSections(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return sections, nil
}

func (s *Service) GetSection(ctx context.Context, id int64) (*domain.Section, error) {
	section, err := s.store.GetSectionByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "seção não encontrada")
	}
	return section, nil
}

// SectionCoordinator devolve o coordenador da seção.
func (s *Service) SectionCoordinator(ctx context.Context, sectionID int64) (*domain.Nurse, error) {
	if _, err := s.store.GetSectionByID(ctx, sectionID); err != nil {
		return nil, notFoundOr(err, "seção não encontrada")
	}

	coordinator, err := s.store.FindSectionCoordinator(ctx, sectionID)
	if err != nil {
		return nil, notFoundOr(err, "seção sem coordenador")
	}
	return coordinator, nil
}

func (s *Service) CreateUnit(ctx context.Context, actor domain.Actor, title string) (*domain.Unit, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewValidationError("o título é obrigatório")
	}

	unit := &domain.Unit{Title: title}
	if err := s.store.CreateUnit(ctx, unit); err != nil {
		return nil, storeError(err)
	}
	return unit, nil
}

func (s *Service) UpdateUnit(ctx context.Context, actor domain.Actor, id int64, title string) (*domain.Unit, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewValidationError("o título é obrigatório")
	}

	unit := &domain.Unit{ID: id, Title: title}
	if err := s.store.UpdateUnit(ctx, unit); err != nil {
		return nil, notFoundOr(err, "unidade não encontrada")
	}
	return unit, nil
}

func (s *Service) DeleteUnit(ctx context.Context, actor domain.Actor, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.store.DeleteUnit(ctx, id); err != nil {
		return notFoundOr(err, "unidade não encontrada")
	}
	return nil
}

func (s *Service) ListUnits(ctx context.Context) ([]*domain.Unit, error) {
	units, err := s.store.ListUnits(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	return units, nil
}
