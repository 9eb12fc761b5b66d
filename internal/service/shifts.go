package service

import (
	"context"
	"errors"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/repository"
	"github.com/enf-hma/escala/backend/internal/utils"
)

// maxShiftRange limita a consulta de plantões a pouco mais de um mês e meio.
const maxShiftRange = 62

// SaveShifts grava um lote de plantões. Cada item substitui o plantão da enfermeira
// no dia; o tipo DELETE só remove. Itens repetidos para o mesmo dia: vale o último.
func (s *Service) SaveShifts(ctx context.Context, actor domain.Actor, shifts []domain.Shift) ([]*domain.Shift, error) {
	if !actor.IsManager() && !actor.IsCoordinator() {
		return nil, domain.NewPermissionError("permissão insuficiente")
	}
	if len(shifts) == 0 {
		return nil, domain.NewValidationError("nenhum plantão informado")
	}
	if err := utils.ValidateShiftBatch(shifts); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	checked := make(map[int64]bool)
	for _, sh := range shifts {
		if checked[sh.NurseID] {
			continue
		}
		nurse, err := s.store.GetNurseByID(ctx, sh.NurseID)
		if err != nil {
			return nil, notFoundOr(err, "enfermeira não encontrada")
		}
		if !canManageNurse(actor, nurse) {
			return nil, domain.NewPermissionError("a enfermeira " + nurse.Name + " não pertence à sua seção")
		}
		checked[sh.NurseID] = true
	}

	saved := make([]*domain.Shift, 0, len(shifts))
	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		for _, sh := range shifts {
			if err := q.DeleteShift(ctx, sh.NurseID, sh.Date); err != nil {
				return err
			}
			saved = removeSaved(saved, sh.NurseID, sh.Date)
			if sh.Type == domain.ShiftDelete {
				continue
			}

			row := &domain.Shift{NurseID: sh.NurseID, Date: sh.Date, Type: sh.Type}
			if err := q.CreateShift(ctx, row); err != nil {
				if errors.Is(err, repository.ErrShiftConflict) {
					return domain.NewConflictError("plantão duplicado em " + sh.Date.String())
				}
				return err
			}
			saved = append(saved, row)
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	s.publish(ctx, actor, domain.EventShiftsSaved, map[string]any{"items": len(shifts), "stored": len(saved)})

	return saved, nil
}

func removeSaved(saved []*domain.Shift, nurseID int64, date domain.Date) []*domain.Shift {
	out := saved[:0]
	for _, sh := range saved {
		if sh.NurseID == nurseID && sh.Date.Equal(date) {
			continue
		}
		out = append(out, sh)
	}
	return out
}

// ListShifts devolve os plantões do intervalo fechado [from, to], opcionalmente só de uma seção.
func (s *Service) ListShifts(ctx context.Context, from, to domain.Date, sectionID *int64) ([]*domain.Shift, error) {
	if from.IsZero() || to.IsZero() {
		return nil, domain.NewValidationError("informe o período")
	}
	if to.Before(from) {
		return nil, domain.NewValidationError("período inválido")
	}
	if to.DaysSince(from) > maxShiftRange {
		return nil, domain.NewValidationError("o período máximo é de 62 dias")
	}

	shifts, err := s.store.ListShifts(ctx, from, to)
	if err != nil {
		return nil, storeError(err)
	}
	if sectionID == nil {
		return shifts, nil
	}

	nurses, err := s.ListNurses(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	members := make(map[int64]bool, len(nurses))
	for _, n := range nurses {
		members[n.ID] = true
	}

	filtered := make([]*domain.Shift, 0, len(shifts))
	for _, sh := range shifts {
		if members[sh.NurseID] {
			filtered = append(filtered, sh)
		}
	}
	return filtered, nil
}
