package service

import (
	"context"
	"errors"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/repository"
)

const (
	msgSwapIncomplete = "dados incompletos"
	msgSwapWindow     = "a troca só pode ser solicitada na véspera do plantão"
	msgSwapNotFound   = "troca não encontrada"
	msgSwapFinished   = "troca já finalizada"
)

type SwapInput struct {
	RequestedID        int64
	RequesterShiftDate domain.Date
	RequestedShiftDate domain.Date
}

// RequestSwap abre uma troca entre o plantão de quem pede e o de outra enfermeira.
// O plantão de quem pede tem de ser exatamente amanhã.
func (s *Service) RequestSwap(ctx context.Context, actor domain.Actor, in SwapInput) (*domain.ShiftSwap, error) {
	if actor.UserID == 0 || in.RequestedID == 0 || in.RequesterShiftDate.IsZero() || in.RequestedShiftDate.IsZero() {
		return nil, domain.NewValidationError(msgSwapIncomplete)
	}

	if in.RequesterShiftDate.DaysSince(s.today()) != 1 {
		return nil, domain.NewValidationError(msgSwapWindow)
	}

	if in.RequestedID == actor.UserID {
		return nil, domain.NewValidationError("não é possível trocar plantão consigo mesma")
	}
	// com a mesma data as duas enfermeiras ficariam com dois plantões no dia
	if in.RequesterShiftDate.Equal(in.RequestedShiftDate) {
		return nil, domain.NewValidationError("os plantões da troca precisam ser em dias diferentes")
	}

	if _, err := s.store.GetShift(ctx, actor.UserID, in.RequesterShiftDate); err != nil {
		return nil, notFoundOr(err, "você não tem plantão em "+in.RequesterShiftDate.String())
	}
	if _, err := s.store.GetShift(ctx, in.RequestedID, in.RequestedShiftDate); err != nil {
		return nil, notFoundOr(err, "a colega não tem plantão em "+in.RequestedShiftDate.String())
	}

	swap := &domain.ShiftSwap{
		RequesterID:        actor.UserID,
		RequestedID:        in.RequestedID,
		RequesterShiftDate: in.RequesterShiftDate,
		RequestedShiftDate: in.RequestedShiftDate,
		Status:             domain.SwapPending,
	}
	if err := s.store.CreateShiftSwap(ctx, swap); err != nil {
		return nil, storeError(err)
	}

	s.publish(ctx, actor, domain.EventSwapRequested, swap)

	return swap, nil
}

// decide carrega a troca dentro da transação e confere quem pode decidir e se ainda está pendente.
func decide(ctx context.Context, q repository.Querier, actor domain.Actor, id int64, next domain.SwapStatus) (*domain.ShiftSwap, error) {
	swap, err := q.GetShiftSwapByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgSwapNotFound)
	}
	if actor.UserID != swap.RequestedID && !actor.IsAdmin() {
		return nil, domain.NewPermissionError("apenas a colega solicitada ou um administrador pode responder a troca")
	}
	if !swap.Status.CanTransitionTo(next) {
		return nil, domain.NewConflictError(msgSwapFinished)
	}
	return swap, nil
}

func reassign(ctx context.Context, q repository.Querier, from int64, date domain.Date, to int64) error {
	err := q.ReassignShift(ctx, from, date, to)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrRecordNotFound):
		return domain.NewNotFoundError("o plantão de " + date.String() + " não existe mais")
	case errors.Is(err, repository.ErrShiftConflict):
		return domain.NewConflictError("a enfermeira já tem plantão em " + date.String())
	default:
		return err
	}
}

// ApproveSwap troca os donos dos dois plantões e marca a troca como aprovada.
// Os três passos rodam numa transação; se qualquer um falhar nada muda.
func (s *Service) ApproveSwap(ctx context.Context, actor domain.Actor, id int64) (*domain.ShiftSwap, error) {
	var swap *domain.ShiftSwap

	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		var err error
		swap, err = decide(ctx, q, actor, id, domain.SwapApproved)
		if err != nil {
			return err
		}

		if err := reassign(ctx, q, swap.RequesterID, swap.RequesterShiftDate, swap.RequestedID); err != nil {
			return err
		}
		if !swap.RequestedShiftDate.IsZero() {
			if err := reassign(ctx, q, swap.RequestedID, swap.RequestedShiftDate, swap.RequesterID); err != nil {
				return err
			}
		}

		if err := q.UpdateShiftSwapStatus(ctx, swap.ID, domain.SwapPending, domain.SwapApproved); err != nil {
			if errors.Is(err, repository.ErrRecordNotFound) {
				return domain.NewConflictError(msgSwapFinished)
			}
			return err
		}
		swap.Status = domain.SwapApproved
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	s.logger.Info("troca aprovada", "swap", swap.ID, "requester", swap.RequesterID, "requested", swap.RequestedID)
	s.publish(ctx, actor, domain.EventSwapApproved, swap)

	return swap, nil
}

func (s *Service) RejectSwap(ctx context.Context, actor domain.Actor, id int64) (*domain.ShiftSwap, error) {
	var swap *domain.ShiftSwap

	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		var err error
		swap, err = decide(ctx, q, actor, id, domain.SwapRejected)
		if err != nil {
			return err
		}

		if err := q.UpdateShiftSwapStatus(ctx, swap.ID, domain.SwapPending, domain.SwapRejected); err != nil {
			if errors.Is(err, repository.ErrRecordNotFound) {
				return domain.NewConflictError(msgSwapFinished)
			}
			return err
		}
		swap.Status = domain.SwapRejected
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	s.publish(ctx, actor, domain.EventSwapRejected, swap)

	return swap, nil
}

// CancelSwap apaga a troca. Só quem pediu, ou um admin, e só enquanto pendente.
func (s *Service) CancelSwap(ctx context.Context, actor domain.Actor, id int64) error {
	var swap *domain.ShiftSwap

	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		var err error
		swap, err = q.GetShiftSwapByID(ctx, id)
		if err != nil {
			return notFoundOr(err, msgSwapNotFound)
		}
		if actor.UserID != swap.RequesterID && !actor.IsAdmin() {
			return domain.NewPermissionError("apenas quem pediu a troca pode cancelá-la")
		}
		if swap.Status != domain.SwapPending {
			return domain.NewConflictError(msgSwapFinished)
		}
		return q.DeleteShiftSwap(ctx, id)
	})
	if err != nil {
		return storeError(err)
	}

	s.publish(ctx, actor, domain.EventSwapCancelled, swap)

	return nil
}

// ListPendingSwaps devolve as trocas pendentes da enfermeira cujo plantão
// referenciado ainda é dela. Trocas de plantões apagados ou repassados ficam de fora.
func (s *Service) ListPendingSwaps(ctx context.Context, actor domain.Actor) ([]*domain.ShiftSwap, error) {
	self := actor.UserID
	pending := domain.SwapPending

	swaps, err := s.store.ListShiftSwaps(ctx, &self, &pending)
	if err != nil {
		return nil, storeError(err)
	}

	visible := make([]*domain.ShiftSwap, 0, len(swaps))
	for _, swap := range swaps {
		date := swap.DateFor(self)
		if date.IsZero() {
			continue
		}
		_, err := s.store.GetShift(ctx, self, date)
		if errors.Is(err, repository.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, storeError(err)
		}
		visible = append(visible, swap)
	}

	return visible, nil
}

// ListSwaps é o histórico: o admin vê todas, os demais só as que participam.
func (s *Service) ListSwaps(ctx context.Context, actor domain.Actor, status *domain.SwapStatus) ([]*domain.ShiftSwap, error) {
	var nurseID *int64
	if !actor.IsAdmin() {
		self := actor.UserID
		nurseID = &self
	}

	swaps, err := s.store.ListShiftSwaps(ctx, nurseID, status)
	if err != nil {
		return nil, storeError(err)
	}
	return swaps, nil
}
