package service

import (
	"context"
	"fmt"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/repository"
)

type AssignRosterInput struct {
	NurseID   int64
	SectionID int64
	UnitID    *int64
	Month     int
	Year      int
}

type CopyRosterInput struct {
	SourceMonth int
	SourceYear  int
	TargetMonth int
	TargetYear  int
	UnitID      *int64
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return domain.NewValidationError("mês deve estar entre 1 e 12")
	}
	if year < 1 {
		return domain.NewValidationError("ano inválido")
	}
	return nil
}

// AssignRoster lota a enfermeira na seção do mês informado até dezembro do mesmo ano.
// Lotações anteriores ao mês não são tocadas.
func (s *Service) AssignRoster(ctx context.Context, actor domain.Actor, in AssignRosterInput) ([]*domain.MonthlyRosterEntry, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if err := validatePeriod(in.Month, in.Year); err != nil {
		return nil, err
	}

	if _, err := s.store.GetNurseByID(ctx, in.NurseID); err != nil {
		return nil, notFoundOr(err, "enfermeira não encontrada")
	}
	if _, err := s.store.GetSectionByID(ctx, in.SectionID); err != nil {
		return nil, notFoundOr(err, "seção não encontrada")
	}
	if in.UnitID != nil {
		if _, err := s.store.GetUnitByID(ctx, *in.UnitID); err != nil {
			return nil, notFoundOr(err, "unidade não encontrada")
		}
	}

	entries := make([]*domain.MonthlyRosterEntry, 0, 13-in.Month)
	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		for m := in.Month; m <= 12; m++ {
			entry := &domain.MonthlyRosterEntry{
				NurseID:   in.NurseID,
				SectionID: in.SectionID,
				UnitID:    in.UnitID,
				Month:     m,
				Year:      in.Year,
			}
			if err := q.UpsertRosterEntry(ctx, entry); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	s.logger.Info("lotação propagada", "nurse", in.NurseID, "section", in.SectionID, "from", in.Month, "year", in.Year)
	s.publish(ctx, actor, domain.EventRosterAssigned, map[string]any{
		"nurseID":   in.NurseID,
		"sectionID": in.SectionID,
		"unitID":    in.UnitID,
		"fromMonth": in.Month,
		"year":      in.Year,
	})

	return entries, nil
}

// RemoveRoster apaga as lotações da enfermeira do mês informado em diante, no mesmo ano.
func (s *Service) RemoveRoster(ctx context.Context, actor domain.Actor, nurseID int64, month, year int) (int64, error) {
	if err := requireManager(actor); err != nil {
		return 0, err
	}
	if err := validatePeriod(month, year); err != nil {
		return 0, err
	}

	removed, err := s.store.DeleteRosterEntriesFrom(ctx, nurseID, month, year)
	if err != nil {
		return 0, storeError(err)
	}

	s.publish(ctx, actor, domain.EventRosterRemoved, map[string]any{
		"nurseID": nurseID,
		"month":   month,
		"year":    year,
		"removed": removed,
	})

	return removed, nil
}

// CopyRoster copia as lotações de um mês para outro sem sobrescrever quem já está lotado no destino.
func (s *Service) CopyRoster(ctx context.Context, actor domain.Actor, in CopyRosterInput) (domain.RosterCopyResult, error) {
	var result domain.RosterCopyResult

	if err := requireManager(actor); err != nil {
		return result, err
	}
	if err := validatePeriod(in.SourceMonth, in.SourceYear); err != nil {
		return result, err
	}
	if err := validatePeriod(in.TargetMonth, in.TargetYear); err != nil {
		return result, err
	}
	if in.SourceMonth == in.TargetMonth && in.SourceYear == in.TargetYear {
		return result, domain.NewValidationError("o mês de origem e o de destino são o mesmo")
	}

	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		source, err := q.ListRosterEntries(ctx, in.SourceMonth, in.SourceYear, in.UnitID)
		if err != nil {
			return err
		}

		for _, e := range source {
			inserted, err := q.InsertRosterEntryIfAbsent(ctx, &domain.MonthlyRosterEntry{
				NurseID:   e.NurseID,
				SectionID: e.SectionID,
				UnitID:    e.UnitID,
				Month:     in.TargetMonth,
				Year:      in.TargetYear,
			})
			if err != nil {
				return err
			}
			if inserted {
				result.Added++
			} else {
				result.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return domain.RosterCopyResult{}, storeError(err)
	}

	if result.Added > 0 {
		s.publish(ctx, actor, domain.EventRosterCopied, map[string]any{
			"source": fmt.Sprintf("%02d/%d", in.SourceMonth, in.SourceYear),
			"target": fmt.Sprintf("%02d/%d", in.TargetMonth, in.TargetYear),
			"added":  result.Added,
		})
	}

	return result, nil
}

func (s *Service) ListRoster(ctx context.Context, month, year int, unitID *int64) ([]*domain.MonthlyRosterEntry, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	entries, err := s.store.ListRosterEntries(ctx, month, year, unitID)
	if err != nil {
		return nil, storeError(err)
	}
	return entries, nil
}

func (s *Service) GetRosterEntry(ctx context.Context, nurseID int64, month, year int) (*domain.MonthlyRosterEntry, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	entry, err := s.store.GetRosterEntry(ctx, nurseID, month, year)
	if err != nil {
		return nil, notFoundOr(err, "enfermeira sem lotação neste mês")
	}
	return entry, nil
}
