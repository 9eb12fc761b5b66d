package service

import (
	"testing"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveShiftsKeepsOneRowPerNurseAndDay(t *testing.T) {
	f := newFixture(t)
	x := f.addNurse(t, "Xavier", domain.RoleEnfermeiro, &f.icu.ID)
	day := domain.NewDate(2025, 3, 20)

	_, err := f.svc.SaveShifts(f.ctx, f.admin, []domain.Shift{
		{NurseID: x.ID, Date: day, Type: domain.ShiftDay},
		{NurseID: x.ID, Date: day, Type: domain.ShiftNight},
	})
	require.NoError(t, err)

	saved, err := f.svc.SaveShifts(f.ctx, f.coord, []domain.Shift{{NurseID: x.ID, Date: day, Type: domain.ShiftNight}})
	require.NoError(t, err)
	require.Len(t, saved, 1)

	shifts, err := f.svc.ListShifts(f.ctx, day, day, nil)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, domain.ShiftNight, shifts[0].Type)

	_, err = f.svc.SaveShifts(f.ctx, f.admin, []domain.Shift{{NurseID: x.ID, Date: day, Type: domain.ShiftDelete}})
	require.NoError(t, err)
	shifts, err = f.svc.ListShifts(f.ctx, day, day, nil)
	require.NoError(t, err)
	assert.Empty(t, shifts)
}

func TestSaveShiftsPermissions(t *testing.T) {
	f := newFixture(t)
	inWard := f.addNurse(t, "Walter", domain.RoleTecnico, &f.ward.ID)
	plain := f.actor(f.addNurse(t, "Nair", domain.RoleEnfermeiro, &f.icu.ID))
	day := domain.NewDate(2025, 3, 20)

	_, err := f.svc.SaveShifts(f.ctx, plain, []domain.Shift{{NurseID: plain.UserID, Date: day, Type: domain.ShiftDay}})
	requireKind(t, err, domain.KindPermission)

	_, err = f.svc.SaveShifts(f.ctx, f.coord, []domain.Shift{{NurseID: inWard.ID, Date: day, Type: domain.ShiftDay}})
	requireKind(t, err, domain.KindPermission)

	_, err = f.svc.SaveShifts(f.ctx, f.admin, []domain.Shift{{NurseID: inWard.ID, Date: day, Type: "tarde"}})
	requireKind(t, err, domain.KindValidation)

	_, err = f.svc.SaveShifts(f.ctx, f.admin, nil)
	requireKind(t, err, domain.KindValidation)
}

func TestListShiftsBySection(t *testing.T) {
	f := newFixture(t)
	x := f.addNurse(t, "Xavier", domain.RoleEnfermeiro, &f.icu.ID)
	w := f.addNurse(t, "Walter", domain.RoleTecnico, &f.ward.ID)
	f.addShift(t, x.ID, domain.NewDate(2025, 3, 20), domain.ShiftDay)
	f.addShift(t, w.ID, domain.NewDate(2025, 3, 21), domain.ShiftNight)

	icu, err := f.svc.ListShifts(f.ctx, domain.NewDate(2025, 3, 1), domain.NewDate(2025, 3, 31), &f.icu.ID)
	require.NoError(t, err)
	require.Len(t, icu, 1)
	assert.Equal(t, x.ID, icu[0].NurseID)

	_, err = f.svc.ListShifts(f.ctx, domain.NewDate(2025, 3, 31), domain.NewDate(2025, 3, 1), nil)
	requireKind(t, err, domain.KindValidation)

	_, err = f.svc.ListShifts(f.ctx, domain.NewDate(2025, 1, 1), domain.NewDate(2025, 12, 31), nil)
	requireKind(t, err, domain.KindValidation)
}
