package service

import (
	"testing"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNurseAndAuthenticate(t *testing.T) {
	f := newFixture(t)

	nurse, err := f.svc.CreateNurse(f.ctx, f.admin, NurseInput{
		Name:      "Ana Souza",
		CPF:       "529.982.247-25",
		Password:  "segredo123",
		Role:      domain.RoleEnfermeiro,
		SectionID: &f.icu.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "52998224725", nurse.CPF)
	assert.NotEqual(t, "segredo123", nurse.PasswordHash)

	logged, err := f.svc.Authenticate(f.ctx, "529.982.247-25", "segredo123")
	require.NoError(t, err)
	assert.Equal(t, nurse.ID, logged.ID)

	_, err = f.svc.Authenticate(f.ctx, "52998224725", "errada")
	requireKind(t, err, domain.KindValidation)
	_, err = f.svc.Authenticate(f.ctx, "11144477735", "segredo123")
	requireKind(t, err, domain.KindValidation)

	_, err = f.svc.CreateNurse(f.ctx, f.admin, NurseInput{Name: "Outra", CPF: "52998224725", Password: "x", Role: domain.RoleTecnico})
	requireKind(t, err, domain.KindConflict)

	_, err = f.svc.CreateNurse(f.ctx, f.admin, NurseInput{Name: "Outra", CPF: "12345678900", Password: "x", Role: domain.RoleTecnico})
	requireKind(t, err, domain.KindValidation)

	_, err = f.svc.CreateNurse(f.ctx, f.coord, NurseInput{Name: "Outra", CPF: "11144477735", Password: "x", Role: domain.RoleTecnico})
	requireKind(t, err, domain.KindPermission)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	nurse, err := f.svc.CreateNurse(f.ctx, f.admin, NurseInput{Name: "Ana", CPF: "52998224725", Password: "antiga", Role: domain.RoleEnfermeiro})
	require.NoError(t, err)
	actor := f.actor(nurse)

	requireKind(t, f.svc.ChangePassword(f.ctx, actor, "errada", "nova"), domain.KindValidation)
	require.NoError(t, f.svc.ChangePassword(f.ctx, actor, "antiga", "nova"))

	_, err = f.svc.Authenticate(f.ctx, nurse.CPF, "nova")
	require.NoError(t, err)
}

func TestUpdateNurse(t *testing.T) {
	f := newFixture(t)
	nurse, err := f.svc.CreateNurse(f.ctx, f.admin, NurseInput{Name: "Ana", CPF: "52998224725", Password: "x", Role: domain.RoleEnfermeiro, SectionID: &f.icu.ID})
	require.NoError(t, err)

	name := "Ana Paula"
	updated, err := f.svc.UpdateNurse(f.ctx, f.admin, nurse.ID, NurseUpdate{Name: &name, SectionID: &f.ward.ID})
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", updated.Name)
	assert.Equal(t, f.ward.ID, *updated.SectionID)

	cleared, err := f.svc.UpdateNurse(f.ctx, f.admin, nurse.ID, NurseUpdate{ClearSection: true})
	require.NoError(t, err)
	assert.Nil(t, cleared.SectionID)

	admin := domain.RoleAdmin
	_, err = f.svc.UpdateNurse(f.ctx, domain.Actor{UserID: 99, Role: domain.RoleCoordenacaoGeral}, nurse.ID, NurseUpdate{Role: &admin})
	requireKind(t, err, domain.KindPermission)

	missing := int64(999)
	_, err = f.svc.UpdateNurse(f.ctx, f.admin, nurse.ID, NurseUpdate{UnitID: &missing})
	requireKind(t, err, domain.KindNotFound)
}

func TestDeleteNurseCascades(t *testing.T) {
	f := newFixture(t)
	x := f.addNurse(t, "Xavier", domain.RoleEnfermeiro, &f.icu.ID)
	y := f.addNurse(t, "Yara", domain.RoleEnfermeiro, &f.icu.ID)

	f.addShift(t, x.ID, domain.NewDate(2025, 3, 11), domain.ShiftDay)
	f.addShift(t, y.ID, domain.NewDate(2025, 3, 12), domain.ShiftDay)
	_, err := f.svc.AssignRoster(f.ctx, f.admin, AssignRosterInput{NurseID: x.ID, SectionID: f.icu.ID, Month: 11, Year: 2025})
	require.NoError(t, err)
	_, err = f.svc.RequestTimeOff(f.ctx, f.actor(x), TimeOffInput{StartDate: domain.NewDate(2025, 4, 1)})
	require.NoError(t, err)
	_, err = f.svc.RequestSwap(f.ctx, f.actor(x), SwapInput{RequestedID: y.ID, RequesterShiftDate: domain.NewDate(2025, 3, 11), RequestedShiftDate: domain.NewDate(2025, 3, 12)})
	require.NoError(t, err)

	requireKind(t, f.svc.DeleteNurse(f.ctx, f.admin, f.admin.UserID), domain.KindValidation)
	require.NoError(t, f.svc.DeleteNurse(f.ctx, f.admin, x.ID))

	_, err = f.svc.GetNurse(f.ctx, x.ID)
	requireKind(t, err, domain.KindNotFound)

	shifts, err := f.svc.ListShifts(f.ctx, domain.NewDate(2025, 3, 1), domain.NewDate(2025, 3, 31), nil)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, y.ID, shifts[0].NurseID)

	swaps, err := f.svc.ListSwaps(f.ctx, f.admin, nil)
	require.NoError(t, err)
	assert.Empty(t, swaps)

	requests, err := f.svc.ListTimeOff(f.ctx, f.admin, domain.TimeOffFilter{})
	require.NoError(t, err)
	assert.Empty(t, requests)

	_, err = f.svc.GetRosterEntry(f.ctx, x.ID, 11, 2025)
	requireKind(t, err, domain.KindNotFound)
}

func TestEnsureInitialAdminIsIdempotent(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.EnsureInitialAdmin(f.ctx, "Administrador", "111.444.777-35", "admin"))
	require.NoError(t, f.svc.EnsureInitialAdmin(f.ctx, "Administrador", "11144477735", "outra"))

	admin, err := f.svc.Authenticate(f.ctx, "11144477735", "admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
}

func TestSectionLifecycle(t *testing.T) {
	f := newFixture(t)
	member := f.addNurse(t, "Nair", domain.RoleEnfermeiro, &f.ward.ID)

	_, err := f.svc.SectionCoordinator(f.ctx, f.ward.ID)
	requireKind(t, err, domain.KindNotFound)

	coord, err := f.svc.SectionCoordinator(f.ctx, f.icu.ID)
	require.NoError(t, err)
	assert.Equal(t, f.coord.UserID, coord.ID)

	_, err = f.svc.AssignRoster(f.ctx, f.admin, AssignRosterInput{NurseID: member.ID, SectionID: f.ward.ID, Month: 12, Year: 2025})
	require.NoError(t, err)

	requireKind(t, f.svc.DeleteSection(f.ctx, f.coord, f.ward.ID), domain.KindPermission)
	require.NoError(t, f.svc.DeleteSection(f.ctx, f.admin, f.ward.ID))

	detached, err := f.svc.GetNurse(f.ctx, member.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.SectionID)

	_, err = f.svc.GetRosterEntry(f.ctx, member.ID, 12, 2025)
	requireKind(t, err, domain.KindNotFound)

	sections, err := f.svc.ListSections(f.ctx)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, f.icu.ID, sections[0].ID)

	_, err = f.svc.CreateSection(f.ctx, f.admin, "  ", 1)
	requireKind(t, err, domain.KindValidation)
}

func TestUnitLifecycle(t *testing.T) {
	f := newFixture(t)

	unit, err := f.svc.CreateUnit(f.ctx, f.admin, "Bloco A")
	require.NoError(t, err)
	member := f.addNurse(t, "Nair", domain.RoleEnfermeiro, nil)
	_, err = f.svc.UpdateNurse(f.ctx, f.admin, member.ID, NurseUpdate{UnitID: &unit.ID})
	require.NoError(t, err)

	renamed, err := f.svc.UpdateUnit(f.ctx, f.admin, unit.ID, "Bloco A2")
	require.NoError(t, err)
	assert.Equal(t, "Bloco A2", renamed.Title)

	require.NoError(t, f.svc.DeleteUnit(f.ctx, f.admin, unit.ID))
	detached, err := f.svc.GetNurse(f.ctx, member.ID)
	require.NoError(t, err)
	assert.Nil(t, detached.UnitID)

	requireKind(t, f.svc.DeleteUnit(f.ctx, f.admin, unit.ID), domain.KindNotFound)
}
