package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type swapFixture struct {
	*fixture
	a, b, c domain.Actor
}

func newSwapFixture(t *testing.T) *swapFixture {
	f := newFixture(t)
	sf := &swapFixture{fixture: f}
	sf.a = f.actor(f.addNurse(t, "Ana", domain.RoleEnfermeiro, &f.icu.ID))
	sf.b = f.actor(f.addNurse(t, "Bruno", domain.RoleTecnico, &f.icu.ID))
	sf.c = f.actor(f.addNurse(t, "Carla", domain.RoleEnfermeiro, &f.icu.ID))

	f.addShift(t, sf.a.UserID, domain.NewDate(2025, 3, 11), domain.ShiftDay)
	f.addShift(t, sf.b.UserID, domain.NewDate(2025, 3, 15), domain.ShiftNight)
	return sf
}

func (sf *swapFixture) request(t *testing.T) *domain.ShiftSwap {
	t.Helper()
	swap, err := sf.svc.RequestSwap(sf.ctx, sf.a, SwapInput{
		RequestedID:        sf.b.UserID,
		RequesterShiftDate: domain.NewDate(2025, 3, 11),
		RequestedShiftDate: domain.NewDate(2025, 3, 15),
	})
	require.NoError(t, err)
	return swap
}

func (sf *swapFixture) owner(t *testing.T, date domain.Date) []int64 {
	t.Helper()
	shifts, err := sf.store.ListShifts(sf.ctx, date, date)
	require.NoError(t, err)
	ids := make([]int64, 0, len(shifts))
	for _, s := range shifts {
		ids = append(ids, s.NurseID)
	}
	return ids
}

func TestSwapRequestAndApprove(t *testing.T) {
	sf := newSwapFixture(t)

	swap := sf.request(t)
	assert.Equal(t, domain.SwapPending, swap.Status)

	approved, err := sf.svc.ApproveSwap(sf.ctx, sf.b, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapApproved, approved.Status)

	assert.Equal(t, []int64{sf.b.UserID}, sf.owner(t, domain.NewDate(2025, 3, 11)))
	assert.Equal(t, []int64{sf.a.UserID}, sf.owner(t, domain.NewDate(2025, 3, 15)))

	stored, err := sf.store.GetShiftSwapByID(sf.ctx, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapApproved, stored.Status)

	assert.Equal(t, []string{domain.EventSwapRequested, domain.EventSwapApproved}, sf.publisher.types())
}

func TestSwapDateWindow(t *testing.T) {
	for _, offset := range []int{-1, 0, 2, 5} {
		t.Run(fmt.Sprintf("offset %d", offset), func(t *testing.T) {
			sf := newSwapFixture(t)
			date := domain.NewDate(2025, 3, 10).AddDays(offset)
			sf.addShift(t, sf.a.UserID, date, domain.ShiftDay)

			_, err := sf.svc.RequestSwap(sf.ctx, sf.a, SwapInput{
				RequestedID:        sf.b.UserID,
				RequesterShiftDate: date,
				RequestedShiftDate: domain.NewDate(2025, 3, 15),
			})
			requireKind(t, err, domain.KindValidation)
			assert.Contains(t, err.Error(), "véspera")

			swaps, err := sf.store.ListShiftSwaps(sf.ctx, nil, nil)
			require.NoError(t, err)
			assert.Empty(t, swaps)
		})
	}
}

func TestSwapTwoDaysAheadIsRejected(t *testing.T) {
	sf := newSwapFixture(t)
	sf.addShift(t, sf.a.UserID, domain.NewDate(2025, 3, 12), domain.ShiftDay)

	_, err := sf.svc.RequestSwap(sf.ctx, sf.a, SwapInput{
		RequestedID:        sf.b.UserID,
		RequesterShiftDate: domain.NewDate(2025, 3, 12),
		RequestedShiftDate: domain.NewDate(2025, 3, 15),
	})
	requireKind(t, err, domain.KindValidation)
	assert.Equal(t, msgSwapWindow, err.Error())
}

func TestSwapTodayFollowsConfiguredTimezone(t *testing.T) {
	sf := newSwapFixture(t)
	// 01:00 UTC do dia 11 ainda é dia 10 em Brasília
	sf.now = time.Date(2025, 3, 11, 1, 0, 0, 0, time.UTC)

	sf.request(t)
}

func TestSwapRequiresExistingShifts(t *testing.T) {
	sf := newSwapFixture(t)

	t.Run("sem plantão de quem pede", func(t *testing.T) {
		_, err := sf.svc.RequestSwap(sf.ctx, sf.c, SwapInput{
			RequestedID:        sf.b.UserID,
			RequesterShiftDate: domain.NewDate(2025, 3, 11),
			RequestedShiftDate: domain.NewDate(2025, 3, 15),
		})
		requireKind(t, err, domain.KindNotFound)
	})

	t.Run("sem plantão da colega", func(t *testing.T) {
		_, err := sf.svc.RequestSwap(sf.ctx, sf.a, SwapInput{
			RequestedID:        sf.b.UserID,
			RequesterShiftDate: domain.NewDate(2025, 3, 11),
			RequestedShiftDate: domain.NewDate(2025, 3, 16),
		})
		requireKind(t, err, domain.KindNotFound)
	})

	swaps, err := sf.store.ListShiftSwaps(sf.ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, swaps)
}

func TestSwapIncompleteAndInvalidInput(t *testing.T) {
	sf := newSwapFixture(t)

	_, err := sf.svc.RequestSwap(sf.ctx, sf.a, SwapInput{RequesterShiftDate: domain.NewDate(2025, 3, 11)})
	requireKind(t, err, domain.KindValidation)
	assert.Equal(t, msgSwapIncomplete, err.Error())

	_, err = sf.svc.RequestSwap(sf.ctx, sf.a, SwapInput{
		RequestedID:        sf.a.UserID,
		RequesterShiftDate: domain.NewDate(2025, 3, 11),
		RequestedShiftDate: domain.NewDate(2025, 3, 15),
	})
	requireKind(t, err, domain.KindValidation)

	_, err = sf.svc.RequestSwap(sf.ctx, sf.a, SwapInput{
		RequestedID:        sf.b.UserID,
		RequesterShiftDate: domain.NewDate(2025, 3, 11),
		RequestedShiftDate: domain.NewDate(2025, 3, 11),
	})
	requireKind(t, err, domain.KindValidation)
}

func TestSwapAuthorization(t *testing.T) {
	sf := newSwapFixture(t)
	swap := sf.request(t)

	for name, actor := range map[string]domain.Actor{"colega de fora": sf.c, "quem pediu": sf.a, "coordenadora": sf.coord} {
		t.Run(name, func(t *testing.T) {
			_, err := sf.svc.ApproveSwap(sf.ctx, actor, swap.ID)
			requireKind(t, err, domain.KindPermission)
			_, err = sf.svc.RejectSwap(sf.ctx, actor, swap.ID)
			requireKind(t, err, domain.KindPermission)
		})
	}

	stored, err := sf.store.GetShiftSwapByID(sf.ctx, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapPending, stored.Status)
	assert.Equal(t, []int64{sf.a.UserID}, sf.owner(t, domain.NewDate(2025, 3, 11)))

	approved, err := sf.svc.ApproveSwap(sf.ctx, sf.admin, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapApproved, approved.Status)
}

func TestSwapTerminalStatesAreFinal(t *testing.T) {
	t.Run("aprovada", func(t *testing.T) {
		sf := newSwapFixture(t)
		swap := sf.request(t)
		_, err := sf.svc.ApproveSwap(sf.ctx, sf.b, swap.ID)
		require.NoError(t, err)

		_, err = sf.svc.ApproveSwap(sf.ctx, sf.b, swap.ID)
		requireKind(t, err, domain.KindConflict)
		_, err = sf.svc.RejectSwap(sf.ctx, sf.b, swap.ID)
		requireKind(t, err, domain.KindConflict)
		requireKind(t, sf.svc.CancelSwap(sf.ctx, sf.a, swap.ID), domain.KindConflict)

		stored, err := sf.store.GetShiftSwapByID(sf.ctx, swap.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SwapApproved, stored.Status)
		// os plantões não voltam
		assert.Equal(t, []int64{sf.b.UserID}, sf.owner(t, domain.NewDate(2025, 3, 11)))
	})

	t.Run("rejeitada", func(t *testing.T) {
		sf := newSwapFixture(t)
		swap := sf.request(t)
		rejected, err := sf.svc.RejectSwap(sf.ctx, sf.b, swap.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SwapRejected, rejected.Status)

		_, err = sf.svc.ApproveSwap(sf.ctx, sf.admin, swap.ID)
		requireKind(t, err, domain.KindConflict)
		requireKind(t, sf.svc.CancelSwap(sf.ctx, sf.admin, swap.ID), domain.KindConflict)

		stored, err := sf.store.GetShiftSwapByID(sf.ctx, swap.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.SwapRejected, stored.Status)
		assert.Equal(t, []int64{sf.a.UserID}, sf.owner(t, domain.NewDate(2025, 3, 11)))
	})
}

func TestSwapCancel(t *testing.T) {
	sf := newSwapFixture(t)
	swap := sf.request(t)

	requireKind(t, sf.svc.CancelSwap(sf.ctx, sf.b, swap.ID), domain.KindPermission)
	require.NoError(t, sf.svc.CancelSwap(sf.ctx, sf.a, swap.ID))

	_, err := sf.svc.ApproveSwap(sf.ctx, sf.b, swap.ID)
	requireKind(t, err, domain.KindNotFound)
	requireKind(t, sf.svc.CancelSwap(sf.ctx, sf.a, swap.ID), domain.KindNotFound)
}

func TestSwapApproveIsAtomic(t *testing.T) {
	sf := newSwapFixture(t)
	swap := sf.request(t)

	// Ana ganhou outro plantão no dia 15: a segunda troca de dono colide
	sf.addShift(t, sf.a.UserID, domain.NewDate(2025, 3, 15), domain.ShiftDay)

	_, err := sf.svc.ApproveSwap(sf.ctx, sf.b, swap.ID)
	requireKind(t, err, domain.KindConflict)

	assert.Equal(t, []int64{sf.a.UserID}, sf.owner(t, domain.NewDate(2025, 3, 11)))
	assert.ElementsMatch(t, []int64{sf.a.UserID, sf.b.UserID}, sf.owner(t, domain.NewDate(2025, 3, 15)))

	stored, err := sf.store.GetShiftSwapByID(sf.ctx, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapPending, stored.Status)
	assert.NotContains(t, sf.publisher.types(), domain.EventSwapApproved)
}

func TestSwapApproveFailsWhenShiftWasRemoved(t *testing.T) {
	sf := newSwapFixture(t)
	swap := sf.request(t)
	require.NoError(t, sf.store.DeleteShift(sf.ctx, sf.b.UserID, domain.NewDate(2025, 3, 15)))

	_, err := sf.svc.ApproveSwap(sf.ctx, sf.b, swap.ID)
	requireKind(t, err, domain.KindNotFound)

	assert.Equal(t, []int64{sf.a.UserID}, sf.owner(t, domain.NewDate(2025, 3, 11)))
	stored, err := sf.store.GetShiftSwapByID(sf.ctx, swap.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SwapPending, stored.Status)
}

func TestListPendingSwapsHidesStaleShifts(t *testing.T) {
	sf := newSwapFixture(t)
	swap := sf.request(t)

	pending, err := sf.svc.ListPendingSwaps(sf.ctx, sf.b)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, swap.ID, pending[0].ID)

	pending, err = sf.svc.ListPendingSwaps(sf.ctx, sf.a)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	// o plantão do dia 15 passou para outra pessoa
	require.NoError(t, sf.store.ReassignShift(sf.ctx, sf.b.UserID, domain.NewDate(2025, 3, 15), sf.c.UserID))

	pending, err = sf.svc.ListPendingSwaps(sf.ctx, sf.b)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// a linha continua lá até ser resolvida
	_, err = sf.store.GetShiftSwapByID(sf.ctx, swap.ID)
	require.NoError(t, err)

	pending, err = sf.svc.ListPendingSwaps(sf.ctx, sf.c)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestListSwapsScope(t *testing.T) {
	sf := newSwapFixture(t)
	sf.request(t)

	all, err := sf.svc.ListSwaps(sf.ctx, sf.admin, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	mine, err := sf.svc.ListSwaps(sf.ctx, sf.c, nil)
	require.NoError(t, err)
	assert.Empty(t, mine)

	approved := domain.SwapApproved
	none, err := sf.svc.ListSwaps(sf.ctx, sf.a, &approved)
	require.NoError(t, err)
	assert.Empty(t, none)
}
