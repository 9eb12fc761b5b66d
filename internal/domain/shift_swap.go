package domain

import "time"

type SwapStatus string

const (
	SwapPending  SwapStatus = "pending"
	SwapApproved SwapStatus = "approved"
	SwapRejected SwapStatus = "rejected"
)

// Terminal indica que a troca já foi decidida e não aceita mais mudanças.
func (s SwapStatus) Terminal() bool {
	return s == SwapApproved || s == SwapRejected
}

// CanTransitionTo: pending -> approved | rejected, nada sai de um estado terminal.
func (s SwapStatus) CanTransitionTo(next SwapStatus) bool {
	return s == SwapPending && next.Terminal()
}

type ShiftSwap struct {
	ID                 int64      `json:"id"`
	RequesterID        int64      `json:"requesterID"`
	RequestedID        int64      `json:"requestedID"`
	RequesterShiftDate Date       `json:"requesterShiftDate"`
	RequestedShiftDate Date       `json:"requestedShiftDate"`
	Status             SwapStatus `json:"status"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// Involves diz se a enfermeira é uma das partes da troca.
func (s *ShiftSwap) Involves(nurseID int64) bool {
	return s.RequesterID == nurseID || s.RequestedID == nurseID
}

// DateFor devolve o dia do plantão que a troca referencia para a enfermeira.
func (s *ShiftSwap) DateFor(nurseID int64) Date {
	if nurseID == s.RequesterID {
		return s.RequesterShiftDate
	}
	return s.RequestedShiftDate
}
