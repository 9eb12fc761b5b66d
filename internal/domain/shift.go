package domain

import "time"

type ShiftType string

const (
	ShiftDay   ShiftType = "day"
	ShiftNight ShiftType = "night"
	// ShiftDelete não é gravado: ao salvar, remove o plantão do dia.
	ShiftDelete ShiftType = "DELETE"
)

func (t ShiftType) Valid() bool {
	return t == ShiftDay || t == ShiftNight || t == ShiftDelete
}

// Shift é único por (NurseID, Date).
type Shift struct {
	ID        int64     `json:"id"`
	NurseID   int64     `json:"nurseID"`
	Date      Date      `json:"date"`
	Type      ShiftType `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}
