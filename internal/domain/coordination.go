package domain

import "time"

type CoordinationKind string

const (
	CoordinationAbsence CoordinationKind = "absence"
	CoordinationPayment CoordinationKind = "payment"
	CoordinationGeneral CoordinationKind = "general"
)

func (k CoordinationKind) Valid() bool {
	return k == CoordinationAbsence || k == CoordinationPayment || k == CoordinationGeneral
}

// RequiresNurse: faltas e pedidos de pagamento sempre têm uma enfermeira alvo.
func (k CoordinationKind) RequiresNurse() bool {
	return k == CoordinationAbsence || k == CoordinationPayment
}

// CoordinationRequest é um aviso registrado pela coordenação, sem fluxo de status.
type CoordinationRequest struct {
	ID        int64            `json:"id"`
	Kind      CoordinationKind `json:"kind"`
	NurseID   *int64           `json:"nurseID"`
	CreatedBy int64            `json:"createdBy"`
	SectionID int64            `json:"sectionID"`
	UnitID    *int64           `json:"unitID"`
	Date      Date             `json:"date"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"createdAt"`
}
