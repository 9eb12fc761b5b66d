package domain

import (
	"slices"
	"time"
)

type TimeOffType string

const (
	TimeOffFolga              TimeOffType = "folga"
	TimeOffFerias             TimeOffType = "ferias"
	TimeOffLicencaSaude       TimeOffType = "licenca_saude"
	TimeOffLicencaMaternidade TimeOffType = "licenca_maternidade"
	TimeOffCessao             TimeOffType = "cessao"
)

var TimeOffTypes = []TimeOffType{TimeOffFolga, TimeOffFerias, TimeOffLicencaSaude, TimeOffLicencaMaternidade, TimeOffCessao}

func (t TimeOffType) Valid() bool {
	return slices.Contains(TimeOffTypes, t)
}

type TimeOffStatus string

const (
	TimeOffPending  TimeOffStatus = "pending"
	TimeOffApproved TimeOffStatus = "approved"
	TimeOffRejected TimeOffStatus = "rejected"
)

func (s TimeOffStatus) Valid() bool {
	return s == TimeOffPending || s == TimeOffApproved || s == TimeOffRejected
}

// CanTransitionTo é permissivo de propósito: a coordenação pode corrigir
// uma decisão, então qualquer status válido pode ser sobrescrito por outro.
func (s TimeOffStatus) CanTransitionTo(next TimeOffStatus) bool {
	return next.Valid()
}

type TimeOffRequest struct {
	ID        int64         `json:"id"`
	NurseID   int64         `json:"nurseID"`
	StartDate Date          `json:"startDate"`
	EndDate   Date          `json:"endDate"`
	Reason    string        `json:"reason"`
	Type      TimeOffType   `json:"type"`
	Status    TimeOffStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Covers diz se o pedido cobre o dia d.
func (r *TimeOffRequest) Covers(d Date) bool {
	return !d.Before(r.StartDate) && !d.After(r.EndDate)
}

type TimeOffFilter struct {
	NurseID *int64
	Status  *TimeOffStatus
	From    Date
	To      Date
}
