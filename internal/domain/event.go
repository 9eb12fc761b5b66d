package domain

import (
	"encoding/json"
	"time"
)

const (
	EventSwapRequested      = "swap.requested"
	EventSwapApproved       = "swap.approved"
	EventSwapRejected       = "swap.rejected"
	EventSwapCancelled      = "swap.cancelled"
	EventRosterAssigned     = "roster.assigned"
	EventRosterRemoved      = "roster.removed"
	EventRosterCopied       = "roster.copied"
	EventTimeOffRequested   = "timeoff.requested"
	EventTimeOffStatus      = "timeoff.status_changed"
	EventTimeOffDeleted     = "timeoff.deleted"
	EventCoordinationLogged = "coordination.created"
	EventCoordinationDelete = "coordination.deleted"
	EventShiftsSaved        = "shifts.saved"
	EventNurseDeleted       = "nurse.deleted"
)

// Event é publicado na fila de auditoria depois que a operação foi gravada.
type Event struct {
	Type       string          `json:"type"`
	ActorID    int64           `json:"actorID"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type AuditEvent struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	ActorID   int64           `json:"actorID"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}
