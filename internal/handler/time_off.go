package handler

import (
	"net/http"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/service"
)

func (h *Handler) ListTimeOff(w http.ResponseWriter, r *http.Request) {
	var filter domain.TimeOffFilter
	var err error

	if filter.NurseID, err = optionalInt64(r, "nurse"); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if filter.From, err = optionalDate(r, "from"); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if filter.To, err = optionalDate(r, "to"); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.TimeOffStatus(raw)
		filter.Status = &status
	}

	requests, err := h.service.ListTimeOff(r.Context(), actorFrom(r.Context()), filter)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "folgas obtidas", requests)
}

func (h *Handler) RequestTimeOff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NurseID   int64       `json:"nurseID"`
		StartDate domain.Date `json:"startDate"`
		EndDate   domain.Date `json:"endDate"`
		Reason    string      `json:"reason"`
		Type      string      `json:"type"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	request, err := h.service.RequestTimeOff(r.Context(), actorFrom(r.Context()), service.TimeOffInput{
		NurseID:   req.NurseID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
		Type:      domain.TimeOffType(req.Type),
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "pedido de folga registrado", request)
}

func (h *Handler) AssignLeave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NurseID   int64       `json:"nurseID" validate:"required"`
		StartDate domain.Date `json:"startDate"`
		EndDate   domain.Date `json:"endDate"`
		Reason    string      `json:"reason"`
		Type      string      `json:"type" validate:"required"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	leave, err := h.service.AssignLeave(r.Context(), actorFrom(r.Context()), service.LeaveInput{
		NurseID:   req.NurseID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
		Type:      domain.TimeOffType(req.Type),
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "afastamento registrado", leave)
}

func (h *Handler) SetTimeOffStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de folga inválido")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	request, err := h.service.SetTimeOffStatus(r.Context(), actorFrom(r.Context()), id, domain.TimeOffStatus(req.Status))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "status da folga atualizado", request)
}

func (h *Handler) DeleteTimeOff(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de folga inválido")
	if !ok {
		return
	}

	if err := h.service.DeleteTimeOff(r.Context(), actorFrom(r.Context()), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "folga removida", nil)
}
