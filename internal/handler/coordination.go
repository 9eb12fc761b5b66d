package handler

import (
	"net/http"
	"strconv"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/service"
)

func coordinationKindFrom(r *http.Request) domain.CoordinationKind {
	return r.Context().Value(CoordinationKindCtxKey).(domain.CoordinationKind)
}

func (h *Handler) ListCoordinationRequests(w http.ResponseWriter, r *http.Request) {
	sectionID, err := optionalInt64(r, "section")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	requests, err := h.service.ListCoordinationRequests(r.Context(), actorFrom(r.Context()), coordinationKindFrom(r), sectionID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "solicitações obtidas", requests)
}

func (h *Handler) CreateCoordinationRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NurseID   *int64      `json:"nurseID"`
		SectionID int64       `json:"sectionID"`
		UnitID    *int64      `json:"unitID"`
		Date      domain.Date `json:"date"`
		Content   string      `json:"content" validate:"required"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	request, err := h.service.CreateCoordinationRequest(r.Context(), actorFrom(r.Context()), coordinationKindFrom(r), service.CoordinationInput{
		NurseID:   req.NurseID,
		SectionID: req.SectionID,
		UnitID:    req.UnitID,
		Date:      req.Date,
		Content:   req.Content,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "solicitação registrada", request)
}

func (h *Handler) DeleteCoordinationRequest(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de solicitação inválido")
	if !ok {
		return
	}

	if err := h.service.DeleteCoordinationRequest(r.Context(), actorFrom(r.Context()), coordinationKindFrom(r), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "solicitação removida", nil)
}

func (h *Handler) ListAuditEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			h.errorResponse(w, r, "parâmetro limit inválido")
			return
		}
		limit = v
	}

	events, err := h.service.ListAuditEvents(r.Context(), actorFrom(r.Context()), limit)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "eventos de auditoria obtidos", events)
}
