package handler

import (
	"net/http"
	"strconv"

	"github.com/enf-hma/escala/backend/internal/service"
	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListRoster(w http.ResponseWriter, r *http.Request) {
	month, err := requiredInt(r, "month")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	year, err := requiredInt(r, "year")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	unitID, err := optionalInt64(r, "unit")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	entries, err := h.service.ListRoster(r.Context(), month, year, unitID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "escala mensal obtida", entries)
}

func (h *Handler) GetRosterEntry(w http.ResponseWriter, r *http.Request) {
	nurseID, ok := h.idParam(w, r, "nurseID", "ID de enfermeira inválido")
	if !ok {
		return
	}
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		h.errorResponse(w, r, "ano inválido")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		h.errorResponse(w, r, "mês inválido")
		return
	}

	entry, err := h.service.GetRosterEntry(r.Context(), nurseID, month, year)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "lotação obtida", entry)
}

func (h *Handler) AssignRoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NurseID   int64  `json:"nurseID" validate:"required"`
		SectionID int64  `json:"sectionID" validate:"required"`
		UnitID    *int64 `json:"unitID"`
		Month     int    `json:"month" validate:"required,min=1,max=12"`
		Year      int    `json:"year" validate:"required"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	entries, err := h.service.AssignRoster(r.Context(), actorFrom(r.Context()), service.AssignRosterInput{
		NurseID:   req.NurseID,
		SectionID: req.SectionID,
		UnitID:    req.UnitID,
		Month:     req.Month,
		Year:      req.Year,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "lotação registrada até dezembro", entries)
}

func (h *Handler) RemoveRoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NurseID int64 `json:"nurseID" validate:"required"`
		Month   int   `json:"month" validate:"required,min=1,max=12"`
		Year    int   `json:"year" validate:"required"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	removed, err := h.service.RemoveRoster(r.Context(), actorFrom(r.Context()), req.NurseID, req.Month, req.Year)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "lotação removida a partir do mês informado", map[string]int64{"removed": removed})
}

func (h *Handler) CopyRoster(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceMonth int    `json:"sourceMonth" validate:"required,min=1,max=12"`
		SourceYear  int    `json:"sourceYear" validate:"required"`
		TargetMonth int    `json:"targetMonth" validate:"required,min=1,max=12"`
		TargetYear  int    `json:"targetYear" validate:"required"`
		UnitID      *int64 `json:"unitID"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	result, err := h.service.CopyRoster(r.Context(), actorFrom(r.Context()), service.CopyRosterInput{
		SourceMonth: req.SourceMonth,
		SourceYear:  req.SourceYear,
		TargetMonth: req.TargetMonth,
		TargetYear:  req.TargetYear,
		UnitID:      req.UnitID,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "escala copiada", result)
}
