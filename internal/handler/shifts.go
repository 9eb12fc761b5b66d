package handler

import (
	"net/http"

	"github.com/enf-hma/escala/backend/internal/domain"
)

func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	from, err := requiredDate(r, "from")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	to, err := requiredDate(r, "to")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	sectionID, err := optionalInt64(r, "section")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	shifts, err := h.service.ListShifts(r.Context(), from, to, sectionID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "plantões obtidos", shifts)
}

// SaveShifts recebe o lote editado na grade; type DELETE apaga o plantão do dia.
func (h *Handler) SaveShifts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Shifts []domain.Shift `json:"shifts" validate:"required,min=1"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	saved, err := h.service.SaveShifts(r.Context(), actorFrom(r.Context()), req.Shifts)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "plantões salvos", saved)
}
