package handler

import (
	"net/http"
)

func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := h.service.ListSections(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "lista de seções obtida", sections)
}

func (h *Handler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title" validate:"required"`
		Position int32  `json:"position" validate:"gte=0"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	section, err := h.service.CreateSection(r.Context(), actorFrom(r.Context()), req.Title, req.Position)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "seção criada", section)
}

func (h *Handler) GetSection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de seção inválido")
	if !ok {
		return
	}

	section, err := h.service.GetSection(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "seção obtida", section)
}

func (h *Handler) GetSectionCoordinator(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de seção inválido")
	if !ok {
		return
	}

	coordinator, err := h.service.SectionCoordinator(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "coordenador da seção obtido", coordinator)
}

func (h *Handler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de seção inválido")
	if !ok {
		return
	}

	var req struct {
		Title    *string `json:"title" validate:"omitempty,min=1"`
		Position *int32  `json:"position" validate:"omitempty,gte=0"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	section, err := h.service.UpdateSection(r.Context(), actorFrom(r.Context()), id, req.Title, req.Position)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "seção atualizada", section)
}

func (h *Handler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de seção inválido")
	if !ok {
		return
	}

	if err := h.service.DeleteSection(r.Context(), actorFrom(r.Context()), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "seção removida", nil)
}

func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.service.ListUnits(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "lista de unidades obtida", units)
}

func (h *Handler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title" validate:"required"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	unit, err := h.service.CreateUnit(r.Context(), actorFrom(r.Context()), req.Title)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "unidade criada", unit)
}

func (h *Handler) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de unidade inválido")
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title" validate:"required"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	unit, err := h.service.UpdateUnit(r.Context(), actorFrom(r.Context()), id, req.Title)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "unidade atualizada", unit)
}

func (h *Handler) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de unidade inválido")
	if !ok {
		return
	}

	if err := h.service.DeleteUnit(r.Context(), actorFrom(r.Context()), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "unidade removida", nil)
}
