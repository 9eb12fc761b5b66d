package handler

import (
	"net/http"
)

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())

	nurse, err := h.service.GetNurse(r.Context(), actor.UserID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "dados pessoais obtidos", nurse)
}

func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=6"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), actorFrom(r.Context()), req.OldPassword, req.NewPassword); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "senha alterada", nil)
}
