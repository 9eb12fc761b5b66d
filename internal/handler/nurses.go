package handler

import (
	"net/http"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/service"
	"github.com/enf-hma/escala/backend/internal/utils"
)

const generatedPasswordLength = 10

func (h *Handler) ListNurses(w http.ResponseWriter, r *http.Request) {
	sectionID, err := optionalInt64(r, "section")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	nurses, err := h.service.ListNurses(r.Context(), sectionID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "lista de enfermeiras obtida", nurses)
}

func (h *Handler) CreateNurse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name" validate:"required"`
		CPF       string `json:"cpf" validate:"required"`
		Password  string `json:"password" validate:"omitempty,min=6"`
		Coren     string `json:"coren"`
		Role      string `json:"role" validate:"required,oneof=ENFERMEIRO TECNICO COORDENADOR ADMIN COORDENACAO_GERAL"`
		SectionID *int64 `json:"sectionID"`
		UnitID    *int64 `json:"unitID"`
		Vinculo   string `json:"vinculo"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	// sem senha informada, gera uma e devolve uma única vez
	password := req.Password
	generated := password == ""
	if generated {
		password = utils.GenerateRandomPassword(generatedPasswordLength)
	}

	nurse, err := h.service.CreateNurse(r.Context(), actorFrom(r.Context()), service.NurseInput{
		Name:      req.Name,
		CPF:       req.CPF,
		Password:  password,
		Coren:     req.Coren,
		Role:      domain.Role(req.Role),
		SectionID: req.SectionID,
		UnitID:    req.UnitID,
		Vinculo:   req.Vinculo,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	data := map[string]any{"nurse": nurse}
	if generated {
		data["password"] = password
	}
	h.successResponse(w, r, "enfermeira cadastrada", data)
}

func (h *Handler) GetNurse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de enfermeira inválido")
	if !ok {
		return
	}

	nurse, err := h.service.GetNurse(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "enfermeira obtida", nurse)
}

func (h *Handler) UpdateNurse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de enfermeira inválido")
	if !ok {
		return
	}

	var req struct {
		Name         *string `json:"name" validate:"omitempty,min=1"`
		CPF          *string `json:"cpf"`
		Coren        *string `json:"coren"`
		Role         *string `json:"role" validate:"omitempty,oneof=ENFERMEIRO TECNICO COORDENADOR ADMIN COORDENACAO_GERAL"`
		SectionID    *int64  `json:"sectionID"`
		UnitID       *int64  `json:"unitID"`
		Vinculo      *string `json:"vinculo"`
		ClearSection bool    `json:"clearSection"`
		ClearUnit    bool    `json:"clearUnit"`
		Password     *string `json:"password" validate:"omitempty,min=6"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	update := service.NurseUpdate{
		Name:         req.Name,
		CPF:          req.CPF,
		Coren:        req.Coren,
		SectionID:    req.SectionID,
		UnitID:       req.UnitID,
		Vinculo:      req.Vinculo,
		ClearSection: req.ClearSection,
		ClearUnit:    req.ClearUnit,
		Password:     req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		update.Role = &role
	}

	nurse, err := h.service.UpdateNurse(r.Context(), actorFrom(r.Context()), id, update)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "enfermeira atualizada", nurse)
}

func (h *Handler) DeleteNurse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de enfermeira inválido")
	if !ok {
		return
	}

	if err := h.service.DeleteNurse(r.Context(), actorFrom(r.Context()), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "enfermeira removida", nil)
}
