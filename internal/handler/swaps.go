package handler

import (
	"net/http"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/service"
)

func (h *Handler) ListSwaps(w http.ResponseWriter, r *http.Request) {
	var status *domain.SwapStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.SwapStatus(raw)
		status = &s
	}

	swaps, err := h.service.ListSwaps(r.Context(), actorFrom(r.Context()), status)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "trocas obtidas", swaps)
}

func (h *Handler) ListPendingSwaps(w http.ResponseWriter, r *http.Request) {
	swaps, err := h.service.ListPendingSwaps(r.Context(), actorFrom(r.Context()))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "trocas pendentes obtidas", swaps)
}

// RequestSwap não usa o validator: campos faltando caem na mensagem de dados incompletos do serviço.
func (h *Handler) RequestSwap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RequestedID        int64       `json:"requestedID"`
		RequesterShiftDate domain.Date `json:"requesterShiftDate"`
		RequestedShiftDate domain.Date `json:"requestedShiftDate"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	swap, err := h.service.RequestSwap(r.Context(), actorFrom(r.Context()), service.SwapInput{
		RequestedID:        req.RequestedID,
		RequesterShiftDate: req.RequesterShiftDate,
		RequestedShiftDate: req.RequestedShiftDate,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "troca solicitada", swap)
}

func (h *Handler) ApproveSwap(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de troca inválido")
	if !ok {
		return
	}

	swap, err := h.service.ApproveSwap(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "troca aprovada", swap)
}

func (h *Handler) RejectSwap(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de troca inválido")
	if !ok {
		return
	}

	swap, err := h.service.RejectSwap(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "troca recusada", swap)
}

func (h *Handler) CancelSwap(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "id", "ID de troca inválido")
	if !ok {
		return
	}

	if err := h.service.CancelSwap(r.Context(), actorFrom(r.Context()), id); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.successResponse(w, r, "troca cancelada", nil)
}
