package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const msgInternalError = "erro interno do servidor"

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("erro interno do servidor", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("corpo da requisição inválido")
	}
	return nil
}

// readValid lê o corpo e roda o validator; responde sozinho quando falha.
func (h *Handler) readValid(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := h.readJSON(r, v); err != nil {
		h.badRequest(w, r, err)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		h.badRequest(w, r, err)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, msgInternalError, http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.errorResponse(w, r, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: msgInternalError,
		Data:    nil,
	})
}

// serviceError traduz o erro do serviço. Erros de armazenamento viram 500 com
// o texto do backend; o resto é erro de regra e volta com success=false.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	var e *domain.Error
	if !errors.As(err, &e) {
		h.internalServerError(w, r, err)
		return
	}

	if e.Kind == domain.KindStore {
		h.logInternalServerError(r, err)
		h.writeJSON(w, r, http.StatusInternalServerError, Response{
			Success: false,
			Message: e.Error(),
			Data:    nil,
		})
		return
	}

	h.errorResponse(w, r, e.Message)
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

func (h *Handler) idParam(w http.ResponseWriter, r *http.Request, name, msg string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		h.errorResponse(w, r, msg)
		return 0, false
	}
	return id, true
}

// optionalInt64 lê um parâmetro de query opcional.
func optionalInt64(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, errors.New("parâmetro " + name + " inválido")
	}
	return &v, nil
}

func requiredInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, errors.New("parâmetro " + name + " é obrigatório")
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("parâmetro " + name + " inválido")
	}
	return v, nil
}

func requiredDate(r *http.Request, name string) (domain.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return domain.Date{}, errors.New("parâmetro " + name + " é obrigatório")
	}
	return domain.ParseDate(raw)
}

// optionalDate devolve a data zero quando o parâmetro não veio.
func optionalDate(r *http.Request, name string) (domain.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(raw)
}
