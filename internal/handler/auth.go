package handler

import (
	"net/http"
	"time"

	"github.com/enf-hma/escala/backend/internal/session"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CPF      string `json:"cpf" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if !h.readValid(w, r, &req) {
		return
	}

	nurse, err := h.service.Authenticate(r.Context(), req.CPF, req.Password)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	token, expiration, err := h.sessions.Issue(nurse)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// cookie http-only; o front nunca lê o token
	cookie := &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)

	h.successResponse(w, r, "login realizado", nurse)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		if claims, err := h.sessions.Parse(r.Context(), cookie.Value); err == nil {
			if err := h.sessions.Revoke(r.Context(), claims); err != nil {
				h.internalServerError(w, r, err)
				return
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:    session.CookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})

	h.successResponse(w, r, "logout realizado", nil)
}
