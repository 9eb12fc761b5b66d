package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"slices"
	"sync"
	"time"

	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w, StatusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("requisição processada", "request_id", middleware.GetReqID(r.Context()), "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				fmt.Print(string(debug.Stack())) // pilha fica ilegível dentro do slog
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			switch {
			case errors.Is(err, http.ErrNoCookie):
				h.errorResponse(w, r, "usuário não autenticado")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		claims, err := h.sessions.Parse(r.Context(), cookie.Value)
		if err != nil {
			switch {
			case errors.Is(err, session.ErrInvalidToken), errors.Is(err, session.ErrRevoked):
				h.errorResponse(w, r, err.Error())
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		tokenActor, err := claims.Actor()
		if err != nil {
			h.errorResponse(w, r, err.Error())
			return
		}

		// perfil e seção valem como estão no cadastro agora, não como estavam no login
		nurse, err := h.service.GetNurse(r.Context(), tokenActor.UserID)
		if err != nil {
			switch {
			case domain.IsKind(err, domain.KindNotFound):
				h.errorResponse(w, r, "usuário não encontrado")
			default:
				h.serviceError(w, r, err)
			}
			return
		}
		actor := domain.Actor{UserID: nurse.ID, Name: nurse.Name, Role: nurse.Role, SectionID: nurse.SectionID}

		ctx := context.WithValue(r.Context(), ActorCtxKey, actor)
		ctx = context.WithValue(ctx, ClaimsCtxKey, claims)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := actorFrom(r.Context())
			if !slices.Contains(roles, actor.Role) {
				h.errorResponse(w, r, "permissão insuficiente")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) coordinationKind(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		kind := domain.CoordinationKind(chi.URLParam(r, "kind"))
		if !kind.Valid() {
			h.errorResponse(w, r, "tipo de solicitação inválido")
			return
		}

		ctx := context.WithValue(r.Context(), CoordinationKindCtxKey, kind)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RateLimiter guarda um limiter por IP e descarta os que ficaram parados.
type RateLimiter struct {
	limit  rate.Limit
	burst  int
	maxAge time.Duration

	mu    sync.Mutex
	store map[string]*limiterEntry
}

type limiterEntry struct {
	limiter *rate.Limiter
	updated time.Time
}

func NewRateLimiter(reqPerSec float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:  rate.Limit(reqPerSec),
		burst:  burst,
		maxAge: 10 * time.Minute,
		store:  make(map[string]*limiterEntry),
	}
}

func (l *RateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if entry, ok := l.store[key]; ok {
		entry.updated = now
		return entry.limiter
	}

	for k, entry := range l.store {
		if now.Sub(entry.updated) > l.maxAge {
			delete(l.store, k)
		}
	}

	lim := rate.NewLimiter(l.limit, l.burst)
	l.store[key] = &limiterEntry{limiter: lim, updated: now}
	return lim
}

func (l *RateLimiter) ByIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.get(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"success":false,"message":"muitas tentativas, aguarde um instante","data":null}` + "\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP usa só o endereço da conexão. Atrás de proxy confiável o
// middleware.RealIP já trocou RemoteAddr pelo IP do cliente.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
