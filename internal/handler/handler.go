package handler

import (
	"github.com/enf-hma/escala/backend/internal/config"
	"github.com/enf-hma/escala/backend/internal/domain"
	"github.com/enf-hma/escala/backend/internal/service"
	"github.com/enf-hma/escala/backend/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	pt_BR_translations "github.com/go-playground/validator/v10/translations/pt_BR"
)

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	service      *service.Service
	sessions     *session.Manager
	translator   ut.Translator
	loginLimiter *RateLimiter

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, svc *service.Service, sessions *session.Manager) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	ptBR := pt_BR.New()
	uni := ut.New(ptBR, ptBR)
	trans, _ := uni.GetTranslator("pt_BR")
	if err := pt_BR_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		service:      svc,
		sessions:     sessions,
		translator:   trans,
		loginLimiter: NewRateLimiter(cfg.RateLimit.Login.RequestsPerSecond, cfg.RateLimit.Login.Burst),

		Mux: chi.NewRouter(),
	}, nil
}

var (
	onlyAdmin    = []domain.Role{domain.RoleAdmin}
	managers     = []domain.Role{domain.RoleAdmin, domain.RoleCoordenacaoGeral}
	coordinators = []domain.Role{domain.RoleAdmin, domain.RoleCoordenacaoGeral, domain.RoleCoordenador}
)

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(middleware.RequestID)
	if h.config.Server.TrustProxy {
		h.Mux.Use(middleware.RealIP)
	}
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Route("/auth", func(r chi.Router) {
		r.With(h.loginLimiter.ByIP).Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// daqui para baixo é preciso estar logado
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/me", func(r chi.Router) {
			r.Get("/", h.GetMe)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/nurses", func(r chi.Router) {
			r.Get("/", h.ListNurses)
			r.With(h.RequiredRole(managers)).Post("/", h.CreateNurse)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetNurse)
				r.With(h.RequiredRole(managers)).Patch("/", h.UpdateNurse)
				r.With(h.RequiredRole(onlyAdmin)).Delete("/", h.DeleteNurse)
			})
		})

		r.Route("/sections", func(r chi.Router) {
			r.Get("/", h.ListSections)
			r.With(h.RequiredRole(managers)).Post("/", h.CreateSection)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSection)
				r.Get("/coordinator", h.GetSectionCoordinator)
				r.With(h.RequiredRole(managers)).Patch("/", h.UpdateSection)
				r.With(h.RequiredRole(onlyAdmin)).Delete("/", h.DeleteSection)
			})
		})

		r.Route("/units", func(r chi.Router) {
			r.Get("/", h.ListUnits)
			r.With(h.RequiredRole(managers)).Post("/", h.CreateUnit)
			r.With(h.RequiredRole(managers)).Patch("/{id}", h.UpdateUnit)
			r.With(h.RequiredRole(onlyAdmin)).Delete("/{id}", h.DeleteUnit)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShifts)
			r.With(h.RequiredRole(coordinators)).Put("/", h.SaveShifts)
		})

		r.Route("/rosters", func(r chi.Router) {
			r.Get("/", h.ListRoster)
			r.Get("/{nurseID}/{year}/{month}", h.GetRosterEntry)
			r.Group(func(r chi.Router) {
				r.Use(h.RequiredRole(managers))
				r.Post("/assign", h.AssignRoster)
				r.Post("/remove", h.RemoveRoster)
				r.Post("/copy", h.CopyRoster)
			})
		})

		r.Route("/time-off", func(r chi.Router) {
			r.Get("/", h.ListTimeOff)
			r.Post("/", h.RequestTimeOff)
			r.With(h.RequiredRole(onlyAdmin)).Post("/leave", h.AssignLeave)
			r.Route("/{id}", func(r chi.Router) {
				r.With(h.RequiredRole(coordinators)).Patch("/status", h.SetTimeOffStatus)
				r.Delete("/", h.DeleteTimeOff)
			})
		})

		r.Route("/swaps", func(r chi.Router) {
			r.Get("/", h.ListSwaps)
			r.Get("/pending", h.ListPendingSwaps)
			r.Post("/", h.RequestSwap)
			r.Route("/{id}", func(r chi.Router) {
				r.Post("/approve", h.ApproveSwap)
				r.Post("/reject", h.RejectSwap)
				r.Delete("/", h.CancelSwap)
			})
		})

		r.Route("/coordination/{kind}", func(r chi.Router) {
			r.Use(h.coordinationKind)
			r.Get("/", h.ListCoordinationRequests)
			r.With(h.RequiredRole(coordinators)).Post("/", h.CreateCoordinationRequest)
			r.With(h.RequiredRole(onlyAdmin)).Delete("/{id}", h.DeleteCoordinationRequest)
		})

		r.With(h.RequiredRole(onlyAdmin)).Get("/audit", h.ListAuditEvents)
	})
}
