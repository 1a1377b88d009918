package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"

	"github.com/natan23f3/finfam/internal/config"
	"github.com/natan23f3/finfam/internal/handler"
	"github.com/natan23f3/finfam/internal/middleware"
	"github.com/natan23f3/finfam/internal/store"
	"github.com/natan23f3/finfam/internal/ws"
)

// Server wires stores, handlers, and middleware into one HTTP API.
type Server struct {
	db  *sqlx.DB
	cfg *config.Config
	hub *ws.Hub

	authH    *handler.AuthHandler
	familyH  *handler.FamilyHandler
	budgetH  *handler.EntryHandler
	expenseH *handler.EntryHandler
	summaryH *handler.SummaryHandler

	userStore    *store.UserStore
	sessionStore *store.SessionStore
	familyStore  *store.FamilyStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sqlx.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	familyStore := store.NewFamilyStore(db)
	budgetStore := store.NewBudgetStore(db)
	expenseStore := store.NewExpenseStore(db)

	authCfg := handler.AuthConfig{
		JWTSecret:    cfg.JWTSecret,
		JWTExpiresIn: cfg.JWTExpiresIn,
		SecureCookie: cfg.IsProduction(),
	}

	return &Server{
		db:  db,
		cfg: cfg,
		hub: hub,

		authH:    handler.NewAuthHandler(userStore, sessionStore, authCfg, logger.With("component", "auth")),
		familyH:  handler.NewFamilyHandler(familyStore, userStore, hub, logger.With("component", "family")),
		budgetH:  handler.NewEntryHandler(budgetStore, familyStore, "budget", hub, logger.With("component", "budget")),
		expenseH: handler.NewEntryHandler(expenseStore, familyStore, "expense", hub, logger.With("component", "expense")),
		summaryH: handler.NewSummaryHandler(budgetStore, expenseStore, familyStore, logger.With("component", "summary")),

		userStore:    userStore,
		sessionStore: sessionStore,
		familyStore:  familyStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(s.logger.With("component", "http")))
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(s.rateLimiter, middleware.RealIP, middleware.GlobalLimit, middleware.GlobalWindow))

	r.Get("/health", s.healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.healthHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(s.rateLimiter, authKey, middleware.AuthLimit, middleware.AuthWindow))
			r.Post("/auth/register", s.authH.Register)
			r.Post("/auth/login", s.authH.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.sessionStore, s.userStore, s.cfg.JWTSecret))

			r.Post("/auth/logout", s.authH.Logout)
			r.Get("/auth/me", s.authH.Me)

			r.Route("/families", func(r chi.Router) {
				r.Post("/", s.familyH.Create)
				r.Get("/", s.familyH.List)
				r.Get("/{id}", s.familyH.Get)
				r.Get("/{id}/members", s.familyH.ListMembers)
				r.Post("/{id}/members", s.familyH.AddMember)
				r.Delete("/{id}/members/{userId}", s.familyH.RemoveMember)
			})

			r.Route("/budgets", func(r chi.Router) {
				mountEntryRoutes(r, s.budgetH)
			})
			r.Route("/expenses", func(r chi.Router) {
				mountEntryRoutes(r, s.expenseH)
			})

			r.Get("/summary/family/{familyId}", s.summaryH.Family)
			r.Get("/ws", ws.Handler(s.hub, s.familyStore, s.cfg.CORSOrigin, s.logger.With("component", "websocket")))
		})
	})

	return r
}

// mountEntryRoutes registers the CRUD surface budgets and expenses
// share.
func mountEntryRoutes(r chi.Router, h *handler.EntryHandler) {
	r.Post("/", h.Create)
	r.Get("/family/{familyId}", h.ListByFamily)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// authKey scopes the stricter auth rate cap per IP separately from the
// global cap so the two counters never collide.
func authKey(r *http.Request) string {
	return "auth:" + middleware.RealIP(r)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
