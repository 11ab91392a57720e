package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nortonjulian/messagely/internal/auth"
	"github.com/nortonjulian/messagely/internal/core"
)

type Server struct {
	Store  *core.Store
	Tokens *auth.TokenManager

	logger   *slog.Logger
	validate *validator.Validate
	opts     Options
}

type Options struct {
	// Global token bucket for the whole surface; zero RPS disables it.
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewServer(db *pgxpool.Pool, tokens *auth.TokenManager, logger *slog.Logger, opts Options) *Server {
	return &Server{
		Store:    &core.Store{DB: db},
		Tokens:   tokens,
		logger:   logger,
		validate: validator.New(),
		opts:     opts,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(instrument)
	if s.opts.RateLimitRPS > 0 {
		r.Use(rateLimit(s.opts.RateLimitRPS, s.opts.RateLimitBurst))
	}

	s.mountHealth(r)
	s.mountMetrics(r)
	s.mountDocs(r)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)
	})

	// Logged-in surface.
	r.Group(func(r chi.Router) {
		r.Use(s.Tokens.RequireLogin)
		r.Get("/messages/{id}", s.getMessage)
		r.Post("/messages", s.sendMessage)
		r.Get("/users", s.listUsers)
	})

	// Identity-checked surface. The mark-read route carries no
	// {username} param, so the gate only confirms login there; the
	// recipient check lives in the handler.
	r.Group(func(r chi.Router) {
		r.Use(s.Tokens.RequireUser)
		r.Post("/messages/{id}/read", s.markRead)
		r.Get("/users/{username}", s.getUser)
		r.Get("/users/{username}/to", s.messagesTo)
		r.Get("/users/{username}/from", s.messagesFrom)
	})

	return r
}
