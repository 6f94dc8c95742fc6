package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/example/eventlist/internal/ratelimit"
	"github.com/example/eventlist/internal/record"
)

// RouterConfig collects the handlers and cross-cutting dependencies the router
// wires together.
type RouterConfig struct {
	Auth       *AuthHandler
	Events     *EventHandler
	Categories *CategoryHandler
	Users      *UserHandler

	Resolver TokenResolver
	Logger   *slog.Logger

	// APILimiter covers every route; AccountLimiter additionally throttles the
	// account management routes, which are cheap to abuse.
	APILimiter     *ratelimit.Limiter
	AccountLimiter *ratelimit.Limiter
}

// NewRouter assembles the HTTP surface of the service.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(chimiddleware.Recoverer)
	if cfg.APILimiter != nil {
		r.Use(ratelimit.Middleware(cfg.APILimiter, nil))
	}

	auth := RequireAuth(cfg.Resolver, cfg.Logger)
	editor := RequireRole(cfg.Logger, record.RoleEditor, record.RoleAdmin)
	admin := RequireRole(cfg.Logger, record.RoleAdmin)
	accountLimit := passthrough
	if cfg.AccountLimiter != nil {
		accountLimit = ratelimit.Middleware(cfg.AccountLimiter, nil)
	}

	r.With(accountLimit).Post("/login", cfg.Auth.Login)
	r.With(auth).Post("/logout", cfg.Auth.Logout)

	r.Route("/api/event", func(g chi.Router) {
		g.Use(auth)
		g.Get("/", cfg.Events.List)
		g.With(editor).Post("/", cfg.Events.Create)
		g.Get("/search/{name}", cfg.Events.Search)
		g.Get("/{id}", cfg.Events.Get)
		g.With(editor).Patch("/{id}", cfg.Events.Update)
		g.With(editor).Delete("/{id}", cfg.Events.Delete)
	})

	r.Route("/api/category", func(g chi.Router) {
		g.Use(auth)
		g.With(editor).Get("/", cfg.Categories.List)
		g.With(admin).Post("/", cfg.Categories.Create)
		g.Get("/{id}", cfg.Categories.Get)
		g.With(admin).Patch("/{id}", cfg.Categories.Rename)
		g.With(admin).Delete("/{id}", cfg.Categories.Delete)
	})

	r.Route("/api/user", func(g chi.Router) {
		g.Use(accountLimit)
		g.Post("/", cfg.Users.Register)
		g.With(auth, admin).Get("/", cfg.Users.List)

		g.Group(func(p chi.Router) {
			p.Use(auth)
			p.Patch("/email", cfg.Users.ChangeEmail)
			p.Patch("/pass", cfg.Users.ChangePassword)
			p.Get("/name", cfg.Users.GetName)
			p.Patch("/name", cfg.Users.ChangeName)
			p.Get("/role", cfg.Users.GetRole)
			p.With(admin).Patch("/role", cfg.Users.ChangeRole)
			p.Get("/permissions", cfg.Users.GetRequestStatus)
			p.Patch("/permissions", cfg.Users.RequestRoleUpgrade)
			p.Delete("/delete", cfg.Users.DeleteSelf)
			p.With(admin).Delete("/admin/{id}", cfg.Users.DeleteByAdmin)
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler { return next }
