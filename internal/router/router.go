package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-book-library/internal/handler"
	"go-book-library/internal/metrics"
	"go-book-library/internal/middleware"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Book   *handler.BookHandler
	Health *handler.HealthHandler
	Docs   *handler.DocsHandler
	Errors *handler.ErrorWriter
}

type Options struct {
	CORSOrigins []string
	// Metrics is optional; when nil neither the middleware nor /metrics is mounted.
	Metrics *metrics.Metrics
}

func New(opts Options, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.Use(middleware.CORS(opts.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.NotFound(h.Errors.NotFound)
	r.MethodNotAllowed(h.Errors.MethodNotAllowed)

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/docs", h.Docs.SwaggerUI)

	r.Route("/api", func(api chi.Router) {
		api.NotFound(h.Errors.NotFound)
		api.MethodNotAllowed(h.Errors.MethodNotAllowed)

		api.Get("/health-check", h.Health.Check)

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
		})

		api.Route("/users", func(users chi.Router) {
			users.With(authMiddleware.RequireAuthAllowQuery).Get("/", h.User.List)
			users.With(authMiddleware.RequireAuthAllowQuery).Get("/profile", h.User.Profile)
			users.With(authMiddleware.RequireAuthAllowQuery).Get("/{userId}", h.User.Get)
			users.With(authMiddleware.RequireAuth).Put("/{userId}", h.User.Update)
			users.With(authMiddleware.RequireAuth).Delete("/{userId}", h.User.Delete)
		})

		api.Route("/books", func(books chi.Router) {
			books.With(authMiddleware.RequireAuthAllowQuery).Get("/", h.Book.List)
			books.With(authMiddleware.RequireAuth).Post("/", h.Book.Create)
			books.With(authMiddleware.RequireAuthAllowQuery).Get("/{bookId}", h.Book.Get)
			books.With(authMiddleware.RequireAuth).Put("/{bookId}", h.Book.Update)
			books.With(authMiddleware.RequireAuth).Delete("/{bookId}", h.Book.Delete)
		})
	})

	return r
}
