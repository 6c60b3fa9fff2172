package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"go-book-library/internal/config"
	"go-book-library/internal/database"
	"go-book-library/internal/handler"
	"go-book-library/internal/metrics"
	"go-book-library/internal/middleware"
	"go-book-library/internal/repository"
	"go-book-library/internal/router"
	"go-book-library/internal/service"
	"go-book-library/internal/validation"
)

type App struct {
	cfg          *config.Config
	server       *http.Server
	cleanupFuncs []func()
}

type stores struct {
	users   service.UserStore
	books   service.BookStore
	health  interface{ Health(ctx context.Context) error }
	cleanup func()
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := service.NewTokenService(service.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.JWTTTL,
		Issuer: cfg.JWTIssuer,
	})
	if err != nil {
		st.cleanup()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	hasher := service.NewPasswordHasher(cfg.BcryptCost)

	var m *metrics.Metrics
	var recorder interface{ AuthRejected(string) }
	if cfg.MetricsEnabled {
		m = metrics.New()
		recorder = m
	}

	validator := validation.New()
	errs := handler.NewErrorWriter(cfg.IsDevelopment())
	limits := handler.ListLimits{Default: cfg.ListDefaultLimit, Max: cfg.ListMaxLimit}

	authService := service.NewAuthService(st.users, hasher, tokens)
	userService := service.NewUserService(st.users)
	bookService := service.NewBookService(st.books, cfg.BookListScope == config.BookListOwner)

	appRouter := router.New(router.Options{
		CORSOrigins: cfg.CORSOrigins,
		Metrics:     m,
	}, middleware.NewAuthMiddleware(tokens, recorder), router.Handlers{
		Auth:   handler.NewAuthHandler(authService, validator, errs),
		User:   handler.NewUserHandler(userService, validator, errs, limits),
		Book:   handler.NewBookHandler(bookService, validator, errs, limits),
		Health: handler.NewHealthHandler(st.health),
		Docs:   handler.NewDocsHandler("/openapi.yaml"),
		Errors: errs,
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		cfg:          cfg,
		server:       server,
		cleanupFuncs: []func(){st.cleanup},
	}, nil
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		slog.Info("connecting to PostgreSQL")
		db, err := database.New(ctx, database.Options{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return stores{}, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return stores{}, fmt.Errorf("failed to migrate database: %w", err)
		}
		slog.Info("database ready")

		return stores{
			users:   repository.NewUserRepository(db.Pool),
			books:   repository.NewBookRepository(db.Pool),
			health:  db,
			cleanup: db.Close,
		}, nil

	case config.DriverBadger:
		store, err := repository.OpenBadger(repository.BadgerOptions{
			Path:     cfg.BadgerPath,
			InMemory: cfg.BadgerInMemory,
		})
		if err != nil {
			return stores{}, fmt.Errorf("failed to open badger store: %w", err)
		}

		closeStore := func() {
			if err := store.Close(); err != nil {
				slog.Error("failed to close badger store", "error", err)
			}
		}

		return stores{
			users:   store.Users(),
			books:   store.Books(),
			health:  store,
			cleanup: closeStore,
		}, nil

	default:
		return stores{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then drains
// in-flight requests within SHUTDOWN_TIMEOUT.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", a.server.Addr, "env", a.cfg.Env, "store", a.cfg.StoreDriver)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		a.cleanup()
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	err := a.server.Shutdown(shutdownCtx)
	a.cleanup()
	if err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) cleanup() {
	for _, fn := range a.cleanupFuncs {
		fn()
	}
}
