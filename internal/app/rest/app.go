package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"gqlbench/internal/config"
	"gqlbench/internal/http/middleware"
	v1 "gqlbench/internal/http/v1"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type App struct {
	log        *slog.Logger
	deps       *v1.RouterDependencies
	httpServer *http.Server
}

// NewRouter builds the chi router with the shared middleware stack and every
// v1 route mounted.
func NewRouter(log *slog.Logger, deps *v1.RouterDependencies, corsOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	v1.SetupRoutes(r, deps, log)

	return r
}

func New(
	log *slog.Logger,
	deps *v1.RouterDependencies,
	cfg config.HTTPServer,
) *App {
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewRouter(log, deps, cfg.CORSOrigins),
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		log:        log,
		deps:       deps,
		httpServer: httpServer,
	}
}

func (a *App) Run() error {
	const op = "app.rest.Run"
	a.log.With(slog.String("op", op)).Info("starting REST server", "port", a.httpServer.Addr)
	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	const op = "app.rest.Stop"
	a.log.With(slog.String("op", op)).Info("stopping REST server")
	return a.httpServer.Shutdown(ctx)
}
