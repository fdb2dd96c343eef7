package router

import (
	"log/slog"

	"gqlbench/internal/http/v1/handler"
	"gqlbench/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

type SystemRouter struct {
	handler  *handler.SystemHandler
	registry *prometheus.Registry
}

func NewSystemRouter(diagram handler.ERSource, registry *prometheus.Registry, log *slog.Logger) *SystemRouter {
	return &SystemRouter{
		handler:  handler.NewSystemHandler(diagram, log),
		registry: registry,
	}
}

func (sr *SystemRouter) SetupRoutes(r chi.Router) {
	r.Get("/er-diagram", sr.handler.ERDiagram)
	r.Get("/healthz", sr.handler.Health)

	if sr.registry != nil {
		r.Handle("/metrics", metrics.Handler(sr.registry))
	}
}
