package v1

import (
	"log/slog"

	"gqlbench/internal/graph/composition"
	"gqlbench/internal/graph/fieldresolver"
	"gqlbench/internal/http/v1/router"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

type Router interface {
	SetupRoutes(r chi.Router)
}

type RouterDependencies struct {
	Composition   *composition.Schema
	FieldResolver *fieldresolver.Schema
	Registry      *prometheus.Registry
}

func SetupRoutes(r chi.Router, deps *RouterDependencies, log *slog.Logger) {
	routers := []Router{
		router.NewGraphQLRouter(deps.Composition, deps.FieldResolver, log),
		router.NewDemoRouter(deps.Composition, log),
		router.NewSystemRouter(deps.Composition, deps.Registry, log),
	}

	for _, serviceRouter := range routers {
		serviceRouter.SetupRoutes(r)
	}
}
