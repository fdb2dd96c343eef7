package router

import (
	"log/slog"

	"gqlbench/internal/http/v1/handler"

	"github.com/go-chi/chi/v5"
)

type GraphQLRouter struct {
	handler *handler.GraphQLHandler
}

func NewGraphQLRouter(composition handler.CompositionEngine, fieldResolver handler.FieldResolverEngine, log *slog.Logger) *GraphQLRouter {
	return &GraphQLRouter{
		handler: handler.NewGraphQLHandler(composition, fieldResolver, log),
	}
}

func (gr *GraphQLRouter) SetupRoutes(r chi.Router) {
	r.Get("/graphql", gr.handler.Playground)
	r.Post("/graphql", gr.handler.Query)
	r.Get("/schema", gr.handler.Schema)

	r.Route("/field-resolver", func(r chi.Router) {
		r.Post("/graphql", gr.handler.FieldResolverQuery)
		r.Get("/schema", gr.handler.FieldResolverSchema)
	})
}
