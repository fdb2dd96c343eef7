package handler

import (
	"context"
	_ "embed"
	"encoding/json"
	"log/slog"
	"net/http"

	"gqlbench/internal/lib/logger/sl"
	"gqlbench/internal/resolve"

	"github.com/graph-gophers/graphql-go"
)

//go:embed graphiql.html
var graphiqlHTML string

type CompositionEngine interface {
	Execute(ctx context.Context, req resolve.Request) *resolve.Response
	SDL() string
}

type FieldResolverEngine interface {
	Execute(ctx context.Context, query, operationName string, variables map[string]any) *graphql.Response
	SDL() string
}

type GraphQLHandler struct {
	responder
	composition   CompositionEngine
	fieldResolver FieldResolverEngine
	log           *slog.Logger
}

func NewGraphQLHandler(composition CompositionEngine, fieldResolver FieldResolverEngine, log *slog.Logger) *GraphQLHandler {
	return &GraphQLHandler{
		responder:     responder{log: log},
		composition:   composition,
		fieldResolver: fieldResolver,
		log:           log,
	}
}

func (h *GraphQLHandler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger) (resolve.Request, bool) {
	var req resolve.Request

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("invalid request body", sl.Err(err))
		h.writeError(w, http.StatusBadRequest, "invalid request body", err)
		return req, false
	}

	if req.Query == "" {
		log.Error("query is required")
		h.writeError(w, http.StatusBadRequest, "query is required", nil)
		return req, false
	}

	return req, true
}

// Query executes a request on the composition engine. GraphQL errors are part
// of the response body and keep the 200 status.
func (h *GraphQLHandler) Query(w http.ResponseWriter, r *http.Request) {
	const op = "handler.graphql.Query"

	log := h.log.With(slog.String("op", op))

	req, ok := h.decode(w, r, log)
	if !ok {
		return
	}

	resp := h.composition.Execute(r.Context(), req)
	if len(resp.Errors) > 0 {
		log.Debug("query finished with errors",
			slog.String("operation", req.OperationName),
			slog.Int("errors", len(resp.Errors)))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *GraphQLHandler) FieldResolverQuery(w http.ResponseWriter, r *http.Request) {
	const op = "handler.graphql.FieldResolverQuery"

	log := h.log.With(slog.String("op", op))

	req, ok := h.decode(w, r, log)
	if !ok {
		return
	}

	resp := h.fieldResolver.Execute(r.Context(), req.Query, req.OperationName, req.Variables)
	if len(resp.Errors) > 0 {
		log.Debug("query finished with errors",
			slog.String("operation", req.OperationName),
			slog.Int("errors", len(resp.Errors)))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *GraphQLHandler) Playground(w http.ResponseWriter, r *http.Request) {
	h.writeText(w, "text/html; charset=utf-8", graphiqlHTML)
}

func (h *GraphQLHandler) Schema(w http.ResponseWriter, r *http.Request) {
	h.writeText(w, "text/plain; charset=utf-8", h.composition.SDL())
}

func (h *GraphQLHandler) FieldResolverSchema(w http.ResponseWriter, r *http.Request) {
	h.writeText(w, "text/plain; charset=utf-8", h.fieldResolver.SDL())
}
