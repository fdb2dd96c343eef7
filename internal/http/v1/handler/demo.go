package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gqlbench/internal/graph/composition"
	"gqlbench/internal/lib/logger/sl"
	"gqlbench/internal/resolve"
)

type (
	StoriesRequest struct {
		Message string  `json:"message"`
		Name    *string `json:"name"`
	}
)

const defaultStoriesMessage = "123"

var errNameRequired = errors.New("field required")

type StoryViews interface {
	Stories(ctx context.Context, demo composition.Demo) ([]*resolve.Object, error)
}

type DemoHandler struct {
	responder
	views StoryViews
	log   *slog.Logger
}

func NewDemoHandler(views StoryViews, log *slog.Logger) *DemoHandler {
	return &DemoHandler{
		responder: responder{log: log},
		views:     views,
		log:       log,
	}
}

func (h *DemoHandler) Stories(w http.ResponseWriter, r *http.Request) {
	const op = "handler.demo.Stories"

	log := h.log.With(slog.String("op", op))

	req := StoriesRequest{Message: defaultStoriesMessage}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("invalid request body", sl.Err(err))
		h.writeError(w, http.StatusUnprocessableEntity, "invalid request body", err)
		return
	}

	if req.Name == nil {
		log.Error("name is required")
		h.writeError(w, http.StatusUnprocessableEntity, "name is required", errNameRequired)
		return
	}

	log.Info("stories requested", slog.String("message", req.Message), slog.String("name", *req.Name))

	h.serve(w, r, log, composition.StoriesDetail)
}

func (h *DemoHandler) StoriesRelatedUsers(w http.ResponseWriter, r *http.Request) {
	const op = "handler.demo.StoriesRelatedUsers"
	h.serve(w, r, h.log.With(slog.String("op", op)), composition.StoriesRelatedUsers)
}

func (h *DemoHandler) StoriesTotalEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "handler.demo.StoriesTotalEstimate"
	h.serve(w, r, h.log.With(slog.String("op", op)), composition.StoriesTotalEstimate)
}

func (h *DemoHandler) StoriesTaskFullname(w http.ResponseWriter, r *http.Request) {
	const op = "handler.demo.StoriesTaskFullname"
	h.serve(w, r, h.log.With(slog.String("op", op)), composition.StoriesTaskFullname)
}

func (h *DemoHandler) serve(w http.ResponseWriter, r *http.Request, log *slog.Logger, demo composition.Demo) {
	stories, err := h.views.Stories(r.Context(), demo)
	if err != nil {
		log.Error("failed to resolve stories", sl.Err(err))
		h.writeError(w, http.StatusInternalServerError, "failed to resolve stories", err)
		return
	}

	if stories == nil {
		stories = []*resolve.Object{}
	}

	h.writeJSON(w, http.StatusOK, stories)
	log.Info("stories returned successfully", slog.Int("count", len(stories)))
}
