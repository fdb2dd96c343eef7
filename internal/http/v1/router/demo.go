package router

import (
	"log/slog"

	"gqlbench/internal/http/v1/handler"

	"github.com/go-chi/chi/v5"
)

type DemoRouter struct {
	handler *handler.DemoHandler
}

func NewDemoRouter(views handler.StoryViews, log *slog.Logger) *DemoRouter {
	return &DemoRouter{
		handler: handler.NewDemoHandler(views, log),
	}
}

func (dr *DemoRouter) SetupRoutes(r chi.Router) {
	r.Route("/demo", func(r chi.Router) {
		r.Post("/stories", dr.handler.Stories)

		r.Get("/stories-1", dr.handler.StoriesRelatedUsers)
		r.Get("/stories-2", dr.handler.StoriesTotalEstimate)
		r.Get("/stories-3", dr.handler.StoriesTaskFullname)
	})
}
