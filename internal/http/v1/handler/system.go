package handler

import (
	"log/slog"
	"net/http"

	"gqlbench/internal/resolve"
)

type (
	HealthResponse struct {
		Status string `json:"status"`
	}
)

type ERSource interface {
	ER() resolve.ERGraph
}

type SystemHandler struct {
	responder
	diagram ERSource
	log     *slog.Logger
}

func NewSystemHandler(diagram ERSource, log *slog.Logger) *SystemHandler {
	return &SystemHandler{
		responder: responder{log: log},
		diagram:   diagram,
		log:       log,
	}
}

// ERDiagram returns the entity graph the composition engine was declared with.
func (h *SystemHandler) ERDiagram(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.diagram.ER())
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
