package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cartfolio/insights/app/catalog"
	"github.com/cartfolio/insights/app/orders"
)

// Runner executes one ingestion run; the server wraps it with the store-wide
// run lock.
type Runner func(ctx context.Context) (Report, error)

type Handler struct {
	run Runner
}

func NewHandler(run Runner) *Handler {
	return &Handler{run: run}
}

func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	report, err := h.run(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrSourceUnavailable):
			http.Error(w, err.Error(), http.StatusBadGateway)
		case errors.Is(err, orders.ErrMalformedInput):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
