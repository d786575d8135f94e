package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/endpoint-race/internal/selector"
)

// StatusHandler serves the current race state held by the selector.
type StatusHandler struct {
	logger   *slog.Logger
	selector *selector.Selector
}

func NewStatusHandler(logger *slog.Logger, sel *selector.Selector) *StatusHandler {
	return &StatusHandler{
		logger:   logger,
		selector: sel,
	}
}

// Fastest responds with the winning outcome of the latest race, or 503 when
// no race has produced a successful endpoint yet.
func (h *StatusHandler) Fastest(w http.ResponseWriter, r *http.Request) {
	out, ok := h.selector.Fastest()
	if !ok {
		h.logger.Debug("Fastest requested before any successful race")
		http.Error(w, "no successful endpoint yet", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, out)
}

// Outcomes responds with the full ranked result of the latest race, or 503
// when no race has finished yet.
func (h *StatusHandler) Outcomes(w http.ResponseWriter, r *http.Request) {
	result, ok := h.selector.Snapshot()
	if !ok {
		http.Error(w, "no race has finished yet", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, result)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
