package iceload

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"Floe/internal/observability"
)

type Handler struct {
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.Metrics.ObserveError("iceload")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(input)
	if err != nil {
		h.Metrics.ObserveError("iceload")
		if errors.Is(err, ErrUnknownPolarClass) {
			http.Error(w, "Polar Class should be between PC1 - PC7", http.StatusBadRequest)
			return
		}
		http.Error(w, "Calculation error", http.StatusBadRequest)
		return
	}
	finite := res.IsFinite()
	h.Metrics.ObserveCalculation("iceload", finite)
	if !finite {
		// NaN has no JSON encoding
		http.Error(w, "Result is not finite for the given bow geometry", http.StatusUnprocessableEntity)
		return
	}
	if h.Logger != nil {
		h.Logger.Debug("design ice load", "class", input.PolarClass, "force_mn", res.ForceMN)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
