package batch

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"Floe/internal/calc/lindqvist"
	"Floe/internal/observability"
)

type Handler struct {
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

type resistanceBatchResponse struct {
	Results []lindqvist.Response `json:"results"`
}

type sweepPointResponse struct {
	Speed  float64            `json:"speed"`
	Result lindqvist.Response `json:"result"`
}

type sweepResponse struct {
	Points []sweepPointResponse `json:"points"`
}

func (h *Handler) Resistance(w http.ResponseWriter, r *http.Request) {
	var input ResistanceBatchInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.Metrics.ObserveError("batch")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := CalculateResistance(input)
	if err != nil {
		h.Metrics.ObserveError("batch")
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	out := resistanceBatchResponse{Results: make([]lindqvist.Response, 0, len(res.Results))}
	for _, item := range res.Results {
		h.Metrics.ObserveCalculation("batch", item.IsFinite())
		out.Results = append(out.Results, lindqvist.NewResponse(item))
	}
	if h.Logger != nil {
		h.Logger.Debug("batch resistance", "items", len(out.Results))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	var input SweepInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.Metrics.ObserveError("sweep")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := SpeedSweep(input)
	if err != nil {
		h.Metrics.ObserveError("sweep")
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	out := sweepResponse{Points: make([]sweepPointResponse, 0, len(res.Points))}
	for _, p := range res.Points {
		h.Metrics.ObserveCalculation("sweep", p.Result.IsFinite())
		out.Points = append(out.Points, sweepPointResponse{Speed: p.Speed, Result: lindqvist.NewResponse(p.Result)})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
