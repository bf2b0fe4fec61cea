package lindqvist

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"

	"Floe/internal/observability"
)

const calculatorName = "lindqvist"

type Handler struct {
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

// Response is Result with every force nullable: NaN and Inf have no JSON
// encoding, so they are sent as null with Finite=false.
type Response struct {
	CrushingN   *float64 `json:"rc_n"`
	BendingN    *float64 `json:"rb_n"`
	SubmersionN *float64 `json:"rs_n"`
	TotalN      *float64 `json:"total_n"`
	TotalKN     *float64 `json:"total_kn"`
	Finite      bool     `json:"finite"`
	NoIce       bool     `json:"no_ice"`
	Summary     string   `json:"summary"`
	Notes       string   `json:"notes"`
}

func NewResponse(r Result) Response {
	return Response{
		CrushingN:   finite(r.CrushingN),
		BendingN:    finite(r.BendingN),
		SubmersionN: finite(r.SubmersionN),
		TotalN:      finite(r.TotalN),
		TotalKN:     finite(r.TotalKN),
		Finite:      r.IsFinite(),
		NoIce:       r.NoIce,
		Summary:     FormatKN(r),
		Notes:       r.Notes,
	}
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.Metrics.ObserveError(calculatorName)
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(input)
	if err != nil {
		h.Metrics.ObserveError(calculatorName)
		h.logger().Info("lindqvist input rejected", "error", err)
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.Metrics.ObserveCalculation(calculatorName, res.IsFinite())
	if !res.IsFinite() {
		h.logger().Warn("lindqvist result not finite", "input", input)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(NewResponse(res))
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
