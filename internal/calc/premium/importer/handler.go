package importer

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"Floe/internal/calc/lindqvist"
	"Floe/internal/observability"
)

const MaxUploadSize = 10 << 20 // 10MB

type Handler struct {
	Metrics *observability.Metrics
	Logger  *slog.Logger
}

type rowResponse struct {
	Line   int                `json:"line"`
	Name   string             `json:"name,omitempty"`
	Input  lindqvist.Input    `json:"input"`
	Result lindqvist.Response `json:"result"`
}

type ResistanceImportResult struct {
	Count   int           `json:"count"`
	Skipped []int         `json:"skipped"`
	Results []rowResponse `json:"results"`
}

func (h *Handler) Resistance(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		h.Metrics.ObserveError("import")
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := Import(file)
	if err != nil {
		h.Metrics.ObserveError("import")
		if errors.Is(err, ErrEmptySheet) {
			http.Error(w, "Empty sheet", http.StatusBadRequest)
			return
		}
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}

	out := ResistanceImportResult{Count: len(res.Rows), Skipped: res.Skipped, Results: make([]rowResponse, 0, len(res.Rows))}
	for _, row := range res.Rows {
		h.Metrics.ObserveCalculation("import", row.Result.IsFinite())
		out.Results = append(out.Results, rowResponse{
			Line:   row.Line,
			Name:   row.Name,
			Input:  row.Input,
			Result: lindqvist.NewResponse(row.Result),
		})
	}
	if h.Logger != nil {
		h.Logger.Info("resistance import", "rows", out.Count, "skipped", len(out.Skipped))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
