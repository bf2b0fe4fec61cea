package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/phpdave11/gofpdf"

	"Floe/internal/calc/lindqvist"
)

type Input struct {
	Project string          `json:"project"`
	Author  string          `json:"author"`
	Title   string          `json:"title"`
	Notes   string          `json:"notes"`
	Case    lindqvist.Input `json:"case"`
}

type Handler struct {
	Clock         clockwork.Clock
	DefaultAuthor string
	Logger        *slog.Logger
}

func NewHandler(clock clockwork.Clock, author string, logger *slog.Logger) *Handler {
	return &Handler{Clock: clock, DefaultAuthor: author, Logger: logger}
}

// Render calculates the case and writes a one-page PDF report to w.
func (h *Handler) Render(w io.Writer, input Input) error {
	res, err := lindqvist.Calculate(input.Case)
	if err != nil {
		return err
	}
	if input.Title == "" {
		input.Title = "Level Ice Resistance Report"
	}
	if input.Author == "" {
		input.Author = h.DefaultAuthor
	}
	clock := h.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, input.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", input.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", input.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", clock.Now().Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Input")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	c := input.Case
	for _, line := range [][2]string{
		{"Length of the ship", fmt.Sprintf("%.2f m", c.LengthM)},
		{"Breadth of the ship", fmt.Sprintf("%.2f m", c.BreadthM)},
		{"Draft of the ship", fmt.Sprintf("%.2f m", c.DraftM)},
		{"Ship speed", fmt.Sprintf("%.2f", c.Speed)},
		{"Trim angle", fmt.Sprintf("%.2f deg", c.TrimDeg)},
		{"Keel to direction of motion", fmt.Sprintf("%.2f deg", c.KeelDeg)},
		{"Ship side to waterline", fmt.Sprintf("%.2f deg", c.SideDeg)},
		{"Ice thickness", fmt.Sprintf("%.2f cm", c.IceThicknessCM)},
	} {
		pdf.CellFormat(80, 6, line[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, line[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Result")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	if !res.NoIce {
		for _, line := range [][2]string{
			{"Crushing Rc", fmt.Sprintf("%.2f kN", res.CrushingN/1000)},
			{"Bending Rb", fmt.Sprintf("%.2f kN", res.BendingN/1000)},
			{"Submersion Rs", fmt.Sprintf("%.2f kN", res.SubmersionN/1000)},
		} {
			pdf.CellFormat(80, 6, line[0], "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 6, line[1], "", 1, "L", false, 0, "")
		}
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, lindqvist.FormatKN(res))
	pdf.Ln(10)

	if input.Notes != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, input.Notes, "", "L", false)
	}

	return pdf.Output(w)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := h.Render(&buf, input); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("report generation failed", "error", err)
		}
		http.Error(w, "Report generation error: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"ice-resistance.pdf\"")
	w.Write(buf.Bytes())
}
