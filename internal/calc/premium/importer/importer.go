package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"Floe/internal/calc/lindqvist"
)

var ErrEmptySheet = errors.New("empty sheet")

// Row columns: length, breadth, draft, speed, trim, keel, side, ice
// thickness (cm), optional case name.
const minColumns = 8

type Row struct {
	Line   int              `json:"line"`
	Name   string           `json:"name,omitempty"`
	Input  lindqvist.Input  `json:"input"`
	Result lindqvist.Result `json:"-"`
}

type ImportResult struct {
	Rows    []Row `json:"rows"`
	Skipped []int `json:"skipped"`
}

// Import reads the first sheet of an xlsx workbook, skipping the header row,
// and calculates every well-formed row.
func Import(r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return ImportResult{}, ErrEmptySheet
	}

	var out ImportResult
	for i := 1; i < len(rows); i++ {
		line := i + 1
		input, name, err := parseRow(rows[i])
		if err != nil {
			out.Skipped = append(out.Skipped, line)
			continue
		}
		res, err := lindqvist.Calculate(input)
		if err != nil {
			out.Skipped = append(out.Skipped, line)
			continue
		}
		out.Rows = append(out.Rows, Row{Line: line, Name: name, Input: input, Result: res})
	}
	return out, nil
}

func parseRow(row []string) (lindqvist.Input, string, error) {
	if len(row) < minColumns {
		return lindqvist.Input{}, "", fmt.Errorf("bad row: %d columns", len(row))
	}
	vals := make([]float64, minColumns)
	for i := 0; i < minColumns; i++ {
		v, err := toFloat(row[i])
		if err != nil {
			return lindqvist.Input{}, "", err
		}
		vals[i] = v
	}
	name := ""
	if len(row) > minColumns {
		name = strings.TrimSpace(row[minColumns])
	}
	return lindqvist.Input{
		LengthM:        vals[0],
		BreadthM:       vals[1],
		DraftM:         vals[2],
		Speed:          vals[3],
		TrimDeg:        vals[4],
		KeelDeg:        vals[5],
		SideDeg:        vals[6],
		IceThicknessCM: vals[7],
	}, name, nil
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}
