package batch

import (
	"errors"
	"fmt"
	"math"

	"Floe/internal/calc/lindqvist"
)

const maxSweepPoints = 1000

var (
	ErrNoItems      = errors.New("no items")
	ErrInvalidSweep = errors.New("invalid speed sweep")
)

type ResistanceBatchInput struct {
	Items []lindqvist.Input `json:"items"`
}

type ResistanceBatchResult struct {
	Results []lindqvist.Result `json:"results"`
}

func CalculateResistance(in ResistanceBatchInput) (ResistanceBatchResult, error) {
	if len(in.Items) == 0 {
		return ResistanceBatchResult{}, ErrNoItems
	}
	out := ResistanceBatchResult{Results: make([]lindqvist.Result, 0, len(in.Items))}
	for i, item := range in.Items {
		res, err := lindqvist.Calculate(item)
		if err != nil {
			return ResistanceBatchResult{}, fmt.Errorf("item %d: %w", i, err)
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}

type SweepInput struct {
	Base      lindqvist.Input `json:"base"`
	SpeedFrom float64         `json:"speed_from"`
	SpeedTo   float64         `json:"speed_to"`
	SpeedStep float64         `json:"speed_step"`
}

type SweepPoint struct {
	Speed  float64          `json:"speed"`
	Result lindqvist.Result `json:"result"`
}

type SweepResult struct {
	Points []SweepPoint `json:"points"`
}

// SpeedSweep evaluates the base case at every speed from SpeedFrom to SpeedTo
// inclusive.
func SpeedSweep(in SweepInput) (SweepResult, error) {
	if in.SpeedStep <= 0 || in.SpeedFrom < 0 || in.SpeedTo < in.SpeedFrom {
		return SweepResult{}, ErrInvalidSweep
	}
	steps := (in.SpeedTo-in.SpeedFrom)/in.SpeedStep + 1e-9
	if math.IsNaN(steps) || math.IsInf(steps, 0) || math.Floor(steps)+1 > maxSweepPoints {
		return SweepResult{}, fmt.Errorf("%w: more than %d points", ErrInvalidSweep, maxSweepPoints)
	}
	n := int(steps) + 1

	out := SweepResult{Points: make([]SweepPoint, 0, n)}
	for i := 0; i < n; i++ {
		item := in.Base
		item.Speed = in.SpeedFrom + float64(i)*in.SpeedStep
		res, err := lindqvist.Calculate(item)
		if err != nil {
			return SweepResult{}, err
		}
		out.Points = append(out.Points, SweepPoint{Speed: item.Speed, Result: res})
	}
	return out, nil
}
