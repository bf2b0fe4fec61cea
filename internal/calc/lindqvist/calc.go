package lindqvist

import (
	"errors"
	"fmt"
	"math"
)

var ErrNegativeInput = errors.New("input must be non-negative")

type Input struct {
	LengthM        float64 `json:"length_m"`
	BreadthM       float64 `json:"breadth_m"`
	DraftM         float64 `json:"draft_m"`
	Speed          float64 `json:"speed"`
	TrimDeg        float64 `json:"trim_deg"`
	KeelDeg        float64 `json:"keel_deg"`
	SideDeg        float64 `json:"side_deg"`
	IceThicknessCM float64 `json:"ice_thickness_cm"`
}

type Result struct {
	CrushingN   float64 `json:"rc_n"`
	BendingN    float64 `json:"rb_n"`
	SubmersionN float64 `json:"rs_n"`
	TotalN      float64 `json:"total_n"`
	TotalKN     float64 `json:"total_kn"`
	NoIce       bool    `json:"no_ice"`
	Notes       string  `json:"notes"`
}

func rad(deg float64) float64 { return deg * (math.Pi / 180.0) }

// Components returns the crushing, bending and submersion resistance (N) for
// the given hull geometry (m), angles (deg) and ice thickness (m). Degenerate
// angle combinations yield NaN or Inf, never an error.
func (c Constants) Components(L, B, T, phi, psi, alpha, hIce float64) (rc, rb, rs float64) {
	sinPhi, cosPhi, tanPhi := math.Sin(rad(phi)), math.Cos(rad(phi)), math.Tan(rad(phi))
	cosPsi, tanPsi := math.Cos(rad(psi)), math.Tan(rad(psi))
	sinAlpha, tanAlpha := math.Sin(rad(alpha)), math.Tan(rad(alpha))
	mu := c.MuHull

	rc = 0.5 * c.SigmaBending * hIce * hIce *
		(tanPhi + mu*cosPhi/cosPsi) /
		(1.0 - mu*sinPhi/cosPsi)

	rb = 0.003 * c.SigmaBending * B * math.Pow(hIce, 1.5) *
		(tanPsi + mu*cosPhi/(sinAlpha*cosPsi)*(1.0+1.0/cosPsi))

	rs = (c.RhoWater - c.RhoIce) * c.G * hIce * B *
		(T*(B+T)/(B+2.0*T) +
			mu*(0.7*L-T/tanPhi-
				B/(4.0*tanAlpha+T*cosPhi*cosPsi*(1.0/(sinPhi*sinPhi)+1.0/(tanAlpha*tanAlpha)))))

	return rc, rb, rs
}

// Total applies the speed corrections to the components. hIce and L must be
// positive for a finite result.
func (c Constants) Total(rc, rb, rs, L, v, hIce float64) float64 {
	return (rc+rb)*(1.0+1.4*v/math.Sqrt(c.G*hIce)) + rs*(1.0+9.4*v/math.Sqrt(c.G*L))
}

func Components(L, B, T, phi, psi, alpha, hIce float64) (rc, rb, rs float64) {
	return Default.Components(L, B, T, phi, psi, alpha, hIce)
}

func Total(rc, rb, rs, L, v, hIce float64) float64 {
	return Default.Total(rc, rb, rs, L, v, hIce)
}

// Calculate runs the full pipeline with the default constants. Ice thickness
// is taken in centimeters; exactly zero ice means zero resistance.
func Calculate(in Input) (Result, error) {
	return Default.Calculate(in)
}

func (c Constants) Calculate(in Input) (Result, error) {
	fields := []struct {
		name  string
		value float64
	}{
		{"length_m", in.LengthM},
		{"breadth_m", in.BreadthM},
		{"draft_m", in.DraftM},
		{"speed", in.Speed},
		{"trim_deg", in.TrimDeg},
		{"keel_deg", in.KeelDeg},
		{"side_deg", in.SideDeg},
		{"ice_thickness_cm", in.IceThicknessCM},
	}
	for _, f := range fields {
		if f.value < 0 || math.IsNaN(f.value) {
			return Result{}, fmt.Errorf("%s: %w", f.name, ErrNegativeInput)
		}
	}

	hIce := in.IceThicknessCM / 100.0
	if hIce == 0 {
		return Result{NoIce: true, Notes: "No ice, no ice resistance."}, nil
	}

	rc, rb, rs := c.Components(in.LengthM, in.BreadthM, in.DraftM, in.TrimDeg, in.KeelDeg, in.SideDeg, hIce)
	total := c.Total(rc, rb, rs, in.LengthM, in.Speed, hIce)
	return Result{
		CrushingN:   rc,
		BendingN:    rb,
		SubmersionN: rs,
		TotalN:      total,
		TotalKN:     total / 1000.0,
		Notes:       "Lindqvist level ice resistance.",
	}, nil
}

// IsFinite reports whether every force in r is a finite number.
func (r Result) IsFinite() bool {
	for _, v := range []float64{r.CrushingN, r.BendingN, r.SubmersionN, r.TotalN} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FormatKN renders the result the way the interactive calculator prints it.
func FormatKN(r Result) string {
	if r.NoIce {
		return "Ice resistance: 0 kN"
	}
	return fmt.Sprintf("Ice resistance: %.2f kN", r.TotalKN)
}
