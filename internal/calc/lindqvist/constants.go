package lindqvist

// Constants is the material and environment parameter set used by the
// Lindqvist formulas. SI units throughout.
type Constants struct {
	G            float64 // gravitational acceleration, m/s^2
	RhoWater     float64 // seawater density, kg/m^3
	RhoIce       float64 // ice density, kg/m^3
	MuHull       float64 // hull-ice friction coefficient
	SigmaBending float64 // ice bending strength, Pa
}

// Default is the constant set the model was calibrated with.
var Default = Constants{
	G:            9.81,
	RhoWater:     1025.0,
	RhoIce:       920.0,
	MuHull:       0.3,
	SigmaBending: 500000.0,
}
