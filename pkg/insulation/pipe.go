// Package insulation estimates steady-state heat loss from bare and
// insulated pipes and tanks.
package insulation

import (
	"math"

	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/units"
)

// PipeSpec describes a horizontal run of pipe. A negative insulation
// thickness means the pipe is bare.
type PipeSpec struct {
	OperatingHours         float64   `yaml:"operatingHours" json:"operatingHours"`
	Length                 float64   `yaml:"pipeLength" json:"pipeLength"`                 // m
	Diameter               float64   `yaml:"pipeDiameter" json:"pipeDiameter"`             // outer, m
	WallThickness          float64   `yaml:"pipeThickness" json:"pipeThickness"`           // m
	PipeTemperature        float64   `yaml:"pipeTemperature" json:"pipeTemperature"`       // K
	AmbientTemperature     float64   `yaml:"ambientTemperature" json:"ambientTemperature"` // K
	WindVelocity           float64   `yaml:"windVelocity" json:"windVelocity"`             // m/s
	SystemEfficiency       float64   `yaml:"systemEfficiency" json:"systemEfficiency"`     // fraction
	InsulationThickness    float64   `yaml:"insulationThickness" json:"insulationThickness"`
	PipeEmissivity         float64   `yaml:"pipeEmissivity" json:"pipeEmissivity"`
	JacketEmissivity       float64   `yaml:"jacketEmissivity" json:"jacketEmissivity"`
	PipeConductivity       []float64 `yaml:"pipeMaterialCoefficients" json:"pipeMaterialCoefficients"`
	InsulationConductivity []float64 `yaml:"insulationMaterialCoefficients" json:"insulationMaterialCoefficients"`
}

// Insulated reports whether the pipe carries insulation.
func (p PipeSpec) Insulated() bool { return p.InsulationThickness >= 0 }

// HeatLoss is the solved heat loss of a pipe.
type HeatLoss struct {
	HeatLossPerLength  float64 `json:"heatLength" yaml:"heatLength"`         // W/m
	AnnualHeatLoss     float64 `json:"annualHeatLoss" yaml:"annualHeatLoss"` // Wh/yr
	SurfaceTemperature float64 `json:"surfaceTemperature" yaml:"surfaceTemperature"`
	Iterations         int     `json:"iterations" yaml:"iterations"`
}

// polynomialTerms is the number of conductivity coefficients, T⁴ down to T⁰.
const polynomialTerms = 5

// Validate checks the pipe without solving it.
func (p PipeSpec) Validate(c *units.Constants) error {
	var chk calc.Checker
	chk.Positive("operatingHours", p.OperatingHours)
	chk.Positive("pipeLength", p.Length)
	chk.Positive("pipeDiameter", p.Diameter)
	chk.Positive("pipeThickness", p.WallThickness)
	chk.Positive("pipeTemperature", p.PipeTemperature)
	chk.Positive("ambientTemperature", p.AmbientTemperature)
	chk.NonNegative("windVelocity", p.WindVelocity)
	chk.Fraction("systemEfficiency", p.SystemEfficiency)
	chk.Fraction("pipeEmissivity", p.PipeEmissivity)
	chk.Finite("insulationThickness", p.InsulationThickness)
	if p.Insulated() {
		chk.Fraction("jacketEmissivity", p.JacketEmissivity)
	}
	if err := chk.Err(); err != nil {
		return err
	}
	if p.WallThickness*2 >= p.Diameter {
		return calc.Invalid("pipeThickness", p.WallThickness, "less than half of pipeDiameter")
	}
	if err := checkAmbient(c, p.AmbientTemperature, p.PipeTemperature); err != nil {
		return err
	}
	if err := checkPolynomial("pipeMaterialCoefficients", p.PipeConductivity); err != nil {
		return err
	}
	if p.Insulated() {
		return checkPolynomial("insulationMaterialCoefficients", p.InsulationConductivity)
	}
	return nil
}

// checkAmbient requires both temperatures to lie inside the air table, which
// keeps every film temperature inside it too.
func checkAmbient(c *units.Constants, ambient, process float64) error {
	lo, hi := c.Air.Range()
	if ambient < lo || ambient > hi {
		return calc.Invalid("ambientTemperature", ambient, "within the air property table")
	}
	if process < lo || process > hi {
		return calc.Invalid("process temperature", process, "within the air property table")
	}
	return nil
}

func checkPolynomial(field string, coeffs []float64) error {
	if len(coeffs) != polynomialTerms {
		return calc.Invalid(field, len(coeffs), "5 coefficients")
	}
	var chk calc.Checker
	for _, v := range coeffs {
		chk.Finite(field, v)
	}
	return chk.Err()
}

// Pipe solves the steady heat loss of a pipe by fixed-point iteration on the
// outer surface temperature and, when insulated, the pipe-insulation
// interface temperature.
func Pipe(c *units.Constants, p PipeSpec, opts Options) (HeatLoss, error) {
	if err := opts.validate(); err != nil {
		return HeatLoss{}, err
	}
	if err := p.Validate(c); err != nil {
		return HeatLoss{}, err
	}

	Tp, Ta := p.PipeTemperature, p.AmbientTemperature
	outer := p.Diameter
	inner := p.Diameter - 2*p.WallThickness
	air := surface{c: c, ambient: Ta, wind: p.WindVelocity}

	var (
		q     float64 // W/m
		state []float64
		step  func([]float64) ([]float64, error)
	)

	wall := func(Tw float64) (float64, error) {
		k, err := conductivity("pipeMaterialCoefficients", p.PipeConductivity, (Tp+Tw)/2)
		if err != nil {
			return 0, err
		}
		return math.Log(outer/inner) / (2 * math.Pi * k), nil
	}

	if !p.Insulated() {
		air.emissivity = p.PipeEmissivity
		state = []float64{(Tp + Ta) / 2}
		step = func(x []float64) ([]float64, error) {
			Ts := x[0]
			Rw, err := wall(Ts)
			if err != nil {
				return nil, err
			}
			h, err := air.cylinder(Ts, outer)
			if err != nil {
				return nil, err
			}
			Rs := 1 / (h * math.Pi * outer)
			q = (Tp - Ta) / (Rw + Rs)
			return []float64{Ta + q*Rs}, nil
		}
	} else {
		jacket := outer + 2*p.InsulationThickness
		air.emissivity = p.JacketEmissivity
		state = []float64{(Tp + Ta) / 2, Tp}
		step = func(x []float64) ([]float64, error) {
			Ts, Ti := x[0], x[1]
			Rw, err := wall(Ti)
			if err != nil {
				return nil, err
			}
			ki, err := conductivity("insulationMaterialCoefficients", p.InsulationConductivity, (Ti+Ts)/2)
			if err != nil {
				return nil, err
			}
			Ri := math.Log(jacket/outer) / (2 * math.Pi * ki)
			h, err := air.cylinder(Ts, jacket)
			if err != nil {
				return nil, err
			}
			Rs := 1 / (h * math.Pi * jacket)
			q = (Tp - Ta) / (Rw + Ri + Rs)
			return []float64{Ta + q*Rs, Tp - q*Rw}, nil
		}
	}

	n, err := iterate(opts, state, step)
	if err != nil {
		return HeatLoss{}, err
	}
	return HeatLoss{
		HeatLossPerLength:  q,
		AnnualHeatLoss:     q * p.Length * p.OperatingHours / p.SystemEfficiency,
		SurfaceTemperature: state[0],
		Iterations:         n,
	}, nil
}
