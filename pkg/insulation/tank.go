package insulation

import (
	"math"

	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/units"
)

// TankSpec describes a vertical cylindrical tank standing in still air.
// Zero or negative insulation thickness means the tank is bare.
type TankSpec struct {
	OperatingHours         float64 `yaml:"operatingHours" json:"operatingHours"`
	Height                 float64 `yaml:"tankHeight" json:"tankHeight"`             // m
	Diameter               float64 `yaml:"tankDiameter" json:"tankDiameter"`         // outer, m
	WallThickness          float64 `yaml:"tankThickness" json:"tankThickness"`       // m
	TankEmissivity         float64 `yaml:"tankEmissivity" json:"tankEmissivity"`
	TankConductivity       float64 `yaml:"tankConductivity" json:"tankConductivity"` // W/m·K
	TankTemperature        float64 `yaml:"tankTemperature" json:"tankTemperature"`   // K
	AmbientTemperature     float64 `yaml:"ambientTemperature" json:"ambientTemperature"`
	SystemEfficiency       float64 `yaml:"systemEfficiency" json:"systemEfficiency"`
	InsulationThickness    float64 `yaml:"insulationThickness" json:"insulationThickness"`
	InsulationConductivity float64 `yaml:"insulationConductivity" json:"insulationConductivity"`
	JacketEmissivity       float64 `yaml:"jacketEmissivity" json:"jacketEmissivity"`
}

// Insulated reports whether the tank carries insulation.
func (t TankSpec) Insulated() bool { return t.InsulationThickness > 0 }

// TankHeatLoss is the solved heat loss of a tank through its side wall, top
// and bottom.
type TankHeatLoss struct {
	HeatLoss       float64 `json:"heatLoss" yaml:"heatLoss"`             // W
	AnnualHeatLoss float64 `json:"annualHeatLoss" yaml:"annualHeatLoss"` // Wh/yr
	Side           float64 `json:"side" yaml:"side"`                     // W
	Top            float64 `json:"top" yaml:"top"`                       // W
	Bottom         float64 `json:"bottom" yaml:"bottom"`                 // W
	Iterations     int     `json:"iterations" yaml:"iterations"`
}

// Validate checks the tank without solving it.
func (t TankSpec) Validate(c *units.Constants) error {
	var chk calc.Checker
	chk.Positive("operatingHours", t.OperatingHours)
	chk.Positive("tankHeight", t.Height)
	chk.Positive("tankDiameter", t.Diameter)
	chk.Positive("tankThickness", t.WallThickness)
	chk.Fraction("tankEmissivity", t.TankEmissivity)
	chk.Positive("tankConductivity", t.TankConductivity)
	chk.Positive("tankTemperature", t.TankTemperature)
	chk.Positive("ambientTemperature", t.AmbientTemperature)
	chk.Fraction("systemEfficiency", t.SystemEfficiency)
	chk.Finite("insulationThickness", t.InsulationThickness)
	if t.Insulated() {
		chk.Positive("insulationConductivity", t.InsulationConductivity)
		chk.Fraction("jacketEmissivity", t.JacketEmissivity)
	}
	if err := chk.Err(); err != nil {
		return err
	}
	if t.WallThickness*2 >= t.Diameter {
		return calc.Invalid("tankThickness", t.WallThickness, "less than half of tankDiameter")
	}
	return checkAmbient(c, t.AmbientTemperature, t.TankTemperature)
}

// Tank solves the three faces of a tank independently, each by fixed-point
// iteration on its surface temperature, and sums their losses.
func Tank(c *units.Constants, t TankSpec, opts Options) (TankHeatLoss, error) {
	if err := opts.validate(); err != nil {
		return TankHeatLoss{}, err
	}
	if err := t.Validate(c); err != nil {
		return TankHeatLoss{}, err
	}

	outer := t.Diameter
	inner := t.Diameter - 2*t.WallThickness
	surf := outer
	air := surface{c: c, ambient: t.AmbientTemperature, emissivity: t.TankEmissivity}
	var ins float64
	if t.Insulated() {
		ins = t.InsulationThickness
		surf = outer + 2*ins
		air.emissivity = t.JacketEmissivity
	}

	// Conduction resistances, K/W.
	sideR := math.Log(outer/inner) / (2 * math.Pi * t.TankConductivity * t.Height)
	disc := math.Pi * outer * outer / 4
	endR := t.WallThickness / (t.TankConductivity * disc)
	if t.Insulated() {
		sideR += math.Log(surf/outer) / (2 * math.Pi * t.InsulationConductivity * t.Height)
		endR += ins / (t.InsulationConductivity * disc)
	}

	faces := []struct {
		resistance float64
		area       float64
		h          func(Ts float64) (float64, error)
	}{
		{sideR, math.Pi * surf * t.Height, func(Ts float64) (float64, error) {
			return air.wall(Ts, t.Height)
		}},
		{endR, math.Pi * surf * surf / 4, func(Ts float64) (float64, error) {
			return air.plate(Ts, surf, true)
		}},
		{endR, math.Pi * surf * surf / 4, func(Ts float64) (float64, error) {
			return air.plate(Ts, surf, false)
		}},
	}

	var out TankHeatLoss
	losses := make([]float64, len(faces))
	for i, f := range faces {
		q, n, err := solveFace(opts, t.TankTemperature, t.AmbientTemperature, f.resistance, f.area, f.h)
		if err != nil {
			return TankHeatLoss{}, err
		}
		losses[i] = q
		out.Iterations = max(out.Iterations, n)
	}
	out.Side, out.Top, out.Bottom = losses[0], losses[1], losses[2]
	out.HeatLoss = out.Side + out.Top + out.Bottom
	out.AnnualHeatLoss = out.HeatLoss * t.OperatingHours / t.SystemEfficiency
	return out, nil
}

// solveFace finds the heat flow through a conduction resistance in series
// with a surface film whose coefficient depends on surface temperature.
func solveFace(opts Options, hot, ambient, resistance, area float64, h func(float64) (float64, error)) (float64, int, error) {
	var q float64
	state := []float64{(hot + ambient) / 2}
	n, err := iterate(opts, state, func(x []float64) ([]float64, error) {
		coef, err := h(x[0])
		if err != nil {
			return nil, err
		}
		Rs := 1 / (coef * area)
		q = (hot - ambient) / (resistance + Rs)
		return []float64{ambient + q*Rs}, nil
	})
	return q, n, err
}
