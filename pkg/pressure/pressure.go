// Package pressure estimates compressor energy for a change in system
// operating pressure.
package pressure

import (
	"context"
	"fmt"

	"github.com/ChicagoDave/auditcalc/pkg/batch"
	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/units"
)

// Entry is one compressor, either as operated today (baseline) or with a
// proposed discharge pressure (modification).
type Entry struct {
	IsBaseline       bool     `yaml:"isBaseline" json:"isBaseline"`
	HoursPerYear     float64  `yaml:"hoursPerYear" json:"hoursPerYear"`
	ElectricityCost  float64  `yaml:"electricityCost" json:"electricityCost"`   // $/kWh
	CompressorPower  float64  `yaml:"compressorPower" json:"compressorPower"`   // kW
	Pressure         float64  `yaml:"pressure" json:"pressure"`                 // psig
	ProposedPressure *float64 `yaml:"proposedPressure" json:"proposedPressure"` // psig
}

// Kind labels the formula path an entry takes.
func (e Entry) Kind() string {
	if e.IsBaseline {
		return "baseline"
	}
	return "modification"
}

// Result is the annual energy use and cost of an entry or a batch.
type Result struct {
	EnergyUse  float64 `json:"energyUse" yaml:"energyUse"`   // kWh/yr
	EnergyCost float64 `json:"energyCost" yaml:"energyCost"` // $/yr
}

// Add returns the field-wise sum of r and o.
func (r Result) Add(o Result) Result {
	return Result{
		EnergyUse:  r.EnergyUse + o.EnergyUse,
		EnergyCost: r.EnergyCost + o.EnergyCost,
	}
}

// Calculate computes the annual compressor energy of one entry. Baseline
// entries run at their rated power whatever proposed pressure they carry;
// modification entries are derated by a fixed fraction per psi of reduction.
func Calculate(c *units.Constants, e Entry) (Result, error) {
	var chk calc.Checker
	chk.Positive("hoursPerYear", e.HoursPerYear)
	chk.NonNegative("electricityCost", e.ElectricityCost)
	chk.NonNegative("compressorPower", e.CompressorPower)
	chk.NonNegative("pressure", e.Pressure)
	if !e.IsBaseline {
		chk.Present("proposedPressure", e.ProposedPressure != nil)
	}
	if e.ProposedPressure != nil {
		chk.NonNegative("proposedPressure", *e.ProposedPressure)
	}
	if err := chk.Err(); err != nil {
		return Result{}, err
	}

	power := e.CompressorPower
	if !e.IsBaseline {
		factor := 1 - c.PressureDerate*(e.Pressure-*e.ProposedPressure)
		if factor < 0 {
			return Result{}, calc.Invalid("proposedPressure", *e.ProposedPressure,
				fmt.Sprintf("within %g psi of pressure", 1/c.PressureDerate))
		}
		power *= factor
	}

	use := power * e.HoursPerYear
	return Result{EnergyUse: use, EnergyCost: use * e.ElectricityCost}, nil
}

// Batch sums every entry, baseline and modification alike.
func Batch(ctx context.Context, c *units.Constants, entries []Entry, opts batch.Options) (Result, []Result, error) {
	return batch.Run(ctx, entries, func(e Entry) (Result, error) {
		return Calculate(c, e)
	}, opts)
}

// Savings returns the baseline total minus the modification total.
func Savings(baseline, modification Result) Result {
	return Result{
		EnergyUse:  baseline.EnergyUse - modification.EnergyUse,
		EnergyCost: baseline.EnergyCost - modification.EnergyCost,
	}
}
