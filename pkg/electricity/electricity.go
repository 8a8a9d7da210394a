// Package electricity computes annual electrical energy use and cost from
// field measurements of electrical loads.
package electricity

import (
	"context"

	"github.com/ChicagoDave/auditcalc/pkg/batch"
	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/units"
)

// Method selects how the electrical load was measured.
type Method int

const (
	MethodMultimeter Method = iota
	MethodNameplate
	MethodPowerMeter
	MethodOther
)

func (m Method) String() string {
	switch m {
	case MethodMultimeter:
		return "multimeter"
	case MethodNameplate:
		return "nameplate"
	case MethodPowerMeter:
		return "power_meter"
	case MethodOther:
		return "other"
	}
	return "unknown"
}

// Measurement is one of Multimeter, Nameplate, PowerMeter or Other.
type Measurement interface {
	method() Method
}

// Multimeter is a clamp-on reading of supply voltage and current.
type Multimeter struct {
	Phases      int
	Voltage     float64 // V
	Current     float64 // A
	PowerFactor float64
}

// Nameplate derives motor power from rated data.
type Nameplate struct {
	RatedPower         float64 // hp
	VariableSpeed      bool
	OperatingFrequency float64 // Hz
	LineFrequency      float64 // Hz
	Efficiency         float64 // motor and drive efficiency, %
	LoadFactor         float64
}

// PowerMeter is a direct real-power reading per unit of equipment.
type PowerMeter struct {
	Power float64 // kW
}

// Other is an already-known annual consumption.
type Other struct {
	Energy float64 // kWh/yr
}

func (Multimeter) method() Method { return MethodMultimeter }
func (Nameplate) method() Method  { return MethodNameplate }
func (PowerMeter) method() Method { return MethodPowerMeter }
func (Other) method() Method      { return MethodOther }

// Entry is one audited electrical load.
type Entry struct {
	OperatingHours  float64 // h/yr
	ElectricityCost float64 // $/kWh
	Units           int     // identical pieces of equipment
	Measurement     Measurement
}

// Method reports which measurement method the entry uses.
func (e Entry) Method() Method {
	if e.Measurement == nil {
		return -1
	}
	return e.Measurement.method()
}

// Result is the annual use and cost of an entry or a batch.
type Result struct {
	EnergyUse  float64 `json:"energyUse" yaml:"energyUse"`   // kWh/yr
	EnergyCost float64 `json:"energyCost" yaml:"energyCost"` // $/yr
	Power      float64 `json:"power" yaml:"power"`           // kW
}

// Add returns the field-wise sum of r and o.
func (r Result) Add(o Result) Result {
	return Result{
		EnergyUse:  r.EnergyUse + o.EnergyUse,
		EnergyCost: r.EnergyCost + o.EnergyCost,
		Power:      r.Power + o.Power,
	}
}

// Calculate computes the annual energy use, cost and power draw of one entry.
func Calculate(c *units.Constants, e Entry) (Result, error) {
	var chk calc.Checker
	chk.Positive("operatingHours", e.OperatingHours)
	chk.NonNegative("electricityCost", e.ElectricityCost)
	chk.Count("units", e.Units)
	if err := chk.Err(); err != nil {
		return Result{}, err
	}

	power, err := loadPower(c, e)
	if err != nil {
		return Result{}, err
	}

	use := power * e.OperatingHours
	if o, ok := e.Measurement.(Other); ok {
		use = o.Energy
	}
	return Result{
		EnergyUse:  use,
		EnergyCost: use * e.ElectricityCost,
		Power:      power,
	}, nil
}

// loadPower returns the average electrical demand of the entry in kW.
func loadPower(c *units.Constants, e Entry) (float64, error) {
	var chk calc.Checker
	n := float64(e.Units)

	switch m := e.Measurement.(type) {
	case Multimeter:
		chk.Positive("multimeterData.supplyVoltage", m.Voltage)
		chk.NonNegative("multimeterData.averageCurrent", m.Current)
		chk.Fraction("multimeterData.powerFactor", m.PowerFactor)
		if err := chk.Err(); err != nil {
			return 0, err
		}
		phase, err := c.PhaseFactor(m.Phases)
		if err != nil {
			return 0, calc.Prefix("multimeterData", err)
		}
		return phase * m.Voltage * m.Current * m.PowerFactor / c.WattsPerKW * n, nil

	case Nameplate:
		chk.NonNegative("nameplateData.ratedMotorPower", m.RatedPower)
		chk.Percent("nameplateData.motorAndDriveEfficiency", m.Efficiency)
		chk.NonNegative("nameplateData.loadFactor", m.LoadFactor)
		if m.VariableSpeed {
			chk.NonNegative("nameplateData.operationalFrequency", m.OperatingFrequency)
			chk.Positive("nameplateData.lineFrequency", m.LineFrequency)
		}
		if err := chk.Err(); err != nil {
			return 0, err
		}
		kw := m.RatedPower * c.KWPerHP * m.LoadFactor / (m.Efficiency / 100)
		if m.VariableSpeed {
			kw *= m.OperatingFrequency / m.LineFrequency
		}
		return kw * n, nil

	case PowerMeter:
		chk.NonNegative("powerMeterData.power", m.Power)
		if err := chk.Err(); err != nil {
			return 0, err
		}
		return m.Power * n, nil

	case Other:
		chk.NonNegative("otherMethodData.energy", m.Energy)
		if err := chk.Err(); err != nil {
			return 0, err
		}
		return m.Energy / e.OperatingHours, nil
	}
	return 0, calc.Invalid("measurementMethod", e.Method(), "multimeter, nameplate, power meter or other")
}

// Batch sums the results of every entry.
func Batch(ctx context.Context, c *units.Constants, entries []Entry, opts batch.Options) (Result, []Result, error) {
	return batch.Run(ctx, entries, func(e Entry) (Result, error) {
		return Calculate(c, e)
	}, opts)
}
