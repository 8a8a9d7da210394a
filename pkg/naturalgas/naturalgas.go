// Package naturalgas computes annual natural-gas energy use and cost for
// gas-fired equipment.
package naturalgas

import (
	"context"
	"fmt"

	"github.com/ChicagoDave/auditcalc/pkg/batch"
	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/units"
)

// Method selects how the gas load was measured.
type Method int

const (
	MethodFlowMeter Method = iota
	MethodAirMassFlow
	MethodWaterMassFlow
	MethodOther
)

func (m Method) String() string {
	switch m {
	case MethodFlowMeter:
		return "flow_meter"
	case MethodAirMassFlow:
		return "air_mass_flow"
	case MethodWaterMassFlow:
		return "water_mass_flow"
	case MethodOther:
		return "other"
	}
	return "unknown"
}

// Measurement is one of FlowMeter, AirMassFlow, WaterMassFlow or Other.
type Measurement interface {
	method() Method
}

// FlowMeter is a gas meter reading.
type FlowMeter struct {
	FlowRate float64 // thousand scf/h
}

// AirMassFlow infers burner input from the air it heats, either from a duct
// traverse or from the fan's nameplate flow.
type AirMassFlow struct {
	IsNameplate       bool
	DuctArea          float64 // ft²
	AirVelocity       float64 // ft/min
	AirFlow           float64 // nameplate cfm
	InletTemperature  float64 // °F
	OutletTemperature float64 // °F
	SystemEfficiency  float64 // %
}

// WaterMassFlow infers burner input from the water it heats.
type WaterMassFlow struct {
	WaterFlow         float64 // gpm
	InletTemperature  float64 // °F
	OutletTemperature float64 // °F
	SystemEfficiency  float64 // %
}

// Other is an already-known annual consumption.
type Other struct {
	Consumption float64 // MMBtu/yr
}

func (FlowMeter) method() Method     { return MethodFlowMeter }
func (AirMassFlow) method() Method   { return MethodAirMassFlow }
func (WaterMassFlow) method() Method { return MethodWaterMassFlow }
func (Other) method() Method         { return MethodOther }

// Entry is one audited piece of gas-fired equipment.
type Entry struct {
	OperatingHours float64 // h/yr
	FuelCost       float64 // $/MMBtu
	Units          int
	Measurement    Measurement
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
	EnergyUse  float64 `json:"energyUse" yaml:"energyUse"`   // MMBtu/yr
	EnergyCost float64 `json:"energyCost" yaml:"energyCost"` // $/yr
	HeatFlow   float64 `json:"heatFlow" yaml:"heatFlow"`     // MMBtu/h
	TotalFlow  float64 `json:"totalFlow" yaml:"totalFlow"`   // thousand scf/h
}

// Add returns the field-wise sum of r and o.
func (r Result) Add(o Result) Result {
	return Result{
		EnergyUse:  r.EnergyUse + o.EnergyUse,
		EnergyCost: r.EnergyCost + o.EnergyCost,
		HeatFlow:   r.HeatFlow + o.HeatFlow,
		TotalFlow:  r.TotalFlow + o.TotalFlow,
	}
}

// Calculate computes the annual gas use and cost of one entry.
func Calculate(c *units.Constants, e Entry) (Result, error) {
	var chk calc.Checker
	chk.Positive("operatingHours", e.OperatingHours)
	chk.NonNegative("fuelCost", e.FuelCost)
	chk.Count("units", e.Units)
	if err := chk.Err(); err != nil {
		return Result{}, err
	}

	n := float64(e.Units)
	var heatFlow, totalFlow float64

	switch m := e.Measurement.(type) {
	case FlowMeter:
		chk.NonNegative("flowMeterMethodData.flowRate", m.FlowRate)
		if err := chk.Err(); err != nil {
			return Result{}, err
		}
		totalFlow = m.FlowRate * n
		heatFlow = totalFlow * c.GasHeatingValue

	case AirMassFlow:
		cfm, err := airFlow(m)
		if err != nil {
			return Result{}, err
		}
		dt, err := rise("airMassFlowData", m.InletTemperature, m.OutletTemperature)
		if err != nil {
			return Result{}, err
		}
		chk.Percent("airMassFlowData.systemEfficiency", m.SystemEfficiency)
		if err := chk.Err(); err != nil {
			return Result{}, err
		}
		heatFlow = c.AirHeatFactor * cfm * dt / c.BtuPerMMBtu / (m.SystemEfficiency / 100) * n
		totalFlow = heatFlow / c.GasHeatingValue

	case WaterMassFlow:
		chk.NonNegative("waterMassFlowData.waterFlow", m.WaterFlow)
		chk.Percent("waterMassFlowData.systemEfficiency", m.SystemEfficiency)
		if err := chk.Err(); err != nil {
			return Result{}, err
		}
		dt, err := rise("waterMassFlowData", m.InletTemperature, m.OutletTemperature)
		if err != nil {
			return Result{}, err
		}
		heatFlow = c.WaterHeatFactor * m.WaterFlow * dt / c.BtuPerMMBtu / (m.SystemEfficiency / 100) * n
		totalFlow = heatFlow / c.GasHeatingValue

	case Other:
		chk.NonNegative("otherMethodData.consumption", m.Consumption)
		if err := chk.Err(); err != nil {
			return Result{}, err
		}
		use := m.Consumption
		return Result{
			EnergyUse:  use,
			EnergyCost: use * e.FuelCost,
			HeatFlow:   use / e.OperatingHours,
			TotalFlow:  use / e.OperatingHours / c.GasHeatingValue,
		}, nil

	default:
		return Result{}, calc.Invalid("measurementMethod", e.Method(), "flow meter, air mass flow, water mass flow or other")
	}

	use := heatFlow * e.OperatingHours
	return Result{
		EnergyUse:  use,
		EnergyCost: use * e.FuelCost,
		HeatFlow:   heatFlow,
		TotalFlow:  totalFlow,
	}, nil
}

// airFlow returns the heated air volume flow in cfm.
func airFlow(m AirMassFlow) (float64, error) {
	var chk calc.Checker
	if m.IsNameplate {
		chk.NonNegative("airMassFlowData.airMassFlowNameplateData.airFlow", m.AirFlow)
		return m.AirFlow, chk.Err()
	}
	chk.NonNegative("airMassFlowData.airMassFlowMeasuredData.areaOfDuct", m.DuctArea)
	chk.NonNegative("airMassFlowData.airMassFlowMeasuredData.airVelocity", m.AirVelocity)
	return m.DuctArea * m.AirVelocity, chk.Err()
}

// rise returns the temperature rise across the heater.
func rise(payload string, inlet, outlet float64) (float64, error) {
	var chk calc.Checker
	chk.Finite(payload+".inletTemperature", inlet)
	chk.Finite(payload+".outletTemperature", outlet)
	if err := chk.Err(); err != nil {
		return 0, err
	}
	if outlet < inlet {
		return 0, calc.Invalid(payload+".outletTemperature", outlet, fmt.Sprintf(">= inletTemperature (%g)", inlet))
	}
	return outlet - inlet, nil
}

// Batch sums the results of every entry.
func Batch(ctx context.Context, c *units.Constants, entries []Entry, opts batch.Options) (Result, []Result, error) {
	return batch.Run(ctx, entries, func(e Entry) (Result, error) {
		return Calculate(c, e)
	}, opts)
}
