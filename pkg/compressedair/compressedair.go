// Package compressedair computes compressed-air flow, annual consumption and,
// for electrically driven compressors, energy use and cost.
package compressedair

import (
	"context"
	"math"

	"github.com/ChicagoDave/auditcalc/pkg/batch"
	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/units"
)

// Method selects how the air demand was measured.
type Method int

const (
	MethodFlowMeter Method = iota
	MethodBag
	MethodPressure
	MethodOther
)

func (m Method) String() string {
	switch m {
	case MethodFlowMeter:
		return "flow_meter"
	case MethodBag:
		return "bag"
	case MethodPressure:
		return "pressure"
	case MethodOther:
		return "other"
	}
	return "unknown"
}

// UtilityType says how the air is paid for.
type UtilityType int

const (
	// UtilityCompressedAir prices the air by volume.
	UtilityCompressedAir UtilityType = iota
	// UtilityElectricity prices the electricity the compressor draws.
	UtilityElectricity
)

// Measurement is one of FlowMeter, Bag, Pressure or Other.
type Measurement interface {
	method() Method
}

// FlowMeter is a direct flow reading.
type FlowMeter struct {
	MeterReading float64 // scfm
}

// Bag times how long a leak or open blow-off takes to fill a bag.
type Bag struct {
	Height   float64 // in
	Diameter float64 // in
	FillTime float64 // s
}

// Pressure estimates flow through open nozzles from the supply pressure.
type Pressure struct {
	NozzleType     int
	NozzleCount    int
	SupplyPressure float64 // psig
}

// Other is an already-known annual consumption.
type Other struct {
	Consumption float64 // scf/yr
}

func (FlowMeter) method() Method { return MethodFlowMeter }
func (Bag) method() Method       { return MethodBag }
func (Pressure) method() Method  { return MethodPressure }
func (Other) method() Method     { return MethodOther }

// Compressor describes the electrical efficiency of the compressor feeding the
// measured demand.
type Compressor struct {
	ControlAdjustment float64 // % of full-load specific power at the operating point
	SpecificPower     float64 // kW per cfm
}

// Entry is one audited air demand.
type Entry struct {
	HoursPerYear float64
	UtilityType  UtilityType
	UtilityCost  float64 // $/kWh for electricity, $/scf for air
	Units        int
	Measurement  Measurement
	Compressor   Compressor
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
	EnergyUse            float64 `json:"energyUse" yaml:"energyUse"`                       // kWh/yr
	EnergyCost           float64 `json:"energyCost" yaml:"energyCost"`                     // $/yr
	FlowRate             float64 `json:"flowRate" yaml:"flowRate"`                         // scfm
	SingleNozzleFlowRate float64 `json:"singleNozzleFlowRate" yaml:"singleNozzleFlowRate"` // scfm
	Consumption          float64 `json:"consumption" yaml:"consumption"`                   // scf/yr
}

// Add returns the field-wise sum of r and o.
func (r Result) Add(o Result) Result {
	return Result{
		EnergyUse:            r.EnergyUse + o.EnergyUse,
		EnergyCost:           r.EnergyCost + o.EnergyCost,
		FlowRate:             r.FlowRate + o.FlowRate,
		SingleNozzleFlowRate: r.SingleNozzleFlowRate + o.SingleNozzleFlowRate,
		Consumption:          r.Consumption + o.Consumption,
	}
}

// Calculate computes flow, consumption, energy use and cost of one entry.
func Calculate(c *units.Constants, e Entry) (Result, error) {
	var chk calc.Checker
	chk.Positive("hoursPerYear", e.HoursPerYear)
	chk.NonNegative("utilityCost", e.UtilityCost)
	chk.Count("units", e.Units)
	switch e.UtilityType {
	case UtilityCompressedAir:
	case UtilityElectricity:
		chk.NonNegative("compressorElectricityData.compressorControlAdjustment", e.Compressor.ControlAdjustment)
		chk.NonNegative("compressorElectricityData.compressorSpecificPower", e.Compressor.SpecificPower)
	default:
		return Result{}, calc.Invalid("utilityType", int(e.UtilityType), "0 (compressed air) or 1 (electricity)")
	}
	if err := chk.Err(); err != nil {
		return Result{}, err
	}

	var r Result
	n := float64(e.Units)

	switch m := e.Measurement.(type) {
	case FlowMeter:
		chk.NonNegative("flowMeterMethodData.meterReading", m.MeterReading)
		if err := chk.Err(); err != nil {
			return Result{}, err
		}
		r.FlowRate = m.MeterReading * n

	case Bag:
		chk.NonNegative("bagMethodData.height", m.Height)
		chk.NonNegative("bagMethodData.diameter", m.Diameter)
		chk.Positive("bagMethodData.fillTime", m.FillTime)
		if err := chk.Err(); err != nil {
			return Result{}, err
		}
		radius := m.Diameter / 2
		volume := math.Pi * radius * radius * m.Height / c.CubicInchesPerCubicFoot
		r.FlowRate = volume / m.FillTime * c.SecondsPerMinute * n

	case Pressure:
		chk.Count("pressureMethodData.numberOfNozzles", m.NozzleCount)
		chk.NonNegative("pressureMethodData.supplyPressure", m.SupplyPressure)
		if err := chk.Err(); err != nil {
			return Result{}, err
		}
		single, err := c.NozzleFlow(m.NozzleType, m.SupplyPressure)
		if err != nil {
			return Result{}, calc.Prefix("pressureMethodData", err)
		}
		r.SingleNozzleFlowRate = single
		r.FlowRate = single * float64(m.NozzleCount) * n

	case Other:
		chk.NonNegative("otherMethodData.consumption", m.Consumption)
		if err := chk.Err(); err != nil {
			return Result{}, err
		}
		r.Consumption = m.Consumption

	default:
		return Result{}, calc.Invalid("measurementMethod", e.Method(), "flow meter, bag, pressure or other")
	}

	if _, given := e.Measurement.(Other); !given {
		r.Consumption = r.FlowRate * c.MinutesPerHour * e.HoursPerYear
	}

	if e.UtilityType == UtilityElectricity {
		r.EnergyUse = r.Consumption / c.MinutesPerHour *
			e.Compressor.SpecificPower * e.Compressor.ControlAdjustment / 100
		r.EnergyCost = r.EnergyUse * e.UtilityCost
	} else {
		r.EnergyCost = r.Consumption * e.UtilityCost
	}
	return r, nil
}

// Batch sums the results of every entry.
func Batch(ctx context.Context, c *units.Constants, entries []Entry, opts batch.Options) (Result, []Result, error) {
	return batch.Run(ctx, entries, func(e Entry) (Result, error) {
		return Calculate(c, e)
	}, opts)
}
