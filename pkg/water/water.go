// Package water computes annual water use and cost from field measurements.
package water

import (
	"context"

	"github.com/ChicagoDave/auditcalc/pkg/batch"
	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/units"
)

// Method selects how the water draw was measured.
type Method int

const (
	MethodMeteredFlow Method = iota
	MethodVolumeMeter
	MethodBucket
	MethodOther
)

func (m Method) String() string {
	switch m {
	case MethodMeteredFlow:
		return "metered_flow"
	case MethodVolumeMeter:
		return "volume_meter"
	case MethodBucket:
		return "bucket"
	case MethodOther:
		return "other"
	}
	return "unknown"
}

// Measurement is one of MeteredFlow, VolumeMeter, Bucket or Other.
type Measurement interface {
	method() Method
}

// MeteredFlow is a flow meter reading.
type MeteredFlow struct {
	MeterReading float64 // gal/min
}

// VolumeMeter is two totalizer readings taken some minutes apart.
type VolumeMeter struct {
	InitialReading float64 // gal
	FinalReading   float64 // gal
	ElapsedTime    float64 // min
}

// Bucket times how long an open draw takes to fill a container.
type Bucket struct {
	Volume   float64 // gal
	FillTime float64 // s
}

// Other is an already-known annual consumption.
type Other struct {
	Consumption float64 // gal/yr
}

func (MeteredFlow) method() Method { return MethodMeteredFlow }
func (VolumeMeter) method() Method { return MethodVolumeMeter }
func (Bucket) method() Method      { return MethodBucket }
func (Other) method() Method       { return MethodOther }

// Entry is one audited water draw.
type Entry struct {
	HoursPerYear float64
	WaterCost    float64 // $/gal
	Measurement  Measurement
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
	WaterUse  float64 `json:"waterUse" yaml:"waterUse"`   // gal/yr
	WaterCost float64 `json:"waterCost" yaml:"waterCost"` // $/yr
}

// Add returns the field-wise sum of r and o.
func (r Result) Add(o Result) Result {
	return Result{
		WaterUse:  r.WaterUse + o.WaterUse,
		WaterCost: r.WaterCost + o.WaterCost,
	}
}

// Calculate computes the annual water use and cost of one entry.
func Calculate(c *units.Constants, e Entry) (Result, error) {
	var chk calc.Checker
	chk.Positive("hoursPerYear", e.HoursPerYear)
	chk.NonNegative("waterCost", e.WaterCost)
	if err := chk.Err(); err != nil {
		return Result{}, err
	}

	var use float64
	switch m := e.Measurement.(type) {
	case MeteredFlow:
		chk.NonNegative("meteredFlowMethodData.meterReading", m.MeterReading)
		if err := chk.Err(); err != nil {
			return Result{}, err
		}
		use = annual(c, m.MeterReading, e.HoursPerYear)

	case VolumeMeter:
		chk.NonNegative("volumeMeterMethodData.initialMeterReading", m.InitialReading)
		chk.NonNegative("volumeMeterMethodData.finalMeterReading", m.FinalReading)
		chk.Positive("volumeMeterMethodData.elapsedTime", m.ElapsedTime)
		if err := chk.Err(); err != nil {
			return Result{}, err
		}
		if m.FinalReading < m.InitialReading {
			return Result{}, calc.Invalid("volumeMeterMethodData.finalMeterReading",
				m.FinalReading, ">= initialMeterReading")
		}
		flow := (m.FinalReading - m.InitialReading) / m.ElapsedTime
		use = annual(c, flow, e.HoursPerYear)

	case Bucket:
		chk.NonNegative("bucketMethodData.bucketVolume", m.Volume)
		chk.Positive("bucketMethodData.bucketFillTime", m.FillTime)
		if err := chk.Err(); err != nil {
			return Result{}, err
		}
		flow := m.Volume / (m.FillTime / c.SecondsPerMinute)
		use = annual(c, flow, e.HoursPerYear)

	case Other:
		chk.NonNegative("otherMethodData.consumption", m.Consumption)
		if err := chk.Err(); err != nil {
			return Result{}, err
		}
		use = m.Consumption

	default:
		return Result{}, calc.Invalid("measurementMethod", e.Method(), "metered flow, volume meter, bucket or other")
	}

	return Result{WaterUse: use, WaterCost: use * e.WaterCost}, nil
}

// annual turns a per-minute flow into annual volume.
func annual(c *units.Constants, perMinute, hours float64) float64 {
	return perMinute * c.MinutesPerHour * hours
}

// Batch sums the results of every entry.
func Batch(ctx context.Context, c *units.Constants, entries []Entry, opts batch.Options) (Result, []Result, error) {
	return batch.Run(ctx, entries, func(e Entry) (Result, error) {
		return Calculate(c, e)
	}, opts)
}
