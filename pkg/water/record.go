package water

import "github.com/ChicagoDave/auditcalc/pkg/calc"

// Record is the document form of an entry.
type Record struct {
	HoursPerYear          float64                `yaml:"hoursPerYear" json:"hoursPerYear"`
	WaterCost             float64                `yaml:"waterCost" json:"waterCost"`
	MeasurementMethod     Method                 `yaml:"measurementMethod" json:"measurementMethod"`
	MeteredFlowMethodData *MeteredFlowMethodData `yaml:"meteredFlowMethodData,omitempty" json:"meteredFlowMethodData,omitempty"`
	VolumeMeterMethodData *VolumeMeterMethodData `yaml:"volumeMeterMethodData,omitempty" json:"volumeMeterMethodData,omitempty"`
	BucketMethodData      *BucketMethodData      `yaml:"bucketMethodData,omitempty" json:"bucketMethodData,omitempty"`
	OtherMethodData       *OtherMethodData       `yaml:"otherMethodData,omitempty" json:"otherMethodData,omitempty"`
}

type MeteredFlowMethodData struct {
	MeterReading float64 `yaml:"meterReading" json:"meterReading"`
}

type VolumeMeterMethodData struct {
	InitialMeterReading float64 `yaml:"initialMeterReading" json:"initialMeterReading"`
	FinalMeterReading   float64 `yaml:"finalMeterReading" json:"finalMeterReading"`
	ElapsedTime         float64 `yaml:"elapsedTime" json:"elapsedTime"`
}

type BucketMethodData struct {
	BucketVolume   float64 `yaml:"bucketVolume" json:"bucketVolume"`
	BucketFillTime float64 `yaml:"bucketFillTime" json:"bucketFillTime"`
}

type OtherMethodData struct {
	Consumption float64 `yaml:"consumption" json:"consumption"`
}

// Entry converts the record into a typed entry using the payload named by
// measurementMethod.
func (r Record) Entry() (Entry, error) {
	e := Entry{HoursPerYear: r.HoursPerYear, WaterCost: r.WaterCost}
	var chk calc.Checker
	switch r.MeasurementMethod {
	case MethodMeteredFlow:
		chk.Present("meteredFlowMethodData", r.MeteredFlowMethodData != nil)
		if d := r.MeteredFlowMethodData; d != nil {
			e.Measurement = MeteredFlow{MeterReading: d.MeterReading}
		}
	case MethodVolumeMeter:
		chk.Present("volumeMeterMethodData", r.VolumeMeterMethodData != nil)
		if d := r.VolumeMeterMethodData; d != nil {
			e.Measurement = VolumeMeter{
				InitialReading: d.InitialMeterReading,
				FinalReading:   d.FinalMeterReading,
				ElapsedTime:    d.ElapsedTime,
			}
		}
	case MethodBucket:
		chk.Present("bucketMethodData", r.BucketMethodData != nil)
		if d := r.BucketMethodData; d != nil {
			e.Measurement = Bucket{Volume: d.BucketVolume, FillTime: d.BucketFillTime}
		}
	case MethodOther:
		chk.Present("otherMethodData", r.OtherMethodData != nil)
		if d := r.OtherMethodData; d != nil {
			e.Measurement = Other{Consumption: d.Consumption}
		}
	default:
		return Entry{}, calc.Invalid("measurementMethod", int(r.MeasurementMethod), "0..3")
	}
	if err := chk.Err(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Entries converts records in order.
func Entries(records []Record) ([]Entry, error) {
	entries := make([]Entry, len(records))
	for i, r := range records {
		e, err := r.Entry()
		if err != nil {
			return nil, &calc.IndexError{Index: i, Err: err}
		}
		entries[i] = e
	}
	return entries, nil
}
