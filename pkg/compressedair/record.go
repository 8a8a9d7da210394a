package compressedair

import "github.com/ChicagoDave/auditcalc/pkg/calc"

// Record is the document form of an entry.
type Record struct {
	HoursPerYear              float64                    `yaml:"hoursPerYear" json:"hoursPerYear"`
	UtilityType               UtilityType                `yaml:"utilityType" json:"utilityType"`
	UtilityCost               float64                    `yaml:"utilityCost" json:"utilityCost"`
	MeasurementMethod         Method                     `yaml:"measurementMethod" json:"measurementMethod"`
	FlowMeterMethodData       *FlowMeterMethodData       `yaml:"flowMeterMethodData,omitempty" json:"flowMeterMethodData,omitempty"`
	BagMethodData             *BagMethodData             `yaml:"bagMethodData,omitempty" json:"bagMethodData,omitempty"`
	PressureMethodData        *PressureMethodData        `yaml:"pressureMethodData,omitempty" json:"pressureMethodData,omitempty"`
	OtherMethodData           *OtherMethodData           `yaml:"otherMethodData,omitempty" json:"otherMethodData,omitempty"`
	CompressorElectricityData *CompressorElectricityData `yaml:"compressorElectricityData,omitempty" json:"compressorElectricityData,omitempty"`
	Units                     int                        `yaml:"units" json:"units"`
}

type FlowMeterMethodData struct {
	MeterReading float64 `yaml:"meterReading" json:"meterReading"`
}

type BagMethodData struct {
	Height   float64 `yaml:"height" json:"height"`
	Diameter float64 `yaml:"diameter" json:"diameter"`
	FillTime float64 `yaml:"fillTime" json:"fillTime"`
}

type PressureMethodData struct {
	NozzleType      int     `yaml:"nozzleType" json:"nozzleType"`
	NumberOfNozzles int     `yaml:"numberOfNozzles" json:"numberOfNozzles"`
	SupplyPressure  float64 `yaml:"supplyPressure" json:"supplyPressure"`
}

type OtherMethodData struct {
	Consumption float64 `yaml:"consumption" json:"consumption"`
}

type CompressorElectricityData struct {
	CompressorControlAdjustment float64 `yaml:"compressorControlAdjustment" json:"compressorControlAdjustment"`
	CompressorSpecificPower     float64 `yaml:"compressorSpecificPower" json:"compressorSpecificPower"`
}

// Entry converts the record into a typed entry. Compressor data is only
// required when the utility type is electricity.
func (r Record) Entry() (Entry, error) {
	e := Entry{
		HoursPerYear: r.HoursPerYear,
		UtilityType:  r.UtilityType,
		UtilityCost:  r.UtilityCost,
		Units:        r.Units,
	}
	var chk calc.Checker
	switch r.MeasurementMethod {
	case MethodFlowMeter:
		chk.Present("flowMeterMethodData", r.FlowMeterMethodData != nil)
		if d := r.FlowMeterMethodData; d != nil {
			e.Measurement = FlowMeter{MeterReading: d.MeterReading}
		}
	case MethodBag:
		chk.Present("bagMethodData", r.BagMethodData != nil)
		if d := r.BagMethodData; d != nil {
			e.Measurement = Bag{Height: d.Height, Diameter: d.Diameter, FillTime: d.FillTime}
		}
	case MethodPressure:
		chk.Present("pressureMethodData", r.PressureMethodData != nil)
		if d := r.PressureMethodData; d != nil {
			e.Measurement = Pressure{
				NozzleType:     d.NozzleType,
				NozzleCount:    d.NumberOfNozzles,
				SupplyPressure: d.SupplyPressure,
			}
		}
	case MethodOther:
		chk.Present("otherMethodData", r.OtherMethodData != nil)
		if d := r.OtherMethodData; d != nil {
			e.Measurement = Other{Consumption: d.Consumption}
		}
	default:
		return Entry{}, calc.Invalid("measurementMethod", int(r.MeasurementMethod), "0..3")
	}
	if r.UtilityType == UtilityElectricity {
		chk.Present("compressorElectricityData", r.CompressorElectricityData != nil)
	}
	if d := r.CompressorElectricityData; d != nil {
		e.Compressor = Compressor{
			ControlAdjustment: d.CompressorControlAdjustment,
			SpecificPower:     d.CompressorSpecificPower,
		}
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
