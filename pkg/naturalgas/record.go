package naturalgas

import "github.com/ChicagoDave/auditcalc/pkg/calc"

// Record is the document form of an entry.
type Record struct {
	OperatingHours      float64              `yaml:"operatingHours" json:"operatingHours"`
	FuelCost            float64              `yaml:"fuelCost" json:"fuelCost"`
	MeasurementMethod   Method               `yaml:"measurementMethod" json:"measurementMethod"`
	FlowMeterMethodData *FlowMeterMethodData `yaml:"flowMeterMethodData,omitempty" json:"flowMeterMethodData,omitempty"`
	AirMassFlowData     *AirMassFlowData     `yaml:"airMassFlowData,omitempty" json:"airMassFlowData,omitempty"`
	WaterMassFlowData   *WaterMassFlowData   `yaml:"waterMassFlowData,omitempty" json:"waterMassFlowData,omitempty"`
	OtherMethodData     *OtherMethodData     `yaml:"otherMethodData,omitempty" json:"otherMethodData,omitempty"`
	Units               int                  `yaml:"units" json:"units"`
}

type FlowMeterMethodData struct {
	FlowRate float64 `yaml:"flowRate" json:"flowRate"`
}

type AirMassFlowData struct {
	IsNameplate              bool                      `yaml:"isNameplate" json:"isNameplate"`
	AirMassFlowMeasuredData  *AirMassFlowMeasuredData  `yaml:"airMassFlowMeasuredData,omitempty" json:"airMassFlowMeasuredData,omitempty"`
	AirMassFlowNameplateData *AirMassFlowNameplateData `yaml:"airMassFlowNameplateData,omitempty" json:"airMassFlowNameplateData,omitempty"`
	InletTemperature         float64                   `yaml:"inletTemperature" json:"inletTemperature"`
	OutletTemperature        float64                   `yaml:"outletTemperature" json:"outletTemperature"`
	SystemEfficiency         float64                   `yaml:"systemEfficiency" json:"systemEfficiency"`
}

type AirMassFlowMeasuredData struct {
	AreaOfDuct  float64 `yaml:"areaOfDuct" json:"areaOfDuct"`
	AirVelocity float64 `yaml:"airVelocity" json:"airVelocity"`
}

type AirMassFlowNameplateData struct {
	AirFlow float64 `yaml:"airFlow" json:"airFlow"`
}

type WaterMassFlowData struct {
	WaterFlow         float64 `yaml:"waterFlow" json:"waterFlow"`
	InletTemperature  float64 `yaml:"inletTemperature" json:"inletTemperature"`
	OutletTemperature float64 `yaml:"outletTemperature" json:"outletTemperature"`
	SystemEfficiency  float64 `yaml:"systemEfficiency" json:"systemEfficiency"`
}

type OtherMethodData struct {
	Consumption float64 `yaml:"consumption" json:"consumption"`
}

// Entry converts the record into a typed entry.
func (r Record) Entry() (Entry, error) {
	e := Entry{
		OperatingHours: r.OperatingHours,
		FuelCost:       r.FuelCost,
		Units:          r.Units,
	}
	var chk calc.Checker
	switch r.MeasurementMethod {
	case MethodFlowMeter:
		chk.Present("flowMeterMethodData", r.FlowMeterMethodData != nil)
		if d := r.FlowMeterMethodData; d != nil {
			e.Measurement = FlowMeter{FlowRate: d.FlowRate}
		}
	case MethodAirMassFlow:
		chk.Present("airMassFlowData", r.AirMassFlowData != nil)
		if d := r.AirMassFlowData; d != nil {
			m := AirMassFlow{
				IsNameplate:       d.IsNameplate,
				InletTemperature:  d.InletTemperature,
				OutletTemperature: d.OutletTemperature,
				SystemEfficiency:  d.SystemEfficiency,
			}
			if d.IsNameplate {
				chk.Present("airMassFlowData.airMassFlowNameplateData", d.AirMassFlowNameplateData != nil)
				if np := d.AirMassFlowNameplateData; np != nil {
					m.AirFlow = np.AirFlow
				}
			} else {
				chk.Present("airMassFlowData.airMassFlowMeasuredData", d.AirMassFlowMeasuredData != nil)
				if ms := d.AirMassFlowMeasuredData; ms != nil {
					m.DuctArea = ms.AreaOfDuct
					m.AirVelocity = ms.AirVelocity
				}
			}
			e.Measurement = m
		}
	case MethodWaterMassFlow:
		chk.Present("waterMassFlowData", r.WaterMassFlowData != nil)
		if d := r.WaterMassFlowData; d != nil {
			e.Measurement = WaterMassFlow{
				WaterFlow:         d.WaterFlow,
				InletTemperature:  d.InletTemperature,
				OutletTemperature: d.OutletTemperature,
				SystemEfficiency:  d.SystemEfficiency,
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
