package electricity

import "github.com/ChicagoDave/auditcalc/pkg/calc"

// Record is the document form of an entry. Every method payload may be
// present; MeasurementMethod selects the one that is used.
type Record struct {
	OperatingHours    float64          `yaml:"operatingHours" json:"operatingHours"`
	ElectricityCost   float64          `yaml:"electricityCost" json:"electricityCost"`
	MeasurementMethod Method           `yaml:"measurementMethod" json:"measurementMethod"`
	MultimeterData    *MultimeterData  `yaml:"multimeterData,omitempty" json:"multimeterData,omitempty"`
	NameplateData     *NameplateData   `yaml:"nameplateData,omitempty" json:"nameplateData,omitempty"`
	PowerMeterData    *PowerMeterData  `yaml:"powerMeterData,omitempty" json:"powerMeterData,omitempty"`
	OtherMethodData   *OtherMethodData `yaml:"otherMethodData,omitempty" json:"otherMethodData,omitempty"`
	Units             int              `yaml:"units" json:"units"`
}

type MultimeterData struct {
	NumberOfPhases int     `yaml:"numberOfPhases" json:"numberOfPhases"`
	SupplyVoltage  float64 `yaml:"supplyVoltage" json:"supplyVoltage"`
	AverageCurrent float64 `yaml:"averageCurrent" json:"averageCurrent"`
	PowerFactor    float64 `yaml:"powerFactor" json:"powerFactor"`
}

type NameplateData struct {
	RatedMotorPower         float64 `yaml:"ratedMotorPower" json:"ratedMotorPower"`
	VariableSpeedMotor      bool    `yaml:"variableSpeedMotor" json:"variableSpeedMotor"`
	OperationalFrequency    float64 `yaml:"operationalFrequency" json:"operationalFrequency"`
	LineFrequency           float64 `yaml:"lineFrequency" json:"lineFrequency"`
	MotorAndDriveEfficiency float64 `yaml:"motorAndDriveEfficiency" json:"motorAndDriveEfficiency"`
	LoadFactor              float64 `yaml:"loadFactor" json:"loadFactor"`
}

type PowerMeterData struct {
	Power float64 `yaml:"power" json:"power"`
}

type OtherMethodData struct {
	Energy float64 `yaml:"energy" json:"energy"`
}

// Entry converts the record into a typed entry carrying only the selected
// method's payload.
func (r Record) Entry() (Entry, error) {
	e := Entry{
		OperatingHours:  r.OperatingHours,
		ElectricityCost: r.ElectricityCost,
		Units:           r.Units,
	}
	var chk calc.Checker
	switch r.MeasurementMethod {
	case MethodMultimeter:
		chk.Present("multimeterData", r.MultimeterData != nil)
		if d := r.MultimeterData; d != nil {
			e.Measurement = Multimeter{
				Phases:      d.NumberOfPhases,
				Voltage:     d.SupplyVoltage,
				Current:     d.AverageCurrent,
				PowerFactor: d.PowerFactor,
			}
		}
	case MethodNameplate:
		chk.Present("nameplateData", r.NameplateData != nil)
		if d := r.NameplateData; d != nil {
			e.Measurement = Nameplate{
				RatedPower:         d.RatedMotorPower,
				VariableSpeed:      d.VariableSpeedMotor,
				OperatingFrequency: d.OperationalFrequency,
				LineFrequency:      d.LineFrequency,
				Efficiency:         d.MotorAndDriveEfficiency,
				LoadFactor:         d.LoadFactor,
			}
		}
	case MethodPowerMeter:
		chk.Present("powerMeterData", r.PowerMeterData != nil)
		if d := r.PowerMeterData; d != nil {
			e.Measurement = PowerMeter{Power: d.Power}
		}
	case MethodOther:
		chk.Present("otherMethodData", r.OtherMethodData != nil)
		if d := r.OtherMethodData; d != nil {
			e.Measurement = Other{Energy: d.Energy}
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
