package units

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/auditcalc/pkg/calc"
)

// Constants is the lookup table every calculator reads its physical constants
// and conversion factors from. A Constants value is never mutated by the
// calculators and may be shared between goroutines.
type Constants struct {
	KWPerHP                 float64 `yaml:"kw_per_hp" env:"AUDITCALC_KW_PER_HP" env-default:"0.746"`
	WattsPerKW              float64 `yaml:"watts_per_kw" env:"AUDITCALC_WATTS_PER_KW" env-default:"1000"`
	MinutesPerHour          float64 `yaml:"minutes_per_hour" env:"AUDITCALC_MINUTES_PER_HOUR" env-default:"60"`
	SecondsPerMinute        float64 `yaml:"seconds_per_minute" env:"AUDITCALC_SECONDS_PER_MINUTE" env-default:"60"`
	CubicInchesPerCubicFoot float64 `yaml:"cubic_inches_per_cubic_foot" env:"AUDITCALC_CUBIC_INCHES_PER_CUBIC_FOOT" env-default:"1728"`
	GasHeatingValue         float64 `yaml:"gas_heating_value" env:"AUDITCALC_GAS_HEATING_VALUE" env-default:"1.03"`
	AirHeatFactor           float64 `yaml:"air_heat_factor" env:"AUDITCALC_AIR_HEAT_FACTOR" env-default:"1.08"`
	WaterHeatFactor         float64 `yaml:"water_heat_factor" env:"AUDITCALC_WATER_HEAT_FACTOR" env-default:"500"`
	BtuPerMMBtu             float64 `yaml:"btu_per_mmbtu" env:"AUDITCALC_BTU_PER_MMBTU" env-default:"1000000"`
	AtmosphericPressure     float64 `yaml:"atmospheric_pressure" env:"AUDITCALC_ATMOSPHERIC_PRESSURE" env-default:"14.7"`
	NozzleFlowConstant      float64 `yaml:"nozzle_flow_constant" env:"AUDITCALC_NOZZLE_FLOW_CONSTANT" env-default:"4.8077935374868"`
	PressureDerate          float64 `yaml:"pressure_derate" env:"AUDITCALC_PRESSURE_DERATE" env-default:"0.005"`
	StefanBoltzmann         float64 `yaml:"stefan_boltzmann" env:"AUDITCALC_STEFAN_BOLTZMANN" env-default:"5.6703e-8"`
	Gravity                 float64 `yaml:"gravity" env:"AUDITCALC_GRAVITY" env-default:"9.81"`
	MixedConvectionExponent float64 `yaml:"mixed_convection_exponent" env:"AUDITCALC_MIXED_CONVECTION_EXPONENT" env-default:"3.55447"`

	// Air holds dry-air transport properties at 1 atm.
	Air *AirTable `yaml:"-"`
}

// Reference values. Kept in sync with the env-default tags above.
const (
	KWPerHP                 = 0.746           // kW per horsepower
	WattsPerKW              = 1000.0          // W/kW
	MinutesPerHour          = 60.0            // min/h
	SecondsPerMinute        = 60.0            // s/min
	CubicInchesPerCubicFoot = 1728.0          // in³/ft³
	GasHeatingValue         = 1.03            // MMBtu per thousand scf of natural gas
	AirHeatFactor           = 1.08            // Btu/h per cfm·°F (standard air)
	WaterHeatFactor         = 500.0           // Btu/h per gpm·°F
	BtuPerMMBtu             = 1e6             // Btu/MMBtu
	AtmosphericPressure     = 14.7            // psia
	NozzleFlowConstant      = 4.8077935374868 // scfm per in² (orifice diameter squared) per psia
	PressureDerate          = 0.005           // compressor power fraction saved per psi
	StefanBoltzmann         = 5.6703e-8       // W/m²·K⁴
	Gravity                 = 9.81            // m/s²
	MixedConvectionExponent = 3.55447         // forced/natural Nusselt blend
)

// Default returns the reference constant table.
func Default() *Constants {
	return &Constants{
		KWPerHP:                 KWPerHP,
		WattsPerKW:              WattsPerKW,
		MinutesPerHour:          MinutesPerHour,
		SecondsPerMinute:        SecondsPerMinute,
		CubicInchesPerCubicFoot: CubicInchesPerCubicFoot,
		GasHeatingValue:         GasHeatingValue,
		AirHeatFactor:           AirHeatFactor,
		WaterHeatFactor:         WaterHeatFactor,
		BtuPerMMBtu:             BtuPerMMBtu,
		AtmosphericPressure:     AtmosphericPressure,
		NozzleFlowConstant:      NozzleFlowConstant,
		PressureDerate:          PressureDerate,
		StefanBoltzmann:         StefanBoltzmann,
		Gravity:                 Gravity,
		MixedConvectionExponent: MixedConvectionExponent,
		Air:                     DefaultAirTable(),
	}
}

// Validate rejects tables that would make calculators divide by zero or
// produce non-finite results.
func (c *Constants) Validate() error {
	var chk calc.Checker
	chk.Positive("kw_per_hp", c.KWPerHP)
	chk.Positive("watts_per_kw", c.WattsPerKW)
	chk.Positive("minutes_per_hour", c.MinutesPerHour)
	chk.Positive("seconds_per_minute", c.SecondsPerMinute)
	chk.Positive("cubic_inches_per_cubic_foot", c.CubicInchesPerCubicFoot)
	chk.Positive("gas_heating_value", c.GasHeatingValue)
	chk.Positive("air_heat_factor", c.AirHeatFactor)
	chk.Positive("water_heat_factor", c.WaterHeatFactor)
	chk.Positive("btu_per_mmbtu", c.BtuPerMMBtu)
	chk.NonNegative("atmospheric_pressure", c.AtmosphericPressure)
	chk.Positive("nozzle_flow_constant", c.NozzleFlowConstant)
	chk.NonNegative("pressure_derate", c.PressureDerate)
	chk.Positive("stefan_boltzmann", c.StefanBoltzmann)
	chk.Positive("gravity", c.Gravity)
	chk.Positive("mixed_convection_exponent", c.MixedConvectionExponent)
	if err := chk.Err(); err != nil {
		return fmt.Errorf("constants: %w", err)
	}
	if c.Air == nil {
		return fmt.Errorf("constants: %w", calc.Invalid("air", nil, "air property table"))
	}
	return nil
}

// PhaseFactor resolves a supply phase count to its real-power multiplier.
func (c *Constants) PhaseFactor(phases int) (float64, error) {
	switch phases {
	case 1:
		return 1, nil
	case 3:
		return math.Sqrt(3), nil
	default:
		return 0, calc.Invalid("numberOfPhases", phases, "1 or 3")
	}
}

// Nozzle orifice diameters in inches, indexed by nozzle type.
var nozzleDiameters = [...]float64{
	1.0 / 16, // 0
	1.0 / 8,  // 1
	3.0 / 16, // 2
	1.0 / 4,  // 3
	5.0 / 16, // 4
	3.0 / 8,  // 5
}

// NozzleDiameter resolves a nozzle type to its orifice diameter in inches.
func (c *Constants) NozzleDiameter(nozzleType int) (float64, error) {
	if nozzleType < 0 || nozzleType >= len(nozzleDiameters) {
		return 0, calc.Invalid("nozzleType", nozzleType, fmt.Sprintf("0..%d", len(nozzleDiameters)-1))
	}
	return nozzleDiameters[nozzleType], nil
}

// NozzleTypes returns the number of known nozzle types.
func NozzleTypes() int { return len(nozzleDiameters) }

// NozzleFlow returns the free-air flow (scfm) through one open nozzle at the
// given gauge supply pressure (psig).
func (c *Constants) NozzleFlow(nozzleType int, supplyPressure float64) (float64, error) {
	d, err := c.NozzleDiameter(nozzleType)
	if err != nil {
		return 0, err
	}
	return c.NozzleFlowConstant * d * d * (supplyPressure + c.AtmosphericPressure), nil
}
