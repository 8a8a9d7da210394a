package naturalgas

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChicagoDave/auditcalc/pkg/batch"
	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/units"
)

func fieldRecord(method Method) Record {
	return Record{
		OperatingHours:      8640,
		FuelCost:            0.12,
		MeasurementMethod:   method,
		FlowMeterMethodData: &FlowMeterMethodData{FlowRate: 5},
		OtherMethodData:     &OtherMethodData{Consumption: 30},
		AirMassFlowData: &AirMassFlowData{
			AirMassFlowMeasuredData:  &AirMassFlowMeasuredData{AreaOfDuct: 3, AirVelocity: 15},
			AirMassFlowNameplateData: &AirMassFlowNameplateData{AirFlow: 30},
			InletTemperature:         70,
			OutletTemperature:        800,
			SystemEfficiency:         80,
		},
		WaterMassFlowData: &WaterMassFlowData{
			WaterFlow:         10,
			InletTemperature:  70,
			OutletTemperature: 100,
			SystemEfficiency:  80,
		},
		Units: 2,
	}
}

func calculate(t *testing.T, r Record) Result {
	t.Helper()
	e, err := r.Entry()
	require.NoError(t, err)
	res, err := Calculate(units.Default(), e)
	require.NoError(t, err)
	return res
}

func TestFlowMeter(t *testing.T) {
	e, err := fieldRecord(MethodFlowMeter).Entry()
	require.NoError(t, err)
	total, _, err := Batch(context.Background(), units.Default(), []Entry{e}, batch.Options{})
	require.NoError(t, err)

	assert.InDelta(t, 88992.00, total.EnergyUse, 1e-6)
	assert.InDelta(t, 10679.04, total.EnergyCost, 1e-6)
	assert.InDelta(t, 10.3, total.HeatFlow, 1e-9)
	assert.InDelta(t, 10.0, total.TotalFlow, 1e-9)
}

func TestAirMassFlow(t *testing.T) {
	measured := calculate(t, fieldRecord(MethodAirMassFlow))
	// 1.08 × 45 cfm × 730 °F / 1e6 / 0.8, two burners.
	assert.InDelta(t, 0.088695, measured.HeatFlow, 1e-12)
	assert.InDelta(t, 766.3248, measured.EnergyUse, 1e-8)
	assert.InDelta(t, 91.958976, measured.EnergyCost, 1e-8)
	assert.InDelta(t, 0.088695/1.03, measured.TotalFlow, 1e-12)

	rec := fieldRecord(MethodAirMassFlow)
	rec.AirMassFlowData.IsNameplate = true
	nameplate := calculate(t, rec)
	assert.InDelta(t, 0.05913, nameplate.HeatFlow, 1e-12)
	assert.InDelta(t, 510.8832, nameplate.EnergyUse, 1e-8)
}

func TestWaterMassFlow(t *testing.T) {
	r := calculate(t, fieldRecord(MethodWaterMassFlow))
	assert.InDelta(t, 0.375, r.HeatFlow, 1e-12)
	assert.InDelta(t, 3240.0, r.EnergyUse, 1e-8)
	assert.InDelta(t, 388.8, r.EnergyCost, 1e-8)
}

func TestOtherIsNotMultipliedByUnits(t *testing.T) {
	r := calculate(t, fieldRecord(MethodOther))
	assert.Equal(t, 30.0, r.EnergyUse)
	assert.InDelta(t, 3.6, r.EnergyCost, 1e-12)
	assert.InDelta(t, 30.0/8640, r.HeatFlow, 1e-15)
}

func TestAdditivityAcrossMethods(t *testing.T) {
	c := units.Default()
	var entries []Entry
	var want Result
	for _, m := range []Method{MethodFlowMeter, MethodAirMassFlow, MethodWaterMassFlow, MethodOther} {
		e, err := fieldRecord(m).Entry()
		require.NoError(t, err)
		single, _, err := Batch(context.Background(), c, []Entry{e}, batch.Options{})
		require.NoError(t, err)
		want = want.Add(single)
		entries = append(entries, e)
	}
	got, each, err := Batch(context.Background(), c, entries, batch.Options{Workers: 2})
	require.NoError(t, err)
	assert.Len(t, each, 4)
	assert.InDelta(t, want.EnergyUse, got.EnergyUse, 1e-9)
	assert.InDelta(t, want.EnergyCost, got.EnergyCost, 1e-9)
	assert.InDelta(t, want.HeatFlow, got.HeatFlow, 1e-12)
	assert.InDelta(t, want.TotalFlow, got.TotalFlow, 1e-12)
}

func TestIrrelevantPayloadsIgnored(t *testing.T) {
	full := fieldRecord(MethodWaterMassFlow)
	full.FlowMeterMethodData.FlowRate = math.Inf(1)
	full.AirMassFlowData = nil
	only := Record{
		OperatingHours:    8640,
		FuelCost:          0.12,
		MeasurementMethod: MethodWaterMassFlow,
		WaterMassFlowData: fieldRecord(MethodWaterMassFlow).WaterMassFlowData,
		Units:             2,
	}
	assert.Equal(t, calculate(t, only), calculate(t, full))
}

func TestInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"unknown method", func(r *Record) { r.MeasurementMethod = -1 }},
		{"missing measured duct data", func(r *Record) {
			r.MeasurementMethod = MethodAirMassFlow
			r.AirMassFlowData.AirMassFlowMeasuredData = nil
		}},
		{"cooling across heater", func(r *Record) {
			r.MeasurementMethod = MethodWaterMassFlow
			r.WaterMassFlowData.OutletTemperature = 50
		}},
		{"zero efficiency", func(r *Record) {
			r.MeasurementMethod = MethodAirMassFlow
			r.AirMassFlowData.SystemEfficiency = 0
		}},
		{"negative flow", func(r *Record) { r.FlowMeterMethodData.FlowRate = -5 }},
		{"zero units", func(r *Record) { r.Units = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fieldRecord(MethodFlowMeter)
			tt.mutate(&rec)
			e, err := rec.Entry()
			if err == nil {
				_, err = Calculate(units.Default(), e)
			}
			assert.True(t, errors.Is(err, calc.ErrInvalidInput), "error = %v", err)
		})
	}
}
