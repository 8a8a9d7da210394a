package compressedair

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ChicagoDave/auditcalc/pkg/batch"
	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/units"
)

func relClose(t *testing.T, name string, got, want float64) {
	t.Helper()
	if want == 0 {
		if got != 0 {
			t.Errorf("%s = %v, want 0", name, got)
		}
		return
	}
	if math.Abs(got-want)/math.Abs(want) > 1e-6 {
		t.Errorf("%s = %.6f, want %.6f", name, got, want)
	}
}

func fieldRecord(method Method, utility UtilityType) Record {
	return Record{
		HoursPerYear:        8640,
		UtilityType:         utility,
		UtilityCost:         0.12,
		MeasurementMethod:   method,
		FlowMeterMethodData: &FlowMeterMethodData{MeterReading: 200000},
		BagMethodData:       &BagMethodData{Height: 10, Diameter: 5, FillTime: 30},
		PressureMethodData:  &PressureMethodData{NozzleType: 0, NumberOfNozzles: 1, SupplyPressure: 80},
		OtherMethodData:     &OtherMethodData{Consumption: 200000},
		CompressorElectricityData: &CompressorElectricityData{
			CompressorControlAdjustment: 0.8,
			CompressorSpecificPower:     0.16,
		},
		Units: 1,
	}
}

func entries(t *testing.T, records ...Record) []Entry {
	t.Helper()
	es, err := Entries(records)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	return es
}

func TestFlowMeterWithElectricity(t *testing.T) {
	total, _, err := Batch(context.Background(), units.Default(),
		entries(t, fieldRecord(MethodFlowMeter, UtilityElectricity)), batch.Options{})
	if err != nil {
		t.Fatal(err)
	}
	relClose(t, "energyUse", total.EnergyUse, 2211840.0)
	relClose(t, "energyCost", total.EnergyCost, 265420.8)
	relClose(t, "flowRate", total.FlowRate, 200000.0)
	relClose(t, "singleNozzleFlowRate", total.SingleNozzleFlowRate, 0)
	relClose(t, "consumption", total.Consumption, 103680000000.0)
}

func TestBagMethod(t *testing.T) {
	rec := fieldRecord(MethodBag, UtilityElectricity)
	rec.BagMethodData = &BagMethodData{Height: 15, Diameter: 10, FillTime: 12}
	r, err := Calculate(units.Default(), entries(t, rec)[0])
	if err != nil {
		t.Fatal(err)
	}
	relClose(t, "flowRate", r.FlowRate, 3.408846195301425)
	relClose(t, "consumption", r.Consumption, 1767145.8676442588)
	relClose(t, "energyUse", r.EnergyUse, 37.699111843077524)
}

func TestPressureMethodWithoutElectricity(t *testing.T) {
	r, err := Calculate(units.Default(), entries(t, fieldRecord(MethodPressure, UtilityCompressedAir))[0])
	if err != nil {
		t.Fatal(err)
	}
	relClose(t, "singleNozzleFlowRate", r.SingleNozzleFlowRate, 1.778508)
	relClose(t, "flowRate", r.FlowRate, 1.778508)
	relClose(t, "consumption", r.Consumption, 921978.5472)
	relClose(t, "energyUse", r.EnergyUse, 0)
	// Air bought by volume is costed on consumption.
	relClose(t, "energyCost", r.EnergyCost, 110637.425664)
}

func TestPressureMethodScalesByNozzlesAndUnits(t *testing.T) {
	rec := fieldRecord(MethodPressure, UtilityCompressedAir)
	rec.PressureMethodData.NumberOfNozzles = 3
	rec.Units = 2
	r, err := Calculate(units.Default(), entries(t, rec)[0])
	if err != nil {
		t.Fatal(err)
	}
	relClose(t, "singleNozzleFlowRate", r.SingleNozzleFlowRate, 1.778508)
	relClose(t, "flowRate", r.FlowRate, 6*1.778508)
}

func TestAllMethods(t *testing.T) {
	bag := fieldRecord(MethodBag, UtilityElectricity)
	bag.BagMethodData = &BagMethodData{Height: 15, Diameter: 10, FillTime: 12}
	es := entries(t,
		fieldRecord(MethodFlowMeter, UtilityElectricity),
		bag,
		fieldRecord(MethodPressure, UtilityCompressedAir),
		fieldRecord(MethodOther, UtilityElectricity),
	)
	for _, workers := range []int{1, 4} {
		total, each, err := Batch(context.Background(), units.Default(), es, batch.Options{Workers: workers})
		if err != nil {
			t.Fatal(err)
		}
		relClose(t, "energyUse", total.EnergyUse, 2211881.965779)
		relClose(t, "energyCost", total.EnergyCost, 376063.261557)
		relClose(t, "flowRate", total.FlowRate, 200005.187354)
		relClose(t, "singleNozzleFlowRate", total.SingleNozzleFlowRate, 1.778508)
		relClose(t, "consumption", total.Consumption, 103682889124.41486)

		other := each[3]
		relClose(t, "other consumption", other.Consumption, 200000)
		relClose(t, "other flowRate", other.FlowRate, 0)
		relClose(t, "other energyUse", other.EnergyUse, 4.266666666666667)
	}
}

func TestIrrelevantPayloadsIgnored(t *testing.T) {
	full := fieldRecord(MethodBag, UtilityElectricity)
	full.PressureMethodData.NozzleType = 99
	full.FlowMeterMethodData = nil
	bare := Record{
		HoursPerYear:              8640,
		UtilityType:               UtilityElectricity,
		UtilityCost:               0.12,
		MeasurementMethod:         MethodBag,
		BagMethodData:             &BagMethodData{Height: 10, Diameter: 5, FillTime: 30},
		CompressorElectricityData: full.CompressorElectricityData,
		Units:                     1,
	}
	c := units.Default()
	r1, err1 := Calculate(c, entries(t, full)[0])
	r2, err2 := Calculate(c, entries(t, bare)[0])
	if err1 != nil || err2 != nil {
		t.Fatalf("errors: %v, %v", err1, err2)
	}
	if r1 != r2 {
		t.Errorf("results differ: %+v vs %+v", r1, r2)
	}
}

func TestCompressedAirNeedsNoCompressorData(t *testing.T) {
	rec := fieldRecord(MethodFlowMeter, UtilityCompressedAir)
	rec.CompressorElectricityData = nil
	if _, err := rec.Entry(); err != nil {
		t.Errorf("Entry() = %v, want nil", err)
	}

	rec.UtilityType = UtilityElectricity
	if _, err := rec.Entry(); !errors.Is(err, calc.ErrInvalidInput) {
		t.Errorf("electric entry without compressor data: err = %v", err)
	}
}

func TestInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"unknown method", func(r *Record) { r.MeasurementMethod = 4 }},
		{"unknown utility", func(r *Record) { r.UtilityType = 2 }},
		{"unknown nozzle", func(r *Record) {
			r.MeasurementMethod = MethodPressure
			r.PressureMethodData.NozzleType = 42
		}},
		{"zero nozzles", func(r *Record) {
			r.MeasurementMethod = MethodPressure
			r.PressureMethodData.NumberOfNozzles = 0
		}},
		{"zero fill time", func(r *Record) {
			r.MeasurementMethod = MethodBag
			r.BagMethodData.FillTime = 0
		}},
		{"nan reading", func(r *Record) { r.FlowMeterMethodData.MeterReading = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fieldRecord(MethodFlowMeter, UtilityElectricity)
			tt.mutate(&rec)
			e, err := rec.Entry()
			if err == nil {
				_, err = Calculate(units.Default(), e)
			}
			if !errors.Is(err, calc.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}
