package electricity

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ChicagoDave/auditcalc/pkg/batch"
	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/units"
)

func closeTo(t *testing.T, name string, got, want float64) {
	t.Helper()
	tol := 1e-6 * math.Max(1, math.Abs(want))
	if math.Abs(got-want) > tol {
		t.Errorf("%s = %.6f, want %.6f", name, got, want)
	}
}

// fieldRecord carries every method payload, as audit tools export them.
func fieldRecord(method Method, phases, units int) Record {
	return Record{
		OperatingHours:    8640,
		ElectricityCost:   0.12,
		MeasurementMethod: method,
		MultimeterData: &MultimeterData{
			NumberOfPhases: phases,
			SupplyVoltage:  800,
			AverageCurrent: 40,
			PowerFactor:    0.85,
		},
		NameplateData: &NameplateData{
			RatedMotorPower:         100,
			OperationalFrequency:    55,
			LineFrequency:           60,
			MotorAndDriveEfficiency: 100,
			LoadFactor:              1,
		},
		PowerMeterData:  &PowerMeterData{Power: 50},
		OtherMethodData: &OtherMethodData{Energy: 432000},
		Units:           units,
	}
}

func mustEntry(t *testing.T, r Record) Entry {
	t.Helper()
	e, err := r.Entry()
	if err != nil {
		t.Fatalf("Entry() failed: %v", err)
	}
	return e
}

func TestThreePhaseMultimeter(t *testing.T) {
	e := mustEntry(t, fieldRecord(MethodMultimeter, 3, 1))
	total, _, err := Batch(context.Background(), units.Default(), []Entry{e}, batch.Options{})
	if err != nil {
		t.Fatal(err)
	}
	closeTo(t, "energyUse", total.EnergyUse, 407045.796185)
	closeTo(t, "energyCost", total.EnergyCost, 48845.495542)
	closeTo(t, "power", total.Power, 47.111782)
}

func TestSinglePhaseMultimeter(t *testing.T) {
	r, err := Calculate(units.Default(), mustEntry(t, fieldRecord(MethodMultimeter, 1, 1)))
	if err != nil {
		t.Fatal(err)
	}
	closeTo(t, "power", r.Power, 27.2)
	closeTo(t, "energyUse", r.EnergyUse, 235008)
}

func TestPowerMeterScalesByUnits(t *testing.T) {
	r, err := Calculate(units.Default(), mustEntry(t, fieldRecord(MethodPowerMeter, 3, 2)))
	if err != nil {
		t.Fatal(err)
	}
	closeTo(t, "power", r.Power, 100)
	closeTo(t, "energyUse", r.EnergyUse, 864000)
	closeTo(t, "energyCost", r.EnergyCost, 103680)
}

func TestOtherMethodIsAnnualTotal(t *testing.T) {
	r, err := Calculate(units.Default(), mustEntry(t, fieldRecord(MethodOther, 3, 2)))
	if err != nil {
		t.Fatal(err)
	}
	closeTo(t, "energyUse", r.EnergyUse, 432000)
	closeTo(t, "energyCost", r.EnergyCost, 51840)
	closeTo(t, "power", r.Power, 50)
}

func TestNameplate(t *testing.T) {
	c := units.Default()
	rec := fieldRecord(MethodNameplate, 3, 1)

	r, err := Calculate(c, mustEntry(t, rec))
	if err != nil {
		t.Fatal(err)
	}
	closeTo(t, "constant speed power", r.Power, 74.6)

	rec.NameplateData.VariableSpeedMotor = true
	rec.Units = 2
	r, err = Calculate(c, mustEntry(t, rec))
	if err != nil {
		t.Fatal(err)
	}
	closeTo(t, "variable speed power", r.Power, 2*68.38333333333334)

	rec.NameplateData.MotorAndDriveEfficiency = 80
	rec.NameplateData.VariableSpeedMotor = false
	rec.Units = 1
	r, _ = Calculate(c, mustEntry(t, rec))
	closeTo(t, "80% efficiency power", r.Power, 93.25)
}

func TestMixedMethodBatch(t *testing.T) {
	records := []Record{
		fieldRecord(MethodMultimeter, 3, 1),
		fieldRecord(MethodMultimeter, 1, 1),
		fieldRecord(MethodPowerMeter, 3, 2),
		fieldRecord(MethodOther, 3, 2),
	}
	entries, err := Entries(records)
	if err != nil {
		t.Fatal(err)
	}
	total, each, err := Batch(context.Background(), units.Default(), entries, batch.Options{Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	if len(each) != 4 {
		t.Fatalf("per-entry results = %d, want 4", len(each))
	}
	closeTo(t, "energyUse", total.EnergyUse, 1938053.796185)
	closeTo(t, "energyCost", total.EnergyCost, 232566.455542)
}

func TestAdditivity(t *testing.T) {
	c := units.Default()
	a := mustEntry(t, fieldRecord(MethodMultimeter, 3, 1))
	b := mustEntry(t, fieldRecord(MethodNameplate, 3, 3))

	ra, _, _ := Batch(context.Background(), c, []Entry{a}, batch.Options{})
	rb, _, _ := Batch(context.Background(), c, []Entry{b}, batch.Options{})
	rab, _, err := Batch(context.Background(), c, []Entry{a, b}, batch.Options{})
	if err != nil {
		t.Fatal(err)
	}
	sum := ra.Add(rb)
	closeTo(t, "energyUse", rab.EnergyUse, sum.EnergyUse)
	closeTo(t, "energyCost", rab.EnergyCost, sum.EnergyCost)
	closeTo(t, "power", rab.Power, sum.Power)
}

func TestIrrelevantPayloadsIgnored(t *testing.T) {
	c := units.Default()
	full := fieldRecord(MethodPowerMeter, 3, 1)
	bare := Record{
		OperatingHours:    full.OperatingHours,
		ElectricityCost:   full.ElectricityCost,
		MeasurementMethod: MethodPowerMeter,
		PowerMeterData:    &PowerMeterData{Power: 50},
		Units:             1,
	}
	full.MultimeterData.SupplyVoltage = -999
	full.NameplateData.MotorAndDriveEfficiency = 0

	r1, err := Calculate(c, mustEntry(t, full))
	if err != nil {
		t.Fatal(err)
	}
	r2, err := Calculate(c, mustEntry(t, bare))
	if err != nil {
		t.Fatal(err)
	}
	if r1 != r2 {
		t.Errorf("results differ: %+v vs %+v", r1, r2)
	}
}

func TestInvalidInput(t *testing.T) {
	c := units.Default()
	tests := []struct {
		name   string
		mutate func(*Record)
		field  string
	}{
		{"unknown method", func(r *Record) { r.MeasurementMethod = 7 }, "measurementMethod"},
		{"missing payload", func(r *Record) { r.MultimeterData = nil }, "multimeterData"},
		{"two phases", func(r *Record) { r.MultimeterData.NumberOfPhases = 2 }, "multimeterData.numberOfPhases"},
		{"nan voltage", func(r *Record) { r.MultimeterData.SupplyVoltage = math.NaN() }, "multimeterData.supplyVoltage"},
		{"power factor above one", func(r *Record) { r.MultimeterData.PowerFactor = 1.5 }, "multimeterData.powerFactor"},
		{"zero hours", func(r *Record) { r.OperatingHours = 0 }, "operatingHours"},
		{"zero units", func(r *Record) { r.Units = 0 }, "units"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := fieldRecord(MethodMultimeter, 3, 1)
			tt.mutate(&rec)
			e, err := rec.Entry()
			if err == nil {
				_, err = Calculate(c, e)
			}
			if !errors.Is(err, calc.ErrInvalidInput) {
				t.Fatalf("error = %v, want ErrInvalidInput", err)
			}
			var fe *calc.FieldError
			if errors.As(err, &fe) && fe.Field != tt.field {
				t.Errorf("field = %q, want %q", fe.Field, tt.field)
			}
		})
	}
}

func TestEntriesReportsIndex(t *testing.T) {
	bad := fieldRecord(MethodPowerMeter, 3, 1)
	bad.PowerMeterData = nil
	_, err := Entries([]Record{fieldRecord(MethodOther, 3, 1), bad})
	var ie *calc.IndexError
	if !errors.As(err, &ie) || ie.Index != 1 {
		t.Fatalf("error = %v, want index 1", err)
	}
}

func TestMethodString(t *testing.T) {
	if MethodPowerMeter.String() != "power_meter" {
		t.Errorf("String() = %q", MethodPowerMeter.String())
	}
	if (Entry{}).Method().String() != "unknown" {
		t.Error("entry without measurement should report unknown method")
	}
}
