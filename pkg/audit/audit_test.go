package audit

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChicagoDave/auditcalc/pkg/batch"
	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/compressedair"
	"github.com/ChicagoDave/auditcalc/pkg/electricity"
	"github.com/ChicagoDave/auditcalc/pkg/insulation"
	"github.com/ChicagoDave/auditcalc/pkg/pressure"
)

const plantDir = "../../examples/plant"

func TestLoadProject(t *testing.T) {
	doc, err := LoadProject(plantDir)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}

	if doc.Name != "Riverside Plant" {
		t.Errorf("name = %q, want %q", doc.Name, "Riverside Plant")
	}
	if len(doc.Electricity) != 2 {
		t.Fatalf("electricity records = %d, want 2", len(doc.Electricity))
	}
	if doc.Electricity[1].MeasurementMethod != electricity.MethodPowerMeter {
		t.Errorf("electricity[1].measurementMethod = %v, want power meter", doc.Electricity[1].MeasurementMethod)
	}
	if doc.CompressedAir[0].UtilityType != compressedair.UtilityElectricity {
		t.Errorf("compressedAir[0].utilityType = %v, want electricity", doc.CompressedAir[0].UtilityType)
	}
	if doc.PressureReduction[0].ProposedPressure != nil {
		t.Errorf("pressureReduction[0].proposedPressure = %v, want null", *doc.PressureReduction[0].ProposedPressure)
	}
	if p := doc.PressureReduction[1].ProposedPressure; p == nil || *p != 50 {
		t.Errorf("pressureReduction[1].proposedPressure = %v, want 50", p)
	}
	if len(doc.Pipes) != 2 || doc.Pipes[0].Name != "boiler header" {
		t.Fatalf("pipes = %+v", doc.Pipes)
	}
	if got := len(doc.Pipes[0].InsulationConductivity); got != 5 {
		t.Errorf("insulation coefficients = %d, want 5", got)
	}
	if doc.Tanks[0].InsulationConductivity != 0.04 {
		t.Errorf("tank insulationConductivity = %v, want 0.04", doc.Tanks[0].InsulationConductivity)
	}

	counts := doc.Counts()
	if counts[SectionElectricity] != 2 || counts[SectionTanks] != 1 || len(counts) != 7 {
		t.Errorf("counts = %v", counts)
	}
}

func TestLoadMissingProject(t *testing.T) {
	_, err := LoadProject("does-not-exist")
	if err == nil || !strings.Contains(err.Error(), "reading audit file") {
		t.Errorf("error = %v, want reading audit file error", err)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("name: x\nwater:\n  - hoursPerYear: 10\n    meteredFlowData: {meterReading: 1}\n"))
	if err == nil {
		t.Fatal("expected error for misspelled payload")
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse(nil); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestParseJSON(t *testing.T) {
	doc, err := Parse([]byte(`{"name":"json plant","water":[{"hoursPerYear":8640,"waterCost":0.005,"measurementMethod":3,"otherMethodData":{"consumption":15000}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "json plant", doc.Name)
	require.Len(t, doc.Water, 1)
	assert.Equal(t, 15000.0, doc.Water[0].OtherMethodData.Consumption)
}

type countingRecorder struct {
	mu         sync.Mutex
	calcs      map[string]int
	errs       map[string]int
	iterations map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{calcs: map[string]int{}, errs: map[string]int{}, iterations: map[string]int{}}
}

func (r *countingRecorder) Calculation(utility, method string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calcs[utility+"/"+method]++
}

func (r *countingRecorder) CalculationError(utility, kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[utility+"/"+kind]++
}

func (r *countingRecorder) SolverIterations(model string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.iterations[model] += n
}

func TestEvaluatePlant(t *testing.T) {
	doc, err := LoadProject(plantDir)
	require.NoError(t, err)

	rec := newCountingRecorder()
	env := DefaultEnv()
	env.Recorder = rec
	env.Batch = batch.Options{Workers: 4}

	res, err := Evaluate(context.Background(), doc, env)
	require.NoError(t, err)

	assert.Equal(t, "Riverside Plant", res.Name)

	require.NotNil(t, res.Electricity)
	assert.InEpsilon(t, 407045.796185+432000, res.Electricity.Total.EnergyUse, 1e-9)
	assert.InEpsilon(t, 48845.495542+51840, res.Electricity.Total.EnergyCost, 1e-9)
	assert.Len(t, res.Electricity.Entries, 2)

	require.NotNil(t, res.NaturalGas)
	assert.InEpsilon(t, 88992.0, res.NaturalGas.Total.EnergyUse, 1e-9)
	assert.InEpsilon(t, 10679.04, res.NaturalGas.Total.EnergyCost, 1e-9)

	require.NotNil(t, res.CompressedAir)
	assert.InEpsilon(t, 2211840.0, res.CompressedAir.Total.EnergyUse, 1e-9)

	require.NotNil(t, res.PressureReduction)
	assert.InEpsilon(t, 6480000.0, res.PressureReduction.Total.EnergyUse, 1e-9)
	assert.InEpsilon(t, 4320000.0, res.PressureReduction.Baseline.EnergyUse, 1e-9)
	assert.InEpsilon(t, 2160000.0, res.PressureReduction.Modification.EnergyUse, 1e-9)
	assert.InEpsilon(t, 2160000.0, res.PressureReduction.Savings.EnergyUse, 1e-9)
	assert.InEpsilon(t, 10800.0, res.PressureReduction.Savings.EnergyCost, 1e-9)

	require.NotNil(t, res.Water)
	assert.InEpsilon(t, 51840000.0, res.Water.Total.WaterUse, 1e-9)
	assert.InEpsilon(t, 259200.0, res.Water.Total.WaterCost, 1e-9)

	require.Len(t, res.Pipes, 2)
	assert.True(t, res.Pipes[0].Insulated)
	assert.InEpsilon(t, 19.385877, res.Pipes[0].HeatLossPerLength, 1e-4)
	assert.False(t, res.Pipes[1].Insulated)
	assert.InEpsilon(t, 278.8984025085, res.Pipes[1].HeatLossPerLength, 1e-6)

	require.Len(t, res.Tanks, 1)
	assert.Greater(t, res.Tanks[0].HeatLoss, 0.0)

	assert.Equal(t, 1, rec.calcs["electricity/multimeter"])
	assert.Equal(t, 1, rec.calcs["electricity/power_meter"])
	assert.Equal(t, 1, rec.calcs["pressureReduction/baseline"])
	assert.Equal(t, 1, rec.calcs["pressureReduction/modification"])
	assert.Equal(t, 1, rec.calcs["pipes/bare"])
	assert.Equal(t, 1, rec.calcs["tanks/insulated"])
	assert.Empty(t, rec.errs)
	assert.Greater(t, rec.iterations["pipe"], 0)
}

func TestEvaluateSkipsEmptySections(t *testing.T) {
	doc, err := Parse([]byte(`
name: water only
water:
  - hoursPerYear: 8640
    waterCost: 0.005
    measurementMethod: 3
    otherMethodData: {consumption: 15000}
`))
	require.NoError(t, err)

	res, err := Evaluate(context.Background(), doc, Env{})
	require.NoError(t, err)
	assert.Nil(t, res.Electricity)
	assert.Nil(t, res.PressureReduction)
	assert.Empty(t, res.Pipes)
	require.NotNil(t, res.Water)
	assert.InDelta(t, 75.0, res.Water.Total.WaterCost, 1e-9)
}

func TestPressureSavingsNeedBothSides(t *testing.T) {
	doc := &Document{PressureReduction: []pressure.Entry{
		{IsBaseline: true, HoursPerYear: 100, ElectricityCost: 1, CompressorPower: 10, Pressure: 100},
	}}
	res, err := Evaluate(context.Background(), doc, DefaultEnv())
	require.NoError(t, err)
	assert.Equal(t, 1000.0, res.PressureReduction.Baseline.EnergyUse)
	assert.Zero(t, res.PressureReduction.Savings.EnergyUse)
}

func TestEvaluateNamesFailingEntry(t *testing.T) {
	doc, err := LoadProject(plantDir)
	require.NoError(t, err)
	doc.NaturalGas[0].FlowMeterMethodData.FlowRate = math.NaN()

	rec := newCountingRecorder()
	env := DefaultEnv()
	env.Recorder = rec
	_, err = Evaluate(context.Background(), doc, env)
	require.Error(t, err)
	assert.ErrorIs(t, err, calc.ErrInvalidInput)
	assert.Contains(t, err.Error(), "naturalGas: entry 0")

	var ie *calc.IndexError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 0, ie.Index)
	assert.Equal(t, 1, rec.errs["naturalGas/invalid_input"])
}

func TestEvaluatePipeConvergenceFailure(t *testing.T) {
	doc, err := LoadProject(plantDir)
	require.NoError(t, err)

	env := DefaultEnv()
	env.Solver = insulation.Options{Tolerance: 1e-12, MaxIterations: 1}
	_, err = Evaluate(context.Background(), doc, env)
	require.Error(t, err)
	assert.ErrorIs(t, err, calc.ErrConvergenceFailure)
	assert.Contains(t, err.Error(), `pipes[0] "boiler header"`)
}

func TestEvaluateCancelled(t *testing.T) {
	doc, err := LoadProject(plantDir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Evaluate(ctx, doc, DefaultEnv())
	assert.ErrorIs(t, err, context.Canceled)
}
