package audit

import (
	"context"
	"fmt"

	"github.com/ChicagoDave/auditcalc/pkg/batch"
	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/compressedair"
	"github.com/ChicagoDave/auditcalc/pkg/electricity"
	"github.com/ChicagoDave/auditcalc/pkg/insulation"
	"github.com/ChicagoDave/auditcalc/pkg/naturalgas"
	"github.com/ChicagoDave/auditcalc/pkg/pressure"
	"github.com/ChicagoDave/auditcalc/pkg/units"
	"github.com/ChicagoDave/auditcalc/pkg/water"
)

// Recorder observes calculations as they run. Implementations must be safe
// for concurrent use.
type Recorder interface {
	Calculation(utility, method string)
	CalculationError(utility, kind string)
	SolverIterations(model string, n int)
}

type nopRecorder struct{}

func (nopRecorder) Calculation(string, string)      {}
func (nopRecorder) CalculationError(string, string) {}
func (nopRecorder) SolverIterations(string, int)    {}

// Env carries the constants and tuning shared by every calculation.
type Env struct {
	Constants *units.Constants
	Solver    insulation.Options
	Batch     batch.Options
	Recorder  Recorder
}

// DefaultEnv returns reference constants, default solver bounds and
// sequential batches.
func DefaultEnv() Env {
	return Env{
		Constants: units.Default(),
		Solver:    insulation.DefaultOptions(),
		Recorder:  nopRecorder{},
	}
}

func (e Env) recorder() Recorder {
	if e.Recorder == nil {
		return nopRecorder{}
	}
	return e.Recorder
}

// Evaluate computes every non-empty section of doc. The first failing
// section aborts evaluation; its error names the section and entry.
func Evaluate(ctx context.Context, doc *Document, env Env) (*Results, error) {
	if env.Constants == nil {
		env.Constants = units.Default()
	}
	c := env.Constants
	rec := env.recorder()
	res := &Results{Name: doc.Name}

	var err error
	if len(doc.Electricity) > 0 {
		res.Electricity, err = section(ctx, env, SectionElectricity, doc.Electricity,
			electricity.Entries,
			func(e electricity.Entry) string { return e.Method().String() },
			func(e electricity.Entry) (electricity.Result, error) { return electricity.Calculate(c, e) })
		if err != nil {
			return nil, err
		}
	}
	if len(doc.NaturalGas) > 0 {
		res.NaturalGas, err = section(ctx, env, SectionNaturalGas, doc.NaturalGas,
			naturalgas.Entries,
			func(e naturalgas.Entry) string { return e.Method().String() },
			func(e naturalgas.Entry) (naturalgas.Result, error) { return naturalgas.Calculate(c, e) })
		if err != nil {
			return nil, err
		}
	}
	if len(doc.CompressedAir) > 0 {
		res.CompressedAir, err = section(ctx, env, SectionCompressedAir, doc.CompressedAir,
			compressedair.Entries,
			func(e compressedair.Entry) string { return e.Method().String() },
			func(e compressedair.Entry) (compressedair.Result, error) { return compressedair.Calculate(c, e) })
		if err != nil {
			return nil, err
		}
	}
	if len(doc.PressureReduction) > 0 {
		s, err := section(ctx, env, SectionPressureReduction, doc.PressureReduction,
			func(es []pressure.Entry) ([]pressure.Entry, error) { return es, nil },
			pressure.Entry.Kind,
			func(e pressure.Entry) (pressure.Result, error) { return pressure.Calculate(c, e) })
		if err != nil {
			return nil, err
		}
		res.PressureReduction = splitPressure(doc.PressureReduction, s)
	}
	if len(doc.Water) > 0 {
		res.Water, err = section(ctx, env, SectionWater, doc.Water,
			water.Entries,
			func(e water.Entry) string { return e.Method().String() },
			func(e water.Entry) (water.Result, error) { return water.Calculate(c, e) })
		if err != nil {
			return nil, err
		}
	}

	for i, p := range doc.Pipes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hl, err := insulation.Pipe(c, p.PipeSpec, env.Solver)
		if err != nil {
			rec.CalculationError(SectionPipes, calc.Kind(err))
			return nil, fmt.Errorf("%s[%d] %q: %w", SectionPipes, i, p.Name, err)
		}
		rec.Calculation(SectionPipes, insulatedLabel(p.Insulated()))
		rec.SolverIterations("pipe", hl.Iterations)
		res.Pipes = append(res.Pipes, PipeResult{Name: p.Name, Insulated: p.Insulated(), HeatLoss: hl})
	}
	for i, t := range doc.Tanks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hl, err := insulation.Tank(c, t.TankSpec, env.Solver)
		if err != nil {
			rec.CalculationError(SectionTanks, calc.Kind(err))
			return nil, fmt.Errorf("%s[%d] %q: %w", SectionTanks, i, t.Name, err)
		}
		rec.Calculation(SectionTanks, insulatedLabel(t.Insulated()))
		rec.SolverIterations("tank", hl.Iterations)
		res.Tanks = append(res.Tanks, TankResult{Name: t.Name, Insulated: t.Insulated(), TankHeatLoss: hl})
	}
	return res, nil
}

// section converts the records of one utility and runs them as a batch.
func section[Rec, E any, R batch.Summable[R]](
	ctx context.Context,
	env Env,
	name string,
	records []Rec,
	entries func([]Rec) ([]E, error),
	method func(E) string,
	calculate func(E) (R, error),
) (*Section[R], error) {
	rec := env.recorder()
	es, err := entries(records)
	if err != nil {
		rec.CalculationError(name, calc.Kind(err))
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	total, each, err := batch.Run(ctx, es, func(e E) (R, error) {
		r, err := calculate(e)
		if err != nil {
			rec.CalculationError(name, calc.Kind(err))
			return r, err
		}
		rec.Calculation(name, method(e))
		return r, nil
	}, env.Batch)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &Section[R]{Total: total, Entries: each}, nil
}

func splitPressure(entries []pressure.Entry, s *Section[pressure.Result]) *PressureSection {
	ps := &PressureSection{Section: *s}
	var baselines, modifications int
	for i, e := range entries {
		if e.IsBaseline {
			ps.Baseline = ps.Baseline.Add(s.Entries[i])
			baselines++
		} else {
			ps.Modification = ps.Modification.Add(s.Entries[i])
			modifications++
		}
	}
	// Savings need both sides of the comparison.
	if baselines > 0 && modifications > 0 {
		ps.Savings = pressure.Savings(ps.Baseline, ps.Modification)
	}
	return ps
}

func insulatedLabel(insulated bool) string {
	if insulated {
		return "insulated"
	}
	return "bare"
}
