package insulation

import (
	"fmt"
	"math"

	"github.com/ChicagoDave/auditcalc/pkg/calc"
)

const (
	DefaultTolerance     = 1e-9 // K
	DefaultMaxIterations = 100
)

// Options bound the surface temperature iteration.
type Options struct {
	Tolerance     float64 `yaml:"tolerance" env:"AUDITCALC_SOLVER_TOLERANCE" env-default:"1e-9"`
	MaxIterations int     `yaml:"max_iterations" env:"AUDITCALC_SOLVER_MAX_ITERATIONS" env-default:"100"`
}

// DefaultOptions returns the tolerance and iteration limit used when none
// are configured.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations}
}

func (o Options) validate() error {
	var chk calc.Checker
	chk.Positive("tolerance", o.Tolerance)
	chk.Count("max_iterations", o.MaxIterations)
	return chk.Err()
}

// iterate applies step to the temperature vector until no component moves by
// more than the tolerance. It returns the number of steps taken.
func iterate(opts Options, x []float64, step func(x []float64) ([]float64, error)) (int, error) {
	var change float64
	for i := 1; i <= opts.MaxIterations; i++ {
		next, err := step(x)
		if err != nil {
			return i, err
		}
		change = 0
		for j := range x {
			change = math.Max(change, math.Abs(next[j]-x[j]))
		}
		copy(x, next)
		if math.IsNaN(change) {
			break
		}
		if change < opts.Tolerance {
			return i, nil
		}
	}
	return opts.MaxIterations, fmt.Errorf("%w: %d iterations, last change %g K",
		calc.ErrConvergenceFailure, opts.MaxIterations, change)
}

// conductivity evaluates c[0]·T⁴ + c[1]·T³ + c[2]·T² + c[3]·T + c[4].
func conductivity(field string, c []float64, T float64) (float64, error) {
	var k float64
	for _, v := range c {
		k = k*T + v
	}
	if !(k > 0) || math.IsInf(k, 0) {
		return 0, calc.Invalid(field, k, fmt.Sprintf("positive conductivity at %.2f K", T))
	}
	return k, nil
}
