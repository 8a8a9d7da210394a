package validation

import (
	"errors"
	"fmt"

	"github.com/ChicagoDave/auditcalc/pkg/audit"
	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/insulation"
	"github.com/ChicagoDave/auditcalc/pkg/units"
)

// ContactSafeTemperature is the highest surface temperature (K) that can be
// touched briefly without burns.
const ContactSafeTemperature = 333.15

// ValidateAnalytical solves pipes and tanks that passed schema checks and
// flags models that fail to converge or leave hot surfaces exposed. It also
// flags pressure modifications that do not lower the pressure.
func ValidateAnalytical(doc *audit.Document, c *units.Constants, opts insulation.Options) *Report {
	r := NewReport()

	for i, e := range doc.PressureReduction {
		if e.IsBaseline || e.ProposedPressure == nil || *e.ProposedPressure < e.Pressure {
			continue
		}
		path := fmt.Sprintf("%s[%d]", audit.SectionPressureReduction, i)
		r.AddWarning(Result{
			Level:        LevelAnalytical,
			Message:      "proposed pressure does not reduce compressor load",
			Path:         path + ".proposedPressure",
			ActualValue:  *e.ProposedPressure,
			Expected:     fmt.Sprintf("< %g", e.Pressure),
			ConflictWith: path + ".pressure",
		})
	}

	for i, p := range doc.Pipes {
		if p.Validate(c) != nil {
			continue
		}
		path := fmt.Sprintf("%s[%d]", audit.SectionPipes, i)
		hl, err := insulation.Pipe(c, p.PipeSpec, opts)
		if err != nil {
			addSolverError(r, path, err)
			continue
		}
		if hl.SurfaceTemperature > ContactSafeTemperature {
			r.AddWarning(hotSurface(path, p.Name, hl.SurfaceTemperature, p.Insulated()))
		}
	}

	for i, t := range doc.Tanks {
		if t.Validate(c) != nil {
			continue
		}
		path := fmt.Sprintf("%s[%d]", audit.SectionTanks, i)
		if _, err := insulation.Tank(c, t.TankSpec, opts); err != nil {
			addSolverError(r, path, err)
		}
	}

	return r
}

func addSolverError(r *Report, path string, err error) {
	res := fromError(LevelAnalytical, path, err)
	if errors.Is(err, calc.ErrConvergenceFailure) {
		res.Suggestions = []string{"Raise the solver iteration limit or loosen its tolerance"}
	}
	r.AddError(res)
}

func hotSurface(path, name string, temperature float64, insulated bool) Result {
	res := Result{
		Level:       LevelAnalytical,
		Message:     fmt.Sprintf("%s surface runs at %.1f K", name, temperature),
		Path:        path,
		ActualValue: temperature,
		Expected:    fmt.Sprintf("<= %.2f K", ContactSafeTemperature),
	}
	if insulated {
		res.Suggestions = []string{"Increase insulation thickness"}
	} else {
		res.Suggestions = []string{"Insulate the pipe"}
	}
	return res
}
