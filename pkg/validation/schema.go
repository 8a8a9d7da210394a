package validation

import (
	"errors"
	"fmt"

	"github.com/ChicagoDave/auditcalc/pkg/audit"
	"github.com/ChicagoDave/auditcalc/pkg/calc"
	"github.com/ChicagoDave/auditcalc/pkg/compressedair"
	"github.com/ChicagoDave/auditcalc/pkg/electricity"
	"github.com/ChicagoDave/auditcalc/pkg/naturalgas"
	"github.com/ChicagoDave/auditcalc/pkg/pressure"
	"github.com/ChicagoDave/auditcalc/pkg/units"
	"github.com/ChicagoDave/auditcalc/pkg/water"
)

// ValidateSchema checks every record of an audit document on its own. Unlike
// evaluation, which stops at the first bad entry, it reports all of them.
func ValidateSchema(doc *audit.Document, c *units.Constants) *Report {
	r := NewReport()

	counts := doc.Counts()
	if len(counts) == 0 {
		r.AddWarning(Result{
			Level:       LevelSchema,
			Message:     "audit document has no records",
			Suggestions: []string{"Add at least one utility section, pipe or tank"},
		})
	}
	for _, name := range sectionOrder {
		if n := counts[name]; n > 0 {
			r.AddInfo(Result{
				Level:       LevelSchema,
				Message:     fmt.Sprintf("%s: %d records", name, n),
				Path:        name,
				ActualValue: n,
			})
		}
	}

	for i, rec := range doc.Electricity {
		check(r, audit.SectionElectricity, i, func() error {
			e, err := rec.Entry()
			if err == nil {
				_, err = electricity.Calculate(c, e)
			}
			return err
		})
	}
	for i, rec := range doc.NaturalGas {
		check(r, audit.SectionNaturalGas, i, func() error {
			e, err := rec.Entry()
			if err == nil {
				_, err = naturalgas.Calculate(c, e)
			}
			return err
		})
	}
	for i, rec := range doc.CompressedAir {
		check(r, audit.SectionCompressedAir, i, func() error {
			e, err := rec.Entry()
			if err == nil {
				_, err = compressedair.Calculate(c, e)
			}
			return err
		})
	}
	for i, e := range doc.PressureReduction {
		check(r, audit.SectionPressureReduction, i, func() error {
			_, err := pressure.Calculate(c, e)
			return err
		})
	}
	for i, rec := range doc.Water {
		check(r, audit.SectionWater, i, func() error {
			e, err := rec.Entry()
			if err == nil {
				_, err = water.Calculate(c, e)
			}
			return err
		})
	}
	for i, p := range doc.Pipes {
		check(r, audit.SectionPipes, i, func() error { return p.Validate(c) })
	}
	for i, t := range doc.Tanks {
		check(r, audit.SectionTanks, i, func() error { return t.Validate(c) })
	}

	return r
}

var sectionOrder = []string{
	audit.SectionElectricity,
	audit.SectionNaturalGas,
	audit.SectionCompressedAir,
	audit.SectionPressureReduction,
	audit.SectionWater,
	audit.SectionPipes,
	audit.SectionTanks,
}

func check(r *Report, section string, i int, fn func() error) {
	if err := fn(); err != nil {
		r.AddError(fromError(LevelSchema, fmt.Sprintf("%s[%d]", section, i), err))
	}
}

// fromError turns a calculator error into a finding located at path.
func fromError(level Level, path string, err error) Result {
	res := Result{Level: level, Message: err.Error(), Path: path}
	var fe *calc.FieldError
	if errors.As(err, &fe) {
		if fe.Field != "" {
			res.Path = path + "." + fe.Field
		}
		res.ActualValue = fe.Value
		res.Expected = fe.Expected
	}
	return res
}
