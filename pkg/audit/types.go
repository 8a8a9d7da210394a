package audit

import (
	"github.com/ChicagoDave/auditcalc/pkg/compressedair"
	"github.com/ChicagoDave/auditcalc/pkg/electricity"
	"github.com/ChicagoDave/auditcalc/pkg/insulation"
	"github.com/ChicagoDave/auditcalc/pkg/naturalgas"
	"github.com/ChicagoDave/auditcalc/pkg/pressure"
	"github.com/ChicagoDave/auditcalc/pkg/water"
)

// Document is a facility audit: field records grouped by utility plus the
// pipes and tanks surveyed for insulation.
type Document struct {
	Name              string                 `yaml:"name" json:"name"`
	Electricity       []electricity.Record   `yaml:"electricity,omitempty" json:"electricity,omitempty"`
	NaturalGas        []naturalgas.Record    `yaml:"naturalGas,omitempty" json:"naturalGas,omitempty"`
	CompressedAir     []compressedair.Record `yaml:"compressedAir,omitempty" json:"compressedAir,omitempty"`
	PressureReduction []pressure.Entry       `yaml:"pressureReduction,omitempty" json:"pressureReduction,omitempty"`
	Water             []water.Record         `yaml:"water,omitempty" json:"water,omitempty"`
	Pipes             []Pipe                 `yaml:"pipes,omitempty" json:"pipes,omitempty"`
	Tanks             []Tank                 `yaml:"tanks,omitempty" json:"tanks,omitempty"`
}

// Pipe is a named pipe run.
type Pipe struct {
	Name                string `yaml:"name" json:"name"`
	insulation.PipeSpec `yaml:",inline"`
}

// Tank is a named tank.
type Tank struct {
	Name                string `yaml:"name" json:"name"`
	insulation.TankSpec `yaml:",inline"`
}

// Counts returns the number of records in each non-empty section, keyed by
// the section's document name.
func (d *Document) Counts() map[string]int {
	counts := map[string]int{}
	for name, n := range map[string]int{
		SectionElectricity:       len(d.Electricity),
		SectionNaturalGas:        len(d.NaturalGas),
		SectionCompressedAir:     len(d.CompressedAir),
		SectionPressureReduction: len(d.PressureReduction),
		SectionWater:             len(d.Water),
		SectionPipes:             len(d.Pipes),
		SectionTanks:             len(d.Tanks),
	} {
		if n > 0 {
			counts[name] = n
		}
	}
	return counts
}

// Section names as they appear in the document.
const (
	SectionElectricity       = "electricity"
	SectionNaturalGas        = "naturalGas"
	SectionCompressedAir     = "compressedAir"
	SectionPressureReduction = "pressureReduction"
	SectionWater             = "water"
	SectionPipes             = "pipes"
	SectionTanks             = "tanks"
)

// Section is the batch total of one utility plus its per-entry results in
// document order.
type Section[R any] struct {
	Total   R   `json:"total" yaml:"total"`
	Entries []R `json:"entries" yaml:"entries"`
}

// PressureSection splits the pressure reduction batch into its baseline and
// modification parts.
type PressureSection struct {
	Section[pressure.Result] `yaml:",inline"`
	Baseline                 pressure.Result `json:"baseline" yaml:"baseline"`
	Modification             pressure.Result `json:"modification" yaml:"modification"`
	Savings                  pressure.Result `json:"savings" yaml:"savings"`
}

// PipeResult is the heat loss of a named pipe.
type PipeResult struct {
	Name                string `json:"name" yaml:"name"`
	Insulated           bool   `json:"insulated" yaml:"insulated"`
	insulation.HeatLoss `yaml:",inline"`
}

// TankResult is the heat loss of a named tank.
type TankResult struct {
	Name                    string `json:"name" yaml:"name"`
	Insulated               bool   `json:"insulated" yaml:"insulated"`
	insulation.TankHeatLoss `yaml:",inline"`
}

// Results holds everything computed from a document. Sections that are empty
// in the document are nil.
type Results struct {
	Name              string                         `json:"name" yaml:"name"`
	Electricity       *Section[electricity.Result]   `json:"electricity,omitempty" yaml:"electricity,omitempty"`
	NaturalGas        *Section[naturalgas.Result]    `json:"naturalGas,omitempty" yaml:"naturalGas,omitempty"`
	CompressedAir     *Section[compressedair.Result] `json:"compressedAir,omitempty" yaml:"compressedAir,omitempty"`
	PressureReduction *PressureSection               `json:"pressureReduction,omitempty" yaml:"pressureReduction,omitempty"`
	Water             *Section[water.Result]         `json:"water,omitempty" yaml:"water,omitempty"`
	Pipes             []PipeResult                   `json:"pipes,omitempty" yaml:"pipes,omitempty"`
	Tanks             []TankResult                   `json:"tanks,omitempty" yaml:"tanks,omitempty"`
}
