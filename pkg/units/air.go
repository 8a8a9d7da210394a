package units

import (
	"fmt"

	"gonum.org/v1/gonum/interp"

	"github.com/ChicagoDave/auditcalc/pkg/calc"
)

// AirRow is one row of a dry-air property table at atmospheric pressure.
type AirRow struct {
	Temperature        float64 // K
	KinematicViscosity float64 // m²/s
	Conductivity       float64 // W/m·K
	Diffusivity        float64 // m²/s
	Prandtl            float64
}

// AirProperties are air transport properties at one temperature.
type AirProperties struct {
	KinematicViscosity float64
	Conductivity       float64
	Diffusivity        float64
	Prandtl            float64
}

// AirTable interpolates air properties linearly between table rows.
type AirTable struct {
	min, max float64
	nu       interp.PiecewiseLinear
	k        interp.PiecewiseLinear
	alpha    interp.PiecewiseLinear
	pr       interp.PiecewiseLinear
}

// Incropera, Fundamentals of Heat and Mass Transfer, Table A.4.
var referenceAir = []AirRow{
	{100, 2.00e-6, 9.34e-3, 2.54e-6, 0.786},
	{150, 4.426e-6, 13.8e-3, 5.84e-6, 0.758},
	{200, 7.590e-6, 18.1e-3, 10.3e-6, 0.737},
	{250, 11.44e-6, 22.3e-3, 15.9e-6, 0.720},
	{300, 15.89e-6, 26.3e-3, 22.5e-6, 0.707},
	{350, 20.92e-6, 30.0e-3, 29.9e-6, 0.700},
	{400, 26.41e-6, 33.8e-3, 38.3e-6, 0.690},
	{450, 32.39e-6, 37.3e-3, 47.2e-6, 0.686},
	{500, 38.79e-6, 40.7e-3, 56.7e-6, 0.684},
	{550, 45.57e-6, 43.9e-3, 66.7e-6, 0.683},
	{600, 52.69e-6, 46.9e-3, 76.9e-6, 0.685},
	{650, 60.21e-6, 49.7e-3, 87.3e-6, 0.690},
	{700, 68.10e-6, 52.4e-3, 98.0e-6, 0.695},
	{750, 76.37e-6, 54.9e-3, 109e-6, 0.702},
	{800, 84.93e-6, 57.3e-3, 120e-6, 0.709},
	{850, 93.80e-6, 59.6e-3, 131e-6, 0.716},
	{900, 102.9e-6, 62.0e-3, 143e-6, 0.720},
	{950, 112.2e-6, 64.3e-3, 155e-6, 0.723},
	{1000, 121.9e-6, 66.7e-3, 168e-6, 0.726},
}

// DefaultAirTable returns the reference air table covering 100 K to 1000 K.
func DefaultAirTable() *AirTable {
	t, err := NewAirTable(referenceAir)
	if err != nil {
		panic(fmt.Sprintf("units: reference air table: %v", err))
	}
	return t
}

// NewAirTable fits interpolators over rows, which must be sorted by
// strictly increasing temperature.
func NewAirTable(rows []AirRow) (*AirTable, error) {
	if len(rows) < 2 {
		return nil, calc.Invalid("air", len(rows), "at least 2 rows")
	}
	n := len(rows)
	xs := make([]float64, n)
	nu := make([]float64, n)
	k := make([]float64, n)
	alpha := make([]float64, n)
	pr := make([]float64, n)
	for i, r := range rows {
		if i > 0 && r.Temperature <= rows[i-1].Temperature {
			return nil, calc.Invalid("air temperature", r.Temperature, "strictly increasing")
		}
		xs[i] = r.Temperature
		nu[i] = r.KinematicViscosity
		k[i] = r.Conductivity
		alpha[i] = r.Diffusivity
		pr[i] = r.Prandtl
	}

	t := &AirTable{min: xs[0], max: xs[n-1]}
	for _, fit := range []struct {
		pl *interp.PiecewiseLinear
		ys []float64
	}{
		{&t.nu, nu}, {&t.k, k}, {&t.alpha, alpha}, {&t.pr, pr},
	} {
		if err := fit.pl.Fit(xs, fit.ys); err != nil {
			return nil, fmt.Errorf("fitting air table: %w", err)
		}
	}
	return t, nil
}

// Range returns the temperature span covered by the table.
func (t *AirTable) Range() (min, max float64) { return t.min, t.max }

// At returns interpolated properties at temperature T (K).
func (t *AirTable) At(T float64) (AirProperties, error) {
	if T < t.min || T > t.max {
		return AirProperties{}, calc.Invalid("film temperature", T, fmt.Sprintf("%g..%g K", t.min, t.max))
	}
	return AirProperties{
		KinematicViscosity: t.nu.Predict(T),
		Conductivity:       t.k.Predict(T),
		Diffusivity:        t.alpha.Predict(T),
		Prandtl:            t.pr.Predict(T),
	}, nil
}
