package insulation

import (
	"math"

	"github.com/ChicagoDave/auditcalc/pkg/units"
)

// surface is an outer surface exposed to ambient air.
type surface struct {
	c          *units.Constants
	ambient    float64 // K
	wind       float64 // m/s
	emissivity float64
}

// film holds air properties at the mean of surface and ambient temperature
// and the Rayleigh number for a characteristic length.
type film struct {
	air      units.AirProperties
	rayleigh float64
}

func (s surface) film(Ts, length float64) (film, error) {
	Tf := (Ts + s.ambient) / 2
	air, err := s.c.Air.At(Tf)
	if err != nil {
		return film{}, err
	}
	beta := 1 / Tf
	ra := s.c.Gravity * beta * math.Abs(Ts-s.ambient) * math.Pow(length, 3) /
		(air.KinematicViscosity * air.Diffusivity)
	return film{air: air, rayleigh: ra}, nil
}

// radiation is the linearised radiative coefficient to surroundings at
// ambient temperature.
func (s surface) radiation(Ts float64) float64 {
	Ta := s.ambient
	return s.emissivity * s.c.StefanBoltzmann * (Ts*Ts + Ta*Ta) * (Ts + Ta)
}

// cylinder returns the combined convective and radiative coefficient of a
// horizontal cylinder of outer diameter D at surface temperature Ts.
func (s surface) cylinder(Ts, D float64) (float64, error) {
	f, err := s.film(Ts, D)
	if err != nil {
		return 0, err
	}
	nu := naturalCylinder(f.rayleigh, f.air.Prandtl)
	if s.wind > 0 {
		re := s.wind * D / f.air.KinematicViscosity
		forced := forcedCylinder(re, f.air.Prandtl)
		n := s.c.MixedConvectionExponent
		nu = math.Pow(math.Pow(forced, n)+math.Pow(nu, n), 1/n)
	}
	return nu*f.air.Conductivity/D + s.radiation(Ts), nil
}

// wall returns the coefficient of a vertical wall of the given height.
func (s surface) wall(Ts, height float64) (float64, error) {
	f, err := s.film(Ts, height)
	if err != nil {
		return 0, err
	}
	nu := naturalVertical(f.rayleigh, f.air.Prandtl)
	return nu*f.air.Conductivity/height + s.radiation(Ts), nil
}

// plate returns the coefficient of a horizontal disc of diameter D. upper
// selects the face looking up.
func (s surface) plate(Ts, D float64, upper bool) (float64, error) {
	length := D / 4 // area over perimeter
	f, err := s.film(Ts, length)
	if err != nil {
		return 0, err
	}
	// A warm face looking up and a cool face looking down both drive a
	// plume away from the plate.
	rising := upper == (Ts >= s.ambient)
	var nu float64
	switch {
	case rising && f.rayleigh <= 1e7:
		nu = 0.54 * math.Pow(f.rayleigh, 0.25)
	case rising:
		nu = 0.15 * math.Cbrt(f.rayleigh)
	default:
		nu = 0.52 * math.Pow(f.rayleigh, 0.2)
	}
	return nu*f.air.Conductivity/length + s.radiation(Ts), nil
}

// Churchill and Bernstein, cross flow over a cylinder.
func forcedCylinder(re, pr float64) float64 {
	return 0.3 + 0.62*math.Sqrt(re)*math.Cbrt(pr)/
		math.Pow(1+math.Pow(0.4/pr, 2.0/3), 0.25)*
		math.Pow(1+math.Pow(re/282000, 5.0/8), 4.0/5)
}

// Churchill and Chu, horizontal cylinder.
func naturalCylinder(ra, pr float64) float64 {
	v := 0.6 + 0.387*math.Pow(ra, 1.0/6)/math.Pow(1+math.Pow(0.559/pr, 9.0/16), 8.0/27)
	return v * v
}

// Churchill and Chu, vertical plate.
func naturalVertical(ra, pr float64) float64 {
	v := 0.825 + 0.387*math.Pow(ra, 1.0/6)/math.Pow(1+math.Pow(0.492/pr, 9.0/16), 8.0/27)
	return v * v
}
