package calc

import "math"

// Checker accumulates the first field error found while checking a record.
// Checks after the first failure are no-ops, so a record can be checked in
// one straight run and the error read once at the end.
type Checker struct {
	err error
}

// Err returns the first failure, or nil.
func (c *Checker) Err() error { return c.err }

func (c *Checker) fail(field string, v any, expected string) {
	if c.err == nil {
		c.err = Invalid(field, v, expected)
	}
}

// Finite requires v to be a finite number.
func (c *Checker) Finite(field string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		c.fail(field, v, "finite number")
	}
}

// Positive requires v > 0.
func (c *Checker) Positive(field string, v float64) {
	c.Finite(field, v)
	if c.err == nil && v <= 0 {
		c.fail(field, v, "> 0")
	}
}

// NonNegative requires v >= 0.
func (c *Checker) NonNegative(field string, v float64) {
	c.Finite(field, v)
	if c.err == nil && v < 0 {
		c.fail(field, v, ">= 0")
	}
}

// Fraction requires 0 < v <= 1.
func (c *Checker) Fraction(field string, v float64) {
	c.Finite(field, v)
	if c.err == nil && (v <= 0 || v > 1) {
		c.fail(field, v, "in (0, 1]")
	}
}

// Percent requires 0 < v <= 100.
func (c *Checker) Percent(field string, v float64) {
	c.Finite(field, v)
	if c.err == nil && (v <= 0 || v > 100) {
		c.fail(field, v, "in (0, 100]")
	}
}

// Count requires a positive integer count.
func (c *Checker) Count(field string, n int) {
	if c.err == nil && n < 1 {
		c.fail(field, n, ">= 1")
	}
}

// Present requires a payload pointer to be non-nil.
func (c *Checker) Present(field string, present bool) {
	if c.err == nil && !present {
		c.fail(field, nil, "payload for the selected method")
	}
}
