package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChicagoDave/auditcalc/pkg/calc"
)

type sample struct {
	Use  float64
	Cost float64
}

func (s sample) Add(o sample) sample {
	return sample{Use: s.Use + o.Use, Cost: s.Cost + o.Cost}
}

func double(v float64) (sample, error) {
	if v < 0 {
		return sample{}, calc.Invalid("v", v, ">= 0")
	}
	return sample{Use: 2 * v, Cost: v / 10}, nil
}

func TestRunSumsInOrder(t *testing.T) {
	total, each, err := Run(context.Background(), []float64{1, 2, 3}, double, Options{})
	require.NoError(t, err)
	assert.Equal(t, sample{Use: 12, Cost: 0.6000000000000001}, total)
	assert.Len(t, each, 3)
	assert.Equal(t, sample{Use: 4, Cost: 0.2}, each[1])
}

func TestRunParallelMatchesSequential(t *testing.T) {
	entries := make([]float64, 200)
	for i := range entries {
		entries[i] = float64(i) * 0.37
	}
	seq, _, err := Run(context.Background(), entries, double, Options{Workers: 1})
	require.NoError(t, err)
	par, _, err := Run(context.Background(), entries, double, Options{Workers: 8})
	require.NoError(t, err)
	assert.Equal(t, seq, par, "fold order must not depend on worker count")
}

func TestRunAdditivity(t *testing.T) {
	a, _, err := Run(context.Background(), []float64{4.5}, double, Options{})
	require.NoError(t, err)
	b, _, err := Run(context.Background(), []float64{7.25}, double, Options{})
	require.NoError(t, err)
	ab, _, err := Run(context.Background(), []float64{4.5, 7.25}, double, Options{})
	require.NoError(t, err)
	assert.Equal(t, a.Add(b), ab)
}

func TestRunEmpty(t *testing.T) {
	_, _, err := Run(context.Background(), nil, double, Options{})
	assert.ErrorIs(t, err, calc.ErrInvalidInput)
}

func TestRunReportsLowestFailingEntry(t *testing.T) {
	for _, workers := range []int{0, 4} {
		_, _, err := Run(context.Background(), []float64{1, -1, 2, -2}, double, Options{Workers: workers})
		var ee *calc.IndexError
		require.True(t, errors.As(err, &ee), "workers=%d: got %v", workers, err)
		assert.Equal(t, 1, ee.Index)
		assert.ErrorIs(t, err, calc.ErrInvalidInput)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Run(ctx, []float64{1, 2}, double, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	_, _, err = Run(ctx, []float64{1, 2}, double, Options{Workers: 2})
	assert.ErrorIs(t, err, context.Canceled)
}
