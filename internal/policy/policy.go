// Package policy represents a consumption policy function as a finite grid
// of (state, consumption) knots with piecewise-linear interpolation and
// linear extrapolation. A Policy is immutable once constructed: the
// Coleman operators read the previous iteration's policy and build a
// fresh one, so policies are safe to share across parallel workers.
package policy

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// InvalidGridError reports a malformed knot grid: too short, not strictly
// increasing, or carrying non-positive consumption values. It is raised at
// construction time and never recovered automatically; the caller must fix
// its configuration.
type InvalidGridError struct {
	Reason string
}

func (e *InvalidGridError) Error() string {
	return "policy: invalid grid: " + e.Reason
}

// Policy is a piecewise-linear consumption policy g: (0,inf) -> R sampled
// at strictly increasing abscissas xs with values cs.
type Policy struct {
	xs []float64
	cs []float64
}

// New builds a Policy from knot arrays. It requires equal lengths of at
// least 2, strictly increasing xs and strictly positive cs, and copies
// both slices so later mutation of the inputs cannot alias the policy.
func New(xs, cs []float64) (*Policy, error) {
	if len(xs) != len(cs) {
		return nil, &InvalidGridError{
			Reason: fmt.Sprintf("xs has %d knots but cs has %d", len(xs), len(cs)),
		}
	}
	if len(xs) < 2 {
		return nil, &InvalidGridError{
			Reason: fmt.Sprintf("need at least 2 knots, got %d", len(xs)),
		}
	}
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, &InvalidGridError{Reason: fmt.Sprintf("xs[%d] = %v is not finite", i, x)}
		}
		if i > 0 && x <= xs[i-1] {
			return nil, &InvalidGridError{
				Reason: fmt.Sprintf("xs not strictly increasing at index %d (%v after %v)", i, x, xs[i-1]),
			}
		}
	}
	for i, c := range cs {
		if !(c > 0) || math.IsInf(c, 0) {
			return nil, &InvalidGridError{Reason: fmt.Sprintf("cs[%d] = %v, consumption must be positive and finite", i, c)}
		}
	}

	p := &Policy{
		xs: make([]float64, len(xs)),
		cs: make([]float64, len(cs)),
	}
	copy(p.xs, xs)
	copy(p.cs, cs)
	return p, nil
}

// Identity returns the "eat everything" policy g(y) = y sampled on grid,
// the conventional initial guess for the fixed-point iteration.
func Identity(grid []float64) (*Policy, error) {
	return New(grid, grid)
}

// Evaluate returns the policy value at x: linear interpolation between the
// bracketing knots, or linear extrapolation with the boundary segment's
// slope when x lies outside the sampled range. It is defined and finite
// for every finite x and never errors.
func (p *Policy) Evaluate(x float64) float64 {
	n := len(p.xs)

	// sort.SearchFloat64s returns the first index with xs[i] >= x.
	i := sort.SearchFloat64s(p.xs, x)
	switch {
	case i == 0:
		i = 1 // extrapolate with the first segment
	case i == n:
		i = n - 1 // extrapolate with the last segment
	}

	x0, x1 := p.xs[i-1], p.xs[i]
	c0, c1 := p.cs[i-1], p.cs[i]
	slope := (c1 - c0) / (x1 - x0)
	return c0 + slope*(x-x0)
}

// Len returns the number of knots.
func (p *Policy) Len() int { return len(p.xs) }

// Grid returns a copy of the knot abscissas.
func (p *Policy) Grid() []float64 {
	out := make([]float64, len(p.xs))
	copy(out, p.xs)
	return out
}

// Values returns a copy of the knot consumption values.
func (p *Policy) Values() []float64 {
	out := make([]float64, len(p.cs))
	copy(out, p.cs)
	return out
}

// Sample evaluates the policy at every point of grid.
func (p *Policy) Sample(grid []float64) []float64 {
	out := make([]float64, len(grid))
	for i, x := range grid {
		out[i] = p.Evaluate(x)
	}
	return out
}

// SupDistance returns the maximum absolute gap between two policies
// sampled on a common reference grid. The fixed-point driver uses it as
// its convergence metric.
func SupDistance(a, b *Policy, grid []float64) float64 {
	if len(grid) == 0 {
		return 0
	}
	return floats.Distance(a.Sample(grid), b.Sample(grid), math.Inf(1))
}
