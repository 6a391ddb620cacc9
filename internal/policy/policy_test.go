package policy

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func mustPolicy(t *testing.T, xs, cs []float64) *Policy {
	t.Helper()
	p, err := New(xs, cs)
	if err != nil {
		t.Fatalf("New(%v, %v): %v", xs, cs, err)
	}
	return p
}

func TestNewRejectsMalformedGrids(t *testing.T) {
	cases := []struct {
		name string
		xs   []float64
		cs   []float64
	}{
		{"decreasing xs", []float64{3, 2, 1}, []float64{1, 1, 1}},
		{"duplicate xs", []float64{1, 2, 2, 3}, []float64{1, 1, 1, 1}},
		{"single knot", []float64{1}, []float64{1}},
		{"empty", nil, nil},
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}},
		{"zero consumption", []float64{1, 2}, []float64{1, 0}},
		{"negative consumption", []float64{1, 2}, []float64{-1, 1}},
		{"NaN consumption", []float64{1, 2}, []float64{1, math.NaN()}},
		{"NaN abscissa", []float64{1, math.NaN()}, []float64{1, 1}},
	}
	for _, tc := range cases {
		_, err := New(tc.xs, tc.cs)
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		var ige *InvalidGridError
		if !errors.As(err, &ige) {
			t.Errorf("%s: error %v is not an InvalidGridError", tc.name, err)
		}
	}
}

func TestNewAcceptsValidGrid(t *testing.T) {
	p, err := New([]float64{0.5, 1, 2}, []float64{0.25, 0.5, 1})
	if err != nil {
		t.Fatalf("valid grid rejected: %v", err)
	}
	if p.Len() != 3 {
		t.Errorf("Len = %d, want 3", p.Len())
	}
}

func TestNewCopiesInputs(t *testing.T) {
	xs := []float64{1, 2, 3}
	cs := []float64{1, 2, 3}
	p := mustPolicy(t, xs, cs)

	xs[1] = 100
	cs[1] = 100
	if got := p.Evaluate(2); !almostEqual(got, 2, 1e-15) {
		t.Errorf("policy aliased its inputs: Evaluate(2) = %v after mutation", got)
	}
}

func TestEvaluateInterpolates(t *testing.T) {
	// Knots of c(y) = 2y: interpolation of a linear function is exact.
	p := mustPolicy(t, []float64{1, 2, 4}, []float64{2, 4, 8})

	for _, x := range []float64{1, 1.5, 2, 3, 3.99, 4} {
		if got := p.Evaluate(x); !almostEqual(got, 2*x, 1e-12) {
			t.Errorf("Evaluate(%v) = %v, want %v", x, got, 2*x)
		}
	}
}

func TestEvaluateExtrapolatesWithBoundarySlope(t *testing.T) {
	// Left segment slope 1, right segment slope 3.
	p := mustPolicy(t, []float64{1, 2, 3}, []float64{1, 2, 5})

	if got := p.Evaluate(0.5); !almostEqual(got, 0.5, 1e-12) {
		t.Errorf("left extrapolation: Evaluate(0.5) = %v, want 0.5", got)
	}
	if got := p.Evaluate(5); !almostEqual(got, 11, 1e-12) {
		t.Errorf("right extrapolation: Evaluate(5) = %v, want 11", got)
	}
	// Extrapolated values stay finite arbitrarily far out.
	if got := p.Evaluate(1e6); math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("Evaluate(1e6) = %v, want finite", got)
	}
}

func TestIdentity(t *testing.T) {
	grid := []float64{0.5, 1, 2, 4}
	p, err := Identity(grid)
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	for _, x := range []float64{0.1, 0.5, 1.7, 4, 9} {
		if got := p.Evaluate(x); !almostEqual(got, x, 1e-12) {
			t.Errorf("Identity.Evaluate(%v) = %v", x, got)
		}
	}
}

func TestSupDistance(t *testing.T) {
	a := mustPolicy(t, []float64{1, 2, 3}, []float64{1, 2, 3})
	b := mustPolicy(t, []float64{1, 2, 3}, []float64{1.5, 2, 2.75})

	grid := []float64{1, 2, 3}
	if got := SupDistance(a, b, grid); !almostEqual(got, 0.5, 1e-12) {
		t.Errorf("SupDistance = %v, want 0.5", got)
	}
	if got := SupDistance(a, a, grid); got != 0 {
		t.Errorf("SupDistance(a,a) = %v, want 0", got)
	}
}

func TestAccessorsCopy(t *testing.T) {
	p := mustPolicy(t, []float64{1, 2}, []float64{3, 4})
	g := p.Grid()
	g[0] = 100
	if p.Grid()[0] != 1 {
		t.Error("Grid() exposed internal storage")
	}
	v := p.Values()
	v[0] = 100
	if p.Values()[0] != 3 {
		t.Error("Values() exposed internal storage")
	}
}
