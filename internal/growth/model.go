// Package growth defines the primitives of the stochastic optimal growth
// model: preferences, technology, the state grid and the shock sample.
// Everything here is built once per experiment and treated as immutable by
// the operators and the fixed-point driver.
package growth

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Model bundles the primitives the Coleman operators need. Construct it
// with NewCobbDouglas (or fill the fields directly for a custom
// technology) and do not mutate it afterwards: the operators and any
// parallel workers read it concurrently.
type Model struct {
	// Beta is the discount factor, in (0,1).
	Beta float64

	// Utility supplies u, u' and (u')^-1.
	Utility Utility

	// F is the production function and FPrime its derivative. Both must
	// be defined and positive on (0,inf).
	F      func(k float64) float64
	FPrime func(k float64) float64

	// Grid is the fixed, strictly increasing, strictly positive grid the
	// operators work over. The exogenous operator reads it as income
	// states; the EGM operator reads it as capital (savings) points.
	Grid []float64
}

// NewCobbDouglas builds a Model with CRRA (or log) preferences and
// Cobb-Douglas technology f(k) = k^alpha on an evenly spaced grid of
// gridSize points over [gridMin, gridMax].
func NewCobbDouglas(beta, gamma, alpha, gridMin, gridMax float64, gridSize int) (*Model, error) {
	if beta <= 0 || beta >= 1 {
		return nil, fmt.Errorf("beta must lie in (0,1), got %v", beta)
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("alpha must lie in (0,1), got %v", alpha)
	}
	u, err := NewUtility(gamma)
	if err != nil {
		return nil, err
	}
	if gridMin <= 0 {
		return nil, fmt.Errorf("grid_min must be positive, got %v", gridMin)
	}
	if gridMax <= gridMin {
		return nil, fmt.Errorf("grid_max (%v) must exceed grid_min (%v)", gridMax, gridMin)
	}
	if gridSize < 2 {
		return nil, fmt.Errorf("grid_size must be at least 2, got %d", gridSize)
	}

	grid := make([]float64, gridSize)
	floats.Span(grid, gridMin, gridMax)

	return &Model{
		Beta:    beta,
		Utility: u,
		F:       CobbDouglasF(alpha),
		FPrime:  CobbDouglasFPrime(alpha),
		Grid:    grid,
	}, nil
}

// CobbDouglasF returns f(k) = k^alpha.
func CobbDouglasF(alpha float64) func(float64) float64 {
	return func(k float64) float64 { return math.Pow(k, alpha) }
}

// CobbDouglasFPrime returns f'(k) = alpha * k^(alpha-1).
func CobbDouglasFPrime(alpha float64) func(float64) float64 {
	return func(k float64) float64 { return alpha * math.Pow(k, alpha-1) }
}
