package growth

import (
	"fmt"
	"math"
)

// Utility is the preference side of the growth model. The solver only ever
// needs the marginal utility and its inverse: the Euler equation is stated
// in marginals, and the endogenous-grid step relies on Marginal being a
// bijection from (0,inf) onto (0,inf) with MarginalInv as its inverse.
type Utility interface {
	// U returns the utility of consuming c > 0.
	U(c float64) float64
	// Marginal returns u'(c).
	Marginal(c float64) float64
	// MarginalInv returns the c solving u'(c) = m, for m > 0.
	MarginalInv(m float64) float64
}

// LogUtility is the gamma = 1 limit of CRRA preferences: u(c) = log(c).
type LogUtility struct{}

func (LogUtility) U(c float64) float64 { return math.Log(c) }

func (LogUtility) Marginal(c float64) float64 { return 1 / c }

func (LogUtility) MarginalInv(m float64) float64 { return 1 / m }

// CRRAUtility is constant-relative-risk-aversion utility with curvature
// Gamma > 0, Gamma != 1: u(c) = (c^(1-gamma) - 1) / (1 - gamma).
type CRRAUtility struct {
	Gamma float64
}

func (p CRRAUtility) U(c float64) float64 {
	return (math.Pow(c, 1-p.Gamma) - 1) / (1 - p.Gamma)
}

func (p CRRAUtility) Marginal(c float64) float64 {
	return math.Pow(c, -p.Gamma)
}

func (p CRRAUtility) MarginalInv(m float64) float64 {
	return math.Pow(m, -1/p.Gamma)
}

// NewUtility selects the utility variant for a curvature parameter.
// The log/power split happens exactly once, here, so the operators never
// branch on gamma inside their grid loops.
func NewUtility(gamma float64) (Utility, error) {
	if gamma <= 0 || math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return nil, fmt.Errorf("gamma must be a positive finite number, got %v", gamma)
	}
	if gamma == 1 {
		return LogUtility{}, nil
	}
	return CRRAUtility{Gamma: gamma}, nil
}
