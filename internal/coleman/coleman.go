// Package coleman implements the two policy-update operators of the
// stochastic optimal growth model: the standard exogenous-grid Coleman
// operator, which solves the consumption Euler equation by bracketed
// root-finding at every grid point, and the endogenous-grid-method (EGM)
// variant, which inverts marginal utility in closed form instead.
//
// Both operators are pure functions of (previous policy, model, shock
// sample): the shock sample is drawn once per experiment and passed in
// explicitly, so repeated applications are deterministic and the two
// operators are directly comparable.
package coleman

import (
	"gonum.org/v1/gonum/stat"

	"growthegm/internal/growth"
	"growthegm/internal/policy"
)

// Stats reports the work done by one operator application.
type Stats struct {
	// Evaluations counts scalar evaluations of the discounted expected
	// marginal value, each of which averages over the full shock sample.
	// This is the cost metric that separates the two operators: EGM
	// spends exactly one evaluation per grid point, the exogenous
	// operator spends several per root-search.
	Evaluations int
}

// Operator is one application of a policy-update rule. Apply reads the
// previous iteration's policy and returns its successor; it never mutates
// its input.
type Operator interface {
	Apply(g *policy.Policy) (*policy.Policy, Stats, error)
	Name() string
}

// expectedMarginal computes beta * E_z[ u'(g(f(k) z)) f'(k) z ], the
// discounted expected marginal value of entering next period with savings
// k under continuation policy g. scratch must have len(shocks) entries and
// is overwritten; callers reuse it across grid points to avoid
// re-allocating in the hot loop.
func expectedMarginal(m *growth.Model, g *policy.Policy, shocks []float64, k float64, scratch []float64) float64 {
	fk := m.F(k)
	fpk := m.FPrime(k)
	for i, z := range shocks {
		scratch[i] = m.Utility.Marginal(g.Evaluate(fk*z)) * fpk * z
	}
	return m.Beta * stat.Mean(scratch, nil)
}
