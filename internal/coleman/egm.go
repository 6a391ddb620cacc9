package coleman

import (
	"fmt"
	"sort"

	"growthegm/internal/growth"
	"growthegm/internal/policy"
)

// EGM is the endogenous-grid-method variant of the Coleman operator. The
// model grid is read as capital (post-decision savings) points. For each
// k the operator computes the discounted expected marginal value m of
// saving k, inverts marginal utility in closed form to get consumption
// c = (u')^-1(m), and reconstructs the income state y = k + c at which
// that consumption is optimal. No root-finding is involved, which is the
// method's decisive cost advantage over Exogenous.
//
// Applicability rests on u' being a bijection from (0,inf) onto (0,inf);
// both utility variants in growth satisfy this.
type EGM struct {
	Model  *growth.Model
	Shocks []float64
}

func (op *EGM) Name() string { return "egm" }

// Apply produces the updated policy on the endogenous income grid
// {k_i + c_i}. The pairs are sorted by income before the policy is built:
// monotonicity of y in k holds under standard assumptions but is not
// assumed here, and any ties or non-finite points surface as an
// InvalidGridError from the policy constructor.
func (op *EGM) Apply(g *policy.Policy) (*policy.Policy, Stats, error) {
	if op.Model == nil {
		return nil, Stats{}, fmt.Errorf("coleman: nil model")
	}
	if len(op.Shocks) == 0 {
		return nil, Stats{}, fmt.Errorf("coleman: empty shock sample")
	}

	grid := op.Model.Grid
	u := op.Model.Utility

	incomes := make([]float64, len(grid))
	consumption := make([]float64, len(grid))
	scratch := make([]float64, len(op.Shocks))

	for i, k := range grid {
		m := expectedMarginal(op.Model, g, op.Shocks, k, scratch)
		c := u.MarginalInv(m)
		incomes[i] = k + c
		consumption[i] = c
	}

	sort.Sort(byIncome{incomes, consumption})

	kg, err := policy.New(incomes, consumption)
	if err != nil {
		return nil, Stats{}, err
	}
	return kg, Stats{Evaluations: len(grid)}, nil
}

// byIncome sorts the (income, consumption) pairs in lockstep.
type byIncome struct {
	y []float64
	c []float64
}

func (s byIncome) Len() int           { return len(s.y) }
func (s byIncome) Less(i, j int) bool { return s.y[i] < s.y[j] }
func (s byIncome) Swap(i, j int) {
	s.y[i], s.y[j] = s.y[j], s.y[i]
	s.c[i], s.c[j] = s.c[j], s.c[i]
}
