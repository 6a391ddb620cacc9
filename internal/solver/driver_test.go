package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"growthegm/internal/coleman"
	"growthegm/internal/growth"
	"growthegm/internal/policy"
	"growthegm/internal/solver"
)

func defaultModel(t *testing.T) (*growth.Model, []float64) {
	t.Helper()
	m, err := growth.NewCobbDouglas(0.95, 1.0, 0.65, 0.1, 4, 150)
	require.NoError(t, err)
	shocks, err := growth.DrawShocks(250, 0, 0.1, 42)
	require.NoError(t, err)
	return m, shocks
}

// supErrorToAnalytic measures the gap between a policy and the known
// solution c*(y) = (1 - alpha*beta) y over the model grid.
func supErrorToAnalytic(p *policy.Policy, grid []float64) float64 {
	mpc := 1 - 0.65*0.95
	worst := 0.0
	for _, y := range grid {
		diff := p.Evaluate(y) - mpc*y
		if diff < 0 {
			diff = -diff
		}
		if diff > worst {
			worst = diff
		}
	}
	return worst
}

// Starting from the "eat everything" guess, 15 applications of either
// operator must march toward the analytic policy with shrinking error.
func TestConvergenceFromIdentity(t *testing.T) {
	m, shocks := defaultModel(t)

	operators := []coleman.Operator{
		&coleman.EGM{Model: m, Shocks: shocks},
		&coleman.Exogenous{Model: m, Shocks: shocks},
	}

	for _, op := range operators {
		initial, err := policy.Identity(m.Grid)
		require.NoError(t, err)

		res, err := solver.Run(initial, op, m.Grid, solver.Options{
			MaxIterations: 15,
			KeepHistory:   true,
		})
		require.NoError(t, err, op.Name())
		require.Equal(t, 15, res.Iterations, op.Name())
		require.Len(t, res.History, 16, op.Name())

		errs := make([]float64, len(res.History))
		for i, p := range res.History {
			errs[i] = supErrorToAnalytic(p, m.Grid)
		}
		for i := 1; i < len(errs); i++ {
			require.LessOrEqual(t, errs[i], errs[i-1]+1e-9,
				"%s: error grew at iteration %d: %v -> %v", op.Name(), i, errs[i-1], errs[i])
		}
		require.Less(t, errs[15], 0.2*errs[0],
			"%s: final error %v did not shrink enough from %v", op.Name(), errs[15], errs[0])
	}
}

func TestFixedIterationModeRunsExactly(t *testing.T) {
	m, shocks := defaultModel(t)
	initial, err := policy.Identity(m.Grid)
	require.NoError(t, err)

	op := &coleman.EGM{Model: m, Shocks: shocks}
	res, err := solver.Run(initial, op, m.Grid, solver.Options{MaxIterations: 7})
	require.NoError(t, err)

	require.Equal(t, 7, res.Iterations)
	require.Len(t, res.Distances, 7)
	require.False(t, res.Converged, "fixed-iteration mode never reports convergence")
	require.Nil(t, res.History, "history retained without KeepHistory")
	require.Equal(t, 7*len(m.Grid), res.Evaluations)
}

func TestToleranceModeStopsEarly(t *testing.T) {
	m, shocks := defaultModel(t)
	initial, err := policy.Identity(m.Grid)
	require.NoError(t, err)

	op := &coleman.EGM{Model: m, Shocks: shocks}
	res, err := solver.Run(initial, op, m.Grid, solver.Options{
		MaxIterations: 500,
		Tolerance:     1e-6,
	})
	require.NoError(t, err)

	require.True(t, res.Converged)
	require.Less(t, res.Iterations, 500, "tolerance stop should fire well before the budget")
	last := res.Distances[len(res.Distances)-1]
	require.Less(t, last, 1e-6)
}

func TestOperatorErrorPropagates(t *testing.T) {
	// A grid point below the bracket width makes the exogenous operator
	// fail; the driver must surface that error unchanged.
	m := &growth.Model{
		Beta:    0.95,
		Utility: growth.LogUtility{},
		F:       growth.CobbDouglasF(0.65),
		FPrime:  growth.CobbDouglasFPrime(0.65),
		Grid:    []float64{5e-11, 1, 2},
	}
	initial, err := policy.Identity([]float64{1, 2})
	require.NoError(t, err)

	op := &coleman.Exogenous{Model: m, Shocks: []float64{1}}
	_, err = solver.Run(initial, op, m.Grid, solver.Options{MaxIterations: 5})
	require.Error(t, err)
	var rnb *coleman.RootNotBracketedError
	require.ErrorAs(t, err, &rnb)
}

func TestRunValidation(t *testing.T) {
	m, shocks := defaultModel(t)
	initial, err := policy.Identity(m.Grid)
	require.NoError(t, err)
	op := &coleman.EGM{Model: m, Shocks: shocks}

	_, err = solver.Run(nil, op, m.Grid, solver.Options{MaxIterations: 1})
	require.Error(t, err)

	_, err = solver.Run(initial, nil, m.Grid, solver.Options{MaxIterations: 1})
	require.Error(t, err)

	_, err = solver.Run(initial, op, m.Grid, solver.Options{MaxIterations: 0})
	require.Error(t, err)

	_, err = solver.Run(initial, op, m.Grid, solver.Options{MaxIterations: 1, Tolerance: -1})
	require.Error(t, err)
}
