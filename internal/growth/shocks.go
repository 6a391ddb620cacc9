package growth

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// DrawShocks draws a fixed sample of n multiplicative productivity shocks
// from a lognormal distribution with location mu and scale sigma.
//
// The sample is drawn once per experiment and reused identically across
// every grid point and every iteration: both operators are deterministic
// functions of (policy, model, shocks), which is what makes the
// exogenous-grid and EGM runs directly comparable.
func DrawShocks(n int, mu, sigma float64, seed uint64) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("shock sample size must be positive, got %d", n)
	}
	if sigma < 0 {
		return nil, fmt.Errorf("shock sigma must be non-negative, got %v", sigma)
	}

	dist := distuv.LogNormal{
		Mu:    mu,
		Sigma: sigma,
		Src:   rand.NewSource(seed),
	}

	shocks := make([]float64, n)
	for i := range shocks {
		shocks[i] = dist.Rand()
	}
	return shocks, nil
}
