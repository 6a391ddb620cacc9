package coleman

import (
	"fmt"
	"sync"

	"growthegm/internal/growth"
	"growthegm/internal/policy"
)

// Default numerical knobs for the root-search at each grid point.
const (
	// DefaultBracketDelta shrinks the feasible consumption range (0, y)
	// to (delta, y-delta) so the objective is evaluated strictly inside
	// the domain of u'.
	DefaultBracketDelta = 1e-10

	// DefaultBracketTol is the bracket-width tolerance of the bisection.
	DefaultBracketTol = 1e-12

	// DefaultMaxBisect bounds the bisection steps per grid point.
	DefaultMaxBisect = 100
)

// Exogenous is the standard Coleman operator on a fixed, exogenous grid of
// income states. At every grid point y it solves
//
//	u'(c) = beta * E_z[ u'(g(f(y-c) z)) f'(y-c) z ]
//
// for c in (delta, y-delta) by bisection. The objective is strictly
// decreasing in c (u'(c) falls, the right side rises as savings shrink),
// so the bracketed search is guaranteed a unique root for feasible
// parameters.
type Exogenous struct {
	Model  *growth.Model
	Shocks []float64

	// BracketDelta, BracketTol and MaxBisect default to the package
	// constants when zero.
	BracketDelta float64
	BracketTol   float64
	MaxBisect    int

	// Workers > 1 splits the grid loop over that many goroutines. Grid
	// points are independent within one application (each is a pure
	// function of the previous policy), so workers share the immutable
	// inputs and write to disjoint output slots. Results are identical
	// to the sequential path.
	Workers int
}

func (op *Exogenous) Name() string { return "exogenous" }

// pointResult carries one grid point's update back from a worker.
type pointResult struct {
	idx   int
	c     float64
	evals int
	err   error
}

// Apply produces the updated policy Kg on the model grid.
func (op *Exogenous) Apply(g *policy.Policy) (*policy.Policy, Stats, error) {
	if err := op.validate(); err != nil {
		return nil, Stats{}, err
	}

	grid := op.Model.Grid
	consumption := make([]float64, len(grid))

	var stats Stats
	if op.Workers > 1 {
		s, err := op.applyParallel(g, consumption)
		if err != nil {
			return nil, Stats{}, err
		}
		stats = s
	} else {
		scratch := make([]float64, len(op.Shocks))
		for i, y := range grid {
			c, evals, err := op.solvePoint(g, y, scratch)
			if err != nil {
				return nil, Stats{}, fmt.Errorf("grid point %d (y=%v): %w", i, y, err)
			}
			consumption[i] = c
			stats.Evaluations += evals
		}
	}

	kg, err := policy.New(grid, consumption)
	if err != nil {
		return nil, Stats{}, err
	}
	return kg, stats, nil
}

// solvePoint finds the consumption at a single income state y. Every
// bisection step evaluates the expected-marginal term once, so the
// returned count is the number of shock-sample sweeps spent on the point.
func (op *Exogenous) solvePoint(g *policy.Policy, y float64, scratch []float64) (float64, int, error) {
	delta := op.BracketDelta
	lo, hi := delta, y-delta
	if hi <= lo {
		// y is too close to zero to leave room for an interior bracket.
		return 0, 0, &RootNotBracketedError{Lo: lo, Hi: hi}
	}

	h := func(c float64) float64 {
		return op.Model.Utility.Marginal(c) - expectedMarginal(op.Model, g, op.Shocks, y-c, scratch)
	}
	return bisect(h, lo, hi, op.BracketTol, op.MaxBisect)
}

// applyParallel runs the grid loop on op.Workers goroutines, following the
// jobs-channel worker-pool shape: each worker owns its scratch buffer,
// pulls grid indices, and reports per-point results; the aggregator fills
// the disjoint output slots. On error the lowest-index failure is
// returned, matching what the sequential loop would surface.
func (op *Exogenous) applyParallel(g *policy.Policy, consumption []float64) (Stats, error) {
	grid := op.Model.Grid
	workers := op.Workers
	if workers > len(grid) {
		workers = len(grid)
	}

	jobs := make(chan int)
	results := make(chan pointResult, len(grid))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			scratch := make([]float64, len(op.Shocks))
			for i := range jobs {
				c, evals, err := op.solvePoint(g, grid[i], scratch)
				results <- pointResult{idx: i, c: c, evals: evals, err: err}
			}
		}()
	}

	go func() {
		for i := range grid {
			jobs <- i
		}
		close(jobs)
	}()

	var stats Stats
	firstErr := -1
	var errAt error
	for range grid {
		r := <-results
		if r.err != nil {
			if firstErr < 0 || r.idx < firstErr {
				firstErr = r.idx
				errAt = fmt.Errorf("grid point %d (y=%v): %w", r.idx, grid[r.idx], r.err)
			}
			continue
		}
		consumption[r.idx] = r.c
		stats.Evaluations += r.evals
	}
	wg.Wait()
	close(results)

	if errAt != nil {
		return Stats{}, errAt
	}
	return stats, nil
}

func (op *Exogenous) validate() error {
	if op.Model == nil {
		return fmt.Errorf("coleman: nil model")
	}
	if len(op.Shocks) == 0 {
		return fmt.Errorf("coleman: empty shock sample")
	}
	if op.BracketDelta == 0 {
		op.BracketDelta = DefaultBracketDelta
	}
	if op.BracketDelta < 0 {
		return fmt.Errorf("coleman: negative bracket delta %v", op.BracketDelta)
	}
	if op.BracketTol == 0 {
		op.BracketTol = DefaultBracketTol
	}
	if op.MaxBisect == 0 {
		op.MaxBisect = DefaultMaxBisect
	}
	return nil
}
