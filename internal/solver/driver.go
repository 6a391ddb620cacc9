// Package solver drives repeated application of a Coleman operator from an
// initial policy guess until convergence or an iteration budget runs out.
package solver

import (
	"fmt"

	"go.uber.org/zap"

	"growthegm/internal/coleman"
	"growthegm/internal/policy"
)

// Options controls the fixed-point iteration.
type Options struct {
	// MaxIterations bounds the number of operator applications. Must be
	// positive.
	MaxIterations int

	// Tolerance enables early stopping: when positive, the iteration
	// halts once the sup-norm distance between successive policies on
	// the reference grid drops below it. Zero disables the check and the
	// driver performs exactly MaxIterations applications, which is the
	// mode used to reproduce the reference figures.
	Tolerance float64

	// KeepHistory retains every intermediate policy in the result, for
	// convergence plots. Off by default; the final policy and the
	// distance trace are always kept.
	KeepHistory bool

	// Logger receives per-iteration debug records. Nil means no logging.
	Logger *zap.Logger
}

// Result reports the outcome of a fixed-point run.
type Result struct {
	// Policy is the final policy after the last applied iteration.
	Policy *policy.Policy

	// Iterations is the number of operator applications performed.
	Iterations int

	// Distances[t] is the sup-norm gap between the policies before and
	// after application t, measured on the reference grid.
	Distances []float64

	// Converged is true when the tolerance check triggered the stop.
	// In fixed-iteration mode it is always false; non-convergence is not
	// an error, the caller inspects Distances to judge the run.
	Converged bool

	// Evaluations is the total expected-marginal evaluation count
	// accumulated across all applications.
	Evaluations int

	// History holds the initial policy and every successor when
	// Options.KeepHistory is set, History[0] being the initial guess.
	History []*policy.Policy
}

// Run iterates op from initial. Distances are measured on refGrid, which
// should be the model grid (EGM policies live on shifting endogenous
// grids, so a fixed reference grid keeps the trace comparable across
// iterations and across operators). Operator errors propagate unchanged;
// the driver performs no retries and no fallback.
func Run(initial *policy.Policy, op coleman.Operator, refGrid []float64, opts Options) (*Result, error) {
	if initial == nil {
		return nil, fmt.Errorf("solver: nil initial policy")
	}
	if op == nil {
		return nil, fmt.Errorf("solver: nil operator")
	}
	if opts.MaxIterations <= 0 {
		return nil, fmt.Errorf("solver: max iterations must be positive, got %d", opts.MaxIterations)
	}
	if opts.Tolerance < 0 {
		return nil, fmt.Errorf("solver: tolerance must be non-negative, got %v", opts.Tolerance)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	res := &Result{
		Policy:    initial,
		Distances: make([]float64, 0, opts.MaxIterations),
	}
	if opts.KeepHistory {
		res.History = append(res.History, initial)
	}

	g := initial
	for t := 0; t < opts.MaxIterations; t++ {
		next, stats, err := op.Apply(g)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", t, err)
		}

		dist := policy.SupDistance(g, next, refGrid)
		res.Distances = append(res.Distances, dist)
		res.Evaluations += stats.Evaluations
		res.Iterations = t + 1
		res.Policy = next
		if opts.KeepHistory {
			res.History = append(res.History, next)
		}

		log.Debug("fixed-point iteration",
			zap.String("operator", op.Name()),
			zap.Int("iteration", t),
			zap.Float64("distance", dist),
			zap.Int("evaluations", stats.Evaluations))

		g = next

		if opts.Tolerance > 0 && dist < opts.Tolerance {
			res.Converged = true
			log.Info("fixed-point iteration converged",
				zap.String("operator", op.Name()),
				zap.Int("iterations", res.Iterations),
				zap.Float64("distance", dist))
			break
		}
	}
	return res, nil
}
