package coleman

import "fmt"

// RootNotBracketedError reports that the Euler objective has no sign
// change over the consumption bracket at some grid point. It indicates
// infeasible or numerically degenerate model parameters and is never
// retried: it propagates to the caller as a configuration problem.
type RootNotBracketedError struct {
	Lo, Hi   float64
	FLo, FHi float64
}

func (e *RootNotBracketedError) Error() string {
	return fmt.Sprintf("coleman: no sign change on bracket [%v, %v] (f(lo)=%v, f(hi)=%v)",
		e.Lo, e.Hi, e.FLo, e.FHi)
}

// bisect finds a root of f on [lo, hi] by bisection. The Euler objective
// is strictly monotone in consumption under the maintained curvature
// assumptions, so a sign change over the bracket pins down a unique root.
// It returns the root, the number of function evaluations spent, and a
// RootNotBracketedError when the endpoint values share a sign. The
// iterate never leaves the bracket, so the search stays inside the
// feasible consumption range (0, y).
func bisect(f func(float64) float64, lo, hi, tol float64, maxIter int) (float64, int, error) {
	flo := f(lo)
	fhi := f(hi)
	evals := 2

	if flo == 0 {
		return lo, evals, nil
	}
	if fhi == 0 {
		return hi, evals, nil
	}
	if (flo > 0) == (fhi > 0) {
		return 0, evals, &RootNotBracketedError{Lo: lo, Hi: hi, FLo: flo, FHi: fhi}
	}

	for i := 0; i < maxIter && hi-lo > tol; i++ {
		mid := lo + 0.5*(hi-lo)
		fmid := f(mid)
		evals++

		if fmid == 0 {
			return mid, evals, nil
		}
		if (fmid > 0) == (flo > 0) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return lo + 0.5*(hi-lo), evals, nil
}
