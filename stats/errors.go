package stats

import "errors"

var (
	// ErrCredibleInterval reports an interval probability outside (0, 1].
	ErrCredibleInterval = errors.New("stats: credible interval must be in the interval (0, 1]")

	// ErrChains reports chain input unsuitable for a diagnostic.
	ErrChains = errors.New("stats: diagnostic requires chains of equal length with at least four draws")

	// ErrGewekeInterval reports first/last fractions outside (0, 1) or
	// overlapping ones.
	ErrGewekeInterval = errors.New("stats: geweke first and last fractions must lie in (0, 1) and sum below 1")

	// ErrGewekeSpan reports too few intervals or draws to place them.
	ErrGewekeSpan = errors.New("stats: geweke needs at least two intervals and enough draws to fill them")

	// ErrNoSpread reports a sample whose values are all equal or too few to
	// estimate a density.
	ErrNoSpread = errors.New("stats: sample needs at least two distinct finite values")
)
