package plot

import "errors"

var (
	// ErrNoPosterior is returned when a builder needs posterior draws and
	// the result has none.
	ErrNoPosterior = errors.New("plot: result has no posterior group")
	// ErrKind is returned for a plot kind outside the valid set.
	ErrKind = errors.New("plot: unknown plot kind")
	// ErrDivergences is returned for a divergence placement outside
	// bottom, top, off.
	ErrDivergences = errors.New("plot: unknown divergences mode")
)
