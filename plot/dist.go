package plot

import (
	"fmt"
	"sort"

	"github.com/davin-cb/bayeslab/stats"
)

// Dist kinds.
const (
	DistAuto = "auto"
	DistKDE  = "kde"
	DistHist = "hist"
)

// DistOptions configures Dist. The zero value picks the kind from the data:
// histogram for whole-valued samples, density otherwise.
type DistOptions struct {
	// Kind is auto, kde, or hist.
	Kind string
	// Cumulative draws the running total instead of the density.
	Cumulative bool
	// Rug marks every sample value along the axis.
	Rug bool
	// Quantiles draws separators at the given cumulative fractions, each in
	// (0, 1).
	Quantiles []float64
	// BandwidthFactor tunes the density estimate, 0 for the default.
	BandwidthFactor float64
	// Points is the density grid resolution, 0 for the default.
	Points int

	Label string
	Color string
}

// Dist builds a single-panel distribution figure for a raw sample.
func Dist(values []float64, opts DistOptions) (*Figure, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("plot: dist needs a non-empty sample")
	}
	kind := opts.Kind
	switch kind {
	case "", DistAuto:
		kind = DistKDE
		if stats.WholeValued(values) {
			kind = DistHist
		}
	case DistKDE, DistHist:
	default:
		return nil, fmt.Errorf("%w: %q (valid: auto, kde, hist)", ErrKind, opts.Kind)
	}
	for _, q := range opts.Quantiles {
		if !(q > 0 && q < 1) {
			return nil, fmt.Errorf("plot: quantile must be in (0, 1), got %v", q)
		}
	}

	color := opts.Color
	if color == "" {
		color = colorAt(nil, 0)
	}
	panel := Panel{Title: opts.Label}
	switch kind {
	case DistHist:
		edges := stats.Bins(values)
		counts := stats.Histogram(values, edges)
		if opts.Cumulative {
			acc := 0.0
			for i, c := range counts {
				acc += c
				counts[i] = acc
			}
		}
		panel.Kind = KindHistogram
		for i, c := range counts {
			panel.Bars = append(panel.Bars, Bar{
				X:      edges[i],
				Width:  edges[i+1] - edges[i],
				Height: c,
				Color:  color,
			})
		}
	case DistKDE:
		xs, ys, err := stats.KDE(values, stats.KDEOptions{
			Points:          opts.Points,
			BandwidthFactor: opts.BandwidthFactor,
			Cumulative:      opts.Cumulative,
		})
		if err != nil {
			return nil, err
		}
		panel.Kind = KindDensity
		panel.Series = []Series{{Label: opts.Label, X: xs, Y: ys, Color: color}}
	}

	for _, q := range opts.Quantiles {
		panel.VLines = append(panel.VLines, stats.Quantile(values, q))
	}
	if opts.Rug {
		rug := append([]float64(nil), values...)
		sort.Float64s(rug)
		panel.Rug = rug
	}
	return &Figure{Rows: []PanelRow{{Panels: []Panel{panel}}}}, nil
}
