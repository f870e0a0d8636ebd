package plot

import (
	"fmt"
	"sort"

	"github.com/davin-cb/bayeslab/inference"
	"github.com/davin-cb/bayeslab/labeled"
	"github.com/davin-cb/bayeslab/stats"
)

// Divergence rug placements accepted by Trace.
const (
	DivergencesBottom = "bottom"
	DivergencesTop    = "top"
	DivergencesOff    = "off"
)

// TraceOptions configures Trace. The zero value plots every posterior
// variable, keeps chains separate, and marks divergences along the bottom of
// each trace panel.
type TraceOptions struct {
	// VarNames and Filter pick posterior variables via labeled.SelectNames.
	VarNames []string
	Filter   labeled.FilterMode
	// Coords restricts dimensions to the given coordinate labels.
	Coords map[string][]string
	// Combined pools all chains into a single series per panel.
	Combined bool
	// Compact keeps a multi-dimensional variable on one row, one series per
	// index combination, chains pooled.
	Compact bool
	// Divergences places the divergence rug: bottom, top, or off.
	Divergences string
	// Lines draws reference lines on the distribution panel at the given
	// values, keyed by variable name.
	Lines map[string][]float64
	// BandwidthFactor tunes the density estimate, 0 for the default.
	BandwidthFactor float64
	// Colors is the series color cycle.
	Colors []string
}

// member is one plotted draw sequence within a trace row.
type member struct {
	label string
	draws []float64
}

// Trace builds the two-column diagnostic figure: per variable slice, a
// distribution panel (histogram for whole-valued draws, density otherwise)
// beside the raw per-chain draw sequences.
func Trace(d *inference.Data, opts TraceOptions) (*Figure, []string, error) {
	switch opts.Divergences {
	case "", DivergencesBottom, DivergencesTop, DivergencesOff:
	default:
		return nil, nil, fmt.Errorf("%w: %q (valid: bottom, top, off)", ErrDivergences, opts.Divergences)
	}

	posterior, ok := d.Posterior()
	if !ok {
		return nil, nil, ErrNoPosterior
	}
	selected, warnings, err := labeled.SelectNames(opts.VarNames, []*labeled.Dataset{posterior}, opts.Filter)
	if err != nil {
		return nil, warnings, err
	}
	names := selected
	if names == nil {
		names = posterior.Names()
	}
	if len(opts.Coords) > 0 {
		posterior, err = posterior.Sel(opts.Coords)
		if err != nil {
			return nil, warnings, err
		}
	}

	var rug []float64
	if opts.Divergences != DivergencesOff {
		rug, err = divergenceDraws(d)
		if err != nil {
			return nil, warnings, err
		}
	}
	rugTop := opts.Divergences == DivergencesTop

	fig := &Figure{}
	for _, name := range names {
		a, ok := posterior.Get(name)
		if !ok {
			return nil, warnings, fmt.Errorf("%w: %s", labeled.ErrVarNotFound, name)
		}
		slices, err := stats.ChainSlices(a)
		if err != nil {
			return nil, warnings, err
		}

		var rows [][]member
		var titles []string
		if opts.Compact && len(slices) > 1 {
			members := make([]member, len(slices))
			for i, s := range slices {
				members[i] = member{label: s.Label, draws: pooled(s.Chains)}
			}
			rows = [][]member{members}
			titles = []string{name}
		} else {
			for _, s := range slices {
				rows = append(rows, rowMembers(s, opts.Combined))
				titles = append(titles, s.Label)
			}
		}

		for i, members := range rows {
			row, err := traceRow(titles[i], members, opts.Lines[name], rug, rugTop, opts)
			if err != nil {
				return nil, warnings, fmt.Errorf("plotting %s: %w", titles[i], err)
			}
			fig.Rows = append(fig.Rows, row)
		}
	}
	return fig, warnings, nil
}

func rowMembers(s stats.ChainSlice, combined bool) []member {
	if combined || len(s.Chains) == 1 {
		return []member{{label: s.Label, draws: pooled(s.Chains)}}
	}
	members := make([]member, len(s.Chains))
	for c, draws := range s.Chains {
		members[c] = member{label: fmt.Sprintf("chain %d", c), draws: draws}
	}
	return members
}

// traceRow assembles the distribution and trace panels for one row.
func traceRow(title string, members []member, lines, rug []float64, rugTop bool, opts TraceOptions) (PanelRow, error) {
	dist := Panel{Title: title, VLines: lines}
	all := make([]float64, 0, len(members)*len(members[0].draws))
	for _, m := range members {
		all = append(all, m.draws...)
	}
	if stats.WholeValued(all) {
		dist.Kind = KindHistogram
		edges := stats.Bins(all)
		counts := stats.Histogram(all, edges)
		for i, c := range counts {
			dist.Bars = append(dist.Bars, Bar{
				X:      edges[i],
				Width:  edges[i+1] - edges[i],
				Height: c,
				Color:  colorAt(opts.Colors, 0),
			})
		}
	} else {
		dist.Kind = KindDensity
		for i, m := range members {
			xs, ys, err := stats.KDE(m.draws, stats.KDEOptions{BandwidthFactor: opts.BandwidthFactor})
			if err != nil {
				return PanelRow{}, err
			}
			dist.Series = append(dist.Series, Series{
				Label: m.label,
				X:     xs,
				Y:     ys,
				Color: colorAt(opts.Colors, i),
			})
		}
	}

	trace := Panel{
		Kind:   KindLine,
		Title:  title,
		XLabel: "draw",
		Rug:    rug,
		RugTop: rugTop,
	}
	for i, m := range members {
		xs := make([]float64, len(m.draws))
		for t := range xs {
			xs[t] = float64(t)
		}
		trace.Series = append(trace.Series, Series{
			Label: m.label,
			X:     xs,
			Y:     m.draws,
			Color: colorAt(opts.Colors, i),
		})
	}
	return PanelRow{Panels: []Panel{dist, trace}}, nil
}

// divergenceDraws returns the draw indices at which any chain diverged, or
// nil when the result carries no divergence information.
func divergenceDraws(d *inference.Data) ([]float64, error) {
	ss, ok := d.Get(inference.GroupSampleStats)
	if !ok {
		return nil, nil
	}
	div, ok := ss.Get(inference.DivergingVar)
	if !ok {
		return nil, nil
	}
	slices, err := stats.ChainSlices(div)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]bool)
	var xs []float64
	for _, s := range slices {
		for _, chain := range s.Chains {
			for t, v := range chain {
				if v != 0 && !seen[t] {
					seen[t] = true
					xs = append(xs, float64(t))
				}
			}
		}
	}
	sort.Float64s(xs)
	return xs, nil
}

func pooled(chains [][]float64) []float64 {
	if len(chains) == 1 {
		return chains[0]
	}
	out := make([]float64, 0, len(chains)*len(chains[0]))
	for _, c := range chains {
		out = append(out, c...)
	}
	return out
}
