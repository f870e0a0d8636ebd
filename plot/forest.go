package plot

import (
	"fmt"

	"github.com/davin-cb/bayeslab/compute"
	"github.com/davin-cb/bayeslab/inference"
	"github.com/davin-cb/bayeslab/labeled"
	"github.com/davin-cb/bayeslab/stats"
)

// Forest panel kinds.
const (
	ForestKindForest = "forest"
	ForestKindRidge  = "ridge"
)

// ForestOptions configures Forest. The zero value draws one interval row per
// variable slice at a 0.94 credible interval with chains pooled.
type ForestOptions struct {
	// VarNames and Filter pick posterior variables via labeled.SelectNames
	// across all models.
	VarNames []string
	Filter   labeled.FilterMode
	// Coords restricts dimensions to the given coordinate labels.
	Coords map[string][]string
	// Kind selects interval rows ("forest", default) or stacked densities
	// ("ridge").
	Kind string
	// ModelNames labels each result when several are compared.
	ModelNames []string
	// Combined pools chains into one row; otherwise every chain gets its
	// own row.
	Combined bool
	// CredibleInterval is the HDI mass per row, default 0.94.
	CredibleInterval float64
	// Quartiles adds the interquartile band to each interval row.
	Quartiles bool
	// ESS and RHat add per-row diagnostic side panels (forest kind only).
	ESS  bool
	RHat bool
	// Rope shades a region of practical equivalence across all rows.
	Rope []float64
	// BandwidthFactor tunes ridge densities, 0 for the default.
	BandwidthFactor float64
	// Colors is the per-model color cycle.
	Colors []string
	// Backend runs the ESS kernels; nil selects automatically.
	Backend compute.Backend
}

// seriesRef is one model's chain set for a variable slice.
type seriesRef struct {
	model  int
	chains [][]float64
}

// Forest builds interval rows (or ridgelines) for variable slices across one
// or more results: the first variable reads topmost, models stack in order
// within each slice, and every model keeps one color throughout.
func Forest(models []*inference.Data, opts ForestOptions) (*Figure, []string, error) {
	if len(models) == 0 {
		return nil, nil, fmt.Errorf("plot: forest needs at least one result")
	}
	kind := opts.Kind
	if kind == "" {
		kind = ForestKindForest
	}
	if kind != ForestKindForest && kind != ForestKindRidge {
		return nil, nil, fmt.Errorf("%w: %q (valid: forest, ridge)", ErrKind, opts.Kind)
	}
	prob := opts.CredibleInterval
	if prob == 0 {
		prob = 0.94
	}
	if !(prob > 0 && prob <= 1) {
		return nil, nil, fmt.Errorf("%w: got %v", stats.ErrCredibleInterval, prob)
	}
	if opts.Rope != nil && len(opts.Rope) != 2 {
		return nil, nil, fmt.Errorf("plot: rope wants [lo hi], got %v", opts.Rope)
	}

	posteriors := make([]*labeled.Dataset, len(models))
	for i, m := range models {
		p, ok := m.Posterior()
		if !ok {
			return nil, nil, fmt.Errorf("model %d: %w", i, ErrNoPosterior)
		}
		if len(opts.Coords) > 0 {
			var err error
			if p, err = p.Sel(opts.Coords); err != nil {
				return nil, nil, err
			}
		}
		posteriors[i] = p
	}

	selected, warnings, err := labeled.SelectNames(opts.VarNames, posteriors, opts.Filter)
	if err != nil {
		return nil, warnings, err
	}
	names := selected
	if names == nil {
		seen := make(map[string]bool)
		for _, p := range posteriors {
			for _, n := range p.Names() {
				if !seen[n] {
					seen[n] = true
					names = append(names, n)
				}
			}
		}
	}

	main := Panel{Kind: KindIntervals, Band: opts.Rope}
	if kind == ForestKindRidge {
		main.Kind = KindRidge
	} else {
		main.Title = fmt.Sprintf("%.3g%% HDI", prob*100)
	}
	essPanel := Panel{Kind: KindIntervals, Title: "ess"}
	rhatPanel := Panel{Kind: KindIntervals, Title: "r_hat"}

	for _, name := range names {
		order, bySlice, err := collectSlices(posteriors, name)
		if err != nil {
			return nil, warnings, err
		}
		for _, lbl := range order {
			rowLabel := lbl
			for _, ref := range refsSplit(bySlice[lbl], opts.Combined) {
				color := colorAt(opts.Colors, ref.model)
				mname := modelName(opts.ModelNames, len(models), ref.model)
				sample := pooled(ref.chains)

				if kind == ForestKindRidge {
					xs, ys, err := densityXY(sample, opts.BandwidthFactor)
					if err != nil {
						return nil, warnings, fmt.Errorf("plotting %s: %w", lbl, err)
					}
					main.Ridges = append(main.Ridges, Ridge{
						Label: rowLabel, Model: mname, Color: color, X: xs, Y: ys,
					})
					rowLabel = ""
					continue
				}

				hdi, err := stats.HDI(sample, prob)
				if err != nil {
					return nil, warnings, fmt.Errorf("plotting %s: %w", lbl, err)
				}
				q1, med, q3 := stats.Quartiles(sample)
				iv := Interval{
					Label: rowLabel, Model: mname, Color: color,
					Lo: hdi.Lo, Mid: med, Hi: hdi.Hi,
				}
				if opts.Quartiles {
					iv.QLo, iv.QHi = q1, q3
					iv.HasQuartiles = true
				}
				main.Intervals = append(main.Intervals, iv)

				if opts.ESS {
					ess, err := stats.ESS(ref.chains, opts.Backend)
					if err != nil {
						return nil, warnings, fmt.Errorf("plotting %s: %w", lbl, err)
					}
					essPanel.Intervals = append(essPanel.Intervals, pointRow(rowLabel, mname, color, ess))
				}
				if opts.RHat {
					rhat, err := stats.RHat(ref.chains)
					if err != nil {
						return nil, warnings, fmt.Errorf("plotting %s: %w", lbl, err)
					}
					rhatPanel.Intervals = append(rhatPanel.Intervals, pointRow(rowLabel, mname, color, rhat))
				}
				rowLabel = ""
			}
		}
	}

	panels := []Panel{main}
	if kind == ForestKindForest && opts.ESS {
		panels = append(panels, essPanel)
	}
	if kind == ForestKindForest && opts.RHat {
		panels = append(panels, rhatPanel)
	}
	return &Figure{Rows: []PanelRow{{Panels: panels}}}, warnings, nil
}

// collectSlices gathers per-model chain sets for every slice of a variable,
// keeping the slice order of the first model that carries it.
func collectSlices(posteriors []*labeled.Dataset, name string) ([]string, map[string][]seriesRef, error) {
	var order []string
	bySlice := make(map[string][]seriesRef)
	for mi, p := range posteriors {
		a, ok := p.Get(name)
		if !ok {
			continue
		}
		slices, err := stats.ChainSlices(a)
		if err != nil {
			return nil, nil, err
		}
		for _, s := range slices {
			if _, seen := bySlice[s.Label]; !seen {
				order = append(order, s.Label)
			}
			bySlice[s.Label] = append(bySlice[s.Label], seriesRef{model: mi, chains: s.Chains})
		}
	}
	return order, bySlice, nil
}

// refsSplit expands each model reference into per-chain references unless
// chains are combined.
func refsSplit(refs []seriesRef, combined bool) []seriesRef {
	if combined {
		return refs
	}
	var out []seriesRef
	for _, ref := range refs {
		for _, chain := range ref.chains {
			out = append(out, seriesRef{model: ref.model, chains: [][]float64{chain}})
		}
	}
	return out
}

func modelName(names []string, nModels, i int) string {
	if i < len(names) {
		return names[i]
	}
	if nModels > 1 {
		return fmt.Sprintf("model %d", i)
	}
	return ""
}

func pointRow(label, model, color string, v float64) Interval {
	return Interval{Label: label, Model: model, Color: color, Lo: v, Mid: v, Hi: v}
}

// densityXY estimates a drawable outline for a sample: histogram bin centers
// for whole-valued data, a smooth density otherwise.
func densityXY(sample []float64, factor float64) ([]float64, []float64, error) {
	if stats.WholeValued(sample) {
		edges := stats.Bins(sample)
		counts := stats.Histogram(sample, edges)
		xs := make([]float64, len(counts))
		for i := range counts {
			xs[i] = (edges[i] + edges[i+1]) / 2
		}
		return xs, counts, nil
	}
	return stats.KDE(sample, stats.KDEOptions{BandwidthFactor: factor})
}
