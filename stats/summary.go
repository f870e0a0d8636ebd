package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/davin-cb/bayeslab/compute"
	"github.com/davin-cb/bayeslab/labeled"
)

// Row is one summary line: a variable slice with its moments, credible
// interval, and convergence diagnostics.
type Row struct {
	Name  string
	Mean  float64
	SD    float64
	HDILo float64
	HDIHi float64
	ESS   float64
	RHat  float64
}

// SummaryOptions selects variables and tunes the interval. Zero values mean
// every variable and a 0.94 interval.
type SummaryOptions struct {
	VarNames         []string
	Filter           labeled.FilterMode
	CredibleInterval float64
	Backend          compute.Backend
}

// Summary computes one row per variable slice of the dataset, stacking
// (chain, draw) and emitting one row per remaining-dimension combination in
// row-major order. Variables must carry both chain and draw dimensions.
func Summary(ds *labeled.Dataset, opts SummaryOptions) ([]Row, []string, error) {
	prob := opts.CredibleInterval
	if prob == 0 {
		prob = 0.94
	}
	if !(prob > 0 && prob <= 1) {
		return nil, nil, fmt.Errorf("%w: got %v", ErrCredibleInterval, prob)
	}

	names, warnings, err := labeled.SelectNames(opts.VarNames, []*labeled.Dataset{ds}, opts.Filter)
	if err != nil {
		return nil, warnings, err
	}
	if names == nil {
		names = ds.Names()
	}

	var rows []Row
	for _, name := range names {
		a, ok := ds.Get(name)
		if !ok {
			return nil, warnings, fmt.Errorf("%w: %s", labeled.ErrVarNotFound, name)
		}
		slices, err := ChainSlices(a)
		if err != nil {
			return nil, warnings, err
		}
		for _, s := range slices {
			pooled := pool(s.Chains)
			hdi, err := HDI(pooled, prob)
			if err != nil {
				return nil, warnings, err
			}
			ess, err := ESS(s.Chains, opts.Backend)
			if err != nil {
				return nil, warnings, err
			}
			rhat, err := RHat(s.Chains)
			if err != nil {
				return nil, warnings, err
			}
			rows = append(rows, Row{
				Name:  s.Label,
				Mean:  stat.Mean(pooled, nil),
				SD:    stat.StdDev(pooled, nil),
				HDILo: hdi.Lo,
				HDIHi: hdi.Hi,
				ESS:   ess,
				RHat:  rhat,
			})
		}
	}
	return rows, warnings, nil
}

// ChainSlice is one variable slice as a per-chain draw matrix.
type ChainSlice struct {
	// Label is the display name, coordinate labels included for slices of
	// multi-dimensional variables.
	Label string
	// Selection maps each extra dimension to the coordinate label fixed for
	// this slice.
	Selection map[string]string
	// Chains holds one draw series per chain.
	Chains [][]float64
}

// ChainSlices splits a (chain, draw, ...) variable into per-chain draw
// matrices, one per combination of its extra dimensions, in row-major order.
func ChainSlices(a *labeled.Array) ([]ChainSlice, error) {
	st, err := a.Stack("chain", "draw")
	if err != nil {
		return nil, err
	}
	nChains := a.DimSize("chain")
	nDraws := a.DimSize("draw")

	out := make([]ChainSlice, 0, st.Len())
	for i := 0; i < st.Len(); i++ {
		flat := st.Slice(i)
		chains := make([][]float64, nChains)
		for c := 0; c < nChains; c++ {
			chains[c] = flat[c*nDraws : (c+1)*nDraws]
		}
		sel := st.RestLabels(i)
		out = append(out, ChainSlice{
			Label:     labeled.FormatSelection(a.Name(), st.RestDims(), sel),
			Selection: sel,
			Chains:    chains,
		})
	}
	return out, nil
}

func pool(chains [][]float64) []float64 {
	if len(chains) == 1 {
		return chains[0]
	}
	out := make([]float64, 0, len(chains)*len(chains[0]))
	for _, c := range chains {
		out = append(out, c...)
	}
	return out
}
