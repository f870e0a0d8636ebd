package inference

import (
	"fmt"
	"sort"

	"github.com/davin-cb/bayeslab/labeled"
)

// Default leading dimension names for sampled variables.
const (
	DimChain = "chain"
	DimDraw  = "draw"
)

// RawVariable is a conversion input: a flat row-major value buffer plus its
// shape. A nil or single-entry shape means a plain vector of draws from one
// chain and is promoted to (1, n).
type RawVariable struct {
	Values []float64
	Shape  []int
}

// ConvertOptions names and labels the extra dimensions of raw variables.
type ConvertOptions struct {
	// Dims maps a variable name to names for its dimensions beyond
	// (chain, draw), in axis order. Empty entries fall back to the
	// generated "<var>_dim_<k>" name.
	Dims map[string][]string
	// Coords maps a dimension name to its coordinate labels.
	Coords map[string][]string
}

// DatasetFromRaw converts raw draw buffers into a labeled dataset. Variables
// are added in sorted name order so the result is deterministic. Vectors are
// promoted to a single chain; a variable with more chains than draws is
// suspicious and produces a warning, since the expected layout is
// (chain, draw, ...).
func DatasetFromRaw(vars map[string]RawVariable, opts ConvertOptions) (*labeled.Dataset, []string, error) {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var warnings []string
	ds, err := labeled.NewDataset()
	if err != nil {
		return nil, nil, err
	}
	for _, name := range names {
		raw := vars[name]
		if len(raw.Values) == 0 {
			return nil, warnings, fmt.Errorf("%w: %q", ErrNoValues, name)
		}

		shape := append([]int(nil), raw.Shape...)
		switch len(shape) {
		case 0:
			shape = []int{1, len(raw.Values)}
		case 1:
			shape = []int{1, shape[0]}
		}
		size := 1
		for _, s := range shape {
			size *= s
		}
		if size != len(raw.Values) {
			return nil, warnings, fmt.Errorf("%w: %q has %d values for shape %v",
				ErrRawShape, name, len(raw.Values), raw.Shape)
		}
		if shape[0] > shape[1] {
			warnings = append(warnings, fmt.Sprintf(
				"%s: more chains (%d) than draws (%d); expected layout is (chain, draw, ...)",
				name, shape[0], shape[1]))
		}

		dims := make([]string, len(shape))
		dims[0], dims[1] = DimChain, DimDraw
		for k := 2; k < len(shape); k++ {
			dims[k] = extraDimName(name, k-2, opts.Dims[name])
		}
		coords := make(map[string][]string, len(dims))
		for _, dim := range dims {
			if labels, ok := opts.Coords[dim]; ok {
				coords[dim] = labels
			}
		}

		a, err := labeled.NewArray(name, raw.Values, shape, dims, coords)
		if err != nil {
			return nil, warnings, err
		}
		if err := ds.Add(a); err != nil {
			return nil, warnings, err
		}
	}
	return ds, warnings, nil
}

func extraDimName(varName string, k int, names []string) string {
	if k < len(names) && names[k] != "" {
		return names[k]
	}
	return fmt.Sprintf("%s_dim_%d", varName, k)
}

// FromRaw converts raw draw buffers straight into a single-group result.
func FromRaw(group string, vars map[string]RawVariable, opts ConvertOptions) (*Data, []string, error) {
	ds, warnings, err := DatasetFromRaw(vars, opts)
	if err != nil {
		return nil, warnings, err
	}
	d := New()
	if err := d.Set(group, ds); err != nil {
		return nil, warnings, err
	}
	return d, warnings, nil
}
