package inference

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/davin-cb/bayeslab/labeled"
)

// KeyFormat holds the separators used to synthesize flattened-record keys.
// A key is the variable name, then DimStart + indices joined by DimJoin +
// DimEnd for variables with dimensions beyond the stacked ones, then
// GroupStart + group name + GroupEnd when group identity is requested.
type KeyFormat struct {
	DimStart   string
	DimJoin    string
	DimEnd     string
	GroupStart string
	GroupEnd   string
}

// Predefined key formats.
var (
	// FormatBrackets produces "theta[0,1]" and "mu_posterior".
	FormatBrackets = KeyFormat{DimStart: "[", DimJoin: ",", DimEnd: "]", GroupStart: "_"}
	// FormatUnderscore produces "theta_0_1" and "mu_posterior".
	FormatUnderscore = KeyFormat{DimStart: "_", DimJoin: "_", GroupStart: "_"}
	// FormatCDS tags selections and groups with long markers, for columnar
	// sinks that parse keys back apart.
	FormatCDS = KeyFormat{DimStart: "_ARVIZ_CDS_SELECTION_", DimJoin: "_", GroupStart: "_ARVIZ_GROUP_"}
)

// FormatByName resolves a predefined format name. The empty string picks
// brackets.
func FormatByName(name string) (KeyFormat, error) {
	switch strings.ToLower(name) {
	case "", "brackets":
		return FormatBrackets, nil
	case "underscore":
		return FormatUnderscore, nil
	case "cds":
		return FormatCDS, nil
	}
	return KeyFormat{}, fmt.Errorf("%w: got %q", ErrFormatName, name)
}

// Predefined group-set names accepted by Flatten.
const (
	PosteriorGroups = "posterior_groups"
	PriorGroups     = "prior_groups"
)

// FlattenOptions configures Flatten. The zero value flattens posterior and
// sample_stats over (chain, draw) with bracket keys, no group suffixes, and
// zero-based indices.
type FlattenOptions struct {
	// VarNames and Filter select variables across the chosen groups via
	// labeled.SelectNames; nil VarNames keeps everything.
	VarNames []string
	Filter   labeled.FilterMode

	// Groups lists groups explicitly. When nil, GroupSet may name a
	// predefined set ("posterior_groups" or "prior_groups"); otherwise the
	// default is posterior plus sample_stats. Absent groups are skipped.
	Groups   []string
	GroupSet string

	// Dims are the dimensions to stack into the composite axis, default
	// (chain, draw). Every selected variable must carry all of them.
	Dims []string

	// Custom overrides FormatName when non-nil; FormatName picks a
	// predefined format ("" means brackets).
	FormatName string
	Custom     *KeyFormat

	// GroupInfo appends the group suffix to every variable key.
	GroupInfo bool

	// IndexOrigin shifts reported dimension indices; 0 or 1.
	IndexOrigin int
}

func (o FlattenOptions) format() (KeyFormat, error) {
	if o.Custom != nil {
		return *o.Custom, nil
	}
	return FormatByName(o.FormatName)
}

func (o FlattenOptions) groups() ([]string, error) {
	if o.Groups != nil {
		for _, g := range o.Groups {
			if !KnownGroup(g) {
				return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownGroup, g, canonicalGroups)
			}
		}
		return o.Groups, nil
	}
	switch strings.ToLower(o.GroupSet) {
	case "":
		return []string{GroupPosterior, GroupSampleStats}, nil
	case PosteriorGroups:
		return []string{GroupPosterior, GroupPosteriorPredictive, GroupSampleStats}, nil
	case PriorGroups:
		return []string{GroupPrior, GroupPriorPredictive, GroupSampleStatsPrior}, nil
	}
	return nil, fmt.Errorf("%w: got %q", ErrGroupSet, o.GroupSet)
}

// Flatten projects the selected groups of a result down to an ordered
// columnar record. Per selected variable it stacks opts.Dims into one
// composite axis and emits one column when no other dimensions remain, or
// one column per remaining index combination, keyed per the format. Once per
// stacked dimension it also records that dimension's coordinate labels along
// the composite axis under the dimension's own name.
func Flatten(d *Data, opts FlattenOptions) (*Columns, []string, error) {
	format, err := opts.format()
	if err != nil {
		return nil, nil, err
	}
	if opts.IndexOrigin != 0 && opts.IndexOrigin != 1 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrIndexOrigin, opts.IndexOrigin)
	}
	groups, err := opts.groups()
	if err != nil {
		return nil, nil, err
	}
	dims := opts.Dims
	if len(dims) == 0 {
		dims = []string{DimChain, DimDraw}
	}

	selected, warnings, err := labeled.SelectNames(opts.VarNames, d.Datasets(groups), opts.Filter)
	if err != nil {
		return nil, warnings, err
	}
	keep := func(name string) bool {
		if selected == nil {
			return true
		}
		for _, s := range selected {
			if s == name {
				return true
			}
		}
		return false
	}

	cols := NewColumns()
	for _, group := range groups {
		ds, ok := d.Get(group)
		if !ok {
			continue
		}
		for _, name := range ds.Names() {
			if !keep(name) {
				continue
			}
			a, _ := ds.Get(name)
			st, err := a.Stack(dims...)
			if err != nil {
				return nil, warnings, fmt.Errorf("flattening %q in %s: %w", name, group, err)
			}
			for _, dim := range dims {
				if cols.Has(dim) {
					continue
				}
				labels, err := st.DimLabels(dim)
				if err != nil {
					return nil, warnings, err
				}
				cols.Set(dim, labelsToNumbers(labels))
			}

			suffix := ""
			if opts.GroupInfo {
				suffix = format.GroupStart + group + format.GroupEnd
			}
			if len(st.RestDims()) == 0 {
				cols.Set(name+suffix, st.Slice(0))
				continue
			}
			for i := 0; i < st.Len(); i++ {
				idx := st.RestIndex(i)
				parts := make([]string, len(idx))
				for k, x := range idx {
					parts[k] = strconv.Itoa(x + opts.IndexOrigin)
				}
				key := name + format.DimStart + strings.Join(parts, format.DimJoin) + format.DimEnd + suffix
				cols.Set(key, st.Slice(i))
			}
		}
	}
	return cols, warnings, nil
}

// labelsToNumbers parses coordinate labels as numbers; when any label fails
// to parse, labels fall back to first-seen ordinals (so repeated labels map
// to one value).
func labelsToNumbers(labels []string) []float64 {
	out := make([]float64, len(labels))
	for i, l := range labels {
		v, err := strconv.ParseFloat(l, 64)
		if err != nil {
			return labelOrdinals(labels)
		}
		out[i] = v
	}
	return out
}

func labelOrdinals(labels []string) []float64 {
	ord := make(map[string]int, len(labels))
	out := make([]float64, len(labels))
	for i, l := range labels {
		k, ok := ord[l]
		if !ok {
			k = len(ord)
			ord[l] = k
		}
		out[i] = float64(k)
	}
	return out
}
