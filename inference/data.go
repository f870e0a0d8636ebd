package inference

import (
	"fmt"

	"github.com/davin-cb/bayeslab/labeled"
)

// Canonical group names.
const (
	GroupPosterior           = "posterior"
	GroupPosteriorPredictive = "posterior_predictive"
	GroupSampleStats         = "sample_stats"
	GroupPrior               = "prior"
	GroupPriorPredictive     = "prior_predictive"
	GroupSampleStatsPrior    = "sample_stats_prior"
	GroupObservedData        = "observed_data"
)

// canonicalGroups fixes the presentation order of groups everywhere.
var canonicalGroups = []string{
	GroupPosterior,
	GroupPosteriorPredictive,
	GroupSampleStats,
	GroupPrior,
	GroupPriorPredictive,
	GroupSampleStatsPrior,
	GroupObservedData,
}

// DivergingVar is the sample_stats variable holding per-draw divergence
// flags (nonzero means the transition diverged).
const DivergingVar = "diverging"

// Data is a sampling result: canonical groups mapped to labeled datasets.
// Groups are optional; accessors report which ones are present.
type Data struct {
	groups map[string]*labeled.Dataset
}

// New returns an empty result.
func New() *Data {
	return &Data{groups: make(map[string]*labeled.Dataset)}
}

// KnownGroup reports whether name is one of the canonical group names.
func KnownGroup(name string) bool {
	for _, g := range canonicalGroups {
		if g == name {
			return true
		}
	}
	return false
}

// GroupNames returns the canonical group names in presentation order.
func GroupNames() []string {
	return append([]string(nil), canonicalGroups...)
}

// Set attaches a dataset under the given canonical group, replacing any
// previous one.
func (d *Data) Set(group string, ds *labeled.Dataset) error {
	if !KnownGroup(group) {
		return fmt.Errorf("%w: %q (known: %v)", ErrUnknownGroup, group, canonicalGroups)
	}
	d.groups[group] = ds
	return nil
}

// Get returns the dataset of a group.
func (d *Data) Get(group string) (*labeled.Dataset, bool) {
	ds, ok := d.groups[group]
	return ds, ok
}

// Has reports whether the group is present.
func (d *Data) Has(group string) bool {
	_, ok := d.groups[group]
	return ok
}

// Groups returns the present group names in canonical order.
func (d *Data) Groups() []string {
	var out []string
	for _, g := range canonicalGroups {
		if _, ok := d.groups[g]; ok {
			out = append(out, g)
		}
	}
	return out
}

// Posterior returns the posterior dataset, which most analyses require.
func (d *Data) Posterior() (*labeled.Dataset, bool) {
	return d.Get(GroupPosterior)
}

// Datasets returns, for the given group names, every dataset present,
// preserving the requested order and skipping absent groups.
func (d *Data) Datasets(groups []string) []*labeled.Dataset {
	var out []*labeled.Dataset
	for _, g := range groups {
		if ds, ok := d.groups[g]; ok {
			out = append(out, ds)
		}
	}
	return out
}

// FromDatasets assembles a result from per-group datasets.
func FromDatasets(groups map[string]*labeled.Dataset) (*Data, error) {
	d := New()
	for _, g := range canonicalGroups {
		if ds, ok := groups[g]; ok {
			if err := d.Set(g, ds); err != nil {
				return nil, err
			}
		}
	}
	for g := range groups {
		if !KnownGroup(g) {
			return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownGroup, g, canonicalGroups)
		}
	}
	return d, nil
}
