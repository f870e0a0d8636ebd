package inference

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davin-cb/bayeslab/labeled"
)

func ascending(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// schoolsResult builds a two-chain, three-draw result with a scalar mu, a
// theta spanning a two-entry school dim, and a diverging flag.
func schoolsResult(t *testing.T) *Data {
	t.Helper()
	mu, err := labeled.NewArray("mu", ascending(6), []int{2, 3}, []string{"chain", "draw"}, nil)
	require.NoError(t, err)
	theta, err := labeled.NewArray("theta", ascending(12), []int{2, 3, 2},
		[]string{"chain", "draw", "school"}, map[string][]string{"school": {"a", "b"}})
	require.NoError(t, err)
	post, err := labeled.NewDataset(mu, theta)
	require.NoError(t, err)

	div, err := labeled.NewArray("diverging", make([]float64, 6), []int{2, 3}, []string{"chain", "draw"}, nil)
	require.NoError(t, err)
	stats, err := labeled.NewDataset(div)
	require.NoError(t, err)

	d := New()
	require.NoError(t, d.Set(GroupPosterior, post))
	require.NoError(t, d.Set(GroupSampleStats, stats))
	return d
}

func TestFlattenDefaults(t *testing.T) {
	d := schoolsResult(t)

	cols, warns, err := Flatten(d, FlattenOptions{})
	require.NoError(t, err)
	assert.Empty(t, warns)

	assert.Equal(t, []string{"chain", "draw", "mu", "theta[0]", "theta[1]", "diverging"}, cols.Keys())

	chain, _ := cols.Get("chain")
	assert.Equal(t, []float64{0, 0, 0, 1, 1, 1}, chain)
	draw, _ := cols.Get("draw")
	assert.Equal(t, []float64{0, 1, 2, 0, 1, 2}, draw)

	mu, _ := cols.Get("mu")
	assert.Equal(t, []float64{0, 1, 2, 3, 4, 5}, mu)
	theta0, _ := cols.Get("theta[0]")
	assert.Equal(t, []float64{0, 2, 4, 6, 8, 10}, theta0)
	theta1, _ := cols.Get("theta[1]")
	assert.Equal(t, []float64{1, 3, 5, 7, 9, 11}, theta1)
}

func TestFlattenPosteriorOnlyKeys(t *testing.T) {
	d := schoolsResult(t)

	cols, _, err := Flatten(d, FlattenOptions{
		VarNames: []string{"mu", "theta"},
		Groups:   []string{GroupPosterior},
	})
	require.NoError(t, err)

	want := map[string]bool{"mu": true, "theta[0]": true, "theta[1]": true, "chain": true, "draw": true}
	keys := cols.Keys()
	assert.Len(t, keys, len(want))
	for _, k := range keys {
		assert.True(t, want[k], "unexpected key %q", k)
	}
}

func TestFlattenGroupInfo(t *testing.T) {
	d := schoolsResult(t)

	cols, _, err := Flatten(d, FlattenOptions{GroupInfo: true})
	require.NoError(t, err)

	assert.True(t, cols.Has("mu_posterior"))
	assert.True(t, cols.Has("theta[0]_posterior"))
	assert.True(t, cols.Has("diverging_sample_stats"))
	// Stacked-dimension columns never carry group suffixes.
	assert.True(t, cols.Has("chain"))
	assert.True(t, cols.Has("draw"))
	assert.False(t, cols.Has("mu"))
}

func TestFlattenFormats(t *testing.T) {
	d := schoolsResult(t)

	cols, _, err := Flatten(d, FlattenOptions{FormatName: "underscore"})
	require.NoError(t, err)
	assert.True(t, cols.Has("theta_0"))
	assert.True(t, cols.Has("theta_1"))

	cols, _, err = Flatten(d, FlattenOptions{FormatName: "cds", GroupInfo: true})
	require.NoError(t, err)
	assert.True(t, cols.Has("theta_ARVIZ_CDS_SELECTION_0_ARVIZ_GROUP_posterior"))
	assert.True(t, cols.Has("mu_ARVIZ_GROUP_posterior"))

	custom := &KeyFormat{DimStart: "<", DimJoin: ";", DimEnd: ">", GroupStart: "@"}
	cols, _, err = Flatten(d, FlattenOptions{Custom: custom, GroupInfo: true})
	require.NoError(t, err)
	assert.True(t, cols.Has("theta<0>@posterior"))
	assert.True(t, cols.Has("mu@posterior"))

	_, _, err = Flatten(d, FlattenOptions{FormatName: "xyz"})
	require.ErrorIs(t, err, ErrFormatName)
}

func TestFlattenIndexOrigin(t *testing.T) {
	d := schoolsResult(t)

	cols, _, err := Flatten(d, FlattenOptions{IndexOrigin: 1})
	require.NoError(t, err)
	assert.True(t, cols.Has("theta[1]"))
	assert.True(t, cols.Has("theta[2]"))
	assert.False(t, cols.Has("theta[0]"))

	_, _, err = Flatten(d, FlattenOptions{IndexOrigin: 2})
	require.ErrorIs(t, err, ErrIndexOrigin)
}

func TestFlattenGroupSets(t *testing.T) {
	d := schoolsResult(t)

	// posterior_groups covers groups the result may not carry; absent ones
	// are skipped silently.
	cols, _, err := Flatten(d, FlattenOptions{GroupSet: PosteriorGroups})
	require.NoError(t, err)
	assert.True(t, cols.Has("mu"))
	assert.True(t, cols.Has("diverging"))

	cols, _, err = Flatten(d, FlattenOptions{GroupSet: PriorGroups})
	require.NoError(t, err)
	assert.Equal(t, 0, cols.Len(), "no prior groups present")

	_, _, err = Flatten(d, FlattenOptions{GroupSet: "mystery_groups"})
	require.ErrorIs(t, err, ErrGroupSet)

	_, _, err = Flatten(d, FlattenOptions{Groups: []string{"weird"}})
	require.ErrorIs(t, err, ErrUnknownGroup)
}

func TestFlattenVarFilter(t *testing.T) {
	d := schoolsResult(t)

	cols, _, err := Flatten(d, FlattenOptions{VarNames: []string{"theta"}, Filter: labeled.FilterLike})
	require.NoError(t, err)
	assert.Equal(t, []string{"chain", "draw", "theta[0]", "theta[1]"}, cols.Keys())

	cols, _, err = Flatten(d, FlattenOptions{VarNames: []string{"~mu"}})
	require.NoError(t, err)
	assert.False(t, cols.Has("mu"))
	assert.True(t, cols.Has("theta[0]"))
	assert.True(t, cols.Has("diverging"))

	_, _, err = Flatten(d, FlattenOptions{VarNames: []string{"sigma"}})
	require.ErrorIs(t, err, labeled.ErrVarNotFound)
}

func TestFlattenStringCoordsFallBackToOrdinals(t *testing.T) {
	d := schoolsResult(t)

	cols, _, err := Flatten(d, FlattenOptions{
		VarNames: []string{"theta"},
		Groups:   []string{GroupPosterior},
		Dims:     []string{"chain", "school"},
	})
	require.NoError(t, err)

	school, ok := cols.Get("school")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 1, 0, 1}, school)
	chain, _ := cols.Get("chain")
	assert.Equal(t, []float64{0, 0, 1, 1}, chain)
	// draw remains unstacked, so theta emits one column per draw index.
	assert.True(t, cols.Has("theta[0]"))
	assert.True(t, cols.Has("theta[2]"))
}

// Flattening keeps every value addressable: rebuilding theta from its
// flattened columns and the stacked-dimension columns recovers the original
// array elementwise.
func TestFlattenRoundTrip(t *testing.T) {
	d := schoolsResult(t)
	post, _ := d.Get(GroupPosterior)
	theta, _ := post.Get("theta")

	cols, _, err := Flatten(d, FlattenOptions{Groups: []string{GroupPosterior}})
	require.NoError(t, err)

	chain, _ := cols.Get("chain")
	draw, _ := cols.Get("draw")
	for s := 0; s < 2; s++ {
		col, ok := cols.Get(fmt.Sprintf("theta[%d]", s))
		require.True(t, ok)
		for p := range col {
			c, dr := int(chain[p]), int(draw[p])
			assert.Equal(t, theta.At(c, dr, s), col[p], "theta[%d] at chain %d draw %d", s, c, dr)
		}
	}
}
