// Package sampledata generates the bundled example posteriors used by the
// demo command and by tests. Draws come from a seeded generator shaped like
// NUTS output for the eight-schools model, so summaries, diagnostics, and
// plots have realistic structure without shipping binary fixtures.
package sampledata

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/davin-cb/bayeslab/inference"
	"github.com/davin-cb/bayeslab/labeled"
)

// Eight-schools observations (Rubin 1981): per-school treatment effects and
// standard errors.
var (
	SchoolNames = []string{
		"Choate", "Deerfield", "Phillips Andover", "Phillips Exeter",
		"Hotchkiss", "Lawrenceville", "St. Paul's", "Mt. Hermon",
	}
	SchoolY     = []float64{28, 8, -3, 7, -1, 1, 18, 12}
	SchoolSigma = []float64{15, 10, 16, 11, 9, 11, 10, 18}
)

// Generator builds one example result with the given chain/draw geometry.
type Generator func(seed int64, chains, draws int) (*inference.Data, error)

var generators = map[string]Generator{
	"centered_eight":     CenteredEight,
	"non_centered_eight": NonCenteredEight,
}

// Names lists the available datasets in sorted order.
func Names() []string {
	names := make([]string, 0, len(generators))
	for name := range generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate builds the named dataset.
func Generate(name string, seed int64, chains, draws int) (*inference.Data, error) {
	gen, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("sampledata: unknown dataset %q (known: %v)", name, Names())
	}
	return gen(seed, chains, draws)
}

// CenteredEight samples the centered parameterization of the eight-schools
// model. The centered geometry autocorrelates badly and occasionally
// diverges when tau collapses, which is what makes it a useful diagnostic
// demo.
func CenteredEight(seed int64, chains, draws int) (*inference.Data, error) {
	return eightSchools(seed, chains, draws, true)
}

// NonCenteredEight samples the non-centered parameterization, which mixes
// well and carries the auxiliary theta_t variable.
func NonCenteredEight(seed int64, chains, draws int) (*inference.Data, error) {
	return eightSchools(seed, chains, draws, false)
}

func eightSchools(seed int64, chains, draws int, centered bool) (*inference.Data, error) {
	if chains < 1 || draws < 1 {
		return nil, fmt.Errorf("sampledata: need at least 1 chain and 1 draw, got %d and %d", chains, draws)
	}
	n := len(SchoolY)

	// Location and scale of mu and log(tau), close to the published
	// eight-schools fit.
	const (
		muLoc, muScale   = 4.4, 3.3
		tauLoc, tauScale = 1.1, 0.8
	)
	rho := 0.15
	if centered {
		rho = 0.6
	}
	innov := math.Sqrt(1 - rho*rho)

	mu := make([]float64, chains*draws)
	tau := make([]float64, chains*draws)
	theta := make([]float64, chains*draws*n)
	thetaT := make([]float64, chains*draws*n)
	diverging := make([]float64, chains*draws)
	energy := make([]float64, chains*draws)

	for c := 0; c < chains; c++ {
		rng := rand.New(rand.NewSource(seed + int64(c)))
		zMu, zTau := rng.NormFloat64(), rng.NormFloat64()
		for t := 0; t < draws; t++ {
			zMu = rho*zMu + innov*rng.NormFloat64()
			zTau = rho*zTau + innov*rng.NormFloat64()

			i := c*draws + t
			mu[i] = muLoc + muScale*zMu
			tau[i] = math.Exp(tauLoc + tauScale*zTau)

			sumSq := zMu*zMu + zTau*zTau
			for j := 0; j < n; j++ {
				// Conditional posterior of theta_j given mu, tau, and y_j:
				// shrink y_j toward mu by tau^2/(tau^2+sigma_j^2).
				prec := tau[i]*tau[i] + SchoolSigma[j]*SchoolSigma[j]
				shrink := tau[i] * tau[i] / prec
				sd := tau[i] * SchoolSigma[j] / math.Sqrt(prec)
				eps := rng.NormFloat64()
				th := mu[i] + shrink*(SchoolY[j]-mu[i]) + sd*eps
				theta[i*n+j] = th
				thetaT[i*n+j] = (th - mu[i]) / tau[i]
				sumSq += eps * eps
			}
			energy[i] = 0.5*sumSq + float64(n)/2 + rng.NormFloat64()
			if centered && tau[i] < 0.6 && rng.Float64() < 0.8 {
				diverging[i] = 1
			}
		}
	}

	posterior := map[string]inference.RawVariable{
		"mu":    {Values: mu, Shape: []int{chains, draws}},
		"tau":   {Values: tau, Shape: []int{chains, draws}},
		"theta": {Values: theta, Shape: []int{chains, draws, n}},
	}
	dims := map[string][]string{"theta": {"school"}}
	if !centered {
		posterior["theta_t"] = inference.RawVariable{Values: thetaT, Shape: []int{chains, draws, n}}
		dims["theta_t"] = []string{"school"}
	}

	post, _, err := inference.DatasetFromRaw(posterior, inference.ConvertOptions{
		Dims:   dims,
		Coords: map[string][]string{"school": SchoolNames},
	})
	if err != nil {
		return nil, err
	}
	stats, _, err := inference.DatasetFromRaw(map[string]inference.RawVariable{
		inference.DivergingVar: {Values: diverging, Shape: []int{chains, draws}},
		"energy":               {Values: energy, Shape: []int{chains, draws}},
	}, inference.ConvertOptions{})
	if err != nil {
		return nil, err
	}
	observed, err := observedDataset()
	if err != nil {
		return nil, err
	}

	d := inference.New()
	if err := d.Set(inference.GroupPosterior, post); err != nil {
		return nil, err
	}
	if err := d.Set(inference.GroupSampleStats, stats); err != nil {
		return nil, err
	}
	if err := d.Set(inference.GroupObservedData, observed); err != nil {
		return nil, err
	}
	return d, nil
}

func observedDataset() (*labeled.Dataset, error) {
	coords := map[string][]string{"school": SchoolNames}
	y, err := labeled.NewArray("y", append([]float64(nil), SchoolY...),
		[]int{len(SchoolY)}, []string{"school"}, coords)
	if err != nil {
		return nil, err
	}
	sigma, err := labeled.NewArray("sigma", append([]float64(nil), SchoolSigma...),
		[]int{len(SchoolSigma)}, []string{"school"}, coords)
	if err != nil {
		return nil, err
	}
	return labeled.NewDataset(y, sigma)
}
