package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/davin-cb/bayeslab/compute"
)

// Interval is a closed numeric interval.
type Interval struct {
	Lo, Hi float64
}

// HDI returns the narrowest interval containing prob of the sample mass
// (highest-density interval, assuming a unimodal sample). prob must lie in
// (0, 1].
func HDI(sample []float64, prob float64) (Interval, error) {
	if !(prob > 0 && prob <= 1) {
		return Interval{}, fmt.Errorf("%w: got %v", ErrCredibleInterval, prob)
	}
	if len(sample) == 0 {
		return Interval{}, ErrNoSpread
	}
	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)

	n := len(sorted)
	span := int(math.Floor(prob * float64(n)))
	if span >= n {
		return Interval{Lo: sorted[0], Hi: sorted[n-1]}, nil
	}
	if span < 1 {
		span = 1
	}
	best := 0
	width := math.Inf(1)
	for i := 0; i+span < n; i++ {
		if w := sorted[i+span] - sorted[i]; w < width {
			width = w
			best = i
		}
	}
	return Interval{Lo: sorted[best], Hi: sorted[best+span]}, nil
}

// Quantile returns the p-quantile of the sample with linear interpolation.
func Quantile(sample []float64, p float64) float64 {
	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

// Quartiles returns the 25th, 50th and 75th percentiles.
func Quartiles(sample []float64) (q1, med, q3 float64) {
	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)
	q1 = stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	med = stat.Quantile(0.5, stat.LinInterp, sorted, nil)
	q3 = stat.Quantile(0.75, stat.LinInterp, sorted, nil)
	return q1, med, q3
}

// Covariance returns the sample covariance (n-1 divisor) of two
// equal-length series.
func Covariance(x, y []float64) float64 {
	return stat.Covariance(x, y, nil)
}

// CovarianceMatrix returns the covariance matrix of the given variables,
// dispatched through the compute backend (nil selects automatically).
func CovarianceMatrix(vars [][]float64, backend compute.Backend) [][]float64 {
	return compute.CovarianceMatrixWith(backend, vars)
}
