package stats

import (
	"math"
	"sort"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// DefaultBandwidthFactor makes the default kernel width match Scott's rule.
const DefaultBandwidthFactor = 4.5

// KDEOptions tunes the density estimate. The zero value asks for 200 grid
// points and a Scott's-rule bandwidth.
type KDEOptions struct {
	// Points is the grid resolution, default 200.
	Points int
	// BandwidthFactor scales the kernel width; DefaultBandwidthFactor
	// reproduces Scott's rule, larger values oversmooth.
	BandwidthFactor float64
	// Cumulative returns the running integral normalized to end at one.
	Cumulative bool
}

// KDE estimates the density of a sample on an evenly spaced grid spanning
// its range, using a gaussian kernel applied by FFT convolution over a
// histogram of the sample. Non-finite values are dropped first.
func KDE(sample []float64, opts KDEOptions) (xs, ys []float64, err error) {
	finite := make([]float64, 0, len(sample))
	for _, v := range sample {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	n := len(finite)
	if n < 2 {
		return nil, nil, ErrNoSpread
	}
	lo, hi := finite[0], finite[0]
	for _, v := range finite {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return nil, nil, ErrNoSpread
	}

	points := opts.Points
	if points <= 0 {
		points = 200
	}
	factor := opts.BandwidthFactor
	if factor <= 0 {
		factor = DefaultBandwidthFactor
	}

	dx := (hi - lo) / float64(points-1)
	counts := make([]float64, points)
	for _, v := range finite {
		i := int((v-lo)/dx + 0.5)
		if i >= points {
			i = points - 1
		}
		counts[i]++
	}

	// Scott's rule scaled by the factor, converted to grid cells.
	sd := stat.StdDev(finite, nil)
	h := sd * (factor / DefaultBandwidthFactor) * math.Pow(float64(n), -0.2)
	sigma := h / dx
	radius := int(math.Ceil(4 * sigma))

	smooth := counts
	if radius > 0 {
		smooth = gaussianSmooth(counts, sigma, radius)
	}

	xs = make([]float64, points)
	ys = make([]float64, points)
	for i := range xs {
		xs[i] = lo + float64(i)*dx
		// FFT round-off can leave tiny negative values where the density is zero.
		ys[i] = math.Max(0, smooth[i]/(float64(n)*dx))
	}
	if opts.Cumulative {
		acc := 0.0
		for i, v := range ys {
			acc += v
			ys[i] = acc
		}
		if final := ys[points-1]; final > 0 {
			for i := range ys {
				ys[i] /= final
			}
		}
	}
	return xs, ys, nil
}

// gaussianSmooth convolves the grid with a normalized gaussian kernel. The
// grid is reflected at both ends so boundary mass is conserved, and the
// convolution runs circularly over a power-of-two FFT size.
func gaussianSmooth(grid []float64, sigma float64, radius int) []float64 {
	g := len(grid)
	if radius > g {
		radius = g
	}
	ext := make([]float64, 0, g+2*radius)
	for i := radius - 1; i >= 0; i-- {
		ext = append(ext, grid[i])
	}
	ext = append(ext, grid...)
	for i := g - 1; i >= g-radius; i-- {
		ext = append(ext, grid[i])
	}

	size := 1
	for size < len(ext)+2*radius+1 {
		size <<= 1
	}
	a := make([]complex128, size)
	for i, v := range ext {
		a[i] = complex(v, 0)
	}
	kernel := make([]complex128, size)
	norm := 0.0
	for k := -radius; k <= radius; k++ {
		norm += math.Exp(-0.5 * float64(k) * float64(k) / (sigma * sigma))
	}
	for k := -radius; k <= radius; k++ {
		w := math.Exp(-0.5*float64(k)*float64(k)/(sigma*sigma)) / norm
		kernel[(size+k)%size] = complex(w, 0)
	}

	conv := fft.Convolve(a, kernel)
	out := make([]float64, g)
	for i := range out {
		out[i] = real(conv[i+radius])
	}
	return out
}

// WholeValued reports whether every sample value is an integer, the cue for
// treating data as discrete.
func WholeValued(sample []float64) bool {
	for _, v := range sample {
		if v != math.Trunc(v) {
			return false
		}
	}
	return true
}

// Bins returns histogram bin edges for the sample: unit-width (or wider)
// edges aligned on integers for whole-valued data, otherwise the larger of
// the Sturges and Freedman-Diaconis counts over the sample range.
func Bins(sample []float64) []float64 {
	n := len(sample)
	if n == 0 {
		return nil
	}
	lo, hi := sample[0], sample[0]
	for _, v := range sample {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	whole := WholeValued(sample)
	if lo == hi {
		return []float64{lo - 0.5, lo + 0.5}
	}

	if whole {
		span := hi - lo
		width := math.Max(1, math.Ceil(span/100))
		edges := []float64{lo - 0.5}
		for e := lo - 0.5 + width; e < hi+0.5+width; e += width {
			edges = append(edges, e)
		}
		return edges
	}

	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)
	iqr := stat.Quantile(0.75, stat.LinInterp, sorted, nil) - stat.Quantile(0.25, stat.LinInterp, sorted, nil)
	sturges := math.Ceil(math.Log2(float64(n))) + 1
	bins := sturges
	if iqr > 0 {
		fdWidth := 2 * iqr * math.Pow(float64(n), -1.0/3.0)
		if fd := math.Ceil((hi - lo) / fdWidth); fd > bins {
			bins = fd
		}
	}
	k := int(bins)
	edges := make([]float64, k+1)
	for i := range edges {
		edges[i] = lo + (hi-lo)*float64(i)/float64(k)
	}
	return edges
}

// Histogram counts the sample into the given ascending edges; values outside
// the edges land in the first or last bin.
func Histogram(sample, edges []float64) []float64 {
	if len(edges) < 2 {
		return nil
	}
	counts := make([]float64, len(edges)-1)
	for _, v := range sample {
		i := sort.SearchFloat64s(edges, v) - 1
		if i < 0 {
			i = 0
		}
		if i >= len(counts) {
			i = len(counts) - 1
		}
		counts[i]++
	}
	return counts
}
