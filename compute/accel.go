package compute

import (
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Accel computes autocovariance through an FFT and covariance through
// gonum. Output matches Pure up to floating-point rounding.
type Accel struct{}

// NewAccel returns the accelerated backend.
func NewAccel() *Accel { return &Accel{} }

func (a *Accel) Name() string    { return "accel" }
func (a *Accel) Available() bool { return true }

func (a *Accel) Autocovariance(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}
	m := mean(x)
	// Zero-pad to at least 2n so the circular convolution is linear.
	size := nextPow2(2 * n)
	padded := make([]float64, size)
	for i, v := range x {
		padded[i] = v - m
	}

	freq := fft.FFTReal(padded)
	for i, c := range freq {
		re, im := real(c), imag(c)
		freq[i] = complex(re*re+im*im, 0)
	}
	corr := fft.IFFT(freq)

	out := make([]float64, n)
	for t := range out {
		out[t] = real(corr[t]) / float64(n)
	}
	return out
}

func (a *Accel) CovarianceMatrix(vars [][]float64) [][]float64 {
	k := len(vars)
	out := make([][]float64, k)
	for i := range out {
		out[i] = make([]float64, k)
	}
	if k == 0 || len(vars[0]) < 2 {
		return out
	}
	n := len(vars[0])
	// gonum wants observations in rows, variables in columns.
	obs := mat.NewDense(n, k, nil)
	for j, v := range vars {
		for i, val := range v {
			obs.Set(i, j, val)
		}
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, obs, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			out[i][j] = cov.At(i, j)
		}
	}
	return out
}

func nextPow2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
