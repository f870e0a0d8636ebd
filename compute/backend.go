package compute

import "fmt"

// Backend implements the numeric kernels the analysis layer dispatches on.
type Backend interface {
	Name() string
	// Available reports whether the backend can run in this process.
	Available() bool
	// Autocovariance returns the biased sample autocovariance of x at every
	// lag: acov[t] = (1/n) * sum_i (x[i]-mean)(x[i+t]-mean).
	Autocovariance(x []float64) []float64
	// CovarianceMatrix returns the sample covariance matrix (n-1 divisor)
	// of the given variables, each a same-length observation series.
	CovarianceMatrix(vars [][]float64) [][]float64
}

// Auto returns the preferred backend: accel when available, else pure.
func Auto() Backend {
	accel := NewAccel()
	if accel.Available() {
		return accel
	}
	return NewPure()
}

// Select resolves a backend by name. The empty string means Auto.
func Select(name string) (Backend, error) {
	switch name {
	case "":
		return Auto(), nil
	case "accel":
		accel := NewAccel()
		if !accel.Available() {
			return nil, fmt.Errorf("compute: backend %q not available on this system", name)
		}
		return accel, nil
	case "pure":
		return NewPure(), nil
	}
	return nil, fmt.Errorf("compute: unknown backend %q (known: %v)", name, Names())
}

// Names lists the selectable backend names.
func Names() []string { return []string{"accel", "pure"} }

// orDefault resolves nil to the auto-selected backend.
func orDefault(b Backend) Backend {
	if b == nil {
		return Auto()
	}
	return b
}

// AutocovarianceWith runs the kernel on b, auto-selecting when b is nil.
func AutocovarianceWith(b Backend, x []float64) []float64 {
	return orDefault(b).Autocovariance(x)
}

// CovarianceMatrixWith runs the kernel on b, auto-selecting when b is nil.
func CovarianceMatrixWith(b Backend, vars [][]float64) [][]float64 {
	return orDefault(b).CovarianceMatrix(vars)
}
