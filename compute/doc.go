// Package compute provides interchangeable numeric kernels behind a
// capability-checked backend strategy.
//
// Two backends exist:
//
//   - accel: FFT-based autocovariance and gonum-backed covariance
//   - pure: direct-summation reference, always available
//
// Both produce the same values up to floating-point rounding; the choice
// affects speed only. Callers obtain a backend once and pass it down:
//
//	b := compute.Auto()
//	acov := b.Autocovariance(draws)
//
// There is no package-level active backend; functions that need one accept
// it as an argument and treat nil as compute.Auto().
package compute
