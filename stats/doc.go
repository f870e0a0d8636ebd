// Package stats implements the estimators and convergence diagnostics used
// to summarize posterior draws.
//
// # Diagnostics
//
//   - [RHat]: split potential-scale-reduction; values near 1 indicate
//     well-mixed chains.
//   - [ESS]: effective sample size from split chains with Geyer's initial
//     monotone positive-pair criterion.
//   - [Geweke]: z-scores comparing early and late chain segments.
//
// # Estimators
//
//   - [HDI]: narrowest interval containing a given probability mass.
//   - [KDE]: grid-based gaussian kernel density via FFT convolution.
//   - [Bins]: histogram edges suited to continuous or whole-valued data.
//   - [Summary]: per-variable table rows combining the above.
//
// Functions taking a [compute.Backend] accept nil for auto-selection.
package stats
