// Package bayeslab hosts labeled-array containers and exploration tools
// for MCMC sampling results: grouped datasets with named dimensions and
// coordinate labels, variable selection and columnar flattening,
// convergence diagnostics, and terminal and SVG plotting.
//
// The packages compose bottom-up:
//
//	labeled     n-dimensional arrays with named dims and coordinate labels
//	inference   grouped results, variable selection, columnar flattening
//	stats       kde, histograms, hdi, quantiles, ess, split r-hat, summaries
//	compute     pluggable numeric kernels, pure Go or FFT-accelerated
//	plot        renderer-independent figures: trace, forest, ridge, dist
//	plot/term   unicode terminal rendering
//	plot/svg    standalone svg documents
//	store       csv-backed run persistence
//	sampledata  deterministic example posteriors
//	config      yaml configuration
//
// The bayeslab command ties them together; see cmd/bayeslab.
package bayeslab
