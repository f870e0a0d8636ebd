// Package inference models a sampling result as named groups of labeled
// datasets (posterior, sample_stats, prior, ...) and provides the
// conversions around that form: building groups from raw draw buffers and
// flattening groups into ordered columnar records for tabular consumption.
package inference
