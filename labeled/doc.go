// Package labeled implements named multi-dimensional arrays with labeled
// dimensions and per-dimension coordinate labels, plus the variable-name
// selection logic shared by the analysis and plotting layers.
//
// # Arrays and datasets
//
//   - [Array] is a named, row-major numeric array. Every axis has a
//     dimension name and a sequence of coordinate labels (decimal indices
//     when none are given).
//   - [Dataset] is an insertion-ordered collection of arrays. Arrays that
//     share a dimension name must agree on its size and labels.
//
// Typical inference data uses the leading dimensions "chain" and "draw",
// but nothing in this package depends on those names.
//
// # Subsetting and stacking
//
// [Array.Sel] and [Dataset.Sel] subset axes by coordinate label. [Array.Stack]
// merges a set of dimensions into one trailing composite axis, which is how
// callers iterate per-draw values regardless of the variable's extra
// dimensions:
//
//	st, err := theta.Stack("chain", "draw")
//	for i := 0; i < st.Len(); i++ {
//	    draws := st.Slice(i) // one series per remaining-dimension combination
//	}
//
// # Variable selection
//
// [SelectNames] resolves a name selection (exact names, substrings, or
// regular expressions, each optionally negated with a leading '~') against
// one or more datasets. See [FilterMode] for the matching policies. The
// resolution is pure: non-fatal conditions are returned as warning strings,
// and a nil selection means "keep everything" and resolves to nil.
package labeled
