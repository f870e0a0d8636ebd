// Package plot builds backend-agnostic figures from sampling results and
// dispatches them to registered renderers. Builders (Trace, Forest, Dist)
// marshal draws, densities, and credible intervals into a Figure; the term
// and svg subpackages register the built-in renderers.
package plot
