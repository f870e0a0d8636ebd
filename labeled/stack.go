package labeled

import "fmt"

// Stacked is a read-only view of an array with a chosen set of dimensions
// merged into one trailing composite axis. The composite axis iterates the
// stacked dimensions row-major in the order they were requested (last one
// fastest); the remaining dimensions keep their original relative order and
// are iterated row-major by slice index.
type Stacked struct {
	src       *Array
	stackDims []string
	rest      []string
	restShape []int
	restStr   []int // source strides of the remaining dims
	offsets   []int // source offset contribution per composite position
	stackIdx  []int // flattened per-position indices, one per stacked dim
}

// Stack merges the given dimensions of the array into one composite axis.
// Every requested dimension must exist; the remaining dimensions may be
// empty, in which case the array is a single series over the composite axis.
func (a *Array) Stack(dims ...string) (*Stacked, error) {
	if len(dims) == 0 {
		return nil, fmt.Errorf("%w: no dimensions to stack over", ErrUnknownDim)
	}
	axes := make([]int, len(dims))
	used := make(map[string]struct{}, len(dims))
	for i, dim := range dims {
		ax := a.axis(dim)
		if ax < 0 {
			return nil, fmt.Errorf("%w: %q not in %q", ErrUnknownDim, dim, a.name)
		}
		if _, dup := used[dim]; dup {
			return nil, fmt.Errorf("%w: %q listed twice", ErrDupDim, dim)
		}
		used[dim] = struct{}{}
		axes[i] = ax
	}

	s := &Stacked{src: a, stackDims: append([]string(nil), dims...)}
	for i, dim := range a.dims {
		if _, ok := used[dim]; !ok {
			s.rest = append(s.rest, dim)
			s.restShape = append(s.restShape, a.shape[i])
			s.restStr = append(s.restStr, a.strides[i])
		}
	}

	stackShape := make([]int, len(dims))
	for i, ax := range axes {
		stackShape[i] = a.shape[ax]
	}
	n := product(stackShape)
	s.offsets = make([]int, n)
	s.stackIdx = make([]int, 0, n*len(dims))
	idx := make([]int, len(dims))
	for p := 0; p < n; p++ {
		off := 0
		for i, ax := range axes {
			off += idx[i] * a.strides[ax]
		}
		s.offsets[p] = off
		s.stackIdx = append(s.stackIdx, idx...)
		increment(idx, stackShape)
	}
	return s, nil
}

// N returns the length of the composite axis.
func (s *Stacked) N() int { return len(s.offsets) }

// Len returns the number of remaining-dimension combinations, 1 when every
// dimension was stacked.
func (s *Stacked) Len() int { return product(s.restShape) }

// Dims returns the stacked dimension names in composite-axis order.
func (s *Stacked) Dims() []string { return append([]string(nil), s.stackDims...) }

// RestDims returns the remaining dimension names in axis order.
func (s *Stacked) RestDims() []string { return append([]string(nil), s.rest...) }

// RestShape returns the sizes of the remaining dimensions.
func (s *Stacked) RestShape() []int { return append([]int(nil), s.restShape...) }

// RestIndex decomposes slice index i into per-remaining-dimension indices.
func (s *Stacked) RestIndex(i int) []int {
	idx := make([]int, len(s.restShape))
	for d := len(s.restShape) - 1; d >= 0; d-- {
		idx[d] = i % s.restShape[d]
		i /= s.restShape[d]
	}
	return idx
}

// RestLabels returns the coordinate labels selected by slice index i, keyed
// by remaining dimension name.
func (s *Stacked) RestLabels(i int) map[string]string {
	idx := s.RestIndex(i)
	out := make(map[string]string, len(s.rest))
	for d, dim := range s.rest {
		out[dim] = s.src.coords[dim][idx[d]]
	}
	return out
}

// Slice copies out the 1-D series over the composite axis for the i-th
// remaining-dimension combination (row-major).
func (s *Stacked) Slice(i int) []float64 {
	base := 0
	rest := s.RestIndex(i)
	for d, x := range rest {
		base += x * s.restStr[d]
	}
	out := make([]float64, len(s.offsets))
	for p, off := range s.offsets {
		out[p] = s.src.data[base+off]
	}
	return out
}

// DimLabels returns, for one stacked dimension, its coordinate label at every
// composite-axis position.
func (s *Stacked) DimLabels(dim string) ([]string, error) {
	k := -1
	for i, d := range s.stackDims {
		if d == dim {
			k = i
		}
	}
	if k < 0 {
		return nil, fmt.Errorf("%w: %q not stacked", ErrUnknownDim, dim)
	}
	labels := s.src.coords[dim]
	w := len(s.stackDims)
	out := make([]string, len(s.offsets))
	for p := range out {
		out[p] = labels[s.stackIdx[p*w+k]]
	}
	return out, nil
}
