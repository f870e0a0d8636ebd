package labeled

import (
	"fmt"
	"strconv"
	"strings"
)

// Array is a named multi-dimensional numeric array. Each axis carries a
// dimension name and a coordinate label per position. Data is stored flat
// in row-major order (last dimension fastest).
type Array struct {
	name    string
	dims    []string
	shape   []int
	strides []int
	coords  map[string][]string
	data    []float64
}

// NewArray builds an array over data, which must hold exactly the product of
// shape values. dims names one axis each; coords may supply labels for any
// subset of dims (missing ones default to decimal indices). The data slice is
// retained, not copied.
func NewArray(name string, data []float64, shape []int, dims []string, coords map[string][]string) (*Array, error) {
	if len(dims) != len(shape) {
		return nil, fmt.Errorf("%w: %q has %d dims for %d axes", ErrDimMismatch, name, len(dims), len(shape))
	}
	size := 1
	seen := make(map[string]struct{}, len(dims))
	for i, d := range dims {
		if shape[i] <= 0 {
			return nil, fmt.Errorf("%w: %q dim %q has size %d", ErrBadShape, name, d, shape[i])
		}
		if _, ok := seen[d]; ok {
			return nil, fmt.Errorf("%w: %q in %q", ErrDupDim, d, name)
		}
		seen[d] = struct{}{}
		size *= shape[i]
	}
	if len(data) != size {
		return nil, fmt.Errorf("%w: %q has %d values for shape %v", ErrSize, name, len(data), shape)
	}

	a := &Array{
		name:    name,
		dims:    append([]string(nil), dims...),
		shape:   append([]int(nil), shape...),
		strides: rowMajorStrides(shape),
		coords:  make(map[string][]string, len(dims)),
		data:    data,
	}
	for i, d := range dims {
		labels, ok := coords[d]
		if !ok {
			labels = indexLabels(shape[i])
		} else if len(labels) != shape[i] {
			return nil, fmt.Errorf("%w: dim %q has %d labels for size %d", ErrCoordLen, d, len(labels), shape[i])
		}
		a.coords[d] = append([]string(nil), labels...)
	}
	return a, nil
}

func rowMajorStrides(shape []int) []int {
	strides := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= shape[i]
	}
	return strides
}

func indexLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return labels
}

// Name returns the variable name.
func (a *Array) Name() string { return a.name }

// Rank returns the number of axes.
func (a *Array) Rank() int { return len(a.dims) }

// Size returns the total element count.
func (a *Array) Size() int { return len(a.data) }

// Dims returns the dimension names in axis order.
func (a *Array) Dims() []string { return append([]string(nil), a.dims...) }

// Shape returns the per-axis sizes.
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

// HasDim reports whether dim names an axis of the array.
func (a *Array) HasDim(dim string) bool {
	return a.axis(dim) >= 0
}

// DimSize returns the size of the named dimension, or 0 when absent.
func (a *Array) DimSize(dim string) int {
	if i := a.axis(dim); i >= 0 {
		return a.shape[i]
	}
	return 0
}

// Coords returns the coordinate labels for dim.
func (a *Array) Coords(dim string) ([]string, bool) {
	labels, ok := a.coords[dim]
	if !ok {
		return nil, false
	}
	return append([]string(nil), labels...), true
}

// Values returns the backing data slice, row-major. The slice is shared with
// the array; callers that mutate it mutate the array.
func (a *Array) Values() []float64 { return a.data }

// At returns the element at the given per-axis indices. It panics when the
// index count or any index is out of range, matching slice semantics.
func (a *Array) At(idx ...int) float64 {
	return a.data[a.offset(idx)]
}

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.dims) {
		panic(fmt.Sprintf("labeled: %d indices for rank-%d array %q", len(idx), len(a.dims), a.name))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= a.shape[i] {
			panic(fmt.Sprintf("labeled: index %d out of range for dim %q (size %d) of %q", x, a.dims[i], a.shape[i], a.name))
		}
		off += x * a.strides[i]
	}
	return off
}

func (a *Array) axis(dim string) int {
	for i, d := range a.dims {
		if d == dim {
			return i
		}
	}
	return -1
}

// Sel returns the array restricted, per selected dimension, to the positions
// of the given coordinate labels in the order listed. Keys that name no
// dimension fail with ErrCoordKey; labels absent from a dimension fail with
// ErrCoordLabel. An empty selection returns the receiver.
func (a *Array) Sel(sel map[string][]string) (*Array, error) {
	if len(sel) == 0 {
		return a, nil
	}
	var badKeys []string
	for dim := range sel {
		if !a.HasDim(dim) {
			badKeys = append(badKeys, dim)
		}
	}
	if len(badKeys) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrCoordKey, strings.Join(sortedCopy(badKeys), ", "))
	}

	// Per-axis position lists; unselected axes keep every position.
	picks := make([][]int, len(a.dims))
	for i, dim := range a.dims {
		labels, wanted := sel[dim]
		if !wanted {
			picks[i] = nil // full axis
			continue
		}
		pos := make([]int, 0, len(labels))
		for _, lbl := range labels {
			p := indexOfLabel(a.coords[dim], lbl)
			if p < 0 {
				return nil, fmt.Errorf("%w: %q has no label %q", ErrCoordLabel, dim, lbl)
			}
			pos = append(pos, p)
		}
		picks[i] = pos
	}

	outShape := make([]int, len(a.dims))
	outCoords := make(map[string][]string, len(a.dims))
	for i, dim := range a.dims {
		if picks[i] == nil {
			outShape[i] = a.shape[i]
			outCoords[dim] = a.coords[dim]
			continue
		}
		outShape[i] = len(picks[i])
		labels := make([]string, len(picks[i]))
		for j, p := range picks[i] {
			labels[j] = a.coords[dim][p]
		}
		outCoords[dim] = labels
	}

	out := make([]float64, product(outShape))
	idx := make([]int, len(outShape))
	src := make([]int, len(outShape))
	for o := range out {
		for i := range idx {
			if picks[i] == nil {
				src[i] = idx[i]
			} else {
				src[i] = picks[i][idx[i]]
			}
		}
		out[o] = a.data[a.offsetUnchecked(src)]
		increment(idx, outShape)
	}
	return NewArray(a.name, out, outShape, a.dims, outCoords)
}

func (a *Array) offsetUnchecked(idx []int) int {
	off := 0
	for i, x := range idx {
		off += x * a.strides[i]
	}
	return off
}

func indexOfLabel(labels []string, want string) int {
	for i, l := range labels {
		if l == want {
			return i
		}
	}
	return -1
}

// increment advances a row-major odometer over shape, wrapping at the end.
func increment(idx, shape []int) {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < shape[i] {
			return
		}
		idx[i] = 0
	}
}

func product(xs []int) int {
	p := 1
	for _, x := range xs {
		p *= x
	}
	return p
}
