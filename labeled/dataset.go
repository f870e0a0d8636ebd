package labeled

import (
	"fmt"
	"sort"
	"strings"
)

// Dataset is an insertion-ordered collection of named arrays. Arrays sharing
// a dimension name must agree on its size and coordinate labels, so a
// dimension means the same thing for every variable that carries it.
type Dataset struct {
	names []string
	vars  map[string]*Array
}

// NewDataset builds a dataset from arrays, preserving their order.
func NewDataset(arrays ...*Array) (*Dataset, error) {
	d := &Dataset{vars: make(map[string]*Array, len(arrays))}
	for _, a := range arrays {
		if err := d.Add(a); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Add appends an array to the dataset. Duplicate variable names and
// dimension conflicts with existing members are rejected.
func (d *Dataset) Add(a *Array) error {
	if _, ok := d.vars[a.name]; ok {
		return fmt.Errorf("%w: %q", ErrDupVar, a.name)
	}
	for _, dim := range a.dims {
		other, size, ok := d.dimOwner(dim)
		if !ok {
			continue
		}
		if size != a.DimSize(dim) {
			return fmt.Errorf("%w: %q has size %d in %q but %d in %q",
				ErrDimConflict, dim, a.DimSize(dim), a.name, size, other)
		}
		have, _ := d.Coords(dim)
		want := a.coords[dim]
		for i := range want {
			if have[i] != want[i] {
				return fmt.Errorf("%w: %q labels differ between %q and %q",
					ErrDimConflict, dim, a.name, other)
			}
		}
	}
	d.names = append(d.names, a.name)
	d.vars[a.name] = a
	return nil
}

func (d *Dataset) dimOwner(dim string) (name string, size int, ok bool) {
	for _, n := range d.names {
		if a := d.vars[n]; a.HasDim(dim) {
			return n, a.DimSize(dim), true
		}
	}
	return "", 0, false
}

// Names returns the variable names in declaration order.
func (d *Dataset) Names() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.names...)
}

// Len returns the number of variables.
func (d *Dataset) Len() int { return len(d.names) }

// Get returns the named array.
func (d *Dataset) Get(name string) (*Array, bool) {
	a, ok := d.vars[name]
	return a, ok
}

// Has reports whether name is a variable of the dataset.
func (d *Dataset) Has(name string) bool {
	_, ok := d.vars[name]
	return ok
}

// Dims returns every dimension name with its size.
func (d *Dataset) Dims() map[string]int {
	out := make(map[string]int)
	for _, n := range d.names {
		a := d.vars[n]
		for i, dim := range a.dims {
			out[dim] = a.shape[i]
		}
	}
	return out
}

// Coords returns the coordinate labels of dim, taken from the first variable
// carrying it.
func (d *Dataset) Coords(dim string) ([]string, bool) {
	for _, n := range d.names {
		if labels, ok := d.vars[n].Coords(dim); ok {
			return labels, true
		}
	}
	return nil, false
}

// Sel subsets every member array by coordinate label. Dimensions a member
// lacks are ignored for that member; keys that name no dimension of any
// member fail with ErrCoordKey.
func (d *Dataset) Sel(sel map[string][]string) (*Dataset, error) {
	if len(sel) == 0 {
		return d, nil
	}
	dims := d.Dims()
	var badKeys []string
	for dim := range sel {
		if _, ok := dims[dim]; !ok {
			badKeys = append(badKeys, dim)
		}
	}
	if len(badKeys) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrCoordKey, strings.Join(sortedCopy(badKeys), ", "))
	}

	out := &Dataset{vars: make(map[string]*Array, len(d.names))}
	for _, n := range d.names {
		a := d.vars[n]
		member := make(map[string][]string)
		for dim, labels := range sel {
			if a.HasDim(dim) {
				member[dim] = labels
			}
		}
		sub, err := a.Sel(member)
		if err != nil {
			return nil, err
		}
		if err := out.Add(sub); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func sortedCopy(xs []string) []string {
	out := append([]string(nil), xs...)
	sort.Strings(out)
	return out
}
