// Package store persists sampling results on disk, one directory per run:
// metadata.json describes every group's variables (dims, shape, coordinate
// labels) and each group's draws go to <group>.csv in flattened columnar
// form, so runs survive across bayeslab invocations.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/davin-cb/bayeslab/inference"
	"github.com/davin-cb/bayeslab/labeled"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// VariableMeta records the layout needed to rebuild one array from its CSV
// columns.
type VariableMeta struct {
	Name   string              `json:"name"`
	Dims   []string            `json:"dims"`
	Shape  []int               `json:"shape"`
	Coords map[string][]string `json:"coords"`
}

// RunMetadata describes one stored run.
type RunMetadata struct {
	ID      string                    `json:"id"`
	Source  string                    `json:"source"`
	Created time.Time                 `json:"created"`
	Groups  map[string][]VariableMeta `json:"groups"`
}

// Save writes a result under a fresh run id derived from the source label
// and returns the id.
func (s *Store) Save(source string, d *inference.Data) (string, error) {
	id := fmt.Sprintf("%s_%d", source, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", fmt.Errorf("store: run %s: %w", id, err)
	}

	meta := RunMetadata{
		ID:      id,
		Source:  source,
		Created: time.Now(),
		Groups:  make(map[string][]VariableMeta),
	}
	for _, group := range d.Groups() {
		ds, _ := d.Get(group)
		for _, name := range ds.Names() {
			a, _ := ds.Get(name)
			vm := VariableMeta{
				Name:   name,
				Dims:   a.Dims(),
				Shape:  a.Shape(),
				Coords: make(map[string][]string, a.Rank()),
			}
			for _, dim := range a.Dims() {
				labels, _ := a.Coords(dim)
				vm.Coords[dim] = labels
			}
			meta.Groups[group] = append(meta.Groups[group], vm)
		}

		cols, err := groupColumns(d, group)
		if err != nil {
			return "", fmt.Errorf("store: run %s: %w", id, err)
		}
		f, err := os.Create(filepath.Join(runDir, group+".csv"))
		if err != nil {
			return "", fmt.Errorf("store: run %s: %w", id, err)
		}
		if err := cols.WriteCSV(f); err != nil {
			f.Close()
			return "", fmt.Errorf("store: run %s: %w", id, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("store: run %s: %w", id, err)
		}
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", fmt.Errorf("store: run %s: %w", id, err)
	}
	defer metaFile.Close()
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("store: run %s: %w", id, err)
	}
	return id, nil
}

// groupColumns builds one group's stored columnar form: sample-bearing
// groups flatten over (chain, draw) with underscore keys and zero-based
// indices, observed data keeps one whole column per variable.
func groupColumns(d *inference.Data, group string) (*inference.Columns, error) {
	if group == inference.GroupObservedData {
		ds, _ := d.Get(group)
		cols := inference.NewColumns()
		for _, name := range ds.Names() {
			a, _ := ds.Get(name)
			cols.Set(name, a.Values())
		}
		return cols, nil
	}
	cols, _, err := inference.Flatten(d, inference.FlattenOptions{
		Groups:     []string{group},
		FormatName: "underscore",
	})
	return cols, err
}

// List returns metadata for every readable run, oldest first. Entries whose
// metadata cannot be read are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		if runs[i].Created.Equal(runs[j].Created) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Created.Before(runs[j].Created)
	})
	return runs, nil
}

// Meta loads one run's metadata.
func (s *Store) Meta(id string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("store: run %s: %w", id, err)
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("store: run %s: %w", id, err)
	}
	return &meta, nil
}

// Load rebuilds a stored result from its metadata and per-group CSV files.
func (s *Store) Load(id string) (*inference.Data, *RunMetadata, error) {
	meta, err := s.Meta(id)
	if err != nil {
		return nil, nil, err
	}

	d := inference.New()
	for _, group := range inference.GroupNames() {
		vars, ok := meta.Groups[group]
		if !ok {
			continue
		}
		cols, err := readColumns(filepath.Join(s.baseDir, id, group+".csv"))
		if err != nil {
			return nil, nil, fmt.Errorf("store: run %s: %w", id, err)
		}
		arrays := make([]*labeled.Array, 0, len(vars))
		for _, vm := range vars {
			values, err := gather(cols, vm, group == inference.GroupObservedData)
			if err != nil {
				return nil, nil, fmt.Errorf("store: run %s, group %s: %w", id, group, err)
			}
			a, err := labeled.NewArray(vm.Name, values, vm.Shape, vm.Dims, vm.Coords)
			if err != nil {
				return nil, nil, fmt.Errorf("store: run %s, group %s: %w", id, group, err)
			}
			arrays = append(arrays, a)
		}
		ds, err := labeled.NewDataset(arrays...)
		if err != nil {
			return nil, nil, fmt.Errorf("store: run %s, group %s: %w", id, group, err)
		}
		if err := d.Set(group, ds); err != nil {
			return nil, nil, fmt.Errorf("store: run %s: %w", id, err)
		}
	}
	return d, meta, nil
}

// Delete removes a stored run and its files.
func (s *Store) Delete(id string) error {
	if id == "" {
		return fmt.Errorf("store: empty run id")
	}
	runDir := filepath.Join(s.baseDir, id)
	if _, err := os.Stat(runDir); err != nil {
		return fmt.Errorf("store: run %s: %w", id, err)
	}
	if err := os.RemoveAll(runDir); err != nil {
		return fmt.Errorf("store: run %s: %w", id, err)
	}
	return nil
}

// readColumns parses a group CSV back to per-key value slices, skipping the
// empty cells shorter columns were padded with.
func readColumns(path string) (map[string][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	cols := make(map[string][]float64)
	if len(records) == 0 {
		return cols, nil
	}
	header := records[0]
	for i := 1; i < len(records); i++ {
		for j, cell := range records[i] {
			if cell == "" || j >= len(header) {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", filepath.Base(path), i, err)
			}
			cols[header[j]] = append(cols[header[j]], v)
		}
	}
	return cols, nil
}

// gather reassembles one variable's row-major values from its stored
// columns. Sample groups hold one column per remaining-index combination
// along a chain-major (chain, draw) composite axis; observed data holds the
// variable whole under its own name.
func gather(cols map[string][]float64, vm VariableMeta, whole bool) ([]float64, error) {
	size := 1
	for _, n := range vm.Shape {
		size *= n
	}
	if whole {
		col, ok := cols[vm.Name]
		if !ok || len(col) != size {
			return nil, fmt.Errorf("column %q missing or truncated", vm.Name)
		}
		return col, nil
	}

	chainAx, drawAx := -1, -1
	for i, dim := range vm.Dims {
		switch dim {
		case inference.DimChain:
			chainAx = i
		case inference.DimDraw:
			drawAx = i
		}
	}
	if chainAx < 0 || drawAx < 0 {
		return nil, fmt.Errorf("variable %q lacks chain/draw dimensions", vm.Name)
	}

	strides := make([]int, len(vm.Shape))
	acc := 1
	for i := len(vm.Shape) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= vm.Shape[i]
	}
	nChains, nDraws := vm.Shape[chainAx], vm.Shape[drawAx]

	var restAx []int
	for i := range vm.Dims {
		if i != chainAx && i != drawAx {
			restAx = append(restAx, i)
		}
	}

	values := make([]float64, size)
	idx := make([]int, len(restAx))
	for {
		key := vm.Name
		if len(restAx) > 0 {
			parts := make([]string, len(idx))
			for k, x := range idx {
				parts[k] = strconv.Itoa(x)
			}
			key += "_" + strings.Join(parts, "_")
		}
		col, ok := cols[key]
		if !ok || len(col) != nChains*nDraws {
			return nil, fmt.Errorf("column %q missing or truncated for %q", key, vm.Name)
		}
		base := 0
		for k, ax := range restAx {
			base += idx[k] * strides[ax]
		}
		for p, v := range col {
			values[base+(p/nDraws)*strides[chainAx]+(p%nDraws)*strides[drawAx]] = v
		}

		done := true
		for k := len(idx) - 1; k >= 0; k-- {
			idx[k]++
			if idx[k] < vm.Shape[restAx[k]] {
				done = false
				break
			}
			idx[k] = 0
		}
		if done {
			break
		}
	}
	return values, nil
}
