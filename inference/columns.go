package inference

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

// Columns is an ordered mapping from string keys to numeric sequences, the
// flattened-record form consumed by tabular and columnar sinks. Keys keep
// their first-insertion position; columns may differ in length.
type Columns struct {
	keys []string
	cols map[string][]float64
}

// NewColumns returns an empty record.
func NewColumns() *Columns {
	return &Columns{cols: make(map[string][]float64)}
}

// Set inserts or replaces a column. Replacing keeps the key's original
// position.
func (c *Columns) Set(key string, values []float64) {
	if _, ok := c.cols[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.cols[key] = values
}

// Get returns the column for key.
func (c *Columns) Get(key string) ([]float64, bool) {
	v, ok := c.cols[key]
	return v, ok
}

// Has reports whether key is present.
func (c *Columns) Has(key string) bool {
	_, ok := c.cols[key]
	return ok
}

// Keys returns the keys in insertion order.
func (c *Columns) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Len returns the number of columns.
func (c *Columns) Len() int { return len(c.keys) }

// Rows returns the longest column length.
func (c *Columns) Rows() int {
	max := 0
	for _, col := range c.cols {
		if len(col) > max {
			max = len(col)
		}
	}
	return max
}

// WriteCSV emits the record as CSV: one header row of keys, then one row per
// position. Shorter columns pad with empty cells.
func (c *Columns) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(c.keys); err != nil {
		return err
	}
	rows := c.Rows()
	record := make([]string, len(c.keys))
	for r := 0; r < rows; r++ {
		for i, key := range c.keys {
			col := c.cols[key]
			if r < len(col) {
				record[i] = strconv.FormatFloat(col[r], 'g', -1, 64)
			} else {
				record[i] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalJSON emits a JSON object whose members follow insertion order.
func (c *Columns) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(c.cols[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
