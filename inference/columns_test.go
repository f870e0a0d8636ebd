package inference

import (
	"strings"
	"testing"
)

func TestColumnsOrderAndReplace(t *testing.T) {
	c := NewColumns()
	c.Set("b", []float64{1})
	c.Set("a", []float64{2})
	c.Set("b", []float64{3}) // replace keeps position

	keys := c.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("Keys = %v, want [b a]", keys)
	}
	if v, _ := c.Get("b"); v[0] != 3 {
		t.Errorf("b = %v, want [3]", v)
	}
}

func TestColumnsWriteCSV(t *testing.T) {
	c := NewColumns()
	c.Set("x", []float64{1, 2.5})
	c.Set("y", []float64{3}) // ragged, pads with empty cells

	var sb strings.Builder
	if err := c.WriteCSV(&sb); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "x,y\n1,3\n2.5,\n"
	if sb.String() != want {
		t.Errorf("csv = %q, want %q", sb.String(), want)
	}
}

func TestColumnsMarshalJSON(t *testing.T) {
	c := NewColumns()
	c.Set("z", []float64{1})
	c.Set("a", []float64{2})

	out, err := c.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	want := `{"z":[1],"a":[2]}`
	if string(out) != want {
		t.Errorf("json = %s, want %s", out, want)
	}
}
