package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/davin-cb/bayeslab/inference"
	"github.com/davin-cb/bayeslab/labeled"
)

func fixtureData(t *testing.T) *inference.Data {
	t.Helper()

	mu, err := labeled.NewArray("mu",
		[]float64{0.5, 1.5, 2.5, 3.5, 4.5, 5.5},
		[]int{2, 3}, []string{"chain", "draw"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	theta, err := labeled.NewArray("theta",
		[]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		[]int{2, 3, 2}, []string{"chain", "draw", "school"},
		map[string][]string{"school": {"a", "b"}})
	if err != nil {
		t.Fatal(err)
	}
	div, err := labeled.NewArray("diverging",
		[]float64{0, 0, 1, 0, 0, 0},
		[]int{2, 3}, []string{"chain", "draw"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	y, err := labeled.NewArray("y",
		[]float64{28, 8},
		[]int{2}, []string{"school"},
		map[string][]string{"school": {"a", "b"}})
	if err != nil {
		t.Fatal(err)
	}

	posterior, err := labeled.NewDataset(mu, theta)
	if err != nil {
		t.Fatal(err)
	}
	stats, err := labeled.NewDataset(div)
	if err != nil {
		t.Fatal(err)
	}
	observed, err := labeled.NewDataset(y)
	if err != nil {
		t.Fatal(err)
	}

	d := inference.New()
	for group, ds := range map[string]*labeled.Dataset{
		inference.GroupPosterior:    posterior,
		inference.GroupSampleStats:  stats,
		inference.GroupObservedData: observed,
	} {
		if err := d.Set(group, ds); err != nil {
			t.Fatal(err)
		}
	}
	return d
}

func equalValues(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSaveCreatesFiles(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.Save("test", fixtureData(t))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	for _, name := range []string{"metadata.json", "posterior.csv", "sample_stats.csv", "observed_data.csv"} {
		if _, err := os.Stat(filepath.Join(s.baseDir, id, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	orig := fixtureData(t)
	id, err := s.Save("schools", orig)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Source != "schools" {
		t.Errorf("expected source schools, got %s", meta.Source)
	}
	if len(got.Groups()) != 3 {
		t.Fatalf("expected 3 groups, got %v", got.Groups())
	}

	for _, group := range orig.Groups() {
		want, _ := orig.Get(group)
		have, ok := got.Get(group)
		if !ok {
			t.Fatalf("group %s missing after load", group)
		}
		for _, name := range want.Names() {
			wa, _ := want.Get(name)
			ha, ok := have.Get(name)
			if !ok {
				t.Fatalf("%s/%s missing after load", group, name)
			}
			if !equalValues(wa.Values(), ha.Values()) {
				t.Errorf("%s/%s values changed: %v vs %v", group, name, wa.Values(), ha.Values())
			}
		}
	}

	theta, _ := mustGroup(t, got, inference.GroupPosterior).Get("theta")
	labels, ok := theta.Coords("school")
	if !ok || len(labels) != 2 || labels[0] != "a" || labels[1] != "b" {
		t.Errorf("school coords lost: %v", labels)
	}
}

func mustGroup(t *testing.T, d *inference.Data, group string) *labeled.Dataset {
	t.Helper()
	ds, ok := d.Get(group)
	if !ok {
		t.Fatalf("group %s missing", group)
	}
	return ds
}

func TestList(t *testing.T) {
	s := New(t.TempDir())

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list empty store: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	d := fixtureData(t)
	first, err := s.Save("one", d)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Save("two", d)
	if err != nil {
		t.Fatal(err)
	}

	// A stray directory without metadata must be skipped, not fail the
	// listing.
	if err := os.MkdirAll(filepath.Join(s.baseDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("expected oldest first [%s %s], got [%s %s]", first, second, runs[0].ID, runs[1].ID)
	}
}

func TestDelete(t *testing.T) {
	s := New(t.TempDir())
	id, err := s.Save("gone", fixtureData(t))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	runs, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs after delete, got %d", len(runs))
	}

	if err := s.Delete(id); err == nil {
		t.Error("expected error deleting unknown run")
	}
	if err := s.Delete(""); err == nil {
		t.Error("expected error deleting empty id")
	}
}

func TestLoadMissingRun(t *testing.T) {
	s := New(t.TempDir())
	if _, _, err := s.Load("absent_1"); err == nil {
		t.Error("expected error for missing run")
	}
}
