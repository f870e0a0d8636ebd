package inference

import (
	"testing"

	"github.com/davin-cb/bayeslab/labeled"
)

func TestGroupsCanonicalOrder(t *testing.T) {
	ds, err := labeled.NewDataset()
	if err != nil {
		t.Fatal(err)
	}
	d := New()
	// Insertion order must not leak into Groups().
	for _, g := range []string{GroupSampleStats, GroupObservedData, GroupPosterior} {
		if err := d.Set(g, ds); err != nil {
			t.Fatalf("Set(%s): %v", g, err)
		}
	}

	got := d.Groups()
	want := []string{GroupPosterior, GroupSampleStats, GroupObservedData}
	if len(got) != len(want) {
		t.Fatalf("Groups = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Groups = %v, want %v", got, want)
		}
	}

	if ds := d.Datasets([]string{GroupPrior, GroupPosterior}); len(ds) != 1 {
		t.Errorf("Datasets skips absent groups: got %d entries", len(ds))
	}
	if !KnownGroup(GroupPrior) || KnownGroup("weird") {
		t.Error("KnownGroup misclassifies")
	}
}
