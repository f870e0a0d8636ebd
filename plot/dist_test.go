package plot

import (
	"errors"
	"math"
	"testing"
)

func continuousSample() []float64 {
	out := make([]float64, 300)
	for i := range out {
		out[i] = math.Sin(float64(i)*0.37) + float64(i%11)*0.21
	}
	return out
}

func TestDistAutoContinuous(t *testing.T) {
	fig, err := Dist(continuousSample(), DistOptions{})
	if err != nil {
		t.Fatalf("dist: %v", err)
	}
	if len(fig.Rows) != 1 || len(fig.Rows[0].Panels) != 1 {
		t.Fatalf("expected a single panel, got %+v", fig.Rows)
	}
	panel := fig.Rows[0].Panels[0]
	if panel.Kind != KindDensity {
		t.Fatalf("continuous sample should density, got %s", panel.Kind)
	}
	if len(panel.Series) != 1 || len(panel.Series[0].X) != 200 {
		t.Errorf("expected one 200-point series, got %d points", len(panel.Series[0].X))
	}
}

func TestDistAutoWholeValued(t *testing.T) {
	fig, err := Dist([]float64{0, 1, 1, 2, 2, 2, 3, 5}, DistOptions{})
	if err != nil {
		t.Fatal(err)
	}
	panel := fig.Rows[0].Panels[0]
	if panel.Kind != KindHistogram {
		t.Fatalf("whole-valued sample should histogram, got %s", panel.Kind)
	}
	total := 0.0
	for _, b := range panel.Bars {
		total += b.Height
	}
	if total != 8 {
		t.Errorf("histogram should count every value, got %f", total)
	}
}

func TestDistForcedKinds(t *testing.T) {
	fig, err := Dist(continuousSample(), DistOptions{Kind: DistHist})
	if err != nil {
		t.Fatal(err)
	}
	if fig.Rows[0].Panels[0].Kind != KindHistogram {
		t.Error("hist kind should force a histogram")
	}

	fig, err = Dist([]float64{0, 1, 1, 2, 2, 3, 1, 4}, DistOptions{Kind: DistKDE})
	if err != nil {
		t.Fatal(err)
	}
	if fig.Rows[0].Panels[0].Kind != KindDensity {
		t.Error("kde kind should force a density")
	}
}

func TestDistUnknownKind(t *testing.T) {
	_, err := Dist(continuousSample(), DistOptions{Kind: "xyz"})
	if !errors.Is(err, ErrKind) {
		t.Errorf("expected kind error, got %v", err)
	}
}

func TestDistCumulative(t *testing.T) {
	fig, err := Dist(continuousSample(), DistOptions{Kind: DistKDE, Cumulative: true})
	if err != nil {
		t.Fatal(err)
	}
	ys := fig.Rows[0].Panels[0].Series[0].Y
	for i := 1; i < len(ys); i++ {
		if ys[i] < ys[i-1] {
			t.Fatalf("cumulative density must not decrease at %d", i)
		}
	}
	if math.Abs(ys[len(ys)-1]-1) > 1e-9 {
		t.Errorf("cumulative density should end at 1, got %f", ys[len(ys)-1])
	}
}

func TestDistQuantilesAndRug(t *testing.T) {
	sample := continuousSample()
	fig, err := Dist(sample, DistOptions{Quantiles: []float64{0.25, 0.75}, Rug: true})
	if err != nil {
		t.Fatal(err)
	}
	panel := fig.Rows[0].Panels[0]
	if len(panel.VLines) != 2 || panel.VLines[0] >= panel.VLines[1] {
		t.Errorf("expected two ascending quantile lines, got %v", panel.VLines)
	}
	if len(panel.Rug) != len(sample) {
		t.Errorf("rug should mark every value, got %d of %d", len(panel.Rug), len(sample))
	}
	for i := 1; i < len(panel.Rug); i++ {
		if panel.Rug[i] < panel.Rug[i-1] {
			t.Fatal("rug positions should be sorted")
		}
	}

	if _, err := Dist(sample, DistOptions{Quantiles: []float64{1.2}}); err == nil {
		t.Error("expected error for quantile outside (0, 1)")
	}
}

func TestDistEmptySample(t *testing.T) {
	if _, err := Dist(nil, DistOptions{}); err == nil {
		t.Error("expected error for empty sample")
	}
}
