package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/davin-cb/bayeslab/plot"
)

func render(t *testing.T, fig *plot.Figure) string {
	t.Helper()
	var buf bytes.Buffer
	if err := New().Render(fig, &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return buf.String()
}

func TestRegistered(t *testing.T) {
	r, err := plot.Get("term")
	if err != nil {
		t.Fatalf("Get(term): %v", err)
	}
	if r.Name() != "term" {
		t.Fatalf("Name = %q, want term", r.Name())
	}
}

func TestRenderTraceRow(t *testing.T) {
	fig := &plot.Figure{
		Rows: []plot.PanelRow{{Panels: []plot.Panel{
			{
				Kind:  plot.KindDensity,
				Title: "mu",
				Series: []plot.Series{
					{Label: "chain 0", X: []float64{0, 1, 2, 3}, Y: []float64{0.1, 0.4, 0.3, 0.1}, Color: "blue"},
					{Label: "chain 1", X: []float64{0, 1, 2, 3}, Y: []float64{0.2, 0.3, 0.4, 0.2}, Color: "orange"},
				},
			},
			{
				Kind:   plot.KindLine,
				Title:  "mu",
				XLabel: "draw",
				Series: []plot.Series{
					{Label: "chain 0", X: []float64{0, 1, 2, 3}, Y: []float64{0.5, 1.2, 0.8, 1.0}, Color: "blue"},
					{Label: "chain 1", X: []float64{0, 1, 2, 3}, Y: []float64{0.7, 0.9, 1.1, 0.6}, Color: "orange"},
				},
				Rug: []float64{1, 3},
			},
		}}},
	}
	out := render(t, fig)
	if !strings.Contains(out, "mu") {
		t.Fatalf("output lacks panel title:\n%s", out)
	}
	if !strings.Contains(out, "draw") {
		t.Fatalf("output lacks x label:\n%s", out)
	}
	if !strings.Contains(out, "▴") {
		t.Fatalf("output lacks rug ticks:\n%s", out)
	}
	if !strings.Contains(out, "chain 0") || !strings.Contains(out, "chain 1") {
		t.Fatalf("output lacks legend:\n%s", out)
	}
}

func TestRenderTopRug(t *testing.T) {
	fig := &plot.Figure{
		Rows: []plot.PanelRow{{Panels: []plot.Panel{{
			Kind:   plot.KindLine,
			Series: []plot.Series{{X: []float64{0, 1, 2}, Y: []float64{1, 2, 1}}},
			Rug:    []float64{1},
			RugTop: true,
		}}}},
	}
	out := render(t, fig)
	if !strings.Contains(out, "▾") {
		t.Fatalf("output lacks top rug ticks:\n%s", out)
	}
	if strings.Contains(out, "▴") {
		t.Fatalf("top rug should not draw bottom ticks:\n%s", out)
	}
}

func TestRenderIntervals(t *testing.T) {
	fig := &plot.Figure{
		Title: "94% HDI",
		Rows: []plot.PanelRow{{Panels: []plot.Panel{{
			Kind: plot.KindIntervals,
			Band: []float64{-0.5, 0.5},
			Intervals: []plot.Interval{
				{Label: "mu", Lo: -1, Mid: 0.2, Hi: 1.5, QLo: -0.3, QHi: 0.8, HasQuartiles: true, Color: "blue"},
				{Label: "theta[a]", Lo: -2, Mid: 0, Hi: 2, Color: "blue"},
			},
		}}}},
	}
	out := render(t, fig)
	for _, want := range []string{"mu", "theta[a]", "├", "┤", "●", "━", "░", "94% HDI"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestRenderPointInterval(t *testing.T) {
	fig := &plot.Figure{
		Rows: []plot.PanelRow{{Panels: []plot.Panel{{
			Kind: plot.KindIntervals,
			Intervals: []plot.Interval{
				{Label: "ess", Lo: 312.4, Mid: 312.4, Hi: 312.4},
				{Label: "", Lo: 298.1, Mid: 298.1, Hi: 298.1},
			},
		}}}},
	}
	out := render(t, fig)
	if !strings.Contains(out, "●") {
		t.Fatalf("point interval should draw a marker:\n%s", out)
	}
	if strings.Contains(out, "├") {
		t.Fatalf("point interval should not draw whiskers:\n%s", out)
	}
}

func TestRenderHistogram(t *testing.T) {
	fig := &plot.Figure{
		Rows: []plot.PanelRow{{Panels: []plot.Panel{{
			Kind:  plot.KindHistogram,
			Title: "counts",
			Bars: []plot.Bar{
				{X: -0.5, Width: 1, Height: 3, Color: "blue"},
				{X: 0.5, Width: 1, Height: 5, Color: "blue"},
				{X: 1.5, Width: 1, Height: 1, Color: "blue"},
			},
		}}}},
	}
	out := render(t, fig)
	if !strings.Contains(out, "█") {
		t.Fatalf("output lacks bars:\n%s", out)
	}
	for _, want := range []string{"0", "1", "2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output lacks bin center %q:\n%s", want, out)
		}
	}
}

func TestRenderRidges(t *testing.T) {
	x := []float64{0, 0.5, 1, 1.5, 2}
	fig := &plot.Figure{
		Rows: []plot.PanelRow{{Panels: []plot.Panel{{
			Kind: plot.KindRidge,
			Ridges: []plot.Ridge{
				{Label: "theta[a]", X: x, Y: []float64{0.1, 0.8, 1.0, 0.6, 0.1}, Color: "blue"},
				{Label: "theta[b]", X: x, Y: []float64{0.2, 0.5, 0.9, 0.8, 0.2}, Color: "orange"},
			},
		}}}},
	}
	out := render(t, fig)
	if !strings.Contains(out, "theta[a]") || !strings.Contains(out, "theta[b]") {
		t.Fatalf("output lacks ridge labels:\n%s", out)
	}
	braille := false
	for _, r := range out {
		if r > 0x2800 && r <= 0x28ff {
			braille = true
			break
		}
	}
	if !braille {
		t.Fatalf("output lacks braille curves:\n%s", out)
	}
}

func TestRenderUnknownKind(t *testing.T) {
	fig := &plot.Figure{Rows: []plot.PanelRow{{Panels: []plot.Panel{{Kind: plot.Kind("pie")}}}}}
	var buf bytes.Buffer
	if err := New().Render(fig, &buf); err == nil {
		t.Fatal("expected error for unknown panel kind")
	}
}

func TestCanvas(t *testing.T) {
	c := newCanvas(4, 2)
	c.set(0, 0)
	if c.grid[0][0] != 0x2801 {
		t.Fatalf("set(0,0): cell = %#x, want 0x2801", c.grid[0][0])
	}
	c.line(0, 7, 7, 0)
	s := c.row(0) + c.row(1)
	lit := 0
	for _, r := range s {
		if r > 0x2800 {
			lit++
		}
	}
	if lit < 3 {
		t.Fatalf("line lit %d cells, want >= 3:\n%s", lit, s)
	}
	c.set(-1, 0)
	c.set(0, 100)
}
