// Package svg renders figures as standalone SVG documents. Importing the
// package registers the backend under the name "svg".
package svg

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/davin-cb/bayeslab/plot"
)

func init() { plot.Register(New()) }

// Renderer writes one self-contained SVG document per figure.
type Renderer struct{}

func New() *Renderer { return &Renderer{} }

func (r *Renderer) Name() string { return "svg" }

// Figure sizes are character-cell hints; they scale to pixels here so the
// same figure fits both media.
const (
	cellW  = 8
	cellH  = 12
	pad    = 36
	gap    = 18
	titleH = 26
)

var hexColors = map[string]string{
	"blue":   "#1f77b4",
	"orange": "#ff7f0e",
	"green":  "#2ca02c",
	"red":    "#d62728",
	"purple": "#9467bd",
	"cyan":   "#17becf",
}

func hexColor(name string) string {
	if c, ok := hexColors[name]; ok {
		return c
	}
	if strings.HasPrefix(name, "#") {
		return name
	}
	return "#1f77b4"
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }

func (r *Renderer) Render(fig *plot.Figure, w io.Writer) error {
	width := fig.Width
	if width <= 0 {
		width = plot.DefaultWidth
	}
	height := fig.Height
	if height <= 0 {
		height = plot.DefaultHeight
	}
	panelW := width * cellW
	panelH := height * cellH

	cols := 1
	for _, row := range fig.Rows {
		if len(row.Panels) > cols {
			cols = len(row.Panels)
		}
	}

	// Interval and ridge panels grow with their row count so long forests
	// stay readable.
	rowHeights := make([]int, len(fig.Rows))
	for ri, row := range fig.Rows {
		h := panelH
		for _, p := range row.Panels {
			if n := len(p.Intervals); n > 0 && n*18+46 > h {
				h = n*18 + 46
			}
			if n := len(p.Ridges); n > 0 && n*24+46 > h {
				h = n*24 + 46
			}
		}
		rowHeights[ri] = h
	}

	topPad := pad
	if fig.Title != "" {
		topPad += titleH
	}
	svgW := 2*pad + cols*panelW + (cols-1)*gap
	svgH := topPad + pad
	for i, h := range rowHeights {
		svgH += h
		if i > 0 {
			svgH += gap
		}
	}

	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(&b, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n",
		svgW, svgH, svgW, svgH)
	fmt.Fprintf(&b, "  <rect width=\"%d\" height=\"%d\" fill=\"#ffffff\"/>\n", svgW, svgH)
	if fig.Title != "" {
		fmt.Fprintf(&b, "  <text x=\"%d\" y=\"%d\" font-family=\"monospace\" font-size=\"15\" font-weight=\"bold\" fill=\"#222222\">%s</text>\n",
			pad, pad-8, escape(fig.Title))
	}

	y := topPad
	for ri, row := range fig.Rows {
		if ri > 0 {
			y += gap
		}
		for pi := range row.Panels {
			x := pad + pi*(panelW+gap)
			if err := drawPanel(&b, &row.Panels[pi], x, y, panelW, rowHeights[ri]); err != nil {
				return err
			}
		}
		y += rowHeights[ri]
	}
	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func drawPanel(b *strings.Builder, p *plot.Panel, x, y, w, h int) error {
	fmt.Fprintf(b, "  <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"none\" stroke=\"#d0d0d0\"/>\n",
		x, y, w, h)
	top := y + 8
	if p.Title != "" {
		fmt.Fprintf(b, "  <text x=\"%d\" y=\"%d\" font-family=\"monospace\" font-size=\"12\" fill=\"#222222\">%s</text>\n",
			x+8, y+16, escape(p.Title))
		top = y + 24
	}
	px, pw := x+12, w-24
	ph := y + h - 20 - top
	if ph < 20 {
		ph = 20
	}
	switch p.Kind {
	case plot.KindLine, plot.KindDensity:
		drawSeries(b, p, px, top, pw, ph)
	case plot.KindHistogram:
		drawHistogram(b, p, px, top, pw, ph)
	case plot.KindIntervals:
		drawIntervals(b, p, px, top, pw, ph)
	case plot.KindRidge:
		drawRidges(b, p, px, top, pw, ph)
	default:
		return fmt.Errorf("svg: unsupported panel kind %q", p.Kind)
	}
	return nil
}

func seriesBounds(p *plot.Panel) (xMin, xMax, yMin, yMax float64) {
	xMin, xMax = math.Inf(1), math.Inf(-1)
	yMin, yMax = math.Inf(1), math.Inf(-1)
	for _, s := range p.Series {
		for _, x := range s.X {
			xMin = math.Min(xMin, x)
			xMax = math.Max(xMax, x)
		}
		for _, v := range s.Y {
			yMin = math.Min(yMin, v)
			yMax = math.Max(yMax, v)
		}
	}
	for _, v := range p.VLines {
		xMin = math.Min(xMin, v)
		xMax = math.Max(xMax, v)
	}
	if len(p.Band) == 2 {
		xMin = math.Min(xMin, p.Band[0])
		xMax = math.Max(xMax, p.Band[1])
	}
	for _, v := range p.Rug {
		xMin = math.Min(xMin, v)
		xMax = math.Max(xMax, v)
	}
	if math.IsInf(xMin, 1) {
		xMin, xMax = 0, 1
	}
	if math.IsInf(yMin, 1) {
		yMin, yMax = 0, 1
	}
	return xMin, xMax, yMin, yMax
}

// drawSeries maps each series into the plot box with a 5% headroom on y and
// flips the y axis into screen coordinates.
func drawSeries(b *strings.Builder, p *plot.Panel, px, py, pw, ph int) {
	xMin, xMax, yMin, yMax := seriesBounds(p)
	if xMax == xMin {
		xMax = xMin + 1
	}
	if yMax == yMin {
		yMax = yMin + 1
	}
	m := (yMax - yMin) * 0.05
	yMin -= m
	yMax += m
	sx := func(x float64) float64 { return float64(px) + (x-xMin)/(xMax-xMin)*float64(pw) }
	sy := func(v float64) float64 { return float64(py) + float64(ph) - (v-yMin)/(yMax-yMin)*float64(ph) }

	if len(p.Band) == 2 {
		x0, x1 := sx(p.Band[0]), sx(p.Band[1])
		fmt.Fprintf(b, "  <rect x=\"%.2f\" y=\"%d\" width=\"%.2f\" height=\"%d\" fill=\"#bbbbbb\" opacity=\"0.35\"/>\n",
			x0, py, x1-x0, ph)
	}
	for _, v := range p.VLines {
		fmt.Fprintf(b, "  <line x1=\"%.2f\" y1=\"%d\" x2=\"%.2f\" y2=\"%d\" stroke=\"#888888\" stroke-dasharray=\"4,3\"/>\n",
			sx(v), py, sx(v), py+ph)
	}
	for _, s := range p.Series {
		var d strings.Builder
		for i := range s.X {
			cmd := "L"
			if i == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&d, "%s %.2f,%.2f ", cmd, sx(s.X[i]), sy(s.Y[i]))
		}
		fmt.Fprintf(b, "  <path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\"/>\n",
			strings.TrimSpace(d.String()), hexColor(s.Color))
	}
	for _, v := range p.Rug {
		y1, y2 := py+ph-6, py+ph
		if p.RugTop {
			y1, y2 = py, py+6
		}
		fmt.Fprintf(b, "  <line x1=\"%.2f\" y1=\"%d\" x2=\"%.2f\" y2=\"%d\" stroke=\"#333333\"/>\n",
			sx(v), y1, sx(v), y2)
	}
	axisLabels(b, px, py+ph, pw, xMin, xMax, p.XLabel)
}

func drawHistogram(b *strings.Builder, p *plot.Panel, px, py, pw, ph int) {
	if len(p.Bars) == 0 {
		return
	}
	xMin, xMax := math.Inf(1), math.Inf(-1)
	maxH := 0.0
	for _, bar := range p.Bars {
		xMin = math.Min(xMin, bar.X)
		xMax = math.Max(xMax, bar.X+bar.Width)
		if bar.Height > maxH {
			maxH = bar.Height
		}
	}
	for _, v := range p.VLines {
		xMin = math.Min(xMin, v)
		xMax = math.Max(xMax, v)
	}
	if xMax == xMin {
		xMax = xMin + 1
	}
	if maxH == 0 {
		maxH = 1
	}
	sx := func(x float64) float64 { return float64(px) + (x-xMin)/(xMax-xMin)*float64(pw) }
	bottom := py + ph
	for _, bar := range p.Bars {
		x0 := sx(bar.X)
		bw := sx(bar.X+bar.Width) - x0
		bh := bar.Height / maxH * float64(ph) * 0.95
		fmt.Fprintf(b, "  <rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" opacity=\"0.85\" stroke=\"#ffffff\" stroke-width=\"0.5\"/>\n",
			x0, float64(bottom)-bh, bw, bh, hexColor(bar.Color))
	}
	for _, v := range p.VLines {
		fmt.Fprintf(b, "  <line x1=\"%.2f\" y1=\"%d\" x2=\"%.2f\" y2=\"%d\" stroke=\"#888888\" stroke-dasharray=\"4,3\"/>\n",
			sx(v), py, sx(v), bottom)
	}
	for _, v := range p.Rug {
		fmt.Fprintf(b, "  <line x1=\"%.2f\" y1=\"%d\" x2=\"%.2f\" y2=\"%d\" stroke=\"#333333\"/>\n",
			sx(v), bottom-6, sx(v), bottom)
	}
	axisLabels(b, px, bottom, pw, xMin, xMax, p.XLabel)
}

// drawIntervals lays forest rows top to bottom: credible line, heavy
// quartile segment, median dot. Degenerate intervals draw only the dot.
func drawIntervals(b *strings.Builder, p *plot.Panel, px, py, pw, ph int) {
	if len(p.Intervals) == 0 {
		return
	}
	labelPx := 0
	for _, iv := range p.Intervals {
		if n := utf8.RuneCountInString(intervalLabel(iv))*7 + 12; n > labelPx {
			labelPx = n
		}
	}
	ix, iw := px+labelPx, pw-labelPx
	if iw < 40 {
		ix, iw = px, pw
		labelPx = 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, iv := range p.Intervals {
		lo = math.Min(lo, iv.Lo)
		hi = math.Max(hi, iv.Hi)
	}
	if len(p.Band) == 2 {
		lo = math.Min(lo, p.Band[0])
		hi = math.Max(hi, p.Band[1])
	}
	if hi == lo {
		hi = lo + 1
		lo -= 0.5
	}
	sx := func(x float64) float64 { return float64(ix) + (x-lo)/(hi-lo)*float64(iw) }

	if len(p.Band) == 2 {
		x0, x1 := sx(p.Band[0]), sx(p.Band[1])
		fmt.Fprintf(b, "  <rect x=\"%.2f\" y=\"%d\" width=\"%.2f\" height=\"%d\" fill=\"#bbbbbb\" opacity=\"0.35\"/>\n",
			x0, py, x1-x0, ph)
	}
	rowH := float64(ph) / float64(len(p.Intervals))
	for i, iv := range p.Intervals {
		cy := float64(py) + rowH*float64(i) + rowH/2
		color := hexColor(iv.Color)
		if label := intervalLabel(iv); label != "" && labelPx > 0 {
			fmt.Fprintf(b, "  <text x=\"%d\" y=\"%.2f\" font-family=\"monospace\" font-size=\"11\" fill=\"#222222\">%s</text>\n",
				px, cy+4, escape(label))
		}
		if iv.Lo != iv.Hi {
			fmt.Fprintf(b, "  <line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"1.5\"/>\n",
				sx(iv.Lo), cy, sx(iv.Hi), cy, color)
			if iv.HasQuartiles {
				fmt.Fprintf(b, "  <line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"4\"/>\n",
					sx(iv.QLo), cy, sx(iv.QHi), cy, color)
			}
		}
		fmt.Fprintf(b, "  <circle cx=\"%.2f\" cy=\"%.2f\" r=\"3.5\" fill=\"%s\"/>\n", sx(iv.Mid), cy, color)
	}
	axisLabels(b, ix, py+ph, iw, lo, hi, p.XLabel)
}

func intervalLabel(iv plot.Interval) string {
	label := iv.Label
	if iv.Model != "" {
		if label != "" {
			label += " "
		}
		label += iv.Model
	}
	return label
}

// drawRidges stacks one filled density band per ridge.
func drawRidges(b *strings.Builder, p *plot.Panel, px, py, pw, ph int) {
	if len(p.Ridges) == 0 {
		return
	}
	labelPx := 0
	for _, r := range p.Ridges {
		if n := utf8.RuneCountInString(ridgeLabel(r))*7 + 12; n > labelPx {
			labelPx = n
		}
	}
	ix, iw := px+labelPx, pw-labelPx
	if iw < 40 {
		ix, iw = px, pw
		labelPx = 0
	}
	xMin, xMax := math.Inf(1), math.Inf(-1)
	for _, r := range p.Ridges {
		for _, x := range r.X {
			xMin = math.Min(xMin, x)
			xMax = math.Max(xMax, x)
		}
	}
	if math.IsInf(xMin, 1) || xMax == xMin {
		xMin, xMax = 0, 1
	}
	sx := func(x float64) float64 { return float64(ix) + (x-xMin)/(xMax-xMin)*float64(iw) }

	bandH := float64(ph) / float64(len(p.Ridges))
	for ri, r := range p.Ridges {
		yBase := float64(py) + bandH*float64(ri+1)
		maxY := 0.0
		for _, v := range r.Y {
			if v > maxY {
				maxY = v
			}
		}
		if maxY == 0 {
			maxY = 1
		}
		color := hexColor(r.Color)
		fmt.Fprintf(b, "  <line x1=\"%d\" y1=\"%.2f\" x2=\"%d\" y2=\"%.2f\" stroke=\"#e0e0e0\"/>\n",
			ix, yBase, ix+iw, yBase)
		if len(r.X) > 0 {
			var d strings.Builder
			fmt.Fprintf(&d, "M %.2f,%.2f ", sx(r.X[0]), yBase)
			for i := range r.X {
				fmt.Fprintf(&d, "L %.2f,%.2f ", sx(r.X[i]), yBase-r.Y[i]/maxY*bandH*0.85)
			}
			fmt.Fprintf(&d, "L %.2f,%.2f Z", sx(r.X[len(r.X)-1]), yBase)
			fmt.Fprintf(b, "  <path d=\"%s\" fill=\"%s\" opacity=\"0.35\" stroke=\"%s\" stroke-width=\"1.2\"/>\n",
				d.String(), color, color)
		}
		if label := ridgeLabel(r); label != "" && labelPx > 0 {
			fmt.Fprintf(b, "  <text x=\"%d\" y=\"%.2f\" font-family=\"monospace\" font-size=\"11\" fill=\"#222222\">%s</text>\n",
				px, yBase-3, escape(label))
		}
	}
	axisLabels(b, ix, py+ph, iw, xMin, xMax, p.XLabel)
}

func ridgeLabel(r plot.Ridge) string {
	label := r.Label
	if r.Model != "" {
		if label != "" {
			label += " "
		}
		label += r.Model
	}
	return label
}

func axisLabels(b *strings.Builder, px, yBase, pw int, xMin, xMax float64, xLabel string) {
	fmt.Fprintf(b, "  <text x=\"%d\" y=\"%d\" font-family=\"monospace\" font-size=\"10\" fill=\"#777777\">%.4g</text>\n",
		px, yBase+14, xMin)
	fmt.Fprintf(b, "  <text x=\"%d\" y=\"%d\" font-family=\"monospace\" font-size=\"10\" fill=\"#777777\" text-anchor=\"end\">%.4g</text>\n",
		px+pw, yBase+14, xMax)
	if xLabel != "" {
		fmt.Fprintf(b, "  <text x=\"%d\" y=\"%d\" font-family=\"monospace\" font-size=\"10\" fill=\"#777777\" text-anchor=\"middle\">%s</text>\n",
			px+pw/2, yBase+14, escape(xLabel))
	}
}
