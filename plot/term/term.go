// Package term renders figures as unicode text for the terminal. Line and
// density panels go through asciigraph, forest rows are drawn as interval
// bars and ridgelines on a braille canvas. Importing the package registers
// the backend under the name "term".
package term

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/davin-cb/bayeslab/plot"
)

func init() { plot.Register(New()) }

// Renderer draws figures as styled terminal text.
type Renderer struct{}

func New() *Renderer { return &Renderer{} }

func (r *Renderer) Name() string { return "term" }

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// ansi256 maps the color-cycle names to 256-color indexes for lipgloss.
var ansi256 = map[string]string{
	"blue":   "33",
	"orange": "208",
	"green":  "40",
	"red":    "160",
	"purple": "129",
	"cyan":   "44",
}

func colorStyle(name string) lipgloss.Style {
	if idx, ok := ansi256[name]; ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(idx))
	}
	if strings.HasPrefix(name, "#") {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(name))
	}
	return lipgloss.NewStyle()
}

func graphColor(name string) asciigraph.AnsiColor {
	switch name {
	case "blue":
		return asciigraph.Blue
	case "orange":
		return asciigraph.Orange
	case "green":
		return asciigraph.Green
	case "red":
		return asciigraph.Red
	case "purple":
		return asciigraph.Purple
	case "cyan":
		return asciigraph.Cyan
	}
	return asciigraph.Default
}

func (r *Renderer) Render(fig *plot.Figure, w io.Writer) error {
	width := fig.Width
	if width <= 0 {
		width = plot.DefaultWidth
	}
	height := fig.Height
	if height <= 0 {
		height = plot.DefaultHeight
	}

	var blocks []string
	if fig.Title != "" {
		blocks = append(blocks, titleStyle.Render(fig.Title))
	}
	for _, row := range fig.Rows {
		n := len(row.Panels)
		if n == 0 {
			continue
		}
		panelW := width/n - 4
		if panelW < 24 {
			panelW = 24
		}
		cells := make([]string, n)
		for i := range row.Panels {
			body, err := renderPanel(&row.Panels[i], panelW, height)
			if err != nil {
				return err
			}
			cells[i] = panelStyle.Render(body)
		}
		blocks = append(blocks, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	_, err := io.WriteString(w, strings.Join(blocks, "\n")+"\n")
	return err
}

func renderPanel(p *plot.Panel, width, height int) (string, error) {
	switch p.Kind {
	case plot.KindLine, plot.KindDensity:
		return renderSeries(p, width, height), nil
	case plot.KindHistogram:
		return renderHistogram(p, width), nil
	case plot.KindIntervals:
		return renderIntervals(p, width), nil
	case plot.KindRidge:
		return renderRidges(p, width), nil
	}
	return "", fmt.Errorf("term: unsupported panel kind %q", p.Kind)
}

// renderSeries draws line and density panels with asciigraph, then stacks
// title, rug ticks and a caption around the graph.
func renderSeries(p *plot.Panel, width, height int) string {
	if len(p.Series) == 0 {
		return "(no data)"
	}
	data := make([][]float64, len(p.Series))
	colors := make([]asciigraph.AnsiColor, len(p.Series))
	for i, s := range p.Series {
		data[i] = s.Y
		colors[i] = graphColor(s.Color)
	}
	graphW := width - 12
	if graphW < 8 {
		graphW = 8
	}
	graphH := height - 5
	if graphH < 3 {
		graphH = 3
	}
	opts := []asciigraph.Option{
		asciigraph.Height(graphH),
		asciigraph.Width(graphW),
	}
	if len(data) > 1 {
		opts = append(opts, asciigraph.SeriesColors(colors...))
	}
	graph := asciigraph.PlotMany(data, opts...)

	xMin, xMax := xRange(p)
	var parts []string
	if p.Title != "" {
		parts = append(parts, titleStyle.Render(p.Title))
	}
	if p.RugTop {
		if rug := tickRow(graph, p.Rug, xMin, xMax, '▾'); rug != "" {
			parts = append(parts, rug)
		}
	}
	parts = append(parts, graph)
	if !p.RugTop {
		if rug := tickRow(graph, p.Rug, xMin, xMax, '▴'); rug != "" {
			parts = append(parts, rug)
		}
	}
	if foot := caption(p, xMin, xMax); foot != "" {
		parts = append(parts, mutedStyle.Render(foot))
	}
	if leg := legend(p.Series); leg != "" {
		parts = append(parts, leg)
	}
	return strings.Join(parts, "\n")
}

func xRange(p *plot.Panel) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range p.Series {
		for _, x := range s.X {
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	return lo, hi
}

func caption(p *plot.Panel, xMin, xMax float64) string {
	var parts []string
	if p.XLabel != "" {
		parts = append(parts, p.XLabel)
	}
	parts = append(parts, fmt.Sprintf("[%.4g .. %.4g]", xMin, xMax))
	if len(p.VLines) > 0 {
		refs := make([]string, len(p.VLines))
		for i, v := range p.VLines {
			refs[i] = fmt.Sprintf("%.4g", v)
		}
		parts = append(parts, "ref: "+strings.Join(refs, ", "))
	}
	if len(p.Band) == 2 {
		parts = append(parts, fmt.Sprintf("rope: [%.4g, %.4g]", p.Band[0], p.Band[1]))
	}
	return strings.Join(parts, "  ")
}

func legend(series []plot.Series) string {
	if len(series) < 2 {
		return ""
	}
	seen := make(map[string]bool)
	var parts []string
	for _, s := range series {
		if s.Label == "" || seen[s.Label] {
			continue
		}
		seen[s.Label] = true
		parts = append(parts, colorStyle(s.Color).Render("── "+s.Label))
	}
	return strings.Join(parts, "  ")
}

// tickRow builds a rug row aligned to the asciigraph plot area. The plot
// area starts one column after the y axis, found by scanning for the axis
// glyphs in the graph output.
func tickRow(graph string, xs []float64, xMin, xMax float64, tick rune) string {
	if len(xs) == 0 {
		return ""
	}
	offset, plotW := 0, 0
	for _, line := range strings.Split(graph, "\n") {
		i := strings.IndexAny(line, "┤┼")
		if i < 0 {
			continue
		}
		offset = utf8.RuneCountInString(line[:i]) + 1
		if n := utf8.RuneCountInString(line) - offset; n > plotW {
			plotW = n
		}
	}
	if plotW <= 0 {
		return ""
	}
	row := make([]rune, offset+plotW)
	for i := range row {
		row[i] = ' '
	}
	span := xMax - xMin
	if span == 0 {
		span = 1
	}
	for _, x := range xs {
		col := offset + int((x-xMin)/span*float64(plotW-1)+0.5)
		if col >= offset && col < len(row) {
			row[col] = tick
		}
	}
	return string(row)
}

// renderHistogram draws one horizontal bar per bin.
func renderHistogram(p *plot.Panel, width int) string {
	var parts []string
	if p.Title != "" {
		parts = append(parts, titleStyle.Render(p.Title))
	}
	if len(p.Bars) == 0 {
		return strings.Join(append(parts, "(no data)"), "\n")
	}
	maxH := 0.0
	labelW := 0
	labels := make([]string, len(p.Bars))
	for i, b := range p.Bars {
		if b.Height > maxH {
			maxH = b.Height
		}
		labels[i] = fmt.Sprintf("%.4g", b.X+b.Width/2)
		if n := len(labels[i]); n > labelW {
			labelW = n
		}
	}
	barW := width - labelW - 10
	if barW < 8 {
		barW = 8
	}
	for i, b := range p.Bars {
		n := 0
		if maxH > 0 {
			n = int(b.Height / maxH * float64(barW))
		}
		bar := colorStyle(b.Color).Render(strings.Repeat("█", n))
		parts = append(parts, fmt.Sprintf("%*s │%s %.4g", labelW, labels[i], bar, b.Height))
	}
	last := p.Bars[len(p.Bars)-1]
	if foot := caption(p, p.Bars[0].X, last.X+last.Width); foot != "" {
		parts = append(parts, mutedStyle.Render(foot))
	}
	return strings.Join(parts, "\n")
}

// renderIntervals draws one `├──●──┤` row per interval, with heavy shading
// between the quartiles and a shared value axis underneath. Degenerate
// intervals collapse to a single point marker.
func renderIntervals(p *plot.Panel, width int) string {
	var parts []string
	if p.Title != "" {
		parts = append(parts, titleStyle.Render(p.Title))
	}
	if len(p.Intervals) == 0 {
		return strings.Join(append(parts, "(no data)"), "\n")
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
	span := hi - lo
	if span == 0 {
		span = 1
		lo -= 0.5
	}

	labelW := 0
	labels := make([]string, len(p.Intervals))
	for i, iv := range p.Intervals {
		labels[i] = rowLabel(iv)
		if n := utf8.RuneCountInString(labels[i]); n > labelW {
			labelW = n
		}
	}
	lineW := width - labelW - 12
	if lineW < 16 {
		lineW = 16
	}
	col := func(x float64) int {
		c := int((x - lo) / span * float64(lineW-1))
		if c < 0 {
			c = 0
		}
		if c >= lineW {
			c = lineW - 1
		}
		return c
	}

	if len(p.Band) == 2 {
		row := make([]rune, lineW)
		for j := range row {
			row[j] = ' '
		}
		for j := col(p.Band[0]); j <= col(p.Band[1]); j++ {
			row[j] = '░'
		}
		parts = append(parts, fmt.Sprintf("%-*s %s rope", labelW, "", mutedStyle.Render(string(row))))
	}

	for i, iv := range p.Intervals {
		row := make([]rune, lineW)
		for j := range row {
			row[j] = ' '
		}
		if iv.Lo == iv.Hi {
			row[col(iv.Mid)] = '●'
		} else {
			for j := col(iv.Lo); j <= col(iv.Hi); j++ {
				row[j] = '─'
			}
			if iv.HasQuartiles {
				for j := col(iv.QLo); j <= col(iv.QHi); j++ {
					row[j] = '━'
				}
			}
			row[col(iv.Lo)] = '├'
			row[col(iv.Hi)] = '┤'
			row[col(iv.Mid)] = '●'
		}
		line := colorStyle(iv.Color).Render(string(row))
		parts = append(parts, fmt.Sprintf("%-*s %s %.4g", labelW, labels[i], line, iv.Mid))
	}

	left := fmt.Sprintf("%.4g", lo)
	right := fmt.Sprintf("%.4g", hi)
	padN := lineW - len(left) - len(right)
	if padN < 1 {
		padN = 1
	}
	axis := left + strings.Repeat(" ", padN) + right
	parts = append(parts, mutedStyle.Render(strings.Repeat(" ", labelW+1)+axis))
	return strings.Join(parts, "\n")
}

func rowLabel(iv plot.Interval) string {
	label := iv.Label
	if iv.Model != "" {
		if label != "" {
			label += " "
		}
		label += iv.Model
	}
	return label
}

// renderRidges stacks one density band per ridge on a shared braille canvas.
func renderRidges(p *plot.Panel, width int) string {
	var parts []string
	if p.Title != "" {
		parts = append(parts, titleStyle.Render(p.Title))
	}
	if len(p.Ridges) == 0 {
		return strings.Join(append(parts, "(no data)"), "\n")
	}

	const bandRows = 3
	labelW := 0
	labels := make([]string, len(p.Ridges))
	for i, r := range p.Ridges {
		labels[i] = r.Label
		if r.Model != "" {
			if labels[i] != "" {
				labels[i] += " "
			}
			labels[i] += r.Model
		}
		if n := utf8.RuneCountInString(labels[i]); n > labelW {
			labelW = n
		}
	}
	canvasW := width - labelW - 4
	if canvasW < 16 {
		canvasW = 16
	}

	xMin, xMax := math.Inf(1), math.Inf(-1)
	for _, r := range p.Ridges {
		for _, x := range r.X {
			xMin = math.Min(xMin, x)
			xMax = math.Max(xMax, x)
		}
	}
	span := xMax - xMin
	if span == 0 || math.IsInf(span, 0) {
		span = 1
	}

	c := newCanvas(canvasW, len(p.Ridges)*bandRows)
	for ri, r := range p.Ridges {
		yBase := (ri+1)*bandRows*4 - 1
		maxY := 0.0
		for _, y := range r.Y {
			if y > maxY {
				maxY = y
			}
		}
		if maxY == 0 {
			maxY = 1
		}
		px, py := 0, 0
		for i := range r.X {
			x := int((r.X[i] - xMin) / span * float64(canvasW*2-1))
			y := yBase - int(r.Y[i]/maxY*float64(bandRows*4-2))
			if i == 0 {
				c.set(x, y)
			} else {
				c.line(px, py, x, y)
			}
			px, py = x, y
		}
	}

	for ri := range p.Ridges {
		style := colorStyle(p.Ridges[ri].Color)
		for j := 0; j < bandRows; j++ {
			label := ""
			if j == bandRows-1 {
				label = labels[ri]
			}
			parts = append(parts, fmt.Sprintf("%-*s %s", labelW, label, style.Render(c.row(ri*bandRows+j))))
		}
	}

	left := fmt.Sprintf("%.4g", xMin)
	right := fmt.Sprintf("%.4g", xMax)
	padN := canvasW - len(left) - len(right)
	if padN < 1 {
		padN = 1
	}
	parts = append(parts, mutedStyle.Render(strings.Repeat(" ", labelW+1)+left+strings.Repeat(" ", padN)+right))
	if len(p.Band) == 2 {
		parts = append(parts, mutedStyle.Render(fmt.Sprintf("rope: [%.4g, %.4g]", p.Band[0], p.Band[1])))
	}
	return strings.Join(parts, "\n")
}
