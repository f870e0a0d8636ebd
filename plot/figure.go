package plot

// Kind identifies how a panel's contents are drawn.
type Kind string

const (
	KindLine      Kind = "line"
	KindDensity   Kind = "density"
	KindHistogram Kind = "histogram"
	KindIntervals Kind = "intervals"
	KindRidge     Kind = "ridge"
)

// Series is one labeled curve.
type Series struct {
	Label string
	X, Y  []float64
	Color string
}

// Bar is one histogram bar spanning [X, X+Width).
type Bar struct {
	X      float64
	Width  float64
	Height float64
	Color  string
}

// Interval is one horizontal row of an interval panel: the credible interval
// endpoints, the median, and optionally the interquartile band. A degenerate
// interval (Lo == Mid == Hi) renders as a point, which the diagnostic side
// panels use.
type Interval struct {
	Label string
	Model string
	Color string

	Lo, Mid, Hi float64
	// QLo and QHi carry the interquartile band when HasQuartiles is set.
	QLo, QHi     float64
	HasQuartiles bool
}

// Ridge is one density outline in a vertically stacked ridgeline panel.
type Ridge struct {
	Label string
	Model string
	Color string
	X, Y  []float64
}

// Panel is one drawable cell of a figure.
type Panel struct {
	Kind   Kind
	Title  string
	XLabel string

	Series    []Series
	Bars      []Bar
	Intervals []Interval
	Ridges    []Ridge

	// VLines marks reference positions on the x axis.
	VLines []float64
	// Band shades the x range [Band[0], Band[1]], e.g. a rope.
	Band []float64
	// Rug marks x positions along one edge of the panel; RugTop moves the
	// marks from the bottom edge to the top.
	Rug    []float64
	RugTop bool
}

// PanelRow lays panels out side by side.
type PanelRow struct {
	Panels []Panel
}

// Figure is the renderer-independent description of one plot. Width and
// Height are character-cell hints; renderers scale them to their medium.
type Figure struct {
	Title  string
	Rows   []PanelRow
	Width  int
	Height int
}

// DefaultWidth and DefaultHeight size figures whose hints are unset.
const (
	DefaultWidth  = 80
	DefaultHeight = 16
)

// DefaultColors is the series color cycle used when options carry none.
var DefaultColors = []string{"blue", "orange", "green", "red", "purple", "cyan"}

func colorAt(colors []string, i int) string {
	if len(colors) == 0 {
		colors = DefaultColors
	}
	return colors[i%len(colors)]
}
