// Package charts builds the dashboard figures as Plotly-compatible JSON
// specifications and renders the report charts as SVG.
package charts

// Figure is a chart specification the page hands to Plotly as is.
type Figure struct {
	Data        []Trace `json:"data"`
	Layout      Layout  `json:"layout"`
	Placeholder bool    `json:"placeholder,omitempty"`
}

// Trace is one Plotly trace. Only the attributes the dashboard uses are modeled.
type Trace struct {
	Type          string      `json:"type"`
	Name          string      `json:"name,omitempty"`
	X             any         `json:"x,omitempty"`
	Y             any         `json:"y,omitempty"`
	Z             [][]float64 `json:"z,omitempty"`
	Labels        []string    `json:"labels,omitempty"`
	Values        []float64   `json:"values,omitempty"`
	Text          any         `json:"text,omitempty"`
	TextInfo      string      `json:"textinfo,omitempty"`
	TextPosition  string      `json:"textposition,omitempty"`
	TextTemplate  string      `json:"texttemplate,omitempty"`
	TextFont      *Font       `json:"textfont,omitempty"`
	HoverTemplate string      `json:"hovertemplate,omitempty"`
	HoverInfo     string      `json:"hoverinfo,omitempty"`
	Hole          float64     `json:"hole,omitempty"`
	Orientation   string      `json:"orientation,omitempty"`
	Mode          string      `json:"mode,omitempty"`
	Opacity       float64     `json:"opacity,omitempty"`
	NBinsX        int         `json:"nbinsx,omitempty"`
	YAxis         string      `json:"yaxis,omitempty"`
	ColorScale    string      `json:"colorscale,omitempty"`
	ColorBar      *ColorBar   `json:"colorbar,omitempty"`
	Marker        *Marker     `json:"marker,omitempty"`
	Line          *Line       `json:"line,omitempty"`
	CustomData    [][]any     `json:"customdata,omitempty"`
}

// Marker styles trace points, bars or pie slices.
type Marker struct {
	Color   any      `json:"color,omitempty"`
	Colors  []string `json:"colors,omitempty"`
	Size    any      `json:"size,omitempty"`
	Opacity float64  `json:"opacity,omitempty"`
	Line    *Line    `json:"line,omitempty"`
}

// Line styles a line, marker outline or shape.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

// Font styles text.
type Font struct {
	Family string `json:"family,omitempty"`
	Color  string `json:"color,omitempty"`
	Size   int    `json:"size,omitempty"`
}

// ColorBar styles a heatmap color scale legend.
type ColorBar struct {
	Title     *Title  `json:"title,omitempty"`
	Thickness int     `json:"thickness,omitempty"`
	Len       float64 `json:"len,omitempty"`
}

// Title is a Plotly title object.
type Title struct {
	Text string `json:"text"`
}

// Layout is the figure layout.
type Layout struct {
	Height       int          `json:"height,omitempty"`
	BarMode      string       `json:"barmode,omitempty"`
	ShowLegend   *bool        `json:"showlegend,omitempty"`
	PlotBGColor  string       `json:"plot_bgcolor,omitempty"`
	PaperBGColor string       `json:"paper_bgcolor,omitempty"`
	Font         *Font        `json:"font,omitempty"`
	Margin       *Margin      `json:"margin,omitempty"`
	XAxis        *Axis        `json:"xaxis,omitempty"`
	YAxis        *Axis        `json:"yaxis,omitempty"`
	YAxis2       *Axis        `json:"yaxis2,omitempty"`
	Legend       *Legend      `json:"legend,omitempty"`
	Annotations  []Annotation `json:"annotations,omitempty"`
	Shapes       []Shape      `json:"shapes,omitempty"`
}

// Margin sets the plot margins in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Axis configures one axis.
type Axis struct {
	Title     *Title `json:"title,omitempty"`
	ShowGrid  *bool  `json:"showgrid,omitempty"`
	GridColor string `json:"gridcolor,omitempty"`
	Side      string `json:"side,omitempty"`
	Overlay   string `json:"overlaying,omitempty"`
	AutoRange string `json:"autorange,omitempty"`
	TickAngle int    `json:"tickangle,omitempty"`
	NTicks    int    `json:"nticks,omitempty"`
}

// Legend configures the legend box.
type Legend struct {
	Orientation string  `json:"orientation,omitempty"`
	YAnchor     string  `json:"yanchor,omitempty"`
	Y           float64 `json:"y,omitempty"`
	Font        *Font   `json:"font,omitempty"`
}

// Annotation is a text label placed on the figure.
type Annotation struct {
	Text      string  `json:"text"`
	XRef      string  `json:"xref,omitempty"`
	YRef      string  `json:"yref,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ShowArrow bool    `json:"showarrow"`
	YAnchor   string  `json:"yanchor,omitempty"`
	Font      *Font   `json:"font,omitempty"`
}

// Shape is a line drawn over the plot area.
type Shape struct {
	Type string  `json:"type"`
	XRef string  `json:"xref"`
	YRef string  `json:"yref"`
	X0   float64 `json:"x0"`
	X1   float64 `json:"x1"`
	Y0   float64 `json:"y0"`
	Y1   float64 `json:"y1"`
	Line *Line   `json:"line,omitempty"`
}

// Palette colors.
const (
	ColorUnknown = "#888"
	ColorGrid    = "#e2e8f0"
	ColorAccent  = "#FFB300"
	ColorPrimary = "#1565C0"
	ColorMuted   = "#a0aec0"
	ColorText    = "#2d3748"
)

var (
	// TypeColors maps insurance types to their series color.
	TypeColors = map[string]string{
		"Auto":       "#00C6FF",
		"Santé":      "#FFB300",
		"Habitation": "#00E676",
		"Vie":        "#FF5252",
	}
	// RegionColors maps regions to their series color.
	RegionColors = map[string]string{
		"Dakar":       "#1565C0",
		"Thiès":       "#FFB300",
		"Kaolack":     "#00E676",
		"Saint-Louis": "#FF5252",
	}
	// BMColors maps bonus-malus categories to their series color.
	BMColors = map[string]string{
		"Bonus fort": "#00E676",
		"Bonus":      "#00C6FF",
		"Neutre":     "#FFB300",
		"Malus":      "#FF5252",
	}
)

// colorOf looks key up in palette, falling back to ColorUnknown.
func colorOf(palette map[string]string, key string) string {
	if c, ok := palette[key]; ok {
		return c
	}
	return ColorUnknown
}

func colorsOf(palette map[string]string, keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = colorOf(palette, k)
	}
	return out
}

func boolPtr(b bool) *bool { return &b }

// baseLayout is the shared transparent layout every figure starts from.
func baseLayout(height int) Layout {
	return Layout{
		Height:       height,
		PlotBGColor:  "rgba(0,0,0,0)",
		PaperBGColor: "rgba(0,0,0,0)",
		Font:         &Font{Family: "Inter, sans-serif", Color: ColorText, Size: 11},
		Margin:       &Margin{L: 30, R: 30, T: 25, B: 25},
	}
}

func axis(title string, grid bool) *Axis {
	a := &Axis{ShowGrid: boolPtr(grid)}
	if title != "" {
		a.Title = &Title{Text: title}
	}
	if grid {
		a.GridColor = ColorGrid
	}
	return a
}

func topLegend() *Legend {
	return &Legend{Orientation: "h", YAnchor: "bottom", Y: 1.02, Font: &Font{Size: 10}}
}

// vline adds a dotted vertical marker at x with a label above the plot.
func (l *Layout) vline(x float64, label string) {
	l.Shapes = append(l.Shapes, Shape{
		Type: "line", XRef: "x", YRef: "paper",
		X0: x, X1: x, Y0: 0, Y1: 1,
		Line: &Line{Color: ColorAccent, Dash: "dot", Width: 1.5},
	})
	l.Annotations = append(l.Annotations, Annotation{
		Text: label, XRef: "x", YRef: "paper", X: x, Y: 1, YAnchor: "bottom",
		Font: &Font{Color: ColorAccent, Size: 9},
	})
}

// NoData is the message shown by placeholder figures.
const NoData = "Aucune donnée"

// Empty returns a placeholder figure showing msg in the middle of the plot.
func Empty(msg string) Figure {
	layout := baseLayout(320)
	layout.Annotations = []Annotation{{
		Text: msg, XRef: "paper", YRef: "paper", X: 0.5, Y: 0.5,
		Font: &Font{Size: 13, Color: ColorMuted},
	}}
	return Figure{Data: []Trace{}, Layout: layout, Placeholder: true}
}
