package charts

import (
	"bytes"
	"cmp"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ppiankov/assuranalytics/internal/analyzer"
	"github.com/ppiankov/assuranalytics/internal/portfolio"
	"github.com/ppiankov/assuranalytics/internal/stats"
)

// Slice is one labeled value of a static report chart.
type Slice struct {
	Label string
	Value float64
	Color string
}

// TypeShares counts records per insurance type, largest first.
func TypeShares(records []portfolio.Record) []Slice {
	counts := stats.ValueCounts(records, typeOf)
	out := make([]Slice, len(counts))
	for i, c := range counts {
		out[i] = Slice{Label: c.Key, Value: float64(c.Count), Color: colorOf(TypeColors, c.Key)}
	}
	return out
}

// RegionAmounts sums claim amounts per region, smallest first.
func RegionAmounts(records []portfolio.Record) []Slice {
	regions := analyzer.ByRegion(records)
	slices.SortStableFunc(regions, func(a, b analyzer.RegionStat) int {
		return cmp.Compare(a.ClaimAmount, b.ClaimAmount)
	})
	out := make([]Slice, len(regions))
	for i, r := range regions {
		out[i] = Slice{Label: r.Region, Value: r.ClaimAmount, Color: colorOf(RegionColors, r.Region)}
	}
	return out
}

// BracketClaims averages claim counts per age bracket in bracket order.
func BracketClaims(records []portfolio.Record) []Slice {
	brackets := analyzer.ByAgeBracket(records)
	out := make([]Slice, len(brackets))
	for i, b := range brackets {
		out[i] = Slice{Label: b.Bracket, Value: b.AvgClaims, Color: ColorPrimary}
	}
	return out
}

func toValues(data []Slice) []chart.Value {
	values := make([]chart.Value, len(data))
	for i, s := range data {
		values[i] = chart.Value{
			Label: s.Label,
			Value: s.Value,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(strings.TrimPrefix(s.Color, "#")),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
			},
		}
	}
	return values
}

func hasValue(data []Slice) bool {
	for _, s := range data {
		if s.Value > 0 {
			return true
		}
	}
	return false
}

// PieSVG renders data as an SVG pie chart.
func PieSVG(data []Slice, width, height int) (string, error) {
	if !hasValue(data) {
		return "", fmt.Errorf("pie chart: no positive values")
	}
	pie := chart.PieChart{
		Width:  width,
		Height: height,
		Values: toValues(data),
	}
	var buf bytes.Buffer
	if err := pie.Render(chart.SVG, &buf); err != nil {
		return "", fmt.Errorf("render pie chart: %w", err)
	}
	return buf.String(), nil
}

// BarSVG renders data as an SVG bar chart.
func BarSVG(data []Slice, width, height int) (string, error) {
	if !hasValue(data) {
		return "", fmt.Errorf("bar chart: no positive values")
	}
	maxValue := 0.0
	for _, s := range data {
		maxValue = max(maxValue, s.Value)
	}
	barWidth := max(12, width/(2*len(data)+1))
	// Bars grow from zero, a single group included.
	bar := chart.BarChart{
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barWidth / 2,
		Background: chart.Style{
			Padding: chart.Box{Top: 30, Left: 10, Right: 10, Bottom: 10},
		},
		YAxis: chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: maxValue}},
		Bars:  toValues(data),
	}
	var buf bytes.Buffer
	if err := bar.Render(chart.SVG, &buf); err != nil {
		return "", fmt.Errorf("render bar chart: %w", err)
	}
	return buf.String(), nil
}

// PlaceholderSVG returns a blank SVG panel with msg in the middle.
func PlaceholderSVG(msg string, width, height int) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<rect width="100%%" height="100%%" fill="#ffffff"/>`+
		`<text x="50%%" y="50%%" text-anchor="middle" dominant-baseline="middle" fill="%s" font-family="Inter, Arial, sans-serif" font-size="14">%s</text></svg>`,
		width, height, width, height, ColorMuted, html.EscapeString(msg))
}
