package charts

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/ppiankov/assuranalytics/internal/analyzer"
	"github.com/ppiankov/assuranalytics/internal/format"
	"github.com/ppiankov/assuranalytics/internal/portfolio"
	"github.com/ppiankov/assuranalytics/internal/stats"
)

// Figure ids, in page order.
const (
	IDTypePie        = "type-pie"
	IDAgeDist        = "age-dist"
	IDAgeSex         = "age-sex"
	IDRegionPie      = "region-pie"
	IDRegionBar      = "region-bar"
	IDClaimsHist     = "claims-hist"
	IDTimeSeries     = "time-series"
	IDClaimsAge      = "claims-age"
	IDScatterPremium = "scatter-premium"
	IDCostType       = "cost-type"
	IDHeatmapRisk    = "heatmap-risk"
	IDBMDist         = "bm-dist"
	IDBMScatter      = "bm-scatter"
)

type builder struct {
	id    string
	build func([]portfolio.Record) Figure
}

var builders = []builder{
	{IDTypePie, typePie},
	{IDAgeDist, ageDistribution},
	{IDAgeSex, ageSexPremium},
	{IDRegionPie, regionPie},
	{IDRegionBar, regionBar},
	{IDClaimsHist, claimsHistogram},
	{IDTimeSeries, timeSeries},
	{IDClaimsAge, claimsByAge},
	{IDScatterPremium, premiumScatter},
	{IDCostType, costByType},
	{IDHeatmapRisk, riskHeatmap},
	{IDBMDist, bmDistribution},
	{IDBMScatter, bmScatter},
}

// IDs lists every figure id in page order.
func IDs() []string {
	ids := make([]string, len(builders))
	for i, b := range builders {
		ids[i] = b.id
	}
	return ids
}

// BuildAll builds every dashboard figure for records. An empty selection
// yields a placeholder for each figure.
func BuildAll(records []portfolio.Record) map[string]Figure {
	out := make(map[string]Figure, len(builders))
	for _, b := range builders {
		out[b.id] = b.run(records)
	}
	return out
}

// Build builds a single figure by id.
func Build(id string, records []portfolio.Record) (Figure, error) {
	for _, b := range builders {
		if b.id == id {
			return b.run(records), nil
		}
	}
	return Figure{}, fmt.Errorf("unknown chart %q", id)
}

func (b builder) run(records []portfolio.Record) Figure {
	if len(records) == 0 {
		return Empty(NoData)
	}
	fig := b.build(records)
	if fig.Data == nil {
		fig.Data = []Trace{}
	}
	return fig
}

func typeOf(r portfolio.Record) string   { return r.Type }
func regionOf(r portfolio.Record) string { return r.Region }
func bmCatOf(r portfolio.Record) string  { return r.BMCategory }
func sexOf(r portfolio.Record) string    { return r.Sex }

func premiumOf(r portfolio.Record) float64 { return r.Premium }
func claimsOf(r portfolio.Record) float64  { return float64(r.ClaimCount) }

func keysAndCounts(counts []stats.KeyCount) ([]string, []float64) {
	keys := make([]string, len(counts))
	values := make([]float64, len(counts))
	for i, c := range counts {
		keys[i] = c.Key
		values[i] = float64(c.Count)
	}
	return keys, values
}

// typesIn lists the insurance types present in records: known types in their
// usual order, then any other type in order of first appearance.
func typesIn(records []portfolio.Record) []string {
	present := make(map[string]bool)
	var extra []string
	for _, r := range records {
		if present[r.Type] {
			continue
		}
		present[r.Type] = true
		if !slices.Contains(portfolio.InsuranceTypes, r.Type) {
			extra = append(extra, r.Type)
		}
	}
	var out []string
	for _, t := range portfolio.InsuranceTypes {
		if present[t] {
			out = append(out, t)
		}
	}
	return append(out, extra...)
}

func ofType(records []portfolio.Record, typ string) []portfolio.Record {
	var out []portfolio.Record
	for _, r := range records {
		if r.Type == typ {
			out = append(out, r)
		}
	}
	return out
}

func typePie(records []portfolio.Record) Figure {
	labels, values := keysAndCounts(stats.ValueCounts(records, typeOf))
	layout := baseLayout(320)
	layout.ShowLegend = boolPtr(false)
	layout.Annotations = []Annotation{{
		Text: "<b>" + strconv.Itoa(len(records)) + "</b><br>assurés",
		XRef: "paper", YRef: "paper", X: 0.5, Y: 0.5,
		Font: &Font{Size: 13, Color: ColorText},
	}}
	return Figure{
		Data: []Trace{{
			Type:          "pie",
			Labels:        labels,
			Values:        values,
			Hole:          0.52,
			Marker:        &Marker{Colors: colorsOf(TypeColors, labels), Line: &Line{Color: "white", Width: 2}},
			TextInfo:      "label+percent",
			TextFont:      &Font{Size: 11},
			HoverTemplate: "<b>%{label}</b><br>%{value} assurés (%{percent})<extra></extra>",
		}},
		Layout: layout,
	}
}

func ageDistribution(records []portfolio.Record) Figure {
	var traces []Trace
	for _, t := range typesIn(records) {
		sub := ofType(records, t)
		if len(sub) == 0 {
			continue
		}
		ages := make([]int, len(sub))
		for i, r := range sub {
			ages[i] = r.Age
		}
		traces = append(traces, Trace{
			Type:          "histogram",
			Name:          t,
			X:             ages,
			Opacity:       0.75,
			NBinsX:        15,
			Marker:        &Marker{Color: colorOf(TypeColors, t)},
			HoverTemplate: "<b>" + t + "</b><br>Âge: %{x}<br>Nb: %{y}<extra></extra>",
		})
	}
	layout := baseLayout(320)
	layout.BarMode = "overlay"
	layout.ShowLegend = boolPtr(true)
	layout.XAxis = axis("Âge", false)
	layout.YAxis = axis("Nb d'assurés", true)
	layout.Legend = topLegend()
	return Figure{Data: traces, Layout: layout}
}

func ageSexPremium(records []portfolio.Record) Figure {
	series := []struct{ sex, color, label string }{
		{portfolio.SexMale, "#1565C0", "👨 Masculin"},
		{portfolio.SexFemale, "#FF5252", "👩 Féminin"},
	}
	brackets := stats.GroupByOrder(records, func(r portfolio.Record) string { return r.AgeBracket }, portfolio.AgeBrackets)

	var traces []Trace
	for _, s := range series {
		var x []string
		var y []float64
		var text []string
		for _, b := range brackets {
			sub := stats.GroupByOrder(b.Items, sexOf, []string{s.sex})
			if len(sub) == 0 {
				continue
			}
			mean, _ := stats.Mean(sub[0].Items, premiumOf)
			x = append(x, b.Key)
			y = append(y, mean)
			text = append(text, format.Amount(mean)+"€")
		}
		traces = append(traces, Trace{
			Type:          "bar",
			Name:          s.label,
			X:             x,
			Y:             y,
			Marker:        &Marker{Color: s.color},
			Text:          text,
			TextPosition:  "outside",
			TextFont:      &Font{Size: 9},
			HoverTemplate: "<b>" + s.label + "</b><br>Tranche: %{x}<br>Prime moy: %{y:,.0f} €<extra></extra>",
		})
	}
	layout := baseLayout(320)
	layout.BarMode = "group"
	layout.ShowLegend = boolPtr(true)
	layout.XAxis = axis("Tranche d'âge", false)
	layout.YAxis = axis("Prime moyenne (€)", true)
	layout.Legend = topLegend()
	return Figure{Data: traces, Layout: layout}
}

func regionPie(records []portfolio.Record) Figure {
	labels, values := keysAndCounts(stats.ValueCounts(records, regionOf))
	layout := baseLayout(320)
	layout.ShowLegend = boolPtr(false)
	return Figure{
		Data: []Trace{{
			Type:          "pie",
			Labels:        labels,
			Values:        values,
			Hole:          0.45,
			Marker:        &Marker{Colors: colorsOf(RegionColors, labels), Line: &Line{Color: "white", Width: 2}},
			TextInfo:      "label+percent",
			TextFont:      &Font{Size: 11},
			HoverTemplate: "<b>%{label}</b><br>%{value} assurés (%{percent})<extra></extra>",
		}},
		Layout: layout,
	}
}

func regionBar(records []portfolio.Record) Figure {
	regions := analyzer.ByRegion(records)
	slices.SortStableFunc(regions, func(a, b analyzer.RegionStat) int {
		return cmp.Compare(a.ClaimAmount, b.ClaimAmount)
	})

	names := make([]string, len(regions))
	amounts := make([]float64, len(regions))
	text := make([]string, len(regions))
	custom := make([][]any, len(regions))
	for i, r := range regions {
		names[i] = r.Region
		amounts[i] = r.ClaimAmount
		text[i] = format.Millions(r.ClaimAmount) + " €"
		custom[i] = []any{r.Claims, r.Insured}
	}

	layout := baseLayout(320)
	layout.ShowLegend = boolPtr(false)
	layout.XAxis = axis("Montant total sinistres (€)", true)
	layout.YAxis = axis("", false)
	if mean, ok := stats.Mean(amounts, func(x float64) float64 { return x }); ok {
		layout.vline(mean, "Moy. "+format.Millions(mean)+"€")
	}

	return Figure{
		Data: []Trace{{
			Type:          "bar",
			X:             amounts,
			Y:             names,
			Orientation:   "h",
			Marker:        &Marker{Color: colorsOf(RegionColors, names), Line: &Line{Color: "white", Width: 1}},
			Text:          text,
			TextPosition:  "outside",
			TextFont:      &Font{Size: 10},
			CustomData:    custom,
			HoverTemplate: "<b>%{y}</b><br>Montant: %{x:,.0f} €<br>Sinistres: %{customdata[0]}<br>Assurés: %{customdata[1]}<extra></extra>",
		}},
		Layout: layout,
	}
}

var (
	claimCountColors = map[int]string{0: "#00E676", 1: "#00C6FF", 2: "#FFB300", 3: "#FF7043", 4: "#FF5252"}
	claimCountLabels = map[int]string{0: "0 sinistre", 1: "1 sinistre", 2: "2 sinistres", 3: "3 sinistres", 4: "4 sinistres"}
)

func claimsHistogram(records []portfolio.Record) Figure {
	counts := make(map[int]int)
	for _, r := range records {
		counts[r.ClaimCount]++
	}
	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	x := make([]string, len(keys))
	y := make([]int, len(keys))
	colors := make([]string, len(keys))
	text := make([]string, len(keys))
	for i, k := range keys {
		label, ok := claimCountLabels[k]
		if !ok {
			label = strconv.Itoa(k) + " sin."
		}
		color, ok := claimCountColors[k]
		if !ok {
			color = "#FF5252"
		}
		pct := stats.Round(float64(counts[k])/float64(len(records))*100, 1)
		x[i] = label
		y[i] = counts[k]
		colors[i] = color
		text[i] = strconv.Itoa(counts[k]) + "<br>(" + format.Fixed(pct, 1) + "%)"
	}

	layout := baseLayout(320)
	layout.ShowLegend = boolPtr(false)
	layout.XAxis = axis("", false)
	layout.YAxis = axis("Nb d'assurés", true)
	return Figure{
		Data: []Trace{{
			Type:          "bar",
			X:             x,
			Y:             y,
			Marker:        &Marker{Color: colors, Line: &Line{Color: "white", Width: 1.5}},
			Text:          text,
			TextPosition:  "outside",
			TextFont:      &Font{Size: 10},
			HoverTemplate: "<b>%{x}</b><br>%{y} assurés<extra></extra>",
		}},
		Layout: layout,
	}
}

func timeSeries(records []portfolio.Record) Figure {
	var dated []portfolio.Record
	for _, r := range records {
		if r.HasClaim() && r.ClaimMonth != "" {
			dated = append(dated, r)
		}
	}
	months := stats.GroupBy(dated, func(r portfolio.Record) string { return r.ClaimMonth })

	layout := baseLayout(320)
	layout.ShowLegend = boolPtr(true)
	layout.Font = &Font{Family: "Inter, sans-serif", Color: ColorText, Size: 10}
	layout.Margin = &Margin{L: 30, R: 50, T: 30, B: 60}
	layout.XAxis = &Axis{ShowGrid: boolPtr(false), TickAngle: 45, NTicks: 18}
	layout.YAxis = axis("Nb sinistres", true)
	layout.YAxis2 = &Axis{Title: &Title{Text: "Montant (€)"}, ShowGrid: boolPtr(false), Overlay: "y", Side: "right"}
	layout.Legend = topLegend()

	if len(months) == 0 {
		return Figure{Data: []Trace{}, Layout: layout}
	}

	x := make([]string, len(months))
	counts := make([]int, len(months))
	sums := make([]float64, len(months))
	for i, m := range months {
		x[i] = m.Key
		counts[i] = len(m.Items)
		sums[i] = stats.Sum(m.Items, func(r portfolio.Record) float64 { return r.ClaimAmount })
	}
	return Figure{
		Data: []Trace{
			{
				Type:          "bar",
				Name:          "Nb sinistres",
				X:             x,
				Y:             counts,
				Marker:        &Marker{Color: "rgba(21,101,192,0.6)"},
				HoverTemplate: "%{x}<br><b>%{y} sinistres</b><extra></extra>",
			},
			{
				Type:          "scatter",
				Name:          "Montant (€)",
				X:             x,
				Y:             sums,
				YAxis:         "y2",
				Mode:          "lines+markers",
				Line:          &Line{Color: "#00C6FF", Width: 2.5},
				Marker:        &Marker{Size: 5, Color: "#00C6FF"},
				HoverTemplate: "%{x}<br><b>%{y:,.0f} €</b><extra></extra>",
			},
		},
		Layout: layout,
	}
}

// claimsPivot returns the mean claim count per age bracket (rows, in bracket
// order) and insurance type (columns, sorted), with 0 for empty cells.
func claimsPivot(records []portfolio.Record) (brackets, types []string, z [][]float64) {
	groups := stats.GroupByOrder(records, func(r portfolio.Record) string { return r.AgeBracket }, portfolio.AgeBrackets)
	for _, g := range groups {
		for _, r := range g.Items {
			if r.Type != "" && !slices.Contains(types, r.Type) {
				types = append(types, r.Type)
			}
		}
	}
	slices.Sort(types)

	for _, g := range groups {
		row := make([]float64, len(types))
		for _, cell := range stats.GroupBy(g.Items, typeOf) {
			mean, _ := stats.Mean(cell.Items, claimsOf)
			row[slices.Index(types, cell.Key)] = mean
		}
		brackets = append(brackets, g.Key)
		z = append(z, row)
	}
	return brackets, types, z
}

func claimsByAge(records []portfolio.Record) Figure {
	brackets, types, z := claimsPivot(records)
	if len(brackets) == 0 || len(types) == 0 {
		return Empty(NoData)
	}

	traces := make([]Trace, 0, len(types))
	for j, t := range types {
		y := make([]float64, len(brackets))
		text := make([]string, len(brackets))
		for i := range brackets {
			y[i] = z[i][j]
			text[i] = format.Fixed(z[i][j], 2)
		}
		traces = append(traces, Trace{
			Type:          "bar",
			Name:          t,
			X:             brackets,
			Y:             y,
			Marker:        &Marker{Color: colorOf(TypeColors, t)},
			Text:          text,
			TextPosition:  "outside",
			TextFont:      &Font{Size: 9},
			HoverTemplate: "<b>" + t + "</b><br>Tranche: %{x}<br>Moy: %{y:.3f}<extra></extra>",
		})
	}
	layout := baseLayout(320)
	layout.BarMode = "group"
	layout.ShowLegend = boolPtr(true)
	layout.XAxis = axis("Tranche d'âge", false)
	layout.YAxis = axis("Sinistres moyens/assuré", true)
	layout.Legend = topLegend()
	return Figure{Data: traces, Layout: layout}
}

func premiumScatter(records []portfolio.Record) Figure {
	var traces []Trace
	for _, t := range typesIn(records) {
		sub := ofType(records, t)
		if len(sub) == 0 {
			continue
		}
		x := make([]float64, len(sub))
		y := make([]float64, len(sub))
		custom := make([][]any, len(sub))
		for i, r := range sub {
			x[i] = r.Premium
			y[i] = r.ClaimAmount
			custom[i] = []any{r.Age, r.Region, r.ClaimCount}
		}
		traces = append(traces, Trace{
			Type:       "scatter",
			Name:       t,
			Mode:       "markers",
			X:          x,
			Y:          y,
			Marker:     &Marker{Color: colorOf(TypeColors, t), Size: 5, Opacity: 0.6, Line: &Line{Color: "white", Width: 0.5}},
			CustomData: custom,
			HoverTemplate: "<b>" + t + "</b><br>Prime: %{x:,.0f} €<br>" +
				"Sinistre: %{y:,.0f} €<br>Âge: %{customdata[0]}<br>Région: %{customdata[1]}<extra></extra>",
		})
	}

	maxPremium, ok := stats.Max(records, premiumOf)
	if !ok {
		maxPremium = 600
	}
	traces = append(traces, Trace{
		Type:      "scatter",
		Name:      "Équilibre S=P",
		Mode:      "lines",
		X:         []float64{0, maxPremium},
		Y:         []float64{0, maxPremium},
		Line:      &Line{Dash: "dot", Color: ColorAccent, Width: 2},
		HoverInfo: "skip",
	})

	layout := baseLayout(320)
	layout.ShowLegend = boolPtr(true)
	layout.XAxis = axis("Prime annuelle (€)", true)
	layout.YAxis = axis("Montant sinistre (€)", true)
	layout.Legend = topLegend()
	return Figure{Data: traces, Layout: layout}
}

func costByType(records []portfolio.Record) Figure {
	types := analyzer.ByType(records)
	x := make([]string, len(types))
	cost := make([]float64, len(types))
	prem := make([]float64, len(types))
	costText := make([]string, len(types))
	premText := make([]string, len(types))
	for i, t := range types {
		x[i] = t.Type
		cost[i] = t.AvgClaimAmount
		prem[i] = t.AvgPremium
		costText[i] = format.Amount(t.AvgClaimAmount) + "€"
		premText[i] = format.Amount(t.AvgPremium) + "€"
	}

	layout := baseLayout(320)
	layout.BarMode = "group"
	layout.ShowLegend = boolPtr(true)
	layout.XAxis = axis("", false)
	layout.YAxis = axis("Montant (€)", true)
	layout.Legend = topLegend()
	return Figure{
		Data: []Trace{
			{
				Type: "bar", Name: "Coût moyen sinistre", X: x, Y: cost,
				Marker: &Marker{Color: "#FF5252"}, Text: costText,
				TextPosition: "outside", TextFont: &Font{Size: 9},
				HoverTemplate: "<b>%{x}</b><br>Coût: %{y:,.0f} €<extra></extra>",
			},
			{
				Type: "bar", Name: "Prime moyenne", X: x, Y: prem,
				Marker: &Marker{Color: "#00C6FF"}, Text: premText,
				TextPosition: "outside", TextFont: &Font{Size: 9},
				HoverTemplate: "<b>%{x}</b><br>Prime: %{y:,.0f} €<extra></extra>",
			},
		},
		Layout: layout,
	}
}

func riskHeatmap(records []portfolio.Record) Figure {
	brackets, types, z := claimsPivot(records)
	if len(brackets) == 0 || len(types) == 0 {
		return Empty(NoData)
	}
	text := make([][]string, len(z))
	for i, row := range z {
		text[i] = make([]string, len(row))
		for j, v := range row {
			text[i][j] = format.Fixed(v, 2)
		}
	}

	layout := baseLayout(320)
	layout.XAxis = &Axis{Side: "bottom"}
	layout.YAxis = &Axis{AutoRange: "reversed"}
	return Figure{
		Data: []Trace{{
			Type:          "heatmap",
			Z:             z,
			X:             types,
			Y:             brackets,
			ColorScale:    "Blues",
			Text:          text,
			TextTemplate:  "%{text}",
			TextFont:      &Font{Size: 10},
			HoverTemplate: "<b>%{y} — %{x}</b><br>Moy sinistres: %{z:.3f}<extra></extra>",
			ColorBar:      &ColorBar{Title: &Title{Text: "Moy."}, Thickness: 12, Len: 0.8},
		}},
		Layout: layout,
	}
}

func bmDistribution(records []portfolio.Record) Figure {
	labels, values := keysAndCounts(stats.ValueCounts(records, bmCatOf))
	layout := baseLayout(320)
	layout.ShowLegend = boolPtr(false)
	return Figure{
		Data: []Trace{{
			Type:          "pie",
			Labels:        labels,
			Values:        values,
			Hole:          0.45,
			Marker:        &Marker{Colors: colorsOf(BMColors, labels), Line: &Line{Color: "white", Width: 2}},
			TextInfo:      "label+percent+value",
			TextFont:      &Font{Size: 10},
			HoverTemplate: "<b>%{label}</b><br>%{value} assurés (%{percent})<extra></extra>",
		}},
		Layout: layout,
	}
}

// bubbleSize maps a claim amount onto a marker size between 4 and 18.
func bubbleSize(amount float64) float64 {
	return min(max(amount/500, 4), 18)
}

func bmScatter(records []portfolio.Record) Figure {
	var traces []Trace
	for _, t := range typesIn(records) {
		sub := ofType(records, t)
		if len(sub) == 0 {
			continue
		}
		x := make([]float64, len(sub))
		y := make([]int, len(sub))
		sizes := make([]float64, len(sub))
		custom := make([][]any, len(sub))
		for i, r := range sub {
			x[i] = r.BonusMalus
			y[i] = r.ClaimCount
			sizes[i] = bubbleSize(r.ClaimAmount)
			custom[i] = []any{r.ClaimAmount, r.Age, r.Region}
		}
		traces = append(traces, Trace{
			Type:       "scatter",
			Name:       t,
			Mode:       "markers",
			X:          x,
			Y:          y,
			Marker:     &Marker{Color: colorOf(TypeColors, t), Size: sizes, Opacity: 0.55, Line: &Line{Color: "white", Width: 0.5}},
			CustomData: custom,
			HoverTemplate: "<b>" + t + "</b><br>B/M: %{x:.2f}<br>" +
				"Nb sinistres: %{y}<br>Montant: %{customdata[0]:,.0f} €<br>Âge: %{customdata[1]} | %{customdata[2]}<extra></extra>",
		})
	}

	layout := baseLayout(340)
	layout.ShowLegend = boolPtr(true)
	layout.XAxis = axis("Coefficient Bonus/Malus", true)
	layout.YAxis = axis("Nb sinistres déclarés", true)
	layout.Legend = topLegend()
	layout.vline(1.0, "Seuil Malus (1.0)")
	return Figure{Data: traces, Layout: layout}
}
