package report

import (
	"fmt"
	"html/template"
	"log/slog"

	"github.com/ppiankov/assuranalytics/internal/analyzer"
	"github.com/ppiankov/assuranalytics/internal/charts"
	"github.com/ppiankov/assuranalytics/internal/format"
)

const (
	chartWidth  = 720
	chartHeight = 350
)

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="UTF-8">
<title>Rapport AssurAnalytics</title>
<style>
  body { font-family: Inter, Arial, sans-serif; background: #f0f4f8; color: #2d3748; margin: 0; }
  .header { background: linear-gradient(135deg,#0D47A1,#1976D2); color: white; padding: 28px 40px; }
  h1 { margin: 0; font-size: 1.8rem; } p.sub { margin: 4px 0 0; opacity: .8; font-size: .85rem; }
  .kpis { display: flex; gap: 16px; padding: 20px 40px; flex-wrap: wrap; }
  .kpi { background: white; border-radius: 12px; padding: 16px 24px; flex: 1; min-width: 160px;
         box-shadow: 0 2px 10px rgba(0,0,0,.08); text-align: center; }
  .kpi-v { font-size: 1.6rem; font-weight: 800; color: #1565C0; }
  .kpi-l { font-size: .72rem; color: #718096; text-transform: uppercase; letter-spacing: .06em; }
  .insight { background: white; margin: 0 40px 8px; padding: 12px 16px; border-radius: 8px;
             border-left: 4px solid #1565C0; font-size: .83rem; box-shadow: 0 1px 4px rgba(0,0,0,.06); }
  .graphs { padding: 20px 40px; }
  .graph { background: white; border-radius: 12px; padding: 12px; margin-bottom: 16px; }
  footer { background: #0D47A1; color: rgba(255,255,255,.8); text-align: center; padding: 14px; font-size: .75rem; margin-top: 20px; }
</style>
</head>
<body>
<div class="header">
  <h1>📊 AssurAnalytics — Rapport d'Analyse</h1>
  <p class="sub">{{.Generated}} | {{.Count}} assurés analysés</p>
</div>
<div class="kpis">
{{- range .Cards}}
  <div class="kpi"><div class="kpi-v">{{.Value}}</div><div class="kpi-l">{{.Label}}</div></div>
{{- end}}
</div>
{{- if .Empty}}
<div class="insight">⚠️ {{.Empty}}</div>
{{- else}}
<div class="insight">📌 <strong>{{.NoClaim}}</strong> des assurés n'ont déclaré aucun sinistre.</div>
<div class="insight">⚠️ Ratio S/P médian : <strong>{{.MedianSP}}</strong>. {{.Deficit}} des assurés sont déficitaires.</div>
<div class="insight">💡 B/M moyen : <strong>{{.AvgBM}}</strong> — {{.Malus}} des assurés en malus.</div>
{{- end}}
<div class="graphs">
{{- range .Charts}}
  <h2>{{.Title}}</h2>
  <div class="graph">{{.SVG}}</div>
{{- end}}
</div>
<footer>AssurAnalytics · {{.Count}} assurés analysés</footer>
</body>
</html>
`))

type htmlCard struct {
	Label string
	Value string
}

type htmlChart struct {
	Title string
	SVG   template.HTML
}

type htmlPage struct {
	Generated string
	Count     int
	Cards     []htmlCard
	Empty     string
	NoClaim   string
	MedianSP  string
	Deficit   string
	AvgBM     string
	Malus     string
	Charts    []htmlChart
}

// Generate writes a self-contained HTML report with inline SVG charts.
func (r *HTMLReporter) Generate(data Data) error {
	s := analyzer.Summarize(data.Records)
	d := display(s)

	page := htmlPage{
		Generated: generatedLabel(data.Generated),
		Count:     s.Insured,
		Cards: []htmlCard{
			{"Total assurés", d.Insured},
			{"Total sinistres", d.TotalClaims},
			{"Coût moyen sinistre", d.AvgCost},
			{"Prime moyenne", d.AvgPremium},
			{"Taux sinistralité", d.ClaimRate},
			{"Ratio S/P médian", d.MedianSP},
		},
		Charts: []htmlChart{
			{"Répartition par type d'assurance", svgOrPlaceholder(charts.PieSVG(charts.TypeShares(data.Records), chartWidth, chartHeight))},
			{"Montants des sinistres par région", svgOrPlaceholder(charts.BarSVG(charts.RegionAmounts(data.Records), chartWidth, chartHeight))},
			{"Sinistres moyens par tranche d'âge", svgOrPlaceholder(charts.BarSVG(charts.BracketClaims(data.Records), chartWidth, chartHeight))},
		},
	}
	if s.Insured == 0 {
		page.Empty = analyzer.NoMatch
	} else {
		page.NoClaim = format.Percent(s.NoClaimShare)
		page.MedianSP = format.Ratio(s.MedianSP, 1)
		page.Deficit = format.Percent(s.DeficitShare)
		page.AvgBM = format.Fixed(s.AvgBonusMalus, 3)
		page.Malus = format.Percent(s.MalusShare)
	}

	if err := htmlTemplate.Execute(r.Writer, page); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}

// svgOrPlaceholder trusts rendered chart markup and swaps failed renders for
// a blank panel.
func svgOrPlaceholder(svg string, err error) template.HTML {
	if err != nil {
		slog.Debug("Chart replaced by placeholder", "error", err)
		return template.HTML(charts.PlaceholderSVG(charts.NoData, chartWidth, chartHeight))
	}
	return template.HTML(svg)
}
