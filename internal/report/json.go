package report

import (
	"encoding/json"
	"fmt"

	"github.com/ppiankov/assuranalytics/internal/analyzer"
)

// jsonReport is the document written by JSONReporter.
type jsonReport struct {
	Tool      string                 `json:"tool"`
	Version   string                 `json:"version"`
	Generated string                 `json:"generated"`
	Source    string                 `json:"source,omitempty"`
	Dashboard *analyzer.Dashboard    `json:"dashboard"`
	Regions   []analyzer.RegionStat  `json:"regions"`
	Types     []analyzer.TypeStat    `json:"types"`
	Brackets  []analyzer.BracketStat `json:"age_brackets"`
}

// Generate writes the dashboard and group aggregates as indented JSON.
func (r *JSONReporter) Generate(data Data) error {
	doc := jsonReport{
		Tool:      data.Tool,
		Version:   data.Version,
		Generated: data.Generated.Format("2006-01-02T15:04:05Z07:00"),
		Source:    data.Source,
		Dashboard: data.dashboard(),
		Regions:   analyzer.ByRegion(data.Records),
		Types:     analyzer.ByType(data.Records),
		Brackets:  analyzer.ByAgeBracket(data.Records),
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json report: %w", err)
	}
	out = append(out, '\n')
	if _, err := r.Writer.Write(out); err != nil {
		return fmt.Errorf("write json report: %w", err)
	}
	return nil
}

// dashboard analyzes the selection against the full portfolio. Without a
// full portfolio the selection is its own reference.
func (d Data) dashboard() *analyzer.Dashboard {
	full := d.Full
	if full == nil {
		full = d.Records
	}
	dash := analyzer.Analyze(d.Records, full, analyzer.AnalyzerConfig{TableRows: d.TableRows})
	dash.Criteria = d.Criteria
	return dash
}
