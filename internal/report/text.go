package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ppiankov/assuranalytics/internal/analyzer"
	"github.com/ppiankov/assuranalytics/internal/format"
)

// Generate writes a human-readable portfolio summary.
func (r *TextReporter) Generate(data Data) error {
	d := data.dashboard()
	w := &errWriter{w: r.Writer}

	w.println("AssurAnalytics — Synthèse du portefeuille")
	w.println(strings.Repeat("=", 41))
	w.println("")
	if data.Source != "" {
		w.printf("Source:     %s\n", data.Source)
	}
	if !data.Generated.IsZero() {
		w.printf("Généré:     %s\n", data.Generated.Format("02/01/2006 15:04"))
	}
	w.printf("Sélection:  %s\n", d.Counter.Text)
	if filters := data.Criteria.Describe(); len(filters) > 0 {
		w.printf("Filtres:    %s\n", strings.Join(filters, " | "))
	}
	w.println("")

	if d.Summary.Insured == 0 {
		w.println(analyzer.NoMatch)
		return w.err
	}

	w.println("Indicateurs")
	w.println("-----------")
	tw := tabwriter.NewWriter(r.Writer, 0, 4, 2, ' ', 0)
	tw2 := &errWriter{w: tw}
	k := d.KPIs
	tw2.printf("Assurés\t%s\t%s\n", k.Insured, k.InsuredTrend)
	tw2.printf("Sinistres\t%s\t%s\n", k.TotalClaims, k.ClaimsTrend)
	tw2.printf("Coût moyen sinistre\t%s\t%s\n", k.AvgCost, k.CostTrend)
	tw2.printf("Prime moyenne\t%s\t%s\n", k.AvgPremium, k.PremiumTrend)
	tw2.printf("Taux de sinistralité\t%s\t\n", k.ClaimRate)
	tw2.printf("Ratio S/P médian\t%s\t\n", k.MedianSP)
	tw2.printf("B/M moyen\t%s\t\n", k.AvgBonusMalus)
	tw2.printf("Assurés déficitaires\t%s\t\n", k.DeficitShare)
	if err := flush(tw, tw2); err != nil {
		return err
	}

	w.println("")
	w.println("Insights")
	w.println("--------")
	for _, in := range d.Insights {
		w.printf("[%s] %s — %s\n", in.Level, in.Title, in.Text)
	}

	w.println("")
	w.println("Par région")
	w.println("----------")
	tw = tabwriter.NewWriter(r.Writer, 0, 4, 2, ' ', 0)
	tw2 = &errWriter{w: tw}
	tw2.printf("RÉGION\tASSURÉS\tSINISTRES\tMONTANT\tPRIME MOY.\tB/M MOY.\n")
	for _, reg := range analyzer.ByRegion(data.Records) {
		tw2.printf("%s\t%s\t%s\t%s\t%s\t%s\n", reg.Region, format.Int(reg.Insured), format.Int(reg.Claims),
			format.Euro(reg.ClaimAmount), format.Euro(reg.AvgPremium), format.Fixed(reg.AvgBonusMalus, 3))
	}
	if err := flush(tw, tw2); err != nil {
		return err
	}
	return w.err
}

func flush(tw *tabwriter.Writer, ew *errWriter) error {
	if ew.err != nil {
		return ew.err
	}
	return tw.Flush()
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
