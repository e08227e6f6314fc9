package report

import (
	"github.com/ppiankov/assuranalytics/internal/analyzer"
	"github.com/ppiankov/assuranalytics/internal/format"
	"github.com/ppiankov/assuranalytics/internal/stats"
)

// indicator is one labeled KPI value.
type indicator struct {
	Label string
	Value any
}

// sheetIndicators returns the KPI sheet rows as rounded numbers.
func sheetIndicators(s analyzer.Summary) []indicator {
	return []indicator{
		{"Nb assurés analysés", s.Insured},
		{"Total sinistres", s.TotalClaims},
		{"Taux sinistralité (%)", stats.Round(s.ClaimRate, 2)},
		{"Coût moyen sinistre (€)", stats.Round(s.AvgClaimCost, 0)},
		{"Prime moyenne (€)", stats.Round(s.AvgPremium, 0)},
		{"Ratio S/P médian", stats.Round(s.MedianSP, 2)},
		{"% déficitaires", stats.Round(s.DeficitShare, 1)},
		{"B/M moyen", stats.Round(s.AvgBonusMalus, 3)},
	}
}

// displayed holds the formatted KPI values shared by the HTML and PDF reports.
type displayed struct {
	Insured       string
	TotalClaims   string
	AvgCost       string
	AvgPremium    string
	ClaimRate     string
	MedianSP      string
	DeficitShare  string
	AvgBonusMalus string
}

func display(s analyzer.Summary) displayed {
	d := displayed{
		Insured:       format.Int(s.Insured),
		TotalClaims:   format.Int(s.TotalClaims),
		AvgCost:       format.Placeholder,
		AvgPremium:    format.Placeholder,
		ClaimRate:     format.Placeholder,
		MedianSP:      format.Placeholder,
		DeficitShare:  format.Placeholder,
		AvgBonusMalus: format.Placeholder,
	}
	if s.Claimants > 0 {
		d.AvgCost = format.Euro(s.AvgClaimCost)
	}
	if s.Insured > 0 {
		d.AvgPremium = format.Euro(s.AvgPremium)
		d.ClaimRate = format.Percent(s.ClaimRate)
		d.MedianSP = format.Ratio(s.MedianSP, 2)
		d.DeficitShare = format.Percent(s.DeficitShare)
		d.AvgBonusMalus = format.Fixed(s.AvgBonusMalus, 3)
	}
	return d
}

// findings returns the plain-text narrative lines of the printed reports.
// The cost line is only present when premiums are known.
func findings(s analyzer.Summary) []string {
	if s.Insured == 0 {
		return []string{analyzer.NoMatch}
	}
	lines := []string{
		format.Percent(s.NoClaimShare) + " des assurés n'ont déclaré aucun sinistre.",
		"Ratio S/P médian : " + format.Ratio(s.MedianSP, 1) + " — " + format.Percent(s.DeficitShare) + " des assurés sont déficitaires.",
		"B/M moyen : " + format.Fixed(s.AvgBonusMalus, 3) + " — " + format.Percent(s.MalusShare) + " des assurés en malus.",
	}
	if s.AvgPremium > 0 {
		lines = append(lines, "Le coût moyen ("+format.Euro(s.AvgClaimAmount)+") dépasse la prime moyenne de "+
			format.Ratio(s.AvgClaimAmount/s.AvgPremium, 1)+".")
	}
	return lines
}
