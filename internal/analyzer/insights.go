package analyzer

import (
	"github.com/ppiankov/assuranalytics/internal/format"
	"github.com/ppiankov/assuranalytics/internal/portfolio"
)

// NoMatch is the only statement produced for an empty selection.
const NoMatch = "Aucun assuré ne correspond à ces filtres."

// Insight thresholds.
const (
	claimRateDeltaPts    = 3.0
	claimCostDeltaPct    = 10.0
	deficitAlertPct      = 85.0
	deficitHealthyPct    = 70.0
	malusAlertPct        = 45.0
	costToPremiumWarning = 3.0
)

// Insights returns the narrative statements for filtered, compared with full.
// Statements come in a fixed order and each is omitted when its data is missing.
func Insights(filtered, full []portfolio.Record) []Insight {
	if len(filtered) == 0 {
		return []Insight{{Level: LevelInfo, Icon: "fas fa-circle-exclamation", Text: NoMatch}}
	}

	sel := Summarize(filtered)
	all := Summarize(full)
	var out []Insight

	if sel.Insured < all.Insured {
		pct := float64(sel.Insured) / float64(all.Insured) * 100
		out = append(out, Insight{
			Level: LevelInfo,
			Icon:  "fas fa-filter",
			Title: "Sélection active",
			Text: format.Int(sel.Insured) + " assurés analysés (" + format.Fixed(pct, 1) +
				"% du portefeuille total de " + format.Int(all.Insured) + ")",
		})
	}

	diff := sel.ClaimRate - all.ClaimRate
	out = append(out, Insight{
		Level: graded(diff, claimRateDeltaPts),
		Icon:  "fas fa-triangle-exclamation",
		Title: "Taux de sinistralité : " + format.Percent(sel.ClaimRate),
		Text: format.Delta(diff) + "% vs moyenne globale (" + format.Percent(all.ClaimRate) + ") — " +
			format.Percent(sel.NoClaimShare) + " des assurés n'ont aucun sinistre",
	})

	if sel.Claimants > 0 && all.Claimants > 0 && all.AvgClaimCost != 0 {
		diffCost := (sel.AvgClaimCost - all.AvgClaimCost) / all.AvgClaimCost * 100
		out = append(out, Insight{
			Level: graded(diffCost, claimCostDeltaPct),
			Icon:  "fas fa-euro-sign",
			Title: "Coût moyen sinistre : " + format.Euro(sel.AvgClaimCost),
			Text:  format.Delta(diffCost) + "% vs moyenne globale (" + format.Euro(all.AvgClaimCost) + ")",
		})
	}

	level := LevelInfo
	verdict := "✅ Rentabilité acceptable"
	switch {
	case sel.DeficitShare > deficitAlertPct:
		level = LevelWarning
		verdict = "🚨 Alerte rentabilité"
	case sel.DeficitShare < deficitHealthyPct:
		level = LevelSuccess
	}
	out = append(out, Insight{
		Level: level,
		Icon:  "fas fa-chart-line",
		Title: "Ratio Sinistre/Prime médian : " + format.Ratio(sel.MedianSP, 1),
		Text: format.Percent(sel.DeficitShare) +
			" des assurés génèrent plus de sinistres que leur prime ne couvre — " + verdict,
	})

	if top, ok := costliestRegion(filtered); ok {
		share := 0.0
		if sel.TotalClaimAmount != 0 {
			share = top.ClaimAmount / sel.TotalClaimAmount * 100
		}
		out = append(out, Insight{
			Level: LevelInfo,
			Icon:  "fas fa-map-location-dot",
			Title: "Région la plus coûteuse : " + top.Region,
			Text: format.Euro(top.ClaimAmount) + " de sinistres — " + format.Percent(share) +
				" du montant total de la sélection",
		})
	}

	if top, ok := riskiestBracket(filtered); ok {
		out = append(out, Insight{
			Level: LevelWarning,
			Icon:  "fas fa-user-shield",
			Title: "Tranche à risque : " + top.Bracket + " ans",
			Text: "Moyenne de " + format.Fixed(top.AvgClaims, 3) +
				" sinistre/assuré — profil prioritaire pour la tarification",
		})
	}

	bmLevel := LevelSuccess
	if sel.MalusShare > malusAlertPct {
		bmLevel = LevelWarning
	}
	avgBM := format.Fixed(sel.AvgBonusMalus, 3)
	out = append(out, Insight{
		Level: bmLevel,
		Icon:  "fas fa-gauge-high",
		Title: "Coefficient B/M : " + avgBM + " moyen",
		Text:  format.Percent(sel.MalusShare) + " des assurés en malus (B/M > 1.0) — B/M moyen : " + avgBM,
	})

	if sel.AvgPremium > 0 && sel.AvgClaimAmount > sel.AvgPremium*costToPremiumWarning {
		out = append(out, Insight{
			Level: LevelDanger,
			Icon:  "fas fa-lightbulb",
			Title: "💡 RECOMMANDATION TARIFAIRE",
			Text: "Le coût moyen (" + format.Euro(sel.AvgClaimAmount) + ") dépasse la prime de " +
				format.Ratio(sel.AvgClaimAmount/sel.AvgPremium, 1) +
				". Révision des grilles tarifaires fortement recommandée.",
		})
	}

	return out
}

// graded maps a delta onto warning above +threshold, success below -threshold
// and info in between.
func graded(delta, threshold float64) Level {
	switch {
	case delta > threshold:
		return LevelWarning
	case delta < -threshold:
		return LevelSuccess
	default:
		return LevelInfo
	}
}

// costliestRegion returns the region with the largest claim amount. Ties go to
// the region that sorts first.
func costliestRegion(records []portfolio.Record) (RegionStat, bool) {
	regions := ByRegion(records)
	if len(regions) == 0 {
		return RegionStat{}, false
	}
	top := regions[0]
	for _, r := range regions[1:] {
		if r.ClaimAmount > top.ClaimAmount {
			top = r
		}
	}
	return top, true
}

// riskiestBracket returns the bracket with the highest mean claim count. Ties
// go to the younger bracket.
func riskiestBracket(records []portfolio.Record) (BracketStat, bool) {
	brackets := ByAgeBracket(records)
	if len(brackets) == 0 {
		return BracketStat{}, false
	}
	top := brackets[0]
	for _, b := range brackets[1:] {
		if b.AvgClaims > top.AvgClaims {
			top = b
		}
	}
	return top, true
}
