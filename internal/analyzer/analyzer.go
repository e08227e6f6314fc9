// Package analyzer turns a filtered selection into KPIs, group aggregates,
// narrative insights and the data table, always relative to the full portfolio.
package analyzer

import (
	"github.com/ppiankov/assuranalytics/internal/format"
	"github.com/ppiankov/assuranalytics/internal/portfolio"
	"github.com/ppiankov/assuranalytics/internal/stats"
)

// Compute builds the dashboard for the records selected by criteria.
func Compute(full []portfolio.Record, criteria portfolio.Criteria, cfg AnalyzerConfig) *Dashboard {
	filtered := portfolio.Filter(full, criteria)
	d := Analyze(filtered, full, cfg)
	d.Criteria = criteria
	return d
}

// Analyze builds the dashboard for an already filtered selection.
func Analyze(filtered, full []portfolio.Record, cfg AnalyzerConfig) *Dashboard {
	sel := Summarize(filtered)
	all := Summarize(full)

	return &Dashboard{
		Summary:  sel,
		KPIs:     buildKPIs(sel, all),
		Counter:  buildCounter(sel.Insured, all.Insured),
		Insights: Insights(filtered, full),
		Table:    BuildTable(filtered, cfg.TableRows),
	}
}

// Summarize computes the numeric aggregates of records.
func Summarize(records []portfolio.Record) Summary {
	claimants := claimantsOf(records)
	s := Summary{
		Insured:          len(records),
		Claimants:        len(claimants),
		TotalClaims:      stats.Sum(records, claimCount),
		TotalClaimAmount: stats.Sum(records, claimAmount),
		ClaimRate:        stats.Share(records, portfolio.Record.HasClaim),
		NoClaimShare:     stats.Share(records, func(r portfolio.Record) bool { return r.ClaimCount == 0 }),
		DeficitShare:     stats.Share(records, func(r portfolio.Record) bool { return r.SPRatio > 1 }),
		MalusShare:       stats.Share(records, func(r portfolio.Record) bool { return r.BonusMalus > 1.0 }),
	}
	s.AvgClaimCost, _ = stats.Mean(claimants, claimAmount)
	s.AvgPremium, _ = stats.Mean(records, premium)
	s.MaxPremium, _ = stats.Max(records, premium)
	s.AvgClaimAmount, _ = stats.Mean(records, claimAmount)
	s.MedianSP, _ = stats.Median(records, spRatio)
	s.AvgBonusMalus, _ = stats.Mean(records, bonusMalus)
	return s
}

func buildKPIs(sel, all Summary) KPIs {
	k := KPIs{
		Insured:       format.Spaced(sel.Insured),
		TotalClaims:   format.Spaced(sel.TotalClaims),
		AvgCost:       format.PlaceholderEuro,
		AvgPremium:    format.PlaceholderEuro,
		ClaimRate:     format.Placeholder,
		MedianSP:      format.Placeholder,
		AvgBonusMalus: format.Placeholder,
		DeficitShare:  format.Placeholder,
	}
	if sel.Claimants > 0 {
		k.AvgCost = format.Euro(sel.AvgClaimCost)
	}
	if sel.Insured > 0 {
		k.AvgPremium = format.Euro(sel.AvgPremium)
		k.ClaimRate = format.Percent(sel.ClaimRate)
		k.MedianSP = format.Ratio(sel.MedianSP, 2)
		k.AvgBonusMalus = format.Fixed(sel.AvgBonusMalus, 3)
		k.DeficitShare = format.Percent(sel.DeficitShare)
	}

	if sel.Insured < all.Insured {
		k.InsuredTrend = "📊 " + format.Fixed(float64(sel.Insured)/float64(all.Insured)*100, 0) + "% du portefeuille"
	} else {
		k.InsuredTrend = "📊 Portefeuille complet"
	}
	k.ClaimsTrend = format.Trend(float64(sel.TotalClaims), float64(all.TotalClaims))
	k.CostTrend = format.Trend(sel.AvgClaimCost, all.AvgClaimCost)
	k.PremiumTrend = format.Trend(sel.AvgPremium, all.AvgPremium)
	return k
}

func buildCounter(n, total int) Counter {
	if n == total {
		return Counter{Text: "✅ " + format.Int(n) + " assurés — Aucun filtre actif"}
	}
	return Counter{
		Text:     "🔍 " + format.Int(n) + " assurés filtrés / " + format.Int(total),
		Filtered: true,
	}
}

// BuildTable returns the first limit records as table rows. A non-positive
// limit uses DefaultTableRows.
func BuildTable(records []portfolio.Record, limit int) Table {
	if limit <= 0 {
		limit = DefaultTableRows
	}
	shown := min(limit, len(records))
	t := Table{
		Columns: TableColumns,
		Rows:    make([]TableRow, 0, shown),
		Shown:   shown,
		Total:   len(records),
	}
	for _, r := range records[:shown] {
		t.Rows = append(t.Rows, TableRow{
			ID:            r.ID,
			Age:           r.Age,
			Sex:           r.Sex,
			Type:          r.Type,
			Region:        r.Region,
			ContractYears: r.ContractYears,
			Premium:       stats.Round(r.Premium, 0),
			ClaimCount:    r.ClaimCount,
			ClaimAmount:   stats.Round(r.ClaimAmount, 0),
			BonusMalus:    stats.Round(r.BonusMalus, 3),
			BMCategory:    r.BMCategory,
			SPRatio:       stats.Round(r.SPRatio, 2),
		})
	}
	if len(records) > 0 {
		t.Caption = "Affichage de " + format.Int(shown) + " lignes sur " + format.Int(len(records)) + " au total"
	}
	return t
}

// TableColumns lists the data table columns in display order.
var TableColumns = []string{
	portfolio.ColID, portfolio.ColAge, portfolio.ColSex, portfolio.ColType, portfolio.ColRegion,
	portfolio.ColDuration, portfolio.ColPremium, portfolio.ColClaimCount,
	portfolio.ColClaimAmount, portfolio.ColBonusMalus, "bm_cat", "ratio_SP",
}

func claimantsOf(records []portfolio.Record) []portfolio.Record {
	var out []portfolio.Record
	for _, r := range records {
		if r.HasClaim() {
			out = append(out, r)
		}
	}
	return out
}

func claimCount(r portfolio.Record) int      { return r.ClaimCount }
func claimCountF(r portfolio.Record) float64 { return float64(r.ClaimCount) }
func claimAmount(r portfolio.Record) float64 { return r.ClaimAmount }
func premium(r portfolio.Record) float64     { return r.Premium }
func spRatio(r portfolio.Record) float64     { return r.SPRatio }
func bonusMalus(r portfolio.Record) float64  { return r.BonusMalus }
