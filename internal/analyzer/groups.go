package analyzer

import (
	"github.com/ppiankov/assuranalytics/internal/portfolio"
	"github.com/ppiankov/assuranalytics/internal/stats"
)

func byRegion(r portfolio.Record) string  { return r.Region }
func byType(r portfolio.Record) string    { return r.Type }
func byBracket(r portfolio.Record) string { return r.AgeBracket }

// ByRegion aggregates records per region, sorted by region name.
func ByRegion(records []portfolio.Record) []RegionStat {
	groups := stats.GroupBy(records, byRegion)
	out := make([]RegionStat, 0, len(groups))
	for _, g := range groups {
		s := RegionStat{
			Region:      g.Key,
			Insured:     len(g.Items),
			Claims:      stats.Sum(g.Items, claimCount),
			ClaimAmount: stats.Sum(g.Items, claimAmount),
		}
		s.AvgPremium, _ = stats.Mean(g.Items, premium)
		s.AvgBonusMalus, _ = stats.Mean(g.Items, bonusMalus)
		out = append(out, s)
	}
	return out
}

// ByType aggregates records per insurance type, sorted by type name.
func ByType(records []portfolio.Record) []TypeStat {
	groups := stats.GroupBy(records, byType)
	out := make([]TypeStat, 0, len(groups))
	for _, g := range groups {
		s := TypeStat{
			Type:    g.Key,
			Insured: len(g.Items),
			Claims:  stats.Sum(g.Items, claimCount),
		}
		s.AvgClaimAmount, _ = stats.Mean(g.Items, claimAmount)
		s.AvgPremium, _ = stats.Mean(g.Items, premium)
		s.MedianSP, _ = stats.Median(g.Items, spRatio)
		out = append(out, s)
	}
	return out
}

// ByAgeBracket aggregates records per age bracket in bracket order. Brackets
// without records and records outside every bracket are left out.
func ByAgeBracket(records []portfolio.Record) []BracketStat {
	groups := stats.GroupByOrder(records, byBracket, portfolio.AgeBrackets)
	out := make([]BracketStat, 0, len(groups))
	for _, g := range groups {
		s := BracketStat{Bracket: g.Key, Insured: len(g.Items)}
		s.AvgClaims, _ = stats.Mean(g.Items, claimCountF)
		out = append(out, s)
	}
	return out
}
