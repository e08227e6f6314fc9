package portfolio

import (
	"math"

	"github.com/ppiankov/assuranalytics/internal/stats"
)

// MonthLayout is the layout of Record.ClaimMonth.
const MonthLayout = "2006-01"

var (
	ageEdges = []int{17, 25, 35, 45, 55, 65, 79}
	bmEdges  = []float64{0.4, 0.8, 1.0, 1.2, 1.6}
)

// Enrich fills the derived columns of r from its raw fields.
func Enrich(r *Record) {
	r.AgeBracket = AgeBracket(r.Age)
	r.SPRatio = SPRatio(r.ClaimAmount, r.Premium)
	r.BMCategory = BMCategory(r.BonusMalus)
	r.ClaimYear = 0
	r.ClaimMonth = ""
	if !r.LastClaim.IsZero() {
		r.ClaimYear = r.LastClaim.Year()
		r.ClaimMonth = r.LastClaim.Format(MonthLayout)
	}
}

// AgeBracket maps an age onto its bracket label. Brackets are right-closed
// and the lowest edge (17) is included; ages outside [17, 79] get "".
func AgeBracket(age int) string {
	if age < ageEdges[0] || age > ageEdges[len(ageEdges)-1] {
		return ""
	}
	for i := 1; i < len(ageEdges); i++ {
		if age <= ageEdges[i] {
			return AgeBrackets[i-1]
		}
	}
	return ""
}

// BMCategory maps a bonus-malus coefficient onto its category. Intervals are
// right-closed with the lowest edge excluded; values outside (0.4, 1.6] get "".
func BMCategory(bm float64) string {
	if math.IsNaN(bm) || bm <= bmEdges[0] || bm > bmEdges[len(bmEdges)-1] {
		return ""
	}
	for i := 1; i < len(bmEdges); i++ {
		if bm <= bmEdges[i] {
			return BMCategories[i-1]
		}
	}
	return ""
}

// SPRatio is claims over premium rounded to two decimals. A non-positive
// premium yields 0.
func SPRatio(claims, premium float64) float64 {
	if premium <= 0 {
		return 0
	}
	return stats.Round(claims/premium, 2)
}
