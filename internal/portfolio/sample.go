package portfolio

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Sample generates n synthetic insured records. The same seed always yields
// the same portfolio.
func Sample(n int, seed uint64) []Record {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	basePremium := map[string]float64{
		TypeAuto:   420,
		TypeHealth: 310,
		TypeHome:   260,
		TypeLife:   380,
	}

	records := make([]Record, 0, n)
	for i := range n {
		typ := InsuranceTypes[rng.IntN(len(InsuranceTypes))]
		age := 18 + rng.IntN(62)
		bm := math.Round((0.5+rng.Float64())*100) / 100

		claims := 0
		switch p := rng.Float64(); {
		case p < 0.35:
			claims = 0
		case p < 0.65:
			claims = 1
		case p < 0.85:
			claims = 2
		case p < 0.95:
			claims = 3
		default:
			claims = 4 + rng.IntN(3)
		}

		rec := Record{
			ID:            fmt.Sprintf("A%05d", i+1),
			Age:           age,
			Sex:           Sexes[rng.IntN(len(Sexes))],
			Region:        Regions[rng.IntN(len(Regions))],
			Type:          typ,
			ContractYears: float64(1 + rng.IntN(15)),
			Premium:       math.Round(basePremium[typ]*(0.6+rng.Float64())*100) / 100,
			ClaimCount:    claims,
			BonusMalus:    bm,
		}
		if claims > 0 {
			rec.ClaimAmount = math.Round(float64(claims)*(300+rng.Float64()*2500)*100) / 100
			if rng.Float64() < 0.95 {
				rec.LastClaim = start.AddDate(0, 0, rng.IntN(3*365))
			}
		}
		Enrich(&rec)
		records = append(records, rec)
	}
	return records
}
