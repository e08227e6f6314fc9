package analyzer

import (
	"github.com/ppiankov/assuranalytics/internal/portfolio"
)

// Level is the severity of an insight.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Insight is one narrative statement about the selection.
type Insight struct {
	Level Level  `json:"level"`
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Summary holds the numeric aggregates of a set of records. Means and shares
// are zero when the set (or its claimant subset) is empty; check Insured and
// Claimants before presenting them.
type Summary struct {
	Insured          int     `json:"insured"`
	TotalClaims      int     `json:"total_claims"`
	Claimants        int     `json:"claimants"`
	ClaimRate        float64 `json:"claim_rate"`
	NoClaimShare     float64 `json:"no_claim_share"`
	AvgClaimCost     float64 `json:"avg_claim_cost"`
	AvgPremium       float64 `json:"avg_premium"`
	MaxPremium       float64 `json:"max_premium"`
	AvgClaimAmount   float64 `json:"avg_claim_amount"`
	TotalClaimAmount float64 `json:"total_claim_amount"`
	MedianSP         float64 `json:"median_sp"`
	DeficitShare     float64 `json:"deficit_share"`
	AvgBonusMalus    float64 `json:"avg_bonus_malus"`
	MalusShare       float64 `json:"malus_share"`
}

// KPIs are the formatted headline figures shown on the dashboard.
type KPIs struct {
	Insured      string `json:"insured"`
	TotalClaims  string `json:"total_claims"`
	AvgCost      string `json:"avg_cost"`
	AvgPremium   string `json:"avg_premium"`
	InsuredTrend string `json:"insured_trend"`
	ClaimsTrend  string `json:"claims_trend"`
	CostTrend    string `json:"cost_trend"`
	PremiumTrend string `json:"premium_trend"`

	ClaimRate     string `json:"claim_rate"`
	MedianSP      string `json:"median_sp"`
	AvgBonusMalus string `json:"avg_bonus_malus"`
	DeficitShare  string `json:"deficit_share"`
}

// Counter is the selection size indicator next to the filters.
type Counter struct {
	Text     string `json:"text"`
	Filtered bool   `json:"filtered"`
}

// TableRow is one line of the data table.
type TableRow struct {
	ID            string  `json:"id_assure"`
	Age           int     `json:"age"`
	Sex           string  `json:"sexe"`
	Type          string  `json:"type_assurance"`
	Region        string  `json:"region"`
	ContractYears float64 `json:"duree_contrat"`
	Premium       float64 `json:"montant_prime"`
	ClaimCount    int     `json:"nb_sinistres"`
	ClaimAmount   float64 `json:"montant_sinistres"`
	BonusMalus    float64 `json:"bonus_malus"`
	BMCategory    string  `json:"bm_cat"`
	SPRatio       float64 `json:"ratio_SP"`
}

// Table is the head of the selection shown below the charts.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
	Shown   int        `json:"shown"`
	Total   int        `json:"total"`
	Caption string     `json:"caption"`
}

// RegionStat aggregates a selection by region.
type RegionStat struct {
	Region        string  `json:"region"`
	Insured       int     `json:"insured"`
	Claims        int     `json:"claims"`
	ClaimAmount   float64 `json:"claim_amount"`
	AvgPremium    float64 `json:"avg_premium"`
	AvgBonusMalus float64 `json:"avg_bonus_malus"`
}

// TypeStat aggregates a selection by insurance type.
type TypeStat struct {
	Type           string  `json:"type"`
	Insured        int     `json:"insured"`
	Claims         int     `json:"claims"`
	AvgClaimAmount float64 `json:"avg_claim_amount"`
	AvgPremium     float64 `json:"avg_premium"`
	MedianSP       float64 `json:"median_sp"`
}

// BracketStat aggregates a selection by age bracket.
type BracketStat struct {
	Bracket   string  `json:"bracket"`
	Insured   int     `json:"insured"`
	AvgClaims float64 `json:"avg_claims"`
}

// Dashboard is everything the page shows apart from the charts.
type Dashboard struct {
	Criteria portfolio.Criteria `json:"criteria"`
	Summary  Summary            `json:"summary"`
	KPIs     KPIs               `json:"kpis"`
	Counter  Counter            `json:"counter"`
	Insights []Insight          `json:"insights"`
	Table    Table              `json:"table"`
}

// AnalyzerConfig controls analysis behavior.
type AnalyzerConfig struct {
	TableRows int
}

// DefaultTableRows is the number of rows in the data table when unset.
const DefaultTableRows = 100
