package server

import (
	"strconv"

	"github.com/ppiankov/assuranalytics/internal/charts"
	"github.com/ppiankov/assuranalytics/internal/portfolio"
	"github.com/ppiankov/assuranalytics/internal/report"
)

// Option is one choice of a checklist filter.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FilterOptions describes the filter controls and their reset state.
type FilterOptions struct {
	Types      []Option             `json:"types"`
	Sexes      []Option             `json:"sexes"`
	Regions    []Option             `json:"regions"`
	Claims     []Option             `json:"claims"`
	Age        portfolio.IntRange   `json:"age"`
	AgeStep    int                  `json:"age_step"`
	BonusMalus portfolio.FloatRange `json:"bonus_malus"`
	BMStep     float64              `json:"bm_step"`
	Exports    []report.Format      `json:"exports"`
	Overview   portfolio.Overview   `json:"overview"`
}

var (
	typeLabels = map[string]string{
		portfolio.TypeAuto:   "🚗 Auto",
		portfolio.TypeHealth: "🏥 Santé",
		portfolio.TypeHome:   "🏠 Habitation",
		portfolio.TypeLife:   "❤️ Vie",
	}
	sexLabels = map[string]string{
		portfolio.SexMale:   "👨 Masculin",
		portfolio.SexFemale: "👩 Féminin",
	}
	regionLabels = map[string]string{
		"Dakar":       "🏙️ Dakar",
		"Kaolack":     "🌿 Kaolack",
		"Saint-Louis": "🌊 Saint-Louis",
		"Thiès":       "🌳 Thiès",
	}
)

func options(values []string, labels map[string]string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		label, ok := labels[v]
		if !ok {
			label = v
		}
		out[i] = Option{Value: v, Label: label}
	}
	return out
}

func claimOptions() []Option {
	out := make([]Option, 0, portfolio.ClaimsFourPlus+1)
	for n := 0; n <= portfolio.ClaimsFourPlus; n++ {
		label := strconv.Itoa(n) + " sinistres"
		switch {
		case n <= 1:
			label = strconv.Itoa(n) + " sinistre"
		case n == portfolio.ClaimsFourPlus:
			label = strconv.Itoa(n) + "+ sinistres"
		}
		out = append(out, Option{Value: strconv.Itoa(n), Label: label})
	}
	return out
}

func (s *Server) filterOptions() FilterOptions {
	return FilterOptions{
		Types:      options(portfolio.InsuranceTypes, typeLabels),
		Sexes:      options(portfolio.Sexes, sexLabels),
		Regions:    options(portfolio.Regions, regionLabels),
		Claims:     claimOptions(),
		Age:        portfolio.DefaultAgeRange,
		AgeStep:    1,
		BonusMalus: portfolio.DefaultBonusMalusRange,
		BMStep:     0.05,
		Exports:    report.Exports,
		Overview:   s.dataset.Describe(),
	}
}

// panel is one chart card of the page.
type panel struct {
	ID    string
	Title string
	Note  string
	Wide  bool
}

// section groups panels under a heading.
type section struct {
	Title  string
	Panels []panel
}

var sections = []section{
	{"SECTION 1 — PROFIL DES ASSURÉS", []panel{
		{charts.IDTypePie, "Répartition par Type d'Assurance", "📊 Comparaison — Équilibre entre les 4 types (Auto, Santé, Habitation, Vie)", false},
		{charts.IDAgeDist, "Distribution des Âges par Type", "📈 Tendance — Distribution des âges de 18 à 79 ans par type", false},
		{charts.IDAgeSex, "Profil Démographique — Âge & Sexe", "👥 Comparaison — Prime moyenne par tranche d'âge & sexe", false},
		{charts.IDRegionPie, "Répartition par Région", "🗺️ Comparaison — Distribution des assurés par région sénégalaise", false},
	}},
	{"SECTION 2 — ANALYSE DES SINISTRES", []panel{
		{charts.IDRegionBar, "Sinistres & Montants par Région", "🗺️ Comparaison — Montants totaux sinistres par région", false},
		{charts.IDClaimsHist, "Fréquence des Sinistres Déclarés", "⚠️ Anomalie — Part importante d'assurés sans sinistre", false},
		{charts.IDTimeSeries, "Évolution Temporelle des Sinistres", "📅 Tendance — Suivi mensuel nb sinistres & montants", true},
		{charts.IDClaimsAge, "Sinistres Moyens par Tranche d'Âge & Type", "📊 Relation — Identifier les tranches d'âge les plus sinistrées par type", true},
	}},
	{"SECTION 3 — RENTABILITÉ & TARIFICATION", []panel{
		{charts.IDScatterPremium, "Prime vs Montant Sinistre (Rentabilité)", "💰 Relation — Points au-dessus de la diagonale = assurés déficitaires", false},
		{charts.IDCostType, "Coût Moyen Sinistre vs Prime par Type", "💊 Comparaison — Coût moyen vs prime moyenne par type d'assurance", false},
	}},
	{"SECTION 4 — PROFILS À RISQUE & BONUS/MALUS", []panel{
		{charts.IDHeatmapRisk, "Heatmap Risque — Âge × Type d'Assurance", "🔥 Anomalie — Identification des profils à haut risque par tranche d'âge", false},
		{charts.IDBMDist, "Distribution du Bonus/Malus", "⚖️ Tendance — B/M moyen proche de l'équilibre (1.0)", false},
		{charts.IDBMScatter, "Nuage de Points — Bonus/Malus × Nb Sinistres × Montant", "🔴 Relation — Corrélation B/M et fréquence/coût des sinistres. Détection profils extrêmes", true},
	}},
}

// pageData feeds the index template.
type pageData struct {
	Tool     string
	Version  string
	Source   string
	Sections []section
	Exports  []report.Format
}
