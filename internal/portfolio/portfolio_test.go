package portfolio

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `id_assure;age;sexe;region;type_assurance;duree_contrat;montant_prime;nb_sinistres;montant_sinistres;date_derniere_sinistre;bonus_malus
A1;17;masculin;Dakar;Auto;3;400;0;0;;0.8
A2;25;feminin;Thiès;Santé;5;300;2;900;2023-04-12;1.0
A3;26;masculin;Kaolack;Auto;1;500;4;2500;2023-05-01 10:00:00;1.25
A4;79;feminin;Saint-Louis;Vie;10;350;1;200;not-a-date;0.41
A5;80;masculin;Dakar;Habitation;2;0;5;1000;15/06/2022;1.7
`

func mustParse(t *testing.T, data string) []Record {
	t.Helper()
	recs, err := Parse(strings.NewReader(data))
	require.NoError(t, err)
	return recs
}

func TestParseDerivedColumns(t *testing.T) {
	recs := mustParse(t, sampleCSV)
	require.Len(t, recs, 5)

	tests := []struct {
		id      string
		bracket string
		bmCat   string
		ratio   float64
		month   string
	}{
		{"A1", "18-25", BMStrongBonus, 0, ""},
		{"A2", "18-25", BMBonus, 3, "2023-04"},
		{"A3", "26-35", BMMalus, 5, "2023-05"},
		{"A4", "66-79", BMStrongBonus, 0.57, ""},
		{"A5", "", "", 0, "2022-06"},
	}
	for i, tt := range tests {
		r := recs[i]
		assert.Equal(t, tt.id, r.ID)
		assert.Equal(t, tt.bracket, r.AgeBracket, "bracket of %s", tt.id)
		assert.Equal(t, tt.bmCat, r.BMCategory, "bm category of %s", tt.id)
		assert.InDelta(t, tt.ratio, r.SPRatio, 1e-9, "ratio of %s", tt.id)
		assert.Equal(t, tt.month, r.ClaimMonth, "month of %s", tt.id)
	}
	assert.Equal(t, 2023, recs[1].ClaimYear)
	assert.True(t, recs[3].LastClaim.IsZero())
}

func TestAgeBracketEdges(t *testing.T) {
	tests := map[int]string{
		16: "", 17: "18-25", 25: "18-25", 26: "26-35", 35: "26-35",
		45: "36-45", 55: "46-55", 65: "56-65", 66: "66-79", 79: "66-79", 80: "",
	}
	for age, want := range tests {
		assert.Equal(t, want, AgeBracket(age), "age %d", age)
	}
}

func TestBMCategoryEdges(t *testing.T) {
	tests := map[float64]string{
		0.4: "", 0.41: BMStrongBonus, 0.8: BMStrongBonus, 0.81: BMBonus, 1.0: BMBonus,
		1.01: BMNeutral, 1.2: BMNeutral, 1.21: BMMalus, 1.6: BMMalus, 1.61: "",
	}
	for bm, want := range tests {
		assert.Equal(t, want, BMCategory(bm), "bm %v", bm)
	}
}

func TestEnrichIsDeterministic(t *testing.T) {
	r := Record{Age: 40, Premium: 300, ClaimAmount: 1000, BonusMalus: 1.1,
		LastClaim: time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC)}
	a, b := r, r
	Enrich(&a)
	Enrich(&b)
	assert.Equal(t, a, b)
	assert.InDelta(t, 3.33, a.SPRatio, 1e-9)
}

func TestParseColumnOrderAndExtras(t *testing.T) {
	data := "extra;bonus_malus;date_derniere_sinistre;montant_sinistres;nb_sinistres;montant_prime;duree_contrat;type_assurance;region;sexe;age;id_assure\n" +
		"x;1.1;2024-01-05;100;1;200;4;Vie;Dakar;feminin;40;Z9\n"
	recs := mustParse(t, data)
	require.Len(t, recs, 1)
	assert.Equal(t, "Z9", recs[0].ID)
	assert.Equal(t, 40, recs[0].Age)
	assert.Equal(t, "Vie", recs[0].Type)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse(strings.NewReader("id_assure;age\nA1;30\n"))
	require.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "montant_prime")

	_, err = Parse(strings.NewReader(""))
	require.ErrorIs(t, err, ErrSchema)

	bad := strings.Replace(sampleCSV, "A2;25;", "A2;vingt;", 1)
	_, err = Parse(strings.NewReader(bad))
	require.ErrorIs(t, err, ErrMalformedRow)
	assert.Contains(t, err.Error(), "age")
}

func TestLoadDataset(t *testing.T) {
	ds, err := Load(strings.NewReader(sampleCSV), "memory")
	require.NoError(t, err)
	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, "memory", ds.Source())

	ov := ds.Describe()
	assert.Equal(t, 17, ov.AgeMin)
	assert.Equal(t, 80, ov.AgeMax)
	assert.Equal(t, []string{"Dakar", "Kaolack", "Saint-Louis", "Thiès"}, ov.Regions)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	recs := Sample(50, 7)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, recs))

	back := mustParse(t, buf.String())
	require.Len(t, back, len(recs))
	for i := range recs {
		assert.Equal(t, recs[i].ID, back[i].ID)
		assert.Equal(t, recs[i].ClaimCount, back[i].ClaimCount)
		assert.Equal(t, recs[i].AgeBracket, back[i].AgeBracket)
		assert.Equal(t, recs[i].ClaimMonth, back[i].ClaimMonth)
	}
}

func TestSampleDeterministic(t *testing.T) {
	assert.Equal(t, Sample(20, 42), Sample(20, 42))
	assert.NotEqual(t, Sample(20, 42), Sample(20, 43))
}

func claimRecords() []Record {
	var recs []Record
	for n := 0; n <= 5; n++ {
		recs = append(recs, Record{ID: string(rune('a' + n)), ClaimCount: n})
	}
	return recs
}

func TestFilterClaimsFourPlus(t *testing.T) {
	got := Filter(claimRecords(), Criteria{Claims: []int{ClaimsFourPlus}})
	require.Len(t, got, 2)
	assert.Equal(t, 4, got[0].ClaimCount)
	assert.Equal(t, 5, got[1].ClaimCount)

	got = Filter(claimRecords(), Criteria{Claims: []int{0, 2}})
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].ClaimCount)
	assert.Equal(t, 2, got[1].ClaimCount)
}

func TestFilterSubsetAndMonotonic(t *testing.T) {
	full := Sample(300, 1)
	auto := Criteria{Types: []string{TypeAuto}}
	autoDakar := Criteria{Types: []string{TypeAuto}, Regions: []string{"Dakar"}}

	a := Filter(full, auto)
	b := Filter(full, autoDakar)
	assert.LessOrEqual(t, len(a), len(full))
	assert.LessOrEqual(t, len(b), len(a))
	for _, r := range b {
		assert.Equal(t, TypeAuto, r.Type)
		assert.Equal(t, "Dakar", r.Region)
	}
}

func TestFilterInclusiveRanges(t *testing.T) {
	recs := []Record{{Age: 30, BonusMalus: 0.5}, {Age: 40, BonusMalus: 1.5}, {Age: 41, BonusMalus: 1.51}}
	got := Filter(recs, Criteria{Age: &IntRange{30, 40}, BonusMalus: &FloatRange{0.5, 1.5}})
	assert.Len(t, got, 2)
}

func TestResetRestoresFull(t *testing.T) {
	full := Sample(100, 3)
	c := Criteria{Sexes: []string{SexFemale}}
	assert.Less(t, len(Filter(full, c)), len(full))

	c = Reset()
	assert.True(t, c.IsZero())
	assert.Equal(t, full, Filter(full, c))
}

func TestScenarioAutoWithDefaultRanges(t *testing.T) {
	full := Sample(500, 11)
	age := DefaultAgeRange
	bm := DefaultBonusMalusRange
	got := Filter(full, Criteria{Types: []string{TypeAuto}, Age: &age, BonusMalus: &bm})

	wantCount, wantClaims := 0, 0
	for _, r := range full {
		if r.Type == TypeAuto && age.Contains(r.Age) && bm.Contains(r.BonusMalus) {
			wantCount++
			wantClaims += r.ClaimCount
		}
	}
	gotClaims := 0
	for _, r := range got {
		gotClaims += r.ClaimCount
	}
	assert.Equal(t, wantCount, len(got))
	assert.Equal(t, wantClaims, gotClaims)
}

func TestParseCriteria(t *testing.T) {
	v := url.Values{
		"type":    {"Auto,Vie"},
		"region":  {"Dakar", "Thiès"},
		"claims":  {"0", "4+"},
		"age_min": {"30"},
		"bm_max":  {"1.2"},
	}
	c, err := ParseCriteria(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"Auto", "Vie"}, c.Types)
	assert.Equal(t, []string{"Dakar", "Thiès"}, c.Regions)
	assert.Equal(t, []int{0, 4}, c.Claims)
	assert.Equal(t, &IntRange{30, 79}, c.Age)
	assert.Equal(t, &FloatRange{0.5, 1.2}, c.BonusMalus)
	assert.Equal(t, 5, c.Active())

	back, err := ParseCriteria(c.Values())
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestParseCriteriaErrors(t *testing.T) {
	for _, v := range []url.Values{
		{"claims": {"many"}},
		{"age_min": {"x"}},
		{"bm_min": {"1.4"}, "bm_max": {"0.6"}},
		{"age_min": {"60"}, "age_max": {"20"}},
		{"bm_min": {"NaN"}},
		{"bm_max": {"Inf"}},
		{"bm_min": {"-Inf"}, "bm_max": {"1.2"}},
		{"bm_max": {"+Infinity"}},
	} {
		_, err := ParseCriteria(v)
		assert.Error(t, err, "%v", v)
	}

	c, err := ParseCriteria(url.Values{})
	require.NoError(t, err)
	assert.True(t, c.IsZero())
}

func TestCriteriaDescribe(t *testing.T) {
	c := Criteria{Types: []string{"Auto"}, Claims: []int{1, 4}, Age: &IntRange{20, 30}}
	assert.Equal(t, []string{"Type : Auto", "Sinistres : 1, 4+", "Âge : 20-30"}, c.Describe())
	assert.Empty(t, Reset().Describe())
}
