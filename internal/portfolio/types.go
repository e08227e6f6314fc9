// Package portfolio holds the insured-record model, the CSV loader with its
// derived columns, and the filter that narrows the portfolio to a selection.
package portfolio

import (
	"slices"
	"time"
)

// Insurance product types.
const (
	TypeAuto   = "Auto"
	TypeHealth = "Santé"
	TypeHome   = "Habitation"
	TypeLife   = "Vie"
)

// Sexes as written in the source data.
const (
	SexMale   = "masculin"
	SexFemale = "feminin"
)

// Bonus-malus categories.
const (
	BMStrongBonus = "Bonus fort"
	BMBonus       = "Bonus"
	BMNeutral     = "Neutre"
	BMMalus       = "Malus"
)

var (
	// InsuranceTypes lists product types in display order.
	InsuranceTypes = []string{TypeAuto, TypeHealth, TypeHome, TypeLife}
	// Sexes lists the sex values in display order.
	Sexes = []string{SexMale, SexFemale}
	// Regions lists the covered regions in display order.
	Regions = []string{"Dakar", "Kaolack", "Saint-Louis", "Thiès"}
	// AgeBrackets lists the age bracket labels in category order.
	AgeBrackets = []string{"18-25", "26-35", "36-45", "46-55", "56-65", "66-79"}
	// BMCategories lists the bonus-malus categories in category order.
	BMCategories = []string{BMStrongBonus, BMBonus, BMNeutral, BMMalus}
)

// Record is one insured individual with their claims history and the
// columns derived from it at load time.
type Record struct {
	ID            string
	Age           int
	Sex           string
	Region        string
	Type          string
	ContractYears float64
	Premium       float64
	ClaimCount    int
	ClaimAmount   float64
	LastClaim     time.Time
	BonusMalus    float64

	AgeBracket string
	SPRatio    float64
	BMCategory string
	ClaimYear  int
	ClaimMonth string
}

// HasClaim reports whether the insured declared at least one claim.
func (r Record) HasClaim() bool {
	return r.ClaimCount > 0
}

// Dataset is the immutable portfolio loaded at startup.
type Dataset struct {
	records  []Record
	source   string
	loadedAt time.Time
}

// NewDataset wraps records loaded from source.
func NewDataset(records []Record, source string) *Dataset {
	return &Dataset{records: records, source: source, loadedAt: time.Now()}
}

// Empty returns a dataset with no records, used when loading fails.
func Empty(source string) *Dataset {
	return NewDataset(nil, source)
}

// Records returns the full portfolio. The slice is shared and must not be modified.
func (d *Dataset) Records() []Record {
	return d.records
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Source returns where the dataset was read from.
func (d *Dataset) Source() string {
	return d.source
}

// LoadedAt returns when the dataset was built.
func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

// Overview summarizes a dataset for startup logging.
type Overview struct {
	Records int      `json:"records"`
	Regions []string `json:"regions"`
	Types   []string `json:"types"`
	AgeMin  int      `json:"age_min"`
	AgeMax  int      `json:"age_max"`
}

// Describe returns the distinct regions and types and the age range.
func (d *Dataset) Describe() Overview {
	ov := Overview{Records: len(d.records)}
	for i, r := range d.records {
		if i == 0 || r.Age < ov.AgeMin {
			ov.AgeMin = r.Age
		}
		if i == 0 || r.Age > ov.AgeMax {
			ov.AgeMax = r.Age
		}
		if r.Region != "" && !slices.Contains(ov.Regions, r.Region) {
			ov.Regions = append(ov.Regions, r.Region)
		}
		if r.Type != "" && !slices.Contains(ov.Types, r.Type) {
			ov.Types = append(ov.Types, r.Type)
		}
	}
	slices.Sort(ov.Regions)
	slices.Sort(ov.Types)
	return ov
}
