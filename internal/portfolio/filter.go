package portfolio

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ClaimsFourPlus is the claim-count selector matching every count of four or more.
const ClaimsFourPlus = 4

// Slider bounds of the range criteria. Reset clears the criteria rather than
// setting them to these values, so records outside the bounds stay visible.
var (
	DefaultAgeRange        = IntRange{Min: 18, Max: 79}
	DefaultBonusMalusRange = FloatRange{Min: 0.5, Max: 1.5}
)

// IntRange is an inclusive integer interval.
type IntRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v lies within the range, bounds included.
func (r IntRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// FloatRange is an inclusive float interval.
type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the range, bounds included.
func (r FloatRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Criteria is the user's filter selection. A nil or empty field places no
// constraint; values within a field are OR-ed and fields are AND-ed.
type Criteria struct {
	Types      []string    `json:"types,omitempty"`
	Sexes      []string    `json:"sexes,omitempty"`
	Regions    []string    `json:"regions,omitempty"`
	Claims     []int       `json:"claims,omitempty"`
	Age        *IntRange   `json:"age,omitempty"`
	BonusMalus *FloatRange `json:"bonus_malus,omitempty"`
}

// Reset returns criteria with every filter cleared.
func Reset() Criteria {
	return Criteria{}
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c.Active() == 0
}

// Active returns how many criteria constrain the selection.
func (c Criteria) Active() int {
	n := 0
	for _, set := range []bool{
		len(c.Types) > 0, len(c.Sexes) > 0, len(c.Regions) > 0,
		len(c.Claims) > 0, c.Age != nil, c.BonusMalus != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Match reports whether r satisfies every criterion.
func (c Criteria) Match(r Record) bool {
	if len(c.Types) > 0 && !slices.Contains(c.Types, r.Type) {
		return false
	}
	if len(c.Sexes) > 0 && !slices.Contains(c.Sexes, r.Sex) {
		return false
	}
	if len(c.Regions) > 0 && !slices.Contains(c.Regions, r.Region) {
		return false
	}
	if len(c.Claims) > 0 && !matchClaims(c.Claims, r.ClaimCount) {
		return false
	}
	if c.Age != nil && !c.Age.Contains(r.Age) {
		return false
	}
	if c.BonusMalus != nil && !c.BonusMalus.Contains(r.BonusMalus) {
		return false
	}
	return true
}

func matchClaims(selectors []int, n int) bool {
	for _, s := range selectors {
		if s == ClaimsFourPlus && n >= ClaimsFourPlus {
			return true
		}
		if s == n {
			return true
		}
	}
	return false
}

// Filter returns a new slice holding the records that match c, in input order.
func Filter(records []Record, c Criteria) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Describe renders the active criteria as short French labels for report headers.
func (c Criteria) Describe() []string {
	var parts []string
	if len(c.Types) > 0 {
		parts = append(parts, "Type : "+strings.Join(c.Types, ", "))
	}
	if len(c.Sexes) > 0 {
		parts = append(parts, "Sexe : "+strings.Join(c.Sexes, ", "))
	}
	if len(c.Regions) > 0 {
		parts = append(parts, "Région : "+strings.Join(c.Regions, ", "))
	}
	if len(c.Claims) > 0 {
		labels := make([]string, len(c.Claims))
		for i, n := range c.Claims {
			labels[i] = strconv.Itoa(n)
			if n == ClaimsFourPlus {
				labels[i] += "+"
			}
		}
		parts = append(parts, "Sinistres : "+strings.Join(labels, ", "))
	}
	if c.Age != nil {
		parts = append(parts, fmt.Sprintf("Âge : %d-%d", c.Age.Min, c.Age.Max))
	}
	if c.BonusMalus != nil {
		parts = append(parts, fmt.Sprintf("B/M : %.2f-%.2f", c.BonusMalus.Min, c.BonusMalus.Max))
	}
	return parts
}
