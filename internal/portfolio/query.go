package portfolio

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names understood by ParseCriteria.
const (
	ParamType   = "type"
	ParamSex    = "sex"
	ParamRegion = "region"
	ParamClaims = "claims"
	ParamAgeMin = "age_min"
	ParamAgeMax = "age_max"
	ParamBMMin  = "bm_min"
	ParamBMMax  = "bm_max"
)

// ParseCriteria builds criteria from query parameters. Multi-valued
// parameters may be repeated or comma-separated. A range needs at least one
// bound; a missing bound falls back to the slider default.
func ParseCriteria(v url.Values) (Criteria, error) {
	var c Criteria
	c.Types = splitValues(v[ParamType])
	c.Sexes = splitValues(v[ParamSex])
	c.Regions = splitValues(v[ParamRegion])

	for _, s := range splitValues(v[ParamClaims]) {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "+"))
		if err != nil || n < 0 {
			return Criteria{}, fmt.Errorf("invalid %s value %q", ParamClaims, s)
		}
		c.Claims = append(c.Claims, n)
	}

	ageMin, hasAgeMin, err := intParam(v, ParamAgeMin)
	if err != nil {
		return Criteria{}, err
	}
	ageMax, hasAgeMax, err := intParam(v, ParamAgeMax)
	if err != nil {
		return Criteria{}, err
	}
	if hasAgeMin || hasAgeMax {
		r := DefaultAgeRange
		if hasAgeMin {
			r.Min = ageMin
		}
		if hasAgeMax {
			r.Max = ageMax
		}
		if r.Min > r.Max {
			return Criteria{}, fmt.Errorf("%s must not exceed %s", ParamAgeMin, ParamAgeMax)
		}
		c.Age = &r
	}

	bmMin, hasBMMin, err := floatParam(v, ParamBMMin)
	if err != nil {
		return Criteria{}, err
	}
	bmMax, hasBMMax, err := floatParam(v, ParamBMMax)
	if err != nil {
		return Criteria{}, err
	}
	if hasBMMin || hasBMMax {
		r := DefaultBonusMalusRange
		if hasBMMin {
			r.Min = bmMin
		}
		if hasBMMax {
			r.Max = bmMax
		}
		if r.Min > r.Max {
			return Criteria{}, fmt.Errorf("%s must not exceed %s", ParamBMMin, ParamBMMax)
		}
		c.BonusMalus = &r
	}

	return c, nil
}

// Values encodes c back into query parameters understood by ParseCriteria.
func (c Criteria) Values() url.Values {
	v := url.Values{}
	for _, s := range c.Types {
		v.Add(ParamType, s)
	}
	for _, s := range c.Sexes {
		v.Add(ParamSex, s)
	}
	for _, s := range c.Regions {
		v.Add(ParamRegion, s)
	}
	for _, n := range c.Claims {
		v.Add(ParamClaims, strconv.Itoa(n))
	}
	if c.Age != nil {
		v.Set(ParamAgeMin, strconv.Itoa(c.Age.Min))
		v.Set(ParamAgeMax, strconv.Itoa(c.Age.Max))
	}
	if c.BonusMalus != nil {
		v.Set(ParamBMMin, strconv.FormatFloat(c.BonusMalus.Min, 'f', -1, 64))
		v.Set(ParamBMMax, strconv.FormatFloat(c.BonusMalus.Max, 'f', -1, 64))
	}
	return v
}

func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, s := range strings.Split(r, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func intParam(v url.Values, name string) (int, bool, error) {
	s := strings.TrimSpace(v.Get(name))
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("invalid %s value %q", name, s)
	}
	return n, true, nil
}

func floatParam(v url.Values, name string) (float64, bool, error) {
	s := strings.TrimSpace(v.Get(name))
	if s == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("invalid %s value %q", name, s)
	}
	return f, true, nil
}
