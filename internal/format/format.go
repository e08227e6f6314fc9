// Package format renders dashboard numbers the way the French UI shows them:
// thousands separators, euro suffixes, trend arrows and placeholders.
package format

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholders shown when an aggregate has no data behind it.
const (
	Placeholder     = "—"
	PlaceholderEuro = "— €"
)

var printer = message.NewPrinter(language.English)

// Int formats n with comma thousands separators: 12345 → "12,345".
func Int(n int) string {
	return printer.Sprintf("%d", n)
}

// Spaced formats n with space thousands separators: 12345 → "12 345".
func Spaced(n int) string {
	return strings.ReplaceAll(Int(n), ",", " ")
}

// Amount formats x rounded to units with comma separators: 1234.6 → "1,235".
func Amount(x float64) string {
	return printer.Sprintf("%.0f", x)
}

// Euro formats x as a whole euro amount: "1,235 €".
func Euro(x float64) string {
	return Amount(x) + " €"
}

// Fixed formats x with a fixed number of decimals and no grouping.
func Fixed(x float64, places int) string {
	return strconv.FormatFloat(x, 'f', places, 64)
}

// Percent formats a 0-100 share with one decimal: "12.3%".
func Percent(x float64) string {
	return Fixed(x, 1) + "%"
}

// Ratio formats a multiplier: Ratio(1.234, 2) → "1.23x".
func Ratio(x float64, places int) string {
	return Fixed(x, places) + "x"
}

// Millions formats x in millions with two decimals: 1250000 → "1.25M".
func Millions(x float64) string {
	return Fixed(x/1e6, 2) + "M"
}

// Delta renders a signed percentage-point or percent delta with an arrow,
// without the trailing unit: "↗️ +3.2" or "↘️ -1.0".
func Delta(d float64) string {
	if d > 0 {
		return "↗️ +" + Fixed(d, 1)
	}
	return "↘️ " + Fixed(d, 1)
}

// Trend compares val with ref and returns "↗️ +x.x% vs total" or
// "↘️ x.x% vs total". It returns "" when ref is zero or not a number.
func Trend(val, ref float64) string {
	if ref == 0 || math.IsNaN(ref) || math.IsNaN(val) {
		return ""
	}
	return Delta((val-ref)/ref*100) + "% vs total"
}
