// Package format renders amounts, vote counts and shares for tooltips and
// axis labels.
package format

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// siPrefixes runs from 10^-24 to 10^24 in steps of 10^3.
var siPrefixes = []string{"y", "z", "a", "f", "p", "n", "µ", "m", "", "k", "M", "G", "T", "P", "E", "Z", "Y"}

// Sum adds values without accumulating float rounding error.
func Sum(values ...float64) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total
}

// Currency formats v as whole US dollars with thousands separators.
func Currency(v float64) string {
	if !finite(v) {
		return "$0"
	}
	d := decimal.NewFromFloat(v).Round(0)
	if d.IsNegative() {
		return "-$" + printer.Sprintf("%d", d.Neg().IntPart())
	}
	return "$" + printer.Sprintf("%d", d.IntPart())
}

// Count formats a vote count with thousands separators.
func Count(v float64) string {
	if !finite(v) {
		return "0"
	}
	return printer.Sprintf("%d", decimal.NewFromFloat(v).Round(0).IntPart())
}

// Percent formats v, already in percent, with a fixed number of decimals.
func Percent(v float64, places int32) string {
	if !finite(v) {
		v = 0
	}
	return decimal.NewFromFloat(v).StringFixed(places) + "%"
}

// SI formats v with an SI prefix, rounded to digits significant digits.
// Trailing zeros are dropped, so 1500 with two digits is "1.5k".
func SI(v float64, digits int) string {
	if v == 0 || !finite(v) {
		return "0"
	}
	if digits < 1 {
		digits = 1
	}
	exp := magnitude(v)
	rounded := decimal.NewFromFloat(v).Round(int32(digits - 1 - exp))
	if rounded.IsZero() {
		return "0"
	}
	// Rounding can carry into the next power of ten.
	exp = magnitude(rounded.InexactFloat64())

	i := exp / 3
	if exp < 0 && exp%3 != 0 {
		i--
	}
	i = max(-8, min(8, i))
	return rounded.Shift(int32(-3*i)).String() + siPrefixes[i+8]
}

// magnitude returns the decimal exponent of v's shortest representation.
func magnitude(v float64) int {
	s := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(s[strings.IndexByte(s, 'e')+1:])
	return exp
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
