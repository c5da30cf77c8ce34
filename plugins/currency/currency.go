// Package currency keeps a USD conversion table fresh and uses it to annotate
// upstream prices with a USD equivalent.
package currency

import (
	"math"
	"strings"

	"golang.org/x/text/currency"
)

// NormalizeCode upper-cases code and checks it against ISO 4217.
func NormalizeCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", false
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", false
	}
	return unit.String(), true
}

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
