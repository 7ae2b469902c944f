// Package amount converts raw integer chain balances (smallest unit) into
// display strings without going through floating point for the balance part.
package amount

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Display precision constants. Native assets commonly carry 18 decimals so
// six digits keeps the display readable; token rows use four.
const (
	NativePlaces = 6
	TokenPlaces  = 4
	USDPlaces    = 2
)

// FormatUnits converts a raw integer balance to a decimal string rounded to
// the given number of display places. Rounding is half-up on the first
// dropped digit. places must be >= 0; a nil raw value formats as zero.
func FormatUnits(raw *big.Int, decimals, places int) string {
	if raw == nil {
		raw = new(big.Int)
	}
	if decimals < 0 {
		decimals = 0
	}

	v := new(big.Int).Set(raw)
	neg := v.Sign() < 0
	if neg {
		v.Neg(v)
	}

	// Round away digits beyond the display precision.
	shown := decimals
	if places < decimals {
		scale := pow10(decimals - places)
		half := new(big.Int).Rsh(scale, 1)
		v.Add(v, half)
		v.Quo(v, scale)
		shown = places
	}

	s := v.String()
	for len(s) <= shown {
		s = "0" + s
	}

	var out string
	if shown == 0 {
		out = s
	} else {
		pos := len(s) - shown
		out = s[:pos] + "." + s[pos:]
	}

	// Pad so the displayed fraction always has exactly `places` digits.
	if shown < places {
		if shown == 0 {
			out += "."
		}
		out += strings.Repeat("0", places-shown)
	}

	if neg {
		out = "-" + out
	}
	return out
}

// USDValue multiplies a display balance by a unit price and formats the
// result to two decimals. A zero or missing price yields "0.00".
func USDValue(displayBalance string, unitPrice float64) string {
	if unitPrice == 0 {
		return "0.00"
	}
	bal, err := strconv.ParseFloat(displayBalance, 64)
	if err != nil {
		return "0.00"
	}
	return strconv.FormatFloat(bal*unitPrice, 'f', USDPlaces, 64)
}

// FormatPrice renders a unit price for display.
func FormatPrice(unitPrice float64) string {
	return strconv.FormatFloat(unitPrice, 'f', -1, 64)
}

func pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// ParseUnits converts a decimal string into a raw integer balance with the
// given number of decimals. Excess fractional digits are rejected rather
// than silently truncated.
func ParseUnits(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("amount has more than %d decimal places", decimals)
	}
	frac += strings.Repeat("0", decimals-len(frac))

	v, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}
