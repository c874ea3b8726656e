// Package format renders money the way the tracker shows it: Rupiah with
// "." as the thousand separator and no decimals.
package format

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Tone classifies a value for colouring
type Tone string

const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
	ToneNeutral  Tone = "neutral"
)

// Thousands groups the magnitude of n with ".", e.g. 1234567 -> "1.234.567".
// Grouping works on the integer digits, so every int64 is exact.
func Thousands(n int64) string {
	grouped := strings.TrimPrefix(humanize.Comma(n), "-")
	return strings.ReplaceAll(grouped, ",", ".")
}

// Rupiah formats n as "Rp 1.234", or "- Rp 1.234" when negative
func Rupiah(n int64) string {
	if n < 0 {
		return "- Rp " + Thousands(n)
	}
	return "Rp " + Thousands(n)
}

// Signed formats the magnitude of n with a leading "+" or "-"
func Signed(n int64, plus bool) string {
	if plus {
		return "+" + Thousands(n)
	}
	return "-" + Thousands(n)
}

// ToneOf reports whether n reads as a gain, a loss or nothing
func ToneOf(n int64) Tone {
	switch {
	case n > 0:
		return TonePositive
	case n < 0:
		return ToneNegative
	default:
		return ToneNeutral
	}
}

// CleanNumber reads a form amount such as "1.500.000". Dots are dropped,
// then the leading integer is taken; anything unparsable yields 0.
func CleanNumber(s string) int64 {
	s = strings.TrimLeft(strings.ReplaceAll(s, ".", ""), " \t\r\n")

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
