package form

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// parseFloat reads the longest leading decimal number, ignoring surrounding
// whitespace. Anything unreadable yields ok=false and 0.
func parseFloat(raw string) (float64, bool) {
	match := floatPrefix.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// parseInt reads the leading integer digits, so "5.9" is 5.
func parseInt(raw string) (int, bool) {
	match := intPrefix.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0, false
	}
	v, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return v, true
}

func floatOrZero(raw string) float64 {
	v, _ := parseFloat(raw)
	return v
}

func intOrZero(raw string) int {
	v, _ := parseInt(raw)
	return v
}

func isYes(raw string) bool {
	return raw == yes
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Number reads raw the way the request builder does: leading decimal prefix,
// 0 when unreadable.
func Number(raw string) float64 {
	return floatOrZero(raw)
}

// Integer reads the leading integer digits of raw, 0 when unreadable.
func Integer(raw string) int {
	return intOrZero(raw)
}
