package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseFloat parses a decimal string. ok is false when s is empty, invalid
// or not finite ("NaN", "Inf").
func ParseFloat(s string) (float64, bool) {
	v, err := parseFinite(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFloatList parses "a,b,c" into floats, failing on the first bad item.
func ParseFloatList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := parseFinite(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseFinite(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}
