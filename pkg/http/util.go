package http

import xutil "AstroChart/pkg/util"

// ParseFloat parses a decimal query value. ok is false when s is empty or invalid.
func ParseFloat(s string) (float64, bool) { return xutil.ParseFloat(s) }
