package service

import "strings"

// lbsToKg is the fixed conversion factor applied wherever a weight arrives
// in pounds. Results are truncated to whole kilograms.
const lbsToKg = 0.453592

// toKg converts a raw weight value to whole kilograms. An empty unit means
// the value is already in kg.
func toKg(value float64, unit string) int {
	if strings.EqualFold(strings.TrimSpace(unit), "lbs") {
		return int(value * lbsToKg)
	}
	return int(value)
}
