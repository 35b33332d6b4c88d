// Package units converts between the speed units accepted on the command
// line and the meters-per-second values the engine works in.
package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mps, mph, kmph, kph"
}

// ToMPS converts a speed in the given unit to meters per second.
func ToMPS(speed float64, unit string) (float64, error) {
	switch unit {
	case MPS:
		return speed, nil
	case MPH:
		return speed / 2.23694, nil
	case KMPH, KPH:
		return speed / 3.6, nil
	default:
		return 0, fmt.Errorf("unknown speed unit %q (valid: %s)", unit, GetValidUnitsString())
	}
}

// FromMPS converts a speed in meters per second to the target unit. Unknown
// units return the m/s value unchanged.
func FromMPS(speedMPS float64, targetUnit string) float64 {
	switch targetUnit {
	case MPH:
		return speedMPS * 2.23694
	case KMPH, KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}

// ParseSpeed parses a speed string with an optional unit suffix, e.g. "15",
// "15mps", "54kph", "35mph". A bare number is meters per second.
func ParseSpeed(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return 0, fmt.Errorf("empty speed")
	}

	// Longest suffix first: "kmph" would otherwise match "mph".
	unit := MPS
	for _, u := range []string{KMPH, MPH, KPH, MPS} {
		if strings.HasSuffix(s, u) {
			unit = u
			s = strings.TrimSuffix(s, u)
			break
		}
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid speed %q: %w", s, err)
	}
	return ToMPS(v, unit)
}
