package expr

import "math"

// LengthToMM converts a length value in the given GDML unit string to
// millimeters. Unrecognized units are treated as already being in mm.
func LengthToMM(value float64, unit string) float64 {
	switch unit {
	case "mm":
		return value
	case "cm":
		return value * 10.0
	case "m":
		return value * 1000.0
	case "um", "micrometer":
		return value * 0.001
	case "nm", "nanometer":
		return value * 0.000001
	case "km":
		return value * 1_000_000.0
	case "in", "inch":
		return value * 25.4
	case "ft", "foot":
		return value * 304.8
	default:
		return value
	}
}

// AngleToRad converts an angle value in the given GDML unit string to
// radians. Unrecognized units are treated as already being in radians.
func AngleToRad(value float64, unit string) float64 {
	switch unit {
	case "deg", "degree":
		return value * math.Pi / 180.0
	case "rad", "radian":
		return value
	case "mrad":
		return value * 0.001
	default:
		return value
	}
}

const (
	// DefaultLengthUnit is used when a length-bearing element omits lunit.
	DefaultLengthUnit = "mm"
	// DefaultAngleUnit is used when an angle-bearing element omits aunit.
	DefaultAngleUnit = "rad"
)
