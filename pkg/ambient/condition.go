package ambient

// Condition classifies the ambient light level. It drives which calibration
// base settings and which stored profile are used.
type Condition string

const (
	ConditionLow    Condition = "low"
	ConditionMedium Condition = "medium"
	ConditionHigh   Condition = "high"
)

// Valid reports whether c is one of the known conditions.
func (c Condition) Valid() bool {
	switch c {
	case ConditionLow, ConditionMedium, ConditionHigh:
		return true
	}
	return false
}

// FromLux classifies a measured illuminance. Intervals are half-open:
// lux < 10 is low, 10 <= lux < 100 is medium, lux >= 100 is high.
func FromLux(lux float64) Condition {
	switch {
	case lux < 10:
		return ConditionLow
	case lux < 100:
		return ConditionMedium
	default:
		return ConditionHigh
	}
}

// FromHour estimates the condition from the wall-clock hour when no sensor
// reading is available.
func FromHour(hour int) Condition {
	switch {
	case hour >= 6 && hour < 9: // morning
		return ConditionHigh
	case hour >= 9 && hour < 17: // daytime
		return ConditionHigh
	case hour >= 17 && hour < 20: // evening
		return ConditionMedium
	default: // night
		return ConditionLow
	}
}
