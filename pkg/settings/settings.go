// Package settings resolves the calibration parameter set for a run by
// merging ambient-light-indexed defaults with explicit user overrides.
package settings

import (
	"fmt"

	"github.com/autocal/autocal/pkg/ambient"
)

// Settings is the complete parameter set for one calibration run. It is
// constructed fresh per run and never mutated afterwards.
type Settings struct {
	// Gamma is the target transfer function exponent.
	Gamma float64 `json:"gamma"`
	// WhitePoint is the target color temperature in Kelvin.
	WhitePoint int `json:"whitePoint"`
	// Brightness is the target luminance in cd/m².
	Brightness int `json:"brightness"`
	// Name identifies the profile; artifacts are named after it.
	Name string `json:"name"`

	// Red, Green and Blue are per-channel fine-tuning percentages in
	// [-100, 100]. 0 is neutral.
	Red   float64 `json:"red"`
	Green float64 `json:"green"`
	Blue  float64 `json:"blue"`
}

// HasAdjustments reports whether any channel fine-tuning is requested.
func (s Settings) HasAdjustments() bool {
	return s.Red != 0 || s.Green != 0 || s.Blue != 0
}

// String renders the settings for log lines.
func (s Settings) String() string {
	return fmt.Sprintf("{name:%s gamma:%g whitePoint:%dK brightness:%d R:%g%% G:%g%% B:%g%%}",
		s.Name, s.Gamma, s.WhitePoint, s.Brightness, s.Red, s.Green, s.Blue)
}

// Overrides carries optional per-field user overrides. A nil field keeps the
// base-table value; channel adjustments have no base-table analogue and
// default to neutral.
type Overrides struct {
	Gamma      *float64
	WhitePoint *int
	Brightness *int
	Name       *string

	Red   *float64
	Green *float64
	Blue  *float64
}

// base table, indexed by ambient condition.
var baseTable = map[ambient.Condition]Settings{
	ambient.ConditionLow: {
		Gamma:      2.2,
		WhitePoint: 5500, // warmer temperature for low light
		Brightness: 80,
		Name:       "LowLight_Profile",
	},
	ambient.ConditionMedium: {
		Gamma:      2.2,
		WhitePoint: 6500,
		Brightness: 100,
		Name:       "MediumLight_Profile",
	},
	ambient.ConditionHigh: {
		Gamma:      2.2,
		WhitePoint: 6500,
		Brightness: 120, // higher brightness for daylight
		Name:       "HighLight_Profile",
	},
}

// BaseName returns the profile name for a condition, used to locate an
// existing stored profile without constructing a full settings value.
func BaseName(cond ambient.Condition) string {
	return baseFor(cond).Name
}

// Resolve merges the base settings for cond with any overrides. Override
// always wins per field; unrecognized conditions resolve to the medium row.
// Resolve is pure and has no failure mode.
func Resolve(cond ambient.Condition, ov Overrides) Settings {
	s := baseFor(cond)

	if ov.Gamma != nil {
		s.Gamma = *ov.Gamma
	}
	if ov.WhitePoint != nil {
		s.WhitePoint = *ov.WhitePoint
	}
	if ov.Brightness != nil {
		s.Brightness = *ov.Brightness
	}
	if ov.Name != nil && *ov.Name != "" {
		s.Name = *ov.Name
	}

	if ov.Red != nil {
		s.Red = *ov.Red
	}
	if ov.Green != nil {
		s.Green = *ov.Green
	}
	if ov.Blue != nil {
		s.Blue = *ov.Blue
	}

	return s
}

func baseFor(cond ambient.Condition) Settings {
	if s, ok := baseTable[cond]; ok {
		return s
	}
	return baseTable[ambient.ConditionMedium]
}

// Factor converts a percentage channel adjustment to the multiplicative
// factor passed to the measurement tool: adjustment -5 becomes 0.950.
func Factor(adjustment float64) float64 {
	return 1.0 + adjustment/100.0
}
