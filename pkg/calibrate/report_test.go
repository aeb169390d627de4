package calibrate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/autocal/autocal/pkg/ambient"
	"github.com/autocal/autocal/pkg/settings"
)

func TestExtractMetrics(t *testing.T) {
	transcript := strings.Join([]string{
		"Setting up the instrument",
		"Black level = 0.31 cd/m^2",
		"patch 7 of 32",
		"  White level = 119.87 cd/m^2  ",
		"Brightness error = 0.1 cd/m^2",
		"",
		"Calibration complete",
	}, "\n")

	got := ExtractMetrics(transcript)
	assert.Equal(t, []string{
		"Black level = 0.31 cd/m^2",
		"White level = 119.87 cd/m^2",
		"Brightness error = 0.1 cd/m^2",
	}, got)
}

func TestExtractMetricsEmpty(t *testing.T) {
	assert.Empty(t, ExtractMetrics("patch 1 of 32\npatch 2 of 32\n"))
}

func TestRenderReport(t *testing.T) {
	s := settings.Resolve(ambient.ConditionMedium, settings.Overrides{})
	now := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	report := RenderReport(s, "White level = 100.2 cd/m^2\n", now)
	lines := strings.Split(strings.TrimRight(report, "\n"), "\n")

	assert.Equal(t, "Display Calibration Report", lines[0])
	assert.Equal(t, "Date: 2024-03-01 10:30:00", lines[1])
	assert.Equal(t, "Profile Name: MediumLight_Profile", lines[2])
	assert.Equal(t, strings.Repeat("-", 40), lines[3])
	assert.Equal(t, "Target Settings:", lines[4])
	assert.Equal(t, "  White Point: 6500K", lines[5])
	assert.Equal(t, "  Gamma: 2.2", lines[6])
	assert.Equal(t, "  Brightness: 100 cd/m^2", lines[7])
	assert.Equal(t, strings.Repeat("-", 40), lines[8])
	assert.Equal(t, "Calibration Results:", lines[9])
	assert.Equal(t, "  White level = 100.2 cd/m^2", lines[10])
}

func TestRenderReportNoMetrics(t *testing.T) {
	s := settings.Resolve(ambient.ConditionHigh, settings.Overrides{})
	report := RenderReport(s, "nothing recognizable here", time.Now())
	assert.Contains(t, report, "(Detailed metrics available in calibration.log)")
}
