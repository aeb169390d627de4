package calibrate

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/autocal/autocal/pkg/settings"
)

// metricMarkers select the transcript lines worth surfacing in the report.
var metricMarkers = []string{
	"Black level",
	"White level",
	"Brightness",
}

// RenderReport builds the run report: a header with date and settings name, a
// target settings block, and a results block with the recognizable metric
// lines from the session transcript (or a pointer to the log when none were
// captured).
func RenderReport(s settings.Settings, transcript string, now time.Time) string {
	var b strings.Builder
	divider := strings.Repeat("-", 40)

	fmt.Fprintf(&b, "Display Calibration Report\n")
	fmt.Fprintf(&b, "Date: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Profile Name: %s\n", s.Name)
	fmt.Fprintln(&b, divider)
	fmt.Fprintf(&b, "Target Settings:\n")
	fmt.Fprintf(&b, "  White Point: %dK\n", s.WhitePoint)
	fmt.Fprintf(&b, "  Gamma: %g\n", s.Gamma)
	fmt.Fprintf(&b, "  Brightness: %d cd/m^2\n", s.Brightness)
	fmt.Fprintln(&b, divider)
	fmt.Fprintf(&b, "Calibration Results:\n")

	metrics := ExtractMetrics(transcript)
	if len(metrics) == 0 {
		fmt.Fprintf(&b, "  (Detailed metrics available in calibration.log)\n")
	} else {
		for _, m := range metrics {
			fmt.Fprintf(&b, "  %s\n", m)
		}
	}

	return b.String()
}

// ExtractMetrics pulls the level/brightness lines out of a tool transcript.
// The transcript format varies between tool versions; anything not matching a
// known marker is ignored.
func ExtractMetrics(transcript string) []string {
	var out []string
	for _, line := range strings.Split(transcript, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for _, marker := range metricMarkers {
			if strings.Contains(trimmed, marker) {
				out = append(out, trimmed)
				break
			}
		}
	}
	return out
}

// WriteReport renders the report to path.
func WriteReport(path string, s settings.Settings, transcript string, now time.Time) error {
	return os.WriteFile(path, []byte(RenderReport(s, transcript, now)), 0644)
}
