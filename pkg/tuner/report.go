package tuner

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// writeTuneReport records an exported adjustment: the four state values and
// the command to put the curve back on the display later.
func writeTuneReport(path, name, calPath string, display int, s State, now time.Time) error {
	var b strings.Builder
	divider := strings.Repeat("-", 40)

	fmt.Fprintf(&b, "Live Tuning Report\n")
	fmt.Fprintf(&b, "Date: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Name: %s\n", name)
	fmt.Fprintln(&b, divider)
	fmt.Fprintf(&b, "Adjustments:\n")
	fmt.Fprintf(&b, "  Red:   %.2f\n", s.Red)
	fmt.Fprintf(&b, "  Green: %.2f\n", s.Green)
	fmt.Fprintf(&b, "  Blue:  %.2f\n", s.Blue)
	fmt.Fprintf(&b, "  Gain:  %.2f\n", s.Gain)
	fmt.Fprintln(&b, divider)
	fmt.Fprintf(&b, "To reload this adjustment later:\n")
	fmt.Fprintf(&b, "  dispwin -d%d %s\n", display, calPath)

	return os.WriteFile(path, []byte(b.String()), 0644)
}
