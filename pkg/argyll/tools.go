// Package argyll is the boundary to the external ArgyllCMS toolchain. It
// locates the tool binaries across platforms and provides the process runner
// used by every component that spawns them. The color science itself lives in
// the tools; this package only finds and executes them.
package argyll

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Tool names used by autocal.
const (
	ToolDispcal  = "dispcal"  // display measurement
	ToolColprof  = "colprof"  // profile generation
	ToolDispwin  = "dispwin"  // profile install / LUT load
	ToolSpotread = "spotread" // ambient light reading
)

// ToolNotFoundError is returned when a required external binary cannot be
// located on PATH or in any of the common install locations.
type ToolNotFoundError struct {
	Tool string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("required tool %q not found. Please install ArgyllCMS (e.g. brew install argyll-cms)", e.Tool)
}

// commonDirs are install locations checked after PATH, in order.
func commonDirs() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{
			"/usr/local/bin",
			"/opt/homebrew/bin",
			"/Applications/DisplayCAL/DisplayCAL.app/Contents/MacOS",
		}
	case "windows":
		return []string{
			`C:\Argyll_V3.1.0\bin`,
			`C:\Program Files\ArgyllCMS\bin`,
		}
	default:
		return []string{
			"/usr/bin",
			"/usr/local/bin",
		}
	}
}

// lookPath is a seam for tests.
var lookPath = exec.LookPath

// FindTool locates an ArgyllCMS binary, checking PATH first and then the
// platform's common install directories.
func FindTool(name string) (string, error) {
	if p, err := lookPath(name); err == nil {
		return p, nil
	}

	bin := name
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}

	for _, dir := range commonDirs() {
		p := filepath.Join(dir, bin)
		if st, err := os.Stat(p); err == nil && st.Mode().IsRegular() {
			return p, nil
		}
	}

	return "", &ToolNotFoundError{Tool: name}
}

// Tools holds resolved paths to the binaries a component needs. A zero value
// for a tool means it was not requested.
type Tools struct {
	Dispcal  string
	Colprof  string
	Dispwin  string
	Spotread string
}

// FindCalibrationTools resolves the binaries needed for a full calibration
// run. Both dispcal and colprof must be present.
func FindCalibrationTools() (*Tools, error) {
	dispcal, err := FindTool(ToolDispcal)
	if err != nil {
		return nil, err
	}
	colprof, err := FindTool(ToolColprof)
	if err != nil {
		return nil, err
	}
	// dispwin is needed to apply the result, but a missing dispwin should not
	// block measurement; the apply stage degrades to its fallback.
	dispwin, _ := FindTool(ToolDispwin)

	return &Tools{Dispcal: dispcal, Colprof: colprof, Dispwin: dispwin}, nil
}
