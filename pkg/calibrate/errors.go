package calibrate

import (
	"errors"
	"fmt"
)

// ErrDeviceNotFound means no colorimeter was detected after all retries.
// Sensing degrades to a heuristic without it; a calibration run cannot.
var ErrDeviceNotFound = errors.New("colorimeter not detected. Please connect your device")

// Stage names the orchestration step that failed.
type Stage string

const (
	StageMeasurement       Stage = "measurement"
	StageProfileGeneration Stage = "profile-generation"
)

// StageError is a non-zero exit from an external tool at a specific stage.
// Stderr is captured verbatim for diagnosis, never parsed for meaning.
type StageError struct {
	Stage    Stage
	ExitCode int
	Stderr   string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed (exit %d): %s", e.Stage, e.ExitCode, e.Stderr)
}

// ArtifactError means a tool claimed success but the expected output file is
// absent. Flagged distinctly from a non-zero exit: it indicates a contract
// mismatch with the external tool.
type ArtifactError struct {
	Path string
}

func (e *ArtifactError) Error() string {
	return fmt.Sprintf("expected profile %s not found after successful profile generation", e.Path)
}
