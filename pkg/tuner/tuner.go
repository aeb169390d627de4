// Package tuner implements the live LUT tuner: an interactive loop that
// mutates per-channel multipliers one keystroke at a time and pushes each
// change to the display as a transient calibration.
package tuner

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/autocal/autocal/pkg/curve"
)

// step is the per-keystroke increment for every channel and for the gain.
const step = 0.01

const timestampLayout = "20060102_150405"

// workFileName holds the currently loaded curve. It is rewritten on every
// adjustment and reloaded in place.
const workFileName = "autocal_live.cal"

// State is the tuner's adjustment state. All values start at 1.0 (neutral).
type State struct {
	Red   float64
	Green float64
	Blue  float64
	Gain  float64
}

// NeutralState returns the identity adjustment.
func NeutralState() State {
	return State{Red: 1, Green: 1, Blue: 1, Gain: 1}
}

// Curve renders the state as a 256-point correction curve.
func (s State) Curve() curve.Curve {
	return curve.Generate(s.Red, s.Green, s.Blue, s.Gain)
}

// Phase is the session lifecycle stage.
type Phase string

const (
	PhaseRunning   Phase = "running"
	PhaseExporting Phase = "exporting"
	PhaseReverting Phase = "reverting"
	PhaseDone      Phase = "done"
)

// KeyReader is a pull source of single keystrokes. The terminal
// implementation reads the keyboard in raw mode; tests feed scripted bytes.
type KeyReader interface {
	ReadKey() (byte, error)
}

// Session drives one tuning run. Every keystroke is handled synchronously:
// mutate, regenerate, reload, then read the next key, so applies never
// overlap.
type Session struct {
	Keys KeyReader

	// Load pushes a curve file to the display without installing it.
	Load func(ctx context.Context, calPath string) error
	// Clear restores the display's previously installed calibration.
	Clear func(ctx context.Context) error

	// ReadLine prompts for a line of input, used for the export name.
	ReadLine func() (string, error)

	// WorkDir receives the working curve file and exports. Empty means the
	// current directory.
	WorkDir string
	Display int

	Out io.Writer
	Now func() time.Time
	Log logrus.FieldLogger

	state State
	phase Phase
}

// State returns the current adjustment state.
func (t *Session) State() State {
	return t.state
}

// Phase returns the session lifecycle stage.
func (t *Session) Phase() Phase {
	return t.phase
}

// Run executes the tuning loop until the user quits, reverts, or input ends.
// On quit the last loaded curve stays on the display; on revert it is
// cleared.
func (t *Session) Run(ctx context.Context) error {
	t.state = NeutralState()
	t.phase = PhaseRunning

	if err := t.apply(ctx); err != nil {
		return err
	}
	t.printHelp()
	t.printStatus()

	for {
		key, err := t.Keys.ReadKey()
		if err != nil {
			if err == io.EOF {
				// Input gone; behave like quit and keep the current curve.
				t.phase = PhaseDone
				return nil
			}
			return pkgerrors.Wrap(err, "failed to read key")
		}

		switch key {
		case 'r':
			t.state.Red -= step
		case 'R':
			t.state.Red += step
		case 'g':
			t.state.Green -= step
		case 'G':
			t.state.Green += step
		case 'b':
			t.state.Blue -= step
		case 'B':
			t.state.Blue += step
		case 'w':
			t.state.Gain -= step
		case 'W':
			t.state.Gain += step
		case 's', 'S':
			if err := t.export(ctx); err != nil {
				t.Log.WithError(err).Error("export failed")
				fmt.Fprintf(t.Out, "save failed: %v\r\n", err)
				t.phase = PhaseRunning
				t.printStatus()
				continue
			}
			t.phase = PhaseDone
			fmt.Fprintf(t.Out, "Done. Current adjustment stays loaded until the next profile change.\r\n")
			return nil
		case 'q':
			t.phase = PhaseDone
			fmt.Fprintf(t.Out, "\r\nDone. Current adjustment stays loaded until the next profile change.\r\n")
			return nil
		case 'x':
			t.phase = PhaseReverting
			if err := t.Clear(ctx); err != nil {
				return pkgerrors.Wrap(err, "failed to restore previous calibration")
			}
			t.phase = PhaseDone
			fmt.Fprintf(t.Out, "\r\nReverted to the previously installed calibration.\r\n")
			return nil
		default:
			// Unrecognized keys do not touch the display.
			continue
		}

		if err := t.apply(ctx); err != nil {
			return err
		}
		t.printStatus()
	}
}

// apply regenerates the curve from the current state and reloads it.
func (t *Session) apply(ctx context.Context) error {
	path := t.workPath(workFileName)
	if err := t.state.Curve().WriteFile(path, "AutoCal Live Tune"); err != nil {
		return pkgerrors.Wrap(err, "failed to write curve file")
	}
	if err := t.Load(ctx, path); err != nil {
		return pkgerrors.Wrap(err, "failed to load curve")
	}
	return nil
}

// export snapshots the current state under a user-chosen name: the curve as
// <name>.cal plus a small report with the values and reload instructions.
func (t *Session) export(ctx context.Context) error {
	t.phase = PhaseExporting

	def := "LiveTune_" + t.Now().Format(timestampLayout)
	fmt.Fprintf(t.Out, "\r\nSave as [%s]: ", def)

	name, err := t.ReadLine()
	if err != nil {
		return pkgerrors.Wrap(err, "failed to read name")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = def
	}

	calPath := t.workPath(name + ".cal")
	if err := t.state.Curve().WriteFile(calPath, name); err != nil {
		return pkgerrors.Wrap(err, "failed to write curve file")
	}

	reportPath := t.workPath("Report_" + name + ".txt")
	if err := writeTuneReport(reportPath, name, calPath, t.Display, t.state, t.Now()); err != nil {
		return pkgerrors.Wrap(err, "failed to write report")
	}

	t.Log.WithFields(logrus.Fields{
		"cal":    calPath,
		"report": reportPath,
	}).Info("tuning state exported")
	fmt.Fprintf(t.Out, "Saved %s\r\n", calPath)
	return nil
}

func (t *Session) workPath(name string) string {
	if t.WorkDir == "" {
		return name
	}
	return filepath.Join(t.WorkDir, name)
}

func (t *Session) printHelp() {
	bold := color.New(color.Bold)
	bold.Fprintf(t.Out, "Live tuner\r\n")
	fmt.Fprintf(t.Out, "  r/R  red -/+      g/G  green -/+    b/B  blue -/+\r\n")
	fmt.Fprintf(t.Out, "  w/W  gain -/+     s    save & exit  q    quit (keep)    x  revert\r\n")
}

func (t *Session) printStatus() {
	fmt.Fprintf(t.Out, "\rR: %.2f  G: %.2f  B: %.2f  Gain: %.2f   ",
		t.state.Red, t.state.Green, t.state.Blue, t.state.Gain)
}
