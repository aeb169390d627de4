package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/autocal/autocal/pkg/argyll"
)

var (
	// ErrApplyFailed means the primary apply mechanism failed and no usable
	// fallback was available. The user must install the profile manually.
	ErrApplyFailed = errors.New("failed to apply profile")

	// ErrManualCompletionRequired means the primary apply mechanism failed
	// but the system display settings were opened so the user can finish the
	// installation by hand.
	ErrManualCompletionRequired = errors.New("profile not applied automatically; complete the installation in the displays settings")
)

// Applier drives dispwin against the active display. The install mode
// persists a profile as the system default; the load/clear modes are the
// transient forms used by the live tuner.
type Applier struct {
	// Dispwin is the resolved dispwin binary path. Empty means unavailable;
	// Install then goes straight to the fallback.
	Dispwin string
	Runner  argyll.Runner
	Display int
	Log     logrus.FieldLogger
}

// NewApplier resolves dispwin and returns an Applier for the given display.
// A missing dispwin is not fatal here: Install degrades to its fallback.
func NewApplier(display int, log logrus.FieldLogger) *Applier {
	dispwin, err := argyll.FindTool(argyll.ToolDispwin)
	if err != nil {
		log.Warn("dispwin not found in PATH or common locations")
	}
	return &Applier{
		Dispwin: dispwin,
		Runner:  argyll.Exec,
		Display: display,
		Log:     log,
	}
}

func (a *Applier) displayFlag() string {
	return fmt.Sprintf("-d%d", a.Display)
}

// Install persistently installs the profile as the active system profile.
// On failure it makes one best-effort attempt to open the system display
// settings; ErrManualCompletionRequired is returned when that succeeds,
// ErrApplyFailed when it does not. No retries.
func (a *Applier) Install(ctx context.Context, profilePath string) error {
	if a.Dispwin != "" {
		a.Log.WithField("profile", profilePath).Info("applying profile with dispwin")

		// -I installs persistently, as opposed to the transient load.
		res, err := a.Runner(ctx, "", a.Dispwin, a.displayFlag(), "-I", profilePath)
		if err == nil && res.ExitCode == 0 {
			a.Log.WithField("profile", profilePath).Info("profile applied")
			return nil
		}
		if err != nil {
			a.Log.WithError(err).Warn("dispwin could not be executed")
		} else {
			a.Log.WithField("stderr", res.Stderr).Warn("dispwin failed, trying fallback")
		}
	}

	return a.fallback(ctx)
}

// fallback opens the system display-color settings for manual completion.
// It is explicitly allowed to fail.
func (a *Applier) fallback(ctx context.Context) error {
	res, err := a.Runner(ctx, "", "open", "x-apple.systempreferences:com.apple.preference.displays")
	if err != nil || res.ExitCode != 0 {
		a.Log.Warn("could not open the displays settings; install the profile manually")
		return ErrApplyFailed
	}

	a.Log.Warn("opened displays settings; please apply the profile manually")
	return ErrManualCompletionRequired
}

// Load applies a calibration curve transiently, without installing it. Used
// by the live tuner on every change.
func (a *Applier) Load(ctx context.Context, calPath string) error {
	if a.Dispwin == "" {
		return &argyll.ToolNotFoundError{Tool: argyll.ToolDispwin}
	}
	res, err := a.Runner(ctx, "", a.Dispwin, a.displayFlag(), calPath)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("dispwin exited %d: %s", res.ExitCode, res.Stderr)
	}
	return nil
}

// Clear resets the video LUT to its default, reverting any transient curve.
func (a *Applier) Clear(ctx context.Context) error {
	if a.Dispwin == "" {
		return &argyll.ToolNotFoundError{Tool: argyll.ToolDispwin}
	}
	res, err := a.Runner(ctx, "", a.Dispwin, a.displayFlag(), "-c")
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("dispwin exited %d: %s", res.ExitCode, res.Stderr)
	}
	return nil
}
