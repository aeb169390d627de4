// Package calibrate sequences the external measurement and profiling tools
// into a full calibration run: measure, build the profile, verify the
// artifact, apply it, and archive a copy with a textual report.
package calibrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/autocal/autocal/pkg/argyll"
	"github.com/autocal/autocal/pkg/profile"
	"github.com/autocal/autocal/pkg/settings"
)

// timestampLayout qualifies artifact base names so repeated runs never
// overwrite each other.
const timestampLayout = "20060102_150405"

// RunResult describes a finished calibration run.
type RunResult struct {
	BaseName     string
	CalPath      string // measurement artifact
	ProfilePath  string // generated ICC profile
	ArchivedPath string // copy in the reports directory, if archiving worked
	ReportPath   string

	// NeedsManualApply is set when the profile was produced but could not be
	// installed automatically; the displays settings were opened instead.
	NeedsManualApply bool
}

// Orchestrator runs the calibration sequence. Each stage's failure aborts the
// run with a taxonomy error naming the stage; no stage is retried.
type Orchestrator struct {
	Tools   *argyll.Tools
	Runner  argyll.Runner
	Display int

	// WorkDir is where the tools produce their artifacts. Empty means the
	// current working directory.
	WorkDir string
	// ReportsDir receives the archived profile copy and the report.
	ReportsDir string

	Now func() time.Time

	// Apply installs the generated profile. Defaults to a dispwin-backed
	// Applier when nil.
	Apply func(ctx context.Context, profilePath string) error

	Log logrus.FieldLogger
}

// NewOrchestrator resolves the required toolchain and returns an orchestrator
// writing artifacts to the current directory and reports to the user's
// calibration reports directory. A ToolNotFoundError is returned when dispcal
// or colprof is absent.
func NewOrchestrator(display int, log logrus.FieldLogger) (*Orchestrator, error) {
	tools, err := argyll.FindCalibrationTools()
	if err != nil {
		return nil, err
	}

	applier := &profile.Applier{
		Dispwin: tools.Dispwin,
		Runner:  argyll.Exec,
		Display: display,
		Log:     log,
	}

	return &Orchestrator{
		Tools:      tools,
		Runner:     argyll.Exec,
		Display:    display,
		ReportsDir: DefaultReportsDir(),
		Now:        time.Now,
		Apply:      applier.Install,
		Log:        log,
	}, nil
}

// DefaultReportsDir is the fixed archive location for profiles and reports.
func DefaultReportsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Calibration_Reports"
	}
	return filepath.Join(home, "Documents", "Calibration_Reports")
}

// Run executes the calibration sequence for the given settings.
//
// Cancellation is cooperative: ctx is consulted between stages only, so an
// in-flight tool invocation always runs to completion.
func (o *Orchestrator) Run(ctx context.Context, s settings.Settings) (*RunResult, error) {
	timestamp := o.Now().Format(timestampLayout)
	baseName := fmt.Sprintf("%s_%s", s.Name, timestamp)

	res := &RunResult{
		BaseName: baseName,
		CalPath:  o.workPath(baseName + ".cal"),
	}

	o.Log.WithFields(logrus.Fields{
		"settings": s.String(),
		"baseName": baseName,
	}).Info("starting calibration")

	// Stage: measurement.
	transcript, err := o.measure(s, baseName)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage: profile generation.
	if err := o.buildProfile(s, baseName); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage: artifact check. colprof writes {base}.icc next to the .cal.
	res.ProfilePath = o.workPath(baseName + ".icc")
	if _, err := os.Stat(res.ProfilePath); err != nil {
		o.Log.WithField("path", res.ProfilePath).Error("profiling tool reported success but produced no artifact")
		return nil, &ArtifactError{Path: res.ProfilePath}
	}

	// Stage: apply.
	applyErr := o.Apply(ctx, res.ProfilePath)
	switch {
	case applyErr == nil:
	case errors.Is(applyErr, profile.ErrManualCompletionRequired):
		res.NeedsManualApply = true
	default:
		return res, applyErr
	}

	// Finalize: archive a copy and write the report. Failures here are
	// logged, not fatal: the profile exists and is applied.
	o.finalize(s, transcript, res)

	o.Log.WithField("profile", res.ProfilePath).Info("calibration completed")
	return res, nil
}

// measure invokes dispcal with the run's targets. The combined session
// transcript is returned for metric extraction in the report.
func (o *Orchestrator) measure(s settings.Settings, baseName string) (string, error) {
	args := []string{
		fmt.Sprintf("-d%d", o.Display),
		"-t", fmt.Sprintf("%d", s.WhitePoint),
		"-g", fmt.Sprintf("%g", s.Gamma),
		"-yl", // luminance-relative target
		"-q", "m",
	}

	if s.HasAdjustments() {
		o.Log.WithFields(logrus.Fields{
			"red": s.Red, "green": s.Green, "blue": s.Blue,
		}).Info("applying channel adjustments")
		args = append(args,
			fmt.Sprintf("-R%.3f", settings.Factor(s.Red)),
			fmt.Sprintf("-G%.3f", settings.Factor(s.Green)),
			fmt.Sprintf("-B%.3f", settings.Factor(s.Blue)),
		)
	}
	args = append(args, o.workPath(baseName))

	o.Log.WithField("args", args).Debug("running dispcal")

	// Background context: cancellation is soft, checked between stages.
	res, err := o.Runner(context.Background(), "", o.Tools.Dispcal, args...)
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to run dispcal")
	}
	if res.ExitCode != 0 {
		o.Log.WithField("stderr", res.Stderr).Error("measurement failed")
		return "", &StageError{Stage: StageMeasurement, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}

	return res.Combined(), nil
}

// buildProfile invokes colprof against the measurement artifact.
func (o *Orchestrator) buildProfile(s settings.Settings, baseName string) error {
	args := []string{
		"-D", fmt.Sprintf("%s Profile", s.Name),
		"-qf", // fine quality
		"-v",
		"-A", "AutoCal",
		o.workPath(baseName),
	}

	o.Log.WithField("args", args).Debug("running colprof")

	res, err := o.Runner(context.Background(), "", o.Tools.Colprof, args...)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to run colprof")
	}
	if res.ExitCode != 0 {
		o.Log.WithField("stderr", res.Stderr).Error("profile generation failed")
		return &StageError{Stage: StageProfileGeneration, ExitCode: res.ExitCode, Stderr: res.Stderr}
	}

	return nil
}

// finalize archives the profile and writes the run report.
func (o *Orchestrator) finalize(s settings.Settings, transcript string, res *RunResult) {
	if err := os.MkdirAll(o.ReportsDir, 0755); err != nil {
		o.Log.WithError(err).Warn("could not create reports directory")
		return
	}

	dest := filepath.Join(o.ReportsDir, res.BaseName+".icc")
	if err := copyFile(res.ProfilePath, dest); err != nil {
		o.Log.WithError(err).Warn("could not archive profile copy")
	} else {
		res.ArchivedPath = dest
		o.Log.WithField("path", dest).Info("profile copy archived")
	}

	reportPath := filepath.Join(o.ReportsDir, "Report_"+res.BaseName+".txt")
	if err := WriteReport(reportPath, s, transcript, o.Now()); err != nil {
		o.Log.WithError(err).Warn("could not write calibration report")
		return
	}
	res.ReportPath = reportPath
	o.Log.WithField("path", reportPath).Info("calibration report saved")
}

func (o *Orchestrator) workPath(name string) string {
	if o.WorkDir == "" {
		return name
	}
	return filepath.Join(o.WorkDir, name)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
