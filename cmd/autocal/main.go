package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/autocal/autocal/pkg/argyll"
	"github.com/autocal/autocal/pkg/calibrate"
	"github.com/autocal/autocal/pkg/client"
	"github.com/autocal/autocal/pkg/config"
	"github.com/autocal/autocal/pkg/profile"
)

var (
	logLevel       = "info"
	unixSocketPath = client.DefaultSocketPath()
	configPath     = config.DefaultPath()
	display        = 1
)

var (
	gCalibration  = "Calibration:"
	gDaemon       = "Daemon:"
	commandGroups = []string{
		gCalibration,
		gDaemon,
	}
)

var apiClient = client.NewClient(client.DefaultSocketPath())

// logFilePath is the rotating full-detail log next to the reports.
func logFilePath() string {
	return filepath.Join(calibrate.DefaultReportsDir(), "calibration.log")
}

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	// Full detail also goes to a rotating file, so terminal output can stay
	// terse while the log keeps everything.
	logrus.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   logFilePath(),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}))

	return nil
}

func handleCmdError(err error) {
	var toolErr *argyll.ToolNotFoundError
	var stageErr *calibrate.StageError

	switch {
	case errors.Is(err, client.ErrDaemonNotRunning):
		fmt.Fprintln(os.Stderr, "\nError: autocal daemon is not running")
		fmt.Fprintln(os.Stderr, "Start it with 'autocal daemon'")
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Check the ownership of the daemon socket")
	case errors.Is(err, calibrate.ErrDeviceNotFound):
		fmt.Fprintln(os.Stderr, "\nError: no colorimeter detected")
		fmt.Fprintln(os.Stderr, "  - Connect your measurement device and try again")
		fmt.Fprintln(os.Stderr, "  - USB hubs can hide devices; prefer a direct port")
	case errors.As(err, &toolErr):
		fmt.Fprintln(os.Stderr, "\nError:", toolErr.Error())
	case errors.As(err, &stageErr):
		fmt.Fprintf(os.Stderr, "\nError: the %s stage failed (exit %d)\n", stageErr.Stage, stageErr.ExitCode)
		fmt.Fprintln(os.Stderr, "  - See", logFilePath(), "for the full tool output")
	case errors.Is(err, profile.ErrApplyFailed):
		fmt.Fprintln(os.Stderr, "\nError: the profile could not be applied")
		fmt.Fprintln(os.Stderr, "  - Install it manually from the displays settings")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autocal",
		Short: "autocal calibrates displays to match the ambient light",
		Long: `autocal senses the ambient light level, picks matching calibration
targets, and drives the ArgyllCMS tools to measure, profile, and apply
a display calibration.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			apiClient = client.NewClient(unixSocketPath)
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "autocal daemon unix socket path")
	globalFlags.IntVarP(&display, "display", "d", 1, "display number to calibrate")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewCalibrateCommand(),
		NewApplyCommand(),
		NewTuneCommand(),
		NewAmbientCommand(),
		NewDaemonCommand(),
		NewScheduleCommand(),
		NewStatusCommand(),
		NewGUICommand(),
		NewVersionCommand(),
	)

	return cmd
}
