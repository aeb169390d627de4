package main

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/autocal/autocal/pkg/argyll"
	"github.com/autocal/autocal/pkg/profile"
	"github.com/autocal/autocal/pkg/tuner"
)

func NewTuneCommand() *cobra.Command {
	var workDir string

	cmd := &cobra.Command{
		Use:     "tune",
		Short:   "Interactively tune the display LUT",
		GroupID: gCalibration,
		Long: `Interactively tune the display's color balance one keystroke at a time.
Each change is pushed to the display immediately as a transient
calibration, without touching the installed profile.

Keys: r/R g/G b/B adjust a channel, w/W adjust overall gain,
s saves the current state and exits, q quits keeping it, x reverts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logrus.StandardLogger()

			dispwin, err := argyll.FindTool(argyll.ToolDispwin)
			if err != nil {
				return err
			}

			applier := &profile.Applier{
				Dispwin: dispwin,
				Runner:  argyll.Exec,
				Display: display,
				Log:     log,
			}

			input, err := tuner.NewTerminalInput()
			if err != nil {
				return err
			}
			defer func() {
				if err := input.Close(); err != nil {
					log.WithError(err).Warn("failed to restore terminal")
				}
			}()

			session := &tuner.Session{
				Keys:     input,
				Load:     applier.Load,
				Clear:    applier.Clear,
				ReadLine: input.ReadLine,
				WorkDir:  workDir,
				Display:  display,
				Out:      os.Stdout,
				Now:      time.Now,
				Log:      log,
			}

			return session.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&workDir, "work-dir", "", "directory for the working curve and exports (default: current directory)")

	return cmd
}
