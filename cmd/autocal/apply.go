package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/autocal/autocal/pkg/ambient"
	"github.com/autocal/autocal/pkg/argyll"
	"github.com/autocal/autocal/pkg/profile"
)

func NewApplyCommand() *cobra.Command {
	var (
		condition  string
		profileDir string
	)

	cmd := &cobra.Command{
		Use:     "apply",
		Short:   "Apply a previously created profile for the current light",
		GroupID: gCalibration,
		Long: `Apply a previously created profile without measuring. The ambient light
is sensed (falling back to time of day when no sensor is available), the
matching stored profile is located, and it is installed.

This is the fast path; it never runs a measurement.`,
		Example: `  autocal apply
  autocal apply --condition low
  autocal apply --profile-dir ~/profiles`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := logrus.StandardLogger()

			var cond ambient.Condition
			if condition != "" {
				cond = ambient.Condition(condition)
				if !cond.Valid() {
					return fmt.Errorf("unknown condition %q, expected low, medium or high", condition)
				}
			} else {
				cond = ambient.NewSampler(log).Sample(ctx)
			}

			filename := profile.FilenameForCondition(cond)
			path, ok := profile.Locate(filename, profileDir)
			if !ok {
				return fmt.Errorf("no profile %s found for condition %s; run 'autocal calibrate' first", filename, cond)
			}

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

			err = applier.Install(ctx, path)
			switch {
			case err == nil:
				color.New(color.Bold).Printf("Applied %s for %s light\n", path, cond)
			case errors.Is(err, profile.ErrManualCompletionRequired):
				color.New(color.FgYellow).Println("Automatic install failed; finish in the displays settings window that just opened.")
			default:
				return err
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&condition, "condition", "", "skip sensing and apply the profile for this condition (low, medium, high)")
	f.StringVar(&profileDir, "profile-dir", "", "extra directory to search for profiles first")

	return cmd
}
