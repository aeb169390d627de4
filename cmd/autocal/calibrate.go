package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/autocal/autocal/pkg/ambient"
	"github.com/autocal/autocal/pkg/calibrate"
	"github.com/autocal/autocal/pkg/config"
	"github.com/autocal/autocal/pkg/settings"
	"github.com/autocal/autocal/pkg/utils/ptr"
)

func NewCalibrateCommand() *cobra.Command {
	var (
		condition   string
		gamma       float64
		whitePoint  int
		brightness  int
		profileName string
		red         float64
		green       float64
		blue        float64
	)

	cmd := &cobra.Command{
		Use:     "calibrate",
		Aliases: []string{"cal"},
		Short:   "Run a full measured calibration",
		GroupID: gCalibration,
		Long: `Run a full measured calibration: sense the ambient light (or take a
forced condition), measure the display, build an ICC profile, install it,
and archive a copy with a report.

A colorimeter must be connected; the run is refused without one.`,
		Example: `  autocal calibrate
  autocal calibrate --condition low
  autocal calibrate --red -5 --blue 2
  autocal calibrate --gamma 2.4 --white-point 5800 --profile-name Studio`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := logrus.StandardLogger()

			sampler := ambient.NewSampler(log)
			if !sampler.DetectDevice(ctx) {
				return calibrate.ErrDeviceNotFound
			}

			var cond ambient.Condition
			if condition != "" {
				cond = ambient.Condition(condition)
				if !cond.Valid() {
					return fmt.Errorf("unknown condition %q, expected low, medium or high", condition)
				}
			} else {
				cond = sampler.Sample(ctx)
			}

			ov := settings.Overrides{}
			flags := cmd.Flags()
			if flags.Changed("gamma") {
				ov.Gamma = ptr.To(gamma)
			}
			if flags.Changed("white-point") {
				ov.WhitePoint = ptr.To(whitePoint)
			}
			if flags.Changed("brightness") {
				ov.Brightness = ptr.To(brightness)
			}
			if flags.Changed("profile-name") {
				ov.Name = ptr.To(profileName)
			}
			if flags.Changed("red") {
				ov.Red = ptr.To(red)
			}
			if flags.Changed("green") {
				ov.Green = ptr.To(green)
			}
			if flags.Changed("blue") {
				ov.Blue = ptr.To(blue)
			}

			s := settings.Resolve(cond, ov)

			bold := color.New(color.Bold)
			bold.Printf("Calibrating for %s light\n", cond)
			fmt.Printf("  Targets: gamma %g, white point %dK, brightness %d cd/m^2\n",
				s.Gamma, s.WhitePoint, s.Brightness)

			orch, err := calibrate.NewOrchestrator(display, log)
			if err != nil {
				return err
			}
			if dir := configuredReportsDir(configPath, log); dir != "" {
				orch.ReportsDir = dir
			}

			res, err := orch.Run(ctx, s)
			if err != nil {
				return err
			}

			bold.Println("Calibration complete.")
			fmt.Printf("  Profile: %s\n", res.ProfilePath)
			if res.NeedsManualApply {
				color.New(color.FgYellow).Println("  Automatic install failed; finish in the displays settings window that just opened.")
			}
			if res.ReportPath != "" {
				fmt.Printf("  Report:  %s\n", res.ReportPath)
			}

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&condition, "condition", "", "skip sensing and calibrate for this condition (low, medium, high)")
	f.Float64Var(&gamma, "gamma", 2.2, "target gamma")
	f.IntVar(&whitePoint, "white-point", 6500, "target white point in Kelvin")
	f.IntVar(&brightness, "brightness", 100, "target brightness in cd/m^2")
	f.StringVar(&profileName, "profile-name", "", "profile name (artifacts are named after it)")
	f.Float64Var(&red, "red", 0, "red channel adjustment in percent")
	f.Float64Var(&green, "green", 0, "green channel adjustment in percent")
	f.Float64Var(&blue, "blue", 0, "blue channel adjustment in percent")

	return cmd
}

// configuredReportsDir returns the reports directory set in the config file,
// or empty when none is set or the file cannot be read.
func configuredReportsDir(path string, log logrus.FieldLogger) string {
	conf, err := config.NewFile(path)
	if err != nil {
		log.WithError(err).Warn("failed to load config, using the default reports directory")
		return ""
	}
	return conf.ReportsDir()
}
