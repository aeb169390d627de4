package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/autocal/autocal/pkg/ambient"
	"github.com/autocal/autocal/pkg/settings"
)

func NewAmbientCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ambient",
		Short:   "Sense the ambient light and print the matching targets",
		GroupID: gCalibration,
		Long: `Sense the ambient light level and print the resulting condition and the
calibration targets it maps to. Uses the colorimeter when one is
attached, the time of day otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sampler := ambient.NewSampler(logrus.StandardLogger())
			cond := sampler.Sample(cmd.Context())

			s := settings.Resolve(cond, settings.Overrides{})

			color.New(color.Bold).Printf("Ambient light: %s\n", cond)
			fmt.Printf("  Profile:     %s\n", s.Name)
			fmt.Printf("  Gamma:       %g\n", s.Gamma)
			fmt.Printf("  White point: %dK\n", s.WhitePoint)
			fmt.Printf("  Brightness:  %d cd/m^2\n", s.Brightness)

			return nil
		},
	}
}
