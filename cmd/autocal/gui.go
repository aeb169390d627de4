package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/autocal/autocal/pkg/gui"
)

func NewGUICommand() *cobra.Command {
	return &cobra.Command{
		Use:     "gui",
		Short:   "Open the calibration window",
		GroupID: gCalibration,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return gui.Run(logrus.StandardLogger())
		},
	}
}
