package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/autocal/autocal/pkg/daemon"
	"github.com/autocal/autocal/pkg/version"
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "daemon",
		Short:   "Run the autocal daemon in the foreground",
		GroupID: gDaemon,
		Long: `Run the autocal daemon in the foreground. The daemon applies the stored
profile matching the ambient light on a cron schedule and serves an API
on a unix socket for the schedule, status and apply commands.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			logrus.WithField("version", version.Version).Info("autocal daemon starting")
			return daemon.Run(configPath, unixSocketPath)
		},
	}
}
