package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   "Show the daemon's schedule and last apply",
		GroupID: gDaemon,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			status, err := apiClient.GetStatus()
			if err != nil {
				return err
			}

			bold := func(format string, a ...interface{}) string {
				return color.New(color.Bold).Sprintf(format, a...)
			}

			if status.Schedule == "" {
				fmt.Println("Schedule: disabled")
			} else {
				fmt.Printf("Schedule: %s\n", bold(status.Schedule))
				if status.NextRun != nil {
					fmt.Printf("Next run: %s (in %s)\n",
						status.NextRun.Format(time.DateTime),
						time.Until(*status.NextRun).Round(time.Second))
				}
			}

			last := status.LastRun
			if last == nil {
				fmt.Println("Last run: never")
				return nil
			}

			fmt.Printf("Last run: %s (%s ago)\n",
				last.Time.Format(time.DateTime),
				time.Since(last.Time).Round(time.Second))
			fmt.Printf("  Condition: %s (%s)\n", bold(last.Condition), last.Source)
			if last.Profile != "" {
				fmt.Printf("  Profile:   %s\n", last.Profile)
			}
			if last.NeedsManualApply {
				color.New(color.FgYellow).Println("  The last install needed manual completion.")
			}
			if last.Error != "" {
				color.New(color.FgRed).Printf("  Error: %s\n", last.Error)
			}

			return nil
		},
	}
}
