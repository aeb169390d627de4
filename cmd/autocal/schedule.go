package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule [cron-expression]",
		Aliases: []string{"sch", "sched"},
		Short:   "Manage the automatic apply schedule",
		GroupID: gDaemon,
		Long: `Manage the daemon's automatic apply schedule.

  autocal schedule 'minute hour day month weekday'  Set schedule
  autocal schedule disable                          Disable the schedule
  autocal schedule show                             Show current schedule`,
		Example: `  autocal schedule '0 */4 * * *' (every four hours)
  autocal schedule '0 8,18 * * *' (at 08:00 and 18:00)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runScheduleShow()
			}
			return runScheduleSet(args[0])
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "disable",
			Short: "Disable scheduled applies",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return runScheduleSet("")
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the current schedule",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return runScheduleShow()
			},
		},
	)

	return cmd
}

func runScheduleSet(cronExpr string) error {
	if _, err := apiClient.SetSchedule(cronExpr); err != nil {
		return err
	}
	if cronExpr == "" {
		fmt.Println("Scheduled applies disabled.")
	} else {
		fmt.Printf("Schedule set to %q.\n", cronExpr)
	}
	return nil
}

func runScheduleShow() error {
	status, err := apiClient.GetStatus()
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)
	if status.Schedule == "" {
		fmt.Println("No schedule set.")
		return nil
	}
	bold.Printf("Schedule: %s\n", status.Schedule)
	if status.NextRun != nil {
		fmt.Printf("Next run: %s (in %s)\n",
			status.NextRun.Format(time.DateTime),
			time.Until(*status.NextRun).Round(time.Second))
	}
	return nil
}
