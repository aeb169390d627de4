package main

import (
	"github.com/spf13/cobra"

	"github.com/autocal/autocal/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s\n", version.Version)
		},
	}
}
