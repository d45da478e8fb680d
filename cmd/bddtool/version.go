package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the bddtool version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
