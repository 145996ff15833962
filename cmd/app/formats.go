package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"file2pdf/internal/model"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported input formats",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		registry := model.DefaultRegistry()
		fmt.Fprintln(cmd.OutOrStdout(), "Supported file formats:")
		for _, category := range model.Categories {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-9s %s\n", category, strings.Join(registry.Extensions(category), " "))
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "file2pdf %s (commit %s, built %s)\n", Version, Commit, BuildDate)
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd, versionCmd)
}
