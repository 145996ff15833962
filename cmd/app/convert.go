package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"file2pdf/internal/logger"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input_file> [output_file]",
	Short: "Convert a single file to PDF",
	Long: `Convert one file to PDF. Without an output file the PDF is written next
to the input with the same base name and a .pdf extension.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.NewConsole(cfg.Log.Debug)
		defer func() {
			_ = log.Sync()
		}()

		output := ""
		if len(args) > 1 {
			output = args[1]
		}

		result, err := newManager(log).Convert(cmd.Context(), args[0], output)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s converted to: %s\n", color.GreenString("✓"), result.Output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
