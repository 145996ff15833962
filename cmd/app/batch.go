package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"file2pdf/internal/converter"
	"file2pdf/internal/logger"
	"file2pdf/internal/model"
)

var batchCmd = &cobra.Command{
	Use:   "batch <folder> [output_folder]",
	Short: "Convert every supported file in a folder",
	Long: `Convert every supported file directly inside folder (subfolders are not
visited). PDFs go to output_folder, or to folder/` + converter.DefaultOutputDir + ` when
omitted. A file that fails to convert is reported and the batch continues.`,
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

		result, err := newManager(log).BatchConvert(cmd.Context(), args[0], output)
		printBatchResult(cmd, result)
		return err
	},
}

func printBatchResult(cmd *cobra.Command, result model.BatchResult) {
	if result.Total() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No supported files found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Status", "Input", "Result"})
	for _, r := range result.Succeeded {
		t.AppendRow(table.Row{color.GreenString("converted"), filepath.Base(r.Input), filepath.Base(r.Output)})
	}
	for _, f := range result.Failed {
		t.AppendRow(table.Row{color.RedString("failed"), filepath.Base(f.Input), f.Err.Error()})
	}
	t.Render()

	fmt.Fprintf(cmd.OutOrStdout(), "\nBatch summary: %d converted, %d failed (total: %d)\n",
		len(result.Succeeded), len(result.Failed), result.Total())
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
