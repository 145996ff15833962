// Package main provides the entry point for the file2pdf application
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"file2pdf/internal/config"
	"file2pdf/internal/converter"
	"file2pdf/internal/office"
)

// Version information, set at build time via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// cfg is populated before any subcommand runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "file2pdf",
	Short: "Convert images, text, Word and Excel files to PDF",
	Long: `file2pdf converts documents to PDF one file at a time, as a batch over a
folder, or through an HTTP upload service.

Supported inputs:
  images       .png .jpg .jpeg .bmp .tiff .gif
  text         .txt .md
  documents    .docx (requires LibreOffice)
  spreadsheets .xlsx .xls`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is fine
		_ = godotenv.Load()

		cfgFile, _ := cmd.Flags().GetString("config")
		config.Setup(viper.GetViper(), cfgFile)

		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./file2pdf.yaml or ~/.config/file2pdf/file2pdf.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("soffice", "", "LibreOffice binary used for .docx files")

	_ = viper.BindPFlag("log.debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("office.binary", rootCmd.PersistentFlags().Lookup("soffice"))
}

// newManager wires the converters from the loaded configuration
func newManager(log *zap.Logger) *converter.ConverterManager {
	documents := office.NewLibreOffice(
		office.WithBinary(cfg.Office.Binary),
		office.WithTimeout(cfg.Office.Timeout),
		office.WithLogger(log),
	)
	if !documents.Available() {
		log.Debug("LibreOffice not found, .docx conversion will fail", zap.String("binary", cfg.Office.Binary))
	}
	return converter.CreateDefaultManager(documents, log)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
