package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"file2pdf/internal/api"
	"file2pdf/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP conversion service",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New(cfg.Log.Debug)
		defer func() {
			_ = log.Sync()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return api.StartServer(ctx, newManager(log), api.Options{
			Port:           cfg.Server.Port,
			OutputDir:      cfg.Output.Dir,
			MaxUploadBytes: cfg.Server.MaxUploadBytes,
			CORSOrigins:    cfg.Server.CORSOrigins,
		}, log)
	},
}

func init() {
	serveCmd.Flags().Int("port", 8080, "port to run the API server on")
	serveCmd.Flags().String("output", "./output", "directory for PDFs saved with save=true")

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("output.dir", serveCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(serveCmd)
}
