package main

import (
	"github.com/bnema/galerie/config"
	"github.com/bnema/galerie/internal/infrastructure/logger"
	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonOutput bool
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "galerie",
	Short: "galerie - media uploads with background video transcoding",
	Long: `galerie stores uploaded photos and videos, renders image variants and
video posters on upload, and transcodes videos to web MP4 in the background.

Get started:
  galerie serve                  # Run the HTTP server and job dispatcher
  galerie jobs list              # Inspect the job queue
  galerie jobs retry <job-id>    # Requeue a failed job
  galerie maintenance            # Run one recovery and retention sweep
  galerie hash-token             # Print a bcrypt hash for ADMIN_TOKEN_HASH`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == hashTokenCmd.Name() {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		logger.Init(cfg.LogLevel, cfg.LogFormat)
		return cfg.Validate()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $GALERIE_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON (for scripting)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(maintenanceCmd)
	rootCmd.AddCommand(hashTokenCmd)
}
