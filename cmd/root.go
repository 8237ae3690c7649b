// Package cmd wires the application together and exposes the CLI
// surface: the default interactive chat TUI plus subcommands for the
// HTTP server, the learning tracker, course import, and version info.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/nexus-sapiens/nexus/internal/config"
	"github.com/nexus-sapiens/nexus/internal/i18n"
	"github.com/nexus-sapiens/nexus/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Nexus Sapiens, tu mentor de IA en la terminal",
	Long: `Nexus Sapiens es un mentor de IA para la terminal con varias
personalidades, retos de aprendizaje y cursos importables.

Ejecutar nexus sin argumentos abre el chat interactivo.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runChat,
}

// Execute is the entry point called from main. It loads .env before
// cobra parses anything so NEXUS_* variables are visible to viper.
func Execute() error {
	// Missing .env is the normal case; only a malformed file matters.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}
	return rootCmd.Execute()
}

// loadConfig loads configuration and applies the configured language.
// Every command goes through here so i18n is always initialized.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf(i18n.T("error.config"), err)
	}
	i18n.Init(cfg.Language)
	return cfg, nil
}

// newLogger builds the process logger. DEBUG in the environment drops
// the level to debug, matching the server's convention.
func newLogger() *slog.Logger {
	cfg := log.Config{Level: slog.LevelInfo}
	if os.Getenv("DEBUG") != "" {
		cfg.Level = slog.LevelDebug
	}
	return log.New(cfg)
}
