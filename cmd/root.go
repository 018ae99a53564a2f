package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/luminabooks/bookadmin/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookadmin",
		Short: "Bookstore administration dashboard",
		Long: `Bookadmin runs the Lumina Books administration dashboard.

It manages the book inventory, shows order history and sales figures, and can
draft marketing descriptions for books with an LLM (Gemini, OpenAI or Ollama).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			setupLogging(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from LOG_LEVEL or info)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConsoleCmd())
	cmd.AddCommand(newDescribeCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newHashPasswordCmd())

	return cmd
}

func setupLogging(cmd *cobra.Command) {
	level := logLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: l})))
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
