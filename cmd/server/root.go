package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"medai.local/assistant/internal/config"
	"medai.local/assistant/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:          "medai",
	Short:        "Diabetes diagnosis assistant API",
	Long:         "MedAI scores conversational intake answers with a pre-trained classifier and keeps a replayable chat history.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("model", "", "Path to the exported model document (overrides MODEL_PATH)")
	rootCmd.PersistentFlags().String("predictions-db", "", "Path to the predictions database (overrides PREDICTIONS_DB_PATH)")
	rootCmd.PersistentFlags().String("chat-db", "", "Path to the chat history database (overrides CHAT_DB_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initDBCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(predictionsCmd)
}

// loadRuntime resolves configuration (flags over env over defaults) and
// builds the logger.
func loadRuntime(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	cfg, dotenv, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"model", &cfg.ModelPath},
		{"predictions-db", &cfg.PredictionsDBPath},
		{"chat-db", &cfg.ChatDBPath},
		{"log-level", &cfg.LogLevel},
	}
	for _, o := range overrides {
		if v, _ := cmd.Flags().GetString(o.flag); v != "" {
			*o.dst = v
		}
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	if !dotenv {
		logger.Debug("No .env file found, relying on environment variables")
	}
	return cfg, logger, nil
}
