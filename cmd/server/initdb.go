package main

import (
	"github.com/spf13/cobra"

	"medai.local/assistant/internal/store"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the predictions and chat history schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime(cmd)
		if err != nil {
			return err
		}

		predictions, err := store.NewSQLitePredictionStore(cfg.PredictionsDBPath)
		if err != nil {
			return err
		}
		closeStore(logger, "predictions", predictions.Close)
		logger.WithField("path", cfg.PredictionsDBPath).Info("Predictions database ready")

		sessions, err := store.NewSQLiteSessionStore(cfg.ChatDBPath)
		if err != nil {
			return err
		}
		closeStore(logger, "sessions", sessions.Close)
		logger.WithField("path", cfg.ChatDBPath).Info("Chat history database ready")
		return nil
	},
}
