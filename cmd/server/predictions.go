package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"medai.local/assistant/internal/store"
)

var predictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "Print the most recent prediction records as JSON lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		predictions, err := store.NewSQLitePredictionStore(cfg.PredictionsDBPath)
		if err != nil {
			return err
		}
		defer closeStore(logger, "predictions", predictions.Close)

		records, err := predictions.ListRecent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	predictionsCmd.Flags().Int("limit", 20, "Number of records to print")
}
