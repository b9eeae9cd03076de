package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"medai.local/assistant/internal/classifier"
	"medai.local/assistant/internal/core"
)

var scoreCmd = &cobra.Command{
	Use:     "score",
	Short:   "Score one payload offline without recording it",
	Example: "  medai score --file answers.json\n  medai score < answers.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime(cmd)
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("file")
		var data []byte
		if path == "" || path == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}

		clf, err := classifier.Load(cfg.ModelPath)
		if err != nil {
			return err
		}
		payload, err := core.ParsePayload(data)
		if err != nil {
			return err
		}

		svc := core.NewDiagnosisService(clf, nil, nil, logger)
		features, prediction, diagnosis, err := svc.Score(payload)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"diagnosis_text": diagnosis.Text,
			"diagnosis":      diagnosis.Label,
			"confidence":     diagnosis.Confidence,
			"probabilities":  prediction.Probabilities,
			"features":       features,
		})
	},
}

func init() {
	scoreCmd.Flags().StringP("file", "f", "", "Payload JSON file (default stdin)")
}
