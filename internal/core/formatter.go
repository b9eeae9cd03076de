package core

import (
	"fmt"

	"medai.local/assistant/internal/classifier"
)

const (
	LabelPositive = "Positive"
	LabelNegative = "Negative"
)

// Diagnosis is the caller-facing reading of a Prediction.
type Diagnosis struct {
	Label      string
	Confidence float64 // percent, 0..100
	Text       string
}

// FormatDiagnosis labels the predicted class and reports the probability
// of that class as a percentage.
func FormatDiagnosis(p classifier.Prediction) Diagnosis {
	label := LabelNegative
	if p.Class == 1 {
		label = LabelPositive
	}
	confidence := 100 * p.Probabilities[p.Class]
	return Diagnosis{
		Label:      label,
		Confidence: confidence,
		Text:       fmt.Sprintf("Diagnosis: %s for Diabetes (Confidence: %.2f%%)", label, confidence),
	}
}
