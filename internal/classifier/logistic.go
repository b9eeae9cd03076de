package classifier

import (
	"fmt"
	"math"

	"medai.local/assistant/internal/utils"
)

// LogisticRegression scores p1 = sigmoid(w·x + b).
type LogisticRegression struct {
	coefficients []float64
	intercept    float64
}

func newLogisticRegression(coefficients []float64, intercept float64) (*LogisticRegression, error) {
	if len(coefficients) != NumFeatures {
		return nil, fmt.Errorf("model has %d coefficients, expected %d", len(coefficients), NumFeatures)
	}
	return &LogisticRegression{
		coefficients: append([]float64(nil), coefficients...),
		intercept:    intercept,
	}, nil
}

func (m *LogisticRegression) Score(v FeatureVector) Prediction {
	// Lengths are checked at load.
	z, _ := utils.DotProduct(m.coefficients, v[:])
	p1 := utils.Sigmoid(z + m.intercept)
	if math.IsNaN(p1) {
		p1 = 0
	}
	return newPrediction([]float64{1 - p1, p1})
}
