// Package classifier wraps the pre-trained diabetes model behind a small,
// read-only scoring interface.
package classifier

import (
	"fmt"

	"medai.local/assistant/internal/utils"
)

// NumFeatures is the width of every FeatureVector.
const NumFeatures = 8

// FeatureNames is the column order the model was trained on.
var FeatureNames = [NumFeatures]string{
	"Pregnancies",
	"Glucose",
	"BloodPressure",
	"SkinThickness",
	"Insulin",
	"BMI",
	"DiabetesPedigreeFunction",
	"Age",
}

// Positions within a FeatureVector.
const (
	Pregnancies = iota
	Glucose
	BloodPressure
	SkinThickness
	Insulin
	BMI
	DiabetesPedigreeFunction
	Age
)

// FeatureVector is one sample in training order.
type FeatureVector [NumFeatures]float64

// Prediction is the classifier output for one sample.
// Probabilities[0] + Probabilities[1] == 1.
type Prediction struct {
	Class         int
	Probabilities [2]float64
}

// Classifier scores feature vectors. Implementations are immutable after
// construction and safe for concurrent use.
type Classifier interface {
	Score(v FeatureVector) Prediction
}

// ConfigurationError means the model cannot be used at all. It is raised
// while loading and must stop the service from serving traffic.
type ConfigurationError struct {
	Source string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("classifier configuration (%s): %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func newPrediction(probs []float64) Prediction {
	var p Prediction
	copy(p.Probabilities[:], probs)
	p.Class = utils.ArgMax(p.Probabilities[:])
	return p
}
