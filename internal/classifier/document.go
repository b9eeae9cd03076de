package classifier

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Model kinds understood by Load.
const (
	KindDecisionTree       = "decision_tree"
	KindLogisticRegression = "logistic_regression"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://classifier-model.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(schemaURL)
})

// document is the exported model file written by the training pipeline.
type document struct {
	Kind         string    `json:"kind"`
	FeatureNames []string  `json:"feature_names"`
	Classes      []int     `json:"classes"`
	Nodes        []node    `json:"nodes"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

type node struct {
	Feature   int        `json:"feature"`
	Threshold float64    `json:"threshold"`
	Left      int        `json:"left"`
	Right     int        `json:"right"`
	Value     [2]float64 `json:"value"`
}

// Load reads and validates the model document at path.
// Every failure is a *ConfigurationError.
func Load(path string) (Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Source: path, Err: fmt.Errorf("read model: %w", err)}
	}
	c, err := Parse(data)
	if err != nil {
		return nil, &ConfigurationError{Source: path, Err: err}
	}
	return c, nil
}

// Parse builds a Classifier from a model document.
func Parse(data []byte) (Classifier, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile model schema: %w", err)
	}
	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := doc.checkShape(); err != nil {
		return nil, err
	}

	switch doc.Kind {
	case KindDecisionTree:
		return newDecisionTree(doc.Nodes)
	case KindLogisticRegression:
		return newLogisticRegression(doc.Coefficients, doc.Intercept)
	default:
		return nil, fmt.Errorf("unsupported model kind %q", doc.Kind)
	}
}

// checkShape rejects models whose inputs or outputs do not line up with
// FeatureVector, so a mismatch can never silently misclassify.
func (d *document) checkShape() error {
	if len(d.FeatureNames) != NumFeatures {
		return fmt.Errorf("model expects %d features, service provides %d", len(d.FeatureNames), NumFeatures)
	}
	for i, name := range d.FeatureNames {
		if name != FeatureNames[i] {
			return fmt.Errorf("feature %d is %q, expected %q", i, name, FeatureNames[i])
		}
	}
	if len(d.Classes) != 2 || d.Classes[0] != 0 || d.Classes[1] != 1 {
		return fmt.Errorf("classes must be [0 1], got %v", d.Classes)
	}
	return nil
}
