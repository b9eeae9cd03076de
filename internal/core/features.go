package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"

	"medai.local/assistant/internal/classifier"
)

// ValidationError reports a request the pipeline refuses to score.
// Field is empty when the body as a whole is unusable.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// featureKeys maps request keys to their FeatureVector position.
var featureKeys = []struct {
	key      string
	index    int
	optional bool
}{
	{"pregnancies", classifier.Pregnancies, true},
	{"glucose", classifier.Glucose, false},
	{"bp", classifier.BloodPressure, false},
	{"skin", classifier.SkinThickness, false},
	{"insulin", classifier.Insulin, false},
	{"bmi", classifier.BMI, false},
	{"dpf", classifier.DiabetesPedigreeFunction, false},
	{"age", classifier.Age, false},
}

// Payload is a submitted answer set. The raw object is kept verbatim for
// storage; fields gives keyed access for validation and transcripts.
type Payload struct {
	raw    json.RawMessage
	fields map[string]json.RawMessage
}

// ParsePayload accepts any JSON object.
func ParsePayload(data []byte) (*Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &ValidationError{Reason: "body must be a JSON object"}
	}
	if fields == nil {
		return nil, &ValidationError{Reason: "body must be a JSON object"}
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return nil, &ValidationError{Reason: "body must be a JSON object"}
	}
	return &Payload{raw: compact.Bytes(), fields: fields}, nil
}

// Raw returns the payload as submitted.
func (p *Payload) Raw() json.RawMessage {
	return p.raw
}

// Has reports whether key was submitted, even with a null value.
func (p *Payload) Has(key string) bool {
	_, ok := p.fields[key]
	return ok
}

// Answer renders a submitted value as the user typed it: strings without
// quotes, anything else as its JSON text.
func (p *Payload) Answer(key string) string {
	raw, ok := p.fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

// BuildFeatureVector extracts the model inputs in training order.
// pregnancies defaults to 0 when absent; every other field is required.
func BuildFeatureVector(p *Payload) (classifier.FeatureVector, error) {
	var v classifier.FeatureVector
	for _, fk := range featureKeys {
		raw, ok := p.fields[fk.key]
		if !ok {
			if fk.optional {
				continue
			}
			return v, &ValidationError{Field: fk.key, Reason: "is required"}
		}
		f, err := toFloat(raw)
		if err != nil {
			return v, &ValidationError{Field: fk.key, Reason: err.Error()}
		}
		v[fk.index] = f
	}
	return v, nil
}

func toFloat(raw json.RawMessage) (float64, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return 0, fmt.Errorf("is not valid JSON")
	}

	var f float64
	var err error
	switch x := value.(type) {
	case json.Number:
		f, err = x.Float64()
	case string:
		f, err = cast.ToFloat64E(strings.TrimSpace(x))
	case nil:
		return 0, fmt.Errorf("must not be null")
	default:
		return 0, fmt.Errorf("must be a number")
	}
	if err != nil {
		return 0, fmt.Errorf("must be a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("must be a finite number")
	}
	return f, nil
}
