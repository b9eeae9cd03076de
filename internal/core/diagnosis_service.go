package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"medai.local/assistant/internal/classifier"
	"medai.local/assistant/internal/store"
)

// PersistenceError records a failed best-effort write. It never fails
// the request that caused it.
type PersistenceError struct {
	Store string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s store write failed: %v", e.Store, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one scored request. PredictionErr and
// SessionErr are set independently; the two stores share no transaction.
type Result struct {
	SessionID     string
	Features      classifier.FeatureVector
	Prediction    classifier.Prediction
	Diagnosis     Diagnosis
	Messages      []store.ChatMessage
	PredictionErr *PersistenceError
	SessionErr    *PersistenceError
}

type DiagnosisService struct {
	classifier  classifier.Classifier
	predictions store.PredictionStore
	sessions    store.SessionStore
	questions   []Question
	logger      logrus.FieldLogger
}

func NewDiagnosisService(c classifier.Classifier, predictions store.PredictionStore, sessions store.SessionStore, logger logrus.FieldLogger) *DiagnosisService {
	return &DiagnosisService{
		classifier:  c,
		predictions: predictions,
		sessions:    sessions,
		questions:   Questions,
		logger:      logger,
	}
}

// Score runs the pure part of the pipeline: vector, classifier, formatter.
func (s *DiagnosisService) Score(p *Payload) (classifier.FeatureVector, classifier.Prediction, Diagnosis, error) {
	features, err := BuildFeatureVector(p)
	if err != nil {
		return features, classifier.Prediction{}, Diagnosis{}, err
	}
	prediction := s.classifier.Score(features)
	return features, prediction, FormatDiagnosis(prediction), nil
}

// Diagnose scores the payload and records it in both stores. Only a
// *ValidationError is returned as an error; store failures are logged and
// reported on the Result.
func (s *DiagnosisService) Diagnose(ctx context.Context, p *Payload) (*Result, error) {
	features, prediction, diagnosis, err := s.Score(p)
	if err != nil {
		return nil, err
	}

	res := &Result{
		SessionID:  uuid.NewString(),
		Features:   features,
		Prediction: prediction,
		Diagnosis:  diagnosis,
		Messages:   BuildTranscript(p, s.questions, diagnosis.Text),
	}
	log := s.logger.WithField("session_id", res.SessionID)

	// Writes outlive a disconnecting client.
	writeCtx := context.WithoutCancel(ctx)

	if err := s.predictions.Append(writeCtx, features, diagnosis.Label, diagnosis.Confidence); err != nil {
		res.PredictionErr = &PersistenceError{Store: "predictions", Err: err}
		log.WithError(err).WithField("store", "predictions").Error("Failed to save prediction")
	}

	session := &store.ChatSession{
		SessionID:  res.SessionID,
		UserData:   p.Raw(),
		Diagnosis:  diagnosis.Label,
		Confidence: diagnosis.Confidence,
	}
	if err := s.sessions.CreateSession(writeCtx, session, res.Messages); err != nil {
		res.SessionErr = &PersistenceError{Store: "sessions", Err: err}
		log.WithError(err).WithField("store", "sessions").Error("Failed to save chat history")
	}

	log.WithFields(logrus.Fields{
		"diagnosis":  diagnosis.Label,
		"confidence": diagnosis.Confidence,
		"messages":   len(res.Messages),
	}).Info("Diagnosis completed")
	return res, nil
}
