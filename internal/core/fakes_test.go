package core

import (
	"context"
	"sort"
	"sync"

	"medai.local/assistant/internal/classifier"
	"medai.local/assistant/internal/store"
)

type stubClassifier struct {
	mu         sync.Mutex
	prediction classifier.Prediction
	calls      int
	last       classifier.FeatureVector
}

func (c *stubClassifier) Score(v classifier.FeatureVector) classifier.Prediction {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.last = v
	return c.prediction
}

type appendedPrediction struct {
	features   classifier.FeatureVector
	diagnosis  string
	confidence float64
}

type fakePredictionStore struct {
	mu      sync.Mutex
	records []appendedPrediction
	err     error
}

func (f *fakePredictionStore) Append(_ context.Context, features classifier.FeatureVector, diagnosis string, confidence float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, appendedPrediction{features, diagnosis, confidence})
	return nil
}

func (f *fakePredictionStore) ListRecent(_ context.Context, _ int) ([]store.PredictionRecord, error) {
	return nil, nil
}

func (f *fakePredictionStore) Close() error { return nil }

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]store.ChatSession
	messages map[string][]store.ChatMessage
	order    []string
	err      error
	limits   []int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]store.ChatSession),
		messages: make(map[string][]store.ChatMessage),
	}
}

func (f *fakeSessionStore) CreateSession(_ context.Context, session *store.ChatSession, messages []store.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sessions[session.SessionID] = *session
	f.messages[session.SessionID] = append([]store.ChatMessage(nil), messages...)
	f.order = append(f.order, session.SessionID)
	return nil
}

func (f *fakeSessionStore) ListRecentSessions(_ context.Context, limit int) ([]store.SessionSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limits = append(f.limits, limit)
	out := []store.SessionSummary{}
	for i := len(f.order) - 1; i >= 0 && len(out) < limit; i-- {
		s := f.sessions[f.order[i]]
		out = append(out, store.SessionSummary{SessionID: s.SessionID, CreatedAt: s.CreatedAt, Diagnosis: s.Diagnosis, Confidence: s.Confidence})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeSessionStore) GetSession(_ context.Context, sessionID string) (*store.ChatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &s, nil
}

func (f *fakeSessionStore) GetMessages(_ context.Context, sessionID string) ([]store.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.ChatMessage{}, f.messages[sessionID]...), nil
}

func (f *fakeSessionStore) Close() error { return nil }
