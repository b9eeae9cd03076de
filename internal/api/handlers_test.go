package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medai.local/assistant/internal/classifier"
	"medai.local/assistant/internal/core"
	"medai.local/assistant/internal/logging"
	"medai.local/assistant/internal/store"
)

type fixedClassifier struct {
	prediction classifier.Prediction
}

func (c fixedClassifier) Score(classifier.FeatureVector) classifier.Prediction { return c.prediction }

type testServer struct {
	handler     http.Handler
	predictions *store.SQLitePredictionStore
	sessions    *store.SQLiteSessionStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dir := t.TempDir()
	predictions, err := store.NewSQLitePredictionStore(filepath.Join(dir, "predictions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { predictions.Close() })
	sessions, err := store.NewSQLiteSessionStore(filepath.Join(dir, "chat_history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sessions.Close() })

	logger := logging.Discard()
	clf := fixedClassifier{prediction: classifier.Prediction{Class: 1, Probabilities: [2]float64{0.2, 0.8}}}
	h := NewAPIHandler(
		core.NewDiagnosisService(clf, predictions, sessions, logger),
		core.NewHistoryService(sessions, 10),
		logger,
	)
	return &testServer{
		handler:     NewRouter(h, logger, []string{"*"}),
		predictions: predictions,
		sessions:    sessions,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(v), rr.Body.String())
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]string{"foo": "bar"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"foo":"bar"}`, w.Body.String())
}

func TestPredictAndRetrieve(t *testing.T) {
	srv := newTestServer(t)
	body := `{"gender":"Male","glucose":148,"bp":72,"skin":35,"insulin":0,"bmi":33.6,"dpf":0.627,"age":50}`

	rr := srv.do(t, http.MethodPost, "/predict", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var pred PredictResponse
	decode(t, rr, &pred)
	assert.Equal(t, "Diagnosis: Positive for Diabetes (Confidence: 80.00%)", pred.DiagnosisText)
	require.NotEmpty(t, pred.SessionID)

	rr = srv.do(t, http.MethodGet, "/chat-session/"+pred.SessionID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var sess struct {
		UserData   json.RawMessage `json:"user_data"`
		Diagnosis  string          `json:"diagnosis"`
		Confidence float64         `json:"confidence"`
		CreatedAt  string          `json:"created_at"`
	}
	decode(t, rr, &sess)
	assert.JSONEq(t, body, string(sess.UserData))
	assert.Equal(t, "Positive", sess.Diagnosis)
	assert.InDelta(t, 80.0, sess.Confidence, 1e-9)
	_, err := time.Parse(time.RFC3339Nano, sess.CreatedAt)
	assert.NoError(t, err)

	rr = srv.do(t, http.MethodGet, "/chat-messages/"+pred.SessionID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var msgs struct {
		Messages []struct {
			Type      string `json:"type"`
			Content   string `json:"content"`
			Timestamp string `json:"timestamp"`
		} `json:"messages"`
	}
	decode(t, rr, &msgs)
	// gender answered, pregnancies not
	require.Len(t, msgs.Messages, 21)
	assert.Equal(t, "bot", msgs.Messages[0].Type)
	assert.Equal(t, core.Questions[0].Text, msgs.Messages[2].Content)
	assert.Equal(t, "user", msgs.Messages[3].Type)
	assert.Equal(t, "Male", msgs.Messages[3].Content)
	assert.Equal(t, pred.DiagnosisText, msgs.Messages[19].Content)

	records, err := srv.predictions.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, classifier.FeatureVector{0, 148, 72, 35, 0, 33.6, 0.627, 50}, records[0].Features)
}

func TestPredictValidationError(t *testing.T) {
	srv := newTestServer(t)

	rr := srv.do(t, http.MethodPost, "/predict", `{"glucose":148,"bp":"high"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var resp struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	decode(t, rr, &resp)
	assert.Equal(t, "bp", resp.Field)

	rr = srv.do(t, http.MethodPost, "/predict", `[1,2,3]`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = srv.do(t, http.MethodGet, "/chat-history", "")
	var hist ChatHistoryResponse
	decode(t, rr, &hist)
	assert.Empty(t, hist.Sessions, "rejected requests must not create sessions")
}

func TestChatSessionNotFound(t *testing.T) {
	srv := newTestServer(t)

	rr := srv.do(t, http.MethodGet, "/chat-session/does-not-exist", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"Session not found"}`, rr.Body.String())
}

func TestChatMessagesUnknownSessionIsEmpty(t *testing.T) {
	srv := newTestServer(t)

	rr := srv.do(t, http.MethodGet, "/chat-messages/does-not-exist", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"messages":[]}`, rr.Body.String())
}

func TestChatHistoryNewestFirstAndCapped(t *testing.T) {
	srv := newTestServer(t)

	var ids []string
	for i := 0; i < 12; i++ {
		body := fmt.Sprintf(`{"glucose":%d,"bp":72,"skin":35,"insulin":0,"bmi":33.6,"dpf":0.627,"age":50}`, 100+i)
		rr := srv.do(t, http.MethodPost, "/predict", body)
		require.Equal(t, http.StatusOK, rr.Code)
		var pred PredictResponse
		decode(t, rr, &pred)
		ids = append(ids, pred.SessionID)
	}

	rr := srv.do(t, http.MethodGet, "/chat-history", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var hist struct {
		Sessions []struct {
			SessionID  string    `json:"session_id"`
			CreatedAt  time.Time `json:"created_at"`
			Diagnosis  string    `json:"diagnosis"`
			Confidence float64   `json:"confidence"`
		} `json:"sessions"`
	}
	decode(t, rr, &hist)
	require.Len(t, hist.Sessions, 10)
	assert.Equal(t, ids[11], hist.Sessions[0].SessionID)
	assert.Equal(t, ids[2], hist.Sessions[9].SessionID)
	for i := 1; i < len(hist.Sessions); i++ {
		assert.False(t, hist.Sessions[i].CreatedAt.After(hist.Sessions[i-1].CreatedAt))
	}

	rr = srv.do(t, http.MethodGet, "/chat-history?limit=3", "")
	decode(t, rr, &hist)
	assert.Len(t, hist.Sessions, 3)

	rr = srv.do(t, http.MethodGet, "/chat-history?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestQuestionsAndHealth(t *testing.T) {
	srv := newTestServer(t)

	rr := srv.do(t, http.MethodGet, "/questions", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Questions []core.Question `json:"questions"`
	}
	decode(t, rr, &resp)
	assert.Equal(t, core.Questions, resp.Questions)

	rr = srv.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}
