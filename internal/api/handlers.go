package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"medai.local/assistant/internal/core"
	"medai.local/assistant/internal/store"
)

const maxBodyBytes = 1 << 20

// Diagnoser runs the scoring pipeline.
type Diagnoser interface {
	Diagnose(ctx context.Context, p *core.Payload) (*core.Result, error)
}

// History is the read side over stored sessions.
type History interface {
	ListRecentSessions(ctx context.Context, limit int) ([]store.SessionSummary, error)
	GetSession(ctx context.Context, sessionID string) (*store.ChatSession, error)
	GetMessages(ctx context.Context, sessionID string) ([]store.ChatMessage, error)
}

type APIHandler struct {
	diagnoser Diagnoser
	history   History
	questions []core.Question
	logger    logrus.FieldLogger
}

func NewAPIHandler(d Diagnoser, h History, logger logrus.FieldLogger) *APIHandler {
	return &APIHandler{diagnoser: d, history: h, questions: core.Questions, logger: logger}
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes {"error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

type PredictResponse struct {
	DiagnosisText string `json:"diagnosis_text"`
	SessionID     string `json:"session_id"`
}

type validationResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func (h *APIHandler) PredictHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		Error(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	payload, err := core.ParsePayload(body)
	if err != nil {
		h.scoringError(w, err)
		return
	}
	res, err := h.diagnoser.Diagnose(r.Context(), payload)
	if err != nil {
		h.scoringError(w, err)
		return
	}
	JSON(w, http.StatusOK, PredictResponse{DiagnosisText: res.Diagnosis.Text, SessionID: res.SessionID})
}

func (h *APIHandler) scoringError(w http.ResponseWriter, err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		JSON(w, http.StatusBadRequest, validationResponse{Error: verr.Error(), Field: verr.Field})
		return
	}
	h.logger.WithError(err).Error("Error scoring request")
	Error(w, http.StatusInternalServerError, "Failed to score request")
}

type ChatHistoryResponse struct {
	Sessions []store.SessionSummary `json:"sessions"`
}

func (h *APIHandler) ChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := cast.ToIntE(raw)
		if err != nil || n <= 0 {
			Error(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	sessions, err := h.history.ListRecentSessions(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Error listing chat history")
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if sessions == nil {
		sessions = []store.SessionSummary{}
	}
	JSON(w, http.StatusOK, ChatHistoryResponse{Sessions: sessions})
}

type ChatSessionResponse struct {
	UserData   json.RawMessage `json:"user_data"`
	Diagnosis  string          `json:"diagnosis"`
	Confidence float64         `json:"confidence"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (h *APIHandler) ChatSessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	session, err := h.history.GetSession(r.Context(), sessionID)
	if errors.Is(err, store.ErrNotFound) {
		Error(w, http.StatusNotFound, "Session not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("session_id", sessionID).Error("Error getting chat session")
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	JSON(w, http.StatusOK, ChatSessionResponse{
		UserData:   session.UserData,
		Diagnosis:  session.Diagnosis,
		Confidence: session.Confidence,
		CreatedAt:  session.CreatedAt,
	})
}

type ChatMessagesResponse struct {
	Messages []store.ChatMessage `json:"messages"`
}

func (h *APIHandler) ChatMessagesHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	messages, err := h.history.GetMessages(r.Context(), sessionID)
	if err != nil {
		h.logger.WithError(err).WithField("session_id", sessionID).Error("Error getting chat messages")
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if messages == nil {
		messages = []store.ChatMessage{}
	}
	JSON(w, http.StatusOK, ChatMessagesResponse{Messages: messages})
}

func (h *APIHandler) QuestionsHandler(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string][]core.Question{"questions": h.questions})
}
