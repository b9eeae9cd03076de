package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"medai.local/assistant/internal/middleware"
)

func NewRouter(apiHandler *APIHandler, logger logrus.FieldLogger, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)    // Recover from panics
	r.Use(chimw.StripSlashes) // Ensure consistent path handling
	r.Use(middleware.CORS(corsOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/questions", apiHandler.QuestionsHandler)

	r.Post("/predict", apiHandler.PredictHandler)
	r.Get("/chat-history", apiHandler.ChatHistoryHandler)
	r.Get("/chat-session/{sessionID}", apiHandler.ChatSessionHandler)
	r.Get("/chat-messages/{sessionID}", apiHandler.ChatMessagesHandler)

	return r
}
