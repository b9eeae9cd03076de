package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"medai.local/assistant/internal/api"
	"medai.local/assistant/internal/classifier"
	"medai.local/assistant/internal/core"
	"medai.local/assistant/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the diagnosis API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, logger, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	// A model that cannot be loaded or does not match the feature layout
	// keeps the server from starting.
	clf, err := classifier.Load(cfg.ModelPath)
	if err != nil {
		logger.WithError(err).Error("Failed to load classifier")
		return err
	}
	logger.WithField("model", cfg.ModelPath).Info("Classifier loaded")

	predictions, err := store.NewSQLitePredictionStore(cfg.PredictionsDBPath)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize predictions database")
		return err
	}
	defer closeStore(logger, "predictions", predictions.Close)

	sessions, err := store.NewSQLiteSessionStore(cfg.ChatDBPath)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize chat history database")
		return err
	}
	defer closeStore(logger, "sessions", sessions.Close)

	diagnosisService := core.NewDiagnosisService(clf, predictions, sessions, logger)
	historyService := core.NewHistoryService(sessions, cfg.HistoryLimit)

	apiHandler := api.NewAPIHandler(diagnosisService, historyService, logger)
	router := api.NewRouter(apiHandler, logger, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.WithError(err).Error("Server failed")
			return err
		}
	case <-ctx.Done():
	}
	stop()

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
		return err
	}
	logger.Info("Server exiting gracefully")
	return nil
}

func closeStore(logger logrus.FieldLogger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.WithError(err).WithField("store", name).Error("Failed to close store")
	}
}
