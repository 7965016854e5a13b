package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hooch88/justicar/internal/config"
	"github.com/hooch88/justicar/internal/engine"
	"github.com/hooch88/justicar/internal/handlers"
	"github.com/hooch88/justicar/internal/logger"
	"github.com/hooch88/justicar/internal/middleware"
	"github.com/hooch88/justicar/internal/narrative"
	"github.com/hooch88/justicar/internal/storage"
	"github.com/hooch88/justicar/pkg/check"
	"github.com/hooch88/justicar/pkg/intent"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Justicar API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"narrative_provider", cfg.NarrativeProvider,
		"model_name", cfg.ModelName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var generator narrative.Generator
	var classifier intent.Classifier
	switch cfg.NarrativeProvider {
	case config.ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			log.Error("Gemini API key is required when using gemini provider")
			os.Exit(1)
		}
		gemini, err := narrative.NewGemini(ctx, cfg.GeminiAPIKey, cfg.ModelName, log)
		if err != nil {
			log.Error("Failed to initialize Gemini provider", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := gemini.Close(); err != nil {
				log.Error("Error closing Gemini client", "error", err)
			}
		}()
		generator = gemini
		classifier = gemini
		log.Info("Using Gemini narrative provider")
	case config.ProviderMock:
		generator = narrative.NewMock()
		log.Info("Using mock narrative provider")
	default:
		log.Error("Invalid narrative provider specified",
			"provider", cfg.NarrativeProvider,
			"supported", []string{config.ProviderGemini, config.ProviderMock})
		os.Exit(1)
	}

	store, err := storage.NewRedis(cfg.RedisURL, log)
	if err != nil {
		log.Error("Failed to configure storage", "error", err)
		os.Exit(1)
	}
	storageCtx, storageCancel := context.WithTimeout(ctx, 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	var interpreter intent.Interpreter = intent.NewKeywordInterpreter()
	if classifier != nil {
		interpreter = intent.NewClassifierInterpreter(classifier)
	}

	tracker := engine.NewTracker(store, log)
	resolver := check.NewResolver(nil)
	orchestrator := engine.NewOrchestrator(store, tracker, interpreter, resolver,
		generator, cfg.NarrativeTimeout, log)
	lifecycle := engine.NewLifecycle(store, tracker, generator, cfg.NarrativeTimeout, log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, generator, log)
	mux.Handle("/health", healthHandler)

	campaignHandler := handlers.NewCampaignHandler(lifecycle, log)
	turnHandler := handlers.NewTurnHandler(orchestrator, log)
	mux.Handle("/v1/campaigns", campaignHandler)
	mux.HandleFunc("/v1/campaigns/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/turns") {
			turnHandler.ServeHTTP(w, r)
			return
		}
		campaignHandler.ServeHTTP(w, r)
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Logger(log, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}
