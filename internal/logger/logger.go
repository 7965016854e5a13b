package logger

import (
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/hooch88/justicar/internal/config"
)

// Setup configures the global slog logger based on environment
func Setup(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	if cfg.Environment == "production" {
		// JSON format for production
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Text format for development
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With("service", "justicar")

	// Set as default logger
	slog.SetDefault(logger)

	return logger
}

// WithCampaign adds the campaign ID to logger context
func WithCampaign(logger *slog.Logger, campaignID uuid.UUID) *slog.Logger {
	return logger.With("campaign_id", campaignID.String())
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
