package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hooch88/justicar/internal/gmerrors"
	gmlog "github.com/hooch88/justicar/internal/logger"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		gmlog.WithError(logger, err).Error("Request failed")
	}
	writeJSON(w, logger, status, ErrorResponse{Error: err.Error()})
}

// statusFor maps engine error codes to HTTP status codes.
func statusFor(err error) int {
	switch gmerrors.CodeOf(err) {
	case gmerrors.CodeInvalidArgument, gmerrors.CodeInvalidCheckRequest:
		return http.StatusBadRequest
	case gmerrors.CodeUnknownCampaign, gmerrors.CodeUnknownCharacter:
		return http.StatusNotFound
	case gmerrors.CodeDuplicateCharacterName, gmerrors.CodeTurnInProgress, gmerrors.CodeCampaignHalted:
		return http.StatusConflict
	case gmerrors.CodeNarrativeTimeout:
		return http.StatusGatewayTimeout
	case gmerrors.CodeNarrativeUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
