package gmerrors

import "fmt"

// InvalidArgument creates an invalid-input error.
func InvalidArgument(message string) *Error {
	return New(CodeInvalidArgument, message)
}

// InvalidArgumentf creates a formatted invalid-input error.
func InvalidArgumentf(format string, args ...any) *Error {
	return Newf(CodeInvalidArgument, format, args...)
}

// InvalidCheckRequestf creates a resolver rejection error.
func InvalidCheckRequestf(format string, args ...any) *Error {
	return Newf(CodeInvalidCheckRequest, format, args...)
}

// DuplicateCharacterName creates a character-name collision error.
func DuplicateCharacterName(name string) *Error {
	return Newf(CodeDuplicateCharacterName, "character %q already exists in this campaign", name)
}

// TurnInProgress creates a turn-contention error for a campaign.
func TurnInProgress(campaignID string) *Error {
	return Newf(CodeTurnInProgress, "a turn is already in progress for campaign %s", campaignID)
}

// NarrativeTimeout creates a provider deadline error.
func NarrativeTimeout(cause error) *Error {
	return WrapWithCode(cause, CodeNarrativeTimeout, "narrative provider timed out")
}

// NarrativeUnavailable creates a provider dependency-failure error.
func NarrativeUnavailable(cause error) *Error {
	return WrapWithCode(cause, CodeNarrativeUnavailable, "narrative provider unavailable")
}

// UnknownCampaign creates a missing-campaign reference error.
func UnknownCampaign(id fmt.Stringer) *Error {
	return Newf(CodeUnknownCampaign, "campaign %s not found", id)
}

// UnknownCharacter creates a missing-character reference error.
func UnknownCharacter(name string) *Error {
	return Newf(CodeUnknownCharacter, "character %q not found", name)
}

// CampaignHalted creates a halted-campaign error.
func CampaignHalted(id fmt.Stringer) *Error {
	return Newf(CodeCampaignHalted, "campaign %s is halted pending manual recovery", id)
}

// Internal creates an internal error.
func Internal(message string) *Error {
	return New(CodeInternal, message)
}
