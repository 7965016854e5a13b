package gmerrors

// Code is a machine-readable error classification.
type Code string

const (
	// CodeInternal is an unexpected failure inside the engine.
	CodeInternal Code = "INTERNAL"

	// CodeInvalidArgument is a malformed or missing caller input.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// CodeInvalidCheckRequest is a resolver input rejected before rolling.
	CodeInvalidCheckRequest Code = "INVALID_CHECK_REQUEST"

	// CodeDuplicateCharacterName is a character-name collision within a campaign.
	CodeDuplicateCharacterName Code = "DUPLICATE_CHARACTER_NAME"

	// CodeTurnInProgress is contention on a campaign's single turn pipeline.
	CodeTurnInProgress Code = "TURN_IN_PROGRESS"

	// CodeNarrativeTimeout is a narrative provider call exceeding its deadline.
	CodeNarrativeTimeout Code = "NARRATIVE_TIMEOUT"

	// CodeNarrativeUnavailable is a narrative provider dependency failure.
	CodeNarrativeUnavailable Code = "NARRATIVE_UNAVAILABLE"

	// CodeUnknownCampaign is a reference to a campaign that does not exist.
	CodeUnknownCampaign Code = "UNKNOWN_CAMPAIGN"

	// CodeUnknownCharacter is a reference to a character that does not exist.
	CodeUnknownCharacter Code = "UNKNOWN_CHARACTER"

	// CodeCampaignHalted is a campaign stopped after a store-level
	// invariant violation, pending manual recovery.
	CodeCampaignHalted Code = "CAMPAIGN_HALTED"
)

func (c Code) String() string {
	return string(c)
}
