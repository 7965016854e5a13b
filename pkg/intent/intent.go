// Package intent classifies raw player actions into structured intents.
package intent

import "context"

// Kind tags the intent union.
type Kind string

const (
	KindSkillCheck   Kind = "skill_check"
	KindFreeAction   Kind = "free_action"
	KindUnrecognized Kind = "unrecognized"
)

// Intent is the structured interpretation of a player action. Exactly one
// shape is populated per kind: skill checks carry Skill and Target, free
// actions carry Description, unrecognized carries Reason.
type Intent struct {
	Kind        Kind   `json:"kind"`
	Skill       string `json:"skill,omitempty"`
	Target      string `json:"target,omitempty"`
	Description string `json:"description,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// SkillCheck builds a skill-check intent.
func SkillCheck(skill, target string) Intent {
	return Intent{Kind: KindSkillCheck, Skill: skill, Target: target}
}

// FreeAction builds a free-action intent.
func FreeAction(description string) Intent {
	return Intent{Kind: KindFreeAction, Description: description}
}

// Unrecognized builds an unrecognized intent. It is a valid turn outcome,
// not an error: the orchestrator narrates it as clarification-needed.
func Unrecognized(reason string) Intent {
	return Intent{Kind: KindUnrecognized, Reason: reason}
}

// Context is the world snapshot an interpreter may consult. It is a value
// copy so interpreters can never mutate live campaign state.
type Context struct {
	LocationName  string
	QuestSummary  string
	CharacterName string
	Flags         map[string]string
}

// Interpreter maps raw player text plus campaign context to an intent.
// Implementations must be swappable without changing downstream contracts.
type Interpreter interface {
	Interpret(ctx context.Context, rawText string, ictx Context) (Intent, error)
}
