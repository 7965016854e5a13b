// Package narrative defines the narrative generation contract and its
// implementations. The engine treats generation as an opaque injectable
// capability: prose in, prose plus proposed state changes out.
package narrative

import (
	"context"

	"github.com/hooch88/justicar/pkg/campaign"
	"github.com/hooch88/justicar/pkg/check"
	"github.com/hooch88/justicar/pkg/event"
	"github.com/hooch88/justicar/pkg/intent"
)

// PromptKind selects the generation mode.
type PromptKind string

const (
	// PromptTurn narrates a resolved player action.
	PromptTurn PromptKind = "turn"
	// PromptSituation produces a fresh situation with no state mutation.
	PromptSituation PromptKind = "situation"
	// PromptOpening produces the campaign's opening scene.
	PromptOpening PromptKind = "opening"
)

// PromptContext is everything a generator may draw on for one call. History
// is a bounded window, most recent first.
type PromptContext struct {
	Kind          PromptKind
	Snapshot      campaign.Snapshot
	CharacterName string
	ActionText    string
	Intent        *intent.Intent
	Check         *check.Result
	History       []*event.TurnRecord
}

// Result is the generator's output: prose, an optional mutation batch, and
// the two session control signals.
type Result struct {
	Text                 string          `json:"text"`
	Delta                *campaign.Delta `json:"delta,omitempty"`
	StoryCompleted       bool            `json:"story_completed,omitempty"`
	RequiresNewSituation bool            `json:"requires_new_situation,omitempty"`
}

// Generator produces narrative for a prompt context. Implementations must be
// swappable (local or remote model) behind this single contract, and must
// respect ctx cancellation: the orchestrator bounds every call with a
// timeout.
type Generator interface {
	Generate(ctx context.Context, pctx PromptContext) (*Result, error)

	// Healthy reports whether the provider can currently serve requests.
	Healthy(ctx context.Context) error
}
