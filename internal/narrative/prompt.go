package narrative

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/hooch88/justicar/pkg/check"
	"github.com/hooch88/justicar/pkg/intent"
)

// DefaultHistoryLimit bounds the event window included in a prompt.
const DefaultHistoryLimit = 6

var titler = cases.Title(language.AmericanEnglish)

// SkillDisplayName renders a snake_case skill for prose ("sleight_of_hand"
// becomes "Sleight Of Hand").
func SkillDisplayName(skill string) string {
	return titler.String(strings.ReplaceAll(skill, "_", " "))
}

const systemPreamble = `You are the game master for a turn-based roleplaying session. ` +
	`Narrate vividly in second person, stay consistent with the world state provided, ` +
	`and never speak for the player character.`

const responseInstructions = `Respond with a single JSON object and nothing else:
{
  "text": "the narration for this turn",
  "delta": {
    "set_location": "new location name, or omit",
    "set_flags": {"flag_key": "value"},
    "complete_quest": false,
    "set_quest_title": "new title for the active quest, or omit",
    "moved_npcs": [{"name": "npc name", "to": "location name"}]
  },
  "story_completed": false,
  "requires_new_situation": false
}
Only reference locations and NPCs that exist in the world state. Set
"story_completed" when the main quest has been fully resolved. Set
"requires_new_situation" when the player needs a new prompt to act on.`

// PromptBuilder assembles the generation prompt with a fluent interface,
// separating prompt construction from the orchestrator's turn logic.
type PromptBuilder struct {
	pctx         PromptContext
	historyLimit int
}

// NewPrompt creates a builder with default settings.
func NewPrompt() *PromptBuilder {
	return &PromptBuilder{historyLimit: DefaultHistoryLimit}
}

// WithContext sets the prompt context.
func (b *PromptBuilder) WithContext(pctx PromptContext) *PromptBuilder {
	b.pctx = pctx
	return b
}

// WithHistoryLimit overrides the event window size.
func (b *PromptBuilder) WithHistoryLimit(limit int) *PromptBuilder {
	b.historyLimit = limit
	return b
}

// Build renders the final prompt text.
func (b *PromptBuilder) Build() (string, error) {
	if b.pctx.Snapshot.CampaignID == uuid.Nil {
		return "", fmt.Errorf("prompt context requires a campaign snapshot")
	}

	var sb strings.Builder
	sb.WriteString(systemPreamble)
	sb.WriteString("\n\n")

	b.writeWorldState(&sb)
	b.writeHistory(&sb)

	switch b.pctx.Kind {
	case PromptOpening:
		sb.WriteString("Narrate the opening scene of this campaign: introduce the ")
		sb.WriteString("current location, the stakes of the main quest, and end at a ")
		sb.WriteString("moment that invites the player to act.\n\n")
	case PromptSituation:
		sb.WriteString(fmt.Sprintf("Describe the current situation facing %s: what they ",
			b.pctx.CharacterName))
		sb.WriteString("perceive, who is present, and what choices are open. Do not ")
		sb.WriteString("change the world state; leave the delta empty.\n\n")
	default:
		b.writeAction(&sb)
	}

	sb.WriteString(responseInstructions)
	return sb.String(), nil
}

func (b *PromptBuilder) writeWorldState(sb *strings.Builder) {
	snap := b.pctx.Snapshot
	state, err := json.Marshal(snap)
	if err != nil {
		// Snapshot is plain data; marshal failure means a programming error
		// upstream, and an empty state block is still a usable prompt.
		return
	}
	sb.WriteString("World state:\n```json\n")
	sb.Write(state)
	sb.WriteString("\n```\n\n")
}

func (b *PromptBuilder) writeHistory(sb *strings.Builder) {
	history := b.pctx.History
	if len(history) > b.historyLimit {
		history = history[:b.historyLimit]
	}
	if len(history) == 0 {
		return
	}
	sb.WriteString("Recent events, most recent first:\n")
	for _, rec := range history {
		if rec.ActionText != "" {
			sb.WriteString(fmt.Sprintf("- %s: %q -> %s\n",
				rec.CharacterName, rec.ActionText, truncate(rec.Narrative, 200)))
		} else {
			sb.WriteString("- " + truncate(rec.Narrative, 200) + "\n")
		}
	}
	sb.WriteString("\n")
}

func (b *PromptBuilder) writeAction(sb *strings.Builder) {
	sb.WriteString(fmt.Sprintf("%s acts: %q\n", b.pctx.CharacterName, b.pctx.ActionText))

	var kind intent.Kind
	if b.pctx.Intent != nil {
		kind = b.pctx.Intent.Kind
	}
	switch kind {
	case intent.KindSkillCheck:
		if r := b.pctx.Check; r != nil {
			sb.WriteString(fmt.Sprintf(
				"This was a %s check against DC %d: rolled %d for a total of %d, %s.\n",
				SkillDisplayName(r.Skill), r.FinalDC, r.Roll, r.Total, verdictPhrase(r.Verdict)))
			sb.WriteString("Narrate the attempt and its outcome accordingly; the verdict is final.\n")
		}
	case intent.KindUnrecognized:
		sb.WriteString("The action was unclear. Narrate the scene holding steady and have ")
		sb.WriteString("the world gently ask what the player means to do. Leave the delta empty.\n")
	default:
		sb.WriteString("This is a free action with no rule check; narrate its natural consequences.\n")
	}
	sb.WriteString("\n")
}

func verdictPhrase(v check.Verdict) string {
	switch v {
	case check.VerdictCriticalSuccess:
		return "a critical success"
	case check.VerdictCriticalFailure:
		return "a critical failure"
	case check.VerdictSuccess:
		return "a success"
	default:
		return "a failure"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
