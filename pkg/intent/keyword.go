package intent

import (
	"context"
	"strings"
)

// skillLexicon maps action verbs and phrases to the skill they exercise.
// First match wins; longer phrases are checked before single verbs.
var skillLexicon = []struct {
	phrase string
	skill  string
}{
	{"sleight of hand", "sleight_of_hand"},
	{"pick the lock", "sleight_of_hand"},
	{"pickpocket", "sleight_of_hand"},
	{"calm the", "animal_handling"},
	{"climb", "athletics"},
	{"jump", "athletics"},
	{"leap", "athletics"},
	{"swim", "athletics"},
	{"grapple", "athletics"},
	{"shove", "athletics"},
	{"balance", "acrobatics"},
	{"tumble", "acrobatics"},
	{"flip", "acrobatics"},
	{"dodge", "acrobatics"},
	{"sneak", "stealth"},
	{"hide", "stealth"},
	{"creep", "stealth"},
	{"search", "investigation"},
	{"investigate", "investigation"},
	{"examine", "investigation"},
	{"inspect", "investigation"},
	{"recall", "history"},
	{"decipher", "arcana"},
	{"identify the spell", "arcana"},
	{"pray", "religion"},
	{"track", "survival"},
	{"forage", "survival"},
	{"navigate", "survival"},
	{"heal", "medicine"},
	{"treat the wound", "medicine"},
	{"listen", "perception"},
	{"spot", "perception"},
	{"watch for", "perception"},
	{"notice", "perception"},
	{"sense motive", "insight"},
	{"read their", "insight"},
	{"persuade", "persuasion"},
	{"convince", "persuasion"},
	{"negotiate", "persuasion"},
	{"bargain", "persuasion"},
	{"lie", "deception"},
	{"bluff", "deception"},
	{"deceive", "deception"},
	{"trick", "deception"},
	{"intimidate", "intimidation"},
	{"threaten", "intimidation"},
	{"menace", "intimidation"},
	{"perform", "performance"},
	{"sing", "performance"},
	{"dance", "performance"},
	{"play the", "performance"},
	{"tame", "animal_handling"},
	{"ride", "animal_handling"},
}

// freeActionPrefixes are openings that read as plain narration rather than
// a rules contest: movement, speech and observation.
var freeActionPrefixes = []string{
	"i go", "i walk", "i head", "i enter", "i leave", "i move",
	"i say", "i tell", "i ask", "i greet", "i talk", "i speak",
	"i look around", "i wait", "i rest", "i sit", "i stand",
	"i draw", "i sheathe", "i pick up", "i drop", "i open", "i close",
}

// KeywordInterpreter classifies actions with a local verb lexicon. It is the
// default interpreter: deterministic and free of provider calls.
type KeywordInterpreter struct{}

// NewKeywordInterpreter creates the lexicon-backed interpreter.
func NewKeywordInterpreter() *KeywordInterpreter {
	return &KeywordInterpreter{}
}

// Interpret classifies rawText. A skill match wins over a free-action match:
// "I sneak past the guard" is a stealth check even though it is also
// movement. Text with no recognizable verb becomes an unrecognized intent.
func (k *KeywordInterpreter) Interpret(_ context.Context, rawText string, _ Context) (Intent, error) {
	text := strings.ToLower(strings.TrimSpace(rawText))
	if text == "" {
		return Unrecognized("empty action"), nil
	}

	for _, entry := range skillLexicon {
		if idx := strings.Index(text, entry.phrase); idx >= 0 {
			target := strings.TrimSpace(text[idx+len(entry.phrase):])
			target = strings.TrimPrefix(target, "the ")
			return SkillCheck(entry.skill, target), nil
		}
	}

	for _, prefix := range freeActionPrefixes {
		if strings.HasPrefix(text, prefix) {
			return FreeAction(strings.TrimSpace(rawText)), nil
		}
	}

	// A sentence with a first-person verb still reads as a free action.
	if strings.HasPrefix(text, "i ") && len(strings.Fields(text)) >= 2 {
		return FreeAction(strings.TrimSpace(rawText)), nil
	}

	return Unrecognized("could not tell what action was intended"), nil
}
