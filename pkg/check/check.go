// Package check resolves d20 skill checks deterministically given an
// injectable dice roller.
package check

import (
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/hooch88/justicar/internal/gmerrors"
)

const (
	// DieSize is the die used for all skill checks.
	DieSize = 20

	// MinDC is the floor for an adjusted difficulty class.
	MinDC = 1
)

// Verdict is the outcome classification of a resolved check.
type Verdict string

const (
	VerdictSuccess         Verdict = "success"
	VerdictFailure         Verdict = "failure"
	VerdictCriticalSuccess Verdict = "critical_success"
	VerdictCriticalFailure Verdict = "critical_failure"
)

// Success reports whether the verdict counts as a pass.
func (v Verdict) Success() bool {
	return v == VerdictSuccess || v == VerdictCriticalSuccess
}

// ModifierKind identifies a situational adjustment to the difficulty class.
type ModifierKind string

const (
	ModifierAdvantage     ModifierKind = "advantage"
	ModifierDisadvantage  ModifierKind = "disadvantage"
	ModifierEnvironmental ModifierKind = "environmental"
)

// Modifier adjusts the base DC before the roll. Advantage lowers the DC,
// disadvantage raises it, and environmental penalties carry their own value.
type Modifier struct {
	Kind  ModifierKind `json:"kind"`
	Value int          `json:"value,omitempty"` // used by environmental modifiers
}

// Adjustment returns the signed DC change this modifier contributes.
func (m Modifier) Adjustment() int {
	switch m.Kind {
	case ModifierAdvantage:
		return -2
	case ModifierDisadvantage:
		return 2
	case ModifierEnvironmental:
		return m.Value
	default:
		return 0
	}
}

// Request is the input to a skill check resolution.
type Request struct {
	Skill            string     `json:"skill"`
	BaseDC           int        `json:"base_dc"`
	Modifiers        []Modifier `json:"modifiers,omitempty"`
	AbilityModifier  int        `json:"ability_modifier"`
	ProficiencyBonus int        `json:"proficiency_bonus"`
}

// Result captures the full arithmetic of a resolved check so the narrative
// layer and turn record can report it without recomputation.
type Result struct {
	Skill            string  `json:"skill"`
	BaseDC           int     `json:"base_dc"`
	Modifier         int     `json:"modifier"`
	FinalDC          int     `json:"final_dc"`
	Roll             int     `json:"roll"`
	AbilityModifier  int     `json:"ability_modifier"`
	ProficiencyBonus int     `json:"proficiency_bonus"`
	Total            int     `json:"total"`
	Verdict          Verdict `json:"verdict"`
}

// skillAbilities maps every recognized skill to its governing ability score.
var skillAbilities = map[string]string{
	"athletics":       "strength",
	"acrobatics":      "dexterity",
	"sleight_of_hand": "dexterity",
	"stealth":         "dexterity",
	"arcana":          "intelligence",
	"history":         "intelligence",
	"investigation":   "intelligence",
	"nature":          "intelligence",
	"religion":        "intelligence",
	"animal_handling": "wisdom",
	"insight":         "wisdom",
	"medicine":        "wisdom",
	"perception":      "wisdom",
	"survival":        "wisdom",
	"deception":       "charisma",
	"intimidation":    "charisma",
	"performance":     "charisma",
	"persuasion":      "charisma",
}

// KnownSkill reports whether the resolver recognizes the skill name.
func KnownSkill(skill string) bool {
	_, ok := skillAbilities[strings.ToLower(strings.TrimSpace(skill))]
	return ok
}

// AbilityForSkill returns the ability score governing a skill.
func AbilityForSkill(skill string) (string, bool) {
	ability, ok := skillAbilities[strings.ToLower(strings.TrimSpace(skill))]
	return ability, ok
}

// Resolver resolves skill checks. The roller is injectable so outcomes are
// reproducible under test with a fixed sequence of rolls.
type Resolver struct {
	roller dice.Roller
}

// NewResolver creates a resolver backed by the given roller. A nil roller
// falls back to the toolkit's default (crypto-random) roller.
func NewResolver(roller dice.Roller) *Resolver {
	if roller == nil {
		roller = dice.DefaultRoller
	}
	return &Resolver{roller: roller}
}

// Resolve validates the request, adjusts the DC, rolls the die and returns
// the complete check arithmetic. Invalid input fails before any roll.
func (r *Resolver) Resolve(req Request) (*Result, error) {
	skill := strings.ToLower(strings.TrimSpace(req.Skill))
	if _, ok := skillAbilities[skill]; !ok {
		return nil, gmerrors.InvalidCheckRequestf("unknown skill %q", req.Skill)
	}
	if req.BaseDC < 0 {
		return nil, gmerrors.InvalidCheckRequestf("base DC cannot be negative, got %d", req.BaseDC)
	}

	adjustment := 0
	for _, m := range req.Modifiers {
		adjustment += m.Adjustment()
	}

	finalDC := req.BaseDC + adjustment
	if finalDC < MinDC {
		finalDC = MinDC
	}

	roll, err := r.roller.Roll(DieSize)
	if err != nil {
		return nil, gmerrors.Wrap(err, "dice roll failed")
	}

	total := roll + req.AbilityModifier + req.ProficiencyBonus

	var verdict Verdict
	switch {
	case roll == DieSize:
		verdict = VerdictCriticalSuccess
	case roll == 1:
		verdict = VerdictCriticalFailure
	case total >= finalDC:
		verdict = VerdictSuccess
	default:
		verdict = VerdictFailure
	}

	return &Result{
		Skill:            skill,
		BaseDC:           req.BaseDC,
		Modifier:         adjustment,
		FinalDC:          finalDC,
		Roll:             roll,
		AbilityModifier:  req.AbilityModifier,
		ProficiencyBonus: req.ProficiencyBonus,
		Total:            total,
		Verdict:          verdict,
	}, nil
}
