// Package character holds the player character model and the ability math
// used by skill check resolution.
package character

import (
	"strings"

	"github.com/google/uuid"
)

// Abilities are the six core ability scores.
type Abilities struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Score returns the raw score for an ability name and whether the name is a
// recognized ability.
func (a Abilities) Score(ability string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(ability)) {
	case "strength":
		return a.Strength, true
	case "dexterity":
		return a.Dexterity, true
	case "constitution":
		return a.Constitution, true
	case "intelligence":
		return a.Intelligence, true
	case "wisdom":
		return a.Wisdom, true
	case "charisma":
		return a.Charisma, true
	default:
		return 0, false
	}
}

// Modifier converts an ability score to its modifier: floor((score-10)/2).
func Modifier(score int) int {
	// Integer division truncates toward zero; shift so odd scores below 10
	// still round down.
	if score >= 10 {
		return (score - 10) / 2
	}
	return (score - 11) / 2
}

// Character is a player character within a campaign. Identity fields are
// immutable after creation; ability scores are stable inputs to modifiers.
type Character struct {
	ID         uuid.UUID `json:"id"`
	CampaignID uuid.UUID `json:"campaign_id"`
	Name       string    `json:"name"`
	Class      string    `json:"class,omitempty"`
	Race       string    `json:"race,omitempty"`
	Level      int       `json:"level"`
	Abilities  Abilities `json:"abilities"`
	Background string    `json:"background,omitempty"`
	Alignment  string    `json:"alignment,omitempty"`
}

// AbilityModifier returns the modifier for the named ability score. Unknown
// ability names contribute no modifier.
func (c *Character) AbilityModifier(ability string) int {
	score, ok := c.Abilities.Score(ability)
	if !ok {
		return 0
	}
	return Modifier(score)
}

// ProficiencyBonus derives the bonus from character level. Level 0 or below
// is treated as level 1.
func (c *Character) ProficiencyBonus() int {
	level := c.Level
	if level < 1 {
		level = 1
	}
	return 2 + (level-1)/4
}
