// Package campaign holds the campaign record, its point-in-time snapshot,
// and the mutation delta a turn proposes against it.
package campaign

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// Duration classifies the intended session length of a campaign.
type Duration string

const (
	DurationShort  Duration = "SHORT"
	DurationMedium Duration = "MEDIUM"
	DurationLong   Duration = "LONG"
)

// Valid reports whether the duration class is one of the known values.
func (d Duration) Valid() bool {
	switch d {
	case DurationShort, DurationMedium, DurationLong:
		return true
	}
	return false
}

// Settings are optional campaign knobs. Zero values mean defaults.
type Settings struct {
	Tone       string `json:"tone,omitempty"`       // e.g. "gritty", "heroic", "family_friendly"
	Difficulty string `json:"difficulty,omitempty"` // e.g. "easy", "standard", "hard"
}

// DefaultSettings fills in unset fields.
func DefaultSettings(s Settings) Settings {
	if s.Tone == "" {
		s.Tone = "heroic"
	}
	if s.Difficulty == "" {
		s.Difficulty = "standard"
	}
	return s
}

// Campaign is a game session. Created once at session start, mutated every
// turn, never deleted mid-session.
type Campaign struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	Duration        Duration          `json:"duration"`
	Settings        Settings          `json:"settings"`
	CurrentLocation string            `json:"current_location,omitempty"`
	ActiveQuestID   uuid.UUID         `json:"active_quest_id,omitempty"`
	Flags           map[string]string `json:"flags,omitempty"`
	Ended           bool              `json:"ended,omitempty"`  // story reached its conclusion
	Halted          bool              `json:"halted,omitempty"` // store invariant violated; turns refused
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// New creates a campaign with defaulted settings.
func New(name string, duration Duration, settings Settings) *Campaign {
	now := time.Now().UTC()
	return &Campaign{
		ID:        uuid.New(),
		Name:      name,
		Duration:  duration,
		Settings:  DefaultSettings(settings),
		Flags:     make(map[string]string),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetFlag sets or overwrites a flag by key. There is no flag deletion in
// normal play.
func (c *Campaign) SetFlag(key, value string) {
	if c.Flags == nil {
		c.Flags = make(map[string]string)
	}
	c.Flags[key] = value
}

// Snapshot is a consistent read-only view of a campaign's mutable state.
// Maps and slices are copies; holders can never observe a later mutation.
type Snapshot struct {
	CampaignID  uuid.UUID         `json:"campaign_id"`
	Name        string            `json:"name"`
	Location    string            `json:"location"`
	QuestTitle  string            `json:"quest_title,omitempty"`
	QuestGoal   string            `json:"quest_goal,omitempty"`
	QuestDone   bool              `json:"quest_done,omitempty"`
	Flags       map[string]string `json:"flags,omitempty"`
	Characters  []string          `json:"characters,omitempty"`
	NPCsPresent []string          `json:"npcs_present,omitempty"`
	Tone        string            `json:"tone,omitempty"`
	StoryEnded  bool              `json:"story_ended,omitempty"`
	TakenAt     time.Time         `json:"taken_at"`
}

// FlagsCopy returns a defensive copy of the snapshot flags.
func (s Snapshot) FlagsCopy() map[string]string {
	out := make(map[string]string, len(s.Flags))
	maps.Copy(out, s.Flags)
	return out
}
