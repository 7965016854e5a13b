// Package world holds locations and the NPCs that populate them.
package world

import "github.com/google/uuid"

// Location is a place in the game world. A campaign's current location is
// always one of its own locations.
type Location struct {
	ID          uuid.UUID `json:"id"`
	CampaignID  uuid.UUID `json:"campaign_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	NPCs        []string  `json:"npcs,omitempty"` // names of NPCs present
}

// NPC is a non-player character.
type NPC struct {
	ID          uuid.UUID `json:"id"`
	CampaignID  uuid.UUID `json:"campaign_id"`
	Name        string    `json:"name"`
	Location    string    `json:"location,omitempty"`
	Disposition string    `json:"disposition,omitempty"` // e.g. "hostile", "neutral", "friendly"
	Role        string    `json:"role,omitempty"`        // e.g. "merchant", "guard", "quest_giver"
}
