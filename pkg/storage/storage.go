// Package storage defines the persistence contracts the engine consumes.
// Each entity has its own repository interface; Store aggregates them for
// wiring. Implementations live in internal/storage.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/hooch88/justicar/pkg/campaign"
	"github.com/hooch88/justicar/pkg/character"
	"github.com/hooch88/justicar/pkg/event"
	"github.com/hooch88/justicar/pkg/quest"
	"github.com/hooch88/justicar/pkg/world"
)

// CampaignRepo persists campaigns.
type CampaignRepo interface {
	SaveCampaign(ctx context.Context, c *campaign.Campaign) error
	// GetCampaign returns nil when the campaign does not exist.
	GetCampaign(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error)
}

// CharacterRepo persists characters. Names are unique within a campaign.
type CharacterRepo interface {
	SaveCharacter(ctx context.Context, c *character.Character) error
	// GetCharacter returns nil when no character has that name in the campaign.
	GetCharacter(ctx context.Context, campaignID uuid.UUID, name string) (*character.Character, error)
	ListCharacters(ctx context.Context, campaignID uuid.UUID) ([]*character.Character, error)
}

// QuestRepo persists quests.
type QuestRepo interface {
	SaveQuest(ctx context.Context, q *quest.Quest) error
	GetQuest(ctx context.Context, id uuid.UUID) (*quest.Quest, error)
	ListQuests(ctx context.Context, campaignID uuid.UUID) ([]*quest.Quest, error)
	ListQuestsByType(ctx context.Context, campaignID uuid.UUID, typ quest.Type) ([]*quest.Quest, error)
}

// LocationRepo persists locations.
type LocationRepo interface {
	SaveLocation(ctx context.Context, l *world.Location) error
	GetLocation(ctx context.Context, campaignID uuid.UUID, name string) (*world.Location, error)
	ListLocations(ctx context.Context, campaignID uuid.UUID) ([]*world.Location, error)
}

// NPCRepo persists NPCs.
type NPCRepo interface {
	SaveNPC(ctx context.Context, n *world.NPC) error
	GetNPC(ctx context.Context, campaignID uuid.UUID, name string) (*world.NPC, error)
	ListNPCs(ctx context.Context, campaignID uuid.UUID) ([]*world.NPC, error)
}

// EventRepo persists the append-only turn record log.
type EventRepo interface {
	AppendEvent(ctx context.Context, rec *event.TurnRecord) error
	// RecentEvents returns up to limit records, most recent first. An empty
	// typ matches all record types.
	RecentEvents(ctx context.Context, campaignID uuid.UUID, typ event.Type, limit int) ([]*event.TurnRecord, error)
}

// Store aggregates all repositories with health and lifecycle hooks.
type Store interface {
	CampaignRepo
	CharacterRepo
	QuestRepo
	LocationRepo
	NPCRepo
	EventRepo

	// Ping tests the storage connection.
	Ping(ctx context.Context) error
	// Close releases the storage connection.
	Close() error
}
