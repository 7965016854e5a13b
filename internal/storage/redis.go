// Package storage implements the persistence contracts from pkg/storage:
// a Redis-backed store for live sessions and an in-memory store for tests
// and the console's offline mode.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hooch88/justicar/pkg/campaign"
	"github.com/hooch88/justicar/pkg/character"
	"github.com/hooch88/justicar/pkg/event"
	"github.com/hooch88/justicar/pkg/quest"
	"github.com/hooch88/justicar/pkg/storage"
	"github.com/hooch88/justicar/pkg/world"
)

const (
	campaignKeyPrefix  = "campaign:"
	characterKeyPrefix = "character:"
	questKeyPrefix     = "quest:"
	locationKeyPrefix  = "location:"
	npcKeyPrefix       = "npc:"
	eventsKeyPrefix    = "events:"

	characterIndexSuffix = ":characters"
	questIndexSuffix     = ":quests"
	locationIndexSuffix  = ":locations"
	npcIndexSuffix       = ":npcs"
)

// Redis implements storage.Store with key-per-record JSON values and
// per-campaign index sets.
type Redis struct {
	client *redis.Client
	logger *slog.Logger
}

var _ storage.Store = (*Redis)(nil)

// NewRedis creates a Redis store from an address like "localhost:6379" or a
// redis:// URL.
func NewRedis(redisURL string, logger *slog.Logger) (*Redis, error) {
	var opts *redis.Options
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: redisURL}
	}
	return &Redis{
		client: redis.NewClient(opts),
		logger: logger,
	}, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	return nil
}

// WaitForConnection waits for Redis to become available during startup.
func (r *Redis) WaitForConnection(ctx context.Context) error {
	const maxRetries = 30
	const retryDelay = 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}
		r.logger.Info("Redis connection established")
		return nil
	}
	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// nameKey builds a campaign-scoped key for name-unique records.
func nameKey(prefix string, campaignID uuid.UUID, name string) string {
	return prefix + campaignID.String() + ":" + strings.ToLower(strings.TrimSpace(name))
}

func (r *Redis) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// getJSON loads a key into out, returning false when the key does not exist.
func (r *Redis) getJSON(ctx context.Context, key string, out any) (bool, error) {
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

// Campaign operations

func (r *Redis) SaveCampaign(ctx context.Context, c *campaign.Campaign) error {
	c.UpdatedAt = time.Now().UTC()
	return r.setJSON(ctx, campaignKeyPrefix+c.ID.String(), c)
}

func (r *Redis) GetCampaign(ctx context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	var c campaign.Campaign
	ok, err := r.getJSON(ctx, campaignKeyPrefix+id.String(), &c)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

// Character operations

func (r *Redis) SaveCharacter(ctx context.Context, c *character.Character) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, nameKey(characterKeyPrefix, c.CampaignID, c.Name), data, 0)
	pipe.SAdd(ctx, campaignKeyPrefix+c.CampaignID.String()+characterIndexSuffix, c.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save character: %w", err)
	}
	return nil
}

func (r *Redis) GetCharacter(ctx context.Context, campaignID uuid.UUID, name string) (*character.Character, error) {
	var c character.Character
	ok, err := r.getJSON(ctx, nameKey(characterKeyPrefix, campaignID, name), &c)
	if err != nil || !ok {
		return nil, err
	}
	return &c, nil
}

func (r *Redis) ListCharacters(ctx context.Context, campaignID uuid.UUID) ([]*character.Character, error) {
	names, err := r.client.SMembers(ctx, campaignKeyPrefix+campaignID.String()+characterIndexSuffix).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}
	chars := make([]*character.Character, 0, len(names))
	for _, name := range names {
		c, err := r.GetCharacter(ctx, campaignID, name)
		if err != nil {
			return nil, err
		}
		if c != nil {
			chars = append(chars, c)
		}
	}
	return chars, nil
}

// Quest operations

func (r *Redis) SaveQuest(ctx context.Context, q *quest.Quest) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("failed to marshal quest: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, questKeyPrefix+q.ID.String(), data, 0)
	pipe.SAdd(ctx, campaignKeyPrefix+q.CampaignID.String()+questIndexSuffix, q.ID.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save quest: %w", err)
	}
	return nil
}

func (r *Redis) GetQuest(ctx context.Context, id uuid.UUID) (*quest.Quest, error) {
	var q quest.Quest
	ok, err := r.getJSON(ctx, questKeyPrefix+id.String(), &q)
	if err != nil || !ok {
		return nil, err
	}
	return &q, nil
}

func (r *Redis) ListQuests(ctx context.Context, campaignID uuid.UUID) ([]*quest.Quest, error) {
	ids, err := r.client.SMembers(ctx, campaignKeyPrefix+campaignID.String()+questIndexSuffix).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list quests: %w", err)
	}
	quests := make([]*quest.Quest, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			r.logger.Warn("Skipping malformed quest index entry", "value", raw)
			continue
		}
		q, err := r.GetQuest(ctx, id)
		if err != nil {
			return nil, err
		}
		if q != nil {
			quests = append(quests, q)
		}
	}
	return quests, nil
}

func (r *Redis) ListQuestsByType(ctx context.Context, campaignID uuid.UUID, typ quest.Type) ([]*quest.Quest, error) {
	all, err := r.ListQuests(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	filtered := make([]*quest.Quest, 0, len(all))
	for _, q := range all {
		if q.Type == typ {
			filtered = append(filtered, q)
		}
	}
	return filtered, nil
}

// Location operations

func (r *Redis) SaveLocation(ctx context.Context, l *world.Location) error {
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to marshal location: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, nameKey(locationKeyPrefix, l.CampaignID, l.Name), data, 0)
	pipe.SAdd(ctx, campaignKeyPrefix+l.CampaignID.String()+locationIndexSuffix, l.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save location: %w", err)
	}
	return nil
}

func (r *Redis) GetLocation(ctx context.Context, campaignID uuid.UUID, name string) (*world.Location, error) {
	var l world.Location
	ok, err := r.getJSON(ctx, nameKey(locationKeyPrefix, campaignID, name), &l)
	if err != nil || !ok {
		return nil, err
	}
	return &l, nil
}

func (r *Redis) ListLocations(ctx context.Context, campaignID uuid.UUID) ([]*world.Location, error) {
	names, err := r.client.SMembers(ctx, campaignKeyPrefix+campaignID.String()+locationIndexSuffix).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	locations := make([]*world.Location, 0, len(names))
	for _, name := range names {
		l, err := r.GetLocation(ctx, campaignID, name)
		if err != nil {
			return nil, err
		}
		if l != nil {
			locations = append(locations, l)
		}
	}
	return locations, nil
}

// NPC operations

func (r *Redis) SaveNPC(ctx context.Context, n *world.NPC) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal npc: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, nameKey(npcKeyPrefix, n.CampaignID, n.Name), data, 0)
	pipe.SAdd(ctx, campaignKeyPrefix+n.CampaignID.String()+npcIndexSuffix, n.Name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save npc: %w", err)
	}
	return nil
}

func (r *Redis) GetNPC(ctx context.Context, campaignID uuid.UUID, name string) (*world.NPC, error) {
	var n world.NPC
	ok, err := r.getJSON(ctx, nameKey(npcKeyPrefix, campaignID, name), &n)
	if err != nil || !ok {
		return nil, err
	}
	return &n, nil
}

func (r *Redis) ListNPCs(ctx context.Context, campaignID uuid.UUID) ([]*world.NPC, error) {
	names, err := r.client.SMembers(ctx, campaignKeyPrefix+campaignID.String()+npcIndexSuffix).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list npcs: %w", err)
	}
	npcs := make([]*world.NPC, 0, len(names))
	for _, name := range names {
		n, err := r.GetNPC(ctx, campaignID, name)
		if err != nil {
			return nil, err
		}
		if n != nil {
			npcs = append(npcs, n)
		}
	}
	return npcs, nil
}

// Event operations

func (r *Redis) AppendEvent(ctx context.Context, rec *event.TurnRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal turn record: %w", err)
	}
	key := eventsKeyPrefix + rec.CampaignID.String()
	if err := r.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to append turn record: %w", err)
	}
	return nil
}

func (r *Redis) RecentEvents(ctx context.Context, campaignID uuid.UUID, typ event.Type, limit int) ([]*event.TurnRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	key := eventsKeyPrefix + campaignID.String()
	raw, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read turn records: %w", err)
	}

	// Walk backwards so the newest records come first.
	records := make([]*event.TurnRecord, 0, limit)
	for i := len(raw) - 1; i >= 0 && len(records) < limit; i-- {
		var rec event.TurnRecord
		if err := json.Unmarshal([]byte(raw[i]), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal turn record: %w", err)
		}
		if typ != "" && rec.Type != typ {
			continue
		}
		records = append(records, &rec)
	}
	return records, nil
}
