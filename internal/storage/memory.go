package storage

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hooch88/justicar/pkg/campaign"
	"github.com/hooch88/justicar/pkg/character"
	"github.com/hooch88/justicar/pkg/event"
	"github.com/hooch88/justicar/pkg/quest"
	"github.com/hooch88/justicar/pkg/storage"
	"github.com/hooch88/justicar/pkg/world"
)

// Memory is an in-process implementation of storage.Store. It backs tests
// and the console's offline mode. SaveErr, when set, is returned by every
// write operation, which lets tests simulate a store failure mid-turn.
type Memory struct {
	mu         sync.RWMutex
	campaigns  map[uuid.UUID]*campaign.Campaign
	characters map[string]*character.Character
	quests     map[uuid.UUID]*quest.Quest
	locations  map[string]*world.Location
	npcs       map[string]*world.NPC
	events     map[uuid.UUID][]*event.TurnRecord

	pingErr    error
	saveErr    error
	saveCalls  int
	failOnSave int
	failOnErr  error
}

var _ storage.Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		campaigns:  make(map[uuid.UUID]*campaign.Campaign),
		characters: make(map[string]*character.Character),
		quests:     make(map[uuid.UUID]*quest.Quest),
		locations:  make(map[string]*world.Location),
		npcs:       make(map[string]*world.NPC),
		events:     make(map[uuid.UUID][]*event.TurnRecord),
	}
}

// SetPingError makes Ping fail with err (nil restores success).
func (m *Memory) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
}

// SetSaveError makes every write fail with err (nil restores success).
func (m *Memory) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// SetSaveErrorOn makes only the nth write (counting from the next one) fail
// with err; writes before and after it succeed. Tests use this to fail a
// batch partway and observe the rollback.
func (m *Memory) SetSaveErrorOn(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls = 0
	m.failOnSave = n
	m.failOnErr = err
}

// writeError is called under the write lock by every save method.
func (m *Memory) writeError() error {
	m.saveCalls++
	if m.failOnSave > 0 && m.saveCalls == m.failOnSave {
		return m.failOnErr
	}
	return m.saveErr
}

func (m *Memory) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingErr
}

func (m *Memory) Close() error { return nil }

func scopedName(campaignID uuid.UUID, name string) string {
	return campaignID.String() + ":" + strings.ToLower(strings.TrimSpace(name))
}

func (m *Memory) SaveCampaign(_ context.Context, c *campaign.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writeError(); err != nil {
		return err
	}
	cp := *c
	cp.Flags = make(map[string]string, len(c.Flags))
	for k, v := range c.Flags {
		cp.Flags[k] = v
	}
	m.campaigns[c.ID] = &cp
	return nil
}

func (m *Memory) GetCampaign(_ context.Context, id uuid.UUID) (*campaign.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.campaigns[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Flags = make(map[string]string, len(c.Flags))
	for k, v := range c.Flags {
		cp.Flags[k] = v
	}
	return &cp, nil
}

func (m *Memory) SaveCharacter(_ context.Context, c *character.Character) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writeError(); err != nil {
		return err
	}
	cp := *c
	m.characters[scopedName(c.CampaignID, c.Name)] = &cp
	return nil
}

func (m *Memory) GetCharacter(_ context.Context, campaignID uuid.UUID, name string) (*character.Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.characters[scopedName(campaignID, name)]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *Memory) ListCharacters(_ context.Context, campaignID uuid.UUID) ([]*character.Character, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*character.Character
	for _, c := range m.characters {
		if c.CampaignID == campaignID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *Memory) SaveQuest(_ context.Context, q *quest.Quest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writeError(); err != nil {
		return err
	}
	cp := *q
	m.quests[q.ID] = &cp
	return nil
}

func (m *Memory) GetQuest(_ context.Context, id uuid.UUID) (*quest.Quest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quests[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (m *Memory) ListQuests(_ context.Context, campaignID uuid.UUID) ([]*quest.Quest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*quest.Quest
	for _, q := range m.quests {
		if q.CampaignID == campaignID {
			cp := *q
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *Memory) ListQuestsByType(ctx context.Context, campaignID uuid.UUID, typ quest.Type) ([]*quest.Quest, error) {
	all, err := m.ListQuests(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	var out []*quest.Quest
	for _, q := range all {
		if q.Type == typ {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *Memory) SaveLocation(_ context.Context, l *world.Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writeError(); err != nil {
		return err
	}
	cp := *l
	m.locations[scopedName(l.CampaignID, l.Name)] = &cp
	return nil
}

func (m *Memory) GetLocation(_ context.Context, campaignID uuid.UUID, name string) (*world.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.locations[scopedName(campaignID, name)]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (m *Memory) ListLocations(_ context.Context, campaignID uuid.UUID) ([]*world.Location, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*world.Location
	for _, l := range m.locations {
		if l.CampaignID == campaignID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *Memory) SaveNPC(_ context.Context, n *world.NPC) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writeError(); err != nil {
		return err
	}
	cp := *n
	m.npcs[scopedName(n.CampaignID, n.Name)] = &cp
	return nil
}

func (m *Memory) GetNPC(_ context.Context, campaignID uuid.UUID, name string) (*world.NPC, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.npcs[scopedName(campaignID, name)]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (m *Memory) ListNPCs(_ context.Context, campaignID uuid.UUID) ([]*world.NPC, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*world.NPC
	for _, n := range m.npcs {
		if n.CampaignID == campaignID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *Memory) AppendEvent(_ context.Context, rec *event.TurnRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writeError(); err != nil {
		return err
	}
	cp := *rec
	m.events[rec.CampaignID] = append(m.events[rec.CampaignID], &cp)
	return nil
}

func (m *Memory) RecentEvents(_ context.Context, campaignID uuid.UUID, typ event.Type, limit int) ([]*event.TurnRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		return nil, nil
	}
	log := m.events[campaignID]
	out := make([]*event.TurnRecord, 0, limit)
	for i := len(log) - 1; i >= 0 && len(out) < limit; i-- {
		if typ != "" && log[i].Type != typ {
			continue
		}
		cp := *log[i]
		out = append(out, &cp)
	}
	return out, nil
}
