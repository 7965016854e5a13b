package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/hooch88/justicar/internal/gmerrors"
	"github.com/hooch88/justicar/pkg/campaign"
	"github.com/hooch88/justicar/pkg/quest"
	"github.com/hooch88/justicar/pkg/storage"
	"github.com/hooch88/justicar/pkg/world"
)

// Tracker is the world state tracker: it serves consistent snapshots and
// applies one mutation batch per turn. A per-campaign lock guarantees a
// reader sees either the pre-turn or the fully post-turn state, never a
// half-applied batch. Campaigns are independent; their locks never contend
// with each other.
type Tracker struct {
	store  storage.Store
	logger *slog.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.RWMutex
}

// NewTracker creates a tracker over the given store.
func NewTracker(store storage.Store, logger *slog.Logger) *Tracker {
	return &Tracker{
		store:  store,
		logger: logger,
		locks:  make(map[uuid.UUID]*sync.RWMutex),
	}
}

func (t *Tracker) lockFor(campaignID uuid.UUID) *sync.RWMutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	l, ok := t.locks[campaignID]
	if !ok {
		l = &sync.RWMutex{}
		t.locks[campaignID] = l
	}
	return l
}

// Snapshot returns a consistent point-in-time view of a campaign. It also
// verifies the current-location invariant: a campaign pointing at a
// location it does not own is corrupt, halts, and fails fast.
func (t *Tracker) Snapshot(ctx context.Context, campaignID uuid.UUID) (campaign.Snapshot, error) {
	l := t.lockFor(campaignID)
	l.RLock()
	defer l.RUnlock()
	return t.snapshotLocked(ctx, campaignID)
}

func (t *Tracker) snapshotLocked(ctx context.Context, campaignID uuid.UUID) (campaign.Snapshot, error) {
	c, err := t.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return campaign.Snapshot{}, gmerrors.Wrap(err, "failed to load campaign")
	}
	if c == nil {
		return campaign.Snapshot{}, gmerrors.UnknownCampaign(campaignID)
	}
	if c.Halted {
		return campaign.Snapshot{}, gmerrors.CampaignHalted(campaignID)
	}

	snap := campaign.Snapshot{
		CampaignID: c.ID,
		Name:       c.Name,
		Location:   c.CurrentLocation,
		Flags:      c.Flags,
		Tone:       c.Settings.Tone,
		StoryEnded: c.Ended,
		TakenAt:    c.UpdatedAt,
	}

	if c.CurrentLocation != "" {
		loc, err := t.store.GetLocation(ctx, campaignID, c.CurrentLocation)
		if err != nil {
			return campaign.Snapshot{}, gmerrors.Wrap(err, "failed to load current location")
		}
		if loc == nil {
			// Invariant violation: the campaign points at a location it does
			// not own. Halt the campaign pending manual recovery.
			t.logger.Error("Campaign current-location invariant violated; halting",
				"campaign_id", campaignID, "location", c.CurrentLocation)
			c.Halted = true
			if saveErr := t.store.SaveCampaign(ctx, c); saveErr != nil {
				t.logger.Error("Failed to persist campaign halt", "error", saveErr,
					"campaign_id", campaignID)
			}
			return campaign.Snapshot{}, gmerrors.CampaignHalted(campaignID)
		}
		snap.NPCsPresent = loc.NPCs
	}

	if c.ActiveQuestID != uuid.Nil {
		q, err := t.store.GetQuest(ctx, c.ActiveQuestID)
		if err != nil {
			return campaign.Snapshot{}, gmerrors.Wrap(err, "failed to load active quest")
		}
		if q != nil {
			snap.QuestTitle = q.Title
			snap.QuestGoal = q.Goal
			snap.QuestDone = q.Completed
		}
	}

	chars, err := t.store.ListCharacters(ctx, campaignID)
	if err != nil {
		return campaign.Snapshot{}, gmerrors.Wrap(err, "failed to list characters")
	}
	for _, ch := range chars {
		snap.Characters = append(snap.Characters, ch.Name)
	}

	return snap, nil
}

// Apply validates and applies one mutation batch atomically, returning the
// post-turn snapshot. Mutations referencing a location or NPC the campaign
// does not own are dropped individually; the rest of the batch still
// applies. A store failure partway rolls back the records already written,
// so the pre-turn snapshot stays observable.
func (t *Tracker) Apply(ctx context.Context, campaignID uuid.UUID, delta *campaign.Delta) (campaign.Snapshot, error) {
	l := t.lockFor(campaignID)
	l.Lock()
	defer l.Unlock()

	c, err := t.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return campaign.Snapshot{}, gmerrors.Wrap(err, "failed to load campaign")
	}
	if c == nil {
		return campaign.Snapshot{}, gmerrors.UnknownCampaign(campaignID)
	}
	if c.Halted {
		return campaign.Snapshot{}, gmerrors.CampaignHalted(campaignID)
	}

	if delta == nil || delta.IsEmpty() {
		return t.snapshotLocked(ctx, campaignID)
	}

	// Validate references up front so dropped mutations never reach the store.
	applyLocation := ""
	if delta.SetLocation != "" {
		loc, err := t.store.GetLocation(ctx, campaignID, delta.SetLocation)
		if err != nil {
			return campaign.Snapshot{}, gmerrors.Wrap(err, "failed to validate location mutation")
		}
		if loc == nil {
			t.logger.Warn("Dropping mutation for unknown location",
				"campaign_id", campaignID, "location", delta.SetLocation)
		} else {
			applyLocation = loc.Name
		}
	}

	// Originals captured during validation double as rollback records, so the
	// write phase never depends on a second read succeeding.
	var npcMoves, npcOrigs []*world.NPC
	for _, mv := range delta.MovedNPCs {
		npc, err := t.store.GetNPC(ctx, campaignID, mv.Name)
		if err != nil {
			return campaign.Snapshot{}, gmerrors.Wrap(err, "failed to validate npc mutation")
		}
		if npc == nil {
			t.logger.Warn("Dropping mutation for unknown NPC",
				"campaign_id", campaignID, "npc", mv.Name)
			continue
		}
		dest, err := t.store.GetLocation(ctx, campaignID, mv.To)
		if err != nil {
			return campaign.Snapshot{}, gmerrors.Wrap(err, "failed to validate npc destination")
		}
		if dest == nil {
			t.logger.Warn("Dropping NPC move to unknown location",
				"campaign_id", campaignID, "npc", mv.Name, "location", mv.To)
			continue
		}
		orig := *npc
		npc.Location = dest.Name
		npcMoves = append(npcMoves, npc)
		npcOrigs = append(npcOrigs, &orig)
	}

	var questUpdate, questOrig *quest.Quest
	if (delta.CompleteQuest || delta.SetQuestTitle != "") && c.ActiveQuestID != uuid.Nil {
		q, err := t.store.GetQuest(ctx, c.ActiveQuestID)
		if err != nil {
			return campaign.Snapshot{}, gmerrors.Wrap(err, "failed to load active quest")
		}
		if q != nil {
			orig := *q
			questOrig = &orig
			if delta.CompleteQuest {
				q.Complete()
			}
			if delta.SetQuestTitle != "" {
				q.Title = delta.SetQuestTitle
			}
			questUpdate = q
		}
	}

	// Write phase. A failure partway rolls back the writes already made.
	rollback := t.beginRollback(campaignID)

	if questUpdate != nil {
		if err := t.store.SaveQuest(ctx, questUpdate); err != nil {
			rollback.run(ctx)
			return campaign.Snapshot{}, gmerrors.Wrap(err, "failed to apply quest mutation")
		}
		rollback.add(func(ctx context.Context) error { return t.store.SaveQuest(ctx, questOrig) })
	}

	for i, npc := range npcMoves {
		orig := npcOrigs[i]
		if err := t.store.SaveNPC(ctx, npc); err != nil {
			rollback.run(ctx)
			return campaign.Snapshot{}, gmerrors.Wrap(err, "failed to apply npc mutation")
		}
		rollback.add(func(ctx context.Context) error { return t.store.SaveNPC(ctx, orig) })
	}

	if applyLocation != "" {
		c.CurrentLocation = applyLocation
	}
	for k, v := range delta.SetFlags {
		c.SetFlag(k, v)
	}
	if err := t.store.SaveCampaign(ctx, c); err != nil {
		rollback.run(ctx)
		return campaign.Snapshot{}, gmerrors.Wrap(err, "failed to apply campaign mutation")
	}

	return t.snapshotLocked(ctx, campaignID)
}

// MarkEnded records story completion on the campaign.
func (t *Tracker) MarkEnded(ctx context.Context, campaignID uuid.UUID) error {
	l := t.lockFor(campaignID)
	l.Lock()
	defer l.Unlock()

	c, err := t.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return gmerrors.Wrap(err, "failed to load campaign")
	}
	if c == nil {
		return gmerrors.UnknownCampaign(campaignID)
	}
	c.Ended = true
	if err := t.store.SaveCampaign(ctx, c); err != nil {
		return gmerrors.Wrap(err, "failed to mark campaign ended")
	}
	return nil
}

// rollbackLog collects compensating writes for a partially applied batch.
type rollbackLog struct {
	tracker    *Tracker
	campaignID uuid.UUID
	undo       []func(context.Context) error
}

func (t *Tracker) beginRollback(campaignID uuid.UUID) *rollbackLog {
	return &rollbackLog{tracker: t, campaignID: campaignID}
}

func (r *rollbackLog) add(fn func(context.Context) error) {
	r.undo = append(r.undo, fn)
}

// run reverts writes in reverse order. Rollback failures are logged, not
// returned: the original apply error is the one the caller needs.
func (r *rollbackLog) run(ctx context.Context) {
	for i := len(r.undo) - 1; i >= 0; i-- {
		if err := r.undo[i](ctx); err != nil {
			r.tracker.logger.Error("Rollback write failed",
				"error", err, "campaign_id", r.campaignID)
		}
	}
}
