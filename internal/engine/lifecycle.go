package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hooch88/justicar/internal/gmerrors"
	"github.com/hooch88/justicar/internal/narrative"
	"github.com/hooch88/justicar/pkg/campaign"
	"github.com/hooch88/justicar/pkg/character"
	"github.com/hooch88/justicar/pkg/event"
	"github.com/hooch88/justicar/pkg/quest"
	"github.com/hooch88/justicar/pkg/storage"
	"github.com/hooch88/justicar/pkg/world"
)

// Defaults used when a new campaign does not supply its own opening.
const (
	DefaultOpeningLocation     = "The Crossroads Inn"
	defaultOpeningLocationDesc = "A weathered inn where three roads meet, busy with travelers trading news and rumors."
)

// Lifecycle manages campaign setup and out-of-turn operations: starting
// campaigns, adding characters, reporting status, and generating fresh
// situations.
type Lifecycle struct {
	store     storage.Store
	tracker   *Tracker
	generator narrative.Generator
	logger    *slog.Logger
	timeout   time.Duration
}

// NewLifecycle wires the campaign lifecycle operations. A zero timeout
// falls back to DefaultNarrativeTimeout.
func NewLifecycle(store storage.Store, tracker *Tracker, generator narrative.Generator,
	timeout time.Duration, logger *slog.Logger) *Lifecycle {
	if timeout <= 0 {
		timeout = DefaultNarrativeTimeout
	}
	return &Lifecycle{
		store:     store,
		tracker:   tracker,
		generator: generator,
		logger:    logger,
		timeout:   timeout,
	}
}

// StartInput describes a campaign to create. Only Name and Duration are
// required; everything else has sensible defaults.
type StartInput struct {
	Name     string
	Duration campaign.Duration
	Settings campaign.Settings

	// OpeningLocation overrides the default starting location.
	OpeningLocation     string
	OpeningLocationDesc string

	// QuestTitle and QuestGoal seed the campaign's main quest. Both empty
	// means the campaign starts without one.
	QuestTitle string
	QuestGoal  string
}

// StartOutput is the created campaign plus its opening narrative.
type StartOutput struct {
	Campaign  *campaign.Campaign `json:"campaign"`
	Opening   string             `json:"opening"`
	MainQuest *quest.Quest       `json:"main_quest,omitempty"`
}

// StartCampaign creates a campaign with its starting location and optional
// main quest, then generates and records the opening scene.
func (l *Lifecycle) StartCampaign(ctx context.Context, in StartInput) (*StartOutput, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, gmerrors.InvalidArgument("campaign name is required")
	}
	if !in.Duration.Valid() {
		return nil, gmerrors.InvalidArgumentf("invalid duration %q", in.Duration)
	}

	c := campaign.New(in.Name, in.Duration, in.Settings)

	locName := in.OpeningLocation
	locDesc := in.OpeningLocationDesc
	if locName == "" {
		locName = DefaultOpeningLocation
		locDesc = defaultOpeningLocationDesc
	}
	loc := &world.Location{
		ID:          uuid.New(),
		CampaignID:  c.ID,
		Name:        locName,
		Description: locDesc,
	}
	if err := l.store.SaveLocation(ctx, loc); err != nil {
		return nil, gmerrors.Wrap(err, "failed to save opening location")
	}
	c.CurrentLocation = loc.Name

	var mainQuest *quest.Quest
	if in.QuestTitle != "" || in.QuestGoal != "" {
		q := &quest.Quest{
			ID:         uuid.New(),
			CampaignID: c.ID,
			Title:      in.QuestTitle,
			Goal:       in.QuestGoal,
			Type:       quest.TypeMain,
		}
		if err := l.store.SaveQuest(ctx, q); err != nil {
			return nil, gmerrors.Wrap(err, "failed to save main quest")
		}
		c.ActiveQuestID = q.ID
		mainQuest = q
	}

	if err := l.store.SaveCampaign(ctx, c); err != nil {
		return nil, gmerrors.Wrap(err, "failed to save campaign")
	}

	snap, err := l.tracker.Snapshot(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	opening, err := l.generate(ctx, narrative.PromptContext{
		Kind:     narrative.PromptOpening,
		Snapshot: snap,
	})
	if err != nil {
		return nil, err
	}

	rec := event.New(c.ID, "", event.TypeOpening)
	rec.Narrative = opening
	if err := l.store.AppendEvent(ctx, rec); err != nil {
		l.logger.Error("Failed to append opening record", "error", err,
			"campaign_id", c.ID)
	}

	l.logger.Info("Campaign started", "campaign_id", c.ID,
		"name", c.Name, "duration", c.Duration)
	return &StartOutput{Campaign: c, Opening: opening, MainQuest: mainQuest}, nil
}

// AddCharacter registers a player character with a campaign. Names are
// unique within a campaign.
func (l *Lifecycle) AddCharacter(ctx context.Context, campaignID uuid.UUID, ch *character.Character) error {
	if ch == nil || strings.TrimSpace(ch.Name) == "" {
		return gmerrors.InvalidArgument("character name is required")
	}

	c, err := l.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return gmerrors.Wrap(err, "failed to load campaign")
	}
	if c == nil {
		return gmerrors.UnknownCampaign(campaignID)
	}

	existing, err := l.store.GetCharacter(ctx, campaignID, ch.Name)
	if err != nil {
		return gmerrors.Wrap(err, "failed to check character name")
	}
	if existing != nil {
		return gmerrors.DuplicateCharacterName(ch.Name)
	}

	if ch.ID == uuid.Nil {
		ch.ID = uuid.New()
	}
	ch.CampaignID = campaignID
	if ch.Level < 1 {
		ch.Level = 1
	}
	if err := l.store.SaveCharacter(ctx, ch); err != nil {
		return gmerrors.Wrap(err, "failed to save character")
	}

	l.logger.Info("Character added", "campaign_id", campaignID,
		"character", ch.Name, "class", ch.Class)
	return nil
}

// CampaignStatus is a read-only report of where a campaign stands.
type CampaignStatus struct {
	Campaign   *campaign.Campaign     `json:"campaign"`
	Snapshot   campaign.Snapshot      `json:"snapshot"`
	Characters []*character.Character `json:"characters"`
	Recent     []*event.TurnRecord    `json:"recent_events,omitempty"`
}

// statusEventLimit caps the recent-event tail returned by Status.
const statusEventLimit = 5

// Status reports a campaign's current state and its most recent turns.
func (l *Lifecycle) Status(ctx context.Context, campaignID uuid.UUID) (*CampaignStatus, error) {
	c, err := l.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, gmerrors.Wrap(err, "failed to load campaign")
	}
	if c == nil {
		return nil, gmerrors.UnknownCampaign(campaignID)
	}

	snap, err := l.tracker.Snapshot(ctx, campaignID)
	if err != nil && !gmerrors.IsCode(err, gmerrors.CodeCampaignHalted) {
		return nil, err
	}

	chars, err := l.store.ListCharacters(ctx, campaignID)
	if err != nil {
		return nil, gmerrors.Wrap(err, "failed to list characters")
	}

	recent, err := l.store.RecentEvents(ctx, campaignID, "", statusEventLimit)
	if err != nil {
		l.logger.Warn("Failed to load recent events", "error", err,
			"campaign_id", campaignID)
	}

	return &CampaignStatus{
		Campaign:   c,
		Snapshot:   snap,
		Characters: chars,
		Recent:     recent,
	}, nil
}

// GenerateSituation produces a fresh scene for the given character and
// records it. World state is never mutated.
func (l *Lifecycle) GenerateSituation(ctx context.Context, campaignID uuid.UUID, characterName string) (string, error) {
	ch, err := l.store.GetCharacter(ctx, campaignID, characterName)
	if err != nil {
		return "", gmerrors.Wrap(err, "failed to load character")
	}
	if ch == nil {
		return "", gmerrors.UnknownCharacter(characterName)
	}

	snap, err := l.tracker.Snapshot(ctx, campaignID)
	if err != nil {
		return "", err
	}
	if snap.StoryEnded {
		return "", gmerrors.Newf(gmerrors.CodeInvalidArgument, "story has already ended")
	}

	text, err := l.generate(ctx, narrative.PromptContext{
		Kind:          narrative.PromptSituation,
		Snapshot:      snap,
		CharacterName: ch.Name,
	})
	if err != nil {
		return "", err
	}

	rec := event.New(campaignID, ch.Name, event.TypeSituation)
	rec.Narrative = text
	if err := l.store.AppendEvent(ctx, rec); err != nil {
		l.logger.Error("Failed to append situation record", "error", err,
			"campaign_id", campaignID)
	}
	return text, nil
}

func (l *Lifecycle) generate(ctx context.Context, pctx narrative.PromptContext) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	res, err := l.generator.Generate(genCtx, pctx)
	if err != nil {
		if genCtx.Err() != nil {
			return "", gmerrors.NarrativeTimeout(err)
		}
		return "", gmerrors.NarrativeUnavailable(err)
	}
	return res.Text, nil
}
