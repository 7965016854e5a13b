package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hooch88/justicar/internal/gmerrors"
	"github.com/hooch88/justicar/internal/logger"
	"github.com/hooch88/justicar/internal/narrative"
	"github.com/hooch88/justicar/pkg/campaign"
	"github.com/hooch88/justicar/pkg/character"
	"github.com/hooch88/justicar/pkg/check"
	"github.com/hooch88/justicar/pkg/event"
	"github.com/hooch88/justicar/pkg/intent"
	"github.com/hooch88/justicar/pkg/storage"
	"github.com/hooch88/justicar/pkg/textfilter"
)

// DefaultNarrativeTimeout bounds a single narrative provider call.
const DefaultNarrativeTimeout = 30 * time.Second

// StoryCompleteMessage is returned for turns submitted after the story has
// reached its ending.
const StoryCompleteMessage = "The story has reached its end. Start a new campaign to play again."

// Turn pipeline phases, reported over the progress channel as the turn
// advances.
const (
	PhaseInterpreting = "interpreting"
	PhaseRolling      = "rolling"
	PhaseNarrating    = "narrating"
	PhaseCommitting   = "committing"
)

// Base difficulty class by campaign difficulty setting.
var baseDCs = map[string]int{
	"easy":     12,
	"standard": 15,
	"hard":     18,
}

// TurnRequest is one player action submitted for resolution.
type TurnRequest struct {
	CampaignID    uuid.UUID
	CharacterName string
	ActionText    string

	// Progress, when set, receives phase names as the turn advances.
	// Sends never block; a slow consumer just misses updates.
	Progress chan<- string
}

// TurnResult is the outcome of one processed turn.
type TurnResult struct {
	DMResponse        string        `json:"dm_response"`
	RuleResult        *check.Result `json:"rule_result,omitempty"`
	StoryCompleted    bool          `json:"story_completed"`
	RequiresNewAction bool          `json:"requires_new_action"`
	Err               string        `json:"error,omitempty"`
}

// Orchestrator drives the per-turn pipeline: interpret the action, resolve
// any rule check, generate narrative, and commit the resulting state
// changes. At most one turn per campaign is in flight at a time.
type Orchestrator struct {
	store       storage.Store
	tracker     *Tracker
	interpreter intent.Interpreter
	resolver    *check.Resolver
	generator   narrative.Generator
	filter      *textfilter.Filter
	logger      *slog.Logger
	timeout     time.Duration

	mu       sync.Mutex
	inFlight map[uuid.UUID]bool
}

// NewOrchestrator wires the turn pipeline. A zero timeout falls back to
// DefaultNarrativeTimeout.
func NewOrchestrator(store storage.Store, tracker *Tracker, interpreter intent.Interpreter,
	resolver *check.Resolver, generator narrative.Generator, timeout time.Duration,
	logger *slog.Logger) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultNarrativeTimeout
	}
	return &Orchestrator{
		store:       store,
		tracker:     tracker,
		interpreter: interpreter,
		resolver:    resolver,
		generator:   generator,
		filter:      textfilter.New(),
		logger:      logger,
		timeout:     timeout,
		inFlight:    make(map[uuid.UUID]bool),
	}
}

// tryBegin reserves the campaign's turn slot. Returns false if a turn is
// already being processed for it.
func (o *Orchestrator) tryBegin(campaignID uuid.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inFlight[campaignID] {
		return false
	}
	o.inFlight[campaignID] = true
	return true
}

func (o *Orchestrator) end(campaignID uuid.UUID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inFlight, campaignID)
}

func report(progress chan<- string, phase string) {
	if progress == nil {
		return
	}
	select {
	case progress <- phase:
	default:
	}
}

// ProcessTurn runs one player action through the full pipeline. On failure
// the returned result carries the error message and no world state has
// changed; the campaign is immediately ready for the next action.
func (o *Orchestrator) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	if strings.TrimSpace(req.ActionText) == "" {
		err := gmerrors.InvalidArgument("action text is required")
		return &TurnResult{Err: err.Error(), RequiresNewAction: true}, err
	}

	if !o.tryBegin(req.CampaignID) {
		err := gmerrors.TurnInProgress(req.CampaignID.String())
		return &TurnResult{Err: err.Error()}, err
	}
	defer o.end(req.CampaignID)

	result, err := o.processTurn(ctx, req)
	if err != nil {
		logger.WithCampaign(o.logger, req.CampaignID).Error("Turn failed",
			"error", err, "character", req.CharacterName)
		if result == nil {
			result = &TurnResult{}
		}
		result.Err = err.Error()
		return result, err
	}
	return result, nil
}

func (o *Orchestrator) processTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	c, err := o.store.GetCampaign(ctx, req.CampaignID)
	if err != nil {
		return nil, gmerrors.Wrap(err, "failed to load campaign")
	}
	if c == nil {
		return nil, gmerrors.UnknownCampaign(req.CampaignID)
	}
	if c.Halted {
		return nil, gmerrors.CampaignHalted(req.CampaignID)
	}
	if c.Ended {
		return &TurnResult{DMResponse: StoryCompleteMessage, StoryCompleted: true}, nil
	}

	actor, err := o.store.GetCharacter(ctx, req.CampaignID, req.CharacterName)
	if err != nil {
		return nil, gmerrors.Wrap(err, "failed to load character")
	}
	if actor == nil {
		return nil, gmerrors.UnknownCharacter(req.CharacterName)
	}

	snap, err := o.tracker.Snapshot(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}

	report(req.Progress, PhaseInterpreting)
	in, err := o.interpreter.Interpret(ctx, req.ActionText, intent.Context{
		LocationName:  snap.Location,
		QuestSummary:  snap.QuestTitle,
		CharacterName: actor.Name,
		Flags:         snap.FlagsCopy(),
	})
	if err != nil {
		return nil, gmerrors.Wrap(err, "failed to interpret action")
	}

	// An interpreter proposing a skill the rules don't know degrades to a
	// free action rather than failing the turn.
	if in.Kind == intent.KindSkillCheck && !check.KnownSkill(in.Skill) {
		o.logger.Warn("Unknown skill from interpreter; treating as free action",
			"skill", in.Skill, "campaign_id", req.CampaignID)
		in = intent.FreeAction(req.ActionText)
	}

	var ruleResult *check.Result
	if in.Kind == intent.KindSkillCheck {
		report(req.Progress, PhaseRolling)
		ruleResult, err = o.resolveCheck(c, actor, in)
		if err != nil {
			return nil, err
		}
	}

	report(req.Progress, PhaseNarrating)
	genResult, err := o.generate(ctx, narrative.PromptContext{
		Kind:          narrative.PromptTurn,
		Snapshot:      snap,
		CharacterName: actor.Name,
		ActionText:    req.ActionText,
		Intent:        &in,
		Check:         ruleResult,
		History:       o.history(ctx, req.CampaignID),
	})
	if err != nil {
		return nil, err
	}

	narration := genResult.Text
	if textfilter.ShouldFilter(snap.Tone) {
		narration = o.filter.Clean(narration)
	}

	report(req.Progress, PhaseCommitting)
	delta := genResult.Delta
	if delta == nil {
		delta = &campaign.Delta{}
	}
	postSnap, err := o.tracker.Apply(ctx, req.CampaignID, delta)
	if err != nil {
		return nil, err
	}

	if genResult.StoryCompleted {
		if err := o.tracker.MarkEnded(ctx, req.CampaignID); err != nil {
			return nil, err
		}
	}

	rec := event.New(req.CampaignID, actor.Name, event.TypeAction)
	rec.ActionText = req.ActionText
	rec.Intent = &in
	rec.Check = ruleResult
	rec.Narrative = narration
	rec.FlagsChanged = delta.FlagKeys()
	if err := o.store.AppendEvent(ctx, rec); err != nil {
		o.logger.Error("Failed to append turn record", "error", err,
			"campaign_id", req.CampaignID)
	}

	result := &TurnResult{
		DMResponse:     narration,
		RuleResult:     ruleResult,
		StoryCompleted: genResult.StoryCompleted,
	}

	if genResult.StoryCompleted {
		return result, nil
	}

	if genResult.RequiresNewSituation {
		situation, err := o.situation(ctx, req.CampaignID, actor.Name, postSnap)
		if err != nil {
			// The action itself resolved; a failed follow-up situation is
			// reported but does not undo the turn.
			o.logger.Error("Failed to generate follow-up situation", "error", err,
				"campaign_id", req.CampaignID)
		} else {
			result.DMResponse = result.DMResponse + "\n\n" + situation
		}
		result.RequiresNewAction = true
	}

	return result, nil
}

func (o *Orchestrator) resolveCheck(c *campaign.Campaign, actor *character.Character, in intent.Intent) (*check.Result, error) {
	baseDC, ok := baseDCs[c.Settings.Difficulty]
	if !ok {
		baseDC = baseDCs["standard"]
	}
	ability, _ := check.AbilityForSkill(in.Skill)
	res, err := o.resolver.Resolve(check.Request{
		Skill:            in.Skill,
		BaseDC:           baseDC,
		AbilityModifier:  actor.AbilityModifier(ability),
		ProficiencyBonus: actor.ProficiencyBonus(),
	})
	if err != nil {
		return nil, gmerrors.Wrap(err, "failed to resolve check")
	}
	return res, nil
}

// generate calls the narrative provider under the configured timeout and
// maps failures into the engine's error taxonomy.
func (o *Orchestrator) generate(ctx context.Context, pctx narrative.PromptContext) (*narrative.Result, error) {
	genCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	res, err := o.generator.Generate(genCtx, pctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, gmerrors.NarrativeTimeout(err)
		}
		return nil, gmerrors.NarrativeUnavailable(err)
	}
	return res, nil
}

// situation generates and records a fresh scene prompt after a turn that
// closed out the previous one. It never mutates world state.
func (o *Orchestrator) situation(ctx context.Context, campaignID uuid.UUID, characterName string, snap campaign.Snapshot) (string, error) {
	res, err := o.generate(ctx, narrative.PromptContext{
		Kind:          narrative.PromptSituation,
		Snapshot:      snap,
		CharacterName: characterName,
		History:       o.history(ctx, campaignID),
	})
	if err != nil {
		return "", err
	}

	text := res.Text
	if textfilter.ShouldFilter(snap.Tone) {
		text = o.filter.Clean(text)
	}

	rec := event.New(campaignID, characterName, event.TypeSituation)
	rec.Narrative = text
	if err := o.store.AppendEvent(ctx, rec); err != nil {
		o.logger.Error("Failed to append situation record", "error", err,
			"campaign_id", campaignID)
	}
	return text, nil
}

func (o *Orchestrator) history(ctx context.Context, campaignID uuid.UUID) []*event.TurnRecord {
	recs, err := o.store.RecentEvents(ctx, campaignID, "", narrative.DefaultHistoryLimit)
	if err != nil {
		o.logger.Warn("Failed to load turn history", "error", err,
			"campaign_id", campaignID)
		return nil
	}
	return recs
}
