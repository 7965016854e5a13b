package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/hooch88/justicar/internal/gmerrors"
	"github.com/hooch88/justicar/internal/narrative"
	"github.com/hooch88/justicar/internal/storage"
	"github.com/hooch88/justicar/pkg/campaign"
	"github.com/hooch88/justicar/pkg/character"
	"github.com/hooch88/justicar/pkg/event"
	"github.com/hooch88/justicar/pkg/quest"
)

func newLifecycle(t *testing.T) (*Lifecycle, *storage.Memory, *narrative.Mock) {
	t.Helper()
	store := storage.NewMemory()
	tracker := NewTracker(store, testLogger())
	mock := narrative.NewMock()
	return NewLifecycle(store, tracker, mock, 0, testLogger()), store, mock
}

func TestStartCampaign(t *testing.T) {
	lc, store, _ := newLifecycle(t)
	ctx := context.Background()

	out, err := lc.StartCampaign(ctx, StartInput{
		Name:       "The Hollow Crown",
		Duration:   campaign.DurationMedium,
		QuestTitle: "Recover the Crown",
		QuestGoal:  "Find the stolen crown before the coronation",
	})
	if err != nil {
		t.Fatalf("StartCampaign failed: %v", err)
	}

	if out.Campaign.CurrentLocation != DefaultOpeningLocation {
		t.Errorf("CurrentLocation = %q, want default opening location", out.Campaign.CurrentLocation)
	}
	if out.Campaign.Duration != campaign.DurationMedium {
		t.Errorf("Duration = %q", out.Campaign.Duration)
	}
	if out.Opening == "" {
		t.Error("expected opening narrative")
	}

	// The seeded quest is active and returned directly.
	if out.Campaign.ActiveQuestID == uuid.Nil {
		t.Fatal("expected an active quest")
	}
	if out.MainQuest == nil || out.MainQuest.ID != out.Campaign.ActiveQuestID {
		t.Fatalf("MainQuest = %+v, want the active quest", out.MainQuest)
	}
	if out.MainQuest.Title != "Recover the Crown" || out.MainQuest.Goal == "" {
		t.Errorf("MainQuest = %+v", out.MainQuest)
	}
	q, err := store.GetQuest(ctx, out.Campaign.ActiveQuestID)
	if err != nil {
		t.Fatalf("GetQuest failed: %v", err)
	}
	if q == nil || q.Type != quest.TypeMain || q.Title != "Recover the Crown" {
		t.Errorf("quest = %+v", q)
	}

	// The opening scene is on the record.
	recs, err := store.RecentEvents(ctx, out.Campaign.ID, event.TypeOpening, 1)
	if err != nil {
		t.Fatalf("RecentEvents failed: %v", err)
	}
	if len(recs) != 1 || recs[0].Narrative == "" {
		t.Errorf("expected opening record, got %+v", recs)
	}
}

func TestStartCampaignWithoutQuest(t *testing.T) {
	lc, _, _ := newLifecycle(t)

	out, err := lc.StartCampaign(context.Background(), StartInput{
		Name:     "Wanderings",
		Duration: campaign.DurationShort,
	})
	if err != nil {
		t.Fatalf("StartCampaign failed: %v", err)
	}
	if out.Campaign.ActiveQuestID != uuid.Nil {
		t.Error("expected no active quest")
	}
	if out.MainQuest != nil {
		t.Errorf("expected no main quest, got %+v", out.MainQuest)
	}
}

func TestStartCampaignValidation(t *testing.T) {
	lc, _, _ := newLifecycle(t)
	ctx := context.Background()

	if _, err := lc.StartCampaign(ctx, StartInput{Duration: campaign.DurationShort}); !gmerrors.IsCode(err, gmerrors.CodeInvalidArgument) {
		t.Errorf("expected invalid argument for missing name, got %v", err)
	}
	if _, err := lc.StartCampaign(ctx, StartInput{Name: "X", Duration: "FOREVER"}); !gmerrors.IsCode(err, gmerrors.CodeInvalidArgument) {
		t.Errorf("expected invalid argument for bad duration, got %v", err)
	}
}

func TestAddCharacter(t *testing.T) {
	lc, store, _ := newLifecycle(t)
	ctx := context.Background()

	out, err := lc.StartCampaign(ctx, StartInput{Name: "Trial", Duration: campaign.DurationShort})
	if err != nil {
		t.Fatalf("StartCampaign failed: %v", err)
	}

	ch := &character.Character{Name: "Aragorn", Class: "ranger"}
	if err := lc.AddCharacter(ctx, out.Campaign.ID, ch); err != nil {
		t.Fatalf("AddCharacter failed: %v", err)
	}
	if ch.ID == uuid.Nil || ch.CampaignID != out.Campaign.ID || ch.Level != 1 {
		t.Errorf("character not initialized: %+v", ch)
	}

	// Same name again, any casing, is rejected.
	dup := &character.Character{Name: "aragorn", Class: "fighter"}
	err = lc.AddCharacter(ctx, out.Campaign.ID, dup)
	if !gmerrors.IsCode(err, gmerrors.CodeDuplicateCharacterName) {
		t.Errorf("expected duplicate character name, got %v", err)
	}

	chars, err := store.ListCharacters(ctx, out.Campaign.ID)
	if err != nil {
		t.Fatalf("ListCharacters failed: %v", err)
	}
	if len(chars) != 1 {
		t.Errorf("expected 1 character, got %d", len(chars))
	}
}

func TestAddCharacterUnknownCampaign(t *testing.T) {
	lc, _, _ := newLifecycle(t)

	err := lc.AddCharacter(context.Background(), uuid.New(),
		&character.Character{Name: "Mira"})
	if !gmerrors.IsCode(err, gmerrors.CodeUnknownCampaign) {
		t.Errorf("expected unknown campaign, got %v", err)
	}
}

func TestStatus(t *testing.T) {
	lc, _, _ := newLifecycle(t)
	ctx := context.Background()

	out, err := lc.StartCampaign(ctx, StartInput{
		Name:       "Trial",
		Duration:   campaign.DurationLong,
		QuestTitle: "Survive",
	})
	if err != nil {
		t.Fatalf("StartCampaign failed: %v", err)
	}
	if err := lc.AddCharacter(ctx, out.Campaign.ID, &character.Character{Name: "Mira"}); err != nil {
		t.Fatalf("AddCharacter failed: %v", err)
	}

	status, err := lc.Status(ctx, out.Campaign.ID)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Campaign.ID != out.Campaign.ID {
		t.Error("wrong campaign in status")
	}
	if status.Snapshot.QuestTitle != "Survive" {
		t.Errorf("Snapshot.QuestTitle = %q", status.Snapshot.QuestTitle)
	}
	if len(status.Characters) != 1 {
		t.Errorf("Characters = %+v", status.Characters)
	}
	if len(status.Recent) == 0 {
		t.Error("expected recent events to include the opening")
	}
}

func TestGenerateSituation(t *testing.T) {
	lc, store, mock := newLifecycle(t)
	ctx := context.Background()

	out, err := lc.StartCampaign(ctx, StartInput{Name: "Trial", Duration: campaign.DurationShort})
	if err != nil {
		t.Fatalf("StartCampaign failed: %v", err)
	}
	if err := lc.AddCharacter(ctx, out.Campaign.ID, &character.Character{Name: "Mira"}); err != nil {
		t.Fatalf("AddCharacter failed: %v", err)
	}

	before, err := lc.tracker.Snapshot(ctx, out.Campaign.ID)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	mock.GenerateFunc = func(_ context.Context, pctx narrative.PromptContext) (*narrative.Result, error) {
		if pctx.Kind != narrative.PromptSituation {
			t.Errorf("Kind = %q, want situation", pctx.Kind)
		}
		// A situation must never mutate, even if a provider misbehaves.
		return &narrative.Result{
			Text:  "Smoke rises beyond the hill.",
			Delta: &campaign.Delta{SetFlags: map[string]string{"fire": "true"}},
		}, nil
	}

	text, err := lc.GenerateSituation(ctx, out.Campaign.ID, "Mira")
	if err != nil {
		t.Fatalf("GenerateSituation failed: %v", err)
	}
	if !strings.Contains(text, "Smoke rises") {
		t.Errorf("situation text = %q", text)
	}

	after, err := lc.tracker.Snapshot(ctx, out.Campaign.ID)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if _, ok := after.Flags["fire"]; ok {
		t.Error("situation generation must not mutate world state")
	}
	if after.Location != before.Location {
		t.Error("situation generation must not move the campaign")
	}

	recs, err := store.RecentEvents(ctx, out.Campaign.ID, event.TypeSituation, 1)
	if err != nil {
		t.Fatalf("RecentEvents failed: %v", err)
	}
	if len(recs) != 1 {
		t.Error("expected a situation record")
	}
}

func TestGenerateSituationUnknownCharacter(t *testing.T) {
	lc, _, _ := newLifecycle(t)
	ctx := context.Background()

	out, err := lc.StartCampaign(ctx, StartInput{Name: "Trial", Duration: campaign.DurationShort})
	if err != nil {
		t.Fatalf("StartCampaign failed: %v", err)
	}

	_, err = lc.GenerateSituation(ctx, out.Campaign.ID, "Nobody")
	if !gmerrors.IsCode(err, gmerrors.CodeUnknownCharacter) {
		t.Errorf("expected unknown character, got %v", err)
	}
}
