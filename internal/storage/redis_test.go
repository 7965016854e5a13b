package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/hooch88/justicar/pkg/campaign"
	"github.com/hooch88/justicar/pkg/character"
	"github.com/hooch88/justicar/pkg/event"
	"github.com/hooch88/justicar/pkg/quest"
	"github.com/hooch88/justicar/pkg/world"
)

func setupTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := NewRedis("redis://"+mr.Addr(), logger)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create redis store: %v", err)
	}

	return store, mr
}

func TestRedis_CampaignRoundTrip(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()
	c := campaign.New("The Sunken Keep", campaign.DurationMedium, campaign.Settings{})
	c.CurrentLocation = "The Crossroads Inn"

	if err := store.SaveCampaign(ctx, c); err != nil {
		t.Fatalf("SaveCampaign failed: %v", err)
	}

	loaded, err := store.GetCampaign(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCampaign failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected campaign, got nil")
	}
	if loaded.Name != c.Name || loaded.CurrentLocation != c.CurrentLocation {
		t.Errorf("loaded campaign mismatch: %+v", loaded)
	}
}

func TestRedis_GetCampaignMissing(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	loaded, err := store.GetCampaign(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("GetCampaign failed: %v", err)
	}
	if loaded != nil {
		t.Errorf("expected nil for missing campaign, got %+v", loaded)
	}
}

func TestRedis_CharactersByName(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()
	campaignID := uuid.New()

	for _, name := range []string{"Aragorn", "Mira"} {
		ch := &character.Character{
			ID:         uuid.New(),
			CampaignID: campaignID,
			Name:       name,
			Class:      "ranger",
			Level:      2,
		}
		if err := store.SaveCharacter(ctx, ch); err != nil {
			t.Fatalf("SaveCharacter failed: %v", err)
		}
	}

	// Lookup is case-insensitive on name.
	loaded, err := store.GetCharacter(ctx, campaignID, "aragorn")
	if err != nil {
		t.Fatalf("GetCharacter failed: %v", err)
	}
	if loaded == nil || loaded.Name != "Aragorn" {
		t.Fatalf("expected Aragorn, got %+v", loaded)
	}

	all, err := store.ListCharacters(ctx, campaignID)
	if err != nil {
		t.Fatalf("ListCharacters failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 characters, got %d", len(all))
	}

	missing, err := store.GetCharacter(ctx, campaignID, "Boromir")
	if err != nil {
		t.Fatalf("GetCharacter failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing character, got %+v", missing)
	}
}

func TestRedis_QuestsByType(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()
	campaignID := uuid.New()

	main := &quest.Quest{ID: uuid.New(), CampaignID: campaignID, Title: "Lift the Curse", Type: quest.TypeMain}
	side := &quest.Quest{ID: uuid.New(), CampaignID: campaignID, Title: "Find the Cat", Type: quest.TypeSide}
	for _, q := range []*quest.Quest{main, side} {
		if err := store.SaveQuest(ctx, q); err != nil {
			t.Fatalf("SaveQuest failed: %v", err)
		}
	}

	mains, err := store.ListQuestsByType(ctx, campaignID, quest.TypeMain)
	if err != nil {
		t.Fatalf("ListQuestsByType failed: %v", err)
	}
	if len(mains) != 1 || mains[0].Title != "Lift the Curse" {
		t.Errorf("expected one main quest, got %+v", mains)
	}
}

func TestRedis_LocationsAndNPCs(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()
	campaignID := uuid.New()

	loc := &world.Location{
		ID:         uuid.New(),
		CampaignID: campaignID,
		Name:       "Old Mill",
		NPCs:       []string{"Miller Den"},
	}
	if err := store.SaveLocation(ctx, loc); err != nil {
		t.Fatalf("SaveLocation failed: %v", err)
	}

	npc := &world.NPC{
		ID:          uuid.New(),
		CampaignID:  campaignID,
		Name:        "Miller Den",
		Location:    "Old Mill",
		Disposition: "friendly",
	}
	if err := store.SaveNPC(ctx, npc); err != nil {
		t.Fatalf("SaveNPC failed: %v", err)
	}

	gotLoc, err := store.GetLocation(ctx, campaignID, "Old Mill")
	if err != nil {
		t.Fatalf("GetLocation failed: %v", err)
	}
	if gotLoc == nil || len(gotLoc.NPCs) != 1 {
		t.Fatalf("expected location with one NPC, got %+v", gotLoc)
	}

	gotNPC, err := store.GetNPC(ctx, campaignID, "Miller Den")
	if err != nil {
		t.Fatalf("GetNPC failed: %v", err)
	}
	if gotNPC == nil || gotNPC.Location != "Old Mill" {
		t.Fatalf("expected NPC at Old Mill, got %+v", gotNPC)
	}

	// Same name in another campaign stays invisible.
	other, err := store.GetNPC(ctx, uuid.New(), "Miller Den")
	if err != nil {
		t.Fatalf("GetNPC failed: %v", err)
	}
	if other != nil {
		t.Errorf("expected nil for other campaign, got %+v", other)
	}
}

func TestRedis_EventLogOrder(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()
	campaignID := uuid.New()

	narratives := []string{"first", "second", "third"}
	for _, n := range narratives {
		rec := event.New(campaignID, "Mira", event.TypeAction)
		rec.Narrative = n
		if err := store.AppendEvent(ctx, rec); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	recent, err := store.RecentEvents(ctx, campaignID, "", 2)
	if err != nil {
		t.Fatalf("RecentEvents failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	if recent[0].Narrative != "third" || recent[1].Narrative != "second" {
		t.Errorf("expected most recent first, got %q then %q",
			recent[0].Narrative, recent[1].Narrative)
	}
}

func TestRedis_EventLogFilterByType(t *testing.T) {
	store, mr := setupTestRedis(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()
	campaignID := uuid.New()

	action := event.New(campaignID, "Mira", event.TypeAction)
	action.Narrative = "she opens the door"
	situation := event.New(campaignID, "Mira", event.TypeSituation)
	situation.Narrative = "a new scene unfolds"
	for _, rec := range []*event.TurnRecord{action, situation} {
		if err := store.AppendEvent(ctx, rec); err != nil {
			t.Fatalf("AppendEvent failed: %v", err)
		}
	}

	situations, err := store.RecentEvents(ctx, campaignID, event.TypeSituation, 10)
	if err != nil {
		t.Fatalf("RecentEvents failed: %v", err)
	}
	if len(situations) != 1 || situations[0].Type != event.TypeSituation {
		t.Errorf("expected one situation record, got %+v", situations)
	}
}
