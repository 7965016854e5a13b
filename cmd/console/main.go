package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hooch88/justicar/pkg/campaign"
	"github.com/hooch88/justicar/pkg/character"
)

type ConsoleConfig struct {
	APIBaseURL string
	Timeout    time.Duration
}

var durations = []campaign.Duration{
	campaign.DurationShort,
	campaign.DurationMedium,
	campaign.DurationLong,
}

func main() {
	cfg := &ConsoleConfig{
		APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8080"),
		Timeout:    90 * time.Second,
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
	}

	if !testConnection(client, cfg.APIBaseURL) {
		fmt.Fprintf(os.Stderr, "Could not connect to API. Please ensure the API is running.\nTry: docker-compose up -d\n")
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)

	campaignName := promptLine(reader, "Campaign name", "A New Adventure")

	fmt.Println("\nCampaign length:")
	for i, d := range durations {
		fmt.Printf("  %d - %s\n", i+1, d)
	}
	fmt.Print("\nSelect a length by number: ")
	var choice int
	if _, err := fmt.Fscanf(reader, "%d\n", &choice); err != nil || choice < 1 || choice > len(durations) {
		fmt.Fprintf(os.Stderr, "Invalid selection\n")
		os.Exit(1)
	}

	heroName := promptLine(reader, "\nCharacter name", "Traveler")
	heroClass := promptLine(reader, "Character class", "fighter")

	fmt.Println("\nSetting the scene...")
	out, err := createCampaign(client, cfg.APIBaseURL, createCampaignRequest{
		Name:     campaignName,
		Duration: durations[choice-1],
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create campaign: %v\n", err)
		os.Exit(1)
	}

	hero, err := addCharacter(client, cfg.APIBaseURL, out.Campaign.ID, &character.Character{
		Name:  heroName,
		Class: heroClass,
		Abilities: character.Abilities{
			Strength:     14,
			Dexterity:    12,
			Constitution: 13,
			Intelligence: 10,
			Wisdom:       11,
			Charisma:     10,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to add character: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(NewConsoleUI(cfg, client, out, hero),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func promptLine(reader *bufio.Reader, label, fallback string) string {
	fmt.Printf("%s [%s]: ", label, fallback)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fallback
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback
	}
	return line
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
