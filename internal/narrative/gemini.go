package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/hooch88/justicar/pkg/check"
	"github.com/hooch88/justicar/pkg/intent"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini implements Generator (and intent.Classifier) against the Gemini
// API. One client backs both capabilities; they remain separate contracts
// so the interpreter can be tested without invoking generation.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *slog.Logger
}

var (
	_ Generator         = (*Gemini)(nil)
	_ intent.Classifier = (*Gemini)(nil)
)

// NewGemini creates a Gemini-backed narrative provider.
func NewGemini(ctx context.Context, apiKey, modelName string, logger *slog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger,
	}, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// Healthy reports provider availability. The SDK exposes no ping endpoint;
// a constructed client is considered healthy.
func (g *Gemini) Healthy(_ context.Context) error {
	if g.client == nil {
		return fmt.Errorf("gemini client not initialized")
	}
	return nil
}

// Generate builds the prompt for pctx, calls the model and parses the
// structured JSON reply.
func (g *Gemini) Generate(ctx context.Context, pctx PromptContext) (*Result, error) {
	prompt, err := NewPrompt().WithContext(pctx).Build()
	if err != nil {
		return nil, err
	}

	text, err := g.generateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	result, err := parseResult(text)
	if err != nil {
		g.logger.Warn("Gemini reply was not valid JSON, using raw text",
			"error", err, "campaign_id", pctx.Snapshot.CampaignID)
		// Degrade to prose-only: the turn still narrates, with no mutations.
		return &Result{Text: strings.TrimSpace(text)}, nil
	}
	return result, nil
}

// ClassifyAction implements intent.Classifier with a short classification
// prompt, independent of prose generation.
func (g *Gemini) ClassifyAction(ctx context.Context, rawText string, ictx intent.Context) (intent.Intent, error) {
	var sb strings.Builder
	sb.WriteString("Classify this roleplaying action into exactly one of: ")
	sb.WriteString("skill_check, free_action, unrecognized.\n")
	sb.WriteString(fmt.Sprintf("Action: %q\n", rawText))
	if ictx.LocationName != "" {
		sb.WriteString("Current location: " + ictx.LocationName + "\n")
	}
	sb.WriteString(`Reply with JSON only: {"kind":"...","skill":"...","target":"...","description":"...","reason":"..."}` + "\n")
	sb.WriteString("For skill_check, skill must be a standard d20 skill in snake_case.\n")

	text, err := g.generateText(ctx, sb.String())
	if err != nil {
		return intent.Intent{}, err
	}

	var parsed intent.Intent
	if err := json.Unmarshal([]byte(stripFences(text)), &parsed); err != nil {
		return intent.Intent{}, fmt.Errorf("failed to parse classification: %w", err)
	}
	if parsed.Kind == intent.KindSkillCheck && !check.KnownSkill(parsed.Skill) {
		return intent.FreeAction(rawText), nil
	}
	return parsed, nil
}

func (g *Gemini) generateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content")
	}
	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	return out.String(), nil
}

// stripFences removes a markdown code fence around a JSON reply.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// parseResult decodes a generation reply into a Result.
func parseResult(raw string) (*Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(stripFences(raw)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse generation result: %w", err)
	}
	if result.Text == "" {
		return nil, fmt.Errorf("generation result has no text")
	}
	if result.Delta != nil && result.Delta.IsEmpty() {
		result.Delta = nil
	}
	return &result, nil
}
