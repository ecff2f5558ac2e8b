// Package llm generates the natural-language comparison summary via the
// Gemini API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"brawlstars-tracker/internal/config"
	"brawlstars-tracker/internal/domain"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// ErrUnavailable is returned when no API key is configured.
var ErrUnavailable = errors.New("ai analysis unavailable")

type Analyzer interface {
	ComparePlayers(ctx context.Context, p1, p2 domain.PlayerOverview) (string, error)
}

type GeminiAnalyzer struct {
	client *genai.Client
	model  string
	logger zerolog.Logger
}

// New builds the configured analyzer. Without a GEMINI_API_KEY the service
// still runs; the comparison endpoint just reports the analysis as
// unavailable.
func New(cfg *config.Config, logger zerolog.Logger) (Analyzer, error) {
	if cfg.GeminiAPIKey == "" {
		logger.Warn().Msg("GEMINI_API_KEY not set, AI analysis disabled")
		return &disabledAnalyzer{}, nil
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiAnalyzer{client: client, model: cfg.GeminiModel, logger: logger}, nil
}

func (a *GeminiAnalyzer) ComparePlayers(ctx context.Context, p1, p2 domain.PlayerOverview) (string, error) {
	prompt := BuildComparisonPrompt(p1, p2)

	result, err := a.client.Models.GenerateContent(ctx,
		a.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(
				"You are a Brawl Stars expert analyzing player statistics.", genai.RoleUser),
			Temperature:     genai.Ptr[float32](0.7),
			MaxOutputTokens: 300,
		},
	)
	if err != nil {
		a.logger.Error().Err(err).Msg("GenAI comparison failed")
		return "", fmt.Errorf("GenAI comparison failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", errors.New("no analysis returned")
	}
	return text, nil
}

// BuildComparisonPrompt templates both players' statistics into the analysis
// prompt. Exported so the template can be tested without an API call.
func BuildComparisonPrompt(p1, p2 domain.PlayerOverview) string {
	var b strings.Builder
	b.WriteString("Compare the following two Brawl Stars players based on their statistics:\n\n")
	writePlayerSection(&b, 1, p1)
	b.WriteString("\n")
	writePlayerSection(&b, 2, p2)
	b.WriteString("\nWrite an analysis of at most 6 sentences comparing the players. ")
	b.WriteString("Highlight the most important differences and mention who is stronger in which area.")
	return b.String()
}

func writePlayerSection(b *strings.Builder, n int, p domain.PlayerOverview) {
	fmt.Fprintf(b, "Player %d (%s):\n", n, p.Player.Name)
	fmt.Fprintf(b, "- Highest trophies: %d\n", p.Player.HighestTrophies)
	fmt.Fprintf(b, "- 3vs3 victories: %d\n", p.Player.TeamVictories)
	fmt.Fprintf(b, "- Solo victories: %d\n", p.Player.SoloVictories)
	fmt.Fprintf(b, "- Duo victories: %d\n", p.Player.DuoVictories)
	fmt.Fprintf(b, "- Club trophies: %d\n", p.Player.ClubTrophies)
	fmt.Fprintf(b, "- Brawlers owned: %d\n", p.BrawlerSummary.TotalBrawlers)
	fmt.Fprintf(b, "- Brawlers at power 9+: %d\n", p.BrawlerSummary.PowerNineOrAbove)
	fmt.Fprintf(b, "- Brawlers at power 11: %d\n", p.BrawlerSummary.PowerEleven)
	fmt.Fprintf(b, "- Average trophies per brawler: %.1f\n", p.BrawlerSummary.AverageTrophies)
	fmt.Fprintf(b, "- Win rate in recent games: %.1f%%\n", p.BattleStats.WinRate)
	fmt.Fprintf(b, "- Star player awards in recent games: %d\n", p.StarPlayerCount)
}

type disabledAnalyzer struct{}

func (d *disabledAnalyzer) ComparePlayers(context.Context, domain.PlayerOverview, domain.PlayerOverview) (string, error) {
	return "", ErrUnavailable
}
