package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/playperu/minigames/internal/minigame"
)

//go:embed seed/demo_games.yaml
var demoGamesYAML []byte

type seedFile struct {
	Games []seedGame `yaml:"games"`
}

type seedGame struct {
	ID             string         `yaml:"id"`
	Title          string         `yaml:"title"`
	GameType       string         `yaml:"gameType"`
	IsQuizQuestion bool           `yaml:"isQuizQuestion"`
	Config         map[string]any `yaml:"config"`
}

// demoGames decodes the embedded demo configs and validates each of them.
func demoGames() ([]GameRecord, error) {
	var f seedFile
	if err := yaml.Unmarshal(demoGamesYAML, &f); err != nil {
		return nil, fmt.Errorf("decoding demo games: %w", err)
	}

	games := make([]GameRecord, 0, len(f.Games))
	for _, g := range f.Games {
		raw, err := json.Marshal(g.Config)
		if err != nil {
			return nil, fmt.Errorf("encoding demo game %s: %w", g.ID, err)
		}
		t := minigame.Type(g.GameType)
		if res := minigame.Validate(t, raw, g.IsQuizQuestion); !res.Valid {
			return nil, fmt.Errorf("demo game %s is invalid: %s", g.ID, strings.Join(res.Errors, "; "))
		}
		games = append(games, GameRecord{
			ID:             g.ID,
			Title:          g.Title,
			GameType:       t,
			IsQuizQuestion: g.IsQuizQuestion,
			Config:         raw,
		})
	}
	return games, nil
}

// SeedDemo stores the demo configs if no game exists yet.
// Idempotent: does nothing if games already exist.
func SeedDemo(ctx context.Context, logger *slog.Logger, games GameStore) error {
	n, err := games.CountGames(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	demo, err := demoGames()
	if err != nil {
		return err
	}
	for _, g := range demo {
		if _, err := games.CreateGame(ctx, g); err != nil {
			return fmt.Errorf("seeding %s: %w", g.ID, err)
		}
	}

	logger.Info("demo games seeded", "count", len(demo))
	return nil
}
