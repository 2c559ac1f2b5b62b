package server

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/playperu/minigames/internal/minigame"
)

func TestGameStore(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(setupTestDB(t))

	if _, err := store.GetGame(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing: err = %v", err)
	}

	g, err := store.CreateGame(ctx, GameRecord{
		Title:          "Fire doors",
		GameType:       minigame.TypeTrueFalse,
		IsQuizQuestion: true,
		Config:         json.RawMessage(`{"statement":"x"}`),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := store.GetGame(ctx, g.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Fire doors" || !got.IsQuizQuestion || string(got.Config) != `{"statement":"x"}` {
		t.Errorf("unexpected game: %+v", got)
	}

	got.Title = "Fire exits"
	got.IsQuizQuestion = false
	updated, err := store.UpdateGame(ctx, g.ID, got)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Fire exits" || updated.IsQuizQuestion {
		t.Errorf("unexpected update: %+v", updated)
	}
	if _, err := store.UpdateGame(ctx, "missing", got); !errors.Is(err, ErrNotFound) {
		t.Errorf("update missing: err = %v", err)
	}

	n, err := store.CountGames(ctx)
	if err != nil || n != 1 {
		t.Errorf("count = %d, err = %v", n, err)
	}

	if err := store.DeleteGame(ctx, g.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteGame(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: err = %v", err)
	}
}

func TestResultStoreFiltersAndLimits(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(setupTestDB(t))

	for i, rec := range []ResultRecord{
		{PlayID: "p1", GameID: "a", CreatedAt: "2025-03-01T09:00:00.000Z"},
		{PlayID: "p2", GameID: "b", CreatedAt: "2025-03-01T09:01:00.000Z"},
		{PlayID: "p3", GameID: "a", CreatedAt: "2025-03-01T09:02:00.000Z"},
	} {
		rec.GameType = minigame.TypeSequence
		rec.Mode = minigame.ModeLesson
		rec.Result = minigame.GameResult{Success: i%2 == 0, Attempts: i + 1}
		if err := store.SaveResult(ctx, rec); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	all, err := store.ListResults(ctx, "", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].PlayID != "p3" {
		t.Fatalf("expected newest first, got %+v", all)
	}

	a, _ := store.ListResults(ctx, "a", 10)
	if len(a) != 2 {
		t.Errorf("game a: got %d results, want 2", len(a))
	}

	one, _ := store.ListResults(ctx, "", 1)
	if len(one) != 1 || one[0].Result.Attempts != 3 {
		t.Errorf("limit 1: got %+v", one)
	}
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore(setupTestDB(t))

	created, err := store.EnsureAdmin(ctx, "a@example.com", "pw")
	if err != nil || !created {
		t.Fatalf("first ensure: created=%v err=%v", created, err)
	}
	created, err = store.EnsureAdmin(ctx, "b@example.com", "pw")
	if err != nil || created {
		t.Fatalf("second ensure: created=%v err=%v", created, err)
	}
	if _, _, err := store.AdminByEmail(ctx, "b@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second admin should not exist: err = %v", err)
	}
}
