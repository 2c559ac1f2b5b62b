package server

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/playperu/minigames/internal/minigame"
)

var ErrNotFound = errors.New("not found")

// GameRecord is a persisted game config.
type GameRecord struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	GameType       minigame.Type   `json:"gameType"`
	IsQuizQuestion bool            `json:"isQuizQuestion"`
	Config         json.RawMessage `json:"config"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

// GameSummary is the list form of a GameRecord.
type GameSummary struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	GameType       minigame.Type `json:"gameType"`
	IsQuizQuestion bool          `json:"isQuizQuestion"`
	UpdatedAt      string        `json:"updatedAt"`
}

// ResultRecord is an emitted result as recorded by the sink.
type ResultRecord struct {
	ID        string              `json:"id"`
	PlayID    string              `json:"playId"`
	GameID    string              `json:"gameId,omitempty"`
	GameType  minigame.Type       `json:"gameType"`
	Mode      minigame.Mode       `json:"mode"`
	Result    minigame.GameResult `json:"result"`
	CreatedAt string              `json:"createdAt"`
}

type AdminStore interface {
	AdminByEmail(ctx context.Context, email string) (adminID, passwordHash string, err error)
	CreateAdminSession(ctx context.Context, adminID string) (sessionID string, err error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
	AdminFromSession(ctx context.Context, sessionID string) (adminSession, error)
}

type GameStore interface {
	ListGames(ctx context.Context) ([]GameSummary, error)
	GetGame(ctx context.Context, id string) (GameRecord, error)
	CreateGame(ctx context.Context, g GameRecord) (GameRecord, error)
	UpdateGame(ctx context.Context, id string, g GameRecord) (GameRecord, error)
	DeleteGame(ctx context.Context, id string) error
	CountGames(ctx context.Context) (int, error)
}

type ResultStore interface {
	SaveResult(ctx context.Context, rec ResultRecord) error
	ListResults(ctx context.Context, gameID string, limit int) ([]ResultRecord, error)
}
