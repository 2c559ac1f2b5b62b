package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func newID() string {
	return uuid.NewString()
}

func nowUTC() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// EnsureAdmin creates the admin account when no admin exists yet.
func (s *SQLiteStore) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return false, fmt.Errorf("counting admins: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hashing password: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO admins (id, email, password_hash) VALUES (?, ?, ?)`,
		newID(), email, string(hash),
	)
	if err != nil {
		return false, fmt.Errorf("inserting admin: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) AdminByEmail(ctx context.Context, email string) (string, string, error) {
	var id, hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, password_hash FROM admins WHERE email = ?`, email,
	).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return id, hash, err
}

func (s *SQLiteStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	sessionID := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO admin_sessions (id, admin_id) VALUES (?, ?)`, sessionID, adminID,
	)
	return sessionID, err
}

func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteStore) AdminFromSession(ctx context.Context, sessionID string) (adminSession, error) {
	var sess adminSession
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&sess.AdminID, &sess.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return adminSession{}, errNoAdminSession
	}
	return sess, err
}

func (s *SQLiteStore) ListGames(ctx context.Context) ([]GameSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, game_type, is_quiz_question, updated_at
		FROM game_configs
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []GameSummary{}
	for rows.Next() {
		var g GameSummary
		if err := rows.Scan(&g.ID, &g.Title, &g.GameType, &g.IsQuizQuestion, &g.UpdatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *SQLiteStore) GetGame(ctx context.Context, id string) (GameRecord, error) {
	var (
		g   GameRecord
		cfg string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, game_type, is_quiz_question, config, created_at, updated_at
		FROM game_configs
		WHERE id = ?
	`, id).Scan(&g.ID, &g.Title, &g.GameType, &g.IsQuizQuestion, &cfg, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return GameRecord{}, ErrNotFound
	}
	if err != nil {
		return GameRecord{}, err
	}
	g.Config = json.RawMessage(cfg)
	return g, nil
}

func (s *SQLiteStore) CreateGame(ctx context.Context, g GameRecord) (GameRecord, error) {
	if g.ID == "" {
		g.ID = newID()
	}
	g.CreatedAt = nowUTC()
	g.UpdatedAt = g.CreatedAt
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO game_configs (id, title, game_type, is_quiz_question, config, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, g.ID, g.Title, string(g.GameType), boolInt(g.IsQuizQuestion), string(g.Config), g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return GameRecord{}, fmt.Errorf("inserting game: %w", err)
	}
	return g, nil
}

func (s *SQLiteStore) UpdateGame(ctx context.Context, id string, g GameRecord) (GameRecord, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE game_configs
		SET title = ?, game_type = ?, is_quiz_question = ?, config = ?, updated_at = ?
		WHERE id = ?
	`, g.Title, string(g.GameType), boolInt(g.IsQuizQuestion), string(g.Config), nowUTC(), id)
	if err != nil {
		return GameRecord{}, fmt.Errorf("updating game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return GameRecord{}, ErrNotFound
	}
	return s.GetGame(ctx, id)
}

func (s *SQLiteStore) DeleteGame(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM game_configs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CountGames(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM game_configs`).Scan(&n)
	return n, err
}

func (s *SQLiteStore) SaveResult(ctx context.Context, rec ResultRecord) error {
	if rec.ID == "" {
		rec.ID = newID()
	}
	if rec.CreatedAt == "" {
		rec.CreatedAt = nowUTC()
	}
	data, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO game_results (id, play_id, game_id, game_type, mode, success, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.PlayID, rec.GameID, string(rec.GameType), string(rec.Mode), boolInt(rec.Result.Success), string(data), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting result: %w", err)
	}
	return nil
}

// ListResults returns the newest results first. An empty gameID lists all.
func (s *SQLiteStore) ListResults(ctx context.Context, gameID string, limit int) ([]ResultRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, play_id, game_id, game_type, mode, result, created_at
		FROM game_results
		WHERE ? = '' OR game_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`, gameID, gameID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []ResultRecord{}
	for rows.Next() {
		var (
			rec  ResultRecord
			data string
		)
		if err := rows.Scan(&rec.ID, &rec.PlayID, &rec.GameID, &rec.GameType, &rec.Mode, &data, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &rec.Result); err != nil {
			return nil, fmt.Errorf("decoding result %s: %w", rec.ID, err)
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

var _ interface {
	AdminStore
	GameStore
	ResultStore
} = (*SQLiteStore)(nil)

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
