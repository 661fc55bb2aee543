// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/verte-zerg/tuibowl/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for game history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			player TEXT NOT NULL,
			total INTEGER NOT NULL,
			strikes INTEGER NOT NULL,
			spares INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS game_frames (
			game_id INTEGER NOT NULL,
			frame_index INTEGER NOT NULL,
			rolls TEXT NOT NULL,
			score INTEGER NOT NULL,
			PRIMARY KEY (game_id, frame_index)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_games_ended_at ON games(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_games_player ON games(player);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertGame stores a completed game and its frames.
func (s *Store) InsertGame(ctx context.Context, game model.GameRecord, frames []model.FrameRecord) (id int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO games (started_at, ended_at, player, total, strikes, spares, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		game.StartedAt.Format(time.RFC3339Nano),
		game.EndedAt.Format(time.RFC3339Nano),
		game.Player,
		game.Total,
		game.Strikes,
		game.Spares,
		game.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(frames) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO game_frames (game_id, frame_index, rolls, score) VALUES (?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, f := range frames {
			if _, err = stmt.ExecContext(ctx, id, f.Index, encodeRolls(f.Rolls), f.Score); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListGames returns game aggregates filtered by stats config, oldest first.
func (s *Store) ListGames(ctx context.Context, cfg model.StatsConfig) ([]model.GameAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Player != "" {
		clauses = append(clauses, "player = ?")
		args = append(args, cfg.Player)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, player, total, strikes, spares, duration_ms
		FROM games
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var games []model.GameAggregate
	for rows.Next() {
		var agg model.GameAggregate
		var endedAt string
		if err := rows.Scan(&agg.GameID, &endedAt, &agg.Player, &agg.Total, &agg.Strikes, &agg.Spares, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		games = append(games, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

// GetGameFrames returns the frames of a stored game in order.
func (s *Store) GetGameFrames(ctx context.Context, gameID int64) ([]model.FrameRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT frame_index, rolls, score FROM game_frames WHERE game_id = ? ORDER BY frame_index ASC`, gameID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var frames []model.FrameRecord
	for rows.Next() {
		var f model.FrameRecord
		var rolls string
		if err := rows.Scan(&f.Index, &rolls, &f.Score); err != nil {
			return nil, err
		}
		f.Rolls, err = decodeRolls(rolls)
		if err != nil {
			return nil, fmt.Errorf("game %d frame %d: %w", gameID, f.Index, err)
		}
		frames = append(frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}

func encodeRolls(rolls []int) string {
	parts := make([]string, len(rolls))
	for i, r := range rolls {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, ",")
}

func decodeRolls(value string) ([]int, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	rolls := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid rolls %q: %w", value, err)
		}
		rolls[i] = n
	}
	return rolls, nil
}
