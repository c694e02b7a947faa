package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound indicates that the entity hasn't been found in the database.
var ErrNotFound = errors.New("not found")

// Store provides methods to store/load data.
type Store struct {
	db *sqlx.DB
}

// New prepares the database.
func New(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// sqlite allows a single writer, and every ":memory:" connection is a
	// separate database
	db.SetMaxOpenConns(1)

	const schema = `
		CREATE TABLE IF NOT EXISTS players (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			elo INTEGER,
			early_game TEXT NOT NULL DEFAULT 'average',
			prefers_boom BOOLEAN NOT NULL DEFAULT FALSE,
			late_game TEXT NOT NULL DEFAULT 'average'
		);
		CREATE INDEX IF NOT EXISTS players_name ON players (name);
    `

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Update updates a bunch of players in the storage, only mutable fields are updated.
func (s *Store) Update(ctx context.Context, players ...Player) error {
	const query = `UPDATE players SET
						name = :name,
						elo = :elo,
						early_game = :early_game,
						prefers_boom = :prefers_boom,
						late_game = :late_game
					WHERE id = :id`

	return s.inTx(ctx, query, "update player", players)
}

// Upsert inserts the players or overwrites the existing ones.
func (s *Store) Upsert(ctx context.Context, players ...Player) error {
	const query = `INSERT INTO players (id, name, elo, early_game, prefers_boom, late_game)
					VALUES (:id, :name, :elo, :early_game, :prefers_boom, :late_game)
					ON CONFLICT (id) DO UPDATE SET
						name = excluded.name,
						elo = excluded.elo,
						early_game = excluded.early_game,
						prefers_boom = excluded.prefers_boom,
						late_game = excluded.late_game`

	return s.inTx(ctx, query, "upsert player", players)
}

func (s *Store) inTx(ctx context.Context, query, op string, players []Player) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, pl := range players {
		if _, err := tx.NamedExecContext(ctx, query, normalize(pl)); err != nil {
			return fmt.Errorf("%s %s: %w", op, pl.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// Create inserts a new player into the storage.
func (s *Store) Create(ctx context.Context, pl Player) error {
	const query = `INSERT INTO players (id, name, elo, early_game, prefers_boom, late_game)
					VALUES (:id, :name, :elo, :early_game, :prefers_boom, :late_game)`

	if _, err := s.db.NamedExecContext(ctx, query, normalize(pl)); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}

	return nil
}

// List returns a list of players with the given IDs, all of them if no IDs given.
func (s *Store) List(ctx context.Context, ids []string) ([]Player, error) {
	var players []Player

	var args []any
	query := `SELECT * FROM players`

	if len(ids) > 0 {
		query += fmt.Sprintf(` WHERE id IN (%s)`, strings.Join(
			slices.Repeat([]string{"?"}, len(ids)),
			", ",
		))
		for _, id := range ids {
			args = append(args, id)
		}
	}
	query += ` ORDER BY name, id`

	if err := s.db.SelectContext(ctx, &players, query, args...); err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	return players, nil
}

// Get returns a player by the given name.
func (s *Store) Get(ctx context.Context, name string) (Player, error) {
	var pl Player
	err := s.db.GetContext(ctx, &pl, `SELECT * FROM players WHERE name = ? COLLATE NOCASE LIMIT 1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, ErrNotFound
	}
	if err != nil {
		return Player{}, fmt.Errorf("get player: %w", err)
	}
	return pl, nil
}

// Delete removes the player with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// normalize stores neutral answers for the questions never answered.
func normalize(pl Player) Player {
	pl.SetAnswers(pl.Answers())
	return pl
}
