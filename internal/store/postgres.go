package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// PostgresRepository persists games in a fourchess_games table.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(databaseURL string) (*PostgresRepository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	r := &PostgresRepository{db: db}
	if err := r.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *PostgresRepository) ensureSchema(ctx context.Context) error {
	q := `CREATE TABLE IF NOT EXISTS fourchess_games (
        game_id TEXT PRIMARY KEY,
        variant TEXT NOT NULL,
        dialect TEXT NOT NULL,
        pgn4 TEXT NOT NULL,
        result TEXT NOT NULL,
        red_name TEXT NOT NULL DEFAULT '?',
        blue_name TEXT NOT NULL DEFAULT '?',
        yellow_name TEXT NOT NULL DEFAULT '?',
        green_name TEXT NOT NULL DEFAULT '?',
        saved_at TIMESTAMPTZ NOT NULL
      )`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

func (r *PostgresRepository) Save(ctx context.Context, g *SavedGame) error {
	if err := normalize(g); err != nil {
		return err
	}
	q := `INSERT INTO fourchess_games (
        game_id, variant, dialect, pgn4, result,
        red_name, blue_name, yellow_name, green_name, saved_at
      ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
      ON CONFLICT (game_id) DO UPDATE SET
        variant=EXCLUDED.variant,
        dialect=EXCLUDED.dialect,
        pgn4=EXCLUDED.pgn4,
        result=EXCLUDED.result,
        red_name=EXCLUDED.red_name,
        blue_name=EXCLUDED.blue_name,
        yellow_name=EXCLUDED.yellow_name,
        green_name=EXCLUDED.green_name,
        saved_at=EXCLUDED.saved_at`
	_, err := r.db.ExecContext(ctx, q,
		g.ID, g.Variant, g.Dialect, g.Pgn4, g.Result,
		g.Red, g.Blue, g.Yellow, g.Green, g.SavedAt,
	)
	return err
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*SavedGame, error) {
	q := `SELECT game_id, variant, dialect, pgn4, result,
        red_name, blue_name, yellow_name, green_name, saved_at
      FROM fourchess_games WHERE game_id = $1`
	var g SavedGame
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&g.ID, &g.Variant, &g.Dialect, &g.Pgn4, &g.Result,
		&g.Red, &g.Blue, &g.Yellow, &g.Green, &g.SavedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]*SavedGame, error) {
	if limit <= 0 {
		limit = 10
	}
	q := `SELECT game_id, variant, dialect, pgn4, result,
        red_name, blue_name, yellow_name, green_name, saved_at
      FROM fourchess_games ORDER BY saved_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*SavedGame
	for rows.Next() {
		var g SavedGame
		if err := rows.Scan(
			&g.ID, &g.Variant, &g.Dialect, &g.Pgn4, &g.Result,
			&g.Red, &g.Blue, &g.Yellow, &g.Green, &g.SavedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fourchess_games WHERE game_id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
