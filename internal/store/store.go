// Package store persists finished or in-progress games as PGN4 text, keyed
// by id, with memory, Redis and Postgres backends.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("store: game not found")

// SavedGame is one archived game: the full PGN4 text plus the fields worth
// querying without parsing it.
type SavedGame struct {
	ID      string    `json:"id"`
	Variant string    `json:"variant"`
	Dialect string    `json:"dialect"`
	Pgn4    string    `json:"pgn4"`
	Result  string    `json:"result"`
	Red     string    `json:"red"`
	Blue    string    `json:"blue"`
	Yellow  string    `json:"yellow"`
	Green   string    `json:"green"`
	SavedAt time.Time `json:"saved_at"`
}

// Repository stores and retrieves saved games. Recent returns newest first.
type Repository interface {
	Save(ctx context.Context, g *SavedGame) error
	Get(ctx context.Context, id string) (*SavedGame, error)
	Recent(ctx context.Context, limit int) ([]*SavedGame, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// normalize fills the id and timestamp of a game about to be saved.
func normalize(g *SavedGame) error {
	if g == nil {
		return errors.New("store: nil game")
	}
	if strings.TrimSpace(g.ID) == "" {
		g.ID = uuid.NewString()
	}
	if g.SavedAt.IsZero() {
		g.SavedAt = time.Now().UTC()
	}
	return nil
}
