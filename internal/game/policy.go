package game

import "github.com/kapu/fourchess-go/internal/board"

// MovePolicy decides whether the player to move may pick up a given piece.
// The two rule variants share the board and notation machinery and differ
// only here.
type MovePolicy interface {
	Variant() string
	OwnsPiece(player board.Color, piece board.Piece) bool
}

// TeamsPolicy is the partnership variant: Red and Yellow against Blue and
// Green. Each color still moves only its own army.
type TeamsPolicy struct{}

func (TeamsPolicy) Variant() string { return "Teams" }

func (TeamsPolicy) OwnsPiece(player board.Color, piece board.Piece) bool {
	return piece.Color == player
}

// FFAPolicy is the Free-For-All variant: every color for itself. Ownership
// is per-color, the same as Teams; scoring and elimination would differ in a
// fuller rule set.
type FFAPolicy struct{}

func (FFAPolicy) Variant() string { return "Free-For-All" }

func (FFAPolicy) OwnsPiece(player board.Color, piece board.Piece) bool {
	return piece.Color == player
}
