// Package notation converts between the engine's canonical move tokens and
// the two history-text dialects, and tokenizes PGN4 movetext. The active
// dialect is always passed in explicitly; nothing here reads ambient state.
package notation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kapu/fourchess-go/internal/board"
)

// Dialect selects one of the two position/history text representations.
type Dialect int

const (
	// FEN4 is the space-delimited position format with plain algebraic
	// movetext.
	FEN4 Dialect = iota
	// Chesscom is the comma-delimited position format with chess.com
	// style movetext.
	Chesscom
)

func (d Dialect) String() string {
	if d == Chesscom {
		return "chesscom"
	}
	return "fen4"
}

// StaticDialect wraps a fixed dialect in the provider shape the engine
// consumes.
func StaticDialect(d Dialect) func() Dialect {
	return func() Dialect { return d }
}

// ParseDialect reads a dialect name as found in configuration.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fen4", "standard":
		return FEN4, nil
	case "chesscom", "chess.com":
		return Chesscom, nil
	}
	return FEN4, fmt.Errorf("notation: unknown dialect %q", s)
}

// Move is the canonical move record stored in the tree: the moving piece,
// its origin, the captured piece if any, and the destination. Castling is
// encoded as the king capturing its own rook on the rook's home square.
type Move struct {
	Piece      board.Piece
	From       board.Square
	Captured   board.Piece
	HasCapture bool
	To         board.Square
}

// Token renders the canonical token, e.g. "rP h2 h3" or "rN i1 bP j3".
func (m Move) Token() string {
	if m.HasCapture {
		return m.Piece.Tag() + " " + m.From.Name() + " " + m.Captured.Tag() + " " + m.To.Name()
	}
	return m.Piece.Tag() + " " + m.From.Name() + " " + m.To.Name()
}

// ParseToken parses a canonical token back into a Move.
func ParseToken(token string) (Move, error) {
	parts := strings.Fields(token)
	if len(parts) != 3 && len(parts) != 4 {
		return Move{}, fmt.Errorf("notation: bad move token %q", token)
	}
	piece, ok := board.PieceFromTag(parts[0])
	if !ok {
		return Move{}, fmt.Errorf("notation: bad piece tag in %q", token)
	}
	from, err := ParseCoord(parts[1])
	if err != nil {
		return Move{}, fmt.Errorf("notation: %q: %w", token, err)
	}
	m := Move{Piece: piece, From: from}
	toPart := parts[2]
	if len(parts) == 4 {
		captured, ok := board.PieceFromTag(parts[2])
		if !ok {
			return Move{}, fmt.Errorf("notation: bad captured tag in %q", token)
		}
		m.Captured = captured
		m.HasCapture = true
		toPart = parts[3]
	}
	to, err := ParseCoord(toPart)
	if err != nil {
		return Move{}, fmt.Errorf("notation: %q: %w", token, err)
	}
	m.To = to
	return m, nil
}

// ParseCoord parses a coordinate like "h2" or "n14".
func ParseCoord(s string) (board.Square, error) {
	if len(s) < 2 || s[0] < 'a' || s[0] > 'n' {
		return 0, fmt.Errorf("bad coordinate %q", s)
	}
	rank, err := strconv.Atoi(s[1:])
	if err != nil || rank < 1 || rank > board.Ranks {
		return 0, fmt.Errorf("bad coordinate %q", s)
	}
	return board.NewSquare(int(s[0]-'a'), rank-1), nil
}

func (m Move) castlingSide() (board.Side, bool) {
	if m.Piece.Kind != board.King || !m.HasCapture ||
		m.Captured.Color != m.Piece.Color || m.Captured.Kind != board.Rook {
		return 0, false
	}
	if m.To == board.RookHome(m.Piece.Color, board.Kingside) {
		return board.Kingside, true
	}
	if m.To == board.RookHome(m.Piece.Color, board.Queenside) {
		return board.Queenside, true
	}
	return 0, false
}

// Format renders a move token in the given dialect.
func Format(m Move, d Dialect) string {
	if side, ok := m.castlingSide(); ok {
		if side == board.Kingside {
			return "O-O"
		}
		return "O-O-O"
	}
	if d == Chesscom {
		return formatChesscom(m)
	}
	return formatAlgebraic(m)
}

func formatAlgebraic(m Move) string {
	sep := ""
	if m.HasCapture {
		sep = "x"
	}
	if m.Piece.Kind == board.Pawn {
		return m.From.Name() + sep + m.To.Name()
	}
	return string(m.Piece.Kind.Letter()) + m.From.Name() + sep + m.To.Name()
}

func formatChesscom(m Move) string {
	sep := "-"
	if m.HasCapture {
		sep = "x"
		if m.Captured.Kind != board.Pawn {
			sep += string(m.Captured.Kind.Letter())
		}
	}
	if m.Piece.Kind == board.Pawn {
		return m.From.Name() + sep + m.To.Name()
	}
	return string(m.Piece.Kind.Letter()) + m.From.Name() + sep + m.To.Name()
}

// ParseDisplayed resolves a displayed move token to origin and destination
// squares for the player to move. Both dialects share the inverse: castling
// tokens map to the fixed king-to-rook squares, any other token is stripped
// of piece letters and punctuation until only the two coordinates remain.
// Origins are always explicit in this notation, so no disambiguation against
// board occupancy is needed.
func ParseDisplayed(token string, player board.Color) (from, to board.Square, err error) {
	switch token {
	case "O-O":
		return board.KingHome(player), board.RookHome(player, board.Kingside), nil
	case "O-O-O":
		return board.KingHome(player), board.RookHome(player, board.Queenside), nil
	}

	var sb strings.Builder
	for i := 0; i < len(token); i++ {
		ch := token[i]
		if ch >= 'A' && ch <= 'Z' {
			continue
		}
		switch ch {
		case 'x', '-', '+', '#':
			continue
		}
		sb.WriteByte(ch)
	}
	bare := sb.String()

	split := -1
	for i := 1; i < len(bare); i++ {
		prevDigit := bare[i-1] >= '0' && bare[i-1] <= '9'
		curDigit := bare[i] >= '0' && bare[i] <= '9'
		if prevDigit && !curDigit {
			split = i
			break
		}
	}
	if split < 0 {
		return 0, 0, fmt.Errorf("notation: unreadable move token %q", token)
	}
	from, err = ParseCoord(bare[:split])
	if err != nil {
		return 0, 0, fmt.Errorf("notation: unreadable move token %q", token)
	}
	to, err = ParseCoord(bare[split:])
	if err != nil {
		return 0, 0, fmt.Errorf("notation: unreadable move token %q", token)
	}
	return from, to, nil
}
