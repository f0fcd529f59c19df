// Package board implements the 14x14 four-player chess board: piece
// occupancy, pseudo-legal move generation, move application and the two
// FEN4 position-text dialects.
package board

import "fmt"

// Board geometry. The playable area is a cross: a 14x14 grid with the four
// 3x3 corner blocks removed.
const (
	Files      = 14
	Ranks      = 14
	NumSquares = Files * Ranks
)

// Color identifies one of the four armies, in turn order.
type Color int

const (
	Red Color = iota
	Blue
	Yellow
	Green

	NumColors = 4
)

var colorLetters = [NumColors]byte{'r', 'b', 'y', 'g'}

// Letter returns the lowercase color letter used in piece tags and FEN4.
func (c Color) Letter() byte { return colorLetters[c] }

func (c Color) String() string { return string(colorLetters[c]) }

// ColorFromLetter maps a lowercase color letter to its Color.
func ColorFromLetter(ch byte) (Color, bool) {
	for c, l := range colorLetters {
		if l == ch {
			return Color(c), true
		}
	}
	return 0, false
}

// Kind identifies a piece type.
type Kind int

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King

	NumKinds = 6
)

var kindLetters = [NumKinds]byte{'P', 'N', 'B', 'R', 'Q', 'K'}

// Letter returns the uppercase kind letter used in piece tags and notation.
func (k Kind) Letter() byte { return kindLetters[k] }

func (k Kind) String() string { return string(kindLetters[k]) }

// KindFromLetter maps an uppercase kind letter to its Kind.
func KindFromLetter(ch byte) (Kind, bool) {
	for k, l := range kindLetters {
		if l == ch {
			return Kind(k), true
		}
	}
	return 0, false
}

// Piece is a colored piece.
type Piece struct {
	Color Color
	Kind  Kind
}

// Tag returns the two-character piece tag, e.g. "rP" or "yK".
func (p Piece) Tag() string {
	return string([]byte{p.Color.Letter(), p.Kind.Letter()})
}

// PieceFromTag parses a two-character piece tag.
func PieceFromTag(tag string) (Piece, bool) {
	if len(tag) != 2 {
		return Piece{}, false
	}
	c, ok := ColorFromLetter(tag[0])
	if !ok {
		return Piece{}, false
	}
	k, ok := KindFromLetter(tag[1])
	if !ok {
		return Piece{}, false
	}
	return Piece{Color: c, Kind: k}, true
}

// Square is an index 0..195 over the grid, rank-major: sq = rank*14 + file.
// File 0 is 'a', rank 0 is rank 1 from Red's side.
type Square int

// NewSquare builds a square from file and rank. Both must be in 0..13;
// out-of-range coordinates are a programming error.
func NewSquare(file, rank int) Square {
	if file < 0 || file >= Files || rank < 0 || rank >= Ranks {
		panic(fmt.Sprintf("board: square out of range: file=%d rank=%d", file, rank))
	}
	return Square(rank*Files + file)
}

// File returns the file 0..13.
func (s Square) File() int { return int(s) % Files }

// Rank returns the rank 0..13.
func (s Square) Rank() int { return int(s) / Files }

// Name returns the coordinate name, "a1".."n14".
func (s Square) Name() string {
	return fmt.Sprintf("%c%d", 'a'+s.File(), s.Rank()+1)
}

// Playable reports whether the grid cell is part of the cross-shaped board.
// The four 3x3 corner blocks never hold a piece.
func Playable(file, rank int) bool {
	if file < 0 || file >= Files || rank < 0 || rank >= Ranks {
		return false
	}
	lowFile := file < 3
	highFile := file > 10
	lowRank := rank < 3
	highRank := rank > 10
	return !((lowFile || highFile) && (lowRank || highRank))
}

// PlayableSquares is the set of all 160 playable squares.
var PlayableSquares = func() Bitboard {
	var b Bitboard
	for rank := 0; rank < Ranks; rank++ {
		for file := 0; file < Files; file++ {
			if Playable(file, rank) {
				b.Set(NewSquare(file, rank))
			}
		}
	}
	return b
}()
