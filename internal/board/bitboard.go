package board

import "math/bits"

// Bitboard is an occupancy set over the 196 squares of the 14x14 board.
// Bit i corresponds to Square(i); bits 196..255 are always zero.
type Bitboard [4]uint64

// IsSet reports whether sq is in the set.
func (b Bitboard) IsSet(sq Square) bool {
	return b[sq>>6]&(1<<(uint(sq)&63)) != 0
}

// Set adds sq to the set.
func (b *Bitboard) Set(sq Square) {
	b[sq>>6] |= 1 << (uint(sq) & 63)
}

// Clear removes sq from the set.
func (b *Bitboard) Clear(sq Square) {
	b[sq>>6] &^= 1 << (uint(sq) & 63)
}

// IsEmpty reports whether no square is set.
func (b Bitboard) IsEmpty() bool {
	return b[0]|b[1]|b[2]|b[3] == 0
}

// Count returns the number of squares in the set.
func (b Bitboard) Count() int {
	return bits.OnesCount64(b[0]) + bits.OnesCount64(b[1]) +
		bits.OnesCount64(b[2]) + bits.OnesCount64(b[3])
}

// Union returns the set union of b and other.
func (b Bitboard) Union(other Bitboard) Bitboard {
	return Bitboard{b[0] | other[0], b[1] | other[1], b[2] | other[2], b[3] | other[3]}
}

// Intersect returns the set intersection of b and other.
func (b Bitboard) Intersect(other Bitboard) Bitboard {
	return Bitboard{b[0] & other[0], b[1] & other[1], b[2] & other[2], b[3] & other[3]}
}

// Intersects reports whether b and other share a square.
func (b Bitboard) Intersects(other Bitboard) bool {
	return !b.Intersect(other).IsEmpty()
}

// Squares returns the set squares in ascending order.
func (b Bitboard) Squares() []Square {
	out := make([]Square, 0, b.Count())
	for word := 0; word < len(b); word++ {
		w := b[word]
		for w != 0 {
			out = append(out, Square(word<<6+bits.TrailingZeros64(w)))
			w &= w - 1
		}
	}
	return out
}

// SingleSquare returns the square of a one-element set, or false when the
// set holds zero or several squares.
func (b Bitboard) SingleSquare() (Square, bool) {
	if b.Count() != 1 {
		return 0, false
	}
	for word := 0; word < len(b); word++ {
		if b[word] != 0 {
			return Square(word<<6 + bits.TrailingZeros64(b[word])), true
		}
	}
	return 0, false
}

// SquareBit returns a set containing only sq.
func SquareBit(sq Square) Bitboard {
	var b Bitboard
	b.Set(sq)
	return b
}
