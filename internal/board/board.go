package board

// Side distinguishes the two castling directions.
type Side int

const (
	Queenside Side = iota
	Kingside

	numSides = 2
)

type coord struct{ file, rank int }

// Castling geometry. Kingside/queenside are named from each army's own
// perspective; a castling move is encoded as the king moving onto its own
// rook's home square.
var (
	kingHomes = [NumColors]coord{
		Red:    {7, 0},
		Blue:   {0, 7},
		Yellow: {6, 13},
		Green:  {13, 6},
	}
	rookHomes = [NumColors][numSides]coord{
		Red:    {Queenside: {3, 0}, Kingside: {10, 0}},
		Blue:   {Queenside: {0, 3}, Kingside: {0, 10}},
		Yellow: {Queenside: {10, 13}, Kingside: {3, 13}},
		Green:  {Queenside: {13, 10}, Kingside: {13, 3}},
	}
	castledKing = [NumColors][numSides]coord{
		Red:    {Queenside: {5, 0}, Kingside: {9, 0}},
		Blue:   {Queenside: {0, 5}, Kingside: {0, 9}},
		Yellow: {Queenside: {8, 13}, Kingside: {4, 13}},
		Green:  {Queenside: {13, 8}, Kingside: {13, 4}},
	}
	castledRook = [NumColors][numSides]coord{
		Red:    {Queenside: {6, 0}, Kingside: {8, 0}},
		Blue:   {Queenside: {0, 6}, Kingside: {0, 8}},
		Yellow: {Queenside: {7, 13}, Kingside: {5, 13}},
		Green:  {Queenside: {13, 7}, Kingside: {13, 5}},
	}
)

// KingHome returns the king's start square for a color.
func KingHome(c Color) Square {
	h := kingHomes[c]
	return NewSquare(h.file, h.rank)
}

// RookHome returns the rook's start square for a color and side.
func RookHome(c Color, s Side) Square {
	h := rookHomes[c][s]
	return NewSquare(h.file, h.rank)
}

// CastledSquares returns where king and rook land after castling.
func CastledSquares(c Color, s Side) (king, rook Square) {
	k, r := castledKing[c][s], castledRook[c][s]
	return NewSquare(k.file, k.rank), NewSquare(r.file, r.rank)
}

// Pawn geometry per color: push direction, double-step home row and the
// promotion edge (the last playable row in the pawn's direction of travel).
var (
	pawnDirs = [NumColors]coord{
		Red:    {0, 1},
		Blue:   {1, 0},
		Yellow: {0, -1},
		Green:  {-1, 0},
	}
)

func pawnHome(c Color, file, rank int) bool {
	switch c {
	case Red:
		return rank == 1
	case Blue:
		return file == 1
	case Yellow:
		return rank == 12
	default:
		return file == 12
	}
}

func promotionSquare(c Color, sq Square) bool {
	switch c {
	case Red:
		return sq.Rank() == 13
	case Blue:
		return sq.File() == 13
	case Yellow:
		return sq.Rank() == 0
	default:
		return sq.File() == 0
	}
}

// Board holds piece occupancy as one bitboard per (color, kind) pair plus
// the castling-rights bits. It is pure state: it validates nothing about
// turn order and applies whatever moves it is given.
type Board struct {
	pieces [NumColors][NumKinds]Bitboard
	castle [NumColors][numSides]Bitboard // single bit at the rook home square while the right lasts
}

// New returns an empty board with all castling rights available.
func New() *Board {
	b := &Board{}
	for c := Color(0); c < NumColors; c++ {
		for s := Side(0); s < numSides; s++ {
			b.castle[c][s] = SquareBit(RookHome(c, s))
		}
	}
	return b
}

// PieceAt returns the piece on sq, if any.
func (b *Board) PieceAt(sq Square) (Piece, bool) {
	for c := Color(0); c < NumColors; c++ {
		for k := Kind(0); k < NumKinds; k++ {
			if b.pieces[c][k].IsSet(sq) {
				return Piece{Color: c, Kind: k}, true
			}
		}
	}
	return Piece{}, false
}

// Data returns the piece tag on sq, or "" for an empty square.
func (b *Board) Data(sq Square) string {
	if p, ok := b.PieceAt(sq); ok {
		return p.Tag()
	}
	return ""
}

// SetPiece places p on sq, replacing any occupant.
func (b *Board) SetPiece(p Piece, sq Square) {
	b.RemovePiece(sq)
	b.pieces[p.Color][p.Kind].Set(sq)
}

// RemovePiece clears sq in every occupancy set.
func (b *Board) RemovePiece(sq Square) {
	for c := Color(0); c < NumColors; c++ {
		for k := Kind(0); k < NumKinds; k++ {
			b.pieces[c][k].Clear(sq)
		}
	}
}

// Occupancy returns the union of all occupancy sets.
func (b *Board) Occupancy() Bitboard {
	var all Bitboard
	for c := Color(0); c < NumColors; c++ {
		all = all.Union(b.ColorOccupancy(c))
	}
	return all
}

// ColorOccupancy returns the union of one color's occupancy sets.
func (b *Board) ColorOccupancy(c Color) Bitboard {
	var all Bitboard
	for k := Kind(0); k < NumKinds; k++ {
		all = all.Union(b.pieces[c][k])
	}
	return all
}

// PieceSet returns the occupancy set for one (color, kind) pair.
func (b *Board) PieceSet(c Color, k Kind) Bitboard {
	return b.pieces[c][k]
}

// HasCastlingRight reports whether a color still holds a castling right.
func (b *Board) HasCastlingRight(c Color, s Side) bool {
	return !b.castle[c][s].IsEmpty()
}

// SetCastlingRight grants or revokes a castling right.
func (b *Board) SetCastlingRight(c Color, s Side, available bool) {
	if available {
		b.castle[c][s] = SquareBit(RookHome(c, s))
	} else {
		b.castle[c][s] = Bitboard{}
	}
}

func (b *Board) clearRightAt(sq Square) {
	for c := Color(0); c < NumColors; c++ {
		for s := Side(0); s < numSides; s++ {
			if b.castle[c][s].IsSet(sq) {
				b.castle[c][s] = Bitboard{}
			}
		}
	}
}

// LegalMoves returns the pseudo-legal destination set for a single piece of
// the given kind and color standing on origin: movement rules, blocking and
// capture eligibility, plus castling targets for the king. It does not
// exclude moves that leave the mover's own king attacked; check detection is
// a known gap inherited from the reference engine.
func (b *Board) LegalMoves(kind Kind, origin Square, color Color) Bitboard {
	switch kind {
	case Pawn:
		return b.pawnMoves(origin, color)
	case Knight:
		return b.stepMoves(origin, color, knightOffsets)
	case Bishop:
		return b.slideMoves(origin, color, diagonalDirs)
	case Rook:
		return b.slideMoves(origin, color, orthogonalDirs)
	case Queen:
		return b.slideMoves(origin, color, allDirs)
	case King:
		moves := b.stepMoves(origin, color, allDirs)
		return moves.Union(b.castlingMoves(origin, color))
	}
	return Bitboard{}
}

var (
	knightOffsets  = []coord{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	orthogonalDirs = []coord{{0, 1}, {1, 0}, {0, -1}, {-1, 0}}
	diagonalDirs   = []coord{{1, 1}, {1, -1}, {-1, -1}, {-1, 1}}
	allDirs        = append(append([]coord{}, orthogonalDirs...), diagonalDirs...)
)

func (b *Board) pawnMoves(origin Square, color Color) Bitboard {
	var moves Bitboard
	file, rank := origin.File(), origin.Rank()
	dir := pawnDirs[color]
	occupied := b.Occupancy()
	own := b.ColorOccupancy(color)

	// Pushes: one step, two from the home row, never onto any piece.
	f1, r1 := file+dir.file, rank+dir.rank
	if Playable(f1, r1) && !occupied.IsSet(NewSquare(f1, r1)) {
		moves.Set(NewSquare(f1, r1))
		f2, r2 := f1+dir.file, r1+dir.rank
		if pawnHome(color, file, rank) && Playable(f2, r2) && !occupied.IsSet(NewSquare(f2, r2)) {
			moves.Set(NewSquare(f2, r2))
		}
	}

	// Captures: the two forward diagonals, onto any other color.
	var caps [2]coord
	if dir.file == 0 {
		caps = [2]coord{{-1, dir.rank}, {1, dir.rank}}
	} else {
		caps = [2]coord{{dir.file, -1}, {dir.file, 1}}
	}
	for _, d := range caps {
		f, r := file+d.file, rank+d.rank
		if !Playable(f, r) {
			continue
		}
		sq := NewSquare(f, r)
		if occupied.IsSet(sq) && !own.IsSet(sq) {
			moves.Set(sq)
		}
	}
	return moves
}

func (b *Board) stepMoves(origin Square, color Color, offsets []coord) Bitboard {
	var moves Bitboard
	file, rank := origin.File(), origin.Rank()
	own := b.ColorOccupancy(color)
	for _, d := range offsets {
		f, r := file+d.file, rank+d.rank
		if !Playable(f, r) {
			continue
		}
		sq := NewSquare(f, r)
		if !own.IsSet(sq) {
			moves.Set(sq)
		}
	}
	return moves
}

func (b *Board) slideMoves(origin Square, color Color, dirs []coord) Bitboard {
	var moves Bitboard
	file, rank := origin.File(), origin.Rank()
	occupied := b.Occupancy()
	own := b.ColorOccupancy(color)
	for _, d := range dirs {
		f, r := file+d.file, rank+d.rank
		for Playable(f, r) {
			sq := NewSquare(f, r)
			if occupied.IsSet(sq) {
				if !own.IsSet(sq) {
					moves.Set(sq)
				}
				break
			}
			moves.Set(sq)
			f, r = f+d.file, r+d.rank
		}
	}
	return moves
}

// castlingMoves offers the rook home square as a king destination while the
// right lasts, the rook is still at home and the squares between are empty.
func (b *Board) castlingMoves(origin Square, color Color) Bitboard {
	var moves Bitboard
	if origin != KingHome(color) {
		return moves
	}
	occupied := b.Occupancy()
	for s := Side(0); s < numSides; s++ {
		if b.castle[color][s].IsEmpty() {
			continue
		}
		rookSq := RookHome(color, s)
		if !b.pieces[color][Rook].IsSet(rookSq) {
			continue
		}
		if b.pathClear(origin, rookSq, occupied) {
			moves.Set(rookSq)
		}
	}
	return moves
}

func (b *Board) pathClear(from, to Square, occupied Bitboard) bool {
	df := sign(to.File() - from.File())
	dr := sign(to.Rank() - from.Rank())
	f, r := from.File()+df, from.Rank()+dr
	for f != to.File() || r != to.Rank() {
		if occupied.IsSet(NewSquare(f, r)) {
			return false
		}
		f, r = f+df, r+dr
	}
	return true
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// MakeMove applies a move without any legality check; the caller must have
// validated it against LegalMoves. A king moving onto its own rook's home
// square castles; a pawn reaching its promotion edge becomes a queen.
// Castling rights are cleared as kings and home rooks move or home rooks are
// captured.
func (b *Board) MakeMove(from, to Square) {
	piece, ok := b.PieceAt(from)
	if !ok {
		return
	}
	captured, hasCapture := b.PieceAt(to)

	// Castling: the destination holds the mover's own rook.
	if piece.Kind == King && hasCapture && captured.Color == piece.Color && captured.Kind == Rook {
		side := Kingside
		if to == RookHome(piece.Color, Queenside) {
			side = Queenside
		}
		kingSq, rookSq := CastledSquares(piece.Color, side)
		b.pieces[piece.Color][King].Clear(from)
		b.pieces[piece.Color][Rook].Clear(to)
		b.pieces[piece.Color][King].Set(kingSq)
		b.pieces[piece.Color][Rook].Set(rookSq)
		b.SetCastlingRight(piece.Color, Kingside, false)
		b.SetCastlingRight(piece.Color, Queenside, false)
		return
	}

	if hasCapture {
		b.pieces[captured.Color][captured.Kind].Clear(to)
		if captured.Kind == Rook {
			b.clearRightAt(to)
		}
	}
	b.pieces[piece.Color][piece.Kind].Clear(from)
	if piece.Kind == Pawn && promotionSquare(piece.Color, to) {
		b.pieces[piece.Color][Queen].Set(to)
	} else {
		b.pieces[piece.Color][piece.Kind].Set(to)
	}

	switch piece.Kind {
	case King:
		b.SetCastlingRight(piece.Color, Kingside, false)
		b.SetCastlingRight(piece.Color, Queenside, false)
	case Rook:
		b.clearRightAt(from)
	}
}

// UndoMove is the exact inverse of MakeMove given the same four facts.
// Castling rights forfeited by the move are not restored; once lost they are
// lost for good, which is an accepted limitation of the rights tracking.
func (b *Board) UndoMove(from, to Square, piece Piece, captured Piece, hasCapture bool) {
	// Castling undo: the recorded capture is the mover's own rook.
	if piece.Kind == King && hasCapture && captured.Color == piece.Color && captured.Kind == Rook {
		side := Kingside
		if to == RookHome(piece.Color, Queenside) {
			side = Queenside
		}
		kingSq, rookSq := CastledSquares(piece.Color, side)
		b.pieces[piece.Color][King].Clear(kingSq)
		b.pieces[piece.Color][Rook].Clear(rookSq)
		b.pieces[piece.Color][King].Set(from)
		b.pieces[piece.Color][Rook].Set(to)
		return
	}

	// Clears every set at the destination so promoted queens disappear with
	// the undo.
	b.RemovePiece(to)
	b.pieces[piece.Color][piece.Kind].Set(from)
	if hasCapture {
		b.pieces[captured.Color][captured.Kind].Set(to)
	}
}
