package board

import (
	"fmt"
	"strconv"
	"strings"
)

// The FEN4 board grid lists ranks from 14 down to 1, files a to n, with
// runs of empty cells (unplayable corner cells included) encoded as counts.
// The standard dialect concatenates cells inside a rank; the chess.com
// dialect separates them with commas.

// Fen4 encodes the board grid in the standard dialect.
func (b *Board) Fen4() string {
	var sb strings.Builder
	for rank := Ranks - 1; rank >= 0; rank-- {
		if rank < Ranks-1 {
			sb.WriteByte('/')
		}
		empty := 0
		for file := 0; file < Files; file++ {
			tag := b.Data(NewSquare(file, rank))
			if tag == "" {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(tag)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}
	return sb.String()
}

// ChesscomFen4 encodes the board grid in the chess.com dialect.
func (b *Board) ChesscomFen4() string {
	var sb strings.Builder
	for rank := Ranks - 1; rank >= 0; rank-- {
		if rank < Ranks-1 {
			sb.WriteByte('/')
		}
		cells := make([]string, 0, Files)
		empty := 0
		for file := 0; file < Files; file++ {
			tag := b.Data(NewSquare(file, rank))
			if tag == "" {
				empty++
				continue
			}
			if empty > 0 {
				cells = append(cells, strconv.Itoa(empty))
				empty = 0
			}
			cells = append(cells, tag)
		}
		if empty > 0 {
			cells = append(cells, strconv.Itoa(empty))
		}
		sb.WriteString(strings.Join(cells, ","))
	}
	return sb.String()
}

// ParseFen4 fills the board from a standard-dialect grid. Existing occupancy
// is replaced; castling rights are untouched.
func (b *Board) ParseFen4(grid string) error {
	rows := strings.Split(grid, "/")
	if len(rows) != Ranks {
		return fmt.Errorf("board: fen4 grid has %d ranks, want %d", len(rows), Ranks)
	}
	b.clearPieces()
	for i, row := range rows {
		rank := Ranks - 1 - i
		file := 0
		for pos := 0; pos < len(row); {
			ch := row[pos]
			if ch >= '0' && ch <= '9' {
				end := pos
				for end < len(row) && row[end] >= '0' && row[end] <= '9' {
					end++
				}
				n, _ := strconv.Atoi(row[pos:end])
				file += n
				pos = end
				continue
			}
			if pos+1 >= len(row) {
				return fmt.Errorf("board: fen4 rank %d: dangling piece letter %q", rank+1, ch)
			}
			piece, ok := PieceFromTag(row[pos : pos+2])
			if !ok {
				return fmt.Errorf("board: fen4 rank %d: bad piece tag %q", rank+1, row[pos:pos+2])
			}
			if file >= Files {
				return fmt.Errorf("board: fen4 rank %d overflows %d files", rank+1, Files)
			}
			b.pieces[piece.Color][piece.Kind].Set(NewSquare(file, rank))
			file++
			pos += 2
		}
		if file != Files {
			return fmt.Errorf("board: fen4 rank %d covers %d files, want %d", rank+1, file, Files)
		}
	}
	return nil
}

// ParseChesscomFen4 fills the board from a chess.com-dialect grid.
func (b *Board) ParseChesscomFen4(grid string) error {
	rows := strings.Split(grid, "/")
	if len(rows) != Ranks {
		return fmt.Errorf("board: chess.com grid has %d ranks, want %d", len(rows), Ranks)
	}
	b.clearPieces()
	for i, row := range rows {
		rank := Ranks - 1 - i
		file := 0
		for _, cell := range strings.Split(row, ",") {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if n, err := strconv.Atoi(cell); err == nil {
				file += n
				continue
			}
			piece, ok := PieceFromTag(cell)
			if !ok {
				return fmt.Errorf("board: chess.com rank %d: bad cell %q", rank+1, cell)
			}
			if file >= Files {
				return fmt.Errorf("board: chess.com rank %d overflows %d files", rank+1, Files)
			}
			b.pieces[piece.Color][piece.Kind].Set(NewSquare(file, rank))
			file++
		}
		if file != Files {
			return fmt.Errorf("board: chess.com rank %d covers %d files, want %d", rank+1, file, Files)
		}
	}
	return nil
}

func (b *Board) clearPieces() {
	for c := Color(0); c < NumColors; c++ {
		for k := Kind(0); k < NumKinds; k++ {
			b.pieces[c][k] = Bitboard{}
		}
	}
}

// CastlingAvailability returns the standard-dialect rights token: for each
// color in turn order, "cK" and "cQ" while the side's right lasts, or "-"
// when every right is gone.
func (b *Board) CastlingAvailability() string {
	var sb strings.Builder
	for c := Color(0); c < NumColors; c++ {
		if b.HasCastlingRight(c, Kingside) {
			sb.WriteByte(c.Letter())
			sb.WriteByte('K')
		}
		if b.HasCastlingRight(c, Queenside) {
			sb.WriteByte(c.Letter())
			sb.WriteByte('Q')
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// SetCastlingAvailability applies a standard-dialect rights token.
func (b *Board) SetCastlingAvailability(castling string) {
	for c := Color(0); c < NumColors; c++ {
		letter := string(c.Letter())
		b.SetCastlingRight(c, Kingside, strings.Contains(castling, letter+"K"))
		b.SetCastlingRight(c, Queenside, strings.Contains(castling, letter+"Q"))
	}
}

// ChesscomCastling renders the rights as the chess.com "-1,1,1,1-1,1,1,1"
// kingside/queenside flag fields, colors in turn order.
func (b *Board) ChesscomCastling() string {
	flag := func(ok bool) string {
		if ok {
			return "1"
		}
		return "0"
	}
	king := make([]string, 0, NumColors)
	queen := make([]string, 0, NumColors)
	for c := Color(0); c < NumColors; c++ {
		king = append(king, flag(b.HasCastlingRight(c, Kingside)))
		queen = append(queen, flag(b.HasCastlingRight(c, Queenside)))
	}
	return "-" + strings.Join(king, ",") + "-" + strings.Join(queen, ",")
}

// SetChesscomCastling applies the chess.com kingside and queenside flag
// fields ("1,1,1,1" each, colors in turn order).
func (b *Board) SetChesscomCastling(kingField, queenField string) error {
	kings := strings.Split(kingField, ",")
	queens := strings.Split(queenField, ",")
	if len(kings) != NumColors || len(queens) != NumColors {
		return fmt.Errorf("board: chess.com castling fields %q / %q", kingField, queenField)
	}
	for c := Color(0); c < NumColors; c++ {
		b.SetCastlingRight(c, Kingside, strings.TrimSpace(kings[c]) == "1")
		b.SetCastlingRight(c, Queenside, strings.TrimSpace(queens[c]) == "1")
	}
	return nil
}
