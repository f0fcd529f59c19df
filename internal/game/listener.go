package game

import "github.com/kapu/fourchess-go/internal/board"

// Listener receives the engine's change notifications. Callbacks fire
// synchronously at the end of the mutating operation that triggered them, in
// the order: board replaced, current player, position text, move text,
// selection and highlights. Handlers must not re-enter the engine.
type Listener interface {
	// BoardChanged fires when the board object is replaced wholesale
	// (game reset or position load), never on ordinary moves.
	BoardChanged(b *board.Board)
	// CurrentPlayerChanged reports the color letter to move, or "?" when
	// no player is to move.
	CurrentPlayerChanged(player string)
	// GameOver fires once, on the first transition away from NoResult.
	GameOver(result Result)
	// Fen4Generated carries a freshly encoded position text in the
	// active dialect.
	Fen4Generated(fen4 string)
	// Pgn4Generated carries the full regenerated game text.
	Pgn4Generated(pgn4 string)
	// MoveTextChanged carries the regenerated movetext token stream.
	MoveTextChanged(text string)
	// SelectMove points the display at the token for the current move.
	SelectMove(index int, token string)
	// RemoveMoveSelection clears the display selection (current move is
	// the start position).
	RemoveMoveSelection()
	// AddHighlight marks the rectangle of the move just shown, in the
	// mover's color.
	AddHighlight(from, to board.Square, player string)
	// RemoveHighlight clears highlights drawn in a player's color.
	RemoveHighlight(player string)
	// AddArrow marks an available continuation from the current node.
	AddArrow(from, to board.Square, player string)
	// PlayerNamesChanged reports display names in turn order.
	PlayerNamesChanged(red, blue, yellow, green string)
	// PlayerRatingsChanged reports ratings in turn order.
	PlayerRatingsChanged(red, blue, yellow, green string)
	// CannotReadPgn4 reports a failed history parse; the engine has been
	// reset to the default start position.
	CannotReadPgn4()
}

// NopListener implements Listener with no-ops; embed it to pick out the
// notifications a caller cares about.
type NopListener struct{}

func (NopListener) BoardChanged(*board.Board)                   {}
func (NopListener) CurrentPlayerChanged(string)                 {}
func (NopListener) GameOver(Result)                             {}
func (NopListener) Fen4Generated(string)                        {}
func (NopListener) Pgn4Generated(string)                        {}
func (NopListener) MoveTextChanged(string)                      {}
func (NopListener) SelectMove(int, string)                      {}
func (NopListener) RemoveMoveSelection()                        {}
func (NopListener) AddHighlight(board.Square, board.Square, string) {}
func (NopListener) RemoveHighlight(string)                      {}
func (NopListener) AddArrow(board.Square, board.Square, string) {}
func (NopListener) PlayerNamesChanged(string, string, string, string)   {}
func (NopListener) PlayerRatingsChanged(string, string, string, string) {}
func (NopListener) CannotReadPgn4()                             {}

var _ Listener = NopListener{}
