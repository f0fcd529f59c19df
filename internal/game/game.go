// Package game implements the four-player chess game state: turn rotation,
// the move tree with variations, position/history text in both dialects and
// the change notifications a display layer subscribes to.
package game

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/fourchess-go/internal/board"
	"github.com/kapu/fourchess-go/internal/notation"
)

// Result is the game outcome in PGN form. Team 1 is Red and Yellow.
type Result string

const (
	NoResult  Result = "*"
	Team1Wins Result = "1-0"
	Team2Wins Result = "0-1"
	Draw      Result = "1/2-1/2"
)

// NoPlayer is the letter reported when no player is to move, and the
// placeholder for unknown names and ratings.
const NoPlayer = "?"

// StartFen4 is the default start position in the standard dialect.
const StartFen4 = "3yRyNyByKyQyByNyR3/3yPyPyPyPyPyPyPyP3/14/bRbP10gPgR/bNbP10gPgN/bBbP10gPgB/" +
	"bKbP10gPgQ/bQbP10gPgK/bBbP10gPgB/bNbP10gPgN/bRbP10gPgR/14/3rPrPrPrPrPrPrPrP3/3rRrNrBrQrKrBrNrR3 " +
	"r rKrQbKbQyKyQgKgQ - 0 1"

// ChesscomStartFen4 is the default start position in the chess.com dialect.
const ChesscomStartFen4 = "R-0,0,0,0-1,1,1,1-1,1,1,1-0,0,0,0-0-" +
	"3,yR,yN,yB,yK,yQ,yB,yN,yR,3/3,yP,yP,yP,yP,yP,yP,yP,yP,3/14/bR,bP,10,gP,gR/bN,bP,10,gP,gN/" +
	"bB,bP,10,gP,gB/bK,bP,10,gP,gQ/bQ,bP,10,gP,gK/bB,bP,10,gP,gB/bN,bP,10,gP,gN/bR,bP,10,gP,gR/14/" +
	"3,rP,rP,rP,rP,rP,rP,rP,rP,3/3,rR,rN,rB,rQ,rK,rB,rN,rR,3"

// DefaultStart returns the start-position constant for a dialect.
func DefaultStart(d notation.Dialect) string {
	if d == notation.Chesscom {
		return ChesscomStartFen4
	}
	return StartFen4
}

var turnOrder = [board.NumColors]board.Color{board.Red, board.Blue, board.Yellow, board.Green}

// Engine owns one game: current board, turn queue, move tree and the text
// representations. It is single-writer and holds no locks; the host must
// serialize calls into it.
type Engine struct {
	policy   MovePolicy
	dialect  func() notation.Dialect
	listener Listener
	logger   *zap.Logger
	now      func() time.Time

	brd        *board.Board
	result     Result
	current    board.Color
	hasCurrent bool
	queue      [board.NumColors]board.Color
	ply        int
	// fenMoveNumber is the one-based ply the movetext numbering starts
	// from; above 1 only when a non-default position was loaded.
	fenMoveNumber int

	tree      *moveTree
	currentID nodeID

	names   [board.NumColors]string
	ratings [board.NumColors]string

	moveText     string
	chesscomText string
	tokens       []string
	tokenNodes   []nodeID
	tokenIndex   map[nodeID]int
}

// NewEngine builds an engine for one game. The dialect provider is consulted
// at every encode/decode; pass notation.StaticDialect for a fixed setting.
// A nil listener or logger falls back to no-ops.
func NewEngine(policy MovePolicy, dialect func() notation.Dialect, listener Listener, logger *zap.Logger) *Engine {
	if dialect == nil {
		dialect = notation.StaticDialect(notation.FEN4)
	}
	if listener == nil {
		listener = NopListener{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		policy:        policy,
		dialect:       dialect,
		listener:      listener,
		logger:        logger,
		now:           time.Now,
		brd:           board.New(),
		result:        NoResult,
		queue:         turnOrder,
		fenMoveNumber: 1,
		tokenIndex:    map[nodeID]int{},
	}
	e.tree = newMoveTree(DefaultStart(dialect()))
	e.currentID = e.tree.root()
	for c := range e.names {
		e.names[c] = NoPlayer
		e.ratings[c] = NoPlayer
	}
	return e
}

// SetListener replaces the notification sink. Not safe while a call into
// the engine is in flight.
func (e *Engine) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	e.listener = l
}

// Variant returns the rule variant tag, e.g. "Teams".
func (e *Engine) Variant() string { return e.policy.Variant() }

// Board exposes the live board for occupancy queries.
func (e *Engine) Board() *board.Board { return e.brd }

// Ply returns the quarter-move counter.
func (e *Engine) Ply() int { return e.ply }

// Result returns the recorded outcome.
func (e *Engine) Result() Result { return e.result }

// CurrentPlayer returns the color letter to move, or "?" when none.
func (e *Engine) CurrentPlayer() string {
	if !e.hasCurrent {
		return NoPlayer
	}
	return e.current.String()
}

func (e *Engine) setBoard(b *board.Board) {
	if e.brd == b {
		return
	}
	e.brd = b
	e.listener.BoardChanged(b)
}

func (e *Engine) setCurrentPlayer(c board.Color, has bool) {
	if has == e.hasCurrent && (!has || c == e.current) {
		return
	}
	e.current = c
	e.hasCurrent = has
	if has {
		e.alignQueue(c)
	}
	e.listener.CurrentPlayerChanged(e.CurrentPlayer())
}

// alignQueue rotates the turn queue until c is at the front.
func (e *Engine) alignQueue(c board.Color) {
	for e.queue[0] != c {
		e.rotateQueue(true)
	}
}

// rotateQueue advances (or rewinds) the four-color rotation by one.
func (e *Engine) rotateQueue(forward bool) {
	if forward {
		first := e.queue[0]
		copy(e.queue[:], e.queue[1:])
		e.queue[len(e.queue)-1] = first
	} else {
		last := e.queue[len(e.queue)-1]
		copy(e.queue[1:], e.queue[:len(e.queue)-1])
		e.queue[0] = last
	}
}

// SetResult records the outcome. The game-over notification fires only on
// the first transition away from NoResult.
func (e *Engine) SetResult(r Result) {
	if e.result == r {
		return
	}
	wasOpen := e.result == NoResult
	e.result = r
	if wasOpen {
		e.listener.GameOver(r)
	}
	e.generatePgn4()
}

// UpdatePlayerNames sets display names in turn order; empty values and the
// "Player Name" entry placeholder count as unknown.
func (e *Engine) UpdatePlayerNames(red, blue, yellow, green string) {
	for c, name := range []string{red, blue, yellow, green} {
		if name == "" || name == "Player Name" {
			name = NoPlayer
		}
		e.names[c] = name
	}
	e.generatePgn4()
}

// UpdatePlayerRatings sets ratings in turn order.
func (e *Engine) UpdatePlayerRatings(red, blue, yellow, green string) {
	e.ratings[0], e.ratings[1], e.ratings[2], e.ratings[3] = red, blue, yellow, green
}

// PlayerNames returns display names in turn order.
func (e *Engine) PlayerNames() (red, blue, yellow, green string) {
	return e.names[0], e.names[1], e.names[2], e.names[3]
}

// PlayerRatings returns ratings in turn order.
func (e *Engine) PlayerRatings() (red, blue, yellow, green string) {
	return e.ratings[0], e.ratings[1], e.ratings[2], e.ratings[3]
}

// NewGame resets to the default start position of the active dialect,
// discarding the move tree even when the board already shows it.
func (e *Engine) NewGame() {
	fen4 := DefaultStart(e.dialect())
	if err := e.loadPosition(fen4); err != nil {
		// The start constants always parse.
		panic(fmt.Sprintf("game: default start rejected: %v", err))
	}
	e.listener.Fen4Generated(fen4)
}

// SetPositionText loads a full position snapshot in the active dialect,
// replacing board, turn state and the move tree. On a malformed snapshot it
// returns an error without touching any state. Loading the position already
// shown is a no-op.
func (e *Engine) SetPositionText(fen4 string) error {
	if fen4 == "" {
		return fmt.Errorf("game: empty position text")
	}
	if e.CurrentFen4() == fen4 {
		return nil
	}
	return e.loadPosition(fen4)
}

func (e *Engine) loadPosition(fen4 string) error {
	if fen4 == "" {
		return fmt.Errorf("game: empty position text")
	}

	scratch := board.New()
	var player board.Color
	var ply int
	switch e.dialect() {
	case notation.Chesscom:
		parts := strings.SplitN(fen4, "-", 7)
		if len(parts) != 7 {
			return fmt.Errorf("game: chess.com position text needs 7 fields, got %d", len(parts))
		}
		p, ok := board.ColorFromLetter(lowerByte(parts[0]))
		if !ok {
			return fmt.Errorf("game: bad player field %q", parts[0])
		}
		player = p
		n, err := strconv.Atoi(strings.TrimSpace(parts[5]))
		if err != nil || n < 0 {
			return fmt.Errorf("game: bad ply field %q", parts[5])
		}
		ply = n
		if err := scratch.ParseChesscomFen4(parts[6]); err != nil {
			return err
		}
		if err := scratch.SetChesscomCastling(parts[2], parts[3]); err != nil {
			return err
		}
	default:
		fields := strings.Fields(fen4)
		if len(fields) != 6 {
			return fmt.Errorf("game: position text needs 6 fields, got %d", len(fields))
		}
		p, ok := board.ColorFromLetter(lowerByte(fields[1]))
		if !ok {
			return fmt.Errorf("game: bad player field %q", fields[1])
		}
		player = p
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return fmt.Errorf("game: bad ply field %q", fields[4])
		}
		ply = n
		if err := scratch.ParseFen4(fields[0]); err != nil {
			return err
		}
		scratch.SetCastlingAvailability(fields[2])
	}

	e.setBoard(scratch)
	e.result = NoResult
	e.ply = ply
	e.fenMoveNumber = ply + 1
	e.setCurrentPlayer(player, true)
	e.tree = newMoveTree(fen4)
	e.currentID = e.tree.root()
	e.generateFen4(true)
	e.updateMoveText()
	e.generatePgn4()
	return nil
}

func lowerByte(s string) byte {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	ch := s[0]
	if ch >= 'A' && ch <= 'Z' {
		ch += 'a' - 'A'
	}
	return ch
}

// CurrentFen4 encodes the live position in the active dialect without
// emitting a notification.
func (e *Engine) CurrentFen4() string { return e.encodeFen4() }

func (e *Engine) generateFen4(emit bool) string {
	fen4 := e.encodeFen4()
	if emit {
		e.listener.Fen4Generated(fen4)
	}
	return fen4
}

func (e *Engine) encodeFen4() string {
	if e.dialect() == notation.Chesscom {
		player := strings.ToUpper(e.CurrentPlayer())
		return player + "-0,0,0,0" + e.brd.ChesscomCastling() + "-0,0,0,0-" +
			strconv.Itoa(e.ply) + "-" + e.brd.ChesscomFen4()
	}
	return e.brd.Fen4() + " " + e.CurrentPlayer() + " " + e.brd.CastlingAvailability() +
		" - " + strconv.Itoa(e.ply) + " " + strconv.Itoa(e.ply/4+1)
}

// buildMove assembles the canonical move record for from->to against the
// live board.
func (e *Engine) buildMove(from, to board.Square) (notation.Move, bool) {
	piece, ok := e.brd.PieceAt(from)
	if !ok {
		return notation.Move{}, false
	}
	mv := notation.Move{Piece: piece, From: from, To: to}
	if captured, ok := e.brd.PieceAt(to); ok {
		mv.Captured = captured
		mv.HasCapture = true
	}
	return mv, true
}

// MakeMove validates and applies a move for the player to move. It returns
// false, with no state change, when no player is to move, the origin piece
// is not the mover's, or the destination is not pseudo-legal. Re-entering a
// move already recorded at the current node navigates into it instead of
// duplicating the child.
func (e *Engine) MakeMove(from, to board.Square) bool {
	if !e.hasCurrent {
		return false
	}
	mv, ok := e.buildMove(from, to)
	if !ok {
		return false
	}
	if !e.policy.OwnsPiece(e.current, mv.Piece) {
		e.logger.Debug("move rejected: not mover's piece",
			zap.String("player", e.CurrentPlayer()),
			zap.String("piece", mv.Piece.Tag()),
			zap.String("from", from.Name()),
		)
		return false
	}
	if !e.brd.LegalMoves(mv.Piece.Kind, from, mv.Piece.Color).IsSet(to) {
		e.logger.Debug("move rejected: destination not legal",
			zap.String("piece", mv.Piece.Tag()),
			zap.String("from", from.Name()),
			zap.String("to", to.Name()),
		)
		return false
	}

	token := mv.Token()
	if child := e.tree.childWithToken(e.currentID, token); child != noNode {
		e.currentID = child
	} else {
		e.currentID = e.tree.add(e.currentID, token)
	}

	e.brd.MakeMove(from, to)
	e.ply++
	e.rotateQueue(true)
	e.setCurrentPlayer(e.queue[0], true)
	fen4 := e.generateFen4(true)
	e.updateMoveText()
	e.generatePgn4()
	e.tree.node(e.currentID).fen4 = fen4
	return true
}

// PrevMove steps one move back along the tree, undoing it on the board.
// A no-op at the root.
func (e *Engine) PrevMove() {
	if e.tree.isRoot(e.currentID) {
		return
	}
	node := e.tree.node(e.currentID)
	mv := mustParseToken(node.token)
	e.brd.UndoMove(mv.From, mv.To, mv.Piece, mv.Captured, mv.HasCapture)
	e.currentID = node.parent
	e.ply--
	e.rotateQueue(false)
	e.setCurrentPlayer(e.queue[0], true)
	e.generateFen4(true)
	e.emitNavigation()
	e.generatePgn4()
}

// NextMove steps one move forward, following the main line by default or
// the given variation slot. A no-op on a leaf or for a bad slot.
func (e *Engine) NextMove(variation int) {
	children := e.tree.node(e.currentID).children
	if variation < 0 || variation >= len(children) {
		return
	}
	next := children[variation]
	mv := mustParseToken(e.tree.node(next).token)
	mover := e.CurrentPlayer()
	e.brd.MakeMove(mv.From, mv.To)
	e.currentID = next
	e.ply++
	e.listener.AddHighlight(mv.From, mv.To, mover)
	e.rotateQueue(true)
	e.setCurrentPlayer(e.queue[0], true)
	e.generateFen4(true)
	e.emitNavigation()
	e.generatePgn4()
}

// emitNavigation refreshes highlight, continuation arrows and the movetext
// selection for the current node.
func (e *Engine) emitNavigation() {
	player := e.CurrentPlayer()
	e.listener.RemoveHighlight(player)
	for _, child := range e.tree.node(e.currentID).children {
		mv := mustParseToken(e.tree.node(child).token)
		e.listener.AddArrow(mv.From, mv.To, player)
	}
	if e.tree.isRoot(e.currentID) {
		e.listener.RemoveMoveSelection()
		return
	}
	if idx, ok := e.tokenIndex[e.currentID]; ok {
		e.listener.SelectMove(idx, e.tokens[idx])
	}
}

// FirstMove rewinds to the start position.
func (e *Engine) FirstMove() {
	for !e.tree.isRoot(e.currentID) {
		e.PrevMove()
	}
}

// LastMove rewinds and then follows the main line to its end.
func (e *Engine) LastMove() {
	e.FirstMove()
	for len(e.tree.node(e.currentID).children) > 0 {
		e.NextMove(0)
	}
}

// SetComment attaches a free-text comment to the current move.
func (e *Engine) SetComment(comment string) {
	if e.tree.isRoot(e.currentID) {
		return
	}
	e.tree.node(e.currentID).comment = comment
	e.updateMoveText()
	e.generatePgn4()
}

// PruneVariation deletes the current node's child at the given slot along
// with its whole subtree and stored positions. The current move must not be
// inside the pruned branch; callers prune forward lines only.
func (e *Engine) PruneVariation(slot int) bool {
	children := e.tree.node(e.currentID).children
	if slot < 0 || slot >= len(children) {
		return false
	}
	e.tree.prune(e.currentID, slot)
	e.updateMoveText()
	e.generatePgn4()
	return true
}

// JumpToToken navigates to the tree node behind a displayed movetext token.
// Number and punctuation tokens select nothing and return false.
func (e *Engine) JumpToToken(index int) bool {
	if index < 0 || index >= len(e.tokenNodes) {
		return false
	}
	target := e.tokenNodes[index]
	if target == noNode {
		return false
	}
	e.FirstMove()
	for _, slot := range e.tree.variationPath(target) {
		e.NextMove(slot)
	}
	return true
}

// MoveText returns the movetext in the active dialect.
func (e *Engine) MoveText() string {
	if e.dialect() == notation.Chesscom {
		return e.chesscomText
	}
	return e.moveText
}

// TokenCount returns how many movetext tokens the last serialization
// produced.
func (e *Engine) TokenCount() int { return len(e.tokens) }
