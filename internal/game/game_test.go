package game

import (
	"strings"
	"testing"
	"time"

	"github.com/kapu/fourchess-go/internal/board"
	"github.com/kapu/fourchess-go/internal/notation"
)

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

// eventLog records the notifications a test cares about.
type eventLog struct {
	NopListener
	players    []string
	fens       []string
	selections []string
	gameOver   []Result
	cannotRead int
	removedSel int
}

func (l *eventLog) CurrentPlayerChanged(p string)  { l.players = append(l.players, p) }
func (l *eventLog) Fen4Generated(fen4 string)      { l.fens = append(l.fens, fen4) }
func (l *eventLog) SelectMove(_ int, token string) { l.selections = append(l.selections, token) }
func (l *eventLog) RemoveMoveSelection()           { l.removedSel++ }
func (l *eventLog) GameOver(r Result)              { l.gameOver = append(l.gameOver, r) }
func (l *eventLog) CannotReadPgn4()                { l.cannotRead++ }

func newTestEngine(t *testing.T, d notation.Dialect) (*Engine, *eventLog) {
	t.Helper()
	log := &eventLog{}
	e := NewEngine(TeamsPolicy{}, notation.StaticDialect(d), log, nil)
	e.now = func() time.Time { return fixedNow }
	e.NewGame()
	return e, log
}

func move(t *testing.T, e *Engine, from, to string) {
	t.Helper()
	f, err := notation.ParseCoord(from)
	if err != nil {
		t.Fatalf("bad coordinate %q: %v", from, err)
	}
	to_, err := notation.ParseCoord(to)
	if err != nil {
		t.Fatalf("bad coordinate %q: %v", to, err)
	}
	if !e.MakeMove(f, to_) {
		t.Fatalf("move %s -> %s rejected", from, to)
	}
}

// openingMoves plays one move per color: red, blue, yellow, green.
func openingMoves(t *testing.T, e *Engine) {
	t.Helper()
	move(t, e, "h2", "h3")
	move(t, e, "b8", "c8")
	move(t, e, "g13", "g12")
	move(t, e, "m8", "l8")
}

func TestNewGameStartPosition(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	if got := e.CurrentFen4(); got != StartFen4 {
		t.Fatalf("start position:\n got %s\nwant %s", got, StartFen4)
	}
	if e.CurrentPlayer() != "r" || e.Ply() != 0 || e.Result() != NoResult {
		t.Fatalf("fresh game state: player=%s ply=%d result=%s",
			e.CurrentPlayer(), e.Ply(), e.Result())
	}
}

func TestNewGameChesscomStartPosition(t *testing.T) {
	e, _ := newTestEngine(t, notation.Chesscom)
	if got := e.CurrentFen4(); got != ChesscomStartFen4 {
		t.Fatalf("start position:\n got %s\nwant %s", got, ChesscomStartFen4)
	}
}

func TestTurnRotation(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	wantPlayers := []string{"b", "y", "g", "r"}
	moves := [][2]string{{"h2", "h3"}, {"b8", "c8"}, {"g13", "g12"}, {"m8", "l8"}}
	for i, m := range moves {
		move(t, e, m[0], m[1])
		if got := e.CurrentPlayer(); got != wantPlayers[i] {
			t.Fatalf("after move %d player = %s, want %s", i+1, got, wantPlayers[i])
		}
	}
	if e.Ply() != 4 {
		t.Fatalf("ply = %d, want 4", e.Ply())
	}
	if got, want := e.MoveText(), "1. h2h3 b8c8 g13g12 m8l8 "; got != want {
		t.Fatalf("movetext = %q, want %q", got, want)
	}
}

func TestMakeMoveRejections(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	before := e.CurrentFen4()

	cases := [][2]string{
		{"b8", "c8"},  // blue piece, red to move
		{"h2", "h5"},  // not a legal pawn destination
		{"h7", "h8"},  // empty origin
		{"g1", "g2"},  // queen blocked by own pawn
	}
	for _, c := range cases {
		from, _ := notation.ParseCoord(c[0])
		to, _ := notation.ParseCoord(c[1])
		if e.MakeMove(from, to) {
			t.Fatalf("move %s -> %s accepted", c[0], c[1])
		}
	}
	if got := e.CurrentFen4(); got != before {
		t.Fatalf("rejected moves changed the position")
	}
	if e.TokenCount() != 0 {
		t.Fatalf("rejected moves reached the move tree")
	}
}

func TestMakeMoveUpdatesFen(t *testing.T) {
	e, log := newTestEngine(t, notation.FEN4)
	move(t, e, "h2", "h3")

	fen := e.CurrentFen4()
	if !strings.HasSuffix(fen, " b rKrQbKbQyKyQgKgQ - 1 1") {
		t.Fatalf("fen after h2h3 = %q", fen)
	}
	if log.fens[len(log.fens)-1] != fen {
		t.Fatalf("last emitted fen does not match the position")
	}
}

func TestPrevNextMove(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	openingMoves(t, e)
	end := e.CurrentFen4()

	for i := 0; i < 4; i++ {
		e.PrevMove()
	}
	if got := e.CurrentFen4(); got != StartFen4 {
		t.Fatalf("rewind mismatch:\n got %s\nwant %s", got, StartFen4)
	}
	if e.CurrentPlayer() != "r" || e.Ply() != 0 {
		t.Fatalf("rewind state: player=%s ply=%d", e.CurrentPlayer(), e.Ply())
	}

	// Back at the root, another step back is a no-op.
	e.PrevMove()
	if e.Ply() != 0 {
		t.Fatalf("PrevMove at the root changed state")
	}

	e.LastMove()
	if got := e.CurrentFen4(); got != end {
		t.Fatalf("replay mismatch:\n got %s\nwant %s", got, end)
	}

	// At the tip, stepping forward is a no-op.
	e.NextMove(0)
	if e.Ply() != 4 {
		t.Fatalf("NextMove on a leaf changed state")
	}
}

func TestDuplicateMoveReusesNode(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	move(t, e, "h2", "h3")
	tokens := e.TokenCount()

	e.PrevMove()
	move(t, e, "h2", "h3")

	if e.TokenCount() != tokens {
		t.Fatalf("re-entering a recorded move grew the movetext")
	}
	if n := len(e.tree.node(e.tree.root()).children); n != 1 {
		t.Fatalf("root has %d children, want 1", n)
	}
}

func TestVariationMovetext(t *testing.T) {
	e, log := newTestEngine(t, notation.FEN4)
	move(t, e, "h2", "h3")
	e.PrevMove()
	move(t, e, "g2", "g3")

	if got, want := e.MoveText(), "1. h2h3 ( 1 g2g3 ) "; got != want {
		t.Fatalf("movetext = %q, want %q", got, want)
	}
	if n := len(e.tree.node(e.tree.root()).children); n != 2 {
		t.Fatalf("root has %d children, want 2", n)
	}
	if len(log.selections) == 0 || log.selections[len(log.selections)-1] != "g2g3" {
		t.Fatalf("selection events = %v", log.selections)
	}
}

func TestPartialRotationHeader(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	fen := strings.Replace(StartFen4, " r ", " y ", 1)
	fen = strings.Replace(fen, " 0 1", " 2 1", 1)
	if err := e.SetPositionText(fen); err != nil {
		t.Fatalf("load mid-rotation position: %v", err)
	}
	if got, want := e.MoveText(), "1. .. "; got != want {
		t.Fatalf("header movetext = %q, want %q", got, want)
	}
	move(t, e, "g13", "g12")
	if got, want := e.MoveText(), "1. .. g13g12 "; got != want {
		t.Fatalf("movetext = %q, want %q", got, want)
	}
}

func TestJumpToToken(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	openingMoves(t, e)

	// Token 2 is blue's move; 0 is the move number.
	if !e.JumpToToken(2) {
		t.Fatalf("jump to a move token failed")
	}
	if e.Ply() != 2 || e.CurrentPlayer() != "y" {
		t.Fatalf("after jump: ply=%d player=%s", e.Ply(), e.CurrentPlayer())
	}
	if e.JumpToToken(0) {
		t.Fatalf("jump to a number token succeeded")
	}
	if e.JumpToToken(99) {
		t.Fatalf("jump out of range succeeded")
	}
}

func TestSetComment(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	move(t, e, "h2", "h3")
	e.SetComment("solid start")
	if !strings.Contains(e.MoveText(), "{ solid start }") {
		t.Fatalf("movetext = %q", e.MoveText())
	}

	// No move selected at the root, so nothing to annotate.
	e.FirstMove()
	e.SetComment("ignored")
	if strings.Contains(e.MoveText(), "ignored") {
		t.Fatalf("comment attached to the root")
	}
}

func TestPruneVariation(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	move(t, e, "h2", "h3")
	e.PrevMove()
	move(t, e, "g2", "g3")
	e.PrevMove()

	if !e.PruneVariation(1) {
		t.Fatalf("prune failed")
	}
	if got, want := e.MoveText(), "1. h2h3 "; got != want {
		t.Fatalf("movetext after prune = %q, want %q", got, want)
	}
	if e.PruneVariation(5) {
		t.Fatalf("prune out of range succeeded")
	}
}

func TestGameOverFiresOnce(t *testing.T) {
	e, log := newTestEngine(t, notation.FEN4)
	e.SetResult(Team1Wins)
	e.SetResult(Team1Wins)
	e.SetResult(Draw)
	if len(log.gameOver) != 1 || log.gameOver[0] != Team1Wins {
		t.Fatalf("game over events = %v", log.gameOver)
	}
	if e.Result() != Draw {
		t.Fatalf("result = %s, want %s", e.Result(), Draw)
	}
}

func TestSetPositionTextRejectsBadInput(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	before := e.CurrentFen4()
	for _, fen := range []string{
		"",
		"not a position",
		"14/14 r - - 0 1",
		strings.Replace(StartFen4, " r ", " z ", 1),
		strings.Replace(StartFen4, " 0 1", " x 1", 1),
	} {
		if err := e.SetPositionText(fen); err == nil {
			t.Fatalf("position %q accepted", fen)
		}
	}
	if got := e.CurrentFen4(); got != before {
		t.Fatalf("rejected input changed the position")
	}
}

func TestCastlingThroughEngine(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	// Clear red's kingside path, then castle by king onto rook.
	move(t, e, "j2", "j3")  // red
	move(t, e, "b8", "c8")  // blue
	move(t, e, "g13", "g12") // yellow
	move(t, e, "m8", "l8")  // green
	move(t, e, "j1", "i3")  // red knight out
	move(t, e, "c8", "d8")
	move(t, e, "g12", "g11")
	move(t, e, "l8", "k8")
	move(t, e, "i1", "j2")  // red bishop out
	move(t, e, "d8", "e8")
	move(t, e, "g11", "g10")
	move(t, e, "k8", "j8")

	move(t, e, "h1", "k1") // O-O
	b := e.Board()
	if got := b.Data(board.NewSquare(9, 0)); got != "rK" {
		t.Fatalf("castled king square holds %q", got)
	}
	if got := b.Data(board.NewSquare(8, 0)); got != "rR" {
		t.Fatalf("castled rook square holds %q", got)
	}
	if !strings.Contains(e.MoveText(), "O-O") {
		t.Fatalf("movetext lacks castle token: %q", e.MoveText())
	}
}

func TestUpdatePlayerNames(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	e.UpdatePlayerNames("Alice", "", "Player Name", "Dana")
	red, blue, yellow, green := e.PlayerNames()
	if red != "Alice" || blue != NoPlayer || yellow != NoPlayer || green != "Dana" {
		t.Fatalf("names = %s %s %s %s", red, blue, yellow, green)
	}
}
