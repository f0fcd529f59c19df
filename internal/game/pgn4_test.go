package game

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kapu/fourchess-go/internal/notation"
)

// buildAnnotatedGame plays a full rotation, adds a green sideline to the
// last move and comments it.
func buildAnnotatedGame(t *testing.T, e *Engine) {
	t.Helper()
	openingMoves(t, e)
	e.PrevMove()
	move(t, e, "m7", "l7")
	e.SetComment("sideline")
}

func TestPgn4Tags(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	pgn4 := e.Pgn4()

	for _, want := range []string{
		`[Variant "Teams"]`,
		`[Site "www.chess.com/4-player-chess"]`,
		`[Date "Sat Mar 14 2026 15:09:26 (UTC)"]`,
		`[TimeControl "G/1 d15"]`,
		`[PlyCount "0"]`,
		`[CurrentMove "0"]`,
		`[CurrentPosition "` + StartFen4 + `"]`,
	} {
		if !strings.Contains(pgn4, want) {
			t.Fatalf("pgn4 lacks %s:\n%s", want, pgn4)
		}
	}
	for _, absent := range []string{"[SetUp", "[StartFen4", "[Red", "[Blue"} {
		if strings.Contains(pgn4, absent) {
			t.Fatalf("pgn4 carries %s for a default empty game:\n%s", absent, pgn4)
		}
	}
	if !strings.HasSuffix(pgn4, "\n\n*") {
		t.Fatalf("pgn4 does not end with the empty movetext and result:\n%q", pgn4)
	}
}

func TestPgn4PlayerTags(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	e.UpdatePlayerNames("Alice", "", "Bob", "")
	pgn4 := e.Pgn4()
	if !strings.Contains(pgn4, `[Red "Alice"]`) || !strings.Contains(pgn4, `[Yellow "Bob"]`) {
		t.Fatalf("player tags missing:\n%s", pgn4)
	}
	if strings.Contains(pgn4, "[Blue") || strings.Contains(pgn4, "[Green") {
		t.Fatalf("unknown players tagged:\n%s", pgn4)
	}
}

func TestPgn4VariationAndComment(t *testing.T) {
	e, _ := newTestEngine(t, notation.FEN4)
	buildAnnotatedGame(t, e)

	want := "1. h2h3 b8c8 g13g12 m8l8 ( 2 ... m7l7 { sideline } ) "
	if got := e.MoveText(); got != want {
		t.Fatalf("movetext = %q, want %q", got, want)
	}
	pgn4 := e.Pgn4()
	if !strings.Contains(pgn4, `[CurrentMove "4-1-1"]`) {
		t.Fatalf("current move tag wrong:\n%s", pgn4)
	}
}

func TestPgn4RoundTripStandard(t *testing.T) {
	e1, _ := newTestEngine(t, notation.FEN4)
	buildAnnotatedGame(t, e1)
	pgn1 := e1.Pgn4()

	e2, log := newTestEngine(t, notation.FEN4)
	if !e2.ParsePgn4(pgn1) {
		t.Fatalf("round-trip parse failed:\n%s", pgn1)
	}
	if log.cannotRead != 0 {
		t.Fatalf("parse reported failure %d times", log.cannotRead)
	}
	if got := e2.CurrentFen4(); got != e1.CurrentFen4() {
		t.Fatalf("position mismatch:\n got %s\nwant %s", got, e1.CurrentFen4())
	}
	if diff := cmp.Diff(pgn1, e2.Pgn4()); diff != "" {
		t.Fatalf("pgn4 round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPgn4RoundTripChesscom(t *testing.T) {
	e1, _ := newTestEngine(t, notation.Chesscom)
	e1.UpdatePlayerNames("Alice", "Ben", "Cara", "Dan")
	e1.UpdatePlayerRatings("1500", "1450", "1601", "?")
	buildAnnotatedGame(t, e1)
	pgn1 := e1.Pgn4()

	e2, _ := newTestEngine(t, notation.Chesscom)
	if !e2.ParsePgn4(pgn1) {
		t.Fatalf("round-trip parse failed:\n%s", pgn1)
	}
	if got := e2.CurrentFen4(); got != e1.CurrentFen4() {
		t.Fatalf("position mismatch:\n got %s\nwant %s", got, e1.CurrentFen4())
	}
	if diff := cmp.Diff(pgn1, e2.Pgn4()); diff != "" {
		t.Fatalf("pgn4 round trip mismatch (-want +got):\n%s", diff)
	}
	red, _, yellow, _ := e2.PlayerNames()
	if red != "Alice" || yellow != "Cara" {
		t.Fatalf("names after parse: red=%s yellow=%s", red, yellow)
	}
}

func TestPgn4RoundTripCustomStart(t *testing.T) {
	fen := strings.Replace(StartFen4, " r ", " y ", 1)
	fen = strings.Replace(fen, " 0 1", " 2 1", 1)

	e1, _ := newTestEngine(t, notation.FEN4)
	if err := e1.SetPositionText(fen); err != nil {
		t.Fatalf("load custom start: %v", err)
	}
	move(t, e1, "g13", "g12")
	pgn1 := e1.Pgn4()
	if !strings.Contains(pgn1, `[SetUp "1"]`) || !strings.Contains(pgn1, `[StartFen4 "`+fen+`"]`) {
		t.Fatalf("custom start not tagged:\n%s", pgn1)
	}

	e2, _ := newTestEngine(t, notation.FEN4)
	if !e2.ParsePgn4(pgn1) {
		t.Fatalf("round-trip parse failed:\n%s", pgn1)
	}
	if diff := cmp.Diff(pgn1, e2.Pgn4()); diff != "" {
		t.Fatalf("pgn4 round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePgn4Failures(t *testing.T) {
	cases := map[string]string{
		"ffa variant":       "[Variant \"FFA\"]\n[CurrentPosition \"x\"]\n\n*",
		"missing position":  "[Variant \"Teams\"]\n\n1. h2h3 *",
		"garbage movetext":  "[CurrentPosition \"x\"]\n\n1. zzzz *",
		"unbalanced parens": "[CurrentPosition \"x\"]\n\n1. h2h3 ) *",
		"illegal move":      "[CurrentPosition \"x\"]\n\n1. h2h9 *",
	}
	for name, text := range cases {
		e, log := newTestEngine(t, notation.FEN4)
		if e.ParsePgn4(text) {
			t.Fatalf("%s: parse succeeded", name)
		}
		if log.cannotRead != 1 {
			t.Fatalf("%s: CannotReadPgn4 fired %d times", name, log.cannotRead)
		}
		if got := e.CurrentFen4(); got != StartFen4 {
			t.Fatalf("%s: engine not reset:\n%s", name, got)
		}
	}
}

func TestParseChesscomRequiresCurrentMove(t *testing.T) {
	e, log := newTestEngine(t, notation.Chesscom)
	if e.ParsePgn4("[Variant \"Teams\"]\n\n1. h2-h3") {
		t.Fatalf("parse succeeded without a CurrentMove tag")
	}
	if log.cannotRead != 1 {
		t.Fatalf("CannotReadPgn4 fired %d times", log.cannotRead)
	}
}

func TestParsePgn4MainLinePosition(t *testing.T) {
	e1, _ := newTestEngine(t, notation.FEN4)
	openingMoves(t, e1)
	e1.PrevMove()
	e1.PrevMove() // back to blue's reply
	pgn1 := e1.Pgn4()

	e2, _ := newTestEngine(t, notation.FEN4)
	if !e2.ParsePgn4(pgn1) {
		t.Fatalf("parse failed:\n%s", pgn1)
	}
	if e2.Ply() != 2 || e2.CurrentPlayer() != "y" {
		t.Fatalf("after parse: ply=%d player=%s", e2.Ply(), e2.CurrentPlayer())
	}
	// The whole main line is preserved even though the current move is
	// in the middle of it.
	e2.LastMove()
	if e2.Ply() != 4 {
		t.Fatalf("main line truncated: ply=%d", e2.Ply())
	}
}
