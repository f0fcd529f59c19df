package game

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kapu/fourchess-go/internal/notation"
)

// maxVariationDepth bounds parenthesis nesting when reading movetext, so a
// hostile input cannot grow the parse stack without limit.
const maxVariationDepth = 64

func mustParseToken(token string) notation.Move {
	mv, err := notation.ParseToken(token)
	if err != nil {
		panic(fmt.Sprintf("game: corrupt move token %q: %v", token, err))
	}
	return mv
}

// movetextWriter serializes the move tree in both dialects at once, keeping
// the displayed tokens and the tree node behind each one. Token indices are
// zero-based and sequential over all displayed tokens.
type movetextWriter struct {
	tree   *moveTree
	alg    strings.Builder
	cc     strings.Builder
	tokens []string
	nodes  []nodeID
}

func (w *movetextWriter) record(token string, id nodeID) {
	w.tokens = append(w.tokens, token)
	w.nodes = append(w.nodes, id)
}

func (w *movetextWriter) comment(text string) {
	token := "{ " + text + " }"
	w.cc.WriteString(token + " ")
	w.alg.WriteString(token + " ")
	w.record(token, noNode)
}

// move appends one move in both dialects and maps its token to the node.
func (w *movetextWriter) move(id nodeID) {
	node := w.tree.node(id)
	mv := mustParseToken(node.token)
	w.cc.WriteString(notation.Format(mv, notation.Chesscom) + " ")
	token := notation.Format(mv, notation.FEN4)
	w.alg.WriteString(token + " ")
	w.record(token, id)
	if node.comment != "" {
		w.comment(node.comment)
	}
}

// write walks the subtree under id in pre-order. move is the one-based ply
// of the next move to emit; depth counts enclosing variations. A move number
// appears before every red move (ply 1, 5, 9, ...); a variation re-states
// the number with one dot per skipped quarter-move.
func (w *movetextWriter) write(id nodeID, move, depth int) {
	node := w.tree.node(id)
	var main = noNode
	var variations []nodeID
	if len(node.children) > 0 {
		main = node.children[0]
		variations = node.children[1:]
	}

	// A loaded mid-rotation position starts the text with its own number
	// and dot markers.
	if w.tree.isRoot(id) && move != 1 && (move-1)%4 != 0 {
		token := strconv.Itoa((move-1)/4+1) + "."
		w.cc.WriteString(token)
		w.alg.WriteString(token + " ")
		w.record(token, noNode)
		dots := strings.Repeat(".", (move-1)%4)
		w.alg.WriteString(dots)
		w.record(dots, noNode)
		w.cc.WriteString(" ")
		w.alg.WriteString(" ")
	}

	switch {
	case main != noNode && len(variations) > 0:
		w.number(move)
		w.move(main)
		for _, variation := range variations {
			w.cc.WriteString("( ")
			w.alg.WriteString("( ")
			w.record("(", noNode)
			token := strconv.Itoa(move/4 + 1)
			w.cc.WriteString(token)
			w.alg.WriteString(token + " ")
			w.record(token, noNode)
			if dots := strings.Repeat(".", (move-1)%4); dots != "" {
				w.alg.WriteString(dots)
				w.record(dots, noNode)
				w.alg.WriteString(" ")
				w.cc.WriteString(".. ")
			} else {
				w.cc.WriteString(". ")
			}
			w.move(variation)
			w.write(variation, move+1, depth+1)
		}
		w.write(main, move+1, depth)
	case main != noNode:
		w.number(move)
		w.move(main)
		w.write(main, move+1, depth)
	default:
		if depth != 0 {
			w.cc.WriteString(") ")
			w.alg.WriteString(") ")
			w.record(")", noNode)
		}
	}
}

// number emits the move-number token before a red move, or the chess.com
// continuation marker mid-rotation.
func (w *movetextWriter) number(move int) {
	if (move-1)%4 == 0 {
		token := strconv.Itoa(move/4+1) + "."
		w.cc.WriteString("\n" + token + " ")
		w.alg.WriteString(token + " ")
		w.record(token, noNode)
	} else {
		w.cc.WriteString(".. ")
	}
}

// updateMoveText regenerates both movetext strings and the token maps from
// the tree, then announces the text and the current selection.
func (e *Engine) updateMoveText() {
	w := &movetextWriter{tree: e.tree}
	w.write(e.tree.root(), e.fenMoveNumber, 0)
	e.moveText = w.alg.String()
	e.chesscomText = w.cc.String()
	e.tokens = w.tokens
	e.tokenNodes = w.nodes
	e.tokenIndex = make(map[nodeID]int, len(w.nodes))
	for i, id := range w.nodes {
		if id != noNode {
			e.tokenIndex[id] = i
		}
	}
	e.listener.MoveTextChanged(e.MoveText())
	if e.tree.isRoot(e.currentID) {
		return
	}
	if idx, ok := e.tokenIndex[e.currentID]; ok {
		e.listener.SelectMove(idx, e.tokens[idx])
	}
}

const pgnDateLayout = "Mon Jan 02 2006 15:04:05 (UTC)"

var colorTags = [...]string{"Red", "Blue", "Yellow", "Green"}

// generatePgn4 renders the full game text in the active dialect and
// announces it. Tags follow the export order: variant, site, date, players,
// time control, ply count, optional setup, current move and position.
func (e *Engine) generatePgn4() string {
	var sb strings.Builder
	tag := func(name, value string) {
		sb.WriteString("[" + name + " \"" + value + "\"]\n")
	}
	tag("Variant", e.policy.Variant())
	tag("Site", "www.chess.com/4-player-chess")
	tag("Date", e.now().UTC().Format(pgnDateLayout))
	for c, label := range colorTags {
		if e.names[c] != NoPlayer {
			tag(label, e.names[c])
		}
		if e.ratings[c] != NoPlayer {
			tag(label+"Elo", e.ratings[c])
		}
	}
	tag("TimeControl", "G/1 d15")
	tag("PlyCount", strconv.Itoa(e.ply))
	start := e.tree.node(e.tree.root()).fen4
	if start != DefaultStart(e.dialect()) {
		tag("SetUp", "1")
		tag("StartFen4", start)
	}
	tag("CurrentMove", e.tree.moveNumber(e.currentID))
	tag("CurrentPosition", e.encodeFen4())

	if e.dialect() == notation.Chesscom {
		// The chess.com movetext opens with its own newline per rotation.
		sb.WriteString(e.chesscomText)
	} else {
		sb.WriteString("\n")
		sb.WriteString(e.moveText)
		sb.WriteString(string(e.result))
	}
	pgn4 := sb.String()
	e.listener.Pgn4Generated(pgn4)
	return pgn4
}

// Pgn4 renders the game text without emitting a notification.
func (e *Engine) Pgn4() string {
	var lis Listener
	lis, e.listener = e.listener, NopListener{}
	pgn4 := e.generatePgn4()
	e.listener = lis
	return pgn4
}

// parseTag splits a `[Name "value"]` line. The value may contain any
// character but a double quote.
func parseTag(line string) (name, value string, ok bool) {
	body := strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
	open := strings.IndexByte(body, '"')
	if open < 0 {
		return "", "", false
	}
	end := strings.LastIndexByte(body, '"')
	if end <= open {
		return "", "", false
	}
	return strings.TrimSpace(body[:open]), body[open+1 : end], true
}

// ParsePgn4 replaces the game with one read from PGN4 text in the active
// dialect. On any malformed input the engine resets to a fresh game, fires
// CannotReadPgn4 and returns false.
func (e *Engine) ParsePgn4(text string) bool {
	var (
		currentPosition string
		currentMove     string
		startFen4       string
		result          string
		names           [len(colorTags)]string
		ratings         [len(colorTags)]string
		moveLines       []string
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line[0] == '[' && line[len(line)-1] == ']' {
			name, value, ok := parseTag(line)
			if !ok {
				continue
			}
			switch name {
			case "Variant":
				if value == "FFA" || value == "Free-For-All" {
					return e.failParse()
				}
			case "Red", "Blue", "Yellow", "Green":
				for c, label := range colorTags {
					if label == name {
						names[c] = value
					}
				}
			case "RedElo", "BlueElo", "YellowElo", "GreenElo":
				for c, label := range colorTags {
					if label+"Elo" == name {
						ratings[c] = value
					}
				}
			case "Result":
				result = value
			case "CurrentMove":
				currentMove = value
			case "CurrentPosition":
				currentPosition = value
			case "StartFen4":
				startFen4 = value
			}
			continue
		}
		moveLines = append(moveLines, line)
	}

	chesscom := e.dialect() == notation.Chesscom
	if chesscom && currentMove == "" {
		return e.failParse()
	}
	if !chesscom && currentPosition == "" {
		return e.failParse()
	}

	e.NewGame()
	if startFen4 != "" {
		if err := e.SetPositionText(startFen4); err != nil {
			return e.failParse()
		}
	}

	if !e.replayMovetext(strings.Join(moveLines, " ")) {
		return e.failParse()
	}

	// Reposition at the recorded current move.
	e.FirstMove()
	if chesscom {
		if !e.seekMoveNumber(currentMove) {
			return e.failParse()
		}
	} else if target := e.tree.findSnapshot(currentPosition); target != noNode {
		for _, slot := range e.tree.variationPath(target) {
			e.NextMove(slot)
		}
	}

	for c := range names {
		if names[c] != "" {
			e.names[c] = names[c]
		}
		if ratings[c] != "" {
			e.ratings[c] = ratings[c]
		}
	}
	if result != "" {
		e.result = Result(result)
	}
	e.listener.PlayerNamesChanged(e.names[0], e.names[1], e.names[2], e.names[3])
	if chesscom {
		e.listener.PlayerRatingsChanged(e.ratings[0], e.ratings[1], e.ratings[2], e.ratings[3])
	}
	e.generatePgn4()
	return true
}

func (e *Engine) failParse() bool {
	e.NewGame()
	e.listener.CannotReadPgn4()
	return false
}

// replayMovetext replays one movetext string against the live game. On
// return the game holds the full tree; the caller repositions afterwards.
func (e *Engine) replayMovetext(movetext string) bool {
	for _, r := range []string{" 1-0", " 0-1", " 1/2-1/2", " *"} {
		movetext = strings.ReplaceAll(movetext, r, "")
	}
	tokens := notation.Tokenize(movetext)
	var stack []nodeID
	prevClose := false
	for i, token := range tokens {
		switch {
		case token == "" || notation.IsResultToken(token) || notation.IsNumberToken(token):
			// Nothing to replay.
		case token[0] >= '0' && token[0] <= '9' || token[0] == '.':
			// Number context glued to punctuation, e.g. "5." or "5..".
		case notation.IsComment(token):
			if !e.tree.isRoot(e.currentID) {
				e.tree.node(e.currentID).comment = notation.CommentText(token)
			}
		case token == "(":
			if len(stack) >= maxVariationDepth {
				return false
			}
			if !prevClose {
				e.PrevMove()
			}
			stack = append(stack, e.currentID)
		case token == ")":
			if len(stack) == 0 {
				return false
			}
			branch := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for e.currentID != branch {
				if e.tree.isRoot(e.currentID) {
					return false
				}
				e.PrevMove()
			}
			if i+1 >= len(tokens) || tokens[i+1] != "(" {
				e.NextMove(0)
			}
		default:
			if !e.hasCurrent {
				return false
			}
			from, to, err := notation.ParseDisplayed(token, e.current)
			if err != nil {
				return false
			}
			if !e.MakeMove(from, to) {
				return false
			}
		}
		prevClose = token == ")"
	}
	if len(stack) != 0 {
		return false
	}
	// Comments live on the tree; refresh the emitted text once.
	e.updateMoveText()
	return true
}

// seekMoveNumber navigates from the start position to a CurrentMove value,
// either "ply" on the main line or "ply-variation-move" inside a variation.
func (e *Engine) seekMoveNumber(s string) bool {
	parts := strings.Split(s, "-")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return false
		}
		nums[i] = n
	}
	switch len(nums) {
	case 1:
		for i := 0; i < nums[0]; i++ {
			e.NextMove(0)
		}
	case 3:
		ply, variation, move := nums[0], nums[1], nums[2]
		for i := 0; i < ply-1; i++ {
			e.NextMove(0)
		}
		e.NextMove(variation)
		for i := 0; i < move-1; i++ {
			e.NextMove(0)
		}
	default:
		return false
	}
	return true
}
