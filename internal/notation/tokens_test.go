package notation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenize(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want []string
	}{
		{"1. h2h3 b8c8", []string{"1.", "h2h3", "b8c8"}},
		{"1. h2h3 ( 1 g2g3 ) ", []string{"1.", "h2h3", "(", "1", "g2g3", ")"}},
		{"(g2g3)", []string{"(", "g2g3", ")"}},
		{"h2h3 { nice opening move } b8c8", []string{"h2h3", "{ nice opening move }", "b8c8"}},
		{"2. .. h3h4", []string{"2.", "..", "h3h4"}},
		{"  h2h3\n\tb8c8 ", []string{"h2h3", "b8c8"}},
		{"h2h3 { unterminated", []string{"h2h3", "{ unterminated"}},
		{"", nil},
	} {
		got := Tokenize(tc.in)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("Tokenize(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestIsNumberToken(t *testing.T) {
	for token, want := range map[string]bool{
		"1.":      true,
		"12":      true,
		"3...":    true,
		".":       true,
		"...":     true,
		"1-0":     false,
		"1/2-1/2": false,
		"h2h3":    false,
		"O-O":     false,
		"":        false,
	} {
		if got := IsNumberToken(token); got != want {
			t.Fatalf("IsNumberToken(%q) = %v, want %v", token, got, want)
		}
	}
}

func TestCommentTokens(t *testing.T) {
	token := "{  sharp line  }"
	if !IsComment(token) {
		t.Fatalf("comment token not recognized")
	}
	if got := CommentText(token); got != "sharp line" {
		t.Fatalf("CommentText = %q", got)
	}
	if IsComment("h2h3") {
		t.Fatalf("move token recognized as comment")
	}
}

func TestIsResultToken(t *testing.T) {
	for token, want := range map[string]bool{
		"*": true, "1-0": true, "0-1": true, "1/2-1/2": true,
		"h2h3": false, "1.": false,
	} {
		if got := IsResultToken(token); got != want {
			t.Fatalf("IsResultToken(%q) = %v, want %v", token, got, want)
		}
	}
}
