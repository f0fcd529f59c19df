package notation

import "strings"

// Tokenize splits PGN4 movetext into tokens. A comment is one token spanning
// "{ ... }" regardless of internal whitespace; parentheses are always
// standalone tokens even when glued to a neighbor; everything else splits on
// whitespace.
func Tokenize(movetext string) []string {
	var tokens []string
	i := 0
	n := len(movetext)
	for i < n {
		ch := movetext[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			i++
		case ch == '{':
			end := strings.IndexByte(movetext[i:], '}')
			if end < 0 {
				tokens = append(tokens, movetext[i:])
				i = n
				break
			}
			tokens = append(tokens, movetext[i:i+end+1])
			i += end + 1
		case ch == '(' || ch == ')':
			tokens = append(tokens, string(ch))
			i++
		default:
			start := i
			for i < n {
				c := movetext[i]
				if c == ' ' || c == '\t' || c == '\r' || c == '\n' ||
					c == '{' || c == '(' || c == ')' {
					break
				}
				i++
			}
			tokens = append(tokens, movetext[start:i])
		}
	}
	return tokens
}

// IsNumberToken reports whether a token is pure move-number context: a
// digit-led number (with or without trailing period) or a run of periods
// marking skipped plies. Such tokens carry no move of their own.
func IsNumberToken(token string) bool {
	if token == "" {
		return false
	}
	if token[0] == '.' {
		for i := 0; i < len(token); i++ {
			if token[i] != '.' {
				return false
			}
		}
		return true
	}
	if token[0] < '0' || token[0] > '9' {
		return false
	}
	for i := 1; i < len(token); i++ {
		if (token[i] < '0' || token[i] > '9') && token[i] != '.' {
			return false
		}
	}
	return true
}

// IsComment reports whether a token is a brace comment.
func IsComment(token string) bool {
	return len(token) >= 2 && token[0] == '{'
}

// CommentText strips the braces and surrounding whitespace from a comment
// token.
func CommentText(token string) string {
	s := strings.TrimPrefix(token, "{")
	s = strings.TrimSuffix(s, "}")
	return strings.TrimSpace(s)
}

// IsResultToken reports whether a token terminates movetext.
func IsResultToken(token string) bool {
	switch token {
	case "*", "1-0", "0-1", "1/2-1/2":
		return true
	}
	return false
}
