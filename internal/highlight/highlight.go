// Package highlight tokenises source files for the terminal preview.
package highlight

import (
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Line is one source line split into coloured tokens.
type Line struct {
	Tokens []Token
}

// Token is a run of text drawn in one colour.
type Token struct {
	Text  string
	Color string // hex colour, empty for the terminal default
}

// Source highlights content with the lexer chosen by filename. The result
// has one Line per line of content; files in an unknown language come back
// uncoloured.
func Source(filename, content string) []Line {
	content = strings.TrimRight(content, "\n")
	n := strings.Count(content, "\n") + 1

	lexer := lexerFor(filename)
	if lexer == nil {
		return uncoloured(content)
	}
	it, err := lexer.Tokenise(nil, content)
	if err != nil {
		return uncoloured(content)
	}

	style := styles.Get("dracula")
	out := make([]Line, 0, n)
	for _, toks := range chroma.SplitTokensIntoLines(it.Tokens()) {
		var line Line
		for _, tok := range toks {
			text := strings.TrimSuffix(tok.Value, "\n")
			if text == "" {
				continue
			}
			line.Tokens = append(line.Tokens, Token{Text: text, Color: colour(style, tok.Type)})
		}
		out = append(out, line)
	}

	// Lexers may add or drop a trailing newline.
	for len(out) < n {
		out = append(out, Line{})
	}
	return out[:n]
}

func uncoloured(content string) []Line {
	raw := strings.Split(content, "\n")
	out := make([]Line, len(raw))
	for i, s := range raw {
		out[i] = Line{Tokens: []Token{{Text: s}}}
	}
	return out
}

// lexerFor matches on the file name, then on the lowercased extension since
// chroma's filename globs are case-sensitive.
func lexerFor(filename string) chroma.Lexer {
	base := filepath.Base(filename)
	lexer := lexers.Match(base)
	if lexer == nil {
		if ext := strings.ToLower(filepath.Ext(base)); ext != "" {
			lexer = lexers.Match("x" + ext)
		}
	}
	if lexer == nil {
		return nil
	}
	return chroma.Coalesce(lexer)
}

func colour(style *chroma.Style, tt chroma.TokenType) string {
	if e := style.Get(tt); e.Colour.IsSet() {
		return e.Colour.String()
	}
	return ""
}
