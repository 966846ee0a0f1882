package cpp

import (
	"strings"
	"unicode"

	"github.com/ccore-lang/ccore/ir"
)

// lex tokenizes src into a flat token list, stamping each token's location
// relative to file. It performs digraph respelling (spec "cpp" DOMAIN
// additions) inline so every downstream consumer sees only primary
// spellings. Newlines are preserved as TokNewline tokens so the directive
// dispatcher can recognize "`#` at line start" (spec §4.2.1) without a
// separate line-tracking pass.
func lex(file, src string) []Token {
	var toks []Token
	line, col := 1, 1
	atLineStart := true
	sawWhitespace := false

	i := 0
	n := len(src)
	advance := func(k int) {
		for _, r := range src[i : i+k] {
			if r == '\n' {
				line++
				col = 1
			} else {
				col++
			}
		}
		i += k
	}
	loc := func() ir.Location { return ir.Location{File: file, Line: line, Column: col} }

	for i < n {
		c := src[i]
		switch {
		case c == '\n':
			toks = append(toks, Token{Kind: TokNewline, Text: "\n", Loc: loc()})
			advance(1)
			atLineStart = true
			sawWhitespace = false
			continue
		case c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f':
			advance(1)
			sawWhitespace = true
			continue
		case c == '\\' && i+1 < n && src[i+1] == '\n':
			// Line continuation: consumed as whitespace, line count still
			// advances (matches the original's escape-processing buffer
			// mode, spec §3.2).
			advance(2)
			sawWhitespace = true
			continue
		case c == '/' && i+1 < n && src[i+1] == '/':
			j := i
			for j < n && src[j] != '\n' {
				j++
			}
			advance(j - i)
			sawWhitespace = true
			continue
		case c == '/' && i+1 < n && src[i+1] == '*':
			j := i + 2
			for j+1 < n && !(src[j] == '*' && src[j+1] == '/') {
				j++
			}
			end := j + 2
			if end > n {
				end = n
			}
			advance(end - i)
			sawWhitespace = true
			continue
		}

		start := loc()
		ws := sawWhitespace
		sawWhitespace = false

		switch {
		case isIdentStart(rune(c)):
			j := i
			for j < n && isIdentCont(rune(src[j])) {
				j++
			}
			text := src[i:j]
			advance(j - i)
			toks = append(toks, Token{Kind: TokName, Text: text, Loc: start, PrecededByWhitespace: ws})

		case unicode.IsDigit(rune(c)) || (c == '.' && i+1 < n && unicode.IsDigit(rune(src[i+1]))):
			j := i
			for j < n && isPPNumberCont(src, j) {
				j++
			}
			text := src[i:j]
			advance(j - i)
			toks = append(toks, Token{Kind: TokNumber, Text: text, Loc: start, PrecededByWhitespace: ws})

		case c == '"':
			j := i + 1
			for j < n && src[j] != '"' {
				if src[j] == '\\' && j+1 < n {
					j++
				}
				j++
			}
			if j < n {
				j++
			}
			text := src[i:j]
			advance(j - i)
			toks = append(toks, Token{Kind: TokString, Text: text, Loc: start, PrecededByWhitespace: ws})

		case c == '\'':
			j := i + 1
			for j < n && src[j] != '\'' {
				if src[j] == '\\' && j+1 < n {
					j++
				}
				j++
			}
			if j < n {
				j++
			}
			text := src[i:j]
			advance(j - i)
			toks = append(toks, Token{Kind: TokCharConst, Text: text, Loc: start, PrecededByWhitespace: ws})

		default:
			text, kind := lexPunct(src, i)
			if resp, ok := respellDigraph(text); ok {
				text = resp
			}
			advance(len(punctRaw(src, i, len(text))))
			if atLineStart && text == "#" {
				kind = TokHash
			}
			toks = append(toks, Token{Kind: kind, Text: text, Loc: start, PrecededByWhitespace: ws})
		}
		atLineStart = false
	}
	toks = append(toks, Token{Kind: TokEOF, Loc: loc()})
	return toks
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || r == '$'
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || r == '$'
}

func isPPNumberCont(src string, j int) bool {
	c := src[j]
	if unicode.IsDigit(rune(c)) || c == '.' || isIdentCont(rune(c)) {
		return true
	}
	if (c == '+' || c == '-') && j > 0 {
		p := src[j-1]
		if p == 'e' || p == 'E' || p == 'p' || p == 'P' {
			return true
		}
	}
	return false
}

// multiCharPuncts lists punctuators longer than one byte, longest first so
// lexPunct's greedy scan prefers them (e.g. "##" over "#", "%:%:" over
// "%:").
var multiCharPuncts = []string{
	"%:%:", "<<=", ">>=", "...",
	"##", "<:", ":>", "<%", "%>", "%:",
	"<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"++", "--", "->", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
}

func lexPunct(src string, i int) (string, TokenKind) {
	for _, p := range multiCharPuncts {
		if strings.HasPrefix(src[i:], p) {
			return p, TokPunct
		}
	}
	text := src[i : i+1]
	switch text {
	case "(":
		return text, TokLParen
	case ")":
		return text, TokRParen
	case ",":
		return text, TokComma
	case "#":
		return text, TokHash
	default:
		return text, TokPunct
	}
}

func punctRaw(src string, i, fallbackLen int) string {
	for _, p := range multiCharPuncts {
		if strings.HasPrefix(src[i:], p) {
			return p
		}
	}
	return src[i : i+fallbackLen]
}
