// Package lexer implements the tokenizer (C7): a single combined regular
// expression with one named group per token kind, in the style of the
// hand-rolled tokenizer this compiler's lineage has always used rather than
// a generated scanner.
package lexer

import (
	"fmt"
	"regexp"
	"strings"

	"sailc/internal/token"
)

type spec struct {
	kind  string
	regex string
}

// Order matters: longer/more specific patterns must be tried before their
// prefixes (e.g. "**" before "*", "..." before ".").
var specs = []spec{
	{"COMMENT", `//[^\n]*`},
	{"FLOAT", `\d+\.\d+`},
	{"INTEGER", `\d+`},
	{"STRING", `"(?:[^"\\]|\\.)*"`},
	{"IDENT", `[A-Za-z_][A-Za-z0-9_]*`},
	{"TRIPLE_DOT", `\.\.\.`},
	{"DOT", `\.`},
	{"POW", `\*\*`},
	{"ADDTO", `\+=`},
	{"SUBFROM", `-=`},
	{"MULTTO", `\*=`},
	{"DIVFROM", `/=`},
	{"INC", `\+\+`},
	{"DEC_OP", `--`},
	{"EQ", `==`},
	{"NEQ", `!=`},
	{"LE", `<=`},
	{"GE", `>=`},
	{"LT", `<`},
	{"GT", `>`},
	{"ASSIGN", `=`},
	{"PLUS", `\+`},
	{"MINUS", `-`},
	{"STAR", `\*`},
	{"SLASH", `/`},
	{"PERCENT", `%`},
	{"NOT", `!`},
	{"LPAREN", `\(`},
	{"RPAREN", `\)`},
	{"LBRACE", `\{`},
	{"RBRACE", `\}`},
	{"LBRACKET", `\[`},
	{"RBRACKET", `\]`},
	{"COLON", `:`},
	{"COMMA", `,`},
	{"PIPE", `\|`},
	{"NEWLINE", "\n"},
	{"SKIP", `[ \t\r]+`},
	{"MISMATCH", `.`},
}

var combined = regexp.MustCompile(func() string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = fmt.Sprintf("(?P<%s>%s)", s.kind, s.regex)
	}
	return strings.Join(parts, "|")
}())

// Lexer produces a stream of tokens with blocking NextToken() semantics, per
// spec.md §6's lexer interface contract.
type Lexer struct {
	src     string
	matches [][]int
	idx     int
	line    int
	lastEOL int
	done    bool
}

func New(src string) *Lexer {
	return &Lexer{
		src:     src,
		matches: combined.FindAllStringSubmatchIndex(src, -1),
		line:    1,
	}
}

// NextToken returns the next token, or an EOF sentinel once the source is
// exhausted. It never returns nil.
func (l *Lexer) NextToken() *token.Token {
	for l.idx < len(l.matches) {
		m := l.matches[l.idx]
		l.idx++

		start, end := m[0], m[1]
		value := l.src[start:end]
		kind := l.matchedKind(m)
		col := start - l.lastEOL

		switch kind {
		case "SKIP", "":
			continue
		case "NEWLINE":
			l.line++
			l.lastEOL = end
			continue
		case "COMMENT":
			return &token.Token{Kind: token.COMMENT, Value: value, Line: l.line, Column: col}
		case "MISMATCH":
			return &token.Token{Kind: token.ERROR, Value: value, Line: l.line, Column: col}
		case "IDENT":
			if value == "true" || value == "false" {
				return &token.Token{Kind: token.BOOL, Value: value, Line: l.line, Column: col}
			}
			if kw, ok := token.Keywords[value]; ok {
				return &token.Token{Kind: kw, Value: value, Line: l.line, Column: col}
			}
			return &token.Token{Kind: token.IDENT, Value: value, Line: l.line, Column: col}
		default:
			tk, ok := kindByName[kind]
			if !ok {
				return &token.Token{Kind: token.ERROR, Value: value, Line: l.line, Column: col}
			}
			return &token.Token{Kind: tk, Value: value, Line: l.line, Column: col}
		}
	}

	l.done = true
	return &token.Token{Kind: token.EOF, Value: "", Line: l.line, Column: 0}
}

func (l *Lexer) matchedKind(m []int) string {
	for i, s := range specs {
		start, end := m[2*(i+1)], m[2*(i+1)+1]
		if start != -1 && end != -1 {
			return s.kind
		}
	}
	return ""
}

var kindByName = map[string]token.Kind{
	"FLOAT": token.FLOAT, "INTEGER": token.INTEGER, "STRING": token.STRING,
	"TRIPLE_DOT": token.TRIPLE_DOT, "DOT": token.DOT, "POW": token.POW,
	"ADDTO": token.ADDTO, "SUBFROM": token.SUBFROM, "MULTTO": token.MULTTO, "DIVFROM": token.DIVFROM,
	"INC": token.INC, "DEC_OP": token.DEC_OP, "EQ": token.EQ, "NEQ": token.NEQ,
	"LE": token.LE, "GE": token.GE, "LT": token.LT, "GT": token.GT, "ASSIGN": token.ASSIGN,
	"PLUS": token.PLUS, "MINUS": token.MINUS, "STAR": token.STAR, "SLASH": token.SLASH,
	"PERCENT": token.PERCENT, "NOT": token.NOT, "LPAREN": token.LPAREN, "RPAREN": token.RPAREN,
	"LBRACE": token.LBRACE, "RBRACE": token.RBRACE, "LBRACKET": token.LBRACKET, "RBRACKET": token.RBRACKET,
	"COLON": token.COLON, "COMMA": token.COMMA, "PIPE": token.PIPE,
}
