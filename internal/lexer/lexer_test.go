package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sailc/internal/token"
)

func collect(t *testing.T, src string) []*token.Token {
	t.Helper()
	l := New(src)
	var toks []*token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func kinds(toks []*token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	toks := collect(t, "fun start tree return dec new and or own void notakeyword")
	require.Len(t, toks, 12)
	assert.Equal(t, []token.Kind{
		token.FUN, token.START, token.TREE, token.RETURN, token.DEC, token.NEW,
		token.AND, token.OR, token.OWN, token.VOID, token.IDENT, token.EOF,
	}, kinds(toks))
}

func TestLiterals(t *testing.T) {
	toks := collect(t, `42 3.5 "hi" true false`)
	require.Len(t, toks, 6)
	assert.Equal(t, token.INTEGER, toks[0].Kind)
	assert.Equal(t, "42", toks[0].Value)
	assert.Equal(t, token.FLOAT, toks[1].Kind)
	assert.Equal(t, token.STRING, toks[2].Kind)
	assert.Equal(t, `"hi"`, toks[2].Value)
	assert.Equal(t, token.BOOL, toks[3].Kind)
	assert.Equal(t, token.BOOL, toks[4].Kind)
}

func TestLongestOperatorWinsOverPrefix(t *testing.T) {
	toks := collect(t, "** ... += -= *= /= ++ -- == != <= >=")
	got := kinds(toks)[:12]
	assert.Equal(t, []token.Kind{
		token.POW, token.TRIPLE_DOT, token.ADDTO, token.SUBFROM, token.MULTTO, token.DIVFROM,
		token.INC, token.DEC_OP, token.EQ, token.NEQ, token.LE, token.GE,
	}, got)
}

func TestCommentsAndCommasTokenizeNotSkippedByLexer(t *testing.T) {
	// The lexer itself still produces COMMENT and COMMA tokens; it is C1
	// (the token-stream adapter in package compiler) that filters them.
	toks := collect(t, "a, b // trailing comment\nc")
	got := kinds(toks)
	assert.Contains(t, got, token.COMMA)
	assert.Contains(t, got, token.COMMENT)
}

func TestLineTracking(t *testing.T) {
	toks := collect(t, "a\nb\nc")
	require.Len(t, toks, 4)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 3, toks[2].Line)
}

func TestMismatchProducesErrorToken(t *testing.T) {
	toks := collect(t, "a $ b")
	require.Len(t, toks, 4)
	assert.Equal(t, token.ERROR, toks[1].Kind)
}

func TestEmptySourceIsImmediateEOF(t *testing.T) {
	l := New("")
	tok := l.NextToken()
	assert.Equal(t, token.EOF, tok.Kind)
}
