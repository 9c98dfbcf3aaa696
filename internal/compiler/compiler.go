// Package compiler implements the fused parser, type checker, and C emitter
// (C6) described in spec.md §4.5: each grammar production consumes tokens
// through the token-stream adapter (C1), consults/mutates the symbol and UDT
// tables (C2/C3) via the signature codec (C5), and appends translated C text
// to the output buffer in the same pass that validates it.
package compiler

import (
	"strings"

	"sailc/internal/diag"
	"sailc/internal/lexer"
	"sailc/internal/symtab"
	"sailc/internal/token"
	"sailc/internal/udttab"
)

const outputHeader = "#include <stdio.h>\n#include <stdlib.h>\n#include <string.h>\n" +
	"#include <stdint.h>\n#include <math.h>\n#include \"stdlib_c.h\"\n\n"

var primitives = map[string]bool{"int": true, "flt": true, "bool": true, "str": true, "void": true}

// builtins maps display_* call names to the C runtime shim they translate
// to, and the argument type each expects.
var builtins = map[string]struct {
	cName   string
	argType string
}{
	"display_str": {"print_str", "str"},
	"display_int": {"print_int", "int"},
	"display_flt": {"print_flt", "flt"},
}

// Compiler is the single forward pass over one compilation unit's tokens.
// There is exactly one token cursor, one scope stack, and one output buffer
// per instance (spec.md §5); nothing here is shared across compilations.
type Compiler struct {
	lex      *lexer.Lexer
	cur      *token.Token
	diag     *diag.Reporter
	syms     *symtab.Table
	udts     *udttab.Table
	out      strings.Builder
	filename string
	indent   int

	// curUDT is non-empty while a UDT definition (attributes and methods) is
	// being parsed, and curMethods while its method bodies are, so that
	// attribute access via "own" and calls that resolve in the method scope
	// can be recognized.
	curUDT     string
	curMethods *symtab.Table

	// curFuncOutput is the declared output type of the function whose body
	// is currently being parsed, checked against every return statement.
	curFuncOutput string

	// declarations records one entry per top-level import/UDT/function, in
	// source order, for --verbose logging (SPEC_FULL.md §8 scenario 10) and
	// to recognize the empty-source boundary case (spec.md §8).
	declarations []string
}

// Result is the outcome of a successful compilation.
type Result struct {
	Code         string
	Warnings     []string
	Declarations []string
}

// Compile runs the fused pass over src and returns the emitted C translation
// unit. On the first diagnostic, compilation aborts and that diagnostic is
// returned as err; no C is returned for a failed compilation (spec.md §5:
// "emitted text accumulated before the error is discarded").
func Compile(filename, src string) (res Result, err error) {
	c := &Compiler{
		lex:      lexer.New(src),
		diag:     diag.New(filename),
		syms:     symtab.New(),
		udts:     udttab.New(),
		filename: filename,
	}

	defer func() {
		if r := recover(); r != nil {
			if ab, ok := r.(*diag.Abort); ok {
				err = ab
				res = Result{}
				return
			}
			panic(r)
		}
	}()

	c.advance()
	c.out.WriteString(outputHeader)
	c.parseProgram()

	res = Result{Code: c.out.String(), Warnings: c.diag.Warnings, Declarations: c.declarations}
	return res, nil
}

// ---------------------------------------------------------------------
// C1: token-stream adapter
// ---------------------------------------------------------------------

func (c *Compiler) peek() *token.Token { return c.cur }

// expect requires the current token's kind to equal k, reports a Parse
// diagnostic otherwise, and always advances past the current token.
func (c *Compiler) expect(k token.Kind) *token.Token {
	t := c.cur
	if t.Kind != k {
		c.diag.Fail(diag.Parse, t.Line, t.Column,
			"expected "+k.String()+", received "+t.Kind.String()+" ("+t.Value+")")
	}
	c.advance()
	return t
}

// advance reads the next raw token, transparently skipping COMMENT and
// COMMA, and aborting on a lexer ERROR token.
func (c *Compiler) advance() {
	c.cur = c.lex.NextToken()
	for c.cur.Kind == token.COMMENT || c.cur.Kind == token.COMMA {
		c.cur = c.lex.NextToken()
	}
	if c.cur.Kind == token.ERROR {
		c.diag.Fail(diag.Lex, c.cur.Line, c.cur.Column, "unrecognized input: "+c.cur.Value)
	}
}

// at is a convenience check for the current token's kind.
func (c *Compiler) at(k token.Kind) bool { return c.cur.Kind == k }

// ---------------------------------------------------------------------
// emission helpers
// ---------------------------------------------------------------------

func (c *Compiler) emit(text string) { c.out.WriteString(text) }

func (c *Compiler) emitIndent() { c.out.WriteString(strings.Repeat("    ", c.indent)) }

func (c *Compiler) emitLine(text string) {
	c.emitIndent()
	c.out.WriteString(text)
	c.out.WriteString("\n")
}

// cType maps a language primitive (or UDT pointer) to its C spelling, per
// spec.md §4.5. Lists become pointers to their element type and
// dictionaries the runtime's Dict*.
func (c *Compiler) cType(typ string) string {
	switch typ {
	case "int":
		return "int"
	case "flt":
		return "float"
	case "str":
		return "char*"
	case "bool":
		return "int"
	case "void":
		return "void"
	default:
		if c.udts.Has(typ) {
			return typ + "*"
		}
		if strings.HasPrefix(typ, "[") && strings.HasSuffix(typ, "]") {
			return c.cType(typ[1:len(typ)-1]) + "*"
		}
		if strings.HasPrefix(typ, "{") && strings.HasSuffix(typ, "}") {
			return "Dict*"
		}
		return typ
	}
}

// ---------------------------------------------------------------------
// semantic helpers (C4 via diag, consulting C2/C3 via sig)
// ---------------------------------------------------------------------

func isKeyword(name string) bool {
	_, ok := token.Keywords[name]
	return ok
}

// checkReservedName enforces spec.md §3's Reserved-name rule: primitives,
// keywords, and existing UDT names cannot be redeclared.
func (c *Compiler) checkReservedName(name string, line, col int) {
	if name == "void" {
		return
	}
	if primitives[name] || isKeyword(name) || c.udts.Has(name) {
		c.diag.Fail(diag.Reserved, line, col,
			"'"+name+"' illegally shares its name with a type or reserved word")
	}
}

// checkTypeExists ensures typ is a primitive or a registered UDT, a list of
// one, or a dictionary whose key and value types pass this same check.
func (c *Compiler) checkTypeExists(typ string, line, col int) {
	if strings.HasPrefix(typ, "{") && strings.HasSuffix(typ, "}") {
		inner, depth := typ[1:len(typ)-1], 0
		for i, r := range inner {
			switch {
			case r == '[' || r == '{':
				depth++
			case r == ']' || r == '}':
				depth--
			case r == ':' && depth == 0:
				c.checkTypeExists(inner[:i], line, col)
				c.checkTypeExists(inner[i+1:], line, col)
				return
			}
		}
	}
	base := typ
	if strings.HasPrefix(base, "[") && strings.HasSuffix(base, "]") {
		base = base[1 : len(base)-1]
	}
	if primitives[base] || c.udts.Has(base) || base == c.curUDT {
		return
	}
	c.diag.Fail(diag.Name, line, col, "unknown type: "+typ)
}

// checkType enforces an equality constraint between two synthesized types.
func (c *Compiler) checkType(expected, actual string, line, col int, context string) {
	if expected != actual {
		c.diag.Fail(diag.Type, line, col,
			context+": expected "+expected+", got "+actual)
	}
}

// checkExists resolves name in the current scope (or, inside a method body,
// the enclosing UDT's method scope as well) and returns its signature.
func (c *Compiler) checkExists(name string, line, col int) string {
	if enc, ok := c.syms.Lookup(name); ok {
		return enc
	}
	if c.curMethods != nil {
		if enc, ok := c.curMethods.Lookup(name); ok {
			return enc
		}
	}
	c.diag.Fail(diag.Name, line, col, "undefined identifier: "+name)
	return ""
}

func numeric(t string) bool { return t == "int" || t == "flt" }
