package compiler

import (
	"strconv"
	"strings"

	"sailc/internal/diag"
	"sailc/internal/sig"
	"sailc/internal/token"
)

// exprVal is the synthesized result of parsing an expression production: a
// type string and the C text it translates to. Expressions never write
// directly to the output buffer — only a Statement commits .text to it,
// once every check along the way has passed (spec.md §3 "Emission is only
// appended to the buffer after the corresponding construct has passed the
// checks relevant to it"). ident carries the raw source identifier when the
// value is a bare variable reference or the own-accessor, which member
// access needs to resolve its receiver.
type exprVal struct {
	typ   string
	text  string
	ident string
}

// parseExpr is the entry point into the precedence ladder (spec.md §4.5):
// Assignment, lowest, down to Primary, highest. Each rung tries its own
// operator(s) and otherwise falls through to the next rung with the left
// operand threaded in.
func (c *Compiler) parseExpr() exprVal { return c.parseAssignment() }

func (c *Compiler) parseAssignment() exprVal {
	tok := c.peek()
	left := c.parseLogical()
	if !c.at(token.ASSIGN) {
		return left
	}
	if left.ident == "" {
		c.diag.Fail(diag.Type, tok.Line, tok.Column, "left-hand side of '=' must be an lvalue")
	}
	c.advance()
	right := c.parseAssignment()
	c.checkType(left.typ, right.typ, tok.Line, tok.Column, "assignment to "+left.ident)
	return exprVal{typ: left.typ, text: left.text + " = " + right.text}
}

func (c *Compiler) parseLogical() exprVal {
	left := c.parseEquality()
	for c.at(token.AND) || c.at(token.OR) {
		opTok := c.peek()
		op := "&&"
		if opTok.Kind == token.OR {
			op = "||"
		}
		c.advance()
		right := c.parseEquality()
		c.checkType("bool", left.typ, opTok.Line, opTok.Column, "logical operand")
		c.checkType("bool", right.typ, opTok.Line, opTok.Column, "logical operand")
		left = exprVal{typ: "bool", text: left.text + " " + op + " " + right.text}
	}
	return left
}

func (c *Compiler) parseEquality() exprVal {
	left := c.parseOrdering()
	for c.at(token.EQ) || c.at(token.NEQ) {
		opTok := c.peek()
		op := opTok.Kind.String()
		c.advance()
		right := c.parseOrdering()
		c.checkType(left.typ, right.typ, opTok.Line, opTok.Column, "equality operand")
		left = exprVal{typ: "bool", text: left.text + " " + op + " " + right.text}
	}
	return left
}

func (c *Compiler) parseOrdering() exprVal {
	left := c.parseAdditive()
	for c.at(token.LT) || c.at(token.LE) || c.at(token.GT) || c.at(token.GE) {
		opTok := c.peek()
		op := opTok.Kind.String()
		c.advance()
		right := c.parseAdditive()
		if !numeric(left.typ) {
			c.diag.Fail(diag.Type, opTok.Line, opTok.Column, "ordering operand must be numeric, got "+left.typ)
		}
		c.checkType(left.typ, right.typ, opTok.Line, opTok.Column, "ordering operand")
		left = exprVal{typ: "bool", text: left.text + " " + op + " " + right.text}
	}
	return left
}

func (c *Compiler) parseAdditive() exprVal {
	left := c.parseMultiplicative()
	for c.at(token.PLUS) || c.at(token.MINUS) {
		opTok := c.peek()
		op := opTok.Kind.String()
		c.advance()
		right := c.parseMultiplicative()
		if !numeric(left.typ) {
			c.diag.Fail(diag.Type, opTok.Line, opTok.Column, "arithmetic operand must be numeric, got "+left.typ)
		}
		c.checkType(left.typ, right.typ, opTok.Line, opTok.Column, "arithmetic operand")
		left = exprVal{typ: left.typ, text: left.text + " " + op + " " + right.text}
	}
	return left
}

func (c *Compiler) parseMultiplicative() exprVal {
	left := c.parseExponent()
	for c.at(token.STAR) || c.at(token.SLASH) || c.at(token.PERCENT) {
		opTok := c.peek()
		op := opTok.Kind.String()
		c.advance()
		right := c.parseExponent()
		if opTok.Kind == token.PERCENT {
			c.checkType("int", left.typ, opTok.Line, opTok.Column, "% operand")
			c.checkType("int", right.typ, opTok.Line, opTok.Column, "% operand")
			left = exprVal{typ: "int", text: left.text + " % " + right.text}
			continue
		}
		if !numeric(left.typ) {
			c.diag.Fail(diag.Type, opTok.Line, opTok.Column, "arithmetic operand must be numeric, got "+left.typ)
		}
		c.checkType(left.typ, right.typ, opTok.Line, opTok.Column, "arithmetic operand")
		left = exprVal{typ: left.typ, text: left.text + " " + op + " " + right.text}
	}
	return left
}

func (c *Compiler) parseExponent() exprVal {
	left := c.parseUnary()
	for c.at(token.POW) {
		opTok := c.peek()
		c.advance()
		right := c.parseUnary()
		c.checkType("int", left.typ, opTok.Line, opTok.Column, "** operand")
		c.checkType("int", right.typ, opTok.Line, opTok.Column, "** operand")
		left = exprVal{typ: "int", text: "(int)pow(" + left.text + ", " + right.text + ")"}
	}
	return left
}

// parseUnary handles the prefix forms !, ++, -- (spec.md §4.5); absent one
// of those, it falls through to the next rung, compound assignment.
func (c *Compiler) parseUnary() exprVal {
	switch {
	case c.at(token.NOT):
		tok := c.peek()
		c.advance()
		v := c.parseUnary()
		c.checkType("bool", v.typ, tok.Line, tok.Column, "! operand")
		return exprVal{typ: "bool", text: "!" + v.text}
	case c.at(token.INC) || c.at(token.DEC_OP):
		tok := c.peek()
		op := tok.Kind.String()
		c.advance()
		v := c.parseUnary()
		if !numeric(v.typ) {
			c.diag.Fail(diag.Type, tok.Line, tok.Column, op+" operand must be numeric, got "+v.typ)
		}
		return exprVal{typ: v.typ, text: op + v.text}
	default:
		return c.parseCompoundAssign()
	}
}

func (c *Compiler) parseCompoundAssign() exprVal {
	left := c.parseMember()
	if !(c.at(token.ADDTO) || c.at(token.SUBFROM) || c.at(token.MULTTO) || c.at(token.DIVFROM)) {
		return left
	}
	opTok := c.peek()
	op := opTok.Kind.String()
	if left.ident == "" {
		c.diag.Fail(diag.Type, opTok.Line, opTok.Column, "left-hand side of '"+op+"' must be an lvalue")
	}
	c.advance()
	right := c.parseCompoundAssign()
	c.checkType(left.typ, right.typ, opTok.Line, opTok.Column, "compound assignment to "+left.ident)
	return exprVal{typ: left.typ, text: left.text + " " + op + " " + right.text}
}

// parseMember handles ".Identifier" (attribute access, only legal via the
// own-accessor inside a method body) and "...Identifier(args)" (a method
// call on a UDT-typed receiver), chaining left-to-right.
func (c *Compiler) parseMember() exprVal {
	left := c.parseNew()
	for c.at(token.DOT) || c.at(token.TRIPLE_DOT) {
		if c.at(token.DOT) {
			left = c.parseAttributeAccess(left)
		} else {
			left = c.parseMethodAccess(left)
		}
	}
	return left
}

func (c *Compiler) parseAttributeAccess(recv exprVal) exprVal {
	dotTok := c.expect(token.DOT)
	attrTok := c.expect(token.IDENT)
	if recv.ident != "own" || c.curUDT == "" {
		c.diag.Fail(diag.Scope, dotTok.Line, dotTok.Column,
			"attribute access is only legal inside a method body, via 'own'")
	}
	desc, _ := c.udts.Lookup(c.curUDT)
	enc, ok := desc.Attributes.Lookup(attrTok.Value)
	if !ok {
		c.diag.Fail(diag.Name, attrTok.Line, attrTok.Column, "no such attribute: "+attrTok.Value)
	}
	return exprVal{typ: sig.ParseVariableType(enc), text: "_own_->" + attrTok.Value}
}

func (c *Compiler) parseMethodAccess(recv exprVal) exprVal {
	dotsTok := c.expect(token.TRIPLE_DOT)
	methodTok := c.expect(token.IDENT)
	if recv.ident == "" {
		c.diag.Fail(diag.Type, dotsTok.Line, dotsTok.Column, "method access requires a variable receiver")
	}
	if !c.udts.Has(recv.typ) {
		c.diag.Fail(diag.Type, dotsTok.Line, dotsTok.Column, recv.ident+" is not a UDT instance")
	}
	desc, _ := c.udts.Lookup(recv.typ)
	enc, ok := desc.Methods.Lookup(methodTok.Value)
	if !ok {
		c.diag.Fail(diag.Name, methodTok.Line, methodTok.Column, "no such method: "+methodTok.Value)
	}
	want := sig.ParseFunctionInputTypes(enc)
	args := c.parseCallArgList(want, methodTok.Value, methodTok.Line, methodTok.Column)
	text := methodTok.Value + "(" + recv.text
	if len(args) > 0 {
		text += ", " + strings.Join(args, ", ")
	}
	text += ")"
	return exprVal{typ: sig.ParseFunctionReturnType(enc), text: text}
}

// parseNew handles "new Identifier { Identifier: Primary, … }"; absent the
// leading "new", falls through to Primary.
func (c *Compiler) parseNew() exprVal {
	if !c.at(token.NEW) {
		return c.parsePrimary()
	}
	c.advance()
	nameTok := c.expect(token.IDENT)
	if !c.udts.Has(nameTok.Value) {
		c.diag.Fail(diag.Name, nameTok.Line, nameTok.Column, "unknown UDT: "+nameTok.Value)
	}
	desc, _ := c.udts.Lookup(nameTok.Value)

	c.expect(token.LBRACE)
	given := map[string]exprVal{}
	for !c.at(token.RBRACE) {
		attrTok := c.expect(token.IDENT)
		c.expect(token.COLON)
		v := c.parsePrimary()
		if _, dup := given[attrTok.Value]; dup {
			c.diag.Fail(diag.Name, attrTok.Line, attrTok.Column, "duplicate attribute initializer: "+attrTok.Value)
		}
		given[attrTok.Value] = v
	}
	c.expect(token.RBRACE)

	if len(given) != len(desc.AttrOrder) {
		c.diag.Fail(diag.Type, nameTok.Line, nameTok.Column,
			"new "+nameTok.Value+": expected "+strconv.Itoa(len(desc.AttrOrder))+" attributes, got "+strconv.Itoa(len(given)))
	}

	args := make([]string, 0, len(desc.AttrOrder))
	for _, attrName := range desc.AttrOrder {
		v, ok := given[attrName]
		if !ok {
			c.diag.Fail(diag.Type, nameTok.Line, nameTok.Column, "new "+nameTok.Value+": missing attribute "+attrName)
		}
		declaredEnc, _ := desc.Attributes.Lookup(attrName)
		c.checkType(sig.ParseVariableType(declaredEnc), v.typ, nameTok.Line, nameTok.Column,
			"attribute "+attrName+" of "+nameTok.Value)
		args = append(args, v.text)
	}

	return exprVal{typ: nameTok.Value, text: "construct_" + nameTok.Value + "(" + strings.Join(args, ", ") + ")"}
}

// parseCallArgList parses a parenthesized, comma-separated argument list of
// Primary expressions and checks it against want, emitting a diagnostic
// (Type, on arity or any argument's type) before returning.
func (c *Compiler) parseCallArgList(want []string, calleeName string, line, col int) []string {
	c.expect(token.LPAREN)
	var texts []string
	i := 0
	for !c.at(token.RPAREN) {
		argTok := c.peek()
		v := c.parsePrimary()
		if i < len(want) {
			c.checkType(want[i], v.typ, argTok.Line, argTok.Column,
				"argument "+strconv.Itoa(i+1)+" to "+calleeName)
		}
		texts = append(texts, v.text)
		i++
	}
	c.expect(token.RPAREN)
	if i != len(want) {
		c.diag.Fail(diag.Type, line, col,
			calleeName+": expected "+strconv.Itoa(len(want))+" arguments, got "+strconv.Itoa(i))
	}
	return texts
}

// parsePrimary recognizes literals, identifiers (bare variable references or
// function calls), list literals, dictionary literals, and the own-accessor
// — the highest-binding rung of the ladder (spec.md §4.5).
func (c *Compiler) parsePrimary() exprVal {
	tok := c.peek()
	switch tok.Kind {
	case token.BOOL:
		c.advance()
		if tok.Value == "true" {
			return exprVal{typ: "bool", text: "1"}
		}
		return exprVal{typ: "bool", text: "0"}
	case token.INTEGER:
		c.advance()
		return exprVal{typ: "int", text: tok.Value}
	case token.FLOAT:
		c.advance()
		return exprVal{typ: "flt", text: tok.Value}
	case token.STRING:
		c.advance()
		return exprVal{typ: "str", text: tok.Value}
	case token.OWN:
		c.advance()
		if c.curUDT == "" {
			c.diag.Fail(diag.Scope, tok.Line, tok.Column, "'own' used outside a method body")
		}
		return exprVal{typ: c.curUDT, text: "_own_", ident: "own"}
	case token.LBRACKET:
		return c.parseListLiteral()
	case token.LBRACE:
		return c.parseDictLiteral()
	case token.IDENT:
		c.advance()
		if c.at(token.LPAREN) {
			return c.parseFunctionCall(tok)
		}
		enc := c.checkExists(tok.Value, tok.Line, tok.Column)
		return exprVal{typ: decodedBareType(enc), text: tok.Value, ident: tok.Value}
	default:
		c.diag.Fail(diag.Parse, tok.Line, tok.Column, "expected an expression, received "+tok.Kind.String())
		return exprVal{}
	}
}

// parseFunctionCall recognizes "Identifier ( Primary* )" (broadened from the
// grammar's literal Identifier-only argument list so that literal arguments
// such as add(2, 3) — used in this specification's own worked example —
// compile; see DESIGN.md). display_str/display_int/display_flt are
// recognized as built-ins and mapped to the matching C runtime shim.
func (c *Compiler) parseFunctionCall(nameTok *token.Token) exprVal {
	name := nameTok.Value
	if b, ok := builtins[name]; ok {
		args := c.parseCallArgList([]string{b.argType}, name, nameTok.Line, nameTok.Column)
		return exprVal{typ: "void", text: b.cName + "(" + strings.Join(args, ", ") + ")"}
	}
	enc := c.checkExists(name, nameTok.Line, nameTok.Column)
	if sig.Sort(enc) != 'F' {
		c.diag.Fail(diag.Type, nameTok.Line, nameTok.Column, name+" is not callable")
	}
	want := sig.ParseFunctionInputTypes(enc)
	args := c.parseCallArgList(want, name, nameTok.Line, nameTok.Column)
	return exprVal{typ: sig.ParseFunctionReturnType(enc), text: name + "(" + strings.Join(args, ", ") + ")"}
}

// parseListLiteral recognizes "[ Primary (, Primary)* ]", requiring every
// element to share one type, and emits a C compound literal.
func (c *Compiler) parseListLiteral() exprVal {
	open := c.expect(token.LBRACKET)
	var elems []exprVal
	for !c.at(token.RBRACKET) {
		elems = append(elems, c.parsePrimary())
	}
	c.expect(token.RBRACKET)
	if len(elems) == 0 {
		c.diag.Fail(diag.Type, open.Line, open.Column, "list literal must have at least one element")
	}
	elemType := elems[0].typ
	texts := make([]string, len(elems))
	for i, e := range elems {
		c.checkType(elemType, e.typ, open.Line, open.Column, "list element")
		texts[i] = e.text
	}
	text := "(" + c.cType(elemType) + "[]){" + strings.Join(texts, ", ") + "}"
	return exprVal{typ: "[" + elemType + "]", text: text}
}

// parseDictLiteral recognizes "{ Primary : Primary (, Primary : Primary)* }"
// and emits a call into the generic boxed-pointer dictionary runtime shim
// (runtimec's make_dict), since C has no built-in associative container.
func (c *Compiler) parseDictLiteral() exprVal {
	open := c.expect(token.LBRACE)
	var keys, vals []exprVal
	for !c.at(token.RBRACE) {
		k := c.parsePrimary()
		c.expect(token.COLON)
		v := c.parsePrimary()
		keys = append(keys, k)
		vals = append(vals, v)
	}
	c.expect(token.RBRACE)
	if len(keys) == 0 {
		c.diag.Fail(diag.Type, open.Line, open.Column, "dict literal must have at least one pair")
	}
	keyType, valType := keys[0].typ, vals[0].typ
	pairs := make([]string, 0, 2*len(keys))
	for i := range keys {
		c.checkType(keyType, keys[i].typ, open.Line, open.Column, "dict key")
		c.checkType(valType, vals[i].typ, open.Line, open.Column, "dict value")
		pairs = append(pairs, c.boxExpr(keys[i]), c.boxExpr(vals[i]))
	}
	text := "make_dict(" + strconv.Itoa(len(keys)) + ", " + strings.Join(pairs, ", ") + ")"
	return exprVal{typ: "{" + keyType + ":" + valType + "}", text: text}
}

// boxExpr casts a primitive expression to the void* the dict runtime shim's
// variadic signature expects.
func (c *Compiler) boxExpr(v exprVal) string {
	switch v.typ {
	case "flt":
		return "box_flt(" + v.text + ")"
	case "str":
		return "(void*)(" + v.text + ")"
	default:
		return "(void*)(intptr_t)(" + v.text + ")"
	}
}

// decodedBareType decodes an encoded signature to the bare type string used
// throughout expression synthesis (spec.md §3's encodings unwrapped).
func decodedBareType(enc string) string {
	d := sig.Decode(enc)
	switch d.Sort {
	case 'V':
		return d.Type
	case 'U':
		return d.Name
	case 'L':
		return "[" + d.Elem + "]"
	case 'D':
		return "{" + d.Key + ":" + d.Val + "}"
	default:
		return ""
	}
}
