package compiler

import (
	"sailc/internal/diag"
	"sailc/internal/sig"
	"sailc/internal/symtab"
	"sailc/internal/token"
)

// parseProgram recognizes Import* (UDT | FunctionDefinition)* start Block,
// per spec.md §4.5's Program production: zero or more UDTs and function
// definitions may appear in any order before the mandatory start block. A
// source that reaches EOF having parsed zero top-level declarations is the
// empty-source boundary case (spec.md §8): it succeeds with only the header
// emitted, rather than failing for want of a start block.
func (c *Compiler) parseProgram() {
	for c.at(token.IMPORT) {
		c.parseImport()
	}

	for !c.at(token.START) {
		switch {
		case c.at(token.IDENT):
			c.parseUDT()
		case c.at(token.LPAREN):
			c.parseFunctionDefinition()
		case c.at(token.EOF):
			if len(c.declarations) == 0 {
				return
			}
			c.diag.Fail(diag.Parse, c.cur.Line, c.cur.Column, "expected 'start' block, reached end of file")
		default:
			c.diag.Fail(diag.Parse, c.cur.Line, c.cur.Column, "expected a UDT, a function definition, or 'start'")
		}
	}

	c.parseStart()
	c.expect(token.EOF)
}

// parseImport consumes "import Name : \"location\"" and records it; actual
// resolution of the referenced file is an external concern (spec.md §4.5).
func (c *Compiler) parseImport() {
	c.expect(token.IMPORT)
	nameTok := c.expect(token.IDENT)
	c.expect(token.COLON)
	c.expect(token.STRING)
	c.declarations = append(c.declarations, "import "+nameTok.Value)
}

// parseUDT recognizes "Name uat { Variable* } ufn { FunctionDefinition* }".
// Attributes are registered in a dedicated scope before any method body is
// parsed, so a method may refer to the UDT's own name in a parameter or
// return type (spec.md §9 "Cyclic references").
func (c *Compiler) parseUDT() {
	nameTok := c.expect(token.IDENT)
	name := nameTok.Value
	if !c.syms.IsGlobalScope() {
		c.diag.Fail(diag.Scope, nameTok.Line, nameTok.Column, "a UDT must be declared at the top level")
	}
	c.checkReservedName(name, nameTok.Line, nameTok.Column)

	// U<name> is registered in the global scope before any method body is
	// parsed, so a method may mention its own enclosing UDT by name
	// (spec.md §9 "Cyclic references").
	if !c.syms.Insert(name, sig.EncodeUDT(name)) {
		c.diag.Fail(diag.Name, nameTok.Line, nameTok.Column, "duplicate declaration: "+name)
	}

	prevUDTBeingDefined := c.curUDT
	c.curUDT = name // visible to checkTypeExists for self-reference, even before c.udts knows about it

	attrs := symtab.New()
	methods := symtab.New()
	var attrOrder []string

	c.expect(token.UAT)
	c.expect(token.LBRACE)
	for !c.at(token.RBRACE) {
		typ, attrName, line, col := c.parseVariable()
		c.checkReservedName(attrName, line, col)
		if !attrs.Insert(attrName, sig.EncodeVariable(typ)) {
			c.diag.Fail(diag.Name, line, col, "duplicate attribute: "+attrName)
		}
		attrOrder = append(attrOrder, attrName)
	}
	c.expect(token.RBRACE)

	if !c.udts.Insert(name, attrs, methods, attrOrder) {
		c.diag.Fail(diag.Name, nameTok.Line, nameTok.Column, "duplicate UDT: "+name)
	}

	// The struct typedef and constructor must precede any method, since
	// every method signature takes a T* receiver.
	c.emitUDT(name, attrOrder, attrs)

	c.expect(token.UFN)
	c.expect(token.LBRACE)

	prevMethods := c.curMethods
	c.curMethods = methods
	for !c.at(token.RBRACE) {
		c.parseFunctionDefinitionInto(methods, true)
	}
	c.curMethods = prevMethods
	c.curUDT = prevUDTBeingDefined

	c.expect(token.RBRACE)
	c.declarations = append(c.declarations, "udt "+name)
}

// parseFunctionDefinition parses a top-level "( fun Name (Variable*) (Type)
// Block )" and registers it in the global scope.
func (c *Compiler) parseFunctionDefinition() {
	tok := c.expect(token.LPAREN)
	if !c.syms.IsGlobalScope() {
		c.diag.Fail(diag.Scope, tok.Line, tok.Column, "a function must be declared at the top level")
	}
	c.parseFunctionDefinitionInto(c.syms, false)
	c.expect(token.RPAREN)
}

// parseFunctionDefinitionInto parses "fun Name (Variable*) (Type) Block"
// (the caller has already consumed any wrapping LPAREN) and registers the
// signature into dest — the global scope, or a UDT's method scope. When
// asMethod is true, the body sees own-accessor attribute access and an
// implicit receiver parameter is emitted in the C signature.
func (c *Compiler) parseFunctionDefinitionInto(dest *symtab.Table, asMethod bool) {
	if asMethod {
		c.expect(token.LPAREN)
	}
	c.expect(token.FUN)
	nameTok := c.expect(token.IDENT)
	name := nameTok.Value
	c.checkReservedName(name, nameTok.Line, nameTok.Column)

	c.expect(token.LPAREN)
	var inputTypes, inputNames []string
	if c.at(token.VOID) {
		c.advance()
	} else {
		for !c.at(token.RPAREN) {
			typ, pname, line, col := c.parseVariable()
			c.checkReservedName(pname, line, col)
			inputTypes = append(inputTypes, typ)
			inputNames = append(inputNames, pname)
		}
	}
	c.expect(token.RPAREN)

	c.expect(token.LPAREN)
	outType, line, col := c.parseType()
	c.expect(token.RPAREN)
	c.checkTypeExists(outType, line, col)

	encoded := sig.EncodeFunction(name, inputTypes, outType)
	if !dest.Insert(name, encoded) {
		c.diag.Fail(diag.Name, nameTok.Line, nameTok.Column, "duplicate declaration: "+name)
	}

	c.emitFunctionPrologue(name, inputTypes, inputNames, outType, asMethod)

	prevOutput := c.curFuncOutput
	c.curFuncOutput = outType
	c.syms.EnterScope()
	for i, pname := range inputNames {
		c.syms.Insert(pname, sig.EncodeVariable(inputTypes[i]))
	}
	c.parseBlockBody()
	c.syms.ExitScope()
	c.curFuncOutput = prevOutput

	if asMethod {
		c.expect(token.RPAREN)
	} else {
		c.declarations = append(c.declarations, "fun "+name)
	}
}

// parseStart recognizes "start Block" and registers its own scope; it emits
// a C `int main()` (spec.md §4.5).
func (c *Compiler) parseStart() {
	c.expect(token.START)
	c.emitLine("int main()")
	c.syms.EnterScope()
	c.parseBlockBody()
	c.syms.ExitScope()
}

// parseBlockBody parses "{ Statement* }" assuming the enclosing scope has
// already been entered by the caller (function body, start block, or a
// branch), and emits the braces with 4-space-indented statements.
func (c *Compiler) parseBlockBody() {
	c.expect(token.LBRACE)
	c.emitLine("{")
	c.indent++
	for !c.at(token.RBRACE) {
		c.parseStatement()
	}
	c.indent--
	c.emitLine("}")
	c.expect(token.RBRACE)
}

// parseBlock parses a Block inside its own fresh scope. No production calls
// it: function, method and start bodies enter their scope themselves before
// parseBlockBody, and tree branches use parseTreeBranchBody.
func (c *Compiler) parseBlock() {
	c.syms.EnterScope()
	c.parseBlockBody()
	c.syms.ExitScope()
}

// parseStatement dispatches Tree | Return | Declaration | "(" Expression ")"
// per spec.md §4.5.
func (c *Compiler) parseStatement() {
	switch {
	case c.at(token.TREE):
		c.parseTree()
	case c.at(token.RETURN):
		c.parseReturn()
	case c.at(token.DEC):
		c.parseDeclaration()
	case c.at(token.LPAREN):
		c.expect(token.LPAREN)
		v := c.parseExpr()
		c.expect(token.RPAREN)
		c.emitLine(v.text + ";")
	default:
		c.diag.Fail(diag.Parse, c.cur.Line, c.cur.Column, "expected a statement, received "+c.cur.Kind.String())
	}
}

// parseTree recognizes "tree ( Branch+ )" and emits a chained
// if/else-if — with no trailing unconditional else, since "if none match,
// control falls through" (spec.md §4.5).
func (c *Compiler) parseTree() {
	c.expect(token.TREE)
	c.expect(token.LPAREN)
	first := true
	for c.at(token.LPAREN) {
		c.parseBranch(first)
		first = false
	}
	c.emit("\n")
	c.expect(token.RPAREN)
}

// parseBranch recognizes "( | Expression | Block )": the condition must be
// bool, and exactly one matching branch executes at runtime. The closing
// brace carries no trailing newline, so a following branch's "else if"
// chains onto the same line (spec.md §8 scenario 6).
func (c *Compiler) parseBranch(first bool) {
	c.expect(token.LPAREN)
	c.expect(token.PIPE)
	condTok := c.peek()
	cond := c.parseExpr()
	c.checkType("bool", cond.typ, condTok.Line, condTok.Column, "tree branch condition")
	c.expect(token.PIPE)

	if first {
		c.emitIndent()
		c.emit("if (")
	} else {
		c.emit(" else if (")
	}
	c.emit(cond.text)
	c.emit(") ")

	c.syms.EnterScope()
	c.parseTreeBranchBody()
	c.syms.ExitScope()

	c.expect(token.RPAREN)
}

// parseTreeBranchBody is parseBlockBody without a trailing newline after
// the closing brace, so the chain can continue " else if (...)" inline.
func (c *Compiler) parseTreeBranchBody() {
	c.expect(token.LBRACE)
	c.emit("{\n")
	c.indent++
	for !c.at(token.RBRACE) {
		c.parseStatement()
	}
	c.indent--
	c.emitIndent()
	c.emit("}")
	c.expect(token.RBRACE)
}

// parseReturn recognizes "return Expression"; the expression's type must
// equal the enclosing function's declared output type.
func (c *Compiler) parseReturn() {
	tok := c.expect(token.RETURN)
	c.emitIndent()
	c.emit("return ")
	v := c.parseExpr()
	c.checkType(c.curFuncOutput, v.typ, tok.Line, tok.Column, "return statement")
	c.emit(v.text)
	c.emit(";\n")
}

// parseDeclaration recognizes "dec Variable = Expression".
func (c *Compiler) parseDeclaration() {
	c.expect(token.DEC)
	typ, name, line, col := c.parseVariable()
	c.checkReservedName(name, line, col)
	c.checkTypeExists(typ, line, col)
	c.expect(token.ASSIGN)
	v := c.parseExpr()
	c.checkType(typ, v.typ, line, col, "declaration of "+name)
	if !c.syms.Insert(name, sig.EncodeVariable(typ)) {
		c.diag.Fail(diag.Name, line, col, "duplicate declaration: "+name)
	}
	c.emitLine(c.cType(typ) + " " + name + " = " + v.text + ";")
}

// parseVariable recognizes "Type Identifier".
func (c *Compiler) parseVariable() (typ, name string, line, col int) {
	typ, line, col = c.parseType()
	nameTok := c.expect(token.IDENT)
	return typ, nameTok.Value, nameTok.Line, nameTok.Column
}

// parseType recognizes a primitive, a UDT name, a list type "[Type]", or a
// dictionary type "{KeyType:ValType}" (spec.md §9/EXPANSION surface syntax).
func (c *Compiler) parseType() (typ string, line, col int) {
	tok := c.peek()
	line, col = tok.Line, tok.Column
	switch tok.Kind {
	case token.VOID:
		c.advance()
		return "void", line, col
	case token.LBRACKET:
		c.advance()
		elem, _, _ := c.parseType()
		c.expect(token.RBRACKET)
		return "[" + elem + "]", line, col
	case token.LBRACE:
		c.advance()
		key, _, _ := c.parseType()
		c.expect(token.COLON)
		val, _, _ := c.parseType()
		c.expect(token.RBRACE)
		return "{" + key + ":" + val + "}", line, col
	case token.IDENT:
		c.advance()
		return tok.Value, line, col
	default:
		c.diag.Fail(diag.Parse, line, col, "expected a type, received "+tok.Kind.String())
		return "", line, col
	}
}
