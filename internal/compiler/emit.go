package compiler

import (
	"strings"

	"sailc/internal/symtab"
)

// emitFunctionPrologue writes the C declaration line(s) for a function or
// method, split return-type-then-signature across two lines in the style
// this compiler's C output has always used. The body ("{ ... }") is emitted
// separately, immediately after, by parseBlockBody.
func (c *Compiler) emitFunctionPrologue(name string, inputTypes, inputNames []string, outType string, asMethod bool) {
	params := make([]string, 0, len(inputTypes)+1)
	if asMethod {
		params = append(params, c.curUDT+"* _own_")
	}
	for i, t := range inputTypes {
		params = append(params, c.cType(t)+" "+inputNames[i])
	}

	c.emitLine(c.cType(outType))
	c.emitLine(name + "(" + strings.Join(params, ", ") + ")")
}

// emitUDT writes the struct typedef and malloc-based constructor for a UDT,
// in declared attribute order (spec.md §4.5). It is called once the
// attributes are known and before any method is parsed; method bodies are
// then emitted inline, after it, as parseFunctionDefinitionInto parses them.
func (c *Compiler) emitUDT(name string, attrOrder []string, attrs *symtab.Table) {
	c.emitLine("typedef struct _" + name + "_ {")
	c.indent++
	for _, attrName := range attrOrder {
		enc, _ := attrs.Lookup(attrName)
		c.emitLine(c.cType(stripVSort(enc)) + " " + attrName + ";")
	}
	c.indent--
	c.emitLine("} " + name + ";")
	c.emitLine("")

	params := make([]string, len(attrOrder))
	for i, attrName := range attrOrder {
		enc, _ := attrs.Lookup(attrName)
		params[i] = c.cType(stripVSort(enc)) + " " + attrName + "_"
	}
	c.emitLine(name + "*")
	c.emitLine("construct_" + name + "(" + strings.Join(params, ", ") + ")")
	c.emitLine("{")
	c.indent++
	c.emitLine(name + "* self = (" + name + "*)malloc(sizeof(" + name + "));")
	for _, attrName := range attrOrder {
		c.emitLine("self->" + attrName + " = " + attrName + "_;")
	}
	c.emitLine("return self;")
	c.indent--
	c.emitLine("}")
	c.emitLine("")
}

// stripVSort strips the "V" sort tag an attribute's encoded signature always
// carries (attributes are always plain variables, never functions/lists of
// functions), returning the bare type string emitUDT's cType conversions
// expect.
func stripVSort(enc string) string {
	if len(enc) > 0 && enc[0] == 'V' {
		return enc[1:]
	}
	return enc
}
