// Package udttab implements the UDT table (C3): a map from UDT name to its
// two symbol tables (attributes, methods), per spec.md §3, §4.3.
package udttab

import "sailc/internal/symtab"

// Descriptor bundles a UDT's attribute and method scopes. Ownership of both
// scopes belongs to the descriptor (spec.md §9 "Ownership of scopes").
// AttrOrder preserves declaration order, which the attribute scope itself
// (a name->signature map) does not: constructor emission and new-expression
// argument reordering both need it (spec.md §4.5 "Ordering and tie-breaks").
type Descriptor struct {
	Name       string
	Attributes *symtab.Table
	Methods    *symtab.Table
	AttrOrder  []string
}

// Table is a unique-insert map from UDT name to Descriptor.
type Table struct {
	udts map[string]*Descriptor
}

func New() *Table {
	return &Table{udts: map[string]*Descriptor{}}
}

// Insert fails (returns false) if name is already registered.
func (t *Table) Insert(name string, attrs, methods *symtab.Table, attrOrder []string) bool {
	if _, exists := t.udts[name]; exists {
		return false
	}
	t.udts[name] = &Descriptor{Name: name, Attributes: attrs, Methods: methods, AttrOrder: attrOrder}
	return true
}

func (t *Table) Lookup(name string) (*Descriptor, bool) {
	d, ok := t.udts[name]
	return d, ok
}

func (t *Table) Has(name string) bool {
	_, ok := t.udts[name]
	return ok
}
