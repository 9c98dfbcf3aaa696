package udttab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sailc/internal/symtab"
)

func TestInsertUnique(t *testing.T) {
	tab := New()
	attrs, methods := symtab.New(), symtab.New()
	assert.True(t, tab.Insert("Point", attrs, methods, []string{"x", "y"}))
	assert.False(t, tab.Insert("Point", attrs, methods, nil), "duplicate UDT name must fail")
}

func TestLookupAndHas(t *testing.T) {
	tab := New()
	attrs, methods := symtab.New(), symtab.New()
	attrs.Insert("x", "Vint")
	tab.Insert("Point", attrs, methods, []string{"x"})

	assert.True(t, tab.Has("Point"))
	assert.False(t, tab.Has("Missing"))

	desc, ok := tab.Lookup("Point")
	assert.True(t, ok)
	assert.Equal(t, "Point", desc.Name)
	assert.Equal(t, []string{"x"}, desc.AttrOrder)

	_, ok = tab.Lookup("Missing")
	assert.False(t, ok)
}
