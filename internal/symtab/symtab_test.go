package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertUniqueWithinFrame(t *testing.T) {
	tab := New()
	assert.True(t, tab.Insert("x", "Vint"))
	assert.False(t, tab.Insert("x", "Vflt"), "duplicate insert in the same frame must fail")
}

func TestLookupShadowing(t *testing.T) {
	tab := New()
	tab.Insert("x", "Vint")
	tab.EnterScope()
	tab.Insert("x", "Vstr")

	v, ok := tab.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, "Vstr", v, "innermost binding must win")

	tab.ExitScope()
	v, ok = tab.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, "Vint", v)
}

func TestLookupAbsent(t *testing.T) {
	tab := New()
	_, ok := tab.Lookup("nope")
	assert.False(t, ok)
}

func TestEnterExitBalance(t *testing.T) {
	tab := New()
	start := tab.Depth()
	tab.EnterScope()
	tab.EnterScope()
	assert.Equal(t, start+2, tab.Depth())
	tab.ExitScope()
	tab.ExitScope()
	assert.Equal(t, start, tab.Depth())
}

func TestExitGlobalScopeForbidden(t *testing.T) {
	tab := New()
	assert.Panics(t, func() { tab.ExitScope() })
}

func TestIsGlobalScope(t *testing.T) {
	tab := New()
	assert.True(t, tab.IsGlobalScope())
	tab.EnterScope()
	assert.False(t, tab.IsGlobalScope())
}
