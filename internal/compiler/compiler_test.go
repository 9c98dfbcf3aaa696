package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sailc/internal/diag"
)

// TestEmptySourceSucceeds is spec.md §8's empty-source boundary case: a
// completely empty file compiles successfully, emitting only the header,
// with no start block required.
func TestEmptySourceSucceeds(t *testing.T) {
	res, err := Compile("empty.sf", "")
	require.NoError(t, err)
	assert.Equal(t, outputHeader, res.Code)
	assert.Empty(t, res.Declarations)
}

// TestDeclarationsAreRecordedInSourceOrder backs --verbose's one-line-per-
// top-level-declaration logging (SPEC_FULL.md §8 scenario 10): imports,
// UDTs, and top-level functions are recorded, but methods are not.
func TestDeclarationsAreRecordedInSourceOrder(t *testing.T) {
	src := `(fun add (int a, int b) (int) {
    return a + b
})
Point uat {
    int x
} ufn {
    (fun identity (void) (int) {
        return own.x
    })
}
start {
    (display_int(add(1, 2)))
}`
	res, err := Compile("decls.sf", src)
	require.NoError(t, err)
	assert.Equal(t, []string{"fun add", "udt Point"}, res.Declarations)
}

// TestHelloWorld is spec.md §8 scenario 1.
func TestHelloWorld(t *testing.T) {
	src := `start {
    (display_str("hello"))
}`
	res, err := Compile("hello.sf", src)
	require.NoError(t, err)
	assert.Contains(t, res.Code, "int main()")
	assert.Contains(t, res.Code, `print_str("hello")`)
}

// TestArithmeticFunction is spec.md §8 scenario 2.
func TestArithmeticFunction(t *testing.T) {
	src := `(fun add (int a, int b) (int) {
    return a + b
})
start {
    dec int x = add(2, 3)
}`
	res, err := Compile("add.sf", src)
	require.NoError(t, err)
	assert.Contains(t, res.Code, "int\nadd(int a, int b)")
	assert.Contains(t, res.Code, "return a + b;")
	assert.Contains(t, res.Code, "int x = add(2, 3);")
}

// TestDeclarationTypeMismatchAborts is spec.md §8 scenario 3: a type error
// aborts compilation with no emitted code.
func TestDeclarationTypeMismatchAborts(t *testing.T) {
	src := `start {
    dec int x = "hi"
}`
	res, err := Compile("mismatch.sf", src)
	require.Error(t, err)
	assert.Empty(t, res.Code)
	ab, ok := err.(*diag.Abort)
	require.True(t, ok)
	assert.Equal(t, diag.Type, ab.Err.Kind)
}

// TestDuplicateDeclarationIsNameError is spec.md §8 scenario 4.
func TestDuplicateDeclarationIsNameError(t *testing.T) {
	src := `start {
    dec int x = 1
    dec int x = 2
}`
	_, err := Compile("dup.sf", src)
	require.Error(t, err)
	ab, ok := err.(*diag.Abort)
	require.True(t, ok)
	assert.Equal(t, diag.Name, ab.Err.Kind)
}

// TestUDTRoundTrip is spec.md §8 scenario 5: a UDT with an attribute scope
// and a method, constructed and called from start.
func TestUDTRoundTrip(t *testing.T) {
	src := `Point uat {
    int x
    int y
} ufn {
    (fun sum (void) (int) {
        return own.x + own.y
    })
}
start {
    dec Point p = new Point { x: 1, y: 2 }
    dec int total = p...sum()
}`
	res, err := Compile("point.sf", src)
	require.NoError(t, err)
	assert.Contains(t, res.Code, "typedef struct _Point_")
	assert.Contains(t, res.Code, "construct_Point")
	assert.Contains(t, res.Code, "sum(Point* _own_)")
	assert.Contains(t, res.Code, "sum(p)")
}

// TestBranchSemantics is spec.md §8 scenario 6: a tree of two branches
// emits a chained if/else-if with no trailing unconditional else.
func TestBranchSemantics(t *testing.T) {
	src := `start {
    tree (
        (|true| {
            (display_str("a"))
        })
        (|false| {
            (display_str("b"))
        })
    )
}`
	res, err := Compile("tree.sf", src)
	require.NoError(t, err)
	assert.Contains(t, res.Code, `if (1) {`)
	assert.Contains(t, res.Code, `print_str("a")`)
	assert.Contains(t, res.Code, `} else if (0) {`)
	assert.Contains(t, res.Code, `print_str("b")`)
	assert.NotContains(t, res.Code, "else {\n", "tree emits no trailing unconditional else")
}

// TestListLiteralDeclaration is SPEC_FULL.md §8's list-literal expansion
// scenario: lists lower to a C compound literal behind a pointer, like UDTs.
func TestListLiteralDeclaration(t *testing.T) {
	src := `start {
    dec [int] xs = [1, 2, 3]
}`
	res, err := Compile("list.sf", src)
	require.NoError(t, err)
	assert.Contains(t, res.Code, "int* xs = (int[]){1, 2, 3};")
}

// TestDictLiteralDeclaration exercises the dict-literal runtime shim lowering.
func TestDictLiteralDeclaration(t *testing.T) {
	src := `start {
    dec {str:int} scores = { "a": 1, "b": 2 }
}`
	res, err := Compile("dict.sf", src)
	require.NoError(t, err)
	assert.Contains(t, res.Code, "make_dict(2,")
	assert.Contains(t, res.Code, `(void*)("a")`)
}

// TestUnknownIdentifierIsNameError exercises checkExists's failure path.
func TestUnknownIdentifierIsNameError(t *testing.T) {
	src := `start {
    dec int x = y
}`
	_, err := Compile("undef.sf", src)
	require.Error(t, err)
	ab, ok := err.(*diag.Abort)
	require.True(t, ok)
	assert.Equal(t, diag.Name, ab.Err.Kind)
}

// TestReservedNameRedeclarationFails exercises checkReservedName: a
// declaration cannot reuse a primitive type's name as an identifier.
func TestReservedNameRedeclarationFails(t *testing.T) {
	src := `start {
    dec int int = 1
}`
	_, err := Compile("reserved.sf", src)
	require.Error(t, err)
	ab, ok := err.(*diag.Abort)
	require.True(t, ok)
	assert.Equal(t, diag.Reserved, ab.Err.Kind)
}

// TestOwnAccessOutsideMethodIsScopeError exercises the own-accessor's guard.
func TestOwnAccessOutsideMethodIsScopeError(t *testing.T) {
	src := `start {
    dec int x = own.y
}`
	_, err := Compile("own.sf", src)
	require.Error(t, err)
	ab, ok := err.(*diag.Abort)
	require.True(t, ok)
	assert.Equal(t, diag.Scope, ab.Err.Kind)
}
