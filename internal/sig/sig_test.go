package sig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCodecRoundTrip exercises the codec round-trip law from spec.md §8 on
// the encoded form: for a string s built by each encoder, Encode(Decode(s))
// == s, for every signature shape in spec.md §3.
func TestCodecRoundTrip(t *testing.T) {
	cases := []string{
		EncodeVariable("int"),
		EncodeVariable("Point"),
		EncodeList("str"),
		EncodeDict("str", "int"),
		EncodeUDT("Point"),
		EncodeFunction("add", []string{"int", "int"}, "int"),
		EncodeFunction("greet", []string{"void"}, "void"),
		EncodeFunction("noop", nil, "void"),
	}
	for _, encoded := range cases {
		decoded := Decode(encoded)
		require.Equal(t, encoded, Encode(decoded), "round trip broke for %q", encoded)
	}
}

func TestEncodeFunctionNormalizesVoidInput(t *testing.T) {
	assert.Equal(t, "Ff()(_int)", EncodeFunction("f", []string{"void"}, "int"))
	assert.Equal(t, "Ff()(_int)", EncodeFunction("f", nil, "int"))
}

func TestParseFunctionTypes(t *testing.T) {
	enc := EncodeFunction("add", []string{"int", "flt"}, "flt")
	assert.Equal(t, []string{"int", "flt"}, ParseFunctionInputTypes(enc))
	assert.Equal(t, "flt", ParseFunctionReturnType(enc))
}

func TestParseZeroArityFunctionTypes(t *testing.T) {
	enc := EncodeFunction("f", nil, "void")
	assert.Empty(t, ParseFunctionInputTypes(enc))
	assert.Equal(t, "void", ParseFunctionReturnType(enc))
}

func TestSort(t *testing.T) {
	assert.Equal(t, byte('V'), Sort(EncodeVariable("int")))
	assert.Equal(t, byte('L'), Sort(EncodeList("int")))
	assert.Equal(t, byte('D'), Sort(EncodeDict("str", "int")))
	assert.Equal(t, byte('U'), Sort(EncodeUDT("Point")))
	assert.Equal(t, byte('F'), Sort(EncodeFunction("f", nil, "void")))
	assert.Equal(t, byte(0), Sort(""))
}

func TestParseListAndDictElems(t *testing.T) {
	assert.Equal(t, "int", ParseListElem(EncodeList("int")))
	key, val := ParseDictTypes(EncodeDict("str", "int"))
	assert.Equal(t, "str", key)
	assert.Equal(t, "int", val)
}

func TestParseVariableAndUDT(t *testing.T) {
	assert.Equal(t, "int", ParseVariableType(EncodeVariable("int")))
	assert.Equal(t, "Point", ParseUDTName(EncodeUDT("Point")))
}
