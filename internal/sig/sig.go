// Package sig implements the signature codec (C5): the canonical encoded
// string form used as every symbol table value, per spec.md §3 and §4.4.
package sig

import "strings"

// EncodeVariable returns "V<type>" for a primitive or UDT-typed variable.
func EncodeVariable(typ string) string {
	return "V" + typ
}

// EncodeList returns "L<elem>" for a list with the given element type.
func EncodeList(elem string) string {
	return "L" + elem
}

// EncodeDict returns "D<key>_<val>" for a dictionary.
func EncodeDict(key, val string) string {
	return "D" + key + "_" + val
}

// EncodeUDT returns "U<name>" for a UDT nominal type.
func EncodeUDT(name string) string {
	return "U" + name
}

// EncodeFunction returns "F<name>(_<in1>_<in2>…)(_<out>)". A zero-input
// function (including one whose only declared input was the "void" marker)
// normalizes to an empty input group, per spec.md §9's open question.
func EncodeFunction(name string, inputs []string, output string) string {
	var b strings.Builder
	b.WriteByte('F')
	b.WriteString(name)
	b.WriteByte('(')
	for _, in := range normalizeVoid(inputs) {
		b.WriteByte('_')
		b.WriteString(in)
	}
	b.WriteString(")(")
	b.WriteByte('_')
	b.WriteString(output)
	b.WriteByte(')')
	return b.String()
}

func normalizeVoid(inputs []string) []string {
	if len(inputs) == 1 && inputs[0] == "void" {
		return nil
	}
	return inputs
}

// Sort reports the leading sort tag of an encoded signature, or 0 if empty.
func Sort(encoded string) byte {
	if encoded == "" {
		return 0
	}
	return encoded[0]
}

// ParseFunctionInputTypes extracts the input type sequence from an
// "F…(...)(...)"-encoded signature.
func ParseFunctionInputTypes(encoded string) []string {
	inputPart, _ := splitFunctionGroups(encoded)
	if inputPart == "" {
		return nil
	}
	return strings.Split(inputPart, "_")[1:]
}

// ParseFunctionReturnType extracts the output type from an
// "F…(...)(...)"-encoded signature.
func ParseFunctionReturnType(encoded string) string {
	_, outputPart := splitFunctionGroups(encoded)
	return strings.TrimPrefix(outputPart, "_")
}

// splitFunctionGroups locates the two parenthesized groups following the
// function name in an F-encoded signature.
func splitFunctionGroups(encoded string) (inputPart, outputPart string) {
	firstOpen := strings.IndexByte(encoded, '(')
	if firstOpen < 0 {
		return "", ""
	}
	firstClose := matchingParen(encoded, firstOpen)
	inputPart = encoded[firstOpen+1 : firstClose]

	secondOpen := firstClose + 1
	if secondOpen >= len(encoded) || encoded[secondOpen] != '(' {
		return inputPart, ""
	}
	secondClose := matchingParen(encoded, secondOpen)
	outputPart = encoded[secondOpen+1 : secondClose]
	return inputPart, outputPart
}

func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(s)
}

// ParseListElem extracts <elem> from an "L<elem>" signature.
func ParseListElem(encoded string) string {
	return strings.TrimPrefix(encoded, "L")
}

// ParseDictTypes extracts <key>, <val> from a "D<key>_<val>" signature.
func ParseDictTypes(encoded string) (key, val string) {
	rest := strings.TrimPrefix(encoded, "D")
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 {
		return rest, ""
	}
	return parts[0], parts[1]
}

// ParseVariableType extracts <type> from a "V<type>" signature.
func ParseVariableType(encoded string) string {
	return strings.TrimPrefix(encoded, "V")
}

// ParseUDTName extracts <name> from a "U<name>" signature.
func ParseUDTName(encoded string) string {
	return strings.TrimPrefix(encoded, "U")
}

// Decoded is a parsed form of any encoded signature shape in spec.md §3,
// used to state and test the codec round-trip law: Encode(Decode(s)) == s.
type Decoded struct {
	Sort   byte
	Type   string   // V
	Elem   string   // L
	Key    string   // D
	Val    string   // D
	Name   string   // F, U
	Inputs []string // F
	Output string   // F
}

// Decode parses any of the five encoded signature shapes.
func Decode(encoded string) Decoded {
	switch Sort(encoded) {
	case 'V':
		return Decoded{Sort: 'V', Type: ParseVariableType(encoded)}
	case 'L':
		return Decoded{Sort: 'L', Elem: ParseListElem(encoded)}
	case 'D':
		key, val := ParseDictTypes(encoded)
		return Decoded{Sort: 'D', Key: key, Val: val}
	case 'U':
		return Decoded{Sort: 'U', Name: ParseUDTName(encoded)}
	case 'F':
		name := encoded[1:strings.IndexByte(encoded, '(')]
		return Decoded{
			Sort:   'F',
			Name:   name,
			Inputs: ParseFunctionInputTypes(encoded),
			Output: ParseFunctionReturnType(encoded),
		}
	default:
		return Decoded{}
	}
}

// Encode reassembles the canonical string for a Decoded value.
func Encode(d Decoded) string {
	switch d.Sort {
	case 'V':
		return EncodeVariable(d.Type)
	case 'L':
		return EncodeList(d.Elem)
	case 'D':
		return EncodeDict(d.Key, d.Val)
	case 'U':
		return EncodeUDT(d.Name)
	case 'F':
		inputs := d.Inputs
		if inputs == nil {
			inputs = []string{"void"}
		}
		return EncodeFunction(d.Name, inputs, d.Output)
	default:
		return ""
	}
}
