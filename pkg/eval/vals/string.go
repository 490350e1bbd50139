package vals

import (
	"strconv"
	"strings"
)

// Stringer wraps the String method.
type Stringer interface {
	// Stringer converts the receiver to a string.
	String() string
}

// ToString converts a value to the string printed by Print and used when
// concatenating. Strings are not quoted, even when nested in pairs.
func ToString(v any) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case int64:
		return strconv.FormatInt(v, 10)
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case Pair:
		var sb strings.Builder
		writePair(&sb, v)
		return sb.String()
	case Stringer:
		return v.String()
	default:
		return "<" + Kind(v) + ">"
	}
}

func writePair(sb *strings.Builder, p Pair) {
	sb.WriteByte('(')
	sb.WriteString(ToString(p.First))
	sb.WriteString(", ")
	sb.WriteString(ToString(p.Second))
	sb.WriteByte(')')
}
