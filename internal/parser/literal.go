package parser

import (
	"pangea/internal/object"
	"pangea/internal/token"
	"strconv"
)

// ParseLiteral converts a raw token into a value. The boolean result is
// false when the token is not a literal and should be treated as a name.
func ParseLiteral(lit string) (object.Object, bool) {
	switch token.Classify(lit) {
	case token.NUMBER:
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			// out of float64 range
			return nil, false
		}
		return object.NewNumber(f), true
	case token.STRING:
		return object.NewString(lit[1 : len(lit)-1]), true
	case token.BOOLEAN:
		return object.NewBoolean(lit == token.LITERAL_TRUE), true
	default:
		return nil, false
	}
}

// ParseNumber accepts only complete base-10 literals; partial matches,
// hex floats, inf and nan are rejected, as are values out of float64 range.
func ParseNumber(lit string) (float64, bool) {
	if !token.IsNumber(lit) {
		return 0, false
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
