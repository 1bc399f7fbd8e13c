package token

import "regexp"

type TokenType string

const (
	// Literals
	NUMBER  TokenType = "NUMBER"  // 42, -3.5, 1e9
	STRING  TokenType = "STRING"  // "foobar"
	BOOLEAN TokenType = "BOOLEAN" // true, false

	// Symbolic names, either registry keys or bare words
	IDENT TokenType = "IDENT" // plus, add#2, foo
)

const (
	QUOTE         = '"'
	COMMENT       = '#'
	ESCAPE        = '\\'
	LITERAL_TRUE  = "true"
	LITERAL_FALSE = "false"
)

type Token struct {
	Literal string
	Line    int // 1-based source line where the token starts
}

// decimal float or integer, the whole token must match
var numberPattern = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

// IsNumber reports whether lit is spelled as a base-10 number literal.
func IsNumber(lit string) bool {
	return numberPattern.MatchString(lit)
}

// IsString reports whether lit is delimited by a pair of double quotes.
func IsString(lit string) bool {
	return len(lit) >= 2 && lit[0] == QUOTE && lit[len(lit)-1] == QUOTE
}

func IsBoolean(lit string) bool {
	return lit == LITERAL_TRUE || lit == LITERAL_FALSE
}

// Classify reports the lexical class of a raw token.
func Classify(lit string) TokenType {
	switch {
	case IsNumber(lit):
		return NUMBER
	case IsString(lit):
		return STRING
	case IsBoolean(lit):
		return BOOLEAN
	default:
		return IDENT
	}
}

// Literals returns the raw text of each token, in order.
func Literals(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Literal
	}
	return out
}
