package lexer

import (
	"errors"
	"fmt"
	"pangea/internal/token"
	"sort"
	"strings"
	"unicode"
)

// ErrUnterminatedLiteral is reported as a warning, never as a failure.
var ErrUnterminatedLiteral = errors.New("unterminated string literal")

type Lexer struct {
	input    string
	buffer   strings.Builder
	segments []segment // where each source line starts inside buffer
	warnings []error
}

type segment struct {
	offset int
	line   int
}

func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Warnings returns the recoverable problems found by the last Tokenize call.
func (l *Lexer) Warnings() []error {
	return l.warnings
}

// Tokenize splits the input into tokens. Comments are removed line by line,
// the remaining text is joined with single spaces and then scanned with
// quoted strings kept intact.
func (l *Lexer) Tokenize() []token.Token {
	l.buffer.Reset()
	l.segments = l.segments[:0]
	l.warnings = nil

	for i, line := range strings.Split(l.input, "\n") {
		line = strings.TrimSpace(StripComment(line))
		if line == "" {
			continue
		}
		if l.buffer.Len() > 0 {
			l.buffer.WriteByte(' ')
		}
		l.segments = append(l.segments, segment{offset: l.buffer.Len(), line: i + 1})
		l.buffer.WriteString(line)
	}

	return l.scan(l.buffer.String())
}

func (l *Lexer) scan(src string) []token.Token {
	var tokens []token.Token
	var current strings.Builder
	start := 0
	inString := false

	flush := func() {
		if current.Len() == 0 {
			return
		}
		tokens = append(tokens, token.Token{Literal: current.String(), Line: l.lineAt(start)})
		current.Reset()
	}

	for i, ch := range src {
		switch {
		case inString:
			current.WriteRune(ch)
			if ch == token.QUOTE {
				flush()
				inString = false
			}
		case ch == token.QUOTE:
			flush()
			start = i
			current.WriteRune(ch)
			inString = true
		case unicode.IsSpace(ch):
			flush()
		default:
			if current.Len() == 0 {
				start = i
			}
			current.WriteRune(ch)
		}
	}

	if inString && current.Len() > 0 {
		l.warnings = append(l.warnings,
			fmt.Errorf("%w at line %d: %s", ErrUnterminatedLiteral, l.lineAt(start), current.String()))
	}
	flush()

	return tokens
}

func (l *Lexer) lineAt(offset int) int {
	i := sort.Search(len(l.segments), func(i int) bool {
		return l.segments[i].offset > offset
	})
	if i == 0 {
		return 1
	}
	return l.segments[i-1].line
}

// StripComment removes a trailing comment from one line. A '#' only starts a
// comment at the beginning of the line or after whitespace, so arity
// suffixes such as add#2 survive.
func StripComment(line string) string {
	var out strings.Builder
	inString := false
	escaped := false
	var prev rune
	first := true

	for _, ch := range line {
		switch {
		case escaped:
			escaped = false
		case ch == token.ESCAPE:
			escaped = true
		case ch == token.QUOTE:
			inString = !inString
		case ch == token.COMMENT && !inString:
			if first || unicode.IsSpace(prev) {
				return out.String()
			}
		}
		out.WriteRune(ch)
		prev = ch
		first = false
	}

	return out.String()
}
