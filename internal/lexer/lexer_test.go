package lexer

import (
	"errors"
	"pangea/internal/token"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"hello world", []string{"hello", "world"}},
		{"plus 2 3", []string{"plus", "2", "3"}},
		{`print "hello world"`, []string{"print", `"hello world"`}},
		{`plus "hello" " world"`, []string{"plus", `"hello"`, `" world"`}},
		{"hello # this is a comment\nworld", []string{"hello", "world"}},
		{"add#2 5 3 # sum", []string{"add#2", "5", "3"}},
		{"# whole line\n\n   \nplus 1 2", []string{"plus", "1", "2"}},
		{`println "a # not a comment"`, []string{"println", `"a # not a comment"`}},
		{"\tplus\t1   2\r\n", []string{"plus", "1", "2"}},
		{`abc"def"ghi`, []string{"abc", `"def"`, "ghi"}},
		{`""`, []string{`""`}},
		{"plus 1\n2", []string{"plus", "1", "2"}},
		{"", nil},
		{"   # nothing here", nil},
	}

	for _, tt := range tests {
		l := New(tt.input)
		got := token.Literals(l.Tokenize())
		if len(got) == 0 && len(tt.expected) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("Tokenize(%q) wrong. expected=%q, got=%q", tt.input, tt.expected, got)
		}
		if len(l.Warnings()) != 0 {
			t.Errorf("Tokenize(%q) unexpected warnings: %v", tt.input, l.Warnings())
		}
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	l := New(`println "never closed`)
	got := token.Literals(l.Tokenize())

	expected := []string{"println", `"never closed`}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("expected=%q, got=%q", expected, got)
	}

	warnings := l.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if !errors.Is(warnings[0], ErrUnterminatedLiteral) {
		t.Errorf("expected ErrUnterminatedLiteral, got %v", warnings[0])
	}
}

func TestTokenLines(t *testing.T) {
	l := New("plus\n\n# comment\n  2\n3")
	tokens := l.Tokenize()

	expected := []int{1, 4, 5}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, tok := range tokens {
		if tok.Line != expected[i] {
			t.Errorf("token %q: expected line %d, got %d", tok.Literal, expected[i], tok.Line)
		}
	}
}

func TestStripComment(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plus 1 2 # add them", "plus 1 2 "},
		{"# only a comment", ""},
		{"add#2 5 3", "add#2 5 3"},
		{"add#2 5 3 # sum", "add#2 5 3 "},
		{`"# inside" 1`, `"# inside" 1`},
		{`"say \"hi\" # still inside" # out`, `"say \"hi\" # still inside" `},
		{`a \# b`, `a \# b`},
		{"x\t# tab comment", "x\t"},
		{"##", ""},
		{"a##b", "a##b"},
	}

	for _, tt := range tests {
		if got := StripComment(tt.input); got != tt.expected {
			t.Errorf("StripComment(%q) expected=%q, got=%q", tt.input, tt.expected, got)
		}
	}
}
