package parser

import (
	"pangea/internal/lexer"
	"reflect"
	"testing"
)

type arities map[string]int

func (a arities) Arity(name string) (int, bool) {
	n, ok := a[name]
	return n, ok
}

var testArities = arities{
	"plus":  2,
	"times": 2,
	"not":   1,
	"if":    3,
	"input": 0,
}

func TestPhraseLengths(t *testing.T) {
	tests := []struct {
		input    string
		expected []int
	}{
		{"plus 2 3", []int{3, 1, 1}},
		{"plus times 2 3 4", []int{5, 3, 1, 1, 1}},
		{"plus 1 times 2 3", []int{5, 1, 3, 1, 1}},
		{"not not true", []int{3, 2, 1}},
		{"input", []int{1}},
		{"plus input input", []int{3, 1, 1}},
		{"if true plus 1 2 3", []int{6, 1, 3, 1, 1, 1}},
		{"42", []int{1}},
		{"plus 1 2 3", []int{3, 1, 1, 1}},
	}

	for _, tt := range tests {
		tokens := lexer.New(tt.input).Tokenize()
		got := PhraseLengths(tokens, testArities)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("PhraseLengths(%q) expected=%v, got=%v", tt.input, tt.expected, got)
		}
	}
}

func TestPhraseLengthsShortfall(t *testing.T) {
	tests := []struct {
		input    string
		expected []int
	}{
		{"plus", []int{1}},
		{"plus 2", []int{2, 1}},
		{"plus times 2", []int{3, 2, 1}},
		{"if true", []int{2, 1}},
	}

	for _, tt := range tests {
		tokens := lexer.New(tt.input).Tokenize()
		got := PhraseLengths(tokens, testArities)
		if !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("PhraseLengths(%q) expected=%v, got=%v", tt.input, tt.expected, got)
		}
	}
}

func TestPhraseLengthsBounded(t *testing.T) {
	tokens := lexer.New("plus times 1 plus 2 3 not true times 4").Tokenize()
	lengths := PhraseLengths(tokens, testArities)

	for i, tok := range tokens {
		if i+lengths[i] > len(tokens) {
			t.Errorf("phrase at %d (%s) runs past the end: %d", i, tok.Literal, lengths[i])
		}
		arity, ok := testArities.Arity(tok.Literal)
		if !ok {
			if lengths[i] != 1 {
				t.Errorf("non-call %q at %d has length %d", tok.Literal, i, lengths[i])
			}
			continue
		}
		sum, p := 1, i+1
		for j := 0; j < arity && p < len(tokens); j++ {
			sum += lengths[p]
			p += lengths[p]
		}
		if lengths[i] != sum {
			t.Errorf("phrase at %d expected=%d, got=%d", i, sum, lengths[i])
		}
	}

	again := PhraseLengths(tokens, testArities)
	if !reflect.DeepEqual(lengths, again) {
		t.Errorf("segmentation is not deterministic: %v vs %v", lengths, again)
	}
}
