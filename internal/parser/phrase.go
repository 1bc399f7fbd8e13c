package parser

import "pangea/internal/token"

// ArityOracle answers how many argument phrases a name consumes.
type ArityOracle interface {
	Arity(name string) (int, bool)
}

// PhraseLengths computes, for every index, how many tokens the phrase rooted
// there spans. Lengths are filled right to left so each argument length is
// already known when its caller is measured. A call with fewer remaining
// tokens than its arity gets a partial length.
func PhraseLengths(tokens []token.Token, oracle ArityOracle) []int {
	lengths := make([]int, len(tokens))
	for i := len(tokens) - 1; i >= 0; i-- {
		lengths[i] = phraseLength(tokens, lengths, i, oracle)
	}
	return lengths
}

func phraseLength(tokens []token.Token, lengths []int, start int, oracle ArityOracle) int {
	arity, ok := oracle.Arity(tokens[start].Literal)
	if !ok {
		return 1
	}

	total := 1
	p := start + 1
	for i := 0; i < arity && p < len(tokens); i++ {
		total += lengths[p]
		p += lengths[p]
	}
	return total
}
